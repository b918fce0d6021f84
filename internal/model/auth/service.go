package auth

import (
	"context"
	"net/mail"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"max.ks1230/fintrack/internal/entity/user"
	"max.ks1230/fintrack/internal/model/customerr"
)

// TokenType is the fixed scheme label returned with every issued token.
const TokenType = "bearer"

type userStorage interface {
	CreateUser(ctx context.Context, u user.User) (user.User, error)
	GetUserByUsername(ctx context.Context, username string) (user.User, error)
}

type config interface {
	Secret() string
	TokenTTL() time.Duration
}

type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type Service struct {
	storage userStorage
	secret  []byte
	ttl     time.Duration
}

func NewService(config config, storage userStorage) *Service {
	return &Service{
		storage: storage,
		secret:  []byte(config.Secret()),
		ttl:     config.TokenTTL(),
	}
}

func HashPassword(raw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.Wrap(err, "hash password")
	}
	return string(hash), nil
}

// VerifyPassword reports whether raw matches the stored hash. It is false
// on any mismatch, malformed hashes included.
func VerifyPassword(raw, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(raw)) == nil
}

type tokenClaims struct {
	User user.Identity `json:"user"`
	jwt.RegisteredClaims
}

// IssueToken signs a token embedding the user's public identity. The
// identity is a snapshot: it is trusted on validation without a storage
// round trip, so field changes only show up after re-authentication.
func (s *Service) IssueToken(u user.User) (Token, error) {
	now := time.Now()
	claims := tokenClaims{
		User: u.Identity(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			Subject:   strconv.FormatInt(u.ID, 10),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return Token{}, errors.Wrap(err, "issue token")
	}
	return Token{AccessToken: signed, TokenType: TokenType}, nil
}

func (s *Service) ValidateToken(token string) (user.Identity, error) {
	parsed, err := jwt.ParseWithClaims(token, &tokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return user.Identity{}, customerr.ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || claims.User.ID == 0 || claims.User.Username == "" {
		return user.Identity{}, customerr.ErrInvalidToken
	}
	return claims.User, nil
}

// Register hashes the password, persists the user and issues a token in one
// go. Duplicate email or username surfaces as a ConflictError from storage.
func (s *Service) Register(ctx context.Context, email, username, password string) (Token, error) {
	if _, err := mail.ParseAddress(email); err != nil {
		return Token{}, &customerr.ValidationError{Msg: "email is not valid"}
	}
	if username == "" || password == "" {
		return Token{}, &customerr.ValidationError{Msg: "username and password are required"}
	}

	hash, err := HashPassword(password)
	if err != nil {
		return Token{}, errors.Wrap(err, "register")
	}

	u, err := s.storage.CreateUser(ctx, user.User{
		Email:        email,
		Username:     username,
		PasswordHash: hash,
	})
	if err != nil {
		return Token{}, errors.Wrap(err, "register")
	}
	return s.IssueToken(u)
}

// Login deliberately answers unknown-user and wrong-password the same way.
func (s *Service) Login(ctx context.Context, username, password string) (Token, error) {
	u, err := s.storage.GetUserByUsername(ctx, username)
	if err != nil {
		return Token{}, customerr.ErrInvalidCredentials
	}
	if !VerifyPassword(password, u.PasswordHash) {
		return Token{}, customerr.ErrInvalidCredentials
	}
	return s.IssueToken(u)
}
