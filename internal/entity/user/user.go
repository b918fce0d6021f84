package user

// User is a registered account as stored in the persistence layer.
// The password hash never leaves the service boundary.
type User struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
}

// Identity is the public part of a user. It is what gets embedded
// into issued tokens and returned to API callers.
type Identity struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

func (u User) Identity() Identity {
	return Identity{
		ID:       u.ID,
		Email:    u.Email,
		Username: u.Username,
	}
}
