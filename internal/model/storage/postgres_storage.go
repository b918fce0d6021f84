package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"max.ks1230/fintrack/internal/entity/record"
	"max.ks1230/fintrack/internal/entity/user"
	"max.ks1230/fintrack/internal/logger"
	"max.ks1230/fintrack/internal/model/customerr"
)

const dsnTemplate = "user=%s password=%s host=%s dbname=%s sslmode=disable"

const uniqueViolation = "23505"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var recordColumns = []string{"id", "created_at", "amount", "type_operation", "description", "owner_id"}

type config interface {
	Host() string
	Username() string
	Password() string
	Database() string
}

type PostgresStorage struct {
	db *sql.DB
}

func NewPostgresStorage(config config) (*PostgresStorage, error) {
	db, err := sql.Open("postgres", fmt.Sprintf(dsnTemplate,
		config.Username(),
		config.Password(),
		config.Host(),
		config.Database()))
	if err != nil {
		return nil, errors.Wrap(err, "cannot connect to database")
	}
	if err = db.Ping(); err != nil {
		return nil, errors.Wrap(err, "cannot connect to database")
	}
	return &PostgresStorage{db}, nil
}

func (s *PostgresStorage) CreateUser(ctx context.Context, u user.User) (user.User, error) {
	query := psql.Insert("users").
		Columns("email", "username", "password_hash").
		Values(u.Email, u.Username, u.PasswordHash).
		Suffix("RETURNING id")

	err := query.RunWith(s.db).QueryRowContext(ctx).Scan(&u.ID)
	if err != nil {
		return user.User{}, errors.Wrap(asConflict(err), "create user")
	}
	return u, nil
}

func (s *PostgresStorage) GetUserByUsername(ctx context.Context, username string) (user.User, error) {
	query := psql.Select("id", "email", "username", "password_hash").
		From("users").
		Where(sq.Eq{"username": username})

	var u user.User
	err := query.RunWith(s.db).QueryRowContext(ctx).
		Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return user.User{}, &customerr.NotFoundError{Kind: "user", Key: username}
	}
	if err != nil {
		return user.User{}, errors.Wrap(err, "get user")
	}
	return u, nil
}

func (s *PostgresStorage) CreateRecord(ctx context.Context, rec record.Record) (record.Record, error) {
	err := insertRecord(ctx, s.db, &rec)
	if err != nil {
		return record.Record{}, errors.Wrap(err, "create record")
	}
	return rec, nil
}

// CreateRecords inserts all records in a single transaction. There is no
// partial insert: either every row lands or none does.
func (s *PostgresStorage) CreateRecords(ctx context.Context, recs []record.Record) ([]record.Record, error) {
	if len(recs) == 0 {
		return []record.Record{}, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create records")
	}
	defer func() {
		txErr := tx.Rollback()
		if txErr != nil && !errors.Is(txErr, sql.ErrTxDone) {
			logger.Error("error when transaction rollback", zap.Error(txErr))
		}
	}()

	res := make([]record.Record, 0, len(recs))
	for _, rec := range recs {
		if err = insertRecord(ctx, tx, &rec); err != nil {
			return nil, errors.Wrap(err, "create records")
		}
		res = append(res, rec)
	}
	if err = tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "create records")
	}
	return res, nil
}

func insertRecord(ctx context.Context, runner sq.BaseRunner, rec *record.Record) error {
	query := psql.Insert("records").
		Columns("created_at", "amount", "type_operation", "description", "owner_id").
		Values(rec.CreatedAt, rec.Amount, rec.TypeOperation, rec.Description, rec.OwnerID).
		Suffix("RETURNING id")

	return query.RunWith(runner).QueryRowContext(ctx).Scan(&rec.ID)
}

// GetRecordByID filters on (id, owner_id) jointly, never id alone, so the
// ownership check doubles as the existence check.
func (s *PostgresStorage) GetRecordByID(ctx context.Context, id, ownerID int64) (record.Record, error) {
	query := psql.Select(recordColumns...).
		From("records").
		Where(sq.Eq{"id": id, "owner_id": ownerID})

	var rec record.Record
	err := query.RunWith(s.db).QueryRowContext(ctx).
		Scan(&rec.ID, &rec.CreatedAt, &rec.Amount, &rec.TypeOperation, &rec.Description, &rec.OwnerID)
	if errors.Is(err, sql.ErrNoRows) {
		return record.Record{}, recordNotFound(id)
	}
	if err != nil {
		return record.Record{}, errors.Wrap(err, "get record")
	}
	return rec, nil
}

func (s *PostgresStorage) GetUserRecords(ctx context.Context, ownerID int64, typeFilter *record.OperationType) ([]record.Record, error) {
	query := psql.Select(recordColumns...).
		From("records").
		Where(sq.Eq{"owner_id": ownerID}).
		OrderBy("id")
	if typeFilter != nil {
		query = query.Where(sq.Eq{"type_operation": *typeFilter})
	}

	rows, err := query.RunWith(s.db).QueryContext(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "get records")
	}
	defer func() {
		rowErr := rows.Close()
		if rowErr != nil {
			logger.Error("error closing rows", zap.Error(rowErr))
		}
	}()

	recs := make([]record.Record, 0)
	for rows.Next() {
		var rec record.Record
		err = rows.Scan(&rec.ID, &rec.CreatedAt, &rec.Amount, &rec.TypeOperation, &rec.Description, &rec.OwnerID)
		if err != nil {
			return nil, errors.Wrap(err, "get records")
		}
		recs = append(recs, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "get records")
	}

	return recs, nil
}

// UpdateRecord replaces all mutable fields of the record, full replace
// rather than partial merge.
func (s *PostgresStorage) UpdateRecord(ctx context.Context, rec record.Record) (record.Record, error) {
	query := psql.Update("records").
		Set("created_at", rec.CreatedAt).
		Set("amount", rec.Amount).
		Set("type_operation", rec.TypeOperation).
		Set("description", rec.Description).
		Where(sq.Eq{"id": rec.ID, "owner_id": rec.OwnerID})

	res, err := query.RunWith(s.db).ExecContext(ctx)
	if err != nil {
		return record.Record{}, errors.Wrap(err, "update record")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return record.Record{}, errors.Wrap(err, "update record")
	}
	if affected == 0 {
		return record.Record{}, recordNotFound(rec.ID)
	}
	return rec, nil
}

func (s *PostgresStorage) DeleteRecord(ctx context.Context, id, ownerID int64) error {
	query := psql.Delete("records").
		Where(sq.Eq{"id": id, "owner_id": ownerID})

	res, err := query.RunWith(s.db).ExecContext(ctx)
	if err != nil {
		return errors.Wrap(err, "delete record")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "delete record")
	}
	if affected == 0 {
		return recordNotFound(id)
	}
	return nil
}

func (s *PostgresStorage) Close() error {
	return s.db.Close()
}

func asConflict(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return &customerr.ConflictError{Field: conflictField(pqErr.Constraint)}
	}
	return err
}

// conflictField maps a unique-constraint name like users_email_key to the
// field callers know about.
func conflictField(constraint string) string {
	switch constraint {
	case "users_email_key":
		return "email"
	case "users_username_key":
		return "username"
	}
	return constraint
}

func recordNotFound(id int64) error {
	return &customerr.NotFoundError{Kind: "record", Key: strconv.FormatInt(id, 10)}
}
