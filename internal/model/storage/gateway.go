package storage

import (
	"context"

	"max.ks1230/fintrack/internal/entity/record"
	"max.ks1230/fintrack/internal/entity/user"
)

// Gateway is the full persistence surface. Services depend on narrow views
// of it; this union exists so main can swap implementations.
type Gateway interface {
	CreateUser(ctx context.Context, u user.User) (user.User, error)
	GetUserByUsername(ctx context.Context, username string) (user.User, error)

	CreateRecord(ctx context.Context, rec record.Record) (record.Record, error)
	CreateRecords(ctx context.Context, recs []record.Record) ([]record.Record, error)
	GetRecordByID(ctx context.Context, id, ownerID int64) (record.Record, error)
	GetUserRecords(ctx context.Context, ownerID int64, typeFilter *record.OperationType) ([]record.Record, error)
	UpdateRecord(ctx context.Context, rec record.Record) (record.Record, error)
	DeleteRecord(ctx context.Context, id, ownerID int64) error
}

var (
	_ Gateway = (*PostgresStorage)(nil)
	_ Gateway = (*InMemStorage)(nil)
)
