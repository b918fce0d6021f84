package storage

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"max.ks1230/fintrack/internal/entity/record"
	"max.ks1230/fintrack/internal/entity/user"
	"max.ks1230/fintrack/internal/model/customerr"
)

func testUser(email, username string) user.User {
	return user.User{Email: email, Username: username, PasswordHash: "$2a$10$hash"}
}

func testRecord(ownerID int64) record.Record {
	return record.Record{
		CreatedAt:     time.Now(),
		Amount:        decimal.NewFromInt(10),
		TypeOperation: record.Income,
		Description:   "salary",
		OwnerID:       ownerID,
	}
}

func Test_OnCreateUser_ShouldAssignSequentialIDs(t *testing.T) {
	ctx := context.Background()
	s := NewInMemStorage()

	first, err := s.CreateUser(ctx, testUser("a@example.com", "a"))
	require.NoError(t, err)
	second, err := s.CreateUser(ctx, testUser("b@example.com", "b"))
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)
}

func Test_OnCreateUser_ShouldConflictOnDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	s := NewInMemStorage()

	_, err := s.CreateUser(ctx, testUser("a@example.com", "a"))
	require.NoError(t, err)

	_, err = s.CreateUser(ctx, testUser("a@example.com", "b"))

	var conflict *customerr.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "email", conflict.Field)
}

func Test_OnGetUserByUsername_ShouldFailWhenAbsent(t *testing.T) {
	ctx := context.Background()
	s := NewInMemStorage()

	_, err := s.GetUserByUsername(ctx, "nobody")

	var notFound *customerr.NotFoundError
	assert.True(t, errors.As(err, &notFound))
}

func Test_OnGetRecordByID_ShouldFilterByOwnerJointly(t *testing.T) {
	ctx := context.Background()
	s := NewInMemStorage()

	created, err := s.CreateRecord(ctx, testRecord(1))
	require.NoError(t, err)

	_, err = s.GetRecordByID(ctx, created.ID, 2)

	var notFound *customerr.NotFoundError
	assert.True(t, errors.As(err, &notFound))
}

func Test_OnGetUserRecords_ShouldKeepStableOrder(t *testing.T) {
	ctx := context.Background()
	s := NewInMemStorage()

	for i := 0; i < 5; i++ {
		_, err := s.CreateRecord(ctx, testRecord(1))
		require.NoError(t, err)
	}

	first, err := s.GetUserRecords(ctx, 1, nil)
	require.NoError(t, err)
	second, err := s.GetUserRecords(ctx, 1, nil)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	require.Len(t, first, 5)
}

func Test_OnCreateRecords_ShouldInsertAll(t *testing.T) {
	ctx := context.Background()
	s := NewInMemStorage()

	recs, err := s.CreateRecords(ctx, []record.Record{testRecord(1), testRecord(1), testRecord(2)})
	require.NoError(t, err)
	require.Len(t, recs, 3)

	mine, err := s.GetUserRecords(ctx, 1, nil)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}

func Test_OnUpdateRecord_ShouldFailForForeignOwner(t *testing.T) {
	ctx := context.Background()
	s := NewInMemStorage()

	created, err := s.CreateRecord(ctx, testRecord(1))
	require.NoError(t, err)

	created.OwnerID = 2
	_, err = s.UpdateRecord(ctx, created)

	var notFound *customerr.NotFoundError
	assert.True(t, errors.As(err, &notFound))
}

func Test_OnDeleteRecord_ShouldRemoveOnlyOnce(t *testing.T) {
	ctx := context.Background()
	s := NewInMemStorage()

	created, err := s.CreateRecord(ctx, testRecord(1))
	require.NoError(t, err)

	require.NoError(t, s.DeleteRecord(ctx, created.ID, 1))

	err = s.DeleteRecord(ctx, created.ID, 1)
	var notFound *customerr.NotFoundError
	assert.True(t, errors.As(err, &notFound))
}
