package records

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"max.ks1230/fintrack/internal/entity/record"
	"max.ks1230/fintrack/internal/model/customerr"
	"max.ks1230/fintrack/internal/model/storage"
)

const (
	ownerA int64 = 1
	ownerB int64 = 2
)

func income(amount int64, createdAt time.Time) record.Record {
	return record.Record{
		CreatedAt:     createdAt,
		Amount:        decimal.NewFromInt(amount),
		TypeOperation: record.Income,
		Description:   "salary",
	}
}

func expense(amount int64, createdAt time.Time) record.Record {
	return record.Record{
		CreatedAt:     createdAt,
		Amount:        decimal.NewFromInt(amount),
		TypeOperation: record.Expenses,
		Description:   "groceries",
	}
}

func Test_OnCreate_ShouldDefaultCreatedAtAndKeepOwner(t *testing.T) {
	ctx := context.Background()
	service := NewService(storage.NewInMemStorage())

	rec, err := service.Create(ctx, ownerA, record.Record{
		Amount:        decimal.RequireFromString("100.00"),
		TypeOperation: record.Income,
		Description:   "salary",
	})
	require.NoError(t, err)

	assert.NotZero(t, rec.ID)
	assert.Equal(t, ownerA, rec.OwnerID)
	assert.WithinDuration(t, time.Now(), rec.CreatedAt, time.Minute)
}

func Test_OnCreate_ShouldNormalizeEmptyDescription(t *testing.T) {
	ctx := context.Background()
	service := NewService(storage.NewInMemStorage())

	rec, err := service.Create(ctx, ownerA, record.Record{
		Amount:        decimal.RequireFromString("100.00"),
		TypeOperation: record.Income,
		Description:   "",
	})
	require.NoError(t, err)
	assert.Equal(t, NoDescription, rec.Description)
}

func Test_OnCreate_ShouldNormalizePlaceholderDescription(t *testing.T) {
	ctx := context.Background()
	service := NewService(storage.NewInMemStorage())

	rec, err := service.Create(ctx, ownerA, record.Record{
		Amount:        decimal.NewFromInt(1),
		TypeOperation: record.Expenses,
		Description:   "string",
	})
	require.NoError(t, err)
	assert.Equal(t, NoDescription, rec.Description)
}

func Test_OnCreate_ShouldRejectNegativeAmount(t *testing.T) {
	ctx := context.Background()
	service := NewService(storage.NewInMemStorage())

	_, err := service.Create(ctx, ownerA, record.Record{
		Amount:        decimal.NewFromInt(-1),
		TypeOperation: record.Income,
	})

	var validation *customerr.ValidationError
	assert.True(t, errors.As(err, &validation))
}

func Test_OnCreate_ShouldRejectUnknownOperationType(t *testing.T) {
	ctx := context.Background()
	service := NewService(storage.NewInMemStorage())

	_, err := service.Create(ctx, ownerA, record.Record{
		Amount:        decimal.NewFromInt(1),
		TypeOperation: "transfer",
	})

	var validation *customerr.ValidationError
	assert.True(t, errors.As(err, &validation))
}

func Test_OnGet_ShouldBeIdempotent(t *testing.T) {
	ctx := context.Background()
	service := NewService(storage.NewInMemStorage())

	created, err := service.Create(ctx, ownerA, income(100, time.Now()))
	require.NoError(t, err)

	first, err := service.Get(ctx, created.ID, ownerA)
	require.NoError(t, err)
	second, err := service.Get(ctx, created.ID, ownerA)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func Test_OnGet_ShouldHideForeignRecords(t *testing.T) {
	ctx := context.Background()
	service := NewService(storage.NewInMemStorage())

	created, err := service.Create(ctx, ownerB, income(100, time.Now()))
	require.NoError(t, err)

	_, err = service.Get(ctx, created.ID, ownerA)

	var notFound *customerr.NotFoundError
	assert.True(t, errors.As(err, &notFound))
}

func Test_OnList_ShouldIsolateOwners(t *testing.T) {
	ctx := context.Background()
	service := NewService(storage.NewInMemStorage())

	_, err := service.Create(ctx, ownerA, income(100, time.Now()))
	require.NoError(t, err)
	_, err = service.Create(ctx, ownerB, expense(50, time.Now()))
	require.NoError(t, err)

	recs, err := service.List(ctx, ownerA, nil)
	require.NoError(t, err)

	require.Len(t, recs, 1)
	assert.Equal(t, ownerA, recs[0].OwnerID)
}

func Test_OnList_ShouldFilterByOperationType(t *testing.T) {
	ctx := context.Background()
	service := NewService(storage.NewInMemStorage())

	_, err := service.Create(ctx, ownerA, income(100, time.Now()))
	require.NoError(t, err)
	_, err = service.Create(ctx, ownerA, expense(50, time.Now()))
	require.NoError(t, err)

	filter := record.Expenses
	recs, err := service.List(ctx, ownerA, &filter)
	require.NoError(t, err)

	require.Len(t, recs, 1)
	assert.Equal(t, record.Expenses, recs[0].TypeOperation)
}

func Test_OnUpdate_ShouldReplaceAllFields(t *testing.T) {
	ctx := context.Background()
	service := NewService(storage.NewInMemStorage())

	created, err := service.Create(ctx, ownerA, income(100, time.Now()))
	require.NoError(t, err)

	updated, err := service.Update(ctx, created.ID, ownerA, record.Record{
		CreatedAt:     created.CreatedAt,
		Amount:        decimal.RequireFromString("42.50"),
		TypeOperation: record.Expenses,
		Description:   "rent",
	})
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.True(t, updated.Amount.Equal(decimal.RequireFromString("42.50")))
	assert.Equal(t, record.Expenses, updated.TypeOperation)
	assert.Equal(t, "rent", updated.Description)

	stored, err := service.Get(ctx, created.ID, ownerA)
	require.NoError(t, err)
	assert.Equal(t, updated, stored)
}

func Test_OnUpdate_ShouldHideForeignRecords(t *testing.T) {
	ctx := context.Background()
	service := NewService(storage.NewInMemStorage())

	created, err := service.Create(ctx, ownerB, income(100, time.Now()))
	require.NoError(t, err)

	_, err = service.Update(ctx, created.ID, ownerA, income(1, time.Now()))

	var notFound *customerr.NotFoundError
	assert.True(t, errors.As(err, &notFound))
}

func Test_OnDelete_ShouldFailSecondTime(t *testing.T) {
	ctx := context.Background()
	service := NewService(storage.NewInMemStorage())

	created, err := service.Create(ctx, ownerA, income(100, time.Now()))
	require.NoError(t, err)

	require.NoError(t, service.Delete(ctx, created.ID, ownerA))

	err = service.Delete(ctx, created.ID, ownerA)
	var notFound *customerr.NotFoundError
	assert.True(t, errors.As(err, &notFound))
}

func Test_OnGetByWindow_ShouldReturnWeekRecordsAndTotal(t *testing.T) {
	ctx := context.Background()
	service := NewService(storage.NewInMemStorage())

	_, err := service.Create(ctx, ownerA, income(50, time.Now()))
	require.NoError(t, err)
	_, err = service.Create(ctx, ownerA, expense(20, time.Now().AddDate(0, 0, -3)))
	require.NoError(t, err)
	_, err = service.Create(ctx, ownerA, income(1000, time.Now().AddDate(0, 0, -10)))
	require.NoError(t, err)

	recs, total, err := service.GetByWindow(ctx, ownerA, record.WindowWeek)
	require.NoError(t, err)

	assert.Len(t, recs, 2)
	assert.True(t, total.Equal(decimal.NewFromInt(30)), "total = %s", total)
}

func Test_OnGetByWindow_ShouldCountOnlyTodayForDayWindow(t *testing.T) {
	ctx := context.Background()
	service := NewService(storage.NewInMemStorage())

	_, err := service.Create(ctx, ownerA, income(100, time.Now()))
	require.NoError(t, err)
	_, err = service.Create(ctx, ownerA, expense(40, time.Now()))
	require.NoError(t, err)
	_, err = service.Create(ctx, ownerA, income(500, time.Now().AddDate(0, 0, -1)))
	require.NoError(t, err)

	recs, total, err := service.GetByWindow(ctx, ownerA, record.WindowDay)
	require.NoError(t, err)

	assert.Len(t, recs, 2)
	assert.True(t, total.Equal(decimal.NewFromInt(60)), "total = %s", total)
}

func Test_OnGetByWindow_ShouldIncludeMonthBoundary(t *testing.T) {
	ctx := context.Background()
	service := NewService(storage.NewInMemStorage())

	_, err := service.Create(ctx, ownerA, expense(10, time.Now().AddDate(0, 0, -30)))
	require.NoError(t, err)
	_, err = service.Create(ctx, ownerA, expense(10, time.Now().AddDate(0, 0, -31)))
	require.NoError(t, err)

	recs, total, err := service.GetByWindow(ctx, ownerA, record.WindowMonth)
	require.NoError(t, err)

	assert.Len(t, recs, 1)
	assert.True(t, total.Equal(decimal.NewFromInt(-10)), "total = %s", total)
}

func Test_OnGetByWindow_ShouldReturnZeroTotalForEmptyWindow(t *testing.T) {
	ctx := context.Background()
	service := NewService(storage.NewInMemStorage())

	_, err := service.Create(ctx, ownerA, income(1000, time.Now().AddDate(0, 0, -10)))
	require.NoError(t, err)

	recs, total, err := service.GetByWindow(ctx, ownerA, record.WindowDay)
	require.NoError(t, err)

	assert.Empty(t, recs)
	assert.True(t, total.IsZero())
}

func Test_OnGetByWindow_ShouldMatchRecordsRegardlessOfLocation(t *testing.T) {
	ctx := context.Background()
	service := NewService(storage.NewInMemStorage())

	east := time.FixedZone("UTC+13", 13*60*60)
	west := time.FixedZone("UTC-11", -11*60*60)
	_, err := service.Create(ctx, ownerA, income(50, time.Now().UTC()))
	require.NoError(t, err)
	_, err = service.Create(ctx, ownerA, income(20, time.Now().In(east)))
	require.NoError(t, err)
	_, err = service.Create(ctx, ownerA, expense(30, time.Now().In(west)))
	require.NoError(t, err)

	recs, total, err := service.GetByWindow(ctx, ownerA, record.WindowDay)
	require.NoError(t, err)

	assert.Len(t, recs, 3)
	assert.True(t, total.Equal(decimal.NewFromInt(40)), "total = %s", total)
}

func Test_OnGetByWindow_ShouldRejectUnknownWindow(t *testing.T) {
	ctx := context.Background()
	service := NewService(storage.NewInMemStorage())

	_, _, err := service.GetByWindow(ctx, ownerA, record.Window("year"))

	var validation *customerr.ValidationError
	assert.True(t, errors.As(err, &validation))
}
