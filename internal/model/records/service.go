package records

import (
	"context"
	"time"

	"github.com/jinzhu/now"
	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"max.ks1230/fintrack/internal/entity/record"
	"max.ks1230/fintrack/internal/model/customerr"
)

// NoDescription is the canonical marker stored instead of an empty
// description.
const NoDescription = "без описания"

// descriptionPlaceholder is the literal swagger UIs send for untouched
// string fields; it is treated the same as an empty description.
const descriptionPlaceholder = "string"

type recordStorage interface {
	CreateRecord(ctx context.Context, rec record.Record) (record.Record, error)
	CreateRecords(ctx context.Context, recs []record.Record) ([]record.Record, error)
	GetRecordByID(ctx context.Context, id, ownerID int64) (record.Record, error)
	GetUserRecords(ctx context.Context, ownerID int64, typeFilter *record.OperationType) ([]record.Record, error)
	UpdateRecord(ctx context.Context, rec record.Record) (record.Record, error)
	DeleteRecord(ctx context.Context, id, ownerID int64) error
}

type Service struct {
	storage recordStorage
}

func NewService(storage recordStorage) *Service {
	return &Service{storage: storage}
}

func (s *Service) Get(ctx context.Context, id, ownerID int64) (record.Record, error) {
	rec, err := s.storage.GetRecordByID(ctx, id, ownerID)
	return rec, errors.Wrap(err, "get record")
}

func (s *Service) List(ctx context.Context, ownerID int64, typeFilter *record.OperationType) ([]record.Record, error) {
	recs, err := s.storage.GetUserRecords(ctx, ownerID, typeFilter)
	return recs, errors.Wrap(err, "list records")
}

func (s *Service) Create(ctx context.Context, ownerID int64, data record.Record) (record.Record, error) {
	data, err := normalize(data)
	if err != nil {
		return record.Record{}, err
	}
	data.ID = 0
	data.OwnerID = ownerID

	rec, err := s.storage.CreateRecord(ctx, data)
	return rec, errors.Wrap(err, "create record")
}

func (s *Service) CreateMany(ctx context.Context, ownerID int64, data []record.Record) ([]record.Record, error) {
	recs := make([]record.Record, 0, len(data))
	for _, rec := range data {
		rec, err := normalize(rec)
		if err != nil {
			return nil, err
		}
		rec.ID = 0
		rec.OwnerID = ownerID
		recs = append(recs, rec)
	}

	res, err := s.storage.CreateRecords(ctx, recs)
	return res, errors.Wrap(err, "create records")
}

// Update replaces all mutable fields with the supplied values.
func (s *Service) Update(ctx context.Context, id, ownerID int64, data record.Record) (record.Record, error) {
	data, err := normalize(data)
	if err != nil {
		return record.Record{}, err
	}
	data.ID = id
	data.OwnerID = ownerID

	rec, err := s.storage.UpdateRecord(ctx, data)
	return rec, errors.Wrap(err, "update record")
}

func (s *Service) Delete(ctx context.Context, id, ownerID int64) error {
	return errors.Wrap(s.storage.DeleteRecord(ctx, id, ownerID), "delete record")
}

// GetByWindow returns the owner's records whose creation date falls inside
// the rolling window ending today, plus the income-minus-expenses total over
// exactly those records. "Now" is evaluated once per call so records near a
// day boundary all see the same window.
func (s *Service) GetByWindow(ctx context.Context, ownerID int64, window record.Window) ([]record.Record, decimal.Decimal, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "getByWindow")
	defer span.Finish()

	today := now.With(time.Now()).BeginningOfDay()
	var from time.Time
	switch window {
	case record.WindowDay:
		from = today
	case record.WindowWeek:
		from = today.AddDate(0, 0, -7)
	case record.WindowMonth:
		from = today.AddDate(0, 0, -30)
	default:
		return nil, decimal.Zero, &customerr.ValidationError{Msg: "unknown window: " + string(window)}
	}

	recs, err := s.storage.GetUserRecords(ctx, ownerID, nil)
	if err != nil {
		return nil, decimal.Zero, errors.Wrap(err, "get by window")
	}

	matched := make([]record.Record, 0)
	total := decimal.Zero
	for _, rec := range recs {
		day := now.With(rec.CreatedAt.In(time.Local)).BeginningOfDay()
		if day.Before(from) || day.After(today) {
			continue
		}
		matched = append(matched, rec)
		if rec.TypeOperation == record.Income {
			total = total.Add(rec.Amount)
		} else {
			total = total.Sub(rec.Amount)
		}
	}
	return matched, total, nil
}

func normalize(rec record.Record) (record.Record, error) {
	if _, err := record.ParseOperationType(string(rec.TypeOperation)); err != nil {
		return record.Record{}, err
	}
	if rec.Amount.IsNegative() {
		return record.Record{}, &customerr.ValidationError{Msg: "amount must not be negative"}
	}

	rec.Amount = rec.Amount.Round(2)
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	if rec.Description == "" || rec.Description == descriptionPlaceholder {
		rec.Description = NoDescription
	}
	return rec, nil
}
