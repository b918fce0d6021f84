package files

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"max.ks1230/fintrack/internal/entity/record"
	"max.ks1230/fintrack/internal/model/customerr"
)

// columns is the canonical field order for both import and export.
// Anything else on a record (id, owner) is dropped on export.
var columns = []string{"created_at", "amount", "type_operation", "description"}

type recordService interface {
	CreateMany(ctx context.Context, ownerID int64, data []record.Record) ([]record.Record, error)
	List(ctx context.Context, ownerID int64, typeFilter *record.OperationType) ([]record.Record, error)
}

type Service struct {
	records recordService
}

func NewService(records recordService) *Service {
	return &Service{records: records}
}

// Import parses the whole file, skipping the header row, and bulk-creates
// the parsed records for the owner. A single malformed row aborts the whole
// import; nothing is persisted in that case.
func (s *Service) Import(ctx context.Context, ownerID int64, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(columns)

	rows, err := reader.ReadAll()
	if err != nil {
		return 0, &customerr.ValidationError{Msg: "malformed csv: " + err.Error()}
	}
	if len(rows) < 2 {
		return 0, nil
	}

	recs := make([]record.Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rec, err := parseRow(row)
		if err != nil {
			return 0, &customerr.ValidationError{Msg: fmt.Sprintf("row %d: %v", i+2, err)}
		}
		recs = append(recs, rec)
	}

	created, err := s.records.CreateMany(ctx, ownerID, recs)
	if err != nil {
		return 0, errors.Wrap(err, "import csv")
	}
	return len(created), nil
}

func parseRow(row []string) (record.Record, error) {
	var rec record.Record

	// blank created_at gets defaulted to now at create time
	if row[0] != "" {
		created, err := time.Parse(time.RFC3339, row[0])
		if err != nil {
			return record.Record{}, errors.Wrap(err, "created_at")
		}
		rec.CreatedAt = created
	}

	amount, err := decimal.NewFromString(row[1])
	if err != nil {
		return record.Record{}, errors.Wrap(err, "amount")
	}
	rec.Amount = amount

	op, err := record.ParseOperationType(row[2])
	if err != nil {
		return record.Record{}, err
	}
	rec.TypeOperation = op

	rec.Description = row[3]
	return rec, nil
}

// Export writes a header row and one row per record, all records of the
// owner, no filter.
func (s *Service) Export(ctx context.Context, ownerID int64, w io.Writer) error {
	recs, err := s.records.List(ctx, ownerID, nil)
	if err != nil {
		return errors.Wrap(err, "export csv")
	}

	writer := csv.NewWriter(w)
	if err = writer.Write(columns); err != nil {
		return errors.Wrap(err, "export csv")
	}
	for _, rec := range recs {
		row := []string{
			rec.CreatedAt.Format(time.RFC3339),
			rec.Amount.StringFixed(2),
			string(rec.TypeOperation),
			rec.Description,
		}
		if err = writer.Write(row); err != nil {
			return errors.Wrap(err, "export csv")
		}
	}

	writer.Flush()
	return errors.Wrap(writer.Error(), "export csv")
}
