package record

import (
	"time"

	"github.com/shopspring/decimal"

	"max.ks1230/fintrack/internal/model/customerr"
)

// OperationType tells whether a record adds to or subtracts from the balance.
type OperationType string

const (
	Income   OperationType = "income"
	Expenses OperationType = "expenses"
)

func ParseOperationType(s string) (OperationType, error) {
	switch op := OperationType(s); op {
	case Income, Expenses:
		return op, nil
	}
	return "", &customerr.ValidationError{Msg: "unknown operation type: " + s}
}

// Window is a rolling period ending today, selected per query.
type Window string

const (
	WindowDay   Window = "day"
	WindowWeek  Window = "week"
	WindowMonth Window = "month"
)

func ParseWindow(s string) (Window, error) {
	switch w := Window(s); w {
	case WindowDay, WindowWeek, WindowMonth:
		return w, nil
	}
	return "", &customerr.ValidationError{Msg: "unknown window: " + s}
}

// Record is a single income or expense entry. Every record belongs to
// exactly one owner for its entire lifetime.
type Record struct {
	ID            int64           `json:"id"`
	CreatedAt     time.Time       `json:"created_at"`
	Amount        decimal.Decimal `json:"amount"`
	TypeOperation OperationType   `json:"type_operation"`
	Description   string          `json:"description"`
	OwnerID       int64           `json:"-"`
}
