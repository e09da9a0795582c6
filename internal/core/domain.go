package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

type (
	TransactionType string

	// Period identifies the calendar month a budget applies to.
	Period struct {
		Month int // 1-12
		Year  int
	}

	// Transaction is a single income or expense record. Only expense
	// transactions participate in budget reconciliation.
	Transaction struct {
		ID          string
		Amount      Money
		Description string
		Comments    string
		Tags        []string
		Category    string
		Type        TransactionType
		Date        time.Time
		RawMerchant string
		CreatedAt   time.Time
	}

	// Budget tracks a spending ceiling and running spent total for one
	// category in one period. There is at most one budget per
	// (category, month, year).
	Budget struct {
		ID        string
		Category  string
		Amount    Money
		Spent     Money
		Month     int
		Year      int
		Recurring bool
		CreatedAt time.Time
	}

	SavingsGoal struct {
		ID            string
		Name          string
		TargetAmount  Money
		CurrentAmount Money
		Deadline      *time.Time
		CreatedAt     time.Time
	}

	// MerchantMapping maps a raw merchant string from a bank feed to a
	// display name and category. The raw name is the natural key.
	MerchantMapping struct {
		RawName     string
		DisplayName string
		Category    string
	}
)

var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyCategory    = errors.New("empty category")
	ErrInvalidType      = errors.New("transaction type must be income or expense")
	ErrZeroDate         = errors.New("date cannot be zero")
)

// ValidationError reports a rejected input field. It is distinct from
// ErrNotFound so the HTTP layer can map the two to different statuses.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// PeriodOf buckets a timestamp into its budget period.
func PeriodOf(t time.Time) Period {
	return Period{Month: int(t.Month()), Year: t.Year()}
}

// Next returns the following period, wrapping December into January of
// the next year.
func (p Period) Next() Period {
	if p.Month == 12 {
		return Period{Month: 1, Year: p.Year + 1}
	}
	return Period{Month: p.Month + 1, Year: p.Year}
}

func (p Period) Validate() error {
	if p.Month < 1 || p.Month > 12 {
		return &ValidationError{Field: "month", Reason: "must be between 1 and 12"}
	}
	return nil
}

func (p Period) String() string {
	return fmt.Sprintf("%d-%02d", p.Year, p.Month)
}

func (t TransactionType) Validate() error {
	switch t {
	case Income, Expense:
		return nil
	default:
		return ErrInvalidType
	}
}

// Period returns the budget period the transaction's date falls in.
func (t Transaction) Period() Period {
	return PeriodOf(t.Date)
}

// Validate checks the fields required on create.
func (t Transaction) Validate() error {
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.Description) == "" {
		return ErrEmptyDescription
	}
	if len(t.Description) > 255 {
		return errors.New("description too long (max 255 characters)")
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if err := t.Type.Validate(); err != nil {
		return err
	}
	if t.Date.IsZero() {
		return ErrZeroDate
	}
	return nil
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.Category) == "" {
		return ErrEmptyCategory
	}
	if err := b.Amount.Validate(); err != nil {
		return err
	}
	return Period{Month: b.Month, Year: b.Year}.Validate()
}

// Period returns the budget's own period.
func (b Budget) Period() Period {
	return Period{Month: b.Month, Year: b.Year}
}

func (g SavingsGoal) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return &ValidationError{Field: "name", Reason: "cannot be empty"}
	}
	if err := g.TargetAmount.Validate(); err != nil {
		return err
	}
	if g.CurrentAmount.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (m MerchantMapping) Validate() error {
	if strings.TrimSpace(m.RawName) == "" {
		return &ValidationError{Field: "raw_name", Reason: "cannot be empty"}
	}
	if strings.TrimSpace(m.DisplayName) == "" {
		return &ValidationError{Field: "display_name", Reason: "cannot be empty"}
	}
	if strings.TrimSpace(m.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}
