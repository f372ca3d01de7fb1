package core

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// DateLayout is the on-disk and wire format of an expense date.
const DateLayout = "2006-01-02"

type (
	// Date is a calendar date without time of day or zone.
	// It is held as midnight UTC so that arithmetic never crosses a DST boundary.
	Date struct {
		time.Time
	}

	Expense struct {
		ID       int64   `json:"id"`
		Amount   float64 `json:"amount"`
		Category string  `json:"category"`
		Note     string  `json:"note"`
		Date     Date    `json:"date"`
	}
)

var (
	ErrValidation         = errors.New("validation error")
	ErrInvalidAmount      = fmt.Errorf("%w: invalid amount", ErrValidation)
	ErrEmptyCategory      = fmt.Errorf("%w: empty category", ErrValidation)
	ErrInvalidDate        = fmt.Errorf("%w: invalid date", ErrValidation)
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrNotFound           = errors.New("expense not found")
)

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar date of t as seen in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// ParseDate parses a YYYY-MM-DD string as a calendar date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// AddDays returns the date n days after d (before, if n is negative).
func (d Date) AddDays(n int) Date {
	return Date{Time: d.AddDate(0, 0, n)}
}

// Equal reports whether d and o are the same calendar date.
func (d Date) Equal(o Date) bool {
	return d.Time.Equal(o.Time)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ValidateAmount rejects non-finite and non-positive amounts.
func ValidateAmount(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// NormalizeCategory trims surrounding whitespace. Case is preserved.
func NormalizeCategory(category string) string {
	return strings.TrimSpace(category)
}

// Validate checks the invariants every persisted expense must hold.
func (e Expense) Validate() error {
	if err := ValidateAmount(e.Amount); err != nil {
		return err
	}
	if NormalizeCategory(e.Category) == "" {
		return ErrEmptyCategory
	}
	return e.Date.Validate()
}
