package core

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

const (
	Income  TxType = "Income"
	Outcome TxType = "Outcome"
)

type (
	// TxType is the direction of a transaction: money in or money out.
	TxType string

	// Date is a calendar date. The zero value means the source cell could
	// not be parsed; such rows stay visible but never match date filters.
	Date struct {
		time.Time
	}

	// Amount is a non-negative rupiah value. Valid is false when the
	// source cell was blank or unparseable; invalid amounts contribute
	// zero to every aggregate.
	Amount struct {
		Rupiah int64
		Valid  bool
	}

	// Transaction is one row of the ledger. Row is the 1-based sheet
	// position (record index + header offset) used only for deletion;
	// it is recomputed on every snapshot and must never be kept across
	// a delete.
	Transaction struct {
		User     string
		Date     Date
		Type     TxType
		Category string
		Amount   Amount
		Notes    string
		Row      int
	}
)

var (
	ErrEmptyUser     = errors.New("empty user")
	ErrEmptyCategory = errors.New("empty category")
	ErrInvalidType   = errors.New("invalid transaction type")
	ErrInvalidAmount = errors.New("invalid amount")
)

func (t TxType) IsValid() bool {
	return t == Income || t == Outcome
}

// ParseTxType maps a raw cell to a TxType, tolerating case differences.
func ParseTxType(s string) (TxType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "income":
		return Income, true
	case "outcome":
		return Outcome, true
	}
	return "", false
}

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"02/01/2006",
	"01/02/2006",
	"2 January 2006",
}

// ParseDate parses a raw date cell. Failures return the zero Date so the
// row is retained rather than rejected.
func ParseDate(s string) Date {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Date{Time: t}
		}
	}
	return Date{}
}

// MonthName returns the English month name ("January"), or "" for the
// zero date.
func (d Date) MonthName() string {
	if d.IsZero() {
		return ""
	}
	return d.Month().String()
}

// YearMonth returns the date truncated to "YYYY-MM", or "" for the zero
// date.
func (d Date) YearMonth() string {
	if d.IsZero() {
		return ""
	}
	return d.Format("2006-01")
}

// ParseAmount parses a raw amount cell into rupiah. Decimal comma and
// dot are both accepted; fractions round half-up. Blank, unparseable or
// negative values yield an invalid Amount, never an error.
func ParseAmount(s string) Amount {
	s = strings.TrimSpace(s)
	if s == "" {
		return Amount{}
	}
	s = strings.ReplaceAll(s, ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return Amount{}
	}
	return Amount{Rupiah: int64(f + 0.5), Valid: true}
}

func (a Amount) Validate() error {
	if !a.Valid || a.Rupiah < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Validate checks the write-time invariants: user and category must be
// non-empty, type must be known and the amount parseable.
func (t Transaction) Validate() error {
	if strings.TrimSpace(t.User) == "" {
		return ErrEmptyUser
	}
	if !t.Type.IsValid() {
		return ErrInvalidType
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	return nil
}
