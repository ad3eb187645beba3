package core

import (
	"errors"
	"strings"
	"time"
)

// PurchaseDateLayout is the display format of a purchase date: day, full
// month name, 4-digit year.
const PurchaseDateLayout = "02 January 2006"

const maxItemNameLen = 200

type (
	Money struct {
		Cents int64
	}

	// Expense is the user-editable part of a record.
	Expense struct {
		ItemName     string
		ItemPrice    Money
		PurchaseDate string // text in PurchaseDateLayout, compared lexicographically by the store
	}

	// ExpenseRecord is a persisted expense together with its row identifier.
	ExpenseRecord struct {
		ID int64 // Store-assigned rowid
		Expense
	}

	// Form holds the raw text of the three editable fields.
	Form struct {
		ItemName     string
		ItemPrice    string
		PurchaseDate string
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrEmptyName     = errors.New("empty item name")
	ErrNameTooLong   = errors.New("item name too long (max 200 characters)")
	ErrInvalidDate   = errors.New("invalid purchase date, expected dd Month yyyy")
)

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// ParsePurchaseDate checks s against PurchaseDateLayout and returns the
// parsed calendar date.
func ParsePurchaseDate(s string) (time.Time, error) {
	t, err := time.Parse(PurchaseDateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// FormatPurchaseDate renders t in PurchaseDateLayout.
func FormatPurchaseDate(t time.Time) string {
	return t.Format(PurchaseDateLayout)
}

func (e Expense) Validate() error {
	name := strings.TrimSpace(e.ItemName)
	if name == "" {
		return &ValidationError{Field: "item_name", Err: ErrEmptyName}
	}
	if len(name) > maxItemNameLen {
		return &ValidationError{Field: "item_name", Err: ErrNameTooLong}
	}
	if err := e.ItemPrice.Validate(); err != nil {
		return &ValidationError{Field: "item_price", Err: err}
	}
	if _, err := ParsePurchaseDate(e.PurchaseDate); err != nil {
		return &ValidationError{Field: "purchase_date", Err: err}
	}
	return nil
}

// CanonicalPurchaseDate validates s and returns it re-rendered in
// PurchaseDateLayout. Month names parse case-insensitively, so "30 june 2024"
// becomes "30 June 2024" and compares correctly against other stored dates.
func CanonicalPurchaseDate(s string) (string, error) {
	t, err := ParsePurchaseDate(s)
	if err != nil {
		return "", err
	}
	return FormatPurchaseDate(t), nil
}

// Expense converts the raw form text into a validated Expense. The purchase
// date is stored in canonical form.
func (f Form) Expense() (Expense, error) {
	cents, err := ParseDecimalToCents(f.ItemPrice)
	if err != nil {
		return Expense{}, &ValidationError{Field: "item_price", Err: err}
	}
	e := Expense{
		ItemName:     strings.TrimSpace(f.ItemName),
		ItemPrice:    Money{Cents: cents},
		PurchaseDate: strings.TrimSpace(f.PurchaseDate),
	}
	if err := e.Validate(); err != nil {
		return Expense{}, err
	}
	e.PurchaseDate, _ = CanonicalPurchaseDate(e.PurchaseDate) // checked by Validate
	return e, nil
}

// FormFor fills a form from a stored record.
func FormFor(r ExpenseRecord) Form {
	return Form{
		ItemName:     r.ItemName,
		ItemPrice:    r.ItemPrice.String(),
		PurchaseDate: r.PurchaseDate,
	}
}

// IsEmpty reports whether every field is blank.
func (f Form) IsEmpty() bool {
	return f.ItemName == "" && f.ItemPrice == "" && f.PurchaseDate == ""
}
