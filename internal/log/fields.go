package log

import (
	"errors"

	"expense-tracker/internal/core"
)

// Common field names for structured logging
const (
	FieldComponent    = "component"
	FieldCommand      = "command"
	FieldOperation    = "operation"
	FieldError        = "error"
	FieldErrorType    = "error_type"
	FieldRecordID     = "id"
	FieldItemName     = "item_name"
	FieldPriceCents   = "item_price_cents"
	FieldPurchaseDate = "purchase_date"
	FieldRows         = "rows"
	FieldPath         = "path"
)

// Components defines standard component names
const (
	ComponentApp        = "app"
	ComponentStorage    = "storage"
	ComponentController = "controller"
	ComponentUI         = "ui"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpSearch   = "search"
	OpFilter   = "filter"
	OpExport   = "export"
	OpShutdown = "shutdown"
	OpStartup  = "startup"
)

// ErrorTypes defines standard error type categories
const (
	ErrorTypeValidation = "validation_error"
	ErrorTypeDatabase   = "database_error"
	ErrorTypeSelection  = "selection_error"
	ErrorTypeInternal   = "internal_error"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithError adds the error and its category.
func (f LogFields) WithError(err error) LogFields {
	if err == nil {
		return f
	}
	f[FieldError] = err.Error()
	switch {
	case errors.Is(err, core.ErrNoSelection):
		f[FieldErrorType] = ErrorTypeSelection
	case core.IsValidation(err):
		f[FieldErrorType] = ErrorTypeValidation
	case core.IsStorage(err):
		f[FieldErrorType] = ErrorTypeDatabase
	default:
		f[FieldErrorType] = ErrorTypeInternal
	}
	return f
}

// WithRecord adds the fields of an expense record.
func (f LogFields) WithRecord(id int64, e core.Expense) LogFields {
	if id != 0 {
		f[FieldRecordID] = id
	}
	f[FieldItemName] = e.ItemName
	f[FieldPriceCents] = e.ItemPrice.Cents
	f[FieldPurchaseDate] = e.PurchaseDate
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
