package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"expense-tracker/internal/core"
	"expense-tracker/internal/log"

	_ "modernc.org/sqlite"
)

// SQLiteRepository is the record store: one expense_record table in a
// single SQLite file. Writes are autocommitted and durable on return.
type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
	logger  *slog.Logger
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	version, err := RunMigrations(dbPath)
	if err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One connection held for the process lifetime.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	r := &SQLiteRepository{
		db:      db,
		queries: New(db),
		logger:  slog.With(log.FieldComponent, log.ComponentStorage),
	}
	r.logger.Info("Expense store opened", log.FieldPath, dbPath, "schema_version", version)
	return r, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Insert appends one record and returns the rowid the store assigned.
func (r *SQLiteRepository) Insert(ctx context.Context, e core.Expense) (int64, error) {
	id, err := r.queries.CreateExpense(ctx, CreateExpenseParams{
		ItemName:     e.ItemName,
		ItemPrice:    e.ItemPrice.Cents,
		PurchaseDate: e.PurchaseDate,
	})
	if err != nil {
		return 0, &core.StorageError{Op: "insert", Err: err}
	}

	r.logger.InfoContext(ctx, "Expense record saved",
		"id", id,
		"item_name", e.ItemName,
		"item_price_cents", e.ItemPrice.Cents,
		"purchase_date", e.PurchaseDate)

	return id, nil
}

// Update overwrites the record with the given id. An id that does not
// exist is not an error; nothing is written.
func (r *SQLiteRepository) Update(ctx context.Context, id int64, e core.Expense) error {
	n, err := r.queries.UpdateExpense(ctx, UpdateExpenseParams{
		ID:           id,
		ItemName:     e.ItemName,
		ItemPrice:    e.ItemPrice.Cents,
		PurchaseDate: e.PurchaseDate,
	})
	if err != nil {
		return &core.StorageError{Op: "update", Err: err}
	}
	if n == 0 {
		r.logger.DebugContext(ctx, "Update matched no expense record", "id", id)
		return nil
	}

	r.logger.InfoContext(ctx, "Expense record updated",
		"id", id,
		"item_name", e.ItemName,
		"item_price_cents", e.ItemPrice.Cents,
		"purchase_date", e.PurchaseDate)
	return nil
}

// Delete removes the record with the given id; absent ids are a no-op.
func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	n, err := r.queries.DeleteExpense(ctx, id)
	if err != nil {
		return &core.StorageError{Op: "delete", Err: err}
	}
	if n == 0 {
		r.logger.DebugContext(ctx, "Delete matched no expense record", "id", id)
		return nil
	}

	r.logger.InfoContext(ctx, "Expense record deleted", "id", id)
	return nil
}

// ListAll returns every record in insertion order.
func (r *SQLiteRepository) ListAll(ctx context.Context) ([]core.ExpenseRecord, error) {
	rows, err := r.queries.ListExpenses(ctx)
	if err != nil {
		return nil, &core.StorageError{Op: "list", Err: err}
	}
	return toRecords(rows), nil
}

// Search returns records whose item name or purchase date contains term as
// a literal substring.
func (r *SQLiteRepository) Search(ctx context.Context, term string) ([]core.ExpenseRecord, error) {
	rows, err := r.queries.SearchExpenses(ctx, term)
	if err != nil {
		return nil, &core.StorageError{Op: "search", Err: err}
	}
	return toRecords(rows), nil
}

// FilterByDateRange returns records with start <= purchase_date <= end.
// The comparison is on the stored text, not on calendar dates.
func (r *SQLiteRepository) FilterByDateRange(ctx context.Context, start, end string) ([]core.ExpenseRecord, error) {
	rows, err := r.queries.FilterExpensesByDate(ctx, start, end)
	if err != nil {
		return nil, &core.StorageError{Op: "filter by date", Err: err}
	}
	return toRecords(rows), nil
}

// Count returns the number of stored records.
func (r *SQLiteRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.queries.CountExpenses(ctx)
	if err != nil {
		return 0, &core.StorageError{Op: "count", Err: err}
	}
	return n, nil
}

// Sum returns the total of all prices, 0 for an empty table.
func (r *SQLiteRepository) Sum(ctx context.Context) (core.Money, error) {
	total, err := r.queries.SumExpenses(ctx)
	if err != nil {
		return core.Money{}, &core.StorageError{Op: "sum", Err: err}
	}
	return core.Money{Cents: total}, nil
}

// Summary reports the record count and the total price.
func (r *SQLiteRepository) Summary(ctx context.Context) (core.Summary, error) {
	count, err := r.Count(ctx)
	if err != nil {
		return core.Summary{}, err
	}
	total, err := r.Sum(ctx)
	if err != nil {
		return core.Summary{}, err
	}
	return core.Summary{Count: count, Total: total}, nil
}

// ItemNames returns the distinct item names, sorted.
func (r *SQLiteRepository) ItemNames(ctx context.Context) ([]string, error) {
	names, err := r.queries.ListItemNames(ctx)
	if err != nil {
		return nil, &core.StorageError{Op: "item names", Err: err}
	}
	return names, nil
}

func toRecords(rows []ExpenseRecord) []core.ExpenseRecord {
	out := make([]core.ExpenseRecord, len(rows))
	for i, row := range rows {
		out[i] = core.ExpenseRecord{
			ID: row.ID,
			Expense: core.Expense{
				ItemName:     row.ItemName,
				ItemPrice:    core.Money{Cents: row.ItemPrice},
				PurchaseDate: row.PurchaseDate,
			},
		}
	}
	return out
}
