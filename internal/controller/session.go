// Package controller mediates between the form, the displayed record list
// and the record store. It has no UI dependency; a UI adapter drives it
// through Dispatcher commands.
package controller

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"expense-tracker/internal/core"
	"expense-tracker/internal/export"
	"expense-tracker/internal/log"
)

// Store is the record store the session works against.
type Store interface {
	Insert(ctx context.Context, e core.Expense) (int64, error)
	Update(ctx context.Context, id int64, e core.Expense) error
	Delete(ctx context.Context, id int64) error
	ListAll(ctx context.Context) ([]core.ExpenseRecord, error)
	Search(ctx context.Context, term string) ([]core.ExpenseRecord, error)
	FilterByDateRange(ctx context.Context, start, end string) ([]core.ExpenseRecord, error)
	Sum(ctx context.Context) (core.Money, error)
	Summary(ctx context.Context) (core.Summary, error)
	ItemNames(ctx context.Context) ([]string, error)
}

// Session owns the transient state of one view: the form fields, the
// displayed rows and the selected record id.
type Session struct {
	store  Store
	logger *log.Logger
	now    func() time.Time

	form     core.Form
	rows     []core.ExpenseRecord
	selected *int64
}

// Option configures a Session.
type Option func(*Session)

// WithClock replaces time.Now, used by SetCurrentDate.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithLogger sets the session logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) { s.logger = l.WithComponent(log.ComponentController) }
}

func NewSession(store Store, opts ...Option) *Session {
	s := &Session{
		store:  store,
		now:    time.Now,
		logger: log.New(log.DefaultConfig()).WithComponent(log.ComponentController),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Form returns the current form fields.
func (s *Session) Form() core.Form { return s.form }

// SetForm replaces the form fields, typically from UI input.
func (s *Session) SetForm(f core.Form) { s.form = f }

// Rows returns a copy of the displayed rows.
func (s *Session) Rows() []core.ExpenseRecord {
	return append([]core.ExpenseRecord(nil), s.rows...)
}

// Selected returns the selected record id, if any.
func (s *Session) Selected() (int64, bool) {
	if s.selected == nil {
		return 0, false
	}
	return *s.selected, true
}

// Load replaces the displayed rows with every stored record.
func (s *Session) Load(ctx context.Context) error {
	rows, err := s.store.ListAll(ctx)
	if err != nil {
		return err
	}
	s.rows = rows
	return nil
}

// Save inserts the form as a new record, then clears the form and reloads
// all rows. On failure the form is left as it was.
func (s *Session) Save(ctx context.Context) error {
	e, err := s.form.Expense()
	if err != nil {
		return err
	}
	id, err := s.store.Insert(ctx, e)
	if err != nil {
		s.logger.ErrorContext(ctx, "Save failed", log.NewFields().WithOperation(log.OpCreate).WithError(err).ToSlice()...)
		return err
	}
	s.ClearForm()
	if err := s.Load(ctx); err != nil {
		return fmt.Errorf("reload after save: %w", err)
	}
	s.logger.DebugContext(ctx, "Record saved", log.NewFields().WithRecord(id, e).ToSlice()...)
	return nil
}

// SelectRow selects the displayed row at index and copies its fields into
// the form. An index outside the list leaves the selection unchanged.
func (s *Session) SelectRow(index int) error {
	if index < 0 || index >= len(s.rows) {
		return fmt.Errorf("select row %d: %w", index, core.ErrRowNotFound)
	}
	r := s.rows[index]
	id := r.ID
	s.selected = &id
	s.form = core.FormFor(r)
	return nil
}

// Update writes the form over the selected record, patches the displayed row
// in place, then clears form and selection.
func (s *Session) Update(ctx context.Context) error {
	id, ok := s.Selected()
	if !ok {
		return core.ErrNoSelection
	}
	e, err := s.form.Expense()
	if err != nil {
		return err
	}
	if err := s.store.Update(ctx, id, e); err != nil {
		s.logger.ErrorContext(ctx, "Update failed", log.NewFields().WithOperation(log.OpUpdate).WithRecord(id, e).WithError(err).ToSlice()...)
		return err
	}
	for i := range s.rows {
		if s.rows[i].ID == id {
			s.rows[i].Expense = e
			break
		}
	}
	s.ClearForm()
	s.selected = nil
	return nil
}

// DeleteSelected removes the selected record, reloads all rows and clears
// form and selection.
func (s *Session) DeleteSelected(ctx context.Context) error {
	id, ok := s.Selected()
	if !ok {
		return core.ErrNoSelection
	}
	if err := s.store.Delete(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "Delete failed", log.NewFields().WithOperation(log.OpDelete).WithError(err).ToSlice()...)
		return err
	}
	s.selected = nil
	s.ClearForm()
	return s.Load(ctx)
}

// Search shows rows whose item name or purchase date contains term. A blank
// term runs no query and reports false.
func (s *Session) Search(ctx context.Context, term string) (bool, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return false, nil
	}
	rows, err := s.store.Search(ctx, term)
	if err != nil {
		s.logger.ErrorContext(ctx, "Search failed", log.NewFields().WithOperation(log.OpSearch).WithError(err).ToSlice()...)
		return false, err
	}
	s.rows = rows
	return true, nil
}

// FilterByDateRange shows rows whose purchase date text lies between start
// and end inclusive. Both bounds must be in the display layout and are
// compared in canonical form; a blank bound runs no query and reports false.
func (s *Session) FilterByDateRange(ctx context.Context, start, end string) (bool, error) {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	if start == "" || end == "" {
		return false, nil
	}
	start, err := core.CanonicalPurchaseDate(start)
	if err != nil {
		return false, &core.ValidationError{Field: "start_date", Err: err}
	}
	end, err = core.CanonicalPurchaseDate(end)
	if err != nil {
		return false, &core.ValidationError{Field: "end_date", Err: err}
	}
	rows, err := s.store.FilterByDateRange(ctx, start, end)
	if err != nil {
		s.logger.ErrorContext(ctx, "Date filter failed", log.NewFields().WithOperation(log.OpFilter).WithError(err).ToSlice()...)
		return false, err
	}
	s.rows = rows
	return true, nil
}

// ExportCSV writes every stored record to path and returns how many were
// written. Displayed rows are not touched.
func (s *Session) ExportCSV(ctx context.Context, path string) (int, error) {
	records, err := s.store.ListAll(ctx)
	if err != nil {
		return 0, err
	}
	if err := export.WriteFile(path, records); err != nil {
		s.logger.ErrorContext(ctx, "Export failed", log.NewFields().WithOperation(log.OpExport).WithError(err).ToSlice()...)
		return 0, err
	}
	s.logger.InfoContext(ctx, "Records exported", log.FieldOperation, log.OpExport, log.FieldPath, path, log.FieldRows, len(records))
	return len(records), nil
}

// TotalBalance reports total spending against budget.
func (s *Session) TotalBalance(ctx context.Context, budget core.Money) (core.Balance, error) {
	spent, err := s.store.Sum(ctx)
	if err != nil {
		return core.Balance{}, err
	}
	return core.NewBalance(budget, spent), nil
}

// Summary reports the record count and total; an empty table totals 0.
func (s *Session) Summary(ctx context.Context) (core.Summary, error) {
	return s.store.Summary(ctx)
}

// ClearForm empties the form. The selection is kept.
func (s *Session) ClearForm() {
	s.form = core.Form{}
}

// SetCurrentDate fills the purchase date with today's date.
func (s *Session) SetCurrentDate() {
	s.form.PurchaseDate = core.FormatPurchaseDate(s.now())
}

// Suggest returns stored item names fuzzily matching text, best first.
func (s *Session) Suggest(ctx context.Context, text string) ([]string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	names, err := s.store.ItemNames(ctx)
	if err != nil {
		return nil, err
	}
	ranks := fuzzy.RankFindFold(text, names)
	sort.Stable(ranks) // fewest edits first, ties stay alphabetical
	out := make([]string, len(ranks))
	for i, r := range ranks {
		out[i] = r.Target
	}
	return out, nil
}
