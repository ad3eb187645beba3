package storage

import (
	"context"
	"database/sql"
	"strings"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

// Queries is the fixed set of statements run against expense_record. Every
// caller-supplied value is a bound parameter.
type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// ExpenseRecord is the row shape of expense_record with its rowid.
type ExpenseRecord struct {
	ID           int64
	ItemName     string
	ItemPrice    int64
	PurchaseDate string
}

type CreateExpenseParams struct {
	ItemName     string
	ItemPrice    int64
	PurchaseDate string
}

type UpdateExpenseParams struct {
	ID           int64
	ItemName     string
	ItemPrice    int64
	PurchaseDate string
}

const createExpense = `INSERT INTO expense_record (item_name, item_price, purchase_date)
VALUES (?, ?, ?)`

func (q *Queries) CreateExpense(ctx context.Context, arg CreateExpenseParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, createExpense, arg.ItemName, arg.ItemPrice, arg.PurchaseDate)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

const updateExpense = `UPDATE expense_record
SET item_name = ?, item_price = ?, purchase_date = ?
WHERE rowid = ?`

func (q *Queries) UpdateExpense(ctx context.Context, arg UpdateExpenseParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, updateExpense, arg.ItemName, arg.ItemPrice, arg.PurchaseDate, arg.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const deleteExpense = `DELETE FROM expense_record WHERE rowid = ?`

func (q *Queries) DeleteExpense(ctx context.Context, id int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteExpense, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const selectExpenses = `SELECT rowid, item_name, item_price, purchase_date FROM expense_record`

const listExpenses = selectExpenses + `
ORDER BY rowid`

func (q *Queries) ListExpenses(ctx context.Context) ([]ExpenseRecord, error) {
	return q.query(ctx, listExpenses)
}

const searchExpenses = selectExpenses + `
WHERE item_name LIKE '%' || ? || '%' ESCAPE '\'
   OR purchase_date LIKE '%' || ? || '%' ESCAPE '\'
ORDER BY rowid`

func (q *Queries) SearchExpenses(ctx context.Context, term string) ([]ExpenseRecord, error) {
	pattern := escapeLike(term)
	return q.query(ctx, searchExpenses, pattern, pattern)
}

const filterExpensesByDate = selectExpenses + `
WHERE purchase_date BETWEEN ? AND ?
ORDER BY rowid`

func (q *Queries) FilterExpensesByDate(ctx context.Context, start, end string) ([]ExpenseRecord, error) {
	return q.query(ctx, filterExpensesByDate, start, end)
}

const countExpenses = `SELECT COUNT(*) FROM expense_record`

func (q *Queries) CountExpenses(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countExpenses).Scan(&n)
	return n, err
}

const sumExpenses = `SELECT COALESCE(SUM(item_price), 0) FROM expense_record`

func (q *Queries) SumExpenses(ctx context.Context) (int64, error) {
	var total int64
	err := q.db.QueryRowContext(ctx, sumExpenses).Scan(&total)
	return total, err
}

const listItemNames = `SELECT DISTINCT item_name FROM expense_record ORDER BY item_name`

func (q *Queries) ListItemNames(ctx context.Context) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, listItemNames)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (q *Queries) query(ctx context.Context, stmt string, args ...interface{}) ([]ExpenseRecord, error) {
	rows, err := q.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ExpenseRecord
	for rows.Next() {
		var i ExpenseRecord
		if err := rows.Scan(&i.ID, &i.ItemName, &i.ItemPrice, &i.PurchaseDate); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes term match literally inside a LIKE pattern using '\' as
// the escape character.
func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}
