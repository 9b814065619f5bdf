package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pennyflow/pennyflow-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// ExpenseRepository implements domain.ExpenseRepository using PostgreSQL
type ExpenseRepository struct {
	pool *pgxpool.Pool
}

// NewExpenseRepository creates a new ExpenseRepository
func NewExpenseRepository(pool *pgxpool.Pool) *ExpenseRepository {
	return &ExpenseRepository{pool: pool}
}

const expenseSelect = `
	SELECT e.id, e.account_id, e.category_id, e.amount, e.description, e.date,
	       e.receipt_path, e.created_at, c.name, c.icon, c.color
	FROM expenses e
	LEFT JOIN categories c ON c.id = e.category_id`

func scanExpense(row pgx.Row) (*domain.Expense, error) {
	var e domain.Expense
	var amount pgtype.Numeric
	var date pgtype.Date
	if err := row.Scan(&e.ID, &e.AccountID, &e.CategoryID, &amount, &e.Description,
		&date, &e.ReceiptPath, &e.CreatedAt, &e.CategoryName, &e.CategoryIcon, &e.CategoryColor); err != nil {
		return nil, err
	}
	e.Amount = pgNumericToDecimal(amount)
	e.Date = date.Time
	return &e, nil
}

// GetByID retrieves an expense by its ID within an account
func (r *ExpenseRepository) GetByID(accountID, id int32) (*domain.Expense, error) {
	ctx := context.Background()
	expense, err := scanExpense(r.pool.QueryRow(ctx,
		expenseSelect+" WHERE e.account_id = $1 AND e.id = $2", accountID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, err
	}
	return expense, nil
}

// GetByAccount retrieves all expenses for an account, newest first
func (r *ExpenseRepository) GetByAccount(accountID int32) ([]*domain.Expense, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx,
		expenseSelect+` WHERE e.account_id = $1 ORDER BY e.date DESC, e.created_at DESC`,
		accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectExpenses(rows)
}

// ListByDateRange retrieves expenses with start <= date <= end, oldest first
func (r *ExpenseRepository) ListByDateRange(accountID int32, start, end time.Time) ([]*domain.Expense, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx,
		expenseSelect+` WHERE e.account_id = $1 AND e.date >= $2 AND e.date <= $3
		 ORDER BY e.date, e.created_at`,
		accountID, pgtype.Date{Time: start, Valid: true}, pgtype.Date{Time: end, Valid: true})
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectExpenses(rows)
}

func collectExpenses(rows pgx.Rows) ([]*domain.Expense, error) {
	var expenses []*domain.Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, expense)
	}
	return expenses, rows.Err()
}

// SumByDateRange totals expense amounts with start <= date <= end
func (r *ExpenseRepository) SumByDateRange(accountID int32, start, end time.Time) (decimal.Decimal, error) {
	ctx := context.Background()
	var total pgtype.Numeric
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM expenses
		 WHERE account_id = $1 AND date >= $2 AND date <= $3`,
		accountID, pgtype.Date{Time: start, Valid: true}, pgtype.Date{Time: end, Valid: true}).Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	return pgNumericToDecimal(total), nil
}

// SumSince totals expense amounts dated on or after from
func (r *ExpenseRepository) SumSince(accountID int32, from time.Time) (decimal.Decimal, error) {
	ctx := context.Background()
	var total pgtype.Numeric
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM expenses
		 WHERE account_id = $1 AND date >= $2`,
		accountID, pgtype.Date{Time: from, Valid: true}).Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	return pgNumericToDecimal(total), nil
}

// CountByDateRange counts expenses with start <= date <= end
func (r *ExpenseRepository) CountByDateRange(accountID int32, start, end time.Time) (int64, error) {
	ctx := context.Background()
	var count int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM expenses
		 WHERE account_id = $1 AND date >= $2 AND date <= $3`,
		accountID, pgtype.Date{Time: start, Valid: true}, pgtype.Date{Time: end, Valid: true}).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// CategoryTotalsByDateRange returns per-category spend totals within the
// range, highest first
func (r *ExpenseRepository) CategoryTotalsByDateRange(accountID int32, start, end time.Time, limit int) ([]*domain.CategoryTotal, error) {
	ctx := context.Background()
	query := `
		SELECT COALESCE(c.name, ''), COALESCE(c.icon, ''), COALESCE(c.color, ''),
		       SUM(e.amount) AS total
		FROM expenses e
		LEFT JOIN categories c ON c.id = e.category_id
		WHERE e.account_id = $1 AND e.date >= $2 AND e.date <= $3
		GROUP BY c.name, c.icon, c.color
		ORDER BY total DESC`
	args := []interface{}{accountID, pgtype.Date{Time: start, Valid: true}, pgtype.Date{Time: end, Valid: true}}
	if limit > 0 {
		query += " LIMIT $4"
		args = append(args, limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []*domain.CategoryTotal
	for rows.Next() {
		var t domain.CategoryTotal
		var total pgtype.Numeric
		if err := rows.Scan(&t.Name, &t.Icon, &t.Color, &total); err != nil {
			return nil, err
		}
		t.Total = pgNumericToDecimal(total)
		totals = append(totals, &t)
	}
	return totals, rows.Err()
}

// SetReceiptPath updates the stored receipt object path for an expense
func (r *ExpenseRepository) SetReceiptPath(accountID, id int32, path *string) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx,
		"UPDATE expenses SET receipt_path = $3 WHERE account_id = $1 AND id = $2",
		accountID, id, path)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrExpenseNotFound
	}
	return nil
}
