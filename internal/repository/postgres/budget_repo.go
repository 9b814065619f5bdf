package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pennyflow/pennyflow-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// BudgetRepository implements domain.BudgetRepository using PostgreSQL
type BudgetRepository struct {
	pool *pgxpool.Pool
}

// NewBudgetRepository creates a new BudgetRepository
func NewBudgetRepository(pool *pgxpool.Pool) *BudgetRepository {
	return &BudgetRepository{pool: pool}
}

func scanBudget(row pgx.Row) (*domain.MonthlyBudget, error) {
	var b domain.MonthlyBudget
	var month pgtype.Date
	var amount pgtype.Numeric
	if err := row.Scan(&b.ID, &b.AccountID, &month, &amount, &b.CreatedAt); err != nil {
		return nil, err
	}
	b.Month = month.Time
	b.Amount = pgNumericToDecimal(amount)
	return &b, nil
}

// Upsert creates or replaces the budget row for (accountID, month)
func (r *BudgetRepository) Upsert(accountID int32, month time.Time, amount decimal.Decimal) (*domain.MonthlyBudget, error) {
	ctx := context.Background()
	amt, err := decimalToPgNumeric(amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	return scanBudget(r.pool.QueryRow(ctx,
		`INSERT INTO monthly_budgets (account_id, month, amount)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (account_id, month) DO UPDATE SET amount = EXCLUDED.amount
		 RETURNING id, account_id, month, amount, created_at`,
		accountID, pgtype.Date{Time: month, Valid: true}, amt))
}

// GetByMonth retrieves the budget for a given first-of-month date
func (r *BudgetRepository) GetByMonth(accountID int32, month time.Time) (*domain.MonthlyBudget, error) {
	ctx := context.Background()
	budget, err := scanBudget(r.pool.QueryRow(ctx,
		`SELECT id, account_id, month, amount, created_at
		 FROM monthly_budgets WHERE account_id = $1 AND month = $2`,
		accountID, pgtype.Date{Time: month, Valid: true}))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBudgetNotFound
		}
		return nil, err
	}
	return budget, nil
}

// GetByAccount retrieves all budgets for an account, newest month first
func (r *BudgetRepository) GetByAccount(accountID int32) ([]*domain.MonthlyBudget, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx,
		`SELECT id, account_id, month, amount, created_at
		 FROM monthly_budgets WHERE account_id = $1 ORDER BY month DESC`,
		accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var budgets []*domain.MonthlyBudget
	for rows.Next() {
		budget, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, budget)
	}
	return budgets, rows.Err()
}

// Delete removes a budget row
func (r *BudgetRepository) Delete(accountID, id int32) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx,
		"DELETE FROM monthly_budgets WHERE account_id = $1 AND id = $2", accountID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBudgetNotFound
	}
	return nil
}
