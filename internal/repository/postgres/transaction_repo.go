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

// TransactionRepository implements domain.TransactionRepository using PostgreSQL
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

const transactionColumns = "id, account_id, type, amount, description, date"

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var t domain.Transaction
	var amount pgtype.Numeric
	if err := row.Scan(&t.ID, &t.AccountID, &t.Type, &amount, &t.Description, &t.Date); err != nil {
		return nil, err
	}
	t.Amount = pgNumericToDecimal(amount)
	return &t, nil
}

// GetByID retrieves a transaction by its ID within an account
func (r *TransactionRepository) GetByID(accountID, id int32) (*domain.Transaction, error) {
	ctx := context.Background()
	transaction, err := scanTransaction(r.pool.QueryRow(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE account_id = $1 AND id = $2",
		accountID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return transaction, nil
}

// ListRecent returns the newest transactions first, at most limit rows
func (r *TransactionRepository) ListRecent(accountID int32, limit int) ([]*domain.Transaction, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx,
		"SELECT "+transactionColumns+` FROM transactions
		 WHERE account_id = $1 ORDER BY date DESC, id DESC LIMIT $2`,
		accountID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTransactions(rows)
}

// ListByDateRange returns transactions with start <= date <= end, oldest first
func (r *TransactionRepository) ListByDateRange(accountID int32, start, end time.Time) ([]*domain.Transaction, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx,
		"SELECT "+transactionColumns+` FROM transactions
		 WHERE account_id = $1 AND date >= $2 AND date < $3
		 ORDER BY date, id`,
		accountID, start, end.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTransactions(rows)
}

func collectTransactions(rows pgx.Rows) ([]*domain.Transaction, error) {
	var transactions []*domain.Transaction
	for rows.Next() {
		transaction, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, transaction)
	}
	return transactions, rows.Err()
}

// SumByTypeAndDateRange sums transaction amounts of one type with
// start <= date <= end (date is a timestamp; the end day is included)
func (r *TransactionRepository) SumByTypeAndDateRange(accountID int32, txType domain.TransactionType, start, end time.Time) (decimal.Decimal, error) {
	ctx := context.Background()
	var total pgtype.Numeric
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM transactions
		 WHERE account_id = $1 AND type = $2 AND date >= $3 AND date < $4`,
		accountID, string(txType), start, end.AddDate(0, 0, 1)).Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	return pgNumericToDecimal(total), nil
}

// CountByDateRange counts transactions with start <= date <= end
func (r *TransactionRepository) CountByDateRange(accountID int32, start, end time.Time) (int64, error) {
	ctx := context.Background()
	var count int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM transactions
		 WHERE account_id = $1 AND date >= $2 AND date < $3`,
		accountID, start, end.AddDate(0, 0, 1)).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// CountByTypeAndDateRange counts transactions of one type within the range
func (r *TransactionRepository) CountByTypeAndDateRange(accountID int32, txType domain.TransactionType, start, end time.Time) (int64, error) {
	ctx := context.Background()
	var count int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM transactions
		 WHERE account_id = $1 AND type = $2 AND date >= $3 AND date < $4`,
		accountID, string(txType), start, end.AddDate(0, 0, 1)).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}
