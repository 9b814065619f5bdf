package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pennyflow/pennyflow-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// LedgerRepository implements domain.LedgerRepository using PostgreSQL.
// Every operation runs in a single database transaction with the wallet row
// locked via SELECT ... FOR UPDATE, so concurrent balance updates serialize
// and partial effects never commit.
type LedgerRepository struct {
	pool *pgxpool.Pool
}

// NewLedgerRepository creates a new LedgerRepository
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{pool: pool}
}

// lockWallet fetches the account's wallet with a row lock, inserting the row
// first if the account has none yet.
func lockWallet(ctx context.Context, tx pgx.Tx, accountID int32) (*domain.Wallet, error) {
	const lockQuery = `SELECT id, account_id, balance, updated_at FROM wallets
		 WHERE account_id = $1 FOR UPDATE`

	wallet, err := scanWallet(tx.QueryRow(ctx, lockQuery, accountID))
	if err == nil {
		return wallet, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	_, err = tx.Exec(ctx,
		"INSERT INTO wallets (account_id) VALUES ($1) ON CONFLICT (account_id) DO NOTHING",
		accountID)
	if err != nil {
		return nil, err
	}
	return scanWallet(tx.QueryRow(ctx, lockQuery, accountID))
}

func saveWalletBalance(ctx context.Context, tx pgx.Tx, wallet *domain.Wallet) error {
	balance, err := decimalToPgNumeric(wallet.Balance)
	if err != nil {
		return fmt.Errorf("invalid balance: %w", err)
	}
	return tx.QueryRow(ctx,
		"UPDATE wallets SET balance = $2, updated_at = now() WHERE id = $1 RETURNING updated_at",
		wallet.ID, balance).Scan(&wallet.UpdatedAt)
}

func insertTransaction(ctx context.Context, tx pgx.Tx, accountID int32, txType domain.TransactionType, amount decimal.Decimal, description string) (*domain.Transaction, error) {
	amt, err := decimalToPgNumeric(amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}
	return scanTransaction(tx.QueryRow(ctx,
		`INSERT INTO transactions (account_id, type, amount, description)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+transactionColumns,
		accountID, string(txType), amt, description))
}

// AddFunds credits the wallet and appends an ADD transaction
func (r *LedgerRepository) AddFunds(accountID int32, amount decimal.Decimal, description string) (*domain.Wallet, *domain.Transaction, error) {
	ctx := context.Background()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	wallet, err := lockWallet(ctx, tx, accountID)
	if err != nil {
		return nil, nil, err
	}

	wallet.Credit(amount)
	if err := saveWalletBalance(ctx, tx, wallet); err != nil {
		return nil, nil, err
	}

	transaction, err := insertTransaction(ctx, tx, accountID, domain.TransactionTypeAdd, amount, description)
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}
	return wallet, transaction, nil
}

// RecordExpense inserts the expense, debits the wallet (clamped at zero) and
// appends the mirroring EXPENSE transaction
func (r *LedgerRepository) RecordExpense(expense *domain.Expense) (*domain.Expense, *domain.Wallet, error) {
	ctx := context.Background()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	amt, err := decimalToPgNumeric(expense.Amount)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid amount: %w", err)
	}

	var created domain.Expense
	var amount pgtype.Numeric
	var date pgtype.Date
	err = tx.QueryRow(ctx,
		`INSERT INTO expenses (account_id, category_id, amount, description, date)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, account_id, category_id, amount, description, date, receipt_path, created_at`,
		expense.AccountID, expense.CategoryID, amt, expense.Description,
		pgtype.Date{Time: expense.Date, Valid: true}).Scan(
		&created.ID, &created.AccountID, &created.CategoryID, &amount,
		&created.Description, &date, &created.ReceiptPath, &created.CreatedAt)
	if err != nil {
		return nil, nil, err
	}
	created.Amount = pgNumericToDecimal(amount)
	created.Date = date.Time

	wallet, err := lockWallet(ctx, tx, expense.AccountID)
	if err != nil {
		return nil, nil, err
	}
	wallet.Debit(created.Amount)
	if err := saveWalletBalance(ctx, tx, wallet); err != nil {
		return nil, nil, err
	}

	_, err = insertTransaction(ctx, tx, expense.AccountID, domain.TransactionTypeExpense,
		created.Amount, domain.ExpenseDescription(created.Description))
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}
	return &created, wallet, nil
}

// DeleteExpense refunds the wallet, appends the ADD refund transaction and
// removes the expense row
func (r *LedgerRepository) DeleteExpense(accountID, expenseID int32) (*domain.Wallet, *domain.Transaction, error) {
	ctx := context.Background()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	var amount pgtype.Numeric
	var description string
	err = tx.QueryRow(ctx,
		"SELECT amount, description FROM expenses WHERE account_id = $1 AND id = $2 FOR UPDATE",
		accountID, expenseID).Scan(&amount, &description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, domain.ErrExpenseNotFound
		}
		return nil, nil, err
	}
	refund := pgNumericToDecimal(amount)

	wallet, err := lockWallet(ctx, tx, accountID)
	if err != nil {
		return nil, nil, err
	}
	wallet.Credit(refund)
	if err := saveWalletBalance(ctx, tx, wallet); err != nil {
		return nil, nil, err
	}

	transaction, err := insertTransaction(ctx, tx, accountID, domain.TransactionTypeAdd,
		refund, domain.RefundDescription(description))
	if err != nil {
		return nil, nil, err
	}

	if _, err := tx.Exec(ctx,
		"DELETE FROM expenses WHERE account_id = $1 AND id = $2", accountID, expenseID); err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}
	return wallet, transaction, nil
}

// DeleteTransaction reverses the entry's effect on the wallet and deletes the
// row. ADD removal debits with the zero clamp; EXPENSE removal credits.
func (r *LedgerRepository) DeleteTransaction(accountID, transactionID int32) (*domain.Wallet, error) {
	ctx := context.Background()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	entry, err := scanTransaction(tx.QueryRow(ctx,
		"SELECT "+transactionColumns+` FROM transactions
		 WHERE account_id = $1 AND id = $2 FOR UPDATE`,
		accountID, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}

	wallet, err := lockWallet(ctx, tx, accountID)
	if err != nil {
		return nil, err
	}
	switch entry.Type {
	case domain.TransactionTypeAdd:
		wallet.Debit(entry.Amount)
	case domain.TransactionTypeExpense:
		wallet.Credit(entry.Amount)
	}
	if err := saveWalletBalance(ctx, tx, wallet); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx,
		"DELETE FROM transactions WHERE account_id = $1 AND id = $2", accountID, transactionID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return wallet, nil
}
