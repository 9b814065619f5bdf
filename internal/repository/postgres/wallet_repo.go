package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pennyflow/pennyflow-backend/internal/domain"
)

// WalletRepository implements domain.WalletRepository using PostgreSQL
type WalletRepository struct {
	pool *pgxpool.Pool
}

// NewWalletRepository creates a new WalletRepository
func NewWalletRepository(pool *pgxpool.Pool) *WalletRepository {
	return &WalletRepository{pool: pool}
}

func scanWallet(row pgx.Row) (*domain.Wallet, error) {
	var w domain.Wallet
	var balance pgtype.Numeric
	if err := row.Scan(&w.ID, &w.AccountID, &balance, &w.UpdatedAt); err != nil {
		return nil, err
	}
	w.Balance = pgNumericToDecimal(balance)
	return &w, nil
}

// GetOrCreate returns the account's wallet, creating a zero-balance row on
// first access. The upsert handles the race where two first accesses insert
// concurrently.
func (r *WalletRepository) GetOrCreate(accountID int32) (*domain.Wallet, error) {
	ctx := context.Background()
	wallet, err := scanWallet(r.pool.QueryRow(ctx,
		"SELECT id, account_id, balance, updated_at FROM wallets WHERE account_id = $1",
		accountID))
	if err == nil {
		return wallet, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	return scanWallet(r.pool.QueryRow(ctx,
		`INSERT INTO wallets (account_id) VALUES ($1)
		 ON CONFLICT (account_id) DO UPDATE SET account_id = EXCLUDED.account_id
		 RETURNING id, account_id, balance, updated_at`,
		accountID))
}
