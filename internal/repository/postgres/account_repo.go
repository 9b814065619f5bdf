package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pennyflow/pennyflow-backend/internal/domain"
)

// AccountRepository implements domain.AccountRepository using PostgreSQL
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

const accountColumns = "id, user_id, name, created_at, updated_at"

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var a domain.Account
	if err := row.Scan(&a.ID, &a.UserID, &a.Name, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

// GetByID retrieves an account by its ID
func (r *AccountRepository) GetByID(id int32) (*domain.Account, error) {
	ctx := context.Background()
	account, err := scanAccount(r.pool.QueryRow(ctx,
		"SELECT "+accountColumns+" FROM accounts WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return account, nil
}

// GetByUserID retrieves the account owned by a user
func (r *AccountRepository) GetByUserID(userID uuid.UUID) (*domain.Account, error) {
	ctx := context.Background()
	account, err := scanAccount(r.pool.QueryRow(ctx,
		"SELECT "+accountColumns+" FROM accounts WHERE user_id = $1", userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return account, nil
}

// GetByAuth0ID retrieves the account for a user identified by Auth0 subject
func (r *AccountRepository) GetByAuth0ID(auth0ID string) (*domain.Account, error) {
	ctx := context.Background()
	account, err := scanAccount(r.pool.QueryRow(ctx,
		`SELECT a.id, a.user_id, a.name, a.created_at, a.updated_at
		 FROM accounts a
		 JOIN users u ON u.id = a.user_id
		 WHERE u.auth0_id = $1`, auth0ID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return account, nil
}

// Create inserts a new account
func (r *AccountRepository) Create(account *domain.Account) (*domain.Account, error) {
	ctx := context.Background()
	created, err := scanAccount(r.pool.QueryRow(ctx,
		`INSERT INTO accounts (user_id, name)
		 VALUES ($1, $2)
		 RETURNING `+accountColumns,
		account.UserID, account.Name))
	if err != nil {
		return nil, err
	}
	return created, nil
}
