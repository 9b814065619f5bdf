package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pennyflow/pennyflow-backend/internal/domain"
)

// CategoryRepository implements domain.CategoryRepository using PostgreSQL
type CategoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

const categoryColumns = "id, account_id, name, icon, color, created_at"

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var c domain.Category
	if err := row.Scan(&c.ID, &c.AccountID, &c.Name, &c.Icon, &c.Color, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Create inserts a new category
func (r *CategoryRepository) Create(category *domain.Category) (*domain.Category, error) {
	ctx := context.Background()
	created, err := scanCategory(r.pool.QueryRow(ctx,
		`INSERT INTO categories (account_id, name, icon, color)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+categoryColumns,
		category.AccountID, category.Name, category.Icon, category.Color))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrCategoryNameTaken
		}
		return nil, err
	}
	return created, nil
}

// GetByID retrieves a category by its ID within an account
func (r *CategoryRepository) GetByID(accountID, id int32) (*domain.Category, error) {
	ctx := context.Background()
	category, err := scanCategory(r.pool.QueryRow(ctx,
		"SELECT "+categoryColumns+" FROM categories WHERE account_id = $1 AND id = $2",
		accountID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

// GetByAccount retrieves all categories for an account
func (r *CategoryRepository) GetByAccount(accountID int32) ([]*domain.Category, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx,
		"SELECT "+categoryColumns+" FROM categories WHERE account_id = $1 ORDER BY name",
		accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*domain.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

// Update replaces a category's name, icon and color
func (r *CategoryRepository) Update(accountID, id int32, name, icon, color string) (*domain.Category, error) {
	ctx := context.Background()
	updated, err := scanCategory(r.pool.QueryRow(ctx,
		`UPDATE categories SET name = $3, icon = $4, color = $5
		 WHERE account_id = $1 AND id = $2
		 RETURNING `+categoryColumns,
		accountID, id, name, icon, color))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		if isUniqueViolation(err) {
			return nil, domain.ErrCategoryNameTaken
		}
		return nil, err
	}
	return updated, nil
}

// Delete removes a category; expenses referencing it go with it via the
// cascading foreign key.
func (r *CategoryRepository) Delete(accountID, id int32) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx,
		"DELETE FROM categories WHERE account_id = $1 AND id = $2", accountID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}
