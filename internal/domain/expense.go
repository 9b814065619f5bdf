package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Expense struct {
	ID          int32           `json:"id"`
	AccountID   int32           `json:"accountId"`
	CategoryID  int32           `json:"categoryId"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
	ReceiptPath *string         `json:"receiptPath,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`

	// Category details populated by list queries.
	CategoryName  *string `json:"categoryName,omitempty"`
	CategoryIcon  *string `json:"categoryIcon,omitempty"`
	CategoryColor *string `json:"categoryColor,omitempty"`
}

// CategoryTotal is one row of the per-category spend breakdown.
type CategoryTotal struct {
	Name  string          `json:"name"`
	Icon  string          `json:"icon"`
	Color string          `json:"color"`
	Total decimal.Decimal `json:"total"`
}

// ExpenseRepository covers read access to expense rows. Mutations that touch
// the wallet go through LedgerRepository instead.
type ExpenseRepository interface {
	GetByID(accountID, id int32) (*Expense, error)
	GetByAccount(accountID int32) ([]*Expense, error)
	// ListByDateRange returns expenses with start <= date <= end, oldest first,
	// with category details joined.
	ListByDateRange(accountID int32, start, end time.Time) ([]*Expense, error)
	// SumByDateRange totals expense amounts with start <= date <= end.
	SumByDateRange(accountID int32, start, end time.Time) (decimal.Decimal, error)
	// SumSince totals expense amounts dated on or after from, with no upper bound.
	SumSince(accountID int32, from time.Time) (decimal.Decimal, error)
	CountByDateRange(accountID int32, start, end time.Time) (int64, error)
	// CategoryTotalsByDateRange returns per-category totals within the range,
	// highest total first, at most limit rows (0 means no limit).
	CategoryTotalsByDateRange(accountID int32, start, end time.Time, limit int) ([]*CategoryTotal, error)
	SetReceiptPath(accountID, id int32, path *string) error
}
