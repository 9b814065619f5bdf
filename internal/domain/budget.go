package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthlyBudget is the single budget row for an (account, month) pair.
// Month is always the first day of the calendar month.
type MonthlyBudget struct {
	ID        int32           `json:"id"`
	AccountID int32           `json:"accountId"`
	Month     time.Time       `json:"month"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"createdAt"`
}

type BudgetRepository interface {
	// Upsert creates or replaces the budget for (accountID, month).
	Upsert(accountID int32, month time.Time, amount decimal.Decimal) (*MonthlyBudget, error)
	GetByMonth(accountID int32, month time.Time) (*MonthlyBudget, error)
	GetByAccount(accountID int32) ([]*MonthlyBudget, error)
	Delete(accountID, id int32) error
}
