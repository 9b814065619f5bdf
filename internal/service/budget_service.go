package service

import (
	"github.com/shopspring/decimal"

	"github.com/pennyflow/pennyflow-backend/internal/domain"
	"github.com/pennyflow/pennyflow-backend/internal/util"
)

// BudgetService handles monthly budget business logic
type BudgetService struct {
	budgetRepo domain.BudgetRepository
}

// NewBudgetService creates a new BudgetService
func NewBudgetService(budgetRepo domain.BudgetRepository) *BudgetService {
	return &BudgetService{budgetRepo: budgetRepo}
}

// UpsertBudget creates or replaces the budget for the given "2006-01" month
// key. One budget row per (account, month).
func (s *BudgetService) UpsertBudget(accountID int32, monthKey string, amount decimal.Decimal) (*domain.MonthlyBudget, error) {
	month, err := util.ParseMonthKey(monthKey)
	if err != nil {
		return nil, domain.ErrInvalidMonth
	}
	if err := validateAmount(amount); err != nil {
		return nil, err
	}

	return s.budgetRepo.Upsert(accountID, month, amount)
}

// GetBudgets lists the account's budgets, newest month first
func (s *BudgetService) GetBudgets(accountID int32) ([]*domain.MonthlyBudget, error) {
	return s.budgetRepo.GetByAccount(accountID)
}

// DeleteBudget removes a budget by ID
func (s *BudgetService) DeleteBudget(accountID, id int32) error {
	return s.budgetRepo.Delete(accountID, id)
}
