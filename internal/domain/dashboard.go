package domain

import "github.com/shopspring/decimal"

// BudgetStatus is the 4-tier health classification of the current month's
// budget: no_budget when no budget amount is set, healthy at <=50% spent,
// warning at <=80%, danger above that.
type BudgetStatus string

const (
	BudgetStatusNoBudget BudgetStatus = "no_budget"
	BudgetStatusHealthy  BudgetStatus = "healthy"
	BudgetStatusWarning  BudgetStatus = "warning"
	BudgetStatusDanger   BudgetStatus = "danger"
)

// CategoryBreakdown is a CategoryTotal with its share of total spend.
type CategoryBreakdown struct {
	Name       string          `json:"name"`
	Icon       string          `json:"icon"`
	Color      string          `json:"color"`
	Total      decimal.Decimal `json:"total"`
	Percentage float64         `json:"percentage"`
}

// DashboardSummary is the current-month overview.
type DashboardSummary struct {
	WalletBalance     decimal.Decimal      `json:"walletBalance"`
	Budget            decimal.Decimal      `json:"budget"`
	Spent             decimal.Decimal      `json:"spent"`
	RemainingBudget   decimal.Decimal      `json:"remainingBudget"`
	ExpensesCount     int64                `json:"expensesCount"`
	WeekSpent         decimal.Decimal      `json:"weekSpent"`
	DailyAverage      float64              `json:"dailyAverage"`
	ProjectedMonthly  float64              `json:"projectedMonthly"`
	BudgetStatus      BudgetStatus         `json:"budgetStatus"`
	SpentPercentage   float64              `json:"spentPercentage"`
	CategoryBreakdown []*CategoryBreakdown `json:"categoryBreakdown"`
}
