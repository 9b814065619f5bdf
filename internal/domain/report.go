package domain

import "github.com/shopspring/decimal"

// MonthlyAnalytics is one month of the trailing-6-months spending view.
type MonthlyAnalytics struct {
	Month         string          `json:"month"`     // "2006-01"
	MonthName     string          `json:"monthName"` // "January 2006"
	Budget        decimal.Decimal `json:"budget"`
	Spent         decimal.Decimal `json:"spent"`
	Remaining     decimal.Decimal `json:"remaining"`
	ExpensesCount int64           `json:"expensesCount"`
}

// MonthlyReport is one month of the trailing-12-months income/expense view.
// Income sums ADD transactions; Expenses sums expense rows, which diverge
// from EXPENSE transactions once ledger entries are deleted out of band.
type MonthlyReport struct {
	Month               string          `json:"month"`
	MonthName           string          `json:"monthName"`
	Income              decimal.Decimal `json:"income"`
	Expenses            decimal.Decimal `json:"expenses"`
	NetSavings          decimal.Decimal `json:"netSavings"`
	Budget              decimal.Decimal `json:"budget"`
	TransactionsCount   int64           `json:"transactionsCount"`
	IncomeTransactions  int64           `json:"incomeTransactions"`
	ExpenseTransactions int64           `json:"expenseTransactions"`
}

// ReportSummary holds the totals of a single-month report. Here expense
// totals come from EXPENSE transactions, not expense rows.
type ReportSummary struct {
	TotalIncome     decimal.Decimal `json:"totalIncome"`
	TotalExpenses   decimal.Decimal `json:"totalExpenses"`
	NetSavings      decimal.Decimal `json:"netSavings"`
	Budget          decimal.Decimal `json:"budget"`
	BudgetRemaining decimal.Decimal `json:"budgetRemaining"`
}

// ReportTransaction is one itemized ledger entry in a single-month report.
type ReportTransaction struct {
	Date        string          `json:"date"` // "2006-01-02"
	Type        TransactionType `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

// ReportExpense is one itemized expense in a single-month report.
type ReportExpense struct {
	Date        string          `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
}

// UncategorizedLabel names expenses whose category reference is gone.
const UncategorizedLabel = "Uncategorized"

// MonthReport is the full single-month report.
type MonthReport struct {
	Month            string               `json:"month"`  // "January 2006"
	Period           string               `json:"period"` // "2006-01-01 to 2006-01-31"
	Summary          ReportSummary        `json:"summary"`
	Transactions     []*ReportTransaction `json:"transactions"`
	Expenses         []*ReportExpense     `json:"expenses"`
	TransactionCount int                  `json:"transactionCount"`
	ExpenseCount     int                  `json:"expenseCount"`
}

// SpendingTrend compares the current month's spend to the previous month's.
type SpendingTrend string

const (
	TrendIncreased SpendingTrend = "increased"
	TrendDecreased SpendingTrend = "decreased"
)

// SpendingInsights is the month-over-month trend view with human-readable
// observations.
type SpendingInsights struct {
	SpendingTrend     SpendingTrend   `json:"spendingTrend"`
	TrendPercentage   float64         `json:"trendPercentage"`
	TopCategory       *string         `json:"topCategory"`
	Insights          []string        `json:"insights"`
	CurrentMonthSpent decimal.Decimal `json:"currentMonthSpent"`
	LastMonthSpent    decimal.Decimal `json:"lastMonthSpent"`
}
