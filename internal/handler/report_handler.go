package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pennyflow/pennyflow-backend/internal/domain"
	"github.com/pennyflow/pennyflow-backend/internal/middleware"
	"github.com/pennyflow/pennyflow-backend/internal/service"
	"github.com/rs/zerolog/log"
)

// ReportHandler handles dashboard, analytics and report HTTP requests
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// CategoryBreakdownResponse represents one category's share of the month's spend
type CategoryBreakdownResponse struct {
	Name       string  `json:"name"`
	Icon       string  `json:"icon"`
	Color      string  `json:"color"`
	Total      string  `json:"total"`
	Percentage float64 `json:"percentage"`
}

// DashboardSummaryResponse represents the dashboard summary API response
type DashboardSummaryResponse struct {
	WalletBalance     string                      `json:"walletBalance"`
	Budget            string                      `json:"budget"`
	Spent             string                      `json:"spent"`
	RemainingBudget   string                      `json:"remainingBudget"`
	ExpensesCount     int64                       `json:"expensesCount"`
	WeekSpent         string                      `json:"weekSpent"`
	DailyAverage      float64                     `json:"dailyAverage"`
	ProjectedMonthly  float64                     `json:"projectedMonthly"`
	BudgetStatus      string                      `json:"budgetStatus"`
	SpentPercentage   float64                     `json:"spentPercentage"`
	CategoryBreakdown []CategoryBreakdownResponse `json:"categoryBreakdown"`
}

// GetDashboardSummary handles GET /api/v1/dashboard/summary
func (h *ReportHandler) GetDashboardSummary(c echo.Context) error {
	accountID := middleware.GetAccountID(c)
	if accountID == 0 {
		return NewUnauthorizedError(c, "Account required")
	}

	summary, err := h.reportService.DashboardSummary(accountID)
	if err != nil {
		log.Error().Err(err).Int32("account_id", accountID).Msg("Failed to get dashboard summary")
		return NewInternalError(c, "Failed to get dashboard summary")
	}

	breakdown := make([]CategoryBreakdownResponse, 0, len(summary.CategoryBreakdown))
	for _, entry := range summary.CategoryBreakdown {
		breakdown = append(breakdown, CategoryBreakdownResponse{
			Name:       entry.Name,
			Icon:       entry.Icon,
			Color:      entry.Color,
			Total:      entry.Total.StringFixed(2),
			Percentage: entry.Percentage,
		})
	}

	return c.JSON(http.StatusOK, DashboardSummaryResponse{
		WalletBalance:     summary.WalletBalance.StringFixed(2),
		Budget:            summary.Budget.StringFixed(2),
		Spent:             summary.Spent.StringFixed(2),
		RemainingBudget:   summary.RemainingBudget.StringFixed(2),
		ExpensesCount:     summary.ExpensesCount,
		WeekSpent:         summary.WeekSpent.StringFixed(2),
		DailyAverage:      summary.DailyAverage,
		ProjectedMonthly:  summary.ProjectedMonthly,
		BudgetStatus:      string(summary.BudgetStatus),
		SpentPercentage:   summary.SpentPercentage,
		CategoryBreakdown: breakdown,
	})
}

// MonthlyAnalyticsResponse represents one month of the analytics view
type MonthlyAnalyticsResponse struct {
	Month         string `json:"month"`
	MonthName     string `json:"monthName"`
	Budget        string `json:"budget"`
	Spent         string `json:"spent"`
	Remaining     string `json:"remaining"`
	ExpensesCount int64  `json:"expensesCount"`
}

// GetMonthlyAnalytics handles GET /api/v1/analytics/monthly
func (h *ReportHandler) GetMonthlyAnalytics(c echo.Context) error {
	accountID := middleware.GetAccountID(c)
	if accountID == 0 {
		return NewUnauthorizedError(c, "Account required")
	}

	analytics, err := h.reportService.MonthlyAnalytics(accountID)
	if err != nil {
		log.Error().Err(err).Int32("account_id", accountID).Msg("Failed to get monthly analytics")
		return NewInternalError(c, "Failed to get monthly analytics")
	}

	response := make([]MonthlyAnalyticsResponse, 0, len(analytics))
	for _, month := range analytics {
		response = append(response, MonthlyAnalyticsResponse{
			Month:         month.Month,
			MonthName:     month.MonthName,
			Budget:        month.Budget.StringFixed(2),
			Spent:         month.Spent.StringFixed(2),
			Remaining:     month.Remaining.StringFixed(2),
			ExpensesCount: month.ExpensesCount,
		})
	}

	return c.JSON(http.StatusOK, response)
}

// MonthlyReportResponse represents one month of the income/expense report view
type MonthlyReportResponse struct {
	Month               string `json:"month"`
	MonthName           string `json:"monthName"`
	Income              string `json:"income"`
	Expenses            string `json:"expenses"`
	NetSavings          string `json:"netSavings"`
	Budget              string `json:"budget"`
	TransactionsCount   int64  `json:"transactionsCount"`
	IncomeTransactions  int64  `json:"incomeTransactions"`
	ExpenseTransactions int64  `json:"expenseTransactions"`
}

// GetMonthlyReports handles GET /api/v1/reports/monthly
func (h *ReportHandler) GetMonthlyReports(c echo.Context) error {
	accountID := middleware.GetAccountID(c)
	if accountID == 0 {
		return NewUnauthorizedError(c, "Account required")
	}

	reports, err := h.reportService.MonthlyReports(accountID)
	if err != nil {
		log.Error().Err(err).Int32("account_id", accountID).Msg("Failed to get monthly reports")
		return NewInternalError(c, "Failed to get monthly reports")
	}

	response := make([]MonthlyReportResponse, 0, len(reports))
	for _, report := range reports {
		response = append(response, MonthlyReportResponse{
			Month:               report.Month,
			MonthName:           report.MonthName,
			Income:              report.Income.StringFixed(2),
			Expenses:            report.Expenses.StringFixed(2),
			NetSavings:          report.NetSavings.StringFixed(2),
			Budget:              report.Budget.StringFixed(2),
			TransactionsCount:   report.TransactionsCount,
			IncomeTransactions:  report.IncomeTransactions,
			ExpenseTransactions: report.ExpenseTransactions,
		})
	}

	return c.JSON(http.StatusOK, response)
}

// ReportSummaryResponse represents the totals of a single-month report
type ReportSummaryResponse struct {
	TotalIncome     string `json:"totalIncome"`
	TotalExpenses   string `json:"totalExpenses"`
	NetSavings      string `json:"netSavings"`
	Budget          string `json:"budget"`
	BudgetRemaining string `json:"budgetRemaining"`
}

// ReportTransactionResponse represents one itemized ledger entry
type ReportTransactionResponse struct {
	Date        string `json:"date"`
	Type        string `json:"type"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
}

// ReportExpenseResponse represents one itemized expense
type ReportExpenseResponse struct {
	Date        string `json:"date"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// MonthReportResponse represents the full single-month report
type MonthReportResponse struct {
	Month            string                      `json:"month"`
	Period           string                      `json:"period"`
	Summary          ReportSummaryResponse       `json:"summary"`
	Transactions     []ReportTransactionResponse `json:"transactions"`
	Expenses         []ReportExpenseResponse     `json:"expenses"`
	TransactionCount int                         `json:"transactionCount"`
	ExpenseCount     int                         `json:"expenseCount"`
}

// DownloadMonthlyReport handles GET /api/v1/reports/:year/:month
func (h *ReportHandler) DownloadMonthlyReport(c echo.Context) error {
	accountID := middleware.GetAccountID(c)
	if accountID == 0 {
		return NewUnauthorizedError(c, "Account required")
	}

	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		return NewValidationError(c, "Invalid year format", []ValidationError{
			{Field: "year", Message: "Must be a valid integer"},
		})
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil {
		return NewValidationError(c, "Invalid month format", []ValidationError{
			{Field: "month", Message: "Must be a valid integer"},
		})
	}

	report, err := h.reportService.DownloadMonthlyReport(accountID, year, month)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidYearMonth) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "month", Message: "Year must be 1-9999 and month 1-12"},
			})
		}
		log.Error().Err(err).Int32("account_id", accountID).Int("year", year).Int("month", month).Msg("Failed to build monthly report")
		return NewInternalError(c, "Failed to build monthly report")
	}

	transactions := make([]ReportTransactionResponse, 0, len(report.Transactions))
	for _, transaction := range report.Transactions {
		transactions = append(transactions, ReportTransactionResponse{
			Date:        transaction.Date,
			Type:        string(transaction.Type),
			Amount:      transaction.Amount.StringFixed(2),
			Description: transaction.Description,
		})
	}

	expenses := make([]ReportExpenseResponse, 0, len(report.Expenses))
	for _, expense := range report.Expenses {
		expenses = append(expenses, ReportExpenseResponse{
			Date:        expense.Date,
			Amount:      expense.Amount.StringFixed(2),
			Description: expense.Description,
			Category:    expense.Category,
		})
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="report-%04d-%02d.json"`, year, month))

	return c.JSON(http.StatusOK, MonthReportResponse{
		Month:  report.Month,
		Period: report.Period,
		Summary: ReportSummaryResponse{
			TotalIncome:     report.Summary.TotalIncome.StringFixed(2),
			TotalExpenses:   report.Summary.TotalExpenses.StringFixed(2),
			NetSavings:      report.Summary.NetSavings.StringFixed(2),
			Budget:          report.Summary.Budget.StringFixed(2),
			BudgetRemaining: report.Summary.BudgetRemaining.StringFixed(2),
		},
		Transactions:     transactions,
		Expenses:         expenses,
		TransactionCount: report.TransactionCount,
		ExpenseCount:     report.ExpenseCount,
	})
}

// SpendingInsightsResponse represents the month-over-month insights view
type SpendingInsightsResponse struct {
	SpendingTrend     string   `json:"spendingTrend"`
	TrendPercentage   float64  `json:"trendPercentage"`
	TopCategory       *string  `json:"topCategory"`
	Insights          []string `json:"insights"`
	CurrentMonthSpent string   `json:"currentMonthSpent"`
	LastMonthSpent    string   `json:"lastMonthSpent"`
}

// GetSpendingInsights handles GET /api/v1/insights/spending
func (h *ReportHandler) GetSpendingInsights(c echo.Context) error {
	accountID := middleware.GetAccountID(c)
	if accountID == 0 {
		return NewUnauthorizedError(c, "Account required")
	}

	insights, err := h.reportService.SpendingInsights(accountID)
	if err != nil {
		log.Error().Err(err).Int32("account_id", accountID).Msg("Failed to get spending insights")
		return NewInternalError(c, "Failed to get spending insights")
	}

	return c.JSON(http.StatusOK, SpendingInsightsResponse{
		SpendingTrend:     string(insights.SpendingTrend),
		TrendPercentage:   insights.TrendPercentage,
		TopCategory:       insights.TopCategory,
		Insights:          insights.Insights,
		CurrentMonthSpent: insights.CurrentMonthSpent.StringFixed(2),
		LastMonthSpent:    insights.LastMonthSpent.StringFixed(2),
	})
}
