package service

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pennyflow/pennyflow-backend/internal/domain"
	"github.com/pennyflow/pennyflow-backend/internal/util"
)

const (
	analyticsMonths = 6
	reportMonths    = 12

	breakdownLimit = 5
)

// ReportService derives read-only analytics from the wallet, budgets,
// expenses and the transaction ledger.
type ReportService struct {
	walletRepo      domain.WalletRepository
	budgetRepo      domain.BudgetRepository
	expenseRepo     domain.ExpenseRepository
	transactionRepo domain.TransactionRepository
	nowFn           func() time.Time
}

// NewReportService creates a new ReportService
func NewReportService(
	walletRepo domain.WalletRepository,
	budgetRepo domain.BudgetRepository,
	expenseRepo domain.ExpenseRepository,
	transactionRepo domain.TransactionRepository,
) *ReportService {
	return &ReportService{
		walletRepo:      walletRepo,
		budgetRepo:      budgetRepo,
		expenseRepo:     expenseRepo,
		transactionRepo: transactionRepo,
		nowFn:           func() time.Time { return time.Now().UTC() },
	}
}

// SetNow overrides the clock, for tests
func (s *ReportService) SetNow(nowFn func() time.Time) {
	s.nowFn = nowFn
}

// budgetAmount returns the budget amount for a month, zero when unset.
func (s *ReportService) budgetAmount(accountID int32, month time.Time) decimal.Decimal {
	budget, err := s.budgetRepo.GetByMonth(accountID, month)
	if err != nil {
		return decimal.Zero
	}
	return budget.Amount
}

// DashboardSummary builds the current-month overview.
func (s *ReportService) DashboardSummary(accountID int32) (*domain.DashboardSummary, error) {
	now := s.nowFn()
	monthStart := util.FirstOfMonth(now)
	monthEnd := monthStart.AddDate(0, 1, -1)

	wallet, err := s.walletRepo.GetOrCreate(accountID)
	if err != nil {
		return nil, err
	}

	budget := s.budgetAmount(accountID, monthStart)

	spent, err := s.expenseRepo.SumByDateRange(accountID, monthStart, monthEnd)
	if err != nil {
		return nil, err
	}
	expensesCount, err := s.expenseRepo.CountByDateRange(accountID, monthStart, monthEnd)
	if err != nil {
		return nil, err
	}

	// Last 7 days of spend with no upper bound, so future-dated expenses
	// count too. Kept as the original behaves.
	weekSpent, err := s.expenseRepo.SumSince(accountID, now.AddDate(0, 0, -7))
	if err != nil {
		return nil, err
	}

	remaining := decimal.Zero
	if budget.IsPositive() {
		remaining = decimal.Max(decimal.Zero, budget.Sub(spent))
	}

	dayOfMonth := now.Day()
	daysInMonth := util.DaysInMonth(now.Year(), now.Month())
	spentF, _ := spent.Float64()
	dailyAverage := spentF / float64(dayOfMonth)
	projectedMonthly := dailyAverage * float64(daysInMonth)

	status := domain.BudgetStatusNoBudget
	spentPercentage := 0.0
	if budget.IsPositive() {
		budgetF, _ := budget.Float64()
		spentPercentage = spentF / budgetF * 100
		switch {
		case spentPercentage <= 50:
			status = domain.BudgetStatusHealthy
		case spentPercentage <= 80:
			status = domain.BudgetStatusWarning
		default:
			status = domain.BudgetStatusDanger
		}
	}

	totals, err := s.expenseRepo.CategoryTotalsByDateRange(accountID, monthStart, monthEnd, breakdownLimit)
	if err != nil {
		return nil, err
	}
	breakdown := make([]*domain.CategoryBreakdown, 0, len(totals))
	for _, total := range totals {
		percentage := 0.0
		if spent.IsPositive() {
			totalF, _ := total.Total.Float64()
			percentage = totalF / spentF * 100
		}
		breakdown = append(breakdown, &domain.CategoryBreakdown{
			Name:       total.Name,
			Icon:       total.Icon,
			Color:      total.Color,
			Total:      total.Total,
			Percentage: percentage,
		})
	}

	return &domain.DashboardSummary{
		WalletBalance:     wallet.Balance,
		Budget:            budget,
		Spent:             spent,
		RemainingBudget:   remaining,
		ExpensesCount:     expensesCount,
		WeekSpent:         weekSpent,
		DailyAverage:      dailyAverage,
		ProjectedMonthly:  projectedMonthly,
		BudgetStatus:      status,
		SpentPercentage:   spentPercentage,
		CategoryBreakdown: breakdown,
	}, nil
}

// MonthlyAnalytics builds the trailing-6-months per-month spending view.
// Months are selected with the 30-day stride, see util.TrailingMonths.
func (s *ReportService) MonthlyAnalytics(accountID int32) ([]*domain.MonthlyAnalytics, error) {
	months := util.TrailingMonths(s.nowFn(), analyticsMonths)

	result := make([]*domain.MonthlyAnalytics, 0, len(months))
	for _, monthStart := range months {
		monthEnd := monthStart.AddDate(0, 1, -1)

		spent, err := s.expenseRepo.SumByDateRange(accountID, monthStart, monthEnd)
		if err != nil {
			return nil, err
		}
		count, err := s.expenseRepo.CountByDateRange(accountID, monthStart, monthEnd)
		if err != nil {
			return nil, err
		}

		budget := s.budgetAmount(accountID, monthStart)
		remaining := decimal.Max(decimal.Zero, budget.Sub(spent))

		result = append(result, &domain.MonthlyAnalytics{
			Month:         monthStart.Format(util.MonthKeyLayout),
			MonthName:     monthStart.Format(util.MonthNameLayout),
			Budget:        budget,
			Spent:         spent,
			Remaining:     remaining,
			ExpensesCount: count,
		})
	}
	return result, nil
}

// MonthlyReports builds the trailing-12-months income/expense view. Income
// sums ADD transactions while expense totals sum expense rows, so the two
// sides can diverge after out-of-band ledger deletions.
func (s *ReportService) MonthlyReports(accountID int32) ([]*domain.MonthlyReport, error) {
	months := util.TrailingMonths(s.nowFn(), reportMonths)

	result := make([]*domain.MonthlyReport, 0, len(months))
	for _, monthStart := range months {
		monthEnd := monthStart.AddDate(0, 1, -1)

		income, err := s.transactionRepo.SumByTypeAndDateRange(accountID, domain.TransactionTypeAdd, monthStart, monthEnd)
		if err != nil {
			return nil, err
		}
		expenses, err := s.expenseRepo.SumByDateRange(accountID, monthStart, monthEnd)
		if err != nil {
			return nil, err
		}
		txCount, err := s.transactionRepo.CountByDateRange(accountID, monthStart, monthEnd)
		if err != nil {
			return nil, err
		}
		incomeCount, err := s.transactionRepo.CountByTypeAndDateRange(accountID, domain.TransactionTypeAdd, monthStart, monthEnd)
		if err != nil {
			return nil, err
		}
		expenseCount, err := s.transactionRepo.CountByTypeAndDateRange(accountID, domain.TransactionTypeExpense, monthStart, monthEnd)
		if err != nil {
			return nil, err
		}

		result = append(result, &domain.MonthlyReport{
			Month:               monthStart.Format(util.MonthKeyLayout),
			MonthName:           monthStart.Format(util.MonthNameLayout),
			Income:              income,
			Expenses:            expenses,
			NetSavings:          income.Sub(expenses),
			Budget:              s.budgetAmount(accountID, monthStart),
			TransactionsCount:   txCount,
			IncomeTransactions:  incomeCount,
			ExpenseTransactions: expenseCount,
		})
	}
	return result, nil
}

// DownloadMonthlyReport builds the itemized report for one calendar month.
// Unlike MonthlyReports, expense totals here come from EXPENSE transactions.
func (s *ReportService) DownloadMonthlyReport(accountID int32, year, month int) (*domain.MonthReport, error) {
	if !util.ValidYearMonth(year, month) {
		return nil, domain.ErrInvalidYearMonth
	}

	monthStart, monthEnd := util.MonthBounds(year, time.Month(month))

	totalIncome, err := s.transactionRepo.SumByTypeAndDateRange(accountID, domain.TransactionTypeAdd, monthStart, monthEnd)
	if err != nil {
		return nil, err
	}
	totalExpenses, err := s.transactionRepo.SumByTypeAndDateRange(accountID, domain.TransactionTypeExpense, monthStart, monthEnd)
	if err != nil {
		return nil, err
	}

	budget := s.budgetAmount(accountID, monthStart)
	budgetRemaining := decimal.Zero
	if budget.IsPositive() {
		// May go negative when the month overspends
		budgetRemaining = budget.Sub(totalExpenses)
	}

	transactions, err := s.transactionRepo.ListByDateRange(accountID, monthStart, monthEnd)
	if err != nil {
		return nil, err
	}
	reportTxs := make([]*domain.ReportTransaction, 0, len(transactions))
	for _, tx := range transactions {
		reportTxs = append(reportTxs, &domain.ReportTransaction{
			Date:        tx.Date.Format("2006-01-02"),
			Type:        tx.Type,
			Amount:      tx.Amount,
			Description: tx.Description,
		})
	}

	expenses, err := s.expenseRepo.ListByDateRange(accountID, monthStart, monthEnd)
	if err != nil {
		return nil, err
	}
	reportExpenses := make([]*domain.ReportExpense, 0, len(expenses))
	for _, expense := range expenses {
		category := domain.UncategorizedLabel
		if expense.CategoryName != nil {
			category = *expense.CategoryName
		}
		reportExpenses = append(reportExpenses, &domain.ReportExpense{
			Date:        expense.Date.Format("2006-01-02"),
			Amount:      expense.Amount,
			Description: expense.Description,
			Category:    category,
		})
	}

	return &domain.MonthReport{
		Month:  monthStart.Format(util.MonthNameLayout),
		Period: fmt.Sprintf("%s to %s", monthStart.Format("2006-01-02"), monthEnd.Format("2006-01-02")),
		Summary: domain.ReportSummary{
			TotalIncome:     totalIncome,
			TotalExpenses:   totalExpenses,
			NetSavings:      totalIncome.Sub(totalExpenses),
			Budget:          budget,
			BudgetRemaining: budgetRemaining,
		},
		Transactions:     reportTxs,
		Expenses:         reportExpenses,
		TransactionCount: len(reportTxs),
		ExpenseCount:     len(reportExpenses),
	}, nil
}

// SpendingInsights compares the current calendar month's spend to the
// previous calendar month's and derives observations.
func (s *ReportService) SpendingInsights(accountID int32) (*domain.SpendingInsights, error) {
	now := s.nowFn()
	monthStart := util.FirstOfMonth(now)
	monthEnd := monthStart.AddDate(0, 1, -1)
	lastStart := util.PreviousMonth(now)
	lastEnd := lastStart.AddDate(0, 1, -1)

	current, err := s.expenseRepo.SumByDateRange(accountID, monthStart, monthEnd)
	if err != nil {
		return nil, err
	}
	last, err := s.expenseRepo.SumByDateRange(accountID, lastStart, lastEnd)
	if err != nil {
		return nil, err
	}

	// Ties count as decreased
	trend := domain.TrendDecreased
	if current.GreaterThan(last) {
		trend = domain.TrendIncreased
	}

	trendPercentage := 0.0
	if last.IsPositive() {
		diff, _ := current.Sub(last).Abs().Float64()
		lastF, _ := last.Float64()
		trendPercentage = diff / lastF * 100
	}

	var topCategory *string
	totals, err := s.expenseRepo.CategoryTotalsByDateRange(accountID, monthStart, monthEnd, 1)
	if err != nil {
		return nil, err
	}
	if len(totals) > 0 {
		topCategory = &totals[0].Name
	}

	insights := make([]string, 0, 4)
	if trend == domain.TrendIncreased {
		insights = append(insights, fmt.Sprintf("Your spending has increased by %.1f%% this month", trendPercentage))
	} else {
		insights = append(insights, fmt.Sprintf("Great! You've reduced spending by %.1f%% this month", trendPercentage))
	}
	if topCategory != nil {
		insights = append(insights, fmt.Sprintf("Your highest spending category is %s", *topCategory))
	}

	budget, err := s.budgetRepo.GetByMonth(accountID, monthStart)
	if err == nil {
		if current.GreaterThan(budget.Amount.Mul(decimal.NewFromFloat(0.8))) {
			insights = append(insights, "You're close to your budget limit. Consider reducing discretionary spending.")
		}
	} else {
		insights = append(insights, "Set a monthly budget to better track your spending goals.")
	}

	return &domain.SpendingInsights{
		SpendingTrend:     trend,
		TrendPercentage:   trendPercentage,
		TopCategory:       topCategory,
		Insights:          insights,
		CurrentMonthSpent: current,
		LastMonthSpent:    last,
	}, nil
}
