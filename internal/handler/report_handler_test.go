package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pennyflow/pennyflow-backend/internal/domain"
	"github.com/pennyflow/pennyflow-backend/internal/service"
	"github.com/pennyflow/pennyflow-backend/internal/testutil"
	"github.com/shopspring/decimal"
)

type reportFixture struct {
	categoryRepo    *testutil.MockCategoryRepository
	walletRepo      *testutil.MockWalletRepository
	budgetRepo      *testutil.MockBudgetRepository
	expenseRepo     *testutil.MockExpenseRepository
	transactionRepo *testutil.MockTransactionRepository
	reportService   *service.ReportService
}

func newReportFixture(now time.Time) *reportFixture {
	categoryRepo := testutil.NewMockCategoryRepository()
	walletRepo := testutil.NewMockWalletRepository()
	budgetRepo := testutil.NewMockBudgetRepository()
	expenseRepo := testutil.NewMockExpenseRepository(categoryRepo)
	transactionRepo := testutil.NewMockTransactionRepository()
	reportService := service.NewReportService(walletRepo, budgetRepo, expenseRepo, transactionRepo)
	reportService.SetNow(func() time.Time { return now })

	return &reportFixture{
		categoryRepo:    categoryRepo,
		walletRepo:      walletRepo,
		budgetRepo:      budgetRepo,
		expenseRepo:     expenseRepo,
		transactionRepo: transactionRepo,
		reportService:   reportService,
	}
}

func TestGetDashboardSummary_NoActivity(t *testing.T) {
	e := echo.New()
	f := newReportFixture(time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC))
	handler := NewReportHandler(f.reportService)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/summary", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContextWithAccount(c, "auth0|test", "test@example.com", "Test User", 1)

	if err := handler.GetDashboardSummary(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var response DashboardSummaryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if response.BudgetStatus != string(domain.BudgetStatusNoBudget) {
		t.Errorf("Expected budget status 'no_budget', got %s", response.BudgetStatus)
	}

	if response.Spent != "0.00" {
		t.Errorf("Expected spent '0.00', got %s", response.Spent)
	}

	if len(response.CategoryBreakdown) != 0 {
		t.Errorf("Expected empty category breakdown, got %d entries", len(response.CategoryBreakdown))
	}
}

func TestGetMonthlyAnalytics_ReturnsSixMonths(t *testing.T) {
	e := echo.New()
	f := newReportFixture(time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC))
	handler := NewReportHandler(f.reportService)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/monthly", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContextWithAccount(c, "auth0|test", "test@example.com", "Test User", 1)

	if err := handler.GetMonthlyAnalytics(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var response []MonthlyAnalyticsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if len(response) != 6 {
		t.Fatalf("Expected 6 months, got %d", len(response))
	}

	if response[0].Month != "2025-06" {
		t.Errorf("Expected current month first, got %s", response[0].Month)
	}
}

func TestDownloadMonthlyReport_LeapFebruary(t *testing.T) {
	e := echo.New()
	f := newReportFixture(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	handler := NewReportHandler(f.reportService)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/2024/2", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("year", "month")
	c.SetParamValues("2024", "2")

	setupAuthContextWithAccount(c, "auth0|test", "test@example.com", "Test User", 1)

	if err := handler.DownloadMonthlyReport(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var response MonthReportResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if response.Period != "2024-02-01 to 2024-02-29" {
		t.Errorf("Expected leap-year February period, got %s", response.Period)
	}

	disposition := rec.Header().Get(echo.HeaderContentDisposition)
	if disposition != `attachment; filename="report-2024-02.json"` {
		t.Errorf("Unexpected content disposition: %s", disposition)
	}
}

func TestDownloadMonthlyReport_InvalidMonth(t *testing.T) {
	cases := []struct {
		year  string
		month string
	}{
		{"2025", "0"},
		{"2025", "13"},
		{"0", "5"},
		{"10000", "5"},
		{"abc", "5"},
		{"2025", "xyz"},
	}

	for _, tc := range cases {
		e := echo.New()
		f := newReportFixture(time.Now().UTC())
		handler := NewReportHandler(f.reportService)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/"+tc.year+"/"+tc.month, nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("year", "month")
		c.SetParamValues(tc.year, tc.month)

		setupAuthContextWithAccount(c, "auth0|test", "test@example.com", "Test User", 1)

		if err := handler.DownloadMonthlyReport(c); err != nil {
			t.Fatalf("%s/%s: expected JSON response, got error: %v", tc.year, tc.month, err)
		}

		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s/%s: expected status 400, got %d", tc.year, tc.month, rec.Code)
		}
	}
}

func TestDownloadMonthlyReport_TotalsFromTransactions(t *testing.T) {
	e := echo.New()
	f := newReportFixture(time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC))
	handler := NewReportHandler(f.reportService)

	march := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	f.transactionRepo.AddTransaction(&domain.Transaction{
		AccountID:   1,
		Type:        domain.TransactionTypeAdd,
		Amount:      decimal.NewFromInt(100),
		Description: "Added money",
		Date:        march,
	})
	f.transactionRepo.AddTransaction(&domain.Transaction{
		AccountID:   1,
		Type:        domain.TransactionTypeExpense,
		Amount:      decimal.NewFromInt(30),
		Description: "Expense: Lunch",
		Date:        march,
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/2025/3", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("year", "month")
	c.SetParamValues("2025", "3")

	setupAuthContextWithAccount(c, "auth0|test", "test@example.com", "Test User", 1)

	if err := handler.DownloadMonthlyReport(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var response MonthReportResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if response.Summary.TotalIncome != "100.00" {
		t.Errorf("Expected total income '100.00', got %s", response.Summary.TotalIncome)
	}

	if response.Summary.TotalExpenses != "30.00" {
		t.Errorf("Expected total expenses '30.00', got %s", response.Summary.TotalExpenses)
	}

	if response.Summary.NetSavings != "70.00" {
		t.Errorf("Expected net savings '70.00', got %s", response.Summary.NetSavings)
	}

	if response.TransactionCount != 2 {
		t.Errorf("Expected 2 transactions, got %d", response.TransactionCount)
	}
}

func TestGetSpendingInsights_Success(t *testing.T) {
	e := echo.New()
	f := newReportFixture(time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC))
	handler := NewReportHandler(f.reportService)

	f.categoryRepo.AddCategory(&domain.Category{ID: 1, AccountID: 1, Name: "Food", Icon: "🍔", Color: "#e67e22"})
	f.expenseRepo.AddExpense(&domain.Expense{
		AccountID:   1,
		CategoryID:  1,
		Amount:      decimal.NewFromInt(60),
		Description: "Groceries",
		Date:        time.Date(2025, 5, 5, 0, 0, 0, 0, time.UTC),
	})
	f.expenseRepo.AddExpense(&domain.Expense{
		AccountID:   1,
		CategoryID:  1,
		Amount:      decimal.NewFromInt(40),
		Description: "Groceries",
		Date:        time.Date(2025, 4, 5, 0, 0, 0, 0, time.UTC),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/insights/spending", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContextWithAccount(c, "auth0|test", "test@example.com", "Test User", 1)

	if err := handler.GetSpendingInsights(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var response SpendingInsightsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if response.SpendingTrend != string(domain.TrendIncreased) {
		t.Errorf("Expected trend 'increased', got %s", response.SpendingTrend)
	}

	if response.TrendPercentage != 50.0 {
		t.Errorf("Expected trend percentage 50.0, got %f", response.TrendPercentage)
	}

	if response.TopCategory == nil || *response.TopCategory != "Food" {
		t.Errorf("Expected top category 'Food', got %v", response.TopCategory)
	}
}

func TestGetDashboardSummary_MissingAccountID(t *testing.T) {
	e := echo.New()
	f := newReportFixture(time.Now().UTC())
	handler := NewReportHandler(f.reportService)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/summary", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContext(c, "auth0|test", "test@example.com", "Test User")

	if err := handler.GetDashboardSummary(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}
