package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pennyflow/pennyflow-backend/internal/domain"
	"github.com/pennyflow/pennyflow-backend/internal/service"
	"github.com/pennyflow/pennyflow-backend/internal/testutil"
	"github.com/shopspring/decimal"
)

func TestUpsertBudget_Success(t *testing.T) {
	e := echo.New()
	budgetRepo := testutil.NewMockBudgetRepository()
	handler := NewBudgetHandler(service.NewBudgetService(budgetRepo))

	reqBody := `{"month": "2025-03", "amount": "500.00"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/budgets", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContextWithAccount(c, "auth0|test", "test@example.com", "Test User", 1)

	if err := handler.UpsertBudget(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", rec.Code)
	}

	var response BudgetResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if response.Month != "2025-03" {
		t.Errorf("Expected month '2025-03', got %s", response.Month)
	}

	if response.Amount != "500.00" {
		t.Errorf("Expected amount '500.00', got %s", response.Amount)
	}
}

func TestUpsertBudget_ReplacesExistingMonth(t *testing.T) {
	e := echo.New()
	budgetRepo := testutil.NewMockBudgetRepository()
	budgetRepo.AddBudget(&domain.MonthlyBudget{
		ID:        1,
		AccountID: 1,
		Month:     time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		Amount:    decimal.NewFromInt(200),
	})
	handler := NewBudgetHandler(service.NewBudgetService(budgetRepo))

	reqBody := `{"month": "2025-03", "amount": "750.00"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/budgets", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContextWithAccount(c, "auth0|test", "test@example.com", "Test User", 1)

	if err := handler.UpsertBudget(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	budgets, err := budgetRepo.GetByAccount(1)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(budgets) != 1 {
		t.Fatalf("Expected 1 budget after upsert, got %d", len(budgets))
	}

	if !budgets[0].Amount.Equal(decimal.NewFromInt(750)) {
		t.Errorf("Expected amount 750, got %s", budgets[0].Amount)
	}
}

func TestUpsertBudget_InvalidMonth(t *testing.T) {
	invalidMonths := []string{"2025-13", "2025", "March 2025", ""}

	for _, month := range invalidMonths {
		e := echo.New()
		budgetRepo := testutil.NewMockBudgetRepository()
		handler := NewBudgetHandler(service.NewBudgetService(budgetRepo))

		reqBody := `{"month": "` + month + `", "amount": "100.00"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/budgets", strings.NewReader(reqBody))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		setupAuthContextWithAccount(c, "auth0|test", "test@example.com", "Test User", 1)

		if err := handler.UpsertBudget(c); err != nil {
			t.Fatalf("month %q: expected JSON response, got error: %v", month, err)
		}

		if rec.Code != http.StatusBadRequest {
			t.Errorf("month %q: expected status 400, got %d", month, rec.Code)
		}
	}
}

func TestUpsertBudget_InvalidAmount(t *testing.T) {
	invalidAmounts := []string{"0", "-10", "100.005"}

	for _, amount := range invalidAmounts {
		e := echo.New()
		budgetRepo := testutil.NewMockBudgetRepository()
		handler := NewBudgetHandler(service.NewBudgetService(budgetRepo))

		reqBody := `{"month": "2025-03", "amount": "` + amount + `"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/budgets", strings.NewReader(reqBody))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		setupAuthContextWithAccount(c, "auth0|test", "test@example.com", "Test User", 1)

		if err := handler.UpsertBudget(c); err != nil {
			t.Fatalf("amount %q: expected JSON response, got error: %v", amount, err)
		}

		if rec.Code != http.StatusBadRequest {
			t.Errorf("amount %q: expected status 400, got %d", amount, rec.Code)
		}
	}
}

func TestGetBudgets_Success(t *testing.T) {
	e := echo.New()
	budgetRepo := testutil.NewMockBudgetRepository()
	budgetRepo.AddBudget(&domain.MonthlyBudget{
		ID:        1,
		AccountID: 1,
		Month:     time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		Amount:    decimal.NewFromInt(300),
	})
	budgetRepo.AddBudget(&domain.MonthlyBudget{
		ID:        2,
		AccountID: 2,
		Month:     time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		Amount:    decimal.NewFromInt(999),
	})
	handler := NewBudgetHandler(service.NewBudgetService(budgetRepo))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/budgets", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContextWithAccount(c, "auth0|test", "test@example.com", "Test User", 1)

	if err := handler.GetBudgets(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var response []BudgetResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if len(response) != 1 {
		t.Fatalf("Expected 1 budget, got %d", len(response))
	}

	if response[0].Amount != "300.00" {
		t.Errorf("Expected amount '300.00', got %s", response[0].Amount)
	}
}

func TestDeleteBudget_NotFound(t *testing.T) {
	e := echo.New()
	budgetRepo := testutil.NewMockBudgetRepository()
	handler := NewBudgetHandler(service.NewBudgetService(budgetRepo))

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/budgets/42", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("42")

	setupAuthContextWithAccount(c, "auth0|test", "test@example.com", "Test User", 1)

	if err := handler.DeleteBudget(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}
