package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pennyflow/pennyflow-backend/internal/domain"
	"github.com/pennyflow/pennyflow-backend/internal/middleware"
	"github.com/pennyflow/pennyflow-backend/internal/service"
	"github.com/pennyflow/pennyflow-backend/internal/util"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// BudgetHandler handles monthly budget HTTP requests
type BudgetHandler struct {
	budgetService *service.BudgetService
}

// NewBudgetHandler creates a new BudgetHandler
func NewBudgetHandler(budgetService *service.BudgetService) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

// UpsertBudgetRequest represents the set budget request body
type UpsertBudgetRequest struct {
	Month  string `json:"month"`
	Amount string `json:"amount"`
}

// BudgetResponse represents a monthly budget in API responses
type BudgetResponse struct {
	ID        int32  `json:"id"`
	Month     string `json:"month"`
	Amount    string `json:"amount"`
	CreatedAt string `json:"createdAt"`
}

func toBudgetResponse(budget *domain.MonthlyBudget) BudgetResponse {
	return BudgetResponse{
		ID:        budget.ID,
		Month:     budget.Month.Format(util.MonthKeyLayout),
		Amount:    budget.Amount.StringFixed(2),
		CreatedAt: budget.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// UpsertBudget handles POST /api/v1/budgets
// Setting a budget for a month that already has one replaces it.
func (h *BudgetHandler) UpsertBudget(c echo.Context) error {
	accountID := middleware.GetAccountID(c)
	if accountID == 0 {
		return NewUnauthorizedError(c, "Account required")
	}

	var req UpsertBudgetRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	budget, err := h.budgetService.UpsertBudget(accountID, req.Month, amount)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidMonth) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "month", Message: "Must be in YYYY-MM format"},
			})
		}
		if errors.Is(err, domain.ErrInvalidAmount) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "amount", Message: "Amount must be positive"},
			})
		}
		if errors.Is(err, domain.ErrAmountPrecision) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "amount", Message: "Amount must have at most 2 decimal places"},
			})
		}
		log.Error().Err(err).Int32("account_id", accountID).Str("month", req.Month).Msg("Failed to set budget")
		return NewInternalError(c, "Failed to set budget")
	}

	log.Info().Int32("account_id", accountID).Str("month", req.Month).Str("amount", amount.StringFixed(2)).Msg("Budget set")

	return c.JSON(http.StatusCreated, toBudgetResponse(budget))
}

// GetBudgets handles GET /api/v1/budgets
func (h *BudgetHandler) GetBudgets(c echo.Context) error {
	accountID := middleware.GetAccountID(c)
	if accountID == 0 {
		return NewUnauthorizedError(c, "Account required")
	}

	budgets, err := h.budgetService.GetBudgets(accountID)
	if err != nil {
		log.Error().Err(err).Int32("account_id", accountID).Msg("Failed to get budgets")
		return NewInternalError(c, "Failed to get budgets")
	}

	response := make([]BudgetResponse, 0, len(budgets))
	for _, budget := range budgets {
		response = append(response, toBudgetResponse(budget))
	}

	return c.JSON(http.StatusOK, response)
}

// DeleteBudget handles DELETE /api/v1/budgets/:id
func (h *BudgetHandler) DeleteBudget(c echo.Context) error {
	accountID := middleware.GetAccountID(c)
	if accountID == 0 {
		return NewUnauthorizedError(c, "Account required")
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid budget ID", []ValidationError{
			{Field: "id", Message: "Must be a valid integer"},
		})
	}

	if err := h.budgetService.DeleteBudget(accountID, id); err != nil {
		if errors.Is(err, domain.ErrBudgetNotFound) {
			return NewNotFoundError(c, "Budget not found")
		}
		log.Error().Err(err).Int32("account_id", accountID).Int32("budget_id", id).Msg("Failed to delete budget")
		return NewInternalError(c, "Failed to delete budget")
	}

	log.Info().Int32("account_id", accountID).Int32("budget_id", id).Msg("Budget deleted")

	return c.NoContent(http.StatusNoContent)
}
