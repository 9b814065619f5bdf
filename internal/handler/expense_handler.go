package handler

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pennyflow/pennyflow-backend/internal/domain"
	"github.com/pennyflow/pennyflow-backend/internal/middleware"
	"github.com/pennyflow/pennyflow-backend/internal/service"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ExpenseHandler handles expense-related HTTP requests
type ExpenseHandler struct {
	ledgerService  *service.LedgerService
	receiptService *service.ReceiptService
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(ledgerService *service.LedgerService, receiptService *service.ReceiptService) *ExpenseHandler {
	return &ExpenseHandler{
		ledgerService:  ledgerService,
		receiptService: receiptService,
	}
}

// CreateExpenseRequest represents the create expense request body
type CreateExpenseRequest struct {
	CategoryID  int32   `json:"categoryId"`
	Amount      string  `json:"amount"`
	Description string  `json:"description"`
	Date        *string `json:"date,omitempty"`
}

// ExpenseResponse represents an expense in API responses
type ExpenseResponse struct {
	ID            int32   `json:"id"`
	CategoryID    int32   `json:"categoryId"`
	Amount        string  `json:"amount"`
	Description   string  `json:"description"`
	Date          string  `json:"date"`
	HasReceipt    bool    `json:"hasReceipt"`
	CreatedAt     string  `json:"createdAt"`
	CategoryName  *string `json:"categoryName,omitempty"`
	CategoryIcon  *string `json:"categoryIcon,omitempty"`
	CategoryColor *string `json:"categoryColor,omitempty"`
}

// CreateExpenseResponse pairs the created expense with the wallet balance
// after the debit.
type CreateExpenseResponse struct {
	Expense       ExpenseResponse `json:"expense"`
	WalletBalance string          `json:"walletBalance"`
}

func toExpenseResponse(expense *domain.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:            expense.ID,
		CategoryID:    expense.CategoryID,
		Amount:        expense.Amount.StringFixed(2),
		Description:   expense.Description,
		Date:          expense.Date.Format("2006-01-02"),
		HasReceipt:    expense.ReceiptPath != nil,
		CreatedAt:     expense.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		CategoryName:  expense.CategoryName,
		CategoryIcon:  expense.CategoryIcon,
		CategoryColor: expense.CategoryColor,
	}
}

// CreateExpense handles POST /api/v1/expenses
func (h *ExpenseHandler) CreateExpense(c echo.Context) error {
	accountID := middleware.GetAccountID(c)
	if accountID == 0 {
		return NewUnauthorizedError(c, "Account required")
	}

	var req CreateExpenseRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	if req.CategoryID <= 0 {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "categoryId", Message: "Category ID is required"},
		})
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	var date *time.Time
	if req.Date != nil && *req.Date != "" {
		parsed, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			return NewValidationError(c, "Invalid date", []ValidationError{
				{Field: "date", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		date = &parsed
	}

	expense, wallet, err := h.ledgerService.RecordExpense(accountID, service.RecordExpenseInput{
		CategoryID:  req.CategoryID,
		Amount:      amount,
		Description: req.Description,
		Date:        date,
	})
	if err != nil {
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
		if errors.Is(err, domain.ErrDescriptionRequired) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "description", Message: "Description is required"},
			})
		}
		if errors.Is(err, domain.ErrDescriptionTooLong) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "description", Message: "Description must be 200 characters or less"},
			})
		}
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "categoryId", Message: "Category not found"},
			})
		}
		log.Error().Err(err).Int32("account_id", accountID).Msg("Failed to create expense")
		return NewInternalError(c, "Failed to create expense")
	}

	log.Info().Int32("account_id", accountID).Int32("expense_id", expense.ID).Str("amount", expense.Amount.StringFixed(2)).Msg("Expense created")

	return c.JSON(http.StatusCreated, CreateExpenseResponse{
		Expense:       toExpenseResponse(expense),
		WalletBalance: wallet.Balance.StringFixed(2),
	})
}

// GetExpenses handles GET /api/v1/expenses
func (h *ExpenseHandler) GetExpenses(c echo.Context) error {
	accountID := middleware.GetAccountID(c)
	if accountID == 0 {
		return NewUnauthorizedError(c, "Account required")
	}

	expenses, err := h.ledgerService.Expenses(accountID)
	if err != nil {
		log.Error().Err(err).Int32("account_id", accountID).Msg("Failed to get expenses")
		return NewInternalError(c, "Failed to get expenses")
	}

	response := make([]ExpenseResponse, 0, len(expenses))
	for _, expense := range expenses {
		response = append(response, toExpenseResponse(expense))
	}

	return c.JSON(http.StatusOK, response)
}

// WalletBalanceResponse carries the wallet balance after a ledger mutation.
type WalletBalanceResponse struct {
	WalletBalance string `json:"walletBalance"`
}

// DeleteExpense handles DELETE /api/v1/expenses/:id
// The expense amount is refunded to the wallet as an ADD transaction.
func (h *ExpenseHandler) DeleteExpense(c echo.Context) error {
	accountID := middleware.GetAccountID(c)
	if accountID == 0 {
		return NewUnauthorizedError(c, "Account required")
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid expense ID", []ValidationError{
			{Field: "id", Message: "Must be a valid integer"},
		})
	}

	wallet, err := h.ledgerService.DeleteExpense(accountID, id)
	if err != nil {
		if errors.Is(err, domain.ErrExpenseNotFound) {
			return NewNotFoundError(c, "Expense not found")
		}
		log.Error().Err(err).Int32("account_id", accountID).Int32("expense_id", id).Msg("Failed to delete expense")
		return NewInternalError(c, "Failed to delete expense")
	}

	log.Info().Int32("account_id", accountID).Int32("expense_id", id).Msg("Expense deleted")

	return c.JSON(http.StatusOK, WalletBalanceResponse{
		WalletBalance: wallet.Balance.StringFixed(2),
	})
}

// ReceiptResponse represents presigned receipt URLs in API responses
type ReceiptResponse struct {
	ThumbnailURL string `json:"thumbnailUrl"`
	DisplayURL   string `json:"displayUrl"`
}

// AttachReceipt handles POST /api/v1/expenses/:id/receipt
func (h *ExpenseHandler) AttachReceipt(c echo.Context) error {
	accountID := middleware.GetAccountID(c)
	if accountID == 0 {
		return NewUnauthorizedError(c, "Account required")
	}

	if h.receiptService == nil || !h.receiptService.IsEnabled() {
		return NewServiceUnavailableError(c, "Receipt uploads are disabled (storage not configured)")
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid expense ID", []ValidationError{
			{Field: "id", Message: "Must be a valid integer"},
		})
	}

	file, err := c.FormFile("file")
	if err != nil {
		return NewValidationError(c, "No file provided", []ValidationError{
			{Field: "file", Message: "File is required"},
		})
	}

	src, err := file.Open()
	if err != nil {
		log.Error().Err(err).Msg("Failed to open uploaded file")
		return NewInternalError(c, "Failed to process file")
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		log.Error().Err(err).Msg("Failed to read uploaded file")
		return NewInternalError(c, "Failed to read file")
	}

	urls, err := h.receiptService.AttachReceipt(c.Request().Context(), accountID, id, data, file.Filename)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrExpenseNotFound):
			return NewNotFoundError(c, "Expense not found")
		case errors.Is(err, service.ErrReceiptTooLarge):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "file", Message: "File too large. Maximum size is 5MB"},
			})
		case errors.Is(err, service.ErrInvalidFormat):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "file", Message: "Invalid format. Supported: JPEG, PNG, WebP"},
			})
		case errors.Is(err, service.ErrReceiptTooSmall):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "file", Message: "Image too small. Minimum 50x50 pixels"},
			})
		case errors.Is(err, service.ErrInvalidReceiptData):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "file", Message: "Invalid image data"},
			})
		default:
			log.Error().Err(err).Int32("account_id", accountID).Int32("expense_id", id).Msg("Failed to attach receipt")
			return NewInternalError(c, "Failed to attach receipt")
		}
	}

	log.Info().Int32("account_id", accountID).Int32("expense_id", id).Msg("Receipt attached")

	return c.JSON(http.StatusCreated, ReceiptResponse{
		ThumbnailURL: urls.ThumbnailURL,
		DisplayURL:   urls.DisplayURL,
	})
}

// GetReceipt handles GET /api/v1/expenses/:id/receipt
// Returns short-lived presigned URLs for the stored variants.
func (h *ExpenseHandler) GetReceipt(c echo.Context) error {
	accountID := middleware.GetAccountID(c)
	if accountID == 0 {
		return NewUnauthorizedError(c, "Account required")
	}

	if h.receiptService == nil || !h.receiptService.IsEnabled() {
		return NewServiceUnavailableError(c, "Receipts are disabled (storage not configured)")
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid expense ID", []ValidationError{
			{Field: "id", Message: "Must be a valid integer"},
		})
	}

	urls, err := h.receiptService.ReceiptURLs(c.Request().Context(), accountID, id)
	if err != nil {
		if errors.Is(err, domain.ErrExpenseNotFound) {
			return NewNotFoundError(c, "Expense not found")
		}
		if errors.Is(err, service.ErrNoReceipt) {
			return NewNotFoundError(c, "Expense has no receipt")
		}
		log.Error().Err(err).Int32("account_id", accountID).Int32("expense_id", id).Msg("Failed to get receipt URLs")
		return NewInternalError(c, "Failed to get receipt")
	}

	return c.JSON(http.StatusOK, ReceiptResponse{
		ThumbnailURL: urls.ThumbnailURL,
		DisplayURL:   urls.DisplayURL,
	})
}

// DeleteReceipt handles DELETE /api/v1/expenses/:id/receipt
func (h *ExpenseHandler) DeleteReceipt(c echo.Context) error {
	accountID := middleware.GetAccountID(c)
	if accountID == 0 {
		return NewUnauthorizedError(c, "Account required")
	}

	if h.receiptService == nil || !h.receiptService.IsEnabled() {
		return NewServiceUnavailableError(c, "Receipts are disabled (storage not configured)")
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid expense ID", []ValidationError{
			{Field: "id", Message: "Must be a valid integer"},
		})
	}

	if err := h.receiptService.DeleteReceipt(c.Request().Context(), accountID, id); err != nil {
		if errors.Is(err, domain.ErrExpenseNotFound) {
			return NewNotFoundError(c, "Expense not found")
		}
		if errors.Is(err, service.ErrNoReceipt) {
			return NewNotFoundError(c, "Expense has no receipt")
		}
		log.Error().Err(err).Int32("account_id", accountID).Int32("expense_id", id).Msg("Failed to delete receipt")
		return NewInternalError(c, "Failed to delete receipt")
	}

	log.Info().Int32("account_id", accountID).Int32("expense_id", id).Msg("Receipt deleted")

	return c.NoContent(http.StatusNoContent)
}
