package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pennyflow/pennyflow-backend/internal/domain"
	"github.com/pennyflow/pennyflow-backend/internal/middleware"
	"github.com/pennyflow/pennyflow-backend/internal/service"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// WalletHandler handles wallet and transaction HTTP requests
type WalletHandler struct {
	ledgerService *service.LedgerService
}

// NewWalletHandler creates a new WalletHandler
func NewWalletHandler(ledgerService *service.LedgerService) *WalletHandler {
	return &WalletHandler{ledgerService: ledgerService}
}

// WalletResponse represents the wallet in API responses
type WalletResponse struct {
	Balance   string `json:"balance"`
	UpdatedAt string `json:"updatedAt"`
}

// AddMoneyRequest represents the add money request body
type AddMoneyRequest struct {
	Amount      string `json:"amount"`
	Description string `json:"description,omitempty"`
}

// TransactionResponse represents a ledger entry in API responses
type TransactionResponse struct {
	ID          int32  `json:"id"`
	Type        string `json:"type"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
	Date        string `json:"date"`
}

func toTransactionResponse(transaction *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          transaction.ID,
		Type:        string(transaction.Type),
		Amount:      transaction.Amount.StringFixed(2),
		Description: transaction.Description,
		Date:        transaction.Date.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// GetWallet handles GET /api/v1/wallet
// The wallet is created lazily on first access.
func (h *WalletHandler) GetWallet(c echo.Context) error {
	accountID := middleware.GetAccountID(c)
	if accountID == 0 {
		return NewUnauthorizedError(c, "Account required")
	}

	wallet, err := h.ledgerService.Wallet(accountID)
	if err != nil {
		log.Error().Err(err).Int32("account_id", accountID).Msg("Failed to get wallet")
		return NewInternalError(c, "Failed to get wallet")
	}

	return c.JSON(http.StatusOK, WalletResponse{
		Balance:   wallet.Balance.StringFixed(2),
		UpdatedAt: wallet.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}

// AddMoneyResponse pairs the new balance with the recorded ledger entry.
type AddMoneyResponse struct {
	Balance     string              `json:"balance"`
	Transaction TransactionResponse `json:"transaction"`
}

// AddMoney handles POST /api/v1/wallet/add-money
func (h *WalletHandler) AddMoney(c echo.Context) error {
	accountID := middleware.GetAccountID(c)
	if accountID == 0 {
		return NewUnauthorizedError(c, "Account required")
	}

	var req AddMoneyRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	wallet, transaction, err := h.ledgerService.AddFunds(accountID, amount, req.Description)
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
		if errors.Is(err, domain.ErrDescriptionTooLong) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "description", Message: "Description must be 200 characters or less"},
			})
		}
		log.Error().Err(err).Int32("account_id", accountID).Msg("Failed to add money")
		return NewInternalError(c, "Failed to add money")
	}

	log.Info().Int32("account_id", accountID).Str("amount", amount.StringFixed(2)).Str("balance", wallet.Balance.StringFixed(2)).Msg("Money added")

	return c.JSON(http.StatusOK, AddMoneyResponse{
		Balance:     wallet.Balance.StringFixed(2),
		Transaction: toTransactionResponse(transaction),
	})
}

// GetTransactions handles GET /api/v1/transactions
// Returns the most recent 20 ledger entries, newest first.
func (h *WalletHandler) GetTransactions(c echo.Context) error {
	accountID := middleware.GetAccountID(c)
	if accountID == 0 {
		return NewUnauthorizedError(c, "Account required")
	}

	transactions, err := h.ledgerService.RecentTransactions(accountID)
	if err != nil {
		log.Error().Err(err).Int32("account_id", accountID).Msg("Failed to get transactions")
		return NewInternalError(c, "Failed to get transactions")
	}

	response := make([]TransactionResponse, 0, len(transactions))
	for _, transaction := range transactions {
		response = append(response, toTransactionResponse(transaction))
	}

	return c.JSON(http.StatusOK, response)
}

// DeleteTransaction handles DELETE /api/v1/transactions/:id
// Deleting an entry reverses its effect on the wallet balance. The expense
// row behind an EXPENSE entry is left in place.
func (h *WalletHandler) DeleteTransaction(c echo.Context) error {
	accountID := middleware.GetAccountID(c)
	if accountID == 0 {
		return NewUnauthorizedError(c, "Account required")
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", []ValidationError{
			{Field: "id", Message: "Must be a valid integer"},
		})
	}

	wallet, err := h.ledgerService.DeleteTransaction(accountID, id)
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		log.Error().Err(err).Int32("account_id", accountID).Int32("transaction_id", id).Msg("Failed to delete transaction")
		return NewInternalError(c, "Failed to delete transaction")
	}

	log.Info().Int32("account_id", accountID).Int32("transaction_id", id).Msg("Transaction deleted")

	return c.JSON(http.StatusOK, WalletBalanceResponse{
		WalletBalance: wallet.Balance.StringFixed(2),
	})
}
