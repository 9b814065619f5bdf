package service

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pennyflow/pennyflow-backend/internal/domain"
	"github.com/pennyflow/pennyflow-backend/internal/websocket"
)

// LedgerService is the single entry point for everything that moves money:
// adding funds, recording expenses and reversing either. Reads of the wallet
// and the transaction feed live here too.
type LedgerService struct {
	ledgerRepo      domain.LedgerRepository
	walletRepo      domain.WalletRepository
	transactionRepo domain.TransactionRepository
	expenseRepo     domain.ExpenseRepository
	categoryRepo    domain.CategoryRepository
	eventPublisher  websocket.EventPublisher
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(
	ledgerRepo domain.LedgerRepository,
	walletRepo domain.WalletRepository,
	transactionRepo domain.TransactionRepository,
	expenseRepo domain.ExpenseRepository,
	categoryRepo domain.CategoryRepository,
) *LedgerService {
	return &LedgerService{
		ledgerRepo:      ledgerRepo,
		walletRepo:      walletRepo,
		transactionRepo: transactionRepo,
		expenseRepo:     expenseRepo,
		categoryRepo:    categoryRepo,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *LedgerService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// publishEvent publishes a WebSocket event if a publisher is configured
func (s *LedgerService) publishEvent(accountID int32, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(accountID, event)
	}
}

// validateAmount rejects non-positive amounts and amounts carrying more than
// two fraction digits. Sub-cent precision never reaches the ledger.
func validateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return domain.ErrInvalidAmount
	}
	if !amount.Equal(amount.Round(2)) {
		return domain.ErrAmountPrecision
	}
	return nil
}

// Wallet returns the account's wallet, creating it on first access.
func (s *LedgerService) Wallet(accountID int32) (*domain.Wallet, error) {
	return s.walletRepo.GetOrCreate(accountID)
}

// RecentTransactions returns the newest ledger entries, capped by
// domain.RecentTransactionLimit.
func (s *LedgerService) RecentTransactions(accountID int32) ([]*domain.Transaction, error) {
	return s.transactionRepo.ListRecent(accountID, domain.RecentTransactionLimit)
}

// AddFunds credits the wallet and appends an ADD transaction. A blank
// description falls back to the stock add-money label.
func (s *LedgerService) AddFunds(accountID int32, amount decimal.Decimal, description string) (*domain.Wallet, *domain.Transaction, error) {
	if err := validateAmount(amount); err != nil {
		return nil, nil, err
	}

	description = strings.TrimSpace(description)
	if description == "" {
		description = domain.DefaultAddFundsDescription
	}
	if len(description) > domain.MaxDescriptionLength {
		return nil, nil, domain.ErrDescriptionTooLong
	}

	wallet, transaction, err := s.ledgerRepo.AddFunds(accountID, amount, description)
	if err != nil {
		return nil, nil, err
	}

	s.publishEvent(accountID, websocket.TransactionCreated(transaction))
	s.publishEvent(accountID, websocket.WalletUpdated(wallet))

	return wallet, transaction, nil
}

// RecordExpenseInput holds the input for recording an expense
type RecordExpenseInput struct {
	CategoryID  int32
	Amount      decimal.Decimal
	Description string
	Date        *time.Time
}

// RecordExpense validates the input, stores the expense and debits the wallet
// through the ledger. The debit clamps at zero rather than failing when the
// wallet cannot cover the amount.
func (s *LedgerService) RecordExpense(accountID int32, input RecordExpenseInput) (*domain.Expense, *domain.Wallet, error) {
	if err := validateAmount(input.Amount); err != nil {
		return nil, nil, err
	}

	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, nil, domain.ErrDescriptionRequired
	}
	if len(description) > domain.MaxDescriptionLength {
		return nil, nil, domain.ErrDescriptionTooLong
	}

	// Category must exist and belong to the account
	if _, err := s.categoryRepo.GetByID(accountID, input.CategoryID); err != nil {
		return nil, nil, domain.ErrCategoryNotFound
	}

	date := time.Now().UTC().Truncate(24 * time.Hour)
	if input.Date != nil {
		date = *input.Date
	}

	expense := &domain.Expense{
		AccountID:   accountID,
		CategoryID:  input.CategoryID,
		Amount:      input.Amount,
		Description: description,
		Date:        date,
	}

	expense, wallet, err := s.ledgerRepo.RecordExpense(expense)
	if err != nil {
		return nil, nil, err
	}

	s.publishEvent(accountID, websocket.ExpenseCreated(expense))
	s.publishEvent(accountID, websocket.WalletUpdated(wallet))

	return expense, wallet, nil
}

// DeleteExpense removes the expense, refunds its amount to the wallet and
// appends an ADD refund transaction.
func (s *LedgerService) DeleteExpense(accountID, expenseID int32) (*domain.Wallet, error) {
	wallet, refund, err := s.ledgerRepo.DeleteExpense(accountID, expenseID)
	if err != nil {
		return nil, err
	}

	s.publishEvent(accountID, websocket.ExpenseDeleted(map[string]interface{}{"id": expenseID}))
	s.publishEvent(accountID, websocket.TransactionCreated(refund))
	s.publishEvent(accountID, websocket.WalletUpdated(wallet))

	return wallet, nil
}

// DeleteTransaction removes a ledger entry and reverses its balance effect.
// Deleting an ADD debits the wallet (clamped at zero), deleting an EXPENSE
// credits it. The expense row, if any, is untouched.
func (s *LedgerService) DeleteTransaction(accountID, transactionID int32) (*domain.Wallet, error) {
	wallet, err := s.ledgerRepo.DeleteTransaction(accountID, transactionID)
	if err != nil {
		return nil, err
	}

	s.publishEvent(accountID, websocket.TransactionDeleted(map[string]interface{}{"id": transactionID}))
	s.publishEvent(accountID, websocket.WalletUpdated(wallet))

	return wallet, nil
}

// Expenses returns the account's expenses with category details, newest first.
func (s *LedgerService) Expenses(accountID int32) ([]*domain.Expense, error) {
	return s.expenseRepo.GetByAccount(accountID)
}

// Expense returns a single expense by ID.
func (s *LedgerService) Expense(accountID, expenseID int32) (*domain.Expense, error) {
	return s.expenseRepo.GetByID(accountID, expenseID)
}
