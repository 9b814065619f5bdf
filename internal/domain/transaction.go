package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeAdd     TransactionType = "ADD"
	TransactionTypeExpense TransactionType = "EXPENSE"
)

// DefaultAddFundsDescription is used when add-money requests omit a description.
const DefaultAddFundsDescription = "Added money"

// ExpenseDescription labels the EXPENSE ledger entry mirroring an expense.
func ExpenseDescription(description string) string {
	return "Expense: " + description
}

// RefundDescription labels the ADD ledger entry refunding a deleted expense.
func RefundDescription(description string) string {
	return "Refund: " + description
}

// RecentTransactionLimit caps the transaction feed.
const RecentTransactionLimit = 20

// Transaction is one ledger entry. The ledger is append-only except for
// deletion, which reverses the entry's balance effect first.
type Transaction struct {
	ID          int32           `json:"id"`
	AccountID   int32           `json:"accountId"`
	Type        TransactionType `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
}

type TransactionRepository interface {
	GetByID(accountID, id int32) (*Transaction, error)
	// ListRecent returns the newest transactions first, at most limit rows.
	ListRecent(accountID int32, limit int) ([]*Transaction, error)
	// ListByDateRange returns transactions with start <= date <= end, oldest first.
	ListByDateRange(accountID int32, start, end time.Time) ([]*Transaction, error)
	SumByTypeAndDateRange(accountID int32, txType TransactionType, start, end time.Time) (decimal.Decimal, error)
	CountByDateRange(accountID int32, start, end time.Time) (int64, error)
	CountByTypeAndDateRange(accountID int32, txType TransactionType, start, end time.Time) (int64, error)
}

// LedgerRepository is the only path that mutates the wallet, expense rows and
// transaction rows. Every method runs as a single database transaction with
// the wallet row locked, so concurrent balance updates serialize and either
// all effects commit or none do.
type LedgerRepository interface {
	// AddFunds credits the wallet and appends an ADD transaction.
	AddFunds(accountID int32, amount decimal.Decimal, description string) (*Wallet, *Transaction, error)
	// RecordExpense inserts the expense, debits the wallet (clamped at zero)
	// and appends an EXPENSE transaction labeled with ExpenseDescription.
	RecordExpense(expense *Expense) (*Expense, *Wallet, error)
	// DeleteExpense credits the wallet by the expense amount, appends an ADD
	// refund transaction and removes the expense row.
	DeleteExpense(accountID, expenseID int32) (*Wallet, *Transaction, error)
	// DeleteTransaction reverses the entry's effect on the wallet (ADD removal
	// debits with the zero clamp, EXPENSE removal credits) and deletes the row.
	DeleteTransaction(accountID, transactionID int32) (*Wallet, error)
}
