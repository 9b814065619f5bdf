package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wallet holds the current balance derived from the transaction ledger.
// One wallet per account, created lazily on first access.
type Wallet struct {
	ID        int32           `json:"id"`
	AccountID int32           `json:"accountId"`
	Balance   decimal.Decimal `json:"balance"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Credit increases the balance by amount.
func (w *Wallet) Credit(amount decimal.Decimal) {
	w.Balance = w.Balance.Add(amount)
}

// Debit decreases the balance by amount, clamped at zero. Each debit clamps
// independently: a debit larger than the balance leaves zero, and a later
// refund of the full amount overshoots the original balance. Observable
// behavior, kept as is.
func (w *Wallet) Debit(amount decimal.Decimal) {
	w.Balance = w.Balance.Sub(amount)
	if w.Balance.IsNegative() {
		w.Balance = decimal.Zero
	}
}

type WalletRepository interface {
	// GetOrCreate returns the account's wallet, creating a zero-balance row
	// if none exists yet.
	GetOrCreate(accountID int32) (*Wallet, error)
}
