package domain

import (
	"time"

	"github.com/google/uuid"
)

// Account is the tenant every row of financial data belongs to.
// One account per user; created on first authenticated callback.
type Account struct {
	ID        int32     `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type AccountRepository interface {
	GetByID(id int32) (*Account, error)
	GetByUserID(userID uuid.UUID) (*Account, error)
	GetByAuth0ID(auth0ID string) (*Account, error)
	Create(account *Account) (*Account, error)
}
