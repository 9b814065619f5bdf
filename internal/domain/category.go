package domain

import "time"

const (
	DefaultCategoryIcon  = "💰"
	DefaultCategoryColor = "#3498db"
)

type Category struct {
	ID        int32     `json:"id"`
	AccountID int32     `json:"accountId"`
	Name      string    `json:"name"`
	Icon      string    `json:"icon"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"createdAt"`
}

type CategoryRepository interface {
	Create(category *Category) (*Category, error)
	GetByID(accountID, id int32) (*Category, error)
	GetByAccount(accountID int32) ([]*Category, error)
	Update(accountID, id int32, name, icon, color string) (*Category, error)
	// Delete removes the category; expenses referencing it are removed by
	// the cascading foreign key. The wallet is deliberately left untouched.
	Delete(accountID, id int32) error
}
