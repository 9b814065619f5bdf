package service

import (
	"strings"

	"github.com/pennyflow/pennyflow-backend/internal/domain"
)

// CategoryService handles expense category business logic
type CategoryService struct {
	categoryRepo domain.CategoryRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo domain.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// CreateCategoryInput holds the input for creating a category
type CreateCategoryInput struct {
	Name  string
	Icon  string
	Color string
}

// CreateCategory creates a new category. Icon and color fall back to the
// stock defaults when omitted.
func (s *CategoryService) CreateCategory(accountID int32, input CreateCategoryInput) (*domain.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxCategoryNameLength {
		return nil, domain.ErrNameTooLong
	}

	icon := strings.TrimSpace(input.Icon)
	if icon == "" {
		icon = domain.DefaultCategoryIcon
	}
	color := strings.TrimSpace(input.Color)
	if color == "" {
		color = domain.DefaultCategoryColor
	}

	return s.categoryRepo.Create(&domain.Category{
		AccountID: accountID,
		Name:      name,
		Icon:      icon,
		Color:     color,
	})
}

// GetCategories lists the account's categories
func (s *CategoryService) GetCategories(accountID int32) ([]*domain.Category, error) {
	return s.categoryRepo.GetByAccount(accountID)
}

// GetCategory returns a single category by ID
func (s *CategoryService) GetCategory(accountID, id int32) (*domain.Category, error) {
	return s.categoryRepo.GetByID(accountID, id)
}

// UpdateCategory updates a category's name, icon and color. Omitted fields
// keep their current values.
func (s *CategoryService) UpdateCategory(accountID, id int32, input CreateCategoryInput) (*domain.Category, error) {
	current, err := s.categoryRepo.GetByID(accountID, id)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = current.Name
	}
	if len(name) > domain.MaxCategoryNameLength {
		return nil, domain.ErrNameTooLong
	}

	icon := strings.TrimSpace(input.Icon)
	if icon == "" {
		icon = current.Icon
	}
	color := strings.TrimSpace(input.Color)
	if color == "" {
		color = current.Color
	}

	return s.categoryRepo.Update(accountID, id, name, icon, color)
}

// DeleteCategory removes a category. Expenses referencing it go with it via
// the cascading foreign key; the wallet balance is not adjusted.
func (s *CategoryService) DeleteCategory(accountID, id int32) error {
	return s.categoryRepo.Delete(accountID, id)
}
