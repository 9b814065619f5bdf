package domain

import "errors"

// Domain errors
var (
	ErrNotFound            = errors.New("resource not found")
	ErrAlreadyExists       = errors.New("resource already exists")
	ErrInvalidInput        = errors.New("invalid input")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrConflict            = errors.New("conflict")
	ErrInternalError       = errors.New("internal error")
	ErrUserNotFound        = errors.New("user not found")
	ErrAccountNotFound     = errors.New("account not found")
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrExpenseNotFound     = errors.New("expense not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrBudgetNotFound      = errors.New("budget not found")
	ErrCategoryNameTaken   = errors.New("category name already in use")
	ErrNameRequired        = errors.New("name is required")
	ErrNameTooLong         = errors.New("name exceeds maximum length")
	ErrDescriptionRequired = errors.New("description is required")
	ErrDescriptionTooLong  = errors.New("description exceeds maximum length")
	ErrAmountRequired      = errors.New("amount is required")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrAmountPrecision     = errors.New("amount must have at most 2 fraction digits")
	ErrInvalidMonth        = errors.New("month must be in YYYY-MM format")
	ErrInvalidYearMonth    = errors.New("invalid year or month")
)

// Validation constants
const (
	MaxCategoryNameLength = 50
	MaxDescriptionLength  = 200
)
