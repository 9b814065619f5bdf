package testutil

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pennyflow/pennyflow-backend/internal/domain"
)

// MockUserRepository is a mock implementation of domain.UserRepository
type MockUserRepository struct {
	Users map[string]*domain.User
	ByID  map[uuid.UUID]*domain.User
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users: make(map[string]*domain.User),
		ByID:  make(map[uuid.UUID]*domain.User),
	}
}

// GetByID retrieves a user by ID
func (m *MockUserRepository) GetByID(id uuid.UUID) (*domain.User, error) {
	if user, ok := m.ByID[id]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// GetByAuth0ID retrieves a user by Auth0 ID
func (m *MockUserRepository) GetByAuth0ID(auth0ID string) (*domain.User, error) {
	if user, ok := m.Users[auth0ID]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// Create creates a new user
func (m *MockUserRepository) Create(user *domain.User) (*domain.User, error) {
	user.ID = uuid.New()
	m.Users[user.Auth0ID] = user
	m.ByID[user.ID] = user
	return user, nil
}

// UpdateName updates only the user's name by Auth0 ID
func (m *MockUserRepository) UpdateName(auth0ID string, name string) (*domain.User, error) {
	user, ok := m.Users[auth0ID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	user.Name = &name
	return user, nil
}

// AddUser adds a user to the mock repository (helper for tests)
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.Users[user.Auth0ID] = user
	m.ByID[user.ID] = user
}

// MockAccountRepository is a mock implementation of domain.AccountRepository
type MockAccountRepository struct {
	Accounts  map[int32]*domain.Account
	ByUserID  map[uuid.UUID]*domain.Account
	ByAuth0ID map[string]*domain.Account
	NextID    int32
}

// NewMockAccountRepository creates a new MockAccountRepository
func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		Accounts:  make(map[int32]*domain.Account),
		ByUserID:  make(map[uuid.UUID]*domain.Account),
		ByAuth0ID: make(map[string]*domain.Account),
		NextID:    1,
	}
}

// GetByID retrieves an account by ID
func (m *MockAccountRepository) GetByID(id int32) (*domain.Account, error) {
	if account, ok := m.Accounts[id]; ok {
		return account, nil
	}
	return nil, domain.ErrAccountNotFound
}

// GetByUserID retrieves an account by owner user ID
func (m *MockAccountRepository) GetByUserID(userID uuid.UUID) (*domain.Account, error) {
	if account, ok := m.ByUserID[userID]; ok {
		return account, nil
	}
	return nil, domain.ErrAccountNotFound
}

// GetByAuth0ID retrieves an account by the owner's Auth0 ID
func (m *MockAccountRepository) GetByAuth0ID(auth0ID string) (*domain.Account, error) {
	if account, ok := m.ByAuth0ID[auth0ID]; ok {
		return account, nil
	}
	return nil, domain.ErrAccountNotFound
}

// Create creates a new account
func (m *MockAccountRepository) Create(account *domain.Account) (*domain.Account, error) {
	account.ID = m.NextID
	m.NextID++
	m.Accounts[account.ID] = account
	m.ByUserID[account.UserID] = account
	return account, nil
}

// LinkAuth0ID associates an Auth0 ID with an account (helper for tests)
func (m *MockAccountRepository) LinkAuth0ID(auth0ID string, account *domain.Account) {
	m.ByAuth0ID[auth0ID] = account
	m.Accounts[account.ID] = account
	m.ByUserID[account.UserID] = account
	if account.ID >= m.NextID {
		m.NextID = account.ID + 1
	}
}

// MockCategoryRepository is a mock implementation of domain.CategoryRepository
type MockCategoryRepository struct {
	Categories map[int32]*domain.Category
	NextID     int32
	GetByIDFn  func(accountID, id int32) (*domain.Category, error)
}

// NewMockCategoryRepository creates a new MockCategoryRepository
func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{
		Categories: make(map[int32]*domain.Category),
		NextID:     1,
	}
}

// Create creates a new category, rejecting duplicate names per account
func (m *MockCategoryRepository) Create(category *domain.Category) (*domain.Category, error) {
	for _, c := range m.Categories {
		if c.AccountID == category.AccountID && c.Name == category.Name {
			return nil, domain.ErrCategoryNameTaken
		}
	}
	category.ID = m.NextID
	m.NextID++
	if category.CreatedAt.IsZero() {
		category.CreatedAt = time.Now().UTC()
	}
	m.Categories[category.ID] = category
	return category, nil
}

// GetByID retrieves a category scoped to an account
func (m *MockCategoryRepository) GetByID(accountID, id int32) (*domain.Category, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(accountID, id)
	}
	if category, ok := m.Categories[id]; ok && category.AccountID == accountID {
		return category, nil
	}
	return nil, domain.ErrCategoryNotFound
}

// GetByAccount lists the account's categories ordered by ID
func (m *MockCategoryRepository) GetByAccount(accountID int32) ([]*domain.Category, error) {
	var result []*domain.Category
	for _, c := range m.Categories {
		if c.AccountID == accountID {
			result = append(result, c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// Update updates a category's name, icon and color
func (m *MockCategoryRepository) Update(accountID, id int32, name, icon, color string) (*domain.Category, error) {
	category, ok := m.Categories[id]
	if !ok || category.AccountID != accountID {
		return nil, domain.ErrCategoryNotFound
	}
	for _, c := range m.Categories {
		if c.AccountID == accountID && c.ID != id && c.Name == name {
			return nil, domain.ErrCategoryNameTaken
		}
	}
	category.Name = name
	category.Icon = icon
	category.Color = color
	return category, nil
}

// Delete removes a category
func (m *MockCategoryRepository) Delete(accountID, id int32) error {
	category, ok := m.Categories[id]
	if !ok || category.AccountID != accountID {
		return domain.ErrCategoryNotFound
	}
	delete(m.Categories, id)
	return nil
}

// AddCategory adds a category to the mock repository (helper for tests)
func (m *MockCategoryRepository) AddCategory(category *domain.Category) {
	if category.ID == 0 {
		category.ID = m.NextID
	}
	if category.ID >= m.NextID {
		m.NextID = category.ID + 1
	}
	m.Categories[category.ID] = category
}

// MockWalletRepository is a mock implementation of domain.WalletRepository
type MockWalletRepository struct {
	Wallets map[int32]*domain.Wallet
	NextID  int32
}

// NewMockWalletRepository creates a new MockWalletRepository
func NewMockWalletRepository() *MockWalletRepository {
	return &MockWalletRepository{
		Wallets: make(map[int32]*domain.Wallet),
		NextID:  1,
	}
}

// GetOrCreate returns the account's wallet, creating a zero-balance one on demand
func (m *MockWalletRepository) GetOrCreate(accountID int32) (*domain.Wallet, error) {
	if wallet, ok := m.Wallets[accountID]; ok {
		return wallet, nil
	}
	wallet := &domain.Wallet{
		ID:        m.NextID,
		AccountID: accountID,
		Balance:   decimal.Zero,
		UpdatedAt: time.Now().UTC(),
	}
	m.NextID++
	m.Wallets[accountID] = wallet
	return wallet, nil
}

// SetBalance sets an account's wallet balance (helper for tests)
func (m *MockWalletRepository) SetBalance(accountID int32, balance decimal.Decimal) {
	wallet, _ := m.GetOrCreate(accountID)
	wallet.Balance = balance
}

// MockBudgetRepository is a mock implementation of domain.BudgetRepository
type MockBudgetRepository struct {
	Budgets map[int32]*domain.MonthlyBudget
	NextID  int32
}

// NewMockBudgetRepository creates a new MockBudgetRepository
func NewMockBudgetRepository() *MockBudgetRepository {
	return &MockBudgetRepository{
		Budgets: make(map[int32]*domain.MonthlyBudget),
		NextID:  1,
	}
}

// Upsert creates or replaces the budget for (accountID, month)
func (m *MockBudgetRepository) Upsert(accountID int32, month time.Time, amount decimal.Decimal) (*domain.MonthlyBudget, error) {
	for _, b := range m.Budgets {
		if b.AccountID == accountID && b.Month.Equal(month) {
			b.Amount = amount
			return b, nil
		}
	}
	budget := &domain.MonthlyBudget{
		ID:        m.NextID,
		AccountID: accountID,
		Month:     month,
		Amount:    amount,
		CreatedAt: time.Now().UTC(),
	}
	m.NextID++
	m.Budgets[budget.ID] = budget
	return budget, nil
}

// GetByMonth retrieves the budget for a specific month
func (m *MockBudgetRepository) GetByMonth(accountID int32, month time.Time) (*domain.MonthlyBudget, error) {
	for _, b := range m.Budgets {
		if b.AccountID == accountID && b.Month.Equal(month) {
			return b, nil
		}
	}
	return nil, domain.ErrBudgetNotFound
}

// GetByAccount lists the account's budgets, newest month first
func (m *MockBudgetRepository) GetByAccount(accountID int32) ([]*domain.MonthlyBudget, error) {
	var result []*domain.MonthlyBudget
	for _, b := range m.Budgets {
		if b.AccountID == accountID {
			result = append(result, b)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Month.After(result[j].Month) })
	return result, nil
}

// Delete removes a budget by ID
func (m *MockBudgetRepository) Delete(accountID, id int32) error {
	budget, ok := m.Budgets[id]
	if !ok || budget.AccountID != accountID {
		return domain.ErrBudgetNotFound
	}
	delete(m.Budgets, id)
	return nil
}

// AddBudget adds a budget to the mock repository (helper for tests)
func (m *MockBudgetRepository) AddBudget(budget *domain.MonthlyBudget) {
	if budget.ID == 0 {
		budget.ID = m.NextID
	}
	if budget.ID >= m.NextID {
		m.NextID = budget.ID + 1
	}
	m.Budgets[budget.ID] = budget
}

// MockExpenseRepository is a mock implementation of domain.ExpenseRepository
type MockExpenseRepository struct {
	Expenses   map[int32]*domain.Expense
	Categories *MockCategoryRepository
	NextID     int32
}

// NewMockExpenseRepository creates a new MockExpenseRepository.
// The category repository, when provided, backs the joined category details.
func NewMockExpenseRepository(categories *MockCategoryRepository) *MockExpenseRepository {
	return &MockExpenseRepository{
		Expenses:   make(map[int32]*domain.Expense),
		Categories: categories,
		NextID:     1,
	}
}

func (m *MockExpenseRepository) withCategory(expense *domain.Expense) *domain.Expense {
	if m.Categories == nil {
		return expense
	}
	if category, ok := m.Categories.Categories[expense.CategoryID]; ok {
		expense.CategoryName = &category.Name
		expense.CategoryIcon = &category.Icon
		expense.CategoryColor = &category.Color
	}
	return expense
}

// GetByID retrieves an expense scoped to an account
func (m *MockExpenseRepository) GetByID(accountID, id int32) (*domain.Expense, error) {
	if expense, ok := m.Expenses[id]; ok && expense.AccountID == accountID {
		return m.withCategory(expense), nil
	}
	return nil, domain.ErrExpenseNotFound
}

// GetByAccount lists the account's expenses, newest first
func (m *MockExpenseRepository) GetByAccount(accountID int32) ([]*domain.Expense, error) {
	var result []*domain.Expense
	for _, e := range m.Expenses {
		if e.AccountID == accountID {
			result = append(result, m.withCategory(e))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.After(result[j].Date) })
	return result, nil
}

// ListByDateRange lists expenses within [start, end], oldest first
func (m *MockExpenseRepository) ListByDateRange(accountID int32, start, end time.Time) ([]*domain.Expense, error) {
	var result []*domain.Expense
	for _, e := range m.Expenses {
		if e.AccountID == accountID && !e.Date.Before(start) && !e.Date.After(end) {
			result = append(result, m.withCategory(e))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

// SumByDateRange totals expense amounts within [start, end]
func (m *MockExpenseRepository) SumByDateRange(accountID int32, start, end time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, e := range m.Expenses {
		if e.AccountID == accountID && !e.Date.Before(start) && !e.Date.After(end) {
			total = total.Add(e.Amount)
		}
	}
	return total, nil
}

// SumSince totals expense amounts dated on or after from
func (m *MockExpenseRepository) SumSince(accountID int32, from time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, e := range m.Expenses {
		if e.AccountID == accountID && !e.Date.Before(from) {
			total = total.Add(e.Amount)
		}
	}
	return total, nil
}

// CountByDateRange counts expenses within [start, end]
func (m *MockExpenseRepository) CountByDateRange(accountID int32, start, end time.Time) (int64, error) {
	var count int64
	for _, e := range m.Expenses {
		if e.AccountID == accountID && !e.Date.Before(start) && !e.Date.After(end) {
			count++
		}
	}
	return count, nil
}

// CategoryTotalsByDateRange aggregates per-category totals within [start, end]
func (m *MockExpenseRepository) CategoryTotalsByDateRange(accountID int32, start, end time.Time, limit int) ([]*domain.CategoryTotal, error) {
	totals := make(map[int32]*domain.CategoryTotal)
	var order []int32
	for _, e := range m.Expenses {
		if e.AccountID != accountID || e.Date.Before(start) || e.Date.After(end) {
			continue
		}
		row, ok := totals[e.CategoryID]
		if !ok {
			row = &domain.CategoryTotal{Total: decimal.Zero}
			if m.Categories != nil {
				if category, found := m.Categories.Categories[e.CategoryID]; found {
					row.Name = category.Name
					row.Icon = category.Icon
					row.Color = category.Color
				}
			}
			totals[e.CategoryID] = row
			order = append(order, e.CategoryID)
		}
		row.Total = row.Total.Add(e.Amount)
	}

	result := make([]*domain.CategoryTotal, 0, len(totals))
	for _, id := range order {
		result = append(result, totals[id])
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Total.GreaterThan(result[j].Total) })
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// SetReceiptPath updates the receipt path on an expense
func (m *MockExpenseRepository) SetReceiptPath(accountID, id int32, path *string) error {
	expense, ok := m.Expenses[id]
	if !ok || expense.AccountID != accountID {
		return domain.ErrExpenseNotFound
	}
	expense.ReceiptPath = path
	return nil
}

// AddExpense adds an expense to the mock repository (helper for tests)
func (m *MockExpenseRepository) AddExpense(expense *domain.Expense) {
	if expense.ID == 0 {
		expense.ID = m.NextID
	}
	if expense.ID >= m.NextID {
		m.NextID = expense.ID + 1
	}
	m.Expenses[expense.ID] = expense
}

// MockTransactionRepository is a mock implementation of domain.TransactionRepository
type MockTransactionRepository struct {
	Transactions map[int32]*domain.Transaction
	NextID       int32
}

// NewMockTransactionRepository creates a new MockTransactionRepository
func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		Transactions: make(map[int32]*domain.Transaction),
		NextID:       1,
	}
}

// GetByID retrieves a transaction scoped to an account
func (m *MockTransactionRepository) GetByID(accountID, id int32) (*domain.Transaction, error) {
	if tx, ok := m.Transactions[id]; ok && tx.AccountID == accountID {
		return tx, nil
	}
	return nil, domain.ErrTransactionNotFound
}

// ListRecent lists the newest transactions first, at most limit rows
func (m *MockTransactionRepository) ListRecent(accountID int32, limit int) ([]*domain.Transaction, error) {
	var result []*domain.Transaction
	for _, tx := range m.Transactions {
		if tx.AccountID == accountID {
			result = append(result, tx)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Date.Equal(result[j].Date) {
			return result[i].ID > result[j].ID
		}
		return result[i].Date.After(result[j].Date)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// ListByDateRange lists transactions within [start, end], oldest first
func (m *MockTransactionRepository) ListByDateRange(accountID int32, start, end time.Time) ([]*domain.Transaction, error) {
	var result []*domain.Transaction
	for _, tx := range m.Transactions {
		if tx.AccountID == accountID && !tx.Date.Before(start) && !tx.Date.After(end) {
			result = append(result, tx)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

// SumByTypeAndDateRange totals amounts of one transaction type within [start, end]
func (m *MockTransactionRepository) SumByTypeAndDateRange(accountID int32, txType domain.TransactionType, start, end time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, tx := range m.Transactions {
		if tx.AccountID == accountID && tx.Type == txType && !tx.Date.Before(start) && !tx.Date.After(end) {
			total = total.Add(tx.Amount)
		}
	}
	return total, nil
}

// CountByDateRange counts transactions within [start, end]
func (m *MockTransactionRepository) CountByDateRange(accountID int32, start, end time.Time) (int64, error) {
	var count int64
	for _, tx := range m.Transactions {
		if tx.AccountID == accountID && !tx.Date.Before(start) && !tx.Date.After(end) {
			count++
		}
	}
	return count, nil
}

// CountByTypeAndDateRange counts transactions of one type within [start, end]
func (m *MockTransactionRepository) CountByTypeAndDateRange(accountID int32, txType domain.TransactionType, start, end time.Time) (int64, error) {
	var count int64
	for _, tx := range m.Transactions {
		if tx.AccountID == accountID && tx.Type == txType && !tx.Date.Before(start) && !tx.Date.After(end) {
			count++
		}
	}
	return count, nil
}

// AddTransaction adds a transaction to the mock repository (helper for tests)
func (m *MockTransactionRepository) AddTransaction(tx *domain.Transaction) {
	if tx.ID == 0 {
		tx.ID = m.NextID
	}
	if tx.ID >= m.NextID {
		m.NextID = tx.ID + 1
	}
	m.Transactions[tx.ID] = tx
}

// MockLedgerRepository is an in-memory mock of domain.LedgerRepository that
// keeps the wallet, expense and transaction mocks consistent the way the
// database transaction does in production.
type MockLedgerRepository struct {
	Wallets      *MockWalletRepository
	Expenses     *MockExpenseRepository
	Transactions *MockTransactionRepository
	AddFundsErr  error
}

// NewMockLedgerRepository creates a new MockLedgerRepository wired to the
// given mock repositories.
func NewMockLedgerRepository(wallets *MockWalletRepository, expenses *MockExpenseRepository, transactions *MockTransactionRepository) *MockLedgerRepository {
	return &MockLedgerRepository{
		Wallets:      wallets,
		Expenses:     expenses,
		Transactions: transactions,
	}
}

// AddFunds credits the wallet and appends an ADD transaction
func (m *MockLedgerRepository) AddFunds(accountID int32, amount decimal.Decimal, description string) (*domain.Wallet, *domain.Transaction, error) {
	if m.AddFundsErr != nil {
		return nil, nil, m.AddFundsErr
	}
	wallet, err := m.Wallets.GetOrCreate(accountID)
	if err != nil {
		return nil, nil, err
	}
	wallet.Credit(amount)
	wallet.UpdatedAt = time.Now().UTC()

	tx := &domain.Transaction{
		AccountID:   accountID,
		Type:        domain.TransactionTypeAdd,
		Amount:      amount,
		Description: description,
		Date:        time.Now().UTC(),
	}
	m.Transactions.AddTransaction(tx)
	return wallet, tx, nil
}

// RecordExpense inserts the expense, debits the wallet and appends an EXPENSE transaction
func (m *MockLedgerRepository) RecordExpense(expense *domain.Expense) (*domain.Expense, *domain.Wallet, error) {
	wallet, err := m.Wallets.GetOrCreate(expense.AccountID)
	if err != nil {
		return nil, nil, err
	}
	if expense.CreatedAt.IsZero() {
		expense.CreatedAt = time.Now().UTC()
	}
	m.Expenses.AddExpense(expense)

	wallet.Debit(expense.Amount)
	wallet.UpdatedAt = time.Now().UTC()

	tx := &domain.Transaction{
		AccountID:   expense.AccountID,
		Type:        domain.TransactionTypeExpense,
		Amount:      expense.Amount,
		Description: domain.ExpenseDescription(expense.Description),
		Date:        time.Now().UTC(),
	}
	m.Transactions.AddTransaction(tx)
	return expense, wallet, nil
}

// DeleteExpense refunds the expense amount, appends an ADD transaction and removes the row
func (m *MockLedgerRepository) DeleteExpense(accountID, expenseID int32) (*domain.Wallet, *domain.Transaction, error) {
	expense, ok := m.Expenses.Expenses[expenseID]
	if !ok || expense.AccountID != accountID {
		return nil, nil, domain.ErrExpenseNotFound
	}
	wallet, err := m.Wallets.GetOrCreate(accountID)
	if err != nil {
		return nil, nil, err
	}
	wallet.Credit(expense.Amount)
	wallet.UpdatedAt = time.Now().UTC()

	refund := &domain.Transaction{
		AccountID:   accountID,
		Type:        domain.TransactionTypeAdd,
		Amount:      expense.Amount,
		Description: domain.RefundDescription(expense.Description),
		Date:        time.Now().UTC(),
	}
	m.Transactions.AddTransaction(refund)
	delete(m.Expenses.Expenses, expenseID)
	return wallet, refund, nil
}

// DeleteTransaction reverses the entry's balance effect and deletes it
func (m *MockLedgerRepository) DeleteTransaction(accountID, transactionID int32) (*domain.Wallet, error) {
	tx, ok := m.Transactions.Transactions[transactionID]
	if !ok || tx.AccountID != accountID {
		return nil, domain.ErrTransactionNotFound
	}
	wallet, err := m.Wallets.GetOrCreate(accountID)
	if err != nil {
		return nil, err
	}
	switch tx.Type {
	case domain.TransactionTypeAdd:
		wallet.Debit(tx.Amount)
	case domain.TransactionTypeExpense:
		wallet.Credit(tx.Amount)
	}
	wallet.UpdatedAt = time.Now().UTC()
	delete(m.Transactions.Transactions, transactionID)
	return wallet, nil
}
