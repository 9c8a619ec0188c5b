package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/dafibh/finboard/finboard-backend/internal/domain"
	"github.com/dafibh/finboard/finboard-backend/internal/websocket"
)

// MockCategoryRepository is a mock implementation of domain.CategoryRepository
type MockCategoryRepository struct {
	Categories map[int64]*domain.Category
	NextID     int64
	Deleted    []int64

	ListErr   error
	GetErr    error
	CreateErr error
	UpdateErr error
	DeleteErr error
}

// NewMockCategoryRepository creates a new MockCategoryRepository
func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{
		Categories: make(map[int64]*domain.Category),
		NextID:     1,
	}
}

// AddCategory adds a category to the mock repository (helper for tests)
func (m *MockCategoryRepository) AddCategory(c *domain.Category) {
	if c.StoredType == "" {
		c.StoredType = domain.StoredCategoryType(c.Type)
	}
	m.Categories[c.ID] = c
	if c.ID >= m.NextID {
		m.NextID = c.ID + 1
	}
}

// List returns all categories ordered by id
func (m *MockCategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	result := make([]*domain.Category, 0, len(m.Categories))
	for _, c := range m.Categories {
		copied := *c
		result = append(result, &copied)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// GetByID retrieves a category by id
func (m *MockCategoryRepository) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	if c, ok := m.Categories[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, domain.ErrCategoryNotFound
}

// Create stores a category under the next id
func (m *MockCategoryRepository) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	created := *category
	created.ID = m.NextID
	m.NextID++
	m.Categories[created.ID] = &created
	result := created
	return &result, nil
}

// Update applies update to a stored category
func (m *MockCategoryRepository) Update(ctx context.Context, id int64, update domain.CategoryUpdate) error {
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	c, ok := m.Categories[id]
	if !ok {
		return domain.ErrNotFound
	}
	c.Apply(update)
	return nil
}

// Delete removes a category
func (m *MockCategoryRepository) Delete(ctx context.Context, id int64) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	if _, ok := m.Categories[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.Categories, id)
	m.Deleted = append(m.Deleted, id)
	return nil
}

// MockBudgetRepository is a mock implementation of domain.BudgetRepository
type MockBudgetRepository struct {
	Budgets map[int64]*domain.Budget
	NextID  int64
	Deleted []int64
	Updates []domain.BudgetUpdate

	ListErr   error
	GetErr    error
	CreateErr error
	UpdateErr error
	DeleteErr error
}

// NewMockBudgetRepository creates a new MockBudgetRepository
func NewMockBudgetRepository() *MockBudgetRepository {
	return &MockBudgetRepository{
		Budgets: make(map[int64]*domain.Budget),
		NextID:  1,
	}
}

// AddBudget adds a budget to the mock repository (helper for tests)
func (m *MockBudgetRepository) AddBudget(b *domain.Budget) {
	m.Budgets[b.ID] = b
	if b.ID >= m.NextID {
		m.NextID = b.ID + 1
	}
}

// List returns all budgets ordered by id
func (m *MockBudgetRepository) List(ctx context.Context) ([]*domain.Budget, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	result := make([]*domain.Budget, 0, len(m.Budgets))
	for _, b := range m.Budgets {
		copied := *b
		result = append(result, &copied)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// GetByID retrieves a budget by id
func (m *MockBudgetRepository) GetByID(ctx context.Context, id int64) (*domain.Budget, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	if b, ok := m.Budgets[id]; ok {
		copied := *b
		return &copied, nil
	}
	return nil, domain.ErrBudgetNotFound
}

// Create stores a budget under the next id
func (m *MockBudgetRepository) Create(ctx context.Context, budget *domain.Budget) (*domain.Budget, error) {
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	created := *budget
	created.ID = m.NextID
	m.NextID++
	m.Budgets[created.ID] = &created
	result := created
	return &result, nil
}

// Update applies update to a stored budget
func (m *MockBudgetRepository) Update(ctx context.Context, id int64, update domain.BudgetUpdate) error {
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	b, ok := m.Budgets[id]
	if !ok {
		return domain.ErrNotFound
	}
	b.Apply(update)
	m.Updates = append(m.Updates, update)
	return nil
}

// Delete removes a budget
func (m *MockBudgetRepository) Delete(ctx context.Context, id int64) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	if _, ok := m.Budgets[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.Budgets, id)
	m.Deleted = append(m.Deleted, id)
	return nil
}

// MockTransactionRepository is a mock implementation of domain.TransactionRepository
type MockTransactionRepository struct {
	Transactions map[int64]*domain.Transaction
	NextID       int64
	Deleted      []int64
	Updates      []domain.TransactionUpdate

	ListErr           error
	ListByCategoryErr error
	GetErr            error
	NextIDErr         error
	CreateErr         error
	UpdateErr         error
	DeleteErr         error
}

// NewMockTransactionRepository creates a new MockTransactionRepository
func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		Transactions: make(map[int64]*domain.Transaction),
		NextID:       1,
	}
}

// AddTransaction adds a transaction to the mock repository (helper for tests)
func (m *MockTransactionRepository) AddTransaction(t *domain.Transaction) {
	if t.StoredType == "" && t.Type != "" {
		t.StoredType = string(t.Type)
	}
	m.Transactions[t.ID] = t
	if t.ID >= m.NextID {
		m.NextID = t.ID + 1
	}
}

func (m *MockTransactionRepository) sorted(keep func(*domain.Transaction) bool) []*domain.Transaction {
	result := make([]*domain.Transaction, 0, len(m.Transactions))
	for _, t := range m.Transactions {
		if keep != nil && !keep(t) {
			continue
		}
		copied := *t
		result = append(result, &copied)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// List returns all transactions ordered by id
func (m *MockTransactionRepository) List(ctx context.Context) ([]*domain.Transaction, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.sorted(nil), nil
}

// ListByCategory returns the transactions referencing categoryID
func (m *MockTransactionRepository) ListByCategory(ctx context.Context, categoryID int64) ([]*domain.Transaction, error) {
	if m.ListByCategoryErr != nil {
		return nil, m.ListByCategoryErr
	}
	return m.sorted(func(t *domain.Transaction) bool { return t.CategoryID == categoryID }), nil
}

// GetByID retrieves a transaction by id
func (m *MockTransactionRepository) GetByID(ctx context.Context, id int64) (*domain.Transaction, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	if t, ok := m.Transactions[id]; ok {
		copied := *t
		return &copied, nil
	}
	return nil, domain.ErrTransactionNotFound
}

// NextTransactionID returns max(transaction_id) + 1
func (m *MockTransactionRepository) NextTransactionID(ctx context.Context) (int64, error) {
	if m.NextIDErr != nil {
		return 0, m.NextIDErr
	}
	var maxID int64
	for _, t := range m.Transactions {
		if t.TransactionID > maxID {
			maxID = t.TransactionID
		}
	}
	return maxID + 1, nil
}

// Create stores a transaction under the next id
func (m *MockTransactionRepository) Create(ctx context.Context, transaction *domain.Transaction) (*domain.Transaction, error) {
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	created := *transaction
	created.ID = m.NextID
	created.StoredType = string(created.Type)
	m.NextID++
	m.Transactions[created.ID] = &created
	result := created
	return &result, nil
}

// Update applies update to a stored transaction
func (m *MockTransactionRepository) Update(ctx context.Context, id int64, update domain.TransactionUpdate) error {
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	t, ok := m.Transactions[id]
	if !ok {
		return domain.ErrNotFound
	}
	t.Apply(update)
	m.Updates = append(m.Updates, update)
	return nil
}

// Delete removes a transaction
func (m *MockTransactionRepository) Delete(ctx context.Context, id int64) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	if _, ok := m.Transactions[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.Transactions, id)
	m.Deleted = append(m.Deleted, id)
	return nil
}

// MockMonthlySummaryRepository is a mock implementation of domain.MonthlySummaryRepository
type MockMonthlySummaryRepository struct {
	Summaries map[int64]*domain.MonthlySummary
	NextID    int64
	Deleted   []int64
	Updates   []domain.MonthlySummaryUpdate

	ListErr   error
	GetErr    error
	CreateErr error
	UpdateErr error
	DeleteErr error
}

// NewMockMonthlySummaryRepository creates a new MockMonthlySummaryRepository
func NewMockMonthlySummaryRepository() *MockMonthlySummaryRepository {
	return &MockMonthlySummaryRepository{
		Summaries: make(map[int64]*domain.MonthlySummary),
		NextID:    1,
	}
}

// AddSummary adds a summary row to the mock repository (helper for tests)
func (m *MockMonthlySummaryRepository) AddSummary(s *domain.MonthlySummary) {
	m.Summaries[s.ID] = s
	if s.ID >= m.NextID {
		m.NextID = s.ID + 1
	}
}

// List returns all summaries ordered by id
func (m *MockMonthlySummaryRepository) List(ctx context.Context) ([]*domain.MonthlySummary, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	result := make([]*domain.MonthlySummary, 0, len(m.Summaries))
	for _, s := range m.Summaries {
		copied := *s
		result = append(result, &copied)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// GetByID retrieves a summary by id
func (m *MockMonthlySummaryRepository) GetByID(ctx context.Context, id int64) (*domain.MonthlySummary, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	if s, ok := m.Summaries[id]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, domain.ErrSummaryNotFound
}

// Create stores a summary under the next id
func (m *MockMonthlySummaryRepository) Create(ctx context.Context, summary *domain.MonthlySummary) (*domain.MonthlySummary, error) {
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	created := *summary
	created.ID = m.NextID
	m.NextID++
	m.Summaries[created.ID] = &created
	result := created
	return &result, nil
}

// Update applies update to a stored summary
func (m *MockMonthlySummaryRepository) Update(ctx context.Context, id int64, update domain.MonthlySummaryUpdate) error {
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	s, ok := m.Summaries[id]
	if !ok {
		return domain.ErrNotFound
	}
	s.Apply(update)
	m.Updates = append(m.Updates, update)
	return nil
}

// Delete removes a summary
func (m *MockMonthlySummaryRepository) Delete(ctx context.Context, id int64) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	if _, ok := m.Summaries[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.Summaries, id)
	m.Deleted = append(m.Deleted, id)
	return nil
}

// MockEventPublisher records published events
type MockEventPublisher struct {
	mu     sync.Mutex
	Events []websocket.Event
}

// Publish records the event
func (m *MockEventPublisher) Publish(event websocket.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, event)
}

// Types returns the type of every recorded event in order
func (m *MockEventPublisher) Types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]string, len(m.Events))
	for i, e := range m.Events {
		types[i] = e.Type
	}
	return types
}
