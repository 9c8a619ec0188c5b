package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/dafibh/finboard/finboard-backend/internal/domain"
	"github.com/dafibh/finboard/finboard-backend/internal/websocket"
)

// TransactionService handles transaction-related business logic
type TransactionService struct {
	writeGate
	transactionRepo domain.TransactionRepository
	categoryRepo    domain.CategoryRepository
	eventPublisher  websocket.EventPublisher
	now             Clock
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(transactionRepo domain.TransactionRepository, categoryRepo domain.CategoryRepository) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
		categoryRepo:    categoryRepo,
		now:             time.Now,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *TransactionService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// SetClock overrides the time source
func (s *TransactionService) SetClock(clock Clock) {
	s.now = clock
}

func (s *TransactionService) publishEvent(event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(event)
	}
}

// TransactionView is a transaction with its category inlined for display
type TransactionView struct {
	*domain.Transaction
	CategoryName  string `json:"categoryName"`
	CategoryColor string `json:"categoryColor"`
	Date          string `json:"date"`
	DateMissing   bool   `json:"dateMissing,omitempty"`
}

// TransactionFilter narrows a transaction listing
type TransactionFilter struct {
	Type  domain.TransactionType
	Limit int
}

// TransactionInput holds submitted transaction fields. Nil means not sent.
type TransactionInput struct {
	TransactionDate *time.Time
	Amount          *decimal.Decimal
	CategoryID      *int64
	Description     *string
	TransactionType *string
	PaymentMethod   *string
	Status          *string
	Quantity        *int64
	UnitPrice       *decimal.Decimal
	Notes           *string
	CreatedBy       *string
}

// ListTransactions returns transactions with resolved types and inlined
// categories. With a limit the most recent transactions come first.
func (s *TransactionService) ListTransactions(ctx context.Context, filter TransactionFilter) ([]*TransactionView, error) {
	transactions, err := s.transactionRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	categories := s.loadCategories(ctx)
	domain.ResolveTransactionTypes(transactions, categories)

	views := make([]*TransactionView, 0, len(transactions))
	for _, t := range transactions {
		if filter.Type != "" && t.Type != filter.Type {
			continue
		}
		views = append(views, s.view(t, categories))
	}

	if filter.Limit > 0 {
		sort.SliceStable(views, func(i, j int) bool {
			return transactionTime(views[i]).After(transactionTime(views[j]))
		})
		if len(views) > filter.Limit {
			views = views[:filter.Limit]
		}
	}

	return views, nil
}

// CreateTransaction validates input, resolves the type from the category and
// stores the transaction with the next transaction id
func (s *TransactionService) CreateTransaction(ctx context.Context, input TransactionInput) (*TransactionView, error) {
	if err := s.checkWritable(); err != nil {
		return nil, err
	}
	var v fieldErrors
	v.require("transaction_date", input.TransactionDate != nil)
	v.require("amount", input.Amount != nil)
	v.require("category_name", input.CategoryID != nil)
	v.requireText("description", input.Description)
	validateTransactionOptions(&v, input)
	if err := v.err(); err != nil {
		return nil, err
	}

	category, err := s.lookupCategory(ctx, *input.CategoryID)
	if err != nil {
		return nil, err
	}

	explicit := ""
	if input.TransactionType != nil {
		explicit = *input.TransactionType
	}
	txType := domain.ResolveTransactionType(explicit, &category.StoredType)

	nextID, err := s.transactionRepo.NextTransactionID(ctx)
	if err != nil {
		return nil, fmt.Errorf("assign transaction id: %w", err)
	}

	// Defaults for optional columns
	quantity := int64(domain.DefaultQuantity)
	if input.Quantity != nil {
		quantity = *input.Quantity
	}
	unitPrice := input.Amount.Div(decimal.NewFromInt(quantity))
	if input.UnitPrice != nil {
		unitPrice = *input.UnitPrice
	}
	paymentMethod := domain.DefaultPaymentMethod
	if p := trimmed(input.PaymentMethod); p != "" {
		paymentMethod = p
	}
	status := domain.DefaultStatus
	if st := trimmed(input.Status); st != "" {
		status = st
	}
	createdBy := domain.DefaultCreatedBy
	if c := trimmed(input.CreatedBy); c != "" {
		createdBy = c
	}

	now := s.now().UTC()
	date := input.TransactionDate.UTC()
	transaction := &domain.Transaction{
		TransactionID:   nextID,
		Description:     trimmed(input.Description),
		Amount:          *input.Amount,
		Type:            txType,
		StoredType:      string(txType),
		CategoryID:      category.ID,
		TransactionDate: &date,
		PaymentMethod:   paymentMethod,
		Quantity:        quantity,
		UnitPrice:       unitPrice,
		Status:          status,
		Notes:           trimmed(input.Notes),
		CreatedBy:       createdBy,
		CreatedDate:     &now,
		UpdatedDate:     &now,
	}

	created, err := s.transactionRepo.Create(ctx, transaction)
	if err != nil {
		return nil, err
	}

	view := s.view(created, map[int64]*domain.Category{category.ID: category})
	s.publishEvent(websocket.Created(websocket.EntityTypeTransaction, view))
	return view, nil
}

// UpdateTransaction patches a transaction. A category change re-derives the
// type from the new category unless a valid explicit type is part of the patch.
func (s *TransactionService) UpdateTransaction(ctx context.Context, id int64, input TransactionInput) (*TransactionView, error) {
	if err := s.checkWritable(); err != nil {
		return nil, err
	}
	var v fieldErrors
	v.blankText("description", input.Description)
	validateTransactionOptions(&v, input)
	if err := v.err(); err != nil {
		return nil, err
	}

	current, err := s.transactionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var category *domain.Category
	if input.CategoryID != nil && *input.CategoryID != current.CategoryID {
		category, err = s.lookupCategory(ctx, *input.CategoryID)
		if err != nil {
			return nil, err
		}
	} else {
		category = s.findCategory(ctx, current.CategoryID)
	}

	update := domain.TransactionUpdate{
		Amount:          input.Amount,
		CategoryID:      input.CategoryID,
		TransactionDate: input.TransactionDate,
		Quantity:        input.Quantity,
		UnitPrice:       input.UnitPrice,
	}
	if input.Description != nil {
		description := trimmed(input.Description)
		update.Description = &description
	}
	if input.PaymentMethod != nil {
		method := trimmed(input.PaymentMethod)
		update.PaymentMethod = &method
	}
	if input.Status != nil {
		status := trimmed(input.Status)
		update.Status = &status
	}
	if input.Notes != nil {
		notes := trimmed(input.Notes)
		update.Notes = &notes
	}

	// Unit price follows amount and quantity unless sent
	if input.UnitPrice == nil && (input.Amount != nil || input.Quantity != nil) {
		unitPrice := effectiveUnitPrice(current, input)
		update.UnitPrice = &unitPrice
	}

	// Type follows an explicit value, then the category. A sent but invalid
	// type is replaced by the category's type when the category is known.
	explicit := ""
	if input.TransactionType != nil {
		explicit = *input.TransactionType
	}
	categoryChanged := input.CategoryID != nil && *input.CategoryID != current.CategoryID
	typeSent := input.TransactionType != nil && category != nil
	if domain.IsKnownTransactionType(explicit) || categoryChanged || typeSent {
		var categoryType *string
		if category != nil {
			categoryType = &category.StoredType
		}
		txType := domain.ResolveTransactionType(explicit, categoryType)
		update.Type = &txType
	}

	now := s.now().UTC()
	update.UpdatedDate = &now

	if err := s.transactionRepo.Update(ctx, id, update); err != nil {
		return nil, err
	}

	merged := *current
	merged.Apply(update)

	categories := map[int64]*domain.Category{}
	if category != nil {
		categories[category.ID] = category
	}
	if update.Type == nil {
		domain.ResolveTransactionTypes([]*domain.Transaction{&merged}, categories)
	}

	view := s.view(&merged, categories)
	s.publishEvent(websocket.Updated(websocket.EntityTypeTransaction, view))
	return view, nil
}

// DeleteTransaction removes a transaction
func (s *TransactionService) DeleteTransaction(ctx context.Context, id int64) error {
	if err := s.checkWritable(); err != nil {
		return err
	}
	err := deleteWithPrecheck(ctx, "transaction", id, domain.ErrTransactionNotFound,
		func(ctx context.Context, id int64) error {
			_, err := s.transactionRepo.GetByID(ctx, id)
			return err
		},
		s.transactionRepo.Delete,
	)
	if err != nil {
		return err
	}

	s.publishEvent(websocket.Deleted(websocket.EntityTypeTransaction, id))
	return nil
}

// effectiveUnitPrice divides the patched amount by the patched quantity.
func effectiveUnitPrice(current *domain.Transaction, input TransactionInput) decimal.Decimal {
	amount := current.Amount
	if input.Amount != nil {
		amount = *input.Amount
	}
	quantity := current.Quantity
	if input.Quantity != nil {
		quantity = *input.Quantity
	}
	if quantity < 1 {
		quantity = domain.DefaultQuantity
	}
	return amount.Div(decimal.NewFromInt(quantity))
}

func validateTransactionOptions(v *fieldErrors, input TransactionInput) {
	if p := trimmed(input.PaymentMethod); p != "" && !domain.IsValidPaymentMethod(p) {
		v.add("payment_method", "Invalid payment method")
	}
	if st := trimmed(input.Status); st != "" && !domain.IsValidTransactionStatus(st) {
		v.add("status", "Invalid status")
	}
	if input.Quantity != nil && *input.Quantity < 1 {
		v.add("quantity", "Quantity must be at least 1")
	}
}

// lookupCategory returns the category a write refers to. A category that does
// not exist is a validation failure on category_name.
func (s *TransactionService) lookupCategory(ctx context.Context, id int64) (*domain.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return nil, domain.ValidationErrors{domain.NewValidationError("category_name", "Category not found")}
		}
		return nil, fmt.Errorf("look up category: %w", err)
	}
	if !domain.IsKnownTransactionType(category.StoredType) {
		log.Warn().
			Int64("category_id", category.ID).
			Str("category_type", category.StoredType).
			Msg("Unrecognized category type, treating as income")
	}
	return category, nil
}

// findCategory is the read-side lookup: failures leave the category unknown.
func (s *TransactionService) findCategory(ctx context.Context, id int64) *domain.Category {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrCategoryNotFound) {
			log.Warn().Err(err).Int64("category_id", id).Msg("Failed to load category")
		}
		return nil
	}
	return category
}

func (s *TransactionService) loadCategories(ctx context.Context) map[int64]*domain.Category {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to load categories, showing transactions without them")
		return map[int64]*domain.Category{}
	}
	return domain.CategoriesByID(categories)
}

func (s *TransactionService) view(t *domain.Transaction, categories map[int64]*domain.Category) *TransactionView {
	view := &TransactionView{
		Transaction:   t,
		CategoryName:  domain.UnspecifiedCategoryName,
		CategoryColor: domain.UnspecifiedCategoryColor,
	}
	if category, ok := categories[t.CategoryID]; ok {
		view.CategoryName = category.Name
		view.CategoryColor = category.Color
	}
	if t.TransactionDate != nil {
		view.Date = t.TransactionDate.UTC().Format(domain.DateLayout)
	} else {
		view.Date = s.now().UTC().Format(domain.DateLayout)
		view.DateMissing = true
	}
	return view
}

func transactionTime(v *TransactionView) time.Time {
	if v.TransactionDate == nil {
		return time.Time{}
	}
	return *v.TransactionDate
}
