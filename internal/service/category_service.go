package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dafibh/finboard/finboard-backend/internal/domain"
	"github.com/dafibh/finboard/finboard-backend/internal/websocket"
)

// CategoryService handles income and expense categories
type CategoryService struct {
	writeGate
	categoryRepo    domain.CategoryRepository
	transactionRepo domain.TransactionRepository
	eventPublisher  websocket.EventPublisher
	now             Clock
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo domain.CategoryRepository, transactionRepo domain.TransactionRepository) *CategoryService {
	return &CategoryService{
		categoryRepo:    categoryRepo,
		transactionRepo: transactionRepo,
		now:             time.Now,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *CategoryService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// SetClock overrides the time source
func (s *CategoryService) SetClock(clock Clock) {
	s.now = clock
}

func (s *CategoryService) publishEvent(event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(event)
	}
}

// CategoryInput holds submitted category fields. Nil means not sent.
type CategoryInput struct {
	Name        *string
	Type        *string
	Color       *string
	Description *string
	IsActive    *bool
}

// ListCategories returns every category
func (s *CategoryService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	warnUnknownCategoryTypes(categories)
	return categories, nil
}

// CreateCategory validates input and stores a new category
func (s *CategoryService) CreateCategory(ctx context.Context, input CategoryInput) (*domain.Category, error) {
	if err := s.checkWritable(); err != nil {
		return nil, err
	}
	var v fieldErrors
	v.requireText("name", input.Name)
	v.requireText("type", input.Type)
	s.validate(&v, input)
	if err := v.err(); err != nil {
		return nil, err
	}

	txType := domain.TransactionType(domain.NormalizeTransactionType(*input.Type))
	now := s.now().UTC()
	category := &domain.Category{
		Name:        trimmed(input.Name),
		Type:        txType,
		StoredType:  domain.StoredCategoryType(txType),
		Color:       domain.DefaultCategoryColor,
		Description: trimmed(input.Description),
		IsActive:    true,
		CreatedDate: &now,
	}
	if c := trimmed(input.Color); c != "" {
		category.Color = c
	}
	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}

	created, err := s.categoryRepo.Create(ctx, category)
	if err != nil {
		return nil, err
	}

	s.publishEvent(websocket.Created(websocket.EntityTypeCategory, created))
	return created, nil
}

// UpdateCategory patches a category
func (s *CategoryService) UpdateCategory(ctx context.Context, id int64, input CategoryInput) (*domain.Category, error) {
	if err := s.checkWritable(); err != nil {
		return nil, err
	}
	var v fieldErrors
	v.blankText("name", input.Name)
	v.blankText("type", input.Type)
	s.validate(&v, input)
	if err := v.err(); err != nil {
		return nil, err
	}

	current, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var update domain.CategoryUpdate
	if input.Name != nil {
		name := trimmed(input.Name)
		update.Name = &name
	}
	if input.Type != nil {
		txType := domain.TransactionType(domain.NormalizeTransactionType(*input.Type))
		update.Type = &txType
	}
	if input.Color != nil {
		color := trimmed(input.Color)
		if color == "" {
			color = domain.DefaultCategoryColor
		}
		update.Color = &color
	}
	if input.Description != nil {
		description := trimmed(input.Description)
		update.Description = &description
	}
	update.IsActive = input.IsActive

	if err := s.categoryRepo.Update(ctx, id, update); err != nil {
		return nil, err
	}

	merged := *current
	merged.Apply(update)
	s.publishEvent(websocket.Updated(websocket.EntityTypeCategory, &merged))
	return &merged, nil
}

// DeleteCategory removes a category that no transaction references. When the
// reference scan cannot complete nothing is deleted.
func (s *CategoryService) DeleteCategory(ctx context.Context, id int64) error {
	if err := s.checkWritable(); err != nil {
		return err
	}
	refs, err := s.transactionRepo.ListByCategory(ctx, id)
	if err != nil {
		return fmt.Errorf("check category references: %w", err)
	}
	if len(refs) > 0 {
		return &CategoryInUseError{CategoryID: id, Count: len(refs)}
	}

	err = deleteWithPrecheck(ctx, "category", id, domain.ErrCategoryNotFound,
		func(ctx context.Context, id int64) error {
			_, err := s.categoryRepo.GetByID(ctx, id)
			return err
		},
		s.categoryRepo.Delete,
	)
	if err != nil {
		return err
	}

	s.publishEvent(websocket.Deleted(websocket.EntityTypeCategory, id))
	return nil
}

// CategoryInUseError is returned when transactions still reference a category
type CategoryInUseError struct {
	CategoryID int64
	Count      int
}

func (e *CategoryInUseError) Error() string {
	return fmt.Sprintf("category %d is used by %d transaction(s)", e.CategoryID, e.Count)
}

func (e *CategoryInUseError) Unwrap() error {
	return domain.ErrCategoryInUse
}

func (s *CategoryService) validate(v *fieldErrors, input CategoryInput) {
	if t := trimmed(input.Type); t != "" && !domain.IsKnownTransactionType(t) {
		v.add("type", "Type must be income or expense")
	}
	if c := trimmed(input.Color); c != "" && !domain.IsValidColor(c) {
		v.add("color", "Color must be a hex value like #10B981")
	}
}

// warnUnknownCategoryTypes logs categories whose stored type is neither
// income nor expense. They are treated as income.
func warnUnknownCategoryTypes(categories []*domain.Category) {
	for _, c := range categories {
		if !domain.IsKnownTransactionType(c.StoredType) {
			log.Warn().
				Int64("category_id", c.ID).
				Str("category_type", c.StoredType).
				Msg("Unrecognized category type, treating as income")
		}
	}
}
