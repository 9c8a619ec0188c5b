package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dafibh/finboard/finboard-backend/internal/domain"
	"github.com/dafibh/finboard/finboard-backend/internal/websocket"
)

// MonthlySummaryService handles the precomputed monthly totals
type MonthlySummaryService struct {
	writeGate
	summaryRepo    domain.MonthlySummaryRepository
	eventPublisher websocket.EventPublisher
	now            Clock
}

// NewMonthlySummaryService creates a new MonthlySummaryService
func NewMonthlySummaryService(summaryRepo domain.MonthlySummaryRepository) *MonthlySummaryService {
	return &MonthlySummaryService{
		summaryRepo: summaryRepo,
		now:         time.Now,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *MonthlySummaryService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// SetClock overrides the time source
func (s *MonthlySummaryService) SetClock(clock Clock) {
	s.now = clock
}

func (s *MonthlySummaryService) publishEvent(event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(event)
	}
}

// MonthlySummaryInput holds submitted summary fields. Nil means not sent.
type MonthlySummaryInput struct {
	Year             *int
	Month            *int
	TotalIncome      *decimal.Decimal
	TotalExpense     *decimal.Decimal
	TransactionCount *int64
}

// ListSummaries returns every summary row with net profit recomputed
func (s *MonthlySummaryService) ListSummaries(ctx context.Context) ([]*domain.MonthlySummary, error) {
	return s.summaryRepo.List(ctx)
}

// CreateSummary validates input, derives net profit and stores the row
func (s *MonthlySummaryService) CreateSummary(ctx context.Context, input MonthlySummaryInput) (*domain.MonthlySummary, error) {
	if err := s.checkWritable(); err != nil {
		return nil, err
	}
	var v fieldErrors
	v.require("year", input.Year != nil)
	v.require("month", input.Month != nil)
	s.validate(&v, input)
	if err := v.err(); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	summary := &domain.MonthlySummary{
		Year:         *input.Year,
		Month:        *input.Month,
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
		CreatedDate:  &now,
	}
	if input.TotalIncome != nil {
		summary.TotalIncome = *input.TotalIncome
	}
	if input.TotalExpense != nil {
		summary.TotalExpense = *input.TotalExpense
	}
	if input.TransactionCount != nil {
		summary.TransactionCount = *input.TransactionCount
	}
	summary.Recalculate()

	created, err := s.summaryRepo.Create(ctx, summary)
	if err != nil {
		return nil, err
	}

	s.publishEvent(websocket.Created(websocket.EntityTypeMonthlySummary, created))
	return created, nil
}

// UpdateSummary patches a summary row. Net profit is recomputed from the
// merged totals whenever either total is part of the patch.
func (s *MonthlySummaryService) UpdateSummary(ctx context.Context, id int64, input MonthlySummaryInput) (*domain.MonthlySummary, error) {
	if err := s.checkWritable(); err != nil {
		return nil, err
	}
	var v fieldErrors
	s.validate(&v, input)
	if err := v.err(); err != nil {
		return nil, err
	}

	current, err := s.summaryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	update := domain.MonthlySummaryUpdate{
		Year:             input.Year,
		Month:            input.Month,
		TotalIncome:      input.TotalIncome,
		TotalExpense:     input.TotalExpense,
		TransactionCount: input.TransactionCount,
	}

	merged := *current
	merged.Apply(update)
	if input.TotalIncome != nil || input.TotalExpense != nil {
		merged.Recalculate()
		update.NetProfit = &merged.NetProfit
	}

	if err := s.summaryRepo.Update(ctx, id, update); err != nil {
		return nil, err
	}

	s.publishEvent(websocket.Updated(websocket.EntityTypeMonthlySummary, &merged))
	return &merged, nil
}

// DeleteSummary removes a summary row
func (s *MonthlySummaryService) DeleteSummary(ctx context.Context, id int64) error {
	if err := s.checkWritable(); err != nil {
		return err
	}
	err := deleteWithPrecheck(ctx, "monthly_summary", id, domain.ErrSummaryNotFound,
		func(ctx context.Context, id int64) error {
			_, err := s.summaryRepo.GetByID(ctx, id)
			return err
		},
		s.summaryRepo.Delete,
	)
	if err != nil {
		return err
	}

	s.publishEvent(websocket.Deleted(websocket.EntityTypeMonthlySummary, id))
	return nil
}

func (s *MonthlySummaryService) validate(v *fieldErrors, input MonthlySummaryInput) {
	v.year("year", input.Year, s.now())
	v.month("month", input.Month)
	if input.TransactionCount != nil && *input.TransactionCount < 0 {
		v.add("transaction_count", "Transaction count cannot be negative")
	}
}
