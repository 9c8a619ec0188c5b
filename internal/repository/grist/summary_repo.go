package grist

import (
	"context"
	"fmt"
	"time"

	"github.com/dafibh/finboard/finboard-backend/internal/domain"
)

// MonthlySummaryRepository implements domain.MonthlySummaryRepository on the
// Mouthly_Summary table
type MonthlySummaryRepository struct {
	client *Client
}

// NewMonthlySummaryRepository creates a new MonthlySummaryRepository
func NewMonthlySummaryRepository(client *Client) *MonthlySummaryRepository {
	return &MonthlySummaryRepository{client: client}
}

// List returns every summary row
func (r *MonthlySummaryRepository) List(ctx context.Context) ([]*domain.MonthlySummary, error) {
	records, err := r.client.FetchRecords(ctx, TableMonthlySummary, Query{})
	if err != nil {
		return nil, err
	}
	summaries := make([]*domain.MonthlySummary, 0, len(records))
	for _, rec := range records {
		summaries = append(summaries, parseMonthlySummary(rec))
	}
	return summaries, nil
}

// GetByID returns domain.ErrSummaryNotFound when no row has the id
func (r *MonthlySummaryRepository) GetByID(ctx context.Context, id int64) (*domain.MonthlySummary, error) {
	records, err := r.client.FetchRecords(ctx, TableMonthlySummary, byID(id))
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, domain.ErrSummaryNotFound
	}
	return parseMonthlySummary(records[0]), nil
}

// Create inserts a summary row and returns it with its new id
func (r *MonthlySummaryRepository) Create(ctx context.Context, summary *domain.MonthlySummary) (*domain.MonthlySummary, error) {
	ids, err := r.client.AddRecords(ctx, TableMonthlySummary, []Fields{summaryFields(summary)})
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("add monthly summary: no id returned")
	}
	created := *summary
	created.ID = ids[0]
	return &created, nil
}

// Update writes the non-nil columns of update
func (r *MonthlySummaryRepository) Update(ctx context.Context, id int64, update domain.MonthlySummaryUpdate) error {
	fields := Fields{}
	if update.Year != nil {
		fields["year"] = *update.Year
	}
	if update.Month != nil {
		fields["month"] = *update.Month
	}
	if update.TotalIncome != nil {
		fields["total_income"] = number(*update.TotalIncome)
	}
	if update.TotalExpense != nil {
		fields["total_expense"] = number(*update.TotalExpense)
	}
	if update.NetProfit != nil {
		fields["net_profit"] = number(*update.NetProfit)
	}
	if update.TransactionCount != nil {
		fields["transaction_count"] = *update.TransactionCount
	}
	if len(fields) == 0 {
		return nil
	}
	return r.client.UpdateRecords(ctx, TableMonthlySummary, []Record{{ID: id, Fields: fields}})
}

// Delete removes a summary row
func (r *MonthlySummaryRepository) Delete(ctx context.Context, id int64) error {
	return r.client.DeleteRecords(ctx, TableMonthlySummary, []int64{id})
}

func parseMonthlySummary(rec Record) *domain.MonthlySummary {
	f := rec.Fields
	s := &domain.MonthlySummary{
		ID:               rec.ID,
		SummaryID:        f.int64Or("summary_id", 0),
		Year:             f.intOr("year", 0),
		Month:            f.intOr("month", 0),
		TotalIncome:      f.decimal("total_income"),
		TotalExpense:     f.decimal("total_expense"),
		TransactionCount: f.int64Or("transaction_count", 0),
		CreatedDate:      f.date("created_date"),
	}
	s.Recalculate()
	return s
}

func summaryFields(s *domain.MonthlySummary) Fields {
	fields := Fields{
		"year":              s.Year,
		"month":             s.Month,
		"total_income":      number(s.TotalIncome),
		"total_expense":     number(s.TotalExpense),
		"net_profit":        number(s.NetProfit),
		"transaction_count": s.TransactionCount,
	}
	if s.CreatedDate != nil {
		fields["created_date"] = s.CreatedDate.UTC().Format(time.RFC3339)
	}
	return fields
}
