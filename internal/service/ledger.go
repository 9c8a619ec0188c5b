package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/dafibh/finboard/finboard-backend/internal/domain"
)

// ledger is a read-only snapshot of the three tables the aggregations use.
// Transaction types are resolved against the categories.
type ledger struct {
	transactions []*domain.Transaction
	categories   map[int64]*domain.Category
	summaries    []*domain.MonthlySummary
}

type ledgerLoader struct {
	transactionRepo domain.TransactionRepository
	categoryRepo    domain.CategoryRepository
	summaryRepo     domain.MonthlySummaryRepository
}

// load reads the tables concurrently. A table that fails to load is logged
// and treated as empty.
func (l ledgerLoader) load(ctx context.Context) *ledger {
	var (
		transactions []*domain.Transaction
		categories   []*domain.Category
		summaries    []*domain.MonthlySummary
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if transactions, err = l.transactionRepo.List(gctx); err != nil {
			log.Warn().Err(err).Msg("Failed to load transactions, aggregating without them")
			transactions = nil
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if categories, err = l.categoryRepo.List(gctx); err != nil {
			log.Warn().Err(err).Msg("Failed to load categories, aggregating without them")
			categories = nil
		}
		return nil
	})
	if l.summaryRepo != nil {
		g.Go(func() error {
			var err error
			if summaries, err = l.summaryRepo.List(gctx); err != nil {
				log.Warn().Err(err).Msg("Failed to load monthly summaries, aggregating without them")
				summaries = nil
			}
			return nil
		})
	}
	_ = g.Wait()

	byID := domain.CategoriesByID(categories)
	domain.ResolveTransactionTypes(transactions, byID)

	dated := transactions[:0:0]
	for _, t := range transactions {
		if t.TransactionDate == nil {
			log.Warn().
				Int64("transaction_id", t.ID).
				Msg("Transaction has no usable date, excluded from aggregation")
			continue
		}
		dated = append(dated, t)
	}

	return &ledger{
		transactions: dated,
		categories:   byID,
		summaries:    summaries,
	}
}

// monthTotals sums the transactions that fall in year/month as seen in loc.
func (l *ledger) monthTotals(loc *time.Location, year, month int) domain.MonthTotals {
	totals := domain.MonthTotals{}
	for _, t := range l.transactions {
		if domain.InMonth(*t.TransactionDate, loc, year, month) {
			totals.Add(t.Type, t.Amount)
		}
	}
	return totals
}
