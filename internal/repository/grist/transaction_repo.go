package grist

import (
	"context"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/dafibh/finboard/finboard-backend/internal/domain"
)

// TransactionRepository implements domain.TransactionRepository on the
// Transactions table
type TransactionRepository struct {
	client *Client
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(client *Client) *TransactionRepository {
	return &TransactionRepository{client: client}
}

// List returns every transaction. Type holds the raw stored value until the
// caller resolves it against categories.
func (r *TransactionRepository) List(ctx context.Context) ([]*domain.Transaction, error) {
	return r.fetch(ctx, Query{})
}

// ListByCategory returns the transactions whose category_name column refers
// to categoryID. The column may hold the id as a number or a string.
func (r *TransactionRepository) ListByCategory(ctx context.Context, categoryID int64) ([]*domain.Transaction, error) {
	return r.fetch(ctx, Query{Filter: map[string][]any{
		"category_name": {categoryID, strconv.FormatInt(categoryID, 10)},
	}})
}

// GetByID returns domain.ErrTransactionNotFound when no row has the id
func (r *TransactionRepository) GetByID(ctx context.Context, id int64) (*domain.Transaction, error) {
	txs, err := r.fetch(ctx, byID(id))
	if err != nil {
		return nil, err
	}
	if len(txs) == 0 {
		return nil, domain.ErrTransactionNotFound
	}
	return txs[0], nil
}

// NextTransactionID returns one more than the highest transaction_id in use,
// or 1 for an empty table. Rows without a transaction_id count by row id.
func (r *TransactionRepository) NextTransactionID(ctx context.Context) (int64, error) {
	records, err := r.client.FetchRecords(ctx, TableTransactions, Query{})
	if err != nil {
		return 0, err
	}
	var maxID int64
	for _, rec := range records {
		if id := rec.Fields.int64Or("transaction_id", rec.ID); id > maxID {
			maxID = id
		}
	}
	return maxID + 1, nil
}

// Create inserts a transaction and returns it with its new id
func (r *TransactionRepository) Create(ctx context.Context, transaction *domain.Transaction) (*domain.Transaction, error) {
	ids, err := r.client.AddRecords(ctx, TableTransactions, []Fields{transactionFields(transaction)})
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("add transaction: no id returned")
	}
	created := *transaction
	created.ID = ids[0]
	return &created, nil
}

// Update writes the non-nil columns of update
func (r *TransactionRepository) Update(ctx context.Context, id int64, update domain.TransactionUpdate) error {
	fields := Fields{}
	if update.Description != nil {
		fields["description"] = *update.Description
	}
	if update.Amount != nil {
		fields["amount"] = number(*update.Amount)
	}
	if update.Type != nil {
		fields["transaction_type"] = string(*update.Type)
	}
	if update.CategoryID != nil {
		fields["category_name"] = *update.CategoryID
	}
	if update.TransactionDate != nil {
		fields["transaction_date"] = epochSeconds(*update.TransactionDate)
	}
	if update.PaymentMethod != nil {
		fields["payment_method"] = *update.PaymentMethod
	}
	if update.Quantity != nil {
		fields["quantity"] = *update.Quantity
	}
	if update.UnitPrice != nil {
		fields["unit_price"] = number(*update.UnitPrice)
	}
	if update.Status != nil {
		fields["status"] = *update.Status
	}
	if update.Notes != nil {
		fields["notes"] = *update.Notes
	}
	if update.UpdatedDate != nil {
		fields["updated_date"] = epochSeconds(*update.UpdatedDate)
	}
	if len(fields) == 0 {
		return nil
	}
	return r.client.UpdateRecords(ctx, TableTransactions, []Record{{ID: id, Fields: fields}})
}

// Delete removes a transaction row
func (r *TransactionRepository) Delete(ctx context.Context, id int64) error {
	return r.client.DeleteRecords(ctx, TableTransactions, []int64{id})
}

func (r *TransactionRepository) fetch(ctx context.Context, q Query) ([]*domain.Transaction, error) {
	records, err := r.client.FetchRecords(ctx, TableTransactions, q)
	if err != nil {
		return nil, err
	}
	txs := make([]*domain.Transaction, 0, len(records))
	for _, rec := range records {
		txs = append(txs, parseTransaction(rec))
	}
	return txs, nil
}

func parseTransaction(rec Record) *domain.Transaction {
	f := rec.Fields

	amount := f.decimal("amount")
	quantity := f.int64Or("quantity", domain.DefaultQuantity)
	if quantity < 1 {
		quantity = domain.DefaultQuantity
	}
	unitPrice := amount.Div(decimal.NewFromInt(quantity))
	if f.has("unit_price") {
		unitPrice = f.decimal("unit_price")
	}

	paymentMethod := f.str("payment_method")
	if paymentMethod == "" {
		paymentMethod = domain.DefaultPaymentMethod
	}
	status := f.str("status")
	if status == "" {
		status = domain.DefaultStatus
	}

	stored := f.str("transaction_type")
	return &domain.Transaction{
		ID:              rec.ID,
		TransactionID:   f.int64Or("transaction_id", rec.ID),
		Description:     f.str("description"),
		Amount:          amount,
		Type:            domain.TransactionType(domain.NormalizeTransactionType(stored)),
		StoredType:      stored,
		CategoryID:      f.int64Or("category_name", 0),
		TransactionDate: f.date("transaction_date"),
		PaymentMethod:   paymentMethod,
		Quantity:        quantity,
		UnitPrice:       unitPrice,
		Status:          status,
		Notes:           f.str("notes"),
		CreatedBy:       f.str("created_by"),
		CreatedDate:     f.date("created_date"),
		UpdatedDate:     f.date("updated_date"),
	}
}

func transactionFields(t *domain.Transaction) Fields {
	fields := Fields{
		"transaction_id":   t.TransactionID,
		"description":      t.Description,
		"amount":           number(t.Amount),
		"transaction_type": string(t.Type),
		"category_name":    t.CategoryID,
		"payment_method":   t.PaymentMethod,
		"quantity":         t.Quantity,
		"unit_price":       number(t.UnitPrice),
		"status":           t.Status,
		"notes":            t.Notes,
		"created_by":       t.CreatedBy,
	}
	if t.TransactionDate != nil {
		fields["transaction_date"] = epochSeconds(*t.TransactionDate)
	}
	if t.CreatedDate != nil {
		fields["created_date"] = epochSeconds(*t.CreatedDate)
	}
	if t.UpdatedDate != nil {
		fields["updated_date"] = epochSeconds(*t.UpdatedDate)
	}
	return fields
}
