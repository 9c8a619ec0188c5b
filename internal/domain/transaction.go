package domain

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Transaction field defaults
const (
	DefaultPaymentMethod = "Cash"
	DefaultStatus        = "Completed"
	DefaultCreatedBy     = "admin"
	DefaultQuantity      = 1
)

// PaymentMethods lists the accepted payment method values.
var PaymentMethods = []string{
	"Cash",
	"เงินสด",
	"โอน",
	"Credit Card",
	"บัตรเครดิต",
	"Bank Transfer",
	"โอนเงิน",
	"Digital Wallet",
	"กระเป๋าเงินดิจิทัล",
}

// TransactionStatuses lists the accepted status values.
var TransactionStatuses = []string{
	"Pending",
	"รอดำเนินการ",
	"Completed",
	"สำเร็จ",
	"Cancelled",
	"ยกเลิก",
}

type Transaction struct {
	ID              int64           `json:"id"`
	TransactionID   int64           `json:"transactionId"`
	Description     string          `json:"description"`
	Amount          decimal.Decimal `json:"amount"`
	Type            TransactionType `json:"type"`
	StoredType      string          `json:"-"`
	CategoryID      int64           `json:"categoryId"`
	TransactionDate *time.Time      `json:"transactionDate,omitempty"`
	PaymentMethod   string          `json:"paymentMethod"`
	Quantity        int64           `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	Status          string          `json:"status"`
	Notes           string          `json:"notes"`
	CreatedBy       string          `json:"createdBy"`
	CreatedDate     *time.Time      `json:"createdDate,omitempty"`
	UpdatedDate     *time.Time      `json:"updatedDate,omitempty"`
}

// TransactionUpdate holds the columns to change on a transaction. Nil fields
// are left untouched.
type TransactionUpdate struct {
	Description     *string
	Amount          *decimal.Decimal
	Type            *TransactionType
	CategoryID      *int64
	TransactionDate *time.Time
	PaymentMethod   *string
	Quantity        *int64
	UnitPrice       *decimal.Decimal
	Status          *string
	Notes           *string
	UpdatedDate     *time.Time
}

// Apply copies every non-nil field of u onto t.
func (t *Transaction) Apply(u TransactionUpdate) {
	if u.Description != nil {
		t.Description = *u.Description
	}
	if u.Amount != nil {
		t.Amount = *u.Amount
	}
	if u.Type != nil {
		t.Type = *u.Type
		t.StoredType = string(*u.Type)
	}
	if u.CategoryID != nil {
		t.CategoryID = *u.CategoryID
	}
	if u.TransactionDate != nil {
		date := *u.TransactionDate
		t.TransactionDate = &date
	}
	if u.PaymentMethod != nil {
		t.PaymentMethod = *u.PaymentMethod
	}
	if u.Quantity != nil {
		t.Quantity = *u.Quantity
	}
	if u.UnitPrice != nil {
		t.UnitPrice = *u.UnitPrice
	}
	if u.Status != nil {
		t.Status = *u.Status
	}
	if u.Notes != nil {
		t.Notes = *u.Notes
	}
	if u.UpdatedDate != nil {
		updated := *u.UpdatedDate
		t.UpdatedDate = &updated
	}
}

type TransactionRepository interface {
	List(ctx context.Context) ([]*Transaction, error)
	ListByCategory(ctx context.Context, categoryID int64) ([]*Transaction, error)
	GetByID(ctx context.Context, id int64) (*Transaction, error)
	NextTransactionID(ctx context.Context) (int64, error)
	Create(ctx context.Context, transaction *Transaction) (*Transaction, error)
	Update(ctx context.Context, id int64, update TransactionUpdate) error
	Delete(ctx context.Context, id int64) error
}

// NormalizeTransactionType lowercases and trims a stored or submitted type.
func NormalizeTransactionType(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// IsKnownTransactionType reports whether raw normalizes to income or expense.
func IsKnownTransactionType(raw string) bool {
	switch TransactionType(NormalizeTransactionType(raw)) {
	case TransactionTypeIncome, TransactionTypeExpense:
		return true
	}
	return false
}

// ResolveTransactionType picks the final type of a transaction.
//
// A valid explicit type wins. Otherwise the linked category's declared type is
// used, where anything other than "expense" counts as income. Without a
// category the result is expense.
func ResolveTransactionType(explicit string, categoryType *string) TransactionType {
	if normalized := NormalizeTransactionType(explicit); normalized != "" {
		if IsKnownTransactionType(normalized) {
			return TransactionType(normalized)
		}
	}

	if categoryType == nil {
		return TransactionTypeExpense
	}

	return CategoryTransactionType(*categoryType)
}

// CategoryTransactionType maps a category's declared type onto a transaction
// type: exactly "expense" (case-insensitive) is expense, everything else income.
func CategoryTransactionType(raw string) TransactionType {
	if NormalizeTransactionType(raw) == string(TransactionTypeExpense) {
		return TransactionTypeExpense
	}
	return TransactionTypeIncome
}

// ResolveTransactionTypes sets Type on every transaction using its stored type
// and the declared type of its category, if the category is known.
func ResolveTransactionTypes(transactions []*Transaction, categories map[int64]*Category) {
	for _, t := range transactions {
		var categoryType *string
		if category, ok := categories[t.CategoryID]; ok {
			declared := category.StoredType
			categoryType = &declared
		}
		t.Type = ResolveTransactionType(t.StoredType, categoryType)
	}
}

// IsValidPaymentMethod reports whether method is on the allow-list.
func IsValidPaymentMethod(method string) bool {
	return slices.Contains(PaymentMethods, method)
}

// IsValidTransactionStatus reports whether status is on the allow-list.
func IsValidTransactionStatus(status string) bool {
	return slices.Contains(TransactionStatuses, status)
}
