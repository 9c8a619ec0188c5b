package grist

// Table names in the Grist document. Mouthly_Summary is spelled as it is in
// the document.
const (
	TableBudget         = "Budget"
	TableCategories     = "Categories"
	TableTransactions   = "Transactions"
	TableMonthlySummary = "Mouthly_Summary"
)

// byID filters a fetch down to a single row id.
func byID(id int64) Query {
	return Query{Filter: map[string][]any{"id": {id}}}
}
