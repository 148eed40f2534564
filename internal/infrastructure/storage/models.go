package storage

import (
	"time"
)

// Flow type values for Transaction.FlowType.
// Transfers are not a flow type of their own: a resolved transfer is a
// pair of INCOME/EXPENSE rows sharing a transfer group id.
const (
	FlowIncome  = "INCOME"
	FlowExpense = "EXPENSE"
)

// Transaction is a single ledger entry belonging to a family member's account.
type Transaction struct {
	ID        string    `json:"id"`
	FamilyID  string    `json:"family_id"`
	AccountID string    `json:"account_id"`
	// Amount is a non-negative magnitude; direction is carried by FlowType.
	Amount      float64   `json:"amount"`
	Date        time.Time `json:"date"`
	FlowType    string    `json:"flow_type"`
	Description string    `json:"description,omitempty"`
	// TransferGroupID is non-nil once the transaction has been resolved
	// into a transfer pair. Resolved rows are excluded from matching.
	TransferGroupID *string   `json:"transfer_group_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// IsResolved reports whether the transaction already belongs to a transfer group.
func (t *Transaction) IsResolved() bool {
	return t.TransferGroupID != nil && *t.TransferGroupID != ""
}

// CandidateFilters selects opposite-side candidates for transfer matching.
type CandidateFilters struct {
	FamilyID  string
	ExcludeID string    // the source transaction, never its own candidate
	FlowType  string    // the opposite flow type of the source
	DateFrom  time.Time // inclusive
	DateTo    time.Time // inclusive
}

// TransactionFilters defines filters for the bounded listing API.
type TransactionFilters struct {
	FamilyID       string
	AccountID      string // empty = all accounts
	FlowType       string // empty = all flow types
	UnresolvedOnly bool
	Limit          int // 0 = default 50
	Offset         int
}

// TransactionListResult contains paginated transaction results.
type TransactionListResult struct {
	Transactions []*Transaction `json:"transactions"`
	TotalCount   int            `json:"total_count"`
	Limit        int            `json:"limit"`
	Offset       int            `json:"offset"`
}
