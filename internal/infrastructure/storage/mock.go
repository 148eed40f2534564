package storage

import (
	"fmt"
	"sort"
)

// MockRepository is an in-memory implementation of Repository for testing.
// It stores all data in maps and slices, making tests fast and isolated.
type MockRepository struct {
	transactions map[string]*Transaction

	// Hooks for test assertions
	SaveTransactionCalled     bool
	LastSavedTransaction      *Transaction
	GetTransactionCalled      bool
	FindCandidatesCalled      bool
	LastCandidateFilters      CandidateFilters
	ListUnresolvedCalled      bool
	AssignTransferGroupCalled bool
	LastAssignedGroupID       string

	// Error injection for testing error paths
	SaveTransactionErr     error
	GetTransactionErr      error
	FindCandidatesErr      error
	ListUnresolvedErr      error
	ListTransactionsErr    error
	AssignTransferGroupErr error
}

// NewMockRepository creates a new mock repository for testing
func NewMockRepository() *MockRepository {
	return &MockRepository{
		transactions: make(map[string]*Transaction),
	}
}

// Compile-time check that MockRepository implements Repository
var _ Repository = (*MockRepository)(nil)

// Close does nothing for mock
func (m *MockRepository) Close() error {
	return nil
}

// AddTransaction is a test helper that seeds a transaction without
// touching the call-tracking hooks.
func (m *MockRepository) AddTransaction(tx *Transaction) {
	copied := *tx
	m.transactions[tx.ID] = &copied
}

// SaveTransaction saves a transaction to the in-memory map
func (m *MockRepository) SaveTransaction(tx *Transaction) error {
	m.SaveTransactionCalled = true
	m.LastSavedTransaction = tx
	if m.SaveTransactionErr != nil {
		return m.SaveTransactionErr
	}
	// Deep copy to avoid test mutations
	copied := *tx
	m.transactions[tx.ID] = &copied
	return nil
}

// GetTransaction retrieves a transaction by id within a family scope
func (m *MockRepository) GetTransaction(id, familyID string) (*Transaction, error) {
	m.GetTransactionCalled = true
	if m.GetTransactionErr != nil {
		return nil, m.GetTransactionErr
	}
	tx, ok := m.transactions[id]
	if !ok || tx.FamilyID != familyID {
		return nil, nil
	}
	copied := *tx
	return &copied, nil
}

// FindCandidates returns unresolved transactions matching the filters,
// ordered by date then id for deterministic results.
func (m *MockRepository) FindCandidates(filters CandidateFilters) ([]*Transaction, error) {
	m.FindCandidatesCalled = true
	m.LastCandidateFilters = filters
	if m.FindCandidatesErr != nil {
		return nil, m.FindCandidatesErr
	}

	matches := make([]*Transaction, 0)
	for _, tx := range m.transactions {
		if tx.FamilyID != filters.FamilyID {
			continue
		}
		if tx.ID == filters.ExcludeID {
			continue
		}
		if tx.FlowType != filters.FlowType {
			continue
		}
		if tx.IsResolved() {
			continue
		}
		if tx.Date.Before(filters.DateFrom) || tx.Date.After(filters.DateTo) {
			continue
		}
		copied := *tx
		matches = append(matches, &copied)
	}

	sort.Slice(matches, func(i, j int) bool {
		if !matches[i].Date.Equal(matches[j].Date) {
			return matches[i].Date.Before(matches[j].Date)
		}
		return matches[i].ID < matches[j].ID
	})

	return matches, nil
}

// ListUnresolved returns the most recent unresolved transactions for a family
func (m *MockRepository) ListUnresolved(familyID string, limit int) ([]*Transaction, error) {
	m.ListUnresolvedCalled = true
	if m.ListUnresolvedErr != nil {
		return nil, m.ListUnresolvedErr
	}

	matches := make([]*Transaction, 0)
	for _, tx := range m.transactions {
		if tx.FamilyID != familyID || tx.IsResolved() {
			continue
		}
		copied := *tx
		matches = append(matches, &copied)
	}

	sort.Slice(matches, func(i, j int) bool {
		if !matches[i].Date.Equal(matches[j].Date) {
			return matches[i].Date.After(matches[j].Date)
		}
		return matches[i].ID < matches[j].ID
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	return matches, nil
}

// ListTransactions returns transactions matching the filters with pagination
func (m *MockRepository) ListTransactions(filters TransactionFilters) (*TransactionListResult, error) {
	if m.ListTransactionsErr != nil {
		return nil, m.ListTransactionsErr
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = 50
	}

	matches := make([]*Transaction, 0)
	for _, tx := range m.transactions {
		if tx.FamilyID != filters.FamilyID {
			continue
		}
		if filters.AccountID != "" && tx.AccountID != filters.AccountID {
			continue
		}
		if filters.FlowType != "" && tx.FlowType != filters.FlowType {
			continue
		}
		if filters.UnresolvedOnly && tx.IsResolved() {
			continue
		}
		copied := *tx
		matches = append(matches, &copied)
	}

	sort.Slice(matches, func(i, j int) bool {
		if !matches[i].Date.Equal(matches[j].Date) {
			return matches[i].Date.After(matches[j].Date)
		}
		return matches[i].ID < matches[j].ID
	})

	total := len(matches)
	if filters.Offset < len(matches) {
		matches = matches[filters.Offset:]
	} else {
		matches = matches[:0]
	}
	if len(matches) > limit {
		matches = matches[:limit]
	}

	return &TransactionListResult{
		Transactions: matches,
		TotalCount:   total,
		Limit:        limit,
		Offset:       filters.Offset,
	}, nil
}

// CountUnresolved returns how many transactions in the family are unresolved
func (m *MockRepository) CountUnresolved(familyID string) (int, error) {
	count := 0
	for _, tx := range m.transactions {
		if tx.FamilyID == familyID && !tx.IsResolved() {
			count++
		}
	}
	return count, nil
}

// AssignTransferGroup stamps groupID onto every listed transaction.
// Validates all members before mutating any, mirroring the SQLite
// implementation's all-or-nothing behavior.
func (m *MockRepository) AssignTransferGroup(familyID, groupID string, transactionIDs ...string) error {
	m.AssignTransferGroupCalled = true
	m.LastAssignedGroupID = groupID
	if m.AssignTransferGroupErr != nil {
		return m.AssignTransferGroupErr
	}

	for _, id := range transactionIDs {
		tx, ok := m.transactions[id]
		if !ok || tx.FamilyID != familyID {
			return fmt.Errorf("transaction %s: %w", id, ErrTransactionNotFound)
		}
		if tx.IsResolved() {
			return fmt.Errorf("transaction %s: %w", id, ErrAlreadyResolved)
		}
	}

	for _, id := range transactionIDs {
		g := groupID
		m.transactions[id].TransferGroupID = &g
	}

	return nil
}

// GetTransferGroup returns all members of a transfer group
func (m *MockRepository) GetTransferGroup(familyID, groupID string) ([]*Transaction, error) {
	members := make([]*Transaction, 0)
	for _, tx := range m.transactions {
		if tx.FamilyID != familyID {
			continue
		}
		if tx.TransferGroupID == nil || *tx.TransferGroupID != groupID {
			continue
		}
		copied := *tx
		members = append(members, &copied)
	}

	sort.Slice(members, func(i, j int) bool {
		if !members[i].Date.Equal(members[j].Date) {
			return members[i].Date.Before(members[j].Date)
		}
		return members[i].ID < members[j].ID
	})

	return members, nil
}
