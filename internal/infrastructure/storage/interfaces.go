package storage

import "errors"

// Errors returned by the transfer-group write path. Reads follow the
// "not found is a nil record" convention instead.
var (
	// ErrTransactionNotFound is returned when a transfer-group member
	// does not exist within the given family.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrAlreadyResolved is returned when a transfer-group member is
	// already part of another transfer group.
	ErrAlreadyResolved = errors.New("transaction already belongs to a transfer group")
)

// Repository defines the complete storage interface.
// This interface allows swapping implementations (SQLite, PostgreSQL, etc.)
// and makes testing with mocks straightforward.
type Repository interface {
	TransactionRepository
	TransferGroupRepository
	Close() error
}

// TransactionRepository handles transaction reads and writes
type TransactionRepository interface {
	// SaveTransaction saves or updates a transaction
	SaveTransaction(tx *Transaction) error

	// GetTransaction retrieves a transaction by id within a family scope.
	// Returns (nil, nil) if no such transaction exists.
	GetTransaction(id, familyID string) (*Transaction, error)

	// FindCandidates returns unresolved transactions matching the given
	// flow type and inclusive date range, excluding ExcludeID.
	FindCandidates(filters CandidateFilters) ([]*Transaction, error)

	// ListUnresolved returns the most recent unresolved transactions
	// for a family, ordered by date descending.
	ListUnresolved(familyID string, limit int) ([]*Transaction, error)

	// ListTransactions returns transactions matching the given filters
	// with pagination
	ListTransactions(filters TransactionFilters) (*TransactionListResult, error)

	// CountUnresolved returns how many transactions in the family are
	// not yet part of a transfer group
	CountUnresolved(familyID string) (int, error)
}

// TransferGroupRepository handles transfer-group resolution
type TransferGroupRepository interface {
	// AssignTransferGroup stamps groupID onto every listed transaction in
	// one database transaction. Fails with ErrTransactionNotFound or
	// ErrAlreadyResolved without partial writes.
	AssignTransferGroup(familyID, groupID string, transactionIDs ...string) error

	// GetTransferGroup returns all members of a transfer group
	GetTransferGroup(familyID, groupID string) ([]*Transaction, error)
}
