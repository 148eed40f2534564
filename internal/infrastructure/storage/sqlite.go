package storage

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// Storage provides SQLite database access for family transactions.
// It implements the Repository interface.
type Storage struct {
	db *sql.DB
}

// Compile-time check that Storage implements Repository
var _ Repository = (*Storage)(nil)

// NewStorage creates a new storage instance with SQLite database
func NewStorage(dbPath string) (*Storage, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable foreign key constraints (SQLite-specific)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &Storage{db: db}

	// Run all pending migrations
	if err := s.runMigrations(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}

const transactionColumns = `id, family_id, account_id, amount, date, flow_type, description, transfer_group_id, created_at`

// SaveTransaction saves or updates a transaction
func (s *Storage) SaveTransaction(tx *Transaction) error {
	query := `
	INSERT OR REPLACE INTO transactions
	(id, family_id, account_id, amount, date, flow_type, description, transfer_group_id, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, COALESCE(?, CURRENT_TIMESTAMP))
	`

	var groupID interface{}
	if tx.TransferGroupID != nil {
		groupID = *tx.TransferGroupID
	}

	var createdAt interface{}
	if !tx.CreatedAt.IsZero() {
		createdAt = tx.CreatedAt
	}

	_, err := s.db.Exec(query,
		tx.ID,
		tx.FamilyID,
		tx.AccountID,
		tx.Amount,
		tx.Date,
		tx.FlowType,
		tx.Description,
		groupID,
		createdAt,
	)

	return err
}

// GetTransaction retrieves a transaction by id within a family scope.
// Returns (nil, nil) when no row exists.
func (s *Storage) GetTransaction(id, familyID string) (*Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = ? AND family_id = ?`

	tx, err := scanTransaction(s.db.QueryRow(query, id, familyID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return tx, nil
}

// FindCandidates returns unresolved transactions matching the flow type and
// inclusive date range, excluding the source transaction itself.
// Order is deterministic (date, then id) so that score ties keep a stable
// presentation order across calls.
func (s *Storage) FindCandidates(filters CandidateFilters) ([]*Transaction, error) {
	query := `
	SELECT ` + transactionColumns + `
	FROM transactions
	WHERE family_id = ?
	  AND id != ?
	  AND flow_type = ?
	  AND transfer_group_id IS NULL
	  AND date >= ?
	  AND date <= ?
	ORDER BY date ASC, id ASC
	`

	rows, err := s.db.Query(query,
		filters.FamilyID,
		filters.ExcludeID,
		filters.FlowType,
		filters.DateFrom,
		filters.DateTo,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanTransactions(rows)
}

// ListUnresolved returns the most recent unresolved transactions for a family
func (s *Storage) ListUnresolved(familyID string, limit int) ([]*Transaction, error) {
	query := `
	SELECT ` + transactionColumns + `
	FROM transactions
	WHERE family_id = ? AND transfer_group_id IS NULL
	ORDER BY date DESC, id ASC
	LIMIT ?
	`

	rows, err := s.db.Query(query, familyID, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanTransactions(rows)
}

// ListTransactions returns transactions matching the given filters with pagination
func (s *Storage) ListTransactions(filters TransactionFilters) (*TransactionListResult, error) {
	limit := filters.Limit
	if limit <= 0 {
		limit = 50
	}

	where := []string{"family_id = ?"}
	args := []interface{}{filters.FamilyID}

	if filters.AccountID != "" {
		where = append(where, "account_id = ?")
		args = append(args, filters.AccountID)
	}
	if filters.FlowType != "" {
		where = append(where, "flow_type = ?")
		args = append(args, filters.FlowType)
	}
	if filters.UnresolvedOnly {
		where = append(where, "transfer_group_id IS NULL")
	}

	whereClause := strings.Join(where, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM transactions WHERE ` + whereClause
	if err := s.db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, err
	}

	query := `
	SELECT ` + transactionColumns + `
	FROM transactions
	WHERE ` + whereClause + `
	ORDER BY date DESC, id ASC
	LIMIT ? OFFSET ?
	`
	args = append(args, limit, filters.Offset)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	txs, err := scanTransactions(rows)
	if err != nil {
		return nil, err
	}

	return &TransactionListResult{
		Transactions: txs,
		TotalCount:   total,
		Limit:        limit,
		Offset:       filters.Offset,
	}, nil
}

// CountUnresolved returns how many transactions in the family are unresolved
func (s *Storage) CountUnresolved(familyID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM transactions WHERE family_id = ? AND transfer_group_id IS NULL`
	err := s.db.QueryRow(query, familyID).Scan(&count)
	return count, err
}

// AssignTransferGroup stamps groupID onto every listed transaction in one
// database transaction. Either all members are updated or none are.
func (s *Storage) AssignTransferGroup(familyID, groupID string, transactionIDs ...string) error {
	dbTx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	for _, id := range transactionIDs {
		var existing sql.NullString
		err := dbTx.QueryRow(
			`SELECT transfer_group_id FROM transactions WHERE id = ? AND family_id = ?`,
			id, familyID,
		).Scan(&existing)
		if err == sql.ErrNoRows {
			_ = dbTx.Rollback()
			return fmt.Errorf("transaction %s: %w", id, ErrTransactionNotFound)
		}
		if err != nil {
			_ = dbTx.Rollback()
			return err
		}
		if existing.Valid && existing.String != "" {
			_ = dbTx.Rollback()
			return fmt.Errorf("transaction %s: %w", id, ErrAlreadyResolved)
		}

		if _, err := dbTx.Exec(
			`UPDATE transactions SET transfer_group_id = ? WHERE id = ? AND family_id = ?`,
			groupID, id, familyID,
		); err != nil {
			_ = dbTx.Rollback()
			return err
		}
	}

	return dbTx.Commit()
}

// GetTransferGroup returns all members of a transfer group
func (s *Storage) GetTransferGroup(familyID, groupID string) ([]*Transaction, error) {
	query := `
	SELECT ` + transactionColumns + `
	FROM transactions
	WHERE family_id = ? AND transfer_group_id = ?
	ORDER BY date ASC, id ASC
	`

	rows, err := s.db.Query(query, familyID, groupID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanTransactions(rows)
}

// rowScanner covers both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTransaction(row rowScanner) (*Transaction, error) {
	tx := &Transaction{}
	var groupID sql.NullString
	var description sql.NullString

	err := row.Scan(
		&tx.ID,
		&tx.FamilyID,
		&tx.AccountID,
		&tx.Amount,
		&tx.Date,
		&tx.FlowType,
		&description,
		&groupID,
		&tx.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if description.Valid {
		tx.Description = description.String
	}
	if groupID.Valid && groupID.String != "" {
		g := groupID.String
		tx.TransferGroupID = &g
	}

	return tx, nil
}

func scanTransactions(rows *sql.Rows) ([]*Transaction, error) {
	txs := make([]*Transaction, 0)
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}
