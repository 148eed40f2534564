package storage

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTempDB(t *testing.T) string {
	t.Helper()

	tmpFile, err := os.CreateTemp("", "transfer_storage_*.db")
	require.NoError(t, err)
	require.NoError(t, tmpFile.Close())

	return tmpFile.Name()
}

func openTestStorage(t *testing.T) (*Storage, func()) {
	t.Helper()

	tmpDB := createTempDB(t)
	store, err := NewStorage(tmpDB)
	require.NoError(t, err)

	cleanup := func() {
		_ = store.Close()
		_ = os.Remove(tmpDB)
	}
	return store, cleanup
}

func testTransaction(id, familyID, accountID string, amount float64, date time.Time, flowType string) *Transaction {
	return &Transaction{
		ID:        id,
		FamilyID:  familyID,
		AccountID: accountID,
		Amount:    amount,
		Date:      date,
		FlowType:  flowType,
	}
}

func TestStorage_SaveAndGetTransaction(t *testing.T) {
	store, cleanup := openTestStorage(t)
	defer cleanup()

	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	tx := testTransaction("tx-1", "fam-1", "acc-A", 100.50, date, FlowExpense)
	tx.Description = "Transfer to savings"

	require.NoError(t, store.SaveTransaction(tx))

	retrieved, err := store.GetTransaction("tx-1", "fam-1")
	require.NoError(t, err)
	require.NotNil(t, retrieved)

	assert.Equal(t, "tx-1", retrieved.ID)
	assert.Equal(t, "fam-1", retrieved.FamilyID)
	assert.Equal(t, "acc-A", retrieved.AccountID)
	assert.Equal(t, 100.50, retrieved.Amount)
	assert.True(t, retrieved.Date.Equal(date))
	assert.Equal(t, FlowExpense, retrieved.FlowType)
	assert.Equal(t, "Transfer to savings", retrieved.Description)
	assert.Nil(t, retrieved.TransferGroupID)
	assert.False(t, retrieved.CreatedAt.IsZero())
}

func TestStorage_GetTransaction_NotFound(t *testing.T) {
	store, cleanup := openTestStorage(t)
	defer cleanup()

	retrieved, err := store.GetTransaction("no-such-tx", "fam-1")
	require.NoError(t, err)
	assert.Nil(t, retrieved)
}

func TestStorage_GetTransaction_WrongFamily(t *testing.T) {
	store, cleanup := openTestStorage(t)
	defer cleanup()

	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.SaveTransaction(testTransaction("tx-1", "fam-1", "acc-A", 100, date, FlowExpense)))

	retrieved, err := store.GetTransaction("tx-1", "fam-other")
	require.NoError(t, err)
	assert.Nil(t, retrieved)
}

func TestStorage_FindCandidates(t *testing.T) {
	store, cleanup := openTestStorage(t)
	defer cleanup()

	base := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.SaveTransaction(testTransaction("tx-source", "fam-1", "acc-A", 100, base, FlowExpense)))
	require.NoError(t, store.SaveTransaction(testTransaction("tx-in-window", "fam-1", "acc-B", 100, base.AddDate(0, 0, 1), FlowIncome)))
	require.NoError(t, store.SaveTransaction(testTransaction("tx-edge", "fam-1", "acc-B", 100, base.AddDate(0, 0, 3), FlowIncome)))
	require.NoError(t, store.SaveTransaction(testTransaction("tx-outside", "fam-1", "acc-B", 100, base.AddDate(0, 0, 5), FlowIncome)))
	require.NoError(t, store.SaveTransaction(testTransaction("tx-same-flow", "fam-1", "acc-B", 100, base, FlowExpense)))
	require.NoError(t, store.SaveTransaction(testTransaction("tx-other-family", "fam-2", "acc-X", 100, base, FlowIncome)))

	resolved := testTransaction("tx-resolved", "fam-1", "acc-B", 100, base, FlowIncome)
	group := "grp-1"
	resolved.TransferGroupID = &group
	require.NoError(t, store.SaveTransaction(resolved))

	candidates, err := store.FindCandidates(CandidateFilters{
		FamilyID:  "fam-1",
		ExcludeID: "tx-source",
		FlowType:  FlowIncome,
		DateFrom:  base.AddDate(0, 0, -3),
		DateTo:    base.AddDate(0, 0, 3),
	})
	require.NoError(t, err)

	ids := make([]string, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.ID)
	}
	// Date ascending: in-window (+1) before edge (+3)
	assert.Equal(t, []string{"tx-in-window", "tx-edge"}, ids)
}

func TestStorage_ListUnresolved(t *testing.T) {
	store, cleanup := openTestStorage(t)
	defer cleanup()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	// tx-0 is the oldest
	for i := 0; i < 5; i++ {
		tx := testTransaction(fmt.Sprintf("tx-%d", i), "fam-1", "acc-A", float64(10*i), base.AddDate(0, 0, i), FlowExpense)
		require.NoError(t, store.SaveTransaction(tx))
	}

	resolved := testTransaction("tx-resolved", "fam-1", "acc-A", 99, base.AddDate(0, 0, 10), FlowIncome)
	group := "grp-1"
	resolved.TransferGroupID = &group
	require.NoError(t, store.SaveTransaction(resolved))

	txs, err := store.ListUnresolved("fam-1", 3)
	require.NoError(t, err)
	require.Len(t, txs, 3)

	// Most recent first, resolved rows excluded
	assert.Equal(t, "tx-4", txs[0].ID)
	assert.Equal(t, "tx-3", txs[1].ID)
	assert.Equal(t, "tx-2", txs[2].ID)
}

func TestStorage_ListTransactions(t *testing.T) {
	store, cleanup := openTestStorage(t)
	defer cleanup()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.SaveTransaction(testTransaction("tx-1", "fam-1", "acc-A", 10, base, FlowExpense)))
	require.NoError(t, store.SaveTransaction(testTransaction("tx-2", "fam-1", "acc-A", 20, base.AddDate(0, 0, 1), FlowIncome)))
	require.NoError(t, store.SaveTransaction(testTransaction("tx-3", "fam-1", "acc-B", 30, base.AddDate(0, 0, 2), FlowExpense)))

	t.Run("filters by flow type", func(t *testing.T) {
		result, err := store.ListTransactions(TransactionFilters{FamilyID: "fam-1", FlowType: FlowExpense})
		require.NoError(t, err)
		assert.Equal(t, 2, result.TotalCount)
		require.Len(t, result.Transactions, 2)
		assert.Equal(t, "tx-3", result.Transactions[0].ID) // date desc
	})

	t.Run("filters by account", func(t *testing.T) {
		result, err := store.ListTransactions(TransactionFilters{FamilyID: "fam-1", AccountID: "acc-B"})
		require.NoError(t, err)
		assert.Equal(t, 1, result.TotalCount)
	})

	t.Run("paginates", func(t *testing.T) {
		result, err := store.ListTransactions(TransactionFilters{FamilyID: "fam-1", Limit: 2, Offset: 2})
		require.NoError(t, err)
		assert.Equal(t, 3, result.TotalCount)
		require.Len(t, result.Transactions, 1)
		assert.Equal(t, "tx-1", result.Transactions[0].ID)
	})

	t.Run("unknown family yields empty result", func(t *testing.T) {
		result, err := store.ListTransactions(TransactionFilters{FamilyID: "fam-none"})
		require.NoError(t, err)
		assert.Equal(t, 0, result.TotalCount)
		assert.Empty(t, result.Transactions)
	})
}

func TestStorage_AssignTransferGroup(t *testing.T) {
	base := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	t.Run("stamps both members", func(t *testing.T) {
		store, cleanup := openTestStorage(t)
		defer cleanup()

		require.NoError(t, store.SaveTransaction(testTransaction("tx-exp", "fam-1", "acc-A", 100, base, FlowExpense)))
		require.NoError(t, store.SaveTransaction(testTransaction("tx-inc", "fam-1", "acc-B", 100, base, FlowIncome)))

		require.NoError(t, store.AssignTransferGroup("fam-1", "grp-1", "tx-exp", "tx-inc"))

		members, err := store.GetTransferGroup("fam-1", "grp-1")
		require.NoError(t, err)
		require.Len(t, members, 2)
		for _, m := range members {
			require.NotNil(t, m.TransferGroupID)
			assert.Equal(t, "grp-1", *m.TransferGroupID)
		}
	})

	t.Run("fails on unknown member without partial writes", func(t *testing.T) {
		store, cleanup := openTestStorage(t)
		defer cleanup()

		require.NoError(t, store.SaveTransaction(testTransaction("tx-exp", "fam-1", "acc-A", 100, base, FlowExpense)))

		err := store.AssignTransferGroup("fam-1", "grp-1", "tx-exp", "tx-missing")
		require.ErrorIs(t, err, ErrTransactionNotFound)

		// First member must not have been stamped
		tx, err := store.GetTransaction("tx-exp", "fam-1")
		require.NoError(t, err)
		assert.Nil(t, tx.TransferGroupID)
	})

	t.Run("fails when a member is already resolved", func(t *testing.T) {
		store, cleanup := openTestStorage(t)
		defer cleanup()

		require.NoError(t, store.SaveTransaction(testTransaction("tx-exp", "fam-1", "acc-A", 100, base, FlowExpense)))

		resolved := testTransaction("tx-inc", "fam-1", "acc-B", 100, base, FlowIncome)
		group := "grp-existing"
		resolved.TransferGroupID = &group
		require.NoError(t, store.SaveTransaction(resolved))

		err := store.AssignTransferGroup("fam-1", "grp-new", "tx-exp", "tx-inc")
		require.ErrorIs(t, err, ErrAlreadyResolved)

		tx, err := store.GetTransaction("tx-exp", "fam-1")
		require.NoError(t, err)
		assert.Nil(t, tx.TransferGroupID)
	})
}

func TestStorage_CountUnresolved(t *testing.T) {
	store, cleanup := openTestStorage(t)
	defer cleanup()

	base := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.SaveTransaction(testTransaction("tx-1", "fam-1", "acc-A", 10, base, FlowExpense)))
	require.NoError(t, store.SaveTransaction(testTransaction("tx-2", "fam-1", "acc-B", 10, base, FlowIncome)))

	count, err := store.CountUnresolved("fam-1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, store.AssignTransferGroup("fam-1", "grp-1", "tx-1", "tx-2"))

	count, err = store.CountUnresolved("fam-1")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
