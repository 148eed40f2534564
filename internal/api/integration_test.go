package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/famledger/transfer-backend/internal/api"
	"github.com/famledger/transfer-backend/internal/api/dto"
	"github.com/famledger/transfer-backend/internal/infrastructure/storage"
)

const testFamily = "fam-integration"

// createTestServer spins up the full stack on a temp SQLite database.
func createTestServer(t *testing.T) (*httptest.Server, *storage.Storage) {
	t.Helper()

	tmpFile, err := os.CreateTemp("", "transfer_api_*.db")
	require.NoError(t, err)
	require.NoError(t, tmpFile.Close())

	store, err := storage.NewStorage(tmpFile.Name())
	require.NoError(t, err)

	server := api.NewServer(api.DefaultConfig(), store, nil, nil)
	ts := httptest.NewServer(server.Router())

	t.Cleanup(func() {
		ts.Close()
		_ = store.Close()
		_ = os.Remove(tmpFile.Name())
	})

	return ts, store
}

func seedTransaction(t *testing.T, store *storage.Storage, id, accountID string, amount float64, date time.Time, flowType, description string) {
	t.Helper()
	require.NoError(t, store.SaveTransaction(&storage.Transaction{
		ID:          id,
		FamilyID:    testFamily,
		AccountID:   accountID,
		Amount:      amount,
		Date:        date,
		FlowType:    flowType,
		Description: description,
	}))
}

func getJSON(t *testing.T, url string, out interface{}) int {
	t.Helper()

	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if out != nil {
		require.NoError(t, json.Unmarshal(body, out))
	}
	return resp.StatusCode
}

func TestIntegration_HealthCheck(t *testing.T) {
	ts, _ := createTestServer(t)

	var health dto.HealthResponse
	status := getJSON(t, ts.URL+"/health", &health)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", health.Status)
}

func TestIntegration_SuggestionFlow(t *testing.T) {
	ts, store := createTestServer(t)

	base := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	seedTransaction(t, store, "tx-checking", "acc-checking", 500, base, storage.FlowExpense, "Transfer to savings")
	seedTransaction(t, store, "tx-savings", "acc-savings", 500, base, storage.FlowIncome, "Transfer from checking")
	seedTransaction(t, store, "tx-groceries", "acc-checking", 82.17, base, storage.FlowExpense, "Supermarket")

	var suggestions dto.SuggestionListResponse
	status := getJSON(t, fmt.Sprintf("%s/api/transactions/tx-checking/suggestions?family_id=%s", ts.URL, testFamily), &suggestions)
	require.Equal(t, http.StatusOK, status)

	require.Equal(t, 1, suggestions.Count)
	top := suggestions.Suggestions[0]
	assert.Equal(t, "tx-savings", top.MatchedTransactionID)
	assert.Equal(t, 85, top.ConfidenceScore)
	assert.Equal(t, "HIGH", top.Confidence)
	assert.Equal(t, []string{"Exact amount match", "Same day", "Different accounts"}, top.Reasons)
	assert.Equal(t, 0, top.DaysDifference)
}

func TestIntegration_FamilySweep(t *testing.T) {
	ts, store := createTestServer(t)

	base := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	seedTransaction(t, store, "tx-exp", "acc-A", 500, base, storage.FlowExpense, "")
	seedTransaction(t, store, "tx-inc", "acc-B", 500, base.AddDate(0, 0, 1), storage.FlowIncome, "")
	// A weak pairing that a single-transaction lookup would surface but the
	// sweep does not (scores 30, below the sweep threshold of 50)
	seedTransaction(t, store, "tx-weak-exp", "acc-C", 100, base.AddDate(0, 0, -20), storage.FlowExpense, "")
	seedTransaction(t, store, "tx-weak-inc", "acc-C", 104, base.AddDate(0, 0, -17), storage.FlowIncome, "")

	var suggestions dto.SuggestionListResponse
	status := getJSON(t, fmt.Sprintf("%s/api/suggestions?family_id=%s", ts.URL, testFamily), &suggestions)
	require.Equal(t, http.StatusOK, status)

	require.Equal(t, 1, suggestions.Count)
	assert.Equal(t, 80, suggestions.Suggestions[0].ConfidenceScore)
}

func TestIntegration_AcceptTransfer(t *testing.T) {
	ts, store := createTestServer(t)

	base := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	seedTransaction(t, store, "tx-exp", "acc-A", 500, base, storage.FlowExpense, "")
	seedTransaction(t, store, "tx-inc", "acc-B", 500, base, storage.FlowIncome, "")

	payload, err := json.Marshal(dto.CreateTransferRequest{
		FamilyID:             testFamily,
		TransactionID:        "tx-exp",
		MatchedTransactionID: "tx-inc",
	})
	require.NoError(t, err)

	resp, err := http.Post(ts.URL+"/api/transfers", "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var group dto.TransferGroupResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&group))
	assert.NotEmpty(t, group.TransferGroupID)
	assert.Len(t, group.Transactions, 2)

	// Accepted pair no longer shows up as a suggestion from either side
	var suggestions dto.SuggestionListResponse
	status := getJSON(t, fmt.Sprintf("%s/api/transactions/tx-exp/suggestions?family_id=%s", ts.URL, testFamily), &suggestions)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 0, suggestions.Count)

	status = getJSON(t, fmt.Sprintf("%s/api/suggestions?family_id=%s", ts.URL, testFamily), &suggestions)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 0, suggestions.Count)

	// Accepting again conflicts
	resp2, err := http.Post(ts.URL+"/api/transfers", "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusConflict, resp2.StatusCode)
}

func TestIntegration_ListTransactions(t *testing.T) {
	ts, store := createTestServer(t)

	base := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	seedTransaction(t, store, "tx-1", "acc-A", 10, base, storage.FlowExpense, "")
	seedTransaction(t, store, "tx-2", "acc-A", 20, base.AddDate(0, 0, 1), storage.FlowIncome, "")

	var list dto.TransactionListResponse
	status := getJSON(t, fmt.Sprintf("%s/api/transactions?family_id=%s", ts.URL, testFamily), &list)
	require.Equal(t, http.StatusOK, status)

	assert.Equal(t, 2, list.TotalCount)
	require.Len(t, list.Transactions, 2)
	assert.Equal(t, "tx-2", list.Transactions[0].ID)
}
