// Seeds a demo family's transactions into the SQLite database so the
// suggestion endpoints return data out of the box:
//
//	go run ./cmd/seed -family fam-demo
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/famledger/transfer-backend/internal/infrastructure/config"
	"github.com/famledger/transfer-backend/internal/infrastructure/logging"
	"github.com/famledger/transfer-backend/internal/infrastructure/storage"
)

type seedEntry struct {
	accountID   string
	amount      float64
	daysAgo     int
	flowType    string
	description string
}

// A mix of transfer-looking pairs, a BNPL installment and ordinary
// spending noise.
var seedEntries = []seedEntry{
	{"acc-checking", 500.00, 2, storage.FlowExpense, "Transfer to savings"},
	{"acc-savings", 500.00, 2, storage.FlowIncome, "Incoming transfer"},
	{"acc-checking", 120.00, 5, storage.FlowExpense, "Klarna pay in 3 - 1/3"},
	{"acc-credit", 120.00, 4, storage.FlowIncome, "KLARNA payment received"},
	{"acc-checking", 42.37, 1, storage.FlowExpense, "Grocery store"},
	{"acc-checking", 1500.00, 3, storage.FlowIncome, "Salary"},
	{"acc-savings", 75.00, 6, storage.FlowExpense, "Utility bill"},
	{"acc-credit", 310.55, 2, storage.FlowExpense, "Flight booking"},
}

func main() {
	familyID := flag.String("family", "fam-demo", "Family scope to seed")
	flag.Parse()

	cfg := config.LoadOrEnv()
	logger := logging.NewLoggerWithSystem(cfg.Observability.Logging, "seed")

	store, err := storage.NewStorage(cfg.Storage.DatabasePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = store.Close() }()

	now := time.Now().UTC().Truncate(24 * time.Hour)

	for _, entry := range seedEntries {
		tx := &storage.Transaction{
			ID:          uuid.NewString(),
			FamilyID:    *familyID,
			AccountID:   entry.accountID,
			Amount:      entry.amount,
			Date:        now.AddDate(0, 0, -entry.daysAgo),
			FlowType:    entry.flowType,
			Description: entry.description,
		}

		if err := store.SaveTransaction(tx); err != nil {
			logger.Error("failed to save transaction", "description", entry.description, "error", err)
			os.Exit(1)
		}
	}

	count, err := store.CountUnresolved(*familyID)
	if err != nil {
		logger.Error("failed to count transactions", "error", err)
		os.Exit(1)
	}

	logger.Info("seed complete", "family", *familyID, "seeded", len(seedEntries), "unresolved", count)
}
