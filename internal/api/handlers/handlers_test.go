package handlers_test

import (
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/famledger/transfer-backend/internal/api/handlers"
	"github.com/famledger/transfer-backend/internal/domain/transfer"
	"github.com/famledger/transfer-backend/internal/infrastructure/storage"
)

const testFamily = "fam-1"

// newTestRouter wires the handlers onto the same routes the server uses.
func newTestRouter(repo storage.Repository) chi.Router {
	detector := transfer.NewDetector(repo, transfer.DefaultConfig())

	transactionsHandler := handlers.NewTransactionsHandler(repo)
	suggestionsHandler := handlers.NewSuggestionsHandler(repo, detector)
	transfersHandler := handlers.NewTransfersHandler(repo)

	r := chi.NewRouter()
	r.Get("/health", handlers.NewHealthHandler().ServeHTTP)
	r.Route("/api", func(r chi.Router) {
		r.Get("/transactions", transactionsHandler.List)
		r.Get("/transactions/{id}", transactionsHandler.Get)
		r.Get("/transactions/{id}/suggestions", suggestionsHandler.ForTransaction)
		r.Get("/suggestions", suggestionsHandler.ForFamily)
		r.Post("/transfers", transfersHandler.Create)
	})
	return r
}

func makeTx(id, accountID string, amount float64, date time.Time, flowType string) *storage.Transaction {
	return &storage.Transaction{
		ID:        id,
		FamilyID:  testFamily,
		AccountID: accountID,
		Amount:    amount,
		Date:      date,
		FlowType:  flowType,
		CreatedAt: date,
	}
}
