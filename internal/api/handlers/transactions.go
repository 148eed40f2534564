package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/famledger/transfer-backend/internal/api/dto"
	"github.com/famledger/transfer-backend/internal/infrastructure/storage"
)

// TransactionsHandler handles transaction-related HTTP requests.
type TransactionsHandler struct {
	*Base
}

// NewTransactionsHandler creates a new transactions handler.
func NewTransactionsHandler(repo storage.Repository) *TransactionsHandler {
	return &TransactionsHandler{
		Base: NewBase(repo),
	}
}

// List handles GET /api/transactions - returns paginated list of transactions.
func (h *TransactionsHandler) List(w http.ResponseWriter, r *http.Request) {
	familyID := r.URL.Query().Get("family_id")
	if familyID == "" {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("family_id is required"))
		return
	}

	filters := storage.TransactionFilters{
		FamilyID:       familyID,
		AccountID:      r.URL.Query().Get("account_id"),
		FlowType:       r.URL.Query().Get("flow_type"),
		UnresolvedOnly: ParseBoolParam(r, "unresolved", false),
		Limit:          ParseIntParam(r, "limit", 50),
		Offset:         ParseIntParam(r, "offset", 0),
	}

	result, err := h.repo.ListTransactions(filters)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	response := dto.TransactionListResponse{
		Transactions: make([]dto.TransactionResponse, 0, len(result.Transactions)),
		TotalCount:   result.TotalCount,
		Limit:        result.Limit,
		Offset:       result.Offset,
	}

	for _, tx := range result.Transactions {
		response.Transactions = append(response.Transactions, toTransactionResponse(tx))
	}

	h.WriteJSON(w, http.StatusOK, response)
}

// Get handles GET /api/transactions/{id} - returns a single transaction.
func (h *TransactionsHandler) Get(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "id")
	if transactionID == "" {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("transaction ID is required"))
		return
	}

	familyID := r.URL.Query().Get("family_id")
	if familyID == "" {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("family_id is required"))
		return
	}

	tx, err := h.repo.GetTransaction(transactionID, familyID)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	if tx == nil {
		h.WriteError(w, http.StatusNotFound, dto.NotFoundError("transaction"))
		return
	}

	h.WriteJSON(w, http.StatusOK, toTransactionResponse(tx))
}
