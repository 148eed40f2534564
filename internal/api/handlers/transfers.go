package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/famledger/transfer-backend/internal/api/dto"
	"github.com/famledger/transfer-backend/internal/infrastructure/storage"
)

// TransfersHandler handles acceptance of transfer suggestions: stamping a
// shared transfer group id onto both members removes them from future
// matching.
type TransfersHandler struct {
	*Base
}

// NewTransfersHandler creates a new transfers handler.
func NewTransfersHandler(repo storage.Repository) *TransfersHandler {
	return &TransfersHandler{
		Base: NewBase(repo),
	}
}

// Create handles POST /api/transfers - links two transactions into a
// transfer group.
func (h *TransfersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("invalid request body"))
		return
	}

	if req.FamilyID == "" || req.TransactionID == "" || req.MatchedTransactionID == "" {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("family_id, transaction_id and matched_transaction_id are required"))
		return
	}
	if req.TransactionID == req.MatchedTransactionID {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("a transaction cannot be transferred to itself"))
		return
	}

	source, err := h.repo.GetTransaction(req.TransactionID, req.FamilyID)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}
	matched, err := h.repo.GetTransaction(req.MatchedTransactionID, req.FamilyID)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}
	if source == nil || matched == nil {
		h.WriteError(w, http.StatusNotFound, dto.NotFoundError("transaction"))
		return
	}

	if source.FlowType == matched.FlowType {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("transfer members must have opposite flow types"))
		return
	}

	groupID := uuid.NewString()
	err = h.repo.AssignTransferGroup(req.FamilyID, groupID, req.TransactionID, req.MatchedTransactionID)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrTransactionNotFound):
			h.WriteError(w, http.StatusNotFound, dto.NotFoundError("transaction"))
		case errors.Is(err, storage.ErrAlreadyResolved):
			h.WriteError(w, http.StatusConflict, dto.ConflictError("transaction already belongs to a transfer group"))
		default:
			h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		}
		return
	}

	members, err := h.repo.GetTransferGroup(req.FamilyID, groupID)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	response := dto.TransferGroupResponse{
		TransferGroupID: groupID,
		Transactions:    make([]dto.TransactionResponse, 0, len(members)),
	}
	for _, tx := range members {
		response.Transactions = append(response.Transactions, toTransactionResponse(tx))
	}

	h.WriteJSON(w, http.StatusCreated, response)
}
