package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/famledger/transfer-backend/internal/api/dto"
	"github.com/famledger/transfer-backend/internal/domain/transfer"
	"github.com/famledger/transfer-backend/internal/infrastructure/storage"
)

// SuggestionsHandler handles transfer-suggestion HTTP requests.
type SuggestionsHandler struct {
	*Base
	detector *transfer.Detector
}

// NewSuggestionsHandler creates a new suggestions handler.
func NewSuggestionsHandler(repo storage.Repository, detector *transfer.Detector) *SuggestionsHandler {
	return &SuggestionsHandler{
		Base:     NewBase(repo),
		detector: detector,
	}
}

// ForTransaction handles GET /api/transactions/{id}/suggestions - returns
// ranked transfer suggestions for one transaction. An unknown transaction
// id yields an empty list, not a 404.
func (h *SuggestionsHandler) ForTransaction(w http.ResponseWriter, r *http.Request) {
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

	suggestions, err := h.detector.FindPotentialMatches(transactionID, familyID)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	h.WriteJSON(w, http.StatusOK, toSuggestionListResponse(suggestions))
}

// ForFamily handles GET /api/suggestions - sweeps the family's recent
// unresolved transactions and returns deduplicated, actionable suggestions.
func (h *SuggestionsHandler) ForFamily(w http.ResponseWriter, r *http.Request) {
	familyID := r.URL.Query().Get("family_id")
	if familyID == "" {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("family_id is required"))
		return
	}

	suggestions, err := h.detector.AllSuggestions(familyID)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	h.WriteJSON(w, http.StatusOK, toSuggestionListResponse(suggestions))
}

// toSuggestionListResponse converts detector suggestions to an API response.
func toSuggestionListResponse(suggestions []transfer.Suggestion) dto.SuggestionListResponse {
	response := dto.SuggestionListResponse{
		Suggestions: make([]dto.SuggestionResponse, 0, len(suggestions)),
		Count:       len(suggestions),
	}

	for _, s := range suggestions {
		response.Suggestions = append(response.Suggestions, dto.SuggestionResponse{
			TransactionID:        s.TransactionID,
			MatchedTransactionID: s.MatchedTransactionID,
			ConfidenceScore:      s.ConfidenceScore,
			Confidence:           string(s.Confidence),
			Reasons:              s.Reasons,
			Amount:               s.Amount,
			MatchedAmount:        s.MatchedAmount,
			DaysDifference:       s.DaysDifference,
		})
	}

	return response
}
