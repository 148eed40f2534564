package dto

import "time"

// HealthResponse is returned by the health check endpoint.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// TransactionResponse represents a transaction in API responses.
type TransactionResponse struct {
	ID              string  `json:"id"`
	FamilyID        string  `json:"family_id"`
	AccountID       string  `json:"account_id"`
	Amount          float64 `json:"amount"`
	Date            string  `json:"date"`
	FlowType        string  `json:"flow_type"`
	Description     string  `json:"description,omitempty"`
	TransferGroupID string  `json:"transfer_group_id,omitempty"`
	CreatedAt       string  `json:"created_at"`
}

// TransactionListResponse is returned when listing transactions.
type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	TotalCount   int                   `json:"total_count"`
	Limit        int                   `json:"limit"`
	Offset       int                   `json:"offset"`
}

// SuggestionResponse represents one transfer suggestion.
type SuggestionResponse struct {
	TransactionID        string   `json:"transaction_id"`
	MatchedTransactionID string   `json:"matched_transaction_id"`
	ConfidenceScore      int      `json:"confidence_score"`
	Confidence           string   `json:"confidence"`
	Reasons              []string `json:"reasons"`
	Amount               float64  `json:"amount"`
	MatchedAmount        float64  `json:"matched_amount"`
	DaysDifference       int      `json:"days_difference"`
}

// SuggestionListResponse is returned by both suggestion endpoints.
type SuggestionListResponse struct {
	Suggestions []SuggestionResponse `json:"suggestions"`
	Count       int                  `json:"count"`
}

// TransferGroupResponse is returned after accepting a suggestion.
type TransferGroupResponse struct {
	TransferGroupID string                `json:"transfer_group_id"`
	Transactions    []TransactionResponse `json:"transactions"`
}

// NewHealthResponse creates a health response with current timestamp.
func NewHealthResponse() HealthResponse {
	return HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}
