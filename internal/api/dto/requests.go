package dto

// CreateTransferRequest accepts a suggestion: both transactions get
// stamped with a freshly generated transfer group id.
type CreateTransferRequest struct {
	FamilyID             string `json:"family_id"`
	TransactionID        string `json:"transaction_id"`
	MatchedTransactionID string `json:"matched_transaction_id"`
}
