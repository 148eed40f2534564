package transfer

// Confidence is the coarse display bucket derived from the numeric score.
type Confidence string

// Confidence tiers
const (
	ConfidenceHigh   Confidence = "HIGH"   // score >= 80
	ConfidenceMedium Confidence = "MEDIUM" // 50 <= score < 80
	ConfidenceLow    Confidence = "LOW"    // 30 <= score < 50
)

// Scoring thresholds. MinMatchScore gates the per-transaction path;
// MinSweepScore is the stricter bar for the family-wide sweep, which
// should only surface actionable suggestions.
const (
	MinMatchScore = 30
	MinSweepScore = 50
)

// Reason strings, one per scoring rule. Surfaced verbatim in the API
// so the UI can explain why a pair was suggested.
const (
	ReasonExactAmount       = "Exact amount match"
	ReasonAmountWithin1Pct  = "Amount within 1%"
	ReasonAmountWithin5Pct  = "Amount within 5%"
	ReasonSameDay           = "Same day"
	ReasonWithin1Day        = "Within 1 day"
	ReasonWithin2Days       = "Within 2 days"
	ReasonWithin3Days       = "Within 3 days"
	ReasonDifferentAccounts = "Different accounts"
	ReasonBNPLPattern       = "BNPL pattern detected"
)

// Config holds detector configuration
type Config struct {
	// WindowDays is the half-width of the symmetric candidate date
	// window: candidates within [date-WindowDays, date+WindowDays].
	WindowDays int
	// SweepLimit caps how many unresolved transactions AllSuggestions
	// examines. Performance bound, not a correctness requirement.
	SweepLimit int
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		WindowDays: 3,
		SweepLimit: 100,
	}
}

// Suggestion pairs a transaction with an opposite-flow counterpart that
// looks like the other half of an internal transfer. Suggestions are
// ephemeral: computed on demand, never persisted by the detector.
type Suggestion struct {
	TransactionID        string     `json:"transaction_id"`
	MatchedTransactionID string     `json:"matched_transaction_id"`
	ConfidenceScore      int        `json:"confidence_score"`
	Confidence           Confidence `json:"confidence"`
	Reasons              []string   `json:"reasons"`
	Amount               float64    `json:"amount"`
	MatchedAmount        float64    `json:"matched_amount"`
	DaysDifference       int        `json:"days_difference"`
}

// classify maps a numeric score onto its confidence tier
func classify(score int) Confidence {
	switch {
	case score >= 80:
		return ConfidenceHigh
	case score >= 50:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}
