// Package transfer provides the transfer-detection heuristic: a rule-based
// scorer that pairs opposite-direction transactions across a family's
// accounts to suggest "this expense and that income are really one transfer".
//
// Scoring accumulates points from four independent rules:
//   - Amount proximity (up to 40 points)
//   - Date proximity (up to 30 points)
//   - Different accounts (flat 15 points)
//   - BNPL provider pattern in the descriptions (flat 15 points)
//
// Example usage:
//
//	detector := transfer.NewDetector(repo, transfer.DefaultConfig())
//	suggestions, err := detector.FindPotentialMatches("tx-123", "fam-1")
//	for _, s := range suggestions {
//		// s.ConfidenceScore, s.Confidence, s.Reasons
//	}
package transfer

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/famledger/transfer-backend/internal/infrastructure/storage"
)

// bnplPattern matches buy-now-pay-later provider names and "pay in 3"
// phrasing with optional separators ("Pay in 3", "PayIn3", "pay-in-3").
var bnplPattern = regexp.MustCompile(`(?i)klarna|afterpay|affirm|satispay|pay[\s\-_]*in[\s\-_]*3`)

// CandidateSource is the read-only slice of the storage layer the
// detector consumes. storage.Repository satisfies it.
type CandidateSource interface {
	GetTransaction(id, familyID string) (*storage.Transaction, error)
	FindCandidates(filters storage.CandidateFilters) ([]*storage.Transaction, error)
	ListUnresolved(familyID string, limit int) ([]*storage.Transaction, error)
}

// Detector scores opposite-flow transaction pairs within a family scope.
// It is stateless apart from its config and injected data source, and
// performs no writes.
type Detector struct {
	source CandidateSource
	config Config
}

// NewDetector creates a new detector with the given data source and config
func NewDetector(source CandidateSource, config Config) *Detector {
	if config.WindowDays <= 0 {
		config.WindowDays = DefaultConfig().WindowDays
	}
	if config.SweepLimit <= 0 {
		config.SweepLimit = DefaultConfig().SweepLimit
	}
	return &Detector{
		source: source,
		config: config,
	}
}

// FindPotentialMatches returns ranked transfer suggestions for one
// transaction. An unknown transaction id yields an empty list, not an
// error; callers render that as "no suggestions".
func (d *Detector) FindPotentialMatches(transactionID, familyID string) ([]Suggestion, error) {
	source, err := d.source.GetTransaction(transactionID, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transaction %s: %w", transactionID, err)
	}
	if source == nil {
		return []Suggestion{}, nil
	}

	day := startOfDay(source.Date)
	filters := storage.CandidateFilters{
		FamilyID:  familyID,
		ExcludeID: source.ID,
		FlowType:  oppositeFlow(source.FlowType),
		DateFrom:  day.AddDate(0, 0, -d.config.WindowDays),
		DateTo:    day.AddDate(0, 0, d.config.WindowDays+1).Add(-time.Nanosecond),
	}

	candidates, err := d.source.FindCandidates(filters)
	if err != nil {
		return nil, fmt.Errorf("failed to load candidates for %s: %w", transactionID, err)
	}

	suggestions := make([]Suggestion, 0, len(candidates))
	for _, candidate := range candidates {
		s := scorePair(source, candidate)
		if s.ConfidenceScore < MinMatchScore {
			continue
		}
		suggestions = append(suggestions, s)
	}

	// Stable: score ties keep candidate fetch order
	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].ConfidenceScore > suggestions[j].ConfidenceScore
	})

	return suggestions, nil
}

// AllSuggestions sweeps the family's most recent unresolved transactions
// and returns actionable suggestions, deduplicated across symmetric pairs.
func (d *Detector) AllSuggestions(familyID string) ([]Suggestion, error) {
	recent, err := d.source.ListUnresolved(familyID, d.config.SweepLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list unresolved transactions: %w", err)
	}

	all := make([]Suggestion, 0)
	seen := make(map[string]bool)

	for _, tx := range recent {
		matches, err := d.FindPotentialMatches(tx.ID, familyID)
		if err != nil {
			return nil, err
		}

		for _, s := range matches {
			if s.ConfidenceScore < MinSweepScore {
				continue
			}
			// Matching is symmetric, so each pair is discovered once
			// from each side; first occurrence wins.
			key := pairKey(s.TransactionID, s.MatchedTransactionID)
			if seen[key] {
				continue
			}
			seen[key] = true
			all = append(all, s)
		}
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].ConfidenceScore > all[j].ConfidenceScore
	})

	return all, nil
}

// scorePair applies the four scoring rules to one source/candidate pair.
// Reasons are appended in fixed rule order: amount, date, accounts, BNPL.
func scorePair(source, candidate *storage.Transaction) Suggestion {
	score := 0
	reasons := make([]string, 0, 4)

	// Rule A: amount proximity (max 40). A zero source amount only
	// matches on exact equality; the ratio math would divide by zero.
	diff := math.Abs(source.Amount - candidate.Amount)
	switch {
	case diff == 0:
		score += 40
		reasons = append(reasons, ReasonExactAmount)
	case source.Amount > 0:
		ratio := diff / source.Amount
		if ratio <= 0.01 {
			score += 35
			reasons = append(reasons, ReasonAmountWithin1Pct)
		} else if ratio <= 0.05 {
			score += 25
			reasons = append(reasons, ReasonAmountWithin5Pct)
		}
	}

	// Rule B: date proximity (max 30). Candidates are pre-filtered to the
	// window, so exactly one tier fires.
	daysDiff := daysBetween(source.Date, candidate.Date)
	switch {
	case daysDiff == 0:
		score += 30
		reasons = append(reasons, ReasonSameDay)
	case daysDiff <= 1:
		score += 25
		reasons = append(reasons, ReasonWithin1Day)
	case daysDiff <= 2:
		score += 15
		reasons = append(reasons, ReasonWithin2Days)
	default:
		score += 5
		reasons = append(reasons, ReasonWithin3Days)
	}

	// Rule C: transfers usually cross accounts
	if source.AccountID != candidate.AccountID {
		score += 15
		reasons = append(reasons, ReasonDifferentAccounts)
	}

	// Rule D: BNPL installment pairs (Klarna charge + matching refund etc.)
	combined := source.Description + " " + candidate.Description
	if bnplPattern.MatchString(combined) {
		score += 15
		reasons = append(reasons, ReasonBNPLPattern)
	}

	return Suggestion{
		TransactionID:        source.ID,
		MatchedTransactionID: candidate.ID,
		ConfidenceScore:      score,
		Confidence:           classify(score),
		Reasons:              reasons,
		Amount:               source.Amount,
		MatchedAmount:        candidate.Amount,
		DaysDifference:       daysDiff,
	}
}

// oppositeFlow returns the flow type a transfer counterpart must have
func oppositeFlow(flowType string) string {
	if flowType == storage.FlowExpense {
		return storage.FlowIncome
	}
	return storage.FlowExpense
}

// startOfDay truncates a timestamp to its calendar day in UTC
func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// daysBetween returns the absolute calendar-day distance between two
// timestamps, rounded to the nearest whole day. True date subtraction,
// so month boundaries (Jan 31 -> Feb 2 = 2 days) come out right.
func daysBetween(a, b time.Time) int {
	hours := startOfDay(a).Sub(startOfDay(b)).Hours()
	return int(math.Round(math.Abs(hours) / 24))
}

// pairKey builds the canonical unordered-pair key used for sweep dedup
func pairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return strings.Join([]string{a, b}, ":")
}
