// Package matcher implements the bank-reconciliation matching engine: a
// weighted multi-field scorer over normalized ledger and bank transactions,
// a difference explainer, and a greedy one-to-one assignment strategy.
//
// Scoring combines four field comparisons into a single 0-100 confidence
// value per (ledger, bank) pair:
//   - Date proximity with linear decay inside a day tolerance
//   - Optional time-of-day proximity inside a 60-minute window
//   - Amount equality inside an absolute tolerance, with a coarser
//     1%-relative fallback band at half credit
//   - Fuzzy description similarity (Levenshtein-based)
//
// Assignment is greedy and order-dependent: ledger transactions are
// processed in their given order and each irrevocably consumes its best
// unconsumed bank candidate scoring at or above the minimum floor. This is
// an approximation to optimal bipartite matching, kept deliberately for
// output compatibility; the AssignmentStrategy interface allows a globally
// optimal solver to be substituted without touching the scorer.
package matcher

import (
	"fmt"
)

// MinimumMatchScore is the hard confidence floor: a candidate pair below
// this score is never committed as a match, independent of
// DescriptionThreshold.
const MinimumMatchScore = 50

// MatchType classifies the confidence level of a committed match.
type MatchType string

const (
	MatchExact  MatchType = "exact"
	MatchHigh   MatchType = "high"
	MatchMedium MatchType = "medium"
	MatchLow    MatchType = "low"
	// MatchManual marks analyst-entered overrides; it is never produced by
	// the automated engine.
	MatchManual MatchType = "manual"
)

// String returns the string representation of MatchType.
func (mt MatchType) String() string {
	return string(mt)
}

// ClassifyScore maps a committed match score to its MatchType. Scores below
// MinimumMatchScore never reach classification because they are never
// committed.
func ClassifyScore(score int) MatchType {
	switch {
	case score >= 95:
		return MatchExact
	case score >= 80:
		return MatchHigh
	case score >= 70:
		return MatchMedium
	default:
		return MatchLow
	}
}

// Options holds the tolerances controlling the match scorer.
type Options struct {
	// DateToleranceDays is the day window inside which date proximity still
	// earns partial credit. Zero means only exact-day matches score.
	DateToleranceDays int `json:"date_tolerance_days"`

	// AmountTolerance is the absolute amount difference that still earns
	// full amount credit.
	AmountTolerance float64 `json:"amount_tolerance"`

	// DescriptionThreshold is accepted and stored but intentionally not
	// enforced as a cutoff anywhere in scoring or selection; only the fixed
	// MinimumMatchScore floor gates matches. It is kept because callers set
	// and read it through the public options surface.
	DescriptionThreshold float64 `json:"description_threshold"`

	// UseTime enables the time-of-day comparator and switches the weight
	// table accordingly.
	UseTime bool `json:"use_time"`
}

// DefaultOptions returns the default matching options.
func DefaultOptions() *Options {
	return &Options{
		DateToleranceDays:    1,
		AmountTolerance:      0.01,
		DescriptionThreshold: 0.7,
		UseTime:              false,
	}
}

// Validate checks that the options are within their allowed ranges.
func (o *Options) Validate() error {
	if o.DateToleranceDays < 0 {
		return fmt.Errorf("date tolerance days cannot be negative: %d", o.DateToleranceDays)
	}
	if o.AmountTolerance < 0 {
		return fmt.Errorf("amount tolerance cannot be negative: %f", o.AmountTolerance)
	}
	if o.DescriptionThreshold < 0 || o.DescriptionThreshold > 1 {
		return fmt.Errorf("description threshold must be between 0.0 and 1.0: %f", o.DescriptionThreshold)
	}
	return nil
}

// Clone creates a copy of the options.
func (o *Options) Clone() *Options {
	if o == nil {
		return nil
	}
	copied := *o
	return &copied
}

// String returns a human-readable description of the options.
func (o *Options) String() string {
	return fmt.Sprintf("Options{DateTolerance: %d days, AmountTolerance: %.2f, DescriptionThreshold: %.2f, UseTime: %t}",
		o.DateToleranceDays, o.AmountTolerance, o.DescriptionThreshold, o.UseTime)
}

// fieldWeights is the per-field weight table. Weights always sum to 100.
type fieldWeights struct {
	date        float64
	time        float64
	amount      float64
	description float64
}

// weights selects the weight table for the options. When time matching is
// disabled its weight is redistributed: +5 to date, +5 to amount.
func (o *Options) weights() fieldWeights {
	if o.UseTime {
		return fieldWeights{date: 30, time: 10, amount: 40, description: 20}
	}
	return fieldWeights{date: 35, time: 0, amount: 45, description: 20}
}
