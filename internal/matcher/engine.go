package matcher

import (
	"fmt"
	"math"
	"sync"

	"bank-reconciliation-service/internal/models"
	"bank-reconciliation-service/pkg/logger"
)

// MatchResult pairs a ledger transaction with the bank transaction it was
// matched to, together with the confidence score, its classification, and
// the explained differences.
type MatchResult struct {
	LedgerTransaction models.Transaction `json:"ledger_transaction"`
	BankTransaction   models.Transaction `json:"bank_transaction"`
	MatchScore        int                `json:"match_score"`
	MatchType         MatchType          `json:"match_type"`
	Differences       []string           `json:"differences"`
}

// Result partitions the two input lists after a match run.
type Result struct {
	Matched         []MatchResult        `json:"matched_transactions"`
	UnmatchedLedger []models.Transaction `json:"unmatched_ledger"`
	UnmatchedBank   []models.Transaction `json:"unmatched_bank"`
}

// Summary aggregates counts over a match run.
type Summary struct {
	TotalLedger        int     `json:"total_ledger"`
	TotalBank          int     `json:"total_bank"`
	Matched            int     `json:"matched"`
	UnmatchedLedger    int     `json:"unmatched_ledger"`
	UnmatchedBank      int     `json:"unmatched_bank"`
	ReconciliationRate float64 `json:"reconciliation_rate"`
}

// Summarize computes aggregate counts and the reconciliation rate: matched
// pairs over the larger of the two list sizes, as a percentage rounded to
// two decimals.
func (r *Result) Summarize() Summary {
	totalLedger := len(r.Matched) + len(r.UnmatchedLedger)
	totalBank := len(r.Matched) + len(r.UnmatchedBank)

	rate := 0.0
	if larger := maxInt(totalLedger, totalBank); larger > 0 {
		rate = float64(len(r.Matched)) / float64(larger) * 100
		rate = math.Round(rate*100) / 100
	}

	return Summary{
		TotalLedger:        totalLedger,
		TotalBank:          totalBank,
		Matched:            len(r.Matched),
		UnmatchedLedger:    len(r.UnmatchedLedger),
		UnmatchedBank:      len(r.UnmatchedBank),
		ReconciliationRate: rate,
	}
}

// AssignmentStrategy decides which ledger/bank pairs become matches. The
// scorer and explainer are fixed; only the assignment policy varies.
type AssignmentStrategy interface {
	Assign(ledger, bank []models.Transaction, opts *Options) *Result
}

// Engine orchestrates a full match run over two normalized transaction
// lists. It owns no state between runs; each Match call is independent.
type Engine struct {
	strategy AssignmentStrategy
	log      logger.Logger
}

// NewEngine creates an engine with the given assignment strategy, falling
// back to the default greedy assigner when nil.
func NewEngine(strategy AssignmentStrategy) *Engine {
	if strategy == nil {
		strategy = &GreedyAssigner{}
	}
	return &Engine{
		strategy: strategy,
		log:      logger.WithComponent("matching_engine"),
	}
}

// Match runs the assignment strategy over the two lists. Options are
// validated first; nil options mean defaults.
func (e *Engine) Match(ledger, bank []models.Transaction, opts *Options) (*Result, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid matching options: %w", err)
	}

	e.log.WithFields(logger.Fields{
		"ledger_count": len(ledger),
		"bank_count":   len(bank),
		"options":      opts.String(),
	}).Debug("Starting match run")

	result := e.strategy.Assign(ledger, bank, opts)

	e.log.WithFields(logger.Fields{
		"matched":          len(result.Matched),
		"unmatched_ledger": len(result.UnmatchedLedger),
		"unmatched_bank":   len(result.UnmatchedBank),
	}).Info("Match run completed")

	return result, nil
}

// GreedyAssigner is the default assignment strategy: a single pass over
// ledger transactions in their given order, each committing its best
// not-yet-consumed bank candidate at or above MinimumMatchScore. Ties go to
// the earliest bank transaction, since later equal scores never displace
// the running best. A ledger transaction can therefore "steal" a bank
// transaction from a later ledger transaction that would have scored higher
// against it; this order dependence is a documented trade-off of the greedy
// approximation, not a defect.
type GreedyAssigner struct {
	// ScoreWorkers, when greater than 1, precomputes the full score matrix
	// with that many goroutines before the sequential assignment pass. The
	// assignment order semantics are identical to single-threaded scoring.
	ScoreWorkers int
}

// Assign implements AssignmentStrategy.
func (g *GreedyAssigner) Assign(ledger, bank []models.Transaction, opts *Options) *Result {
	result := &Result{
		Matched:         []MatchResult{},
		UnmatchedLedger: []models.Transaction{},
		UnmatchedBank:   []models.Transaction{},
	}

	var scores scoreLookup
	if g.ScoreWorkers > 1 {
		scores = precomputeScores(ledger, bank, opts, g.ScoreWorkers)
	} else {
		scores = func(i, j int) int { return Score(ledger[i], bank[j], opts) }
	}

	// Consumed bank indices are scoped to this run only.
	consumed := make(map[int]bool, len(bank))

	for i := range ledger {
		bestIndex := -1
		bestScore := 0

		for j := range bank {
			if consumed[j] {
				continue
			}
			if s := scores(i, j); s > bestScore {
				bestScore = s
				bestIndex = j
			}
		}

		if bestIndex >= 0 && bestScore >= MinimumMatchScore {
			consumed[bestIndex] = true
			result.Matched = append(result.Matched, MatchResult{
				LedgerTransaction: ledger[i],
				BankTransaction:   bank[bestIndex],
				MatchScore:        bestScore,
				MatchType:         ClassifyScore(bestScore),
				Differences:       Explain(ledger[i], bank[bestIndex]),
			})
		} else {
			result.UnmatchedLedger = append(result.UnmatchedLedger, ledger[i])
		}
	}

	for j := range bank {
		if !consumed[j] {
			result.UnmatchedBank = append(result.UnmatchedBank, bank[j])
		}
	}

	return result
}

// scoreLookup resolves the score for a (ledger index, bank index) pair.
type scoreLookup func(i, j int) int

// precomputeScores fills the full N x M score matrix in parallel. Scoring
// is pure, so rows can be computed independently; only the later assignment
// pass is order-dependent.
func precomputeScores(ledger, bank []models.Transaction, opts *Options, workers int) scoreLookup {
	matrix := make([][]int, len(ledger))

	rows := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range rows {
				row := make([]int, len(bank))
				for j := range bank {
					row[j] = Score(ledger[i], bank[j], opts)
				}
				matrix[i] = row
			}
		}()
	}

	for i := range ledger {
		rows <- i
	}
	close(rows)
	wg.Wait()

	return func(i, j int) int { return matrix[i][j] }
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
