package matcher

import (
	"math"
	"strconv"
	"strings"

	"bank-reconciliation-service/internal/models"
	"bank-reconciliation-service/internal/similarity"

	"github.com/shopspring/decimal"
)

// Score computes the 0-100 confidence that a ledger and a bank transaction
// represent the same real-world transaction. The four field contributions
// are weight-scaled per the options' weight table and their sum is rounded
// to the nearest integer. Scoring is total: it never fails, whatever the
// inputs look like.
func Score(ledger, bank models.Transaction, opts *Options) int {
	if opts == nil {
		opts = DefaultOptions()
	}

	w := opts.weights()

	total := dateScore(ledger, bank, opts.DateToleranceDays, w.date) +
		amountScore(ledger, bank, opts.AmountTolerance, w.amount) +
		descriptionScore(ledger, bank, w.description)

	if opts.UseTime {
		total += timeScore(ledger, bank, w.time)
	}

	score := int(math.Round(total))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// dateScore awards full weight on an exact-day match and decays linearly to
// zero across the tolerance window.
func dateScore(ledger, bank models.Transaction, toleranceDays int, weight float64) float64 {
	d := ledger.DayDifference(bank)
	if d == 0 {
		return weight
	}
	if toleranceDays > 0 && d <= toleranceDays {
		return weight * (1 - float64(d)/float64(toleranceDays))
	}
	return 0
}

// timeScore compares clock times inside a 60-minute window. An absent time
// string on either side contributes nothing.
func timeScore(ledger, bank models.Transaction, weight float64) float64 {
	if ledger.Time == "" || bank.Time == "" {
		return 0
	}

	d := clockMinutes(ledger.Time) - clockMinutes(bank.Time)
	if d < 0 {
		d = -d
	}
	if d <= 60 {
		return weight * (1 - float64(d)/60)
	}
	return 0
}

// clockMinutes parses an "HH:MM" string into minutes since midnight. A
// missing minute part counts as 0, as do non-numeric components.
func clockMinutes(s string) int {
	parts := strings.SplitN(s, ":", 2)

	hours, _ := strconv.Atoi(strings.TrimSpace(parts[0]))
	minutes := 0
	if len(parts) > 1 {
		minutes, _ = strconv.Atoi(strings.TrimSpace(parts[1]))
	}
	return hours*60 + minutes
}

// amountScore awards full weight when the absolute difference is within
// tolerance, and half weight inside a coarser 1%-relative band of the
// ledger amount.
func amountScore(ledger, bank models.Transaction, tolerance float64, weight float64) float64 {
	diff := ledger.Amount.Sub(bank.Amount).Abs()
	if diff.LessThanOrEqual(decimal.NewFromFloat(tolerance)) {
		return weight
	}
	if ledger.Amount.IsPositive() {
		if ratio := diff.Div(ledger.Amount).InexactFloat64(); ratio < 0.01 {
			return weight * 0.5
		}
	}
	return 0
}

// descriptionScore scales the fuzzy description similarity by the field
// weight. DescriptionThreshold is deliberately not consulted here.
func descriptionScore(ledger, bank models.Transaction, weight float64) float64 {
	return weight * similarity.Score(ledger.Description, bank.Description)
}
