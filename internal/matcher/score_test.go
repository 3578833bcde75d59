package matcher

import (
	"testing"
	"time"

	"bank-reconciliation-service/internal/models"

	"github.com/shopspring/decimal"
)

// tx builds a test transaction on the given calendar day.
func tx(date string, amount string, description string) models.Transaction {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return models.Transaction{
		Date:        d,
		Amount:      decimal.RequireFromString(amount),
		Description: description,
	}
}

func txWithTime(date, clock, amount, description string) models.Transaction {
	t := tx(date, amount, description)
	t.Time = clock
	return t
}

func TestScoreIdenticalTransactions(t *testing.T) {
	ledger := tx("2024-01-15", "100.50", "Coffee Shop")
	bank := tx("2024-01-15", "100.50", "Coffee Shop")

	if got := Score(ledger, bank, nil); got != 100 {
		t.Errorf("Score of identical transactions = %d, expected 100", got)
	}

	withTimes := Score(
		txWithTime("2024-01-15", "14:30", "100.50", "Coffee Shop"),
		txWithTime("2024-01-15", "14:30", "100.50", "Coffee Shop"),
		&Options{DateToleranceDays: 1, AmountTolerance: 0.01, UseTime: true},
	)
	if withTimes != 100 {
		t.Errorf("Score with equal times = %d, expected 100", withTimes)
	}
}

func TestScoreAmountBands(t *testing.T) {
	opts := DefaultOptions()

	tests := []struct {
		name     string
		ledger   string
		bank     string
		expected int
	}{
		{
			name:     "within absolute tolerance gets full credit",
			ledger:   "100.00",
			bank:     "100.01",
			expected: 100, // 35 + 45 + 20
		},
		{
			name:     "inside relative band gets half credit",
			ledger:   "100.00",
			bank:     "100.50",
			expected: 78, // 35 + 22.5 + 20 = 77.5, rounded
		},
		{
			name:     "outside both bands gets nothing",
			ledger:   "100.00",
			bank:     "150.00",
			expected: 55, // 35 + 0 + 20
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := tx("2024-01-15", tt.ledger, "Coffee Shop")
			bank := tx("2024-01-15", tt.bank, "Coffee Shop")
			if got := Score(ledger, bank, opts); got != tt.expected {
				t.Errorf("Score = %d, expected %d", got, tt.expected)
			}
		})
	}
}

func TestScoreDateDecay(t *testing.T) {
	opts := &Options{DateToleranceDays: 2, AmountTolerance: 0.01}

	tests := []struct {
		name     string
		bankDate string
		expected int
	}{
		{"same day full credit", "2024-01-15", 100},
		{"one day inside window", "2024-01-16", 83}, // 17.5 + 45 + 20 = 82.5, rounded
		{"at window edge", "2024-01-17", 65},        // 0 + 45 + 20
		{"outside window", "2024-01-20", 65},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := tx("2024-01-15", "100.00", "Coffee Shop")
			bank := tx(tt.bankDate, "100.00", "Coffee Shop")
			if got := Score(ledger, bank, opts); got != tt.expected {
				t.Errorf("Score = %d, expected %d", got, tt.expected)
			}
		})
	}
}

func TestScoreDateDecayMonotonic(t *testing.T) {
	opts := &Options{DateToleranceDays: 5, AmountTolerance: 0.01}
	ledger := tx("2024-01-15", "100.00", "Coffee Shop")

	prev := 101
	for _, date := range []string{"2024-01-15", "2024-01-16", "2024-01-17", "2024-01-18", "2024-01-19", "2024-01-20"} {
		got := Score(ledger, tx(date, "100.00", "Coffee Shop"), opts)
		if got > prev {
			t.Errorf("score increased as dates moved apart: %d after %d at %s", got, prev, date)
		}
		prev = got
	}
}

func TestScoreZeroDateTolerance(t *testing.T) {
	opts := &Options{DateToleranceDays: 0, AmountTolerance: 0.01}

	sameDay := Score(tx("2024-01-15", "100.00", "x"), tx("2024-01-15", "100.00", "x"), opts)
	dayApart := Score(tx("2024-01-15", "100.00", "x"), tx("2024-01-16", "100.00", "x"), opts)

	if sameDay != 100 {
		t.Errorf("same-day score = %d, expected 100", sameDay)
	}
	if dayApart != 65 {
		t.Errorf("day-apart score with zero tolerance = %d, expected 65", dayApart)
	}
}

func TestScoreTime(t *testing.T) {
	opts := &Options{DateToleranceDays: 1, AmountTolerance: 0.01, UseTime: true}

	tests := []struct {
		name     string
		ledger   string
		bank     string
		expected int
	}{
		{"equal times full credit", "14:30", "14:30", 100},
		{"thirty minutes apart", "14:00", "14:30", 95}, // 30 + 5 + 40 + 20
		{"beyond the hour window", "09:00", "14:00", 90},
		{"missing on one side contributes nothing", "", "14:30", 90},
		{"missing on both sides contributes nothing", "", "", 90},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := txWithTime("2024-01-15", tt.ledger, "100.00", "Coffee Shop")
			bank := txWithTime("2024-01-15", tt.bank, "100.00", "Coffee Shop")
			if got := Score(ledger, bank, opts); got != tt.expected {
				t.Errorf("Score = %d, expected %d", got, tt.expected)
			}
		})
	}
}

func TestScoreGibberishDescription(t *testing.T) {
	// Date and amount agree; descriptions share nothing.
	ledger := tx("2024-01-15", "100.00", "aaaaaaaa")
	bank := tx("2024-01-15", "100.00", "zzzzzzzz")

	got := Score(ledger, bank, nil)
	if got != 80 {
		t.Errorf("Score = %d, expected 80", got)
	}
	if ClassifyScore(got) != MatchHigh {
		t.Errorf("classification = %s, expected %s", ClassifyScore(got), MatchHigh)
	}
}

func TestScoreBounds(t *testing.T) {
	pairs := []struct {
		ledger models.Transaction
		bank   models.Transaction
	}{
		{tx("2024-01-15", "100.00", "Coffee"), tx("2020-06-01", "-500.00", "zzz")},
		{models.Transaction{}, models.Transaction{}},
		{tx("2024-01-15", "0.00", ""), tx("2024-01-15", "0.00", "")},
	}

	for _, p := range pairs {
		got := Score(p.ledger, p.bank, nil)
		if got < 0 || got > 100 {
			t.Errorf("Score(%s, %s) = %d, out of [0, 100]", p.ledger, p.bank, got)
		}
	}
}

func TestScoreSymmetryWithEqualAmounts(t *testing.T) {
	// With equal amounts the relative band never fires asymmetrically, so
	// swapping the sides must not change the score.
	a := tx("2024-01-15", "100.00", "Coffee Shop")
	b := tx("2024-01-16", "100.00", "Coffee Shop NYC")

	if ab, ba := Score(a, b, nil), Score(b, a, nil); ab != ba {
		t.Errorf("Score not symmetric: %d vs %d", ab, ba)
	}
}
