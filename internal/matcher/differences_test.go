package matcher

import (
	"reflect"
	"testing"
)

func TestExplain(t *testing.T) {
	tests := []struct {
		name     string
		ledger   string
		bank     string
		lAmount  string
		bAmount  string
		lDesc    string
		bDesc    string
		expected []string
	}{
		{
			name:     "identical pair has no differences",
			ledger:   "2024-01-15",
			bank:     "2024-01-15",
			lAmount:  "100.50",
			bAmount:  "100.50",
			lDesc:    "Coffee Shop",
			bDesc:    "Coffee Shop",
			expected: []string{},
		},
		{
			name:     "amount mismatch",
			ledger:   "2024-01-15",
			bank:     "2024-01-15",
			lAmount:  "100.00",
			bAmount:  "100.50",
			lDesc:    "Coffee Shop",
			bDesc:    "Coffee Shop",
			expected: []string{"Amount mismatch: ledger 100.00 vs bank 100.50"},
		},
		{
			name:     "amount difference within epsilon ignored",
			ledger:   "2024-01-15",
			bank:     "2024-01-15",
			lAmount:  "100.00",
			bAmount:  "100.01",
			lDesc:    "Coffee Shop",
			bDesc:    "Coffee Shop",
			expected: []string{},
		},
		{
			name:     "date mismatch",
			ledger:   "2024-01-15",
			bank:     "2024-01-16",
			lAmount:  "100.00",
			bAmount:  "100.00",
			lDesc:    "Coffee Shop",
			bDesc:    "Coffee Shop",
			expected: []string{"Date mismatch: ledger 2024-01-15 vs bank 2024-01-16"},
		},
		{
			name:     "description case difference is not a mismatch",
			ledger:   "2024-01-15",
			bank:     "2024-01-15",
			lAmount:  "100.00",
			bAmount:  "100.00",
			lDesc:    "COFFEE SHOP",
			bDesc:    "coffee shop",
			expected: []string{},
		},
		{
			name:     "description differs",
			ledger:   "2024-01-15",
			bank:     "2024-01-15",
			lAmount:  "100.00",
			bAmount:  "100.00",
			lDesc:    "Coffee Shop",
			bDesc:    "Wire Transfer",
			expected: []string{"Description differs"},
		},
		{
			name:    "all three, ordered amount then date then description",
			ledger:  "2024-01-15",
			bank:    "2024-01-16",
			lAmount: "100.00",
			bAmount: "250.00",
			lDesc:   "Coffee Shop",
			bDesc:   "Wire Transfer",
			expected: []string{
				"Amount mismatch: ledger 100.00 vs bank 250.00",
				"Date mismatch: ledger 2024-01-15 vs bank 2024-01-16",
				"Description differs",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := tx(tt.ledger, tt.lAmount, tt.lDesc)
			bank := tx(tt.bank, tt.bAmount, tt.bDesc)

			got := Explain(ledger, bank)
			if got == nil {
				t.Fatal("Explain returned nil, expected a slice")
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Explain = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestExplainIdempotent(t *testing.T) {
	ledger := tx("2024-01-15", "100.00", "Coffee Shop")
	bank := tx("2024-01-16", "250.00", "Wire Transfer")

	first := Explain(ledger, bank)
	second := Explain(ledger, bank)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated Explain calls differ: %v vs %v", first, second)
	}
}
