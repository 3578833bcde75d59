package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestDayDifference(t *testing.T) {
	tests := []struct {
		name     string
		a        time.Time
		b        time.Time
		expected int
	}{
		{
			name:     "same day",
			a:        time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC),
			b:        time.Date(2024, 1, 15, 23, 59, 0, 0, time.UTC),
			expected: 0,
		},
		{
			name:     "one day apart",
			a:        time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			b:        time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC),
			expected: 1,
		},
		{
			name:     "order independent",
			a:        time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC),
			b:        time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			expected: 5,
		},
		{
			name:     "clock times below a full day still count as day apart",
			a:        time.Date(2024, 1, 15, 23, 0, 0, 0, time.UTC),
			b:        time.Date(2024, 1, 16, 1, 0, 0, 0, time.UTC),
			expected: 1,
		},
		{
			name:     "across month boundary",
			a:        time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
			b:        time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC),
			expected: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Transaction{Date: tt.a}
			b := Transaction{Date: tt.b}
			if got := a.DayDifference(b); got != tt.expected {
				t.Errorf("DayDifference = %d, expected %d", got, tt.expected)
			}
		})
	}
}

func TestFormattedDate(t *testing.T) {
	tx := Transaction{Date: time.Date(2024, 3, 7, 16, 45, 0, 0, time.UTC)}
	if got := tx.FormattedDate(); got != "2024-03-07" {
		t.Errorf("FormattedDate = %q, expected %q", got, "2024-03-07")
	}
}

func TestTransactionMarshalJSON(t *testing.T) {
	tx := Transaction{
		Date:        time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Time:        "14:30",
		Amount:      decimal.RequireFromString("100.50"),
		Description: "Coffee Shop",
	}

	data, err := json.Marshal(tx)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	s := string(data)
	for _, fragment := range []string{`"date":"2024-01-15"`, `"amount":"100.5"`, `"description":"Coffee Shop"`, `"time":"14:30"`} {
		if !strings.Contains(s, fragment) {
			t.Errorf("marshaled JSON %s missing %s", s, fragment)
		}
	}
}
