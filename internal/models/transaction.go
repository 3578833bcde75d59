// Package models defines the normalized transaction record shared by the
// matching engine and the session layer, together with the permissive
// normalization adapter that produces it from raw uploaded records.
package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a normalized ledger or bank entry. It is immutable once
// computed; zero values stand in for absent fields.
type Transaction struct {
	Date        time.Time       `json:"date"`
	Time        string          `json:"time,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Reference   string          `json:"reference,omitempty"`
}

// DateOnly returns the transaction date truncated to midnight UTC, the
// granularity all day-difference arithmetic operates on.
func (t Transaction) DateOnly() time.Time {
	year, month, day := t.Date.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// FormattedDate returns the calendar-day representation used for display
// and for day-level equality checks.
func (t Transaction) FormattedDate() string {
	return t.Date.Format("2006-01-02")
}

// DayDifference returns the absolute whole-day distance between two
// transactions' dates.
func (t Transaction) DayDifference(other Transaction) int {
	diff := t.DateOnly().Sub(other.DateOnly())
	if diff < 0 {
		diff = -diff
	}
	return int(diff.Hours() / 24)
}

// String returns a compact representation for logging.
func (t Transaction) String() string {
	return fmt.Sprintf("Transaction{Date: %s, Amount: %s, Description: %q}",
		t.FormattedDate(), t.Amount.String(), t.Description)
}

// MarshalJSON renders the amount as a plain decimal string and the date in
// calendar-day form.
func (t Transaction) MarshalJSON() ([]byte, error) {
	type alias struct {
		Date        string `json:"date"`
		Time        string `json:"time,omitempty"`
		Amount      string `json:"amount"`
		Description string `json:"description"`
		Reference   string `json:"reference,omitempty"`
	}
	return json.Marshal(alias{
		Date:        t.FormattedDate(),
		Time:        t.Time,
		Amount:      t.Amount.String(),
		Description: t.Description,
		Reference:   t.Reference,
	})
}
