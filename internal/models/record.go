package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// RawRecord is an untyped field-to-value mapping produced by an external
// file parser. Field names arrive inconsistently cased, so lookups prefer
// the lower-case key and fall back to the capitalized alias.
type RawRecord map[string]interface{}

// Recognized field aliases, in lookup priority order.
var (
	dateAliases        = []string{"date", "Date"}
	timeAliases        = []string{"time", "Time"}
	amountAliases      = []string{"amount", "Amount"}
	descriptionAliases = []string{"description", "Description"}
	referenceAliases   = []string{"reference", "Reference"}
)

// lookup returns the first value found under the given alias keys.
func (r RawRecord) lookup(aliases []string) (interface{}, bool) {
	for _, key := range aliases {
		if v, ok := r[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// Normalize converts a raw record into a typed Transaction. Normalization
// never fails: absent or malformed fields degrade to neutral defaults so
// scoring stays total over dirty financial data.
func Normalize(record RawRecord) Transaction {
	return Transaction{
		Date:        normalizeDate(record),
		Time:        normalizeClock(record),
		Amount:      normalizeAmount(record),
		Description: normalizeString(record, descriptionAliases),
		Reference:   normalizeString(record, referenceAliases),
	}
}

// NormalizeAll converts a list of raw records, preserving order.
func NormalizeAll(records []RawRecord) []Transaction {
	out := make([]Transaction, len(records))
	for i, record := range records {
		out[i] = Normalize(record)
	}
	return out
}

func normalizeDate(record RawRecord) time.Time {
	v, ok := record.lookup(dateAliases)
	if !ok {
		return time.Time{}
	}

	switch d := v.(type) {
	case time.Time:
		return d
	case string:
		if t, err := ParseDateWithFormats(d); err == nil {
			return t
		}
	}
	return time.Time{}
}

func normalizeClock(record RawRecord) string {
	v, ok := record.lookup(timeAliases)
	if !ok {
		return ""
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

func normalizeAmount(record RawRecord) decimal.Decimal {
	v, ok := record.lookup(amountAliases)
	if !ok {
		return decimal.Zero
	}

	switch a := v.(type) {
	case decimal.Decimal:
		return a
	case float64:
		return decimal.NewFromFloat(a)
	case float32:
		return decimal.NewFromFloat32(a)
	case int:
		return decimal.NewFromInt(int64(a))
	case int64:
		return decimal.NewFromInt(a)
	case string:
		if d, err := ParseDecimalFromString(a); err == nil {
			return d
		}
	}
	return decimal.Zero
}

func normalizeString(record RawRecord, aliases []string) string {
	v, ok := record.lookup(aliases)
	if !ok {
		return ""
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

// ParseDecimalFromString parses a decimal amount, tolerating common
// currency symbols and thousand separators.
func ParseDecimalFromString(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("amount string cannot be empty")
	}

	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid decimal format '%s': %w", s, err)
	}
	return d, nil
}

// ParseDateWithFormats attempts to parse a date from string using the
// formats commonly seen in ledger exports and bank statements.
func ParseDateWithFormats(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("date string cannot be empty")
	}

	formats := []string{
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02",
		"01/02/2006 15:04:05",
		"01/02/2006",
		"02-01-2006",
		"2006/01/02",
		"Jan 2, 2006",
		"January 2, 2006",
	}

	var lastErr error
	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		} else {
			lastErr = err
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date '%s': %w", s, lastErr)
}
