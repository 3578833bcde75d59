// Package reporter renders match results for human and spreadsheet
// consumption.
//
// Two renderings are provided:
//   - CSV: the canonical export format, one row per matched pair and per
//     unmatched transaction on either side
//   - Console: a compact summary for terminal display after a match run
package reporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"bank-reconciliation-service/internal/matcher"
	"bank-reconciliation-service/internal/models"
)

// csvHeader is the fixed column layout of the CSV export.
var csvHeader = []string{
	"Type",
	"LedgerDate",
	"LedgerAmount",
	"LedgerDescription",
	"BankDate",
	"BankAmount",
	"BankDescription",
	"MatchScore",
	"MatchType",
	"Differences",
}

// Row type labels. Unmatched rows leave the opposite side's columns empty.
const (
	rowMatched         = "Matched"
	rowUnmatchedLedger = "Unmatched Ledger"
	rowUnmatchedBank   = "Unmatched Bank"
)

// WriteCSV streams the result to w as CSV: the header, then matched pairs,
// then unmatched ledger transactions, then unmatched bank transactions,
// each bucket in result order.
func WriteCSV(w io.Writer, result *matcher.Result) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	for _, m := range result.Matched {
		row := []string{
			rowMatched,
			m.LedgerTransaction.FormattedDate(),
			m.LedgerTransaction.Amount.StringFixed(2),
			m.LedgerTransaction.Description,
			m.BankTransaction.FormattedDate(),
			m.BankTransaction.Amount.StringFixed(2),
			m.BankTransaction.Description,
			fmt.Sprintf("%d", m.MatchScore),
			m.MatchType.String(),
			strings.Join(m.Differences, "; "),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing matched row: %w", err)
		}
	}

	for _, t := range result.UnmatchedLedger {
		row := []string{
			rowUnmatchedLedger,
			t.FormattedDate(),
			t.Amount.StringFixed(2),
			t.Description,
			"", "", "",
			"0", "", "",
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing unmatched ledger row: %w", err)
		}
	}

	for _, t := range result.UnmatchedBank {
		row := []string{
			rowUnmatchedBank,
			"", "", "",
			t.FormattedDate(),
			t.Amount.StringFixed(2),
			t.Description,
			"0", "", "",
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing unmatched bank row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteConsoleSummary renders a human-readable run summary followed by the
// unmatched transactions on both sides.
func WriteConsoleSummary(w io.Writer, result *matcher.Result) error {
	summary := result.Summarize()

	var b strings.Builder
	b.WriteString("Reconciliation Summary\n")
	b.WriteString("======================\n")
	fmt.Fprintf(&b, "Ledger transactions:  %d\n", summary.TotalLedger)
	fmt.Fprintf(&b, "Bank transactions:    %d\n", summary.TotalBank)
	fmt.Fprintf(&b, "Matched pairs:        %d\n", summary.Matched)
	fmt.Fprintf(&b, "Unmatched ledger:     %d\n", summary.UnmatchedLedger)
	fmt.Fprintf(&b, "Unmatched bank:       %d\n", summary.UnmatchedBank)
	fmt.Fprintf(&b, "Reconciliation rate:  %.1f%%\n", summary.ReconciliationRate)

	writeUnmatchedSection(&b, "Unmatched Ledger Transactions", result.UnmatchedLedger)
	writeUnmatchedSection(&b, "Unmatched Bank Transactions", result.UnmatchedBank)

	_, err := io.WriteString(w, b.String())
	return err
}

func writeUnmatchedSection(b *strings.Builder, title string, transactions []models.Transaction) {
	if len(transactions) == 0 {
		return
	}

	fmt.Fprintf(b, "\n%s (%d)\n", title, len(transactions))
	b.WriteString(strings.Repeat("-", len(title)) + "\n")
	for _, t := range transactions {
		fmt.Fprintf(b, "  %s  %12s  %s\n",
			t.FormattedDate(), t.Amount.StringFixed(2), t.Description)
	}
}
