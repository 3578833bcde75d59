package matcher

import (
	"fmt"
	"strings"

	"bank-reconciliation-service/internal/models"

	"github.com/shopspring/decimal"
)

// explainAmountEpsilon is the absolute amount difference above which a
// mismatch note is emitted. It is intentionally fixed and independent of
// the configured AmountTolerance: explanation rules are exact, while the
// score tolerates small discrepancies.
var explainAmountEpsilon = decimal.NewFromFloat(0.01)

// Explain emits human-readable discrepancy notes for a matched pair. Notes
// are ordered: amount, then date, then description. A pair can score below
// 100 and still produce no notes, since the scorer tolerates discrepancies
// these exact rules do not count as differences.
func Explain(ledger, bank models.Transaction) []string {
	differences := []string{}

	if ledger.Amount.Sub(bank.Amount).Abs().GreaterThan(explainAmountEpsilon) {
		differences = append(differences, fmt.Sprintf(
			"Amount mismatch: ledger %s vs bank %s",
			ledger.Amount.StringFixed(2), bank.Amount.StringFixed(2)))
	}

	if ledger.FormattedDate() != bank.FormattedDate() {
		differences = append(differences, fmt.Sprintf(
			"Date mismatch: ledger %s vs bank %s",
			ledger.FormattedDate(), bank.FormattedDate()))
	}

	if !strings.EqualFold(strings.TrimSpace(ledger.Description), strings.TrimSpace(bank.Description)) {
		differences = append(differences, "Description differs")
	}

	return differences
}
