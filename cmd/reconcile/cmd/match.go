package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"bank-reconciliation-service/cmd/reconcile/config"
	"bank-reconciliation-service/internal/matcher"
	"bank-reconciliation-service/internal/models"
	"bank-reconciliation-service/internal/reporter"
	"bank-reconciliation-service/internal/session"

	"github.com/spf13/cobra"
)

// Flags for the match command
var (
	ledgerFile           string
	bankFile             string
	exportFile           string
	exportFormat         string
	dateTolerance        int
	amountTolerance      float64
	descriptionThreshold float64
	useTime              bool
)

// matchCmd represents the match command
var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Match ledger entries against bank statement records",
	Long: `Match runs a full reconciliation pass over a ledger file and a bank
statement file. Both files are JSON arrays of transaction records; field
names are matched permissively (date/Date, amount/Amount, and so on) and
malformed values fall back to defaults instead of failing the run.

A summary is printed to stdout. Use --export to also write the full
matched/unmatched breakdown to a CSV file.

Examples:
  # Basic match with the default tolerances
  reconcile match --ledger-file ledger.json --bank-file statement.json

  # Widen the date window and export the full report
  reconcile match --ledger-file ledger.json --bank-file statement.json \
    --date-tolerance 3 --export report.csv

  # Enable time-of-day comparison
  reconcile match --ledger-file ledger.json --bank-file statement.json --use-time`,

	PreRunE: validateMatchFlags,
	RunE:    runMatch,
}

func init() {
	rootCmd.AddCommand(matchCmd)

	// Required flags
	matchCmd.Flags().StringVarP(&ledgerFile, "ledger-file", "l", "", "path to ledger JSON file (required)")
	matchCmd.Flags().StringVarP(&bankFile, "bank-file", "b", "", "path to bank statement JSON file (required)")

	// Output flags
	matchCmd.Flags().StringVarP(&exportFile, "export", "o", "", "export full results to this file")
	matchCmd.Flags().StringVarP(&exportFormat, "export-format", "f", "csv", "export format (csv)")

	// Matching configuration flags
	matchCmd.Flags().IntVarP(&dateTolerance, "date-tolerance", "d", 1, "date matching tolerance in days")
	matchCmd.Flags().Float64VarP(&amountTolerance, "amount-tolerance", "a", 0.01, "absolute amount tolerance")
	matchCmd.Flags().Float64Var(&descriptionThreshold, "description-threshold", 0.7, "description similarity threshold (0.0-1.0)")
	matchCmd.Flags().BoolVar(&useTime, "use-time", false, "compare time-of-day in addition to dates")

	matchCmd.MarkFlagRequired("ledger-file")
	matchCmd.MarkFlagRequired("bank-file")
}

func validateMatchFlags(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(ledgerFile); err != nil {
		return fmt.Errorf("ledger file not accessible: %w", err)
	}
	if _, err := os.Stat(bankFile); err != nil {
		return fmt.Errorf("bank file not accessible: %w", err)
	}
	opts := config.CreateMatchingOptions(dateTolerance, amountTolerance, descriptionThreshold, useTime)
	if err := opts.Validate(); err != nil {
		return fmt.Errorf("invalid matching flags: %w", err)
	}
	return nil
}

func runMatch(cmd *cobra.Command, args []string) error {
	ledger, err := loadRecords(ledgerFile)
	if err != nil {
		return fmt.Errorf("loading ledger file: %w", err)
	}
	bank, err := loadRecords(bankFile)
	if err != nil {
		return fmt.Errorf("loading bank file: %w", err)
	}

	manager := session.NewManager(session.NewMemoryStore(), nil)

	s, err := manager.CreateSession("cli")
	if err != nil {
		return err
	}
	if err := manager.SetLedgerData(s.ID, ledger); err != nil {
		return err
	}
	if err := manager.SetBankData(s.ID, bank); err != nil {
		return err
	}

	opts := config.CreateMatchingOptions(dateTolerance, amountTolerance, descriptionThreshold, useTime)
	if _, err := manager.RunMatch(s.ID, opts); err != nil {
		return err
	}

	s, err = manager.GetSession(s.ID)
	if err != nil {
		return err
	}
	result := &matcher.Result{
		Matched:         s.Results.Matched,
		UnmatchedLedger: s.Results.UnmatchedLedger,
		UnmatchedBank:   s.Results.UnmatchedBank,
	}
	if err := reporter.WriteConsoleSummary(os.Stdout, result); err != nil {
		return err
	}

	if exportFile != "" {
		f, err := os.Create(exportFile)
		if err != nil {
			return fmt.Errorf("creating export file: %w", err)
		}
		defer f.Close()

		if err := manager.Export(s.ID, exportFormat, f); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "\nFull report written to %s\n", exportFile)
	}

	return nil
}

// loadRecords reads a JSON array of transaction records.
func loadRecords(path string) ([]models.RawRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var records []models.RawRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return records, nil
}
