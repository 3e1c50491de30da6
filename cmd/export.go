package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/attendance-kiosk/internal/config"
	"github.com/kozaktomas/attendance-kiosk/internal/ledger"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print the attendance ledger",
	Long: `Print the attendance ledger to stdout, either as the raw CSV or as a
per-day summary.`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().Bool("summary", false, "Print distinct-name counts per day instead of raw CSV")
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	l, err := ledger.Open(cfg.Kiosk.LedgerPath, cfg.Kiosk.AdminPassword)
	if err != nil {
		return fmt.Errorf("opening ledger: %w", err)
	}

	summary, err := cmd.Flags().GetBool("summary")
	if err != nil {
		return err
	}

	if summary {
		return printSummary(l)
	}

	data, err := l.Export()
	if errors.Is(err, ledger.ErrNoRecords) {
		fmt.Println("No records found.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("exporting ledger: %w", err)
	}

	os.Stdout.Write(data)
	return nil
}

// printSummary prints the number of distinct names per day, in file order
// of first appearance.
func printSummary(l *ledger.Ledger) error {
	rows, err := l.Rows()
	if errors.Is(err, ledger.ErrNoRecords) {
		fmt.Println("No records found.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading ledger: %w", err)
	}

	counts := make(map[string]map[string]struct{})
	var order []string
	for _, row := range rows {
		if _, ok := counts[row.Date]; !ok {
			counts[row.Date] = make(map[string]struct{})
			order = append(order, row.Date)
		}
		counts[row.Date][row.Name] = struct{}{}
	}

	for _, date := range order {
		fmt.Printf("%s  %d present\n", date, len(counts[date]))
	}
	return nil
}
