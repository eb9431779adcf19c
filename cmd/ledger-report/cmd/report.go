package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/jeffersonbalde/CPC-Accounting-System-client-sub001/pkg/console"
	"github.com/jeffersonbalde/CPC-Accounting-System-client-sub001/pkg/report"
)

var (
	period      string
	customStart string
	customEnd   string
	format      string
)

// reportCmd represents the report command.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Export a period report as HTML or CSV",
	Long: `Reconcile the feed and export a period report.

This command:
1. Resolves the period into a start and end date
2. Fetches and reconciles the feed
3. Writes the report under REPORT_ROOT/{YYYY}/
4. Records the export in the history database

Periods: today, this_week, this_month, last_month, this_year, custom.
A custom period needs both --start and --end.

Example:
  ledger-report report --type income --period this_month
  ledger-report report --type expenses --period custom --start 2024-01-01 --end 2024-03-31 --format csv`,
	Run: runReport,
}

func init() {
	reportCmd.Flags().StringVar(&feedType, "type", "income", "Feed type (income|expenses)")
	reportCmd.Flags().StringVar(&period, "period", string(report.ThisMonth), "Report period")
	reportCmd.Flags().StringVar(&customStart, "start", "", "Custom period start date (YYYY-MM-DD)")
	reportCmd.Flags().StringVar(&customEnd, "end", "", "Custom period end date (YYYY-MM-DD)")
	reportCmd.Flags().StringVar(&format, "format", string(console.FormatHTML), "Output format (html|csv)")
}

func runReport(cmd *cobra.Command, args []string) {
	p, err := report.ParsePeriod(period)
	exitOnError(err, "invalid --period")

	f, err := console.ParseFormat(format)
	exitOnError(err, "invalid --format")

	var custom *report.Range
	if p == report.Custom {
		custom = &report.Range{Start: customStart, End: customEnd}
	}

	// Validate the period before touching the network.
	_, err = report.Resolve(p, custom, time.Now())
	exitOnError(err, "invalid report period")

	env := setup()
	defer env.Close()

	ctx, cancel := context.WithTimeout(context.Background(), requestBudget(env))
	defer cancel()

	slog.Info("Refreshing feed", "feed", feedType)
	err = env.session.Refresh(ctx)
	exitOnError(err, "failed to refresh feed")

	exporter := report.NewExporter(report.NewDirSink(env.paths), slog.Default())
	location, err := env.session.Export(exporter, f, p, custom)
	if errors.Is(err, report.ErrExportBlocked) {
		exitOnError(err, "could not open the printable report, retry or export as csv")
	}
	exitOnError(err, "failed to export report")

	fmt.Printf("Report written to %s\n", location)
}

// requestBudget bounds a whole refresh: one document request plus every
// journal page, each with the configured timeout.
func requestBudget(env *environment) time.Duration {
	timeout := env.cfg.Ledger.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	pages := env.cfg.Ledger.JournalPageLimit
	if pages <= 0 {
		pages = 10
	}
	return time.Duration(pages+2) * timeout
}
