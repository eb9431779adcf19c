package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jeffersonbalde/CPC-Accounting-System-client-sub001/pkg/config"
	"github.com/jeffersonbalde/CPC-Accounting-System-client-sub001/pkg/db"
	"github.com/jeffersonbalde/CPC-Accounting-System-client-sub001/pkg/pathutil"
)

var (
	historyLimit int
	runID        string
)

// statsCmd represents the stats command.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Display run and export history",
	Long: `Display statistics about reconciliation runs and report exports.

Shows:
- Total and failed reconciliation runs
- Total and failed report exports
- Last run and export timestamps
- The most recent runs and exports

Example:
  ledger-report stats
  ledger-report stats --limit 20
  ledger-report stats --run 3f0c1a52-...`,
	Run: runStats,
}

func init() {
	statsCmd.Flags().IntVar(&historyLimit, "limit", 10, "Number of recent runs and exports to show")
	statsCmd.Flags().StringVar(&runID, "run", "", "Show the account totals of one run")
}

func runStats(cmd *cobra.Command, args []string) {
	slog.Info("Loading configuration")

	cfg, err := config.Load(cfgFile)
	exitOnError(err, "failed to load configuration")

	if err := cfg.Validate([]string{"report", "root"}); err != nil {
		exitOnError(err, "invalid configuration")
	}

	pathResolver := pathutil.New(pathutil.Config{
		ReportRoot:   cfg.Report.Root,
		DatabasePath: cfg.Report.DBPath,
	})

	dbPath := pathResolver.GetDatabasePath()
	slog.Debug("Opening database", "path", dbPath)

	conn, err := db.Open(dbPath)
	exitOnError(err, "failed to open database")
	defer conn.Close()

	history := db.NewHistory(conn)

	if runID != "" {
		showRun(history, runID)
		return
	}

	stats, err := history.GetStats()
	exitOnError(err, "failed to get statistics")

	fmt.Println("\n=== History Statistics ===")
	fmt.Printf("Reconciliation runs: %d (%d failed)\n", stats.TotalRuns, stats.FailedRuns)
	fmt.Printf("Report exports:      %d (%d failed)\n", stats.TotalExports, stats.FailedExports)
	fmt.Printf("Last run:            %s\n", orNever(stats.LastRun.String, stats.LastRun.Valid))
	fmt.Printf("Last export:         %s\n", orNever(stats.LastExport.String, stats.LastExport.Valid))

	runs, err := history.GetRecentRuns("", historyLimit)
	exitOnError(err, "failed to get recent runs")

	fmt.Println("\n=== Recent Runs ===")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tFEED\tSTATUS\tROWS\tMANUAL\tTOTAL\tERROR")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\t%s\n",
			r.StartedAt.Local().Format("2006-01-02 15:04:05"), r.Feed, r.Status,
			r.TransactionCount, r.ManualCount, r.Total, r.Error.String)
	}
	w.Flush()

	exports, err := history.GetRecentExports(historyLimit)
	exitOnError(err, "failed to get recent exports")

	fmt.Println("\n=== Recent Exports ===")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "EXPORTED\tFEED\tPERIOD\tRANGE\tFORMAT\tROWS\tRESULT")
	for _, e := range exports {
		result := e.Location.String
		if e.Error.Valid {
			result = "error: " + e.Error.String
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s to %s\t%s\t%d\t%s\n",
			e.ExportedAt.Local().Format("2006-01-02 15:04:05"), e.Feed, e.Period,
			e.StartDate, e.EndDate, e.Format, e.RowCount, result)
	}
	w.Flush()
	fmt.Println()

	slog.Info("Statistics displayed successfully")
}

func showRun(history *db.History, id string) {
	run, err := history.GetRun(id)
	exitOnError(err, "failed to get run")
	if run == nil {
		exitOnError(fmt.Errorf("run %s not found", id), "failed to get run")
	}

	fmt.Printf("\n=== Run %s ===\n", run.RunID)
	fmt.Printf("Feed:         %s\n", run.Feed)
	fmt.Printf("Status:       %s\n", run.Status)
	fmt.Printf("Started:      %s\n", run.StartedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Printf("Documents:    %d\n", run.DocumentCount)
	fmt.Printf("Entries:      %d\n", run.EntryCount)
	fmt.Printf("Transactions: %d (%d manual)\n", run.TransactionCount, run.ManualCount)
	fmt.Printf("Total:        %s\n", run.Total)
	if run.Error.Valid {
		fmt.Printf("Error:        %s\n", run.Error.String)
	}

	if len(run.Accounts) == 0 {
		fmt.Println()
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nCODE\tACCOUNT\tCOUNT\tTOTAL")
	for _, a := range run.Accounts {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", a.Code, a.Name, a.Count, a.Total)
	}
	w.Flush()
	fmt.Println()
}

func orNever(value string, valid bool) string {
	if !valid {
		return "(never)"
	}
	return value
}
