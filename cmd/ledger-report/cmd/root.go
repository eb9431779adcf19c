// Package cmd provides CLI commands for ledger-report.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	debug    bool
	feedType string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "ledger-report",
	Short: "Reconcile ledger income and expenses and export period reports",
	Long: `ledger-report merges invoices, bills and journal entries from the ledger
API into one de-duplicated income or expense feed.

It supports:
- Browsing a feed with search, account and date filters, sorting and paging
- Printable HTML and CSV period reports
- Run and export history in SQLite

Example:
  ledger-report feed --type income --search acme
  ledger-report report --type expenses --period last_month --format csv
  ledger-report stats`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logLevel := slog.LevelInfo
		if debug || os.Getenv("DEBUG") == "true" {
			logLevel = slog.LevelDebug
		}

		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: logLevel,
		}))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(feedCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(statsCmd)
}

// Helper function to handle errors and exit.
func exitOnError(err error, msg string) {
	if err != nil {
		slog.Error(msg, "error", err)
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
		os.Exit(1)
	}
}
