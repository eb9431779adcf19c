package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jeffersonbalde/CPC-Accounting-System-client-sub001/pkg/activity"
)

var (
	search    string
	account   string
	dateFrom  string
	dateTo    string
	sortField string
	sortDir   string
	page      int
	perPage   int
)

// feedCmd represents the feed command.
var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Show the reconciled income or expense feed",
	Long: `Fetch invoices or bills and journal entries, reconcile them into one feed
and print one page of it.

Shows:
- The requested page of transactions
- Pagination (showing X to Y of N entries)
- Transaction count, total and account count
- Totals by account

Example:
  ledger-report feed --type income
  ledger-report feed --type expenses --account 6100 --from 2024-01-01 --to 2024-01-31
  ledger-report feed --type income --sort amount --dir asc --page 2`,
	Run: runFeed,
}

func init() {
	feedCmd.Flags().StringVar(&feedType, "type", "income", "Feed type (income|expenses)")
	feedCmd.Flags().StringVar(&search, "search", "", "Case-insensitive search in description, counterparty and reference")
	feedCmd.Flags().StringVar(&account, "account", activity.AllAccounts, "Account code filter")
	feedCmd.Flags().StringVar(&dateFrom, "from", "", "Start date (YYYY-MM-DD)")
	feedCmd.Flags().StringVar(&dateTo, "to", "", "End date (YYYY-MM-DD)")
	feedCmd.Flags().StringVar(&sortField, "sort", "date", "Sort field (date, amount, description, counterpartyName, accountCode, reference)")
	feedCmd.Flags().StringVar(&sortDir, "dir", string(activity.SortDesc), "Sort direction (asc|desc)")
	feedCmd.Flags().IntVar(&page, "page", 1, "Page number")
	feedCmd.Flags().IntVar(&perPage, "per-page", activity.DefaultPageSize, "Rows per page")
}

func runFeed(cmd *cobra.Command, args []string) {
	env := setup()
	defer env.Close()

	ctx, cancel := context.WithTimeout(context.Background(), requestBudget(env))
	defer cancel()

	slog.Info("Refreshing feed", "feed", feedType)
	err := env.session.Refresh(ctx)
	exitOnError(err, "failed to refresh feed")

	q := activity.DefaultQuery()
	q.SetSearch(search)
	q.SetAccount(account)
	q.SetDateRange(dateFrom, dateTo)
	q.SetPageSize(perPage)
	q.SortField = sortField
	q.SortDir = activity.SortDir(sortDir)
	q.Page = page

	result := env.session.View(q)
	printPage(env.session.Feed(), result)
	printSummary(env.session.Summary())
}

func printPage(feed activity.Feed, result activity.Result) {
	fmt.Printf("\n=== %s ===\n", feed.Title())

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tTYPE\tCOUNTERPARTY\tACCOUNT\tREFERENCE\tDESCRIPTION\tAMOUNT")
	for _, t := range result.Rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s %s\t%s\t%s\t%s\n",
			t.DatePrefix(), t.Kind, t.CounterpartyName, t.AccountCode, t.AccountName,
			t.Reference, t.Description, t.Amount.StringFixed(2))
	}
	w.Flush()

	meta := result.Meta
	fmt.Printf("\nShowing %d to %d of %d entries (page %d of %d)\n",
		meta.From, meta.To, meta.Total, meta.CurrentPage, meta.LastPage)
	fmt.Printf("Filtered total: %s\n", activity.Aggregate(result.Filtered).Total.StringFixed(2))
}

func printSummary(summary activity.Summary) {
	fmt.Println("\n=== Statistics ===")
	fmt.Printf("Transactions: %s\n", humanize.Comma(int64(summary.Count)))
	fmt.Printf("Total:        %s\n", humanize.FormatFloat("#,###.##", summary.Total.InexactFloat64()))
	fmt.Printf("Accounts:     %d\n", summary.AccountCount)

	fmt.Println("\n=== By Account ===")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CODE\tNAME\tCOUNT\tTOTAL")
	for _, a := range summary.ByTotal() {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", a.Code, a.Name, a.Count, a.Total.StringFixed(2))
	}
	w.Flush()
	fmt.Println()
}
