// Package console holds the state of one feed view: the reconciled
// transactions, their statistics and the account filter options. It
// serializes user actions with an action lock.
package console

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jeffersonbalde/CPC-Accounting-System-client-sub001/pkg/activity"
	"github.com/jeffersonbalde/CPC-Accounting-System-client-sub001/pkg/db"
	"github.com/jeffersonbalde/CPC-Accounting-System-client-sub001/pkg/ledger"
	"github.com/jeffersonbalde/CPC-Accounting-System-client-sub001/pkg/report"
)

// ErrBusy is returned when an action is requested while another one is running.
var ErrBusy = errors.New("another action is in progress")

// Fetcher retrieves the raw ledger records a feed is built from.
type Fetcher interface {
	ListInvoices(ctx context.Context) ([]ledger.Invoice, error)
	ListBills(ctx context.Context) ([]ledger.Bill, error)
	FetchJournalEntries(ctx context.Context) []ledger.JournalEntry
	ListAccounts(ctx context.Context, category string) ([]ledger.Account, error)
}

// Recorder persists run and export history.
type Recorder interface {
	RecordRun(record db.RunRecord) error
	RecordExport(record db.ExportRecord) error
}

// Format is a report artifact format.
type Format string

const (
	FormatHTML Format = "html"
	FormatCSV  Format = "csv"
)

// ParseFormat parses a report format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatHTML:
		return FormatHTML, nil
	case FormatCSV:
		return FormatCSV, nil
	}
	return "", fmt.Errorf("invalid format %q: expected html or csv", s)
}

// Options configures a Session. All fields are optional.
type Options struct {
	Rules    *activity.Rules
	Recorder Recorder
	Logger   *slog.Logger
	Currency string
	Now      func() time.Time
}

// Session is the state behind one income or expense view.
type Session struct {
	feed     activity.Feed
	fetcher  Fetcher
	rules    activity.Rules
	recorder Recorder
	logger   *slog.Logger
	currency string
	now      func() time.Time

	action sync.Mutex

	mu        sync.RWMutex
	txns      []activity.Transaction
	summary   activity.Summary
	options   []ledger.Account
	runID     string
	refreshed time.Time
}

// NewSession creates a session for feed.
func NewSession(feed activity.Feed, fetcher Fetcher, opts Options) *Session {
	rules := activity.DefaultRules()
	if opts.Rules != nil {
		rules = *opts.Rules
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Session{
		feed:     feed,
		fetcher:  fetcher,
		rules:    rules,
		recorder: opts.Recorder,
		logger:   logger.With("feed", string(feed)),
		currency: opts.Currency,
		now:      now,
		summary:  activity.Aggregate(nil),
	}
}

// Feed returns the feed this session shows.
func (s *Session) Feed() activity.Feed {
	return s.feed
}

// Refresh fetches the ledger records and rebuilds the feed. On a source
// document fetch failure the previous transactions are kept, the statistics
// are reset to empty and the returned error wraps ledger.ErrFetchFailure.
func (s *Session) Refresh(ctx context.Context) error {
	if !s.action.TryLock() {
		return ErrBusy
	}
	defer s.action.Unlock()

	runID := uuid.NewString()
	started := s.now()
	logger := s.logger.With("run_id", runID)

	docs, err := s.fetchDocuments(ctx)
	if err != nil {
		logger.Error("reconciliation failed", "error", err)
		s.mu.Lock()
		s.summary = activity.Aggregate(nil)
		s.mu.Unlock()
		s.recordRun(db.RunRecord{
			RunID:     runID,
			Feed:      string(s.feed),
			Status:    db.RunFailed,
			Total:     "0",
			Error:     sql.NullString{String: err.Error(), Valid: true},
			StartedAt: started,
		})
		return err
	}

	entries := s.fetcher.FetchJournalEntries(ctx)

	accounts, err := s.fetcher.ListAccounts(ctx, "")
	if err != nil {
		logger.Warn("chart of accounts unavailable, using line categories only", "error", err)
		accounts = nil
	}

	txns := activity.NewReconciler(s.rules, activity.NewChart(accounts), logger).Reconcile(s.feed, docs, entries)
	summary := activity.Aggregate(txns)
	options := s.accountOptions(accounts, txns)

	s.mu.Lock()
	s.txns = txns
	s.summary = summary
	s.options = options
	s.runID = runID
	s.refreshed = s.now()
	s.mu.Unlock()

	logger.Info("feed refreshed", "documents", len(docs), "entries", len(entries), "transactions", len(txns), "total", summary.Total.StringFixed(2))

	s.recordRun(db.RunRecord{
		RunID:            runID,
		Feed:             string(s.feed),
		Status:           db.RunSucceeded,
		DocumentCount:    len(docs),
		EntryCount:       len(entries),
		TransactionCount: len(txns),
		ManualCount:      countManual(txns),
		Total:            summary.Total.StringFixed(2),
		StartedAt:        started,
		Accounts:         accountTotals(summary),
	})
	return nil
}

func (s *Session) fetchDocuments(ctx context.Context) ([]ledger.SourceDocument, error) {
	if s.feed == activity.FeedExpenses {
		bills, err := s.fetcher.ListBills(ctx)
		if err != nil {
			return nil, err
		}
		docs := make([]ledger.SourceDocument, 0, len(bills))
		for _, b := range bills {
			docs = append(docs, b)
		}
		return docs, nil
	}

	invoices, err := s.fetcher.ListInvoices(ctx)
	if err != nil {
		return nil, err
	}
	docs := make([]ledger.SourceDocument, 0, len(invoices))
	for _, inv := range invoices {
		docs = append(docs, inv)
	}
	return docs, nil
}

// accountOptions lists the chart accounts of the feed's category plus any
// account that appears in the feed.
func (s *Session) accountOptions(accounts []ledger.Account, txns []activity.Transaction) []ledger.Account {
	category := ledger.CategoryRevenue
	if s.feed == activity.FeedExpenses {
		category = ledger.CategoryExpense
	}

	var candidates []ledger.Account
	for _, a := range accounts {
		if strings.EqualFold(a.Category, category) {
			candidates = append(candidates, a)
		}
	}
	candidates = append(candidates, activity.TransactionAccounts(txns)...)
	return activity.AccountOptions(candidates)
}

// Transactions returns a copy of the current feed.
func (s *Session) Transactions() []activity.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]activity.Transaction(nil), s.txns...)
}

// Summary returns the statistics of the current feed.
func (s *Session) Summary() activity.Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.summary
}

// AccountOptions returns the accounts offered in the account filter.
func (s *Session) AccountOptions() []ledger.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]ledger.Account(nil), s.options...)
}

// RunID returns the id of the last successful refresh, or "" before the first.
func (s *Session) RunID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.runID
}

// View filters, sorts and pages the current feed.
func (s *Session) View(q activity.Query) activity.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return activity.Apply(s.txns, q)
}

// Report builds a period report from the current feed. Filters and sorting
// of any view are ignored.
func (s *Session) Report(period report.Period, custom *report.Range) (*report.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rpt, err := report.Generate(s.feed, s.txns, period, custom, s.now())
	if err != nil {
		return nil, err
	}
	rpt.Currency = s.currency
	return rpt, nil
}

// Export generates a report and writes it in one format. It holds the action
// lock, so it cannot overlap a refresh. Validation errors are returned before
// anything is written or recorded.
func (s *Session) Export(exporter *report.Exporter, format Format, period report.Period, custom *report.Range) (string, error) {
	if !s.action.TryLock() {
		return "", ErrBusy
	}
	defer s.action.Unlock()

	rpt, err := s.Report(period, custom)
	if err != nil {
		return "", err
	}

	var location string
	switch format {
	case FormatHTML:
		location, err = exporter.ExportHTML(rpt)
	case FormatCSV:
		location, err = exporter.ExportCSV(rpt)
	default:
		return "", fmt.Errorf("invalid format %q: expected html or csv", format)
	}

	record := db.ExportRecord{
		Feed:      string(s.feed),
		Period:    string(period),
		StartDate: rpt.StartDate,
		EndDate:   rpt.EndDate,
		Format:    string(format),
		RowCount:  len(rpt.Rows),
	}
	if runID := s.RunID(); runID != "" {
		record.RunID = sql.NullString{String: runID, Valid: true}
	}
	if err != nil {
		record.Error = sql.NullString{String: err.Error(), Valid: true}
	} else {
		record.Location = sql.NullString{String: location, Valid: true}
	}
	s.recordExport(record)

	if err != nil {
		return "", err
	}
	s.logger.Info("report exported", "format", string(format), "period", rpt.Label, "location", location)
	return location, nil
}

func (s *Session) recordRun(record db.RunRecord) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.RecordRun(record); err != nil {
		s.logger.Warn("failed to record run", "run_id", record.RunID, "error", err)
	}
}

func (s *Session) recordExport(record db.ExportRecord) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.RecordExport(record); err != nil {
		s.logger.Warn("failed to record export", "error", err)
	}
}

func countManual(txns []activity.Transaction) int {
	n := 0
	for _, t := range txns {
		if t.Kind == activity.KindManual {
			n++
		}
	}
	return n
}

func accountTotals(summary activity.Summary) []db.AccountTotal {
	rows := summary.ByCode()
	totals := make([]db.AccountTotal, 0, len(rows))
	for _, r := range rows {
		totals = append(totals, db.AccountTotal{
			Code:  r.Code,
			Name:  r.Name,
			Count: r.Count,
			Total: r.Total.StringFixed(2),
		})
	}
	return totals
}
