package activity

import (
	"fmt"
	"log/slog"

	"github.com/jeffersonbalde/CPC-Accounting-System-client-sub001/pkg/ledger"
)

// Reconciler merges source documents and journal entries into one feed.
// It holds no per-run state; Reconcile is a pure function of its inputs.
type Reconciler struct {
	rules  Rules
	chart  *Chart
	logger *slog.Logger
}

// NewReconciler creates a Reconciler. chart may be nil.
func NewReconciler(rules Rules, chart *Chart, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{rules: rules, chart: chart, logger: logger}
}

type entryKey struct {
	entryID int64
	code    string
}

// Reconcile builds the feed: one row per source document, followed by one
// manual row per classified journal line not already represented by a document.
func (r *Reconciler) Reconcile(feed Feed, docs []ledger.SourceDocument, entries []ledger.JournalEntry) []Transaction {
	entriesByID := make(map[int64]ledger.JournalEntry, len(entries))
	for _, e := range entries {
		entriesByID[e.ID] = e
	}

	txns := make([]Transaction, 0, len(docs))
	docEntries := make(map[int64]bool)
	seen := make(map[entryKey]bool)

	for _, doc := range docs {
		if doc.Kind() != feed.DocumentKind() {
			continue
		}

		t := r.documentTransaction(feed, doc, entriesByID)
		if t.JournalEntryID != nil {
			docEntries[*t.JournalEntryID] = true
			seen[entryKey{*t.JournalEntryID, t.AccountCode}] = true
		}
		txns = append(txns, t)
	}

	var manual, skipped int
	for _, entry := range entries {
		if len(entry.Lines) == 0 {
			continue
		}

		_, generated := r.rules.MatchReference(entry.ReferenceNumber)

		for _, line := range entry.Lines {
			line.Account = r.resolveAccount(line.Account)

			amount, ok := amountFor(feed, line)
			if !ok {
				continue
			}

			key := entryKey{entry.ID, line.Account.Code}
			if docEntries[entry.ID] || generated || seen[key] {
				skipped++
				continue
			}
			seen[key] = true

			entryID := entry.ID
			txns = append(txns, Transaction{
				ID:             fmt.Sprintf("journal-%d-%d", entry.ID, line.ID),
				Kind:           KindManual,
				Date:           entry.Date,
				AccountCode:    line.Account.Code,
				AccountName:    line.Account.Name,
				Amount:         amount,
				Description:    firstNonEmpty(line.Description, entry.Description, fmt.Sprintf("Manual %s entry", feed.Noun())),
				Reference:      firstNonEmpty(entry.ReferenceNumber, entry.EntryNumber),
				JournalEntryID: &entryID,
				Audit:          auditFrom(entry.Audit),
			})
			manual++
		}
	}

	r.logger.Debug("reconciled feed",
		"feed", feed,
		"documents", len(txns)-manual,
		"manual", manual,
		"represented_lines", skipped,
	)

	return txns
}

func (r *Reconciler) documentTransaction(feed Feed, doc ledger.SourceDocument, entriesByID map[int64]ledger.JournalEntry) Transaction {
	var account ledger.Account
	if linked := doc.LinkedAccount(); linked != nil {
		account = r.resolveAccount(*linked)
	} else if id := doc.EntryID(); id != nil {
		account = r.entryAccount(feed, entriesByID[*id])
	}

	var entryID *int64
	if id := doc.EntryID(); id != nil {
		v := *id
		entryID = &v
	}

	return Transaction{
		ID:               fmt.Sprintf("%s-%d", doc.Kind(), doc.SourceID()),
		Kind:             Kind(doc.Kind()),
		Date:             doc.IssueDate(),
		AccountCode:      account.Code,
		AccountName:      account.Name,
		CounterpartyName: doc.Counterparty(),
		Amount:           doc.Total(),
		Description:      doc.Memo(),
		Reference:        doc.Number(),
		Status:           doc.DocStatus(),
		JournalEntryID:   entryID,
		Audit:            auditFrom(doc.AuditInfo()),
	}
}

// entryAccount returns the account of the first line of entry that belongs to feed.
func (r *Reconciler) entryAccount(feed Feed, entry ledger.JournalEntry) ledger.Account {
	for _, line := range entry.Lines {
		line.Account = r.resolveAccount(line.Account)
		if _, ok := amountFor(feed, line); ok {
			return line.Account
		}
	}
	return ledger.Account{}
}

// resolveAccount applies category overrides and fills missing name or category from the chart.
func (r *Reconciler) resolveAccount(a ledger.Account) ledger.Account {
	if charted, ok := r.chart.Lookup(a.Code); ok {
		if a.Category == "" {
			a.Category = charted.Category
		}
		if a.Name == "" {
			a.Name = charted.Name
		}
	}
	if category, ok := r.rules.categoryOverride(a.Code); ok {
		a.Category = category
	}
	return a
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
