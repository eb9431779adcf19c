// Package activity merges invoices, bills and journal entries into one
// de-duplicated income or expense feed, and filters, sorts, pages and
// aggregates that feed.
package activity

import (
	"fmt"
	"strings"

	"github.com/jeffersonbalde/CPC-Accounting-System-client-sub001/pkg/ledger"
	"github.com/shopspring/decimal"
)

// Feed selects the ledger side a feed is built for.
type Feed string

const (
	FeedIncome   Feed = "income"
	FeedExpenses Feed = "expenses"
)

// ParseFeed parses a feed name.
func ParseFeed(s string) (Feed, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "income":
		return FeedIncome, nil
	case "expenses", "expense":
		return FeedExpenses, nil
	}
	return "", fmt.Errorf("invalid feed %q: expected income or expenses", s)
}

// Title returns the capitalized feed name used in report titles and filenames.
func (f Feed) Title() string {
	if f == FeedExpenses {
		return "Expenses"
	}
	return "Income"
}

// Noun returns the singular noun for one movement of this feed.
func (f Feed) Noun() string {
	if f == FeedExpenses {
		return "expense"
	}
	return "income"
}

// DocumentKind returns the source document type that feeds this side.
func (f Feed) DocumentKind() ledger.DocumentKind {
	if f == FeedExpenses {
		return ledger.KindBill
	}
	return ledger.KindInvoice
}

// Kind is the origin of a transaction.
type Kind string

const (
	KindInvoice Kind = "invoice"
	KindBill    Kind = "bill"
	KindManual  Kind = "manual"
)

// Audit carries who created and last changed the underlying record.
type Audit struct {
	CreatedBy string `json:"createdBy"`
	CreatedAt string `json:"createdAt"`
	UpdatedBy string `json:"updatedBy"`
	UpdatedAt string `json:"updatedAt"`
}

// Transaction is one row of a reconciled feed. It is never modified after reconciliation.
type Transaction struct {
	ID               string          `json:"id"`
	Kind             Kind            `json:"kind"`
	Date             string          `json:"date"`
	AccountCode      string          `json:"accountCode"`
	AccountName      string          `json:"accountName"`
	CounterpartyName string          `json:"counterpartyName"`
	Amount           decimal.Decimal `json:"amount"`
	Description      string          `json:"description"`
	Reference        string          `json:"reference"`
	Status           *string         `json:"status"`
	JournalEntryID   *int64          `json:"journalEntryId"`
	Audit            Audit           `json:"audit"`
}

// DatePrefix returns the YYYY-MM-DD part of the transaction date.
func (t Transaction) DatePrefix() string {
	return datePrefix(t.Date)
}

func datePrefix(date string) string {
	if len(date) > 10 {
		return date[:10]
	}
	return date
}

// InDateRange reports whether date falls within [start, end] by comparing
// YYYY-MM-DD prefixes. An empty bound is open.
func InDateRange(date, start, end string) bool {
	d := datePrefix(date)
	if start != "" && d < start {
		return false
	}
	if end != "" && d > end {
		return false
	}
	return true
}

func auditFrom(a ledger.Audit) Audit {
	return Audit{
		CreatedBy: a.CreatedBy.Label(),
		CreatedAt: a.CreatedAt,
		UpdatedBy: a.UpdatedBy.Label(),
		UpdatedAt: a.UpdatedAt,
	}
}
