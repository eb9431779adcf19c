package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/jeffersonbalde/CPC-Accounting-System-client-sub001/pkg/activity"
)

// Report is a period report over a reconciled feed.
type Report struct {
	Feed      activity.Feed
	Period    Period
	StartDate string
	EndDate   string
	Label     string
	Rows      []activity.Transaction
	Summary   activity.Summary
	Currency  string
}

// Generate resolves the period and selects the transactions dated within it.
// It reads txns only; the live filter and sort state of a view has no effect.
func Generate(feed activity.Feed, txns []activity.Transaction, period Period, custom *Range, now time.Time) (*Report, error) {
	r, err := Resolve(period, custom, now)
	if err != nil {
		return nil, err
	}

	rows := make([]activity.Transaction, 0, len(txns))
	for _, t := range txns {
		if activity.InDateRange(t.Date, r.Start, r.End) {
			rows = append(rows, t)
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].DatePrefix() < rows[j].DatePrefix()
	})

	return &Report{
		Feed:      feed,
		Period:    period,
		StartDate: r.Start,
		EndDate:   r.End,
		Label:     fmt.Sprintf("%s (%s to %s)", period.Label(), r.Start, r.End),
		Rows:      rows,
		Summary:   activity.Aggregate(rows),
	}, nil
}

// Title returns the document title, e.g. "Income Report".
func (r *Report) Title() string {
	return r.Feed.Title() + " Report"
}

// CSVFilename returns the suggested CSV download name.
func (r *Report) CSVFilename() string {
	return fmt.Sprintf("%s_Report_%s_to_%s.csv", r.Feed.Title(), r.StartDate, r.EndDate)
}

// HTMLFilename returns the file name used for the printable document.
func (r *Report) HTMLFilename() string {
	return fmt.Sprintf("%s_Report_%s_to_%s.html", r.Feed.Title(), r.StartDate, r.EndDate)
}

func kindLabel(k activity.Kind) string {
	switch k {
	case activity.KindInvoice:
		return "Invoice"
	case activity.KindBill:
		return "Bill"
	case activity.KindManual:
		return "Manual"
	}
	return string(k)
}
