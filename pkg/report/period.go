// Package report resolves reporting periods and renders period reports of a
// reconciled feed as printable HTML and CSV.
package report

import (
	"fmt"
	"strings"
	"time"
)

// Period names a reporting window.
type Period string

const (
	Today     Period = "today"
	ThisWeek  Period = "this_week"
	ThisMonth Period = "this_month"
	LastMonth Period = "last_month"
	ThisYear  Period = "this_year"
	Custom    Period = "custom"
)

const dateLayout = "2006-01-02"

var periodLabels = map[Period]string{
	Today:     "Today",
	ThisWeek:  "This Week",
	ThisMonth: "This Month",
	LastMonth: "Last Month",
	ThisYear:  "This Year",
	Custom:    "Custom Range",
}

// ParsePeriod parses a period name.
func ParsePeriod(s string) (Period, error) {
	p := Period(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := periodLabels[p]; !ok {
		return "", &ValidationError{Field: "period", Message: fmt.Sprintf("unknown period %q", s)}
	}
	return p, nil
}

// Label returns the display name of the period.
func (p Period) Label() string {
	if label, ok := periodLabels[p]; ok {
		return label
	}
	return string(p)
}

// Range is an inclusive YYYY-MM-DD date range.
type Range struct {
	Start string
	End   string
}

// ValidationError reports an unusable report request. No artifact is produced.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Resolve turns a period into a concrete date range in now's local calendar.
// custom is only read for the Custom period, and both of its bounds are required.
func Resolve(period Period, custom *Range, now time.Time) (Range, error) {
	y, m, d := now.Date()
	loc := now.Location()
	today := time.Date(y, m, d, 0, 0, 0, 0, loc)
	firstOfMonth := time.Date(y, m, 1, 0, 0, 0, 0, loc)

	switch period {
	case Today:
		return span(today, today), nil
	case ThisWeek:
		// Weeks start on Monday.
		offset := (int(today.Weekday()) + 6) % 7
		return span(today.AddDate(0, 0, -offset), today), nil
	case ThisMonth:
		return span(firstOfMonth, today), nil
	case LastMonth:
		return span(firstOfMonth.AddDate(0, -1, 0), firstOfMonth.AddDate(0, 0, -1)), nil
	case ThisYear:
		return span(time.Date(y, time.January, 1, 0, 0, 0, 0, loc), today), nil
	case Custom:
		return resolveCustom(custom)
	}

	return Range{}, &ValidationError{Field: "period", Message: fmt.Sprintf("unknown period %q", period)}
}

func resolveCustom(custom *Range) (Range, error) {
	if custom == nil || strings.TrimSpace(custom.Start) == "" {
		return Range{}, &ValidationError{Field: "start", Message: "custom period requires a start date"}
	}
	if strings.TrimSpace(custom.End) == "" {
		return Range{}, &ValidationError{Field: "end", Message: "custom period requires an end date"}
	}

	start, err := time.Parse(dateLayout, strings.TrimSpace(custom.Start))
	if err != nil {
		return Range{}, &ValidationError{Field: "start", Message: fmt.Sprintf("expected YYYY-MM-DD, got %q", custom.Start)}
	}
	end, err := time.Parse(dateLayout, strings.TrimSpace(custom.End))
	if err != nil {
		return Range{}, &ValidationError{Field: "end", Message: fmt.Sprintf("expected YYYY-MM-DD, got %q", custom.End)}
	}
	if end.Before(start) {
		return Range{}, &ValidationError{Field: "end", Message: "end date is before start date"}
	}

	return span(start, end), nil
}

func span(start, end time.Time) Range {
	return Range{Start: start.Format(dateLayout), End: end.Format(dateLayout)}
}
