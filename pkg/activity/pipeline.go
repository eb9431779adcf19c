package activity

import (
	"cmp"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// SortDir is a sort direction.
type SortDir string

const (
	SortAsc  SortDir = "asc"
	SortDesc SortDir = "desc"
)

// AllAccounts disables the account filter.
const AllAccounts = "all"

// DefaultPageSize is used when a query carries no page size.
const DefaultPageSize = 10

// Query holds the live filter, sort and page state of a feed view.
// The setters reset Page to 1, since any change invalidates the current page.
type Query struct {
	Search    string
	Account   string
	StartDate string // YYYY-MM-DD, inclusive
	EndDate   string // YYYY-MM-DD, inclusive
	SortField string
	SortDir   SortDir
	Page      int
	PageSize  int
}

// DefaultQuery returns the initial view: every account, newest first.
func DefaultQuery() Query {
	return Query{
		Account:   AllAccounts,
		SortField: "date",
		SortDir:   SortDesc,
		Page:      1,
		PageSize:  DefaultPageSize,
	}
}

func (q *Query) SetSearch(search string) {
	q.Search = search
	q.Page = 1
}

func (q *Query) SetAccount(code string) {
	q.Account = code
	q.Page = 1
}

func (q *Query) SetDateRange(start, end string) {
	q.StartDate = start
	q.EndDate = end
	q.Page = 1
}

func (q *Query) SetPageSize(size int) {
	q.PageSize = size
	q.Page = 1
}

// ToggleSort flips the direction when field is already the sort field,
// otherwise sorts ascending by the new field.
func (q *Query) ToggleSort(field string) {
	if q.SortField == field {
		if q.SortDir == SortAsc {
			q.SortDir = SortDesc
		} else {
			q.SortDir = SortAsc
		}
	} else {
		q.SortField = field
		q.SortDir = SortAsc
	}
	q.Page = 1
}

// Meta describes the page returned by Apply.
type Meta struct {
	CurrentPage int `json:"currentPage"`
	LastPage    int `json:"lastPage"`
	Total       int `json:"total"`
	From        int `json:"from"`
	To          int `json:"to"`
}

// Result is one page of a filtered, sorted feed.
type Result struct {
	Rows     []Transaction
	Filtered []Transaction
	Meta     Meta
}

// Apply filters, sorts and paginates txns. The input slice is not modified.
func Apply(txns []Transaction, q Query) Result {
	filtered := Filter(txns, q)
	Sort(filtered, q.SortField, q.SortDir)

	size := q.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}

	total := len(filtered)
	lastPage := (total + size - 1) / size

	page := q.Page
	if page < 1 {
		page = 1
	}
	if lastPage > 0 && page > lastPage {
		page = lastPage
	}

	start := (page - 1) * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}

	from := 0
	if total > 0 {
		from = start + 1
	}

	return Result{
		Rows:     filtered[start:end],
		Filtered: filtered,
		Meta: Meta{
			CurrentPage: page,
			LastPage:    lastPage,
			Total:       total,
			From:        from,
			To:          end,
		},
	}
}

// Filter returns the transactions matching the query's account, date and search filters.
func Filter(txns []Transaction, q Query) []Transaction {
	search := strings.ToLower(strings.TrimSpace(q.Search))

	out := make([]Transaction, 0, len(txns))
	for _, t := range txns {
		if q.Account != "" && q.Account != AllAccounts && t.AccountCode != q.Account {
			continue
		}
		if !InDateRange(t.Date, q.StartDate, q.EndDate) {
			continue
		}
		if search != "" && !matchesSearch(t, search) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func matchesSearch(t Transaction, needle string) bool {
	return strings.Contains(strings.ToLower(t.CounterpartyName), needle) ||
		strings.Contains(strings.ToLower(t.Description), needle) ||
		strings.Contains(strings.ToLower(t.Reference), needle)
}

// Sort orders txns in place.
// date sorts chronologically, description and counterpartyName
// case-insensitively, and every other field numerically.
func Sort(txns []Transaction, field string, dir SortDir) {
	if field == "" {
		return
	}

	compare := func(a, b Transaction) int {
		switch field {
		case "date":
			return cmp.Compare(epoch(a.Date), epoch(b.Date))
		case "description":
			return strings.Compare(strings.ToLower(a.Description), strings.ToLower(b.Description))
		case "counterpartyName":
			return strings.Compare(strings.ToLower(a.CounterpartyName), strings.ToLower(b.CounterpartyName))
		case "amount":
			return a.Amount.Cmp(b.Amount)
		default:
			return cmp.Compare(leadingFloat(fieldValue(a, field)), leadingFloat(fieldValue(b, field)))
		}
	}

	sort.SliceStable(txns, func(i, j int) bool {
		c := compare(txns[i], txns[j])
		if dir == SortDesc {
			return c > 0
		}
		return c < 0
	})
}

func fieldValue(t Transaction, field string) string {
	switch field {
	case "id":
		return t.ID
	case "kind":
		return string(t.Kind)
	case "accountCode":
		return t.AccountCode
	case "accountName":
		return t.AccountName
	case "reference":
		return t.Reference
	case "status":
		if t.Status != nil {
			return *t.Status
		}
	case "journalEntryId":
		if t.JournalEntryID != nil {
			return strconv.FormatInt(*t.JournalEntryID, 10)
		}
	}
	return ""
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// epoch returns the Unix milliseconds of a date string, or 0 when it cannot be parsed.
func epoch(date string) int64 {
	date = strings.TrimSpace(date)
	if date == "" {
		return 0
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, date); err == nil {
			return t.UnixMilli()
		}
	}
	return 0
}

var leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// leadingFloat parses the numeric prefix of s, returning 0 when there is none.
func leadingFloat(s string) float64 {
	m := leadingNumber.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0
	}
	return f
}
