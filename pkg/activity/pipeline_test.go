package activity

import (
	"fmt"
	"testing"
)

func feedFixture(n int) []Transaction {
	txns := make([]Transaction, 0, n)
	for i := 1; i <= n; i++ {
		account := "4000"
		if i%2 == 0 {
			account = "4100"
		}
		txns = append(txns, Transaction{
			ID:               fmt.Sprintf("invoice-%d", i),
			Kind:             KindInvoice,
			Date:             fmt.Sprintf("2024-01-%02d", i),
			AccountCode:      account,
			CounterpartyName: fmt.Sprintf("Client %c", 'A'+rune(i%26)),
			Amount:           dec(fmt.Sprintf("%d", i*10)),
			Description:      fmt.Sprintf("Invoice number %d", i),
			Reference:        fmt.Sprintf("INV-%d", i),
		})
	}
	return txns
}

func TestApplyPagination(t *testing.T) {
	txns := feedFixture(23)

	q := DefaultQuery()
	q.SortField = ""

	tests := []struct {
		page     int
		rows     int
		from, to int
	}{
		{1, 10, 1, 10},
		{2, 10, 11, 20},
		{3, 3, 21, 23},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("page %d", tt.page), func(t *testing.T) {
			q.Page = tt.page
			result := Apply(txns, q)

			if len(result.Rows) != tt.rows {
				t.Errorf("got %d rows, expected %d", len(result.Rows), tt.rows)
			}
			meta := result.Meta
			if meta.LastPage != 3 || meta.Total != 23 || meta.CurrentPage != tt.page {
				t.Errorf("unexpected meta: %+v", meta)
			}
			if meta.From != tt.from || meta.To != tt.to {
				t.Errorf("from/to = %d/%d, expected %d/%d", meta.From, meta.To, tt.from, tt.to)
			}
		})
	}
}

func TestApplyEmpty(t *testing.T) {
	result := Apply(nil, DefaultQuery())
	if len(result.Rows) != 0 {
		t.Errorf("expected no rows, got %d", len(result.Rows))
	}
	if result.Meta.From != 0 || result.Meta.To != 0 || result.Meta.Total != 0 || result.Meta.LastPage != 0 {
		t.Errorf("unexpected meta for empty feed: %+v", result.Meta)
	}
}

func TestApplyPageBeyondLast(t *testing.T) {
	q := DefaultQuery()
	q.Page = 9
	result := Apply(feedFixture(12), q)
	if result.Meta.CurrentPage != 2 || len(result.Rows) != 2 {
		t.Errorf("expected clamp to page 2 with 2 rows, got page %d with %d rows", result.Meta.CurrentPage, len(result.Rows))
	}
}

func TestApplyFilters(t *testing.T) {
	txns := feedFixture(23)

	tests := []struct {
		name     string
		mutate   func(q *Query)
		expected int
	}{
		{"no filter", func(q *Query) {}, 23},
		{"account", func(q *Query) { q.SetAccount("4100") }, 11},
		{"account all", func(q *Query) { q.SetAccount(AllAccounts) }, 23},
		{"date range inclusive", func(q *Query) { q.SetDateRange("2024-01-05", "2024-01-07") }, 3},
		{"start only", func(q *Query) { q.SetDateRange("2024-01-20", "") }, 4},
		{"search reference", func(q *Query) { q.SetSearch("inv-2") }, 5},
		{"search counterparty case-insensitive", func(q *Query) { q.SetSearch("client b") }, 1},
		{"search description", func(q *Query) { q.SetSearch("NUMBER 17") }, 1},
		{"combined", func(q *Query) {
			q.SetAccount("4000")
			q.SetSearch("inv-1")
		}, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := DefaultQuery()
			q.PageSize = 100
			tt.mutate(&q)
			result := Apply(txns, q)
			if result.Meta.Total != tt.expected {
				t.Errorf("filter matched %d, expected %d", result.Meta.Total, tt.expected)
			}
		})
	}
}

func TestDateRangeUsesPrefix(t *testing.T) {
	txns := []Transaction{
		{ID: "a", Date: "2024-01-31T23:59:59.000000Z"},
		{ID: "b", Date: "2024-02-01 00:00:00"},
	}
	q := DefaultQuery()
	q.SetDateRange("2024-01-01", "2024-01-31")

	result := Apply(txns, q)
	if len(result.Rows) != 1 || result.Rows[0].ID != "a" {
		t.Errorf("expected only a, got %+v", result.Rows)
	}
}

func TestSortAmountRoundTrip(t *testing.T) {
	txns := feedFixture(15)
	q := DefaultQuery()
	q.PageSize = 50

	q.ToggleSort("amount")
	if q.SortDir != SortAsc {
		t.Fatalf("new sort field should start ascending, got %s", q.SortDir)
	}
	asc := Apply(txns, q).Rows

	q.ToggleSort("amount")
	if q.SortDir != SortDesc {
		t.Fatalf("second toggle should flip to descending, got %s", q.SortDir)
	}
	desc := Apply(txns, q).Rows

	if len(asc) != len(desc) {
		t.Fatalf("length mismatch: %d vs %d", len(asc), len(desc))
	}
	for i := range asc {
		if asc[i].ID != desc[len(desc)-1-i].ID {
			t.Errorf("position %d: asc %s vs reversed desc %s", i, asc[i].ID, desc[len(desc)-1-i].ID)
		}
	}
}

func TestFilterThenClearRestoresFirstPage(t *testing.T) {
	txns := feedFixture(23)
	q := DefaultQuery()

	before := Apply(txns, q)

	q.Page = 3
	q.SetSearch("client c")
	if q.Page != 1 {
		t.Errorf("SetSearch did not reset page, got %d", q.Page)
	}
	filtered := Apply(txns, q)
	if filtered.Meta.Total >= before.Meta.Total {
		t.Fatalf("search did not narrow the feed")
	}

	q.SetSearch("")
	after := Apply(txns, q)

	if len(after.Rows) != len(before.Rows) || after.Meta != before.Meta {
		t.Fatalf("clearing the filter changed the view: %+v vs %+v", after.Meta, before.Meta)
	}
	for i := range before.Rows {
		if before.Rows[i].ID != after.Rows[i].ID {
			t.Errorf("row %d: %s vs %s", i, before.Rows[i].ID, after.Rows[i].ID)
		}
	}
}

func TestSortFields(t *testing.T) {
	txns := []Transaction{
		{ID: "1", Date: "2024-03-01", Description: "beta", CounterpartyName: "zeta", AccountCode: "6100", Reference: "INV-9"},
		{ID: "2", Date: "", Description: "Alpha", CounterpartyName: "Eta", AccountCode: "4000", Reference: "10"},
		{ID: "3", Date: "2024-01-01", Description: "gamma", CounterpartyName: "alpha", AccountCode: "5000", Reference: "2"},
	}

	tests := []struct {
		field    string
		expected string
	}{
		{"date", "231"},
		{"description", "213"},
		{"counterpartyName", "321"},
		{"accountCode", "231"},
		{"reference", "132"},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			sorted := append([]Transaction(nil), txns...)
			Sort(sorted, tt.field, SortAsc)
			got := ""
			for _, tx := range sorted {
				got += tx.ID
			}
			if got != tt.expected {
				t.Errorf("Sort(%s) = %s, expected %s", tt.field, got, tt.expected)
			}
		})
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	txns := feedFixture(5)
	q := DefaultQuery()
	q.ToggleSort("amount")
	q.ToggleSort("amount")

	Apply(txns, q)
	for i, tx := range txns {
		if tx.ID != fmt.Sprintf("invoice-%d", i+1) {
			t.Fatalf("input order changed at %d: %s", i, tx.ID)
		}
	}
}

func TestLeadingFloat(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{"4010", 4010},
		{"12.5abc", 12.5},
		{"  -3", -3},
		{"INV-100", 0},
		{"", 0},
		{".5", 0.5},
	}

	for _, tt := range tests {
		if got := leadingFloat(tt.input); got != tt.expected {
			t.Errorf("leadingFloat(%q) = %v, expected %v", tt.input, got, tt.expected)
		}
	}
}
