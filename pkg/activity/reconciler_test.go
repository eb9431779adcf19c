package activity

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/jeffersonbalde/CPC-Accounting-System-client-sub001/pkg/ledger"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func i64(v int64) *int64 {
	return &v
}

var (
	salesAccount   = ledger.Account{Code: "4000", Name: "Sales", Category: "revenue"}
	serviceAccount = ledger.Account{Code: "4100", Name: "Service Income", Category: "revenue"}
	arAccount      = ledger.Account{Code: "1100", Name: "Accounts Receivable", Category: "asset"}
	cashAccount    = ledger.Account{Code: "1000", Name: "Cash", Category: "asset"}
	rentAccount    = ledger.Account{Code: "6100", Name: "Rent", Category: "expense"}
	apAccount      = ledger.Account{Code: "2000", Name: "Accounts Payable", Category: "liability"}
)

func revenueEntry(id int64, ref string, account ledger.Account, amount string) ledger.JournalEntry {
	return ledger.JournalEntry{
		ID:              id,
		EntryNumber:     fmt.Sprintf("JE-%04d", id),
		Date:            "2024-01-15",
		ReferenceNumber: ref,
		Lines: []ledger.JournalLine{
			{ID: id*10 + 1, Account: cashAccount, DebitAmount: dec(amount)},
			{ID: id*10 + 2, Account: account, CreditAmount: dec(amount)},
		},
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		line     ledger.JournalLine
		expected Classification
	}{
		{"revenue credit", ledger.JournalLine{Account: salesAccount, CreditAmount: dec("10")}, Classification{IsRevenue: true}},
		{"revenue debit", ledger.JournalLine{Account: salesAccount, DebitAmount: dec("10")}, Classification{}},
		{"expense debit", ledger.JournalLine{Account: rentAccount, DebitAmount: dec("10")}, Classification{IsExpense: true}},
		{"expense credit", ledger.JournalLine{Account: rentAccount, CreditAmount: dec("10")}, Classification{}},
		{"uppercase category", ledger.JournalLine{Account: ledger.Account{Code: "4000", Category: "Revenue"}, CreditAmount: dec("1")}, Classification{IsRevenue: true}},
		{"asset", ledger.JournalLine{Account: cashAccount, DebitAmount: dec("10")}, Classification{}},
		{"no category", ledger.JournalLine{Account: ledger.Account{Code: "9"}, CreditAmount: dec("10")}, Classification{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.line); got != tt.expected {
				t.Errorf("Classify() = %+v, expected %+v", got, tt.expected)
			}
		})
	}
}

func TestReconcileInvoiceWithLinkedEntry(t *testing.T) {
	invoice := ledger.Invoice{
		ID:             1,
		InvoiceNumber:  "INV-100",
		InvoiceDate:    "2024-01-15",
		TotalAmount:    dec("5000"),
		JournalEntryID: i64(7),
		Client:         &ledger.Party{Name: "Acme"},
	}
	entry := revenueEntry(7, "INV-100", salesAccount, "5000")

	r := NewReconciler(DefaultRules(), nil, nil)
	txns := r.Reconcile(FeedIncome, []ledger.SourceDocument{invoice}, []ledger.JournalEntry{entry})

	if len(txns) != 1 {
		t.Fatalf("Reconcile() returned %d transactions, expected 1: %+v", len(txns), txns)
	}
	got := txns[0]
	if got.ID != "invoice-1" || got.Kind != KindInvoice {
		t.Errorf("unexpected transaction identity: %s / %s", got.ID, got.Kind)
	}
	if !got.Amount.Equal(dec("5000")) || got.Reference != "INV-100" || got.CounterpartyName != "Acme" {
		t.Errorf("unexpected invoice transaction: %+v", got)
	}
	// Account comes from the linked entry when the invoice carries none.
	if got.AccountCode != "4000" || got.AccountName != "Sales" {
		t.Errorf("account = %s %s, expected 4000 Sales", got.AccountCode, got.AccountName)
	}
}

func TestReconcileManualEntry(t *testing.T) {
	entry := revenueEntry(9, "ADJ-1", salesAccount, "1200")

	r := NewReconciler(DefaultRules(), nil, nil)
	txns := r.Reconcile(FeedIncome, nil, []ledger.JournalEntry{entry})

	if len(txns) != 1 {
		t.Fatalf("Reconcile() returned %d transactions, expected 1", len(txns))
	}
	got := txns[0]
	if got.Kind != KindManual || got.ID != "journal-9-92" {
		t.Errorf("unexpected manual identity: %s / %s", got.ID, got.Kind)
	}
	if !got.Amount.Equal(dec("1200")) {
		t.Errorf("Amount = %s, expected 1200", got.Amount)
	}
	if got.Description != "Manual income entry" || got.Reference != "ADJ-1" {
		t.Errorf("fallbacks = %q / %q", got.Description, got.Reference)
	}
	if got.JournalEntryID == nil || *got.JournalEntryID != 9 {
		t.Errorf("JournalEntryID = %v, expected 9", got.JournalEntryID)
	}
}

func TestReconcileExpenseFeed(t *testing.T) {
	bill := ledger.Bill{
		ID:             3,
		BillNumber:     "BILL-3",
		BillDate:       "2024-02-01",
		TotalAmount:    dec("800"),
		JournalEntryID: i64(20),
		ExpenseAccount: &rentAccount,
		Supplier:       &ledger.Party{CompanyName: "Landlord Inc"},
	}
	billEntry := ledger.JournalEntry{
		ID: 20, ReferenceNumber: "BILL-3",
		Lines: []ledger.JournalLine{
			{ID: 1, Account: rentAccount, DebitAmount: dec("800")},
			{ID: 2, Account: apAccount, CreditAmount: dec("800")},
		},
	}
	manualEntry := ledger.JournalEntry{
		ID: 21, EntryNumber: "JE-0021", Description: "Office supplies",
		Lines: []ledger.JournalLine{
			{ID: 5, Account: rentAccount, DebitAmount: dec("45.50")},
			{ID: 6, Account: cashAccount, CreditAmount: dec("45.50")},
		},
	}
	incomeEntry := revenueEntry(22, "", salesAccount, "99")

	r := NewReconciler(DefaultRules(), nil, nil)
	txns := r.Reconcile(FeedExpenses,
		[]ledger.SourceDocument{bill},
		[]ledger.JournalEntry{billEntry, manualEntry, incomeEntry},
	)

	if len(txns) != 2 {
		t.Fatalf("Reconcile() returned %d transactions, expected 2: %+v", len(txns), txns)
	}
	if txns[0].Kind != KindBill || txns[0].CounterpartyName != "Landlord Inc" || txns[0].AccountCode != "6100" {
		t.Errorf("unexpected bill transaction: %+v", txns[0])
	}
	manual := txns[1]
	if manual.Kind != KindManual || manual.Description != "Office supplies" || manual.Reference != "JE-0021" {
		t.Errorf("unexpected manual transaction: %+v", manual)
	}
	if !manual.Amount.Equal(dec("45.5")) {
		t.Errorf("manual Amount = %s, expected 45.5", manual.Amount)
	}
}

func TestReconcileReferencePrefixFromOtherFeed(t *testing.T) {
	// A revenue line on an entry created by a bill must not surface as manual income.
	entry := revenueEntry(30, "BILL-77", serviceAccount, "60")

	r := NewReconciler(DefaultRules(), nil, nil)
	txns := r.Reconcile(FeedIncome, nil, []ledger.JournalEntry{entry})
	if len(txns) != 0 {
		t.Errorf("expected no transactions, got %+v", txns)
	}

	custom := Rules{ReferencePrefixes: []ReferenceRule{{Name: "sales-order", Prefix: "SO-"}}}
	r = NewReconciler(custom, nil, nil)
	txns = r.Reconcile(FeedIncome, nil, []ledger.JournalEntry{entry, revenueEntry(31, "SO-1", salesAccount, "5")})
	if len(txns) != 1 || txns[0].Reference != "BILL-77" {
		t.Errorf("custom rules: expected only the BILL-77 entry, got %+v", txns)
	}
}

func TestReconcileSameAccountTwiceOnOneEntry(t *testing.T) {
	entry := ledger.JournalEntry{
		ID: 40, ReferenceNumber: "ADJ-40",
		Lines: []ledger.JournalLine{
			{ID: 1, Account: salesAccount, CreditAmount: dec("100"), Description: "first"},
			{ID: 2, Account: salesAccount, CreditAmount: dec("50"), Description: "second"},
			{ID: 3, Account: serviceAccount, CreditAmount: dec("25")},
			{ID: 4, Account: arAccount, DebitAmount: dec("175")},
		},
	}

	r := NewReconciler(DefaultRules(), nil, nil)
	txns := r.Reconcile(FeedIncome, nil, []ledger.JournalEntry{entry})

	if len(txns) != 2 {
		t.Fatalf("Reconcile() returned %d transactions, expected 2: %+v", len(txns), txns)
	}
	if txns[0].Description != "first" || txns[1].AccountCode != "4100" {
		t.Errorf("unexpected rows: %+v", txns)
	}
}

func TestReconcileSkipsEntriesWithoutLines(t *testing.T) {
	r := NewReconciler(DefaultRules(), nil, nil)
	txns := r.Reconcile(FeedIncome, nil, []ledger.JournalEntry{{ID: 1, ReferenceNumber: "ADJ"}})
	if len(txns) != 0 {
		t.Errorf("expected no transactions, got %d", len(txns))
	}
}

func TestReconcileUsesChartCategory(t *testing.T) {
	entry := ledger.JournalEntry{
		ID: 50,
		Lines: []ledger.JournalLine{
			{ID: 1, Account: ledger.Account{Code: "4200"}, CreditAmount: dec("10")},
			{ID: 2, Account: ledger.Account{Code: "4300"}, CreditAmount: dec("20")},
		},
	}
	chart := NewChart([]ledger.Account{
		{Code: "4200", Name: "Interest Income", Category: "revenue"},
		{Code: "4300", Name: "Other", Category: "equity"},
	})
	rules := DefaultRules()
	rules.CategoryOverrides = map[string]string{"4300": "revenue"}

	r := NewReconciler(rules, chart, nil)
	txns := r.Reconcile(FeedIncome, nil, []ledger.JournalEntry{entry})

	if len(txns) != 2 {
		t.Fatalf("Reconcile() returned %d transactions, expected 2", len(txns))
	}
	if txns[0].AccountName != "Interest Income" {
		t.Errorf("AccountName = %q, expected chart name", txns[0].AccountName)
	}
	if txns[1].AccountCode != "4300" {
		t.Errorf("override did not classify 4300 as revenue: %+v", txns[1])
	}
}

func mixedFixture() ([]ledger.SourceDocument, []ledger.JournalEntry) {
	var docs []ledger.SourceDocument
	var entries []ledger.JournalEntry

	for i := int64(1); i <= 12; i++ {
		amount := fmt.Sprintf("%d.25", i*100)
		if i%3 == 0 {
			entries = append(entries, revenueEntry(i, fmt.Sprintf("ADJ-%d", i), serviceAccount, amount))
			continue
		}
		docs = append(docs, ledger.Invoice{
			ID:             i,
			InvoiceNumber:  fmt.Sprintf("INV-%d", i),
			InvoiceDate:    "2024-03-01",
			TotalAmount:    dec(amount),
			JournalEntryID: i64(i),
			IncomeAccount:  &salesAccount,
		})
		entries = append(entries, revenueEntry(i, fmt.Sprintf("INV-%d", i), salesAccount, amount))
	}
	// An entry without an explicit back-reference but sharing the id space.
	entries = append(entries, ledger.JournalEntry{
		ID: 2,
		Lines: []ledger.JournalLine{
			{ID: 900, Account: serviceAccount, CreditAmount: dec("1")},
		},
	})
	return docs, entries
}

func TestReconcileNoDoubleCounting(t *testing.T) {
	docs, entries := mixedFixture()
	txns := NewReconciler(DefaultRules(), nil, nil).Reconcile(FeedIncome, docs, entries)

	seen := make(map[string]string)
	ids := make(map[string]bool)
	for _, tx := range txns {
		if ids[tx.ID] {
			t.Errorf("duplicate id %s", tx.ID)
		}
		ids[tx.ID] = true

		if tx.JournalEntryID == nil {
			continue
		}
		key := fmt.Sprintf("%d|%s", *tx.JournalEntryID, tx.AccountCode)
		if prev, dup := seen[key]; dup {
			t.Errorf("transactions %s and %s share entry/account %s", prev, tx.ID, key)
		}
		seen[key] = tx.ID
	}

	if len(txns) != 12 {
		t.Errorf("Reconcile() returned %d transactions, expected 12", len(txns))
	}
}

func TestReconcileConservation(t *testing.T) {
	docs, entries := mixedFixture()
	r := NewReconciler(DefaultRules(), nil, nil)

	forward := r.Reconcile(FeedIncome, docs, entries)

	reversedDocs := make([]ledger.SourceDocument, len(docs))
	for i, d := range docs {
		reversedDocs[len(docs)-1-i] = d
	}
	reversedEntries := make([]ledger.JournalEntry, len(entries))
	for i, e := range entries {
		reversedEntries[len(entries)-1-i] = e
	}
	backward := r.Reconcile(FeedIncome, reversedDocs, reversedEntries)

	sum := decimal.Zero
	for _, tx := range forward {
		sum = sum.Add(tx.Amount)
	}

	if total := Aggregate(forward).Total; !total.Equal(sum) {
		t.Errorf("Aggregate total %s != sum of amounts %s", total, sum)
	}
	if total := Aggregate(backward).Total; !total.Equal(sum) {
		t.Errorf("total depends on merge order: %s != %s", total, sum)
	}
}

func TestReconcileIdempotent(t *testing.T) {
	docs, entries := mixedFixture()
	r := NewReconciler(DefaultRules(), nil, nil)

	first := r.Reconcile(FeedIncome, docs, entries)
	second := r.Reconcile(FeedIncome, docs, entries)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("reconciling the same input twice produced different feeds")
	}
}
