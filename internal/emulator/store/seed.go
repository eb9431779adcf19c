package store

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jeffersonbalde/CPC-Accounting-System-client-sub001/pkg/ledger"
)

// Demo chart of accounts.
var demoAccounts = []ledger.Account{
	{Code: "1000", Name: "Cash", Category: "asset", IsActive: true},
	{Code: "1100", Name: "Accounts Receivable", Category: "asset", IsActive: true},
	{Code: "2000", Name: "Accounts Payable", Category: "liability", IsActive: true},
	{Code: "4000", Name: "Service Revenue", Category: "revenue", IsActive: true},
	{Code: "4100", Name: "Interest Income", Category: "revenue", IsActive: true},
	{Code: "5000", Name: "Office Supplies", Category: "expense", IsActive: true},
	{Code: "5500", Name: "Utilities", Category: "expense", IsActive: true},
	{Code: "6100", Name: "Rent", Category: "expense", IsActive: true},
	{Code: "6900", Name: "Old Expenses", Category: "expense", IsActive: false},
}

// SeedDemo fills an empty store with a month of invoices, bills and journal
// entries ending at now. It is a no-op when accounts already exist.
func (s *Store) SeedDemo(now time.Time) error {
	existing, err := s.ListAccounts("", false)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	accounts := make(map[string]ledger.Account, len(demoAccounts))
	for _, a := range demoAccounts {
		a := a
		if err := s.CreateAccount(&a); err != nil {
			return err
		}
		accounts[a.Code] = a
	}

	day := func(offset int) string {
		return now.AddDate(0, 0, -offset).Format("2006-01-02")
	}
	line := func(code string, debit, credit string) ledger.JournalLine {
		a := accounts[code]
		return ledger.JournalLine{
			AccountID:    a.ID,
			Account:      a,
			DebitAmount:  decimal.RequireFromString(debit),
			CreditAmount: decimal.RequireFromString(credit),
		}
	}
	admin := &ledger.Person{ID: 1, Name: "Admin"}

	clients := []string{"Northwind Traders", "Contoso Ltd", "Fabrikam Inc"}
	for i, client := range clients {
		amount := fmt.Sprintf("%d.00", (i+1)*1250)
		number := fmt.Sprintf("INV-%04d", i+1)

		entry := &ledger.JournalEntry{
			Date:            day(20 - i*5),
			Description:     "Invoice " + number,
			ReferenceNumber: number,
			Lines:           []ledger.JournalLine{line("1100", amount, "0"), line("4000", "0", amount)},
			Audit:           ledger.Audit{CreatedBy: admin},
		}
		if err := s.CreateJournalEntry(entry); err != nil {
			return err
		}

		income := accounts["4000"]
		if err := s.CreateInvoice(&ledger.Invoice{
			InvoiceNumber:  number,
			InvoiceDate:    entry.Date,
			TotalAmount:    decimal.RequireFromString(amount),
			Description:    "Consulting services",
			JournalEntryID: &entry.ID,
			Client:         &ledger.Party{Name: client},
			IncomeAccount:  &income,
			Audit:          ledger.Audit{CreatedBy: admin},
		}); err != nil {
			return err
		}
	}

	suppliers := []struct {
		name, code, amount string
	}{
		{"City Power", "5500", "310.45"},
		{"Paper Street Supply", "5000", "89.90"},
	}
	for i, sup := range suppliers {
		number := fmt.Sprintf("BILL-%04d", i+1)

		entry := &ledger.JournalEntry{
			Date:            day(18 - i*6),
			Description:     "Bill " + number,
			ReferenceNumber: number,
			Lines:           []ledger.JournalLine{line(sup.code, sup.amount, "0"), line("2000", "0", sup.amount)},
			Audit:           ledger.Audit{CreatedBy: admin},
		}
		if err := s.CreateJournalEntry(entry); err != nil {
			return err
		}

		if err := s.CreateBill(&ledger.Bill{
			BillNumber:     number,
			BillDate:       entry.Date,
			TotalAmount:    decimal.RequireFromString(sup.amount),
			JournalEntryID: &entry.ID,
			Supplier:       &ledger.Party{CompanyName: sup.name},
			Audit:          ledger.Audit{CreatedBy: admin},
		}); err != nil {
			return err
		}
	}

	// Entries recorded directly in the journal, without a source document.
	manual := []*ledger.JournalEntry{
		{
			Date:        day(12),
			Description: "Monthly office rent",
			Lines:       []ledger.JournalLine{line("6100", "1800.00", "0"), line("1000", "0", "1800.00")},
		},
		{
			Date:        day(3),
			Description: "Bank interest",
			Lines:       []ledger.JournalLine{line("1000", "12.37", "0"), line("4100", "0", "12.37")},
		},
	}
	for _, entry := range manual {
		entry.Audit = ledger.Audit{CreatedBy: admin}
		if err := s.CreateJournalEntry(entry); err != nil {
			return err
		}
	}

	return nil
}
