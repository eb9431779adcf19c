package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/jeffersonbalde/CPC-Accounting-System-client-sub001/pkg/ledger"
)

// CreateAccount stores a chart-of-accounts entry and assigns its ID.
func (s *Store) CreateAccount(a *ledger.Account) error {
	id, err := s.NextID(BucketAccounts)
	if err != nil {
		return fmt.Errorf("failed to generate ID: %w", err)
	}
	a.ID = id

	if err := s.Put(BucketAccounts, id, a); err != nil {
		return fmt.Errorf("failed to save account: %w", err)
	}
	return nil
}

// ListAccounts lists accounts, optionally only active ones of one category.
func (s *Store) ListAccounts(category string, activeOnly bool) ([]ledger.Account, error) {
	return list(s, BucketAccounts, func(a ledger.Account) bool {
		if activeOnly && !a.IsActive {
			return false
		}
		return category == "" || strings.EqualFold(a.Category, category)
	})
}

// CreateInvoice stores an invoice and assigns its ID.
func (s *Store) CreateInvoice(inv *ledger.Invoice) error {
	id, err := s.NextID(BucketInvoices)
	if err != nil {
		return fmt.Errorf("failed to generate ID: %w", err)
	}
	inv.ID = id
	stamp(&inv.Audit)

	if err := s.Put(BucketInvoices, id, inv); err != nil {
		return fmt.Errorf("failed to save invoice: %w", err)
	}
	return nil
}

// ListInvoices lists invoices in creation order.
func (s *Store) ListInvoices() ([]ledger.Invoice, error) {
	return list[ledger.Invoice](s, BucketInvoices, nil)
}

// CreateBill stores a bill and assigns its ID.
func (s *Store) CreateBill(bill *ledger.Bill) error {
	id, err := s.NextID(BucketBills)
	if err != nil {
		return fmt.Errorf("failed to generate ID: %w", err)
	}
	bill.ID = id
	stamp(&bill.Audit)

	if err := s.Put(BucketBills, id, bill); err != nil {
		return fmt.Errorf("failed to save bill: %w", err)
	}
	return nil
}

// ListBills lists bills in creation order.
func (s *Store) ListBills() ([]ledger.Bill, error) {
	return list[ledger.Bill](s, BucketBills, nil)
}

// CreateJournalEntry stores a journal entry and assigns IDs to it and its lines.
// A missing entry number becomes JE-{id}.
func (s *Store) CreateJournalEntry(e *ledger.JournalEntry) error {
	id, err := s.NextID(BucketJournalEntries)
	if err != nil {
		return fmt.Errorf("failed to generate ID: %w", err)
	}
	e.ID = id
	if e.EntryNumber == "" {
		e.EntryNumber = fmt.Sprintf("JE-%d", id)
	}

	for i := range e.Lines {
		lineID, err := s.NextID(BucketJournalLines)
		if err != nil {
			return fmt.Errorf("failed to generate line ID: %w", err)
		}
		e.Lines[i].ID = lineID
	}
	stamp(&e.Audit)

	if err := s.Put(BucketJournalEntries, id, e); err != nil {
		return fmt.Errorf("failed to save journal entry: %w", err)
	}
	return nil
}

// GetJournalEntry retrieves a journal entry by ID.
func (s *Store) GetJournalEntry(id int64) (*ledger.JournalEntry, error) {
	var entry ledger.JournalEntry
	if err := s.Get(BucketJournalEntries, id, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListJournalEntries lists journal entries in creation order.
func (s *Store) ListJournalEntries() ([]ledger.JournalEntry, error) {
	return list[ledger.JournalEntry](s, BucketJournalEntries, nil)
}

func stamp(a *ledger.Audit) {
	now := time.Now().UTC().Format(time.RFC3339)
	if a.CreatedAt == "" {
		a.CreatedAt = now
	}
	a.UpdatedAt = now
}
