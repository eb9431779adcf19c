// Package ledger provides the ledger API client and the record types it returns.
package ledger

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Account categories used by the classifier.
const (
	CategoryRevenue = "revenue"
	CategoryExpense = "expense"
)

// Account represents a chart-of-accounts entry.
type Account struct {
	ID       int64  `json:"id,omitempty"`
	Code     string `json:"account_code"`
	Name     string `json:"account_name"`
	Category string `json:"category"`
	IsActive bool   `json:"is_active,omitempty"`
}

// Person is the user reference carried by audit fields.
type Person struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// UnmarshalJSON accepts a user object, a bare name or a bare user id.
func (p *Person) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, `"`) {
		return json.Unmarshal(data, &p.Name)
	}
	if !strings.HasPrefix(trimmed, "{") && trimmed != "null" {
		return json.Unmarshal(data, &p.ID)
	}
	type plain Person
	return json.Unmarshal(data, (*plain)(p))
}

// Audit holds the created/updated metadata shared by all ledger records.
type Audit struct {
	CreatedBy *Person `json:"created_by,omitempty"`
	CreatedAt string  `json:"created_at,omitempty"`
	UpdatedBy *Person `json:"updated_by,omitempty"`
	UpdatedAt string  `json:"updated_at,omitempty"`
}

// JournalEntry represents a journal entry with its debit/credit lines.
type JournalEntry struct {
	ID              int64         `json:"id"`
	EntryNumber     string        `json:"entry_number"`
	Date            string        `json:"entry_date"` // YYYY-MM-DD, possibly with a time suffix
	Description     string        `json:"description"`
	ReferenceNumber string        `json:"reference_number"`
	Lines           []JournalLine `json:"lines"`
	Audit
}

// JournalLine represents a single line in a journal entry.
type JournalLine struct {
	ID           int64           `json:"id"`
	AccountID    int64           `json:"account_id,omitempty"`
	Account      Account         `json:"account"`
	DebitAmount  decimal.Decimal `json:"debit_amount"`
	CreditAmount decimal.Decimal `json:"credit_amount"`
	Description  string          `json:"description"`
}

// Party is the client or supplier attached to a source document.
type Party struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	CompanyName string `json:"company_name,omitempty"`
}

// DisplayName returns the best available label for the party.
func (p *Party) DisplayName() string {
	if p == nil {
		return ""
	}
	if p.Name != "" {
		return p.Name
	}
	return p.CompanyName
}

// Label returns the name, falling back to the user id.
func (p *Person) Label() string {
	if p == nil {
		return ""
	}
	if p.Name != "" {
		return p.Name
	}
	if p.ID != 0 {
		return fmt.Sprintf("user #%d", p.ID)
	}
	return ""
}

// Invoice represents a receivable document.
type Invoice struct {
	ID             int64           `json:"id"`
	InvoiceNumber  string          `json:"invoice_number"`
	InvoiceDate    string          `json:"invoice_date"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	Description    string          `json:"description"`
	Status         *string         `json:"status,omitempty"`
	JournalEntryID *int64          `json:"journal_entry_id,omitempty"`
	Client         *Party          `json:"client,omitempty"`
	IncomeAccount  *Account        `json:"income_account,omitempty"`
	Audit
}

// Bill represents a payable document.
type Bill struct {
	ID             int64           `json:"id"`
	BillNumber     string          `json:"bill_number"`
	BillDate       string          `json:"bill_date"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	Description    string          `json:"description"`
	Status         *string         `json:"status,omitempty"`
	JournalEntryID *int64          `json:"journal_entry_id,omitempty"`
	ExpenseAccount *Account        `json:"expense_account,omitempty"`
	Supplier       *Party          `json:"supplier,omitempty"`
	Audit
}

// DocumentKind names the source document type.
type DocumentKind string

const (
	KindInvoice DocumentKind = "invoice"
	KindBill    DocumentKind = "bill"
)

// SourceDocument is the common view over invoices and bills.
type SourceDocument interface {
	Kind() DocumentKind
	SourceID() int64
	Number() string
	IssueDate() string
	Total() decimal.Decimal
	Memo() string
	DocStatus() *string
	EntryID() *int64
	LinkedAccount() *Account
	Counterparty() string
	AuditInfo() Audit
}

func (i Invoice) Kind() DocumentKind { return KindInvoice }
func (i Invoice) SourceID() int64 { return i.ID }
func (i Invoice) Number() string { return i.InvoiceNumber }
func (i Invoice) IssueDate() string { return i.InvoiceDate }
func (i Invoice) Total() decimal.Decimal { return i.TotalAmount }
func (i Invoice) Memo() string { return i.Description }
func (i Invoice) DocStatus() *string { return i.Status }
func (i Invoice) EntryID() *int64 { return i.JournalEntryID }
func (i Invoice) LinkedAccount() *Account { return i.IncomeAccount }
func (i Invoice) Counterparty() string { return i.Client.DisplayName() }
func (i Invoice) AuditInfo() Audit { return i.Audit }

func (b Bill) Kind() DocumentKind { return KindBill }
func (b Bill) SourceID() int64 { return b.ID }
func (b Bill) Number() string { return b.BillNumber }
func (b Bill) IssueDate() string { return b.BillDate }
func (b Bill) Total() decimal.Decimal { return b.TotalAmount }
func (b Bill) Memo() string { return b.Description }
func (b Bill) DocStatus() *string { return b.Status }
func (b Bill) EntryID() *int64 { return b.JournalEntryID }
func (b Bill) LinkedAccount() *Account { return b.ExpenseAccount }
func (b Bill) Counterparty() string { return b.Supplier.DisplayName() }
func (b Bill) AuditInfo() Audit { return b.Audit }

// Page is a normalized collection response.
// LastPage is zero when the API did not report pagination.
type Page[T any] struct {
	Data     []T
	LastPage int
}

// UnmarshalJSON accepts both a bare array and a {data, last_page} envelope.
func (p *Page[T]) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		return json.Unmarshal(data, &p.Data)
	}

	var envelope struct {
		Data     []T `json:"data"`
		LastPage int `json:"last_page"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return fmt.Errorf("failed to decode page: %w", err)
	}
	p.Data = envelope.Data
	p.LastPage = envelope.LastPage
	return nil
}

// ErrorResponse represents an error body returned by the ledger API.
type ErrorResponse struct {
	Message          string `json:"message"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}
