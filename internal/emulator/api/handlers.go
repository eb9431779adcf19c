package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/jeffersonbalde/CPC-Accounting-System-client-sub001/internal/emulator/store"
	"github.com/jeffersonbalde/CPC-Accounting-System-client-sub001/pkg/ledger"
)

const (
	defaultPerPage = 15
	maxPerPage     = 1000
)

// Handler serves the ledger collections.
type Handler struct {
	store *store.Store
}

// NewHandler creates a new Handler.
func NewHandler(s *store.Store) *Handler {
	return &Handler{store: s}
}

// envelope is the paginated collection shape.
type envelope[T any] struct {
	Data        []T `json:"data"`
	CurrentPage int `json:"current_page,omitempty"`
	LastPage    int `json:"last_page,omitempty"`
	PerPage     int `json:"per_page,omitempty"`
	Total       int `json:"total,omitempty"`
}

// ListInvoices handles GET /invoices. The response is a bare array.
func (h *Handler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	perPage, ok := intParam(w, r, "per_page", defaultPerPage)
	if !ok {
		return
	}

	invoices, err := h.store.ListInvoices()
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "Failed to list invoices")
		return
	}
	if invoices == nil {
		invoices = []ledger.Invoice{}
	}

	writeJSON(w, http.StatusOK, firstN(invoices, perPage))
}

// ListBills handles GET /bills. The response is a {data} envelope.
func (h *Handler) ListBills(w http.ResponseWriter, r *http.Request) {
	perPage, ok := intParam(w, r, "per_page", defaultPerPage)
	if !ok {
		return
	}

	bills, err := h.store.ListBills()
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "Failed to list bills")
		return
	}

	writeJSON(w, http.StatusOK, envelope[ledger.Bill]{Data: nonNil(firstN(bills, perPage))})
}

// ListJournalEntries handles GET /journal-entries with page and per_page.
func (h *Handler) ListJournalEntries(w http.ResponseWriter, r *http.Request) {
	perPage, ok := intParam(w, r, "per_page", defaultPerPage)
	if !ok {
		return
	}
	page, ok := intParam(w, r, "page", 1)
	if !ok {
		return
	}

	entries, err := h.store.ListJournalEntries()
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "Failed to list journal entries")
		return
	}

	lastPage := (len(entries) + perPage - 1) / perPage
	if lastPage == 0 {
		lastPage = 1
	}

	start := (page - 1) * perPage
	var data []ledger.JournalEntry
	if start < len(entries) {
		data = entries[start:min(start+perPage, len(entries))]
	}

	writeJSON(w, http.StatusOK, envelope[ledger.JournalEntry]{
		Data:        nonNil(data),
		CurrentPage: page,
		LastPage:    lastPage,
		PerPage:     perPage,
		Total:       len(entries),
	})
}

// GetJournalEntry handles GET /journal-entries/{id}.
func (h *Handler) GetJournalEntry(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid journal entry ID")
		return
	}

	entry, err := h.store.GetJournalEntry(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSONError(w, http.StatusNotFound, "Journal entry not found")
			return
		}
		writeJSONError(w, http.StatusInternalServerError, "Failed to get journal entry")
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

// ListAccounts handles GET /chart-of-accounts with active_only and category.
func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active_only") == "true"

	accounts, err := h.store.ListAccounts(r.URL.Query().Get("category"), activeOnly)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "Failed to list accounts")
		return
	}

	writeJSON(w, http.StatusOK, envelope[ledger.Account]{Data: nonNil(accounts)})
}

// CreateAccount handles POST /chart-of-accounts.
func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var account ledger.Account
	if !decode(w, r, &account) {
		return
	}
	if account.Code == "" || account.Name == "" {
		writeJSONError(w, http.StatusUnprocessableEntity, "The account code and name fields are required.")
		return
	}

	if err := h.store.CreateAccount(&account); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "Failed to create account")
		return
	}
	writeJSON(w, http.StatusCreated, account)
}

// CreateInvoice handles POST /invoices.
func (h *Handler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	var invoice ledger.Invoice
	if !decode(w, r, &invoice) {
		return
	}
	if invoice.InvoiceNumber == "" || invoice.InvoiceDate == "" {
		writeJSONError(w, http.StatusUnprocessableEntity, "The invoice number and invoice date fields are required.")
		return
	}
	if !h.entryExists(w, invoice.JournalEntryID) {
		return
	}

	if err := h.store.CreateInvoice(&invoice); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "Failed to create invoice")
		return
	}
	writeJSON(w, http.StatusCreated, invoice)
}

// CreateBill handles POST /bills.
func (h *Handler) CreateBill(w http.ResponseWriter, r *http.Request) {
	var bill ledger.Bill
	if !decode(w, r, &bill) {
		return
	}
	if bill.BillNumber == "" || bill.BillDate == "" {
		writeJSONError(w, http.StatusUnprocessableEntity, "The bill number and bill date fields are required.")
		return
	}
	if !h.entryExists(w, bill.JournalEntryID) {
		return
	}

	if err := h.store.CreateBill(&bill); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "Failed to create bill")
		return
	}
	writeJSON(w, http.StatusCreated, bill)
}

// CreateJournalEntry handles POST /journal-entries. Debits must equal credits.
func (h *Handler) CreateJournalEntry(w http.ResponseWriter, r *http.Request) {
	var entry ledger.JournalEntry
	if !decode(w, r, &entry) {
		return
	}
	if entry.Date == "" || len(entry.Lines) == 0 {
		writeJSONError(w, http.StatusUnprocessableEntity, "The entry date and lines fields are required.")
		return
	}

	debits, credits := decimal.Zero, decimal.Zero
	for _, line := range entry.Lines {
		debits = debits.Add(line.DebitAmount)
		credits = credits.Add(line.CreditAmount)
	}
	if !debits.Equal(credits) {
		writeJSONError(w, http.StatusUnprocessableEntity, "Journal entry is not balanced.")
		return
	}

	if err := h.store.CreateJournalEntry(&entry); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "Failed to create journal entry")
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (h *Handler) entryExists(w http.ResponseWriter, id *int64) bool {
	if id == nil {
		return true
	}
	if _, err := h.store.GetJournalEntry(*id); err != nil {
		writeJSONError(w, http.StatusUnprocessableEntity, "The selected journal entry is invalid.")
		return false
	}
	return true
}

func decode(w http.ResponseWriter, r *http.Request, out interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Failed to parse request body")
		return false
	}
	return true
}

// intParam reads a positive integer query parameter, writing a 400 when it is malformed.
func intParam(w http.ResponseWriter, r *http.Request, name string, def int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		writeJSONError(w, http.StatusBadRequest, "Invalid "+name)
		return 0, false
	}
	if name == "per_page" && v > maxPerPage {
		v = maxPerPage
	}
	return v, true
}

func firstN[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
