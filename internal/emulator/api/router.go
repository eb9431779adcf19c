package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jeffersonbalde/CPC-Accounting-System-client-sub001/internal/emulator/store"
)

// NewRouter builds the emulator's routes. Everything under /api needs a bearer token.
func NewRouter(st *store.Store) http.Handler {
	h := NewHandler(st)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/api", func(r chi.Router) {
		r.Use(AuthMiddleware(st))

		r.Get("/chart-of-accounts", h.ListAccounts)
		r.Post("/chart-of-accounts", h.CreateAccount)

		r.Get("/invoices", h.ListInvoices)
		r.Post("/invoices", h.CreateInvoice)

		r.Get("/bills", h.ListBills)
		r.Post("/bills", h.CreateBill)

		r.Route("/journal-entries", func(r chi.Router) {
			r.Get("/", h.ListJournalEntries)
			r.Post("/", h.CreateJournalEntry)
			r.Get("/{id}", h.GetJournalEntry)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	return r
}
