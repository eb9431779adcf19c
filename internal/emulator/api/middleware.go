// Package api serves the ledger emulator's HTTP endpoints.
package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/jeffersonbalde/CPC-Accounting-System-client-sub001/internal/emulator/store"
	"github.com/jeffersonbalde/CPC-Accounting-System-client-sub001/pkg/ledger"
)

// AuthMiddleware is a middleware that validates bearer tokens against the store.
func AuthMiddleware(st *store.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeJSONError(w, http.StatusUnauthorized, "Unauthenticated.")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				writeJSONError(w, http.StatusUnauthorized, "Invalid Authorization header format")
				return
			}

			valid, err := st.ValidToken(parts[1])
			if err != nil {
				writeJSONError(w, http.StatusInternalServerError, "Failed to validate token")
				return
			}
			if !valid {
				writeJSONError(w, http.StatusUnauthorized, "Unauthenticated.")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// writeJSONError writes an error body in the ledger API's {message} shape.
func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ledger.ErrorResponse{Message: message})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
