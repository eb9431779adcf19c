// Package main runs a local ledger API emulator for development and testing.
//
// It serves /api/invoices, /api/bills, /api/journal-entries and
// /api/chart-of-accounts from a bbolt file, seeded with a month of demo data.
package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/jeffersonbalde/CPC-Accounting-System-client-sub001/internal/emulator/api"
	"github.com/jeffersonbalde/CPC-Accounting-System-client-sub001/internal/emulator/store"
)

const (
	defaultPort   = "8000"
	defaultDBPath = "./data/ledger.db"
	defaultToken  = "dev-token"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	port := getEnvOrDefault("PORT", defaultPort)
	dbPath := getEnvOrDefault("DB_PATH", defaultDBPath)
	token := getEnvOrDefault("LEDGER_API_TOKEN", defaultToken)

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		slog.Error("failed to create data directory", "error", err, "db_path", dbPath)
		os.Exit(1)
	}

	st, err := store.New(dbPath)
	if err != nil {
		slog.Error("failed to initialize store", "error", err, "db_path", dbPath)
		os.Exit(1)
	}
	defer func() {
		if err := st.Close(); err != nil {
			slog.Error("failed to close store", "error", err)
		}
	}()

	if err := st.PutToken(token); err != nil {
		slog.Error("failed to register token", "error", err)
		os.Exit(1)
	}

	if os.Getenv("SEED") != "false" {
		if err := st.SeedDemo(time.Now()); err != nil {
			slog.Error("failed to seed demo data", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("database initialized", "db_path", dbPath)

	addr := fmt.Sprintf(":%s", port)
	slog.Info("starting ledger API emulator", "addr", addr, "api_url", fmt.Sprintf("http://localhost:%s/api", port))

	server := &http.Server{
		Addr:         addr,
		Handler:      middleware.Logger(api.NewRouter(st)),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		slog.Info("shutting down server")
		if err := server.Close(); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
