// Package db provides SQLite database management for reconciliation run and report export history.
package db

// Schema defines the SQL statements to create database tables.
const Schema = `
-- Reconciliation runs table
-- One row per refresh of an income or expense feed
CREATE TABLE IF NOT EXISTS reconciliation_runs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL UNIQUE,       -- UUID assigned by the session
    feed TEXT NOT NULL,                -- 'income' or 'expenses'
    status TEXT NOT NULL,              -- 'succeeded' or 'failed'
    document_count INTEGER NOT NULL DEFAULT 0,
    entry_count INTEGER NOT NULL DEFAULT 0,
    transaction_count INTEGER NOT NULL DEFAULT 0,
    manual_count INTEGER NOT NULL DEFAULT 0,
    total TEXT NOT NULL DEFAULT '0',   -- decimal string
    error TEXT,
    started_at TIMESTAMP NOT NULL,
    finished_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_runs_feed
    ON reconciliation_runs(feed, started_at);

-- Per-account subtotals of a successful run
CREATE TABLE IF NOT EXISTS run_account_totals (
    run_id TEXT NOT NULL REFERENCES reconciliation_runs(run_id) ON DELETE CASCADE,
    account_code TEXT NOT NULL,
    account_name TEXT NOT NULL,
    count INTEGER NOT NULL,
    total TEXT NOT NULL,
    PRIMARY KEY (run_id, account_code)
);

-- Report exports table
-- Tracks every HTML/CSV artifact written, including failed attempts
CREATE TABLE IF NOT EXISTS report_exports (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT,                       -- run the report was generated from
    feed TEXT NOT NULL,
    period TEXT NOT NULL,
    start_date TEXT NOT NULL,          -- YYYY-MM-DD
    end_date TEXT NOT NULL,            -- YYYY-MM-DD
    format TEXT NOT NULL,              -- 'html' or 'csv'
    location TEXT,                     -- path of the written file
    row_count INTEGER NOT NULL DEFAULT 0,
    error TEXT,
    exported_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_exports_period
    ON report_exports(start_date, end_date);
`

// InitializeSchema initializes the database schema.
// It creates all tables if they don't exist.
func InitializeSchema(conn *Connection) error {
	if _, err := conn.Exec(Schema); err != nil {
		return err
	}
	return nil
}
