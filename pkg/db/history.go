package db

import (
	"database/sql"
	"fmt"
	"time"
)

// RunStatus is the outcome of a reconciliation run.
type RunStatus string

const (
	RunSucceeded RunStatus = "succeeded"
	RunFailed    RunStatus = "failed"
)

// AccountTotal is one per-account subtotal stored with a run.
type AccountTotal struct {
	Code  string
	Name  string
	Count int
	Total string
}

// RunRecord represents a reconciliation run.
type RunRecord struct {
	ID               int64
	RunID            string
	Feed             string
	Status           RunStatus
	DocumentCount    int
	EntryCount       int
	TransactionCount int
	ManualCount      int
	Total            string
	Error            sql.NullString
	StartedAt        time.Time
	FinishedAt       time.Time
	Accounts         []AccountTotal
}

// ExportRecord represents a report export attempt.
type ExportRecord struct {
	ID         int64
	RunID      sql.NullString
	Feed       string
	Period     string
	StartDate  string
	EndDate    string
	Format     string
	Location   sql.NullString
	RowCount   int
	Error      sql.NullString
	ExportedAt time.Time
}

// History manages run and export history.
type History struct {
	conn *Connection
}

// NewHistory creates a new History instance.
func NewHistory(conn *Connection) *History {
	return &History{conn: conn}
}

// RecordRun records a reconciliation run together with its account subtotals.
// Recording the same run id again replaces the earlier record.
func (h *History) RecordRun(record RunRecord) error {
	return h.conn.Transaction(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM reconciliation_runs WHERE run_id = ?`, record.RunID); err != nil {
			return fmt.Errorf("failed to replace run: %w", err)
		}

		_, err := tx.Exec(`
			INSERT INTO reconciliation_runs
				(run_id, feed, status, document_count, entry_count, transaction_count, manual_count, total, error, started_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			record.RunID,
			record.Feed,
			string(record.Status),
			record.DocumentCount,
			record.EntryCount,
			record.TransactionCount,
			record.ManualCount,
			record.Total,
			record.Error,
			record.StartedAt.UTC(),
		)
		if err != nil {
			return fmt.Errorf("failed to record run: %w", err)
		}

		for _, acc := range record.Accounts {
			_, err := tx.Exec(`
				INSERT INTO run_account_totals (run_id, account_code, account_name, count, total)
				VALUES (?, ?, ?, ?, ?)
			`, record.RunID, acc.Code, acc.Name, acc.Count, acc.Total)
			if err != nil {
				return fmt.Errorf("failed to record account total %s: %w", acc.Code, err)
			}
		}

		return nil
	})
}

// GetRun retrieves a run and its account subtotals. It returns nil when the run is unknown.
func (h *History) GetRun(runID string) (*RunRecord, error) {
	query := `
		SELECT id, run_id, feed, status, document_count, entry_count, transaction_count,
			manual_count, total, error, started_at, finished_at
		FROM reconciliation_runs
		WHERE run_id = ?
	`

	record, err := scanRun(h.conn.QueryRow(query, runID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	rows, err := h.conn.Query(`
		SELECT account_code, account_name, count, total
		FROM run_account_totals
		WHERE run_id = ?
		ORDER BY account_code
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account totals: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var acc AccountTotal
		if err := rows.Scan(&acc.Code, &acc.Name, &acc.Count, &acc.Total); err != nil {
			return nil, fmt.Errorf("failed to scan account total: %w", err)
		}
		record.Accounts = append(record.Accounts, acc)
	}

	return record, rows.Err()
}

// GetRecentRuns retrieves the latest runs, newest first. An empty feed matches all feeds.
func (h *History) GetRecentRuns(feed string, limit int) ([]RunRecord, error) {
	query := `
		SELECT id, run_id, feed, status, document_count, entry_count, transaction_count,
			manual_count, total, error, started_at, finished_at
		FROM reconciliation_runs
		WHERE (? = '' OR feed = ?)
		ORDER BY started_at DESC, id DESC
		LIMIT ?
	`

	rows, err := h.conn.Query(query, feed, feed, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		record, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		records = append(records, *record)
	}

	return records, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row scanner) (*RunRecord, error) {
	var record RunRecord
	var status string

	err := row.Scan(
		&record.ID,
		&record.RunID,
		&record.Feed,
		&status,
		&record.DocumentCount,
		&record.EntryCount,
		&record.TransactionCount,
		&record.ManualCount,
		&record.Total,
		&record.Error,
		&record.StartedAt,
		&record.FinishedAt,
	)
	if err != nil {
		return nil, err
	}

	record.Status = RunStatus(status)
	return &record, nil
}

// RecordExport records a report export attempt.
func (h *History) RecordExport(record ExportRecord) error {
	query := `
		INSERT INTO report_exports (run_id, feed, period, start_date, end_date, format, location, row_count, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := h.conn.Exec(query,
		record.RunID,
		record.Feed,
		record.Period,
		record.StartDate,
		record.EndDate,
		record.Format,
		record.Location,
		record.RowCount,
		record.Error,
	)
	if err != nil {
		return fmt.Errorf("failed to record export: %w", err)
	}

	return nil
}

// GetRecentExports retrieves the latest export attempts, newest first.
func (h *History) GetRecentExports(limit int) ([]ExportRecord, error) {
	query := `
		SELECT id, run_id, feed, period, start_date, end_date, format, location, row_count, error, exported_at
		FROM report_exports
		ORDER BY exported_at DESC, id DESC
		LIMIT ?
	`

	rows, err := h.conn.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent exports: %w", err)
	}
	defer rows.Close()

	var records []ExportRecord
	for rows.Next() {
		var record ExportRecord
		if err := rows.Scan(
			&record.ID,
			&record.RunID,
			&record.Feed,
			&record.Period,
			&record.StartDate,
			&record.EndDate,
			&record.Format,
			&record.Location,
			&record.RowCount,
			&record.Error,
			&record.ExportedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan export: %w", err)
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// Stats represents history statistics.
type Stats struct {
	TotalRuns     int
	FailedRuns    int
	TotalExports  int
	FailedExports int
	LastRun       sql.NullString
	LastExport    sql.NullString
}

// GetStats retrieves history statistics.
func (h *History) GetStats() (*Stats, error) {
	var stats Stats

	err := h.conn.QueryRow(`SELECT COUNT(*) FROM reconciliation_runs`).Scan(&stats.TotalRuns)
	if err != nil {
		return nil, fmt.Errorf("failed to get run count: %w", err)
	}

	err = h.conn.QueryRow(`SELECT COUNT(*) FROM reconciliation_runs WHERE status = ?`, string(RunFailed)).Scan(&stats.FailedRuns)
	if err != nil {
		return nil, fmt.Errorf("failed to get failed run count: %w", err)
	}

	err = h.conn.QueryRow(`SELECT COUNT(*), COUNT(error) FROM report_exports`).Scan(&stats.TotalExports, &stats.FailedExports)
	if err != nil {
		return nil, fmt.Errorf("failed to get export count: %w", err)
	}

	err = h.conn.QueryRow(`SELECT MAX(started_at) FROM reconciliation_runs`).Scan(&stats.LastRun)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to get last run time: %w", err)
	}

	err = h.conn.QueryRow(`SELECT MAX(exported_at) FROM report_exports`).Scan(&stats.LastExport)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to get last export time: %w", err)
	}

	return &stats, nil
}
