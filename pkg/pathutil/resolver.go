// Package pathutil provides centralized path management for report artifacts and the history database.
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PathResolver manages paths for report files and the history database.
type PathResolver struct {
	reportRoot   string
	databasePath string
}

// Config represents the configuration for PathResolver.
type Config struct {
	// ReportRoot is the root directory for exported reports (e.g., ./reports)
	ReportRoot string
	// DatabasePath is the path to the SQLite database file for run and export history
	DatabasePath string
}

// New creates a new PathResolver with the given configuration.
// If ReportRoot is empty, it defaults to ./reports
// If DatabasePath is empty, it defaults to {ReportRoot}/.history/history.db
func New(config Config) *PathResolver {
	root := config.ReportRoot
	if root == "" {
		root = "reports"
	}

	dbPath := config.DatabasePath
	if dbPath == "" {
		dbPath = filepath.Join(root, ".history", "history.db")
	}

	return &PathResolver{
		reportRoot:   root,
		databasePath: dbPath,
	}
}

// GetReportRoot returns the report root directory.
func (p *PathResolver) GetReportRoot() string {
	return p.reportRoot
}

// GetDatabasePath returns the database file path.
func (p *PathResolver) GetDatabasePath() string {
	return p.databasePath
}

// GetYearDir returns the directory path for a year.
// Example: reports/2024
func (p *PathResolver) GetYearDir(year string) string {
	return filepath.Join(p.reportRoot, year)
}

// GetReportPath returns the file path of a report whose period starts on startDate.
// startDate should be in YYYY-MM-DD format.
// Example: reports/2024/Income_Report_2024-01-01_to_2024-01-31.csv
func (p *PathResolver) GetReportPath(startDate, filename string) (string, error) {
	parts := strings.Split(startDate, "-")
	if len(parts) != 3 || len(parts[0]) != 4 {
		return "", fmt.Errorf("invalid date format: %s. Expected YYYY-MM-DD", startDate)
	}
	if filename == "" || filename != filepath.Base(filename) {
		return "", fmt.Errorf("invalid report filename: %q", filename)
	}

	return filepath.Join(p.GetYearDir(parts[0]), filename), nil
}

// EnsureDir creates a directory if it doesn't exist.
// It creates all parent directories as needed (like mkdir -p).
func (p *PathResolver) EnsureDir(dirPath string) error {
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dirPath, err)
	}
	return nil
}

// EnsureParentDir ensures the parent directory of a file exists.
func (p *PathResolver) EnsureParentDir(filePath string) error {
	return p.EnsureDir(filepath.Dir(filePath))
}

// FileExists checks if a file exists.
func (p *PathResolver) FileExists(filePath string) bool {
	_, err := os.Stat(filePath)
	return err == nil
}
