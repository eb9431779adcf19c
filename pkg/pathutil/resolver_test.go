package pathutil

import (
	"path/filepath"
	"testing"
)

func TestNewDefaults(t *testing.T) {
	p := New(Config{ReportRoot: "/tmp/reports"})

	if got := p.GetDatabasePath(); got != filepath.Join("/tmp/reports", ".history", "history.db") {
		t.Errorf("GetDatabasePath() = %s", got)
	}

	p = New(Config{})
	if p.GetReportRoot() != "reports" {
		t.Errorf("GetReportRoot() = %s, expected reports", p.GetReportRoot())
	}
}

func TestGetReportPath(t *testing.T) {
	p := New(Config{ReportRoot: "/data/reports"})

	tests := []struct {
		name      string
		startDate string
		filename  string
		expected  string
		wantErr   bool
	}{
		{"valid", "2024-01-01", "Income_Report_2024-01-01_to_2024-01-31.csv", "/data/reports/2024/Income_Report_2024-01-01_to_2024-01-31.csv", false},
		{"bad date", "2024-01", "x.csv", "", true},
		{"nested filename", "2024-01-01", "../x.csv", "", true},
		{"empty filename", "2024-01-01", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.GetReportPath(tt.startDate, tt.filename)
			if (err != nil) != tt.wantErr {
				t.Fatalf("GetReportPath() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.expected {
				t.Errorf("GetReportPath() = %s, expected %s", got, tt.expected)
			}
		})
	}
}

func TestEnsureParentDir(t *testing.T) {
	root := t.TempDir()
	p := New(Config{ReportRoot: root})

	path, err := p.GetReportPath("2023-12-01", "Expenses_Report.csv")
	if err != nil {
		t.Fatalf("GetReportPath() error = %v", err)
	}
	if err := p.EnsureParentDir(path); err != nil {
		t.Fatalf("EnsureParentDir() error = %v", err)
	}
	if !p.FileExists(filepath.Join(root, "2023")) {
		t.Errorf("year directory was not created")
	}
}
