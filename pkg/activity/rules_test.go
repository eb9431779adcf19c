package activity

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMatchReference(t *testing.T) {
	rules := DefaultRules()

	tests := []struct {
		reference string
		expected  string
		matched   bool
	}{
		{"INV-100", "invoice-reference", true},
		{"BILL-7", "bill-reference", true},
		{"inv-100", "", false},
		{"ADJ-1", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.reference, func(t *testing.T) {
			rule, ok := rules.MatchReference(tt.reference)
			if ok != tt.matched || rule.Name != tt.expected {
				t.Errorf("MatchReference(%q) = %q, %v; expected %q, %v", tt.reference, rule.Name, ok, tt.expected, tt.matched)
			}
		})
	}
}

func TestLoadRules(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	content := `
reference_prefixes:
  - name: sales-invoice
    prefix: "SI-"
    source: invoice
category_overrides:
  "4999": revenue
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write rules: %v", err)
	}

	rules, err := LoadRules(path)
	if err != nil {
		t.Fatalf("LoadRules() error = %v", err)
	}

	if len(rules.ReferencePrefixes) != 1 || rules.ReferencePrefixes[0].Prefix != "SI-" {
		t.Errorf("unexpected prefixes: %+v", rules.ReferencePrefixes)
	}
	if _, ok := rules.MatchReference("INV-1"); ok {
		t.Errorf("file prefixes should replace the defaults")
	}
	if category, ok := rules.categoryOverride("4999"); !ok || category != "revenue" {
		t.Errorf("categoryOverride(4999) = %q, %v", category, ok)
	}
}

func TestLoadRulesKeepsDefaultPrefixes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte("category_overrides:\n  \"7000\": expense\n"), 0644); err != nil {
		t.Fatalf("failed to write rules: %v", err)
	}

	rules, err := LoadRules(path)
	if err != nil {
		t.Fatalf("LoadRules() error = %v", err)
	}
	if _, ok := rules.MatchReference("BILL-1"); !ok {
		t.Errorf("default prefixes should remain when the file omits them")
	}
}

func TestLoadRulesRejectsEmptyPrefix(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte("reference_prefixes:\n  - name: broken\n"), 0644); err != nil {
		t.Fatalf("failed to write rules: %v", err)
	}

	if _, err := LoadRules(path); err == nil {
		t.Error("expected an error for an empty prefix")
	}
}
