package activity

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ReferenceRule marks journal entries whose reference number starts with Prefix
// as generated by a source document, so their lines are never listed as manual.
type ReferenceRule struct {
	Name   string `yaml:"name"`
	Prefix string `yaml:"prefix"`
	Source string `yaml:"source"`
}

// Rules configures reconciliation heuristics.
type Rules struct {
	ReferencePrefixes []ReferenceRule `yaml:"reference_prefixes"`
	// CategoryOverrides forces the category of an account code, e.g. "4999": revenue.
	CategoryOverrides map[string]string `yaml:"category_overrides"`
}

// DefaultRules returns the built-in invoice and bill reference prefixes.
func DefaultRules() Rules {
	return Rules{
		ReferencePrefixes: []ReferenceRule{
			{Name: "invoice-reference", Prefix: "INV-", Source: "invoice"},
			{Name: "bill-reference", Prefix: "BILL-", Source: "bill"},
		},
	}
}

// LoadRules reads rules from a YAML file.
// Sections missing from the file keep their defaults.
func LoadRules(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("failed to read rules file: %w", err)
	}

	var parsed Rules
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return Rules{}, fmt.Errorf("failed to parse YAML: %w", err)
	}

	rules := DefaultRules()
	if parsed.ReferencePrefixes != nil {
		rules.ReferencePrefixes = parsed.ReferencePrefixes
	}
	rules.CategoryOverrides = parsed.CategoryOverrides

	for i, rule := range rules.ReferencePrefixes {
		if rule.Prefix == "" {
			return Rules{}, fmt.Errorf("reference rule %d (%s): empty prefix", i, rule.Name)
		}
	}

	return rules, nil
}

// MatchReference returns the first rule whose prefix starts the reference number.
// Matching is case-sensitive.
func (r Rules) MatchReference(reference string) (ReferenceRule, bool) {
	if reference == "" {
		return ReferenceRule{}, false
	}
	for _, rule := range r.ReferencePrefixes {
		if rule.Prefix != "" && strings.HasPrefix(reference, rule.Prefix) {
			return rule, true
		}
	}
	return ReferenceRule{}, false
}

// categoryOverride returns the forced category for an account code.
func (r Rules) categoryOverride(code string) (string, bool) {
	if r.CategoryOverrides == nil {
		return "", false
	}
	category, ok := r.CategoryOverrides[code]
	return category, ok
}
