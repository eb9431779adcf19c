package activity

import (
	"testing"

	"github.com/jeffersonbalde/CPC-Accounting-System-client-sub001/pkg/ledger"
)

func TestAggregate(t *testing.T) {
	txns := []Transaction{
		{AccountCode: "6100", AccountName: "Rent", Amount: dec("800")},
		{AccountCode: "5000", AccountName: "Supplies", Amount: dec("45.50")},
		{AccountCode: "6100", AccountName: "Rent", Amount: dec("800")},
		{AccountCode: "5500", AccountName: "Utilities", Amount: dec("1200.25")},
	}

	s := Aggregate(txns)

	if s.Count != 4 {
		t.Errorf("Count = %d, expected 4", s.Count)
	}
	if !s.Total.Equal(dec("2845.75")) {
		t.Errorf("Total = %s, expected 2845.75", s.Total)
	}
	if s.AccountCount != 3 {
		t.Errorf("AccountCount = %d, expected 3", s.AccountCount)
	}

	rent := s.ByAccount["6100"]
	if rent == nil || rent.Count != 2 || !rent.Total.Equal(dec("1600")) {
		t.Errorf("unexpected rent subtotal: %+v", rent)
	}

	byCode := s.ByCode()
	if codes := joinCodes(byCode); codes != "5000,5500,6100" {
		t.Errorf("ByCode() order = %s", codes)
	}

	byTotal := s.ByTotal()
	if codes := joinCodes(byTotal); codes != "6100,5500,5000" {
		t.Errorf("ByTotal() order = %s", codes)
	}
}

func TestAggregateEmpty(t *testing.T) {
	s := Aggregate(nil)
	if s.Count != 0 || !s.Total.IsZero() || s.AccountCount != 0 || len(s.ByCode()) != 0 {
		t.Errorf("unexpected summary for empty feed: %+v", s)
	}
}

func TestAccountOptions(t *testing.T) {
	accounts := []ledger.Account{
		{Code: "6100", Name: "Rent"},
		{Code: "4000", Name: "Sales"},
		{Code: "6100", Name: "Rent (duplicate)"},
		{Code: "", Name: "Blank"},
	}

	options := AccountOptions(accounts)
	if len(options) != 2 {
		t.Fatalf("AccountOptions() returned %d, expected 2", len(options))
	}
	if options[0].Code != "4000" || options[1].Name != "Rent" {
		t.Errorf("unexpected options: %+v", options)
	}
}

func joinCodes(rows []AccountTotal) string {
	out := ""
	for i, r := range rows {
		if i > 0 {
			out += ","
		}
		out += r.Code
	}
	return out
}
