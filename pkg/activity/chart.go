package activity

import (
	"sort"

	"github.com/jeffersonbalde/CPC-Accounting-System-client-sub001/pkg/ledger"
)

// Chart indexes the chart of accounts by code.
type Chart struct {
	byCode map[string]ledger.Account
}

// NewChart builds a Chart. When codes repeat, the first account wins.
func NewChart(accounts []ledger.Account) *Chart {
	c := &Chart{byCode: make(map[string]ledger.Account, len(accounts))}
	for _, a := range accounts {
		if _, exists := c.byCode[a.Code]; !exists {
			c.byCode[a.Code] = a
		}
	}
	return c
}

// Lookup returns the account for a code.
func (c *Chart) Lookup(code string) (ledger.Account, bool) {
	if c == nil {
		return ledger.Account{}, false
	}
	a, ok := c.byCode[code]
	return a, ok
}

// AccountOptions returns accounts de-duplicated by code and sorted by code,
// for building account filter lists.
func AccountOptions(accounts []ledger.Account) []ledger.Account {
	seen := make(map[string]bool, len(accounts))
	options := make([]ledger.Account, 0, len(accounts))
	for _, a := range accounts {
		if a.Code == "" || seen[a.Code] {
			continue
		}
		seen[a.Code] = true
		options = append(options, a)
	}

	sort.Slice(options, func(i, j int) bool {
		return options[i].Code < options[j].Code
	})
	return options
}

// TransactionAccounts lists the distinct accounts that appear in a feed.
func TransactionAccounts(txns []Transaction) []ledger.Account {
	accounts := make([]ledger.Account, 0, len(txns))
	for _, t := range txns {
		accounts = append(accounts, ledger.Account{Code: t.AccountCode, Name: t.AccountName})
	}
	return AccountOptions(accounts)
}
