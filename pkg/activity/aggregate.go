package activity

import (
	"sort"

	"github.com/shopspring/decimal"
)

// AccountTotal is the per-account subtotal of a feed.
type AccountTotal struct {
	Code  string          `json:"accountCode"`
	Name  string          `json:"accountName"`
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// Summary holds the statistics of a set of transactions.
type Summary struct {
	Count        int                      `json:"count"`
	Total        decimal.Decimal          `json:"total"`
	AccountCount int                      `json:"accountCount"`
	ByAccount    map[string]*AccountTotal `json:"byAccount"`
}

// Aggregate computes the count, grand total and per-account subtotals of txns.
func Aggregate(txns []Transaction) Summary {
	s := Summary{
		Total:     decimal.Zero,
		ByAccount: make(map[string]*AccountTotal),
	}

	for _, t := range txns {
		s.Count++
		s.Total = s.Total.Add(t.Amount)

		acc, ok := s.ByAccount[t.AccountCode]
		if !ok {
			acc = &AccountTotal{Code: t.AccountCode, Name: t.AccountName, Total: decimal.Zero}
			s.ByAccount[t.AccountCode] = acc
		}
		acc.Count++
		acc.Total = acc.Total.Add(t.Amount)
	}

	s.AccountCount = len(s.ByAccount)
	return s
}

// ByCode returns the per-account rows sorted by account code ascending.
// Reports use this order for their summary table.
func (s Summary) ByCode() []AccountTotal {
	rows := s.rows()
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Code < rows[j].Code
	})
	return rows
}

// ByTotal returns the per-account rows sorted by total descending, ties by code.
func (s Summary) ByTotal() []AccountTotal {
	rows := s.rows()
	sort.Slice(rows, func(i, j int) bool {
		if c := rows[i].Total.Cmp(rows[j].Total); c != 0 {
			return c > 0
		}
		return rows[i].Code < rows[j].Code
	})
	return rows
}

func (s Summary) rows() []AccountTotal {
	rows := make([]AccountTotal, 0, len(s.ByAccount))
	for _, acc := range s.ByAccount {
		rows = append(rows, *acc)
	}
	return rows
}
