package activity

import (
	"strings"

	"github.com/jeffersonbalde/CPC-Accounting-System-client-sub001/pkg/ledger"
	"github.com/shopspring/decimal"
)

// Classification tells which feed a journal line can contribute to.
type Classification struct {
	IsRevenue bool
	IsExpense bool
}

// Classify decides whether a line is a revenue credit or an expense debit.
// Lines on accounts without a category are neither.
func Classify(line ledger.JournalLine) Classification {
	category := strings.ToLower(strings.TrimSpace(line.Account.Category))
	return Classification{
		IsRevenue: category == ledger.CategoryRevenue && line.CreditAmount.IsPositive(),
		IsExpense: category == ledger.CategoryExpense && line.DebitAmount.IsPositive(),
	}
}

// amountFor returns the line's contribution to feed, and false when the line does not belong to it.
func amountFor(feed Feed, line ledger.JournalLine) (decimal.Decimal, bool) {
	c := Classify(line)
	switch {
	case feed == FeedIncome && c.IsRevenue:
		return line.CreditAmount, true
	case feed == FeedExpenses && c.IsExpense:
		return line.DebitAmount, true
	}
	return decimal.Zero, false
}
