package report

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/jeffersonbalde/CPC-Accounting-System-client-sub001/pkg/activity"
)

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"money": formatMoney,
	"kind":  kindLabel,
	"inc":   func(i int) int { return i + 1 },
	"date":  func(t activity.Transaction) string { return t.DatePrefix() },
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Report.Title}} - {{.Report.Label}}</title>
<style>
body { font-family: Arial, sans-serif; font-size: 12px; margin: 24px; color: #222; }
h1 { font-size: 20px; margin: 0 0 4px; }
.generated { color: #666; margin-bottom: 16px; }
.summary { border: 1px solid #ccc; padding: 12px; margin-bottom: 20px; }
.summary div { margin: 2px 0; }
table { width: 100%; border-collapse: collapse; margin-bottom: 20px; }
th, td { border: 1px solid #ddd; padding: 4px 6px; text-align: left; }
th { background: #f3f3f3; }
td.num, th.num { text-align: right; }
tfoot td { font-weight: bold; }
@media print { body { margin: 0; } .summary { break-inside: avoid; } }
</style>
</head>
<body>
<h1>{{.Report.Title}}</h1>
<div class="generated">Generated {{.Generated}}</div>

<div class="summary">
<div><strong>Period:</strong> {{.Report.Label}}</div>
<div><strong>Transactions:</strong> {{.Report.Summary.Count}}</div>
<div><strong>Total:</strong> {{money .Currency .Report.Summary.Total}}</div>
</div>

<h2>Summary by Account</h2>
<table>
<thead><tr><th>#</th><th>Account Code</th><th>Account Name</th><th class="num">Count</th><th class="num">Total</th></tr></thead>
<tbody>
{{- range $i, $a := .Accounts}}
<tr><td>{{inc $i}}</td><td>{{$a.Code}}</td><td>{{$a.Name}}</td><td class="num">{{$a.Count}}</td><td class="num">{{money $.Currency $a.Total}}</td></tr>
{{- else}}
<tr><td colspan="5">No transactions in this period.</td></tr>
{{- end}}
</tbody>
<tfoot><tr><td colspan="3">Grand Total</td><td class="num">{{.Report.Summary.Count}}</td><td class="num">{{money .Currency .Report.Summary.Total}}</td></tr></tfoot>
</table>

<h2>List of Transactions</h2>
<table>
<thead><tr><th>#</th><th>Date</th><th>Type</th><th>Counterparty</th><th>Account</th><th>Reference</th><th>Description</th><th class="num">Amount</th></tr></thead>
<tbody>
{{- range $i, $t := .Report.Rows}}
<tr><td>{{inc $i}}</td><td>{{date $t}}</td><td>{{kind $t.Kind}}</td><td>{{$t.CounterpartyName}}</td><td>{{$t.AccountCode}} {{$t.AccountName}}</td><td>{{$t.Reference}}</td><td>{{$t.Description}}</td><td class="num">{{money $.Currency $t.Amount}}</td></tr>
{{- else}}
<tr><td colspan="8">No transactions in this period.</td></tr>
{{- end}}
</tbody>
</table>
</body>
</html>
`))

type htmlView struct {
	Report    *Report
	Accounts  []activity.AccountTotal
	Generated string
	Currency  string
}

// WriteHTML renders the printable report document. Text fields are escaped
// by html/template.
func WriteHTML(w io.Writer, rpt *Report, generatedAt time.Time) error {
	view := htmlView{
		Report:    rpt,
		Accounts:  rpt.Summary.ByCode(),
		Generated: generatedAt.Format("2006-01-02 15:04:05"),
		Currency:  rpt.Currency,
	}
	if err := htmlTemplate.Execute(w, view); err != nil {
		return fmt.Errorf("failed to render html report: %w", err)
	}
	return nil
}

func formatMoney(currency string, amount decimal.Decimal) string {
	s := humanize.FormatFloat("#,###.##", amount.Round(2).InexactFloat64())
	if currency == "" {
		return s
	}
	return currency + " " + s
}
