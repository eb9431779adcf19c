package report

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const utf8BOM = "\ufeff"

// WriteCSV renders the report as CSV: a UTF-8 BOM, an account summary section
// and a transaction list section. Every field is quoted and amounts are plain
// two-decimal numbers.
func WriteCSV(w io.Writer, rpt *Report) error {
	bw := bufio.NewWriter(w)
	cw := &quotedWriter{w: bw}

	cw.raw(utf8BOM)
	cw.row(rpt.Title())
	cw.row("Period", rpt.Label)
	cw.row("Transactions", strconv.Itoa(rpt.Summary.Count))
	cw.row("Total", rpt.Summary.Total.StringFixed(2))
	cw.row()

	cw.row("Summary by Account")
	cw.row("#", "Account Code", "Account Name", "Count", "Total")
	for i, a := range rpt.Summary.ByCode() {
		cw.row(strconv.Itoa(i+1), a.Code, a.Name, strconv.Itoa(a.Count), a.Total.StringFixed(2))
	}
	cw.row("", "", "Grand Total", strconv.Itoa(rpt.Summary.Count), rpt.Summary.Total.StringFixed(2))
	cw.row()

	cw.row("List of Transactions")
	cw.row("#", "Date", "Type", "Counterparty", "Account Code", "Account Name", "Reference", "Description", "Amount")
	for i, t := range rpt.Rows {
		cw.row(
			strconv.Itoa(i+1),
			t.DatePrefix(),
			kindLabel(t.Kind),
			t.CounterpartyName,
			t.AccountCode,
			t.AccountName,
			t.Reference,
			t.Description,
			t.Amount.StringFixed(2),
		)
	}

	if cw.err != nil {
		return fmt.Errorf("failed to write csv report: %w", cw.err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write csv report: %w", err)
	}
	return nil
}

// quotedWriter writes CRLF-terminated records with every field wrapped in
// double quotes and embedded quotes doubled. encoding/csv only quotes fields
// that need it.
type quotedWriter struct {
	w   *bufio.Writer
	err error
}

func (q *quotedWriter) raw(s string) {
	if q.err != nil {
		return
	}
	_, q.err = q.w.WriteString(s)
}

func (q *quotedWriter) row(fields ...string) {
	for i, f := range fields {
		if i > 0 {
			q.raw(",")
		}
		q.raw(`"` + strings.ReplaceAll(f, `"`, `""`) + `"`)
	}
	q.raw("\r\n")
}
