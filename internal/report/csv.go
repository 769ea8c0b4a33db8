package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"text/tabwriter"
)

func (r BillReport) header() []string {
	header := make([]string, 0, len(r.Items)+3)
	header = append(header, "Member")
	header = append(header, r.Items...)
	return append(header, "Amount Paid", "Net Balance")
}

func (r BillReport) records(format func(float64) string) [][]string {
	records := make([][]string, 0, len(r.Rows)+1)
	for _, row := range r.Rows {
		rec := make([]string, 0, len(r.Items)+3)
		rec = append(rec, string(row.Member))
		for _, v := range row.Shares {
			rec = append(rec, format(v))
		}
		rec = append(rec, format(row.Paid), format(row.Net))
		records = append(records, rec)
	}

	sum := make([]string, 0, len(r.Items)+3)
	sum = append(sum, SumLabel)
	for _, v := range r.ItemTotals {
		sum = append(sum, format(v))
	}
	sum = append(sum, format(r.TotalPaid), format(r.TotalNet))
	return append(records, sum)
}

// WriteCSV writes r as CSV: a header row, one row per member and the SUM row.
func WriteCSV(w io.Writer, r BillReport) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(r.header()); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	if err := cw.WriteAll(r.records(FormatDecimal)); err != nil {
		return fmt.Errorf("failed to write csv rows: %w", err)
	}
	return nil
}

// WriteTable writes r as an aligned text table with rounded amounts.
func WriteTable(w io.Writer, r BillReport) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	write := func(cells []string) {
		for _, c := range cells {
			fmt.Fprint(tw, c, "\t")
		}
		fmt.Fprintln(tw)
	}

	write(r.header())
	for _, rec := range r.records(FormatAmount) {
		write(rec)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to write report table: %w", err)
	}
	return nil
}
