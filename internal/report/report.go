// Package report derives read-only views of settled bills: the per-member item matrix,
// individual statements, and history totals.
package report

import (
	"sort"

	"github.com/mmynk/settleup/internal/calculator"
	"github.com/mmynk/settleup/internal/models"
)

// SumLabel labels the totals row of a BillReport.
const SumLabel = "SUM"

// Row is one member's line in a BillReport.
type Row struct {
	Member models.Member
	Shares []float64 // aligned with BillReport.Items
	Paid   float64
	Owed   float64
	Net    float64
}

// BillReport is the member x item share matrix of a settled bill.
type BillReport struct {
	BillID string
	Date   string

	// Items are the distinct item names of the bill, sorted.
	Items []string

	// Rows has one entry per member who paid for or participated in an expense,
	// in roster order.
	Rows []Row

	// ItemTotals are the summed expense amounts per item, aligned with Items.
	ItemTotals []float64
	TotalPaid  float64
	TotalNet   float64
}

// ActiveMembers returns the members of roster (plus any unlisted member found in expenses)
// that paid for or participated in at least one expense.
func ActiveMembers(roster []models.Member, expenses []models.Expense) []models.Member {
	active := make(map[models.Member]bool)
	for _, e := range expenses {
		active[e.Payer] = true
		for _, p := range e.Participants {
			active[p] = true
		}
	}

	var members []models.Member
	for _, m := range calculator.MemberOrder(roster, expenses) {
		if active[m] {
			members = append(members, m)
		}
	}
	return members
}

// NewBillReport builds the report of bill.
func NewBillReport(bill models.SettledBill, roster []models.Member) BillReport {
	items := itemNames(bill.Expenses)
	column := make(map[string]int, len(items))
	for i, name := range items {
		column[name] = i
	}

	members := ActiveMembers(roster, bill.Expenses)
	index := make(map[models.Member]int, len(members))
	rows := make([]Row, len(members))
	for i, m := range members {
		index[m] = i
		rows[i] = Row{Member: m, Shares: make([]float64, len(items))}
	}

	r := BillReport{
		BillID:     bill.ID,
		Date:       bill.Date,
		Items:      items,
		ItemTotals: make([]float64, len(items)),
	}

	for _, e := range bill.Expenses {
		col := column[e.ItemName]
		r.ItemTotals[col] += e.Amount
		rows[index[e.Payer]].Paid += e.Amount
		for _, s := range calculator.Shares(e) {
			row := &rows[index[s.Member]]
			row.Owed += s.Amount
			row.Shares[col] += s.Amount
		}
	}

	for i := range rows {
		rows[i].Net = rows[i].Paid - rows[i].Owed
		r.TotalPaid += rows[i].Paid
		r.TotalNet += rows[i].Net
	}
	r.Rows = rows
	return r
}

func itemNames(expenses []models.Expense) []string {
	seen := make(map[string]bool)
	var names []string
	for _, e := range expenses {
		if !seen[e.ItemName] {
			seen[e.ItemName] = true
			names = append(names, e.ItemName)
		}
	}
	sort.Strings(names)
	return names
}

// HistoryStats summarizes the settlement history.
type HistoryStats struct {
	Settlements int
	Expenses    int
	TotalAmount float64
}

// NewHistoryStats totals bills.
func NewHistoryStats(bills []models.SettledBill) HistoryStats {
	stats := HistoryStats{Settlements: len(bills)}
	for _, b := range bills {
		stats.Expenses += len(b.Expenses)
		stats.TotalAmount += models.TotalAmount(b.Expenses)
	}
	return stats
}
