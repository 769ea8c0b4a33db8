package calculator

import "github.com/mmynk/settleup/internal/models"

// BalanceEpsilon is the threshold, in currency units, below which a balance counts as
// settled. It absorbs floating-point noise from repeated division; members with
// balance < -BalanceEpsilon are debtors and members with balance > BalanceEpsilon are
// creditors.
const BalanceEpsilon = 0.01

// Balances maps each member to their net balance.
// Positive = others owe this member, negative = this member owes others.
type Balances map[models.Member]float64

// MemberBalance represents the balance information for one member.
type MemberBalance struct {
	Member     models.Member
	NetBalance float64 // Positive = owed money, Negative = owes money
	TotalPaid  float64 // Total amount fronted across all expenses
	TotalOwed  float64 // Total of this member's shares
}

// ComputeBalances computes every member's net balance from scratch.
//
// Algorithm:
//   - every roster member starts at 0, so inactive members still appear
//   - for each expense, in order: payer += amount, each participant -= share
//
// The balances always sum to zero within floating-point tolerance.
func ComputeBalances(members []models.Member, expenses []models.Expense) Balances {
	balances := make(Balances, len(members))
	for _, m := range members {
		balances[m] = 0
	}

	for _, e := range expenses {
		balances[e.Payer] += e.Amount
		for _, s := range Shares(e) {
			balances[s.Member] -= s.Amount
		}
	}

	return balances
}

// MemberOrder returns the roster followed by any member that appears in expenses
// but not in the roster, in first-seen order. Every ordered output of this package
// follows it, which keeps results independent of map iteration.
func MemberOrder(members []models.Member, expenses []models.Expense) []models.Member {
	seen := make(map[models.Member]bool, len(members))
	order := make([]models.Member, 0, len(members))
	add := func(m models.Member) {
		if !seen[m] {
			seen[m] = true
			order = append(order, m)
		}
	}

	for _, m := range members {
		add(m)
	}
	for _, e := range expenses {
		add(e.Payer)
		for _, p := range e.Participants {
			add(p)
		}
	}
	return order
}

// Summarize returns paid, owed and net totals per member in MemberOrder.
func Summarize(members []models.Member, expenses []models.Expense) []MemberBalance {
	order := MemberOrder(members, expenses)
	index := make(map[models.Member]int, len(order))
	summary := make([]MemberBalance, len(order))
	for i, m := range order {
		index[m] = i
		summary[i] = MemberBalance{Member: m}
	}

	for _, e := range expenses {
		summary[index[e.Payer]].TotalPaid += e.Amount
		for _, s := range Shares(e) {
			summary[index[s.Member]].TotalOwed += s.Amount
		}
	}

	for i := range summary {
		summary[i].NetBalance = summary[i].TotalPaid - summary[i].TotalOwed
	}
	return summary
}

// Sum returns the total of all balances. It is zero, up to rounding, for any input.
func (b Balances) Sum() float64 {
	var total float64
	for _, v := range b {
		total += v
	}
	return total
}
