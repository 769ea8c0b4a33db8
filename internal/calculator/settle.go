package calculator

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/mmynk/settleup/internal/models"
)

// Mode selects the transaction generation strategy.
type Mode int

const (
	// ModeHub routes every debt through the main creditor: each debtor makes exactly one
	// payment, and the main creditor forwards the surplus to the other creditors.
	// It produces |debtors| + |creditors| - 1 transactions.
	ModeHub Mode = iota
	// ModeMinimal greedily matches the largest debt with the largest credit, which
	// usually needs fewer transactions but may give a debtor several payees.
	ModeMinimal
)

// String returns the configuration name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeHub:
		return "hub"
	case ModeMinimal:
		return "minimal"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses "hub" or "minimal". An empty string selects ModeHub.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "hub":
		return ModeHub, nil
	case "minimal":
		return ModeMinimal, nil
	default:
		return 0, fmt.Errorf("unknown settlement mode %q: must be hub or minimal", s)
	}
}

// Result is the outcome of a settlement run.
type Result struct {
	// Balances are the net balances the transactions were derived from.
	Balances Balances

	// Order is the deterministic member order (see MemberOrder).
	Order []models.Member

	// Transactions zero out every balance once applied. Empty when already settled.
	Transactions []models.Transaction

	// MainCreditor is the creditor with the largest balance, empty when no settlement is needed.
	MainCreditor models.Member
}

// Settled reports whether no payments are needed.
func (r Result) Settled() bool {
	return len(r.Transactions) == 0
}

// position is a member's outstanding amount while generating transactions.
type position struct {
	member models.Member
	amount float64
}

// Settle computes balances and the transactions that settle them.
//
// Debtors (balance < -BalanceEpsilon) are visited in member order. The main creditor is
// the creditor with the highest balance; ties go to the member that comes first in the
// roster. If there are no debtors or no creditors the result has no transactions and no
// main creditor.
func Settle(members []models.Member, expenses []models.Expense, mode Mode) Result {
	order := MemberOrder(members, expenses)
	balances := ComputeBalances(members, expenses)

	result := Result{
		Balances:     balances,
		Order:        order,
		Transactions: []models.Transaction{},
	}

	debtors, creditors := classify(order, balances)
	if len(debtors) == 0 || len(creditors) == 0 {
		return result
	}

	// Stable sort keeps roster order among equal balances.
	sort.SliceStable(creditors, func(i, j int) bool {
		return creditors[i].amount > creditors[j].amount
	})
	result.MainCreditor = creditors[0].member

	switch mode {
	case ModeMinimal:
		result.Transactions = matchGreedy(debtors, creditors)
	default:
		result.Transactions = routeThroughHub(debtors, creditors)
	}
	return result
}

// classify splits members into debtors and creditors, both in member order.
// Debtor amounts are kept negative.
func classify(order []models.Member, balances Balances) (debtors, creditors []position) {
	for _, m := range order {
		bal := balances[m]
		switch {
		case bal < -BalanceEpsilon:
			debtors = append(debtors, position{member: m, amount: bal})
		case bal > BalanceEpsilon:
			creditors = append(creditors, position{member: m, amount: bal})
		}
	}
	return debtors, creditors
}

// routeThroughHub implements ModeHub. creditors must be sorted with the hub first.
func routeThroughHub(debtors, creditors []position) []models.Transaction {
	hub := creditors[0].member
	txs := make([]models.Transaction, 0, len(debtors)+len(creditors)-1)

	// Phase 1: every debtor pays the hub in full.
	for _, d := range debtors {
		txs = append(txs, models.Transaction{
			From:   d.member,
			To:     hub,
			Amount: math.Abs(d.amount),
		})
	}

	// Phase 2: the hub pays every other creditor their full balance.
	for _, c := range creditors[1:] {
		txs = append(txs, models.Transaction{
			From:   hub,
			To:     c.member,
			Amount: c.amount,
		})
	}
	return txs
}

// BuildBill assembles the immutable record of a settlement. The expenses are deep-copied
// so later changes to the caller's working list never reach the archived bill.
func BuildBill(id string, at time.Time, dateLayout string, expenses []models.Expense, result Result) models.SettledBill {
	txs := append([]models.Transaction{}, result.Transactions...)
	return models.SettledBill{
		ID:           id,
		Date:         at.Format(dateLayout),
		CreatedAt:    at.Unix(),
		Expenses:     models.CloneExpenses(expenses),
		Transactions: txs,
		MainCreditor: result.MainCreditor,
	}
}
