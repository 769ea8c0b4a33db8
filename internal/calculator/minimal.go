package calculator

import (
	"sort"

	"github.com/mmynk/settleup/internal/models"
)

// matchGreedy implements ModeMinimal: match the largest outstanding debt with the largest
// outstanding credit until one side runs out. creditors must already be sorted
// descending; debtors are sorted here by debt size, ties in member order.
func matchGreedy(debtors, creditors []position) []models.Transaction {
	owing := make([]position, len(debtors))
	for i, d := range debtors {
		owing[i] = position{member: d.member, amount: -d.amount} // Make positive
	}
	sort.SliceStable(owing, func(i, j int) bool {
		return owing[i].amount > owing[j].amount
	})

	owed := make([]position, len(creditors))
	copy(owed, creditors)

	var txs []models.Transaction
	i, j := 0, 0
	for i < len(owing) && j < len(owed) {
		// Amount to settle is minimum of what debtor owes and creditor is owed
		amount := owing[i].amount
		if owed[j].amount < amount {
			amount = owed[j].amount
		}

		if amount > BalanceEpsilon { // Avoid floating point noise
			txs = append(txs, models.Transaction{
				From:   owing[i].member,
				To:     owed[j].member,
				Amount: amount,
			})
		}

		owing[i].amount -= amount
		owed[j].amount -= amount

		// Move to next debtor/creditor if fully settled
		if owing[i].amount < BalanceEpsilon {
			i++
		}
		if owed[j].amount < BalanceEpsilon {
			j++
		}
	}

	if txs == nil {
		txs = []models.Transaction{}
	}
	return txs
}
