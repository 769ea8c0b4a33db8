package calculator

import "github.com/mmynk/settleup/internal/models"

// Share is one participant's owed portion of an expense.
type Share struct {
	Member models.Member
	Amount float64
}

// Shares returns each participant's owed share of e, in participant order.
//
// EVENLY splits use plain float division (amount / participants) with no remainder
// redistribution. MANUALLY splits read ManualSplits, treating a missing entry as zero.
// An expense with no participants yields no shares; callers must reject such
// expenses with models.ValidateExpense before they get here.
func Shares(e models.Expense) []Share {
	if len(e.Participants) == 0 {
		return nil
	}

	shares := make([]Share, len(e.Participants))
	if e.SplitMethod == models.SplitEvenly {
		perPerson := e.Amount / float64(len(e.Participants))
		for i, p := range e.Participants {
			shares[i] = Share{Member: p, Amount: perPerson}
		}
		return shares
	}

	for i, p := range e.Participants {
		shares[i] = Share{Member: p, Amount: e.ManualSplits[p]}
	}
	return shares
}

// ShareOf returns member's owed share of e, or zero if member does not participate.
func ShareOf(e models.Expense, member models.Member) float64 {
	var total float64
	for _, s := range Shares(e) {
		if s.Member == member {
			total += s.Amount
		}
	}
	return total
}
