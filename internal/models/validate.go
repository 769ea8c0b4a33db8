package models

import (
	"errors"
	"fmt"
	"math"
)

// SplitSumTolerance is the largest accepted difference, in currency units, between the
// sum of manual splits and the expense amount. It absorbs rounding in user input.
const SplitSumTolerance = 0.01

var (
	ErrMissingPayer         = errors.New("payer is required")
	ErrNoParticipants       = errors.New("expense must have at least one participant")
	ErrNonPositiveAmount    = errors.New("amount must be greater than zero")
	ErrMissingItemName      = errors.New("item name is required")
	ErrUnknownSplitMethod   = errors.New("unknown split method")
	ErrManualSplitMismatch  = errors.New("manual splits must add up to the amount")
	ErrNegativeSplit        = errors.New("manual split cannot be negative")
	ErrNonFiniteSplit       = errors.New("manual split must be a finite number")
	ErrDuplicateParticipant = errors.New("participant listed more than once")
	ErrSplitNotParticipant  = errors.New("manual split assigned to a non-participant")
	ErrEmptyMemberName      = errors.New("member name cannot be empty")
	ErrDuplicateMember      = errors.New("member already exists")
)

// ValidateExpense checks the preconditions the settlement calculator relies on:
// a payer, distinct participants, a positive amount, an item name, finite split values
// and, for manual splits, shares that sum to the amount within SplitSumTolerance.
func ValidateExpense(e Expense) error {
	if e.Payer == "" {
		return ErrMissingPayer
	}
	if len(e.Participants) == 0 {
		return ErrNoParticipants
	}
	seen := make(map[Member]bool, len(e.Participants))
	for _, p := range e.Participants {
		p = NormalizeMember(string(p))
		if seen[p] {
			return fmt.Errorf("%w: %s", ErrDuplicateParticipant, p)
		}
		seen[p] = true
	}
	if e.Amount <= 0 || math.IsNaN(e.Amount) || math.IsInf(e.Amount, 0) {
		return ErrNonPositiveAmount
	}
	if e.ItemName == "" {
		return ErrMissingItemName
	}

	for member, share := range e.ManualSplits {
		if math.IsNaN(share) || math.IsInf(share, 0) {
			return fmt.Errorf("%w: %s", ErrNonFiniteSplit, member)
		}
	}

	switch e.SplitMethod {
	case SplitEvenly:
		return nil
	case SplitManually:
		var sum float64
		for member, share := range e.ManualSplits {
			if share < 0 {
				return fmt.Errorf("%w: %s", ErrNegativeSplit, member)
			}
			if share > 0 && !ContainsMember(e.Participants, member) {
				return fmt.Errorf("%w: %s", ErrSplitNotParticipant, member)
			}
			sum += share
		}
		if math.Abs(sum-e.Amount) > SplitSumTolerance {
			return fmt.Errorf("%w: splits total %.2f, amount %.2f", ErrManualSplitMismatch, sum, e.Amount)
		}
		return nil
	default:
		return fmt.Errorf("%w: %d", ErrUnknownSplitMethod, int(e.SplitMethod))
	}
}
