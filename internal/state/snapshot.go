// Package state holds the application state (roster, active expenses, settlement history)
// as immutable snapshots. Every transition returns a new Snapshot and never mutates the
// receiver, so a previous snapshot stays valid after an update.
package state

import (
	"errors"
	"fmt"
	"time"

	"github.com/mmynk/settleup/internal/calculator"
	"github.com/mmynk/settleup/internal/models"
)

var (
	ErrExpenseNotFound  = errors.New("expense not found")
	ErrDuplicateExpense = errors.New("expense id already exists")
	ErrMissingExpenseID = errors.New("expense id is required")
	ErrUnknownMember    = errors.New("member is not on the roster")
	ErrBillNotFound     = errors.New("settled bill not found")
	ErrNothingToSettle  = errors.New("no active expenses to settle")
)

// Snapshot is one immutable view of the application state.
type Snapshot struct {
	// Members is the roster: default members followed by members added at runtime.
	Members []models.Member

	// Expenses is the active working list, in the order they were recorded.
	Expenses []models.Expense

	// History holds settled bills, newest first. It is append-only.
	History []models.SettledBill

	// ActiveBillID is the bill currently being viewed, empty if none.
	ActiveBillID string
}

// SettleOptions controls how Snapshot.Settle builds the bill.
type SettleOptions struct {
	Mode       calculator.Mode
	DateLayout string
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	return Snapshot{
		Members:      append([]models.Member{}, s.Members...),
		Expenses:     models.CloneExpenses(s.Expenses),
		History:      models.CloneBills(s.History),
		ActiveBillID: s.ActiveBillID,
	}
}

// AddMember returns a snapshot with name appended to the roster.
func (s Snapshot) AddMember(name string) (Snapshot, models.Member, error) {
	member := models.NormalizeMember(name)
	if member == "" {
		return s, "", models.ErrEmptyMemberName
	}
	if models.ContainsMember(s.Members, member) {
		return s, "", fmt.Errorf("%w: %s", models.ErrDuplicateMember, member)
	}

	next := s
	next.Members = append(append([]models.Member{}, s.Members...), member)
	return next, member, nil
}

// AddExpense validates e and returns a snapshot with it appended to the active list.
// Payer and participants must be on the roster.
func (s Snapshot) AddExpense(e models.Expense) (Snapshot, error) {
	if e.ID == "" {
		return s, ErrMissingExpenseID
	}
	if err := models.ValidateExpense(e); err != nil {
		return s, err
	}
	if !models.ContainsMember(s.Members, e.Payer) {
		return s, fmt.Errorf("%w: %s", ErrUnknownMember, e.Payer)
	}
	for _, p := range e.Participants {
		if !models.ContainsMember(s.Members, p) {
			return s, fmt.Errorf("%w: %s", ErrUnknownMember, p)
		}
	}
	for _, existing := range s.Expenses {
		if existing.ID == e.ID {
			return s, fmt.Errorf("%w: %s", ErrDuplicateExpense, e.ID)
		}
	}

	next := s
	next.Expenses = append(models.CloneExpenses(s.Expenses), e.Clone())
	return next, nil
}

// DeleteExpense returns a snapshot without the active expense with the given id.
func (s Snapshot) DeleteExpense(id string) (Snapshot, error) {
	remaining := make([]models.Expense, 0, len(s.Expenses))
	found := false
	for _, e := range s.Expenses {
		if e.ID == id {
			found = true
			continue
		}
		remaining = append(remaining, e.Clone())
	}
	if !found {
		return s, fmt.Errorf("%w: %s", ErrExpenseNotFound, id)
	}

	next := s
	next.Expenses = remaining
	return next, nil
}

// Preview computes the settlement of the active expenses without changing anything.
func (s Snapshot) Preview(mode calculator.Mode) calculator.Result {
	return calculator.Settle(s.Members, s.Expenses, mode)
}

// Settle consumes the active expenses: it builds a bill with the given id and time,
// prepends it to history, makes it the active bill and clears the working list.
func (s Snapshot) Settle(id string, at time.Time, opts SettleOptions) (Snapshot, models.SettledBill) {
	result := calculator.Settle(s.Members, s.Expenses, opts.Mode)
	bill := calculator.BuildBill(id, at, opts.DateLayout, s.Expenses, result)

	next := s
	next.Expenses = []models.Expense{}
	next.History = append([]models.SettledBill{bill.Clone()}, models.CloneBills(s.History)...)
	next.ActiveBillID = bill.ID
	return next, bill
}

// Bill looks up a settled bill by id.
func (s Snapshot) Bill(id string) (models.SettledBill, bool) {
	for _, b := range s.History {
		if b.ID == id {
			return b.Clone(), true
		}
	}
	return models.SettledBill{}, false
}

// ActiveBill returns the bill being viewed, if any.
func (s Snapshot) ActiveBill() (models.SettledBill, bool) {
	if s.ActiveBillID == "" {
		return models.SettledBill{}, false
	}
	return s.Bill(s.ActiveBillID)
}

// ViewBill returns a snapshot with the given bill marked active.
func (s Snapshot) ViewBill(id string) (Snapshot, error) {
	if _, ok := s.Bill(id); !ok {
		return s, fmt.Errorf("%w: %s", ErrBillNotFound, id)
	}
	next := s
	next.ActiveBillID = id
	return next, nil
}

// CloseBill returns a snapshot with no active bill.
func (s Snapshot) CloseBill() Snapshot {
	next := s
	next.ActiveBillID = ""
	return next
}

// Cleared returns the initial state: the default roster and nothing else.
func Cleared(defaults []models.Member) Snapshot {
	return Snapshot{
		Members:  models.MergeRoster(defaults, nil),
		Expenses: []models.Expense{},
		History:  []models.SettledBill{},
	}
}
