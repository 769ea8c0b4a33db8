package models

import (
	"encoding/json"
	"fmt"
)

// SplitMethod selects how an expense amount is divided among participants.
type SplitMethod int

const (
	// SplitEvenly divides the amount equally among all participants.
	SplitEvenly SplitMethod = iota
	// SplitManually uses the explicit per-member amounts in Expense.ManualSplits.
	SplitManually
)

// String returns the wire name of the split method.
func (m SplitMethod) String() string {
	switch m {
	case SplitEvenly:
		return "EVENLY"
	case SplitManually:
		return "MANUALLY"
	default:
		return fmt.Sprintf("SplitMethod(%d)", int(m))
	}
}

// ParseSplitMethod parses "EVENLY" or "MANUALLY" (case-sensitive).
func ParseSplitMethod(s string) (SplitMethod, error) {
	switch s {
	case "EVENLY":
		return SplitEvenly, nil
	case "MANUALLY":
		return SplitManually, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownSplitMethod, s)
	}
}

// MarshalJSON encodes the split method by name.
func (m SplitMethod) MarshalJSON() ([]byte, error) {
	if m != SplitEvenly && m != SplitManually {
		return nil, fmt.Errorf("%w: %d", ErrUnknownSplitMethod, int(m))
	}
	return json.Marshal(m.String())
}

// UnmarshalJSON accepts the name form and the legacy numeric form (0 = EVENLY, 1 = MANUALLY).
func (m *SplitMethod) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		parsed, err := ParseSplitMethod(name)
		if err != nil {
			return err
		}
		*m = parsed
		return nil
	}

	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("%w: %s", ErrUnknownSplitMethod, string(data))
	}
	switch SplitMethod(n) {
	case SplitEvenly, SplitManually:
		*m = SplitMethod(n)
		return nil
	default:
		return fmt.Errorf("%w: %d", ErrUnknownSplitMethod, n)
	}
}

// Expense represents one recorded cost shared among participants.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format), immutable once assigned.
	ID string `json:"id"`

	// Payer is the member who fronted the money.
	Payer Member `json:"payer"`

	// Participants share the cost. The payer is usually, but not necessarily, one of them.
	Participants []Member `json:"participants"`

	// Amount is the total cost in currency units. Always positive for valid expenses.
	Amount float64 `json:"amount"`

	// ItemName is a free-text label (e.g., "Dinner", "Taxi").
	ItemName string `json:"itemName"`

	// SplitMethod selects how Amount is divided.
	SplitMethod SplitMethod `json:"splitMethod"`

	// ManualSplits maps participant to owed share. Only set when SplitMethod is SplitManually.
	// Participants without an entry owe nothing.
	ManualSplits map[Member]float64 `json:"manualSplits,omitempty"`
}

// Clone returns a deep copy of the expense.
func (e Expense) Clone() Expense {
	c := e
	if e.Participants != nil {
		c.Participants = append([]Member(nil), e.Participants...)
	}
	if e.ManualSplits != nil {
		c.ManualSplits = make(map[Member]float64, len(e.ManualSplits))
		for k, v := range e.ManualSplits {
			c.ManualSplits[k] = v
		}
	}
	return c
}

// CloneExpenses deep-copies a list of expenses.
func CloneExpenses(expenses []Expense) []Expense {
	out := make([]Expense, len(expenses))
	for i, e := range expenses {
		out[i] = e.Clone()
	}
	return out
}

// TotalAmount sums the amounts of the given expenses.
func TotalAmount(expenses []Expense) float64 {
	var total float64
	for _, e := range expenses {
		total += e.Amount
	}
	return total
}
