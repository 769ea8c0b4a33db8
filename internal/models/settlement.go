package models

// Transaction is a directed payment instruction produced by settlement.
type Transaction struct {
	From   Member  `json:"from"`
	To     Member  `json:"to"`
	Amount float64 `json:"amount"`
}

// SettledBill is the immutable record produced when the active expenses are settled.
// Bills are appended to history and never mutated afterwards.
type SettledBill struct {
	// ID is the unique identifier for the bill (UUID format).
	ID string `json:"id"`

	// Date is the human-readable settlement timestamp, formatted with the configured layout.
	Date string `json:"date"`

	// CreatedAt is the Unix timestamp of the settlement.
	CreatedAt int64 `json:"createdAt"`

	// Expenses are the expenses that were active at settlement time.
	Expenses []Expense `json:"expenses"`

	// Transactions are the computed payments that zero out every balance.
	Transactions []Transaction `json:"transactions"`

	// MainCreditor is the settlement hub. Empty when nothing needed settling.
	MainCreditor Member `json:"mainCreditor,omitempty"`
}

// IsSettled reports whether the bill required no payments.
func (b SettledBill) IsSettled() bool {
	return len(b.Transactions) == 0
}

// Clone returns a deep copy of the bill.
func (b SettledBill) Clone() SettledBill {
	c := b
	c.Expenses = CloneExpenses(b.Expenses)
	c.Transactions = append([]Transaction(nil), b.Transactions...)
	if c.Transactions == nil {
		c.Transactions = []Transaction{}
	}
	return c
}

// CloneBills deep-copies a list of bills.
func CloneBills(bills []SettledBill) []SettledBill {
	out := make([]SettledBill, len(bills))
	for i, b := range bills {
		out[i] = b.Clone()
	}
	return out
}
