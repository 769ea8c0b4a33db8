// Package api defines the settleup.v1 wire messages exchanged over Connect.
package api

// Split methods as they appear on the wire.
const (
	SplitEvenly   = "EVENLY"
	SplitManually = "MANUALLY"
)

type Expense struct {
	ID           string             `json:"id,omitempty"`
	Payer        string             `json:"payer"`
	Participants []string           `json:"participants"`
	Amount       float64            `json:"amount"`
	ItemName     string             `json:"itemName"`
	SplitMethod  string             `json:"splitMethod"`
	ManualSplits map[string]float64 `json:"manualSplits,omitempty"`
}

type Transaction struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
}

type SettledBill struct {
	ID           string         `json:"id"`
	Date         string         `json:"date"`
	CreatedAt    int64          `json:"createdAt"`
	Expenses     []*Expense     `json:"expenses"`
	Transactions []*Transaction `json:"transactions"`
	MainCreditor string         `json:"mainCreditor,omitempty"`
}

type MemberBalance struct {
	Member     string  `json:"member"`
	NetBalance float64 `json:"netBalance"`
	TotalPaid  float64 `json:"totalPaid"`
	TotalOwed  float64 `json:"totalOwed"`
}

type HistoryStats struct {
	Settlements int     `json:"settlements"`
	Expenses    int     `json:"expenses"`
	TotalAmount float64 `json:"totalAmount"`
}

type ReportRow struct {
	Member string    `json:"member"`
	Shares []float64 `json:"shares"`
	Paid   float64   `json:"paid"`
	Owed   float64   `json:"owed"`
	Net    float64   `json:"net"`
}

type BillReport struct {
	Items      []string     `json:"items"`
	Rows       []*ReportRow `json:"rows"`
	ItemTotals []float64    `json:"itemTotals"`
	TotalPaid  float64      `json:"totalPaid"`
	TotalNet   float64      `json:"totalNet"`
}

type StatementLine struct {
	ItemName string  `json:"itemName"`
	Amount   float64 `json:"amount"`
}

type MemberStatement struct {
	Member         string           `json:"member"`
	BillID         string           `json:"billId"`
	Date           string           `json:"date"`
	Paid           []*StatementLine `json:"paid"`
	Shares         []*StatementLine `json:"shares"`
	TotalPaid      float64          `json:"totalPaid"`
	TotalOwed      float64          `json:"totalOwed"`
	Net            float64          `json:"net"`
	IsMainCreditor bool             `json:"isMainCreditor"`
	MainCreditor   string           `json:"mainCreditor,omitempty"`
	Pay            []*Transaction   `json:"pay"`
	Receive        []*Transaction   `json:"receive"`
}

type ListMembersRequest struct{}

type ListMembersResponse struct {
	Members []string `json:"members"`
}

type AddMemberRequest struct {
	Name string `json:"name"`
}

type AddMemberResponse struct {
	Member  string   `json:"member"`
	Members []string `json:"members"`
}

type ListExpensesRequest struct{}

type ListExpensesResponse struct {
	Expenses    []*Expense `json:"expenses"`
	TotalAmount float64    `json:"totalAmount"`
}

type AddExpenseRequest struct {
	Expense *Expense `json:"expense"`
}

type AddExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type DeleteExpenseRequest struct {
	ExpenseID string `json:"expenseId"`
}

type DeleteExpenseResponse struct{}

type PreviewBalancesRequest struct{}

type PreviewBalancesResponse struct {
	Balances     []*MemberBalance `json:"balances"`
	Transactions []*Transaction   `json:"transactions"`
	MainCreditor string           `json:"mainCreditor,omitempty"`
}

type SettleUpRequest struct{}

type SettleUpResponse struct {
	Bill *SettledBill `json:"bill"`
}

type ListSettledBillsRequest struct{}

type ListSettledBillsResponse struct {
	// Bills are ordered newest first.
	Bills []*SettledBill `json:"bills"`
	Stats *HistoryStats  `json:"stats"`
}

type GetSettledBillRequest struct {
	BillID string `json:"billId"`
}

type GetSettledBillResponse struct {
	Bill   *SettledBill `json:"bill"`
	Report *BillReport  `json:"report"`
}

type GetMemberStatementRequest struct {
	BillID string `json:"billId"`
	Member string `json:"member"`
}

type GetMemberStatementResponse struct {
	Statement *MemberStatement `json:"statement"`
}

type ClearAllDataRequest struct{}

type ClearAllDataResponse struct{}
