package report

import (
	"errors"

	"github.com/mmynk/settleup/internal/calculator"
	"github.com/mmynk/settleup/internal/models"
)

var ErrMemberNotInBill = errors.New("member has no activity in this bill")

// Line is one item on a member statement.
type Line struct {
	ItemName string
	Amount   float64
}

// MemberStatement is one member's view of a settled bill.
type MemberStatement struct {
	Member models.Member
	BillID string
	Date   string

	// Paid lists the expenses this member fronted.
	Paid []Line
	// Shares lists this member's owed share of each expense they took part in.
	Shares []Line

	TotalPaid float64
	TotalOwed float64
	Net       float64

	IsMainCreditor bool
	MainCreditor   models.Member

	// Pay lists the transfers this member sends: the single payment to the main creditor
	// for a debtor, or the payouts to other creditors for the main creditor.
	Pay []models.Transaction
	// Receive lists the transfers this member gets.
	Receive []models.Transaction
}

// Owes reports whether the member ends the bill in debt.
func (s MemberStatement) Owes() bool {
	return s.Net < -calculator.BalanceEpsilon
}

// IsOwed reports whether the member ends the bill as a creditor.
func (s MemberStatement) IsOwed() bool {
	return s.Net > calculator.BalanceEpsilon
}

// NewMemberStatement builds member's statement for bill.
// It returns ErrMemberNotInBill when the member neither paid nor owes anything.
func NewMemberStatement(bill models.SettledBill, member models.Member) (MemberStatement, error) {
	s := MemberStatement{
		Member:         member,
		BillID:         bill.ID,
		Date:           bill.Date,
		MainCreditor:   bill.MainCreditor,
		IsMainCreditor: bill.MainCreditor != "" && bill.MainCreditor == member,
	}

	for _, e := range bill.Expenses {
		if e.Payer == member {
			s.Paid = append(s.Paid, Line{ItemName: e.ItemName, Amount: e.Amount})
			s.TotalPaid += e.Amount
		}
		if models.ContainsMember(e.Participants, member) {
			share := calculator.ShareOf(e, member)
			s.Shares = append(s.Shares, Line{ItemName: e.ItemName, Amount: share})
			s.TotalOwed += share
		}
	}

	if s.TotalPaid <= calculator.BalanceEpsilon && s.TotalOwed <= calculator.BalanceEpsilon {
		return MemberStatement{}, ErrMemberNotInBill
	}
	s.Net = s.TotalPaid - s.TotalOwed

	for _, t := range bill.Transactions {
		switch member {
		case t.From:
			s.Pay = append(s.Pay, t)
		case t.To:
			s.Receive = append(s.Receive, t)
		}
	}
	return s, nil
}

// Statements returns the statement of every member with activity in bill, in roster order.
func Statements(bill models.SettledBill, roster []models.Member) []MemberStatement {
	var out []MemberStatement
	for _, m := range ActiveMembers(roster, bill.Expenses) {
		s, err := NewMemberStatement(bill, m)
		if err != nil {
			continue
		}
		out = append(out, s)
	}
	return out
}
