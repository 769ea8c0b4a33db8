package service

import (
	"github.com/mmynk/settleup/internal/calculator"
	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/report"
	"github.com/mmynk/settleup/pkg/api"
)

func membersToProto(members []models.Member) []string {
	out := make([]string, len(members))
	for i, m := range members {
		out[i] = string(m)
	}
	return out
}

// expenseFromProto converts a wire expense. Names are normalized the same way the
// roster normalizes them.
func expenseFromProto(e *api.Expense) (models.Expense, error) {
	method, err := models.ParseSplitMethod(e.SplitMethod)
	if err != nil {
		return models.Expense{}, err
	}

	participants := make([]models.Member, len(e.Participants))
	for i, p := range e.Participants {
		participants[i] = models.NormalizeMember(p)
	}

	var splits map[models.Member]float64
	if method == models.SplitManually {
		splits = make(map[models.Member]float64, len(e.ManualSplits))
		for name, amount := range e.ManualSplits {
			splits[models.NormalizeMember(name)] += amount
		}
	}

	return models.Expense{
		ID:           e.ID,
		Payer:        models.NormalizeMember(e.Payer),
		Participants: participants,
		Amount:       e.Amount,
		ItemName:     e.ItemName,
		SplitMethod:  method,
		ManualSplits: splits,
	}, nil
}

func expenseToProto(e models.Expense) *api.Expense {
	var splits map[string]float64
	if len(e.ManualSplits) > 0 {
		splits = make(map[string]float64, len(e.ManualSplits))
		for m, amount := range e.ManualSplits {
			splits[string(m)] = amount
		}
	}
	return &api.Expense{
		ID:           e.ID,
		Payer:        string(e.Payer),
		Participants: membersToProto(e.Participants),
		Amount:       e.Amount,
		ItemName:     e.ItemName,
		SplitMethod:  e.SplitMethod.String(),
		ManualSplits: splits,
	}
}

func expensesToProto(expenses []models.Expense) []*api.Expense {
	out := make([]*api.Expense, len(expenses))
	for i, e := range expenses {
		out[i] = expenseToProto(e)
	}
	return out
}

func transactionsToProto(txs []models.Transaction) []*api.Transaction {
	out := make([]*api.Transaction, len(txs))
	for i, t := range txs {
		out[i] = &api.Transaction{From: string(t.From), To: string(t.To), Amount: t.Amount}
	}
	return out
}

func billToProto(b models.SettledBill) *api.SettledBill {
	return &api.SettledBill{
		ID:           b.ID,
		Date:         b.Date,
		CreatedAt:    b.CreatedAt,
		Expenses:     expensesToProto(b.Expenses),
		Transactions: transactionsToProto(b.Transactions),
		MainCreditor: string(b.MainCreditor),
	}
}

func balancesToProto(summary []calculator.MemberBalance) []*api.MemberBalance {
	out := make([]*api.MemberBalance, len(summary))
	for i, b := range summary {
		out[i] = &api.MemberBalance{
			Member:     string(b.Member),
			NetBalance: b.NetBalance,
			TotalPaid:  b.TotalPaid,
			TotalOwed:  b.TotalOwed,
		}
	}
	return out
}

func reportToProto(r report.BillReport) *api.BillReport {
	rows := make([]*api.ReportRow, len(r.Rows))
	for i, row := range r.Rows {
		rows[i] = &api.ReportRow{
			Member: string(row.Member),
			Shares: row.Shares,
			Paid:   row.Paid,
			Owed:   row.Owed,
			Net:    row.Net,
		}
	}
	return &api.BillReport{
		Items:      r.Items,
		Rows:       rows,
		ItemTotals: r.ItemTotals,
		TotalPaid:  r.TotalPaid,
		TotalNet:   r.TotalNet,
	}
}

func linesToProto(lines []report.Line) []*api.StatementLine {
	out := make([]*api.StatementLine, len(lines))
	for i, l := range lines {
		out[i] = &api.StatementLine{ItemName: l.ItemName, Amount: l.Amount}
	}
	return out
}

func statementToProto(s report.MemberStatement) *api.MemberStatement {
	return &api.MemberStatement{
		Member:         string(s.Member),
		BillID:         s.BillID,
		Date:           s.Date,
		Paid:           linesToProto(s.Paid),
		Shares:         linesToProto(s.Shares),
		TotalPaid:      s.TotalPaid,
		TotalOwed:      s.TotalOwed,
		Net:            s.Net,
		IsMainCreditor: s.IsMainCreditor,
		MainCreditor:   string(s.MainCreditor),
		Pay:            transactionsToProto(s.Pay),
		Receive:        transactionsToProto(s.Receive),
	}
}
