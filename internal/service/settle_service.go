package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/settleup/internal/calculator"
	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/report"
	"github.com/mmynk/settleup/internal/state"
	"github.com/mmynk/settleup/pkg/api"
	"github.com/mmynk/settleup/pkg/api/apiconnect"
)

var _ apiconnect.SettleServiceHandler = (*SettleService)(nil)

// SettleService implements the Connect SettleService on top of a state.Manager.
type SettleService struct {
	manager *state.Manager
}

// NewSettleService creates a new SettleService backed by manager.
func NewSettleService(manager *state.Manager) *SettleService {
	return &SettleService{manager: manager}
}

// ListMembers returns the roster.
func (s *SettleService) ListMembers(ctx context.Context, req *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error) {
	snap := s.manager.Snapshot()
	return connect.NewResponse(&api.ListMembersResponse{
		Members: membersToProto(snap.Members),
	}), nil
}

// AddMember appends a member to the roster.
func (s *SettleService) AddMember(ctx context.Context, req *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error) {
	member, err := s.manager.AddMember(req.Msg.Name)
	if err != nil {
		slog.Warn("AddMember rejected", "name", req.Msg.Name, "error", err)
		return nil, toConnectError(err)
	}
	slog.Info("Member added", "member", member)

	return connect.NewResponse(&api.AddMemberResponse{
		Member:  string(member),
		Members: membersToProto(s.manager.Snapshot().Members),
	}), nil
}

// ListExpenses returns the active expenses in the order they were recorded.
func (s *SettleService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	snap := s.manager.Snapshot()
	return connect.NewResponse(&api.ListExpensesResponse{
		Expenses:    expensesToProto(snap.Expenses),
		TotalAmount: models.TotalAmount(snap.Expenses),
	}), nil
}

// AddExpense validates and records an expense. The id is assigned by the server when empty.
func (s *SettleService) AddExpense(ctx context.Context, req *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error) {
	if req.Msg.Expense == nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("expense is required"))
	}

	expense, err := expenseFromProto(req.Msg.Expense)
	if err != nil {
		return nil, toConnectError(err)
	}

	recorded, err := s.manager.AddExpense(expense)
	if err != nil {
		slog.Warn("AddExpense rejected", "item", expense.ItemName, "payer", expense.Payer, "error", err)
		return nil, toConnectError(err)
	}
	slog.Info("Expense added",
		"expense_id", recorded.ID,
		"item", recorded.ItemName,
		"payer", recorded.Payer,
		"amount", recorded.Amount,
		"split", recorded.SplitMethod,
	)

	return connect.NewResponse(&api.AddExpenseResponse{
		Expense: expenseToProto(recorded),
	}), nil
}

// DeleteExpense removes an active expense.
func (s *SettleService) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	if err := s.manager.DeleteExpense(req.Msg.ExpenseID); err != nil {
		slog.Warn("DeleteExpense failed", "expense_id", req.Msg.ExpenseID, "error", err)
		return nil, toConnectError(err)
	}
	slog.Info("Expense deleted", "expense_id", req.Msg.ExpenseID)
	return connect.NewResponse(&api.DeleteExpenseResponse{}), nil
}

// PreviewBalances computes balances and the pending transactions without settling.
func (s *SettleService) PreviewBalances(ctx context.Context, req *connect.Request[api.PreviewBalancesRequest]) (*connect.Response[api.PreviewBalancesResponse], error) {
	snap := s.manager.Snapshot()
	result := snap.Preview(s.manager.Mode())

	slog.Debug("Balances previewed",
		"expenses", len(snap.Expenses),
		"transactions", len(result.Transactions),
		"main_creditor", result.MainCreditor,
	)

	return connect.NewResponse(&api.PreviewBalancesResponse{
		Balances:     balancesToProto(calculator.Summarize(snap.Members, snap.Expenses)),
		Transactions: transactionsToProto(result.Transactions),
		MainCreditor: string(result.MainCreditor),
	}), nil
}

// SettleUp settles every active expense into a new bill.
func (s *SettleService) SettleUp(ctx context.Context, req *connect.Request[api.SettleUpRequest]) (*connect.Response[api.SettleUpResponse], error) {
	bill, err := s.manager.Settle()
	if err != nil {
		slog.Warn("SettleUp failed", "error", err)
		return nil, toConnectError(err)
	}
	slog.Info("Bill settled",
		"bill_id", bill.ID,
		"expenses", len(bill.Expenses),
		"transactions", len(bill.Transactions),
		"main_creditor", bill.MainCreditor,
	)

	return connect.NewResponse(&api.SettleUpResponse{
		Bill: billToProto(bill),
	}), nil
}

// ListSettledBills returns the settlement history, newest first, with totals.
func (s *SettleService) ListSettledBills(ctx context.Context, req *connect.Request[api.ListSettledBillsRequest]) (*connect.Response[api.ListSettledBillsResponse], error) {
	snap := s.manager.Snapshot()

	bills := make([]*api.SettledBill, len(snap.History))
	for i, b := range snap.History {
		bills[i] = billToProto(b)
	}
	stats := report.NewHistoryStats(snap.History)

	return connect.NewResponse(&api.ListSettledBillsResponse{
		Bills: bills,
		Stats: &api.HistoryStats{
			Settlements: stats.Settlements,
			Expenses:    stats.Expenses,
			TotalAmount: stats.TotalAmount,
		},
	}), nil
}

// GetSettledBill returns one settled bill with its member x item report.
func (s *SettleService) GetSettledBill(ctx context.Context, req *connect.Request[api.GetSettledBillRequest]) (*connect.Response[api.GetSettledBillResponse], error) {
	snap := s.manager.Snapshot()
	bill, ok := snap.Bill(req.Msg.BillID)
	if !ok {
		return nil, toConnectError(fmt.Errorf("%w: %s", state.ErrBillNotFound, req.Msg.BillID))
	}

	return connect.NewResponse(&api.GetSettledBillResponse{
		Bill:   billToProto(bill),
		Report: reportToProto(report.NewBillReport(bill, snap.Members)),
	}), nil
}

// GetMemberStatement returns one member's view of a settled bill.
func (s *SettleService) GetMemberStatement(ctx context.Context, req *connect.Request[api.GetMemberStatementRequest]) (*connect.Response[api.GetMemberStatementResponse], error) {
	bill, ok := s.manager.Snapshot().Bill(req.Msg.BillID)
	if !ok {
		return nil, toConnectError(fmt.Errorf("%w: %s", state.ErrBillNotFound, req.Msg.BillID))
	}

	statement, err := report.NewMemberStatement(bill, models.NormalizeMember(req.Msg.Member))
	if err != nil {
		return nil, toConnectError(fmt.Errorf("%w: %s", err, req.Msg.Member))
	}

	return connect.NewResponse(&api.GetMemberStatementResponse{
		Statement: statementToProto(statement),
	}), nil
}

// ClearAllData drops every expense and settled bill and restores the default roster.
func (s *SettleService) ClearAllData(ctx context.Context, req *connect.Request[api.ClearAllDataRequest]) (*connect.Response[api.ClearAllDataResponse], error) {
	s.manager.ClearAll()
	slog.Warn("All data cleared")
	return connect.NewResponse(&api.ClearAllDataResponse{}), nil
}
