package service

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/settleup/internal/middleware"
	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/state"
	"github.com/mmynk/settleup/internal/storage"
	"github.com/mmynk/settleup/internal/storage/sqlite"
	"github.com/mmynk/settleup/pkg/api"
	"github.com/mmynk/settleup/pkg/api/apiconnect"
)

var testRoster = []models.Member{"Alice", "Bob", "Carol"}

// setupTestServer creates a test server backed by a temporary SQLite database.
func setupTestServer(t *testing.T) (apiconnect.SettleServiceClient, storage.Store) {
	t.Helper()

	store, err := sqlite.New(t.TempDir() + "/settleup.db")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	manager := state.NewManager(state.Cleared(testRoster), state.WithDefaultRoster(testRoster))
	storage.NewPersister(store, testRoster).Attach(manager)

	path, handler := apiconnect.NewSettleServiceHandler(
		NewSettleService(manager),
		connect.WithInterceptors(middleware.LoggingInterceptor()),
	)
	mux := http.NewServeMux()
	mux.Handle(path, handler)
	server := httptest.NewServer(mux)

	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	return apiconnect.NewSettleServiceClient(http.DefaultClient, server.URL), store
}

func addExpense(t *testing.T, client apiconnect.SettleServiceClient, e *api.Expense) *api.Expense {
	t.Helper()
	resp, err := client.AddExpense(context.Background(), connect.NewRequest(&api.AddExpenseRequest{Expense: e}))
	if err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}
	return resp.Msg.Expense
}

func hotel() *api.Expense {
	return &api.Expense{
		Payer:        "Alice",
		Participants: []string{"Alice", "Bob", "Carol"},
		Amount:       300,
		ItemName:     "Hotel",
		SplitMethod:  api.SplitEvenly,
	}
}

func TestAddExpense_AssignsID(t *testing.T) {
	client, _ := setupTestServer(t)

	got := addExpense(t, client, hotel())
	if got.ID == "" {
		t.Error("expected server-assigned expense id")
	}
	if got.SplitMethod != api.SplitEvenly || got.Amount != 300 {
		t.Errorf("unexpected expense: %+v", got)
	}

	resp, err := client.ListExpenses(context.Background(), connect.NewRequest(&api.ListExpensesRequest{}))
	if err != nil {
		t.Fatalf("ListExpenses failed: %v", err)
	}
	if len(resp.Msg.Expenses) != 1 || resp.Msg.TotalAmount != 300 {
		t.Errorf("ListExpenses = %+v", resp.Msg)
	}
}

func TestAddExpense_Invalid(t *testing.T) {
	client, _ := setupTestServer(t)

	tests := []struct {
		name    string
		expense *api.Expense
		code    connect.Code
	}{
		{"missing expense", nil, connect.CodeInvalidArgument},
		{"no participants", &api.Expense{Payer: "Alice", Amount: 10, ItemName: "Taxi", SplitMethod: api.SplitEvenly}, connect.CodeInvalidArgument},
		{"zero amount", &api.Expense{Payer: "Alice", Participants: []string{"Bob"}, ItemName: "Taxi", SplitMethod: api.SplitEvenly}, connect.CodeInvalidArgument},
		{"unknown split method", &api.Expense{Payer: "Alice", Participants: []string{"Bob"}, Amount: 10, ItemName: "Taxi", SplitMethod: "RANDOM"}, connect.CodeInvalidArgument},
		{"unknown member", &api.Expense{Payer: "Mallory", Participants: []string{"Bob"}, Amount: 10, ItemName: "Taxi", SplitMethod: api.SplitEvenly}, connect.CodeInvalidArgument},
		{"manual mismatch", &api.Expense{
			Payer:        "Alice",
			Participants: []string{"Alice", "Bob"},
			Amount:       100,
			ItemName:     "Fuel",
			SplitMethod:  api.SplitManually,
			ManualSplits: map[string]float64{"Alice": 30, "Bob": 30},
		}, connect.CodeInvalidArgument},
		{"duplicate participant", &api.Expense{
			Payer:        "Alice",
			Participants: []string{"Alice", " Alice", "Bob"},
			Amount:       100,
			ItemName:     "Fuel",
			SplitMethod:  api.SplitManually,
			ManualSplits: map[string]float64{"Alice": 40, "Bob": 60},
		}, connect.CodeInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.AddExpense(context.Background(), connect.NewRequest(&api.AddExpenseRequest{Expense: tt.expense}))
			if err == nil {
				t.Fatal("expected error")
			}
			if code := connect.CodeOf(err); code != tt.code {
				t.Errorf("code = %v, want %v (%v)", code, tt.code, err)
			}
		})
	}
}

func TestDeleteExpense(t *testing.T) {
	client, _ := setupTestServer(t)
	ctx := context.Background()

	e := addExpense(t, client, hotel())
	if _, err := client.DeleteExpense(ctx, connect.NewRequest(&api.DeleteExpenseRequest{ExpenseID: e.ID})); err != nil {
		t.Fatalf("DeleteExpense failed: %v", err)
	}

	_, err := client.DeleteExpense(ctx, connect.NewRequest(&api.DeleteExpenseRequest{ExpenseID: e.ID}))
	if connect.CodeOf(err) != connect.CodeNotFound {
		t.Errorf("second delete: expected NotFound, got %v", err)
	}
}

func TestPreviewBalances(t *testing.T) {
	client, _ := setupTestServer(t)
	addExpense(t, client, hotel())
	addExpense(t, client, &api.Expense{
		Payer:        "Bob",
		Participants: []string{"Alice", "Bob"},
		Amount:       60,
		ItemName:     "Taxi",
		SplitMethod:  api.SplitManually,
		ManualSplits: map[string]float64{"Alice": 20, "Bob": 40},
	})

	resp, err := client.PreviewBalances(context.Background(), connect.NewRequest(&api.PreviewBalancesRequest{}))
	if err != nil {
		t.Fatalf("PreviewBalances failed: %v", err)
	}

	// Alice: 300 - 100 - 20 = 180, Bob: 60 - 100 - 40 = -80, Carol: -100
	want := map[string]float64{"Alice": 180, "Bob": -80, "Carol": -100}
	for _, b := range resp.Msg.Balances {
		if math.Abs(b.NetBalance-want[b.Member]) > 0.01 {
			t.Errorf("%s balance = %.2f, want %.2f", b.Member, b.NetBalance, want[b.Member])
		}
	}

	if resp.Msg.MainCreditor != "Alice" {
		t.Errorf("MainCreditor = %q, want Alice", resp.Msg.MainCreditor)
	}
	if len(resp.Msg.Transactions) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(resp.Msg.Transactions))
	}
	for _, tx := range resp.Msg.Transactions {
		if tx.To != "Alice" {
			t.Errorf("transaction %+v should go to the main creditor", tx)
		}
	}
}

func TestPreviewBalances_ConsistentUnderConcurrentWrites(t *testing.T) {
	client, _ := setupTestServer(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	defer wg.Wait()
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			e := hotel()
			e.Payer = string(testRoster[i%len(testRoster)])
			e.Amount = float64(10 + i)
			if _, err := client.AddExpense(ctx, connect.NewRequest(&api.AddExpenseRequest{Expense: e})); err != nil {
				t.Errorf("AddExpense failed: %v", err)
				return
			}
		}
	}()

	for i := 0; i < 20; i++ {
		resp, err := client.PreviewBalances(ctx, connect.NewRequest(&api.PreviewBalancesRequest{}))
		if err != nil {
			t.Fatalf("PreviewBalances failed: %v", err)
		}
		net := make(map[string]float64)
		for _, b := range resp.Msg.Balances {
			net[b.Member] = b.NetBalance
		}
		for _, tx := range resp.Msg.Transactions {
			net[tx.From] += tx.Amount
			net[tx.To] -= tx.Amount
		}
		for member, v := range net {
			if math.Abs(v) > 0.01 {
				t.Fatalf("preview %d: %s left at %.2f after applying transactions", i, member, v)
			}
		}
	}
}

func TestSettleUp(t *testing.T) {
	client, store := setupTestServer(t)
	ctx := context.Background()

	_, err := client.SettleUp(ctx, connect.NewRequest(&api.SettleUpRequest{}))
	if connect.CodeOf(err) != connect.CodeFailedPrecondition {
		t.Errorf("settling nothing: expected FailedPrecondition, got %v", err)
	}

	addExpense(t, client, hotel())
	resp, err := client.SettleUp(ctx, connect.NewRequest(&api.SettleUpRequest{}))
	if err != nil {
		t.Fatalf("SettleUp failed: %v", err)
	}
	bill := resp.Msg.Bill
	if bill.ID == "" || bill.Date == "" || bill.CreatedAt == 0 {
		t.Errorf("bill missing identity: %+v", bill)
	}
	if bill.MainCreditor != "Alice" || len(bill.Transactions) != 2 || len(bill.Expenses) != 1 {
		t.Errorf("unexpected bill: %+v", bill)
	}

	expenses, err := client.ListExpenses(ctx, connect.NewRequest(&api.ListExpensesRequest{}))
	if err != nil {
		t.Fatalf("ListExpenses failed: %v", err)
	}
	if len(expenses.Msg.Expenses) != 0 {
		t.Errorf("active expenses should be empty after settle, got %d", len(expenses.Msg.Expenses))
	}

	history, err := client.ListSettledBills(ctx, connect.NewRequest(&api.ListSettledBillsRequest{}))
	if err != nil {
		t.Fatalf("ListSettledBills failed: %v", err)
	}
	if len(history.Msg.Bills) != 1 || history.Msg.Stats.Settlements != 1 || history.Msg.Stats.TotalAmount != 300 {
		t.Errorf("unexpected history: %+v", history.Msg)
	}

	stored, err := store.LoadSettledBills(ctx)
	if err != nil {
		t.Fatalf("LoadSettledBills failed: %v", err)
	}
	if len(stored) != 1 || stored[0].ID != bill.ID {
		t.Errorf("settled bill not persisted: %+v", stored)
	}
}

func TestGetSettledBill(t *testing.T) {
	client, _ := setupTestServer(t)
	ctx := context.Background()

	addExpense(t, client, hotel())
	settled, err := client.SettleUp(ctx, connect.NewRequest(&api.SettleUpRequest{}))
	if err != nil {
		t.Fatalf("SettleUp failed: %v", err)
	}
	billID := settled.Msg.Bill.ID

	resp, err := client.GetSettledBill(ctx, connect.NewRequest(&api.GetSettledBillRequest{BillID: billID}))
	if err != nil {
		t.Fatalf("GetSettledBill failed: %v", err)
	}
	r := resp.Msg.Report
	if len(r.Items) != 1 || r.Items[0] != "Hotel" || len(r.Rows) != 3 {
		t.Errorf("unexpected report: %+v", r)
	}
	if math.Abs(r.TotalPaid-300) > 0.01 || math.Abs(r.TotalNet) > 0.01 {
		t.Errorf("report totals paid=%.2f net=%.2f", r.TotalPaid, r.TotalNet)
	}

	_, err = client.GetSettledBill(ctx, connect.NewRequest(&api.GetSettledBillRequest{BillID: "missing"}))
	if connect.CodeOf(err) != connect.CodeNotFound {
		t.Errorf("expected NotFound, got %v", err)
	}

	stmt, err := client.GetMemberStatement(ctx, connect.NewRequest(&api.GetMemberStatementRequest{BillID: billID, Member: "Bob"}))
	if err != nil {
		t.Fatalf("GetMemberStatement failed: %v", err)
	}
	s := stmt.Msg.Statement
	if len(s.Pay) != 1 || s.Pay[0].To != "Alice" || math.Abs(s.Pay[0].Amount-100) > 0.01 {
		t.Errorf("Bob should pay Alice 100, got %+v", s.Pay)
	}
}

func TestAddMember(t *testing.T) {
	client, store := setupTestServer(t)
	ctx := context.Background()

	resp, err := client.AddMember(ctx, connect.NewRequest(&api.AddMemberRequest{Name: "  Dave "}))
	if err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}
	if resp.Msg.Member != "Dave" || len(resp.Msg.Members) != 4 {
		t.Errorf("unexpected response: %+v", resp.Msg)
	}

	_, err = client.AddMember(ctx, connect.NewRequest(&api.AddMemberRequest{Name: "Dave"}))
	if connect.CodeOf(err) != connect.CodeAlreadyExists {
		t.Errorf("duplicate member: expected AlreadyExists, got %v", err)
	}
	_, err = client.AddMember(ctx, connect.NewRequest(&api.AddMemberRequest{Name: "   "}))
	if connect.CodeOf(err) != connect.CodeInvalidArgument {
		t.Errorf("blank member: expected InvalidArgument, got %v", err)
	}

	stored, err := store.LoadMembers(ctx)
	if err != nil {
		t.Fatalf("LoadMembers failed: %v", err)
	}
	if len(stored) != 1 || stored[0] != "Dave" {
		t.Errorf("stored custom members = %v, want [Dave]", stored)
	}
}

func TestClearAllData(t *testing.T) {
	client, _ := setupTestServer(t)
	ctx := context.Background()

	client.AddMember(ctx, connect.NewRequest(&api.AddMemberRequest{Name: "Dave"}))
	addExpense(t, client, hotel())
	if _, err := client.SettleUp(ctx, connect.NewRequest(&api.SettleUpRequest{})); err != nil {
		t.Fatalf("SettleUp failed: %v", err)
	}

	if _, err := client.ClearAllData(ctx, connect.NewRequest(&api.ClearAllDataRequest{})); err != nil {
		t.Fatalf("ClearAllData failed: %v", err)
	}

	members, err := client.ListMembers(ctx, connect.NewRequest(&api.ListMembersRequest{}))
	if err != nil {
		t.Fatalf("ListMembers failed: %v", err)
	}
	if len(members.Msg.Members) != len(testRoster) {
		t.Errorf("roster after clear = %v", members.Msg.Members)
	}

	history, err := client.ListSettledBills(ctx, connect.NewRequest(&api.ListSettledBillsRequest{}))
	if err != nil {
		t.Fatalf("ListSettledBills failed: %v", err)
	}
	if len(history.Msg.Bills) != 0 {
		t.Errorf("history after clear has %d bills", len(history.Msg.Bills))
	}
}
