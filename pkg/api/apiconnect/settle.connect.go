// Package apiconnect wires the settleup.v1 SettleService to Connect handlers and clients.
package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/settleup/pkg/api"
)

// SettleServiceName is the fully-qualified name of the SettleService service.
const SettleServiceName = "settleup.v1.SettleService"

// Procedure paths, relative to the server's base URL.
const (
	SettleServiceListMembersProcedure        = "/settleup.v1.SettleService/ListMembers"
	SettleServiceAddMemberProcedure          = "/settleup.v1.SettleService/AddMember"
	SettleServiceListExpensesProcedure       = "/settleup.v1.SettleService/ListExpenses"
	SettleServiceAddExpenseProcedure         = "/settleup.v1.SettleService/AddExpense"
	SettleServiceDeleteExpenseProcedure      = "/settleup.v1.SettleService/DeleteExpense"
	SettleServicePreviewBalancesProcedure    = "/settleup.v1.SettleService/PreviewBalances"
	SettleServiceSettleUpProcedure           = "/settleup.v1.SettleService/SettleUp"
	SettleServiceListSettledBillsProcedure   = "/settleup.v1.SettleService/ListSettledBills"
	SettleServiceGetSettledBillProcedure     = "/settleup.v1.SettleService/GetSettledBill"
	SettleServiceGetMemberStatementProcedure = "/settleup.v1.SettleService/GetMemberStatement"
	SettleServiceClearAllDataProcedure       = "/settleup.v1.SettleService/ClearAllData"
)

// SettleServiceHandler is implemented by the server side of SettleService.
type SettleServiceHandler interface {
	ListMembers(context.Context, *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error)
	AddMember(context.Context, *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error)
	ListExpenses(context.Context, *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error)
	AddExpense(context.Context, *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error)
	DeleteExpense(context.Context, *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error)
	PreviewBalances(context.Context, *connect.Request[api.PreviewBalancesRequest]) (*connect.Response[api.PreviewBalancesResponse], error)
	SettleUp(context.Context, *connect.Request[api.SettleUpRequest]) (*connect.Response[api.SettleUpResponse], error)
	ListSettledBills(context.Context, *connect.Request[api.ListSettledBillsRequest]) (*connect.Response[api.ListSettledBillsResponse], error)
	GetSettledBill(context.Context, *connect.Request[api.GetSettledBillRequest]) (*connect.Response[api.GetSettledBillResponse], error)
	GetMemberStatement(context.Context, *connect.Request[api.GetMemberStatementRequest]) (*connect.Response[api.GetMemberStatementResponse], error)
	ClearAllData(context.Context, *connect.Request[api.ClearAllDataRequest]) (*connect.Response[api.ClearAllDataResponse], error)
}

// NewSettleServiceHandler builds an HTTP handler for svc and returns it with the path
// it must be mounted on. The api.Codec is always registered.
func NewSettleServiceHandler(svc SettleServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(api.Codec{})}, opts...)

	handlers := map[string]http.Handler{
		SettleServiceListMembersProcedure:        connect.NewUnaryHandler(SettleServiceListMembersProcedure, svc.ListMembers, opts...),
		SettleServiceAddMemberProcedure:          connect.NewUnaryHandler(SettleServiceAddMemberProcedure, svc.AddMember, opts...),
		SettleServiceListExpensesProcedure:       connect.NewUnaryHandler(SettleServiceListExpensesProcedure, svc.ListExpenses, opts...),
		SettleServiceAddExpenseProcedure:         connect.NewUnaryHandler(SettleServiceAddExpenseProcedure, svc.AddExpense, opts...),
		SettleServiceDeleteExpenseProcedure:      connect.NewUnaryHandler(SettleServiceDeleteExpenseProcedure, svc.DeleteExpense, opts...),
		SettleServicePreviewBalancesProcedure:    connect.NewUnaryHandler(SettleServicePreviewBalancesProcedure, svc.PreviewBalances, opts...),
		SettleServiceSettleUpProcedure:           connect.NewUnaryHandler(SettleServiceSettleUpProcedure, svc.SettleUp, opts...),
		SettleServiceListSettledBillsProcedure:   connect.NewUnaryHandler(SettleServiceListSettledBillsProcedure, svc.ListSettledBills, opts...),
		SettleServiceGetSettledBillProcedure:     connect.NewUnaryHandler(SettleServiceGetSettledBillProcedure, svc.GetSettledBill, opts...),
		SettleServiceGetMemberStatementProcedure: connect.NewUnaryHandler(SettleServiceGetMemberStatementProcedure, svc.GetMemberStatement, opts...),
		SettleServiceClearAllDataProcedure:       connect.NewUnaryHandler(SettleServiceClearAllDataProcedure, svc.ClearAllData, opts...),
	}

	prefix := "/" + SettleServiceName + "/"
	return prefix, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h, ok := handlers[r.URL.Path]; ok {
			h.ServeHTTP(w, r)
			return
		}
		http.NotFound(w, r)
	})
}

// SettleServiceClient is a client for SettleService.
type SettleServiceClient interface {
	ListMembers(context.Context, *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error)
	AddMember(context.Context, *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error)
	ListExpenses(context.Context, *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error)
	AddExpense(context.Context, *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error)
	DeleteExpense(context.Context, *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error)
	PreviewBalances(context.Context, *connect.Request[api.PreviewBalancesRequest]) (*connect.Response[api.PreviewBalancesResponse], error)
	SettleUp(context.Context, *connect.Request[api.SettleUpRequest]) (*connect.Response[api.SettleUpResponse], error)
	ListSettledBills(context.Context, *connect.Request[api.ListSettledBillsRequest]) (*connect.Response[api.ListSettledBillsResponse], error)
	GetSettledBill(context.Context, *connect.Request[api.GetSettledBillRequest]) (*connect.Response[api.GetSettledBillResponse], error)
	GetMemberStatement(context.Context, *connect.Request[api.GetMemberStatementRequest]) (*connect.Response[api.GetMemberStatementResponse], error)
	ClearAllData(context.Context, *connect.Request[api.ClearAllDataRequest]) (*connect.Response[api.ClearAllDataResponse], error)
}

// NewSettleServiceClient creates a client for the SettleService at baseURL, e.g.
// http://localhost:8080. The api.Codec is always used.
func NewSettleServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) SettleServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(api.Codec{})}, opts...)
	return &settleServiceClient{
		listMembers:        connect.NewClient[api.ListMembersRequest, api.ListMembersResponse](httpClient, baseURL+SettleServiceListMembersProcedure, opts...),
		addMember:          connect.NewClient[api.AddMemberRequest, api.AddMemberResponse](httpClient, baseURL+SettleServiceAddMemberProcedure, opts...),
		listExpenses:       connect.NewClient[api.ListExpensesRequest, api.ListExpensesResponse](httpClient, baseURL+SettleServiceListExpensesProcedure, opts...),
		addExpense:         connect.NewClient[api.AddExpenseRequest, api.AddExpenseResponse](httpClient, baseURL+SettleServiceAddExpenseProcedure, opts...),
		deleteExpense:      connect.NewClient[api.DeleteExpenseRequest, api.DeleteExpenseResponse](httpClient, baseURL+SettleServiceDeleteExpenseProcedure, opts...),
		previewBalances:    connect.NewClient[api.PreviewBalancesRequest, api.PreviewBalancesResponse](httpClient, baseURL+SettleServicePreviewBalancesProcedure, opts...),
		settleUp:           connect.NewClient[api.SettleUpRequest, api.SettleUpResponse](httpClient, baseURL+SettleServiceSettleUpProcedure, opts...),
		listSettledBills:   connect.NewClient[api.ListSettledBillsRequest, api.ListSettledBillsResponse](httpClient, baseURL+SettleServiceListSettledBillsProcedure, opts...),
		getSettledBill:     connect.NewClient[api.GetSettledBillRequest, api.GetSettledBillResponse](httpClient, baseURL+SettleServiceGetSettledBillProcedure, opts...),
		getMemberStatement: connect.NewClient[api.GetMemberStatementRequest, api.GetMemberStatementResponse](httpClient, baseURL+SettleServiceGetMemberStatementProcedure, opts...),
		clearAllData:       connect.NewClient[api.ClearAllDataRequest, api.ClearAllDataResponse](httpClient, baseURL+SettleServiceClearAllDataProcedure, opts...),
	}
}

type settleServiceClient struct {
	listMembers        *connect.Client[api.ListMembersRequest, api.ListMembersResponse]
	addMember          *connect.Client[api.AddMemberRequest, api.AddMemberResponse]
	listExpenses       *connect.Client[api.ListExpensesRequest, api.ListExpensesResponse]
	addExpense         *connect.Client[api.AddExpenseRequest, api.AddExpenseResponse]
	deleteExpense      *connect.Client[api.DeleteExpenseRequest, api.DeleteExpenseResponse]
	previewBalances    *connect.Client[api.PreviewBalancesRequest, api.PreviewBalancesResponse]
	settleUp           *connect.Client[api.SettleUpRequest, api.SettleUpResponse]
	listSettledBills   *connect.Client[api.ListSettledBillsRequest, api.ListSettledBillsResponse]
	getSettledBill     *connect.Client[api.GetSettledBillRequest, api.GetSettledBillResponse]
	getMemberStatement *connect.Client[api.GetMemberStatementRequest, api.GetMemberStatementResponse]
	clearAllData       *connect.Client[api.ClearAllDataRequest, api.ClearAllDataResponse]
}

func (c *settleServiceClient) ListMembers(ctx context.Context, req *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error) {
	return c.listMembers.CallUnary(ctx, req)
}

func (c *settleServiceClient) AddMember(ctx context.Context, req *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error) {
	return c.addMember.CallUnary(ctx, req)
}

func (c *settleServiceClient) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	return c.listExpenses.CallUnary(ctx, req)
}

func (c *settleServiceClient) AddExpense(ctx context.Context, req *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error) {
	return c.addExpense.CallUnary(ctx, req)
}

func (c *settleServiceClient) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	return c.deleteExpense.CallUnary(ctx, req)
}

func (c *settleServiceClient) PreviewBalances(ctx context.Context, req *connect.Request[api.PreviewBalancesRequest]) (*connect.Response[api.PreviewBalancesResponse], error) {
	return c.previewBalances.CallUnary(ctx, req)
}

func (c *settleServiceClient) SettleUp(ctx context.Context, req *connect.Request[api.SettleUpRequest]) (*connect.Response[api.SettleUpResponse], error) {
	return c.settleUp.CallUnary(ctx, req)
}

func (c *settleServiceClient) ListSettledBills(ctx context.Context, req *connect.Request[api.ListSettledBillsRequest]) (*connect.Response[api.ListSettledBillsResponse], error) {
	return c.listSettledBills.CallUnary(ctx, req)
}

func (c *settleServiceClient) GetSettledBill(ctx context.Context, req *connect.Request[api.GetSettledBillRequest]) (*connect.Response[api.GetSettledBillResponse], error) {
	return c.getSettledBill.CallUnary(ctx, req)
}

func (c *settleServiceClient) GetMemberStatement(ctx context.Context, req *connect.Request[api.GetMemberStatementRequest]) (*connect.Response[api.GetMemberStatementResponse], error) {
	return c.getMemberStatement.CallUnary(ctx, req)
}

func (c *settleServiceClient) ClearAllData(ctx context.Context, req *connect.Request[api.ClearAllDataRequest]) (*connect.Response[api.ClearAllDataResponse], error) {
	return c.clearAllData.CallUnary(ctx, req)
}
