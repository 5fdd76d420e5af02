package api

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// LedgerServiceName is the fully-qualified name of the LedgerService service.
const LedgerServiceName = "splitledger.v1.LedgerService"

// These constants are the fully-qualified names of the RPCs defined in this
// package. They're exposed at runtime as Spec.Procedure and as the final two
// segments of the HTTP route.
const (
	LedgerServiceCreateUserProcedure      = "/splitledger.v1.LedgerService/CreateUser"
	LedgerServiceCreateGroupProcedure     = "/splitledger.v1.LedgerService/CreateGroup"
	LedgerServiceAddMemberProcedure       = "/splitledger.v1.LedgerService/AddMember"
	LedgerServiceAddExpenseProcedure      = "/splitledger.v1.LedgerService/AddExpense"
	LedgerServiceMakePaymentProcedure     = "/splitledger.v1.LedgerService/MakePayment"
	LedgerServiceGetBalancesProcedure     = "/splitledger.v1.LedgerService/GetBalances"
	LedgerServiceGetLogProcedure          = "/splitledger.v1.LedgerService/GetLog"
	LedgerServiceGetPendingDebtsProcedure = "/splitledger.v1.LedgerService/GetPendingDebts"
	LedgerServiceSettleDebtsProcedure     = "/splitledger.v1.LedgerService/SettleDebts"
	LedgerServiceListGroupsProcedure      = "/splitledger.v1.LedgerService/ListGroups"
	LedgerServiceGetJournalProcedure      = "/splitledger.v1.LedgerService/GetJournal"
)

// LedgerServiceClient is a client for the splitledger.v1.LedgerService service.
type LedgerServiceClient interface {
	CreateUser(context.Context, *connect.Request[CreateUserRequest]) (*connect.Response[CreateUserResponse], error)
	CreateGroup(context.Context, *connect.Request[CreateGroupRequest]) (*connect.Response[CreateGroupResponse], error)
	AddMember(context.Context, *connect.Request[AddMemberRequest]) (*connect.Response[AddMemberResponse], error)
	AddExpense(context.Context, *connect.Request[AddExpenseRequest]) (*connect.Response[AddExpenseResponse], error)
	MakePayment(context.Context, *connect.Request[MakePaymentRequest]) (*connect.Response[MakePaymentResponse], error)
	GetBalances(context.Context, *connect.Request[GetBalancesRequest]) (*connect.Response[GetBalancesResponse], error)
	GetLog(context.Context, *connect.Request[GetLogRequest]) (*connect.Response[GetLogResponse], error)
	GetPendingDebts(context.Context, *connect.Request[GetPendingDebtsRequest]) (*connect.Response[GetPendingDebtsResponse], error)
	SettleDebts(context.Context, *connect.Request[SettleDebtsRequest]) (*connect.Response[SettleDebtsResponse], error)
	ListGroups(context.Context, *connect.Request[ListGroupsRequest]) (*connect.Response[ListGroupsResponse], error)
	GetJournal(context.Context, *connect.Request[GetJournalRequest]) (*connect.Response[GetJournalResponse], error)
}

// NewLedgerServiceClient constructs a client for the
// splitledger.v1.LedgerService service. Requests are always JSON encoded.
//
// The URL supplied here should be the base URL for the Connect server (for
// example, http://api.acme.com or https://acme.com/grpc).
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) LedgerServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append(opts, connect.WithCodec(JSONCodec{}))
	return &ledgerServiceClient{
		createUser:      connect.NewClient[CreateUserRequest, CreateUserResponse](httpClient, baseURL+LedgerServiceCreateUserProcedure, opts...),
		createGroup:     connect.NewClient[CreateGroupRequest, CreateGroupResponse](httpClient, baseURL+LedgerServiceCreateGroupProcedure, opts...),
		addMember:       connect.NewClient[AddMemberRequest, AddMemberResponse](httpClient, baseURL+LedgerServiceAddMemberProcedure, opts...),
		addExpense:      connect.NewClient[AddExpenseRequest, AddExpenseResponse](httpClient, baseURL+LedgerServiceAddExpenseProcedure, opts...),
		makePayment:     connect.NewClient[MakePaymentRequest, MakePaymentResponse](httpClient, baseURL+LedgerServiceMakePaymentProcedure, opts...),
		getBalances:     connect.NewClient[GetBalancesRequest, GetBalancesResponse](httpClient, baseURL+LedgerServiceGetBalancesProcedure, opts...),
		getLog:          connect.NewClient[GetLogRequest, GetLogResponse](httpClient, baseURL+LedgerServiceGetLogProcedure, opts...),
		getPendingDebts: connect.NewClient[GetPendingDebtsRequest, GetPendingDebtsResponse](httpClient, baseURL+LedgerServiceGetPendingDebtsProcedure, opts...),
		settleDebts:     connect.NewClient[SettleDebtsRequest, SettleDebtsResponse](httpClient, baseURL+LedgerServiceSettleDebtsProcedure, opts...),
		listGroups:      connect.NewClient[ListGroupsRequest, ListGroupsResponse](httpClient, baseURL+LedgerServiceListGroupsProcedure, opts...),
		getJournal:      connect.NewClient[GetJournalRequest, GetJournalResponse](httpClient, baseURL+LedgerServiceGetJournalProcedure, opts...),
	}
}

type ledgerServiceClient struct {
	createUser      *connect.Client[CreateUserRequest, CreateUserResponse]
	createGroup     *connect.Client[CreateGroupRequest, CreateGroupResponse]
	addMember       *connect.Client[AddMemberRequest, AddMemberResponse]
	addExpense      *connect.Client[AddExpenseRequest, AddExpenseResponse]
	makePayment     *connect.Client[MakePaymentRequest, MakePaymentResponse]
	getBalances     *connect.Client[GetBalancesRequest, GetBalancesResponse]
	getLog          *connect.Client[GetLogRequest, GetLogResponse]
	getPendingDebts *connect.Client[GetPendingDebtsRequest, GetPendingDebtsResponse]
	settleDebts     *connect.Client[SettleDebtsRequest, SettleDebtsResponse]
	listGroups      *connect.Client[ListGroupsRequest, ListGroupsResponse]
	getJournal      *connect.Client[GetJournalRequest, GetJournalResponse]
}

func (c *ledgerServiceClient) CreateUser(ctx context.Context, req *connect.Request[CreateUserRequest]) (*connect.Response[CreateUserResponse], error) {
	return c.createUser.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) CreateGroup(ctx context.Context, req *connect.Request[CreateGroupRequest]) (*connect.Response[CreateGroupResponse], error) {
	return c.createGroup.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) AddMember(ctx context.Context, req *connect.Request[AddMemberRequest]) (*connect.Response[AddMemberResponse], error) {
	return c.addMember.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) AddExpense(ctx context.Context, req *connect.Request[AddExpenseRequest]) (*connect.Response[AddExpenseResponse], error) {
	return c.addExpense.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) MakePayment(ctx context.Context, req *connect.Request[MakePaymentRequest]) (*connect.Response[MakePaymentResponse], error) {
	return c.makePayment.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetBalances(ctx context.Context, req *connect.Request[GetBalancesRequest]) (*connect.Response[GetBalancesResponse], error) {
	return c.getBalances.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetLog(ctx context.Context, req *connect.Request[GetLogRequest]) (*connect.Response[GetLogResponse], error) {
	return c.getLog.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetPendingDebts(ctx context.Context, req *connect.Request[GetPendingDebtsRequest]) (*connect.Response[GetPendingDebtsResponse], error) {
	return c.getPendingDebts.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) SettleDebts(ctx context.Context, req *connect.Request[SettleDebtsRequest]) (*connect.Response[SettleDebtsResponse], error) {
	return c.settleDebts.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ListGroups(ctx context.Context, req *connect.Request[ListGroupsRequest]) (*connect.Response[ListGroupsResponse], error) {
	return c.listGroups.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetJournal(ctx context.Context, req *connect.Request[GetJournalRequest]) (*connect.Response[GetJournalResponse], error) {
	return c.getJournal.CallUnary(ctx, req)
}

// LedgerServiceHandler is an implementation of the
// splitledger.v1.LedgerService service.
type LedgerServiceHandler interface {
	CreateUser(context.Context, *connect.Request[CreateUserRequest]) (*connect.Response[CreateUserResponse], error)
	CreateGroup(context.Context, *connect.Request[CreateGroupRequest]) (*connect.Response[CreateGroupResponse], error)
	AddMember(context.Context, *connect.Request[AddMemberRequest]) (*connect.Response[AddMemberResponse], error)
	AddExpense(context.Context, *connect.Request[AddExpenseRequest]) (*connect.Response[AddExpenseResponse], error)
	MakePayment(context.Context, *connect.Request[MakePaymentRequest]) (*connect.Response[MakePaymentResponse], error)
	GetBalances(context.Context, *connect.Request[GetBalancesRequest]) (*connect.Response[GetBalancesResponse], error)
	GetLog(context.Context, *connect.Request[GetLogRequest]) (*connect.Response[GetLogResponse], error)
	GetPendingDebts(context.Context, *connect.Request[GetPendingDebtsRequest]) (*connect.Response[GetPendingDebtsResponse], error)
	SettleDebts(context.Context, *connect.Request[SettleDebtsRequest]) (*connect.Response[SettleDebtsResponse], error)
	ListGroups(context.Context, *connect.Request[ListGroupsRequest]) (*connect.Response[ListGroupsResponse], error)
	GetJournal(context.Context, *connect.Request[GetJournalRequest]) (*connect.Response[GetJournalResponse], error)
}

// NewLedgerServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself.
func NewLedgerServiceHandler(svc LedgerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append(opts, connect.WithCodec(JSONCodec{}))
	createUser := connect.NewUnaryHandler(LedgerServiceCreateUserProcedure, svc.CreateUser, opts...)
	createGroup := connect.NewUnaryHandler(LedgerServiceCreateGroupProcedure, svc.CreateGroup, opts...)
	addMember := connect.NewUnaryHandler(LedgerServiceAddMemberProcedure, svc.AddMember, opts...)
	addExpense := connect.NewUnaryHandler(LedgerServiceAddExpenseProcedure, svc.AddExpense, opts...)
	makePayment := connect.NewUnaryHandler(LedgerServiceMakePaymentProcedure, svc.MakePayment, opts...)
	getBalances := connect.NewUnaryHandler(LedgerServiceGetBalancesProcedure, svc.GetBalances, opts...)
	getLog := connect.NewUnaryHandler(LedgerServiceGetLogProcedure, svc.GetLog, opts...)
	getPendingDebts := connect.NewUnaryHandler(LedgerServiceGetPendingDebtsProcedure, svc.GetPendingDebts, opts...)
	settleDebts := connect.NewUnaryHandler(LedgerServiceSettleDebtsProcedure, svc.SettleDebts, opts...)
	listGroups := connect.NewUnaryHandler(LedgerServiceListGroupsProcedure, svc.ListGroups, opts...)
	getJournal := connect.NewUnaryHandler(LedgerServiceGetJournalProcedure, svc.GetJournal, opts...)

	return "/" + LedgerServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case LedgerServiceCreateUserProcedure:
			createUser.ServeHTTP(w, r)
		case LedgerServiceCreateGroupProcedure:
			createGroup.ServeHTTP(w, r)
		case LedgerServiceAddMemberProcedure:
			addMember.ServeHTTP(w, r)
		case LedgerServiceAddExpenseProcedure:
			addExpense.ServeHTTP(w, r)
		case LedgerServiceMakePaymentProcedure:
			makePayment.ServeHTTP(w, r)
		case LedgerServiceGetBalancesProcedure:
			getBalances.ServeHTTP(w, r)
		case LedgerServiceGetLogProcedure:
			getLog.ServeHTTP(w, r)
		case LedgerServiceGetPendingDebtsProcedure:
			getPendingDebts.ServeHTTP(w, r)
		case LedgerServiceSettleDebtsProcedure:
			settleDebts.ServeHTTP(w, r)
		case LedgerServiceListGroupsProcedure:
			listGroups.ServeHTTP(w, r)
		case LedgerServiceGetJournalProcedure:
			getJournal.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}
