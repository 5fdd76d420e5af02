// Package service exposes app.State over Connect.
package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/app"
	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/pkg/api"
)

var _ api.LedgerServiceHandler = (*LedgerService)(nil)

// LedgerService implements the Connect LedgerService
type LedgerService struct {
	state *app.State
}

// NewLedgerService creates a new LedgerService backed by state.
func NewLedgerService(state *app.State) *LedgerService {
	return &LedgerService{state: state}
}

// CreateUser registers a user.
func (s *LedgerService) CreateUser(ctx context.Context, req *connect.Request[api.CreateUserRequest]) (*connect.Response[api.CreateUserResponse], error) {
	slog.Info("CreateUser request received", "name", req.Msg.Name, "request_id", middleware.GetRequestID(ctx))

	user, err := s.state.CreateUser(req.Msg.Name)
	if err != nil {
		slog.Error("CreateUser failed", "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.CreateUserResponse{
		User: api.User{Name: user.Name},
	}), nil
}

// CreateGroup creates a group and adds the requested members in order.
func (s *LedgerService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	slog.Info("CreateGroup request received",
		"name", req.Msg.Name,
		"members_count", len(req.Msg.Members),
		"request_id", middleware.GetRequestID(ctx),
	)

	members, err := s.state.CreateGroupWithMembers(req.Msg.Name, req.Msg.Members)
	if err != nil {
		slog.Error("CreateGroup failed", "name", req.Msg.Name, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Group created", "group", req.Msg.Name)

	return connect.NewResponse(&api.CreateGroupResponse{
		Group: api.Group{
			Name:    req.Msg.Name,
			Members: userNames(members),
		},
	}), nil
}

// AddMember adds a registered user to a group.
func (s *LedgerService) AddMember(ctx context.Context, req *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error) {
	slog.Info("AddMember request received", "group", req.Msg.Group, "user", req.Msg.User)

	added, err := s.state.AddMember(req.Msg.Group, req.Msg.User)
	if err != nil {
		slog.Error("AddMember failed", "group", req.Msg.Group, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.AddMemberResponse{Added: added}), nil
}

// AddExpense records an expense in a group.
func (s *LedgerService) AddExpense(ctx context.Context, req *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error) {
	slog.Info("AddExpense request received",
		"group", req.Msg.Group,
		"paid_by", req.Msg.PaidBy,
		"total", req.Msg.Total,
		"shares_count", len(req.Msg.Shares),
		"request_id", middleware.GetRequestID(ctx),
	)

	shares := make([]app.ShareInput, len(req.Msg.Shares))
	for i, sh := range req.Msg.Shares {
		shares[i] = app.ShareInput{User: sh.User, Amount: sh.Amount}
	}

	entry, err := s.state.AddExpense(ctx, req.Msg.Group, req.Msg.PaidBy, req.Msg.Total, shares)
	if err != nil {
		slog.Error("AddExpense failed", "group", req.Msg.Group, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.AddExpenseResponse{Entry: toAPIEntry(entry)}), nil
}

// MakePayment records a direct payment in a group.
func (s *LedgerService) MakePayment(ctx context.Context, req *connect.Request[api.MakePaymentRequest]) (*connect.Response[api.MakePaymentResponse], error) {
	slog.Info("MakePayment request received",
		"group", req.Msg.Group,
		"from", req.Msg.From,
		"to", req.Msg.To,
		"amount", req.Msg.Amount,
		"request_id", middleware.GetRequestID(ctx),
	)

	entry, err := s.state.MakePayment(ctx, req.Msg.Group, req.Msg.From, req.Msg.To, req.Msg.Amount)
	if err != nil {
		slog.Error("MakePayment failed", "group", req.Msg.Group, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.MakePaymentResponse{Entry: toAPIEntry(entry)}), nil
}

// GetBalances returns every member's net balance.
func (s *LedgerService) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	slog.Info("GetBalances request received", "group", req.Msg.Group)

	balances, err := s.state.Balances(req.Msg.Group)
	if err != nil {
		slog.Error("GetBalances failed", "group", req.Msg.Group, "error", err)
		return nil, toConnectError(err)
	}

	out := make([]api.Balance, len(balances))
	for i, b := range balances {
		out[i] = api.Balance{User: b.User.Name, Amount: b.Amount}
	}

	return connect.NewResponse(&api.GetBalancesResponse{Balances: out}), nil
}

// GetLog returns the group's audit log.
func (s *LedgerService) GetLog(ctx context.Context, req *connect.Request[api.GetLogRequest]) (*connect.Response[api.GetLogResponse], error) {
	slog.Info("GetLog request received", "group", req.Msg.Group)

	entries, err := s.state.Log(req.Msg.Group)
	if err != nil {
		slog.Error("GetLog failed", "group", req.Msg.Group, "error", err)
		return nil, toConnectError(err)
	}

	out := make([]api.Entry, len(entries))
	for i, e := range entries {
		out[i] = toAPIEntry(e)
	}

	slog.Info("GetLog successful", "group", req.Msg.Group, "count", len(out))

	return connect.NewResponse(&api.GetLogResponse{Entries: out}), nil
}

// GetPendingDebts previews the settlement without applying it.
func (s *LedgerService) GetPendingDebts(ctx context.Context, req *connect.Request[api.GetPendingDebtsRequest]) (*connect.Response[api.GetPendingDebtsResponse], error) {
	slog.Info("GetPendingDebts request received", "group", req.Msg.Group)

	transfers, err := s.state.PendingDebts(req.Msg.Group)
	if err != nil {
		slog.Error("GetPendingDebts failed", "group", req.Msg.Group, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.GetPendingDebtsResponse{Transfers: toAPITransfers(transfers)}), nil
}

// SettleDebts simplifies and applies the group's debts.
func (s *LedgerService) SettleDebts(ctx context.Context, req *connect.Request[api.SettleDebtsRequest]) (*connect.Response[api.SettleDebtsResponse], error) {
	slog.Info("SettleDebts request received", "group", req.Msg.Group, "request_id", middleware.GetRequestID(ctx))

	transfers, err := s.state.Settle(ctx, req.Msg.Group)
	if err != nil {
		slog.Error("SettleDebts failed", "group", req.Msg.Group, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("SettleDebts successful", "group", req.Msg.Group, "transfers", len(transfers))

	return connect.NewResponse(&api.SettleDebtsResponse{Transfers: toAPITransfers(transfers)}), nil
}

// ListGroups returns every group in creation order.
func (s *LedgerService) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	slog.Info("ListGroups request received")

	groups := s.state.ListGroups()
	out := make([]api.Group, len(groups))
	for i, g := range groups {
		out[i] = api.Group{Name: g.Name, Members: g.Members, Entries: g.Entries}
	}

	slog.Info("ListGroups successful", "count", len(out))

	return connect.NewResponse(&api.ListGroupsResponse{Groups: out}), nil
}

// toConnectError maps domain errors to Connect codes. Anything unexpected,
// including an invariant violation, is Internal.
// GetJournal returns what the journal persisted for a group.
func (s *LedgerService) GetJournal(ctx context.Context, req *connect.Request[api.GetJournalRequest]) (*connect.Response[api.GetJournalResponse], error) {
	slog.Info("GetJournal request received", "group", req.Msg.Group)

	records, err := s.state.Journal(ctx, req.Msg.Group)
	if err != nil {
		slog.Error("GetJournal failed", "group", req.Msg.Group, "error", err)
		return nil, toConnectError(err)
	}

	out := make([]api.JournalRecord, len(records))
	for i, r := range records {
		out[i] = api.JournalRecord{ID: r.ID, Group: r.Group, Entry: toAPIEntry(r.Entry)}
	}

	slog.Info("GetJournal successful", "group", req.Msg.Group, "count", len(out))

	return connect.NewResponse(&api.GetJournalResponse{Records: out}), nil
}

func toConnectError(err error) error {
	switch {
	case errors.Is(err, app.ErrUnknownUser), errors.Is(err, app.ErrUnknownGroup):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, app.ErrGroupExists):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, app.ErrNoJournal):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	case errors.Is(err, app.ErrInvalidName),
		errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrInvalidArgument),
		errors.Is(err, ledger.ErrNotMember),
		errors.Is(err, ledger.ErrDuplicateShare):
		return connect.NewError(connect.CodeInvalidArgument, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

func toAPIEntry(e models.Entry) api.Entry {
	return api.Entry{Seq: e.Seq, Kind: string(e.Kind), Text: e.Text, At: e.At}
}

func toAPITransfers(transfers []models.Transfer) []api.Transfer {
	out := make([]api.Transfer, len(transfers))
	for i, t := range transfers {
		out[i] = api.Transfer{From: t.From.Name, To: t.To.Name, Amount: t.Amount}
	}
	return out
}

func userNames(users []models.User) []string {
	names := make([]string, len(users))
	for i, u := range users {
		names[i] = u.Name
	}
	return names
}
