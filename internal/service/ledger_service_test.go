package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/app"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/storage/sqlite"
	"github.com/mmynk/splitledger/pkg/api"
)

// setupTestServer creates a test server whose state journals to a temporary
// SQLite database.
func setupTestServer(t *testing.T) api.LedgerServiceClient {
	t.Helper()

	journal, err := sqlite.New(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("failed to create journal: %v", err)
	}
	t.Cleanup(func() { journal.Close() })

	return serve(t, app.New(app.WithJournal(journal)))
}

// serve mounts the service for state on a test server and returns a client.
func serve(t *testing.T, state *app.State) api.LedgerServiceClient {
	t.Helper()

	interceptors := connect.WithInterceptors(middleware.RequestID(), middleware.LoggingInterceptor(state.Metrics()))
	path, handler := api.NewLedgerServiceHandler(NewLedgerService(state), interceptors)

	mux := http.NewServeMux()
	mux.Handle(path, handler)
	server := httptest.NewServer(mux)

	t.Cleanup(func() {
		server.Close()
		state.Close()
	})

	return api.NewLedgerServiceClient(http.DefaultClient, server.URL)
}

func createUsers(t *testing.T, client api.LedgerServiceClient, names ...string) {
	t.Helper()
	for _, name := range names {
		if _, err := client.CreateUser(context.Background(), connect.NewRequest(&api.CreateUserRequest{Name: name})); err != nil {
			t.Fatalf("CreateUser(%q) failed: %v", name, err)
		}
	}
}

func TestCreateGroup(t *testing.T) {
	client := setupTestServer(t)
	createUsers(t, client, "Alice", "Bob", "Charlie")

	resp, err := client.CreateGroup(context.Background(), connect.NewRequest(&api.CreateGroupRequest{
		Name:    "Roommates",
		Members: []string{"Alice", "Bob", "Charlie"},
	}))
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	if resp.Msg.Group.Name != "Roommates" {
		t.Errorf("name: expected 'Roommates', got '%s'", resp.Msg.Group.Name)
	}
	if len(resp.Msg.Group.Members) != 3 || resp.Msg.Group.Members[0] != "Alice" {
		t.Errorf("members: expected [Alice Bob Charlie], got %v", resp.Msg.Group.Members)
	}
	if resp.Header().Get(middleware.RequestIDHeader) == "" {
		t.Error("expected request ID header")
	}
}

func TestCreateGroup_Errors(t *testing.T) {
	client := setupTestServer(t)
	ctx := context.Background()
	createUsers(t, client, "Alice")

	if _, err := client.CreateGroup(ctx, connect.NewRequest(&api.CreateGroupRequest{Name: "Flat"})); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	tests := []struct {
		name string
		req  *api.CreateGroupRequest
		code connect.Code
	}{
		{"duplicate name", &api.CreateGroupRequest{Name: "Flat"}, connect.CodeAlreadyExists},
		{"blank name", &api.CreateGroupRequest{Name: " "}, connect.CodeInvalidArgument},
		{"unknown member", &api.CreateGroupRequest{Name: "Office", Members: []string{"Nobody"}}, connect.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.CreateGroup(ctx, connect.NewRequest(tt.req))
			if connect.CodeOf(err) != tt.code {
				t.Errorf("expected %v, got %v", tt.code, err)
			}
		})
	}
}

func TestCreateGroup_UnknownMemberLeavesNoGroup(t *testing.T) {
	client := setupTestServer(t)
	ctx := context.Background()
	createUsers(t, client, "A")

	req := &api.CreateGroupRequest{Name: "Trip", Members: []string{"A", "ghost"}}
	_, err := client.CreateGroup(ctx, connect.NewRequest(req))
	if connect.CodeOf(err) != connect.CodeNotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}

	groups, err := client.ListGroups(ctx, connect.NewRequest(&api.ListGroupsRequest{}))
	if err != nil {
		t.Fatalf("ListGroups failed: %v", err)
	}
	if len(groups.Msg.Groups) != 0 {
		t.Fatalf("expected no groups after failed create, got %+v", groups.Msg.Groups)
	}

	createUsers(t, client, "ghost")
	resp, err := client.CreateGroup(ctx, connect.NewRequest(req))
	if err != nil {
		t.Fatalf("retry CreateGroup failed: %v", err)
	}
	if len(resp.Msg.Group.Members) != 2 || resp.Msg.Group.Members[1] != "ghost" {
		t.Errorf("members: expected [A ghost], got %v", resp.Msg.Group.Members)
	}
}

func TestAddMember(t *testing.T) {
	client := setupTestServer(t)
	ctx := context.Background()
	createUsers(t, client, "Alice")
	client.CreateGroup(ctx, connect.NewRequest(&api.CreateGroupRequest{Name: "Flat"}))

	first, err := client.AddMember(ctx, connect.NewRequest(&api.AddMemberRequest{Group: "Flat", User: "Alice"}))
	if err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}
	second, err := client.AddMember(ctx, connect.NewRequest(&api.AddMemberRequest{Group: "Flat", User: "Alice"}))
	if err != nil {
		t.Fatalf("second AddMember failed: %v", err)
	}
	if !first.Msg.Added || second.Msg.Added {
		t.Errorf("added: first=%v second=%v, want true then false", first.Msg.Added, second.Msg.Added)
	}

	_, err = client.AddMember(ctx, connect.NewRequest(&api.AddMemberRequest{Group: "Nope", User: "Alice"}))
	if connect.CodeOf(err) != connect.CodeNotFound {
		t.Errorf("unknown group: expected NotFound, got %v", err)
	}
}

func TestWorkedExample(t *testing.T) {
	client := setupTestServer(t)
	ctx := context.Background()
	createUsers(t, client, "A", "B", "C")

	if _, err := client.CreateGroup(ctx, connect.NewRequest(&api.CreateGroupRequest{Name: "Trip", Members: []string{"A", "B", "C"}})); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	expenses := []*api.AddExpenseRequest{
		{Group: "Trip", PaidBy: "A", Total: 600, Shares: []api.Share{{User: "A", Amount: 200}, {User: "B", Amount: 0}, {User: "C", Amount: 400}}},
		{Group: "Trip", PaidBy: "B", Total: 300, Shares: []api.Share{{User: "A", Amount: 100}, {User: "B", Amount: 100}, {User: "C", Amount: 100}}},
		{Group: "Trip", PaidBy: "C", Total: 100, Shares: []api.Share{{User: "A", Amount: 100}, {User: "B", Amount: 0}, {User: "C", Amount: 0}}},
	}
	for i, req := range expenses {
		resp, err := client.AddExpense(ctx, connect.NewRequest(req))
		if err != nil {
			t.Fatalf("AddExpense %d failed: %v", i, err)
		}
		if resp.Msg.Entry.Seq != i+1 || resp.Msg.Entry.Kind != "expense" {
			t.Errorf("entry %d = %+v", i, resp.Msg.Entry)
		}
	}

	balances, err := client.GetBalances(ctx, connect.NewRequest(&api.GetBalancesRequest{Group: "Trip"}))
	if err != nil {
		t.Fatalf("GetBalances failed: %v", err)
	}
	want := []api.Balance{{User: "A", Amount: 200}, {User: "B", Amount: 200}, {User: "C", Amount: -400}}
	for i := range want {
		if balances.Msg.Balances[i] != want[i] {
			t.Errorf("balance %d = %+v, want %+v", i, balances.Msg.Balances[i], want[i])
		}
	}

	pending, err := client.GetPendingDebts(ctx, connect.NewRequest(&api.GetPendingDebtsRequest{Group: "Trip"}))
	if err != nil {
		t.Fatalf("GetPendingDebts failed: %v", err)
	}
	settled, err := client.SettleDebts(ctx, connect.NewRequest(&api.SettleDebtsRequest{Group: "Trip"}))
	if err != nil {
		t.Fatalf("SettleDebts failed: %v", err)
	}

	wantTransfers := []api.Transfer{{From: "C", To: "A", Amount: 200}, {From: "C", To: "B", Amount: 200}}
	if len(settled.Msg.Transfers) != len(wantTransfers) || len(pending.Msg.Transfers) != len(wantTransfers) {
		t.Fatalf("pending %v, settled %v, want %v", pending.Msg.Transfers, settled.Msg.Transfers, wantTransfers)
	}
	for i := range wantTransfers {
		if settled.Msg.Transfers[i] != wantTransfers[i] || pending.Msg.Transfers[i] != wantTransfers[i] {
			t.Errorf("transfer %d: pending %+v, settled %+v, want %+v", i, pending.Msg.Transfers[i], settled.Msg.Transfers[i], wantTransfers[i])
		}
	}

	again, err := client.SettleDebts(ctx, connect.NewRequest(&api.SettleDebtsRequest{Group: "Trip"}))
	if err != nil || len(again.Msg.Transfers) != 0 {
		t.Errorf("second SettleDebts = %v, %v; want no transfers", again, err)
	}

	logResp, err := client.GetLog(ctx, connect.NewRequest(&api.GetLogRequest{Group: "Trip"}))
	if err != nil {
		t.Fatalf("GetLog failed: %v", err)
	}
	if len(logResp.Msg.Entries) != 5 || logResp.Msg.Entries[3].Text != "C pays 200 to A" {
		t.Errorf("unexpected log: %+v", logResp.Msg.Entries)
	}

	journal, err := client.GetJournal(ctx, connect.NewRequest(&api.GetJournalRequest{Group: "Trip"}))
	if err != nil {
		t.Fatalf("GetJournal failed: %v", err)
	}
	records := journal.Msg.Records
	if len(records) != len(logResp.Msg.Entries) {
		t.Fatalf("journal has %d records, log has %d", len(records), len(logResp.Msg.Entries))
	}
	for i, r := range records {
		if r.Entry != logResp.Msg.Entries[i] || r.Group != "Trip" || r.ID == "" {
			t.Errorf("record %d = %+v, want %+v", i, r, logResp.Msg.Entries[i])
		}
	}
}

func TestGetJournal_Errors(t *testing.T) {
	ctx := context.Background()

	client := setupTestServer(t)
	_, err := client.GetJournal(ctx, connect.NewRequest(&api.GetJournalRequest{Group: "Nope"}))
	if connect.CodeOf(err) != connect.CodeNotFound {
		t.Errorf("unknown group: expected NotFound, got %v", err)
	}

	bare := serve(t, app.New())
	if _, err := bare.CreateGroup(ctx, connect.NewRequest(&api.CreateGroupRequest{Name: "Trip"})); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	_, err = bare.GetJournal(ctx, connect.NewRequest(&api.GetJournalRequest{Group: "Trip"}))
	if connect.CodeOf(err) != connect.CodeFailedPrecondition {
		t.Errorf("no journal: expected FailedPrecondition, got %v", err)
	}
}

func TestMakePayment_Errors(t *testing.T) {
	client := setupTestServer(t)
	ctx := context.Background()
	createUsers(t, client, "A", "B", "Outsider")
	client.CreateGroup(ctx, connect.NewRequest(&api.CreateGroupRequest{Name: "Flat", Members: []string{"A", "B"}}))

	tests := []struct {
		name string
		req  *api.MakePaymentRequest
		code connect.Code
	}{
		{"negative amount", &api.MakePaymentRequest{Group: "Flat", From: "A", To: "B", Amount: -1}, connect.CodeInvalidArgument},
		{"self payment", &api.MakePaymentRequest{Group: "Flat", From: "A", To: "A", Amount: 1}, connect.CodeInvalidArgument},
		{"non-member", &api.MakePaymentRequest{Group: "Flat", From: "A", To: "Outsider", Amount: 1}, connect.CodeInvalidArgument},
		{"unknown user", &api.MakePaymentRequest{Group: "Flat", From: "A", To: "Ghost", Amount: 1}, connect.CodeNotFound},
		{"unknown group", &api.MakePaymentRequest{Group: "Nope", From: "A", To: "B", Amount: 1}, connect.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.MakePayment(ctx, connect.NewRequest(tt.req))
			if connect.CodeOf(err) != tt.code {
				t.Errorf("expected %v, got %v", tt.code, err)
			}
		})
	}

	resp, err := client.MakePayment(ctx, connect.NewRequest(&api.MakePaymentRequest{Group: "Flat", From: "A", To: "B", Amount: 25}))
	if err != nil {
		t.Fatalf("MakePayment failed: %v", err)
	}
	if resp.Msg.Entry.Text != "A paid 25 to B" || resp.Msg.Entry.Seq != 1 {
		t.Errorf("unexpected entry %+v", resp.Msg.Entry)
	}
}

func TestAddExpense_DuplicateShare(t *testing.T) {
	client := setupTestServer(t)
	ctx := context.Background()
	createUsers(t, client, "A", "B")
	client.CreateGroup(ctx, connect.NewRequest(&api.CreateGroupRequest{Name: "Flat", Members: []string{"A", "B"}}))

	_, err := client.AddExpense(ctx, connect.NewRequest(&api.AddExpenseRequest{
		Group:  "Flat",
		PaidBy: "A",
		Total:  10,
		Shares: []api.Share{{User: "B", Amount: 5}, {User: "B", Amount: 5}},
	}))
	if connect.CodeOf(err) != connect.CodeInvalidArgument {
		t.Errorf("expected InvalidArgument, got %v", err)
	}
}

func TestListGroups(t *testing.T) {
	client := setupTestServer(t)
	ctx := context.Background()
	createUsers(t, client, "A", "B")

	empty, err := client.ListGroups(ctx, connect.NewRequest(&api.ListGroupsRequest{}))
	if err != nil {
		t.Fatalf("ListGroups failed: %v", err)
	}
	if len(empty.Msg.Groups) != 0 {
		t.Errorf("expected no groups, got %d", len(empty.Msg.Groups))
	}

	client.CreateGroup(ctx, connect.NewRequest(&api.CreateGroupRequest{Name: "Flat", Members: []string{"A", "B"}}))
	client.CreateGroup(ctx, connect.NewRequest(&api.CreateGroupRequest{Name: "Office"}))
	client.MakePayment(ctx, connect.NewRequest(&api.MakePaymentRequest{Group: "Flat", From: "A", To: "B", Amount: 3}))

	resp, err := client.ListGroups(ctx, connect.NewRequest(&api.ListGroupsRequest{}))
	if err != nil {
		t.Fatalf("ListGroups failed: %v", err)
	}
	if len(resp.Msg.Groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(resp.Msg.Groups))
	}
	if g := resp.Msg.Groups[0]; g.Name != "Flat" || len(g.Members) != 2 || g.Entries != 1 {
		t.Errorf("unexpected first group %+v", g)
	}
	if g := resp.Msg.Groups[1]; g.Name != "Office" || len(g.Members) != 0 {
		t.Errorf("unexpected second group %+v", g)
	}
}
