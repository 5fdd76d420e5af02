// Package api defines the LedgerService wire messages and the Connect
// handler and client constructors that carry them as JSON.
package api

type User struct {
	Name string `json:"name"`
}

type Group struct {
	Name    string   `json:"name"`
	Members []string `json:"members"`
	Entries int      `json:"entries"`
}

type Share struct {
	User   string `json:"user"`
	Amount int64  `json:"amount"`
}

type Entry struct {
	Seq  int    `json:"seq"`
	Kind string `json:"kind"`
	Text string `json:"text"`
	At   int64  `json:"at"`
}

// JournalRecord is an audit entry as persisted by the journal.
type JournalRecord struct {
	ID    string `json:"id"`
	Group string `json:"group"`
	Entry Entry  `json:"entry"`
}

type Balance struct {
	User   string `json:"user"`
	Amount int64  `json:"amount"`
}

type Transfer struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount int64  `json:"amount"`
}

type CreateUserRequest struct {
	Name string `json:"name"`
}

type CreateUserResponse struct {
	User User `json:"user"`
}

// CreateGroupRequest creates a group. Members, when set, must be registered
// users and are added in order.
type CreateGroupRequest struct {
	Name    string   `json:"name"`
	Members []string `json:"members,omitempty"`
}

type CreateGroupResponse struct {
	Group Group `json:"group"`
}

type AddMemberRequest struct {
	Group string `json:"group"`
	User  string `json:"user"`
}

type AddMemberResponse struct {
	// Added is false when the user already belonged to the group.
	Added bool `json:"added"`
}

type AddExpenseRequest struct {
	Group  string  `json:"group"`
	PaidBy string  `json:"paid_by"`
	Total  int64   `json:"total"`
	Shares []Share `json:"shares"`
}

type AddExpenseResponse struct {
	Entry Entry `json:"entry"`
}

type MakePaymentRequest struct {
	Group  string `json:"group"`
	From   string `json:"from"`
	To     string `json:"to"`
	Amount int64  `json:"amount"`
}

type MakePaymentResponse struct {
	Entry Entry `json:"entry"`
}

type GetBalancesRequest struct {
	Group string `json:"group"`
}

type GetBalancesResponse struct {
	Balances []Balance `json:"balances"`
}

type GetLogRequest struct {
	Group string `json:"group"`
}

type GetLogResponse struct {
	Entries []Entry `json:"entries"`
}

type GetPendingDebtsRequest struct {
	Group string `json:"group"`
}

type GetPendingDebtsResponse struct {
	Transfers []Transfer `json:"transfers"`
}

type SettleDebtsRequest struct {
	Group string `json:"group"`
}

type SettleDebtsResponse struct {
	Transfers []Transfer `json:"transfers"`
}

type ListGroupsRequest struct{}

type ListGroupsResponse struct {
	Groups []Group `json:"groups"`
}

type GetJournalRequest struct {
	Group string `json:"group"`
}

type GetJournalResponse struct {
	Records []JournalRecord `json:"records"`
}
