// Package ledger keeps the net balances of a group and the audit log of
// every event that changed them.
//
// A Group is not safe for concurrent use. Callers that share one across
// goroutines must hold a single lock around balances and log together.
package ledger

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/models"
)

var (
	ErrInvalidAmount   = errors.New("ledger: invalid amount")
	ErrInvalidArgument = errors.New("ledger: invalid argument")
	ErrNotMember       = errors.New("ledger: user is not a group member")
	ErrDuplicateShare  = errors.New("ledger: duplicate share for user")
)

// Group tracks members, their net balances and the group's audit log.
// The sum of all balances is always zero.
type Group struct {
	name     string
	members  []models.User
	balances map[models.User]int64
	log      *Log
}

// Option configures a Group.
type Option func(*groupOptions)

type groupOptions struct {
	now func() time.Time
}

// WithClock sets the clock used to timestamp log entries.
func WithClock(now func() time.Time) Option {
	return func(o *groupOptions) {
		o.now = now
	}
}

// NewGroup creates an empty group.
func NewGroup(name string, opts ...Option) *Group {
	o := groupOptions{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &Group{
		name:     name,
		balances: make(map[models.User]int64),
		log:      newLog(o.now),
	}
}

// Name returns the group's identity.
func (g *Group) Name() string {
	return g.name
}

// AddMember adds a user with a zero balance. Adding an existing member is a
// no-op and reports false.
func (g *Group) AddMember(user models.User) bool {
	if g.IsMember(user) {
		return false
	}
	g.members = append(g.members, user)
	g.balances[user] = 0
	return true
}

// IsMember reports whether user belongs to the group.
func (g *Group) IsMember(user models.User) bool {
	_, ok := g.balances[user]
	return ok
}

// Members returns the members in the order they joined.
func (g *Group) Members() []models.User {
	out := make([]models.User, len(g.members))
	copy(out, g.members)
	return out
}

// Balance returns the net balance of user. Non-members have zero.
func (g *Group) Balance(user models.User) int64 {
	return g.balances[user]
}

// Balances returns every member's balance in member order.
func (g *Group) Balances() []calculator.Balance {
	out := make([]calculator.Balance, len(g.members))
	for i, m := range g.members {
		out[i] = calculator.Balance{User: m, Amount: g.balances[m]}
	}
	return out
}

// Total returns the sum of all balances.
func (g *Group) Total() int64 {
	return calculator.Sum(g.balances)
}

// AddExpense records that paidBy paid total on behalf of the users in
// shares. Each non-payer now owes their share to the payer.
// Nothing changes when validation fails or a balance would leave the int64
// range.
func (g *Group) AddExpense(paidBy models.User, total int64, shares []models.Share) (models.Entry, error) {
	if total < 0 {
		return models.Entry{}, fmt.Errorf("%w: total %d is negative", ErrInvalidAmount, total)
	}
	if !g.IsMember(paidBy) {
		return models.Entry{}, fmt.Errorf("%w: payer %s", ErrNotMember, paidBy)
	}

	seen := make(map[models.User]bool, len(shares))
	for _, s := range shares {
		if s.Amount < 0 {
			return models.Entry{}, fmt.Errorf("%w: share %d for %s is negative", ErrInvalidAmount, s.Amount, s.User)
		}
		if !g.IsMember(s.User) {
			return models.Entry{}, fmt.Errorf("%w: %s", ErrNotMember, s.User)
		}
		if seen[s.User] {
			return models.Entry{}, fmt.Errorf("%w: %s", ErrDuplicateShare, s.User)
		}
		seen[s.User] = true
	}

	deltas, err := calculator.ExpenseDeltas(paidBy, total, shares)
	if err != nil {
		return models.Entry{}, fmt.Errorf("%w: %w", ErrInvalidAmount, err)
	}
	if sum := calculator.Sum(deltas); sum != 0 {
		return models.Entry{}, fmt.Errorf("%w: expense deltas sum to %d", calculator.ErrInvariantViolation, sum)
	}

	next := make(map[models.User]int64, len(deltas))
	for user, d := range deltas {
		bal, err := calculator.AddAmounts(g.balances[user], d)
		if err != nil {
			return models.Entry{}, fmt.Errorf("%w: balance of %s: %w", ErrInvalidAmount, user, err)
		}
		next[user] = bal
	}
	for user, bal := range next {
		g.balances[user] = bal
	}

	return g.log.Append(models.EntryExpense, describeExpense(paidBy, total, shares)), nil
}

// MakePayment records a direct payment between two members outside any
// expense.
func (g *Group) MakePayment(from, to models.User, amount int64) (models.Entry, error) {
	if amount < 0 {
		return models.Entry{}, fmt.Errorf("%w: payment %d is negative", ErrInvalidAmount, amount)
	}
	if from == to {
		return models.Entry{}, fmt.Errorf("%w: %s cannot pay themselves", ErrInvalidArgument, from)
	}
	if !g.IsMember(from) {
		return models.Entry{}, fmt.Errorf("%w: %s", ErrNotMember, from)
	}
	if !g.IsMember(to) {
		return models.Entry{}, fmt.Errorf("%w: %s", ErrNotMember, to)
	}

	fromBal, err := calculator.AddAmounts(g.balances[from], -amount)
	if err != nil {
		return models.Entry{}, fmt.Errorf("%w: balance of %s: %w", ErrInvalidAmount, from, err)
	}
	toBal, err := calculator.AddAmounts(g.balances[to], amount)
	if err != nil {
		return models.Entry{}, fmt.Errorf("%w: balance of %s: %w", ErrInvalidAmount, to, err)
	}
	g.balances[from] = fromBal
	g.balances[to] = toBal

	return g.log.Append(models.EntryPayment, fmt.Sprintf("%s paid %d to %s", from, amount, to)), nil
}

// PendingTransfers returns the transfers that would settle the group right
// now without applying them.
func (g *Group) PendingTransfers() ([]models.Transfer, error) {
	return calculator.SimplifyDebts(g.Balances())
}

// SimplifyDebts settles the group: it computes the transfers, applies them
// to the live balances and logs each one. Afterwards every balance is zero,
// so a second call returns no transfers.
func (g *Group) SimplifyDebts() ([]models.Transfer, error) {
	transfers, err := calculator.SimplifyDebts(g.Balances())
	if err != nil {
		return nil, err
	}

	for _, t := range transfers {
		g.balances[t.From] += t.Amount
		g.balances[t.To] -= t.Amount
		g.log.Append(models.EntrySettlement, t.String())
	}

	return transfers, nil
}

// Log returns a copy of the audit log.
func (g *Group) Log() []models.Entry {
	return g.log.Entries()
}

// LogLen returns the number of audit entries.
func (g *Group) LogLen() int {
	return g.log.Len()
}

// LogSince returns the audit entries appended after the first n.
func (g *Group) LogSince(n int) []models.Entry {
	return g.log.Since(n)
}

func describeExpense(paidBy models.User, total int64, shares []models.Share) string {
	parts := make([]string, len(shares))
	for i, s := range shares {
		parts[i] = fmt.Sprintf("%s=%d", s.User, s.Amount)
	}
	return fmt.Sprintf("%s paid %d (shares: %s)", paidBy, total, strings.Join(parts, ", "))
}
