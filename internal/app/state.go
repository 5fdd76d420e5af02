// Package app owns the user and group registries and routes every
// operation to the right ledger.Group under the group's lock.
//
// Every audit entry produced by an operation is queued for the configured
// sinks after the ledger accepts it. Each group has its own queue, delivered
// in log order off the group lock. Forwarding is best-effort: failures are
// logged and counted but never undo a ledger change.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

var (
	ErrUnknownUser  = errors.New("app: unknown user")
	ErrUnknownGroup = errors.New("app: unknown group")
	ErrInvalidName  = errors.New("app: name must not be blank")
	ErrGroupExists  = errors.New("app: group already exists")
	ErrNoJournal    = errors.New("app: journal not configured")
)

// Sink receives audit entries after they are appended to a group's log.
type Sink interface {
	Record(ctx context.Context, group string, entry models.Entry) error
}

// ShareInput is one share of an expense addressed by user name.
type ShareInput struct {
	User   string
	Amount int64
}

type groupSlot struct {
	mu    sync.Mutex
	group *ledger.Group
	queue *sinkQueue // nil without sinks
}

// State holds the registries. It is safe for concurrent use.
type State struct {
	mu         sync.RWMutex
	users      map[string]models.User
	groups     map[string]*groupSlot
	groupOrder []string
	closed     bool

	sinks   []Sink
	journal storage.Journal
	metrics *metrics.Metrics
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures a State.
type Option func(*State)

// WithSinks adds sinks that receive every new audit entry.
func WithSinks(sinks ...Sink) Option {
	return func(s *State) {
		s.sinks = append(s.sinks, sinks...)
	}
}

// WithJournal adds j as a sink and serves Journal lookups from it.
func WithJournal(j storage.Journal) Option {
	return func(s *State) {
		if j == nil {
			return
		}
		s.journal = j
		s.sinks = append(s.sinks, j)
	}
}

// WithMetrics sets the collectors the state updates.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *State) {
		s.metrics = m
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *State) {
		s.logger = l
	}
}

// WithClock sets the clock used to timestamp audit entries.
func WithClock(now func() time.Time) Option {
	return func(s *State) {
		s.now = now
	}
}

// New creates an empty state.
func New(opts ...Option) *State {
	s := &State{
		users:  make(map[string]models.User),
		groups: make(map[string]*groupSlot),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = metrics.New()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Flush waits until every audit entry recorded so far has reached the sinks.
func (s *State) Flush(ctx context.Context) error {
	for _, q := range s.queues() {
		if err := q.flush(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Close delivers the queued audit entries and stops forwarding. Entries
// recorded afterwards are not forwarded. Close the state before its sinks.
func (s *State) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	for _, q := range s.queues() {
		q.close()
	}
}

func (s *State) queues() []*sinkQueue {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*sinkQueue
	for _, name := range s.groupOrder {
		if q := s.groups[name].queue; q != nil {
			out = append(out, q)
		}
	}
	return out
}

// Metrics returns the collectors updated by the state.
func (s *State) Metrics() *metrics.Metrics {
	return s.metrics
}

// CreateUser registers a user. Creating an existing user returns the same
// user.
func (s *State) CreateUser(name string) (models.User, error) {
	if err := validateName(name); err != nil {
		return models.User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if u, ok := s.users[name]; ok {
		return u, nil
	}
	u := models.NewUser(name)
	s.users[name] = u
	s.logger.Debug("User created", "user", name)
	return u, nil
}

// Users returns all registered users sorted by name.
func (s *State) Users() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	slices.SortFunc(out, func(a, b models.User) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out
}

// CreateGroup registers an empty group.
func (s *State) CreateGroup(name string) error {
	_, err := s.CreateGroupWithMembers(name, nil)
	return err
}

// CreateGroupWithMembers registers a group and adds members in order.
// Every member must be a registered user. Nothing is registered when any
// check fails.
func (s *State) CreateGroupWithMembers(name string, members []string) ([]models.User, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.groups[name]; ok {
		return nil, fmt.Errorf("%w: %s", ErrGroupExists, name)
	}

	group := ledger.NewGroup(name, ledger.WithClock(s.now))
	for _, member := range members {
		u, ok := s.users[member]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownUser, member)
		}
		group.AddMember(u)
	}

	slot := &groupSlot{group: group}
	if len(s.sinks) > 0 && !s.closed {
		slot.queue = newSinkQueue(name, s.sinks, s.metrics, s.logger)
	}
	s.groups[name] = slot
	s.groupOrder = append(s.groupOrder, name)
	s.metrics.Groups.Set(float64(len(s.groups)))
	s.logger.Debug("Group created", "group", name, "members", len(members))
	return group.Members(), nil
}

// ListGroups returns a summary of every group in creation order.
func (s *State) ListGroups() []models.GroupSummary {
	s.mu.RLock()
	slots := make([]*groupSlot, len(s.groupOrder))
	for i, name := range s.groupOrder {
		slots[i] = s.groups[name]
	}
	s.mu.RUnlock()

	out := make([]models.GroupSummary, len(slots))
	for i, slot := range slots {
		slot.mu.Lock()
		members := slot.group.Members()
		names := make([]string, len(members))
		for j, m := range members {
			names[j] = m.Name
		}
		out[i] = models.GroupSummary{
			Name:    slot.group.Name(),
			Members: names,
			Entries: slot.group.LogLen(),
		}
		slot.mu.Unlock()
	}
	return out
}

// AddMember adds a registered user to a group. It reports false when the
// user was already a member.
func (s *State) AddMember(group, user string) (bool, error) {
	slot, err := s.lookupGroup(group)
	if err != nil {
		return false, err
	}
	u, err := s.lookupUser(user)
	if err != nil {
		return false, err
	}

	slot.mu.Lock()
	defer slot.mu.Unlock()
	return slot.group.AddMember(u), nil
}

// Members returns the members of a group in join order.
func (s *State) Members(group string) ([]models.User, error) {
	var members []models.User
	err := s.read(group, func(g *ledger.Group) error {
		members = g.Members()
		return nil
	})
	return members, err
}

// AddExpense records an expense paid by payer and split per shares.
func (s *State) AddExpense(ctx context.Context, group, payer string, total int64, shares []ShareInput) (models.Entry, error) {
	slot, err := s.lookupGroup(group)
	if err != nil {
		return models.Entry{}, err
	}
	paidBy, err := s.lookupUser(payer)
	if err != nil {
		return models.Entry{}, err
	}
	resolved := make([]models.Share, len(shares))
	for i, sh := range shares {
		u, err := s.lookupUser(sh.User)
		if err != nil {
			return models.Entry{}, err
		}
		resolved[i] = models.Share{User: u, Amount: sh.Amount}
	}

	var entry models.Entry
	err = s.apply(ctx, slot, func(g *ledger.Group) error {
		var err error
		entry, err = g.AddExpense(paidBy, total, resolved)
		return err
	})
	if err != nil {
		return models.Entry{}, fmt.Errorf("add expense to %s: %w", group, err)
	}

	s.metrics.Expenses.Inc()
	s.logger.InfoContext(ctx, "Expense added", "group", group, "paid_by", payer, "total", total)
	return entry, nil
}

// MakePayment records a direct payment between two members of a group.
func (s *State) MakePayment(ctx context.Context, group, from, to string, amount int64) (models.Entry, error) {
	slot, err := s.lookupGroup(group)
	if err != nil {
		return models.Entry{}, err
	}
	payer, err := s.lookupUser(from)
	if err != nil {
		return models.Entry{}, err
	}
	payee, err := s.lookupUser(to)
	if err != nil {
		return models.Entry{}, err
	}

	var entry models.Entry
	err = s.apply(ctx, slot, func(g *ledger.Group) error {
		var err error
		entry, err = g.MakePayment(payer, payee, amount)
		return err
	})
	if err != nil {
		return models.Entry{}, fmt.Errorf("make payment in %s: %w", group, err)
	}

	s.metrics.Payments.Inc()
	s.logger.InfoContext(ctx, "Payment recorded", "group", group, "from", from, "to", to, "amount", amount)
	return entry, nil
}

// Settle simplifies and applies the group's debts. Every balance is zero
// afterwards.
func (s *State) Settle(ctx context.Context, group string) ([]models.Transfer, error) {
	slot, err := s.lookupGroup(group)
	if err != nil {
		return nil, err
	}

	var transfers []models.Transfer
	err = s.apply(ctx, slot, func(g *ledger.Group) error {
		var err error
		transfers, err = g.SimplifyDebts()
		return err
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Settlement failed", "group", group, "error", err)
		return nil, fmt.Errorf("settle %s: %w", group, err)
	}

	var settled int64
	for _, t := range transfers {
		settled += t.Amount
	}
	s.metrics.Transfers.Add(float64(len(transfers)))
	s.metrics.SettledAmount.Add(float64(settled))
	s.logger.InfoContext(ctx, "Group settled", "group", group, "transfers", len(transfers), "amount", settled)
	return transfers, nil
}

// PendingDebts returns the transfers that would settle the group now,
// without applying them.
func (s *State) PendingDebts(group string) ([]models.Transfer, error) {
	var transfers []models.Transfer
	err := s.read(group, func(g *ledger.Group) error {
		var err error
		transfers, err = g.PendingTransfers()
		return err
	})
	return transfers, err
}

// Balances returns every member's net balance in member order.
func (s *State) Balances(group string) ([]calculator.Balance, error) {
	var balances []calculator.Balance
	err := s.read(group, func(g *ledger.Group) error {
		balances = g.Balances()
		return nil
	})
	return balances, err
}

// Log returns a copy of the group's audit log.
func (s *State) Log(group string) ([]models.Entry, error) {
	var entries []models.Entry
	err := s.read(group, func(g *ledger.Group) error {
		entries = g.Log()
		return nil
	})
	return entries, err
}

// Journal returns the persisted audit records of a group once everything
// queued for it has been delivered.
func (s *State) Journal(ctx context.Context, group string) ([]storage.Record, error) {
	slot, err := s.lookupGroup(group)
	if err != nil {
		return nil, err
	}
	if s.journal == nil {
		return nil, ErrNoJournal
	}
	if slot.queue != nil {
		if err := slot.queue.flush(ctx); err != nil {
			return nil, err
		}
	}
	return s.journal.ListByGroup(ctx, group)
}

func (s *State) lookupGroup(name string) (*groupSlot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	slot, ok := s.groups[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGroup, name)
	}
	return slot, nil
}

func (s *State) lookupUser(name string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[name]
	if !ok {
		return models.User{}, fmt.Errorf("%w: %q", ErrUnknownUser, name)
	}
	return u, nil
}

func (s *State) read(group string, fn func(*ledger.Group) error) error {
	slot, err := s.lookupGroup(group)
	if err != nil {
		return err
	}
	slot.mu.Lock()
	defer slot.mu.Unlock()
	return fn(slot.group)
}

// apply runs fn under the group lock and queues the entries it appended
// for the sinks.
func (s *State) apply(ctx context.Context, slot *groupSlot, fn func(*ledger.Group) error) error {
	slot.mu.Lock()
	defer slot.mu.Unlock()

	before := slot.group.LogLen()
	if err := fn(slot.group); err != nil {
		return err
	}
	if slot.queue != nil {
		slot.queue.push(ctx, slot.group.LogSince(before))
	}
	return nil
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrInvalidName
	}
	return nil
}
