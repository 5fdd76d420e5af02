package app

import (
	"context"
	"fmt"

	"github.com/mmynk/splitledger/internal/models"
)

// DemoGroup is the group created by RunDemo.
const DemoGroup = "Trip"

var demoUsers = []string{"A", "B", "C", "D", "E"}

var demoExpenses = []struct {
	payer  string
	total  int64
	shares []ShareInput
}{
	{"A", 600, []ShareInput{{"A", 200}, {"B", 0}, {"C", 400}}},
	{"B", 300, []ShareInput{{"A", 100}, {"B", 100}, {"C", 100}}},
	{"C", 100, []ShareInput{{"A", 100}, {"B", 0}, {"C", 0}}},
}

// RunDemo creates users A to E and the group Trip, records three sample
// expenses and settles the group. It fails with ErrGroupExists when Trip is
// already registered.
func (s *State) RunDemo(ctx context.Context) ([]models.Transfer, error) {
	for _, name := range demoUsers {
		if _, err := s.CreateUser(name); err != nil {
			return nil, fmt.Errorf("demo: %w", err)
		}
	}
	if err := s.CreateGroup(DemoGroup); err != nil {
		return nil, fmt.Errorf("demo: %w", err)
	}
	for _, name := range demoUsers {
		if _, err := s.AddMember(DemoGroup, name); err != nil {
			return nil, fmt.Errorf("demo: %w", err)
		}
	}
	for _, e := range demoExpenses {
		if _, err := s.AddExpense(ctx, DemoGroup, e.payer, e.total, e.shares); err != nil {
			return nil, fmt.Errorf("demo: %w", err)
		}
	}
	return s.Settle(ctx, DemoGroup)
}
