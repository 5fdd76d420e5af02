package calculator

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/mmynk/splitledger/internal/models"
)

func TestSimplifyDebts(t *testing.T) {
	tests := []struct {
		name     string
		balances []Balance
		want     []models.Transfer
	}{
		{
			name: "no balances",
		},
		{
			name:     "already settled",
			balances: []Balance{{User: alice}, {User: bob}},
		},
		{
			name:     "single debt",
			balances: []Balance{{User: alice, Amount: 50}, {User: bob, Amount: -50}},
			want:     []models.Transfer{{From: bob, To: alice, Amount: 50}},
		},
		{
			name: "one debtor two equal creditors, first member wins the tie",
			balances: []Balance{
				{User: alice, Amount: 200},
				{User: bob, Amount: 200},
				{User: charlie, Amount: -400},
			},
			want: []models.Transfer{
				{From: charlie, To: alice, Amount: 200},
				{From: charlie, To: bob, Amount: 200},
			},
		},
		{
			name: "largest debtor settles first",
			balances: []Balance{
				{User: alice, Amount: 500},
				{User: bob, Amount: -100},
				{User: charlie, Amount: -300},
				{User: diana, Amount: -100},
			},
			// Charlie (300) first, then Bob and Diana tie at 100 and Bob joined first
			want: []models.Transfer{
				{From: charlie, To: alice, Amount: 300},
				{From: bob, To: alice, Amount: 100},
				{From: diana, To: alice, Amount: 100},
			},
		},
		{
			name: "pairs matched by size",
			balances: []Balance{
				{User: alice, Amount: 100},
				{User: bob, Amount: 100},
				{User: charlie, Amount: -100},
				{User: diana, Amount: -100},
			},
			want: []models.Transfer{
				{From: charlie, To: alice, Amount: 100},
				{From: diana, To: bob, Amount: 100},
			},
		},
		{
			name: "remainder goes back into the queue",
			balances: []Balance{
				{User: alice, Amount: 70},
				{User: bob, Amount: 30},
				{User: charlie, Amount: -60},
				{User: diana, Amount: -40},
			},
			want: []models.Transfer{
				{From: charlie, To: alice, Amount: 60},
				{From: diana, To: bob, Amount: 30},
				{From: diana, To: alice, Amount: 10},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SimplifyDebts(tt.balances)
			if err != nil {
				t.Fatalf("SimplifyDebts() unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d transfers, want %d: %v", len(got), len(tt.want), got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("transfer %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSimplifyDebts_Unbalanced(t *testing.T) {
	_, err := SimplifyDebts([]Balance{{User: alice, Amount: 100}, {User: bob, Amount: -50}})
	if !errors.Is(err, ErrInvariantViolation) {
		t.Fatalf("expected ErrInvariantViolation, got %v", err)
	}
}

// applyTransfers replays transfers onto a copy of balances.
func applyTransfers(balances []Balance, transfers []models.Transfer) map[models.User]int64 {
	out := make(map[models.User]int64, len(balances))
	for _, b := range balances {
		out[b.User] = b.Amount
	}
	for _, tr := range transfers {
		out[tr.From] += tr.Amount
		out[tr.To] -= tr.Amount
	}
	return out
}

func TestSimplifyDebts_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 200; round++ {
		n := 2 + rng.Intn(9)
		balances := make([]Balance, n)
		var net int64
		for i := 0; i < n-1; i++ {
			amount := rng.Int63n(2001) - 1000
			balances[i] = Balance{User: models.NewUser(string(rune('A' + i))), Amount: amount}
			net += amount
		}
		balances[n-1] = Balance{User: models.NewUser(string(rune('A' + n - 1))), Amount: -net}

		transfers, err := SimplifyDebts(balances)
		if err != nil {
			t.Fatalf("round %d: unexpected error: %v", round, err)
		}
		if len(transfers) > n-1 {
			t.Errorf("round %d: %d transfers for %d members", round, len(transfers), n)
		}
		for _, tr := range transfers {
			if tr.Amount <= 0 {
				t.Errorf("round %d: non-positive transfer %v", round, tr)
			}
			if tr.From == tr.To {
				t.Errorf("round %d: self transfer %v", round, tr)
			}
		}
		for user, left := range applyTransfers(balances, transfers) {
			if left != 0 {
				t.Errorf("round %d: %s left with %d after settlement", round, user, left)
			}
		}
	}
}
