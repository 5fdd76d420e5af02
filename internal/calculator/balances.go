package calculator

import (
	"container/heap"
	"errors"
	"fmt"

	"github.com/mmynk/splitledger/internal/models"
)

var (
	ErrNegativeAmount     = errors.New("amount must not be negative")
	ErrInvariantViolation = errors.New("balances do not sum to zero")
)

// Balance represents the net position of one group member.
type Balance struct {
	User   models.User
	Amount int64 // Positive = owed money, Negative = owes money
}

// party is a creditor or debtor waiting in a settlement queue.
// amount is the outstanding magnitude and is always positive.
type party struct {
	user   models.User
	amount int64
	order  int
}

// partyQueue pops the largest outstanding amount first. Equal amounts pop
// in input order, so the member that joined the group first wins ties.
type partyQueue []party

func (q partyQueue) Len() int { return len(q) }

func (q partyQueue) Less(i, j int) bool {
	if q[i].amount != q[j].amount {
		return q[i].amount > q[j].amount
	}
	return q[i].order < q[j].order
}

func (q partyQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *partyQueue) Push(x any) { *q = append(*q, x.(party)) }

func (q *partyQueue) Pop() any {
	old := *q
	n := len(old)
	p := old[n-1]
	*q = old[:n-1]
	return p
}

// SimplifyDebts turns a set of net balances into a short list of transfers
// that brings every balance to zero.
//
// Algorithm:
//   - Split members into creditors (balance > 0) and debtors (balance < 0)
//   - Repeatedly match the largest creditor with the largest debtor
//   - The debtor pays min(credit, debt); whoever still has a remainder
//     goes back into its queue
//
// Ties on equal amounts go to the balance that comes first in the input,
// and a party put back into its queue keeps its original position. The
// result has at most len(balances)-1 transfers, in the order they were
// generated. Balances that do not sum to zero yield ErrInvariantViolation.
func SimplifyDebts(balances []Balance) ([]models.Transfer, error) {
	creditors := &partyQueue{}
	debtors := &partyQueue{}

	var net int64
	for i, b := range balances {
		net += b.Amount
		if b.Amount > 0 {
			*creditors = append(*creditors, party{user: b.User, amount: b.Amount, order: i})
		} else if b.Amount < 0 {
			*debtors = append(*debtors, party{user: b.User, amount: -b.Amount, order: i})
		}
	}
	if net != 0 {
		return nil, fmt.Errorf("%w: net total is %d", ErrInvariantViolation, net)
	}

	heap.Init(creditors)
	heap.Init(debtors)

	var transfers []models.Transfer
	for creditors.Len() > 0 && debtors.Len() > 0 {
		creditor := heap.Pop(creditors).(party)
		debtor := heap.Pop(debtors).(party)

		// Amount to settle is minimum of what debtor owes and creditor is owed
		settled := min(creditor.amount, debtor.amount)
		transfers = append(transfers, models.Transfer{
			From:   debtor.user,
			To:     creditor.user,
			Amount: settled,
		})

		creditor.amount -= settled
		debtor.amount -= settled
		if creditor.amount > 0 {
			heap.Push(creditors, creditor)
		}
		if debtor.amount > 0 {
			heap.Push(debtors, debtor)
		}
	}

	if creditors.Len() > 0 || debtors.Len() > 0 {
		return nil, fmt.Errorf("%w: %d creditors and %d debtors left unmatched",
			ErrInvariantViolation, creditors.Len(), debtors.Len())
	}

	return transfers, nil
}
