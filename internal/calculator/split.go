package calculator

import (
	"fmt"

	"github.com/mmynk/splitledger/internal/models"
)

// ExpenseDeltas computes how an expense moves each member's net balance.
//
// Every non-payer owes their share, so their balance drops by it and the
// payer's balance rises by the same amount. The payer's own share moves no
// money. When shares add up to total the payer ends up credited with
// total minus their own share; any remainder stays with the payer.
//
// Users absent from shares do not appear in the result. Deltas that do not
// fit in an int64 yield ErrOverflow.
func ExpenseDeltas(paidBy models.User, total int64, shares []models.Share) (map[models.User]int64, error) {
	if total < 0 {
		return nil, fmt.Errorf("%w: total %d is negative", ErrNegativeAmount, total)
	}

	deltas := make(map[models.User]int64, len(shares)+1)
	deltas[paidBy] = 0

	for _, s := range shares {
		if s.Amount < 0 {
			return nil, fmt.Errorf("%w: share %d for %s is negative", ErrNegativeAmount, s.Amount, s.User)
		}
		if s.User == paidBy {
			continue
		}
		owed, err := AddAmounts(deltas[s.User], -s.Amount)
		if err != nil {
			return nil, err
		}
		credit, err := AddAmounts(deltas[paidBy], s.Amount)
		if err != nil {
			return nil, err
		}
		deltas[s.User] = owed
		deltas[paidBy] = credit
	}

	return deltas, nil
}

// Sum adds up a set of balance deltas. A valid update always sums to zero.
func Sum(deltas map[models.User]int64) int64 {
	var total int64
	for _, d := range deltas {
		total += d
	}
	return total
}
