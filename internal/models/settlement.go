package models

import "fmt"

// Transfer represents a payment that settles part of a debt.
type Transfer struct {
	// From is the debtor who pays.
	From User

	// To is the creditor who receives the payment.
	To User

	// Amount is always positive.
	Amount int64
}

// String renders the transfer the way it appears in the audit log.
func (t Transfer) String() string {
	return fmt.Sprintf("%s pays %d to %s", t.From, t.Amount, t.To)
}
