package models

// Share is one user's portion of an expense.
type Share struct {
	User   User
	Amount int64
}

// EntryKind classifies an audit log record.
type EntryKind string

const (
	EntryExpense    EntryKind = "expense"
	EntryPayment    EntryKind = "payment"
	EntrySettlement EntryKind = "settlement"
)

// Entry is one immutable record in a group's audit log.
type Entry struct {
	// Seq is the 1-based position of the entry in its group's log.
	Seq int

	// Kind tells which operation produced the entry.
	Kind EntryKind

	// Text is the human-readable description shown to users.
	Text string

	// At is the Unix timestamp when the entry was appended.
	At int64
}

// String returns the display text of the entry.
func (e Entry) String() string {
	return e.Text
}
