package ledger

import (
	"time"

	"github.com/mmynk/splitledger/internal/models"
)

// Log is an append-only audit trail. Entries are never edited or removed.
type Log struct {
	entries []models.Entry
	now     func() time.Time
}

func newLog(now func() time.Time) *Log {
	return &Log{now: now}
}

// Append records a new entry and returns it.
func (l *Log) Append(kind models.EntryKind, text string) models.Entry {
	e := models.Entry{
		Seq:  len(l.entries) + 1,
		Kind: kind,
		Text: text,
		At:   l.now().Unix(),
	}
	l.entries = append(l.entries, e)
	return e
}

// Len returns the number of entries.
func (l *Log) Len() int {
	return len(l.entries)
}

// Entries returns a copy of every entry in insertion order.
func (l *Log) Entries() []models.Entry {
	return l.Since(0)
}

// Since returns a copy of the entries after the first n.
func (l *Log) Since(n int) []models.Entry {
	if n < 0 {
		n = 0
	}
	if n >= len(l.entries) {
		return nil
	}
	out := make([]models.Entry, len(l.entries)-n)
	copy(out, l.entries[n:])
	return out
}
