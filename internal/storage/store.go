// Package storage provides abstractions for recording audit entries outside
// the process.
package storage

import (
	"context"

	"github.com/mmynk/splitledger/internal/models"
)

// Record is an audit entry as stored by a Journal.
type Record struct {
	// ID is the unique identifier assigned by the journal (UUID format).
	ID string

	// Group is the name of the group the entry belongs to.
	Group string

	models.Entry
}

// Journal defines the interface for audit journal backends.
// A journal is write-mostly: the ledger never reloads state from it.
type Journal interface {
	// Record appends one audit entry for a group.
	Record(ctx context.Context, group string, entry models.Entry) error

	// ListByGroup returns the recorded entries of a group in the order they
	// were written.
	ListByGroup(ctx context.Context, group string) ([]Record, error)

	// Close releases any resources held by the journal.
	Close() error
}
