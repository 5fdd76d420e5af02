// Package sinks opens the audit sinks selected by the configuration.
package sinks

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/mmynk/splitledger/internal/amqp"
	"github.com/mmynk/splitledger/internal/app"
	"github.com/mmynk/splitledger/internal/config"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/internal/storage/sqlite"
)

// Set is the list of opened sinks.
type Set struct {
	// Journal is nil when no journal path is configured.
	Journal storage.Journal
	Sinks   []app.Sink
	closers []func() error
}

// Options returns the app options that forward entries to the set.
func (s *Set) Options() []app.Option {
	return []app.Option{app.WithJournal(s.Journal), app.WithSinks(s.Sinks...)}
}

// Close releases every sink in reverse opening order.
func (s *Set) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i]())
	}
	return errors.Join(errs...)
}

// Open builds the sinks enabled by cfg. A journal that cannot be opened is
// an error. An unreachable broker only disables publishing, as the ledger
// works without it.
func Open(cfg *config.Config, logger *slog.Logger) (*Set, error) {
	set := &Set{}

	if cfg.JournalPath != "" {
		journal, err := sqlite.New(cfg.JournalPath)
		if err != nil {
			return nil, fmt.Errorf("open journal: %w", err)
		}
		set.Journal = journal
		set.closers = append(set.closers, journal.Close)
		logger.Info("Journal enabled", "path", cfg.JournalPath)
	} else {
		logger.Info("Journal disabled")
	}

	if cfg.AMQPURL != "" {
		publisher, err := amqp.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			logger.Warn("Failed to initialize AMQP publisher, continuing without it", "error", err)
		} else {
			set.Sinks = append(set.Sinks, publisher)
			set.closers = append(set.closers, publisher.Close)
			logger.Info("AMQP publisher enabled", "exchange", cfg.AMQPExchange)
		}
	} else {
		logger.Info("AMQP disabled")
	}

	return set, nil
}
