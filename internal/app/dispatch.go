package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/models"
)

const sinkQueueSize = 256

type batch struct {
	ctx     context.Context
	entries []models.Entry
	flushed chan struct{}
}

// sinkQueue delivers one group's audit entries to the sinks on its own
// goroutine, in the order they were pushed. Ledger operations only wait for
// a free slot in the queue, never for a sink.
type sinkQueue struct {
	group   string
	sinks   []Sink
	metrics *metrics.Metrics
	logger  *slog.Logger

	mu      sync.RWMutex
	closed  bool
	batches chan batch
	done    chan struct{}
}

func newSinkQueue(group string, sinks []Sink, m *metrics.Metrics, logger *slog.Logger) *sinkQueue {
	q := &sinkQueue{
		group:   group,
		sinks:   sinks,
		metrics: m,
		logger:  logger,
		batches: make(chan batch, sinkQueueSize),
		done:    make(chan struct{}),
	}
	go q.run()
	return q
}

// push queues entries for delivery. Callers hold the group lock, which
// fixes the order across concurrent operations.
func (q *sinkQueue) push(ctx context.Context, entries []models.Entry) {
	if len(entries) == 0 {
		return
	}

	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		q.logger.WarnContext(ctx, "Dropping audit entries after close", "group", q.group, "entries", len(entries))
		return
	}
	q.batches <- batch{ctx: context.WithoutCancel(ctx), entries: entries}
}

// flush waits until everything pushed so far has been delivered.
func (q *sinkQueue) flush(ctx context.Context) error {
	flushed := make(chan struct{})

	q.mu.RLock()
	if q.closed {
		q.mu.RUnlock()
		return nil
	}
	q.batches <- batch{flushed: flushed}
	q.mu.RUnlock()

	select {
	case <-flushed:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// close delivers what is queued and stops the goroutine.
func (q *sinkQueue) close() {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.batches)
	}
	q.mu.Unlock()
	<-q.done
}

func (q *sinkQueue) run() {
	defer close(q.done)
	for b := range q.batches {
		if b.flushed != nil {
			close(b.flushed)
			continue
		}
		q.deliver(b)
	}
}

func (q *sinkQueue) deliver(b batch) {
	var g errgroup.Group
	for _, sink := range q.sinks {
		g.Go(func() error {
			name := sinkName(sink)
			var errs []error
			for _, e := range b.entries {
				if err := sink.Record(b.ctx, q.group, e); err != nil {
					q.metrics.SinkErrors.WithLabelValues(name).Inc()
					errs = append(errs, fmt.Errorf("%s: entry %d: %w", name, e.Seq, err))
				}
			}
			return errors.Join(errs...)
		})
	}
	if err := g.Wait(); err != nil {
		q.logger.WarnContext(b.ctx, "Failed to forward audit entries", "group", q.group, "error", err)
	}
}

func sinkName(sink Sink) string {
	if n, ok := sink.(interface{ Name() string }); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", sink)
}
