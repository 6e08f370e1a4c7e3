package main

import "context"

// RowQueue is the single-producer, single-consumer bounded FIFO between a
// Source Reader and the PostgreSQL Sink (spec.md §4.3). Its Next/Values/Err
// shape mirrors pgx.CopyFromSource so the sink iterates it the same way it
// would iterate any other copy source, even though the sink itself hand-rolls
// the text wire protocol rather than handing the queue to pgx's binary copy
// path (spec.md §4.4 requires the text-protocol escape rules, which the
// binary protocol would bypass).
type RowQueue struct {
	ch      chan Row
	current Row
	err     error
}

// NewRowQueue allocates a queue with the given fixed capacity.
func NewRowQueue(capacity int) *RowQueue {
	if capacity <= 0 {
		capacity = 1
	}
	return &RowQueue{ch: make(chan Row, capacity)}
}

// Push blocks until the queue has room, the queue is closed, or ctx is
// canceled. Pushing after Close panics, matching the contract that further
// pushes after close are a producer bug, not a runtime condition.
func (q *RowQueue) Push(ctx context.Context, row Row) error {
	select {
	case q.ch <- row:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close signals producer-done. Safe to call exactly once.
func (q *RowQueue) Close() { close(q.ch) }

// Next advances to the next row, blocking while the queue is empty. Returns
// false once the queue is closed and drained.
func (q *RowQueue) Next() bool {
	row, ok := <-q.ch
	if !ok {
		return false
	}
	q.current = row
	return true
}

// Values returns the current row's raw values, in column order.
func (q *RowQueue) Values() ([]any, error) {
	return q.current, nil
}

// Err reports any error recorded against the queue. The queue itself never
// sets this; it exists so callers that treat RowQueue as a generic iterator
// don't need a type switch.
func (q *RowQueue) Err() error { return q.err }
