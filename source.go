package main

import (
	"context"
	"fmt"
)

// SourceReader is the capability set every source kind implements (Design
// Notes §9): open, describe, iterate, close — a tagged variant over the two
// concrete kinds rather than method specialization on source type. The
// orchestrator consumes only this interface.
type SourceReader interface {
	// Describe opens the source artifact and returns its schema: table name,
	// ordered columns, and any discoverable indexes.
	Describe(ctx context.Context) (Table, error)

	// Iter streams rows matching the schema's column order onto rowsCh,
	// closing it on normal end-of-stream or on ctx cancellation. Any
	// terminal error is sent once on errCh before rowsCh closes. Returns the
	// count of rows emitted so far when ctx is canceled.
	Iter(ctx context.Context, rowsCh chan<- Row) error

	// Close releases the source handle. Safe to call after a normal end,
	// a cancellation, or an error.
	Close() error

	// RowsEmitted reports how many rows Iter has produced so far.
	RowsEmitted() int64
}

// newSourceReader returns a SourceReader for the given source kind and path.
func newSourceReader(kind, path, table string, rc *RunContext) (SourceReader, error) {
	switch kind {
	case "dbf":
		return newDBFReader(path, rc)
	case "sqlite":
		return newSQLiteReader(path, table, rc)
	default:
		return nil, fmt.Errorf("unsupported source kind %q (must be dbf or sqlite)", kind)
	}
}
