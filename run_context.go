package main

import (
	"golang.org/x/text/encoding"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RunContext is the explicit, threaded-through replacement for the
// original's process-wide globals (Design Notes §9): no module-level
// mutable state, no dynamic rebinding — every component that needs the
// logger, root directory, encoding, or connection pool receives this value.
type RunContext struct {
	RunID    string
	Log      *Logger
	RootDir  string
	Encoding encoding.Encoding
	Pool     *pgxpool.Pool
	Stats    *StateBundle
}

// NewRunContext builds a RunContext with a fresh correlation ID, so
// concurrent runs' log lines and summaries are distinguishable.
func NewRunContext(log *Logger, rootDir string, enc encoding.Encoding, pool *pgxpool.Pool) *RunContext {
	return &RunContext{
		RunID:    uuid.NewString(),
		Log:      log,
		RootDir:  rootDir,
		Encoding: enc,
		Pool:     pool,
		Stats: &StateBundle{},
	}
}
