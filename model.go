package main

import "time"

// Column describes a single column discovered from a source artifact.
// Immutable after discovery.
type Column struct {
	SourceName string // name as it appears in the source
	PGName     string // identifier-case-folded target name
	SourceType string // format-specific type tag: DBF single char, SQLite affinity name
	Length     int64  // declared byte/char length (DBF) or precision (SQLite NUMERIC)
	Scale      int64  // decimal scale, SQLite NUMERIC(p,s) only
	Nullable   bool
	IsBinary   bool // SQLite: column should be cast to bytea (base64-encoded in driver value)
	OrdinalPos int
}

// Index describes a candidate PostgreSQL index discovered from a source.
type Index struct {
	Name       string
	SourceName string
	Table      string // owning PGName
	Columns    []string
	Unique     bool
	IsPrimary  bool
	Predicate  string // optional partial-index WHERE clause, empty if none
}

// Transform converts one raw source value into its PostgreSQL text-protocol
// representation. A nil Transform means identity.
type Transform func(val any) (any, error)

// TypeMapping pairs a PostgreSQL column type with the default Transform for
// a source type tag.
type TypeMapping struct {
	PGType    string
	Transform Transform
}

// SourceDescriptor identifies one source artifact/table pairing and target.
// Created once per table by the orchestrator; columns/transforms are filled
// during initialization and never mutated afterward.
//
// Invariant: len(Columns) == len(Transforms) once initialization completes.
type SourceDescriptor struct {
	SourceHandle any // *os.File (DBF) or *sql.DB (SQLite)
	SourceName   string
	TargetName   string
	TargetDB     string
	Columns      []Column
	Transforms   []Transform
	Indexes      []Index
}

// Table is the schema-level record produced by a Source Reader's Describe().
type Table struct {
	SourceName string
	PGName     string
	Columns    []Column
	PrimaryKey *Index
	Indexes    []Index
}

// Row is one ordered vector of raw values, in Column order.
type Row []any

// PGState holds per-table (or per-phase) counters and timings.
type PGState struct {
	Label       string
	RowsRead    int64
	RowsWritten int64
	Errors      int64
	Bytes       int64
	Start       time.Time
	End         time.Time
}

// Elapsed returns the duration between Start and End. Zero if End is unset.
func (s *PGState) Elapsed() time.Duration {
	if s.End.IsZero() {
		return 0
	}
	return s.End.Sub(s.Start)
}

// StateBundle aggregates PGStates across the run's four phases.
type StateBundle struct {
	Before   []*PGState // schema create/truncate phase
	Main     []*PGState // one per table, the data-copy phase
	Index    []*PGState // one per index
	Sequence []*PGState // one per sequence reset
}

// Totals sums counters across every phase.
func (b *StateBundle) Totals() PGState {
	var t PGState
	t.Label = "TOTAL"
	for _, list := range [][]*PGState{b.Before, b.Main, b.Index, b.Sequence} {
		for _, s := range list {
			t.RowsRead += s.RowsRead
			t.RowsWritten += s.RowsWritten
			t.Errors += s.Errors
			t.Bytes += s.Bytes
		}
	}
	return t
}
