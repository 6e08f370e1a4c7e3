package main

import "fmt"

// ErrorKind tags an error with the recovery policy spec.md §7 assigns it.
type ErrorKind int

const (
	// KindSourceFormat: malformed header or truncated record. Fatal for that table.
	KindSourceFormat ErrorKind = iota
	// KindSourceQuery: a source-side step failed. Recoverable — the table's
	// counters get +1 error, the sink is ended, other tables proceed.
	KindSourceQuery
	// KindSink: transaction or stream failure. Fatal for that table; rolled back.
	KindSink
	// KindSchema: a DDL statement failed during the schema phase. Fatal for the run.
	KindSchema
	// KindIndex: a single index build failed. Recoverable — other indexes proceed.
	KindIndex
	// KindSequence: a single sequence reset failed. Recoverable — others proceed.
	KindSequence
)

func (k ErrorKind) String() string {
	switch k {
	case KindSourceFormat:
		return "source_format"
	case KindSourceQuery:
		return "source_query"
	case KindSink:
		return "sink"
	case KindSchema:
		return "schema"
	case KindIndex:
		return "index"
	case KindSequence:
		return "sequence"
	default:
		return "unknown"
	}
}

// LoadError is the core's single error type: a kind tag, the table/index it
// concerns, and the wrapped cause.
type LoadError struct {
	Kind  ErrorKind
	Table string
	Cause error
}

func (e *LoadError) Error() string {
	if e.Table == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Cause)
	}
	return fmt.Sprintf("%s[%s]: %v", e.Kind, e.Table, e.Cause)
}

func (e *LoadError) Unwrap() error { return e.Cause }

func newError(kind ErrorKind, table string, cause error) *LoadError {
	return &LoadError{Kind: kind, Table: table, Cause: cause}
}

// SourceFormatError reports a malformed or truncated source artifact.
func SourceFormatError(table string, cause error) *LoadError {
	return newError(KindSourceFormat, table, cause)
}

// SourceQueryError reports a recoverable source-side failure.
func SourceQueryError(table string, cause error) *LoadError {
	return newError(KindSourceQuery, table, cause)
}

// SinkError reports a fatal sink-side failure, optionally annotated with the
// approximate row index that triggered it.
func SinkError(table string, rowIndex int64, cause error) *LoadError {
	return newError(KindSink, table, fmt.Errorf("row ~%d: %w", rowIndex, cause))
}

// SchemaError reports a fatal DDL failure during the schema phase.
func SchemaError(table string, cause error) *LoadError {
	return newError(KindSchema, table, cause)
}

// IndexError reports a recoverable index-build failure.
func IndexError(index string, cause error) *LoadError {
	return newError(KindIndex, index, cause)
}

// SequenceError reports a recoverable sequence-reset failure.
func SequenceError(seq string, cause error) *LoadError {
	return newError(KindSequence, seq, cause)
}

// recoverable reports whether an ErrorKind's policy allows the run to
// continue past it (index/sequence/per-row source-query errors never abort
// the run; schema and sink errors do, at different granularities).
func (k ErrorKind) recoverable() bool {
	switch k {
	case KindSourceQuery, KindIndex, KindSequence:
		return true
	default:
		return false
	}
}
