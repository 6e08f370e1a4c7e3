package main

import (
	"context"
	"fmt"
	"path"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// LoadOptions carries the Copy Orchestrator's option flags (spec.md §4.6),
// decoded from the CommandFile's root-level fields.
type LoadOptions struct {
	DataOnly       bool
	SchemaOnly     bool
	Truncate       bool
	CreateTables   bool
	CreateIndexes  bool
	IncludeDrop    bool
	ResetSequences bool
	OnlyTables     []string
	Including      []string
	Excluding      []string
	QueueCapacity  int // default 10, spec.md §4.3
}

// selectedTables applies the Copy Orchestrator's table filter (spec.md
// §4.6): t ∈ selected iff (only-tables empty or t ∈ only-tables) AND
// (including empty or t matches any including pattern) AND t matches no
// excluding pattern. Patterns use path.Match glob syntax.
func (o LoadOptions) tableSelected(name string) bool {
	if len(o.OnlyTables) > 0 && !containsString(o.OnlyTables, name) {
		return false
	}
	if len(o.Including) > 0 && !matchesAny(o.Including, name) {
		return false
	}
	if matchesAny(o.Excluding, name) {
		return false
	}
	return true
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func matchesAny(patterns []string, name string) bool {
	for _, p := range patterns {
		if ok, err := path.Match(p, name); err == nil && ok {
			return true
		}
	}
	return false
}

// Orchestrator drives the schema phase, then one copy-pool/index-pool pair
// per selected table, then sequence reset, per spec.md §4.6's numbered
// procedure. Grounded on imtaco-db2pg's migrateTablesParallel (hand-rolled
// WaitGroup + channel worker pool), replaced with golang.org/x/sync/errgroup
// + golang.org/x/sync/semaphore — the teacher's own go.mod already pulls in
// x/sync transitively, and errgroup's structured cancellation is what spec.md
// §5's cooperative-cancellation requirement actually needs over a bare
// WaitGroup.
type Orchestrator struct {
	rc      *RunContext
	opts    LoadOptions
	readers []SourceReader
	tables  []Table
}

// NewOrchestrator discovers schema for every selected source up front (step
// 1 of spec.md §4.6's procedure).
func NewOrchestrator(ctx context.Context, rc *RunContext, specs []SourceSpec, opts LoadOptions) (*Orchestrator, error) {
	o := &Orchestrator{rc: rc, opts: opts}

	for _, spec := range specs {
		if !opts.tableSelected(spec.TargetName) {
			continue
		}
		reader, err := newSourceReader(spec.Kind, spec.Path, spec.Table, rc)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", spec.Path, err)
		}

		table, err := reader.Describe(ctx)
		if err != nil {
			reader.Close()
			return nil, err
		}
		table.PGName = spec.TargetName

		if sr, ok := reader.(*sqliteReader); ok {
			for _, w := range sr.GeneratedColumnWarnings() {
				rc.Log.Warning("%s", w)
			}
			if objs, err := introspectSQLiteSourceObjects(ctx, sr.db); err == nil {
				for _, w := range sourceObjectWarnings(objs) {
					rc.Log.Notice("%s: %s", table.PGName, w)
				}
			}
		}

		o.readers = append(o.readers, reader)
		o.tables = append(o.tables, table)
	}

	return o, nil
}

// Run executes the full procedure and returns the completed StateBundle.
func (o *Orchestrator) Run(ctx context.Context) (*StateBundle, error) {
	bundle := o.rc.Stats

	if warnings := collectIndexCompatibilityWarnings(o.tables); len(warnings) > 0 {
		o.rc.Log.Warning("index compatibility report: %d index(es) will be skipped", len(warnings))
		for _, w := range warnings {
			o.rc.Log.Warning("  %s", w)
		}
	}

	if !o.opts.DataOnly {
		if err := o.runSchemaPhase(ctx, bundle); err != nil {
			return bundle, err
		}
	}
	if o.opts.SchemaOnly {
		return bundle, nil
	}

	if err := o.runCopyAndIndexPhase(ctx, bundle); err != nil {
		return bundle, err
	}

	if o.opts.ResetSequences {
		o.runSequencePhase(ctx, bundle)
	}

	return bundle, nil
}

func (o *Orchestrator) runSchemaPhase(ctx context.Context, bundle *StateBundle) error {
	state := &PGState{Label: "schema"}
	bundle.Before = append(bundle.Before, state)

	return withStats(state, func() error {
		switch {
		case o.opts.CreateTables || o.opts.SchemaOnly:
			if err := createTables(ctx, o.rc.Pool, o.tables, o.opts.IncludeDrop); err != nil {
				state.Errors++
				return err
			}
		case o.opts.Truncate:
			names := make([]string, len(o.tables))
			for i, t := range o.tables {
				names[i] = t.PGName
			}
			if err := truncateTables(ctx, o.rc.Pool, names); err != nil {
				state.Errors++
				return err
			}
		}
		return nil
	})
}

// runCopyAndIndexPhase allocates the copy pool (2 workers per table) and,
// if any table has indexes, an index pool sized to the maximum index count
// on any one table (spec.md §4.6 step 4, Open Question 1: zero indexes
// everywhere means no index pool at all). Table N+1 is submitted without
// waiting for table N's copy to finish — the semaphore/errgroup bound
// parallelism instead of an explicit sequential wait.
func (o *Orchestrator) runCopyAndIndexPhase(ctx context.Context, bundle *StateBundle) error {
	maxIndexes := 0
	for _, t := range o.tables {
		if n := len(t.Indexes); n > maxIndexes {
			maxIndexes = n
		}
	}

	copySem := semaphore.NewWeighted(2 * int64(max(1, len(o.tables))))
	var indexSem *semaphore.Weighted
	if o.opts.CreateIndexes && maxIndexes > 0 {
		indexSem = semaphore.NewWeighted(int64(maxIndexes))
	}

	var mu sync.Mutex
	copyGroup, copyCtx := errgroup.WithContext(ctx)
	indexGroup, indexCtx := errgroup.WithContext(ctx)

	for i, table := range o.tables {
		table := table
		reader := o.readers[i]

		state := &PGState{Label: table.PGName, Start: time.Now()}
		mu.Lock()
		bundle.Main = append(bundle.Main, state)
		mu.Unlock()

		if err := copySem.Acquire(copyCtx, 2); err != nil {
			return err
		}
		copyGroup.Go(func() error {
			defer copySem.Release(2)
			defer func() { state.End = time.Now() }()
			err := o.copyOneTable(copyCtx, reader, table, state)
			if err != nil {
				o.rc.Log.Error("table %s: %v", table.PGName, err)
			}
			return nil // table-level errors never abort sibling tables
		})

		if indexSem != nil {
			for _, idx := range table.Indexes {
				idx := idx
				idxState := &PGState{Label: fmt.Sprintf("%s.%s", table.PGName, idx.Name), Start: time.Now()}
				mu.Lock()
				bundle.Index = append(bundle.Index, idxState)
				mu.Unlock()

				if err := indexSem.Acquire(indexCtx, 1); err != nil {
					return err
				}
				indexGroup.Go(func() error {
					defer indexSem.Release(1)
					defer func() { idxState.End = time.Now() }()
					if err := createIndex(indexCtx, o.rc.Pool, table.PGName, idx); err != nil {
						idxState.Errors++
						o.rc.Log.Warning("index %s.%s: %v", table.PGName, idx.Name, err)
					}
					return nil // index errors never abort sibling index builds
				})
			}
		}
	}

	if err := copyGroup.Wait(); err != nil {
		return err
	}
	if err := indexGroup.Wait(); err != nil {
		return err
	}
	return nil
}

func (o *Orchestrator) copyOneTable(ctx context.Context, reader SourceReader, table Table, state *PGState) error {
	defer reader.Close()

	queueCap := o.opts.QueueCapacity
	if queueCap <= 0 {
		queueCap = 10
	}
	queue := NewRowQueue(queueCap)

	colNames := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		colNames[i] = c.PGName
	}

	readDone := make(chan error, 1)
	go func() {
		readDone <- o.feedQueue(ctx, reader, table, queue)
	}()

	// truncate already ran once for every selected table in runSchemaPhase;
	// the sink never truncates again here.
	sinkErr := runSink(ctx, o.rc, o.rc.Pool, table.PGName, colNames, queue, false, state)
	readErr := <-readDone

	if sinkErr != nil {
		return sinkErr
	}
	return readErr
}

// feedQueue transforms each raw row through its column's Transform and
// pushes it onto queue, closing queue on normal end or cancellation.
func (o *Orchestrator) feedQueue(ctx context.Context, reader SourceReader, table Table, queue *RowQueue) error {
	defer queue.Close()

	rowsCh := make(chan Row, 1)
	iterDone := make(chan error, 1)
	go func() {
		iterDone <- reader.Iter(ctx, rowsCh)
	}()

	transforms := make([]Transform, len(table.Columns))
	for i, c := range table.Columns {
		mappings := dbfTypeMappings
		if isSQLiteAffinity(c.SourceType) {
			mappings = sqliteTypeMappings
		}
		_, tf := MapColumn(c, mappings)
		transforms[i] = tf
	}

	for row := range rowsCh {
		transformed := make(Row, len(row))
		for i, v := range row {
			if i >= len(transforms) || transforms[i] == nil {
				transformed[i] = v
				continue
			}
			out, err := transforms[i](v)
			if err != nil {
				return SourceQueryError(table.PGName, fmt.Errorf("transform column %d: %w", i, err))
			}
			transformed[i] = out
		}
		if err := queue.Push(ctx, transformed); err != nil {
			return err
		}
	}
	return <-iterDone
}

func (o *Orchestrator) runSequencePhase(ctx context.Context, bundle *StateBundle) {
	state := &PGState{Label: "sequences"}
	bundle.Sequence = append(bundle.Sequence, state)

	withStats(state, func() error {
		errs := resetSequences(ctx, o.rc.Pool, o.tables)
		state.Errors = int64(len(errs))
		for _, e := range errs {
			o.rc.Log.Warning("%v", e)
		}
		return nil
	})
}

