package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
)

// withStats scopes a timed region against state: records Start on entry,
// End on exit, regardless of the wrapped function's outcome. Grounded on
// spec.md §4.7's with-stats contract; the teacher has no equivalent (it
// times the whole run with a single time.Since at the top level), so this
// is modeled directly on the spec's per-phase timing description.
func withStats(state *PGState, fn func() error) error {
	state.Start = time.Now()
	defer func() { state.End = time.Now() }()
	return fn()
}

// reportFullSummary renders the aggregated StateBundle as a table: one row
// per table in the main phase, plus rows for the schema phase, the index
// phase, and the sequence phase, and a grand total (spec.md §4.7). No
// table-printing library appears anywhere in the retrieval pack, so this
// is stdlib text/tabwriter — byte counts alone render through
// github.com/dustin/go-humanize, promoted from the teacher's indirect
// dependency, for human-readable sizes.
func reportFullSummary(w io.Writer, bundle *StateBundle) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PHASE\tREAD\tWRITTEN\tERRORS\tBYTES\tELAPSED")

	for _, s := range bundle.Before {
		writeStatsRow(tw, s)
	}
	for _, s := range bundle.Main {
		writeStatsRow(tw, s)
	}
	for _, s := range bundle.Index {
		writeStatsRow(tw, s)
	}
	for _, s := range bundle.Sequence {
		writeStatsRow(tw, s)
	}

	total := bundle.Totals()
	fmt.Fprintln(tw, "---\t---\t---\t---\t---\t---")
	writeStatsRow(tw, &total)

	tw.Flush()
}

func writeStatsRow(tw *tabwriter.Writer, s *PGState) {
	fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\t%s\n",
		s.Label, s.RowsRead, s.RowsWritten, s.Errors,
		humanize.Bytes(uint64(s.Bytes)), s.Elapsed().Round(time.Millisecond))
}
