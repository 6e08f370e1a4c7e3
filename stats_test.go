package main

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestWithStats_RecordsElapsedOnSuccess(t *testing.T) {
	state := &PGState{Label: "widgets"}
	err := withStats(state, func() error {
		time.Sleep(time.Millisecond)
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.Start.IsZero() || state.End.IsZero() {
		t.Fatal("expected Start and End to be set")
	}
	if state.Elapsed() <= 0 {
		t.Fatalf("expected positive elapsed, got %v", state.Elapsed())
	}
}

func TestWithStats_RecordsEndEvenOnError(t *testing.T) {
	state := &PGState{Label: "widgets"}
	wantErr := errors.New("boom")
	err := withStats(state, func() error { return wantErr })
	if err != wantErr {
		t.Fatalf("got %v, want %v", err, wantErr)
	}
	if state.End.IsZero() {
		t.Fatal("expected End to be set even when fn errors")
	}
}

func TestReportFullSummary(t *testing.T) {
	now := time.Now()
	bundle := &StateBundle{
		Before: []*PGState{{Label: "schema", Start: now, End: now}},
		Main: []*PGState{
			{Label: "widgets", RowsRead: 10, RowsWritten: 10, Start: now, End: now.Add(time.Second)},
			{Label: "gadgets", RowsRead: 5, RowsWritten: 4, Errors: 1, Start: now, End: now.Add(time.Second)},
		},
		Index:    []*PGState{{Label: "widgets.name_idx", Start: now, End: now}},
		Sequence: []*PGState{{Label: "sequences", Start: now, End: now}},
	}

	var buf strings.Builder
	reportFullSummary(&buf, bundle)
	out := buf.String()

	for _, want := range []string{"schema", "widgets", "gadgets", "widgets.name_idx", "sequences", "TOTAL"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestStateBundle_Totals(t *testing.T) {
	bundle := &StateBundle{
		Main: []*PGState{
			{RowsRead: 10, RowsWritten: 10, Bytes: 100},
			{RowsRead: 5, RowsWritten: 4, Errors: 1, Bytes: 50},
		},
		Sequence: []*PGState{{Errors: 2}},
	}
	total := bundle.Totals()
	if total.RowsRead != 15 || total.RowsWritten != 14 || total.Errors != 3 || total.Bytes != 150 {
		t.Fatalf("unexpected totals: %+v", total)
	}
}
