package main

import (
	"context"
	"strings"
	"testing"
)

func TestEncodeCopyRow(t *testing.T) {
	tests := []struct {
		name string
		row  Row
		want string
	}{
		{"strings and null", Row{"alice", nil}, "alice\t\\N\n"},
		{"booleans", Row{true, false}, "t\tf\n"},
		{"escapes", Row{"a\tb\nc\\d"}, "a\\tb\\nc\\\\d\n"},
		{"bytes", Row{[]byte{0x00, 0xFF}}, "\\x00ff\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf strings.Builder
			if err := encodeCopyRow(&buf, tt.row, len(tt.row)); err != nil {
				t.Fatalf("encodeCopyRow: %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("got %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestEncodeCopyRow_CardinalityMismatch(t *testing.T) {
	var buf strings.Builder
	err := encodeCopyRow(&buf, Row{"only-one"}, 2)
	if err == nil {
		t.Fatal("expected an error for a row with the wrong column count")
	}
}

func TestPumpRowsToCopyStream_RejectsBadRowsAndContinues(t *testing.T) {
	queue := NewRowQueue(4)
	ctx := context.Background()
	go func() {
		_ = queue.Push(ctx, Row{"good", int64(1)})
		_ = queue.Push(ctx, Row{"too-few"}) // wrong cardinality, rejected
		_ = queue.Push(ctx, Row{"good2", int64(2)})
		queue.Close()
	}()

	var out strings.Builder
	state := &PGState{}
	rejects := &rejectWriter{table: "widgets"} // no root dir: counts only

	if err := pumpRowsToCopyStream(&out, queue, 2, state, rejects); err != nil {
		t.Fatalf("pumpRowsToCopyStream: %v", err)
	}

	if state.RowsRead != 3 {
		t.Errorf("RowsRead = %d, want 3", state.RowsRead)
	}
	if state.Errors != 1 {
		t.Errorf("Errors = %d, want 1", state.Errors)
	}
	if rejects.n != 1 {
		t.Errorf("reject count = %d, want 1", rejects.n)
	}
	got := out.String()
	if !strings.Contains(got, "good\t1\n") || !strings.Contains(got, "good2\t2\n") {
		t.Errorf("unexpected stream contents: %q", got)
	}
	if strings.Contains(got, "too-few") {
		t.Errorf("rejected row should not appear in the copy stream: %q", got)
	}
}
