package main

import (
	"reflect"
	"testing"
)

func TestSplitStatements(t *testing.T) {
	sql := "INSERT INTO t VALUES ('a;b', 'it''s fine'); DELETE FROM t WHERE x = 1;\nSELECT 1"
	got := splitStatements(sql)
	want := []string{
		"INSERT INTO t VALUES ('a;b', 'it''s fine')",
		"DELETE FROM t WHERE x = 1",
		"SELECT 1",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}
}

func TestSplitStatements_Empty(t *testing.T) {
	if got := splitStatements("   ;;  "); len(got) != 0 {
		t.Fatalf("expected no statements, got %#v", got)
	}
}
