package main

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

func buildSQLiteFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "fixture.db")

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open fixture: %v", err)
	}
	defer db.Close()

	stmts := []string{
		`CREATE TABLE widgets (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			weight NUMERIC(10,2),
			payload BLOB
		)`,
		`CREATE INDEX idx_widgets_name ON widgets(name)`,
		`INSERT INTO widgets (name, weight, payload) VALUES ('bolt', 1.25, NULL)`,
		`INSERT INTO widgets (name, weight, payload) VALUES ('nut', 0.50, NULL)`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			t.Fatalf("exec %q: %v", s, err)
		}
	}
	return path
}

func TestSQLiteReader_DescribeAndIter(t *testing.T) {
	path := buildSQLiteFixture(t)
	rc := &RunContext{Log: mustTestLogger(t)}

	reader, err := newSQLiteReader(path, "widgets", rc)
	if err != nil {
		t.Fatalf("newSQLiteReader: %v", err)
	}
	defer reader.Close()

	table, err := reader.Describe(context.Background())
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if table.PGName != "widgets" {
		t.Errorf("PGName = %q, want widgets", table.PGName)
	}
	if table.PrimaryKey == nil || !table.PrimaryKey.IsPrimary {
		t.Fatal("expected a primary key index")
	}
	if len(table.Indexes) != 1 || table.Indexes[0].Columns[0] != "name" {
		t.Fatalf("unexpected secondary indexes: %+v", table.Indexes)
	}
	if len(table.Columns) != 4 {
		t.Fatalf("got %d columns, want 4", len(table.Columns))
	}

	rowsCh := make(chan Row, 10)
	if err := reader.Iter(context.Background(), rowsCh); err != nil {
		t.Fatalf("Iter: %v", err)
	}
	var rows []Row
	for r := range rowsCh {
		rows = append(rows, r)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if reader.RowsEmitted() != 2 {
		t.Errorf("RowsEmitted = %d, want 2", reader.RowsEmitted())
	}
}

func TestSQLiteReader_MissingTable(t *testing.T) {
	path := buildSQLiteFixture(t)
	rc := &RunContext{Log: mustTestLogger(t)}

	reader, err := newSQLiteReader(path, "nonexistent", rc)
	if err != nil {
		t.Fatalf("newSQLiteReader: %v", err)
	}
	defer reader.Close()

	if _, err := reader.Describe(context.Background()); err == nil {
		t.Fatal("expected error describing a missing table")
	}
}

func TestSQLiteReadOnlyURI(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"/tmp/foo.db", false},
		{"file:/tmp/foo.db", false},
		{"file::memory:", true},
		{":memory:", true},
	}
	for _, tt := range tests {
		_, err := sqliteReadOnlyURI(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("sqliteReadOnlyURI(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
	}
}
