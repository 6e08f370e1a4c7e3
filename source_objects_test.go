package main

import (
	"context"
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

func TestIntrospectSQLiteSourceObjects(t *testing.T) {
	path := buildSQLiteFixture(t)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(`CREATE VIEW widget_names AS SELECT name FROM widgets`); err != nil {
		t.Fatalf("create view: %v", err)
	}
	if _, err := db.Exec(`CREATE TRIGGER trg_widgets_ins AFTER INSERT ON widgets BEGIN SELECT 1; END`); err != nil {
		t.Fatalf("create trigger: %v", err)
	}

	objs, err := introspectSQLiteSourceObjects(context.Background(), db)
	if err != nil {
		t.Fatalf("introspectSQLiteSourceObjects: %v", err)
	}
	if len(objs.Views) != 1 || objs.Views[0] != "widget_names" {
		t.Errorf("views = %v", objs.Views)
	}
	if len(objs.Triggers) != 1 || objs.Triggers[0] != "trg_widgets_ins" {
		t.Errorf("triggers = %v", objs.Triggers)
	}

	warnings := sourceObjectWarnings(objs)
	if len(warnings) != 3 { // summary + 1 view + 1 trigger
		t.Fatalf("got %d warnings, want 3: %v", len(warnings), warnings)
	}
}

func TestSourceObjectWarnings_Empty(t *testing.T) {
	if got := sourceObjectWarnings(&SourceObjects{}); len(got) != 0 {
		t.Fatalf("expected no warnings, got %v", got)
	}
	if got := sourceObjectWarnings(nil); len(got) != 0 {
		t.Fatalf("expected no warnings for nil, got %v", got)
	}
}
