package main

import (
	"context"
	"database/sql"
	"fmt"
)

// SourceObjects holds non-table SQLite objects that the core's plain
// table-copy model leaves behind. DBF has no equivalent (a .dbf file is a
// single table, nothing more), so this only ever gets populated for a
// SQLite source.
type SourceObjects struct {
	Views    []string
	Triggers []string
}

// introspectSQLiteSourceObjects scans sqlite_master for views and triggers,
// the same catalog table introspectSQLiteColumns/introspectSQLiteIndexes
// read from, adapted from the teacher's MySQL INFORMATION_SCHEMA-backed
// equivalent to SQLite's native single-catalog layout.
func introspectSQLiteSourceObjects(ctx context.Context, db *sql.DB) (*SourceObjects, error) {
	objs := &SourceObjects{}

	viewRows, err := db.QueryContext(ctx, "SELECT name FROM sqlite_master WHERE type='view' ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("introspect views: %w", err)
	}
	defer viewRows.Close()
	for viewRows.Next() {
		var name string
		if err := viewRows.Scan(&name); err != nil {
			return nil, err
		}
		objs.Views = append(objs.Views, name)
	}
	if err := viewRows.Err(); err != nil {
		return nil, err
	}

	trigRows, err := db.QueryContext(ctx, "SELECT name FROM sqlite_master WHERE type='trigger' ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("introspect triggers: %w", err)
	}
	defer trigRows.Close()
	for trigRows.Next() {
		var name string
		if err := trigRows.Scan(&name); err != nil {
			return nil, err
		}
		objs.Triggers = append(objs.Triggers, name)
	}
	return objs, trigRows.Err()
}

// sourceObjectWarnings reports views and triggers the copy will silently
// leave behind, so an operator sees them called out once rather than
// discovering a stale view after the fact.
func sourceObjectWarnings(objs *SourceObjects) []string {
	if objs == nil || (len(objs.Views) == 0 && len(objs.Triggers) == 0) {
		return nil
	}

	warnings := []string{fmt.Sprintf(
		"source contains non-table objects not copied automatically (%d views, %d triggers)",
		len(objs.Views), len(objs.Triggers),
	)}
	for _, v := range objs.Views {
		warnings = append(warnings, fmt.Sprintf("view: %s", v))
	}
	for _, t := range objs.Triggers {
		warnings = append(warnings, fmt.Sprintf("trigger: %s", t))
	}
	return warnings
}
