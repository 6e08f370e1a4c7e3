package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// runSQLHooks reads each SQL file relative to baseDir, expands {{root_dir}},
// and executes every statement in order. Grounded on the teacher's
// loadAndExecSQLFiles/splitStatements (before_data/after_data/before_fk/
// after_all hook phases); narrowed to the two phases SPEC_FULL.md's
// command-file surface exposes (before-data, after-data), since DBF/SQLite
// sources carry no foreign keys for a before_fk phase to clean up ahead of.
func runSQLHooks(ctx context.Context, pool *pgxpool.Pool, baseDir string, files []string, rootDir, phase string) error {
	if len(files) == 0 {
		return nil
	}
	for _, f := range files {
		path := f
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, f)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("hook %s: read %s: %w", phase, f, err)
		}

		sqlText := strings.ReplaceAll(string(data), "{{root_dir}}", rootDir)
		for i, stmt := range splitStatements(sqlText) {
			if _, err := pool.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("hook %s: %s: statement %d: %w\nSQL: %s", phase, f, i+1, err, stmt)
			}
		}
	}
	return nil
}

// splitStatements splits SQL text on semicolons, ignoring content inside
// single-quoted strings and empty entries.
func splitStatements(sql string) []string {
	var stmts []string
	var current strings.Builder
	inQuote := false

	for i := 0; i < len(sql); i++ {
		c := sql[i]
		switch {
		case c == '\'' && !inQuote:
			inQuote = true
			current.WriteByte(c)
		case c == '\'' && inQuote:
			if i+1 < len(sql) && sql[i+1] == '\'' {
				current.WriteByte(c)
				current.WriteByte(c)
				i++
			} else {
				inQuote = false
				current.WriteByte(c)
			}
		case c == ';' && !inQuote:
			if s := strings.TrimSpace(current.String()); s != "" {
				stmts = append(stmts, s)
			}
			current.Reset()
		default:
			current.WriteByte(c)
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		stmts = append(stmts, s)
	}
	return stmts
}
