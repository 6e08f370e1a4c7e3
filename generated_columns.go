package main

import "fmt"

// collectGeneratedColumnWarnings reports SQLite STORED/VIRTUAL generated
// columns that Describe excluded from the row stream — their generation
// expression has no portable PostgreSQL equivalent to hand-roll, so the
// safest behavior is to leave the column out of both the DDL and the copy
// rather than copy a value that won't recompute should the row change later.
func collectGeneratedColumnWarnings(table string, generated []string) []string {
	warnings := make([]string, len(generated))
	for i, g := range generated {
		warnings[i] = fmt.Sprintf("%s.%s: generated column excluded, expression is not recreated", table, g)
	}
	return warnings
}
