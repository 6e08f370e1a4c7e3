package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// createIndex builds one index (spec.md §4.5's create-indexes, one task per
// index). The orchestrator submits these to the index pool; a failure here
// is recorded against just that index (IndexError is recoverable). Grounded
// on the teacher's post.go addIndexes, narrowed to the spec's plain
// column/unique/predicate Index model — composite keys and uniqueness
// survive, the teacher's MySQL index-flavor metadata (BTREE/HASH type tags,
// prefix lengths) does not, since neither source format produces it.
func createIndex(ctx context.Context, pool *pgxpool.Pool, table string, idx Index) error {
	if reason, unsupported := indexUnsupportedReason(idx); unsupported {
		return IndexError(idx.Name, fmt.Errorf("skipped: %s", reason))
	}

	unique := ""
	if idx.Unique {
		unique = "UNIQUE "
	}
	idxName := fmt.Sprintf("%s_%s", table, idx.Name)
	stmt := fmt.Sprintf("CREATE %sINDEX %s ON %s (%s)",
		unique, pgIdent(idxName), pgIdent(table), quotedColumnList(idx.Columns))
	if idx.Predicate != "" {
		stmt += fmt.Sprintf(" WHERE %s", idx.Predicate)
	}

	if _, err := pool.Exec(ctx, stmt); err != nil {
		return IndexError(idxName, fmt.Errorf("create: %w\nDDL: %s", err, stmt))
	}
	return nil
}

// indexUnsupportedReason reports why an index can't be built as discovered,
// mirroring the teacher's index_compat.go compatibility-warning pattern
// (there: expression/prefix MySQL index flavors; here: anything the source
// introspection couldn't resolve to plain columns).
func indexUnsupportedReason(idx Index) (string, bool) {
	if len(idx.Columns) == 0 {
		return "index has no plain column key-parts", true
	}
	if idx.Predicate == "<unmigrated predicate>" {
		return "partial index predicate was not captured during introspection", true
	}
	return "", false
}

// collectIndexCompatibilityWarnings scans every table's indexes up front so
// the Copy Orchestrator can log skip warnings before submitting index tasks,
// rather than discovering them one failed CREATE INDEX at a time.
func collectIndexCompatibilityWarnings(tables []Table) []string {
	var warnings []string
	for _, t := range tables {
		for _, idx := range t.Indexes {
			if reason, unsupported := indexUnsupportedReason(idx); unsupported {
				warnings = append(warnings, fmt.Sprintf("%s.%s: %s", t.PGName, idx.Name, reason))
			}
		}
	}
	return warnings
}
