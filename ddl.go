package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// createTables emits and executes CREATE TABLE DDL for every table, in one
// transaction (spec.md §4.5). When includeDrop is set, each table is first
// dropped if it exists. Grounded on the teacher's createTables/
// generateCreateTable, generalized from a fixed MySQL column-type switch to
// the Mapper-driven PG type string and extended with the drop-then-create
// option spec.md names.
func createTables(ctx context.Context, pool *pgxpool.Pool, tables []Table, includeDrop bool) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return SchemaError("", fmt.Errorf("begin schema transaction: %w", err))
	}
	defer tx.Rollback(ctx)

	for _, t := range tables {
		if includeDrop {
			stmt := fmt.Sprintf("DROP TABLE IF EXISTS %s", pgIdent(t.PGName))
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return SchemaError(t.PGName, fmt.Errorf("drop: %w", err))
			}
		}
		ddl := generateCreateTable(t)
		if _, err := tx.Exec(ctx, ddl); err != nil {
			return SchemaError(t.PGName, fmt.Errorf("create: %w\nDDL: %s", err, ddl))
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return SchemaError("", fmt.Errorf("commit schema transaction: %w", err))
	}
	return nil
}

// truncateTables issues a single TRUNCATE for all listed tables (spec.md
// §4.5). The orchestrator skips this entirely for tables it just created,
// since the two options are exclusive for freshly-created tables.
func truncateTables(ctx context.Context, pool *pgxpool.Pool, tableNames []string) error {
	if len(tableNames) == 0 {
		return nil
	}
	quoted := make([]string, len(tableNames))
	for i, n := range tableNames {
		quoted[i] = pgIdent(n)
	}
	stmt := fmt.Sprintf("TRUNCATE %s", strings.Join(quoted, ", "))
	if _, err := pool.Exec(ctx, stmt); err != nil {
		return SchemaError(strings.Join(tableNames, ","), fmt.Errorf("truncate: %w", err))
	}
	return nil
}

// generateCreateTable produces one CREATE TABLE statement. A table's own
// single-column integer primary key is rendered as an identity column
// (GENERATED BY DEFAULT AS IDENTITY) so reset-sequences has a real sequence
// to find via pg_get_serial_sequence — SQLite's INTEGER PRIMARY KEY is a
// rowid alias, the closest thing that source format has to an
// auto-increment column.
func generateCreateTable(t Table) string {
	soloPK := ""
	if t.PrimaryKey != nil && len(t.PrimaryKey.Columns) == 1 {
		soloPK = t.PrimaryKey.Columns[0]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE %s (\n", pgIdent(t.PGName))

	for i, col := range t.Columns {
		var colDef string
		if col.PGName == soloPK && col.SourceType == "integer" {
			colDef = fmt.Sprintf("%s bigint GENERATED BY DEFAULT AS IDENTITY", pgIdent(col.PGName))
		} else {
			mappings := dbfTypeMappings
			if isSQLiteAffinity(col.SourceType) {
				mappings = sqliteTypeMappings
			}
			colDef, _ = MapColumn(col, mappings)
		}

		fmt.Fprintf(&b, "  %s", colDef)
		if !col.Nullable {
			b.WriteString(" NOT NULL")
		}
		if i < len(t.Columns)-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}

	if t.PrimaryKey != nil && len(t.PrimaryKey.Columns) > 1 {
		cols := quotedColumnList(t.PrimaryKey.Columns)
		fmt.Fprintf(&b, ",\n  PRIMARY KEY (%s)\n", cols)
	}

	b.WriteString(")")
	return b.String()
}

func isSQLiteAffinity(sourceType string) bool {
	switch sourceType {
	case "integer", "real", "text", "blob", "numeric":
		return true
	default:
		return false
	}
}

// quotedColumnList joins column names with identifier quoting.
func quotedColumnList(cols []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = pgIdent(c)
	}
	return strings.Join(quoted, ", ")
}
