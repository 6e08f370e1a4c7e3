package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// resetSequences sets every sequence owned by a column of the listed tables
// to MAX(column)+1, or 1 if the table is empty (spec.md §4.5). Rather than
// tracking auto-increment metadata ourselves the way the teacher's
// post.go resetSequences does (it reads a MySQL-sourced `Extra` flag), this
// asks PostgreSQL directly via pg_get_serial_sequence, which resolves both
// `serial` and `GENERATED ... AS IDENTITY` columns generically — exactly
// the identity columns ddl.go's generateCreateTable creates for solo
// integer primary keys. A failure on one table's sequence is recorded and
// does not stop the others (SequenceError is recoverable).
func resetSequences(ctx context.Context, pool *pgxpool.Pool, tables []Table) []error {
	var errs []error
	for _, t := range tables {
		for _, col := range t.Columns {
			seqName, err := findOwnedSequence(ctx, pool, t.PGName, col.PGName)
			if err != nil {
				errs = append(errs, SequenceError(fmt.Sprintf("%s.%s", t.PGName, col.PGName), err))
				continue
			}
			if seqName == "" {
				continue
			}
			if err := setSequenceValue(ctx, pool, seqName, t.PGName, col.PGName); err != nil {
				errs = append(errs, SequenceError(seqName, err))
			}
		}
	}
	return errs
}

func findOwnedSequence(ctx context.Context, pool *pgxpool.Pool, table, column string) (string, error) {
	var seq *string
	err := pool.QueryRow(ctx, "SELECT pg_get_serial_sequence($1, $2)", table, column).Scan(&seq)
	if err != nil {
		return "", fmt.Errorf("resolve owned sequence: %w", err)
	}
	if seq == nil {
		return "", nil
	}
	return *seq, nil
}

// setSequenceValue is idempotent: re-running it against an unchanged table
// recomputes the same MAX(column)+1 and calls setval with the same
// arguments (spec.md testable property 6).
func setSequenceValue(ctx context.Context, pool *pgxpool.Pool, seqName, table, column string) error {
	stmt := fmt.Sprintf(
		"SELECT setval(%s, COALESCE((SELECT MAX(%s) FROM %s), 0) + 1, false)",
		pgLiteral(seqName), pgIdent(column), pgIdent(table),
	)
	if _, err := pool.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("setval: %w", err)
	}
	return nil
}

// pgLiteral quotes a string as a PostgreSQL string literal, doubling any
// embedded single quotes.
func pgLiteral(s string) string {
	escaped := ""
	for _, r := range s {
		if r == '\'' {
			escaped += "''"
		} else {
			escaped += string(r)
		}
	}
	return "'" + escaped + "'"
}
