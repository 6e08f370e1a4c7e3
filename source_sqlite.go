package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// sqliteReader implements SourceReader for a single table inside a SQLite
// database file (spec.md §4.1, SQLite variant). Schema introspection goes
// through the same PRAGMA-based approach the teacher used for its MySQL
// sibling's SQLite fallback, narrowed to the columns/indexes the data model
// actually carries.
type sqliteReader struct {
	rc        *RunContext
	path      string
	table     string
	db        *sql.DB
	cols      []Column
	generated []string // names of STORED/VIRTUAL columns Describe excluded
	emitted   int64
}

func newSQLiteReader(path, table string, rc *RunContext) (*sqliteReader, error) {
	uri, err := sqliteReadOnlyURI(path)
	if err != nil {
		return nil, SourceFormatError(table, err)
	}
	db, err := sql.Open("sqlite", uri)
	if err != nil {
		return nil, SourceFormatError(table, fmt.Errorf("open sqlite %s: %w", path, err))
	}
	db.SetMaxOpenConns(1)
	return &sqliteReader{rc: rc, path: path, table: table, db: db}, nil
}

func (r *sqliteReader) RowsEmitted() int64 { return r.emitted }

// GeneratedColumnWarnings reports STORED/VIRTUAL columns Describe excluded
// from the schema and row stream. Populated only after Describe runs.
func (r *sqliteReader) GeneratedColumnWarnings() []string {
	return collectGeneratedColumnWarnings(r.table, r.generated)
}

func (r *sqliteReader) Describe(ctx context.Context) (Table, error) {
	cols, generated, err := introspectSQLiteColumns(ctx, r.db, r.table)
	if err != nil {
		return Table{}, SourceQueryError(r.table, fmt.Errorf("introspect columns: %w", err))
	}
	if len(cols) == 0 {
		return Table{}, SourceQueryError(r.table, fmt.Errorf("table %q not found or has no columns", r.table))
	}
	r.cols = cols
	r.generated = generated

	indexes, err := introspectSQLiteIndexes(ctx, r.db, r.table)
	if err != nil {
		return Table{}, SourceQueryError(r.table, fmt.Errorf("introspect indexes: %w", err))
	}

	var pk *Index
	var rest []Index
	for _, idx := range indexes {
		if idx.IsPrimary {
			cp := idx
			pk = &cp
		} else {
			rest = append(rest, idx)
		}
	}

	return Table{
		SourceName: r.table,
		PGName:     toSnakeCase(r.table),
		Columns:    cols,
		PrimaryKey: pk,
		Indexes:    rest,
	}, nil
}

// Iter runs a plain SELECT * over the table, preserving the column order
// Describe reported, and streams each row onto rowsCh.
func (r *sqliteReader) Iter(ctx context.Context, rowsCh chan<- Row) error {
	defer close(rowsCh)

	names := make([]string, len(r.cols))
	for i, c := range r.cols {
		names[i] = pgIdent(c.SourceName)
	}
	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(names, ", "), pgIdent(r.table))

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return SourceQueryError(r.table, fmt.Errorf("query: %w", err))
	}
	defer rows.Close()

	dest := make([]any, len(r.cols))
	ptrs := make([]any, len(r.cols))
	for i := range dest {
		ptrs[i] = &dest[i]
	}

	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if err := rows.Scan(ptrs...); err != nil {
			return SourceQueryError(r.table, fmt.Errorf("scan row %d: %w", r.emitted, err))
		}

		row := make(Row, len(r.cols))
		for i, c := range r.cols {
			v := dest[i]
			if c.IsBinary {
				if b, ok := v.(string); ok {
					v = []byte(b)
				}
			}
			row[i] = v
		}

		select {
		case rowsCh <- row:
			r.emitted++
		case <-ctx.Done():
			return nil
		}
	}
	if err := rows.Err(); err != nil {
		return SourceQueryError(r.table, fmt.Errorf("row iteration: %w", err))
	}
	return nil
}

func (r *sqliteReader) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

// --- DSN handling ---

func sqliteReadOnlyURI(dsn string) (string, error) {
	if dsn == ":memory:" || dsn == "file::memory:" || strings.Contains(dsn, "mode=memory") {
		return "", fmt.Errorf("in-memory SQLite databases are not supported")
	}
	if !strings.HasPrefix(dsn, "file:") {
		return "file:" + dsn + "?mode=ro", nil
	}
	u, err := url.Parse(dsn)
	if err != nil {
		return "", fmt.Errorf("parse sqlite URI: %w", err)
	}
	q := u.Query()
	q.Set("mode", "ro")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func sqliteDBNameFromPath(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext)
}

// --- Schema introspection ---

// introspectSQLiteColumns returns the plain columns that join the row
// stream plus the names of any STORED/VIRTUAL generated columns PRAGMA
// table_xinfo reports (hidden 2 or 3) — those are excluded from both the
// return slice and the eventual CREATE TABLE, since their generation
// expression has no general PostgreSQL translation. hidden==1 ("hidden"
// columns, e.g. rowid shadow-table internals) are skipped silently; they
// were never real user columns.
func introspectSQLiteColumns(ctx context.Context, db *sql.DB, table string) ([]Column, []string, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_xinfo(%s)", pgIdent(table)))
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var cols []Column
	var generated []string
	for rows.Next() {
		var cid, notnull, pk, hidden int
		var name, declType string
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &declType, &notnull, &dflt, &pk, &hidden); err != nil {
			return nil, nil, err
		}
		switch hidden {
		case 2, 3:
			generated = append(generated, name)
			continue
		case 1:
			continue
		}

		affinity := normalizeSQLiteAffinity(declType)
		length, scale := sqliteTypeParams(declType)

		cols = append(cols, Column{
			SourceName: name,
			PGName:     toSnakeCase(name),
			SourceType: affinity,
			Length:     length,
			Scale:      scale,
			Nullable:   notnull == 0,
			IsBinary:   affinity == "blob",
			OrdinalPos: cid + 1,
		})
	}
	return cols, generated, rows.Err()
}

func normalizeSQLiteAffinity(declared string) string {
	dt := strings.TrimSpace(declared)
	if dt == "" {
		return "blob" // undeclared type defaults to BLOB affinity
	}
	if idx := strings.IndexByte(dt, '('); idx >= 0 {
		dt = dt[:idx]
	}
	dt = strings.ToLower(strings.TrimSpace(dt))
	switch {
	case strings.Contains(dt, "int"):
		return "integer"
	case strings.Contains(dt, "char"), strings.Contains(dt, "clob"), strings.Contains(dt, "text"):
		return "text"
	case strings.Contains(dt, "blob"), dt == "":
		return "blob"
	case strings.Contains(dt, "real"), strings.Contains(dt, "floa"), strings.Contains(dt, "doub"):
		return "real"
	default:
		return "numeric"
	}
}

func sqliteTypeParams(declared string) (length, scale int64) {
	open := strings.IndexByte(declared, '(')
	close := strings.LastIndexByte(declared, ')')
	if open < 0 || close <= open {
		return 0, 0
	}
	parts := strings.Split(declared[open+1:close], ",")
	if len(parts) >= 1 {
		if n, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64); err == nil {
			length = n
		}
	}
	if len(parts) >= 2 {
		if n, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64); err == nil {
			scale = n
		}
	}
	return length, scale
}

func introspectSQLiteIndexes(ctx context.Context, db *sql.DB, table string) ([]Index, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA index_list(%s)", pgIdent(table)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var indexes []Index
	for rows.Next() {
		var seq int
		var name, origin string
		var unique, partial int
		if err := rows.Scan(&seq, &name, &unique, &origin, &partial); err != nil {
			return nil, err
		}
		if origin == "pk" {
			continue // surfaced separately via table_info below
		}

		idx := Index{
			Name:       toSnakeCase(name),
			SourceName: name,
			Table:      table,
			Unique:     unique == 1,
		}

		colRows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA index_info(%s)", pgIdent(name)))
		if err != nil {
			return nil, err
		}
		for colRows.Next() {
			var seqno, cid int
			var colName sql.NullString
			if err := colRows.Scan(&seqno, &cid, &colName); err != nil {
				colRows.Close()
				return nil, err
			}
			if colName.Valid {
				idx.Columns = append(idx.Columns, toSnakeCase(colName.String))
			}
		}
		colRows.Close()

		if partial == 1 {
			idx.Predicate = "<unmigrated predicate>"
		}

		indexes = append(indexes, idx)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	pk, err := buildSQLitePrimaryKey(ctx, db, table)
	if err != nil {
		return nil, err
	}
	if pk != nil {
		indexes = append(indexes, *pk)
	}
	return indexes, nil
}

func buildSQLitePrimaryKey(ctx context.Context, db *sql.DB, table string) (*Index, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", pgIdent(table)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	type pkCol struct {
		name string
		pos  int
	}
	var pkCols []pkCol
	for rows.Next() {
		var cid, pk int
		var name, colType string
		var notnull int
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &colType, &notnull, &dflt, &pk); err != nil {
			return nil, err
		}
		if pk > 0 {
			pkCols = append(pkCols, pkCol{name: name, pos: pk})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(pkCols) == 0 {
		return nil, nil
	}

	sort.Slice(pkCols, func(i, j int) bool { return pkCols[i].pos < pkCols[j].pos })

	idx := &Index{
		Name:      "primary",
		Table:     table,
		Unique:    true,
		IsPrimary: true,
	}
	for _, pc := range pkCols {
		idx.Columns = append(idx.Columns, toSnakeCase(pc.name))
	}
	return idx, nil
}
