package main

import "fmt"

// dbfTypeMappings is the TypeMapping table for DBF source type tags, per
// spec.md §3: C→text/right-trim, N→numeric/identity (exact-decimal re-emit),
// L→boolean/coerce-?-to-null, D→date/YYYY-MM-DD, M→text/identity.
var dbfTypeMappings = map[string]TypeMapping{
	"C": {PGType: "text", Transform: dbfTrimTransform},
	"N": {PGType: "numeric", Transform: dbfNumericTransform},
	"L": {PGType: "boolean", Transform: dbfBooleanTransform},
	"D": {PGType: "date", Transform: dbfDateTransform},
	"M": {PGType: "text", Transform: identityTransform},
}

// sqliteTypeMappings is the TypeMapping table for SQLite column affinities,
// per spec.md §3: integer/real/text/blob/numeric mapped to the closest
// PostgreSQL scalar; blob columns are recognized from base64-encoded driver
// values and decoded to bytes.
var sqliteTypeMappings = map[string]TypeMapping{
	"integer": {PGType: "bigint", Transform: identityTransform},
	"real":    {PGType: "double precision", Transform: identityTransform},
	"text":    {PGType: "text", Transform: identityTransform},
	"blob":    {PGType: "bytea", Transform: sqliteBlobTransform},
	"numeric": {PGType: "numeric", Transform: identityTransform},
}

// MapColumn is the Type & Transform Mapper's single pure, deterministic
// contract (spec.md §4.2): given a Column, return its PostgreSQL column
// definition string and the Transform to apply to each value. Unmapped
// source type tags select the identity transform and a "text" fallback PG
// type, matching the spec's "unmapped tags select identity" rule.
func MapColumn(col Column, mappings map[string]TypeMapping) (string, Transform) {
	m, ok := mappings[col.SourceType]
	if !ok {
		return fmt.Sprintf("%s text", pgIdent(col.PGName)), identityTransform
	}

	pgType := m.PGType
	switch col.SourceType {
	case "N":
		if col.Scale > 0 {
			pgType = fmt.Sprintf("numeric(%d,%d)", col.Length, col.Scale)
		} else if col.Length > 0 {
			pgType = fmt.Sprintf("numeric(%d)", col.Length)
		}
	case "numeric":
		if col.Scale > 0 {
			pgType = fmt.Sprintf("numeric(%d,%d)", col.Length, col.Scale)
		}
	}

	def := fmt.Sprintf("%s %s", pgIdent(col.PGName), pgType)
	return def, m.Transform
}
