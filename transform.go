package main

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// identityTransform passes a value through unchanged. The identity sentinel
// transform selected for unmapped source type tags (spec.md §3).
func identityTransform(val any) (any, error) {
	return val, nil
}

// dbfTrimTransform right-trims DBF character-field padding. Idempotent:
// trimming an already-trimmed string is a no-op.
func dbfTrimTransform(val any) (any, error) {
	s, ok := val.(string)
	if !ok {
		return val, nil
	}
	return strings.TrimRight(s, " "), nil
}

// dbfNumericTransform re-emits a DBF numeric field's fixed-width ASCII
// digits as exact decimal text via shopspring/decimal, avoiding the
// float64 rounding a strconv.ParseFloat round-trip would introduce.
func dbfNumericTransform(val any) (any, error) {
	s, ok := val.(string)
	if !ok {
		return val, nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid DBF numeric value %q: %w", s, err)
	}
	return d.String(), nil
}

// dbfBooleanTransform coerces DBF logical field tokens: "?" (unset) to
// null, Y/y/T/t to true, N/n/F/f to false.
func dbfBooleanTransform(val any) (any, error) {
	s, ok := val.(string)
	if !ok {
		return val, nil
	}
	switch s {
	case "?", "", " ":
		return nil, nil
	case "Y", "y", "T", "t":
		return true, nil
	case "N", "n", "F", "f":
		return false, nil
	default:
		return nil, fmt.Errorf("invalid DBF logical value %q", s)
	}
}

// dbfDateTransform converts a DBF "D" field's raw "YYYYMMDD" digits into
// PostgreSQL's "YYYY-MM-DD"; an empty/zero date becomes null.
func dbfDateTransform(val any) (any, error) {
	s, ok := val.(string)
	if !ok {
		return val, nil
	}
	s = strings.TrimSpace(s)
	if s == "" || s == "00000000" {
		return nil, nil
	}
	t, err := time.Parse("20060102", s)
	if err != nil {
		return nil, fmt.Errorf("invalid DBF date value %q: %w", s, err)
	}
	return t.Format("2006-01-02"), nil
}

// sqliteBlobTransform decodes a base64-encoded string into bytes when the
// driver handed back a text value for a column flagged as binary;
// pass-through for values already delivered as []byte.
func sqliteBlobTransform(val any) (any, error) {
	switch v := val.(type) {
	case []byte:
		return v, nil
	case string:
		b, err := base64.StdEncoding.DecodeString(v)
		if err != nil {
			return nil, fmt.Errorf("invalid base64 blob value: %w", err)
		}
		return b, nil
	default:
		return val, nil
	}
}
