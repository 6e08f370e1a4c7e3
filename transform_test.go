package main

import "testing"

func TestDbfTrimTransform(t *testing.T) {
	got, err := dbfTrimTransform("Alice     ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Alice" {
		t.Fatalf("got %q, want %q", got, "Alice")
	}

	// idempotent
	got2, _ := dbfTrimTransform(got)
	if got2 != got {
		t.Fatalf("not idempotent: %q != %q", got2, got)
	}
}

func TestDbfDateTransform(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"20200301", "2020-03-01"},
		{"", nil},
		{"00000000", nil},
	}
	for _, tt := range tests {
		got, err := dbfDateTransform(tt.in)
		if err != nil {
			t.Fatalf("dbfDateTransform(%q) error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("dbfDateTransform(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDbfBooleanTransform(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"?", nil},
		{"Y", true},
		{"N", false},
	}
	for _, tt := range tests {
		got, err := dbfBooleanTransform(tt.in)
		if err != nil {
			t.Fatalf("dbfBooleanTransform(%q) error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("dbfBooleanTransform(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDbfBooleanTransform_Invalid(t *testing.T) {
	if _, err := dbfBooleanTransform("X"); err == nil {
		t.Fatal("expected error for invalid logical token")
	}
}

func TestDbfNumericTransform(t *testing.T) {
	got, err := dbfNumericTransform("  42.50")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "42.5" {
		t.Fatalf("got %v, want 42.5", got)
	}
}

func TestSqliteBlobTransform_RoundTrip(t *testing.T) {
	raw := []byte{0x00, 0x01, 0xFF, 'h', 'i'}
	encoded := "AAH/aGk="
	got, err := sqliteBlobTransform(encoded)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	gotBytes, ok := got.([]byte)
	if !ok {
		t.Fatalf("got %T, want []byte", got)
	}
	if string(gotBytes) != string(raw) {
		t.Fatalf("got %v, want %v", gotBytes, raw)
	}
}

func TestMapColumn(t *testing.T) {
	col := Column{PGName: "age", SourceType: "N", Length: 3}
	def, xform := MapColumn(col, dbfTypeMappings)
	if def != "age numeric(3)" {
		t.Errorf("def = %q, want %q", def, "age numeric(3)")
	}
	if xform == nil {
		t.Fatal("expected non-nil transform")
	}
}

func TestMapColumn_Unmapped(t *testing.T) {
	col := Column{PGName: "mystery", SourceType: "Z"}
	def, xform := MapColumn(col, dbfTypeMappings)
	if def != `mystery text` {
		t.Errorf("def = %q, want %q", def, "mystery text")
	}
	v, _ := xform("x")
	if v != "x" {
		t.Errorf("expected identity transform, got %v", v)
	}
}
