package main

import "testing"

func TestPgLiteral(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"widgets_id_seq", "'widgets_id_seq'"},
		{"public.widgets_id_seq", "'public.widgets_id_seq'"},
		{"o'brien", "'o''brien'"},
	}
	for _, tt := range tests {
		if got := pgLiteral(tt.in); got != tt.want {
			t.Errorf("pgLiteral(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
