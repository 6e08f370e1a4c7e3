package main

import "testing"

// TestTableSelected_Filter exercises spec.md testable property 7:
// selected = (only? ∩) ∩ (including? ∩) ∖ excluding, over a stub table
// list {a,b,c,d}.
func TestTableSelected_Filter(t *testing.T) {
	universe := []string{"a", "b", "c", "d"}

	cases := []struct {
		name string
		opts LoadOptions
		want []string
	}{
		{
			name: "no filter selects everything",
			opts: LoadOptions{},
			want: []string{"a", "b", "c", "d"},
		},
		{
			name: "only-tables narrows to the named set",
			opts: LoadOptions{OnlyTables: []string{"a", "c"}},
			want: []string{"a", "c"},
		},
		{
			name: "excluding removes from the remaining set",
			opts: LoadOptions{Excluding: []string{"b", "d"}},
			want: []string{"a", "c"},
		},
		{
			name: "including restricts to matching glob patterns",
			opts: LoadOptions{Including: []string{"a*", "c*"}},
			want: []string{"a", "c"},
		},
		{
			name: "only-tables and excluding combine",
			opts: LoadOptions{OnlyTables: []string{"a", "b", "c"}, Excluding: []string{"b"}},
			want: []string{"a", "c"},
		},
		{
			name: "excluding wins over only-tables for an overlapping name",
			opts: LoadOptions{OnlyTables: []string{"a", "b"}, Excluding: []string{"a"}},
			want: []string{"b"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got []string
			for _, name := range universe {
				if tc.opts.tableSelected(name) {
					got = append(got, name)
				}
			}
			if !stringSlicesEqual(got, tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestMatchesAny_InvalidPatternNeverMatches(t *testing.T) {
	if matchesAny([]string{"["}, "a") {
		t.Fatal("malformed glob pattern should not match")
	}
}

func stringSlicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
