package main

import "testing"

func TestToSnakeCase(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"parentUserIdentifier", "parent_user_identifier"},
		{"geoRegionId", "geo_region_id"},
		{"chatMessages", "chat_messages"},
		{"updatedAt", "updated_at"},
		{"identifier", "identifier"},
		{"IP", "ip"},                   // acronym stays together
		{"ABCDef", "abc_def"},          // acronym + word
		{"nameASCII", "name_ascii"},    // word + trailing acronym
		{"HTMLParser", "html_parser"},  // leading acronym + word
		{"getHTTPSUrl", "get_https_url"}, // multiple acronyms
		{"getHTTPSURL", "get_httpsurl"},  // adjacent acronyms without lowercase boundary
	}
	for _, tt := range tests {
		got := toSnakeCase(tt.in)
		if got != tt.want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPgIdent(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"user", `"user"`},
		{"order", `"order"`},
		{"table", `"table"`},
		{"users", "users"},
		{"match_id", "match_id"},
		{"chat_id-ended_at", `"chat_id-ended_at"`},
		{"has space", `"has space"`},
		{"Upper", `"Upper"`},
		{"0start", `"0start"`},
	}
	for _, tt := range tests {
		got := pgIdent(tt.in)
		if got != tt.want {
			t.Errorf("pgIdent(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
