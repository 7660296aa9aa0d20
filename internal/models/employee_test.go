package models

import "testing"

func strptr(s string) *string { return &s }

func TestProfileCompleteness(t *testing.T) {
	tests := []struct {
		name      string
		photo     *string
		email     *string
		telephone *string
		poste     *string
		score     int
		level     string
	}{
		{"all empty", nil, nil, nil, nil, 0, CompletenessIncomplete},
		{"one field", strptr("https://cdn/x.jpg"), nil, nil, nil, 25, CompletenessIncomplete},
		{"two fields", strptr("https://cdn/x.jpg"), strptr("a@b.fr"), nil, nil, 50, CompletenessGood},
		{"three fields", strptr("https://cdn/x.jpg"), strptr("a@b.fr"), strptr("0601020304"), nil, 75, CompletenessVeryGood},
		{"all fields", strptr("https://cdn/x.jpg"), strptr("a@b.fr"), strptr("0601020304"), strptr("Dev"), 100, CompletenessComplete},
		// Whitespace-only counts as absent.
		{"blank strings", strptr("  "), strptr(""), strptr("\t"), strptr("Dev"), 25, CompletenessIncomplete},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := Employee{
				Matricule: "EMP001",
				Nom:       "Khan",
				Prenom:    "Sarah",
				PhotoURL:  tt.photo,
				Email:     tt.email,
				Telephone: tt.telephone,
				Poste:     tt.poste,
			}
			c := e.ProfileCompleteness()
			if c.Score != tt.score {
				t.Errorf("score = %d, want %d", c.Score, tt.score)
			}
			if c.Level != tt.level {
				t.Errorf("level = %q, want %q", c.Level, tt.level)
			}
		})
	}
}

func TestFullName(t *testing.T) {
	e := Employee{Nom: "Khan", Prenom: "Sarah"}
	if got := e.FullName(); got != "Sarah Khan" {
		t.Errorf("FullName() = %q, want %q", got, "Sarah Khan")
	}

	empty := Employee{}
	if got := empty.FullName(); got != "" {
		t.Errorf("FullName() on empty employee = %q, want empty", got)
	}
}
