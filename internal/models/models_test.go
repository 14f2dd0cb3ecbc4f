package models

import (
	"encoding/json"
	"testing"
)

func TestFlexString_Unmarshal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"number", `{"birth_year": 1948}`, "1948"},
		{"string", `{"birth_year": "1948"}`, "1948"},
		{"free text", `{"birth_year": "around 1950"}`, "around 1950"},
		{"null", `{"birth_year": null}`, ""},
		{"absent", `{}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p PatientProfile
			if err := json.Unmarshal([]byte(tt.in), &p); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.BirthYear.String() != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, p.BirthYear.String())
			}
		})
	}
}

func TestPatientProfile_HasIdentity(t *testing.T) {
	tests := []struct {
		name    string
		profile PatientProfile
		want    bool
	}{
		{"birth year only", PatientProfile{BirthYear: "1948"}, true},
		{"hometown only", PatientProfile{Hometown: "Lagos"}, true},
		{"language only", PatientProfile{Language: "Yoruba"}, true},
		{"empty", PatientProfile{}, false},
		{"whitespace only", PatientProfile{Hometown: "  "}, false},
		{"non-identity fields only", PatientProfile{Culture: "Yoruba", ResonantSongs: "Sweet Mother"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.profile.HasIdentity(); got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}
