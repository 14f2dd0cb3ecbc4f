package models

import (
	"encoding/json"
	"strings"
)

// FlexString accepts either a JSON string or a JSON number, so a client may
// send birth_year as 1948 or "1948".
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*f = ""
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) String() string {
	return string(f)
}

// PatientProfile is the biography submitted for one playlist request.
// Nothing is persisted; it lives only for the duration of the request.
type PatientProfile struct {
	BirthYear     FlexString `json:"birth_year,omitempty"`
	Hometown      string     `json:"hometown,omitempty"`
	Language      string     `json:"language,omitempty"`
	Culture       string     `json:"culture,omitempty"`
	LifePeriod    string     `json:"life_period,omitempty"`
	ResonantSongs string     `json:"resonant_songs,omitempty"`
}

// HasIdentity reports whether at least one of the identity fields needed to
// anchor tag inference is present.
func (p PatientProfile) HasIdentity() bool {
	return strings.TrimSpace(p.BirthYear.String()) != "" ||
		strings.TrimSpace(p.Hometown) != "" ||
		strings.TrimSpace(p.Language) != ""
}

// TagSet holds the music-taste descriptors inferred from a patient profile.
// It is produced once per request and never mutated afterwards.
type TagSet struct {
	EraTags      []string `json:"eraTags"`      // exactly 2 decade labels, e.g. "1960s"
	CulturalTags []string `json:"culturalTags"` // exactly 8 genre labels
	Artists      []string `json:"artists"`      // exactly 20 artist names
	CountryISO   string   `json:"countryISO"`
}

// Track is a normalized playlist entry. Source records which lookup the
// track came from ("genre:<tag>", "artist:<name>" or "era:<decade>").
type Track struct {
	Name   string `json:"name"`
	Artist string `json:"artist"`
	URL    string `json:"url,omitempty"`
	Image  string `json:"image,omitempty"`
	Source string `json:"source"`
}
