package models

import (
	"fmt"
	"math"
	"strings"
)

// Entry statuses as stored in the entries table.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Entry types submitted through the public form.
const (
	TypeArtist   = "artist"
	TypeSpace    = "space"
	TypeArtifact = "artifact"
)

// Entry represents a single crowdsourced submission: an artist, a cultural
// space, or an artifact, together with its location fields and optional
// geocoded coordinates. Lat/Lon are nil until an enrichment pass resolves them.
type Entry struct {
	ID           int64    `json:"id"`
	Type         string   `json:"type"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Country      string   `json:"country"`
	City         string   `json:"city"`
	Zipcode      string   `json:"zipcode"`
	Address      string   `json:"address,omitempty"`
	Community    string   `json:"community,omitempty"`
	Link         string   `json:"link,omitempty"`
	PhotoURL     string   `json:"photo_url,omitempty"`
	Status       string   `json:"status"`
	Lat          *float64 `json:"lat"`
	Lon          *float64 `json:"lon"`
	ConsentStore bool     `json:"consent_store"`
	ConsentShare bool     `json:"consent_share"`
}

// CoordinateUpdate is a resolved coordinate pair destined for the store.
type CoordinateUpdate struct {
	ID  int64
	Lat float64
	Lon float64
}

// ValidType reports whether t is one of the accepted entry types.
func ValidType(t string) bool {
	return t == TypeArtist || t == TypeSpace || t == TypeArtifact
}

// HasCoordinates reports whether the entry is render-eligible: both
// coordinates present and finite.
func (e Entry) HasCoordinates() bool {
	return isFinite(e.Lat) && isFinite(e.Lon)
}

func isFinite(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0)
}

// LocationKey derives the normalized geocoding key for the entry: the
// non-empty location fields joined by single spaces, lower-cased. Two entries
// with the same key are assumed to share coordinates. An empty key means the
// entry cannot be geocoded.
func (e Entry) LocationKey() string {
	parts := make([]string, 0, 4)
	for _, f := range []string{e.Address, e.City, e.Zipcode, e.Country} {
		if t := strings.TrimSpace(f); t != "" {
			parts = append(parts, t)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.ToLower(strings.Join(strings.Fields(strings.Join(parts, " ")), " "))
}

// MarkerView is the shape a map pin exposes in the popup.
type MarkerView struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Community   string  `json:"community,omitempty"`
	Location    string  `json:"location"`
	PhotoURL    string  `json:"photo_url,omitempty"`
	DetailURL   string  `json:"detail_url"`
	Link        string  `json:"link,omitempty"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
}

// descriptionPreviewLimit bounds the popup description length, in runes.
const descriptionPreviewLimit = 100

// Marker builds the popup view for a render-eligible entry. Callers must
// check HasCoordinates first.
func (e Entry) Marker() MarkerView {
	desc := e.Description
	if runes := []rune(desc); len(runes) > descriptionPreviewLimit {
		desc = string(runes[:descriptionPreviewLimit]) + "…"
	}

	loc := e.Country
	if e.City != "" {
		loc = e.City + ", " + e.Country
	}
	if e.Zipcode != "" {
		loc = strings.TrimSpace(loc + " " + e.Zipcode)
	}

	return MarkerView{
		ID:          e.ID,
		Title:       e.Title,
		Description: desc,
		Community:   e.Community,
		Location:    loc,
		PhotoURL:    e.PhotoURL,
		DetailURL:   fmt.Sprintf("/entry/%d", e.ID),
		Link:        e.Link,
		Lat:         *e.Lat,
		Lon:         *e.Lon,
	}
}

// FilterEntries applies the map filters: the type filter first, then a
// case-insensitive keyword search over the entry's searchable fields.
func FilterEntries(entries []Entry, typeFilter, search string) []Entry {
	s := strings.ToLower(strings.TrimSpace(search))
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if typeFilter != "" && e.Type != typeFilter {
			continue
		}
		if s != "" && !strings.Contains(searchText(e), s) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func searchText(e Entry) string {
	fields := []string{e.Title, e.Description, e.Community, e.City, e.Country, e.Zipcode, e.Type}
	nonEmpty := fields[:0]
	for _, f := range fields {
		if f != "" {
			nonEmpty = append(nonEmpty, f)
		}
	}
	return strings.ToLower(strings.Join(nonEmpty, " "))
}
