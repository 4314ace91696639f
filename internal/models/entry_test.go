package models

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func f64(v float64) *float64 { return &v }

func TestEntry_LocationKey(t *testing.T) {
	tests := []struct {
		name     string
		entry    Entry
		expected string
	}{
		{
			name:     "city zip country",
			entry:    Entry{City: "Berlin", Zipcode: "10115", Country: "Germany"},
			expected: "berlin 10115 germany",
		},
		{
			name:     "address included first",
			entry:    Entry{Address: "Oranienstr. 140", City: "Berlin", Zipcode: "10969", Country: "Germany"},
			expected: "oranienstr. 140 berlin 10969 germany",
		},
		{
			name:     "whitespace collapsed",
			entry:    Entry{City: "  New   York ", Country: "USA"},
			expected: "new york usa",
		},
		{
			name:     "no usable fields",
			entry:    Entry{Title: "somewhere", Description: "lost"},
			expected: "",
		},
		{
			name:     "blank fields skipped",
			entry:    Entry{Address: "   ", City: "", Zipcode: "75001", Country: "France"},
			expected: "75001 france",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.entry.LocationKey())
		})
	}
}

func TestEntry_HasCoordinates(t *testing.T) {
	assert.False(t, Entry{}.HasCoordinates())
	assert.False(t, Entry{Lat: f64(52.52)}.HasCoordinates())
	assert.False(t, Entry{Lat: f64(math.NaN()), Lon: f64(13.4)}.HasCoordinates())
	assert.False(t, Entry{Lat: f64(52.52), Lon: f64(math.Inf(1))}.HasCoordinates())
	assert.True(t, Entry{Lat: f64(52.52), Lon: f64(13.405)}.HasCoordinates())
	assert.True(t, Entry{Lat: f64(0), Lon: f64(0)}.HasCoordinates())
}

func TestFilterEntries_Composition(t *testing.T) {
	entries := []Entry{
		{ID: 1, Type: TypeArtist, Title: "Gallery painter"},
		{ID: 2, Type: TypeArtist, Title: "Street musician"},
		{ID: 3, Type: TypeSpace, Title: "Open GALLERY Kreuzberg"},
		{ID: 4, Type: TypeSpace, Title: "Warehouse venue"},
		{ID: 5, Type: TypeArtifact, Description: "mural outside a gallery"},
	}

	got := FilterEntries(entries, TypeArtist, "gallery")
	if assert.Len(t, got, 1) {
		assert.Equal(t, int64(1), got[0].ID)
	}

	// Type filter alone.
	assert.Len(t, FilterEntries(entries, TypeSpace, ""), 2)

	// Keyword alone is case-insensitive and matches across fields.
	assert.Len(t, FilterEntries(entries, "", "GaLLeRy"), 3)

	// No filters returns everything.
	assert.Len(t, FilterEntries(entries, "", ""), 5)
}

func TestFilterEntries_SearchesLocationFields(t *testing.T) {
	entries := []Entry{
		{ID: 1, Type: TypeArtist, City: "Berlin", Zipcode: "10115"},
		{ID: 2, Type: TypeArtist, Community: "techno"},
	}

	assert.Len(t, FilterEntries(entries, "", "10115"), 1)
	assert.Len(t, FilterEntries(entries, "", "techno"), 1)
	// The type name itself is searchable.
	assert.Len(t, FilterEntries(entries, "", "artist"), 2)
}

func TestEntry_Marker(t *testing.T) {
	long := strings.Repeat("x", 150)
	e := Entry{
		ID:          7,
		Title:       "Kunsthaus",
		Description: long,
		Community:   "punk",
		City:        "Hamburg",
		Country:     "Germany",
		Zipcode:     "20095",
		PhotoURL:    "https://img.example/7.jpg",
		Link:        "https://kunsthaus.example",
		Lat:         f64(53.55),
		Lon:         f64(9.99),
	}

	m := e.Marker()
	assert.Equal(t, "Kunsthaus", m.Title)
	assert.Equal(t, strings.Repeat("x", 100)+"…", m.Description)
	assert.Equal(t, "Hamburg, Germany 20095", m.Location)
	assert.Equal(t, "/entry/7", m.DetailURL)
	assert.Equal(t, 53.55, m.Lat)
	assert.Equal(t, 9.99, m.Lon)
}

func TestEntry_Marker_ShortDescriptionUntouched(t *testing.T) {
	e := Entry{ID: 1, Description: "short", Country: "France", Lat: f64(48.85), Lon: f64(2.35)}
	assert.Equal(t, "short", e.Marker().Description)
	assert.Equal(t, "France", e.Marker().Location)
}

func TestValidType(t *testing.T) {
	assert.True(t, ValidType(TypeArtist))
	assert.True(t, ValidType(TypeSpace))
	assert.True(t, ValidType(TypeArtifact))
	assert.False(t, ValidType(""))
	assert.False(t, ValidType("museum"))
}
