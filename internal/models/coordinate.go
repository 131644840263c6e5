package models

import "github.com/paulmach/orb"

// EntryFormat tells how a coordinate entry was written in the input.
type EntryFormat int

const (
	// FormatBare is a plain [lat, lon] pair.
	FormatBare EntryFormat = iota
	// FormatObject is {"coords": [lat, lon], "type": "..."}.
	FormatObject
)

func (f EntryFormat) String() string {
	if f == FormatObject {
		return "object"
	}
	return "bare"
}

// CoordinateEntry is one normalized coordinate entry. Lat and Lon are kept as the producer
// wrote them; the Point method converts to orb order.
// Valid reports whether the entry carried two numeric components; range checks happen
// later, in the classifier.
type CoordinateEntry struct {
	Format EntryFormat
	Type   string
	Lat    float64
	Lon    float64
	Valid  bool
}

// Point returns the entry position as an orb point (X = lon, Y = lat).
func (e CoordinateEntry) Point() orb.Point {
	return orb.Point{e.Lon, e.Lat}
}

// Bare builds a bare-format entry.
func Bare(lat, lon float64) CoordinateEntry {
	return CoordinateEntry{Format: FormatBare, Lat: lat, Lon: lon, Valid: true}
}

// Typed builds an object-format entry with the given inner type.
func Typed(typ string, lat, lon float64) CoordinateEntry {
	return CoordinateEntry{Format: FormatObject, Type: typ, Lat: lat, Lon: lon, Valid: true}
}
