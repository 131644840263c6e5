package models

import "errors"

// ErrDataFetch marks a failure to obtain the input document. It is the only
// condition that prevents the viewer from starting with data.
var ErrDataFetch = errors.New("data fetch failure")

// Declared record types, as written by the upstream producer in metadata.type.
const (
	TypeIntersection = "incrocio"
	TypeCivic        = "civico"
	TypeTract        = "tratto"
	// TypeSimple is a whole street. Records without a type are treated the same.
	TypeSimple       = "simple"
)

// Inner types carried by object-format coordinate entries.
const (
	EntryIntersection = "intersection"
	EntryCivic        = "civic"
	EntryTract        = "tract"
)

// Document is the decoded input: ordinances in display order.
type Document struct {
	Ordinances []Ordinance `json:"ordinances"`

	// Skipped counts sub-trees that could not be decoded and were replaced by empty values.
	Skipped int `json:"-"`
}

// OrdinanceMeta is the descriptive header of an ordinance, when the producer emitted one.
type OrdinanceMeta struct {
	Protocol string `json:"protocol,omitempty"`
	Date     string `json:"date,omitempty"`
	Title    string `json:"title,omitempty"`
}

// Ordinance groups zones under a legal order.
type Ordinance struct {
	ID    string        `json:"id"`
	Meta  OrdinanceMeta `json:"metadata"`
	Zones []Zone        `json:"zones"`
}

// Zone is a named sub-area of one ordinance.
type Zone struct {
	Name    string   `json:"name"`
	Streets []Street `json:"streets"`
}

// Street pairs a street name with its record. Record is nil when the producer wrote null
// or the record could not be decoded.
type Street struct {
	Name   string        `json:"name"`
	Record *StreetRecord `json:"record"`
}

// Metadata mirrors the per-record metadata object.
type Metadata struct {
	Type                      string `json:"type,omitempty"`
	HasCalculatedIntersection bool   `json:"has_calculated_intersection"`
	HasCivicCoordinates       bool   `json:"has_civic_coordinates"`
	HasCalculatedTract        bool   `json:"has_calculated_tract"`
	DisplayInfo               string `json:"display_info,omitempty"`
	Note                      string `json:"note,omitempty"`
	CivicCount                *int   `json:"civic_count,omitempty"`
	TractCount                *int   `json:"tract_count,omitempty"`
	OriginalPrimaryCount      *int   `json:"original_primary_count,omitempty"`
}

// StreetRecord holds the coordinate entries of a street and its metadata.
type StreetRecord struct {
	Coordinates []CoordinateEntry `json:"coordinates"`
	Metadata    Metadata          `json:"metadata"`
}
