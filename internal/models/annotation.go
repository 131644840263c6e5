package models

import "github.com/paulmach/orb"

// Kind is the classification of a rendered point.
type Kind string

const (
	KindIntersection Kind = "intersection"
	KindCivic        Kind = "civic"
	KindTract        Kind = "tract"
	KindGeneric      Kind = "generic"
)

// Annotation is a point marker derived from a street record. It is rebuilt on every load.
type Annotation struct {
	ID          int       `json:"id"`
	Position    orb.Point `json:"position"`
	Kind        Kind      `json:"kind"`
	OrdinanceID string    `json:"ordinance_id"`
	Zone        string    `json:"zone"`
	Street      string    `json:"street"`
	Label       string    `json:"label"`
	Color       string    `json:"color"`
}

// Lat returns the annotation latitude.
func (a Annotation) Lat() float64 { return a.Position.Lat() }

// Lon returns the annotation longitude.
func (a Annotation) Lon() float64 { return a.Position.Lon() }

// ZoneKey identifies a zone inside an ordinance.
type ZoneKey struct {
	OrdinanceID string `json:"ordinance"`
	Zone        string `json:"zone"`
}

// StreetKey identifies a street inside a zone.
type StreetKey struct {
	OrdinanceID string `json:"ordinance"`
	Zone        string `json:"zone"`
	Street      string `json:"street"`
}

// ZoneKey returns the key of the zone owning the street.
func (k StreetKey) ZoneKey() ZoneKey {
	return ZoneKey{OrdinanceID: k.OrdinanceID, Zone: k.Zone}
}
