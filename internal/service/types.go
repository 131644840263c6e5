package service

import (
	"errors"
	"time"
)

var (
	// ErrNotLoaded is returned while no document is available, either before the first
	// load or after a failed one.
	ErrNotLoaded = errors.New("document not loaded")
	// ErrNotFound is returned for unknown ordinance, zone or street keys.
	ErrNotFound = errors.New("not found")
	// ErrNoGeometry is returned when a street has no annotation to zoom to.
	ErrNoGeometry = errors.New("no geometry available")
	// ErrInvalidScope is returned for malformed visibility requests.
	ErrInvalidScope = errors.New("invalid visibility scope")
)

// Visibility scopes.
const (
	ScopeAll       = "all"
	ScopeOrdinance = "ordinance"
	ScopeZone      = "zone"
	ScopeStreet    = "street"
)

// Status reports whether the document is loaded.
type Status struct {
	Loaded      bool       `json:"loaded"`
	Source      string     `json:"source"`
	Error       string     `json:"error,omitempty"`
	LoadedAt    *time.Time `json:"loaded_at,omitempty"`
	Annotations int        `json:"annotations"`
	Rendered    int        `json:"rendered"`
}

// VisibilityRequest asks to toggle a scope, or to set it when Visible is given.
type VisibilityRequest struct {
	Scope     string `json:"scope" binding:"required"`
	Ordinance string `json:"ordinance"`
	Zone      string `json:"zone"`
	Street    string `json:"street"`
	Visible   *bool  `json:"visible"`
}

// VisibilityResult is the render set size after a visibility change. Visible is the
// state the scope was set or toggled to.
type VisibilityResult struct {
	Rendered int  `json:"rendered"`
	Changed  int  `json:"changed"`
	Visible  bool `json:"visible"`
}

// StreetNode is a street of the navigation tree.
type StreetNode struct {
	Name        string `json:"name"`
	Type        string `json:"type,omitempty"`
	DisplayInfo string `json:"display_info,omitempty"`
	Annotations int    `json:"annotations"`
	Visible     bool   `json:"visible"`
}

// ZoneNode is a zone of the navigation tree.
type ZoneNode struct {
	Name        string       `json:"name"`
	Annotations int          `json:"annotations"`
	Rendered    int          `json:"rendered"`
	Streets     []StreetNode `json:"streets"`
}

// OrdinanceNode is the top level of the navigation tree.
type OrdinanceNode struct {
	ID          string     `json:"id"`
	Protocol    string     `json:"protocol"`
	Date        string     `json:"date,omitempty"`
	Title       string     `json:"title,omitempty"`
	Annotations int        `json:"annotations"`
	Rendered    int        `json:"rendered"`
	Zones       []ZoneNode `json:"zones"`
}
