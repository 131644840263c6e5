package geometry

import (
	"fmt"
	"strings"

	"ordinance-map/internal/models"
)

// Marker colors per declared record type, matching the palette of the upstream producer.
var typeColors = map[string]string{
	models.TypeSimple:       "green",
	models.TypeCivic:        "blue",
	models.TypeIntersection: "red",
	models.TypeTract:        "orange",
}

// Color returns the marker color of a declared record type. Unrecognized types are gray.
func Color(declaredType string) string {
	if declaredType == "" {
		declaredType = models.TypeSimple
	}
	if c, ok := typeColors[declaredType]; ok {
		return c
	}
	return "gray"
}

// LabelInput carries what a marker description is built from.
type LabelInput struct {
	Street       string
	Zone         string
	Ordinance    string
	DisplayInfo  string
	Note         string
	DeclaredType string
	Kind         models.Kind
	Points       int
}

// Label builds the human readable marker description, e.g.
// "Via Marsala | Centro | Ordinance 6747 | Intersection with Via Milazzo | incrocio (intersection)".
func Label(in LabelInput) string {
	parts := []string{in.Street, in.Zone, "Ordinance " + in.Ordinance}
	if in.DisplayInfo != "" {
		parts = append(parts, in.DisplayInfo)
	}
	if in.Note != "" {
		parts = append(parts, in.Note)
	}

	declared := in.DeclaredType
	if declared == "" {
		declared = models.TypeSimple
	}
	switch in.Kind {
	case models.KindCivic:
		declared += fmt.Sprintf(" (%d civic points)", in.Points)
	case models.KindTract:
		declared += fmt.Sprintf(" (%d tract points)", in.Points)
	case models.KindIntersection:
		declared += " (intersection)"
	}
	parts = append(parts, declared)

	return strings.Join(parts, " | ")
}
