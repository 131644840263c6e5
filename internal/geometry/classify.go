package geometry

import (
	"math"

	"ordinance-map/internal/models"
)

// IsValidCoordinate reports whether a lat/lon pair can be placed on the map. The pair
// (0, 0) is how the producer writes a missing position, so it is rejected.
func IsValidCoordinate(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) || math.IsInf(lat, 0) || math.IsInf(lon, 0) {
		return false
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return false
	}
	return lat != 0 || lon != 0
}

// Candidate is a coordinate entry accepted by the classifier, before it becomes an annotation.
type Candidate struct {
	Entry models.CoordinateEntry
	Kind  models.Kind
}

// Result is the outcome of classifying one street record.
type Result struct {
	Kind       models.Kind
	Candidates []Candidate
	// Dropped counts accepted entries that failed validation.
	Dropped int
	// Fallback is set when an intersection record carried no computed intersection
	// entry and every point was emitted instead.
	Fallback bool
}

// Classify selects the points to render for a record. metadata.type alone decides the
// branch; coordinate values are only checked for validity. A nil record yields nothing.
func Classify(rec *models.StreetRecord) Result {
	if rec == nil {
		return Result{Kind: models.KindGeneric}
	}

	switch rec.Metadata.Type {
	case models.TypeCivic:
		res := Result{Kind: models.KindCivic}
		if !rec.Metadata.HasCivicCoordinates {
			return res
		}
		for _, e := range rec.Coordinates {
			if e.Format == models.FormatBare || e.Type == models.EntryCivic {
				res.add(e)
			}
		}
		return res

	case models.TypeIntersection:
		res := Result{Kind: models.KindIntersection}
		for _, e := range rec.Coordinates {
			if e.Format == models.FormatObject && e.Type == models.EntryIntersection {
				res.add(e)
				return res
			}
		}
		// No computed intersection: show every point the producer sent.
		res.Fallback = true
		for _, e := range rec.Coordinates {
			res.add(e)
		}
		return res

	case models.TypeTract:
		res := Result{Kind: models.KindTract}
		for _, e := range rec.Coordinates {
			if e.Format == models.FormatBare || e.Type == models.EntryTract {
				res.add(e)
			}
		}
		return res

	default:
		res := Result{Kind: models.KindGeneric}
		for _, e := range rec.Coordinates {
			res.add(e)
		}
		return res
	}
}

func (r *Result) add(e models.CoordinateEntry) {
	if !e.Valid || !IsValidCoordinate(e.Lat, e.Lon) {
		r.Dropped++
		return
	}
	r.Candidates = append(r.Candidates, Candidate{Entry: e, Kind: r.Kind})
}
