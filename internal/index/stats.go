package index

import (
	"ordinance-map/internal/geometry"
	"ordinance-map/internal/models"
)

// TypeStats counts records of one declared type and how many had their calculated flag set.
type TypeStats struct {
	Records    int `json:"records"`
	Calculated int `json:"calculated"`
}

// Stats is the summary shown next to the map. It never drives control flow.
type Stats struct {
	Ordinances             int                  `json:"ordinances"`
	Zones                  int                  `json:"zones"`
	TotalStreets           int                  `json:"total_streets"`
	StreetsWithCoordinates int                  `json:"streets_with_coordinates"`
	NullRecords            int                  `json:"null_records"`
	Annotations            int                  `json:"annotations"`
	DroppedEntries         int                  `json:"dropped_entries"`
	Skipped                int                  `json:"skipped"`
	IntersectionFallbacks  int                  `json:"intersection_fallbacks"`
	ByType                 map[string]TypeStats `json:"by_type"`
}

// Keys of Stats.ByType.
const (
	StatsIntersection = models.TypeIntersection
	StatsCivic        = models.TypeCivic
	StatsTract        = models.TypeTract
	StatsSimple       = models.TypeSimple
)

func newStats() Stats {
	return Stats{ByType: map[string]TypeStats{
		StatsIntersection: {},
		StatsCivic:        {},
		StatsTract:        {},
		StatsSimple:       {},
	}}
}

func (s *Stats) record(rec *models.StreetRecord, res geometry.Result) {
	s.TotalStreets++
	s.DroppedEntries += res.Dropped
	if res.Fallback {
		s.IntersectionFallbacks++
	}
	if len(res.Candidates) > 0 {
		s.StreetsWithCoordinates++
	}
	if rec == nil {
		s.NullRecords++
		return
	}

	md := rec.Metadata
	key, calculated := StatsSimple, false
	switch md.Type {
	case "", models.TypeSimple:
	case models.TypeIntersection:
		key, calculated = StatsIntersection, md.HasCalculatedIntersection
	case models.TypeCivic:
		key, calculated = StatsCivic, md.HasCivicCoordinates
	case models.TypeTract:
		key, calculated = StatsTract, md.HasCalculatedTract
	default:
		// Unrecognized types keep their own key.
		key = md.Type
	}
	ts := s.ByType[key]
	ts.Records++
	if calculated {
		ts.Calculated++
	}
	s.ByType[key] = ts
}
