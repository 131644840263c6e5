package index

import (
	"ordinance-map/internal/geometry"
	"ordinance-map/internal/models"
)

// StreetEntry is a street in navigation order with the IDs of its annotations.
type StreetEntry struct {
	Key          models.StreetKey
	DeclaredType string
	DisplayInfo  string
	Annotations  []int
}

// ZoneEntry is a zone in navigation order.
type ZoneEntry struct {
	Key     models.ZoneKey
	Streets []StreetEntry
}

// OrdinanceEntry is an ordinance in navigation order.
type OrdinanceEntry struct {
	ID    string
	Meta  models.OrdinanceMeta
	Zones []ZoneEntry
}

// Index is the visibility index of one loaded document. It is immutable once built.
type Index struct {
	annotations []models.Annotation
	ordinances  []OrdinanceEntry
	byOrdinance map[string][]int
	byZone      map[models.ZoneKey][]int
	byStreet    map[models.StreetKey][]int
}

// Build classifies every street record of the document and indexes the resulting
// annotations. Annotation IDs follow document order, so equal input gives equal output.
func Build(doc *models.Document) (*Index, Stats) {
	idx := &Index{
		byOrdinance: make(map[string][]int),
		byZone:      make(map[models.ZoneKey][]int),
		byStreet:    make(map[models.StreetKey][]int),
	}
	stats := newStats()
	if doc == nil {
		return idx, stats
	}
	stats.Skipped = doc.Skipped
	stats.Ordinances = len(doc.Ordinances)

	for _, ord := range doc.Ordinances {
		protocol := ord.Meta.Protocol
		if protocol == "" {
			protocol = ord.ID
		}
		oe := OrdinanceEntry{ID: ord.ID, Meta: ord.Meta}
		idx.byOrdinance[ord.ID] = []int{}

		for _, zone := range ord.Zones {
			stats.Zones++
			zk := models.ZoneKey{OrdinanceID: ord.ID, Zone: zone.Name}
			ze := ZoneEntry{Key: zk}
			if _, ok := idx.byZone[zk]; !ok {
				idx.byZone[zk] = []int{}
			}

			for _, street := range zone.Streets {
				sk := models.StreetKey{OrdinanceID: ord.ID, Zone: zone.Name, Street: street.Name}
				res := geometry.Classify(street.Record)
				stats.record(street.Record, res)

				se := StreetEntry{Key: sk, Annotations: []int{}}
				var note string
				if street.Record != nil {
					note = street.Record.Metadata.Note
					se.DeclaredType = street.Record.Metadata.Type
					se.DisplayInfo = street.Record.Metadata.DisplayInfo
				}
				label := geometry.Label(geometry.LabelInput{
					Street:       street.Name,
					Zone:         zone.Name,
					Ordinance:    protocol,
					DisplayInfo:  se.DisplayInfo,
					Note:         note,
					DeclaredType: se.DeclaredType,
					Kind:         res.Kind,
					Points:       len(res.Candidates),
				})

				for _, c := range res.Candidates {
					id := len(idx.annotations)
					idx.annotations = append(idx.annotations, models.Annotation{
						ID:          id,
						Position:    c.Entry.Point(),
						Kind:        c.Kind,
						OrdinanceID: ord.ID,
						Zone:        zone.Name,
						Street:      street.Name,
						Label:       label,
						Color:       geometry.Color(se.DeclaredType),
					})
					se.Annotations = append(se.Annotations, id)
				}

				idx.byStreet[sk] = append(idx.byStreet[sk], se.Annotations...)
				idx.byZone[zk] = append(idx.byZone[zk], se.Annotations...)
				idx.byOrdinance[ord.ID] = append(idx.byOrdinance[ord.ID], se.Annotations...)
				ze.Streets = append(ze.Streets, se)
			}
			oe.Zones = append(oe.Zones, ze)
		}
		idx.ordinances = append(idx.ordinances, oe)
	}
	stats.Annotations = len(idx.annotations)
	return idx, stats
}

// Ordinances returns the navigation tree in display order.
func (idx *Index) Ordinances() []OrdinanceEntry {
	return idx.ordinances
}

// Len returns the number of annotations.
func (idx *Index) Len() int {
	return len(idx.annotations)
}

// Annotation returns the annotation with the given ID.
func (idx *Index) Annotation(id int) (models.Annotation, bool) {
	if id < 0 || id >= len(idx.annotations) {
		return models.Annotation{}, false
	}
	return idx.annotations[id], true
}

// Annotations resolves a list of IDs.
func (idx *Index) Annotations(ids []int) []models.Annotation {
	out := make([]models.Annotation, 0, len(ids))
	for _, id := range ids {
		if a, ok := idx.Annotation(id); ok {
			out = append(out, a)
		}
	}
	return out
}

// All returns the IDs of every annotation.
func (idx *Index) All() []int {
	ids := make([]int, len(idx.annotations))
	for i := range ids {
		ids[i] = i
	}
	return ids
}

// Ordinance returns the annotation IDs of an ordinance.
func (idx *Index) Ordinance(id string) ([]int, bool) {
	ids, ok := idx.byOrdinance[id]
	return ids, ok
}

// Zone returns the annotation group of a zone.
func (idx *Index) Zone(key models.ZoneKey) ([]int, bool) {
	ids, ok := idx.byZone[key]
	return ids, ok
}

// Street returns the annotation list of a street.
func (idx *Index) Street(key models.StreetKey) ([]int, bool) {
	ids, ok := idx.byStreet[key]
	return ids, ok
}

// StreetKeys returns every street key in display order.
func (idx *Index) StreetKeys() []models.StreetKey {
	var keys []models.StreetKey
	for _, o := range idx.ordinances {
		for _, z := range o.Zones {
			for _, s := range z.Streets {
				keys = append(keys, s.Key)
			}
		}
	}
	return keys
}
