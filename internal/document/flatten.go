package document

import (
	"encoding/json"
	"fmt"

	"ordinance-map/internal/models"
)

// Row is one street of a document in flat form, as stored by the Postgres source.
// Meta and Record keep the producer's JSON untouched.
type Row struct {
	Position    int
	OrdinanceID string
	Meta        json.RawMessage
	Zone        string
	Street      string
	Record      json.RawMessage
}

// Loss counts the parts of a document that have no row in flat form. A table of streets
// cannot hold a zone or an ordinance without streets, so those are lost on import.
type Loss struct {
	// EmptyOrdinances are ordinances that produced no row, malformed ones included.
	EmptyOrdinances int
	// EmptyZones are zones that produced no row, malformed ones included.
	EmptyZones int
	// Skipped counts malformed ordinance bodies, zones maps and zone values.
	Skipped int
}

// Any reports whether something was lost.
func (l Loss) Any() bool {
	return l.EmptyOrdinances > 0 || l.EmptyZones > 0 || l.Skipped > 0
}

// Flatten turns a document into rows in display order. What cannot be represented as a
// row is reported in the returned Loss.
func Flatten(data []byte) ([]Row, Loss, error) {
	var loss Loss
	ordinances, ok := objectMembers(data)
	if !ok {
		return nil, loss, ErrNotObject
	}

	var rows []Row
	for _, o := range ordinances {
		before := len(rows)
		fields, ok := objectMembers(o.Value)
		if !ok {
			loss.Skipped++
			loss.EmptyOrdinances++
			continue
		}
		meta := ordinanceHeader(fields)
		for _, f := range fields {
			if f.Key != "zones" {
				continue
			}
			zones, ok := objectMembers(f.Value)
			if !ok {
				loss.Skipped++
				break
			}
			for _, z := range zones {
				streets, ok := objectMembers(z.Value)
				if !ok {
					loss.Skipped++
				}
				if len(streets) == 0 {
					loss.EmptyZones++
					continue
				}
				for _, s := range streets {
					rows = append(rows, Row{
						Position:    len(rows),
						OrdinanceID: o.Key,
						Meta:        meta,
						Zone:        z.Key,
						Street:      s.Key,
						Record:      s.Value,
					})
				}
			}
		}
		if len(rows) == before {
			loss.EmptyOrdinances++
		}
	}
	return rows, loss, nil
}

// ordinanceHeader collects the ordinance header into a single JSON object, whether the
// producer nested it under "metadata" or wrote it inline.
func ordinanceHeader(fields []member) json.RawMessage {
	var meta models.OrdinanceMeta
	for _, f := range fields {
		switch f.Key {
		case "metadata":
			meta = mergeMeta(meta, DecodeMeta(f.Value))
		case "protocol", "date", "title":
			meta = mergeMeta(meta, DecodeMeta(json.RawMessage(fmt.Sprintf("{%q:%s}", f.Key, f.Value))))
		}
	}
	b, _ := json.Marshal(meta)
	return b
}

// Assemble rebuilds a document from rows sorted by position. Undecodable records are
// counted in Document.Skipped.
func Assemble(rows []Row) *models.Document {
	doc := &models.Document{}
	ordIdx := make(map[string]int)
	zoneIdx := make(map[models.ZoneKey]int)

	for _, r := range rows {
		oi, ok := ordIdx[r.OrdinanceID]
		if !ok {
			oi = len(doc.Ordinances)
			ordIdx[r.OrdinanceID] = oi
			doc.Ordinances = append(doc.Ordinances, models.Ordinance{
				ID:   r.OrdinanceID,
				Meta: DecodeMeta(r.Meta),
			})
		}
		ord := &doc.Ordinances[oi]

		key := models.ZoneKey{OrdinanceID: r.OrdinanceID, Zone: r.Zone}
		zi, ok := zoneIdx[key]
		if !ok {
			zi = len(ord.Zones)
			zoneIdx[key] = zi
			ord.Zones = append(ord.Zones, models.Zone{Name: r.Zone})
		}

		rec, err := DecodeRecord(r.Record)
		if err != nil {
			doc.Skipped++
		}
		ord.Zones[zi].Streets = append(ord.Zones[zi].Streets, models.Street{Name: r.Street, Record: rec})
	}
	return doc
}
