package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"

	"ordinance-map/internal/models"
)

// member is one key/value pair of a JSON object, kept in source order.
type member struct {
	Key   string
	Value json.RawMessage
}

// objectMembers splits a JSON object into its members without losing key order.
// Duplicate keys keep the position of their first occurrence and the last value.
// A truncated object or anything after the closing brace makes the whole value invalid.
func objectMembers(raw json.RawMessage) ([]member, bool) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, false
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, false
	}

	var members []member
	seen := make(map[string]int)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, false
		}
		key, ok := tok.(string)
		if !ok {
			return nil, false
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, false
		}
		if i, dup := seen[key]; dup {
			members[i].Value = value
			continue
		}
		seen[key] = len(members)
		members = append(members, member{Key: key, Value: value})
	}

	if tok, err := dec.Token(); err != nil || tok != json.Delim('}') {
		return nil, false
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, false
	}
	return members, true
}

func isNull(raw json.RawMessage) bool {
	return len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// ErrNotObject is returned when a payload is not one complete JSON object.
var ErrNotObject = errors.New("document: top level is not a complete JSON object")

// Decode parses an ordinance document. Only a payload that is not one complete JSON
// object is an error; every malformed part below the top level degrades to an empty
// value and is counted in Document.Skipped.
func Decode(data []byte) (*models.Document, error) {
	ordinances, ok := objectMembers(data)
	if !ok {
		return nil, ErrNotObject
	}

	doc := &models.Document{Ordinances: make([]models.Ordinance, 0, len(ordinances))}
	for _, o := range ordinances {
		doc.Ordinances = append(doc.Ordinances, decodeOrdinance(doc, o.Key, o.Value))
	}
	return doc, nil
}

func decodeOrdinance(doc *models.Document, id string, raw json.RawMessage) models.Ordinance {
	ord := models.Ordinance{ID: id}

	fields, ok := objectMembers(raw)
	if !ok {
		doc.Skipped++
		return ord
	}

	var zonesRaw json.RawMessage
	for _, f := range fields {
		switch f.Key {
		case "metadata":
			ord.Meta = mergeMeta(ord.Meta, DecodeMeta(f.Value))
		case "protocol":
			_ = json.Unmarshal(f.Value, &ord.Meta.Protocol)
		case "date":
			_ = json.Unmarshal(f.Value, &ord.Meta.Date)
		case "title":
			_ = json.Unmarshal(f.Value, &ord.Meta.Title)
		case "zones":
			zonesRaw = f.Value
		}
	}

	if zonesRaw == nil {
		return ord
	}
	zones, ok := objectMembers(zonesRaw)
	if !ok {
		doc.Skipped++
		return ord
	}
	for _, z := range zones {
		zone := models.Zone{Name: z.Key}
		streets, ok := objectMembers(z.Value)
		if !ok {
			doc.Skipped++
			ord.Zones = append(ord.Zones, zone)
			continue
		}
		for _, s := range streets {
			rec, err := DecodeRecord(s.Value)
			if err != nil {
				doc.Skipped++
			}
			zone.Streets = append(zone.Streets, models.Street{Name: s.Key, Record: rec})
		}
		ord.Zones = append(ord.Zones, zone)
	}
	return ord
}

func mergeMeta(base, over models.OrdinanceMeta) models.OrdinanceMeta {
	if over.Protocol != "" {
		base.Protocol = over.Protocol
	}
	if over.Date != "" {
		base.Date = over.Date
	}
	if over.Title != "" {
		base.Title = over.Title
	}
	return base
}

// DecodeMeta reads an ordinance header. Fields with unexpected types are left empty.
func DecodeMeta(raw json.RawMessage) models.OrdinanceMeta {
	var meta models.OrdinanceMeta
	fields, ok := objectMembers(raw)
	if !ok {
		return meta
	}
	for _, f := range fields {
		switch f.Key {
		case "protocol":
			_ = json.Unmarshal(f.Value, &meta.Protocol)
		case "date":
			_ = json.Unmarshal(f.Value, &meta.Date)
		case "title":
			_ = json.Unmarshal(f.Value, &meta.Title)
		}
	}
	return meta
}

// DecodeRecord reads one street record. A JSON null yields (nil, nil); anything that is
// not an object yields nil and an error the caller may count.
func DecodeRecord(raw json.RawMessage) (*models.StreetRecord, error) {
	if isNull(raw) {
		return nil, nil
	}
	fields, ok := objectMembers(raw)
	if !ok {
		return nil, fmt.Errorf("document: street record is not an object")
	}

	rec := &models.StreetRecord{}
	for _, f := range fields {
		switch f.Key {
		case "coordinates":
			rec.Coordinates = decodeEntries(f.Value)
		case "metadata":
			rec.Metadata = decodeMetadata(f.Value)
		}
	}
	return rec, nil
}

func decodeMetadata(raw json.RawMessage) models.Metadata {
	var md models.Metadata
	fields, ok := objectMembers(raw)
	if !ok {
		return md
	}
	for _, f := range fields {
		switch f.Key {
		case "type":
			_ = json.Unmarshal(f.Value, &md.Type)
		case "has_calculated_intersection":
			_ = json.Unmarshal(f.Value, &md.HasCalculatedIntersection)
		case "has_civic_coordinates":
			_ = json.Unmarshal(f.Value, &md.HasCivicCoordinates)
		case "has_calculated_tract":
			_ = json.Unmarshal(f.Value, &md.HasCalculatedTract)
		case "display_info":
			_ = json.Unmarshal(f.Value, &md.DisplayInfo)
		case "note":
			_ = json.Unmarshal(f.Value, &md.Note)
		case "civic_count":
			md.CivicCount = optionalInt(f.Value)
		case "tract_count":
			md.TractCount = optionalInt(f.Value)
		case "original_primary_count":
			md.OriginalPrimaryCount = optionalInt(f.Value)
		}
	}
	return md
}

func optionalInt(raw json.RawMessage) *int {
	var n int
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil
	}
	return &n
}

// decodeEntries normalizes the coordinates array. A value that is not an array yields no
// entries. Elements that are neither a pair nor an object are skipped; pairs and objects
// with unusable numbers are kept with Valid unset so the classifier can drop them.
func decodeEntries(raw json.RawMessage) []models.CoordinateEntry {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}

	entries := make([]models.CoordinateEntry, 0, len(items))
	for _, item := range items {
		if lat, lon, ok := decodePair(item); ok || isArray(item) {
			entries = append(entries, models.CoordinateEntry{
				Format: models.FormatBare,
				Lat:    lat,
				Lon:    lon,
				Valid:  ok,
			})
			continue
		}

		fields, ok := objectMembers(item)
		if !ok {
			continue
		}
		entry := models.CoordinateEntry{Format: models.FormatObject}
		for _, f := range fields {
			switch f.Key {
			case "coords":
				entry.Lat, entry.Lon, entry.Valid = decodePair(f.Value)
			case "type":
				_ = json.Unmarshal(f.Value, &entry.Type)
			}
		}
		entries = append(entries, entry)
	}
	return entries
}

func isArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}

// decodePair reads a [lat, lon] array of exactly two finite numbers.
func decodePair(raw json.RawMessage) (float64, float64, bool) {
	var pair []*float64
	if err := json.Unmarshal(raw, &pair); err != nil || len(pair) != 2 {
		return 0, 0, false
	}
	if pair[0] == nil || pair[1] == nil {
		return 0, 0, false
	}
	lat, lon := *pair[0], *pair[1]
	if math.IsNaN(lat) || math.IsNaN(lon) || math.IsInf(lat, 0) || math.IsInf(lon, 0) {
		return 0, 0, false
	}
	return lat, lon, true
}
