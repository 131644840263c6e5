package index

import (
	"math"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"ordinance-map/internal/models"
)

// Zoom levels suggested to the map front end.
const (
	MinZoom   = 1
	MaxZoom   = 18
	PointZoom = 16
)

// Surface is anything annotations can be drawn on.
type Surface interface {
	Add(a models.Annotation)
	Remove(a models.Annotation)
	Bounds(as []models.Annotation) (orb.Bound, bool)
	FitView(b orb.Bound) View
}

// View is a map viewport: a padded bound, its center and a zoom level.
type View struct {
	South     float64 `json:"south"`
	West      float64 `json:"west"`
	North     float64 `json:"north"`
	East      float64 `json:"east"`
	CenterLat float64 `json:"center_lat"`
	CenterLon float64 `json:"center_lon"`
	Zoom      int     `json:"zoom"`
}

// BoundsOf returns the bound of a set of annotations; false when the set is empty.
func BoundsOf(as []models.Annotation) (orb.Bound, bool) {
	if len(as) == 0 {
		return orb.Bound{}, false
	}
	mp := make(orb.MultiPoint, 0, len(as))
	for _, a := range as {
		mp = append(mp, a.Position)
	}
	return mp.Bound(), true
}

// ViewFor fits a viewport to a bound. A single point gets the close zoom level.
func ViewFor(b orb.Bound, padding float64) View {
	span := math.Max(b.Max.X()-b.Min.X(), b.Max.Y()-b.Min.Y())
	zoom := PointZoom
	if span > 0 {
		zoom = int(math.Floor(math.Log2(360 / span)))
		zoom = max(MinZoom, min(MaxZoom, zoom))
	}

	padded := b.Pad(padding)
	center := b.Center()
	return View{
		South:     padded.Min.Lat(),
		West:      padded.Min.Lon(),
		North:     padded.Max.Lat(),
		East:      padded.Max.Lon(),
		CenterLat: center.Lat(),
		CenterLon: center.Lon(),
		Zoom:      zoom,
	}
}

// Apply moves a surface from prev to next, removing then adding in ID order.
func Apply(s Surface, idx *Index, prev, next RenderSet) {
	for _, id := range prev.IDs() {
		if !next.Contains(id) {
			if a, ok := idx.Annotation(id); ok {
				s.Remove(a)
			}
		}
	}
	for _, id := range next.IDs() {
		if !prev.Contains(id) {
			if a, ok := idx.Annotation(id); ok {
				s.Add(a)
			}
		}
	}
}

// Layer is a GeoJSON surface: it keeps one point feature per rendered annotation.
type Layer struct {
	padding  float64
	features map[int]*geojson.Feature
	points   map[int]models.Annotation
	view     *View
}

// NewLayer returns an empty layer. padding is added around fitted bounds, in degrees.
func NewLayer(padding float64) *Layer {
	return &Layer{
		padding:  padding,
		features: make(map[int]*geojson.Feature),
		points:   make(map[int]models.Annotation),
	}
}

// Add draws an annotation.
func (l *Layer) Add(a models.Annotation) {
	f := geojson.NewFeature(a.Position)
	f.ID = a.ID
	f.Properties["kind"] = string(a.Kind)
	f.Properties["ordinance"] = a.OrdinanceID
	f.Properties["zone"] = a.Zone
	f.Properties["street"] = a.Street
	f.Properties["label"] = a.Label
	f.Properties["color"] = a.Color
	l.features[a.ID] = f
	l.points[a.ID] = a
}

// Remove erases an annotation. Removing an absent annotation is a no-op.
func (l *Layer) Remove(a models.Annotation) {
	delete(l.features, a.ID)
	delete(l.points, a.ID)
}

// Bounds implements Surface.
func (l *Layer) Bounds(as []models.Annotation) (orb.Bound, bool) {
	return BoundsOf(as)
}

// FitView implements Surface and remembers the last fitted view.
func (l *Layer) FitView(b orb.Bound) View {
	v := ViewFor(b, l.padding)
	l.view = &v
	return v
}

// LastView returns the view of the last FitView call.
func (l *Layer) LastView() (View, bool) {
	if l.view == nil {
		return View{}, false
	}
	return *l.view, true
}

// Len returns the number of drawn annotations.
func (l *Layer) Len() int {
	return len(l.features)
}

// Drawn returns the drawn annotations in ID order.
func (l *Layer) Drawn() []models.Annotation {
	ids := make([]int, 0, len(l.points))
	for id := range l.points {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]models.Annotation, 0, len(ids))
	for _, id := range ids {
		out = append(out, l.points[id])
	}
	return out
}

// FeatureCollection returns the drawn features in ID order.
func (l *Layer) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, a := range l.Drawn() {
		fc.Append(l.features[a.ID])
	}
	return fc
}
