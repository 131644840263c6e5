package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"ordinance-map/internal/index"
	"ordinance-map/internal/metrics"
	"ordinance-map/internal/models"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog/log"
)

// DocumentSource interface for dependency injection
type DocumentSource interface {
	Fetch(ctx context.Context) (*models.Document, error)
	Name() string
}

// Options tune the viewer.
type Options struct {
	// Padding is added around fitted bounds, in degrees.
	Padding float64
	// SearchLimit caps street search results; 0 means no limit.
	SearchLimit int
	// Home is the view returned when nothing is rendered.
	Home orb.Bound
}

// ViewerService owns the loaded index, the render set and the layer drawing it.
// All state changes go through its methods, one at a time.
type ViewerService struct {
	source DocumentSource
	opts   Options

	mu       sync.Mutex
	idx      *index.Index
	stats    index.Stats
	rendered index.RenderSet
	layer    *index.Layer
	loadErr  error
	loadedAt time.Time
}

// NewViewerService creates a viewer over source. Nothing is fetched until Load.
func NewViewerService(source DocumentSource, opts Options) *ViewerService {
	return &ViewerService{
		source:   source,
		opts:     opts,
		rendered: index.NewRenderSet(),
		layer:    index.NewLayer(opts.Padding),
	}
}

// Load fetches the document once and rebuilds the index, showing every annotation.
// A failed fetch leaves the viewer in the error state; it is not retried. A fetch cut
// short by the caller's context is not a data failure and keeps the current state.
func (s *ViewerService) Load(ctx context.Context) error {
	start := time.Now()
	doc, err := s.source.Fetch(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		metrics.LoadsTotal.WithLabelValues("canceled").Inc()
		log.Warn().Err(err).Str("source", s.source.Name()).Msg("document load canceled, keeping current state")
		return fmt.Errorf("service: document load canceled: %w", err)
	}
	if err != nil {
		metrics.LoadsTotal.WithLabelValues("error").Inc()
		s.idx = nil
		s.stats = index.Stats{}
		s.layer = index.NewLayer(s.opts.Padding)
		s.rendered = index.NewRenderSet()
		s.loadErr = err
		log.Error().Err(err).Str("source", s.source.Name()).Msg("document load failed")
		return fmt.Errorf("service: failed to load document: %w", err)
	}

	idx, stats := index.Build(doc)
	layer := index.NewLayer(s.opts.Padding)
	rendered := idx.ShowAll()
	index.Apply(layer, idx, index.NewRenderSet(), rendered)

	s.idx, s.stats, s.layer, s.rendered = idx, stats, layer, rendered
	s.loadErr = nil
	s.loadedAt = time.Now()

	metrics.LoadsTotal.WithLabelValues("ok").Inc()
	metrics.LoadDurationMs.Observe(float64(time.Since(start).Milliseconds()))
	metrics.DroppedEntriesTotal.Add(float64(stats.DroppedEntries))
	metrics.Annotations.Reset()
	for _, a := range idx.Annotations(idx.All()) {
		metrics.Annotations.WithLabelValues(string(a.Kind)).Inc()
	}
	metrics.Rendered.Set(float64(rendered.Len()))

	log.Info().
		Str("source", s.source.Name()).
		Int("ordinances", stats.Ordinances).
		Int("streets", stats.TotalStreets).
		Int("streets_with_coordinates", stats.StreetsWithCoordinates).
		Int("annotations", stats.Annotations).
		Int("dropped_entries", stats.DroppedEntries).
		Int("skipped", stats.Skipped).
		Msg("document loaded")
	if stats.IntersectionFallbacks > 0 {
		log.Warn().
			Int("records", stats.IntersectionFallbacks).
			Msg("intersection records without a computed intersection point, showing all their points")
	}
	return nil
}

// loaded returns the index or the reason it is missing. Callers hold s.mu.
func (s *ViewerService) loaded() (*index.Index, error) {
	if s.idx != nil {
		return s.idx, nil
	}
	if s.loadErr != nil {
		return nil, fmt.Errorf("service: %w: %w", ErrNotLoaded, s.loadErr)
	}
	return nil, fmt.Errorf("service: %w", ErrNotLoaded)
}

// Status reports the load state.
func (s *ViewerService) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Status{Loaded: s.idx != nil, Source: s.source.Name(), Rendered: s.rendered.Len()}
	if s.loadErr != nil {
		st.Error = s.loadErr.Error()
	}
	if s.idx != nil {
		at := s.loadedAt
		st.LoadedAt = &at
		st.Annotations = s.idx.Len()
	}
	return st
}

// Summary returns the aggregate statistics of the loaded document.
func (s *ViewerService) Summary() (index.Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.loaded(); err != nil {
		return index.Stats{}, err
	}
	return s.stats, nil
}

// Tree returns the ordinance, zone and street hierarchy with visibility.
func (s *ViewerService) Tree() ([]OrdinanceNode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, err := s.loaded()
	if err != nil {
		return nil, err
	}

	tree := make([]OrdinanceNode, 0, len(idx.Ordinances()))
	for _, o := range idx.Ordinances() {
		on := OrdinanceNode{ID: o.ID, Protocol: o.Meta.Protocol, Date: o.Meta.Date, Title: o.Meta.Title, Zones: []ZoneNode{}}
		if on.Protocol == "" {
			on.Protocol = o.ID
		}
		for _, z := range o.Zones {
			zn := ZoneNode{Name: z.Key.Zone, Streets: []StreetNode{}}
			for _, st := range z.Streets {
				visible := s.rendered.AnyVisible(st.Annotations)
				zn.Streets = append(zn.Streets, StreetNode{
					Name:        st.Key.Street,
					Type:        st.DeclaredType,
					DisplayInfo: st.DisplayInfo,
					Annotations: len(st.Annotations),
					Visible:     visible,
				})
				zn.Annotations += len(st.Annotations)
				if visible {
					zn.Rendered += len(st.Annotations)
				}
			}
			on.Annotations += zn.Annotations
			on.Rendered += zn.Rendered
			on.Zones = append(on.Zones, zn)
		}
		tree = append(tree, on)
	}
	return tree, nil
}

// Annotations returns the rendered annotations as a GeoJSON feature collection.
func (s *ViewerService) Annotations() (*geojson.FeatureCollection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.loaded(); err != nil {
		return nil, err
	}
	return s.layer.FeatureCollection(), nil
}

// VisibleView fits the view to every rendered annotation, or to the home area when
// nothing is rendered.
func (s *ViewerService) VisibleView() (index.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.loaded(); err != nil {
		return index.View{}, err
	}
	b, ok := s.layer.Bounds(s.layer.Drawn())
	if !ok {
		return index.ViewFor(s.opts.Home, 0), nil
	}
	return s.layer.FitView(b), nil
}

// StreetView fits the view to one street, whether or not it is rendered.
func (s *ViewerService) StreetView(key models.StreetKey) (index.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, err := s.loaded()
	if err != nil {
		return index.View{}, err
	}
	ids, ok := idx.Street(key)
	if !ok {
		return index.View{}, fmt.Errorf("service: street %q in %q/%q: %w", key.Street, key.OrdinanceID, key.Zone, ErrNotFound)
	}
	b, ok := s.layer.Bounds(idx.Annotations(ids))
	if !ok {
		return index.View{}, fmt.Errorf("service: street %q: %w", key.Street, ErrNoGeometry)
	}
	return s.layer.FitView(b), nil
}

// Search finds streets by name.
func (s *ViewerService) Search(query string) ([]index.SearchHit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, err := s.loaded()
	if err != nil {
		return nil, err
	}
	return idx.Search(query, s.opts.SearchLimit), nil
}

// SetVisibility applies a visibility change and redraws the difference.
func (s *ViewerService) SetVisibility(req VisibilityRequest) (VisibilityResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, err := s.loaded()
	if err != nil {
		return VisibilityResult{}, err
	}

	var next index.RenderSet
	var found bool
	switch req.Scope {
	case ScopeAll:
		if req.Visible != nil {
			next = idx.SetAll(*req.Visible)
		} else {
			next = idx.ToggleAll(s.rendered)
		}
		found = true
	case ScopeOrdinance:
		if req.Ordinance == "" {
			return VisibilityResult{}, fmt.Errorf("service: ordinance is required: %w", ErrInvalidScope)
		}
		if req.Visible != nil {
			next, found = idx.SetOrdinance(s.rendered, req.Ordinance, *req.Visible)
		} else {
			next, found = idx.ToggleOrdinance(s.rendered, req.Ordinance)
		}
	case ScopeZone:
		if req.Ordinance == "" || req.Zone == "" {
			return VisibilityResult{}, fmt.Errorf("service: ordinance and zone are required: %w", ErrInvalidScope)
		}
		key := models.ZoneKey{OrdinanceID: req.Ordinance, Zone: req.Zone}
		if req.Visible != nil {
			next, found = idx.SetZone(s.rendered, key, *req.Visible)
		} else {
			next, found = idx.ToggleZone(s.rendered, key)
		}
	case ScopeStreet:
		if req.Ordinance == "" || req.Zone == "" || req.Street == "" {
			return VisibilityResult{}, fmt.Errorf("service: ordinance, zone and street are required: %w", ErrInvalidScope)
		}
		key := models.StreetKey{OrdinanceID: req.Ordinance, Zone: req.Zone, Street: req.Street}
		if req.Visible != nil {
			next, found = idx.SetStreet(s.rendered, key, *req.Visible)
		} else {
			next, found = idx.ToggleStreet(s.rendered, key)
		}
	default:
		return VisibilityResult{}, fmt.Errorf("service: scope %q: %w", req.Scope, ErrInvalidScope)
	}
	if !found {
		return VisibilityResult{}, fmt.Errorf("service: %s not in index: %w", req.Scope, ErrNotFound)
	}

	// A toggle shows its scope exactly when the render set grows.
	visible := next.Len() > s.rendered.Len()
	if req.Visible != nil {
		visible = *req.Visible
	}

	changed := next.Len() - s.rendered.Len()
	if changed < 0 {
		changed = -changed
	}
	index.Apply(s.layer, idx, s.rendered, next)
	s.rendered = next

	metrics.TogglesTotal.WithLabelValues(req.Scope).Inc()
	metrics.Rendered.Set(float64(next.Len()))
	log.Debug().
		Str("scope", req.Scope).
		Str("ordinance", req.Ordinance).
		Str("zone", req.Zone).
		Str("street", req.Street).
		Bool("visible", visible).
		Int("rendered", next.Len()).
		Msg("visibility changed")

	return VisibilityResult{Rendered: next.Len(), Changed: changed, Visible: visible}, nil
}
