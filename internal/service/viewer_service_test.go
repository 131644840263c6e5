package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"ordinance-map/internal/document"
	"ordinance-map/internal/index"
	"ordinance-map/internal/models"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockDocumentSource is a mock implementation of the DocumentSource interface
type MockDocumentSource struct {
	mock.Mock
}

func (m *MockDocumentSource) Fetch(ctx context.Context) (*models.Document, error) {
	args := m.Called(ctx)
	doc, _ := args.Get(0).(*models.Document)
	return doc, args.Error(1)
}

func (m *MockDocumentSource) Name() string {
	return "mock"
}

var rome = orb.Bound{Min: orb.Point{12.23, 41.65}, Max: orb.Point{12.86, 42.10}}

func sampleDocument(t *testing.T) *models.Document {
	t.Helper()
	data, err := os.ReadFile("../../testdata/coordinates.json")
	require.NoError(t, err)
	doc, err := document.Decode(data)
	require.NoError(t, err)
	return doc
}

func loadedService(t *testing.T) *ViewerService {
	t.Helper()
	src := new(MockDocumentSource)
	src.On("Fetch", mock.Anything).Return(sampleDocument(t), nil).Once()

	svc := NewViewerService(src, Options{Padding: 0.001, SearchLimit: 10, Home: rome})
	require.NoError(t, svc.Load(context.Background()))
	src.AssertExpectations(t)
	return svc
}

func boolPtr(b bool) *bool { return &b }

func TestViewerService_Load(t *testing.T) {
	svc := loadedService(t)

	st := svc.Status()
	assert.True(t, st.Loaded)
	assert.Equal(t, "mock", st.Source)
	assert.Empty(t, st.Error)
	assert.NotNil(t, st.LoadedAt)
	assert.Equal(t, 7, st.Annotations)
	assert.Equal(t, 7, st.Rendered)

	stats, err := svc.Summary()
	require.NoError(t, err)
	assert.Equal(t, 6, stats.TotalStreets)
	assert.Equal(t, 5, stats.StreetsWithCoordinates)
	assert.Equal(t, 1, stats.DroppedEntries)
}

func TestViewerService_LoadFailure(t *testing.T) {
	src := new(MockDocumentSource)
	fetchErr := errors.Join(models.ErrDataFetch, assert.AnError)
	src.On("Fetch", mock.Anything).Return(nil, fetchErr)

	svc := NewViewerService(src, Options{Home: rome})

	_, err := svc.Summary()
	assert.ErrorIs(t, err, ErrNotLoaded)

	err = svc.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrDataFetch)

	st := svc.Status()
	assert.False(t, st.Loaded)
	assert.Nil(t, st.LoadedAt)
	assert.Contains(t, st.Error, assert.AnError.Error())

	_, err = svc.Tree()
	assert.ErrorIs(t, err, ErrNotLoaded)
	assert.ErrorIs(t, err, models.ErrDataFetch)
	_, err = svc.Annotations()
	assert.ErrorIs(t, err, ErrNotLoaded)
	_, err = svc.SetVisibility(VisibilityRequest{Scope: ScopeAll})
	assert.ErrorIs(t, err, ErrNotLoaded)

	src.AssertExpectations(t)
}

func TestViewerService_FailedReloadDropsPreviousDocument(t *testing.T) {
	src := new(MockDocumentSource)
	src.On("Fetch", mock.Anything).Return(sampleDocument(t), nil).Once()
	src.On("Fetch", mock.Anything).Return(nil, models.ErrDataFetch).Once()

	svc := NewViewerService(src, Options{Home: rome})
	require.NoError(t, svc.Load(context.Background()))
	require.Error(t, svc.Load(context.Background()))

	st := svc.Status()
	assert.False(t, st.Loaded)
	assert.Equal(t, 0, st.Rendered)
	_, err := svc.VisibleView()
	assert.ErrorIs(t, err, ErrNotLoaded)
}

func TestViewerService_CanceledLoadKeepsState(t *testing.T) {
	canceled := fmt.Errorf("repository: %w: %w", models.ErrDataFetch, context.Canceled)
	expired := fmt.Errorf("repository: %w: %w", models.ErrDataFetch, context.DeadlineExceeded)

	src := new(MockDocumentSource)
	src.On("Fetch", mock.Anything).Return(sampleDocument(t), nil).Once()
	src.On("Fetch", mock.Anything).Return(nil, canceled).Once()
	src.On("Fetch", mock.Anything).Return(nil, expired).Once()

	svc := NewViewerService(src, Options{Home: rome})
	require.NoError(t, svc.Load(context.Background()))
	_, err := svc.SetVisibility(VisibilityRequest{Scope: ScopeOrdinance, Ordinance: "ordinance_133331"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = svc.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	err = svc.Load(context.Background())
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	st := svc.Status()
	assert.True(t, st.Loaded)
	assert.Empty(t, st.Error)
	assert.Equal(t, 7, st.Annotations)
	assert.Equal(t, 6, st.Rendered)

	_, err = svc.Tree()
	assert.NoError(t, err)
	src.AssertExpectations(t)
}

func TestViewerService_CanceledFirstLoad(t *testing.T) {
	src := new(MockDocumentSource)
	src.On("Fetch", mock.Anything).Return(nil, fmt.Errorf("repository: %w: %w", models.ErrDataFetch, context.Canceled))

	svc := NewViewerService(src, Options{Home: rome})
	require.Error(t, svc.Load(context.Background()))

	st := svc.Status()
	assert.False(t, st.Loaded)
	assert.Empty(t, st.Error)
}

func TestViewerService_Tree(t *testing.T) {
	svc := loadedService(t)

	tree, err := svc.Tree()
	require.NoError(t, err)
	require.Len(t, tree, 2)

	first := tree[0]
	assert.Equal(t, "ordinance_6747", first.ID)
	assert.Equal(t, "6747", first.Protocol)
	assert.Equal(t, 6, first.Annotations)
	assert.Equal(t, 6, first.Rendered)
	require.Len(t, first.Zones, 2)
	assert.Equal(t, "Zona Esquilino", first.Zones[0].Name)

	tuscolano := first.Zones[1]
	require.Len(t, tuscolano.Streets, 2)
	assert.Equal(t, StreetNode{Name: "Piazza Ragusa"}, tuscolano.Streets[1])

	_, err = svc.SetVisibility(VisibilityRequest{Scope: ScopeZone, Ordinance: "ordinance_6747", Zone: "Zona Tuscolano"})
	require.NoError(t, err)

	tree, err = svc.Tree()
	require.NoError(t, err)
	assert.Equal(t, 4, tree[0].Rendered)
	assert.Equal(t, 0, tree[0].Zones[1].Rendered)
	assert.False(t, tree[0].Zones[1].Streets[0].Visible)
}

func TestViewerService_SetVisibility(t *testing.T) {
	tests := []struct {
		name        string
		requests    []VisibilityRequest
		expected    VisibilityResult
		expectedErr error
	}{
		{
			name:     "toggle street hides it",
			requests: []VisibilityRequest{{Scope: ScopeStreet, Ordinance: "ordinance_6747", Zone: "Zona Esquilino", Street: "Via Giovanni Giolitti"}},
			expected: VisibilityResult{Rendered: 5, Changed: 2, Visible: false},
		},
		{
			name: "toggle street twice restores it",
			requests: []VisibilityRequest{
				{Scope: ScopeStreet, Ordinance: "ordinance_6747", Zone: "Zona Esquilino", Street: "Via Giovanni Giolitti"},
				{Scope: ScopeStreet, Ordinance: "ordinance_6747", Zone: "Zona Esquilino", Street: "Via Giovanni Giolitti"},
			},
			expected: VisibilityResult{Rendered: 7, Changed: 2, Visible: true},
		},
		{
			name:     "hide ordinance",
			requests: []VisibilityRequest{{Scope: ScopeOrdinance, Ordinance: "ordinance_133331", Visible: boolPtr(false)}},
			expected: VisibilityResult{Rendered: 6, Changed: 1, Visible: false},
		},
		{
			name:     "show already visible zone changes nothing",
			requests: []VisibilityRequest{{Scope: ScopeZone, Ordinance: "ordinance_6747", Zone: "Zona Tuscolano", Visible: boolPtr(true)}},
			expected: VisibilityResult{Rendered: 7, Changed: 0, Visible: true},
		},
		{
			name: "hide all then show all",
			requests: []VisibilityRequest{
				{Scope: ScopeAll, Visible: boolPtr(false)},
				{Scope: ScopeAll, Visible: boolPtr(true)},
			},
			expected: VisibilityResult{Rendered: 7, Changed: 7, Visible: true},
		},
		{
			name:        "unknown scope",
			requests:    []VisibilityRequest{{Scope: "city"}},
			expectedErr: ErrInvalidScope,
		},
		{
			name:        "zone without ordinance",
			requests:    []VisibilityRequest{{Scope: ScopeZone, Zone: "Zona Tuscolano"}},
			expectedErr: ErrInvalidScope,
		},
		{
			name:        "unknown street",
			requests:    []VisibilityRequest{{Scope: ScopeStreet, Ordinance: "ordinance_6747", Zone: "Zona Esquilino", Street: "Via Nazionale"}},
			expectedErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := loadedService(t)

			var result VisibilityResult
			var err error
			for _, req := range tt.requests {
				result, err = svc.SetVisibility(req)
			}

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Equal(t, 7, svc.Status().Rendered)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)

			fc, err := svc.Annotations()
			require.NoError(t, err)
			assert.Len(t, fc.Features, tt.expected.Rendered)
		})
	}
}

func TestViewerService_StreetView(t *testing.T) {
	svc := loadedService(t)

	view, err := svc.StreetView(models.StreetKey{OrdinanceID: "ordinance_6747", Zone: "Zona Esquilino", Street: "Via Marsala incrocio con Via Milazzo"})
	require.NoError(t, err)
	assert.Equal(t, index.PointZoom, view.Zoom)
	assert.InDelta(t, 41.9016, view.CenterLat, 1e-9)
	assert.InDelta(t, 12.5035, view.CenterLon, 1e-9)

	// Hidden streets can still be zoomed to.
	_, err = svc.SetVisibility(VisibilityRequest{Scope: ScopeAll, Visible: boolPtr(false)})
	require.NoError(t, err)
	_, err = svc.StreetView(models.StreetKey{OrdinanceID: "ordinance_6747", Zone: "Zona Tuscolano", Street: "Via Tuscolana tratto compreso tra Piazza Ragusa e Via Taranto"})
	assert.NoError(t, err)

	_, err = svc.StreetView(models.StreetKey{OrdinanceID: "ordinance_6747", Zone: "Zona Tuscolano", Street: "Piazza Ragusa"})
	assert.ErrorIs(t, err, ErrNoGeometry)

	_, err = svc.StreetView(models.StreetKey{OrdinanceID: "ordinance_6747", Zone: "Zona Tuscolano", Street: "Via Taranto"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestViewerService_VisibleView(t *testing.T) {
	svc := loadedService(t)

	view, err := svc.VisibleView()
	require.NoError(t, err)
	assert.InDelta(t, 41.8795-0.001, view.South, 1e-9)
	assert.InDelta(t, 41.9050+0.001, view.North, 1e-9)
	assert.InDelta(t, 12.4400-0.001, view.West, 1e-9)

	_, err = svc.SetVisibility(VisibilityRequest{Scope: ScopeAll, Visible: boolPtr(false)})
	require.NoError(t, err)

	view, err = svc.VisibleView()
	require.NoError(t, err)
	assert.Equal(t, index.ViewFor(rome, 0), view)
}

func TestViewerService_Search(t *testing.T) {
	svc := loadedService(t)

	hits, err := svc.Search("ragusa")
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "Via Tuscolana tratto compreso tra Piazza Ragusa e Via Taranto", hits[0].Key.Street)
	assert.Equal(t, 2, hits[0].Annotations)
	assert.Equal(t, "Piazza Ragusa", hits[1].Key.Street)
	assert.Equal(t, 0, hits[1].Annotations)

	hits, err = svc.Search("piazza")
	require.NoError(t, err)
	assert.Len(t, hits, 3)
}
