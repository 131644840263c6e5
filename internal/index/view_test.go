package index

import (
	"testing"

	"ordinance-map/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	giolitti  = models.StreetKey{OrdinanceID: "ordinance_6747", Zone: "Zona Esquilino", Street: "Via Giovanni Giolitti"}
	tuscolano = models.ZoneKey{OrdinanceID: "ordinance_6747", Zone: "Zona Tuscolano"}
)

func TestRenderSet_ToggleStreetTwiceRestores(t *testing.T) {
	idx, _ := Build(loadSample(t))

	starts := map[string]RenderSet{
		"all shown":  idx.ShowAll(),
		"all hidden": idx.HideAll(),
		"mixed":      NewRenderSet(0, 1, 4),
	}
	for name, start := range starts {
		t.Run(name, func(t *testing.T) {
			once, ok := idx.ToggleStreet(start, giolitti)
			require.True(t, ok)
			assert.False(t, once.Equal(start))

			twice, ok := idx.ToggleStreet(once, giolitti)
			require.True(t, ok)
			assert.True(t, twice.Equal(start))
		})
	}
}

func TestRenderSet_ToggleDoesNotMutateInput(t *testing.T) {
	idx, _ := Build(loadSample(t))
	start := idx.ShowAll()

	next, ok := idx.ToggleZone(start, tuscolano)
	require.True(t, ok)

	assert.Equal(t, 7, start.Len())
	assert.Equal(t, 5, next.Len())
	assert.False(t, next.Contains(4))
	assert.False(t, next.Contains(5))
}

func TestRenderSet_GroupToggleHidesWhenAnyVisible(t *testing.T) {
	idx, _ := Build(loadSample(t))

	// Only one street of the zone is visible: toggling the zone hides it.
	partial := NewRenderSet(0)
	next, ok := idx.ToggleZone(partial, models.ZoneKey{OrdinanceID: "ordinance_6747", Zone: "Zona Esquilino"})
	require.True(t, ok)
	assert.Equal(t, 0, next.Len())

	next, ok = idx.ToggleOrdinance(next, "ordinance_6747")
	require.True(t, ok)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, next.IDs())
}

func TestRenderSet_Set(t *testing.T) {
	idx, _ := Build(loadSample(t))

	rs, ok := idx.SetStreet(idx.HideAll(), giolitti, true)
	require.True(t, ok)
	assert.Equal(t, []int{0, 1}, rs.IDs())

	rs, ok = idx.SetStreet(rs, giolitti, true)
	require.True(t, ok)
	assert.Equal(t, []int{0, 1}, rs.IDs())

	rs, ok = idx.SetZone(rs, tuscolano, true)
	require.True(t, ok)
	assert.Equal(t, []int{0, 1, 4, 5}, rs.IDs())

	rs, ok = idx.SetOrdinance(rs, "ordinance_6747", false)
	require.True(t, ok)
	assert.Equal(t, 0, rs.Len())
}

func TestRenderSet_All(t *testing.T) {
	idx, _ := Build(loadSample(t))

	hidden := idx.ToggleAll(NewRenderSet(3))
	assert.Equal(t, 0, hidden.Len())
	shown := idx.ToggleAll(hidden)
	assert.True(t, shown.Equal(idx.ShowAll()))

	assert.True(t, idx.SetAll(true).Equal(idx.ShowAll()))
	assert.Equal(t, 0, idx.SetAll(false).Len())
}

func TestRenderSet_UnknownKeys(t *testing.T) {
	idx, _ := Build(loadSample(t))
	start := idx.ShowAll()

	_, ok := idx.ToggleStreet(start, models.StreetKey{OrdinanceID: "x", Zone: "y", Street: "z"})
	assert.False(t, ok)
	_, ok = idx.ToggleZone(start, models.ZoneKey{OrdinanceID: "ordinance_6747", Zone: "nope"})
	assert.False(t, ok)
	_, ok = idx.ToggleOrdinance(start, "nope")
	assert.False(t, ok)
	_, ok = idx.SetStreet(start, models.StreetKey{}, true)
	assert.False(t, ok)
}

func TestRendered(t *testing.T) {
	idx, _ := Build(loadSample(t))

	got := idx.Rendered(NewRenderSet(6, 2))
	require.Len(t, got, 2)
	assert.Equal(t, 2, got[0].ID)
	assert.Equal(t, "Viale di Valle Aurelia", got[1].Street)
}
