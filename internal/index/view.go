package index

import (
	"sort"

	"ordinance-map/internal/models"
)

// RenderSet is the set of annotation IDs currently on the map. Values are never
// modified in place; every update returns a new set.
type RenderSet struct {
	ids map[int]struct{}
}

// NewRenderSet returns a set holding the given IDs.
func NewRenderSet(ids ...int) RenderSet {
	rs := RenderSet{ids: make(map[int]struct{}, len(ids))}
	for _, id := range ids {
		rs.ids[id] = struct{}{}
	}
	return rs
}

// Contains reports whether an annotation is rendered.
func (rs RenderSet) Contains(id int) bool {
	_, ok := rs.ids[id]
	return ok
}

// Len returns the number of rendered annotations.
func (rs RenderSet) Len() int {
	return len(rs.ids)
}

// IDs returns the rendered IDs in ascending order.
func (rs RenderSet) IDs() []int {
	out := make([]int, 0, len(rs.ids))
	for id := range rs.ids {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}

// Equal reports whether two sets hold the same IDs.
func (rs RenderSet) Equal(other RenderSet) bool {
	if rs.Len() != other.Len() {
		return false
	}
	for id := range rs.ids {
		if !other.Contains(id) {
			return false
		}
	}
	return true
}

// AnyVisible reports whether at least one of ids is rendered.
func (rs RenderSet) AnyVisible(ids []int) bool {
	for _, id := range ids {
		if rs.Contains(id) {
			return true
		}
	}
	return false
}

// Set returns a copy of rs with ids shown or hidden.
func (rs RenderSet) Set(ids []int, visible bool) RenderSet {
	next := NewRenderSet()
	for id := range rs.ids {
		next.ids[id] = struct{}{}
	}
	for _, id := range ids {
		if visible {
			next.ids[id] = struct{}{}
		} else {
			delete(next.ids, id)
		}
	}
	return next
}

// Toggle hides ids when any of them is rendered and shows them all otherwise.
func (rs RenderSet) Toggle(ids []int) RenderSet {
	return rs.Set(ids, !rs.AnyVisible(ids))
}

// ShowAll returns the set with every annotation of the index rendered.
func (idx *Index) ShowAll() RenderSet {
	return NewRenderSet(idx.All()...)
}

// HideAll returns the empty set.
func (idx *Index) HideAll() RenderSet {
	return NewRenderSet()
}

// ToggleAll hides everything when anything is rendered and shows everything otherwise.
func (idx *Index) ToggleAll(rs RenderSet) RenderSet {
	return rs.Toggle(idx.All())
}

// SetAll shows or hides every annotation.
func (idx *Index) SetAll(visible bool) RenderSet {
	if visible {
		return idx.ShowAll()
	}
	return idx.HideAll()
}

// ToggleOrdinance flips the visibility of every annotation of an ordinance.
func (idx *Index) ToggleOrdinance(rs RenderSet, id string) (RenderSet, bool) {
	ids, ok := idx.Ordinance(id)
	if !ok {
		return rs, false
	}
	return rs.Toggle(ids), true
}

// ToggleZone flips the visibility of a zone group.
func (idx *Index) ToggleZone(rs RenderSet, key models.ZoneKey) (RenderSet, bool) {
	ids, ok := idx.Zone(key)
	if !ok {
		return rs, false
	}
	return rs.Toggle(ids), true
}

// ToggleStreet flips the visibility of a street. Toggling twice restores the input set.
func (idx *Index) ToggleStreet(rs RenderSet, key models.StreetKey) (RenderSet, bool) {
	ids, ok := idx.Street(key)
	if !ok {
		return rs, false
	}
	return rs.Toggle(ids), true
}

// SetOrdinance shows or hides an ordinance.
func (idx *Index) SetOrdinance(rs RenderSet, id string, visible bool) (RenderSet, bool) {
	ids, ok := idx.Ordinance(id)
	if !ok {
		return rs, false
	}
	return rs.Set(ids, visible), true
}

// SetZone shows or hides a zone group.
func (idx *Index) SetZone(rs RenderSet, key models.ZoneKey, visible bool) (RenderSet, bool) {
	ids, ok := idx.Zone(key)
	if !ok {
		return rs, false
	}
	return rs.Set(ids, visible), true
}

// SetStreet shows or hides a street.
func (idx *Index) SetStreet(rs RenderSet, key models.StreetKey, visible bool) (RenderSet, bool) {
	ids, ok := idx.Street(key)
	if !ok {
		return rs, false
	}
	return rs.Set(ids, visible), true
}

// Rendered resolves the annotations of a render set in ID order.
func (idx *Index) Rendered(rs RenderSet) []models.Annotation {
	return idx.Annotations(rs.IDs())
}
