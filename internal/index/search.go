package index

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/mozillazg/go-unidecode"

	"ordinance-map/internal/models"
)

// SearchHit is a street matching a search query. Distance is set on suggestions only.
type SearchHit struct {
	Key         models.StreetKey `json:"key"`
	Annotations int              `json:"annotations"`
	Distance    int              `json:"distance,omitempty"`
}

func fold(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(unidecode.Unidecode(s))), " ")
}

// Search finds streets whose name contains query, ignoring case, accents and repeated
// spaces. Hits follow display order; limit <= 0 means no limit. When nothing contains
// the query, close spellings are suggested instead.
func (idx *Index) Search(query string, limit int) []SearchHit {
	q := fold(query)
	hits := []SearchHit{}
	if q == "" {
		return hits
	}
	for _, key := range idx.StreetKeys() {
		if !strings.Contains(fold(key.Street), q) {
			continue
		}
		ids, _ := idx.Street(key)
		hits = append(hits, SearchHit{Key: key, Annotations: len(ids)})
		if limit > 0 && len(hits) == limit {
			break
		}
	}
	if len(hits) == 0 {
		return idx.Suggest(query, max(1, len(q)/4), limit)
	}
	return hits
}

// Suggest returns streets whose name, or a run of words in it, is within maxDistance
// edits of query. Closest first, then display order.
func (idx *Index) Suggest(query string, maxDistance, limit int) []SearchHit {
	q := fold(query)
	hits := []SearchHit{}
	if q == "" {
		return hits
	}
	for _, key := range idx.StreetKeys() {
		d := nameDistance(q, fold(key.Street))
		if d > maxDistance {
			continue
		}
		ids, _ := idx.Street(key)
		hits = append(hits, SearchHit{Key: key, Annotations: len(ids), Distance: d})
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits
}

func nameDistance(q, name string) int {
	best := levenshtein.ComputeDistance(q, name)
	n := len(strings.Fields(q))
	words := strings.Fields(name)
	for i := 0; i+n <= len(words); i++ {
		if d := levenshtein.ComputeDistance(q, strings.Join(words[i:i+n], " ")); d < best {
			best = d
		}
	}
	return best
}
