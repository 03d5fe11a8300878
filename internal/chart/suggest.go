package chart

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/spec-kit/orgchart-viewer/internal/domain"
)

// Suggestion is a candidate for the search box.
type Suggestion struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Department string `json:"department,omitempty"`
	Distance   int    `json:"distance"`
}

// Suggest ranks the names in rows against query, closest first, and returns at
// most limit results. Ties keep roster order.
func Suggest(rows []domain.Employee, query string, limit int) []Suggestion {
	query = strings.TrimSpace(query)
	if query == "" || limit <= 0 {
		return []Suggestion{}
	}
	names := make([]string, len(rows))
	for i, r := range rows {
		names[i] = r.Name
	}
	ranks := fuzzy.RankFindNormalizedFold(query, names)
	sort.SliceStable(ranks, func(i, j int) bool {
		if ranks[i].Distance != ranks[j].Distance {
			return ranks[i].Distance < ranks[j].Distance
		}
		return ranks[i].OriginalIndex < ranks[j].OriginalIndex
	})

	out := make([]Suggestion, 0, min(limit, len(ranks)))
	for _, rank := range ranks {
		if len(out) == limit {
			break
		}
		r := rows[rank.OriginalIndex]
		out = append(out, Suggestion{ID: r.ID, Name: r.Name, Department: r.Department, Distance: rank.Distance})
	}
	return out
}
