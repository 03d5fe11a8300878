package domain

import (
	"encoding/json"
	"sort"
)

// StringSet is an unordered set of strings that serializes as a sorted list.
type StringSet map[string]struct{}

// NewStringSet builds a set from values.
func NewStringSet(values ...string) StringSet {
	s := make(StringSet, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

// Has reports membership.
func (s StringSet) Has(v string) bool {
	_, ok := s[v]
	return ok
}

// Add inserts values.
func (s StringSet) Add(values ...string) {
	for _, v := range values {
		s[v] = struct{}{}
	}
}

// Remove deletes values.
func (s StringSet) Remove(values ...string) {
	for _, v := range values {
		delete(s, v)
	}
}

// Sorted returns the members in lexical order.
func (s StringSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Clone returns an independent copy.
func (s StringSet) Clone() StringSet {
	out := make(StringSet, len(s))
	for v := range s {
		out[v] = struct{}{}
	}
	return out
}

func (s StringSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

func (s *StringSet) UnmarshalJSON(data []byte) error {
	var values []string
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}
	*s = NewStringSet(values...)
	return nil
}

// ViewState is everything the user controls about the rendered chart.
type ViewState struct {
	IncludeInterns      bool      `json:"include_interns"`
	Search              string    `json:"search"`
	SelectedDepartments StringSet `json:"selected_departments"`
	ExpandedNodes       StringSet `json:"expanded_nodes"`
}

// NewViewState returns the state a freshly loaded chart starts with.
func NewViewState() ViewState {
	return ViewState{
		IncludeInterns:      true,
		SelectedDepartments: StringSet{},
		ExpandedNodes:       StringSet{},
	}
}

// Clone returns a deep copy so callers can mutate without aliasing.
func (v ViewState) Clone() ViewState {
	out := v
	out.SelectedDepartments = v.SelectedDepartments.Clone()
	out.ExpandedNodes = v.ExpandedNodes.Clone()
	return out
}
