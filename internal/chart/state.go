package chart

import (
	"strings"

	"github.com/spec-kit/orgchart-viewer/internal/domain"
)

// The functions below return an updated copy of the view state; the input is
// left untouched.

// SetIncludeInterns toggles the intern filter.
func SetIncludeInterns(state domain.ViewState, include bool) domain.ViewState {
	next := state.Clone()
	next.IncludeInterns = include
	return next
}

// SetSearch replaces the search text.
func SetSearch(state domain.ViewState, search string) domain.ViewState {
	next := state.Clone()
	next.Search = strings.TrimSpace(search)
	return next
}

// ToggleDepartment flips the selection of department. Selecting it also
// expands every roster row in it.
func ToggleDepartment(state domain.ViewState, roster []domain.Employee, department string) domain.ViewState {
	next := state.Clone()
	if next.SelectedDepartments.Has(department) {
		next.SelectedDepartments.Remove(department)
		return next
	}
	next.SelectedDepartments.Add(department)
	next.ExpandedNodes.Add(departmentIDs(roster, department)...)
	return next
}

// ExpandDepartment opens every row of department without changing selection.
func ExpandDepartment(state domain.ViewState, roster []domain.Employee, department string) domain.ViewState {
	next := state.Clone()
	next.ExpandedNodes.Add(departmentIDs(roster, department)...)
	return next
}

// SelectAllDepartments selects every department of the palette.
func SelectAllDepartments(state domain.ViewState, palette domain.Palette) domain.ViewState {
	next := state.Clone()
	next.SelectedDepartments.Add(palette.Departments()...)
	return next
}

// DeselectAllDepartments clears the department selection.
func DeselectAllDepartments(state domain.ViewState) domain.ViewState {
	next := state.Clone()
	next.SelectedDepartments = domain.StringSet{}
	return next
}

// ExpandAll marks every visible row as expanded.
func ExpandAll(state domain.ViewState, visible []domain.Employee) domain.ViewState {
	next := state.Clone()
	for _, r := range visible {
		next.ExpandedNodes.Add(r.ID)
	}
	return next
}

// CollapseAll clears the expanded node set.
func CollapseAll(state domain.ViewState) domain.ViewState {
	next := state.Clone()
	next.ExpandedNodes = domain.StringSet{}
	return next
}

func departmentIDs(roster []domain.Employee, department string) []string {
	var ids []string
	for _, r := range roster {
		if r.Department == department {
			ids = append(ids, r.ID)
		}
	}
	return ids
}
