package chart

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/spec-kit/orgchart-viewer/internal/domain"
)

// Derive annotates rows for one render pass. A non-empty search marks exactly
// the name matches as highlighted and expanded and ignores department
// selection. Otherwise rows in a selected department are highlighted with the
// department color and expansion follows the expanded node set.
func Derive(rows []domain.Employee, state domain.ViewState, palette domain.Palette) []domain.ChartNode {
	nodes := make([]domain.ChartNode, len(rows))
	search := strings.TrimSpace(state.Search)
	if search != "" {
		folder := cases.Fold()
		needle := folder.String(search)
		for i, r := range rows {
			match := strings.Contains(folder.String(r.Name), needle)
			nodes[i] = domain.ChartNode{Employee: r, Highlighted: match, Expanded: match}
		}
		return nodes
	}

	for i, r := range rows {
		node := domain.ChartNode{Employee: r, Expanded: state.ExpandedNodes.Has(r.ID)}
		if r.Department != "" && state.SelectedDepartments.Has(r.Department) {
			node.Highlighted = true
			node.HighlightColor, _ = palette.Color(r.Department)
		}
		nodes[i] = node
	}
	return nodes
}

// Visible runs the filter stage then the derivation.
func Visible(roster []domain.Employee, state domain.ViewState, palette domain.Palette, sentinel string) []domain.ChartNode {
	return Derive(FilterInterns(roster, state.IncludeInterns, sentinel), state, palette)
}
