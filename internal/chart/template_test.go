package chart

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/orgchart-viewer/internal/domain"
)

func TestNodeTemplateRender(t *testing.T) {
	tmpl, err := NewNodeTemplate()
	require.NoError(t, err)

	node := domain.ChartNode{Employee: domain.Employee{
		ID:       "42",
		Name:     "Ann <Lee>",
		Position: "Engineer",
		Image:    "https://img.example.com/42.png",
	}}
	html, err := tmpl.Render(node, DefaultConfig())
	require.NoError(t, err)
	require.Contains(t, html, "#42")
	require.Contains(t, html, "Ann &lt;Lee&gt;")
	require.Contains(t, html, "Engineer")
	require.Contains(t, html, `src="https://img.example.com/42.png"`)
	require.Contains(t, html, "width:222px;height:110px")
	require.Contains(t, html, "1px solid #E4E2E9")
}

func TestNodeTemplateHighlightBorder(t *testing.T) {
	tmpl, err := NewNodeTemplate()
	require.NoError(t, err)

	dept := domain.ChartNode{Employee: domain.Employee{ID: "1", Name: "A"}, Highlighted: true, HighlightColor: "#2ca02c"}
	html, err := tmpl.Render(dept, DefaultConfig())
	require.NoError(t, err)
	require.Contains(t, html, "3px solid #2ca02c")

	search := domain.ChartNode{Employee: domain.Employee{ID: "2", Name: "B"}, Highlighted: true}
	html, err = tmpl.Render(search, DefaultConfig())
	require.NoError(t, err)
	require.Contains(t, html, "3px solid #E27396")
}

func TestNodeTemplateOmitsMissingImage(t *testing.T) {
	tmpl, err := NewNodeTemplate()
	require.NoError(t, err)

	html, err := tmpl.Render(domain.ChartNode{Employee: domain.Employee{ID: "1", Name: "A"}}, DefaultConfig())
	require.NoError(t, err)
	require.NotContains(t, html, "<img")
}
