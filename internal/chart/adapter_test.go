package chart

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/orgchart-viewer/internal/domain"
)

func ops(f Frame) []Op {
	out := make([]Op, len(f.Commands))
	for i, c := range f.Commands {
		out[i] = c.Op
	}
	return out
}

func TestAdapterFirstFrameConfigures(t *testing.T) {
	adapter := NewAdapter(DefaultConfig(), nil)
	rec := NewRecorder()
	nodes := Derive(sampleRoster(), domain.NewViewState(), domain.Palette{})

	require.NoError(t, adapter.Apply(rec, ActionRefresh, nodes, true))
	frame := rec.Frame()
	require.Equal(t, []Op{OpConfigure, OpData, OpRender, OpFit}, ops(frame))
	require.NotNil(t, frame.Commands[0].Config)
	require.Equal(t, 222, frame.Commands[0].Config.NodeWidth)
	require.Equal(t, "bottom", frame.Commands[0].Config.Layout)
	require.Len(t, frame.Nodes, 5)
}

func TestAdapterActions(t *testing.T) {
	cases := map[Action][]Op{
		ActionRefresh:     {OpData, OpRender, OpFit},
		ActionExpandAll:   {OpData, OpExpandAll, OpRender, OpFit},
		ActionCollapseAll: {OpData, OpCollapseAll, OpRender, OpFit},
	}
	adapter := NewAdapter(DefaultConfig(), nil)
	for action, want := range cases {
		t.Run(string(action), func(t *testing.T) {
			rec := NewRecorder()
			require.NoError(t, adapter.Apply(rec, action, nil, false))
			require.Equal(t, want, ops(rec.Frame()))
		})
	}
}

func TestAdapterFillsNodeContent(t *testing.T) {
	tmpl, err := NewNodeTemplate()
	require.NoError(t, err)
	adapter := NewAdapter(DefaultConfig(), tmpl)
	rec := NewRecorder()
	nodes := Derive(sampleRoster(), domain.NewViewState(), domain.Palette{})

	require.NoError(t, adapter.Apply(rec, ActionRefresh, nodes, false))
	for _, n := range rec.Frame().Nodes {
		require.Contains(t, n.Content, n.Name)
	}
}
