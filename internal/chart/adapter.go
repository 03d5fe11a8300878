package chart

import (
	"github.com/spec-kit/orgchart-viewer/internal/domain"
)

// Config is the fluent configuration the browser chart is constructed with.
type Config struct {
	NodeWidth            int    `json:"nodeWidth"`
	NodeHeight           int    `json:"nodeHeight"`
	ChildrenMargin       int    `json:"childrenMargin"`
	CompactMarginBetween int    `json:"compactMarginBetween"`
	CompactMarginPair    int    `json:"compactMarginPair"`
	NeighbourMargin      int    `json:"neighbourMargin"`
	Layout               string `json:"layout"`
	NodeIDField          string `json:"nodeId"`
	ParentIDField        string `json:"parentNodeId"`
}

// DefaultConfig mirrors the card geometry the node template is drawn for.
func DefaultConfig() Config {
	return Config{
		NodeWidth:            222,
		NodeHeight:           110,
		ChildrenMargin:       50,
		CompactMarginBetween: 35,
		CompactMarginPair:    30,
		NeighbourMargin:      20,
		Layout:               "bottom",
		NodeIDField:          "id",
		ParentIDField:        "parentId",
	}
}

// Op names a call against the browser chart object.
type Op string

const (
	OpConfigure   Op = "configure"
	OpData        Op = "data"
	OpExpandAll   Op = "expandAll"
	OpCollapseAll Op = "collapseAll"
	OpRender      Op = "render"
	OpFit         Op = "fit"
)

// Command is one recorded chart call.
type Command struct {
	Op     Op      `json:"op"`
	Config *Config `json:"config,omitempty"`
}

// Chart is the subset of the chart library's API the adapter drives.
type Chart interface {
	Configure(cfg Config)
	Data(nodes []domain.ChartNode)
	ExpandAll()
	CollapseAll()
	Render()
	Fit()
}

// Frame is what a client needs to bring its chart up to date.
type Frame struct {
	Commands []Command          `json:"commands"`
	Nodes    []domain.ChartNode `json:"nodes"`
	Warnings []string           `json:"warnings,omitempty"`
}

// Recorder implements Chart by recording calls into a Frame for the client to
// replay.
type Recorder struct {
	frame Frame
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{frame: Frame{Commands: []Command{}, Nodes: []domain.ChartNode{}}}
}

func (r *Recorder) Configure(cfg Config) {
	r.frame.Commands = append(r.frame.Commands, Command{Op: OpConfigure, Config: &cfg})
}

func (r *Recorder) Data(nodes []domain.ChartNode) {
	r.frame.Nodes = nodes
	r.frame.Commands = append(r.frame.Commands, Command{Op: OpData})
}

func (r *Recorder) ExpandAll()   { r.record(OpExpandAll) }
func (r *Recorder) CollapseAll() { r.record(OpCollapseAll) }
func (r *Recorder) Render()      { r.record(OpRender) }
func (r *Recorder) Fit()         { r.record(OpFit) }

func (r *Recorder) record(op Op) {
	r.frame.Commands = append(r.frame.Commands, Command{Op: op})
}

// Frame returns what has been recorded so far.
func (r *Recorder) Frame() Frame {
	return r.frame
}

// Action is a user action that ends in a render.
type Action string

const (
	ActionRefresh     Action = "refresh"
	ActionExpandAll   Action = "expand_all"
	ActionCollapseAll Action = "collapse_all"
)

// Adapter translates visible rosters and actions into chart calls.
type Adapter struct {
	config   Config
	template *NodeTemplate
}

// NewAdapter builds an adapter. A nil template leaves node content empty.
func NewAdapter(cfg Config, tmpl *NodeTemplate) *Adapter {
	return &Adapter{config: cfg, template: tmpl}
}

// Config returns the chart configuration.
func (a *Adapter) Config() Config {
	return a.config
}

// Apply drives chart for one action. The chart is configured only when first
// is set; afterwards it is fed data. Every action ends with a layout pass and
// a fit to the viewport.
func (a *Adapter) Apply(c Chart, action Action, nodes []domain.ChartNode, first bool) error {
	if a.template != nil {
		if err := a.template.Fill(nodes, a.config); err != nil {
			return err
		}
	}
	if first {
		c.Configure(a.config)
	}
	c.Data(nodes)
	switch action {
	case ActionExpandAll:
		c.ExpandAll()
	case ActionCollapseAll:
		c.CollapseAll()
	}
	c.Render()
	c.Fit()
	return nil
}
