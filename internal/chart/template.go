package chart

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/spec-kit/orgchart-viewer/internal/domain"
)

const (
	cardBorder     = "#E4E2E9"
	cardBackground = "#FFFFFF"
	imageOffset    = 27
)

const nodeCardHTML = `<div style="width:{{.Width}}px;height:{{.Height}}px;padding-top:{{.PadTop}}px;padding-left:1px;padding-right:1px">
<div style="font-family:'Inter',sans-serif;background-color:{{.Background}};margin-left:-1px;width:{{.InnerWidth}}px;height:{{.InnerHeight}}px;border-radius:10px;border:{{.BorderWidth}}px solid {{.Border}}">
<div style="display:flex;justify-content:flex-end;margin-top:5px;margin-right:8px">#{{.Node.ID}}</div>
<div style="background-color:{{.Background}};margin-top:{{.AvatarTop}}px;margin-left:15px;border-radius:100px;width:50px;height:50px"></div>
<div style="margin-top:{{.AvatarTop}}px">{{if .Node.Image}}<img src="{{.Node.Image}}" style="margin-left:20px;border-radius:100px;width:40px;height:40px"/>{{end}}</div>
<div style="font-size:15px;color:#08011E;margin-left:20px;margin-top:10px">{{.Node.Name}}</div>
<div style="color:#716E7B;margin-left:20px;margin-top:3px;font-size:10px">{{.Node.Position}}</div>
</div>
</div>`

// NodeTemplate renders the HTML card of each chart node.
type NodeTemplate struct {
	tmpl *template.Template
}

// NewNodeTemplate parses the card template.
func NewNodeTemplate() (*NodeTemplate, error) {
	tmpl, err := template.New("node").Parse(nodeCardHTML)
	if err != nil {
		return nil, fmt.Errorf("parse node template: %w", err)
	}
	return &NodeTemplate{tmpl: tmpl}, nil
}

type cardView struct {
	Node        domain.ChartNode
	Width       int
	Height      int
	InnerWidth  int
	InnerHeight int
	PadTop      int
	AvatarTop   int
	Background  string
	Border      template.CSS
	BorderWidth int
}

// Render returns the card HTML for one node.
func (t *NodeTemplate) Render(node domain.ChartNode, cfg Config) (string, error) {
	view := cardView{
		Node:        node,
		Width:       cfg.NodeWidth,
		Height:      cfg.NodeHeight,
		InnerWidth:  cfg.NodeWidth - 2,
		InnerHeight: cfg.NodeHeight - imageOffset,
		PadTop:      imageOffset - 2,
		AvatarTop:   -imageOffset - 20,
		Background:  cardBackground,
		Border:      template.CSS(cardBorder),
		BorderWidth: 1,
	}
	if node.Highlighted {
		view.BorderWidth = 3
		view.Border = template.CSS(highlightBorder(node))
	}

	var buf bytes.Buffer
	if err := t.tmpl.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("render node %s: %w", node.ID, err)
	}
	return buf.String(), nil
}

// Fill renders the content of every node in place.
func (t *NodeTemplate) Fill(nodes []domain.ChartNode, cfg Config) error {
	for i := range nodes {
		content, err := t.Render(nodes[i], cfg)
		if err != nil {
			return err
		}
		nodes[i].Content = content
	}
	return nil
}

// highlightBorder picks the department color, or the search highlight color.
func highlightBorder(node domain.ChartNode) string {
	if node.HighlightColor != "" {
		return node.HighlightColor
	}
	return "#E27396"
}
