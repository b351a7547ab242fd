// Package web renders the browser page that hosts the wasm viewport.
//
//go:generate templ generate
package web

import (
	"fmt"

	"github.com/JackWithOneEye/flowcanvas/internal/autoscroll"
	"github.com/JackWithOneEye/flowcanvas/internal/background"
	"github.com/JackWithOneEye/flowcanvas/internal/controls"
)

// Globals are the client-side defaults, served at /globals and embedded in
// the page.
type Globals struct {
	AutoScroll  autoscroll.Config  `json:"autoScroll"`
	Zoom        controls.Panel     `json:"zoom"`
	Background  background.Pattern `json:"background"`
	SessionPath string             `json:"sessionPath"`
}

type diagramNode struct {
	id, label string
	x, y      int
}

func (n diagramNode) elementID() string {
	return "node-" + n.id
}

func (n diagramNode) style() string {
	return fmt.Sprintf("left:%dpx;top:%dpx", n.x, n.y)
}

// A sample diagram so there is something to pan across.
var sampleNodes = []diagramNode{
	{"start", "Start", 80, 80},
	{"fetch", "Fetch", 420, 160},
	{"decide", "Decide", 760, 80},
	{"end", "End", 1100, 320},
}

var paletteItems = []string{"Task", "Gateway", "Event"}
