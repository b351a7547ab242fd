//go:build js
// +build js

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"syscall/js"

	"github.com/JackWithOneEye/flowcanvas/cmd/web"
	"github.com/JackWithOneEye/flowcanvas/internal/controls"
	"github.com/JackWithOneEye/flowcanvas/internal/geom"
	"github.com/JackWithOneEye/flowcanvas/internal/protocol"
	"github.com/coder/websocket"
)

var (
	ctx    = context.Background()
	conn   *websocket.Conn
	outbox = make(chan []byte, 256)

	document = js.Global().Get("document")

	globals = web.Globals{}
	last    protocol.Output

	cancelAnimationFrame  = js.Global().Get("cancelAnimationFrame")
	requestAnimationFrame = js.Global().Get("requestAnimationFrame")

	drawHandle = js.Null()
	drawFunc   = js.FuncOf(func(this js.Value, args []js.Value) any {
		paint(last)
		drawHandle = js.Null()
		return js.Undefined()
	})
)

type elements struct {
	app, viewport, content     js.Value
	pattern, dot               js.Value
	zoomIn, zoomOut, zoomLabel js.Value
	fitView                    js.Value
}

var el elements

type listener struct {
	target js.Value
	kind   string
	fn     js.Func
}

var listeners []listener

func on(target js.Value, kind string, passive bool, fn func(ev js.Value)) {
	f := js.FuncOf(func(this js.Value, args []js.Value) any {
		fn(args[0])
		return js.Undefined()
	})
	target.Call("addEventListener", kind, f, map[string]any{"passive": passive})
	listeners = append(listeners, listener{target, kind, f})
}

func main() {
	defer func() {
		for _, l := range listeners {
			l.target.Call("removeEventListener", l.kind, l.fn)
			l.fn.Release()
		}
		drawFunc.Release()
	}()

	el = elements{
		app:       document.Call("getElementById", "app"),
		viewport:  document.Call("getElementById", "viewport"),
		content:   document.Call("getElementById", "content"),
		pattern:   document.Call("getElementById", "dots"),
		zoomIn:    document.Call("getElementById", "zoom-in"),
		zoomOut:   document.Call("getElementById", "zoom-out"),
		zoomLabel: document.Call("getElementById", "zoom-label"),
		fitView:   document.Call("getElementById", "fit-view"),
	}
	el.dot = el.pattern.Call("querySelector", "circle")

	if err := json.Unmarshal([]byte(el.app.Get("dataset").Get("globals").String()), &globals); err != nil {
		log.Fatalf("could not parse globals: %s", err)
	}

	var err error
	conn, _, err = websocket.Dial(ctx, globals.SessionPath, &websocket.DialOptions{})
	if err != nil {
		log.Fatalf("websocket dial failed: %s", err)
	}
	log.Println("WS CONN OPEN")
	go writeLoop()

	bindViewport()
	bindControls()
	observeSizes()

	for {
		_, b, err := conn.Read(ctx)
		if err != nil {
			log.Fatalf("could not read from websocket: %s", err)
		}
		var o protocol.Output
		if err := o.Decode(b); err != nil {
			log.Fatalf("could not decode data: %s", err)
		}
		last = o
		draw()
	}
}

func draw() {
	if !drawHandle.IsNull() {
		cancelAnimationFrame.Invoke(drawHandle)
	}
	drawHandle = requestAnimationFrame.Invoke(drawFunc)
}

// paint applies a frame to the DOM.
func paint(o protocol.Output) {
	el.content.Get("style").Set("transform", o.Transform())

	tile := globals.Background.At(o.State)
	setAttrs(el.pattern, map[string]any{
		"x":      tile.X,
		"y":      tile.Y,
		"width":  tile.Size,
		"height": tile.Size,
	})
	setAttrs(el.dot, map[string]any{
		"cx": tile.Radius,
		"cy": tile.Radius,
		"r":  tile.Radius,
	})

	el.zoomLabel.Set("textContent", controls.Percent(o.Scale))
	el.zoomIn.Set("disabled", globals.Zoom.MaxReached(o.Scale))
	el.zoomOut.Set("disabled", globals.Zoom.MinReached(o.Scale))
	el.viewport.Get("classList").Call("toggle", "dragging", o.Dragging)
}

func setAttrs(v js.Value, attrs map[string]any) {
	for k, a := range attrs {
		v.Call("setAttribute", k, a)
	}
}

func rectOf(v js.Value) geom.Rect {
	r := v.Call("getBoundingClientRect")
	return geom.Rect{
		X:      r.Get("left").Float(),
		Y:      r.Get("top").Float(),
		Width:  r.Get("width").Float(),
		Height: r.Get("height").Float(),
	}
}

func bindViewport() {
	on(el.viewport, "wheel", false, func(ev js.Value) {
		ev.Call("preventDefault")
		send(&protocol.Wheel{
			DeltaX:   ev.Get("deltaX").Float(),
			DeltaY:   ev.Get("deltaY").Float(),
			ShiftKey: ev.Get("shiftKey").Bool(),
		})
	})
	on(el.viewport, "mousedown", true, func(ev js.Value) {
		send(mouse(protocol.MouseDown, ev))
	})
	on(document, "mousemove", true, func(ev js.Value) {
		send(mouse(protocol.MouseMove, ev))
	})
	on(document, "mouseup", true, func(ev js.Value) {
		send(mouse(protocol.MouseUp, ev))
	})
	on(document, "keydown", true, func(ev js.Value) {
		send(&protocol.Key{Down: true, Key: ev.Get("key").String()})
	})
	on(document, "keyup", true, func(ev js.Value) {
		send(&protocol.Key{Down: false, Key: ev.Get("key").String()})
	})

	// palette items are dragged from outside the viewport
	var dragged js.Value
	on(document, "dragstart", true, func(ev js.Value) {
		dragged = ev.Get("target")
		send(drag(protocol.DragStart, ev, dragged))
	})
	on(el.viewport, "dragover", false, func(ev js.Value) {
		ev.Call("preventDefault")
		send(drag(protocol.DragOver, ev, dragged))
	})
	on(el.viewport, "drop", false, func(ev js.Value) {
		ev.Call("preventDefault")
		if dragged.Truthy() {
			addNode(dragged.Get("textContent").String(), ev)
		}
		send(drag(protocol.Drop, ev, dragged))
		dragged = js.Undefined()
	})
	on(document, "dragend", true, func(ev js.Value) {
		send(drag(protocol.DragEnd, ev, dragged))
		dragged = js.Undefined()
	})
}

func mouse(t protocol.MouseType, ev js.Value) *protocol.Mouse {
	return &protocol.Mouse{
		Type:         t,
		Buttons:      uint8(ev.Get("buttons").Int()),
		OnBackground: ev.Get("target").Call("closest", ".node").IsNull(),
		ClientX:      ev.Get("clientX").Float(),
		ClientY:      ev.Get("clientY").Float(),
		MovementX:    ev.Get("movementX").Float(),
		MovementY:    ev.Get("movementY").Float(),
	}
}

func drag(t protocol.DragType, ev js.Value, target js.Value) *protocol.Drag {
	d := &protocol.Drag{
		Type:    t,
		ClientX: ev.Get("clientX").Float(),
		ClientY: ev.Get("clientY").Float(),
		Root:    rectOf(el.viewport),
	}
	if target.Truthy() {
		d.Target = rectOf(target)
	}
	return d
}

var dropped int

// addNode places a copy of the dropped palette item under the pointer, in
// content coordinates.
func addNode(label string, ev js.Value) {
	root := rectOf(el.viewport)
	s := last.State
	if !(s.Scale > 0) {
		return
	}
	x := (ev.Get("clientX").Float() - root.X - s.Scroll.Left) / s.Scale
	y := (ev.Get("clientY").Float() - root.Y - s.Scroll.Top) / s.Scale

	dropped++
	n := document.Call("createElement", "div")
	n.Set("className", "node")
	n.Set("id", fmt.Sprintf("node-dropped-%d", dropped))
	n.Set("textContent", label)
	n.Get("style").Set("left", fmt.Sprintf("%gpx", x))
	n.Get("style").Set("top", fmt.Sprintf("%gpx", y))
	el.content.Call("appendChild", n)
	reportContentSize()
}

func bindControls() {
	buttons := map[string]protocol.CommandType{
		"zoom-in":  protocol.ZoomIn,
		"zoom-out": protocol.ZoomOut,
		"fit-view": protocol.FitView,
	}
	for id, cmd := range buttons {
		on(document.Call("getElementById", id), "click", true, func(js.Value) {
			send(&protocol.Command{Cmd: cmd})
		})
	}
}

// observeSizes reports the viewport size and the content extent whenever
// they change.
func observeSizes() {
	onContainer := js.FuncOf(func(this js.Value, args []js.Value) any {
		entries := args[0]
		for i := range entries.Length() {
			r := entries.Index(i).Get("contentRect")
			send(&protocol.Resize{Target: protocol.Container, Size: geom.Size{
				Width:  r.Get("width").Float(),
				Height: r.Get("height").Float(),
			}})
		}
		return js.Undefined()
	})
	js.Global().Get("ResizeObserver").New(onContainer).Call("observe", el.viewport)

	onContent := js.FuncOf(func(this js.Value, args []js.Value) any {
		reportContentSize()
		return js.Undefined()
	})
	js.Global().Get("ResizeObserver").New(onContent).Call("observe", el.content)
}

// reportContentSize sends the scroll extent of the content layer, which
// includes nodes placed past its layout box.
func reportContentSize() {
	layout := geom.Size{
		Width:  el.content.Get("offsetWidth").Float(),
		Height: el.content.Get("offsetHeight").Float(),
	}
	extent := geom.Size{
		Width:  el.content.Get("scrollWidth").Float(),
		Height: el.content.Get("scrollHeight").Float(),
	}
	send(&protocol.Resize{Target: protocol.Content, Size: layout.Max(extent)})
}

// send queues msg for the writer. Event handlers must not block the JS event
// loop.
func send(msg protocol.ClientMessage) {
	select {
	case outbox <- msg.Encode():
	default:
		log.Printf("outbox full, dropping message")
	}
}

// writeLoop keeps client messages in order.
func writeLoop() {
	for b := range outbox {
		if err := conn.Write(ctx, websocket.MessageBinary, b); err != nil {
			log.Printf("write failed: %s", err)
		}
	}
}
