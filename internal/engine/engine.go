package engine

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/JackWithOneEye/flowcanvas/internal/autoscroll"
	"github.com/JackWithOneEye/flowcanvas/internal/controls"
	"github.com/JackWithOneEye/flowcanvas/internal/event"
	"github.com/JackWithOneEye/flowcanvas/internal/protocol"
	"github.com/JackWithOneEye/flowcanvas/internal/scheduler"
	"github.com/JackWithOneEye/flowcanvas/internal/viewport"
	"github.com/sirupsen/logrus"
)

type EngineConfig interface {
	AutoScroll() autoscroll.Config
	ZoomPanel() controls.Panel
}

type Engine interface {
	Output() <-chan []byte
	Start()
	State() protocol.Output
	Submit(ctx context.Context, msg protocol.ClientMessage) (protocol.Output, error)
	SubmitMessage(b []byte) error
}

const (
	inboxSize  = 64
	outputSize = 16
)

type request struct {
	msg   protocol.ClientMessage
	reply chan protocol.Output
}

// engine owns one viewport and everything that mutates it. All fields below
// inbox are touched by the Start goroutine only.
type engine struct {
	ctx        context.Context
	now        func() time.Time
	inbox      chan request
	outputChan chan []byte
	state      atomic.Pointer[protocol.Output]

	canvas   *viewport.Canvas
	scroller *autoscroll.Controller
	queue    *scheduler.Queue
	panel    controls.Panel
	root     *event.Bus
	document *event.Bus
	bindings []*event.Group
	last     protocol.Output
}

type Option func(*engine)

// WithClock replaces time.Now for scheduling and for drag events that carry
// no timestamp.
func WithClock(now func() time.Time) Option {
	return func(e *engine) {
		e.now = now
	}
}

func NewEngine(cfg EngineConfig, ctx context.Context, opts ...Option) Engine {
	e := &engine{
		ctx:        ctx,
		now:        time.Now,
		inbox:      make(chan request, inboxSize),
		outputChan: make(chan []byte, outputSize),
		canvas:     viewport.New(),
		queue:      scheduler.NewQueue(),
		panel:      cfg.ZoomPanel(),
		root:       event.NewBus(),
		document:   event.NewBus(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.scroller = autoscroll.New(cfg.AutoScroll(), e.canvas, e.queue, autoscroll.WithClock(e.now))
	e.bindings = []*event.Group{
		e.canvas.Bind(e.root, e.document),
		e.scroller.Bind(e.root),
	}

	e.last = e.snapshot()
	s := e.last
	e.state.Store(&s)
	return e
}

func (e *engine) Output() <-chan []byte {
	return e.outputChan
}

// State returns the last published frame. Safe for concurrent use.
func (e *engine) State() protocol.Output {
	return *e.state.Load()
}

func (e *engine) Start() {
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer func() {
		timer.Stop()
		for _, g := range e.bindings {
			g.Close()
		}
		close(e.outputChan)
	}()

	for {
		var due <-chan time.Time
		if next, ok := e.queue.Next(); ok {
			timer.Reset(max(next.Sub(e.now()), 0))
			due = timer.C
		} else {
			timer.Stop()
		}

		select {
		case <-e.ctx.Done():
			return
		case req := <-e.inbox:
			e.handle(req.msg)
			out := e.publish()
			if req.reply != nil {
				req.reply <- out
			}
		case <-due:
			if n := e.queue.RunDue(e.now()); n > 0 {
				e.publish()
			}
		}
	}
}

// SubmitMessage decodes b and queues it for the loop.
func (e *engine) SubmitMessage(b []byte) error {
	msg, err := protocol.DecodeClientMessage(b)
	if err != nil {
		return fmt.Errorf("decode error: %w", err)
	}
	select {
	case e.inbox <- request{msg: msg}:
		return nil
	case <-e.ctx.Done():
		return fmt.Errorf("submit: %w", e.ctx.Err())
	}
}

// Submit queues msg and waits until the loop has applied it.
func (e *engine) Submit(ctx context.Context, msg protocol.ClientMessage) (protocol.Output, error) {
	req := request{msg: msg, reply: make(chan protocol.Output, 1)}
	select {
	case e.inbox <- req:
	case <-ctx.Done():
		return protocol.Output{}, fmt.Errorf("submit: %w", ctx.Err())
	case <-e.ctx.Done():
		return protocol.Output{}, fmt.Errorf("submit: %w", e.ctx.Err())
	}
	select {
	case out := <-req.reply:
		return out, nil
	case <-ctx.Done():
		return protocol.Output{}, fmt.Errorf("submit: %w", ctx.Err())
	case <-e.ctx.Done():
		return protocol.Output{}, fmt.Errorf("submit: %w", e.ctx.Err())
	}
}

func (e *engine) snapshot() protocol.Output {
	return protocol.Output{State: e.canvas.State(), Phase: e.scroller.Phase()}
}

// publish stores the current frame and sends it to the output channel when
// it differs from the last one.
func (e *engine) publish() protocol.Output {
	out := e.snapshot()
	if out == e.last {
		return out
	}
	e.last = out
	s := out
	e.state.Store(&s)

	select {
	case e.outputChan <- out.Bytes():
	default:
		logrus.WithField("scale", out.Scale).Warn("output channel full, dropping frame")
	}
	return out
}
