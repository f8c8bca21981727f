package pax

import (
	"log/slog"
	"os"

	"github.com/paxrt/pax/paxel"
)

// Engine owns the compiled instance tree, the expression vtable, the event
// handler table, and the previous tick's expanded tree, and runs a
// six-phase tick loop. It plays the role willow's Scene plays
// for a single scene graph, generalized to a property/expansion/
// occlusion/dispatch/native-message/render phase split instead of willow's
// single flat Update.
type Engine struct {
	cfg      Config
	root     *InstanceNode
	vtable   *paxel.VTable
	handlers *HandlerTable
	expander *Expander
	occlGen  *OcclusionLayerGen
	logger   *slog.Logger

	rootBag *PropertiesBag

	inputQueue chan PointerEvent

	frameCount int64

	current *ExpandedNode
	pending []NativeMessage
}

// NewEngine creates an Engine around a compiled instance tree.
func NewEngine(cfg Config, root *InstanceNode, vtable *paxel.VTable, handlers *HandlerTable) *Engine {
	if handlers == nil {
		handlers = NewHandlerTable()
	}
	e := &Engine{
		cfg:        cfg,
		root:       root,
		vtable:     vtable,
		handlers:   handlers,
		expander:   NewExpander(vtable),
		occlGen:    NewOcclusionLayerGen(),
		logger:     slog.New(slog.NewTextHandler(os.Stderr, nil)),
		rootBag:    NewPropertiesBag(),
		inputQueue: make(chan PointerEvent, maxInt(cfg.InputQueueCapacity, 1)),
	}
	e.expander.BindRuntime(e.logger, &e.frameCount)
	return e
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// SetLogger overrides the default stderr text logger.
func (e *Engine) SetLogger(l *slog.Logger) {
	e.logger = l
	e.expander.BindRuntime(l, &e.frameCount)
}

// InputQueue exposes the bounded SPSC channel input is injected onto: a
// single producer (the chassis's input callback, or a test runner) and a
// single consumer (this engine's dispatch phase).
func (e *Engine) InputQueue() chan<- PointerEvent { return e.inputQueue }

// PushInput enqueues ev, dropping the oldest queued event instead of
// blocking if the queue is full.
func (e *Engine) PushInput(ev PointerEvent) {
	select {
	case e.inputQueue <- ev:
	default:
		select {
		case <-e.inputQueue:
		default:
		}
		select {
		case e.inputQueue <- ev:
		default:
		}
	}
}

// Logger returns the engine's logger, for handler code that wants to call
// ExpandedNode.InvertGeometry with the same gated-warning destination the
// engine itself uses.
func (e *Engine) Logger() *slog.Logger { return e.logger }

// Current returns the expanded tree produced by the most recent Tick.
func (e *Engine) Current() *ExpandedNode { return e.current }

// PendingNativeMessages returns the native messages queued by the most
// recent Tick, for a host embedder to drain.
func (e *Engine) PendingNativeMessages() []NativeMessage { return e.pending }

// Tick runs the six phases once: properties, expansion,
// z-order/occlusion, event dispatch, native messages, and finally marks the
// tree ready for the render phase (render itself is driven separately by
// Render, since it needs a concrete sink).
func (e *Engine) Tick() error {
	e.frameCount++

	// Phase 1: properties. There is no separate pass here: property cells
	// persist across ticks inside the expander (keyed by id chain) and are
	// lazily recomputed on Get, which expansion triggers as it resolves
	// each node's settings and common properties. Binding the expander's
	// tick counter to frameCount (done once, in NewEngine) is what lets an
	// in-flight eased transition advance exactly once per tick even though
	// several reads may touch the same cell during expansion.

	// Phase 2: expansion.
	expanded, err := e.expander.ExpandRoot(e.root, e.rootBag, e.cfg.CanvasWidth, e.cfg.CanvasHeight)
	if err != nil {
		return err
	}
	e.current = expanded

	// Phase 3: z-order / occlusion.
	if e.current != nil {
		e.occlGen.Assign(e.current)
	}

	// Phase 4: event dispatch, draining every event queued since the last
	// tick in arrival order.
	e.drainInput()

	// Phase 5: native messages.
	if e.current != nil {
		e.pending = CollectNativeMessages(e.current)
	} else {
		e.pending = nil
	}

	return nil
}

func (e *Engine) drainInput() {
	for {
		select {
		case ev := <-e.inputQueue:
			Dispatch(e.current, e.handlers, e.logger, ev)
		default:
			return
		}
	}
}

// Render feeds the current expanded tree's render-order command stream
// into sink.
func (e *Engine) Render(sink RenderSink) {
	if e.current == nil {
		return
	}
	Render(sink, Traverse(e.current))
}
