package pax

import (
	"fmt"
	"log/slog"
)

// PointerEvent is the input event shape dispatch hit-tests against. Kind is
// one of "pointer_down", "pointer_up", "pointer_move", "click".
type PointerEvent struct {
	Kind string
	X, Y float64
}

// EventContext is passed to a compiled event handler.
type EventContext struct {
	Node  *ExpandedNode
	Event PointerEvent
}

// HandlerFn is a compiled event handler; returning true stops the event
// from bubbling further.
type HandlerFn func(ctx EventContext) bool

// HandlerTable maps a compiled handler id (InstanceNode.EventHandlers
// value) to its Go closure, the dispatch-side counterpart of paxel.VTable.
type HandlerTable struct {
	entries map[uint32]HandlerFn
}

// NewHandlerTable creates an empty table.
func NewHandlerTable() *HandlerTable {
	return &HandlerTable{entries: make(map[uint32]HandlerFn)}
}

// Register binds id to fn.
func (t *HandlerTable) Register(id uint32, fn HandlerFn) {
	t.entries[id] = fn
}

// HitTest finds the topmost (last-drawn-first) expanded node whose bounds
// contain the point (x, y) in canvas space, along with the ancestor chain
// from root to that node. Children are visited in reverse template order
// so a later (visually on-top) sibling wins ties, mirroring willow's
// reverse-order hit scan in its interaction-event path.
func HitTest(root *ExpandedNode, x, y float64) []*ExpandedNode {
	if root == nil {
		return nil
	}
	var chain []*ExpandedNode
	var walk func(n *ExpandedNode, path []*ExpandedNode) []*ExpandedNode
	walk = func(n *ExpandedNode, path []*ExpandedNode) []*ExpandedNode {
		if !pointInBounds(n, x, y) {
			return nil
		}
		path = append(path, n)
		for i := len(n.Children) - 1; i >= 0; i-- {
			if hit := walk(n.Children[i], path); hit != nil {
				return hit
			}
		}
		return path
	}
	chain = walk(root, nil)
	return chain
}

func pointInBounds(n *ExpandedNode, x, y float64) bool {
	inv, ok := invertAffine(n.TAB.Affine)
	if !ok {
		return false
	}
	lx, ly := TransformPoint(inv, x, y)
	return lx >= 0 && lx <= n.TAB.BoundsW && ly >= 0 && ly <= n.TAB.BoundsH
}

var dispatchLog = newLogGate()

// Dispatch hit-tests ev against root, then bubbles it from the hit target
// up through its ancestors, invoking each ancestor's registered handler for
// ev.Kind (if any) until a handler returns true or the root is reached. A
// handler panic is recovered, logged once per (idChain, kind) pair, and
// treated as non-cancelling so the event keeps bubbling.
func Dispatch(root *ExpandedNode, handlers *HandlerTable, logger *slog.Logger, ev PointerEvent) {
	chain := HitTest(root, ev.X, ev.Y)
	for i := len(chain) - 1; i >= 0; i-- {
		node := chain[i]
		if node.Instance == nil {
			continue
		}
		id, ok := node.Instance.EventHandlers[ev.Kind]
		if !ok {
			continue
		}
		fn, ok := handlers.entries[id]
		if !ok {
			continue
		}
		if invokeHandler(fn, EventContext{Node: node, Event: ev}, node.IDChain.Key(), ev.Kind, logger) {
			return
		}
	}
}

func invokeHandler(fn HandlerFn, ctx EventContext, idChain, kind string, logger *slog.Logger) (stop bool) {
	defer func() {
		if r := recover(); r != nil {
			stop = false
			dispatchLog.logOnce(logger, idChain, "handler_panic:"+kind, fmt.Sprintf("event handler panicked: %v", r))
		}
	}()
	return fn(ctx)
}
