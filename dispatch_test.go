package pax

import (
	"log/slog"
	"testing"
)

func rectNode(chain IDChain, x, y, w, h float64, handlerID *uint32, kind string) *ExpandedNode {
	inst := NewInstanceNode(1, InstancePrimitive, "Rect")
	if handlerID != nil {
		inst.EventHandlers[kind] = *handlerID
	}
	return &ExpandedNode{
		IDChain:  chain,
		Instance: inst,
		Bag:      NewPropertiesBag(),
		TAB:      TransformAndBounds{Affine: translationAffine(x, y), BoundsW: w, BoundsH: h},
	}
}

func TestHitTestPicksTopmostOverlappingChild(t *testing.T) {
	bottom := rectNode(buildChain(1), 0, 0, 100, 100, nil, "")
	top := rectNode(buildChain(2), 0, 0, 100, 100, nil, "")
	root := &ExpandedNode{IDChain: buildChain(0), TAB: IdentityTAB(100, 100), Children: []*ExpandedNode{bottom, top}}

	chain := HitTest(root, 50, 50)
	if len(chain) == 0 {
		t.Fatal("expected a hit")
	}
	if chain[len(chain)-1] != top {
		t.Error("expected the last (topmost, visually on-top) sibling to win the hit test")
	}
}

func TestHitTestMissesOutsideBounds(t *testing.T) {
	node := rectNode(buildChain(1), 0, 0, 10, 10, nil, "")
	root := &ExpandedNode{IDChain: buildChain(0), TAB: IdentityTAB(100, 100), Children: []*ExpandedNode{node}}
	chain := HitTest(root, 50, 50)
	if len(chain) != 1 || chain[0] != root {
		t.Errorf("expected only the root to match outside the child's bounds, got chain of length %d", len(chain))
	}
}

func TestDispatchBubblesUntilHandlerStops(t *testing.T) {
	var order []string
	handlers := NewHandlerTable()
	handlers.Register(1, func(ctx EventContext) bool {
		order = append(order, "child")
		return false
	})
	handlers.Register(2, func(ctx EventContext) bool {
		order = append(order, "parent")
		return true
	})

	childID, parentID := uint32(1), uint32(2)
	child := rectNode(buildChain(0, 1), 0, 0, 50, 50, &childID, "click")
	parent := rectNode(buildChain(0), 0, 0, 100, 100, &parentID, "click")
	parent.TAB = IdentityTAB(100, 100)
	parent.Children = []*ExpandedNode{child}

	logger := slog.Default()
	Dispatch(parent, handlers, logger, PointerEvent{Kind: "click", X: 10, Y: 10})

	if len(order) != 2 || order[0] != "child" || order[1] != "parent" {
		t.Errorf("dispatch order = %v, want [child parent]", order)
	}
}

func TestDispatchRecoversHandlerPanic(t *testing.T) {
	handlers := NewHandlerTable()
	handlers.Register(1, func(ctx EventContext) bool {
		panic("boom")
	})
	id := uint32(1)
	node := rectNode(buildChain(0), 0, 0, 100, 100, &id, "click")
	node.TAB = IdentityTAB(100, 100)

	logger := slog.Default()
	// Must not panic out of Dispatch.
	Dispatch(node, handlers, logger, PointerEvent{Kind: "click", X: 10, Y: 10})
}
