package pax

import "testing"

func buildChain(ids ...uint64) IDChain {
	var c IDChain
	for _, id := range ids {
		c = c.Child(id)
	}
	return c
}

func TestOcclusionLayerGenAssignsIncreasingCanvasZIndex(t *testing.T) {
	root := &ExpandedNode{IDChain: buildChain(0)}
	a := &ExpandedNode{IDChain: buildChain(0, 1)}
	b := &ExpandedNode{IDChain: buildChain(0, 2)}
	root.Children = []*ExpandedNode{a, b}

	g := NewOcclusionLayerGen()
	g.Assign(root)

	if a.ZIndex >= b.ZIndex {
		t.Errorf("expected a.ZIndex (%d) < b.ZIndex (%d) in render order", a.ZIndex, b.ZIndex)
	}
	if a.OcclusionLayerID != uint32(LayerCanvas) || b.OcclusionLayerID != uint32(LayerCanvas) {
		t.Error("expected ordinary nodes to land in the canvas layer")
	}
}

func TestOcclusionLayerGenSeparatesNativeHosts(t *testing.T) {
	native := &ExpandedNode{
		IDChain:  buildChain(0, 1),
		Instance: &InstanceNode{PascalName: "NativeView"},
	}
	canvasNode := &ExpandedNode{IDChain: buildChain(0, 2)}
	root := &ExpandedNode{IDChain: buildChain(0), Children: []*ExpandedNode{native, canvasNode}}

	g := NewOcclusionLayerGen()
	g.Assign(root)

	if native.OcclusionLayerID != uint32(LayerNative) {
		t.Error("expected NativeView host to land in the native layer")
	}
	if canvasNode.OcclusionLayerID != uint32(LayerCanvas) {
		t.Error("expected ordinary node to stay in the canvas layer")
	}
}

func TestOcclusionLayerGenOnlyFlagsChangedAssignments(t *testing.T) {
	a := &ExpandedNode{IDChain: buildChain(0, 1)}
	root := &ExpandedNode{IDChain: buildChain(0), Children: []*ExpandedNode{a}}

	g := NewOcclusionLayerGen()
	changed := g.Assign(root)
	if !changed[a.IDChain.Key()] {
		t.Error("expected first assignment to be reported as changed")
	}

	a.NativeDirty.Occlusion = false
	changed = g.Assign(root)
	if changed[a.IDChain.Key()] {
		t.Error("expected stable assignment on second pass to not be reported as changed")
	}
}
