package pax

// OcclusionLayer distinguishes a native-rendered layer (a real platform
// view, e.g. a video or map surface host components hand off to the
// embedder) from an ordinary canvas layer this engine paints itself. The
// z-order/occlusion phase assigns one of these plus a band-local z-index to
// every expanded node in render order.
type OcclusionLayer uint8

const (
	LayerCanvas OcclusionLayer = iota
	LayerNative
)

// OcclusionLayerGen walks the expanded tree in render order and assigns
// each node a layer id and a z-index within its layer's band. This mirrors
// willow's `Scene.traverse`, which assigns an implicit tree-order z-index
// to every node as it emits render commands; this runtime generalizes that
// single band into a native/canvas band split so native-hosted content is
// never interleaved mid-canvas-layer with ordinary drawing.
type OcclusionLayerGen struct {
	nextCanvasZ uint32
	nextNativeZ uint32

	// changed collects the id-chain keys of nodes whose (layer, z) differs
	// from the previous tick's assignment, for the native-messages phase.
	changed map[string]bool
	prior   map[string]assignment
}

type assignment struct {
	layer OcclusionLayer
	z     uint32
}

// NewOcclusionLayerGen creates a generator with empty prior-tick state.
func NewOcclusionLayerGen() *OcclusionLayerGen {
	return &OcclusionLayerGen{prior: make(map[string]assignment)}
}

// isNativeHost reports whether inst hosts a native layer. Host kind is
// named by PascalName in this runtime's primitive set (e.g. "NativeView"),
// since there is no dedicated InstanceKind for it — most primitives are
// ordinary canvas content.
func isNativeHost(inst *InstanceNode) bool {
	return inst != nil && inst.PascalName == "NativeView"
}

// Assign walks root in render (depth-first, child-order) order, assigning
// layer/z-index to every node, and returns the set of id-chain keys whose
// assignment changed since the previous call.
func (g *OcclusionLayerGen) Assign(root *ExpandedNode) map[string]bool {
	g.nextCanvasZ = 0
	g.nextNativeZ = 0
	g.changed = make(map[string]bool)
	if root != nil {
		g.walk(root)
	}
	g.prior = g.snapshot(root)
	return g.changed
}

func (g *OcclusionLayerGen) walk(n *ExpandedNode) {
	var layer OcclusionLayer
	var z uint32
	if isNativeHost(n.Instance) {
		layer = LayerNative
		z = g.nextNativeZ
		g.nextNativeZ++
	} else {
		layer = LayerCanvas
		z = g.nextCanvasZ
		g.nextCanvasZ++
	}
	n.OcclusionLayerID = uint32(layer)
	n.ZIndex = z

	key := n.IDChain.Key()
	if prev, ok := g.prior[key]; !ok || prev.layer != layer || prev.z != z {
		g.changed[key] = true
		n.NativeDirty.Occlusion = true
	}

	for _, c := range n.Children {
		g.walk(c)
	}
}

func (g *OcclusionLayerGen) snapshot(root *ExpandedNode) map[string]assignment {
	out := make(map[string]assignment)
	var rec func(n *ExpandedNode)
	rec = func(n *ExpandedNode) {
		if n == nil {
			return
		}
		out[n.IDChain.Key()] = assignment{layer: OcclusionLayer(n.OcclusionLayerID), z: n.ZIndex}
		for _, c := range n.Children {
			rec(c)
		}
	}
	rec(root)
	return out
}
