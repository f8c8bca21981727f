package pax

import "github.com/paxrt/pax/paxel"

// NativeMessageKind enumerates the native message protocol's message types.
// These are the messages the engine emits toward a host embedder each tick
// for state the embedder, not this engine, owns —
// native view occlusion, and incremental text/image/font updates a
// software rasterizer would otherwise have to redraw from scratch.
type NativeMessageKind uint8

const (
	MsgOcclusionUpdate NativeMessageKind = iota
	MsgTextPatch
	MsgImagePatch
	MsgLoadFont
)

// NativeMessage is one envelope of the native message protocol.
// Only the fields relevant to Kind are populated.
type NativeMessage struct {
	Kind    NativeMessageKind
	IDChain IDChain

	// MsgOcclusionUpdate
	Layer OcclusionLayer
	Z     uint32

	// MsgTextPatch
	Text string

	// MsgImagePatch
	ImagePath string

	// MsgLoadFont
	FontFamily string
	FontPath   string
}

// CollectNativeMessages walks the expanded tree after the occlusion phase
// has run and the dispatch phase has applied any text/image bag mutations,
// emitting one message per node carrying a dirty flag, then clears the
// flags it consumed.
func CollectNativeMessages(root *ExpandedNode) []NativeMessage {
	var out []NativeMessage
	var walk func(n *ExpandedNode)
	walk = func(n *ExpandedNode) {
		if n == nil {
			return
		}
		if n.NativeDirty.Occlusion {
			out = append(out, NativeMessage{
				Kind:    MsgOcclusionUpdate,
				IDChain: n.IDChain,
				Layer:   OcclusionLayer(n.OcclusionLayerID),
				Z:       n.ZIndex,
			})
			n.NativeDirty.Occlusion = false
		}
		if n.NativeDirty.Text {
			if v, ok := FieldValue(n.Bag, "text"); ok {
				if s, err := paxel.CoerceString(v); err == nil {
					out = append(out, NativeMessage{Kind: MsgTextPatch, IDChain: n.IDChain, Text: s})
				}
			}
			n.NativeDirty.Text = false
		}
		if n.NativeDirty.Image {
			if v, ok := FieldValue(n.Bag, "src"); ok {
				if s, err := paxel.CoerceString(v); err == nil {
					out = append(out, NativeMessage{Kind: MsgImagePatch, IDChain: n.IDChain, ImagePath: s})
				}
			}
			n.NativeDirty.Image = false
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(root)
	return out
}

// LoadFontMessage builds a MsgLoadFont envelope for the asset pipeline; it
// carries no id chain since fonts are global, not per-node, resources.
func LoadFontMessage(family, path string) NativeMessage {
	return NativeMessage{Kind: MsgLoadFont, FontFamily: family, FontPath: path}
}
