package pax

import "github.com/paxrt/pax/paxel"

// RenderSink is the render phase's output trait: a sequence of
// immediate-mode drawing calls plus a save/restore stack for clip regions,
// independent of any particular graphics backend. CommandType/RenderCommand
// in this ecosystem's reference renderer play the same role for a single
// concrete backend; this interface generalizes that shape so the engine
// can target any backend that implements it.
type RenderSink interface {
	Save()
	Restore()
	Clip(x, y, w, h float64)

	Fill(x, y, w, h float64, c paxel.Color)
	Stroke(x, y, w, h float64, c paxel.Color, width float64)
	DrawText(x, y float64, text string, fontFamily string, size float64, c paxel.Color)

	// DrawImage draws the image previously loaded under path at the given
	// transform; LoadImage is a pull, not push, request — the asset loader
	// is read on demand, not pre-pushed to the sink.
	DrawImage(path string, affine [6]float64)
	LoadImage(path string) error

	// Transform composes m onto the sink's current transform for the
	// following draw calls, restored by the matching Restore.
	Transform(m [6]float64)
}

// RenderCommandType enumerates the command stream a sink-agnostic render
// pass emits, mirroring the reference renderer's CommandType/RenderCommand
// pair before being fed to a concrete RenderSink.
type RenderCommandType uint8

const (
	CmdFill RenderCommandType = iota
	CmdStroke
	CmdText
	CmdImage
	CmdSave
	CmdRestore
	CmdClip
)

// RenderCommand is one entry of the render-order command stream built by
// Traverse, matching the reference renderer's flattened per-node command
// shape (affine32-equivalent transform plus a color/ text/path payload).
type RenderCommand struct {
	Type       RenderCommandType
	IDChain    IDChain
	Affine     [6]float64
	X, Y, W, H float64
	Color      paxel.Color
	StrokeW    float64
	Text       string
	FontFamily string
	FontSize   float64
	ImagePath  string
}

// Traverse walks the expanded tree in render order (parent before children,
// children in template order) and emits one RenderCommand per node's paint
// step, the same order willow's Scene.traverse emits commands for z-index
// and culling purposes.
func Traverse(root *ExpandedNode) []RenderCommand {
	var out []RenderCommand
	var walk func(n *ExpandedNode)
	walk = func(n *ExpandedNode) {
		if n == nil {
			return
		}
		out = append(out, nodeCommand(n))
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(root)
	return out
}

func nodeCommand(n *ExpandedNode) RenderCommand {
	cmd := RenderCommand{IDChain: n.IDChain, Affine: n.TAB.Affine, W: n.TAB.BoundsW, H: n.TAB.BoundsH}
	if n.Instance == nil {
		cmd.Type = CmdFill
		return cmd
	}
	switch n.Instance.PascalName {
	case "Text":
		cmd.Type = CmdText
		if v, ok := FieldValue(n.Bag, "text"); ok {
			if s, err := paxel.CoerceString(v); err == nil {
				cmd.Text = s
			}
		}
	case "Image":
		cmd.Type = CmdImage
		if v, ok := FieldValue(n.Bag, "src"); ok {
			if s, err := paxel.CoerceString(v); err == nil {
				cmd.ImagePath = s
			}
		}
	default:
		cmd.Type = CmdFill
		if v, ok := FieldValue(n.Bag, "fill"); ok {
			if c, err := paxel.CoerceColor(v); err == nil {
				cmd.Color = c
			}
		}
	}
	return cmd
}

// Render feeds a command stream into a concrete sink, wrapping each command
// in Save, Transform(per-command affine) and Restore. CmdSave, CmdRestore
// and CmdClip entries issue no sink call of their own.
func Render(sink RenderSink, commands []RenderCommand) {
	for _, c := range commands {
		sink.Save()
		sink.Transform(c.Affine)
		switch c.Type {
		case CmdFill:
			sink.Fill(0, 0, c.W, c.H, c.Color)
		case CmdStroke:
			sink.Stroke(0, 0, c.W, c.H, c.Color, c.StrokeW)
		case CmdText:
			sink.DrawText(0, 0, c.Text, c.FontFamily, c.FontSize, c.Color)
		case CmdImage:
			if err := sink.LoadImage(c.ImagePath); err == nil {
				sink.DrawImage(c.ImagePath, c.Affine)
			}
		}
		sink.Restore()
	}
}
