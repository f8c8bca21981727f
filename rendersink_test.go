package pax

import (
	"testing"

	"github.com/paxrt/pax/paxel"
)

func TestTraverseEmitsParentBeforeChildren(t *testing.T) {
	child := &ExpandedNode{IDChain: buildChain(0, 1), TAB: IdentityTAB(10, 10)}
	root := &ExpandedNode{IDChain: buildChain(0), TAB: IdentityTAB(100, 100), Children: []*ExpandedNode{child}}

	cmds := Traverse(root)
	if len(cmds) != 2 {
		t.Fatalf("expected 2 commands, got %d", len(cmds))
	}
	if cmds[0].IDChain.Key() != root.IDChain.Key() {
		t.Error("expected root's command to be emitted before its child's")
	}
	if cmds[1].IDChain.Key() != child.IDChain.Key() {
		t.Error("expected child's command second")
	}
}

type recordingSink struct {
	fills int
	saves int
}

func (s *recordingSink) Save()                  { s.saves++ }
func (s *recordingSink) Restore()                {}
func (s *recordingSink) Clip(x, y, w, h float64) {}
func (s *recordingSink) Fill(x, y, w, h float64, c paxel.Color) { s.fills++ }
func (s *recordingSink) Stroke(x, y, w, h float64, c paxel.Color, width float64) {}
func (s *recordingSink) DrawText(x, y float64, text, family string, size float64, c paxel.Color) {}
func (s *recordingSink) DrawImage(path string, affine [6]float64) {}
func (s *recordingSink) LoadImage(path string) error               { return nil }
func (s *recordingSink) Transform(m [6]float64)                    {}

func TestRenderFeedsEveryCommandThroughSaveRestore(t *testing.T) {
	child := &ExpandedNode{IDChain: buildChain(0, 1), TAB: IdentityTAB(10, 10)}
	root := &ExpandedNode{IDChain: buildChain(0), TAB: IdentityTAB(100, 100), Children: []*ExpandedNode{child}}

	sink := &recordingSink{}
	Render(sink, Traverse(root))

	if sink.saves != 2 {
		t.Errorf("saves = %d, want 2 (one per command)", sink.saves)
	}
	if sink.fills != 2 {
		t.Errorf("fills = %d, want 2 (both nodes default to CmdFill)", sink.fills)
	}
}
