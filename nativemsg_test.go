package pax

import "testing"

func TestCollectNativeMessagesEmitsAndClearsOcclusionFlag(t *testing.T) {
	node := &ExpandedNode{IDChain: buildChain(0, 1), Bag: NewPropertiesBag()}
	node.NativeDirty.Occlusion = true
	root := &ExpandedNode{IDChain: buildChain(0), Bag: NewPropertiesBag(), Children: []*ExpandedNode{node}}

	msgs := CollectNativeMessages(root)
	if len(msgs) != 1 || msgs[0].Kind != MsgOcclusionUpdate {
		t.Fatalf("messages = %+v, want a single MsgOcclusionUpdate", msgs)
	}
	if node.NativeDirty.Occlusion {
		t.Error("expected the occlusion-dirty flag to be cleared after collection")
	}

	// A second collection with no new dirty state should emit nothing.
	if msgs = CollectNativeMessages(root); len(msgs) != 0 {
		t.Errorf("expected no messages on the second pass, got %d", len(msgs))
	}
}

func TestCollectNativeMessagesEmitsTextPatch(t *testing.T) {
	bag := NewPropertiesBag()
	bag.Fields["text"] = "hello"
	node := &ExpandedNode{IDChain: buildChain(0), Bag: bag}
	node.NativeDirty.Text = true

	msgs := CollectNativeMessages(node)
	if len(msgs) != 1 || msgs[0].Kind != MsgTextPatch || msgs[0].Text != "hello" {
		t.Fatalf("messages = %+v, want a single MsgTextPatch{Text: hello}", msgs)
	}
}
