package pax

import "testing"

func TestInstanceNodeAddChildAppendsInOrder(t *testing.T) {
	root := NewInstanceNode(0, InstanceComponent, "Root")
	a := NewInstanceNode(1, InstancePrimitive, "A")
	b := NewInstanceNode(2, InstancePrimitive, "B")
	root.AddChild(a)
	root.AddChild(b)

	if len(root.Children) != 2 || root.Children[0] != a || root.Children[1] != b {
		t.Errorf("children = %v, want [a b] in insertion order", root.Children)
	}
}

func TestNewInstanceNodeInitializesMaps(t *testing.T) {
	n := NewInstanceNode(5, InstancePrimitive, "Rect")
	if n.Settings == nil || n.EventHandlers == nil {
		t.Error("expected Settings and EventHandlers to be initialized, not nil")
	}
}
