package pax

import (
	"testing"

	"github.com/paxrt/pax/paxel"
)

func literalSetting(v paxel.Value) SettingValue {
	vv := v
	return SettingValue{Literal: &vv}
}

func TestExpandPrimitiveResolvesCommonProperties(t *testing.T) {
	vt := paxel.NewVTable()
	ex := NewExpander(vt)

	rect := NewInstanceNode(1, InstancePrimitive, "Rect")
	rect.Settings["width"] = literalSetting(paxel.SizeOf(paxel.Px(50)))
	rect.Settings["height"] = literalSetting(paxel.SizeOf(paxel.Px(30)))

	root := NewInstanceNode(0, InstanceComponent, "Root")
	root.AddChild(rect)

	node, err := ex.ExpandRoot(root, NewPropertiesBag(), 200, 100)
	if err != nil {
		t.Fatalf("ExpandRoot: %v", err)
	}
	if len(node.Children) != 1 {
		t.Fatalf("expected 1 child, got %d", len(node.Children))
	}
	child := node.Children[0]
	if child.TAB.BoundsW != 50 || child.TAB.BoundsH != 30 {
		t.Errorf("child bounds = (%v, %v), want (50, 30)", child.TAB.BoundsW, child.TAB.BoundsH)
	}
}

func TestExpandIfOmitsChildrenWhenFalse(t *testing.T) {
	vt := paxel.NewVTable()
	vt.Register(1, func(ctx paxel.ExpressionContext) paxel.Value { return paxel.Bool(false) })
	ex := NewExpander(vt)

	ifNode := NewInstanceNode(2, InstanceIf, "")
	ifNode.ControlFlow.CondExprID = 1
	ifNode.AddChild(NewInstanceNode(3, InstancePrimitive, "Rect"))

	root := NewInstanceNode(0, InstanceComponent, "Root")
	root.AddChild(ifNode)

	node, err := ex.ExpandRoot(root, NewPropertiesBag(), 100, 100)
	if err != nil {
		t.Fatalf("ExpandRoot: %v", err)
	}
	if len(node.Children) != 0 {
		t.Errorf("expected if(false) to produce no children, got %d", len(node.Children))
	}
}

func TestExpandForProducesOneNodePerElement(t *testing.T) {
	vt := paxel.NewVTable()
	vt.Register(1, func(ctx paxel.ExpressionContext) paxel.Value {
		return paxel.Vector([]paxel.Value{paxel.Num(1), paxel.Num(2), paxel.Num(3)})
	})
	ex := NewExpander(vt)

	forNode := NewInstanceNode(2, InstanceFor, "")
	forNode.ControlFlow.SourceExprID = 1
	forNode.ControlFlow.ElemName = "item"
	forNode.ControlFlow.IndexName = "i"
	forNode.AddChild(NewInstanceNode(3, InstancePrimitive, "Rect"))

	root := NewInstanceNode(0, InstanceComponent, "Root")
	root.AddChild(forNode)

	node, err := ex.ExpandRoot(root, NewPropertiesBag(), 100, 100)
	if err != nil {
		t.Fatalf("ExpandRoot: %v", err)
	}
	if len(node.Children) != 3 {
		t.Fatalf("expected 3 children from a 3-element source, got %d", len(node.Children))
	}
	// Each iteration must carry a distinct id chain, keyed by repeat index.
	seen := map[string]bool{}
	for _, c := range node.Children {
		key := c.IDChain.Key()
		if seen[key] {
			t.Errorf("duplicate id chain %s across for-loop iterations", key)
		}
		seen[key] = true
	}
}

func TestExpandSlotForwardsUseSiteChildren(t *testing.T) {
	vt := paxel.NewVTable()
	ex := NewExpander(vt)

	slot := NewInstanceNode(10, InstanceSlot, "")
	slot.ControlFlow.Index = 0

	panelBody := NewInstanceNode(1, InstanceComponent, "Panel")
	panelBody.AddChild(slot)
	panelBody.SlotContent = []*InstanceNode{NewInstanceNode(20, InstancePrimitive, "Rect")}

	root := NewInstanceNode(0, InstanceComponent, "Root")
	root.AddChild(panelBody)

	node, err := ex.ExpandRoot(root, NewPropertiesBag(), 100, 100)
	if err != nil {
		t.Fatalf("ExpandRoot: %v", err)
	}
	panel := node.Children[0]
	if len(panel.Children) != 1 {
		t.Fatalf("expected slot to forward 1 adoptee, got %d", len(panel.Children))
	}
	if panel.Children[0].Instance.PascalName != "Rect" {
		t.Errorf("forwarded child = %s, want Rect", panel.Children[0].Instance.PascalName)
	}
}
