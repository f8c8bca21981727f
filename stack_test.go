package pax

import (
	"testing"

	"github.com/paxrt/pax/paxel"
)

func TestFrameResolveWalksFieldPath(t *testing.T) {
	bag := NewPropertiesBag()
	bag.Fields["origin"] = map[string]any{"x": paxel.Num(3)}
	frame := RootFrame(bag)

	v, err := frame.Resolve(paxel.InvocationSpec{RootIdentifier: "origin", StackOffset: 0, FieldPath: []string{"origin", "x"}})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if v.Num != 3 {
		t.Errorf("Resolve(origin.x) = %v, want 3", v.Num)
	}
}

func TestFrameResolveUsesStackOffsetNotUpwardSearch(t *testing.T) {
	parentBag := NewPropertiesBag()
	parentBag.Fields["name"] = paxel.Str("parent")
	parent := RootFrame(parentBag)

	childBag := NewPropertiesBag()
	childBag.Fields["name"] = paxel.Str("child")
	child := parent.Push(childBag)

	v, err := child.Resolve(paxel.InvocationSpec{RootIdentifier: "name", StackOffset: 0, FieldPath: []string{"name"}})
	if err != nil {
		t.Fatalf("Resolve(offset 0): %v", err)
	}
	if s, _ := paxel.CoerceString(v); s != "child" {
		t.Errorf("Resolve(offset 0) = %v, want child", s)
	}

	v, err = child.Resolve(paxel.InvocationSpec{RootIdentifier: "name", StackOffset: 1, FieldPath: []string{"name"}})
	if err != nil {
		t.Fatalf("Resolve(offset 1): %v", err)
	}
	if s, _ := paxel.CoerceString(v); s != "parent" {
		t.Errorf("Resolve(offset 1) = %v, want parent", s)
	}
}

func TestFrameResolveMissingFieldErrors(t *testing.T) {
	frame := RootFrame(NewPropertiesBag())
	_, err := frame.Resolve(paxel.InvocationSpec{RootIdentifier: "missing", StackOffset: 0, FieldPath: []string{"missing"}})
	if err == nil {
		t.Fatal("expected a ResolveError for an unset field")
	}
	if _, ok := err.(*ResolveError); !ok {
		t.Errorf("error type = %T, want *ResolveError", err)
	}
}

func TestFrameLocalsShadowBagFields(t *testing.T) {
	bag := NewPropertiesBag()
	shadowed := NewPropertiesBag()
	shadowed.Fields["elem"] = paxel.Num(1)
	frame := RootFrame(bag).Push(shadowed).WithLocals(map[string]func() paxel.Value{
		"elem": func() paxel.Value { return paxel.Num(9) },
	})
	v, err := frame.Resolve(paxel.InvocationSpec{RootIdentifier: "elem", StackOffset: 0, FieldPath: []string{"elem"}})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if v.Num != 9 {
		t.Errorf("Resolve(elem) = %v, want 9", v.Num)
	}
}
