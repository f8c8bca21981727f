package pax

import (
	"testing"

	"github.com/paxrt/pax/paxel"
)

func TestRunScriptPassesOnMatchingAssertion(t *testing.T) {
	vt := paxel.NewVTable()
	rect := NewInstanceNode(1, InstancePrimitive, "Rect")
	rect.Settings["width"] = literalSetting(paxel.SizeOf(paxel.Px(40)))
	rect.Settings["height"] = literalSetting(paxel.SizeOf(paxel.Px(40)))
	root := NewInstanceNode(0, InstanceComponent, "Root")
	root.AddChild(rect)

	cfg := DefaultConfig()
	engine := NewEngine(cfg, root, vt, nil)

	childKey := buildChain(0).Child(1).Key()
	script, err := ParseScript([]byte(`{"steps":[{"ticks":1,"assert":[{"id_chain":"` + childKey + `","field":"width","equals":40}]}]}`))
	if err != nil {
		t.Fatalf("ParseScript: %v", err)
	}

	failures, err := RunScript(engine, script)
	if err != nil {
		t.Fatalf("RunScript: %v", err)
	}
	if len(failures) != 0 {
		t.Errorf("failures = %v, want none", failures)
	}
}

func TestRunScriptReportsMismatch(t *testing.T) {
	vt := paxel.NewVTable()
	rect := NewInstanceNode(1, InstancePrimitive, "Rect")
	rect.Settings["width"] = literalSetting(paxel.SizeOf(paxel.Px(40)))
	root := NewInstanceNode(0, InstanceComponent, "Root")
	root.AddChild(rect)

	engine := NewEngine(DefaultConfig(), root, vt, nil)
	childKey := buildChain(0).Child(1).Key()
	script, err := ParseScript([]byte(`{"steps":[{"ticks":1,"assert":[{"id_chain":"` + childKey + `","field":"width","equals":999}]}]}`))
	if err != nil {
		t.Fatalf("ParseScript: %v", err)
	}

	failures, err := RunScript(engine, script)
	if err != nil {
		t.Fatalf("RunScript: %v", err)
	}
	if len(failures) != 1 {
		t.Fatalf("expected 1 failure, got %d", len(failures))
	}
}
