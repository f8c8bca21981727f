package pax

import (
	"encoding/json"
	"fmt"
)

// ScriptStep is one step of a JSON-scripted deterministic test,
// adapted from willow's testrunner.go script step shape: optionally inject
// an event, tick N frames (one when Ticks is zero), then assert against the
// resulting tree.
type ScriptStep struct {
	Ticks  int            `json:"ticks,omitempty"`
	Inject *ScriptInject  `json:"inject,omitempty"`
	Assert []ScriptAssert `json:"assert,omitempty"`
}

// ScriptInject names a synthetic pointer event to enqueue before the next
// batch of ticks runs.
type ScriptInject struct {
	Kind string  `json:"kind"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// ScriptAssert names one property to check against a node selected by id
// chain key, after the step's ticks have run.
type ScriptAssert struct {
	IDChain string  `json:"id_chain"`
	Field   string  `json:"field"` // "x", "y", "width", "height", "rotate_deg", "occlusion_layer"
	Equals  float64 `json:"equals"`
	Epsilon float64 `json:"epsilon"`
}

// Script is a full scripted test: a sequence of steps. RunScript runs them
// against the Engine it is given; it neither builds a fresh Engine nor
// resets the one passed in.
type Script struct {
	Steps []ScriptStep `json:"steps"`
}

// ParseScript decodes a JSON test script.
func ParseScript(data []byte) (*Script, error) {
	var s Script
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	return &s, nil
}

// AssertionFailure reports a single failed ScriptAssert.
type AssertionFailure struct {
	Step    int
	IDChain string
	Field   string
	Want    float64
	Got     float64
}

func (f AssertionFailure) String() string {
	return fmt.Sprintf("step %d: %s.%s: want %v, got %v", f.Step, f.IDChain, f.Field, f.Want, f.Got)
}

// RunScript drives engine through s, returning every assertion failure
// encountered (an empty slice means the script passed).
func RunScript(engine *Engine, s *Script) ([]AssertionFailure, error) {
	var failures []AssertionFailure
	for stepIdx, step := range s.Steps {
		if step.Inject != nil {
			Inject(engine, PointerEvent{Kind: step.Inject.Kind, X: step.Inject.X, Y: step.Inject.Y})
		}
		ticks := step.Ticks
		if ticks == 0 {
			ticks = 1
		}
		for i := 0; i < ticks; i++ {
			if err := engine.Tick(); err != nil {
				return failures, err
			}
		}
		for _, a := range step.Assert {
			got, ok := findAssertValue(engine.Current(), a.IDChain, a.Field)
			if !ok {
				failures = append(failures, AssertionFailure{Step: stepIdx, IDChain: a.IDChain, Field: a.Field, Want: a.Equals, Got: 0})
				continue
			}
			eps := a.Epsilon
			if eps == 0 {
				eps = 1e-6
			}
			if diff := got - a.Equals; diff > eps || diff < -eps {
				failures = append(failures, AssertionFailure{Step: stepIdx, IDChain: a.IDChain, Field: a.Field, Want: a.Equals, Got: got})
			}
		}
	}
	return failures, nil
}

func findAssertValue(root *ExpandedNode, idChain, field string) (float64, bool) {
	var found *ExpandedNode
	var walk func(n *ExpandedNode)
	walk = func(n *ExpandedNode) {
		if n == nil || found != nil {
			return
		}
		if n.IDChain.Key() == idChain {
			found = n
			return
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(root)
	if found == nil {
		return 0, false
	}
	switch field {
	case "x":
		return found.TAB.Affine[4], true
	case "y":
		return found.TAB.Affine[5], true
	case "width":
		return found.TAB.BoundsW, true
	case "height":
		return found.TAB.BoundsH, true
	case "rotate_deg":
		return found.Common.Rotate.Radians() * 180 / 3.14159265358979, true
	case "occlusion_layer":
		return float64(found.OcclusionLayerID), true
	}
	return 0, false
}
