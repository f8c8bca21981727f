// Package pax is a reactive 2D UI runtime: a scene graph driven by a small
// expression language (see [github.com/paxrt/pax/paxel]), compiled property
// bindings, and a tick loop that turns a compile-time instance tree into a
// per-frame expanded tree of transformed, occluded, event-dispatching nodes.
//
// # Quick start
//
// A [Chassis] drives the loop for you via Ebitengine:
//
//	engine := pax.NewEngine(pax.DefaultConfig(), root, vtable, handlers)
//	pax.Run(engine, pax.RunConfig{Title: "demo", Width: 800, Height: 600})
//
// For full control, call [Engine.Tick] and [Engine.Render] directly from your
// own [ebiten.Game] implementation.
//
// # Core subsystems
//
//   - Value model: [paxel.Value] and its coercions (see the paxel subpackage).
//   - Property cells: [Property] with literal/computed/expression-backed
//     modes and eased transitions (property.go, transition.go).
//   - Stack frames: compile-time-resolved identifier lookup (stack.go).
//   - Expression language: see the paxel subpackage.
//   - Instance and expanded nodes: compile-time templates materialized each
//     tick (instance.go, expanded.go).
//   - Layout: transform-and-bounds composition (layout.go).
//   - Engine: the six-phase tick loop (engine.go, occlusion.go, dispatch.go).
//   - External interfaces: the native message protocol and render sink
//     (nativemsg.go, rendersink.go, ebitensink.go).
package pax
