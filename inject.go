package pax

// Inject pushes a synthetic pointer event onto engine's input queue,
// adapted from willow's inject.go, which lets callers (tests, replay
// tooling) drive a scene without a real input backend.
func Inject(engine *Engine, ev PointerEvent) {
	engine.PushInput(ev)
}

// InjectClick injects a pointer_down immediately followed by a pointer_up
// at the same point, the common case for scripted tests.
func InjectClick(engine *Engine, x, y float64) {
	Inject(engine, PointerEvent{Kind: "pointer_down", X: x, Y: y})
	Inject(engine, PointerEvent{Kind: "pointer_up", X: x, Y: y})
}

// InjectMove injects a pointer_move event.
func InjectMove(engine *Engine, x, y float64) {
	Inject(engine, PointerEvent{Kind: "pointer_move", X: x, Y: y})
}
