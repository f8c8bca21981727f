package pax

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Curve is an easing function, matching gween's TweenFunc signature so
// curves can be passed straight through to the underlying tween.
type Curve = ease.TweenFunc

var (
	CurveLinear    Curve = ease.Linear
	CurveInQuad    Curve = ease.InQuad
	CurveOutQuad   Curve = ease.OutQuad
	CurveInOutQuad Curve = ease.InOutQuad
)

// transitionSegment is one queued eased run: a gween tween plus the target
// value it resolves to once finished.
type transitionSegment struct {
	tween    *gween.Tween
	endValue float64
}

// TransitionManager owns a property cell's queue of eased segments. EaseTo
// replaces any in-flight segment, so at most one segment is queued.
type TransitionManager struct {
	queue   []transitionSegment
	current float64
	hasCur  bool
}

// EaseTo pushes a new transition segment. If a segment is already in
// flight, it is dropped and the new segment starts at once from the
// *current interpolated* value, not the in-flight segment's nominal end.
func (tm *TransitionManager) EaseTo(current, target float64, durationFrames float32, curve Curve) {
	start := current
	if len(tm.queue) > 0 {
		start = tm.peekInterpolated(current)
		tm.queue = tm.queue[:0]
	}
	tm.queue = append(tm.queue, transitionSegment{
		tween:    gween.New(float32(start), float32(target), durationFrames, curve),
		endValue: target,
	})
}

// peekInterpolated returns the value the most recent Advance reported,
// without stepping, or fallback when no Advance has run since the manager
// was created or last cancelled.
func (tm *TransitionManager) peekInterpolated(fallback float64) float64 {
	if tm.hasCur {
		return tm.current
	}
	return fallback
}

// Active reports whether any transition segment is queued.
func (tm *TransitionManager) Active() bool {
	return len(tm.queue) > 0
}

// Cancel drops all queued segments; called whenever Property.Set overrides
// an in-flight ease with a literal assignment.
func (tm *TransitionManager) Cancel() {
	tm.queue = tm.queue[:0]
	tm.hasCur = false
}

// Advance steps the head-of-queue segment by one frame and returns the
// interpolated value. When the head segment completes, its final value is
// stored and it is drained from the queue.
func (tm *TransitionManager) Advance() (float64, bool) {
	if len(tm.queue) == 0 {
		return 0, false
	}
	head := &tm.queue[0]
	val, finished := head.tween.Update(1)
	tm.current = float64(val)
	tm.hasCur = true
	if finished {
		tm.current = head.endValue
		tm.queue = tm.queue[1:]
	}
	return tm.current, true
}
