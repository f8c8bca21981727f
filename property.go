package pax

import (
	"log/slog"

	"github.com/paxrt/pax/paxel"
)

// propertyLog gates coercion-failure warnings to once per id chain, the
// same suppression Dispatch uses for handler panics. Every field of a node
// shares one key, so only the node's first coercion failure is logged.
var propertyLog = newLogGate()

// PropertyMode selects how a Property computes its effective value.
type PropertyMode uint8

const (
	ModeLiteral PropertyMode = iota
	ModeComputed
	ModeExpressionBacked
)

// dependency is anything a computed or expression-backed cell can observe
// for dirtiness via a monotonic version counter.
type dependency interface {
	version() uint64
}

// ExprDependency pairs a resolved identifier spec with the dependency cell
// it names, so an expression-backed Property can tell whether any symbol it
// references has changed since its last recompute.
type ExprDependency struct {
	Spec            paxel.InvocationSpec
	Dep             dependency
	lastSeenVersion uint64
}

// Property is a reactive cell: literal, computed, or expression-backed,
// with an optional eased-transition queue. T is usually float64 for
// animatable numeric fields, but the mode/dirty machinery is generic over
// any value type a compiled cartridge might bind.
type Property[T any] struct {
	mode PropertyMode

	literal T
	ver     uint64 // this cell's own monotonic version, bumped on Set/recompute

	// Computed mode.
	computeFn func() T
	deps      []dependency
	depVers   []uint64

	// Expression-backed mode.
	vtable      *paxel.VTable
	exprID      uint32
	frame       *Frame
	invocations []*ExprDependency

	cached   T
	hasValue bool

	transitions *TransitionManager
	toFloat     func(T) float64
	fromFloat   func(float64) T

	// tick, when bound, gates transition advancement to once per tick
	// regardless of how many times Get is called within it.
	tick             *int64
	tickAdvanced     bool
	lastAdvancedTick int64
	lastInterpolated float64

	// logger/idChain, when bound, let a coercion failure log once instead
	// of silently keeping the last good value with no trace.
	logger  *slog.Logger
	idChain string
}

// NewLiteral creates a literal-mode property.
func NewLiteral[T any](v T) *Property[T] {
	return &Property[T]{mode: ModeLiteral, literal: v, ver: 1}
}

// NewComputed creates a computed-mode property over a pure function and an
// explicit dependency set. Declaring dependencies up front is what makes
// cycle detection possible by construction.
func NewComputed[T any](fn func() T, deps ...dependency) *Property[T] {
	p := &Property[T]{mode: ModeComputed, computeFn: fn, deps: deps}
	p.depVers = make([]uint64, len(deps))
	return p
}

// NewExpressionBacked creates an expression-backed property bound to a
// vtable entry and the enclosing stack frame.
func NewExpressionBacked[T any](vt *paxel.VTable, exprID uint32, frame *Frame, invocations []*ExprDependency) *Property[T] {
	return &Property[T]{
		mode:        ModeExpressionBacked,
		vtable:      vt,
		exprID:      exprID,
		frame:       frame,
		invocations: invocations,
	}
}

// EnableTransitions attaches a transition manager to a numeric property,
// given conversions to and from float64 for interpolation.
func (p *Property[T]) EnableTransitions(toFloat func(T) float64, fromFloat func(float64) T) {
	p.transitions = &TransitionManager{}
	p.toFloat = toFloat
	p.fromFloat = fromFloat
}

// BindTick attaches a shared tick counter (an engine's frame count) so this
// cell's eased transitions step at most once per tick no matter how many
// times Get is called while that tick's expansion pass runs. Left unbound,
// Get advances the transition on every call, as before.
func (p *Property[T]) BindTick(tick *int64) {
	p.tick = tick
}

// BindLogging attaches a logger and an owning node's id chain so a
// coercion failure in recompute can be reported once instead of silently
// discarded.
func (p *Property[T]) BindLogging(logger *slog.Logger, idChain string) {
	p.logger = logger
	p.idChain = idChain
}

func (p *Property[T]) version() uint64 { return p.ver }

// dirty reports whether this cell needs recomputation: any referenced
// dependency's version has moved past what was last observed.
func (p *Property[T]) dirty() bool {
	switch p.mode {
	case ModeLiteral:
		return false
	case ModeComputed:
		for i, d := range p.deps {
			if d.version() != p.depVers[i] {
				return true
			}
		}
		return !p.hasValue
	case ModeExpressionBacked:
		if len(p.invocations) == 0 {
			// No declared dependency list: the compiler didn't give us a
			// fine-grained invocation set to watch, so the only sound
			// choice is to recompute every tick rather than freeze after
			// the first successful read.
			return true
		}
		for _, inv := range p.invocations {
			if inv.Dep != nil && inv.Dep.version() != inv.lastSeenVersion {
				return true
			}
		}
		return !p.hasValue
	}
	return false
}

// Get returns the current effective value: if a transition is active, the
// interpolated value; otherwise the cached/recomputed value. This is the
// chokepoint that combines an expression-backed cell's computed target
// (via the vtable) with its in-flight ease (via transitions) — the role
// paxel.VTable's own doc comment calls out as living here rather than in
// the vtable itself.
func (p *Property[T]) Get() T {
	if p.dirty() {
		p.recompute()
	}
	if p.transitions != nil && p.transitions.Active() {
		if p.tick != nil {
			cur := *p.tick
			if !p.tickAdvanced || cur != p.lastAdvancedTick {
				p.lastInterpolated, _ = p.transitions.Advance()
				p.lastAdvancedTick = cur
				p.tickAdvanced = true
			}
		} else {
			p.lastInterpolated, _ = p.transitions.Advance()
		}
		return p.fromFloat(p.lastInterpolated)
	}
	if !p.hasValue {
		return p.literal
	}
	return p.cached
}

func (p *Property[T]) recompute() {
	switch p.mode {
	case ModeLiteral:
		p.cached = p.literal
	case ModeComputed:
		p.cached = p.computeFn()
		for i, d := range p.deps {
			p.depVers[i] = d.version()
		}
	case ModeExpressionBacked:
		val := p.vtable.Compute(p.frame, p.exprID)
		coerced, err := coerceTo[T](val)
		if err != nil {
			if p.logger != nil {
				propertyLog.logOnce(p.logger, p.idChain, "coerce", "property coercion failed, keeping last good value", "err", err)
			}
			p.hasValue = true
			return
		}
		p.cached = coerced
		for _, inv := range p.invocations {
			if inv.Dep != nil {
				inv.lastSeenVersion = inv.Dep.version()
			}
		}
	}
	p.hasValue = true
	p.ver++
}

// Set forces literal mode, marks dirty, and cancels any active transition.
func (p *Property[T]) Set(v T) {
	p.mode = ModeLiteral
	p.literal = v
	p.hasValue = false
	p.ver++
	if p.transitions != nil {
		p.transitions.Cancel()
	}
}

// ReplaceWith copies src's current state into this cell, so prior observers
// of this cell see src's value on the next read. The two cells do not share
// a backing: a later Set on src is not seen through this cell.
func (p *Property[T]) ReplaceWith(src *Property[T]) {
	*p = *src
}

// EaseTo pushes a transition segment. If a segment is already in flight,
// the new segment's start is the current interpolated value, not the
// in-flight segment's nominal end.
func (p *Property[T]) EaseTo(target T, durationFrames float32, curve Curve) {
	if p.transitions == nil {
		p.Set(target)
		return
	}
	cur := p.toFloat(p.Get())
	p.transitions.EaseTo(cur, p.toFloat(target), durationFrames, curve)
	p.cached = target
	p.hasValue = true
	p.ver++
}

// coerceTo is the bridge between a dynamically-typed vtable result and a
// statically-typed Property[T]. Only the concrete instantiations actually
// used by compiled cartridges are supported; anything else is a coercion
// failure.
func coerceTo[T any](v paxel.Value) (T, error) {
	var zero T
	switch any(zero).(type) {
	case float64:
		f, err := paxel.CoerceFloat64(v)
		return any(f).(T), err
	case bool:
		b, err := paxel.CoerceBool(v)
		return any(b).(T), err
	case string:
		s, err := paxel.CoerceString(v)
		return any(s).(T), err
	case paxel.Color:
		c, err := paxel.CoerceColor(v)
		return any(c).(T), err
	case paxel.Size:
		s, err := paxel.CoerceSize(v)
		return any(s).(T), err
	case paxel.Rotation:
		r, err := paxel.CoerceRotation(v)
		return any(r).(T), err
	case paxel.Value:
		return any(v).(T), nil
	default:
		return zero, &paxel.CoerceError{From: v.Kind, To: "property", Why: "unsupported property value type"}
	}
}
