package paxel

// ClosureFn is a compiled expression: `Fn(ExpressionContext) -> Value`. The
// compiler populates the VTable with one of these per expression id; it is
// free to be a literal AST-walk (Expr.Eval) or a closure that never
// constructs an AST at all.
type ClosureFn func(ctx ExpressionContext) Value

// VTable maps a compile-time expression id to its closure.
type VTable struct {
	entries map[uint32]ClosureFn
}

// NewVTable creates an empty vtable.
func NewVTable() *VTable {
	return &VTable{entries: make(map[uint32]ClosureFn)}
}

// Register binds id to fn.
func (vt *VTable) Register(id uint32, fn ClosureFn) {
	vt.entries[id] = fn
}

// RegisterExpr compiles expr into a ClosureFn and registers it under id —
// an "interpret the AST every tick" strategy, used as an alternative to
// ahead-of-time closure compilation.
func (vt *VTable) RegisterExpr(id uint32, expr Expr) {
	vt.Register(id, func(ctx ExpressionContext) Value {
		v, err := expr.Eval(ctx)
		if err != nil {
			return Value{}
		}
		return v
	})
}

// Compute invokes the closure registered under id against resolver. Panics
// are not expected here — a computed closure may only panic on
// compile-time-prevented conditions — but a missing id returns the zero
// Value rather than panicking, since a missing vtable entry is itself a
// compile-time-prevented condition this runtime does not re-validate.
//
// There is deliberately no ComputeEased alongside Compute: threading a
// transition queue through this package would pull the stateful,
// tick-aware property machinery down into paxel, which otherwise has no
// dependency on anything outside the expression language itself. The
// eased-computation step lives one layer up, in Property.Get, which calls
// Compute for the target value and then steps its own TransitionManager
// toward it.
func (vt *VTable) Compute(resolver IdentifierResolver, id uint32) Value {
	fn, ok := vt.entries[id]
	if !ok {
		return Value{}
	}
	return fn(ExpressionContext{Resolver: resolver})
}
