package paxel

// ParseError reports a grammar failure.
type ParseError struct {
	Kind string
	Span string
}

func (e *ParseError) Error() string { return "paxel: parse error (" + e.Kind + ") at " + e.Span }

// InvocationSpec is the compile-time resolution of an identifier: a fixed
// (stack_offset, field_path) pair plus bookkeeping for dirty tracking. The
// evaluator never performs dynamic name lookup into a typed bag — it
// always goes through a resolved spec.
type InvocationSpec struct {
	RootIdentifier string
	StackOffset    int
	FieldPath      []string
	TypeTag        string
}

// IdentifierResolver is the capability an evaluator uses to turn a resolved
// InvocationSpec into a Value. It is backed by a stack frame in the engine
// package; paxel stays unaware of the concrete frame type.
type IdentifierResolver interface {
	Resolve(spec InvocationSpec) (Value, error)
}

// ExpressionContext is passed to every evaluation; it carries the resolver
// an Ident or Access node needs to turn its InvocationSpec into a Value.
type ExpressionContext struct {
	Resolver IdentifierResolver
}

// Expr is any node of the PAXEL AST.
type Expr interface {
	Eval(ctx ExpressionContext) (Value, error)
}

// Literal is a literal value primary.
type Literal struct{ Val Value }

func (n Literal) Eval(ExpressionContext) (Value, error) { return n.Val, nil }

// Grouped is a parenthesized expression with an optional unit suffix
// (`px`, `%`, `deg`, `rad`); the inner expression must be numeric when a
// unit is present.
type Grouped struct {
	Inner Expr
	Unit  string // "" | "px" | "%" | "deg" | "rad"
}

func (n Grouped) Eval(ctx ExpressionContext) (Value, error) {
	v, err := n.Inner.Eval(ctx)
	if err != nil {
		return Value{}, err
	}
	if n.Unit == "" {
		return v, nil
	}
	f, err := CoerceFloat64(v)
	if err != nil {
		return Value{}, err
	}
	switch n.Unit {
	case "px":
		return SizeOf(Px(f)), nil
	case "%":
		return Percent(f), nil
	case "deg":
		return RotationOf(Rotation{Unit: RotationUnitDegrees, Value: f}), nil
	case "rad":
		return RotationOf(Rotation{Unit: RotationUnitRadians, Value: f}), nil
	default:
		return Value{}, &ParseError{Kind: "unit", Span: n.Unit}
	}
}

// Ident resolves a compile-time-bound identifier via the resolver.
type Ident struct{ Spec InvocationSpec }

func (n Ident) Eval(ctx ExpressionContext) (Value, error) {
	return ctx.Resolver.Resolve(n.Spec)
}

// Access is a tuple/list access by fixed index.
type Access struct {
	Base  Expr
	Index int64
}

func (n Access) Eval(ctx ExpressionContext) (Value, error) {
	base, err := n.Base.Eval(ctx)
	if err != nil {
		return Value{}, err
	}
	return Index(base, n.Index)
}

// ObjectLit evaluates each field to produce a named-field value.
type ObjectLit struct{ Fields map[string]Expr }

func (n ObjectLit) Eval(ctx ExpressionContext) (Value, error) {
	out := make(map[string]Value, len(n.Fields))
	for k, e := range n.Fields {
		v, err := e.Eval(ctx)
		if err != nil {
			return Value{}, err
		}
		out[k] = v
	}
	return Object(out), nil
}

// RangeLit is `a..b`, producing an integer-range value after coercion.
type RangeLit struct{ From, To Expr }

func (n RangeLit) Eval(ctx ExpressionContext) (Value, error) {
	a, err := n.From.Eval(ctx)
	if err != nil {
		return Value{}, err
	}
	b, err := n.To.Eval(ctx)
	if err != nil {
		return Value{}, err
	}
	ai, err := CoerceInt64(a)
	if err != nil {
		return Value{}, err
	}
	bi, err := CoerceInt64(b)
	if err != nil {
		return Value{}, err
	}
	return RangeOf(Rng{Start: ai, End: bi}), nil
}

// TupleLit / ListLit both evaluate children into a vector; they are kept as
// distinct AST node types because the grammar distinguishes `(...)` from
// `[...]`, even though both reduce to the same Value representation.
type TupleLit struct{ Items []Expr }

func (n TupleLit) Eval(ctx ExpressionContext) (Value, error) { return evalItems(ctx, n.Items) }

type ListLit struct{ Items []Expr }

func (n ListLit) Eval(ctx ExpressionContext) (Value, error) { return evalItems(ctx, n.Items) }

func evalItems(ctx ExpressionContext, items []Expr) (Value, error) {
	out := make([]Value, len(items))
	for i, e := range items {
		v, err := e.Eval(ctx)
		if err != nil {
			return Value{}, err
		}
		out[i] = v
	}
	return Vector(out), nil
}

// Call is a function or enum-constructor call; both are served by the same
// dispatch.
type Call struct {
	Scope string
	Name  string
	Args  []Expr
}

func (n Call) Eval(ctx ExpressionContext) (Value, error) {
	args := make([]Value, len(n.Args))
	for i, a := range n.Args {
		v, err := a.Eval(ctx)
		if err != nil {
			return Value{}, err
		}
		args[i] = v
	}
	return CallFunction(n.Scope, n.Name, args)
}

// Binary is an infix operator application, dispatched to the Math scope.
type Binary struct {
	Op   string
	L, R Expr
}

func (n Binary) Eval(ctx ExpressionContext) (Value, error) {
	l, err := n.L.Eval(ctx)
	if err != nil {
		return Value{}, err
	}
	r, err := n.R.Eval(ctx)
	if err != nil {
		return Value{}, err
	}
	return CallFunction("Math", n.Op, []Value{l, r})
}

// Unary is a prefix operator application (`-` or `!`).
type Unary struct {
	Op string
	X  Expr
}

func (n Unary) Eval(ctx ExpressionContext) (Value, error) {
	x, err := n.X.Eval(ctx)
	if err != nil {
		return Value{}, err
	}
	name := "neg"
	if n.Op == "!" {
		name = "not"
	}
	return CallFunction("Math", name, []Value{x})
}

// Ternary is `cond then a else b`, right-associative on else.
type Ternary struct {
	Cond, Then, Else Expr
}

func (n Ternary) Eval(ctx ExpressionContext) (Value, error) {
	c, err := n.Cond.Eval(ctx)
	if err != nil {
		return Value{}, err
	}
	b, err := CoerceBool(c)
	if err != nil {
		return Value{}, err
	}
	if b {
		return n.Then.Eval(ctx)
	}
	return n.Else.Eval(ctx)
}
