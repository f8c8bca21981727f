package pax

import "github.com/paxrt/pax/paxel"

// PropertiesBag is a per-component typed properties bag: a single concrete
// map keyed by field name, so there is no downcast panic surface because
// there is no downcast.
type PropertiesBag struct {
	Fields map[string]any
}

// NewPropertiesBag creates an empty bag.
func NewPropertiesBag() *PropertiesBag {
	return &PropertiesBag{Fields: make(map[string]any)}
}

// Field returns the named field, and whether it was present.
func (b *PropertiesBag) Field(name string) (any, bool) {
	v, ok := b.Fields[name]
	return v, ok
}

// localStore is a named local published by a control-flow node (e.g. `for`
// publishing `elem`/`i`) or by InsertStackLocalStore.
type localStore struct {
	cells map[string]dependency
	vals  map[string]func() paxel.Value
}

// Frame is one link in the stack-frame chain. Each frame owns a
// typed "self" properties bag and an optional named-local map; identifier
// resolution walks frames using a compile-time-fixed stack offset, never a
// dynamic upward search.
type Frame struct {
	parent *Frame
	bag    *PropertiesBag
	locals *localStore
}

// RootFrame creates the outermost frame, with no parent.
func RootFrame(bag *PropertiesBag) *Frame {
	return &Frame{bag: bag}
}

// Push creates a child frame owning bag. It has no named locals; WithLocals
// attaches them.
func (f *Frame) Push(bag *PropertiesBag) *Frame {
	return &Frame{parent: f, bag: bag}
}

// WithLocals attaches named locals to a (typically freshly pushed) frame,
// used by control-flow expansion (e.g. Repeat publishing `elem`/`i`).
func (f *Frame) WithLocals(locals map[string]func() paxel.Value) *Frame {
	f.locals = &localStore{vals: locals}
	return f
}

// InsertStackLocalStore attaches a typed singleton-per-name side channel to
// this frame, letting children mutate shared state (e.g. a
// `<Path>` node's children appending to a shared path-element vector)
// without being that node's template children in the ordinary sense.
func (f *Frame) InsertStackLocalStore(name string, get func() paxel.Value) {
	if f.locals == nil {
		f.locals = &localStore{vals: make(map[string]func() paxel.Value)}
	}
	if f.locals.vals == nil {
		f.locals.vals = make(map[string]func() paxel.Value)
	}
	f.locals.vals[name] = get
}

// PeekNth returns the k-th frame walking toward the root; 0 is this frame.
func (f *Frame) PeekNth(k int) *Frame {
	cur := f
	for i := 0; i < k && cur != nil; i++ {
		cur = cur.parent
	}
	return cur
}

// Resolve implements paxel.IdentifierResolver: it uses spec.StackOffset to
// choose the frame, then either consults that frame's local map or follows
// spec.FieldPath into its typed bag. Resolution is total and
// deterministic — it never searches upward past the pinned offset.
func (f *Frame) Resolve(spec paxel.InvocationSpec) (paxel.Value, error) {
	frame := f.PeekNth(spec.StackOffset)
	if frame == nil {
		return paxel.Value{}, &ResolveError{Symbol: spec.RootIdentifier}
	}
	if frame.locals != nil {
		if get, ok := frame.locals.vals[spec.RootIdentifier]; ok {
			return get(), nil
		}
	}
	if frame.bag == nil {
		return paxel.Value{}, &ResolveError{Symbol: spec.RootIdentifier}
	}
	cur, ok := frame.bag.Field(spec.RootIdentifier)
	if !ok {
		return paxel.Value{}, &ResolveError{Symbol: spec.RootIdentifier}
	}
	for _, field := range spec.FieldPath[1:] {
		obj, ok := cur.(map[string]any)
		if !ok {
			return paxel.Value{}, &ResolveError{Symbol: spec.RootIdentifier + "." + field}
		}
		cur, ok = obj[field]
		if !ok {
			return paxel.Value{}, &ResolveError{Symbol: spec.RootIdentifier + "." + field}
		}
	}
	return toPaxelValue(cur), nil
}

// toPaxelValue coerces a dynamically-typed bag field into a paxel.Value for
// the resolver boundary. A paxel.Value is returned as is and property cells
// are read through Get(); any other Go value yields the zero Value.
func toPaxelValue(v any) paxel.Value {
	switch t := v.(type) {
	case paxel.Value:
		return t
	case *Property[paxel.Value]:
		return t.Get()
	case *Property[float64]:
		return paxel.Num(t.Get())
	case *Property[bool]:
		return paxel.Bool(t.Get())
	case *Property[string]:
		return paxel.Str(t.Get())
	case *Property[paxel.Color]:
		return paxel.ColorOf(t.Get())
	case *Property[paxel.Size]:
		return paxel.SizeOf(t.Get())
	case *Property[paxel.Rotation]:
		return paxel.RotationOf(t.Get())
	default:
		return paxel.Value{}
	}
}

// FieldValue resolves bag's field name into a paxel.Value, reading through
// a persisted property cell where the expander has stored one. A bare Go
// value (as hand-built test fixtures set directly) is accepted too, so
// callers outside the frame-resolution path (the render and native-message
// phases) can use the same lookup regardless of whether a field has been
// through the expander yet.
func FieldValue(b *PropertiesBag, name string) (paxel.Value, bool) {
	v, ok := b.Field(name)
	if !ok {
		return paxel.Value{}, false
	}
	switch t := v.(type) {
	case string:
		return paxel.Str(t), true
	case paxel.Color:
		return paxel.ColorOf(t), true
	default:
		return toPaxelValue(v), true
	}
}
