package pax

import "github.com/paxrt/pax/paxel"

// InstanceKind distinguishes the known kinds of instance node: an enum of
// known kinds with a common interface, avoiding a `dyn InstanceNode` trait
// object.
type InstanceKind uint8

const (
	InstanceComponent InstanceKind = iota
	InstancePrimitive
	InstanceIf
	InstanceFor
	InstanceSlot
	InstanceComment
)

// ControlFlowSpec holds the control-flow-specific fields of an instance
// node.
type ControlFlowSpec struct {
	// If: CondExprID names the compiled vtable entry evaluated under the
	// enclosing frame.
	CondExprID uint32

	// For: SourceExprID names the compiled vtable entry evaluated under the
	// enclosing frame; ElemName/IndexName name the locals published to each
	// iteration's pushed frame.
	SourceExprID uint32
	ElemName     string
	IndexName    string

	// Slot: Index selects the adoptee from the enclosing component's
	// SlotContent list as written; if/for entries there are not flattened.
	Index int
}

// SettingValue is a parsed inline-setting value: either a literal or an
// unresolved/resolved PAXEL expression bound to an expression id once
// compiled into a vtable.
type SettingValue struct {
	Literal *paxel.Value
	ExprID  uint32
	HasExpr bool
	Deps    []paxel.InvocationSpec
}

// InstanceNode is a compile-time, immutable template node. Instance nodes
// never mutate after the compile phase; per-tick state lives entirely in
// the ExpandedNode materializations produced from them.
type InstanceNode struct {
	TemplateID uint64
	Kind       InstanceKind
	PascalName string
	ImportPath string

	Children []*InstanceNode

	// SlotContent holds the nested markup passed at a component-use site,
	// i.e. the adoptees a <slot/> inside that component's body will forward.
	// Nil for primitives and for components with no nested markup at their
	// use site.
	SlotContent []*InstanceNode

	// Settings maps a common-property or component-prop name to its parsed
	// inline value.
	Settings map[string]SettingValue

	ControlFlow ControlFlowSpec

	// EventHandlers maps an event name ("click", "pointer_down", ...) to the
	// compiled handler's id in the engine's HandlerTable, invoked by the
	// dispatch phase.
	EventHandlers map[string]uint32

	// ShouldFlatten flags an if/for node for slot flattening. Expansion does
	// not read it: a <slot/> indexes SlotContent as written, so an if/for
	// entry there counts as one adoptee.
	ShouldFlatten bool

	// PrototypicalPropertiesFactory builds a fresh properties bag for a new
	// expanded node of this instance.
	PrototypicalPropertiesFactory func() *PropertiesBag
}

// NewInstanceNode creates an instance node of the given kind.
func NewInstanceNode(templateID uint64, kind InstanceKind, pascalName string) *InstanceNode {
	return &InstanceNode{
		TemplateID:    templateID,
		Kind:          kind,
		PascalName:    pascalName,
		Settings:      make(map[string]SettingValue),
		EventHandlers: make(map[string]uint32),
	}
}

// AddChild appends a template child. Instance trees are built once at
// compile time and never mutated afterward.
func (n *InstanceNode) AddChild(child *InstanceNode) {
	n.Children = append(n.Children, child)
}
