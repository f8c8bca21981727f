package pax

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/paxrt/pax/paxel"
)

// IDChainLink is one (template_id, repeat_index?) pair of a native id chain.
// RepeatIdx is only meaningful when FromRepeat is true.
type IDChainLink struct {
	TemplateID uint64
	RepeatIdx  int
	FromRepeat bool
}

// IDChain identifies an expanded node by the path of template ids (and, at
// each `for` level, the iteration index) from the root — not by pointer
// identity, since expanded nodes are rebuilt every tick.
type IDChain []IDChainLink

// Child appends a plain (non-repeat) link.
func (c IDChain) Child(templateID uint64) IDChain {
	out := make(IDChain, len(c)+1)
	copy(out, c)
	out[len(c)] = IDChainLink{TemplateID: templateID}
	return out
}

// Repeat appends a link carrying a repeat index.
func (c IDChain) Repeat(templateID uint64, idx int) IDChain {
	out := make(IDChain, len(c)+1)
	copy(out, c)
	out[len(c)] = IDChainLink{TemplateID: templateID, RepeatIdx: idx, FromRepeat: true}
	return out
}

// Key renders a stable map key for this chain, used to persist per-node
// state (occlusion layer assignment, transition state) across ticks.
func (c IDChain) Key() string {
	var b strings.Builder
	for i, l := range c {
		if i > 0 {
			b.WriteByte('/')
		}
		b.WriteString(strconv.FormatUint(l.TemplateID, 10))
		if l.FromRepeat {
			b.WriteByte('#')
			b.WriteString(strconv.Itoa(l.RepeatIdx))
		}
	}
	return b.String()
}

func (c IDChain) String() string { return c.Key() }

// NativeDirtyFlags tracks which native-message categories this node owes an
// update for on the current tick.
type NativeDirtyFlags struct {
	Occlusion bool
	Text      bool
	Image     bool
}

// ExpandedNode is the runtime materialization of an InstanceNode for one
// tick. It is rebuilt, not mutated in place, every expansion pass; identity
// across ticks is carried by IDChain, not by pointer.
type ExpandedNode struct {
	IDChain  IDChain
	Instance *InstanceNode
	Bag      *PropertiesBag
	Frame    *Frame

	Children []*ExpandedNode

	Common ResolvedCommonProperties
	TAB    TransformAndBounds

	// ParentTAB is the parent's transform-and-bounds this node's TAB was
	// composed against, kept so a handler can invert the node's geometry
	// back into authored units (see ExpandedNode.InvertGeometry).
	ParentTAB TransformAndBounds

	OcclusionLayerID uint32
	ZIndex           uint32

	NativeDirty NativeDirtyFlags
}

// commonPropertyKeys lists the inline-setting names the layout engine
// consumes directly, rather than passing through to the properties bag.
var commonPropertyKeys = map[string]bool{
	"x": true, "y": true, "width": true, "height": true,
	"anchor_x": true, "anchor_y": true,
	"scale_x": true, "scale_y": true,
	"skew_x": true, "skew_y": true,
	"rotate": true,
	"transform_tx": true, "transform_ty": true,
}

// nodePersist is the cross-tick state kept for one expanded node's id
// chain: its properties bag (holding a persisted Property[paxel.Value] cell
// per custom setting) and the resolved common-property cells, plus the
// version stamps CollectNativeMessages's dirty flags are derived from.
// Mirrors OcclusionLayerGen's prior/snapshot pattern, the only other
// cross-tick state this engine carries.
type nodePersist struct {
	bag    *PropertiesBag
	common map[string]*Property[paxel.Value]

	textVer  uint64
	textSeen bool
	srcVer   uint64
	srcSeen  bool
}

// Expander turns a compiled InstanceNode tree into one tick's ExpandedNode
// tree. It owns the vtable used to evaluate inline-setting and control-flow
// expressions against each node's resolved stack frame, plus the persisted
// per-id-chain state (bags and property cells) that survives across ticks
// so Property.Set/EaseTo have an effect beyond the tick that calls them.
type Expander struct {
	VTable *paxel.VTable

	logger *slog.Logger
	tick   *int64

	persist map[string]*nodePersist
	touched map[string]bool
}

// NewExpander creates an expander bound to vt.
func NewExpander(vt *paxel.VTable) *Expander {
	return &Expander{VTable: vt, persist: make(map[string]*nodePersist)}
}

// BindRuntime attaches the owning engine's logger and tick counter, so
// property cells created by this expander can gate transition advancement
// to once per tick and log coercion failures once per node.
func (ex *Expander) BindRuntime(logger *slog.Logger, tick *int64) {
	ex.logger = logger
	ex.tick = tick
}

// ExpandRoot expands the root instance against the canvas bounds, then
// drops persisted state for any id chain that went untouched this pass
// (an if/for/slot ancestor that stopped producing it).
func (ex *Expander) ExpandRoot(root *InstanceNode, rootBag *PropertiesBag, canvasW, canvasH float64) (*ExpandedNode, error) {
	ex.touched = make(map[string]bool)
	frame := RootFrame(rootBag)
	nodes, err := ex.expandOne(root, IDChain{}, frame, IdentityTAB(canvasW, canvasH), nil)
	ex.prune()
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, nil
	}
	return nodes[0], nil
}

// prune drops persisted bags/cells for id chains that were not touched by
// the expansion pass just completed.
func (ex *Expander) prune() {
	for key := range ex.persist {
		if !ex.touched[key] {
			delete(ex.persist, key)
		}
	}
}

// newSettingCell builds a fresh Property[paxel.Value] cell from a compiled
// setting, bound to this expander's tick/logging so Get behaves correctly
// from the first read.
func (ex *Expander) newSettingCell(sv SettingValue, frame *Frame, idChain string) *Property[paxel.Value] {
	var cell *Property[paxel.Value]
	if sv.HasExpr {
		cell = NewExpressionBacked[paxel.Value](ex.VTable, sv.ExprID, frame, nil)
	} else {
		var lit paxel.Value
		if sv.Literal != nil {
			lit = *sv.Literal
		}
		cell = NewLiteral(lit)
	}
	cell.BindTick(ex.tick)
	cell.BindLogging(ex.logger, idChain)
	return cell
}

// syncSettingCell ensures bag.Fields[name] holds a persisted
// Property[paxel.Value] cell for sv, creating it on first sight. An
// existing cell is left alone if a handler has since Set/EaseTo'd it into
// literal mode — that override is meant to stick across ticks — otherwise
// its frame pointer is refreshed, since a new Frame chain is pushed every
// tick even when the bag itself persists.
func (ex *Expander) syncSettingCell(bag *PropertiesBag, name string, sv SettingValue, frame *Frame, idChain string) *Property[paxel.Value] {
	existing, ok := bag.Fields[name].(*Property[paxel.Value])
	if !ok {
		cell := ex.newSettingCell(sv, frame, idChain)
		bag.Fields[name] = cell
		return cell
	}
	if sv.HasExpr && existing.mode == ModeExpressionBacked {
		existing.frame = frame
	}
	return existing
}

func (ex *Expander) resolveCommon(np *nodePersist, inst *InstanceNode, frame *Frame, nodeKey string) ResolvedCommonProperties {
	common := DefaultCommonProperties()
	get := func(key string) (paxel.Value, bool) {
		sv, ok := inst.Settings[key]
		if !ok {
			return paxel.Value{}, false
		}
		cell, ok := np.common[key]
		if !ok {
			cell = ex.newSettingCell(sv, frame, nodeKey)
			np.common[key] = cell
		} else if sv.HasExpr && cell.mode == ModeExpressionBacked {
			cell.frame = frame
		}
		return cell.Get(), true
	}
	if v, ok := get("x"); ok {
		common.X, _ = paxel.CoerceSize(v)
	}
	if v, ok := get("y"); ok {
		common.Y, _ = paxel.CoerceSize(v)
	}
	if v, ok := get("width"); ok {
		common.Width, _ = paxel.CoerceSize(v)
	}
	if v, ok := get("height"); ok {
		common.Height, _ = paxel.CoerceSize(v)
	}
	if v, ok := get("anchor_x"); ok {
		s, err := paxel.CoerceSize(v)
		if err == nil {
			common.AnchorX = &s
		}
	}
	if v, ok := get("anchor_y"); ok {
		s, err := paxel.CoerceSize(v)
		if err == nil {
			common.AnchorY = &s
		}
	}
	if v, ok := get("scale_x"); ok {
		f, _ := paxel.CoerceFloat64(v)
		if v.Kind == paxel.KindPercent {
			f /= 100
		}
		common.ScaleX = f
	}
	if v, ok := get("scale_y"); ok {
		f, _ := paxel.CoerceFloat64(v)
		if v.Kind == paxel.KindPercent {
			f /= 100
		}
		common.ScaleY = f
	}
	if v, ok := get("skew_x"); ok {
		common.SkewX, _ = paxel.CoerceRotation(v)
	}
	if v, ok := get("skew_y"); ok {
		common.SkewY, _ = paxel.CoerceRotation(v)
	}
	if v, ok := get("rotate"); ok {
		common.Rotate, _ = paxel.CoerceRotation(v)
	}
	if v, ok := get("transform_tx"); ok {
		common.TransformTX, _ = paxel.CoerceSize(v)
	}
	if v, ok := get("transform_ty"); ok {
		common.TransformTY, _ = paxel.CoerceSize(v)
	}
	return common
}

// expandOne expands a single template node into zero or more expanded
// nodes under the caller-supplied idChain prefix, parent TAB, and the
// adoptee list a nested <slot/> should draw from.
func (ex *Expander) expandOne(inst *InstanceNode, idChain IDChain, frame *Frame, parentTAB TransformAndBounds, adoptees []*InstanceNode) ([]*ExpandedNode, error) {
	switch inst.Kind {
	case InstanceComment:
		return nil, nil

	case InstanceIf:
		val := ex.VTable.Compute(frame, inst.ControlFlow.CondExprID)
		cond, _ := paxel.CoerceBool(val)
		if !cond {
			return nil, nil
		}
		return ex.expandChildren(inst.Children, idChain, frame, parentTAB, adoptees)

	case InstanceFor:
		srcVal := ex.VTable.Compute(frame, inst.ControlFlow.SourceExprID)
		vec, err := paxel.CoerceVector(srcVal)
		if err != nil {
			return nil, fmt.Errorf("for-loop source: %w", err)
		}
		var out []*ExpandedNode
		for i, item := range vec {
			elemVal := item
			idx := i
			locals := map[string]func() paxel.Value{
				inst.ControlFlow.ElemName: func() paxel.Value { return elemVal },
			}
			if inst.ControlFlow.IndexName != "" {
				locals[inst.ControlFlow.IndexName] = func() paxel.Value { return paxel.Num(float64(idx)) }
			}
			iterFrame := frame.Push(NewPropertiesBag()).WithLocals(locals)
			iterChain := idChain.Repeat(inst.TemplateID, idx)
			nodes, err := ex.expandChildren(inst.Children, iterChain, iterFrame, parentTAB, adoptees)
			if err != nil {
				return nil, err
			}
			out = append(out, nodes...)
		}
		return out, nil

	case InstanceSlot:
		idx := inst.ControlFlow.Index
		if idx < 0 || idx >= len(adoptees) {
			return nil, nil
		}
		return ex.expandOne(adoptees[idx], idChain, frame, parentTAB, nil)

	case InstanceComponent, InstancePrimitive:
		nodeChain := idChain.Child(inst.TemplateID)
		key := nodeChain.Key()
		ex.touched[key] = true

		np, ok := ex.persist[key]
		if !ok {
			bag := NewPropertiesBag()
			if inst.PrototypicalPropertiesFactory != nil {
				bag = inst.PrototypicalPropertiesFactory()
			}
			np = &nodePersist{bag: bag, common: make(map[string]*Property[paxel.Value])}
			ex.persist[key] = np
		}

		for settingKey, sv := range inst.Settings {
			if commonPropertyKeys[settingKey] {
				continue
			}
			ex.syncSettingCell(np.bag, settingKey, sv, frame, key)
		}

		dirty := ex.nativeDirtyFor(np)

		common := ex.resolveCommon(np, inst, frame, key)
		tab := ComposeLayout(parentTAB, common)

		childFrame := frame.Push(np.bag)

		childAdoptees := adoptees
		if inst.Kind == InstanceComponent {
			childAdoptees = inst.SlotContent
		}

		children, err := ex.expandChildren(inst.Children, nodeChain, childFrame, tab, childAdoptees)
		if err != nil {
			return nil, err
		}

		node := &ExpandedNode{
			IDChain:     nodeChain,
			Instance:    inst,
			Bag:         np.bag,
			Frame:       childFrame,
			Children:    children,
			Common:      common,
			TAB:         tab,
			ParentTAB:   parentTAB,
			NativeDirty: dirty,
		}
		return []*ExpandedNode{node}, nil
	}
	return nil, nil
}

// nativeDirtyFor forces a read of np's text/src cells (if present) and
// compares their version counters against what was last observed. A
// literal cell's version moves only when it is Set, so an unchanged literal
// reads as clean; an expression-backed cell with no declared dependencies
// recomputes and bumps its version on every read, so it reads as dirty on
// every tick even when its value is the same. Occlusion's own dirty flag is
// filled in separately by the occlusion phase.
func (ex *Expander) nativeDirtyFor(np *nodePersist) NativeDirtyFlags {
	var dirty NativeDirtyFlags
	if cell, ok := np.bag.Fields["text"].(*Property[paxel.Value]); ok {
		cell.Get()
		v := cell.version()
		if !np.textSeen || v != np.textVer {
			dirty.Text = true
		}
		np.textVer, np.textSeen = v, true
	}
	if cell, ok := np.bag.Fields["src"].(*Property[paxel.Value]); ok {
		cell.Get()
		v := cell.version()
		if !np.srcSeen || v != np.srcVer {
			dirty.Image = true
		}
		np.srcVer, np.srcSeen = v, true
	}
	return dirty
}

// expandChildren expands a template child list in order, flattening if/for
// results directly into the returned slice: flattening erases control-flow
// nodes from the runtime tree entirely.
func (ex *Expander) expandChildren(templates []*InstanceNode, idChain IDChain, frame *Frame, parentTAB TransformAndBounds, adoptees []*InstanceNode) ([]*ExpandedNode, error) {
	var out []*ExpandedNode
	for _, t := range templates {
		nodes, err := ex.expandOne(t, idChain, frame, parentTAB, adoptees)
		if err != nil {
			return nil, err
		}
		out = append(out, nodes...)
	}
	return out, nil
}
