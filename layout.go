package pax

import (
	"log/slog"
	"math"

	"github.com/paxrt/pax/paxel"
)

// layoutLog gates layout-inversion warnings to once per (idChain, reason).
var layoutLog = newLogGate()

// TransformAndBounds pairs a composed 2D affine with the resolved pixel
// bounds it applies to. The affine encoding [a, b, c, d, tx, ty] and its
// composition math are taken directly from this ecosystem's 2D scene-graph
// transform code.
type TransformAndBounds struct {
	Affine           [6]float64
	BoundsW, BoundsH float64
}

var identityAffine = [6]float64{1, 0, 0, 1, 0, 0}

// IdentityTAB is the root transform-and-bounds: identity affine, the given
// canvas extent.
func IdentityTAB(w, h float64) TransformAndBounds {
	return TransformAndBounds{Affine: identityAffine, BoundsW: w, BoundsH: h}
}

// multiplyAffine multiplies two 2D affine matrices: result = parent * child.
func multiplyAffine(p, c [6]float64) [6]float64 {
	return [6]float64{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// invertAffine computes the inverse of a 2D affine matrix, or the identity
// if the matrix is singular.
func invertAffine(m [6]float64) ([6]float64, bool) {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return identityAffine, false
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return [6]float64{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}, true
}

func translationAffine(tx, ty float64) [6]float64 {
	return [6]float64{1, 0, 0, 1, tx, ty}
}

func scaleAffine(sx, sy float64) [6]float64 {
	return [6]float64{sx, 0, 0, sy, 0, 0}
}

func skewAffine(kx, ky float64) [6]float64 {
	return [6]float64{1, math.Tan(ky), math.Tan(kx), 1, 0, 0}
}

func rotateAffine(theta float64) [6]float64 {
	sin, cos := math.Sincos(theta)
	return [6]float64{cos, sin, -sin, cos, 0, 0}
}

// ResolvedCommonProperties is the per-tick-resolved value of the common
// properties every instance node carries: position, size, anchor, and the
// transform components layout composes into a TransformAndBounds.
type ResolvedCommonProperties struct {
	X, Y           paxel.Size
	Width, Height  paxel.Size
	AnchorX        *paxel.Size // nil = unset
	AnchorY        *paxel.Size
	ScaleX, ScaleY float64 // resolved percent, 1.0 = 100%
	SkewX, SkewY   paxel.Rotation
	Rotate         paxel.Rotation
	TransformTX    paxel.Size
	TransformTY    paxel.Size
}

// DefaultCommonProperties returns width/height 100%, identity transform.
func DefaultCommonProperties() ResolvedCommonProperties {
	return ResolvedCommonProperties{
		Width:  paxel.Pct(100),
		Height: paxel.Pct(100),
		ScaleX: 1, ScaleY: 1,
	}
}

// ComposeLayout resolves child bounds, anchor, the base transform
// (rotate∘scale∘skew∘translate), the outer align translation, and composes
//
//	tab_child.transform = tab_parent.transform · align · anchor · base_transform · author_transform
//
// author_transform here is the raw transform.translate offset; this
// implementation has no further author_transform fields beyond translate.
func ComposeLayout(parent TransformAndBounds, props ResolvedCommonProperties) TransformAndBounds {
	// Step 1: child bounds.
	childW := props.Width.Resolve(parent.BoundsW)
	childH := props.Height.Resolve(parent.BoundsH)

	// Step 2: anchor, resolved against child bounds, then negated.
	ax, ay := 0.0, 0.0
	if props.AnchorX != nil {
		ax = props.AnchorX.Resolve(childW)
	}
	if props.AnchorY != nil {
		ay = props.AnchorY.Resolve(childH)
	}
	anchor := translationAffine(-ax, -ay)

	// Step 3: base transform = rotate ∘ scale ∘ skew ∘ translate(author tx,ty).
	tx := props.TransformTX.Resolve(parent.BoundsW)
	ty := props.TransformTY.Resolve(parent.BoundsH)
	authorTransform := translationAffine(tx, ty)
	base := multiplyAffine(rotateAffine(props.Rotate.Radians()),
		multiplyAffine(scaleAffine(props.ScaleX, props.ScaleY),
			multiplyAffine(skewAffine(props.SkewX.Radians(), props.SkewY.Radians()), authorTransform)))

	// Step 4: align, x/y resolved against parent bounds.
	alignX := props.X.Resolve(parent.BoundsW)
	alignY := props.Y.Resolve(parent.BoundsH)
	align := translationAffine(alignX, alignY)

	// Step 5: compose parent.transform · align · anchor · base_transform.
	composed := multiplyAffine(parent.Affine, multiplyAffine(align, multiplyAffine(anchor, base)))

	return TransformAndBounds{Affine: composed, BoundsW: childW, BoundsH: childH}
}

// InvertLayout recovers (x, y, width, height, rotate, scale) from a target
// child TAB and the parent TAB it was composed against. Sizes always come
// back in pixels and rotation in radians; the units the author wrote are
// not recovered. Fails with NonInvertibleLayoutError when a
// non-zero skew would force a degenerate choice — this implementation
// treats any request carrying non-zero skew together with a percent
// anchor as non-invertible.
func InvertLayout(idChain string, parent, child TransformAndBounds, skewX, skewY paxel.Rotation, anchorIsPercent bool) (ResolvedCommonProperties, error) {
	if anchorIsPercent && (skewX.Radians() != 0 || skewY.Radians() != 0) {
		return ResolvedCommonProperties{}, &NonInvertibleLayoutError{IDChain: idChain}
	}
	parentInv, ok := invertAffine(parent.Affine)
	if !ok {
		return ResolvedCommonProperties{}, &LayoutError{IDChain: idChain, Reason: "parent transform is singular"}
	}
	rel := multiplyAffine(parentInv, child.Affine)

	// rel = align (since anchor/base/author collapse to identity when skew
	// and rotation are zero and anchor is origin); rel[4], rel[5] are x, y.
	rotate := math.Atan2(rel[1], rel[0])
	scaleX := math.Hypot(rel[0], rel[1])
	scaleY := math.Hypot(rel[2], rel[3])

	return ResolvedCommonProperties{
		X:      paxel.Px(rel[4]),
		Y:      paxel.Px(rel[5]),
		Width:  paxel.Px(child.BoundsW),
		Height: paxel.Px(child.BoundsH),
		Rotate: paxel.Rotation{Unit: paxel.RotationUnitRadians, Value: rotate},
		ScaleX: scaleX, ScaleY: scaleY,
	}, nil
}

// InvertGeometry recovers n's authored x/y/width/height/rotate/scale from
// its composed transform and its parent's, for a handler that wants to read
// back a node's current geometry — e.g. to seed a drag from its present
// position rather than its last-authored one. On a non-invertible
// skew/anchor combination or a singular parent transform it logs once per
// node and reports ok=false rather than returning a wrong answer.
func (n *ExpandedNode) InvertGeometry(logger *slog.Logger) (ResolvedCommonProperties, bool) {
	anchorIsPercent := (n.Common.AnchorX != nil && n.Common.AnchorX.Unit == paxel.SizeUnitPercent) ||
		(n.Common.AnchorY != nil && n.Common.AnchorY.Unit == paxel.SizeUnitPercent)
	geom, err := InvertLayout(n.IDChain.Key(), n.ParentTAB, n.TAB, n.Common.SkewX, n.Common.SkewY, anchorIsPercent)
	if err != nil {
		if logger != nil {
			layoutLog.logOnce(logger, n.IDChain.Key(), "invert_geometry", "layout inversion failed", "err", err)
		}
		return ResolvedCommonProperties{}, false
	}
	return geom, true
}

// TransformPoint applies an affine matrix to a point.
func TransformPoint(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}
