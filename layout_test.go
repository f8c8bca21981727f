package pax

import (
	"math"
	"testing"

	"github.com/paxrt/pax/paxel"
)

func TestComposeLayoutIdentityDefaults(t *testing.T) {
	parent := IdentityTAB(200, 100)
	common := DefaultCommonProperties()
	tab := ComposeLayout(parent, common)

	if tab.BoundsW != 200 || tab.BoundsH != 100 {
		t.Errorf("bounds = (%v, %v), want (200, 100) for 100%% width/height", tab.BoundsW, tab.BoundsH)
	}
	if tab.Affine != identityAffine {
		t.Errorf("affine = %v, want identity", tab.Affine)
	}
}

func TestComposeLayoutTranslatesByAlign(t *testing.T) {
	parent := IdentityTAB(200, 100)
	common := DefaultCommonProperties()
	common.X = paxel.Px(10)
	common.Y = paxel.Px(20)
	tab := ComposeLayout(parent, common)

	if tab.Affine[4] != 10 || tab.Affine[5] != 20 {
		t.Errorf("translation = (%v, %v), want (10, 20)", tab.Affine[4], tab.Affine[5])
	}
}

func TestComposeLayoutPercentWidthResolvesAgainstParent(t *testing.T) {
	parent := IdentityTAB(200, 100)
	common := DefaultCommonProperties()
	common.Width = paxel.Pct(50)
	tab := ComposeLayout(parent, common)
	if tab.BoundsW != 100 {
		t.Errorf("width = %v, want 100 (50%% of 200)", tab.BoundsW)
	}
}

func TestComposeLayoutRotationProducesExpectedAffine(t *testing.T) {
	parent := IdentityTAB(100, 100)
	common := DefaultCommonProperties()
	common.Rotate = paxel.Rotation{Unit: paxel.RotationUnitDegrees, Value: 90}
	tab := ComposeLayout(parent, common)

	// A 90-degree rotation should map the local x-axis onto the y-axis.
	x, y := TransformPoint(tab.Affine, 1, 0)
	if math.Abs(x) > 1e-9 || math.Abs(y-1) > 1e-9 {
		t.Errorf("rotated unit x-axis = (%v, %v), want ~(0, 1)", x, y)
	}
}

func TestInvertLayoutRoundTripsTranslation(t *testing.T) {
	parent := IdentityTAB(200, 100)
	common := DefaultCommonProperties()
	common.X = paxel.Px(15)
	common.Y = paxel.Px(25)
	child := ComposeLayout(parent, common)

	inv, err := InvertLayout("root", parent, child, paxel.Rotation{}, paxel.Rotation{}, false)
	if err != nil {
		t.Fatalf("InvertLayout: %v", err)
	}
	if math.Abs(inv.X.Resolve(0)-15) > 1e-6 || math.Abs(inv.Y.Resolve(0)-25) > 1e-6 {
		t.Errorf("inverted (x, y) = (%v, %v), want (15, 25)", inv.X.Resolve(0), inv.Y.Resolve(0))
	}
}

func TestInvertLayoutRejectsSkewWithPercentAnchor(t *testing.T) {
	parent := IdentityTAB(200, 100)
	child := IdentityTAB(50, 50)
	skew := paxel.Rotation{Unit: paxel.RotationUnitDegrees, Value: 10}
	_, err := InvertLayout("node/1", parent, child, skew, paxel.Rotation{}, true)
	if err == nil {
		t.Fatal("expected NonInvertibleLayoutError")
	}
	if _, ok := err.(*NonInvertibleLayoutError); !ok {
		t.Errorf("error type = %T, want *NonInvertibleLayoutError", err)
	}
}

func TestExpandedNodeInvertGeometryRoundTrips(t *testing.T) {
	parent := IdentityTAB(200, 100)
	common := DefaultCommonProperties()
	common.X = paxel.Px(15)
	common.Y = paxel.Px(25)

	node := &ExpandedNode{
		IDChain:   buildChain(0, 1),
		ParentTAB: parent,
		TAB:       ComposeLayout(parent, common),
		Common:    common,
	}

	geom, ok := node.InvertGeometry(nil)
	if !ok {
		t.Fatal("expected InvertGeometry to succeed for a plain translation")
	}
	if math.Abs(geom.X.Resolve(0)-15) > 1e-6 || math.Abs(geom.Y.Resolve(0)-25) > 1e-6 {
		t.Errorf("inverted (x, y) = (%v, %v), want (15, 25)", geom.X.Resolve(0), geom.Y.Resolve(0))
	}
}

func TestExpandedNodeInvertGeometryReportsFailureForNonInvertibleSkew(t *testing.T) {
	pct := paxel.Pct(50)
	common := DefaultCommonProperties()
	common.AnchorX = &pct
	common.SkewX = paxel.Rotation{Unit: paxel.RotationUnitDegrees, Value: 10}

	node := &ExpandedNode{
		IDChain:   buildChain(0, 2),
		ParentTAB: IdentityTAB(200, 100),
		TAB:       IdentityTAB(50, 50),
		Common:    common,
	}

	if _, ok := node.InvertGeometry(nil); ok {
		t.Error("expected InvertGeometry to fail for skew combined with a percent anchor")
	}
}
