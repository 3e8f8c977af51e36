package css

import (
	"math"
	"testing"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestMatrix_TranslationMovesPoints(t *testing.T) {
	m := Translation(10, -5)
	x, y := m.TransformPoint(1, 2)
	if !approx(x, 11) || !approx(y, -3) {
		t.Errorf("expected (11,-3), got (%g,%g)", x, y)
	}
}

func TestMatrix_MulAppliesRightFirst(t *testing.T) {
	// Scale after translating: the translation is scaled too.
	m := Scaling(2, 2).Mul(Translation(3, 0))
	x, y := m.TransformPoint(1, 1)
	if !approx(x, 8) || !approx(y, 2) {
		t.Errorf("expected (8,2), got (%g,%g)", x, y)
	}

	// Translate after scaling: the translation stays unscaled.
	m = Translation(3, 0).Mul(Scaling(2, 2))
	x, y = m.TransformPoint(1, 1)
	if !approx(x, 5) || !approx(y, 2) {
		t.Errorf("expected (5,2), got (%g,%g)", x, y)
	}
}

func TestMatrix_RotationQuarterTurn(t *testing.T) {
	m := Rotation(math.Pi / 2)
	x, y := m.TransformPoint(1, 0)
	if !approx(x, 0) || !approx(y, 1) {
		t.Errorf("expected (0,1), got (%g,%g)", x, y)
	}
}

func TestMatrix_Identity(t *testing.T) {
	if !Identity().IsIdentity() {
		t.Error("identity must report itself")
	}
	if Translation(1, 0).IsIdentity() {
		t.Error("translation is not identity")
	}
}

func TestParseTransform_Matrix(t *testing.T) {
	m, ok := ParseTransform("matrix(1, 0, 0, 1, 40, 8)")
	if !ok {
		t.Fatal("expected parse success")
	}
	if m != Translation(40, 8) {
		t.Errorf("expected translation matrix, got %+v", m)
	}
}

func TestParseTransform_Chain(t *testing.T) {
	m, ok := ParseTransform("translate(10px, 20px) scale(2)")
	if !ok {
		t.Fatal("expected parse success")
	}
	x, y := m.TransformPoint(1, 1)
	if !approx(x, 12) || !approx(y, 22) {
		t.Errorf("expected (12,22), got (%g,%g)", x, y)
	}
}

func TestParseTransform_RotateDegrees(t *testing.T) {
	m, ok := ParseTransform("rotate(90deg)")
	if !ok {
		t.Fatal("expected parse success")
	}
	x, y := m.TransformPoint(1, 0)
	if !approx(x, 0) || !approx(y, 1) {
		t.Errorf("expected (0,1), got (%g,%g)", x, y)
	}
}

func TestParseTransform_None(t *testing.T) {
	m, ok := ParseTransform("none")
	if !ok || !m.IsIdentity() {
		t.Error("none parses to identity")
	}
}

func TestParseTransform_Invalid(t *testing.T) {
	if _, ok := ParseTransform("skew(1em"); ok {
		t.Error("expected parse failure")
	}
}
