package cove

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertMatrix(t *testing.T, name string, got, want [6]float64) {
	t.Helper()
	for i := range got {
		if math.Abs(got[i]-want[i]) > epsilon {
			t.Errorf("%s[%d] = %v, want %v (full: %v vs %v)", name, i, got[i], want[i], got, want)
		}
	}
}

// --- scaleTranslate ---

func TestScaleTranslateIdentity(t *testing.T) {
	assertMatrix(t, "scaleTranslate(1,0,0)", scaleTranslate(1, 0, 0), identityTransform)
}

func TestScaleTranslatePoint(t *testing.T) {
	m := scaleTranslate(2, 10, -5)
	x, y := transformPoint(m, 3, 4)
	assertNear(t, "x", x, 16)
	assertNear(t, "y", y, 3)
}

// --- invertAffine ---

func TestInvertAffine(t *testing.T) {
	m := scaleTranslate(1.25, -200, 40)
	inv := invertAffine(m)
	for _, p := range [][2]float64{{0, 0}, {100, 50}, {-3.5, 1e4}} {
		sx, sy := transformPoint(m, p[0], p[1])
		vx, vy := transformPoint(inv, sx, sy)
		assertNear(t, "x", vx, p[0])
		assertNear(t, "y", vy, p[1])
	}
}

func TestInvertAffineSingularReturnsIdentity(t *testing.T) {
	m := [6]float64{0, 0, 0, 1, 10, 20}
	assertMatrix(t, "singular→identity", invertAffine(m), identityTransform)
}

func TestInvertAffineBothZeroScales(t *testing.T) {
	m := scaleTranslate(0, 50, 100)
	assertMatrix(t, "zero-scale→identity", invertAffine(m), identityTransform)
}

func BenchmarkTransformPoint(b *testing.B) {
	m := scaleTranslate(1.5, 20, 30)
	var x, y float64
	for i := 0; i < b.N; i++ {
		x, y = transformPoint(m, float64(i), float64(i))
	}
	_, _ = x, y
}
