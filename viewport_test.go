package cove

import (
	"fmt"
	"testing"
)

func TestViewportDefaults(t *testing.T) {
	v := NewViewport(800, 600)
	if v.Zoom() != 1.0 {
		t.Errorf("Zoom = %f, want 1.0", v.Zoom())
	}
	if v.ZoomIndex() != DefaultZoomIndex {
		t.Errorf("ZoomIndex = %d, want %d", v.ZoomIndex(), DefaultZoomIndex)
	}
	if v.Pan() != (Vec2{}) {
		t.Errorf("Pan = %v, want zero", v.Pan())
	}
	if v.ZoomPercent() != 100 {
		t.Errorf("ZoomPercent = %d, want 100", v.ZoomPercent())
	}
	if v.Transitioning() {
		t.Error("new viewport should not be transitioning")
	}
}

func TestViewportRoundTrip(t *testing.T) {
	points := []Vec2{{0, 0}, {123.5, -87.25}, {-5000, 12000}, {1e-3, 1e6}}
	pans := []Vec2{{0, 0}, {-200, 0}, {317.3, -41.9}}
	for i := range ZoomLevels {
		for _, pan := range pans {
			v := NewViewport(800, 600)
			v.SetZoomIndex(i)
			v.SetPan(pan)
			for _, p := range points {
				got := v.ScreenToVirtual(v.VirtualToScreen(p))
				if !approxEqual(got.X, p.X, 1e-6) || !approxEqual(got.Y, p.Y, 1e-6) {
					t.Errorf("zoom %v pan %v: round trip of %v = %v", ZoomLevels[i], pan, p, got)
				}
			}
		}
	}
}

func TestViewportZoomFormula(t *testing.T) {
	v := NewViewport(800, 600)
	v.SetZoomIndex(6) // 2x
	v.SetPan(Vec2{10, 20})
	s := v.VirtualToScreen(Vec2{100, 50})
	if !approxEqual(s.X, 210, epsilon) || !approxEqual(s.Y, 120, epsilon) {
		t.Errorf("VirtualToScreen = %v, want (210,120)", s)
	}
	r := v.ProjectRect(Rect{X: 100, Y: 50, Width: 300, Height: 200})
	want := Rect{X: 210, Y: 120, Width: 600, Height: 400}
	if r != want {
		t.Errorf("ProjectRect = %v, want %v", r, want)
	}
}

func TestViewportZoomClamp(t *testing.T) {
	v := NewViewport(800, 600)
	for range len(ZoomLevels) + 3 {
		v.ZoomIn()
	}
	if v.ZoomIndex() != len(ZoomLevels)-1 {
		t.Fatalf("ZoomIndex = %d, want %d", v.ZoomIndex(), len(ZoomLevels)-1)
	}
	if v.CanZoomIn() {
		t.Error("CanZoomIn at top = true, want false")
	}
	if v.ZoomIn() {
		t.Error("ZoomIn at top = true, want false")
	}
	if v.ZoomIndex() != len(ZoomLevels)-1 {
		t.Errorf("ZoomIndex after extra ZoomIn = %d", v.ZoomIndex())
	}

	for range len(ZoomLevels) + 3 {
		v.ZoomOut()
	}
	if v.ZoomIndex() != 0 {
		t.Fatalf("ZoomIndex = %d, want 0", v.ZoomIndex())
	}
	if v.ZoomOut() || v.CanZoomOut() {
		t.Error("ZoomOut at bottom should be a no-op")
	}
	if v.ZoomPercent() != 25 {
		t.Errorf("ZoomPercent = %d, want 25", v.ZoomPercent())
	}
}

func TestViewportSetZoomIndexClamps(t *testing.T) {
	v := NewViewport(800, 600)
	v.SetZoomIndex(-4)
	if v.ZoomIndex() != 0 {
		t.Errorf("SetZoomIndex(-4) = %d, want 0", v.ZoomIndex())
	}
	v.SetZoomIndex(99)
	if v.ZoomIndex() != len(ZoomLevels)-1 {
		t.Errorf("SetZoomIndex(99) = %d, want %d", v.ZoomIndex(), len(ZoomLevels)-1)
	}
}

func TestViewportZoomAtKeepsAnchor(t *testing.T) {
	anchors := []Vec2{{0, 0}, {400, 300}, {799, 1}, {123.4, 567.8}}
	for _, anchor := range anchors {
		for _, steps := range []int{1, -1, 2, -3} {
			t.Run(fmt.Sprintf("%v/%d", anchor, steps), func(t *testing.T) {
				v := NewViewport(800, 600)
				v.SetPan(Vec2{37, -12})
				before := v.ScreenToVirtual(anchor)
				if !v.ZoomAt(anchor, steps) {
					t.Fatal("ZoomAt = false, want true")
				}
				after := v.ScreenToVirtual(anchor)
				if !approxEqual(before.X, after.X, 1e-9) || !approxEqual(before.Y, after.Y, 1e-9) {
					t.Errorf("virtual under anchor moved: %v -> %v", before, after)
				}
			})
		}
	}
}

func TestViewportZoomAtClampedIsNoop(t *testing.T) {
	v := NewViewport(800, 600)
	v.SetZoomIndex(len(ZoomLevels) - 1)
	v.SetPan(Vec2{5, 5})
	if v.ZoomAt(Vec2{100, 100}, 1) {
		t.Error("ZoomAt past top = true, want false")
	}
	if v.Pan() != (Vec2{5, 5}) {
		t.Errorf("Pan = %v, want unchanged", v.Pan())
	}
}

func TestViewportReset(t *testing.T) {
	v := NewViewport(800, 600)
	v.SetZoomIndex(0)
	v.SetPan(Vec2{-300, 900})
	v.Reset()
	if v.ZoomIndex() != DefaultZoomIndex || v.Pan() != (Vec2{}) {
		t.Errorf("after Reset: index %d pan %v", v.ZoomIndex(), v.Pan())
	}
	if !v.Transitioning() {
		t.Error("Reset should start a transition")
	}
}

func TestViewportTransition(t *testing.T) {
	v := NewViewport(800, 600)
	v.ZoomIn()
	if v.Zoom() != 1.25 {
		t.Fatalf("committed Zoom = %f, want 1.25", v.Zoom())
	}
	z, _ := v.Display()
	if z != 1.0 {
		t.Errorf("display zoom at start = %f, want 1.0", z)
	}

	v.Update(zoomTransition / 2)
	z, _ = v.Display()
	if z <= 1.0 || z >= 1.25 {
		t.Errorf("display zoom mid-transition = %f, want in (1, 1.25)", z)
	}

	v.Update(zoomTransition)
	if v.Transitioning() {
		t.Error("transition should be finished")
	}
	z, _ = v.Display()
	if z != 1.25 {
		t.Errorf("display zoom after transition = %f, want 1.25", z)
	}
}

func TestViewportPanByEndsTransition(t *testing.T) {
	v := NewViewport(800, 600)
	v.ZoomOut()
	v.PanBy(15, -5)
	if v.Transitioning() {
		t.Error("PanBy should end the transition")
	}
	z, pan := v.Display()
	if z != v.Zoom() || pan != (Vec2{15, -5}) {
		t.Errorf("Display = (%f, %v), want (%f, (15,-5))", z, pan, v.Zoom())
	}
}

func TestViewportVisibleBounds(t *testing.T) {
	v := NewViewport(800, 600)
	v.SetZoomIndex(6) // 2x
	v.SetPan(Vec2{100, 50})
	b := v.VisibleBounds()
	if !approxEqual(b.X, -50, epsilon) || !approxEqual(b.Y, -25, epsilon) ||
		!approxEqual(b.Width, 400, epsilon) || !approxEqual(b.Height, 300, epsilon) {
		t.Errorf("VisibleBounds = %v, want {-50 -25 400 300}", b)
	}
}

func TestViewportMatrixRecomputedWhenDirty(t *testing.T) {
	v := NewViewport(800, 600)
	assertMatrix(t, "initial", v.Matrix(), identityTransform)
	v.PanBy(10, 20)
	assertMatrix(t, "after pan", v.Matrix(), [6]float64{1, 0, 0, 1, 10, 20})
	v.SetZoomIndex(1)
	assertMatrix(t, "after zoom", v.Matrix(), [6]float64{0.5, 0, 0, 0.5, 10, 20})
}

func TestViewportVirtualSize(t *testing.T) {
	v := NewViewport(800, 600)
	v.SetZoomIndex(1) // 0.5x
	vs := v.VirtualSize()
	if vs.X != 1600 || vs.Y != 1200 {
		t.Errorf("VirtualSize = %v, want (1600,1200)", vs)
	}
	v.SetSize(400, 300)
	if v.Size() != (Vec2{400, 300}) {
		t.Errorf("Size = %v, want (400,300)", v.Size())
	}
}
