package cove

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// ZoomLevels is the ordered set of zoom factors the viewport may commit to.
var ZoomLevels = [...]float64{0.25, 0.5, 0.75, 1, 1.25, 1.5, 2}

// DefaultZoomIndex addresses zoom level 1 in ZoomLevels.
const DefaultZoomIndex = 3

// Transition durations in seconds.
const (
	zoomTransition  = 0.3
	wheelTransition = 0.2
)

// viewTransition holds the active display tweens for zoom and pan.
type viewTransition struct {
	zoom *gween.Tween
	panX *gween.Tween
	panY *gween.Tween
	done [3]bool
}

// Viewport maps between the unbounded virtual space where cards live and the
// screen space pointer events are reported in.
//
//	screen = virtual*zoom + pan
//	virtual = (screen - pan) / zoom
//
// The committed zoom is always one of ZoomLevels. Zoom and reset changes start
// a short display transition; Display returns the interpolated values for
// rendering while interaction always uses the committed ones.
type Viewport struct {
	zoomIndex int
	pan       Vec2
	size      Vec2

	viewMatrix    [6]float64
	invViewMatrix [6]float64
	dirty         bool

	displayZoom float64
	displayPan  Vec2
	transition  *viewTransition
}

// NewViewport creates a viewport at the default zoom with no pan and the
// given screen size in pixels.
func NewViewport(width, height float64) *Viewport {
	return &Viewport{
		zoomIndex:   DefaultZoomIndex,
		size:        Vec2{width, height},
		displayZoom: ZoomLevels[DefaultZoomIndex],
		dirty:       true,
	}
}

// Zoom returns the committed zoom factor.
func (v *Viewport) Zoom() float64 { return ZoomLevels[v.zoomIndex] }

// ZoomIndex returns the committed position in ZoomLevels.
func (v *Viewport) ZoomIndex() int { return v.zoomIndex }

// ZoomPercent returns the committed zoom as a rounded percentage.
func (v *Viewport) ZoomPercent() int { return int(math.Round(v.Zoom() * 100)) }

// Pan returns the pan offset in screen pixels.
func (v *Viewport) Pan() Vec2 { return v.pan }

// Size returns the last-measured viewport size in screen pixels.
func (v *Viewport) Size() Vec2 { return v.size }

// VirtualSize returns the viewport size expressed in virtual units.
func (v *Viewport) VirtualSize() Vec2 {
	z := v.Zoom()
	return Vec2{v.size.X / z, v.size.Y / z}
}

// SetSize records a new viewport size, typically after a container resize.
func (v *Viewport) SetSize(width, height float64) {
	v.size = Vec2{width, height}
}

// SetZoomIndex commits the zoom index directly, clamped to the valid range.
// No transition is started.
func (v *Viewport) SetZoomIndex(i int) {
	v.zoomIndex = clampIndex(i)
	v.dirty = true
	v.snapDisplay()
}

// SetPan commits the pan offset directly. No transition is started.
func (v *Viewport) SetPan(p Vec2) {
	v.pan = p
	v.dirty = true
	v.snapDisplay()
}

// VirtualToScreen converts a virtual point to screen coordinates.
func (v *Viewport) VirtualToScreen(p Vec2) Vec2 {
	z := v.Zoom()
	return Vec2{p.X*z + v.pan.X, p.Y*z + v.pan.Y}
}

// ScreenToVirtual converts a screen point to virtual coordinates.
func (v *Viewport) ScreenToVirtual(p Vec2) Vec2 {
	z := v.Zoom()
	return Vec2{(p.X - v.pan.X) / z, (p.Y - v.pan.Y) / z}
}

// ProjectRect converts a virtual rectangle to its screen-space rectangle.
func (v *Viewport) ProjectRect(r Rect) Rect {
	z := v.Zoom()
	return Rect{
		X:      r.X*z + v.pan.X,
		Y:      r.Y*z + v.pan.Y,
		Width:  r.Width * z,
		Height: r.Height * z,
	}
}

// CanZoomIn reports whether ZoomIn would change the zoom.
func (v *Viewport) CanZoomIn() bool { return v.zoomIndex < len(ZoomLevels)-1 }

// CanZoomOut reports whether ZoomOut would change the zoom.
func (v *Viewport) CanZoomOut() bool { return v.zoomIndex > 0 }

// ZoomIn moves one step up the zoom ladder. It returns false, leaving the
// viewport untouched, when already at the largest level.
func (v *Viewport) ZoomIn() bool {
	if !v.CanZoomIn() {
		return false
	}
	v.commit(v.zoomIndex+1, v.pan, zoomTransition)
	return true
}

// ZoomOut moves one step down the zoom ladder. It returns false, leaving the
// viewport untouched, when already at the smallest level.
func (v *Viewport) ZoomOut() bool {
	if !v.CanZoomOut() {
		return false
	}
	v.commit(v.zoomIndex-1, v.pan, zoomTransition)
	return true
}

// ZoomAt moves the zoom index by steps (positive zooms in) while keeping the
// virtual point under the screen position anchor fixed on screen. It returns
// false when the clamped index does not change.
func (v *Viewport) ZoomAt(anchor Vec2, steps int) bool {
	next := clampIndex(v.zoomIndex + steps)
	if next == v.zoomIndex {
		return false
	}
	ratio := ZoomLevels[next] / v.Zoom()
	pan := Vec2{
		X: anchor.X - (anchor.X-v.pan.X)*ratio,
		Y: anchor.Y - (anchor.Y-v.pan.Y)*ratio,
	}
	v.commit(next, pan, wheelTransition)
	return true
}

// PanBy translates the pan offset by (dx, dy) screen pixels. Panning ends
// any display transition so the drawn view tracks the pointer exactly.
func (v *Viewport) PanBy(dx, dy float64) {
	v.pan.X += dx
	v.pan.Y += dy
	v.dirty = true
	v.snapDisplay()
}

// Reset returns to the default zoom with no pan, unconditionally.
func (v *Viewport) Reset() {
	v.commit(DefaultZoomIndex, Vec2{}, zoomTransition)
}

// commit sets the committed zoom index and pan and starts a display
// transition from the currently displayed values.
func (v *Viewport) commit(index int, pan Vec2, duration float32) {
	fromZoom, fromPan := v.Display()
	v.zoomIndex = index
	v.pan = pan
	v.dirty = true
	v.transition = &viewTransition{
		zoom: gween.New(float32(fromZoom), float32(ZoomLevels[index]), duration, ease.OutCubic),
		panX: gween.New(float32(fromPan.X), float32(pan.X), duration, ease.OutCubic),
		panY: gween.New(float32(fromPan.Y), float32(pan.Y), duration, ease.OutCubic),
	}
}

// Update advances the display transition by dt seconds.
func (v *Viewport) Update(dt float32) {
	t := v.transition
	if t == nil {
		return
	}
	if !t.done[0] {
		val, done := t.zoom.Update(dt)
		v.displayZoom = float64(val)
		t.done[0] = done
	}
	if !t.done[1] {
		val, done := t.panX.Update(dt)
		v.displayPan.X = float64(val)
		t.done[1] = done
	}
	if !t.done[2] {
		val, done := t.panY.Update(dt)
		v.displayPan.Y = float64(val)
		t.done[2] = done
	}
	if t.done[0] && t.done[1] && t.done[2] {
		v.snapDisplay()
	}
}

// Transitioning reports whether a display transition is in progress.
func (v *Viewport) Transitioning() bool { return v.transition != nil }

// Display returns the zoom and pan to draw with. Outside a transition these
// equal the committed values.
func (v *Viewport) Display() (zoom float64, pan Vec2) {
	if v.transition == nil {
		return v.Zoom(), v.pan
	}
	return v.displayZoom, v.displayPan
}

// snapDisplay ends any transition and aligns display values with the
// committed ones.
func (v *Viewport) snapDisplay() {
	v.transition = nil
	v.displayZoom = v.Zoom()
	v.displayPan = v.pan
}

// computeViewMatrix recomputes the cached view matrix if dirty.
//
// viewMatrix = Translate(pan) * Scale(zoom)
func (v *Viewport) computeViewMatrix() [6]float64 {
	if !v.dirty {
		return v.viewMatrix
	}
	v.dirty = false
	v.viewMatrix = scaleTranslate(v.Zoom(), v.pan.X, v.pan.Y)
	v.invViewMatrix = invertAffine(v.viewMatrix)
	return v.viewMatrix
}

// Matrix returns the committed virtual-to-screen affine matrix as
// [a, b, c, d, tx, ty].
func (v *Viewport) Matrix() [6]float64 {
	return v.computeViewMatrix()
}

// VisibleBounds returns the virtual-space rectangle covered by the screen.
func (v *Viewport) VisibleBounds() Rect {
	v.computeViewMatrix()
	inv := v.invViewMatrix

	x0, y0 := transformPoint(inv, 0, 0)
	x1, y1 := transformPoint(inv, v.size.X, v.size.Y)

	return Rect{
		X:      math.Min(x0, x1),
		Y:      math.Min(y0, y1),
		Width:  math.Abs(x1 - x0),
		Height: math.Abs(y1 - y0),
	}
}

func clampIndex(i int) int {
	return max(0, min(i, len(ZoomLevels)-1))
}
