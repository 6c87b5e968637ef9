package cove

// Vec2 is a 2D vector used for positions, offsets and deltas throughout
// the API. Whether it is in virtual or screen space depends on context.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v * s.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Right returns the X coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the Y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonLeft   MouseButton = iota // primary (left) mouse button
	MouseButtonRight                     // secondary (right) mouse button
	MouseButtonMiddle                    // middle mouse button (scroll wheel click)
)

// KeyModifiers is a bitmask of keyboard modifier keys.
// Values can be combined with bitwise OR (e.g. ModShift | ModCtrl).
type KeyModifiers uint8

const (
	ModShift KeyModifiers = 1 << iota // Shift key
	ModCtrl                           // Control key
	ModAlt                            // Alt / Option key
	ModMeta                           // Meta / Command / Windows key
)

// Has reports whether every bit in m2 is set in m.
func (m KeyModifiers) Has(m2 KeyModifiers) bool { return m&m2 == m2 }

// Handle identifies one of the eight resize grab points on a card border.
// HandleNone is the zero value and means "not on a handle".
type Handle uint8

const (
	HandleNone Handle = iota
	HandleTopLeft
	HandleTop
	HandleTopRight
	HandleRight
	HandleBottomRight
	HandleBottom
	HandleBottomLeft
	HandleLeft
)

var handleNames = [...]string{
	HandleNone:        "none",
	HandleTopLeft:     "top-left",
	HandleTop:         "top",
	HandleTopRight:    "top-right",
	HandleRight:       "right",
	HandleBottomRight: "bottom-right",
	HandleBottom:      "bottom",
	HandleBottomLeft:  "bottom-left",
	HandleLeft:        "left",
}

func (h Handle) String() string {
	if int(h) < len(handleNames) {
		return handleNames[h]
	}
	return "unknown"
}

// ParseHandle returns the handle with the given name ("top-left", "right", ...).
func ParseHandle(name string) (Handle, bool) {
	for i, n := range handleNames {
		if i > 0 && n == name {
			return Handle(i), true
		}
	}
	return HandleNone, false
}

// Left reports whether the handle moves the left edge.
func (h Handle) Left() bool {
	return h == HandleLeft || h == HandleTopLeft || h == HandleBottomLeft
}

// Right reports whether the handle moves the right edge.
func (h Handle) Right() bool {
	return h == HandleRight || h == HandleTopRight || h == HandleBottomRight
}

// Top reports whether the handle moves the top edge.
func (h Handle) Top() bool {
	return h == HandleTop || h == HandleTopLeft || h == HandleTopRight
}

// Bottom reports whether the handle moves the bottom edge.
func (h Handle) Bottom() bool {
	return h == HandleBottom || h == HandleBottomLeft || h == HandleBottomRight
}

// Handles lists the eight resize handles in hit-test order: corners first so
// they win over the edges they overlap.
var Handles = [8]Handle{
	HandleTopLeft, HandleTopRight, HandleBottomRight, HandleBottomLeft,
	HandleTop, HandleRight, HandleBottom, HandleLeft,
}

// Layer is the rendering layer of a card. Higher layers draw on top.
type Layer uint8

const (
	LayerBase     Layer = 30 // every card not selected or dragged
	LayerSelected Layer = 40 // most recently selected card
	LayerDragging Layer = 50 // card under an active drag
)

// Geometry and interaction constants.
const (
	MinCardWidth  = 250.0 // minimum card width in virtual units
	MinCardHeight = 200.0 // minimum card height in virtual units
	DragOverflow  = 100.0 // how far a dragged card may leave the viewport, virtual units

	HandleSize     = 12.0 // side of a resize handle hit square, screen pixels
	WheelPanFactor = 0.5  // screen pixels panned per unit of plain wheel delta
)
