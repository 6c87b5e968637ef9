package cove

import "fmt"

// Mode is the current pointer interaction. Exactly one mode is active at a
// time; the concrete types are Idle, Panning, Dragging and Resizing. The
// interface is sealed so no other state can be represented.
type Mode interface {
	isMode()
	String() string
}

// Idle means no gesture is in progress.
type Idle struct{}

// Panning translates the viewport. Last is the screen position of the
// previous pointer event of the gesture.
type Panning struct {
	Last Vec2
}

// Dragging moves one card. Grab is the offset from the card origin to the
// pointer at press time, in virtual units.
type Dragging struct {
	CardID string
	Grab   Vec2
}

// Resizing changes one card's size through a handle. Pointer is the screen
// position at press time and Start the card geometry at press time.
type Resizing struct {
	CardID  string
	Handle  Handle
	Pointer Vec2
	Start   Geometry
}

func (Idle) isMode()     {}
func (Panning) isMode()  {}
func (Dragging) isMode() {}
func (Resizing) isMode() {}

func (Idle) String() string    { return "idle" }
func (Panning) String() string { return "panning" }

func (m Dragging) String() string { return fmt.Sprintf("dragging(%s)", m.CardID) }

func (m Resizing) String() string {
	return fmt.Sprintf("resizing(%s, %s)", m.CardID, m.Handle)
}

// activeCardID returns the card manipulated by m, or "" when none.
func activeCardID(m Mode) string {
	switch m := m.(type) {
	case Dragging:
		return m.CardID
	case Resizing:
		return m.CardID
	default:
		return ""
	}
}
