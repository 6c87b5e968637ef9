package cove

// PointerEvent is a button press, move or release in screen coordinates.
type PointerEvent struct {
	X, Y      float64
	Button    MouseButton
	Modifiers KeyModifiers
	// OverControl is set when the pointer is over an interactive control
	// embedded in a card (an input, a button). Presses there never start a
	// gesture.
	OverControl bool
}

// Pos returns the event position as a Vec2.
func (e PointerEvent) Pos() Vec2 { return Vec2{e.X, e.Y} }

// WheelEvent is a scroll-wheel or trackpad delta at a screen position.
type WheelEvent struct {
	X, Y           float64
	DeltaX, DeltaY float64
	Modifiers      KeyModifiers
}

// zoomModifier is the modifier set that turns the wheel into zoom.
const zoomModifier = ModCtrl | ModMeta

// --- Handler registry ---

// ModeChange describes a transition of the interaction mode.
type ModeChange struct {
	From, To Mode
}

type modeHandler struct {
	id uint32
	fn func(ModeChange)
}

type handlerRegistry struct {
	modeChange []modeHandler
	nextID     uint32
}

// CallbackHandle allows removing a registered session callback.
type CallbackHandle struct {
	id  uint32
	reg *handlerRegistry
}

// Remove unregisters this callback so it no longer fires.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	s := h.reg.modeChange
	for i := range s {
		if s[i].id == h.id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = modeHandler{}
			h.reg.modeChange = s[:len(s)-1]
			return
		}
	}
}

// OnModeChange registers a callback fired whenever the interaction mode
// changes, for example to update the pointer cursor.
func (s *Session) OnModeChange(fn func(ModeChange)) CallbackHandle {
	s.handlers.nextID++
	id := s.handlers.nextID
	s.handlers.modeChange = append(s.handlers.modeChange, modeHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &s.handlers}
}

func (s *Session) setMode(m Mode) {
	prev := s.mode
	s.mode = m
	if prev == m {
		return
	}
	for _, h := range s.handlers.modeChange {
		h.fn(ModeChange{From: prev, To: m})
	}
}

// --- Hit testing ---

// handleAnchor returns the screen point a handle is centered on.
func handleAnchor(r Rect, h Handle) Vec2 {
	x := r.X + r.Width/2
	y := r.Y + r.Height/2
	if h.Left() {
		x = r.X
	} else if h.Right() {
		x = r.Right()
	}
	if h.Top() {
		y = r.Y
	} else if h.Bottom() {
		y = r.Bottom()
	}
	return Vec2{x, y}
}

// HandleRect returns the screen-space hit square of handle h on a card
// drawn at screen rectangle r.
func HandleRect(r Rect, h Handle) Rect {
	c := handleAnchor(r, h)
	return Rect{X: c.X - HandleSize/2, Y: c.Y - HandleSize/2, Width: HandleSize, Height: HandleSize}
}

// HandleAt returns the handle of a card drawn at screen rectangle r that
// contains the point, or HandleNone. Corners win over edges.
func HandleAt(r Rect, x, y float64) Handle {
	for _, h := range Handles {
		if HandleRect(r, h).Contains(x, y) {
			return h
		}
	}
	return HandleNone
}

// CardAt returns the id of the topmost card under the screen point, or "".
func (s *Session) CardAt(x, y float64) string {
	p := s.viewport.ScreenToVirtual(Vec2{x, y})
	cards := s.ordered()
	for i := len(cards) - 1; i >= 0; i-- {
		if cards[i].Geometry.Rect().Contains(p.X, p.Y) {
			return cards[i].ID
		}
	}
	return ""
}

// handleUnder returns the resize handle of the selected card under the
// screen point. Only the selected card shows handles.
func (s *Session) handleUnder(x, y float64) Handle {
	g, ok := s.store.Geometry(s.selected)
	if !ok {
		return HandleNone
	}
	return HandleAt(s.viewport.ProjectRect(g.Rect()), x, y)
}

// --- State machine ---

// PointerDown starts a gesture. It is ignored unless the session is idle,
// so a second button or a modifier pressed mid-gesture changes nothing.
func (s *Session) PointerDown(e PointerEvent) {
	if _, idle := s.mode.(Idle); !idle {
		return
	}
	if e.OverControl {
		return
	}

	pos := e.Pos()
	if e.Button == MouseButtonMiddle ||
		(e.Button == MouseButtonLeft && e.Modifiers.Has(ModAlt)) {
		s.setMode(Panning{Last: pos})
		return
	}
	if e.Button != MouseButtonLeft {
		return
	}

	if h := s.handleUnder(e.X, e.Y); h != HandleNone {
		g, _ := s.store.Geometry(s.selected)
		s.setMode(Resizing{CardID: s.selected, Handle: h, Pointer: pos, Start: g})
		return
	}

	id := s.CardAt(e.X, e.Y)
	if id == "" {
		return
	}
	g, _ := s.store.Geometry(id)
	s.selected = id
	v := s.viewport.ScreenToVirtual(pos)
	s.setMode(Dragging{CardID: id, Grab: Vec2{v.X - g.X, v.Y - g.Y}})
}

// PointerMove updates the active gesture. Moves while idle are ignored.
func (s *Session) PointerMove(e PointerEvent) {
	switch m := s.mode.(type) {
	case Panning:
		s.viewport.PanBy(e.X-m.Last.X, e.Y-m.Last.Y)
		s.mode = Panning{Last: e.Pos()}

	case Dragging:
		g, ok := s.store.Geometry(m.CardID)
		if !ok {
			s.setMode(Idle{})
			return
		}
		v := s.viewport.ScreenToVirtual(e.Pos())
		vs := s.viewport.VirtualSize()
		g.X = clampDrag(v.X-m.Grab.X, vs.X, g.Width)
		g.Y = clampDrag(v.Y-m.Grab.Y, vs.Y, g.Height)
		_, _ = s.store.SetGeometry(m.CardID, g)

	case Resizing:
		z := s.viewport.Zoom()
		delta := Vec2{(e.X - m.Pointer.X) / z, (e.Y - m.Pointer.Y) / z}
		if _, err := s.store.SetGeometry(m.CardID, resizeGeometry(m.Start, m.Handle, delta)); err != nil {
			s.setMode(Idle{})
		}
	}
}

// PointerUp ends any gesture, wherever the pointer is.
func (s *Session) PointerUp(PointerEvent) {
	s.setMode(Idle{})
}

// PointerLeave ends any gesture when the pointer leaves the canvas.
func (s *Session) PointerLeave() {
	s.setMode(Idle{})
}

// Wheel zooms around the pointer when a zoom modifier is held and pans by
// the delta otherwise. Wheel input during a gesture is ignored.
func (s *Session) Wheel(e WheelEvent) {
	if _, idle := s.mode.(Idle); !idle {
		return
	}
	if e.Modifiers&zoomModifier != 0 {
		switch {
		case e.DeltaY > 0:
			s.viewport.ZoomAt(Vec2{e.X, e.Y}, -1)
		case e.DeltaY < 0:
			s.viewport.ZoomAt(Vec2{e.X, e.Y}, 1)
		}
		return
	}
	s.viewport.PanBy(-e.DeltaX*WheelPanFactor, -e.DeltaY*WheelPanFactor)
}

// clampDrag keeps a dragged card within DragOverflow units of the visible
// extent on one axis.
func clampDrag(pos, extent, size float64) float64 {
	return max(-DragOverflow, min(pos, extent-size+DragOverflow))
}

// resizeGeometry applies a handle drag of delta virtual units to the
// geometry captured at press time. Left and top handles keep the opposite
// edge fixed, including when the size is clamped at the minimum.
func resizeGeometry(start Geometry, h Handle, delta Vec2) Geometry {
	g := start
	switch {
	case h.Right():
		g.Width = max(MinCardWidth, start.Width+delta.X)
	case h.Left():
		g.Width = max(MinCardWidth, start.Width-delta.X)
		g.X = start.X + (start.Width - g.Width)
	}
	switch {
	case h.Bottom():
		g.Height = max(MinCardHeight, start.Height+delta.Y)
	case h.Top():
		g.Height = max(MinCardHeight, start.Height-delta.Y)
		g.Y = start.Y + (start.Height - g.Height)
	}
	return g
}
