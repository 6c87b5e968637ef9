package desktop

import (
	"errors"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/phanxgames/cove"
)

// wheelLineDelta converts one ebiten wheel notch into the pixel delta the
// session expects. Ebitengine reports scroll-up as positive, the session
// treats positive DeltaY as scroll-down.
const wheelLineDelta = 100.0

// pointerState is the mouse state seen on the previous frame.
type pointerState struct {
	x, y   int
	inside bool
}

var mouseButtons = [...]struct {
	eb   ebiten.MouseButton
	cove cove.MouseButton
}{
	{ebiten.MouseButtonLeft, cove.MouseButtonLeft},
	{ebiten.MouseButtonRight, cove.MouseButtonRight},
	{ebiten.MouseButtonMiddle, cove.MouseButtonMiddle},
}

// readModifiers reads the current keyboard modifier state.
func readModifiers() cove.KeyModifiers {
	var mods cove.KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) || ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight) {
		mods |= cove.ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight) {
		mods |= cove.ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) || ebiten.IsKeyPressed(ebiten.KeyAltLeft) || ebiten.IsKeyPressed(ebiten.KeyAltRight) {
		mods |= cove.ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) || ebiten.IsKeyPressed(ebiten.KeyMetaLeft) || ebiten.IsKeyPressed(ebiten.KeyMetaRight) {
		mods |= cove.ModMeta
	}
	return mods
}

// pollPointer translates this frame's mouse state into session pointer
// events: leave, presses, one move, releases, then the wheel.
func (g *Game) pollPointer() {
	s := g.session
	mx, my := ebiten.CursorPosition()
	x, y := float64(mx), float64(my)
	mods := readModifiers()

	size := s.Viewport().Size()
	inside := x >= 0 && y >= 0 && x < size.X && y < size.Y
	if g.pointer.inside && !inside {
		s.PointerLeave()
	}

	for _, b := range mouseButtons {
		if !inpututil.IsMouseButtonJustPressed(b.eb) {
			continue
		}
		over := g.hud.overControl(x, y)
		if over && b.cove == cove.MouseButtonLeft {
			g.hud.press(x, y, s.Viewport())
		}
		s.PointerDown(cove.PointerEvent{X: x, Y: y, Button: b.cove, Modifiers: mods, OverControl: over})
	}

	if mx != g.pointer.x || my != g.pointer.y {
		s.PointerMove(cove.PointerEvent{X: x, Y: y, Modifiers: mods})
	}

	for _, b := range mouseButtons {
		if inpututil.IsMouseButtonJustReleased(b.eb) {
			s.PointerUp(cove.PointerEvent{X: x, Y: y, Button: b.cove, Modifiers: mods})
		}
	}

	if dx, dy := ebiten.Wheel(); dx != 0 || dy != 0 {
		s.Wheel(cove.WheelEvent{
			X: x, Y: y,
			DeltaX:    -dx * wheelLineDelta,
			DeltaY:    -dy * wheelLineDelta,
			Modifiers: mods,
		})
	}

	g.pointer = pointerState{x: mx, y: my, inside: inside}
}

// pollKeys handles the message composer and keyboard shortcuts.
func (g *Game) pollKeys() {
	s := g.session
	mods := readModifiers()
	ctrl := mods&(cove.ModCtrl|cove.ModMeta) != 0

	if ctrl {
		switch {
		case inpututil.IsKeyJustPressed(ebiten.KeyEqual) || inpututil.IsKeyJustPressed(ebiten.KeyKPAdd):
			s.Viewport().ZoomIn()
		case inpututil.IsKeyJustPressed(ebiten.KeyMinus) || inpututil.IsKeyJustPressed(ebiten.KeyKPSubtract):
			s.Viewport().ZoomOut()
		case inpututil.IsKeyJustPressed(ebiten.Key0):
			s.Viewport().Reset()
		case inpututil.IsKeyJustPressed(ebiten.KeyN):
			c := s.NewConversation()
			s.Select(c.ID)
		case inpututil.IsKeyJustPressed(ebiten.KeyC):
			g.copySelected()
		case inpututil.IsKeyJustPressed(ebiten.KeyV):
			if clip, err := clipboard.ReadAll(); err == nil && clip != "" {
				g.composer = append(g.composer, []rune(clip)...)
			}
		}
	} else {
		g.runeBuf = ebiten.AppendInputChars(g.runeBuf[:0])
		g.composer = append(g.composer, g.runeBuf...)
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyBackspace):
		if n := len(g.composer); n > 0 {
			g.composer = g.composer[:n-1]
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyKPEnter):
		g.submit(ctrl)
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		s.Deselect()
	case inpututil.IsKeyJustPressed(ebiten.KeyDelete):
		if id := s.Selected(); id != "" {
			s.RemoveCard(id)
		}
	}
}

// submit sends the composer text: as a note on the selected card when ctrl
// is held, as a new message otherwise.
func (g *Game) submit(asNote bool) {
	s := g.session
	text := string(g.composer)
	if asNote && s.Selected() != "" {
		if err := s.SubmitNote(s.Selected(), text); err != nil {
			g.logger.Warn("note not sent", "err", err)
			return
		}
		g.composer = g.composer[:0]
		return
	}
	c, err := s.SendMessage(text)
	if err != nil {
		if !errors.Is(err, cove.ErrEmptyMessage) {
			g.logger.Warn("message not sent", "err", err)
		}
		return
	}
	s.Select(c.ID)
	g.composer = g.composer[:0]
}

// copySelected puts the selected card's content on the system clipboard.
func (g *Game) copySelected() {
	c, ok := g.session.Store().Get(g.session.Selected())
	if !ok {
		return
	}
	if err := clipboard.WriteAll(c.Content); err != nil {
		g.logger.Warn("clipboard write failed", "err", err)
		return
	}
	g.logger.Debug("copied card content", "card", c.ID, "bytes", len(c.Content))
}
