package desktop

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/phanxgames/cove"
)

const (
	hudButton  = 28.0
	hudMargin  = 12.0
	hudLabelW  = 56.0
	composerH  = 36.0
	fpsRefresh = 0.5
)

var (
	colorHUD         = color.RGBA{0x1f, 0x29, 0x37, 0xe0}
	colorHUDText     = color.RGBA{0xff, 0xff, 0xff, 0xff}
	colorHUDDisabled = color.RGBA{0x6b, 0x72, 0x80, 0xff}
	colorComposer    = color.RGBA{0xff, 0xff, 0xff, 0xf0}
)

// hudButtonKind identifies a zoom control.
type hudButtonKind uint8

const (
	hudNone hudButtonKind = iota
	hudZoomOut
	hudZoomIn
	hudReset
)

// hud draws the zoom controls, the composer line and an optional FPS
// readout refreshed about twice a second.
type hud struct {
	fonts   *fonts
	showFPS bool
	size    cove.Vec2

	sinceFPS float64
	fpsText  string
}

func newHUD(f *fonts, showFPS bool) *hud {
	return &hud{fonts: f, showFPS: showFPS}
}

func (h *hud) update(dt float64, size cove.Vec2) {
	h.size = size
	if !h.showFPS {
		return
	}
	h.sinceFPS += dt
	if h.sinceFPS < fpsRefresh && h.fpsText != "" {
		return
	}
	h.sinceFPS = 0
	h.fpsText = fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS())
}

// buttonRects returns the zoom-out, label/reset and zoom-in rectangles in
// the bottom-right corner.
func (h *hud) buttonRects() (out, label, in cove.Rect) {
	y := h.size.Y - composerH - hudMargin - hudButton
	x := h.size.X - hudMargin - hudButton
	in = cove.Rect{X: x, Y: y, Width: hudButton, Height: hudButton}
	x -= hudLabelW
	label = cove.Rect{X: x, Y: y, Width: hudLabelW, Height: hudButton}
	x -= hudButton
	out = cove.Rect{X: x, Y: y, Width: hudButton, Height: hudButton}
	return out, label, in
}

func (h *hud) composerRect() cove.Rect {
	return cove.Rect{X: 0, Y: h.size.Y - composerH, Width: h.size.X, Height: composerH}
}

func (h *hud) buttonAt(x, y float64) hudButtonKind {
	out, label, in := h.buttonRects()
	switch {
	case out.Contains(x, y):
		return hudZoomOut
	case in.Contains(x, y):
		return hudZoomIn
	case label.Contains(x, y):
		return hudReset
	}
	return hudNone
}

// overControl reports whether a screen position is over a HUD control.
// Presses there are sent to the session flagged OverControl.
func (h *hud) overControl(x, y float64) bool {
	if h.size.X == 0 {
		return false
	}
	return h.buttonAt(x, y) != hudNone || h.composerRect().Contains(x, y)
}

// press activates the zoom control under (x, y). Buttons at either end of
// the zoom range do nothing.
func (h *hud) press(x, y float64, vp *cove.Viewport) {
	switch h.buttonAt(x, y) {
	case hudZoomOut:
		vp.ZoomOut()
	case hudZoomIn:
		vp.ZoomIn()
	case hudReset:
		vp.Reset()
	}
}

func (h *hud) draw(dst *ebiten.Image, s *cove.Session, composer string) {
	vp := s.Viewport()
	f := h.fonts.face(true, 12)

	out, label, in := h.buttonRects()
	vector.DrawFilledRect(dst, float32(out.X), float32(out.Y), float32(out.Width+label.Width+in.Width), float32(out.Height), colorHUD, false)
	h.drawButton(dst, f, out, "-", vp.CanZoomOut())
	h.drawButton(dst, f, in, "+", vp.CanZoomIn())
	pct := fmt.Sprintf("%d%%", vp.ZoomPercent())
	pw, ph := f.measure(pct)
	f.draw(dst, pct, label.X+(label.Width-pw)/2, label.Y+(label.Height-ph)/2, colorHUDText)

	cr := h.composerRect()
	vector.DrawFilledRect(dst, float32(cr.X), float32(cr.Y), float32(cr.Width), float32(cr.Height), colorComposer, false)
	vector.StrokeLine(dst, 0, float32(cr.Y), float32(cr.Width), float32(cr.Y), 1, colorBorder, false)
	body := h.fonts.face(false, 14)
	line := composer + "_"
	if composer == "" {
		line = "Type a message and press Enter (Ctrl+Enter adds a note to the selected card)"
	}
	clr := color.Color(colorTitle)
	if composer == "" {
		clr = colorTag
	}
	body.draw(dst, line, cr.X+hudMargin, cr.Y+(cr.Height-body.lh)/2, clr)

	status := s.Mode().String()
	if n := s.PendingContent(); n > 0 {
		status = fmt.Sprintf("%s  loading %d", status, n)
	}
	sw, _ := f.measure(status)
	f.draw(dst, status, cr.Right()-hudMargin-sw, cr.Y+(cr.Height-f.lh)/2, colorTag)

	if h.showFPS {
		ebitenutil.DebugPrintAt(dst, h.fpsText, int(hudMargin), int(hudMargin))
	}
}

func (h *hud) drawButton(dst *ebiten.Image, f *face, r cove.Rect, glyph string, enabled bool) {
	clr := colorHUDText
	if !enabled {
		clr = colorHUDDisabled
	}
	gw, gh := f.measure(glyph)
	f.draw(dst, glyph, r.X+(r.Width-gw)/2, r.Y+(r.Height-gh)/2, clr)
}
