// Package desktop runs a cove session in an Ebitengine window: it polls the
// mouse and keyboard, feeds the session's pointer contract and draws the
// render list with a zoom HUD.
package desktop

import (
	"errors"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/cove"
)

// Config holds window settings for Run.
type Config struct {
	Title   string
	Width   int
	Height  int
	ShowHUD bool
	// ShowFPS adds FPS and TPS to the HUD.
	ShowFPS bool
	// ExitWhenDone closes the window once a scripted test runner attached to
	// the session has finished.
	ExitWhenDone bool
	// Runner is the scripted runner checked by ExitWhenDone.
	Runner *cove.TestRunner
	Logger *log.Logger
}

// Game adapts a Session to ebiten.Game.
type Game struct {
	session *cove.Session
	cfg     Config
	logger  *log.Logger
	fonts   *fonts
	hud     *hud

	pointer  pointerState
	composer []rune
	runeBuf  []rune
	cursor   ebiten.CursorShapeType
	modeHook cove.CallbackHandle
}

// New prepares a game for s. The session keeps its own viewport size until
// the first Layout call.
func New(s *cove.Session, cfg Config) (*Game, error) {
	if s == nil {
		return nil, errors.New("desktop: nil session")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	f, err := loadFonts()
	if err != nil {
		return nil, err
	}
	g := &Game{
		session: s,
		cfg:     cfg,
		logger:  logger,
		fonts:   f,
		hud:     newHUD(f, cfg.ShowFPS),
	}
	g.modeHook = s.OnModeChange(func(c cove.ModeChange) {
		g.logger.Debug("mode changed", "from", c.From, "to", c.To)
	})
	return g, nil
}

// Run opens a window and blocks until it is closed.
func Run(s *cove.Session, cfg Config) error {
	g, err := New(s, cfg)
	if err != nil {
		return err
	}
	defer g.modeHook.Remove()

	if cfg.Title == "" {
		cfg.Title = "Cove"
	}
	w, h := cfg.Width, cfg.Height
	if w <= 0 || h <= 0 {
		size := s.Viewport().Size()
		w, h = int(size.X), int(size.Y)
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

// Update implements ebiten.Game. Real pointer input is skipped while
// injected events are queued so scripted runs are deterministic.
func (g *Game) Update() error {
	dt := float32(1.0 / float64(ebiten.TPS()))

	if g.session.InjectPending() == 0 {
		g.pollPointer()
	}
	g.pollKeys()
	g.session.Update(dt)
	g.updateCursor()
	if g.cfg.ShowHUD {
		g.hud.update(float64(dt), g.session.Viewport().Size())
	}

	if g.cfg.ExitWhenDone && g.cfg.Runner != nil && g.cfg.Runner.Done() && g.session.PendingContent() == 0 {
		return ebiten.Termination
	}
	return nil
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)
	vp := g.session.Viewport()
	zoom, pan := vp.Display()
	drawGrid(screen, vp, zoom, pan)
	for _, item := range g.session.RenderList() {
		g.drawCard(screen, item, zoom, pan)
	}
	if g.cfg.ShowHUD {
		g.hud.draw(screen, g.session, string(g.composer))
	}
}

// Layout implements ebiten.Game. The session viewport follows the window.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	size := g.session.Viewport().Size()
	if int(size.X) != outsideWidth || int(size.Y) != outsideHeight {
		g.session.Viewport().SetSize(float64(outsideWidth), float64(outsideHeight))
	}
	return outsideWidth, outsideHeight
}

// updateCursor picks the cursor shape for the current mode, or for what is
// under the pointer when idle.
func (g *Game) updateCursor() {
	shape := ebiten.CursorShapeDefault
	switch m := g.session.Mode().(type) {
	case cove.Panning, cove.Dragging:
		shape = ebiten.CursorShapeMove
	case cove.Resizing:
		shape = handleCursor(m.Handle)
	case cove.Idle:
		x, y := float64(g.pointer.x), float64(g.pointer.y)
		if h := g.handleUnder(x, y); h != cove.HandleNone {
			shape = handleCursor(h)
		} else if g.hud.overControl(x, y) {
			shape = ebiten.CursorShapePointer
		}
	}
	if shape != g.cursor {
		g.cursor = shape
		ebiten.SetCursorShape(shape)
	}
}

// handleUnder returns the resize handle of the selected card at a screen
// position.
func (g *Game) handleUnder(x, y float64) cove.Handle {
	id := g.session.Selected()
	if id == "" {
		return cove.HandleNone
	}
	geo, ok := g.session.Store().Geometry(id)
	if !ok {
		return cove.HandleNone
	}
	return cove.HandleAt(g.session.Viewport().ProjectRect(geo.Rect()), x, y)
}

func handleCursor(h cove.Handle) ebiten.CursorShapeType {
	switch h {
	case cove.HandleTop, cove.HandleBottom:
		return ebiten.CursorShapeNSResize
	case cove.HandleLeft, cove.HandleRight:
		return ebiten.CursorShapeEWResize
	case cove.HandleTopLeft, cove.HandleBottomRight:
		return ebiten.CursorShapeNWSEResize
	case cove.HandleTopRight, cove.HandleBottomLeft:
		return ebiten.CursorShapeNESWResize
	}
	return ebiten.CursorShapeDefault
}
