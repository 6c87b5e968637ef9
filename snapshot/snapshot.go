// Package snapshot renders a cove session to PNG without a window.
package snapshot

import (
	"fmt"
	"image"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/phanxgames/cove"
)

// Base font sizes at zoom 1, in pixels.
const (
	titleSize = 16.0
	bodySize  = 13.0
	labelSize = 11.0
	padding   = 12.0
	radius    = 8.0
)

// Palette.
const (
	colorBackground = "#f4f1ea"
	colorGrid       = "#e6e1d6"
	colorCard       = "#ffffff"
	colorBorder     = "#c9c2b4"
	colorSelected   = "#3b82f6"
	colorPending    = "#f59e0b"
	colorTitle      = "#1f2937"
	colorBody       = "#4b5563"
	colorTag        = "#6b7280"
	colorHandle     = "#ffffff"
)

var kindColors = map[cove.Kind]string{
	cove.KindStrategy: "#2563eb",
	cove.KindAnalysis: "#16a34a",
	cove.KindPlan:     "#9333ea",
	cove.KindMetrics:  "#ea580c",
}

// Renderer draws sessions with a fixed pair of fonts. Faces are cached per
// point size, so a Renderer should be reused across frames.
type Renderer struct {
	regular *truetype.Font
	bold    *truetype.Font
	faces   map[faceKey]font.Face
}

type faceKey struct {
	bold bool
	size float64
}

// New parses the embedded Go fonts.
func New() (*Renderer, error) {
	regular, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse regular font: %w", err)
	}
	bold, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse bold font: %w", err)
	}
	return &Renderer{regular: regular, bold: bold, faces: make(map[faceKey]font.Face)}, nil
}

func (r *Renderer) face(bold bool, size float64) font.Face {
	k := faceKey{bold, size}
	if f, ok := r.faces[k]; ok {
		return f
	}
	f := r.regular
	if bold {
		f = r.bold
	}
	face := truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	r.faces[k] = face
	return face
}

// Render draws the visible cards of s under its committed view.
func (r *Renderer) Render(s *cove.Session) image.Image {
	vp := s.Viewport()
	size := vp.Size()
	dc := gg.NewContext(int(size.X), int(size.Y))

	dc.SetHexColor(colorBackground)
	dc.Clear()
	r.drawGrid(dc, vp)

	zoom := vp.Zoom()
	for _, item := range s.RenderList() {
		r.drawCard(dc, item, zoom)
	}
	r.drawZoomLabel(dc, vp)
	return dc.Image()
}

// Encode writes the rendered session as PNG to w.
func (r *Renderer) Encode(w io.Writer, s *cove.Session) error {
	dc := gg.NewContextForImage(r.Render(s))
	return dc.EncodePNG(w)
}

// WriteFile writes the rendered session as a PNG file.
func (r *Renderer) WriteFile(path string, s *cove.Session) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := r.Encode(f, s); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

const gridStep = 50.0

// drawGrid draws the virtual-space grid so panning and zoom are visible.
func (r *Renderer) drawGrid(dc *gg.Context, vp *cove.Viewport) {
	b := vp.VisibleBounds()
	zoom := vp.Zoom()
	dc.SetHexColor(colorGrid)
	dc.SetLineWidth(1)
	for x := math.Floor(b.X/gridStep) * gridStep; x <= b.Right(); x += gridStep {
		sx := vp.VirtualToScreen(cove.Vec2{X: x}).X
		dc.DrawLine(sx, 0, sx, b.Height*zoom)
	}
	for y := math.Floor(b.Y/gridStep) * gridStep; y <= b.Bottom(); y += gridStep {
		sy := vp.VirtualToScreen(cove.Vec2{Y: y}).Y
		dc.DrawLine(0, sy, b.Width*zoom, sy)
	}
	dc.Stroke()
}

func (r *Renderer) drawCard(dc *gg.Context, item cove.RenderItem, zoom float64) {
	rc := item.Screen
	pad := padding * zoom

	dc.SetHexColor(colorCard)
	dc.DrawRoundedRectangle(rc.X, rc.Y, rc.Width, rc.Height, radius*zoom)
	dc.Fill()

	border := colorBorder
	switch {
	case item.Selected:
		border = colorSelected
	case item.Card.Pending:
		border = colorPending
	}
	dc.SetHexColor(border)
	dc.SetLineWidth(max(1, 2*zoom))
	dc.DrawRoundedRectangle(rc.X, rc.Y, rc.Width, rc.Height, radius*zoom)
	dc.Stroke()

	dc.Push()
	dc.DrawRectangle(rc.X, rc.Y, rc.Width, rc.Height)
	dc.Clip()

	// Kind badge.
	dc.SetFontFace(r.face(true, labelSize*zoom))
	label := item.Card.Kind.Label()
	lw, lh := dc.MeasureString(label)
	kc, ok := kindColors[item.Card.Kind]
	if !ok {
		kc = colorTag
	}
	dc.SetHexColor(kc)
	dc.DrawRoundedRectangle(rc.X+pad, rc.Y+pad, lw+pad, lh+pad/2, radius*zoom/2)
	dc.Fill()
	dc.SetHexColor(colorCard)
	dc.DrawStringAnchored(label, rc.X+pad+(lw+pad)/2, rc.Y+pad+(lh+pad/2)/2, 0.5, 0.35)

	// Title.
	y := rc.Y + pad*2 + lh + pad
	dc.SetFontFace(r.face(true, titleSize*zoom))
	dc.SetHexColor(colorTitle)
	dc.DrawStringAnchored(item.Card.Title, rc.X+pad, y, 0, 1)
	y += titleSize*zoom + pad

	// Body.
	dc.SetFontFace(r.face(false, bodySize*zoom))
	dc.SetHexColor(colorBody)
	body := item.Card.Content
	if item.Card.Pending && body == "" {
		body = "Loading..."
	}
	lineH := bodySize * zoom * 1.4
	for _, para := range strings.Split(body, "\n") {
		for _, line := range dc.WordWrap(para, rc.Width-2*pad) {
			if y > rc.Bottom()-pad-lineH {
				break
			}
			dc.DrawStringAnchored(line, rc.X+pad, y, 0, 1)
			y += lineH
		}
		if para == "" {
			y += lineH / 2
		}
	}

	// Tags along the bottom edge.
	if len(item.Card.Tags) > 0 {
		dc.SetFontFace(r.face(false, labelSize*zoom))
		dc.SetHexColor(colorTag)
		dc.DrawStringAnchored("#"+strings.Join(item.Card.Tags, "  #"), rc.X+pad, rc.Bottom()-pad, 0, 0)
	}
	dc.Pop()

	if item.Selected {
		for _, h := range cove.Handles {
			hr := cove.HandleRect(rc, h)
			dc.SetHexColor(colorHandle)
			dc.DrawRectangle(hr.X, hr.Y, hr.Width, hr.Height)
			dc.FillPreserve()
			dc.SetHexColor(colorSelected)
			dc.SetLineWidth(1.5)
			dc.Stroke()
		}
	}
}

func (r *Renderer) drawZoomLabel(dc *gg.Context, vp *cove.Viewport) {
	dc.SetFontFace(r.face(true, 12))
	dc.SetHexColor(colorTitle)
	size := vp.Size()
	dc.DrawStringAnchored(fmt.Sprintf("%d%%", vp.ZoomPercent()), size.X-padding, size.Y-padding, 1, 0)
}

// Recorder writes one PNG per labeled snapshot into a directory. Register
// Recorder.Snapshot with Session.OnSnapshot to capture scripted runs.
type Recorder struct {
	Dir      string
	renderer *Renderer
	session  *cove.Session
	logger   *log.Logger
	stamp    string
	written  []string
}

// NewRecorder returns a recorder for s writing into dir.
func NewRecorder(dir string, s *cove.Session, logger *log.Logger) (*Recorder, error) {
	r, err := New()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &Recorder{
		Dir:      dir,
		renderer: r,
		session:  s,
		logger:   logger,
		stamp:    time.Now().Format("20060102_150405"),
	}, nil
}

// Snapshot renders the session and writes it as <stamp>_<label>.png.
// Failures are logged; a scripted run keeps going.
func (rec *Recorder) Snapshot(label string) {
	path := filepath.Join(rec.Dir, fmt.Sprintf("%s_%s.png", rec.stamp, sanitizeLabel(label)))
	if err := rec.renderer.WriteFile(path, rec.session); err != nil {
		rec.logger.Error("snapshot failed", "label", label, "err", err)
		return
	}
	rec.written = append(rec.written, path)
	rec.logger.Info("snapshot written", "path", path)
}

// Written returns the paths written so far.
func (rec *Recorder) Written() []string { return rec.written }

// sanitizeLabel replaces characters that are unsafe in file names with
// underscores and falls back to "unlabeled" for empty strings.
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
