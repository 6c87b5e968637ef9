package desktop

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/phanxgames/cove"
)

// Base sizes at zoom 1, in pixels.
const (
	titleSize = 16.0
	bodySize  = 13.0
	labelSize = 11.0
	padding   = 12.0
	gridStep  = 50.0
)

var (
	colorBackground = color.RGBA{0xf4, 0xf1, 0xea, 0xff}
	colorGrid       = color.RGBA{0xe6, 0xe1, 0xd6, 0xff}
	colorCard       = color.RGBA{0xff, 0xff, 0xff, 0xff}
	colorBorder     = color.RGBA{0xc9, 0xc2, 0xb4, 0xff}
	colorSelected   = color.RGBA{0x3b, 0x82, 0xf6, 0xff}
	colorPending    = color.RGBA{0xf5, 0x9e, 0x0b, 0xff}
	colorTitle      = color.RGBA{0x1f, 0x29, 0x37, 0xff}
	colorBody       = color.RGBA{0x4b, 0x55, 0x63, 0xff}
	colorTag        = color.RGBA{0x6b, 0x72, 0x80, 0xff}
	colorShadow     = color.RGBA{0x00, 0x00, 0x00, 0x22}
)

var kindColors = map[cove.Kind]color.RGBA{
	cove.KindStrategy: {0x25, 0x63, 0xeb, 0xff},
	cove.KindAnalysis: {0x16, 0xa3, 0x4a, 0xff},
	cove.KindPlan:     {0x93, 0x33, 0xea, 0xff},
	cove.KindMetrics:  {0xea, 0x58, 0x0c, 0xff},
}

// displayRect projects a virtual rectangle with the display zoom and pan,
// which differ from the committed view during a transition.
func displayRect(r cove.Rect, zoom float64, pan cove.Vec2) cove.Rect {
	return cove.Rect{
		X:      r.X*zoom + pan.X,
		Y:      r.Y*zoom + pan.Y,
		Width:  r.Width * zoom,
		Height: r.Height * zoom,
	}
}

func drawGrid(dst *ebiten.Image, vp *cove.Viewport, zoom float64, pan cove.Vec2) {
	size := vp.Size()
	x0 := math.Floor(-pan.X/zoom/gridStep) * gridStep
	y0 := math.Floor(-pan.Y/zoom/gridStep) * gridStep
	for x := x0; x*zoom+pan.X <= size.X; x += gridStep {
		sx := float32(x*zoom + pan.X)
		vector.StrokeLine(dst, sx, 0, sx, float32(size.Y), 1, colorGrid, false)
	}
	for y := y0; y*zoom+pan.Y <= size.Y; y += gridStep {
		sy := float32(y*zoom + pan.Y)
		vector.StrokeLine(dst, 0, sy, float32(size.X), sy, 1, colorGrid, false)
	}
}

func (g *Game) drawCard(dst *ebiten.Image, item cove.RenderItem, zoom float64, pan cove.Vec2) {
	c := item.Card
	r := displayRect(c.Geometry.Rect(), zoom, pan)
	x, y, w, h := float32(r.X), float32(r.Y), float32(r.Width), float32(r.Height)
	pad := padding * zoom

	if item.Layer == cove.LayerDragging {
		vector.DrawFilledRect(dst, x+6, y+6, w, h, colorShadow, false)
	}
	vector.DrawFilledRect(dst, x, y, w, h, colorCard, false)

	border := colorBorder
	switch {
	case item.Selected:
		border = colorSelected
	case c.Pending:
		border = colorPending
	}
	vector.StrokeRect(dst, x, y, w, h, float32(max(1, 2*zoom)), border, false)

	clip := dst.SubImage(image.Rect(int(r.X), int(r.Y), int(math.Ceil(r.Right())), int(math.Ceil(r.Bottom())))).(*ebiten.Image)

	// Kind badge.
	badge := g.fonts.face(true, labelSize*zoom)
	label := c.Kind.Label()
	lw, lh := badge.measure(label)
	kc, ok := kindColors[c.Kind]
	if !ok {
		kc = colorTag
	}
	bx, by := r.X+pad, r.Y+pad
	vector.DrawFilledRect(clip, float32(bx), float32(by), float32(lw+pad), float32(lh+pad/2), kc, false)
	badge.draw(clip, label, bx+pad/2, by+pad/4, colorCard)

	// Title.
	ty := by + lh + pad
	title := g.fonts.face(true, titleSize*zoom)
	title.draw(clip, c.Title, r.X+pad, ty, colorTitle)
	ty += title.lh + pad/2

	// Body, then a one-line summary of rich content.
	body := g.fonts.face(false, bodySize*zoom)
	text := c.Content
	if c.Pending && text == "" {
		text = "Loading..."
	}
	if s := richSummary(c.Rich); s != "" {
		text += "\n\n" + s
	}
	tagFace := g.fonts.face(false, labelSize*zoom)
	limit := r.Bottom() - pad - tagFace.lh
	for _, line := range body.wrap(text, r.Width-2*pad) {
		if ty+body.lh > limit {
			break
		}
		body.draw(clip, line, r.X+pad, ty, colorBody)
		ty += body.lh
	}

	if len(c.Tags) > 0 {
		tagFace.draw(clip, "#"+strings.Join(c.Tags, "  #"), r.X+pad, r.Bottom()-pad-tagFace.lh, colorTag)
	}

	if item.Selected {
		for _, hd := range cove.Handles {
			hr := cove.HandleRect(r, hd)
			vector.DrawFilledRect(dst, float32(hr.X), float32(hr.Y), float32(hr.Width), float32(hr.Height), colorCard, false)
			vector.StrokeRect(dst, float32(hr.X), float32(hr.Y), float32(hr.Width), float32(hr.Height), 1.5, colorSelected, false)
		}
	}
}

// richSummary describes rich content in one line; the desktop renderer does
// not draw tables or charts.
func richSummary(rc *cove.RichContent) string {
	if rc.Empty() {
		return ""
	}
	var parts []string
	for _, t := range rc.Tables {
		parts = append(parts, fmt.Sprintf("[table %dx%d]", len(t.Rows), len(t.Headers)))
	}
	for _, ch := range rc.Charts {
		parts = append(parts, fmt.Sprintf("[%s chart: %s]", ch.Type, ch.Title))
	}
	for _, im := range rc.Images {
		alt := im.Alt
		if alt == "" {
			alt = im.Src
		}
		parts = append(parts, fmt.Sprintf("[image: %s]", alt))
	}
	return strings.Join(parts, " ")
}
