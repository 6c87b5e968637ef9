package desktop

import (
	"bytes"
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// fonts holds the parsed Go fonts and hands out faces per size.
type fonts struct {
	regular *text.GoTextFaceSource
	bold    *text.GoTextFaceSource
	faces   map[faceKey]*face
}

type faceKey struct {
	bold bool
	size float64
}

// face wraps a GoTextFace with its cached line height.
type face struct {
	gt *text.GoTextFace
	lh float64
}

func loadFonts() (*fonts, error) {
	regular, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("desktop: parse regular font: %w", err)
	}
	bold, err := text.NewGoTextFaceSource(bytes.NewReader(gobold.TTF))
	if err != nil {
		return nil, fmt.Errorf("desktop: parse bold font: %w", err)
	}
	return &fonts{regular: regular, bold: bold, faces: make(map[faceKey]*face)}, nil
}

// face returns the face for size, rounded to half pixels so zoom steps share
// faces.
func (f *fonts) face(bold bool, size float64) *face {
	size = float64(int(size*2+0.5)) / 2
	k := faceKey{bold, size}
	if fc, ok := f.faces[k]; ok {
		return fc
	}
	src := f.regular
	if bold {
		src = f.bold
	}
	gt := &text.GoTextFace{Source: src, Size: size}
	m := gt.Metrics()
	fc := &face{gt: gt, lh: m.HAscent + m.HDescent + m.HLineGap}
	f.faces[k] = fc
	return fc
}

// measure returns the width and height of s.
func (fc *face) measure(s string) (w, h float64) {
	return text.Measure(s, fc.gt, fc.lh)
}

// draw renders s with its top-left corner at (x, y).
func (fc *face) draw(dst *ebiten.Image, s string, x, y float64, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	op.LineSpacing = fc.lh
	text.Draw(dst, s, fc.gt, op)
}

// wrap breaks s into lines no wider than width. Explicit newlines are kept
// and a word wider than width gets a line of its own.
func (fc *face) wrap(s string, width float64) []string {
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		line := words[0]
		for _, w := range words[1:] {
			candidate := line + " " + w
			if cw, _ := fc.measure(candidate); cw > width {
				lines = append(lines, line)
				line = w
				continue
			}
			line = candidate
		}
		lines = append(lines, line)
	}
	return lines
}
