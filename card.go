package cove

import "strings"

// Kind classifies a card for labeling.
type Kind string

const (
	KindStrategy Kind = "strategy"
	KindAnalysis Kind = "analysis"
	KindPlan     Kind = "plan"
	KindMetrics  Kind = "metrics"
)

// Label returns the human-readable badge text for the kind.
func (k Kind) Label() string {
	switch k {
	case KindStrategy:
		return "Strategy"
	case KindAnalysis:
		return "Analysis"
	case KindPlan:
		return "Planning"
	default:
		return "Metrics"
	}
}

// Geometry is a card's position and size in virtual space.
type Geometry struct {
	X, Y, Width, Height float64
}

// Rect returns the geometry as a Rect.
func (g Geometry) Rect() Rect {
	return Rect{X: g.X, Y: g.Y, Width: g.Width, Height: g.Height}
}

// clampSize raises width and height to the minimum card size.
func (g Geometry) clampSize() Geometry {
	g.Width = max(g.Width, MinCardWidth)
	g.Height = max(g.Height, MinCardHeight)
	return g
}

// Table is a header row plus data rows.
type Table struct {
	Headers []string   `json:"headers,omitempty"`
	Rows    [][]string `json:"rows,omitempty"`
}

// Image references an image by URL.
type Image struct {
	Src     string `json:"src"`
	Alt     string `json:"alt,omitempty"`
	Caption string `json:"caption,omitempty"`
}

// ChartPoint is one labeled value in a chart descriptor.
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Color string  `json:"color,omitempty"`
}

// Chart describes a chart for the renderer. The engine does not draw it.
type Chart struct {
	ID    string       `json:"id,omitempty"`
	Type  string       `json:"type"`
	Title string       `json:"title,omitempty"`
	Data  []ChartPoint `json:"data"`
}

// RichContent is the structured part of a card payload. It is opaque to
// the engine.
type RichContent struct {
	Tables []Table `json:"tables,omitempty"`
	Images []Image `json:"images,omitempty"`
	Charts []Chart `json:"charts,omitempty"`
}

// Empty reports whether rc carries nothing.
func (rc *RichContent) Empty() bool {
	return rc == nil || len(rc.Tables)+len(rc.Images)+len(rc.Charts) == 0
}

// Card is one movable, resizable unit on the canvas. Cards are owned by a
// Store; callers receive copies and change them through Store or Session
// methods.
type Card struct {
	ID string
	Geometry

	Title    string
	Content  string
	Tags     []string
	Kind     Kind
	Category string
	ChatID   string
	UserName string
	Rich     *RichContent

	// Pending is true while a content fetch for this card is in flight.
	Pending bool
}

// clone returns a copy of c that shares no slices with it.
func (c *Card) clone() Card {
	cp := *c
	if c.Tags != nil {
		cp.Tags = append([]string(nil), c.Tags...)
	}
	return cp
}

// HasTag reports whether the card carries tag, case-insensitively.
func (c *Card) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}
