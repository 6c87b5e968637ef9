package cove

// Culler filters cards down to those whose screen-projected bounding box
// touches the viewport. The result is advisory: culled cards stay in the
// store and become interactive again once they scroll back into view.
//
// A Culler reuses its output buffer between calls, so the returned slice is
// only valid until the next call to Visible.
type Culler struct {
	buf []Card
}

// Visible returns the subset of cards that intersect [0, w] x [0, h] in
// screen space, preserving input order.
func (c *Culler) Visible(vp *Viewport, cards []Card) []Card {
	c.buf = c.buf[:0]
	for i := range cards {
		if IsVisible(vp, cards[i].Geometry) {
			c.buf = append(c.buf, cards[i])
		}
	}
	return c.buf
}

// IsVisible reports whether a card with geometry g is at least partly on
// screen. A card is hidden only when it lies entirely to the left, right,
// above or below the viewport; touching an edge counts as visible.
func IsVisible(vp *Viewport, g Geometry) bool {
	screen := vp.ProjectRect(g.Rect())
	size := vp.Size()
	return !(screen.Right() < 0 ||
		screen.Bottom() < 0 ||
		screen.X > size.X ||
		screen.Y > size.Y)
}
