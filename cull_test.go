package cove

import "testing"

func TestCullScenario(t *testing.T) {
	// 800x600 viewport at zoom 1 panned by (-200, 0).
	v := NewViewport(800, 600)
	v.SetPan(Vec2{-200, 0})

	cards := []Card{
		{ID: "left", Geometry: Geometry{X: 0, Y: 0, Width: 150, Height: 200}},
		{ID: "edge", Geometry: Geometry{X: 100, Y: 0, Width: 300, Height: 200}},
		{ID: "inside", Geometry: Geometry{X: 400, Y: 100, Width: 300, Height: 200}},
		{ID: "right", Geometry: Geometry{X: 1100, Y: 0, Width: 300, Height: 200}},
		{ID: "below", Geometry: Geometry{X: 400, Y: 700, Width: 300, Height: 200}},
	}

	var c Culler
	got := c.Visible(v, cards)
	want := []string{"edge", "inside"}
	if len(got) != len(want) {
		t.Fatalf("visible = %d cards, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("visible[%d] = %q, want %q", i, got[i].ID, id)
		}
	}
}

func TestCullPanBringsCardIntoView(t *testing.T) {
	v := NewViewport(800, 600)
	g := Geometry{X: 900, Y: 0, Width: 100, Height: 100}
	if IsVisible(v, g) {
		t.Fatal("card at x=900 visible before pan")
	}
	v.PanBy(-200, 0)
	if !IsVisible(v, g) {
		t.Error("card at x=900 hidden after pan (-200, 0)")
	}
}

func TestIsVisibleTouchingEdge(t *testing.T) {
	v := NewViewport(800, 600)
	tests := []struct {
		name string
		g    Geometry
		want bool
	}{
		{"touches left", Geometry{X: -300, Y: 0, Width: 300, Height: 200}, true},
		{"just left", Geometry{X: -300.5, Y: 0, Width: 300, Height: 200}, false},
		{"touches right", Geometry{X: 800, Y: 0, Width: 300, Height: 200}, true},
		{"just right", Geometry{X: 800.5, Y: 0, Width: 300, Height: 200}, false},
		{"touches top", Geometry{X: 0, Y: -200, Width: 300, Height: 200}, true},
		{"touches bottom", Geometry{X: 0, Y: 600, Width: 300, Height: 200}, true},
		{"covers screen", Geometry{X: -1000, Y: -1000, Width: 5000, Height: 5000}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsVisible(v, tt.g); got != tt.want {
				t.Errorf("IsVisible = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCullFollowsZoom(t *testing.T) {
	v := NewViewport(800, 600)
	g := Geometry{X: 1000, Y: 0, Width: 300, Height: 200}
	if IsVisible(v, g) {
		t.Fatal("card at x=1000 visible at zoom 1")
	}
	v.SetZoomIndex(1) // 0.5x, card now at screen x=500
	if !IsVisible(v, g) {
		t.Error("card at x=1000 hidden at zoom 0.5")
	}
}

func TestCullerReusesBuffer(t *testing.T) {
	v := NewViewport(800, 600)
	cards := []Card{{ID: "a", Geometry: Geometry{Width: 300, Height: 200}}}
	var c Culler
	first := c.Visible(v, cards)
	second := c.Visible(v, cards)
	if &first[0] != &second[0] {
		t.Error("Visible should reuse its buffer")
	}
}

func BenchmarkCull10k(b *testing.B) {
	v := NewViewport(1280, 800)
	cards := make([]Card, 10000)
	for i := range cards {
		cards[i] = Card{Geometry: Geometry{
			X: float64(i%100) * 400, Y: float64(i/100) * 300, Width: 350, Height: 250,
		}}
	}
	var c Culler
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Visible(v, cards)
	}
}
