package cove

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestSessionDefaults(t *testing.T) {
	s := NewSession(Options{Width: 1024, Height: 768})
	defer s.Close()
	if _, ok := s.Mode().(Idle); !ok {
		t.Errorf("Mode = %v, want idle", s.Mode())
	}
	if s.Viewport().Size() != (Vec2{1024, 768}) {
		t.Errorf("viewport size = %v", s.Viewport().Size())
	}
	if s.Store().Len() != 0 || s.Selected() != "" {
		t.Error("new session should be empty")
	}
}

func TestRenderListOrderAndCulling(t *testing.T) {
	s := newTestSession(t,
		testCard("a", 0, 0, 300, 300),
		testCard("b", 100, 100, 300, 300),
		testCard("c", 200, 200, 300, 300),
		testCard("far", 5000, 5000, 300, 300),
	)
	s.Select("a")

	items := s.RenderList()
	var ids []string
	for _, it := range items {
		ids = append(ids, it.Card.ID)
	}
	if strings.Join(ids, ",") != "b,c,a" {
		t.Fatalf("render order = %v, want [b c a]", ids)
	}
	if items[2].Layer != LayerSelected || !items[2].Selected {
		t.Errorf("selected item = %+v", items[2])
	}
	if items[0].Layer != LayerBase || items[0].Selected {
		t.Errorf("base item = %+v", items[0])
	}
}

func TestRenderListDraggedOnTop(t *testing.T) {
	s := newTestSession(t,
		testCard("a", 0, 0, 300, 300),
		testCard("b", 350, 0, 300, 300),
	)
	s.Select("b")
	s.PointerDown(left(10, 10))
	items := s.RenderList()
	if items[len(items)-1].Card.ID != "a" || items[len(items)-1].Layer != LayerDragging {
		t.Errorf("top item = %+v, want a at dragging layer", items[len(items)-1])
	}
}

func TestRenderListScreenRects(t *testing.T) {
	s := newTestSession(t, testCard("a", 100, 50, 300, 200))
	s.Viewport().SetZoomIndex(1) // 0.5x
	s.Viewport().SetPan(Vec2{20, 10})
	items := s.RenderList()
	if len(items) != 1 {
		t.Fatalf("items = %d, want 1", len(items))
	}
	want := Rect{X: 70, Y: 35, Width: 150, Height: 100}
	if items[0].Screen != want {
		t.Errorf("Screen = %v, want %v", items[0].Screen, want)
	}
}

func TestSelectUnknown(t *testing.T) {
	s := newTestSession(t, testCard("a", 0, 0, 300, 300))
	if s.Select("nope") {
		t.Error("Select(unknown) = true, want false")
	}
	if !s.Select("a") || s.Selected() != "a" {
		t.Error("Select(a) failed")
	}
	s.Deselect()
	if s.Selected() != "" {
		t.Errorf("Selected after Deselect = %q", s.Selected())
	}
}

func TestRemoveCardDuringDrag(t *testing.T) {
	s := newTestSession(t, testCard("a", 0, 0, 300, 300), testCard("b", 400, 0, 300, 300))
	s.PointerDown(left(10, 10))
	if !s.RemoveCard("a") {
		t.Fatal("RemoveCard = false")
	}
	if _, ok := s.Mode().(Idle); !ok {
		t.Errorf("Mode = %v, want idle", s.Mode())
	}
	if s.Selected() != "" {
		t.Errorf("Selected = %q, want none", s.Selected())
	}
	s.PointerMove(left(100, 100))
	if g := geometryOf(t, s, "b"); g.X != 400 {
		t.Errorf("other card moved to x=%v", g.X)
	}
	if s.RemoveCard("a") {
		t.Error("second RemoveCard = true, want false")
	}
}

func TestRemoveOtherCardKeepsGesture(t *testing.T) {
	s := newTestSession(t, testCard("a", 0, 0, 300, 300), testCard("b", 400, 0, 300, 300))
	s.PointerDown(left(10, 10))
	s.RemoveCard("b")
	if _, ok := s.Mode().(Dragging); !ok {
		t.Errorf("Mode = %v, want dragging", s.Mode())
	}
}

func TestAddCardsSkipsDuplicates(t *testing.T) {
	s := newTestSession(t)
	n := s.AddCards(testCard("a", 0, 0, 300, 300), testCard("b", 0, 0, 300, 300), testCard("a", 9, 9, 300, 300))
	if n != 2 || s.Store().Len() != 2 {
		t.Errorf("added %d, Len %d; want 2, 2", n, s.Store().Len())
	}
}

func TestNewConversation(t *testing.T) {
	s := newTestSession(t)
	c := s.NewConversation()
	if c.Title != "New Conversation - Strategy" {
		t.Errorf("Title = %q", c.Title)
	}
	if c.Content != newConversationContent || c.Pending {
		t.Errorf("card = %+v", c)
	}
	if !c.HasTag("New Chat") {
		t.Errorf("Tags = %v", c.Tags)
	}
	if s.PendingContent() != 0 {
		t.Errorf("PendingContent = %d, want 0", s.PendingContent())
	}
}

func TestDebugModeLogsStats(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	s := NewSession(Options{Width: 800, Height: 600, Logger: logger})
	defer s.Close()
	s.AddCards(testCard("a", 0, 0, 300, 300))

	s.Update(1.0 / 60)
	if strings.Contains(buf.String(), "visible=") {
		t.Fatal("stats logged with debug mode off")
	}

	s.SetDebugMode(true)
	s.Update(1.0 / 60)
	out := buf.String()
	if !strings.Contains(out, "cards=1") || !strings.Contains(out, "visible=1") || !strings.Contains(out, "mode=idle") {
		t.Errorf("debug output = %q", out)
	}
}
