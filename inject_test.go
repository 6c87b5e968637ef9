package cove

import "testing"

func TestInjectClick(t *testing.T) {
	s := newTestSession(t, testCard("a", 0, 0, 300, 300))

	s.InjectClick(50, 50)
	if s.InjectPending() != 2 {
		t.Fatalf("expected 2 queued events, got %d", s.InjectPending())
	}

	// Frame 1: press
	s.Update(1.0 / 60)
	if s.InjectPending() != 1 {
		t.Fatalf("expected 1 remaining event after frame 1, got %d", s.InjectPending())
	}
	if _, ok := s.Mode().(Dragging); !ok {
		t.Errorf("Mode after press = %v, want dragging", s.Mode())
	}

	// Frame 2: release
	s.Update(1.0 / 60)
	if s.InjectPending() != 0 {
		t.Fatalf("expected 0 remaining events after frame 2, got %d", s.InjectPending())
	}
	if _, ok := s.Mode().(Idle); !ok {
		t.Errorf("Mode after release = %v, want idle", s.Mode())
	}
	if s.Selected() != "a" {
		t.Errorf("Selected = %q, want a", s.Selected())
	}
}

func TestInjectDrag(t *testing.T) {
	s := newTestSession(t, testCard("a", 0, 0, 300, 300))

	s.InjectDrag(50, 50, 250, 150, 5)
	if s.InjectPending() != 6 {
		t.Fatalf("expected 6 queued events, got %d", s.InjectPending())
	}
	for s.InjectPending() > 0 {
		s.Update(1.0 / 60)
	}
	g := geometryOf(t, s, "a")
	if g.X != 200 || g.Y != 100 {
		t.Errorf("position = (%v,%v), want (200,100)", g.X, g.Y)
	}
}

func TestInjectDragMinFrames(t *testing.T) {
	s := newTestSession(t)
	s.InjectDrag(0, 0, 100, 100, 0)
	if s.InjectPending() != 3 {
		t.Errorf("expected press, move, release; got %d events", s.InjectPending())
	}
}

func TestInjectWheelAndLeave(t *testing.T) {
	s := newTestSession(t)
	s.InjectWheel(WheelEvent{X: 400, Y: 300, DeltaY: -1, Modifiers: ModCtrl})
	s.InjectPressWith(PointerEvent{X: 10, Y: 10, Button: MouseButtonMiddle})
	s.InjectLeave()

	s.Update(0)
	if s.Viewport().ZoomIndex() != DefaultZoomIndex+1 {
		t.Errorf("ZoomIndex = %d, want %d", s.Viewport().ZoomIndex(), DefaultZoomIndex+1)
	}
	s.Update(0)
	if _, ok := s.Mode().(Panning); !ok {
		t.Errorf("Mode = %v, want panning", s.Mode())
	}
	s.Update(0)
	if _, ok := s.Mode().(Idle); !ok {
		t.Errorf("Mode after leave = %v, want idle", s.Mode())
	}
}
