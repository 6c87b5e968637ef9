package cove

type syntheticKind uint8

const (
	syntheticPress syntheticKind = iota
	syntheticMove
	syntheticRelease
	syntheticWheel
	syntheticLeave
)

// syntheticEvent is a single injected input event. Coordinates are screen
// coordinates, the same space real pointer events are reported in.
type syntheticEvent struct {
	kind    syntheticKind
	pointer PointerEvent
	wheel   WheelEvent
}

// InjectPress queues a left-button press at the given screen coordinates.
// The event is consumed on the next Update.
func (s *Session) InjectPress(x, y float64) {
	s.InjectPressWith(PointerEvent{X: x, Y: y, Button: MouseButtonLeft})
}

// InjectPressWith queues a press with an explicit button and modifiers.
func (s *Session) InjectPressWith(e PointerEvent) {
	s.injectQueue = append(s.injectQueue, syntheticEvent{kind: syntheticPress, pointer: e})
}

// InjectMove queues a pointer move to the given screen coordinates. Use it
// between InjectPress and InjectRelease to simulate a drag.
func (s *Session) InjectMove(x, y float64) {
	s.injectQueue = append(s.injectQueue, syntheticEvent{
		kind:    syntheticMove,
		pointer: PointerEvent{X: x, Y: y, Button: MouseButtonLeft},
	})
}

// InjectRelease queues a pointer release at the given screen coordinates.
func (s *Session) InjectRelease(x, y float64) {
	s.injectQueue = append(s.injectQueue, syntheticEvent{
		kind:    syntheticRelease,
		pointer: PointerEvent{X: x, Y: y, Button: MouseButtonLeft},
	})
}

// InjectClick queues a press followed by a release at the same screen
// coordinates. Consumes two updates.
func (s *Session) InjectClick(x, y float64) {
	s.InjectPress(x, y)
	s.InjectRelease(x, y)
}

// InjectDrag queues a full drag sequence: press at (fromX, fromY), linearly
// interpolated moves over frames-2 intermediate updates, a final move to
// (toX, toY) and a release there. Minimum frames is 2.
func (s *Session) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	s.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		s.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	s.InjectMove(toX, toY)
	s.InjectRelease(toX, toY)
}

// InjectWheel queues a wheel event.
func (s *Session) InjectWheel(e WheelEvent) {
	s.injectQueue = append(s.injectQueue, syntheticEvent{kind: syntheticWheel, wheel: e})
}

// InjectLeave queues the pointer leaving the canvas.
func (s *Session) InjectLeave() {
	s.injectQueue = append(s.injectQueue, syntheticEvent{kind: syntheticLeave})
}

// InjectPending returns the number of queued synthetic events.
func (s *Session) InjectPending() int { return len(s.injectQueue) }

// processInjectedInput pops one event from the inject queue and feeds it
// through the interaction state machine. It reports whether an event was
// consumed, in which case real input should be skipped this frame.
func (s *Session) processInjectedInput() bool {
	if len(s.injectQueue) == 0 {
		return false
	}
	evt := s.injectQueue[0]
	copy(s.injectQueue, s.injectQueue[1:])
	s.injectQueue = s.injectQueue[:len(s.injectQueue)-1]

	switch evt.kind {
	case syntheticPress:
		s.PointerDown(evt.pointer)
	case syntheticMove:
		s.PointerMove(evt.pointer)
	case syntheticRelease:
		s.PointerUp(evt.pointer)
	case syntheticWheel:
		s.Wheel(evt.wheel)
	case syntheticLeave:
		s.PointerLeave()
	}
	return true
}
