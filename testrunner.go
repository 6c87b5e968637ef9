package cove

import (
	"encoding/json"
	"fmt"
)

// testStep is a single action in a test script.
type testStep struct {
	Action string   `json:"action"`
	Label  string   `json:"label,omitempty"`
	X      float64  `json:"x,omitempty"`
	Y      float64  `json:"y,omitempty"`
	FromX  float64  `json:"fromX,omitempty"`
	FromY  float64  `json:"fromY,omitempty"`
	ToX    float64  `json:"toX,omitempty"`
	ToY    float64  `json:"toY,omitempty"`
	DX     float64  `json:"dx,omitempty"`
	DY     float64  `json:"dy,omitempty"`
	Mods   []string `json:"mods,omitempty"`
	Frames int      `json:"frames,omitempty"`
	Text   string   `json:"text,omitempty"`
}

// testScript is the top-level JSON structure for a test script.
type testScript struct {
	Steps []testStep `json:"steps"`
}

var knownActions = map[string]bool{
	"snapshot": true, "click": true, "drag": true, "wait": true,
	"wheel": true, "zoomIn": true, "zoomOut": true, "reset": true,
	"message": true, "leave": true,
}

// TestRunner sequences injected input and snapshots across updates for
// scripted, headless runs. Attach it to a Session with SetTestRunner.
type TestRunner struct {
	steps     []testStep
	cursor    int
	waitCount int
	done      bool
}

// LoadTestScript parses a JSON test script and returns a TestRunner ready
// to be attached to a Session.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script testScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse test script: no steps")
	}
	for i, st := range script.Steps {
		if !knownActions[st.Action] {
			return nil, fmt.Errorf("parse test script: step %d: unknown action %q", i, st.Action)
		}
		if _, err := parseModifiers(st.Mods); err != nil {
			return nil, fmt.Errorf("parse test script: step %d: %w", i, err)
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

// SetTestRunner attaches a TestRunner to the session. The runner advances
// once per Update, before injected input is processed.
func (s *Session) SetTestRunner(runner *TestRunner) {
	s.testRunner = runner
}

// Done reports whether all steps in the test script have been executed.
func (r *TestRunner) Done() bool {
	return r.done
}

func parseModifiers(names []string) (KeyModifiers, error) {
	var m KeyModifiers
	for _, n := range names {
		switch n {
		case "shift":
			m |= ModShift
		case "ctrl":
			m |= ModCtrl
		case "alt":
			m |= ModAlt
		case "meta":
			m |= ModMeta
		default:
			return 0, fmt.Errorf("unknown modifier %q", n)
		}
	}
	return m, nil
}

// step advances the runner by one update.
func (r *TestRunner) step(s *Session) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if len(s.injectQueue) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++
	mods, _ := parseModifiers(st.Mods)

	switch st.Action {
	case "snapshot":
		if s.onSnapshot != nil {
			s.onSnapshot(st.Label)
		}
	case "click":
		s.InjectPressWith(PointerEvent{X: st.X, Y: st.Y, Button: MouseButtonLeft, Modifiers: mods})
		s.InjectRelease(st.X, st.Y)
	case "drag":
		s.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, st.Frames)
	case "wheel":
		s.InjectWheel(WheelEvent{X: st.X, Y: st.Y, DeltaX: st.DX, DeltaY: st.DY, Modifiers: mods})
	case "leave":
		s.InjectLeave()
	case "zoomIn":
		s.viewport.ZoomIn()
	case "zoomOut":
		s.viewport.ZoomOut()
	case "reset":
		s.viewport.Reset()
	case "message":
		if _, err := s.SendMessage(st.Text); err != nil {
			s.logger.Warn("script message rejected", "step", r.cursor-1, "err", err)
		}
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this update counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(s.injectQueue) == 0 {
		r.done = true
	}
}
