// Package cove is the interaction engine of an infinite card canvas:
// rectangular cards that can be positioned, resized, panned and zoomed with
// a pointing device.
//
// Cove owns the coordinate model, the pointer interaction state machine and
// viewport culling. Drawing is left to a renderer such as cove/desktop
// (Ebitengine) or cove/snapshot (PNG), and card text comes from a
// [ContentService] such as cove/webhook.
//
// # Quick start
//
//	s := cove.NewSession(cove.Options{
//		Width: 1280, Height: 800,
//		Category: "Strategy",
//		Content:  webhook.New(url),
//	})
//	defer s.Close()
//
//	s.SendMessage("Quarterly roadmap")
//
//	// once per frame:
//	s.PointerDown(cove.PointerEvent{X: x, Y: y, Button: cove.MouseButtonLeft})
//	s.Update(1.0 / 60)
//	for _, item := range s.RenderList() {
//		// draw item.Card at item.Screen
//	}
//
// # Coordinates
//
// Card geometry lives in virtual space. The [Viewport] maps it to screen
// space with
//
//	screen = virtual*zoom + pan
//
// where zoom is always one of [ZoomLevels]. Zoom buttons and reset animate
// the drawn view with gween tweens; [Viewport.Display] returns the values
// to draw with while interaction uses the committed ones.
//
// # Interaction
//
// Exactly one [Mode] is active: [Idle], [Panning], [Dragging] or
// [Resizing]. A gesture can only start from Idle and every gesture ends on
// pointer up or when the pointer leaves the canvas.
//
//   - Middle button, or left button with Alt, pans.
//   - Left button on a resize handle of the selected card resizes it.
//   - Left button on a card selects it and drags it.
//   - Ctrl/Meta + wheel zooms around the pointer; the plain wheel pans.
//
// # Content
//
// [Session.SendMessage] and [Session.SubmitNote] fetch card text in
// background goroutines bounded by [InitialTimeout] and [NoteTimeout].
// Results are applied during [Session.Update], so the store is only ever
// touched from the caller's goroutine. Failures append a notice to the card
// content and never change its geometry.
//
// # Testing
//
// Input can be scripted with [Session.InjectClick], [Session.InjectDrag] and
// related methods, or with a JSON script loaded by [LoadTestScript].
//
// [gween]: https://github.com/tanema/gween
package cove
