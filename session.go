package cove

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// ErrEmptyMessage is returned when a message or note has no text.
var ErrEmptyMessage = errors.New("message is empty")

// ErrSessionClosed is returned by operations that start content fetches
// after Close.
var ErrSessionClosed = errors.New("session closed")

// newConversationContent is the body of a card opened with NewConversation.
const newConversationContent = "New conversation started. Write a message below to begin."

// Options configures a Session.
type Options struct {
	// Width and Height are the initial viewport size in pixels.
	Width, Height float64
	// Category and UserName are sent with every content request.
	Category string
	UserName string
	// Content produces card content. When nil, messages create cards with
	// fallback content and no fetch is made.
	Content ContentService
	// InitialTimeout and NoteTimeout bound content fetches. Zero selects
	// InitialTimeout / NoteTimeout.
	InitialTimeout time.Duration
	NoteTimeout    time.Duration
	// Rand drives card placement. Nil uses math/rand/v2.
	Rand Rand
	// Logger receives warnings and debug output. Nil uses log.Default().
	Logger *log.Logger
}

// RenderItem is one card ready for drawing: a copy of the card, its
// screen-space rectangle under the committed view, and its layer.
type RenderItem struct {
	Card     Card
	Screen   Rect
	Layer    Layer
	Selected bool
}

// Session is the state of one open canvas: its viewport, cards, the current
// interaction mode, selection, and in-flight content fetches. All methods
// must be called from a single goroutine; content fetches run in the
// background and are applied during Update.
type Session struct {
	viewport *Viewport
	store    *Store
	culler   Culler
	mode     Mode
	selected string

	category string
	userName string
	rng      Rand
	content  ContentService
	tasks    *contentTasks
	logger   *log.Logger
	debug    bool
	closed   bool

	handlers    handlerRegistry
	resultBuf   []contentResult
	orderBuf    []Card
	injectQueue []syntheticEvent
	testRunner  *TestRunner

	onSnapshot func(label string)
}

// NewSession opens a canvas session.
func NewSession(opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	rng := opts.Rand
	if rng == nil {
		rng = stdRand{}
	}
	return &Session{
		viewport: NewViewport(opts.Width, opts.Height),
		store:    NewStore(rng),
		mode:     Idle{},
		category: opts.Category,
		userName: opts.UserName,
		rng:      rng,
		content:  opts.Content,
		tasks:    newContentTasks(opts.Content, logger, opts.InitialTimeout, opts.NoteTimeout),
		logger:   logger,
	}
}

// Close cancels every content fetch and waits for them to stop. SendMessage
// and SubmitNote return ErrSessionClosed afterwards.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.tasks.close()
	s.setMode(Idle{})
	s.logger.Debug("session closed", "cards", s.store.Len())
}

// Viewport returns the session viewport.
func (s *Session) Viewport() *Viewport { return s.viewport }

// Store returns the session card store.
func (s *Session) Store() *Store { return s.store }

// Mode returns the current interaction mode.
func (s *Session) Mode() Mode { return s.mode }

// Category returns the category sent with content requests.
func (s *Session) Category() string { return s.category }

// Update advances the view transition, consumes one injected input event and
// applies finished content fetches. Call it once per frame with the elapsed
// time in seconds.
func (s *Session) Update(dt float32) {
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	if s.testRunner != nil {
		s.testRunner.step(s)
	}
	s.viewport.Update(dt)
	s.processInjectedInput()
	s.applyContentResults()

	if s.debug {
		s.debugLog(debugStats{
			updateTime: time.Since(t0),
			cards:      s.store.Len(),
			visible:    len(s.culler.Visible(s.viewport, s.store.List())),
			mode:       s.mode.String(),
			pending:    s.tasks.pending(),
		})
	}
}

// --- Selection and layering ---

// Select makes id the selected card. It reports whether the card exists.
// Selection changes layering and which card shows handles, never geometry.
func (s *Session) Select(id string) bool {
	if s.store.lookup(id) == nil {
		return false
	}
	s.selected = id
	return true
}

// Deselect clears the selection.
func (s *Session) Deselect() { s.selected = "" }

// Selected returns the selected card id, or "".
func (s *Session) Selected() string { return s.selected }

// Layer returns the rendering layer of a card.
func (s *Session) Layer(id string) Layer {
	if d, ok := s.mode.(Dragging); ok && d.CardID == id {
		return LayerDragging
	}
	if id != "" && id == s.selected {
		return LayerSelected
	}
	return LayerBase
}

// ordered returns every card sorted bottom-to-top by layer, keeping
// insertion order within a layer. The slice is reused between calls.
func (s *Session) ordered() []Card {
	s.orderBuf = append(s.orderBuf[:0], s.store.List()...)
	slices.SortStableFunc(s.orderBuf, func(a, b Card) int {
		return int(s.Layer(a.ID)) - int(s.Layer(b.ID))
	})
	return s.orderBuf
}

// RenderList returns the visible cards, bottom-to-top, with their screen
// rectangles resolved under the committed view.
func (s *Session) RenderList() []RenderItem {
	visible := s.culler.Visible(s.viewport, s.ordered())
	items := make([]RenderItem, len(visible))
	for i, c := range visible {
		items[i] = RenderItem{
			Card:     c,
			Screen:   s.viewport.ProjectRect(c.Geometry.Rect()),
			Layer:    s.Layer(c.ID),
			Selected: c.ID == s.selected,
		}
	}
	return items
}

// --- Card lifecycle ---

// AddCards merges externally supplied cards. Cards whose id is already
// present are skipped. It returns the number of cards added.
func (s *Session) AddCards(cards ...Card) int {
	n := 0
	for _, c := range cards {
		if s.store.Add(c) {
			n++
			s.debugCheckCardCount()
		}
	}
	return n
}

// RemoveCard deletes a card, cancels its content fetches and drops any
// selection or gesture that referred to it.
func (s *Session) RemoveCard(id string) bool {
	if !s.store.Remove(id) {
		return false
	}
	s.tasks.cancel(id)
	if s.selected == id {
		s.selected = ""
	}
	if activeCardID(s.mode) == id {
		s.setMode(Idle{})
	}
	return true
}

var kinds = [...]Kind{KindStrategy, KindAnalysis, KindPlan, KindMetrics}

// SendMessage creates a card for a new user message and fetches its content
// in the background with the initial timeout.
func (s *Session) SendMessage(text string) (Card, error) {
	if s.closed {
		return Card{}, ErrSessionClosed
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return Card{}, ErrEmptyMessage
	}
	kind := kinds[min(int(s.rng.Float64()*float64(len(kinds))), len(kinds)-1)]
	card := s.store.Create(CardSpec{
		Title:    newCardTitle(s.category),
		Tags:     []string{s.category, "AI Generated"},
		Kind:     kind,
		Category: s.category,
		UserName: s.userName,
	})
	s.debugCheckCardCount()

	if s.content == nil {
		_ = s.store.SetContent(card.ID, unavailableContent(text))
		card, _ = s.store.Get(card.ID)
		return card, nil
	}

	s.store.setPending(card.ID, true)
	s.tasks.start(ContentRequest{
		CardID:   card.ID,
		ChatID:   card.ChatID,
		UserName: card.UserName,
		Text:     text,
		Category: s.category,
	})
	card, _ = s.store.Get(card.ID)
	return card, nil
}

// SubmitNote sends a follow-up message for an existing card. The response
// is appended to the card content with the note timeout.
func (s *Session) SubmitNote(cardID, text string) error {
	if s.closed {
		return ErrSessionClosed
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyMessage
	}
	card := s.store.lookup(cardID)
	if card == nil {
		return fmt.Errorf("submit note: %w", ErrCardNotFound)
	}
	if s.content == nil {
		return s.store.AppendContent(cardID, failureNotice(errors.New("content service unavailable")))
	}
	card.Pending = true
	s.tasks.start(ContentRequest{
		CardID:   cardID,
		ChatID:   card.ChatID,
		UserName: card.UserName,
		Text:     text,
		Category: s.category,
		Note:     true,
	})
	return nil
}

// NewConversation creates an empty conversation card without contacting
// the content service.
func (s *Session) NewConversation() Card {
	defer s.debugCheckCardCount()
	return s.store.Create(CardSpec{
		Title:    "New Conversation - " + s.category,
		Content:  newConversationContent,
		Tags:     []string{s.category, "New Chat"},
		Kind:     KindStrategy,
		Category: s.category,
		UserName: s.userName,
	})
}

// WaitContent blocks until every in-flight content fetch has finished, then
// applies the results. Intended for headless runs and tests.
func (s *Session) WaitContent() {
	s.resultBuf = s.tasks.wait(s.resultBuf[:0])
	s.applyResultBuf()
}

// PendingContent returns the number of cards with fetches in flight.
func (s *Session) PendingContent() int { return s.tasks.pending() }

// applyContentResults writes finished fetches into the store. Only content
// fields change; geometry is never touched.
func (s *Session) applyContentResults() {
	s.resultBuf = s.tasks.drain(s.resultBuf[:0])
	s.applyResultBuf()
}

func (s *Session) applyResultBuf() {
	for _, r := range s.resultBuf {
		id := r.req.CardID
		stillPending := s.tasks.finish(id)
		if s.store.lookup(id) == nil {
			continue
		}
		s.store.setPending(id, stillPending)
		s.applyContentResult(r)
	}
}

func (s *Session) applyContentResult(r contentResult) {
	id := r.req.CardID
	if r.err != nil {
		s.logger.Warn("content fetch failed", "card", id, "note", r.req.Note, "err", r.err)
		if !r.req.Note {
			_ = s.store.SetContent(id, unavailableContent(r.req.Text))
		}
		_ = s.store.AppendContent(id, failureNotice(r.err))
		return
	}

	content := strings.TrimSpace(r.resp.Content)
	if r.req.Note {
		if content != "" {
			_ = s.store.AppendContent(id, "\n\n"+content)
		}
	} else {
		if content == "" {
			content = fmt.Sprintf("Response for: %q", r.req.Text)
		}
		_ = s.store.SetContent(id, content)
	}
	if !r.resp.Rich.Empty() {
		_ = s.store.SetRich(id, r.resp.Rich)
	}
	s.logger.Debug("content applied", "card", id, "note", r.req.Note, "bytes", len(content))
}

func newCardTitle(category string) string {
	if category == "" {
		return "New Card"
	}
	return "New Card - " + category
}

func unavailableContent(text string) string {
	return fmt.Sprintf("Message: %q (content service unavailable)", text)
}

// SetDebugMode enables or disables per-update debug logging.
func (s *Session) SetDebugMode(enabled bool) {
	s.debug = enabled
}

// OnSnapshot registers the callback the scripted test runner invokes for
// "snapshot" steps.
func (s *Session) OnSnapshot(fn func(label string)) {
	s.onSnapshot = fn
}
