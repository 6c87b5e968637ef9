package cove

import (
	"errors"
	"math/rand/v2"

	"github.com/google/uuid"
)

// ErrCardNotFound is returned by Store operations addressing an unknown id.
var ErrCardNotFound = errors.New("card not found")

// Nominal working area new cards are scattered across, in virtual units.
const (
	WorkAreaWidth  = 2000.0
	WorkAreaHeight = 1500.0

	placementMarginX = 300.0
	placementMarginY = 200.0
)

// Default size of created cards.
const (
	DefaultCardWidth      = 350.0
	DefaultCardHeight     = 300.0
	DefaultRichCardHeight = 450.0
)

// Rand is the randomness source used for card placement.
type Rand interface {
	Float64() float64
}

// stdRand delegates to math/rand/v2 (auto-seeded).
type stdRand struct{}

func (stdRand) Float64() float64 { return rand.Float64() }

// CardSpec describes a card to create. Zero Width/Height select the
// default size.
type CardSpec struct {
	Title    string
	Content  string
	Tags     []string
	Kind     Kind
	Category string
	ChatID   string
	UserName string
	Rich     *RichContent
	Width    float64
	Height   float64
}

// Store is the canonical, ordered collection of cards. It is not safe for
// concurrent use; a Session serializes access to it.
type Store struct {
	cards []*Card
	index map[string]int
	rng   Rand
}

// NewStore creates an empty store. A nil rng uses math/rand/v2.
func NewStore(rng Rand) *Store {
	if rng == nil {
		rng = stdRand{}
	}
	return &Store{index: make(map[string]int), rng: rng}
}

// Len returns the number of cards.
func (s *Store) Len() int { return len(s.cards) }

// Create adds a new card at a uniform-random position inside the working
// area and returns a copy of it.
func (s *Store) Create(cs CardSpec) Card {
	w, h := cs.Width, cs.Height
	if w == 0 {
		w = DefaultCardWidth
	}
	if h == 0 {
		h = DefaultCardHeight
		if !cs.Rich.Empty() {
			h = DefaultRichCardHeight
		}
	}
	kind := cs.Kind
	if kind == "" {
		kind = KindStrategy
	}
	chatID := cs.ChatID
	if chatID == "" {
		chatID = uuid.NewString()
	}
	c := &Card{
		ID: uuid.NewString(),
		Geometry: Geometry{
			X:      s.rng.Float64() * (WorkAreaWidth - placementMarginX),
			Y:      s.rng.Float64() * (WorkAreaHeight - placementMarginY),
			Width:  w,
			Height: h,
		}.clampSize(),
		Title:    cs.Title,
		Content:  cs.Content,
		Tags:     append([]string(nil), cs.Tags...),
		Kind:     kind,
		Category: cs.Category,
		ChatID:   chatID,
		UserName: cs.UserName,
		Rich:     cs.Rich,
	}
	s.insert(c)
	return c.clone()
}

// Add inserts an externally built card as-is, apart from size clamping and
// filling a missing ID or ChatID. It returns false without changing the
// store if a card with the same id already exists.
func (s *Store) Add(c Card) bool {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if _, ok := s.index[c.ID]; ok {
		return false
	}
	if c.ChatID == "" {
		c.ChatID = uuid.NewString()
	}
	cp := c.clone()
	cp.Geometry = cp.Geometry.clampSize()
	s.insert(&cp)
	return true
}

func (s *Store) insert(c *Card) {
	s.index[c.ID] = len(s.cards)
	s.cards = append(s.cards, c)
}

func (s *Store) lookup(id string) *Card {
	i, ok := s.index[id]
	if !ok {
		return nil
	}
	return s.cards[i]
}

// Get returns a copy of the card with the given id.
func (s *Store) Get(id string) (Card, bool) {
	c := s.lookup(id)
	if c == nil {
		return Card{}, false
	}
	return c.clone(), true
}

// Geometry returns the geometry of the card with the given id.
func (s *Store) Geometry(id string) (Geometry, bool) {
	c := s.lookup(id)
	if c == nil {
		return Geometry{}, false
	}
	return c.Geometry, true
}

// SetGeometry replaces a card's geometry. Sizes below the minimum are
// clamped, never rejected. The committed geometry is returned.
func (s *Store) SetGeometry(id string, g Geometry) (Geometry, error) {
	c := s.lookup(id)
	if c == nil {
		return Geometry{}, ErrCardNotFound
	}
	c.Geometry = g.clampSize()
	return c.Geometry, nil
}

// SetContent replaces a card's text content.
func (s *Store) SetContent(id, content string) error {
	c := s.lookup(id)
	if c == nil {
		return ErrCardNotFound
	}
	c.Content = content
	return nil
}

// AppendContent appends suffix to a card's text content.
func (s *Store) AppendContent(id, suffix string) error {
	c := s.lookup(id)
	if c == nil {
		return ErrCardNotFound
	}
	c.Content += suffix
	return nil
}

// SetRich replaces a card's structured payload.
func (s *Store) SetRich(id string, rc *RichContent) error {
	c := s.lookup(id)
	if c == nil {
		return ErrCardNotFound
	}
	c.Rich = rc
	return nil
}

func (s *Store) setPending(id string, pending bool) {
	if c := s.lookup(id); c != nil {
		c.Pending = pending
	}
}

// Remove deletes the card immediately. It reports whether a card was removed.
func (s *Store) Remove(id string) bool {
	i, ok := s.index[id]
	if !ok {
		return false
	}
	copy(s.cards[i:], s.cards[i+1:])
	s.cards[len(s.cards)-1] = nil
	s.cards = s.cards[:len(s.cards)-1]
	delete(s.index, id)
	for j := i; j < len(s.cards); j++ {
		s.index[s.cards[j].ID] = j
	}
	return true
}

// List returns copies of all cards in insertion order.
func (s *Store) List() []Card {
	out := make([]Card, len(s.cards))
	for i, c := range s.cards {
		out[i] = c.clone()
	}
	return out
}
