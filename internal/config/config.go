// Package config loads cove settings from an optional TOML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/phanxgames/cove"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid config")

// Duration is a time.Duration that decodes from strings such as "10s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Config is the full cove configuration: file values, then COVE_*
// environment overrides.
type Config struct {
	Canvas  Canvas  `toml:"canvas"`
	Content Content `toml:"content"`
	Window  Window  `toml:"window"`
	Log     Log     `toml:"log"`
	Cards   []Card  `toml:"card"`
}

// Canvas holds the category and user name sent with every message.
type Canvas struct {
	Category string `toml:"category"`
	User     string `toml:"user"`
}

// Content configures the webhook content service and its timeouts.
type Content struct {
	WebhookURL     string   `toml:"webhook_url"`
	InitialTimeout Duration `toml:"initial_timeout"`
	NoteTimeout    Duration `toml:"note_timeout"`
}

// Window sets the desktop window title and initial size.
type Window struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
}

// Log sets the logger level by name (debug, info, warn, error).
type Log struct {
	Level string `toml:"level"`
}

// Card is a seed card placed on the canvas at startup.
type Card struct {
	ID      string   `toml:"id"`
	Title   string   `toml:"title"`
	Content string   `toml:"content"`
	Tags    []string `toml:"tags"`
	Kind    string   `toml:"kind"`
	X       float64  `toml:"x"`
	Y       float64  `toml:"y"`
	Width   float64  `toml:"width"`
	Height  float64  `toml:"height"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Canvas: Canvas{Category: "Strategy", User: "guest"},
		Content: Content{
			InitialTimeout: Duration{cove.InitialTimeout},
			NoteTimeout:    Duration{cove.NoteTimeout},
		},
		Window: Window{Title: "Cove", Width: 1280, Height: 800},
		Log:    Log{Level: "info"},
	}
}

// Load returns the defaults overlaid with the TOML file at path (skipped
// when path is empty) and then with COVE_* environment variables.
func Load(path string) (Config, error) {
	c := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, &c); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	if err := c.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("COVE_WEBHOOK_URL", &c.Content.WebhookURL)
	str("COVE_CATEGORY", &c.Canvas.Category)
	str("COVE_USER", &c.Canvas.User)
	str("COVE_LOG_LEVEL", &c.Log.Level)

	for key, dst := range map[string]*Duration{
		"COVE_INITIAL_TIMEOUT": &c.Content.InitialTimeout,
		"COVE_NOTE_TIMEOUT":    &c.Content.NoteTimeout,
	} {
		v, ok := lookup(key)
		if !ok || v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %s %q: %w", ErrInvalid, key, v, err)
		}
		dst.Duration = d
	}
	return nil
}

// Validate checks the configuration for values the engine cannot use.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Canvas.Category) == "" {
		return fmt.Errorf("%w: canvas.category is empty", ErrInvalid)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	}
	if c.Content.InitialTimeout.Duration <= 0 || c.Content.NoteTimeout.Duration <= 0 {
		return fmt.Errorf("%w: timeouts must be positive", ErrInvalid)
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	for i, card := range c.Cards {
		if card.Kind != "" && !validKind(card.Kind) {
			return fmt.Errorf("%w: card %d: unknown kind %q", ErrInvalid, i, card.Kind)
		}
	}
	return nil
}

// LogLevel parses Log.Level.
func (c Config) LogLevel() (log.Level, error) {
	level, err := log.ParseLevel(strings.ToLower(c.Log.Level))
	if err != nil {
		return 0, fmt.Errorf("%w: log level %q", ErrInvalid, c.Log.Level)
	}
	return level, nil
}

// Options returns session options for the configuration. The content
// service is left for the caller to attach.
func (c Config) Options() cove.Options {
	return cove.Options{
		Width:          float64(c.Window.Width),
		Height:         float64(c.Window.Height),
		Category:       c.Canvas.Category,
		UserName:       c.Canvas.User,
		InitialTimeout: c.Content.InitialTimeout.Duration,
		NoteTimeout:    c.Content.NoteTimeout.Duration,
	}
}

// SeedCards converts the configured seed cards, tagging each with the
// canvas category.
func (c Config) SeedCards() []cove.Card {
	cards := make([]cove.Card, 0, len(c.Cards))
	for _, sc := range c.Cards {
		kind := cove.Kind(sc.Kind)
		if kind == "" {
			kind = cove.KindStrategy
		}
		cards = append(cards, cove.Card{
			ID: sc.ID,
			Geometry: cove.Geometry{
				X: sc.X, Y: sc.Y,
				Width:  orDefault(sc.Width, cove.DefaultCardWidth),
				Height: orDefault(sc.Height, cove.DefaultCardHeight),
			},
			Title:    sc.Title,
			Content:  sc.Content,
			Tags:     sc.Tags,
			Kind:     kind,
			Category: c.Canvas.Category,
			UserName: c.Canvas.User,
		})
	}
	return cards
}

func validKind(k string) bool {
	switch cove.Kind(k) {
	case cove.KindStrategy, cove.KindAnalysis, cove.KindPlan, cove.KindMetrics:
		return true
	}
	return false
}

func orDefault(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}
