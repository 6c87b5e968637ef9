package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/phanxgames/cove"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigFlagOverrides(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	path := writeFile(t, "cove.toml", "[canvas]\ncategory = \"Metrics\"\nuser = \"ada\"\n[log]\nlevel = \"warn\"\n")
	if err := root.ParseFlags([]string{"--config", path, "--category", "Planning", "--webhook", "http://x.test/hook"}); err != nil {
		t.Fatal(err)
	}
	var canvas canvasOpts
	canvas.configPath = path
	canvas.category = "Planning"
	canvas.webhookURL = "http://x.test/hook"

	cfg, err := c.loadConfig(root, &canvas)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Canvas.Category != "Planning" {
		t.Errorf("Category = %q, want flag value", cfg.Canvas.Category)
	}
	if cfg.Canvas.User != "ada" {
		t.Errorf("User = %q, want config value", cfg.Canvas.User)
	}
	if cfg.Content.WebhookURL != "http://x.test/hook" {
		t.Errorf("WebhookURL = %q", cfg.Content.WebhookURL)
	}
	if c.Logger.GetLevel() != log.WarnLevel {
		t.Errorf("log level = %v, want warn from config", c.Logger.GetLevel())
	}
}

func TestLoadConfigVerboseWins(t *testing.T) {
	c := New(io.Discard, LogDebug)
	root := c.RootCommand()
	path := writeFile(t, "cove.toml", "[log]\nlevel = \"error\"\n")
	if err := root.ParseFlags([]string{"--config", path}); err != nil {
		t.Fatal(err)
	}
	if _, err := c.loadConfig(root, &canvasOpts{configPath: path}); err != nil {
		t.Fatal(err)
	}
	if c.Logger.GetLevel() != log.DebugLevel {
		t.Errorf("log level = %v, want debug", c.Logger.GetLevel())
	}
}

func TestNewSessionSeedsCards(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	path := writeFile(t, "cove.toml", "[[card]]\nid = \"welcome\"\ntitle = \"Welcome\"\n")
	cfg, err := c.loadConfig(root, &canvasOpts{configPath: path})
	if err != nil {
		t.Fatal(err)
	}
	s := c.newSession(cfg)
	defer s.Close()
	if _, ok := s.Store().Get("welcome"); !ok {
		t.Error("seed card missing")
	}
}

func TestRunHeadless(t *testing.T) {
	s := cove.NewSession(cove.Options{Width: 800, Height: 600, Logger: log.New(io.Discard)})
	defer s.Close()
	var labels []string
	s.OnSnapshot(func(l string) { labels = append(labels, l) })

	runner, err := cove.LoadTestScript([]byte(`{"steps": [
		{"action": "message", "text": "hello"},
		{"action": "snapshot", "label": "after message"},
		{"action": "zoomIn"},
		{"action": "wait", "frames": 3},
		{"action": "snapshot", "label": "zoomed"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	if err := runHeadless(s, runner, 100); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(labels) != 2 || labels[0] != "after message" || labels[1] != "zoomed" {
		t.Errorf("snapshots = %q", labels)
	}
	if s.Store().Len() != 1 {
		t.Errorf("cards = %d, want 1", s.Store().Len())
	}
	if s.Viewport().ZoomPercent() != 125 {
		t.Errorf("zoom = %d%%, want 125%%", s.Viewport().ZoomPercent())
	}
}

func TestRunHeadlessFrameLimit(t *testing.T) {
	s := cove.NewSession(cove.Options{Width: 800, Height: 600, Logger: log.New(io.Discard)})
	defer s.Close()
	runner, err := cove.LoadTestScript([]byte(`{"steps": [{"action": "wait", "frames": 50}]}`))
	if err != nil {
		t.Fatal(err)
	}
	if err := runHeadless(s, runner, 10); !errors.Is(err, errScriptTimeout) {
		t.Errorf("err = %v, want errScriptTimeout", err)
	}
}

func TestSnapshotCommand(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	out := t.TempDir()
	script := writeFile(t, "script.json", `{"steps": [{"action": "snapshot", "label": "first"}]}`)

	var stdout bytes.Buffer
	root.SetOut(&stdout)
	root.SetArgs([]string{"snapshot", "--script", script, "--out", out})
	if err := root.Execute(); err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	lines := strings.Fields(stdout.String())
	if len(lines) != 1 || !strings.HasSuffix(lines[0], "_first.png") {
		t.Fatalf("output = %q", stdout.String())
	}
	if _, err := os.Stat(lines[0]); err != nil {
		t.Error(err)
	}
}

func TestSnapshotCommandBadScript(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	script := writeFile(t, "script.json", `{"steps": [{"action": "dance"}]}`)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"snapshot", "--script", script, "--out", t.TempDir()})
	if err := root.Execute(); err == nil {
		t.Fatal("expected error for unknown action")
	}
}

func TestServeStopsOnCancel(t *testing.T) {
	c := New(io.Discard, LogInfo)
	cmd := c.ContentdCommand()
	cmd.SetArgs([]string{"--addr", "127.0.0.1:0", "--delay", "0s"})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
