// Package cli implements the cove and contentd command-line interfaces.
package cli

import (
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/phanxgames/cove"
	"github.com/phanxgames/cove/desktop"
	"github.com/phanxgames/cove/internal/config"
	"github.com/phanxgames/cove/webhook"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// canvasOpts holds the flags shared by the window and snapshot commands.
type canvasOpts struct {
	configPath string
	webhookURL string
	category   string
	user       string
}

func (o *canvasOpts) register(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.StringVar(&o.configPath, "config", "", "path to a TOML config file")
	f.StringVar(&o.webhookURL, "webhook", "", "content webhook URL (overrides config)")
	f.StringVar(&o.category, "category", "", "category sent with messages (overrides config)")
	f.StringVar(&o.user, "user", "", "user name sent with messages (overrides config)")
}

// loadConfig reads the config file and environment, then applies flags the
// user set explicitly. The config log level applies unless -v already
// selected debug output.
func (c *CLI) loadConfig(cmd *cobra.Command, o *canvasOpts) (config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return config.Config{}, err
	}
	flags := cmd.Flags()
	if flags.Changed("webhook") {
		cfg.Content.WebhookURL = o.webhookURL
	}
	if flags.Changed("category") {
		cfg.Canvas.Category = o.category
	}
	if flags.Changed("user") {
		cfg.Canvas.User = o.user
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	if c.Logger.GetLevel() != log.DebugLevel {
		level, _ := cfg.LogLevel()
		c.Logger.SetLevel(level)
	}
	return cfg, nil
}

// newSession opens a session for cfg with its seed cards and, when a
// webhook is configured, a content service.
func (c *CLI) newSession(cfg config.Config) *cove.Session {
	opts := cfg.Options()
	opts.Logger = c.Logger
	if url := cfg.Content.WebhookURL; url != "" {
		opts.Content = webhook.New(url,
			webhook.WithHTTPClient(&http.Client{}),
			webhook.WithLogger(c.Logger),
		)
		c.Logger.Info("content service", "url", url)
	} else {
		c.Logger.Warn("no webhook configured; messages get fallback content")
	}
	s := cove.NewSession(opts)
	if n := s.AddCards(cfg.SeedCards()...); n > 0 {
		c.Logger.Debug("seed cards added", "count", n)
	}
	return s
}

// RootCommand creates the cove root command with its subcommands.
func (c *CLI) RootCommand() *cobra.Command {
	var (
		canvas     canvasOpts
		scriptPath string
		showFPS    bool
		exitDone   bool
	)
	root := &cobra.Command{
		Use:          "cove",
		Short:        "Cove is an infinite canvas of draggable, resizable cards",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := c.loadConfig(cmd, &canvas)
			if err != nil {
				return err
			}
			s := c.newSession(cfg)
			defer s.Close()

			var runner *cove.TestRunner
			if scriptPath != "" {
				if runner, err = loadScript(scriptPath); err != nil {
					return err
				}
				s.SetTestRunner(runner)
			}
			return desktop.Run(s, desktop.Config{
				Title:        cfg.Window.Title,
				Width:        cfg.Window.Width,
				Height:       cfg.Window.Height,
				ShowHUD:      true,
				ShowFPS:      showFPS,
				ExitWhenDone: exitDone,
				Runner:       runner,
				Logger:       c.Logger,
			})
		},
	}
	canvas.register(root)
	root.Flags().StringVar(&scriptPath, "script", "", "JSON test script to replay in the window")
	root.Flags().BoolVar(&showFPS, "fps", false, "show FPS and TPS")
	root.Flags().BoolVar(&exitDone, "exit-when-done", false, "close the window when --script finishes")

	root.AddCommand(c.snapshotCommand(&canvas))
	return root
}

func loadScript(path string) (*cove.TestRunner, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	runner, err := cove.LoadTestScript(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return runner, nil
}
