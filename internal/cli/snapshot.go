package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/phanxgames/cove"
	"github.com/phanxgames/cove/snapshot"
)

const (
	defaultSnapshotDir = "snapshots"
	defaultMaxFrames   = 3600 // one minute of simulated frames at 60 TPS
	frameTime          = float32(1.0 / 60)
)

// errScriptTimeout is returned when a script does not finish within the
// frame limit.
var errScriptTimeout = errors.New("script did not finish")

// snapshotOpts holds the command-line flags for the snapshot command.
type snapshotOpts struct {
	script    string // JSON test script; empty renders the canvas once
	out       string // output directory
	maxFrames int    // frame limit for a scripted run
}

func (c *CLI) snapshotCommand(canvas *canvasOpts) *cobra.Command {
	opts := snapshotOpts{out: defaultSnapshotDir, maxFrames: defaultMaxFrames}

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Render the canvas to PNG without opening a window",
		Long: `Snapshot opens the canvas headlessly. With --script it replays a JSON test
script and writes one PNG per "snapshot" step; otherwise it writes a single
PNG of the seed cards.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := c.loadConfig(cmd, canvas)
			if err != nil {
				return err
			}
			s := c.newSession(cfg)
			defer s.Close()

			rec, err := snapshot.NewRecorder(opts.out, s, c.Logger)
			if err != nil {
				return err
			}
			if opts.script == "" {
				s.WaitContent()
				rec.Snapshot("canvas")
			} else {
				runner, err := loadScript(opts.script)
				if err != nil {
					return err
				}
				s.OnSnapshot(rec.Snapshot)
				if err := runHeadless(s, runner, opts.maxFrames); err != nil {
					return err
				}
			}
			for _, p := range rec.Written() {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.script, "script", "", "JSON test script to replay")
	cmd.Flags().StringVarP(&opts.out, "out", "o", opts.out, "output directory")
	cmd.Flags().IntVar(&opts.maxFrames, "max-frames", opts.maxFrames, "frame limit for a scripted run")
	return cmd
}

// runHeadless steps s until runner is done. Content fetches are awaited
// after every frame so snapshots taken later in the script see their
// results.
func runHeadless(s *cove.Session, runner *cove.TestRunner, maxFrames int) error {
	s.SetTestRunner(runner)
	for frame := 0; frame < maxFrames; frame++ {
		s.Update(frameTime)
		if s.PendingContent() > 0 {
			s.WaitContent()
		}
		if runner.Done() {
			return nil
		}
	}
	return fmt.Errorf("%w after %d frames", errScriptTimeout, maxFrames)
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}
