package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/phanxgames/cove/internal/contentd"
)

const (
	defaultAddr     = "127.0.0.1:8080"
	shutdownTimeout = 10 * time.Second
)

// ContentdCommand creates the root command of the local content service.
func (c *CLI) ContentdCommand() *cobra.Command {
	var (
		addr  string
		delay time.Duration
	)
	cmd := &cobra.Command{
		Use:          "contentd",
		Short:        "Serve canned card content for cove on POST /api/chat",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			srv := contentd.New(contentd.WithDelay(delay), contentd.WithLogger(c.Logger))
			return c.serve(cmd.Context(), &http.Server{
				Addr:              addr,
				Handler:           srv.Routes(),
				ReadHeaderTimeout: 5 * time.Second,
			})
		},
	}
	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")
	cmd.Flags().DurationVar(&delay, "delay", contentd.DefaultDelay, "simulated processing time per reply")
	return cmd
}

// serve runs hs until ctx is cancelled, then shuts it down gracefully.
func (c *CLI) serve(ctx context.Context, hs *http.Server) error {
	errc := make(chan error, 1)
	go func() {
		c.Logger.Info("starting server", "addr", hs.Addr)
		if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err, ok := <-errc:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}
	c.Logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := hs.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
