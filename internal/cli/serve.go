package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/hiroksarker/jina/pkg/buildinfo"
	errs "github.com/hiroksarker/jina/pkg/errors"
	"github.com/hiroksarker/jina/pkg/manifest"
	"github.com/hiroksarker/jina/pkg/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve tag resolution over HTTP",
		Long: `Serve the manifest over HTTP.

Endpoints: GET /healthz, GET /tags, GET /resolve?tag=a&tag=b, GET /conflicts,
GET /graph, POST /reload. With --reload-interval the manifest file is also
re-read periodically; a manifest that fails to load never replaces the one
being served.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			if addr == "" {
				addr = c.cfg.Server.Addr
			}

			holder, err := manifest.NewHolder(ctx, manifest.FileSource{Path: c.cfg.Manifest})
			if err != nil {
				return err
			}
			runner, err := c.newRunner(ctx)
			if err != nil {
				return err
			}
			defer runner.Close()

			if interval > 0 {
				go watchManifest(ctx, holder, interval, logger)
			}

			srv := server.New(holder, runner, logger, buildinfo.Get().Version)
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, then :8080)")
	cmd.Flags().DurationVar(&interval, "reload-interval", 0, "re-read the manifest at this interval (0 disables)")
	return cmd
}

// watchManifest reloads the holder every interval until ctx is done.
func watchManifest(ctx context.Context, h *manifest.Holder, interval time.Duration, logger *log.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			snap, changed, err := h.Reload(ctx)
			switch {
			case err != nil:
				logger.Warn("reload failed, keeping current manifest", "generation", snap.ID, "error", errs.UserMessage(err))
			case changed:
				logger.Info("manifest reloaded", "generation", snap.ID, "packages", snap.Index.Len())
			}
		}
	}
}
