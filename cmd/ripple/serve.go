package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vango-dev/ripple/internal/config"
	"github.com/vango-dev/ripple/internal/errors"
	"github.com/vango-dev/ripple/internal/logging"
	"github.com/vango-dev/ripple/pkg/server"
)

func serveCmd(load configLoader) *cobra.Command {
	var (
		addr    string
		noDemos bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve pages and live sessions",
		Long: `Serve the YAML pages in the configured pages directory.

Each page is available as a rendered document at /pages/<name> and
as a live view at /view/<name>. The built-in clock and counter pages
show live updates.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			logger := logging.New(cfg.Log, cmd.ErrOrStderr())

			pages, err := servePages(cfg, !noDemos)
			if err != nil {
				return err
			}
			srv := server.New(*cfg, server.WithLogger(logger), server.WithPages(pages))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := srv.Run(ctx); err != nil {
				return errors.New("E200").WithDetail("Listening on " + cfg.Server.Addr).Wrap(err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (overrides server.addr)")
	cmd.Flags().BoolVar(&noDemos, "no-demos", false, "Do not serve the clock and counter pages")

	return cmd
}

// servePages loads the YAML pages directory, if present, and adds the demo
// pages. A YAML page named like a demo replaces it.
func servePages(cfg *config.Config, demos bool) (map[string]server.Page, error) {
	pages := make(map[string]server.Page)
	if demos {
		for name, page := range demoPages(time.Second) {
			pages[name] = page
		}
	}

	dir := cfg.Resolve(cfg.Server.PagesDir)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return pages, nil
	}
	loaded, err := server.PagesFromDir(dir)
	if err != nil {
		return nil, err
	}
	for name, page := range loaded {
		pages[name] = page
	}
	return pages, nil
}
