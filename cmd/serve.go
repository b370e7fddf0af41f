package main

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/desertthunder/spotstats/internal/server"
	"github.com/desertthunder/spotstats/internal/shared"
	"github.com/urfave/cli/v3"
)

// Serve runs the JSON API until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	cfg := r.config.Server
	if host := cmd.String("host"); host != "" {
		cfg.Host = host
	}
	if port := int(cmd.Int("port")); port != 0 {
		cfg.Port = port
	}

	handler, err := r.apiHandler()
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Addr(), err)
	}

	if cmd.Bool("open") {
		url := fmt.Sprintf("http://%s/api/stats", ln.Addr().String())
		if err := shared.OpenBrowser(url); err != nil {
			r.logger.Warn("failed to open browser", "url", url, "err", err)
		}
	}

	return server.New(cfg, handler, r.logger).Serve(ctx, ln)
}

// apiHandler assembles the router with the catalog and mirror handlers.
func (r *Runner) apiHandler() (http.Handler, error) {
	engine, err := r.statsEngine()
	if err != nil {
		return nil, err
	}

	repo, err := r.mirrorRepository()
	if err != nil {
		return nil, err
	}

	handlers := []server.Handler{
		server.NewStatsHandler(engine, r.logger),
		server.NewMirrorHandler(repo, r.logger),
	}
	return server.NewRouter(r.logger, handlers, server.CORS(r.config.Server.AllowOrigin)), nil
}
