package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/desertthunder/spotstats/internal/formatter"
	"github.com/desertthunder/spotstats/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Stats computes listening statistics and renders them in the requested format.
//
// Progress is logged while the run is in flight.
func (r *Runner) Stats(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	engine, err := r.statsEngine()
	if err != nil {
		return err
	}

	progress := make(chan tasks.ProgressUpdate, 50)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for update := range progress {
			r.logger.Info(update.Message, "phase", update.Phase.String())
		}
	}()

	stats, err := engine.Compute(ctx, progress)
	close(progress)
	wg.Wait()
	if err != nil {
		return fmt.Errorf("failed to compute statistics: %w", err)
	}

	if path := cmd.String("output"); path != "" {
		if err := formatter.WriteStatsExport(stats, path, format); err != nil {
			return err
		}
		r.logger.Info("statistics written", "file", path)
		return nil
	}

	return formatter.WriteStats(r.output, stats, format)
}

// Profile shows the user's catalog profile.
func (r *Runner) Profile(ctx context.Context, cmd *cli.Command) error {
	engine, err := r.statsEngine()
	if err != nil {
		return err
	}

	user, err := engine.Profile(ctx)
	if err != nil {
		return fmt.Errorf("failed to get profile: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(user, cmd.Bool("pretty"))
	}
	return formatter.ProfileTable(r.output, user)
}

// Playlists lists one page of the user's playlists.
func (r *Runner) Playlists(ctx context.Context, cmd *cli.Command) error {
	engine, err := r.statsEngine()
	if err != nil {
		return err
	}

	playlists, err := engine.Playlists(ctx)
	if err != nil {
		return fmt.Errorf("failed to list playlists: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlists, cmd.Bool("pretty"))
	}

	if err := r.writePlain("Found %d playlists:\n", len(playlists)); err != nil {
		return err
	}
	return formatter.PlaylistsTable(r.output, playlists)
}

// TopTracks previews tracks from the user's most recent playlist.
func (r *Runner) TopTracks(ctx context.Context, cmd *cli.Command) error {
	engine, err := r.statsEngine()
	if err != nil {
		return err
	}

	tracks, err := engine.TopTracks(ctx)
	if err != nil {
		return fmt.Errorf("failed to get top tracks: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(tracks, cmd.Bool("pretty"))
	}
	if len(tracks) == 0 {
		return r.writePlain("No tracks found\n")
	}
	return formatter.TracksTable(r.output, tracks)
}
