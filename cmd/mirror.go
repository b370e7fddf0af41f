package main

import (
	"context"

	"github.com/desertthunder/spotstats/internal/formatter"
	"github.com/urfave/cli/v3"
)

// MirrorUser shows the mirrored profile row.
func (r *Runner) MirrorUser(ctx context.Context, cmd *cli.Command) error {
	repo, err := r.mirrorRepository()
	if err != nil {
		return err
	}

	user, err := repo.UserInfo(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(user, cmd.Bool("pretty"))
	}
	return formatter.UserTable(r.output, user)
}

// MirrorArtists lists the user's ranked artists.
func (r *Runner) MirrorArtists(ctx context.Context, cmd *cli.Command) error {
	repo, err := r.mirrorRepository()
	if err != nil {
		return err
	}

	artists := repo.TopArtists(ctx, int(cmd.Int("limit")))
	if cmd.Bool("json") {
		return r.writeJSON(artists, cmd.Bool("pretty"))
	}
	return formatter.MirrorArtistsTable(r.output, artists)
}

// MirrorTracks lists the user's ranked tracks.
func (r *Runner) MirrorTracks(ctx context.Context, cmd *cli.Command) error {
	repo, err := r.mirrorRepository()
	if err != nil {
		return err
	}

	tracks := repo.TopTracks(ctx, int(cmd.Int("limit")))
	if cmd.Bool("json") {
		return r.writeJSON(tracks, cmd.Bool("pretty"))
	}
	return formatter.MirrorTracksTable(r.output, tracks)
}

// MirrorGenres lists the user's genres by frequency.
func (r *Runner) MirrorGenres(ctx context.Context, cmd *cli.Command) error {
	repo, err := r.mirrorRepository()
	if err != nil {
		return err
	}

	genres := repo.FavoriteGenres(ctx, int(cmd.Int("limit")))
	if cmd.Bool("json") {
		return r.writeJSON(genres, cmd.Bool("pretty"))
	}
	return formatter.MirrorGenresTable(r.output, genres)
}
