// package tasks computes listening statistics from a music catalog.
//
// The core abstraction is StatsEngine, which orchestrates token acquisition, playlist and track collection,
// artist ranking, and feature averaging. Operations emit progress updates via channels for non-blocking
// status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotstats/internal/models"
	"github.com/desertthunder/spotstats/internal/services"
	"github.com/desertthunder/spotstats/internal/shared"
	"golang.org/x/oauth2"
)

// StatsEngine assembles [models.Stats] from a [services.Catalog].
//
// Every catalog call is made sequentially, one request in flight.
type StatsEngine struct {
	catalog services.Catalog
	logger  *log.Logger
}

// NewStatsEngine creates a StatsEngine over catalog. A nil logger writes to stderr.
func NewStatsEngine(catalog services.Catalog, logger *log.Logger) *StatsEngine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &StatsEngine{catalog: catalog, logger: shared.WithLogger(logger, "task", "stats")}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *StatsEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func (e *StatsEngine) token(ctx context.Context, progress chan<- ProgressUpdate) (*oauth2.Token, error) {
	if e.catalog == nil {
		return nil, fmt.Errorf("%w: catalog not initialized", shared.ErrServiceUnavailable)
	}

	e.sendProgress(progress, fetchTokenUpdate())
	return e.catalog.AccessToken(ctx)
}

// Compute is the top-level statistics sequence: a fresh token, then [StatsEngine.UserStats].
func (e *StatsEngine) Compute(ctx context.Context, progress chan<- ProgressUpdate) (*models.Stats, error) {
	token, err := e.token(ctx, progress)
	if err != nil {
		return nil, err
	}
	return e.UserStats(ctx, token, progress)
}

// UserStats computes statistics over every playlist the catalog lists for the user.
//
// Any playlist or track listing failure aborts the run. Feature lookups degrade instead:
// whatever records come back are averaged.
func (e *StatsEngine) UserStats(ctx context.Context, token *oauth2.Token, progress chan<- ProgressUpdate) (*models.Stats, error) {
	if e.catalog == nil {
		return nil, fmt.Errorf("%w: catalog not initialized", shared.ErrServiceUnavailable)
	}

	logger := shared.WithLogger(e.logger, "run", shared.GenerateID())

	e.sendProgress(progress, fetchPlaylistsUpdate())
	playlists, err := e.catalog.AllPlaylists(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to get playlists: %w", err)
	}

	if len(playlists.Items) == 0 {
		logger.Info("no playlists found")
		stats := models.EmptyStats()
		e.sendProgress(progress, doneUpdate(stats))
		return stats, nil
	}

	total := len(playlists.Items)
	var entries []services.SpotifyPlaylistTrack
	for i, p := range playlists.Items {
		e.sendProgress(progress, fetchTracksUpdate(i+1, total, p.Name))

		page, err := e.catalog.PlaylistTracks(ctx, token, p.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to get tracks for playlist %s: %w", p.ID, err)
		}
		entries = append(entries, WithTrack(page.Items)...)
	}

	e.sendProgress(progress, rankArtistsUpdate(len(entries)))
	artists := RankArtists(entries, TopArtistLimit)

	features := map[string]float64{}
	if ids := TrackIDs(entries); len(ids) > 0 {
		e.sendProgress(progress, fetchFeaturesUpdate(len(ids)))
		records := e.catalog.AudioFeatures(ctx, token, ids)
		features = AverageFeatures(records)
		logger.Debug("averaged audio features", "ids", len(ids), "records", len(records))
	}

	stats := &models.Stats{
		TotalPlaylists: total,
		TotalTracks:    len(entries),
		Artists:        artists,
		AudioFeatures:  features,
	}

	logger.Info("computed statistics", "playlists", stats.TotalPlaylists, "tracks", stats.TotalTracks, "artists", len(artists))
	e.sendProgress(progress, doneUpdate(stats))
	return stats, nil
}

// Profile fetches the user's profile with a fresh token.
func (e *StatsEngine) Profile(ctx context.Context) (*services.SpotifyUser, error) {
	token, err := e.token(ctx, nil)
	if err != nil {
		return nil, err
	}
	return e.catalog.UserProfile(ctx, token)
}

// Playlists fetches the user's playlists with a fresh token.
func (e *StatsEngine) Playlists(ctx context.Context) ([]services.SpotifySimplePlaylist, error) {
	token, err := e.token(ctx, nil)
	if err != nil {
		return nil, err
	}

	page, err := e.catalog.AllPlaylists(ctx, token)
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

// TopTracks fetches the top tracks preview with a fresh token.
func (e *StatsEngine) TopTracks(ctx context.Context) ([]services.SpotifyTrack, error) {
	token, err := e.token(ctx, nil)
	if err != nil {
		return nil, err
	}
	return e.catalog.TopTracks(ctx, token)
}
