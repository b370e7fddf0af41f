package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/avast/retry-go"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotstats/internal/models"
	"github.com/desertthunder/spotstats/internal/shared"
	"github.com/jmoiron/sqlx"
)

const userQuery = `
	SELECT id, spotify_id, display_name, profile_url, image_url, followers, country, updated_at
	FROM users
	WHERE spotify_id = ?
`

const topArtistsQuery = `
	SELECT a.id, a.name, a.image_url, a.popularity, a.spotify_url, ua.rank,
	       COALESCE(GROUP_CONCAT(g.name, ','), '') AS genres
	FROM user_artists ua
	JOIN users u ON u.id = ua.user_id
	JOIN artists a ON a.id = ua.artist_id
	LEFT JOIN artist_genres ag ON ag.artist_id = a.id
	LEFT JOIN genres g ON g.id = ag.genre_id
	WHERE u.spotify_id = ?
	GROUP BY a.id, ua.rank
	ORDER BY ua.rank ASC
	LIMIT ?
`

const topTracksQuery = `
	SELECT t.id, t.name, t.artist_name, t.album_name, t.image_url, t.popularity, t.duration_ms, t.spotify_url, ut.rank
	FROM user_tracks ut
	JOIN users u ON u.id = ut.user_id
	JOIN tracks t ON t.id = ut.track_id
	WHERE u.spotify_id = ?
	ORDER BY ut.rank ASC
	LIMIT ?
`

const favoriteGenresQuery = `
	SELECT g.id, g.name, ug.count
	FROM user_genres ug
	JOIN users u ON u.id = ug.user_id
	JOIN genres g ON g.id = ug.genre_id
	WHERE u.spotify_id = ?
	ORDER BY ug.count DESC, g.name ASC
	LIMIT ?
`

// MirrorRepository reads one user's precomputed statistics from the mirror store.
//
// List reads never fail: any error is logged and an empty slice returned.
type MirrorRepository struct {
	db       *sqlx.DB
	fallback *sqlx.DB
	userID   string
	logger   *log.Logger
}

// NewMirrorRepository creates a [MirrorRepository] for userID (the user's spotify_id).
//
// fallback is the alternate handle tried once by [MirrorRepository.UserInfo]; nil reuses db.
func NewMirrorRepository(db, fallback *sqlx.DB, userID string, logger *log.Logger) *MirrorRepository {
	if fallback == nil {
		fallback = db
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &MirrorRepository{
		db:       db,
		fallback: fallback,
		userID:   userID,
		logger:   shared.WithLogger(logger, "repository", "mirror"),
	}
}

// UserInfo returns the user's profile row.
//
// A miss or error on the primary handle is retried once against the fallback handle.
// If that also fails the result is a [shared.NotFoundError].
func (r *MirrorRepository) UserInfo(ctx context.Context) (*models.UserRow, error) {
	handles := []*sqlx.DB{r.db, r.fallback}
	attempt := 0

	var user models.UserRow
	err := retry.Do(
		func() error {
			return handles[attempt].GetContext(ctx, &user, userQuery, r.userID)
		},
		retry.Attempts(uint(len(handles))),
		retry.Delay(0),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			if next := int(n) + 1; next < len(handles) {
				r.logger.Warn("user lookup failed, trying fallback", "user", r.userID, "attempt", next, "err", err)
				attempt = next
			}
		}),
	)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			r.logger.Warn("user lookup failed", "user", r.userID, "err", fmt.Errorf("%w: %w", shared.ErrMirrorUnavailable, err))
		}
		return nil, &shared.NotFoundError{Resource: "user", ID: r.userID}
	}
	return &user, nil
}

// TopArtists returns up to limit of the user's artists ordered by rank, with their genres.
func (r *MirrorRepository) TopArtists(ctx context.Context, limit int) []models.ArtistRow {
	rows := []models.ArtistRow{}
	if err := r.db.SelectContext(ctx, &rows, topArtistsQuery, r.userID, clampLimit(limit)); err != nil {
		r.degraded("top artists", err)
		return []models.ArtistRow{}
	}

	for i := range rows {
		rows[i].Genres = splitGenres(rows[i].GenreList)
	}
	return rows
}

// TopTracks returns up to limit of the user's tracks ordered by rank.
func (r *MirrorRepository) TopTracks(ctx context.Context, limit int) []models.TrackRow {
	rows := []models.TrackRow{}
	if err := r.db.SelectContext(ctx, &rows, topTracksQuery, r.userID, clampLimit(limit)); err != nil {
		r.degraded("top tracks", err)
		return []models.TrackRow{}
	}
	return rows
}

// FavoriteGenres returns up to limit of the user's genres, most frequent first.
func (r *MirrorRepository) FavoriteGenres(ctx context.Context, limit int) []models.GenreRow {
	rows := []models.GenreRow{}
	if err := r.db.SelectContext(ctx, &rows, favoriteGenresQuery, r.userID, clampLimit(limit)); err != nil {
		r.degraded("favorite genres", err)
		return []models.GenreRow{}
	}
	return rows
}

func (r *MirrorRepository) degraded(read string, err error) {
	r.logger.Warn("mirror read failed, returning empty result",
		"read", read, "user", r.userID, "err", fmt.Errorf("%w: %w", shared.ErrMirrorUnavailable, err))
}
