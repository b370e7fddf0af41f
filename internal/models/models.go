// package models defines the data model for listening statistics and the mirror store
package models

import (
	"encoding/json"
	"time"
)

// FeatureNames lists the audio features averaged into [Stats.AudioFeatures], in output order.
var FeatureNames = []string{
	"danceability",
	"energy",
	"loudness",
	"speechiness",
	"acousticness",
	"instrumentalness",
	"liveness",
	"valence",
	"tempo",
}

// ArtistSummary is an artist with the number of playlist tracks crediting them.
type ArtistSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// AudioFeatures holds derived feature values for one track, keyed by names from [FeatureNames].
type AudioFeatures struct {
	TrackID string
	Values  map[string]float64
}

// MarshalJSON flattens the record into {"id": ..., "danceability": ..., ...}.
func (f AudioFeatures) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(f.Values)+1)
	for k, v := range f.Values {
		out[k] = v
	}
	out["id"] = f.TrackID
	return json.Marshal(out)
}

// Stats is the aggregate listening summary consumed by the portfolio front-end.
type Stats struct {
	TotalPlaylists int                `json:"totalPlaylists"`
	TotalTracks    int                `json:"totalTracks"`
	Artists        []ArtistSummary    `json:"artists"`
	AudioFeatures  map[string]float64 `json:"audioFeatures"`
}

// EmptyStats returns the summary for a user with no playlists.
// Slices and maps are non-nil so they encode as [] and {}.
func EmptyStats() *Stats {
	return &Stats{
		Artists:       []ArtistSummary{},
		AudioFeatures: map[string]float64{},
	}
}

// UserRow is a user profile in the mirror store.
type UserRow struct {
	ID          string     `db:"id" json:"id"`
	SpotifyID   string     `db:"spotify_id" json:"spotifyId"`
	DisplayName string     `db:"display_name" json:"displayName"`
	ProfileURL  string     `db:"profile_url" json:"profileUrl"`
	ImageURL    string     `db:"image_url" json:"imageUrl"`
	Followers   int        `db:"followers" json:"followers"`
	Country     string     `db:"country" json:"country"`
	UpdatedAt   *time.Time `db:"updated_at" json:"updatedAt,omitempty"`
}

// ArtistRow is one of the user's precomputed top artists.
//
// GenreList carries the comma-joined genre names selected alongside the row; Genres is the split form.
type ArtistRow struct {
	ID         string   `db:"id" json:"id"`
	Name       string   `db:"name" json:"name"`
	ImageURL   string   `db:"image_url" json:"imageUrl"`
	Popularity int      `db:"popularity" json:"popularity"`
	SpotifyURL string   `db:"spotify_url" json:"spotifyUrl"`
	Rank       int      `db:"rank" json:"rank"`
	GenreList  string   `db:"genres" json:"-"`
	Genres     []string `db:"-" json:"genres"`
}

// TrackRow is one of the user's precomputed top tracks.
type TrackRow struct {
	ID         string `db:"id" json:"id"`
	Name       string `db:"name" json:"name"`
	ArtistName string `db:"artist_name" json:"artistName"`
	AlbumName  string `db:"album_name" json:"albumName"`
	ImageURL   string `db:"image_url" json:"imageUrl"`
	Popularity int    `db:"popularity" json:"popularity"`
	DurationMS int    `db:"duration_ms" json:"durationMs"`
	SpotifyURL string `db:"spotify_url" json:"spotifyUrl"`
	Rank       int    `db:"rank" json:"rank"`
}

// GenreRow is a genre with how often it appears across the user's listening.
type GenreRow struct {
	ID    int64  `db:"id" json:"id"`
	Name  string `db:"name" json:"name"`
	Count int    `db:"count" json:"count"`
}
