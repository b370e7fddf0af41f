package tasks

import (
	"slices"

	"github.com/desertthunder/spotstats/internal/models"
	"github.com/desertthunder/spotstats/internal/services"
)

// TopArtistLimit is the number of artists kept in [models.Stats].
const TopArtistLimit = 10

// WithTrack drops playlist entries that carry no track.
func WithTrack(entries []services.SpotifyPlaylistTrack) []services.SpotifyPlaylistTrack {
	kept := make([]services.SpotifyPlaylistTrack, 0, len(entries))
	for _, e := range entries {
		if e.Track != nil {
			kept = append(kept, e)
		}
	}
	return kept
}

// RankArtists counts every artist credit across entries and returns the most frequent, up to limit.
//
// Ties keep first-seen order. A non-positive limit returns every artist.
func RankArtists(entries []services.SpotifyPlaylistTrack, limit int) []models.ArtistSummary {
	index := make(map[string]int)
	ranked := make([]models.ArtistSummary, 0)

	for _, e := range entries {
		if e.Track == nil {
			continue
		}
		for _, a := range e.Track.Artists {
			if i, ok := index[a.ID]; ok {
				ranked[i].Count++
				continue
			}
			index[a.ID] = len(ranked)
			ranked = append(ranked, models.ArtistSummary{ID: a.ID, Name: a.Name, Count: 1})
		}
	}

	slices.SortStableFunc(ranked, func(a, b models.ArtistSummary) int {
		return b.Count - a.Count
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// TrackIDs returns the IDs of entries' tracks, skipping tracks without one. Duplicates are kept.
func TrackIDs(entries []services.SpotifyPlaylistTrack) []string {
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Track != nil && e.Track.ID != "" {
			ids = append(ids, e.Track.ID)
		}
	}
	return ids
}
