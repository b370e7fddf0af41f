package services

import (
	"context"

	"github.com/desertthunder/spotstats/internal/models"
	"golang.org/x/oauth2"
)

// MaxTrackBatch is the most track IDs the catalog accepts in a single lookup.
const MaxTrackBatch = 100

// ChunkIDs splits ids into consecutive groups of at most size, preserving order.
func ChunkIDs(ids []string, size int) [][]string {
	if size <= 0 {
		size = MaxTrackBatch
	}

	chunks := make([][]string, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}

// PlaceholderFeatures derives a feature record from track metadata.
//
// The catalog no longer serves real audio analysis to client-credentials apps, so every value is a
// fixed default except energy, which follows popularity (0.5 when popularity is unknown).
func PlaceholderFeatures(track SpotifyTrack) models.AudioFeatures {
	energy := 0.5
	if track.Popularity != 0 {
		energy = float64(track.Popularity) / 100
	}

	return models.AudioFeatures{
		TrackID: track.ID,
		Values: map[string]float64{
			"danceability":     0.5,
			"energy":           energy,
			"loudness":         -10,
			"speechiness":      0.1,
			"acousticness":     0.5,
			"instrumentalness": 0.1,
			"liveness":         0.1,
			"valence":          0.5,
			"tempo":            120,
		},
	}
}

// AudioFeatures looks tracks up in batches of [MaxTrackBatch] and derives a feature record for each.
//
// Batches run one after another. A failing batch is logged and skipped; null entries are dropped.
// Cancellation or a panic while processing abandons the whole call and yields an empty slice.
// It never returns an error.
func (s *SpotifyService) AudioFeatures(ctx context.Context, token *oauth2.Token, trackIDs []string) (records []models.AudioFeatures) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("audio feature lookup aborted", "panic", r)
			records = []models.AudioFeatures{}
		}
	}()

	records = []models.AudioFeatures{}
	chunks := ChunkIDs(trackIDs, MaxTrackBatch)
	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			s.logger.Error("audio feature lookup cancelled", "batch", i+1, "err", err)
			return []models.AudioFeatures{}
		}

		tracks, err := s.SeveralTracks(ctx, token, chunk)
		if err != nil {
			s.logger.Warn("skipping track batch", "batch", i+1, "of", len(chunks), "size", len(chunk), "err", err)
			continue
		}

		for _, track := range tracks {
			if track == nil {
				continue
			}
			records = append(records, PlaceholderFeatures(*track))
		}
	}

	if err := ctx.Err(); err != nil {
		s.logger.Error("audio feature lookup cancelled", "err", err)
		return []models.AudioFeatures{}
	}

	s.logger.Debug("derived audio features", "tracks", len(trackIDs), "records", len(records))
	return records
}
