package tasks

import (
	"fmt"

	"github.com/desertthunder/spotstats/internal/models"
)

// ProgressUpdate represents a progress event during a statistics run.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchToken Phase = iota
	FetchPlaylists
	FetchTracks
	RankingArtists
	FetchFeatures
	Done
)

func (p Phase) String() string {
	switch p {
	case FetchToken:
		return "fetch_token"
	case FetchPlaylists:
		return "fetch_playlists"
	case FetchTracks:
		return "fetch_tracks"
	case RankingArtists:
		return "rank_artists"
	case FetchFeatures:
		return "fetch_features"
	case Done:
		return "done"
	default:
		return ""
	}
}

func fetchTokenUpdate() ProgressUpdate {
	return ProgressUpdate{Phase: FetchToken, Step: 1, Total: 1, Message: "Requesting access token..."}
}

func fetchPlaylistsUpdate() ProgressUpdate {
	return ProgressUpdate{Phase: FetchPlaylists, Step: 1, Total: 1, Message: "Fetching playlists..."}
}

func fetchTracksUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Fetching tracks: %s", step, total, name),
	}
}

func rankArtistsUpdate(entries int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   RankingArtists,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Ranking artists across %d tracks...", entries),
	}
}

func fetchFeaturesUpdate(ids int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchFeatures,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Looking up %d tracks for audio features...", ids),
	}
}

func doneUpdate(stats *models.Stats) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Done,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Done: %d playlists, %d tracks", stats.TotalPlaylists, stats.TotalTracks),
		Data:    stats,
	}
}
