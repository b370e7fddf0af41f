// package services defines interface Catalog for reading listening data from a music API
package services

import (
	"context"

	"github.com/desertthunder/spotstats/internal/models"
	"golang.org/x/oauth2"
)

// Catalog defines the read operations the statistics engine and API need from a music catalog.
//
// Every call after [Catalog.AccessToken] takes the token explicitly; implementations do not hold one.
type Catalog interface {
	// AccessToken obtains a fresh application token.
	AccessToken(ctx context.Context) (*oauth2.Token, error)

	// UserProfile retrieves the configured user's profile.
	UserProfile(ctx context.Context, token *oauth2.Token) (*SpotifyUser, error)

	// AllPlaylists retrieves one page of the configured user's playlists.
	AllPlaylists(ctx context.Context, token *oauth2.Token) (*SpotifyPaginatedPlaylists, error)

	// PlaylistTracks retrieves the entries of one playlist.
	PlaylistTracks(ctx context.Context, token *oauth2.Token, playlistID string) (*SpotifyPlaylistTracks, error)

	// AudioFeatures derives a feature record for each resolvable track. Failures degrade to fewer records.
	AudioFeatures(ctx context.Context, token *oauth2.Token, trackIDs []string) []models.AudioFeatures

	// TopTracks returns a short preview of the user's tracks.
	TopTracks(ctx context.Context, token *oauth2.Token) ([]SpotifyTrack, error)
}
