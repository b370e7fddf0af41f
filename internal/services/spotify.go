// Spotify Web API implementation of [Catalog]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotstats/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"
)

const (
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	playlistPageLimit = 50
	topTracksPlaylist = 5
	topTracksLimit    = 10
)

type followers struct {
	Total int `json:"total"`
}

type externalURLs struct {
	Spotify string `json:"spotify"`
}

// SpotifyUser represents a public Spotify user profile.
type SpotifyUser struct {
	ID           string         `json:"id"`
	DisplayName  string         `json:"display_name"`
	Followers    followers      `json:"followers"`
	Images       []SpotifyImage `json:"images"`
	ExternalURLs externalURLs   `json:"external_urls"`
	URI          string         `json:"uri"`
}

// SpotifyImage represents an image resource.
type SpotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Artists      []SpotifyArtist `json:"artists"`
	Album        SpotifyAlbum    `json:"album"`
	DurationMS   int             `json:"duration_ms"`
	Explicit     bool            `json:"explicit"`
	Popularity   int             `json:"popularity"`
	ExternalURLs externalURLs    `json:"external_urls"`
	URI          string          `json:"uri"`
}

// SpotifyArtist represents a (simplified) Spotify artist.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// SpotifyAlbum represents a Spotify album.
type SpotifyAlbum struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	ReleaseDate string         `json:"release_date"`
	Images      []SpotifyImage `json:"images"`
}

type Owner struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// playlistTracksRef points at a playlist's track collection.
type playlistTracksRef struct {
	Href  string `json:"href"`
	Total int    `json:"total"`
}

// SpotifySimplePlaylist represents a simplified playlist object (used in lists).
type SpotifySimplePlaylist struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Owner       Owner             `json:"owner"`
	Public      bool              `json:"public"`
	Tracks      playlistTracksRef `json:"tracks"`
	Images      []SpotifyImage    `json:"images"`
	URI         string            `json:"uri"`
}

// SpotifyPaginatedPlaylists represents a paginated response of playlists.
type SpotifyPaginatedPlaylists struct {
	Items    []SpotifySimplePlaylist `json:"items"`
	Total    int                     `json:"total"`
	Limit    int                     `json:"limit"`
	Offset   int                     `json:"offset"`
	Next     *string                 `json:"next"`
	Previous *string                 `json:"previous"`
}

// SpotifyPlaylistTrack represents a track within a playlist context.
//
// Track is nil for removed or unavailable items.
type SpotifyPlaylistTrack struct {
	AddedAt string        `json:"added_at"`
	Track   *SpotifyTrack `json:"track"`
}

// SpotifyPlaylistTracks represents a page of playlist entries.
type SpotifyPlaylistTracks struct {
	Items    []SpotifyPlaylistTrack `json:"items"`
	Total    int                    `json:"total"`
	Limit    int                    `json:"limit"`
	Offset   int                    `json:"offset"`
	Next     *string                `json:"next"`
	Previous *string                `json:"previous"`
}

// SpotifyService implements [Catalog] against the Spotify Web API using the client-credentials grant.
type SpotifyService struct {
	credentials clientcredentials.Config
	baseURL     string
	userID      string
	httpClient  *http.Client
	limiter     *rate.Limiter
	logger      *log.Logger
}

// NewSpotifyService creates a catalog client for the configured user.
//
// A nil client uses [http.DefaultClient]; a nil logger writes to stderr.
func NewSpotifyService(cfg shared.SpotifyConfig, client *http.Client, logger *log.Logger) (*SpotifyService, error) {
	if cfg.ClientID == "" {
		return nil, fmt.Errorf("%w: missing client_id", shared.ErrMissingCredentials)
	}
	if cfg.ClientSecret == "" {
		return nil, fmt.Errorf("%w: missing client_secret", shared.ErrMissingCredentials)
	}
	if cfg.UserID == "" {
		return nil, fmt.Errorf("%w: missing user_id", shared.ErrMissingCredentials)
	}

	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = spotifyTokenURL
	}
	baseURL := strings.TrimSuffix(cfg.APIBaseURL, "/")
	if baseURL == "" {
		baseURL = spotifyBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}

	return &SpotifyService{
		credentials: clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     tokenURL,
			// x/oauth2 form-encodes id and secret before building the Basic header.
			AuthStyle: oauth2.AuthStyleInHeader,
		},
		baseURL:    baseURL,
		userID:     cfg.UserID,
		httpClient: client,
		limiter:    rate.NewLimiter(limit, 1),
		logger:     shared.WithLogger(logger, "service", "spotify"),
	}, nil
}

// UserID returns the user whose statistics are read.
func (s *SpotifyService) UserID() string {
	return s.userID
}

// AccessToken exchanges the client credentials for a fresh bearer token. It is never cached.
func (s *SpotifyService) AccessToken(ctx context.Context) (*oauth2.Token, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)

	token, err := s.credentials.Token(ctx)
	if err != nil {
		var rErr *oauth2.RetrieveError
		if errors.As(err, &rErr) && rErr.Response != nil {
			code := rErr.Response.StatusCode
			return nil, &shared.AuthError{StatusCode: code, Status: http.StatusText(code)}
		}
		return nil, fmt.Errorf("%w: %w", shared.ErrAuthFailed, err)
	}

	s.logger.Debug("obtained access token", "expiry", token.Expiry)
	return token, nil
}

// resolve turns an endpoint path into a full URL. Absolute URLs (e.g. a playlist's tracks href) pass through.
func (s *SpotifyService) resolve(endpoint string) string {
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		return endpoint
	}
	return s.baseURL + endpoint
}

// doRequest performs an authenticated GET against the catalog and decodes the JSON body into result.
func (s *SpotifyService) doRequest(ctx context.Context, token *oauth2.Token, endpoint string, result any) error {
	if token == nil || token.AccessToken == "" {
		return fmt.Errorf("%w: missing access token", shared.ErrMissingCredentials)
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("request not sent: %w", err)
	}

	apiURL := s.resolve(endpoint)
	s.logger.Debug("catalog request", "url", apiURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &shared.APIError{
			StatusCode: resp.StatusCode,
			Status:     http.StatusText(resp.StatusCode),
			Endpoint:   endpoint,
		}
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// UserProfile retrieves the configured user's public profile.
func (s *SpotifyService) UserProfile(ctx context.Context, token *oauth2.Token) (*SpotifyUser, error) {
	var user SpotifyUser
	endpoint := fmt.Sprintf("/users/%s", url.PathEscape(s.userID))
	if err := s.doRequest(ctx, token, endpoint, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *SpotifyService) userPlaylists(ctx context.Context, token *oauth2.Token, limit int) (*SpotifyPaginatedPlaylists, error) {
	endpoint := fmt.Sprintf("/users/%s/playlists?limit=%d", url.PathEscape(s.userID), limit)

	var response SpotifyPaginatedPlaylists
	if err := s.doRequest(ctx, token, endpoint, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// AllPlaylists retrieves the first page (up to 50) of the user's public playlists.
// Later pages are not followed.
func (s *SpotifyService) AllPlaylists(ctx context.Context, token *oauth2.Token) (*SpotifyPaginatedPlaylists, error) {
	return s.userPlaylists(ctx, token, playlistPageLimit)
}

// PlaylistTracks retrieves the entries of a playlist. Entries without a track are returned as-is.
func (s *SpotifyService) PlaylistTracks(ctx context.Context, token *oauth2.Token, playlistID string) (*SpotifyPlaylistTracks, error) {
	endpoint := fmt.Sprintf("/playlists/%s/tracks", url.PathEscape(playlistID))

	var response SpotifyPlaylistTracks
	if err := s.doRequest(ctx, token, endpoint, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// SeveralTracks retrieves up to [MaxTrackBatch] tracks in one request.
// Unknown IDs come back as nil entries.
func (s *SpotifyService) SeveralTracks(ctx context.Context, token *oauth2.Token, trackIDs []string) ([]*SpotifyTrack, error) {
	if len(trackIDs) == 0 {
		return nil, fmt.Errorf("%w: no track IDs provided", shared.ErrInvalidArgument)
	}
	if len(trackIDs) > MaxTrackBatch {
		return nil, fmt.Errorf("%w: maximum %d track IDs allowed", shared.ErrInvalidArgument, MaxTrackBatch)
	}

	query := url.Values{"ids": {strings.Join(trackIDs, ",")}}
	endpoint := "/tracks?" + query.Encode()

	var response struct {
		Tracks []*SpotifyTrack `json:"tracks"`
	}
	if err := s.doRequest(ctx, token, endpoint, &response); err != nil {
		return nil, err
	}
	return response.Tracks, nil
}

// TopTracks returns a preview of up to 10 tracks from the user's first listed playlist.
//
// Only the 5 most recent playlists are requested; the first one's track collection is followed by its href.
func (s *SpotifyService) TopTracks(ctx context.Context, token *oauth2.Token) ([]SpotifyTrack, error) {
	playlists, err := s.userPlaylists(ctx, token, topTracksPlaylist)
	if err != nil {
		return nil, err
	}
	if len(playlists.Items) == 0 {
		return []SpotifyTrack{}, nil
	}

	first := playlists.Items[0]
	href := first.Tracks.Href
	if href == "" {
		href = fmt.Sprintf("/playlists/%s/tracks", url.PathEscape(first.ID))
	}

	var page SpotifyPlaylistTracks
	if err := s.doRequest(ctx, token, href, &page); err != nil {
		return nil, err
	}

	tracks := make([]SpotifyTrack, 0, topTracksLimit)
	for _, item := range page.Items {
		if item.Track == nil {
			continue
		}
		tracks = append(tracks, *item.Track)
		if len(tracks) == topTracksLimit {
			break
		}
	}
	return tracks, nil
}

var _ Catalog = (*SpotifyService)(nil)
