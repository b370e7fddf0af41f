package testing

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
)

// TestToken is the bearer token issued by [CatalogServer].
const TestToken = "test-access-token"

// FakeArtist is an artist credited on a [FakeTrack].
type FakeArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// FakeTrack is a track served by [CatalogServer].
type FakeTrack struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	Artists    []FakeArtist `json:"artists"`
	Popularity int          `json:"popularity"`
}

// FakePlaylist is a playlist served by [CatalogServer]. A nil track is served as an entry without a track.
type FakePlaylist struct {
	ID     string
	Name   string
	Tracks []*FakeTrack
}

// CatalogServer is an httptest server standing in for both the token endpoint and the catalog API.
//
// Fields may be changed between requests; every request path (with query) is recorded.
type CatalogServer struct {
	*httptest.Server

	UserID    string
	Playlists []FakePlaylist

	// TokenStatus, when non-zero, makes the token endpoint fail with that status.
	TokenStatus int
	// PlaylistStatus, when non-zero, makes the playlists listing fail with that status.
	PlaylistStatus int
	// TrackStatus maps playlist IDs to a failure status for their track listing.
	TrackStatus map[string]int
	// BatchStatus maps 1-based batch lookup numbers to a failure status.
	BatchStatus map[int]int

	mu          sync.Mutex
	requests    []string
	tokenCalls  int
	batches     int
	tokenAuth   string
	tokenGrants []string
}

// NewCatalogServer starts a fake catalog for userID serving playlists. It is closed with the test.
func NewCatalogServer(t *testing.T, userID string, playlists ...FakePlaylist) *CatalogServer {
	t.Helper()

	c := &CatalogServer{
		UserID:      userID,
		Playlists:   playlists,
		TrackStatus: map[string]int{},
		BatchStatus: map[int]int{},
	}

	r := chi.NewRouter()
	r.Post("/api/token", c.handleToken)
	r.Route("/v1", func(r chi.Router) {
		r.Use(c.record, c.requireBearer)
		r.Get("/users/{id}", c.handleUser)
		r.Get("/users/{id}/playlists", c.handlePlaylists)
		r.Get("/playlists/{id}/tracks", c.handlePlaylistTracks)
		r.Get("/tracks", c.handleTracks)
	})

	c.Server = httptest.NewServer(r)
	t.Cleanup(c.Close)
	return c
}

// TokenURL is the client-credentials endpoint.
func (c *CatalogServer) TokenURL() string { return c.URL + "/api/token" }

// APIBaseURL is the catalog base URL.
func (c *CatalogServer) APIBaseURL() string { return c.URL + "/v1" }

// Requests returns catalog request paths (with query), in order. Token requests are not included.
func (c *CatalogServer) Requests() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.requests...)
}

// RequestsWithPrefix returns the recorded catalog requests starting with prefix.
func (c *CatalogServer) RequestsWithPrefix(prefix string) []string {
	var matched []string
	for _, r := range c.Requests() {
		if strings.HasPrefix(r, prefix) {
			matched = append(matched, r)
		}
	}
	return matched
}

// TokenCalls returns how many token exchanges were attempted.
func (c *CatalogServer) TokenCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tokenCalls
}

// TokenAuth returns the Authorization header of the last token request.
func (c *CatalogServer) TokenAuth() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tokenAuth
}

// TokenGrants returns the grant_type of every token request.
func (c *CatalogServer) TokenGrants() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.tokenGrants...)
}

func (c *CatalogServer) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.mu.Lock()
		c.requests = append(c.requests, strings.TrimPrefix(r.URL.RequestURI(), "/v1"))
		c.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (c *CatalogServer) requireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+TestToken {
			http.Error(w, `{"error":{"status":401,"message":"Invalid access token"}}`, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (c *CatalogServer) handleToken(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()

	c.mu.Lock()
	c.tokenCalls++
	c.tokenAuth = r.Header.Get("Authorization")
	c.tokenGrants = append(c.tokenGrants, r.PostForm.Get("grant_type"))
	status := c.TokenStatus
	c.mu.Unlock()

	if status != 0 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(`{"error":"invalid_client"}`))
		return
	}

	writeJSON(w, map[string]any{
		"access_token": TestToken,
		"token_type":   "bearer",
		"expires_in":   3600,
	})
}

func (c *CatalogServer) handleUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id != c.UserID {
		http.Error(w, `{"error":{"status":404,"message":"No such user"}}`, http.StatusNotFound)
		return
	}

	writeJSON(w, map[string]any{
		"id":            id,
		"display_name":  "Test Listener",
		"followers":     map[string]int{"total": 42},
		"external_urls": map[string]string{"spotify": "https://open.spotify.com/user/" + id},
		"uri":           "spotify:user:" + id,
		"images":        []any{},
	})
}

func (c *CatalogServer) handlePlaylists(w http.ResponseWriter, r *http.Request) {
	if chi.URLParam(r, "id") != c.UserID {
		http.Error(w, `{"error":{"status":404,"message":"No such user"}}`, http.StatusNotFound)
		return
	}
	if c.PlaylistStatus != 0 {
		http.Error(w, `{"error":{"status":`+strconv.Itoa(c.PlaylistStatus)+`}}`, c.PlaylistStatus)
		return
	}

	limit := 20
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil {
		limit = l
	}

	items := make([]map[string]any, 0, len(c.Playlists))
	for i, p := range c.Playlists {
		if i == limit {
			break
		}
		items = append(items, map[string]any{
			"id":     p.ID,
			"name":   p.Name,
			"public": true,
			"owner":  map[string]string{"id": c.UserID},
			"tracks": map[string]any{
				"href":  fmt.Sprintf("%s/v1/playlists/%s/tracks", c.URL, p.ID),
				"total": len(p.Tracks),
			},
		})
	}

	writeJSON(w, map[string]any{
		"items":  items,
		"total":  len(c.Playlists),
		"limit":  limit,
		"offset": 0,
		"next":   nil,
	})
}

func (c *CatalogServer) handlePlaylistTracks(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if status := c.TrackStatus[id]; status != 0 {
		http.Error(w, `{"error":{"status":`+strconv.Itoa(status)+`}}`, status)
		return
	}

	for _, p := range c.Playlists {
		if p.ID != id {
			continue
		}
		items := make([]map[string]any, 0, len(p.Tracks))
		for _, track := range p.Tracks {
			var payload any
			if track != nil {
				payload = track
			}
			items = append(items, map[string]any{"added_at": "2024-01-01T00:00:00Z", "track": payload})
		}
		writeJSON(w, map[string]any{"items": items, "total": len(items), "limit": 100, "offset": 0, "next": nil})
		return
	}

	http.Error(w, `{"error":{"status":404,"message":"Not found."}}`, http.StatusNotFound)
}

func (c *CatalogServer) handleTracks(w http.ResponseWriter, r *http.Request) {
	c.mu.Lock()
	c.batches++
	batch := c.batches
	c.mu.Unlock()

	if status := c.BatchStatus[batch]; status != 0 {
		http.Error(w, `{"error":{"status":`+strconv.Itoa(status)+`}}`, status)
		return
	}

	known := make(map[string]*FakeTrack)
	for _, p := range c.Playlists {
		for _, t := range p.Tracks {
			if t != nil && t.ID != "" {
				known[t.ID] = t
			}
		}
	}

	ids := strings.Split(r.URL.Query().Get("ids"), ",")
	tracks := make([]any, 0, len(ids))
	for _, id := range ids {
		if t, ok := known[id]; ok {
			tracks = append(tracks, t)
		} else if strings.HasPrefix(id, "gen") {
			tracks = append(tracks, &FakeTrack{ID: id, Name: id})
		} else {
			tracks = append(tracks, nil)
		}
	}
	writeJSON(w, map[string]any{"tracks": tracks})
}

// GeneratedIDs returns n track IDs that [CatalogServer] resolves without a playlist.
func GeneratedIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("gen%03d", i)
	}
	return ids
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
