package ui

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/spotstats/internal/services"
	"github.com/desertthunder/spotstats/internal/shared"
	"github.com/desertthunder/spotstats/internal/tasks"
	tu "github.com/desertthunder/spotstats/internal/testing"
)

const testUser = "listener"

func newTestModel(t *testing.T, catalog *tu.CatalogServer) *Model {
	t.Helper()

	logger := shared.NewLogger(io.Discard)
	svc, err := services.NewSpotifyService(shared.SpotifyConfig{
		ClientID:     "test_client_id",
		ClientSecret: "test_client_secret",
		UserID:       testUser,
		TokenURL:     catalog.TokenURL(),
		APIBaseURL:   catalog.APIBaseURL(),
	}, catalog.Client(), logger)
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}

	m := NewModel(context.Background(), tasks.NewStatsEngine(svc, logger))
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m
}

func newCatalog(t *testing.T) *tu.CatalogServer {
	artist := tu.FakeArtist{ID: "a", Name: "Artist A"}
	return tu.NewCatalogServer(t, testUser,
		tu.FakePlaylist{ID: "p1", Name: "Road Trip", Tracks: []*tu.FakeTrack{
			{ID: "t1", Name: "One", Popularity: 50, Artists: []tu.FakeArtist{artist}},
		}},
	)
}

// runStats drives a statistics run to completion the way the bubbletea runtime would.
func runStats(t *testing.T, m *Model) {
	t.Helper()

	m.startStats()
	for range 50 {
		msg := m.waitForProgress()()
		m.Update(msg)
		if m.view == StatsView {
			return
		}
	}
	t.Fatal("statistics run did not finish")
}

func keyPress(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestModel_Stats(t *testing.T) {
	t.Run("Renders Results", func(t *testing.T) {
		m := newTestModel(t, newCatalog(t))
		runStats(t, m)

		if m.stats == nil || m.stats.TotalPlaylists != 1 {
			t.Fatalf("unexpected stats %+v", m.stats)
		}

		view := m.View()
		for _, want := range []string{"Listening Statistics", "Artist A", "energy", "0.50", "tempo", "120.0"} {
			if !strings.Contains(view, want) {
				t.Errorf("view missing %q:\n%s", want, view)
			}
		}
	})

	t.Run("Progress Shown While Loading", func(t *testing.T) {
		m := newTestModel(t, newCatalog(t))
		m.view = LoadingView
		m.Update(progressUpdateMsg(tasks.ProgressUpdate{Phase: tasks.FetchTracks, Step: 2, Total: 3, Message: "Fetching tracks"}))

		if view := m.View(); !strings.Contains(view, "Fetching tracks (2/3)") {
			t.Errorf("expected progress in view, got:\n%s", view)
		}
	})

	t.Run("Error", func(t *testing.T) {
		catalog := newCatalog(t)
		catalog.TokenStatus = http.StatusUnauthorized

		m := newTestModel(t, catalog)
		runStats(t, m)

		if m.err == nil {
			t.Fatal("expected error")
		}
		if view := m.View(); !strings.Contains(view, "Error") || !strings.Contains(view, "401") {
			t.Errorf("expected error in view, got:\n%s", view)
		}
	})

	t.Run("Refresh", func(t *testing.T) {
		catalog := newCatalog(t)
		m := newTestModel(t, catalog)
		runStats(t, m)

		_, cmd := m.Update(keyPress('r'))
		if cmd == nil || m.view != LoadingView {
			t.Fatalf("expected a new run to start, view %d", m.view)
		}

		for m.view != StatsView {
			m.Update(m.waitForProgress()())
		}
		if catalog.TokenCalls() != 2 {
			t.Errorf("expected 2 token requests, got %d", catalog.TokenCalls())
		}
	})

	t.Run("Keys Ignored While Loading", func(t *testing.T) {
		m := newTestModel(t, newCatalog(t))
		m.view = LoadingView

		if _, cmd := m.Update(keyPress('p')); cmd != nil {
			t.Error("expected no command while loading")
		}
	})

	t.Run("Quit", func(t *testing.T) {
		m := newTestModel(t, newCatalog(t))
		_, cmd := m.Update(keyPress('q'))
		if cmd == nil {
			t.Fatal("expected quit command")
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Error("expected tea.QuitMsg")
		}
	})
}

func TestModel_Playlists(t *testing.T) {
	m := newTestModel(t, newCatalog(t))
	runStats(t, m)

	_, cmd := m.Update(keyPress('p'))
	if cmd == nil {
		t.Fatal("expected playlist fetch command")
	}
	m.Update(cmd())

	if m.view != PlaylistsView {
		t.Fatalf("expected playlists view, got %d", m.view)
	}
	if view := m.View(); !strings.Contains(view, "Road Trip") {
		t.Errorf("expected playlist in view, got:\n%s", view)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.view != StatsView {
		t.Errorf("expected esc to return to stats, got %d", m.view)
	}

	t.Run("Fetch Error", func(t *testing.T) {
		m.Update(playlistsFetchedMsg(nil, shared.ErrServiceUnavailable))
		if m.view != StatsView || m.err == nil {
			t.Errorf("expected error on stats view, view %d err %v", m.view, m.err)
		}
	})
}

func TestRenderFeature(t *testing.T) {
	if got := renderFeature("tempo", 120); got != "120.0" {
		t.Errorf("expected plain tempo value, got %q", got)
	}

	bar := renderFeature("energy", 0.5)
	if strings.Count(bar, "█") != barWidth/2 {
		t.Errorf("expected half-filled bar, got %q", bar)
	}
	if !strings.HasSuffix(bar, "0.50") {
		t.Errorf("expected value suffix, got %q", bar)
	}

	if full := renderFeature("valence", 1.7); strings.Count(full, "█") != barWidth {
		t.Errorf("expected clamped bar, got %q", full)
	}
}

func TestPlaylistItem(t *testing.T) {
	item := playlistItem{playlist: services.SpotifySimplePlaylist{Name: "Mix", Description: "weekly"}}
	item.playlist.Tracks.Total = 3

	if item.Title() != "Mix" || item.FilterValue() != "Mix" {
		t.Errorf("unexpected title %q", item.Title())
	}
	if item.Description() != "3 tracks • weekly" {
		t.Errorf("unexpected description %q", item.Description())
	}
}
