package formatter

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/spotstats/internal/models"
	"github.com/desertthunder/spotstats/internal/services"
	"github.com/desertthunder/spotstats/internal/shared"
	th "github.com/desertthunder/spotstats/internal/testing"
)

func sampleStats() *models.Stats {
	return &models.Stats{
		TotalPlaylists: 2,
		TotalTracks:    3,
		Artists: []models.ArtistSummary{
			{ID: "b", Name: "Artist B", Count: 2},
			{ID: "a", Name: "Artist A", Count: 1},
		},
		AudioFeatures: map[string]float64{"energy": 0.4, "tempo": 120},
	}
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{
		"":         FormatTable,
		"table":    FormatTable,
		"JSON":     FormatJSON,
		"csv":      FormatCSV,
		"md":       FormatMarkdown,
		"markdown": FormatMarkdown,
		"txt":      FormatText,
		" text ":   FormatText,
	}
	for in, want := range tests {
		got, err := ParseFormat(in)
		if err != nil {
			t.Errorf("ParseFormat(%q) returned error: %v", in, err)
		}
		if got != want {
			t.Errorf("ParseFormat(%q) = %s, want %s", in, got, want)
		}
	}

	t.Run("Unknown", func(t *testing.T) {
		if _, err := ParseFormat("yaml"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestFormatDuration(t *testing.T) {
	tests := map[int]string{0: "0:00", 59999: "0:59", 200000: "3:20", 3725000: "62:05"}
	for in, want := range tests {
		if got := FormatDuration(in); got != want {
			t.Errorf("FormatDuration(%d) = %s, want %s", in, got, want)
		}
	}
}

func TestExporters(t *testing.T) {
	t.Run("StatsToCSV", func(t *testing.T) {
		data, err := StatsToCSV(sampleStats())
		if err != nil {
			t.Fatalf("StatsToCSV failed: %v", err)
		}

		output := string(data)
		if !strings.HasPrefix(output, "Rank,ID,Name,Count\n") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "1,b,Artist B,2") {
			t.Errorf("CSV missing first artist, got: %s", output)
		}
		if !strings.Contains(output, "2,a,Artist A,1") {
			t.Errorf("CSV missing second artist, got: %s", output)
		}
	})

	t.Run("StatsToMarkdown", func(t *testing.T) {
		data, err := StatsToMarkdown(sampleStats())
		if err != nil {
			t.Fatalf("StatsToMarkdown failed: %v", err)
		}

		output := string(data)
		for _, want := range []string{"# Listening Statistics", "**Playlists**: 2", "1. Artist B (2)", "| energy | 0.400 |", "| tempo | 120.000 |"} {
			if !strings.Contains(output, want) {
				t.Errorf("Markdown missing %q, got: %s", want, output)
			}
		}
		if strings.Index(output, "energy") > strings.Index(output, "tempo") {
			t.Error("expected features in canonical order")
		}
	})

	t.Run("StatsToMarkdown Empty", func(t *testing.T) {
		data, _ := StatsToMarkdown(models.EmptyStats())
		output := string(data)
		if !strings.Contains(output, "_No artists_") || !strings.Contains(output, "_No audio features_") {
			t.Errorf("expected empty placeholders, got: %s", output)
		}
	})

	t.Run("StatsToText", func(t *testing.T) {
		data, err := StatsToText(sampleStats())
		if err != nil {
			t.Fatalf("StatsToText failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "Tracks: 3") || !strings.Contains(output, "energy: 0.400") {
			t.Errorf("unexpected text output: %s", output)
		}

		empty, _ := StatsToText(models.EmptyStats())
		if strings.Contains(string(empty), "Audio features") {
			t.Errorf("expected no features section, got: %s", empty)
		}
	})

	t.Run("StatsToJSON", func(t *testing.T) {
		data, err := StatsToJSON(models.EmptyStats())
		if err != nil {
			t.Fatalf("StatsToJSON failed: %v", err)
		}

		var decoded map[string]any
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if decoded["totalPlaylists"] != float64(0) {
			t.Errorf("expected totalPlaylists 0, got %v", decoded["totalPlaylists"])
		}
		if !strings.Contains(string(data), `"artists": []`) || !strings.Contains(string(data), `"audioFeatures": {}`) {
			t.Errorf("expected empty collections, got: %s", data)
		}
	})
}

func TestWriteStats(t *testing.T) {
	t.Run("Table", func(t *testing.T) {
		var buf bytes.Buffer
		if err := WriteStats(&buf, sampleStats(), FormatTable); err != nil {
			t.Fatalf("WriteStats failed: %v", err)
		}

		output := buf.String()
		for _, want := range []string{"Artist B", "Artist A", "energy", "0.400"} {
			if !strings.Contains(output, want) {
				t.Errorf("table missing %q, got: %s", want, output)
			}
		}
	})

	t.Run("JSON Trailing Newline", func(t *testing.T) {
		var buf bytes.Buffer
		if err := WriteStats(&buf, sampleStats(), FormatJSON); err != nil {
			t.Fatalf("WriteStats failed: %v", err)
		}
		if !strings.HasSuffix(buf.String(), "}\n") {
			t.Errorf("expected trailing newline, got %q", buf.String())
		}
	})

	t.Run("Unknown Format", func(t *testing.T) {
		var buf bytes.Buffer
		if err := WriteStats(&buf, sampleStats(), Format("yaml")); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("Write Failure", func(t *testing.T) {
		if err := WriteStats(&th.FWriter{}, sampleStats(), FormatCSV); err == nil {
			t.Error("expected error from failing writer")
		}

		w := th.NewLimitedWriter(1, 0, &bytes.Buffer{})
		if err := WriteStats(&w, sampleStats(), FormatJSON); err == nil {
			t.Error("expected error when the trailing newline cannot be written")
		}
	})
}

func TestWriteStatsExport(t *testing.T) {
	dir := t.TempDir()

	t.Run("Markdown", func(t *testing.T) {
		path := filepath.Join(dir, "stats.md")
		if err := WriteStatsExport(sampleStats(), path, FormatMarkdown); err != nil {
			t.Fatalf("WriteStatsExport failed: %v", err)
		}

		th.AssertFileExists(t, path)
		if content := th.MustReadFile(t, path); !strings.Contains(content, "## Top Artists") {
			t.Errorf("unexpected file content: %s", content)
		}
	})

	t.Run("Table Written As Text", func(t *testing.T) {
		path := filepath.Join(dir, "stats.txt")
		if err := WriteStatsExport(sampleStats(), path, FormatTable); err != nil {
			t.Fatalf("WriteStatsExport failed: %v", err)
		}
		if content := th.MustReadFile(t, path); !strings.HasPrefix(content, "Playlists: 2") {
			t.Errorf("expected text output, got: %s", content)
		}
	})

	t.Run("Missing Directory", func(t *testing.T) {
		path := filepath.Join(dir, "missing", "stats.csv")
		if err := WriteStatsExport(sampleStats(), path, FormatCSV); err == nil {
			t.Error("expected error for missing directory")
		}
	})
}

func TestTables(t *testing.T) {
	t.Run("ProfileTable", func(t *testing.T) {
		var buf bytes.Buffer
		user := &services.SpotifyUser{ID: "u1", DisplayName: "Listener"}
		user.Followers.Total = 42

		if err := ProfileTable(&buf, user); err != nil {
			t.Fatalf("ProfileTable failed: %v", err)
		}
		if !strings.Contains(buf.String(), "Listener") || !strings.Contains(buf.String(), "42") {
			t.Errorf("unexpected output: %s", buf.String())
		}
	})

	t.Run("PlaylistsTable", func(t *testing.T) {
		var buf bytes.Buffer
		playlists := []services.SpotifySimplePlaylist{{ID: "p1", Name: "Road Trip"}}

		if err := PlaylistsTable(&buf, playlists); err != nil {
			t.Fatalf("PlaylistsTable failed: %v", err)
		}
		if !strings.Contains(buf.String(), "Road Trip") {
			t.Errorf("unexpected output: %s", buf.String())
		}
	})

	t.Run("TracksTable", func(t *testing.T) {
		var buf bytes.Buffer
		tracks := []services.SpotifyTrack{{
			Name:       "Song One",
			DurationMS: 200000,
			Artists:    []services.SpotifyArtist{{Name: "A"}, {Name: "B"}},
		}}

		if err := TracksTable(&buf, tracks); err != nil {
			t.Fatalf("TracksTable failed: %v", err)
		}
		output := buf.String()
		if !strings.Contains(output, "A, B") || !strings.Contains(output, "3:20") {
			t.Errorf("unexpected output: %s", output)
		}
	})

	t.Run("UserTable", func(t *testing.T) {
		var buf bytes.Buffer
		updated := time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)
		user := &models.UserRow{SpotifyID: "mirror_user", DisplayName: "Mirror User", UpdatedAt: &updated}

		if err := UserTable(&buf, user); err != nil {
			t.Fatalf("UserTable failed: %v", err)
		}
		if !strings.Contains(buf.String(), "2024-05-01 10:30") {
			t.Errorf("unexpected output: %s", buf.String())
		}
	})

	t.Run("Mirror Tables", func(t *testing.T) {
		var buf bytes.Buffer
		artists := []models.ArtistRow{{Rank: 1, Name: "Artist One", Genres: []string{"jazz", "rock"}}}
		tracks := []models.TrackRow{{Rank: 1, Name: "Track One", DurationMS: 61000}}
		genres := []models.GenreRow{{Name: "rock", Count: 7}}

		if err := MirrorArtistsTable(&buf, artists); err != nil {
			t.Fatalf("MirrorArtistsTable failed: %v", err)
		}
		if err := MirrorTracksTable(&buf, tracks); err != nil {
			t.Fatalf("MirrorTracksTable failed: %v", err)
		}
		if err := MirrorGenresTable(&buf, genres); err != nil {
			t.Fatalf("MirrorGenresTable failed: %v", err)
		}

		output := buf.String()
		for _, want := range []string{"jazz, rock", "Track One", "1:01", "rock", "7"} {
			if !strings.Contains(output, want) {
				t.Errorf("tables missing %q, got: %s", want, output)
			}
		}
	})
}
