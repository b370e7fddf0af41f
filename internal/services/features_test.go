package services

import (
	"context"
	"net/http"
	"slices"
	"testing"

	tu "github.com/desertthunder/spotstats/internal/testing"
)

func TestChunkIDs(t *testing.T) {
	tests := []struct {
		name     string
		count    int
		expected []int
	}{
		{"empty", 0, []int{}},
		{"single", 1, []int{1}},
		{"exact batch", 100, []int{100}},
		{"one over", 101, []int{100, 1}},
		{"two and a half", 250, []int{100, 100, 50}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids := tu.GeneratedIDs(tt.count)
			chunks := ChunkIDs(ids, MaxTrackBatch)

			sizes := make([]int, len(chunks))
			var flat []string
			for i, c := range chunks {
				sizes[i] = len(c)
				flat = append(flat, c...)
			}

			if !slices.Equal(sizes, tt.expected) {
				t.Errorf("expected sizes %v, got %v", tt.expected, sizes)
			}
			if !slices.Equal(flat, ids) && tt.count > 0 {
				t.Error("expected chunks to preserve order")
			}
		})
	}

	t.Run("non-positive size", func(t *testing.T) {
		if got := len(ChunkIDs(tu.GeneratedIDs(150), 0)); got != 2 {
			t.Errorf("expected default batch size, got %d chunks", got)
		}
	})
}

func TestPlaceholderFeatures(t *testing.T) {
	t.Run("energy follows popularity", func(t *testing.T) {
		f := PlaceholderFeatures(SpotifyTrack{ID: "t1", Popularity: 80})
		if f.TrackID != "t1" {
			t.Errorf("expected track id t1, got %s", f.TrackID)
		}
		if f.Values["energy"] != 0.8 {
			t.Errorf("expected energy 0.8, got %v", f.Values["energy"])
		}
	})

	t.Run("zero popularity", func(t *testing.T) {
		f := PlaceholderFeatures(SpotifyTrack{ID: "t2"})
		if f.Values["energy"] != 0.5 {
			t.Errorf("expected energy 0.5, got %v", f.Values["energy"])
		}
	})

	t.Run("fixed values", func(t *testing.T) {
		f := PlaceholderFeatures(SpotifyTrack{ID: "t3", Popularity: 10})
		expected := map[string]float64{
			"danceability":     0.5,
			"loudness":         -10,
			"speechiness":      0.1,
			"acousticness":     0.5,
			"instrumentalness": 0.1,
			"liveness":         0.1,
			"valence":          0.5,
			"tempo":            120,
		}
		for k, v := range expected {
			if f.Values[k] != v {
				t.Errorf("expected %s %v, got %v", k, v, f.Values[k])
			}
		}
		if len(f.Values) != 9 {
			t.Errorf("expected 9 features, got %d", len(f.Values))
		}
	})
}

func TestAudioFeatures(t *testing.T) {
	ctx := context.Background()

	t.Run("batches of 100", func(t *testing.T) {
		srv := tu.NewCatalogServer(t, testUser)
		svc := newTestService(t, srv)

		records := svc.AudioFeatures(ctx, testToken(), tu.GeneratedIDs(250))
		if len(records) != 250 {
			t.Errorf("expected 250 records, got %d", len(records))
		}

		batches := srv.RequestsWithPrefix("/tracks")
		if len(batches) != 3 {
			t.Fatalf("expected 3 batch requests, got %d", len(batches))
		}
	})

	t.Run("failing batch is skipped", func(t *testing.T) {
		srv := tu.NewCatalogServer(t, testUser)
		srv.BatchStatus[2] = http.StatusInternalServerError
		svc := newTestService(t, srv)

		records := svc.AudioFeatures(ctx, testToken(), tu.GeneratedIDs(250))
		if len(records) != 150 {
			t.Fatalf("expected 150 records, got %d", len(records))
		}

		ids := make([]string, len(records))
		for i, r := range records {
			ids[i] = r.TrackID
		}
		if !slices.Contains(ids, "gen000") || !slices.Contains(ids, "gen249") {
			t.Error("expected records from batches 1 and 3")
		}
		if slices.Contains(ids, "gen100") || slices.Contains(ids, "gen199") {
			t.Error("expected no records from batch 2")
		}
		if got := len(srv.RequestsWithPrefix("/tracks")); got != 3 {
			t.Errorf("expected later batches to still run, got %d requests", got)
		}
	})

	t.Run("null entries are skipped", func(t *testing.T) {
		srv := tu.NewCatalogServer(t, testUser)
		svc := newTestService(t, srv)

		records := svc.AudioFeatures(ctx, testToken(), []string{"gen001", "missing"})
		if len(records) != 1 || records[0].TrackID != "gen001" {
			t.Errorf("expected only the resolvable track, got %+v", records)
		}
	})

	t.Run("no ids", func(t *testing.T) {
		srv := tu.NewCatalogServer(t, testUser)
		svc := newTestService(t, srv)

		records := svc.AudioFeatures(ctx, testToken(), nil)
		if records == nil || len(records) != 0 {
			t.Errorf("expected empty non-nil slice, got %v", records)
		}
		if len(srv.Requests()) != 0 {
			t.Errorf("expected no requests, got %v", srv.Requests())
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		srv := tu.NewCatalogServer(t, testUser)
		svc := newTestService(t, srv)

		cctx, cancel := context.WithCancel(ctx)
		cancel()

		records := svc.AudioFeatures(cctx, testToken(), tu.GeneratedIDs(10))
		if len(records) != 0 {
			t.Errorf("expected empty result, got %d records", len(records))
		}
		if len(srv.Requests()) != 0 {
			t.Errorf("expected no requests, got %v", srv.Requests())
		}
	})
}
