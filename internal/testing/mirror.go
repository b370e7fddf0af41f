package testing

import (
	"context"
	"fmt"
	"testing"

	"github.com/desertthunder/spotstats/internal/shared"
	"github.com/jmoiron/sqlx"
)

// MirrorUserID is the spotify_id seeded by [SeedMirror].
const MirrorUserID = "mirror_user"

// NewMirrorDB returns an in-memory mirror database with the schema applied. It is closed with the test.
func NewMirrorDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := shared.RunMigrations(context.Background(), db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	return db
}

// SeedMirror fills db with one user ([MirrorUserID]) and a stranger, each with ranked artists, tracks and genres.
//
// The seeded user has 12 artists (artist-01 rank 1 ... artist-12 rank 12), 3 tracks and 3 genres
// with counts rock 7, pop 3, jazz 5. Inserts deliberately run out of rank order.
func SeedMirror(t *testing.T, db *sqlx.DB) {
	t.Helper()

	stmts := []string{
		`INSERT INTO users (id, spotify_id, display_name, profile_url, image_url, followers, country)
		 VALUES ('u1', 'mirror_user', 'Mirror User', 'https://open.spotify.com/user/mirror_user', 'https://i.scdn.co/u1', 12, 'US')`,
		`INSERT INTO users (id, spotify_id, display_name) VALUES ('u2', 'stranger', 'Stranger')`,
		`INSERT INTO genres (id, name) VALUES (1, 'rock'), (2, 'pop'), (3, 'jazz')`,
		`INSERT INTO tracks (id, name, artist_name, album_name, popularity, duration_ms)
		 VALUES ('t1', 'First', 'Artist 01', 'Album', 80, 200000),
		        ('t2', 'Second', 'Artist 02', 'Album', 60, 180000),
		        ('t3', 'Third', 'Artist 03', 'Album', 40, 240000)`,
		`INSERT INTO user_tracks (user_id, track_id, rank) VALUES ('u1', 't2', 2), ('u1', 't3', 3), ('u1', 't1', 1), ('u2', 't3', 1)`,
		`INSERT INTO user_genres (user_id, genre_id, count) VALUES ('u1', 2, 3), ('u1', 1, 7), ('u1', 3, 5), ('u2', 2, 99)`,
	}

	for i := 12; i >= 1; i-- {
		stmts = append(stmts,
			fmt.Sprintf(`INSERT INTO artists (id, name, popularity) VALUES ('artist-%02d', 'Artist %02d', 50)`, i, i),
			fmt.Sprintf(`INSERT INTO user_artists (user_id, artist_id, rank) VALUES ('u1', 'artist-%02d', %d)`, i, i),
		)
	}
	stmts = append(stmts,
		`INSERT INTO artist_genres (artist_id, genre_id) VALUES ('artist-01', 1), ('artist-01', 3), ('artist-02', 2)`,
		`INSERT INTO user_artists (user_id, artist_id, rank) VALUES ('u2', 'artist-12', 1)`,
	)

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("failed to seed mirror: %v\n%s", err, stmt)
		}
	}
}
