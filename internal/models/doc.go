// Package models defines the output types of the spotstats aggregator and the rows read from the mirror store.
//
// The package contains two categories of types:
//
// 1. Statistics (computed from the catalog API)
//   - [Stats] : Playlist and track totals, top artists, and averaged audio features
//   - [ArtistSummary] : Artist with its occurrence count across playlist tracks
//   - [AudioFeatures] : Placeholder feature values for a single track
//
// 2. Mirror rows (precomputed by an ingestion job, read-only here)
//   - [UserRow] : Profile of the configured user
//   - [ArtistRow] : Ranked top artist with genres
//   - [TrackRow] : Ranked top track
//   - [GenreRow] : Genre with its occurrence count
//
// JSON field names follow the front-end contract (camelCase). Mirror rows carry db tags for sqlx.
package models
