// Package repositories implements read-only SQLite access to the mirror store.
//
// The mirror is populated by an external ingestion job with a user's profile and their ranked top artists,
// top tracks and genre counts. [MirrorRepository] reads those rows for a single configured user.
//
// Failure policy:
//   - [MirrorRepository.UserInfo] retries once against a fallback handle and then reports [shared.NotFoundError]
//   - List reads ([MirrorRepository.TopArtists], [MirrorRepository.TopTracks], [MirrorRepository.FavoriteGenres])
//     log a warning wrapping [shared.ErrMirrorUnavailable] and return an empty slice
//
// List limits default to [DefaultListLimit] and are capped at [MaxListLimit]. Every query binds the user id as a parameter.
package repositories
