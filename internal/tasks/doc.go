// Package tasks computes listening statistics with real-time progress reporting.
//
// # Core Operations
//
// [StatsEngine] wraps a [services.Catalog]:
//
//  1. [StatsEngine.Compute] : Fresh token, then [StatsEngine.UserStats]
//
//  2. [StatsEngine.UserStats] : Full statistics run
//     - Lists the user's playlists (one page)
//     - Fetches each playlist's tracks in turn and drops entries without a track
//     - Ranks artists by credit count ([RankArtists])
//     - Looks up track metadata in batches and averages placeholder features ([AverageFeatures])
//
//  3. [StatsEngine.Profile], [StatsEngine.Playlists], [StatsEngine.TopTracks] : single catalog reads with a fresh token
//
// # Failure Policy
//
// Token, playlist and track listing failures abort the run and are returned wrapped, so errors.As still finds
// [shared.AuthError] or [shared.APIError]. Feature lookups never fail the run; missing records only shrink the averages.
//
// # Progress Reporting
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
package tasks
