// Package server exposes listening statistics as a JSON API for the portfolio front-end.
//
// # Router
//
// [NewRouter] builds a chi router with request ids, request logging and panic recovery, then mounts each [Handler].
// Handlers own their route definitions through [Handler.Routes].
//
// # Endpoints
//
//	GET /healthz              liveness
//	GET /api/stats            full statistics run
//	GET /api/stats/stream     statistics run as server-sent events (progress, then stats or error)
//	GET /api/profile          catalog user profile
//	GET /api/playlists        one page of the user's playlists
//	GET /api/top-tracks       top tracks preview
//	GET /api/mirror/user      mirror profile row
//	GET /api/mirror/artists   ranked artists, ?limit=
//	GET /api/mirror/tracks    ranked tracks, ?limit=
//	GET /api/mirror/genres    genres by count, ?limit=
//
// # Errors
//
// Errors are returned as {"error": "..."} with a status from [StatusFor]: catalog auth and API failures map to 502
// (with the upstream status included), a missing mirror user to 404 and a bad limit to 400.
//
// # Lifecycle
//
// [Server.Serve] runs until its context is cancelled and then shuts down gracefully.
package server
