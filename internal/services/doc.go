// Package services defines the [Catalog] interface for reading listening data and implements it for the Spotify Web API.
//
// # Authentication
//
// [SpotifyService] uses the client-credentials grant ([clientcredentials.Config]) with the client id and secret sent
// in the Authorization header. A fresh token is requested on every [SpotifyService.AccessToken] call and is passed
// explicitly to each catalog method; the service holds no token state.
//
// # Requests
//
// All catalog calls are GET requests issued one at a time through doRequest, optionally spaced by a
// [rate.Limiter] (config rate_limit, requests per second). Non-2xx responses become [shared.APIError].
//
// # Audio features
//
// Track metadata is looked up in batches of [MaxTrackBatch] and turned into placeholder feature records by
// [PlaceholderFeatures]. [SpotifyService.AudioFeatures] degrades instead of failing: a bad batch is logged and skipped.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.AuthError] : token endpoint rejected the credentials
//   - [shared.APIError] : catalog returned a non-success status
//   - [shared.ErrMissingCredentials] : client id, secret, user id or token missing
package services
