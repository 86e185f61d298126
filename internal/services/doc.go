// Package services implements HTTP clients for the external interfaces mixcart depends on.
//
// # Spotify Client
//
// [SpotifyClient] covers the three provider calls a playlist commit needs,
// in order: current-user identity, playlist creation, and track attachment.
// Every call sends the session's bearer token, runs under a 30 second
// timeout, and is paced by a [rate.Limiter].
//
// The client deliberately has no refresh logic: the PKCE flow only yields a
// short-lived access token, and an expired token surfaces as an API error
// that requires a full re-authorization.
//
// # Proxy Client
//
// [ProxyClient] talks to the backend proxy, a black-box collaborator with
// three endpoints: GET /api/client-id (the public client identifier required
// before any authorization redirect), POST /api/search (free-text track
// search), and GET /api/health.
//
// # Error Handling
//
// Clients return typed errors from the shared package:
//   - [shared.ErrNotAuthenticated] : no access token held
//   - [shared.ErrAPIRequest] : non-2xx response, with method/endpoint/status context
//   - [shared.ErrNetwork] : transport-level failure or timeout
//   - [shared.ErrServiceUnavailable] : proxy unreachable or unhealthy
package services
