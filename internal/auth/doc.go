// Package auth implements the PKCE (RFC 7636) authorization-code flow used to
// obtain a short-lived Spotify access token for a public client.
//
// # Flow
//
// [Flow] is an explicit state machine over one logical session:
//
//	Unauthenticated → AwaitingClientID → Redirecting → PendingExchange → Authenticated
//
// [Flow.EnsureAuthenticated] either returns the held token, reports that the
// client identifier has not arrived yet, or starts a new attempt by storing a
// fresh verifier and returning the authorization URL. [Flow.Exchange] is the
// return leg, fed the authorization code by a boundary adapter (the callback
// handler in internal/server) that reads it from the redirect exactly once.
//
// # Session
//
// [Session] owns the two shared mutable slots, the in-flight verifier and
// the access token, behind a mutex. No refresh token is tracked: expiry
// requires a full re-authorization.
//
// # PKCE primitives
//
// [GenerateVerifier] samples the unreserved alphabet with crypto/rand;
// [DeriveChallenge] is the pure S256 transform. The verifier is single-use
// and discarded after a successful exchange, while a failed exchange keeps it
// so the same code can be retried manually.
package auth
