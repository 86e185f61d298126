// Package server provides HTTP routing, middleware, and the OAuth callback boundary.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # OAuth Callback Handler
//
// [CallbackHandler] implements the return leg of the PKCE authorization-code
// flow. The handler validates the state parameter (CSRF protection), hands
// the authorization code to [auth.Flow.Exchange], and sends the outcome
// through a channel.
//
// A code is marked consumed only after a successful exchange. This is the
// local-server rendition of stripping the code from a browser URL: a reload
// after success cannot re-submit the code, while a reload after a failed
// exchange retries it.
//
// # Usage
//
// When the user runs `mixcart auth login`, a temporary HTTP server starts on
// the configured host/port, handles the single callback, and shuts down once
// a terminal result arrives or the wait times out.
package server
