package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Authentication errors
	ErrClientIDNotReady = fmt.Errorf("client identifier not loaded yet")
	ErrMissingVerifier  = fmt.Errorf("no code verifier stored for this authorization attempt")
	ErrTokenExchange    = fmt.Errorf("token exchange failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrTimeout          = fmt.Errorf("operation timed out")

	// Commit errors, one per step so each failure surfaces distinctly
	ErrEmptyCart      = fmt.Errorf("cart is empty")
	ErrIdentityFetch  = fmt.Errorf("failed to resolve current user")
	ErrPlaylistCreate = fmt.Errorf("failed to create playlist")
	ErrTrackAttach    = fmt.Errorf("failed to add tracks to playlist")

	// API and service errors
	ErrNetwork            = fmt.Errorf("network request failed")
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
