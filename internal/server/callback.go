package server

import (
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/desertthunder/mixcart/internal/auth"
	"github.com/desertthunder/mixcart/internal/shared"
)

// CallbackResult contains the result of an OAuth authorization flow.
type CallbackResult struct {
	Token string
	err   error
}

func (c *CallbackResult) Error() error {
	return c.err
}

// CallbackHandler is the boundary adapter for the authorization return leg.
//
// It reads the authorization code from the redirect request and feeds it into
// [auth.Flow.Exchange]. A delivered code is consumed only after a successful
// exchange, so reloading the callback URL retries a failed exchange but can
// never replay a completed one.
type CallbackHandler struct {
	flow       *auth.Flow
	state      string
	resultChan chan CallbackResult
	once       sync.Once
	consumed   bool
	mu         sync.Mutex
}

// NewCallbackHandler creates a callback handler for one authorization
// attempt. The state token must match the one embedded in the authorization
// URL (CSRF protection).
func NewCallbackHandler(flow *auth.Flow, state string) *CallbackHandler {
	return &CallbackHandler{
		flow:       flow,
		state:      state,
		resultChan: make(chan CallbackResult, 1),
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *CallbackHandler) Routes() []string {
	return []string{"/callback"}
}

// ServeHTTP handles the OAuth callback request.
//
// Validates the state parameter, exchanges the authorization code plus the
// stored verifier for a token, and sends the result through the result
// channel once the flow reaches a terminal outcome.
func (h *CallbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	if h.consumed {
		h.mu.Unlock()
		http.Error(w, "Authorization already completed", http.StatusBadRequest)
		return
	}
	h.mu.Unlock()

	if state := r.URL.Query().Get("state"); state != h.state {
		err := fmt.Errorf("%w: invalid state parameter", shared.ErrAuthFailed)
		h.Send(CallbackResult{err: err})
		http.Error(w, "Invalid state parameter", http.StatusBadRequest)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		errParam := r.URL.Query().Get("error")
		errDesc := r.URL.Query().Get("error_description")
		err := fmt.Errorf("%w: %s - %s", shared.ErrAuthFailed, errParam, errDesc)
		h.Send(CallbackResult{err: err})
		http.Error(w, "Authorization failed", http.StatusBadRequest)
		return
	}

	token, err := h.flow.Exchange(r.Context(), code)
	if err != nil {
		if errors.Is(err, shared.ErrMissingVerifier) {
			// Terminal: the attempt must be restarted from the top.
			h.Send(CallbackResult{err: err})
			http.Error(w, "No authorization attempt in progress - please restart", http.StatusBadRequest)
			return
		}
		// The code stays live so a page reload can retry the exchange.
		http.Error(w, "Token exchange failed - reload this page to retry", http.StatusBadGateway)
		return
	}

	h.mu.Lock()
	h.consumed = true
	h.mu.Unlock()

	h.Send(CallbackResult{Token: token})

	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, callbackSuccessPage)
}

// Send sends the callback result through the channel (only once).
func (h *CallbackHandler) Send(result CallbackResult) {
	h.once.Do(func() {
		h.resultChan <- result
		close(h.resultChan)
	})
}

// Result returns the result channel for receiving flow completion.
//
// The channel receives exactly one result and is then closed.
func (h *CallbackHandler) Result() <-chan CallbackResult {
	return h.resultChan
}

const callbackSuccessPage = `
<!DOCTYPE html>
<html>
<head>
    <title>Authorization Successful</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #f5f5f5; }
        .container { text-align: center; background: white; padding: 2rem;
                     border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: #1DB954; margin: 0 0 1rem 0; }
        p { color: #666; margin: 0; }
    </style>
</head>
<body>
    <div class="container">
        <h1>✓ Authorization Successful</h1>
        <p>You can close this window and return to the terminal.</p>
    </div>
</body>
</html>
`
