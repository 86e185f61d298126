package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/mixcart/internal/shared"
	"golang.org/x/oauth2"
)

const (
	defaultAuthURL  = "https://accounts.spotify.com/authorize"
	defaultTokenURL = "https://accounts.spotify.com/api/token"
)

// Scopes is the fixed scope list requested during authorization.
// Both playlist-modify scopes are required to create private playlists.
var Scopes = []string{"playlist-modify-public", "playlist-modify-private"}

// State represents the flow's position in one logical authorization session.
type State int

const (
	StateUnauthenticated State = iota
	StateAwaitingClientID
	StateRedirecting
	StatePendingExchange
	StateAuthenticated
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAwaitingClientID:
		return "awaiting_client_id"
	case StateRedirecting:
		return "redirecting"
	case StatePendingExchange:
		return "pending_exchange"
	case StateAuthenticated:
		return "authenticated"
	case StateFailed:
		return "failed"
	default:
		return ""
	}
}

// FlowOpts contains configuration options for creating a Flow.
type FlowOpts struct {
	Session        *Session
	ClientID       string // optional, may arrive later via SetClientID
	RedirectURI    string
	VerifierLength int
	AuthURL        string // defaults to the Spotify authorize endpoint
	TokenURL       string // defaults to the Spotify token endpoint
	HTTPClient     *http.Client
	Logger         *log.Logger
}

// Flow orchestrates the PKCE authorization-code flow for a public client:
// the authorization redirect and the subsequent code-for-token exchange.
//
// No client secret is involved; possession of the code verifier proves the
// exchange comes from the party that started the flow.
type Flow struct {
	mu             sync.Mutex
	session        *Session
	clientID       string
	redirectURI    string
	verifierLength int
	authURL        string
	tokenURL       string
	httpClient     *http.Client
	logger         *log.Logger
	state          State
	pendingCode    string
}

// NewFlow creates a Flow over the given session.
func NewFlow(opts FlowOpts) *Flow {
	if opts.Session == nil {
		opts.Session = NewSession()
	}
	if opts.VerifierLength == 0 {
		opts.VerifierLength = DefaultVerifierLength
	}
	if opts.AuthURL == "" {
		opts.AuthURL = defaultAuthURL
	}
	if opts.TokenURL == "" {
		opts.TokenURL = defaultTokenURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	state := StateUnauthenticated
	if opts.ClientID == "" {
		state = StateAwaitingClientID
	}

	return &Flow{
		session:        opts.Session,
		clientID:       opts.ClientID,
		redirectURI:    opts.RedirectURI,
		verifierLength: opts.VerifierLength,
		authURL:        opts.AuthURL,
		tokenURL:       opts.TokenURL,
		httpClient:     opts.HTTPClient,
		logger:         opts.Logger,
		state:          state,
	}
}

// State returns the flow's current state.
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Session returns the session the flow operates on.
func (f *Flow) Session() *Session {
	return f.session
}

// SetClientID supplies the public client identifier once the credential
// service has delivered it. A deferred exchange becomes retryable via
// [Flow.Resume].
func (f *Flow) SetClientID(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clientID = id
	if f.state == StateAwaitingClientID && id != "" {
		f.state = StateUnauthenticated
	}
}

// Token returns the held access token without any network call.
func (f *Flow) Token() (string, bool) {
	return f.session.Token()
}

// EnsureAuthenticated returns the held token immediately when one exists.
//
// Otherwise it starts a new authorization attempt: a fresh verifier is
// generated and stored, and the authorization URL the caller must navigate
// the browser to is returned with an empty token. While the client
// identifier is not yet loaded it returns [shared.ErrClientIDNotReady]
// without side effects.
func (f *Flow) EnsureAuthenticated() (token string, authURL string, err error) {
	if t, ok := f.session.Token(); ok {
		return t, "", nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.clientID == "" {
		return "", "", shared.ErrClientIDNotReady
	}

	verifier, err := GenerateVerifier(f.verifierLength)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate verifier: %w", err)
	}
	f.session.SaveVerifier(verifier)

	state, err := shared.GenerateState()
	if err != nil {
		return "", "", err
	}

	url := f.config().AuthCodeURL(state,
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
		oauth2.SetAuthURLParam("code_challenge", DeriveChallenge(verifier)),
	)

	f.state = StateRedirecting
	f.logger.Debug("authorization started", "state", f.state, "verifier_length", len(verifier))

	return "", url, nil
}

// AuthURLState extracts the state parameter embedded in an authorization URL
// built by [Flow.EnsureAuthenticated], for callback CSRF validation.
func AuthURLState(authURL string) string {
	const key = "state="
	idx := strings.Index(authURL, key)
	if idx < 0 {
		return ""
	}
	rest := authURL[idx+len(key):]
	if amp := strings.IndexByte(rest, '&'); amp >= 0 {
		rest = rest[:amp]
	}
	return rest
}

// Exchange performs the return leg: it trades the delivered authorization
// code plus the stored verifier for an access token.
//
// With no stored verifier it fails with [shared.ErrMissingVerifier]; the user
// must restart the flow. While the client identifier is unset the code is
// retained and [shared.ErrClientIDNotReady] is returned so the caller can
// retry via [Flow.Resume] once the identifier arrives. On a failed exchange
// the verifier is kept so a manual retry with the same code remains
// possible; on success the token is stored and the verifier is cleared.
func (f *Flow) Exchange(ctx context.Context, code string) (string, error) {
	if code == "" {
		// Expected steady state when no authorization is in flight.
		return "", nil
	}

	verifier, ok := f.session.LoadVerifier()
	if !ok {
		f.mu.Lock()
		f.state = StateFailed
		f.mu.Unlock()
		f.logger.Error("authorization code delivered without a stored verifier")
		return "", shared.ErrMissingVerifier
	}

	f.mu.Lock()
	if f.clientID == "" {
		f.pendingCode = code
		f.state = StatePendingExchange
		f.mu.Unlock()
		return "", shared.ErrClientIDNotReady
	}
	f.state = StatePendingExchange
	cfg := f.config()
	f.mu.Unlock()

	ctx = context.WithValue(ctx, oauth2.HTTPClient, f.httpClient)
	tok, err := cfg.Exchange(ctx, code, oauth2.SetAuthURLParam("code_verifier", verifier))
	if err != nil {
		f.logger.Error("token exchange failed", "error", err)
		return "", fmt.Errorf("%w: %v", shared.ErrTokenExchange, err)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("%w: response missing access_token", shared.ErrTokenExchange)
	}

	f.session.SetToken(tok.AccessToken)
	f.session.ClearVerifier()

	f.mu.Lock()
	f.pendingCode = ""
	f.state = StateAuthenticated
	f.mu.Unlock()

	f.logger.Info("authorization complete")
	return tok.AccessToken, nil
}

// Resume retries a deferred exchange once the client identifier has been
// supplied. Returns [shared.ErrClientIDNotReady] when there is nothing to
// resume or the identifier is still missing.
func (f *Flow) Resume(ctx context.Context) (string, error) {
	f.mu.Lock()
	code := f.pendingCode
	ready := f.clientID != ""
	f.mu.Unlock()

	if code == "" || !ready {
		return "", shared.ErrClientIDNotReady
	}
	return f.Exchange(ctx, code)
}

func (f *Flow) config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:    f.clientID,
		RedirectURL: f.redirectURI,
		Scopes:      Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:   f.authURL,
			TokenURL:  f.tokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}
