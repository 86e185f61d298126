package auth

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/desertthunder/mixcart/internal/shared"
)

// newTokenServer stubs the provider's token endpoint, capturing the exchange
// request form for assertions.
func newTokenServer(t *testing.T, status int, accessToken string, captured *url.Values) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("failed to read token request body: %v", err)
		}
		form, err := url.ParseQuery(string(body))
		if err != nil {
			t.Errorf("failed to parse token request form: %v", err)
		}
		if captured != nil {
			*captured = form
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status == http.StatusOK {
			w.Write([]byte(`{"access_token":"` + accessToken + `","token_type":"Bearer","expires_in":3600}`))
		} else {
			w.Write([]byte(`{"error":"invalid_grant"}`))
		}
	}))
}

func newTestFlow(tokenURL, clientID string) *Flow {
	return NewFlow(FlowOpts{
		ClientID:    clientID,
		RedirectURI: "http://127.0.0.1:3000/callback",
		TokenURL:    tokenURL,
	})
}

func TestFlowStates(t *testing.T) {
	t.Run("StartsAwaitingClientID", func(t *testing.T) {
		flow := NewFlow(FlowOpts{})
		if flow.State() != StateAwaitingClientID {
			t.Errorf("expected %v, got %v", StateAwaitingClientID, flow.State())
		}

		flow.SetClientID("client-1")
		if flow.State() != StateUnauthenticated {
			t.Errorf("expected %v after client id arrives, got %v", StateUnauthenticated, flow.State())
		}
	})

	t.Run("StartsUnauthenticatedWithClientID", func(t *testing.T) {
		flow := NewFlow(FlowOpts{ClientID: "client-1"})
		if flow.State() != StateUnauthenticated {
			t.Errorf("expected %v, got %v", StateUnauthenticated, flow.State())
		}
	})
}

func TestEnsureAuthenticated(t *testing.T) {
	t.Run("ClientIDNotReady", func(t *testing.T) {
		flow := NewFlow(FlowOpts{})

		_, _, err := flow.EnsureAuthenticated()
		if !errors.Is(err, shared.ErrClientIDNotReady) {
			t.Errorf("expected ErrClientIDNotReady, got %v", err)
		}
		if _, ok := flow.Session().LoadVerifier(); ok {
			t.Error("no verifier should be stored before the client id is known")
		}
	})

	t.Run("BuildsAuthorizationURL", func(t *testing.T) {
		flow := newTestFlow("http://unused", "client-1")

		token, authURL, err := flow.EnsureAuthenticated()
		if err != nil {
			t.Fatalf("failed to start authorization: %v", err)
		}
		if token != "" {
			t.Errorf("expected no token yet, got %s", token)
		}

		parsed, err := url.Parse(authURL)
		if err != nil {
			t.Fatalf("authorization URL should parse: %v", err)
		}
		query := parsed.Query()

		if query.Get("client_id") != "client-1" {
			t.Errorf("expected client_id client-1, got %s", query.Get("client_id"))
		}
		if query.Get("response_type") != "code" {
			t.Errorf("expected response_type code, got %s", query.Get("response_type"))
		}
		if query.Get("code_challenge_method") != "S256" {
			t.Errorf("expected S256 challenge method, got %s", query.Get("code_challenge_method"))
		}
		if query.Get("redirect_uri") != "http://127.0.0.1:3000/callback" {
			t.Errorf("unexpected redirect_uri %s", query.Get("redirect_uri"))
		}
		if query.Get("state") == "" {
			t.Error("authorization URL should carry a state token")
		}

		verifier, ok := flow.Session().LoadVerifier()
		if !ok {
			t.Fatal("verifier should be stored once the redirect starts")
		}
		if query.Get("code_challenge") != DeriveChallenge(verifier) {
			t.Error("challenge in URL should derive from the stored verifier")
		}

		scope := query.Get("scope")
		for _, s := range Scopes {
			if !strings.Contains(scope, s) {
				t.Errorf("scope %s missing from authorization URL", s)
			}
		}

		if flow.State() != StateRedirecting {
			t.Errorf("expected %v, got %v", StateRedirecting, flow.State())
		}

		if AuthURLState(authURL) != query.Get("state") {
			t.Error("AuthURLState should extract the embedded state token")
		}
	})

	t.Run("ReturnsHeldToken", func(t *testing.T) {
		flow := newTestFlow("http://unused", "client-1")
		flow.Session().SetToken("held")

		token, authURL, err := flow.EnsureAuthenticated()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if token != "held" || authURL != "" {
			t.Errorf("expected held token with no URL, got token=%s url=%s", token, authURL)
		}
	})
}

func TestExchange(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		var form url.Values
		srv := newTokenServer(t, http.StatusOK, "TOK1", &form)
		defer srv.Close()

		flow := newTestFlow(srv.URL, "client-1")
		if _, _, err := flow.EnsureAuthenticated(); err != nil {
			t.Fatalf("failed to start authorization: %v", err)
		}
		verifier, _ := flow.Session().LoadVerifier()

		token, err := flow.Exchange(context.Background(), "AUTHCODE1")
		if err != nil {
			t.Fatalf("exchange failed: %v", err)
		}
		if token != "TOK1" {
			t.Errorf("expected TOK1, got %s", token)
		}

		if form.Get("grant_type") != "authorization_code" {
			t.Errorf("expected authorization_code grant, got %s", form.Get("grant_type"))
		}
		if form.Get("code") != "AUTHCODE1" {
			t.Errorf("expected code AUTHCODE1, got %s", form.Get("code"))
		}
		if form.Get("code_verifier") != verifier {
			t.Errorf("exchange should send the stored verifier")
		}
		if form.Get("client_id") != "client-1" {
			t.Errorf("public client must identify itself in the form body")
		}
		if form.Get("client_secret") != "" {
			t.Error("no client secret should ever be sent")
		}

		if flow.State() != StateAuthenticated {
			t.Errorf("expected %v, got %v", StateAuthenticated, flow.State())
		}
		if _, ok := flow.Session().LoadVerifier(); ok {
			t.Error("verifier should be cleared after a successful exchange")
		}
		if held, ok := flow.Token(); !ok || held != "TOK1" {
			t.Errorf("token should be held by the session, got %s", held)
		}
	})

	t.Run("EmptyCodeIsNoOp", func(t *testing.T) {
		flow := newTestFlow("http://unused", "client-1")

		token, err := flow.Exchange(context.Background(), "")
		if err != nil || token != "" {
			t.Errorf("empty code should be a no-op, got token=%s err=%v", token, err)
		}
		if flow.State() != StateUnauthenticated {
			t.Errorf("state should be unchanged, got %v", flow.State())
		}
	})

	t.Run("MissingVerifier", func(t *testing.T) {
		flow := newTestFlow("http://unused", "client-1")

		_, err := flow.Exchange(context.Background(), "AUTHCODE1")
		if !errors.Is(err, shared.ErrMissingVerifier) {
			t.Errorf("expected ErrMissingVerifier, got %v", err)
		}
		if flow.State() != StateFailed {
			t.Errorf("expected %v, got %v", StateFailed, flow.State())
		}
	})

	t.Run("FailedExchangeKeepsVerifier", func(t *testing.T) {
		srv := newTokenServer(t, http.StatusBadRequest, "", nil)
		defer srv.Close()

		flow := newTestFlow(srv.URL, "client-1")
		if _, _, err := flow.EnsureAuthenticated(); err != nil {
			t.Fatalf("failed to start authorization: %v", err)
		}

		_, err := flow.Exchange(context.Background(), "AUTHCODE1")
		if !errors.Is(err, shared.ErrTokenExchange) {
			t.Errorf("expected ErrTokenExchange, got %v", err)
		}

		if _, ok := flow.Session().LoadVerifier(); !ok {
			t.Error("verifier must survive a failed exchange so a reload can retry")
		}
		if _, ok := flow.Token(); ok {
			t.Error("no token should be held after a failed exchange")
		}
	})

	t.Run("DeferredUntilClientIDArrives", func(t *testing.T) {
		var form url.Values
		srv := newTokenServer(t, http.StatusOK, "TOK2", &form)
		defer srv.Close()

		flow := NewFlow(FlowOpts{
			RedirectURI: "http://127.0.0.1:3000/callback",
			TokenURL:    srv.URL,
		})
		flow.Session().SaveVerifier("stored-verifier-stored-verifier-stored-verifier")

		_, err := flow.Exchange(context.Background(), "AUTHCODE2")
		if !errors.Is(err, shared.ErrClientIDNotReady) {
			t.Fatalf("expected ErrClientIDNotReady, got %v", err)
		}
		if flow.State() != StatePendingExchange {
			t.Errorf("expected %v, got %v", StatePendingExchange, flow.State())
		}

		if _, err := flow.Resume(context.Background()); !errors.Is(err, shared.ErrClientIDNotReady) {
			t.Errorf("resume without a client id should fail, got %v", err)
		}

		flow.SetClientID("client-2")
		token, err := flow.Resume(context.Background())
		if err != nil {
			t.Fatalf("resume failed: %v", err)
		}
		if token != "TOK2" {
			t.Errorf("expected TOK2, got %s", token)
		}
		if form.Get("code") != "AUTHCODE2" {
			t.Errorf("resume should replay the retained code, got %s", form.Get("code"))
		}

		if _, err := flow.Resume(context.Background()); !errors.Is(err, shared.ErrClientIDNotReady) {
			t.Error("a consumed pending code should not be resumable again")
		}
	})
}
