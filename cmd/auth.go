package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/desertthunder/mixcart/internal/auth"
	"github.com/desertthunder/mixcart/internal/server"
	"github.com/desertthunder/mixcart/internal/shared"
	"github.com/urfave/cli/v3"
)

// defaultAuthTimeout bounds how long the callback server waits for the
// browser redirect before the login attempt is abandoned.
const defaultAuthTimeout = 2 * time.Minute

// AuthLogin runs the full PKCE authorization flow: resolve the client ID,
// open the provider's consent page in a browser, and wait for the redirect
// to the local callback server.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	if err := r.loadConfig(cmd.String("config")); err != nil {
		return err
	}

	timeout := cmd.Duration("timeout")
	if timeout == 0 {
		timeout = defaultAuthTimeout
	}

	if _, err := r.doOAuth(ctx, timeout); err != nil {
		return err
	}

	r.logger.Info("authorization complete", "state", r.flow.State())
	return r.writePlain("✓ Authorized with Spotify\n")
}

// AuthStatus reports the flow's current state and the proxy's health.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	r.writePlain("Authorization: %s\n", r.flow.State())

	if _, ok := r.flow.Token(); ok {
		r.writePlain("Token: ✓ held for this session\n")
	} else {
		r.writePlain("Token: ✗ none (run 'mixcart auth login')\n")
	}

	health, err := r.proxy.Health(ctx)
	if err != nil {
		r.writePlain("Proxy: ✗ unreachable\n")
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}

	status, ok := health["status"].(string)
	if !ok {
		status = "unknown"
	}
	r.writePlain("Proxy: ✓ healthy (status: %s)\n", status)
	return nil
}

// doOAuth drives one authorization attempt end to end and returns the
// access token. A token already held by the flow short-circuits the whole
// dance.
func (r *Runner) doOAuth(ctx context.Context, timeout time.Duration) (string, error) {
	if token, ok := r.flow.Token(); ok {
		r.logger.Debug("token already held, skipping authorization")
		return token, nil
	}

	if err := r.ensureClientID(ctx); err != nil {
		return "", err
	}

	token, authURL, err := r.flow.EnsureAuthenticated()
	if err != nil {
		return "", err
	}
	if token != "" {
		return token, nil
	}

	state := auth.AuthURLState(authURL)
	handler := server.NewCallbackHandler(r.flow, state)

	router := server.NewBasicRouter()
	router.Handler(handler)

	addr := fmt.Sprintf("%s:%d", r.config.Server.Host, r.config.Server.Port)
	srv := &http.Server{Addr: addr, Handler: router}

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	r.logger.Info("waiting for authorization", "addr", addr)

	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warnf("could not open browser: %v", err)
		r.writePlain("Open this URL to authorize:\n%s\n", authURL)
	}

	select {
	case result := <-handler.Result():
		if err := result.Error(); err != nil {
			return "", fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
		}
		return result.Token, nil
	case err := <-serverErr:
		return "", fmt.Errorf("callback server failed: %w", err)
	case <-time.After(timeout):
		return "", fmt.Errorf("%w: no redirect received within %s", shared.ErrTimeout, timeout)
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// ensureClientID fetches the public client ID from the proxy when the
// configuration does not pin one.
func (r *Runner) ensureClientID(ctx context.Context) error {
	if r.flow.State() != auth.StateAwaitingClientID {
		return nil
	}

	r.logger.Info("fetching client id from proxy", "base_url", r.config.Proxy.BaseURL)

	clientID, err := r.proxy.ClientID(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrClientIDNotReady, err)
	}

	r.flow.SetClientID(clientID)
	return nil
}
