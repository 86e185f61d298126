package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/desertthunder/mixcart/internal/shared"
	tu "github.com/desertthunder/mixcart/internal/testing"
	"github.com/urfave/cli/v3"
)

func TestAuthStatus(t *testing.T) {
	t.Run("reports a healthy proxy", func(t *testing.T) {
		client := &http.Client{
			Transport: tu.NewMockRoundTripper(&http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(strings.NewReader(`{"status":"ok"}`)),
				Header:     http.Header{},
			}, nil),
		}

		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output, HTTPClient: client})
		runner.session.SetToken("held-token")

		if err := runner.AuthStatus(context.Background(), &cli.Command{}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		got := output.String()
		if !strings.Contains(got, "Token: ✓ held for this session") {
			t.Errorf("expected token line, got %q", got)
		}
		if !strings.Contains(got, "Proxy: ✓ healthy (status: ok)") {
			t.Errorf("expected healthy proxy line, got %q", got)
		}
	})

	t.Run("reports an unreachable proxy", func(t *testing.T) {
		client := &http.Client{
			Transport: tu.NewMockRoundTripper(nil, errors.New("connection refused")),
		}

		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output, HTTPClient: client})

		err := runner.AuthStatus(context.Background(), &cli.Command{})
		if err == nil {
			t.Fatal("expected error for unreachable proxy")
		}
		if !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}

		got := output.String()
		if !strings.Contains(got, "Token: ✗ none") {
			t.Errorf("expected missing token line, got %q", got)
		}
		if !strings.Contains(got, "Proxy: ✗ unreachable") {
			t.Errorf("expected unreachable proxy line, got %q", got)
		}
	})
}
