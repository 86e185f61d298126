// Spotify Web API client for playlist creation.
//
// Response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/mixcart/internal/auth"
	"github.com/desertthunder/mixcart/internal/shared"
	"golang.org/x/time/rate"
)

const spotifyBaseURL = "https://api.spotify.com/v1"

// defaultTimeout bounds every provider call; elapsed-time failures surface
// the same way as HTTP failures.
const defaultTimeout = 30 * time.Second

// SpotifyUser represents the current user's profile, reduced to the fields
// playlist creation needs.
type SpotifyUser struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type externalURLs struct {
	Spotify string `json:"spotify"`
}

// SpotifyPlaylist represents a playlist resource returned on creation.
type SpotifyPlaylist struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	Public       bool         `json:"public"`
	ExternalURLs externalURLs `json:"external_urls"`
}

// URL returns the playlist's public link when the provider supplied one.
func (p *SpotifyPlaylist) URL() string {
	return p.ExternalURLs.Spotify
}

type createPlaylistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Public      bool   `json:"public"`
}

type addTracksRequest struct {
	URIs []string `json:"uris"`
}

type snapshotResponse struct {
	SnapshotID string `json:"snapshot_id"`
}

// SpotifyClient performs bearer-token REST calls against the Spotify Web API.
//
// The token comes from the [auth.Session] the client was constructed with,
// so a completed authorization is a precondition for every call.
type SpotifyClient struct {
	baseURL    string
	session    *auth.Session
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger
}

// SpotifyOpts contains configuration options for creating a SpotifyClient.
type SpotifyOpts struct {
	BaseURL    string // defaults to the public API base
	Session    *auth.Session
	HTTPClient *http.Client // defaults to a client with a 30s timeout
	RPS        float64      // requests per second, defaults to 10
	Logger     *log.Logger
}

// NewSpotifyClient creates a SpotifyClient bound to the given session.
func NewSpotifyClient(opts SpotifyOpts) (*SpotifyClient, error) {
	if opts.Session == nil {
		return nil, fmt.Errorf("%w: session is required", shared.ErrInvalidArgument)
	}
	if opts.BaseURL == "" {
		opts.BaseURL = spotifyBaseURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: defaultTimeout}
	}
	if opts.RPS == 0 {
		opts.RPS = 10
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	return &SpotifyClient{
		baseURL:    opts.BaseURL,
		session:    opts.Session,
		httpClient: opts.HTTPClient,
		limiter:    rate.NewLimiter(rate.Limit(opts.RPS), 1),
		logger:     opts.Logger,
	}, nil
}

// doRequest performs an authenticated request to the Spotify API, encoding
// body as JSON when present and decoding the response into result.
func (s *SpotifyClient) doRequest(ctx context.Context, method, endpoint string, body any, result any) error {
	token, ok := s.session.Token()
	if !ok {
		return shared.ErrNotAuthenticated
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrNetwork, err)
	}

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		s.logger.Error("spotify API error", "method", method, "endpoint", endpoint, "status", resp.StatusCode)
		return fmt.Errorf("%w: %s %s returned status %d", shared.ErrAPIRequest, method, endpoint, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// CurrentUser retrieves the authenticated user's identity.
func (s *SpotifyClient) CurrentUser(ctx context.Context) (*SpotifyUser, error) {
	var user SpotifyUser
	if err := s.doRequest(ctx, http.MethodGet, "/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// CreatePlaylist creates a playlist under the given user. Visibility is
// always private.
func (s *SpotifyClient) CreatePlaylist(ctx context.Context, userID, name, description string) (*SpotifyPlaylist, error) {
	var playlist SpotifyPlaylist
	endpoint := fmt.Sprintf("/users/%s/playlists", userID)
	body := createPlaylistRequest{Name: name, Description: description, Public: false}

	if err := s.doRequest(ctx, http.MethodPost, endpoint, body, &playlist); err != nil {
		return nil, err
	}
	return &playlist, nil
}

// AddTracks attaches the given URIs to a playlist in a single call.
func (s *SpotifyClient) AddTracks(ctx context.Context, playlistID string, uris []string) error {
	endpoint := fmt.Sprintf("/playlists/%s/tracks", playlistID)
	var snapshot snapshotResponse
	return s.doRequest(ctx, http.MethodPost, endpoint, addTracksRequest{URIs: uris}, &snapshot)
}
