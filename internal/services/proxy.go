// Client for the mixcart backend proxy, which serves the public client
// identifier and fronts the track search service.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/desertthunder/mixcart/internal/models"
	"github.com/desertthunder/mixcart/internal/shared"
)

// APIResponse represents a raw proxy response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
	JSONData   any
}

// ProxyClient provides methods for talking to the backend proxy.
//
// The proxy is a black-box collaborator: it owns the provider credentials
// used for search and exposes the application's public client identifier.
type ProxyClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewProxyClient creates a proxy client for the given base URL.
func NewProxyClient(baseURL string, client *http.Client) *ProxyClient {
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}

	return &ProxyClient{
		baseURL:    baseURL,
		httpClient: client,
	}
}

// Get performs a GET request to the specified path and returns the raw response.
func (p *ProxyClient) Get(ctx context.Context, path string) (*APIResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return p.do(req)
}

// Post performs a POST request with the given JSON body and returns the raw response.
func (p *ProxyClient) Post(ctx context.Context, path string, data []byte) (*APIResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return p.do(req)
}

func (p *ProxyClient) do(req *http.Request) (*APIResponse, error) {
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrNetwork, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	apiResp := &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       body,
	}

	var jsonData any
	if err := json.Unmarshal(body, &jsonData); err == nil {
		apiResp.IsJSON = true
		apiResp.JSONData = jsonData
	}

	return apiResp, nil
}

// ClientID fetches the application's public client identifier.
//
// Authorization must not proceed until this has succeeded.
func (p *ProxyClient) ClientID(ctx context.Context) (string, error) {
	resp, err := p.Get(ctx, "/api/client-id")
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: client-id endpoint returned status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	var payload struct {
		ClientID string `json:"client_id"`
	}
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return "", fmt.Errorf("failed to decode client-id response: %w", err)
	}
	if payload.ClientID == "" {
		return "", fmt.Errorf("%w: empty client_id in response", shared.ErrAPIRequest)
	}

	return payload.ClientID, nil
}

// searchTrack mirrors the raw provider track objects the proxy passes through.
type searchTrack struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Artists []struct {
		Name string `json:"name"`
	} `json:"artists"`
	Album struct {
		Name        string `json:"name"`
		ReleaseDate string `json:"release_date"`
		Images      []struct {
			URL string `json:"url"`
		} `json:"images"`
	} `json:"album"`
	DurationMS   int          `json:"duration_ms"`
	ExternalURLs externalURLs `json:"external_urls"`
	URI          string       `json:"uri"`
}

type searchResponse struct {
	Error  string        `json:"error"`
	Tracks []searchTrack `json:"tracks"`
}

// Search sends a free-text query to the proxy's search endpoint and returns
// the matching tracks.
func (p *ProxyClient) Search(ctx context.Context, query string) ([]models.Track, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: query must not be empty", shared.ErrInvalidInput)
	}

	payload, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return nil, fmt.Errorf("failed to encode search request: %w", err)
	}

	resp, err := p.Post(ctx, "/api/search", payload)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: search endpoint returned status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	var result searchResponse
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}
	if result.Error != "" {
		return nil, fmt.Errorf("%w: %s", shared.ErrAPIRequest, result.Error)
	}

	tracks := make([]models.Track, 0, len(result.Tracks))
	for _, st := range result.Tracks {
		track := models.Track{
			ID:          st.ID,
			Name:        st.Name,
			Album:       st.Album.Name,
			ReleaseDate: st.Album.ReleaseDate,
			DurationMS:  st.DurationMS,
			ExternalURL: st.ExternalURLs.Spotify,
			URI:         st.URI,
		}
		for _, a := range st.Artists {
			track.Artists = append(track.Artists, a.Name)
		}
		if len(st.Album.Images) > 0 {
			track.AlbumArtURL = st.Album.Images[0].URL
		}
		tracks = append(tracks, track)
	}

	return tracks, nil
}

// Health checks the proxy's health endpoint.
func (p *ProxyClient) Health(ctx context.Context) (map[string]any, error) {
	resp, err := p.Get(ctx, "/api/health")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", shared.ErrServiceUnavailable, resp.StatusCode)
	}

	health, ok := resp.JSONData.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected health payload", shared.ErrServiceUnavailable)
	}
	return health, nil
}
