// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/desertthunder/mixcart/internal/services"
)

// MockSpotify is a test double for the provider surface used by commits.
//
// Each call is counted and the configured responses are returned, so tests
// can assert both outcomes and exactly which network calls were made.
type MockSpotify struct {
	User        *services.SpotifyUser
	UserErr     error
	Playlist    *services.SpotifyPlaylist
	PlaylistErr error
	AddErr      error

	CurrentUserCalls    int
	CreatePlaylistCalls int
	AddTracksCalls      int

	CreatedName string
	CreatedDesc string
	AddedURIs   []string
}

func (m *MockSpotify) CurrentUser(ctx context.Context) (*services.SpotifyUser, error) {
	m.CurrentUserCalls++
	return m.User, m.UserErr
}

func (m *MockSpotify) CreatePlaylist(ctx context.Context, userID, name, description string) (*services.SpotifyPlaylist, error) {
	m.CreatePlaylistCalls++
	m.CreatedName = name
	m.CreatedDesc = description
	return m.Playlist, m.PlaylistErr
}

func (m *MockSpotify) AddTracks(ctx context.Context, playlistID string, uris []string) error {
	m.AddTracksCalls++
	m.AddedURIs = uris
	return m.AddErr
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
