// package tasks implements the playlist commit operation.
//
// The core abstraction is Committer, which turns a staged cart into a real
// playlist in the user's account through a strict ordered sequence of
// provider calls. Progress is emitted via channels for non-blocking status
// reporting to the CLI/TUI layers.
package tasks

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/mixcart/internal/cart"
	"github.com/desertthunder/mixcart/internal/models"
	"github.com/desertthunder/mixcart/internal/services"
	"github.com/desertthunder/mixcart/internal/shared"
)

const commitSteps = 5

const (
	// DefaultPlaylistName is used when the requested name is empty or whitespace.
	DefaultPlaylistName = "Mixcart Playlist"

	playlistDescription = "Created with mixcart"
)

// SpotifyAPI is the provider surface a commit needs, satisfied by
// [services.SpotifyClient].
type SpotifyAPI interface {
	CurrentUser(ctx context.Context) (*services.SpotifyUser, error)
	CreatePlaylist(ctx context.Context, userID, name, description string) (*services.SpotifyPlaylist, error)
	AddTracks(ctx context.Context, playlistID string, uris []string) error
}

// CommitResult contains the outcome of a playlist commit.
//
// Partial marks the visible partial-failure state where the playlist was
// created but attaching tracks failed: the playlist exists in the account
// but is empty, and no automatic cleanup is performed.
type CommitResult struct {
	UserID     string           // Resolved account the playlist was created under
	Playlist   *models.Playlist // Created playlist, set once step 4 succeeds
	TrackCount int              // URIs attached (or attempted, when Partial)
	Skipped    int              // Staged tracks dropped during URI mapping
	Partial    bool             // Playlist created but tracks not attached
}

// Committer performs the ordered commit sequence:
// resolve identity → create playlist → attach tracks.
//
// Each step depends on the previous one's output, so the sequence is strictly
// sequential. Commits are not re-entrant; overlapping calls are rejected.
type Committer struct {
	spotify SpotifyAPI
	logger  *log.Logger

	mu       sync.Mutex
	inFlight bool
}

// NewCommitter creates a Committer using the given provider client.
func NewCommitter(spotify SpotifyAPI, logger *log.Logger) *Committer {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Committer{spotify: spotify, logger: logger}
}

// sendProgress sends a progress update through the channel without blocking.
func (c *Committer) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Commit materializes the staged tracks as a new private playlist named name.
//
// An empty track set fails immediately with [shared.ErrEmptyCart] before any
// network call. Failures in later steps surface as [shared.ErrIdentityFetch],
// [shared.ErrPlaylistCreate], or [shared.ErrTrackAttach] respectively; none
// are retried. When track attachment fails the returned result still carries
// the created playlist with Partial set, since the account state no longer
// matches the cart. The cart itself is never cleared here; that is caller
// policy.
func (c *Committer) Commit(ctx context.Context, name string, tracks []models.Track, progress chan<- ProgressUpdate) (*CommitResult, error) {
	if c.spotify == nil {
		return nil, fmt.Errorf("%w: Spotify client not initialized", shared.ErrServiceUnavailable)
	}

	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: a commit is already in progress", shared.ErrInvalidInput)
	}
	c.inFlight = true
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.inFlight = false
		c.mu.Unlock()
	}()

	if len(tracks) == 0 {
		return nil, shared.ErrEmptyCart
	}

	result := &CommitResult{}

	c.sendProgress(progress, mapTracksUpdate(len(tracks)))

	uris := cart.URIs(tracks)
	result.Skipped = len(tracks) - len(uris)
	if result.Skipped > 0 {
		c.logger.Warn("dropped tracks without a playable URI", "count", result.Skipped)
	}
	if len(uris) == 0 {
		return nil, fmt.Errorf("%w: no staged track has a playable URI", shared.ErrEmptyCart)
	}

	c.sendProgress(progress, resolveIdentityUpdate())

	user, err := c.spotify.CurrentUser(ctx)
	if err != nil {
		c.logger.Error("identity lookup failed", "step", "resolve_identity", "error", err)
		return nil, fmt.Errorf("%w: %v", shared.ErrIdentityFetch, err)
	}
	result.UserID = user.ID

	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultPlaylistName
	}

	c.sendProgress(progress, createPlaylistUpdate(name))

	created, err := c.spotify.CreatePlaylist(ctx, user.ID, name, playlistDescription)
	if err != nil {
		c.logger.Error("playlist creation failed", "step", "create_playlist", "error", err)
		return nil, fmt.Errorf("%w: %v", shared.ErrPlaylistCreate, err)
	}

	result.Playlist = &models.Playlist{
		ID:          created.ID,
		Name:        created.Name,
		Description: created.Description,
		Public:      created.Public,
		URL:         created.URL(),
	}

	c.sendProgress(progress, attachTracksUpdate(len(uris)))

	if err := c.spotify.AddTracks(ctx, created.ID, uris); err != nil {
		// The playlist now exists but is empty. Surface that distinctly;
		// no automatic deletion of the half-created playlist.
		result.Partial = true
		result.TrackCount = len(uris)
		c.logger.Error("track attachment failed, playlist left empty",
			"step", "attach_tracks", "playlist_id", created.ID, "error", err)
		return result, fmt.Errorf("%w: %v", shared.ErrTrackAttach, err)
	}

	result.TrackCount = len(uris)
	result.Playlist.TrackCount = len(uris)

	c.sendProgress(progress, doneUpdate(name))
	c.logger.Info("commit complete", "playlist_id", created.ID, "tracks", len(uris))

	return result, nil
}
