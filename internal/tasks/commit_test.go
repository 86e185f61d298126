package tasks

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/desertthunder/mixcart/internal/models"
	"github.com/desertthunder/mixcart/internal/services"
	"github.com/desertthunder/mixcart/internal/shared"
	mocks "github.com/desertthunder/mixcart/internal/testing"
)

func newMock() *mocks.MockSpotify {
	return &mocks.MockSpotify{
		User: &services.SpotifyUser{ID: "user-1", DisplayName: "Test User"},
		Playlist: &services.SpotifyPlaylist{
			ID:   "pl-1",
			Name: "Road Trip",
		},
	}
}

func stagedTracks(n int) []models.Track {
	tracks := make([]models.Track, n)
	for i := range tracks {
		tracks[i] = models.Track{ID: fmt.Sprintf("t%d", i)}
	}
	return tracks
}

func TestCommit(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mock := newMock()
		committer := NewCommitter(mock, nil)

		result, err := committer.Commit(context.Background(), "Road Trip", stagedTracks(3), nil)
		if err != nil {
			t.Fatalf("commit failed: %v", err)
		}

		if result.UserID != "user-1" {
			t.Errorf("expected user-1, got %s", result.UserID)
		}
		if result.Playlist == nil || result.Playlist.ID != "pl-1" {
			t.Errorf("expected created playlist in result, got %+v", result.Playlist)
		}
		if result.TrackCount != 3 {
			t.Errorf("expected 3 tracks attached, got %d", result.TrackCount)
		}
		if result.Partial {
			t.Error("successful commit should not be partial")
		}

		if mock.CurrentUserCalls != 1 || mock.CreatePlaylistCalls != 1 || mock.AddTracksCalls != 1 {
			t.Errorf("expected exactly one call per step, got %d/%d/%d",
				mock.CurrentUserCalls, mock.CreatePlaylistCalls, mock.AddTracksCalls)
		}

		want := []string{"spotify:track:t0", "spotify:track:t1", "spotify:track:t2"}
		if len(mock.AddedURIs) != len(want) {
			t.Fatalf("expected %d URIs, got %d", len(want), len(mock.AddedURIs))
		}
		for i := range want {
			if mock.AddedURIs[i] != want[i] {
				t.Errorf("position %d: expected %s, got %s", i, want[i], mock.AddedURIs[i])
			}
		}
	})

	t.Run("PlaylistIsAlwaysPrivate", func(t *testing.T) {
		mock := newMock()
		committer := NewCommitter(mock, nil)

		if _, err := committer.Commit(context.Background(), "Quiet", stagedTracks(1), nil); err != nil {
			t.Fatalf("commit failed: %v", err)
		}
		if mock.CreatedName != "Quiet" {
			t.Errorf("expected playlist name Quiet, got %s", mock.CreatedName)
		}
		if mock.CreatedDesc == "" {
			t.Error("playlist should carry the app description")
		}
	})

	t.Run("EmptyCartMakesNoCalls", func(t *testing.T) {
		mock := newMock()
		committer := NewCommitter(mock, nil)

		_, err := committer.Commit(context.Background(), "Empty", nil, nil)
		if !errors.Is(err, shared.ErrEmptyCart) {
			t.Errorf("expected ErrEmptyCart, got %v", err)
		}
		if mock.CurrentUserCalls != 0 || mock.CreatePlaylistCalls != 0 || mock.AddTracksCalls != 0 {
			t.Error("empty cart must not trigger any network calls")
		}
	})

	t.Run("AllTracksUnplayable", func(t *testing.T) {
		mock := newMock()
		committer := NewCommitter(mock, nil)

		tracks := []models.Track{{Name: "no id"}, {Name: "also no id"}}
		_, err := committer.Commit(context.Background(), "Silent", tracks, nil)
		if !errors.Is(err, shared.ErrEmptyCart) {
			t.Errorf("expected ErrEmptyCart, got %v", err)
		}
		if mock.CurrentUserCalls != 0 {
			t.Error("URI mapping happens before any network call")
		}
	})

	t.Run("BlankNameUsesDefault", func(t *testing.T) {
		mock := newMock()
		committer := NewCommitter(mock, nil)

		if _, err := committer.Commit(context.Background(), "   ", stagedTracks(1), nil); err != nil {
			t.Fatalf("commit failed: %v", err)
		}
		if mock.CreatedName != DefaultPlaylistName {
			t.Errorf("expected default name, got %s", mock.CreatedName)
		}
	})

	t.Run("IdentityFailureStopsSequence", func(t *testing.T) {
		mock := newMock()
		mock.UserErr = errors.New("401 unauthorized")
		committer := NewCommitter(mock, nil)

		result, err := committer.Commit(context.Background(), "Trip", stagedTracks(2), nil)
		if !errors.Is(err, shared.ErrIdentityFetch) {
			t.Errorf("expected ErrIdentityFetch, got %v", err)
		}
		if result != nil {
			t.Error("no result should be returned when identity resolution fails")
		}
		if mock.CreatePlaylistCalls != 0 || mock.AddTracksCalls != 0 {
			t.Error("later steps must not run after an identity failure")
		}
	})

	t.Run("CreateFailureStopsSequence", func(t *testing.T) {
		mock := newMock()
		mock.PlaylistErr = errors.New("500 server error")
		committer := NewCommitter(mock, nil)

		result, err := committer.Commit(context.Background(), "Trip", stagedTracks(2), nil)
		if !errors.Is(err, shared.ErrPlaylistCreate) {
			t.Errorf("expected ErrPlaylistCreate, got %v", err)
		}
		if result != nil {
			t.Error("no result should be returned when creation fails")
		}
		if mock.AddTracksCalls != 0 {
			t.Error("attach must not run after a failed creation")
		}
	})

	t.Run("AttachFailureIsPartial", func(t *testing.T) {
		mock := newMock()
		mock.AddErr = errors.New("500 server error")
		committer := NewCommitter(mock, nil)

		result, err := committer.Commit(context.Background(), "Trip", stagedTracks(2), nil)
		if !errors.Is(err, shared.ErrTrackAttach) {
			t.Errorf("expected ErrTrackAttach, got %v", err)
		}
		if result == nil {
			t.Fatal("partial failure must still return the created playlist")
		}
		if !result.Partial {
			t.Error("result should be flagged partial")
		}
		if result.Playlist == nil || result.Playlist.ID != "pl-1" {
			t.Error("the half-created playlist should be visible in the result")
		}
		if mock.CreatePlaylistCalls != 1 {
			t.Errorf("expected exactly one create call, got %d", mock.CreatePlaylistCalls)
		}
	})

	t.Run("SkippedTracksCounted", func(t *testing.T) {
		mock := newMock()
		committer := NewCommitter(mock, nil)

		tracks := append(stagedTracks(2), models.Track{Name: "unplayable"})
		result, err := committer.Commit(context.Background(), "Trip", tracks, nil)
		if err != nil {
			t.Fatalf("commit failed: %v", err)
		}
		if result.Skipped != 1 {
			t.Errorf("expected 1 skipped track, got %d", result.Skipped)
		}
		if result.TrackCount != 2 {
			t.Errorf("expected 2 attached tracks, got %d", result.TrackCount)
		}
	})

	t.Run("RejectsOverlappingCommits", func(t *testing.T) {
		mock := newMock()
		release := make(chan struct{})
		started := make(chan struct{})

		blocking := &blockingSpotify{MockSpotify: mock, started: started, release: release}
		committer := NewCommitter(blocking, nil)

		done := make(chan error, 1)
		go func() {
			_, err := committer.Commit(context.Background(), "First", stagedTracks(1), nil)
			done <- err
		}()

		<-started
		_, err := committer.Commit(context.Background(), "Second", stagedTracks(1), nil)
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("overlapping commit should be rejected, got %v", err)
		}

		close(release)
		if err := <-done; err != nil {
			t.Errorf("first commit should complete: %v", err)
		}
	})

	t.Run("ReportsProgress", func(t *testing.T) {
		mock := newMock()
		committer := NewCommitter(mock, nil)

		progress := make(chan ProgressUpdate, 16)
		if _, err := committer.Commit(context.Background(), "Trip", stagedTracks(1), progress); err != nil {
			t.Fatalf("commit failed: %v", err)
		}
		close(progress)

		var phases []Phase
		for update := range progress {
			phases = append(phases, update.Phase)
		}

		want := []Phase{MapTracks, ResolveIdentity, CreatePlaylist, AttachTracks, Done}
		if len(phases) != len(want) {
			t.Fatalf("expected %d updates, got %d", len(want), len(phases))
		}
		for i := range want {
			if phases[i] != want[i] {
				t.Errorf("update %d: expected phase %v, got %v", i, want[i], phases[i])
			}
		}
	})
}

// blockingSpotify parks the identity call until released, to hold a commit
// in flight.
type blockingSpotify struct {
	*mocks.MockSpotify
	started chan struct{}
	release chan struct{}
}

func (b *blockingSpotify) CurrentUser(ctx context.Context) (*services.SpotifyUser, error) {
	close(b.started)
	<-b.release
	return b.MockSpotify.CurrentUser(ctx)
}
