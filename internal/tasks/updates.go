package tasks

import "fmt"

// ProgressUpdate represents a progress event during a playlist commit.
//
// Used to send real-time updates to the CLI or TUI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Commit phase
	Step    int    // Current step number
	Total   int    // Total steps in the commit
	Message string // Human-readable message for display
}

// Operation phase enumeration
type Phase int

const (
	MapTracks Phase = iota
	ResolveIdentity
	CreatePlaylist
	AttachTracks
	Done
)

func (p Phase) String() string {
	switch p {
	case MapTracks:
		return "map_tracks"
	case ResolveIdentity:
		return "resolve_identity"
	case CreatePlaylist:
		return "create_playlist"
	case AttachTracks:
		return "attach_tracks"
	case Done:
		return "done"
	default:
		return ""
	}
}

func mapTracksUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   MapTracks,
		Step:    1,
		Total:   commitSteps,
		Message: fmt.Sprintf("Preparing %d tracks...", count),
	}
}

func resolveIdentityUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveIdentity,
		Step:    2,
		Total:   commitSteps,
		Message: "Resolving your Spotify identity...",
	}
}

func createPlaylistUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    3,
		Total:   commitSteps,
		Message: fmt.Sprintf("Creating playlist '%s'...", name),
	}
}

func attachTracksUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AttachTracks,
		Step:    4,
		Total:   commitSteps,
		Message: fmt.Sprintf("Adding %d tracks...", count),
	}
}

func doneUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Done,
		Step:    commitSteps,
		Total:   commitSteps,
		Message: fmt.Sprintf("Playlist '%s' created", name),
	}
}
