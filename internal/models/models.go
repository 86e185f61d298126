// package models defines the data model for the mixcart playlist builder
package models

import (
	"fmt"
	"strings"
	"time"
)

// Track represents a track record returned by the search service and staged in the cart.
type Track struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Artists     []string `json:"artists"`
	Album       string   `json:"album"`
	AlbumArtURL string   `json:"album_art_url"`
	ReleaseDate string   `json:"release_date"`
	DurationMS  int      `json:"duration_ms"`
	ExternalURL string   `json:"external_url"`
	URI         string   `json:"uri"`
}

// PlayableURI returns the URI used to attach this track to a playlist.
//
// An explicit URI takes precedence; otherwise one is constructed from the
// track ID. Returns an empty string when neither is available.
func (t Track) PlayableURI() string {
	if t.URI != "" {
		return t.URI
	}
	if t.ID != "" {
		return fmt.Sprintf("spotify:track:%s", t.ID)
	}
	return ""
}

// ArtistLine renders the track's artists as a single display string.
func (t Track) ArtistLine() string {
	return strings.Join(t.Artists, ", ")
}

// Playlist represents a playlist created in the user's account.
type Playlist struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Public      bool   `json:"public"`
	URL         string `json:"url"`
	TrackCount  int    `json:"track_count"`
}

// CommitRecord is a persisted record of a playlist commit outcome.
//
// Partial marks commits where the playlist was created but attaching tracks
// failed, so the account state does not match the cart that was staged.
type CommitRecord struct {
	ID           string    `json:"id"`
	PlaylistID   string    `json:"playlist_id"`
	PlaylistName string    `json:"playlist_name"`
	PlaylistURL  string    `json:"playlist_url"`
	UserID       string    `json:"user_id"`
	TrackCount   int       `json:"track_count"`
	Partial      bool      `json:"partial"`
	CreatedAt    time.Time `json:"created_at"`
}

// Validate checks that the record carries the fields the history table requires.
func (c *CommitRecord) Validate() error {
	if c.PlaylistID == "" {
		return fmt.Errorf("commit record missing playlist id")
	}
	if c.PlaylistName == "" {
		return fmt.Errorf("commit record missing playlist name")
	}
	if c.UserID == "" {
		return fmt.Errorf("commit record missing user id")
	}
	return nil
}
