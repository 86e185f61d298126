// package cart implements the transient staging area for tracks before a playlist commit.
package cart

import (
	"sync"

	"github.com/desertthunder/mixcart/internal/models"
)

// Cart is an ordered, deduplicated staging area for tracks.
//
// A track already present (matched by ID) is never added twice. The cart is
// ephemeral: it lives for one session and is never persisted.
type Cart struct {
	mu     sync.Mutex
	tracks []models.Track
	seen   map[string]struct{}
}

// New creates an empty Cart.
func New() *Cart {
	return &Cart{seen: make(map[string]struct{})}
}

// Add stages a track, preserving insertion order. Returns false when a track
// with the same ID is already staged.
func (c *Cart) Add(track models.Track) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, dup := c.seen[track.ID]; dup {
		return false
	}
	c.seen[track.ID] = struct{}{}
	c.tracks = append(c.tracks, track)
	return true
}

// Remove drops the track with the given ID. Returns false when it was not staged.
func (c *Cart) Remove(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.seen[id]; !ok {
		return false
	}
	delete(c.seen, id)
	for i, t := range c.tracks {
		if t.ID == id {
			c.tracks = append(c.tracks[:i], c.tracks[i+1:]...)
			break
		}
	}
	return true
}

// Tracks returns a copy of the staged tracks in insertion order.
func (c *Cart) Tracks() []models.Track {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]models.Track, len(c.tracks))
	copy(out, c.tracks)
	return out
}

// Len returns the number of staged tracks.
func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tracks)
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tracks = nil
	c.seen = make(map[string]struct{})
}

// URIs maps the staged tracks to playable URIs, dropping any track that
// yields neither an explicit URI nor an ID.
func (c *Cart) URIs() []string {
	return URIs(c.Tracks())
}

// URIs maps tracks to playable URIs in order, skipping tracks without one.
func URIs(tracks []models.Track) []string {
	uris := make([]string, 0, len(tracks))
	for _, t := range tracks {
		if uri := t.PlayableURI(); uri != "" {
			uris = append(uris, uri)
		}
	}
	return uris
}
