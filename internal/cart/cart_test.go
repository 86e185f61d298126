package cart

import (
	"testing"

	"github.com/desertthunder/mixcart/internal/models"
)

func TestCart(t *testing.T) {
	track := func(id, name string) models.Track {
		return models.Track{ID: id, Name: name}
	}

	t.Run("AddPreservesOrder", func(t *testing.T) {
		c := New()
		c.Add(track("a", "First"))
		c.Add(track("b", "Second"))
		c.Add(track("c", "Third"))

		tracks := c.Tracks()
		if len(tracks) != 3 {
			t.Fatalf("expected 3 tracks, got %d", len(tracks))
		}
		for i, want := range []string{"a", "b", "c"} {
			if tracks[i].ID != want {
				t.Errorf("position %d: expected %s, got %s", i, want, tracks[i].ID)
			}
		}
	})

	t.Run("AddDeduplicates", func(t *testing.T) {
		c := New()
		if !c.Add(track("a", "First")) {
			t.Error("first add should succeed")
		}
		if c.Add(track("a", "First again")) {
			t.Error("second add of the same ID should be rejected")
		}
		if c.Len() != 1 {
			t.Errorf("expected cart size 1, got %d", c.Len())
		}
	})

	t.Run("Remove", func(t *testing.T) {
		c := New()
		c.Add(track("a", "First"))
		c.Add(track("b", "Second"))

		if !c.Remove("a") {
			t.Error("removing a staged track should succeed")
		}
		if c.Remove("a") {
			t.Error("removing an absent track should fail")
		}

		tracks := c.Tracks()
		if len(tracks) != 1 || tracks[0].ID != "b" {
			t.Errorf("expected only b to remain, got %v", tracks)
		}

		if !c.Add(track("a", "First")) {
			t.Error("a removed track should be addable again")
		}
	})

	t.Run("TracksReturnsCopy", func(t *testing.T) {
		c := New()
		c.Add(track("a", "First"))

		tracks := c.Tracks()
		tracks[0].ID = "mutated"

		if c.Tracks()[0].ID != "a" {
			t.Error("mutating the returned slice should not affect the cart")
		}
	})

	t.Run("Clear", func(t *testing.T) {
		c := New()
		c.Add(track("a", "First"))
		c.Clear()

		if c.Len() != 0 {
			t.Errorf("expected empty cart, got %d", c.Len())
		}
		if !c.Add(track("a", "First")) {
			t.Error("cleared IDs should be addable again")
		}
	})
}

func TestURIs(t *testing.T) {
	t.Run("MapsInOrder", func(t *testing.T) {
		tracks := []models.Track{
			{ID: "X"},
			{ID: "ignored", URI: "spotify:track:Y"},
		}

		uris := URIs(tracks)
		want := []string{"spotify:track:X", "spotify:track:Y"}

		if len(uris) != len(want) {
			t.Fatalf("expected %d URIs, got %d", len(want), len(uris))
		}
		for i := range want {
			if uris[i] != want[i] {
				t.Errorf("position %d: expected %s, got %s", i, want[i], uris[i])
			}
		}
	})

	t.Run("SkipsUnplayableTracks", func(t *testing.T) {
		tracks := []models.Track{
			{Name: "no id or uri"},
			{ID: "X"},
		}

		uris := URIs(tracks)
		if len(uris) != 1 || uris[0] != "spotify:track:X" {
			t.Errorf("expected only the playable track, got %v", uris)
		}
	})
}
