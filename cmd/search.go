package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/mixcart/internal/shared"
	"github.com/urfave/cli/v3"
)

// Search queries the proxy's search endpoint and prints the matching tracks.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if query == "" {
		return fmt.Errorf("%w: a search query is required", shared.ErrMissingArgument)
	}

	r.logger.Info("searching tracks", "query", query)

	tracks, err := r.proxy.Search(ctx, query)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if useJSON {
		return r.writeJSON(tracks, pretty)
	}

	if len(tracks) == 0 {
		return r.writePlain("No tracks found for '%s'\n", query)
	}

	r.writePlain("Found %d tracks:\n\n", len(tracks))
	for i, track := range tracks {
		r.writePlain("%2d. %s by %s", i+1, track.Name, track.ArtistLine())
		if track.Album != "" {
			r.writePlain(" (%s)", track.Album)
		}
		if track.DurationMS > 0 {
			r.writePlain(" [%s]", shared.FormatDuration(track.DurationMS))
		}
		r.writePlain("\n    uri: %s\n", track.PlayableURI())
	}

	return nil
}
