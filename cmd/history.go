package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/mixcart/internal/shared"
	"github.com/urfave/cli/v3"
)

// HistoryList prints recent commit records, newest first.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	limit := cmd.Int("limit")
	useJSON := cmd.Bool("json")

	repo, closeDB, err := r.openHistory()
	if err != nil {
		return err
	}
	defer closeDB()

	records, err := repo.List(limit)
	if err != nil {
		return err
	}

	if useJSON {
		return r.writeJSON(records, true)
	}

	if len(records) == 0 {
		return r.writePlain("No commits recorded yet.\n")
	}

	r.writePlain("Found %d commits:\n\n", len(records))
	for _, record := range records {
		marker := "✓"
		if record.Partial {
			marker = "◐"
		}
		r.writePlain("%s %s  %s (%d tracks)\n", marker, record.ID, record.PlaylistName, record.TrackCount)
		r.writePlain("    created %s\n", record.CreatedAt.Format("2006-01-02 15:04"))
	}

	return nil
}

// HistoryShow prints a single commit record.
func (r *Runner) HistoryShow(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: a record id is required", shared.ErrMissingArgument)
	}

	repo, closeDB, err := r.openHistory()
	if err != nil {
		return err
	}
	defer closeDB()

	record, err := repo.Get(id)
	if err != nil {
		return err
	}

	r.writePlain("ID: %s\n", record.ID)
	r.writePlain("Playlist: %s (%s)\n", record.PlaylistName, record.PlaylistID)
	if record.PlaylistURL != "" {
		r.writePlain("Link: %s\n", record.PlaylistURL)
	}
	r.writePlain("User: %s\n", record.UserID)
	r.writePlain("Tracks: %d\n", record.TrackCount)
	if record.Partial {
		r.writePlain("Outcome: partial (playlist created, tracks not attached)\n")
	} else {
		r.writePlain("Outcome: complete\n")
	}
	r.writePlain("Created: %s\n", record.CreatedAt.Format("2006-01-02 15:04:05"))

	return nil
}

// HistoryDelete removes a commit record.
func (r *Runner) HistoryDelete(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: a record id is required", shared.ErrMissingArgument)
	}

	repo, closeDB, err := r.openHistory()
	if err != nil {
		return err
	}
	defer closeDB()

	if err := repo.Delete(id); err != nil {
		return err
	}

	r.logger.Info("commit record deleted", "id", id)
	return r.writePlain("✓ Deleted %s\n", id)
}
