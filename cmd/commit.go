package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/mixcart/internal/models"
	"github.com/desertthunder/mixcart/internal/repositories"
	"github.com/desertthunder/mixcart/internal/shared"
	"github.com/desertthunder/mixcart/internal/tasks"
	"github.com/urfave/cli/v3"
)

// CommitTracks performs a one-shot playlist commit from the command line.
//
// Each --track value is either a bare track ID or a full spotify:track: URI.
// The commit requires authorization and runs the same ordered sequence the
// TUI uses, printing each step as it happens.
func (r *Runner) CommitTracks(ctx context.Context, cmd *cli.Command) error {
	trackArgs := cmd.StringSlice("track")
	name := cmd.String("name")
	useJSON := cmd.Bool("json")

	if len(trackArgs) == 0 {
		return fmt.Errorf("%w: at least one --track is required", shared.ErrMissingArgument)
	}

	if _, err := r.doOAuth(ctx, defaultAuthTimeout); err != nil {
		return err
	}

	tracks := make([]models.Track, 0, len(trackArgs))
	for _, arg := range trackArgs {
		arg = strings.TrimSpace(arg)
		if arg == "" {
			continue
		}
		if strings.HasPrefix(arg, "spotify:") {
			tracks = append(tracks, models.Track{URI: arg})
		} else {
			tracks = append(tracks, models.Track{ID: arg})
		}
	}

	r.logger.Info("committing tracks", "count", len(tracks), "name", name)

	progressCh := make(chan tasks.ProgressUpdate, 16)
	go func() {
		for update := range progressCh {
			r.writePlain("[%d/%d] %s\n", update.Step, update.Total, update.Message)
		}
	}()

	result, err := r.committer.Commit(ctx, name, tracks, progressCh)
	close(progressCh)

	if result != nil {
		r.recordCommit(result)
	}

	if err != nil {
		if result != nil && result.Partial {
			r.writePlainln("✗ Playlist '%s' was created but no tracks were added.", result.Playlist.Name)
			r.writePlain("It exists in your account, empty. No cleanup was performed.\n")
		}
		return err
	}

	if useJSON {
		return r.writeJSON(result, true)
	}

	r.writePlainHeader("Playlist Created!")
	r.writePlain("Name: %s\n", result.Playlist.Name)
	r.writePlain("Tracks: %d\n", result.TrackCount)
	if result.Skipped > 0 {
		r.writePlain("Skipped (no playable URI): %d\n", result.Skipped)
	}
	if result.Playlist.URL != "" {
		r.writePlain("Link: %s\n", result.Playlist.URL)
	}

	return nil
}

// recordCommit persists the outcome to the history database. History is
// best-effort; a storage failure never fails the commit itself.
func (r *Runner) recordCommit(result *tasks.CommitResult) {
	if result.Playlist == nil {
		return
	}

	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		r.logger.Warnf("history unavailable: %v", err)
		return
	}
	defer db.Close()

	if err := shared.RunMigrations(db); err != nil {
		r.logger.Warnf("history unavailable: %v", err)
		return
	}

	record := &models.CommitRecord{
		PlaylistID:   result.Playlist.ID,
		PlaylistName: result.Playlist.Name,
		PlaylistURL:  result.Playlist.URL,
		UserID:       result.UserID,
		TrackCount:   result.TrackCount,
		Partial:      result.Partial,
	}

	repo := repositories.NewCommitRepository(db)
	if err := repo.Create(record); err != nil {
		r.logger.Warnf("failed to record commit: %v", err)
		return
	}

	r.logger.Debug("commit recorded", "id", record.ID)
}

// openHistory opens the history database for read commands.
func (r *Runner) openHistory() (*repositories.CommitRepository, func(), error) {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return repositories.NewCommitRepository(db), func() { db.Close() }, nil
}
