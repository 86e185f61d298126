package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/mixcart/internal/cart"
	"github.com/desertthunder/mixcart/internal/shared"
	"github.com/desertthunder/mixcart/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive cart builder.
//
// Authorization happens up front so the commit step never stalls mid-TUI
// waiting for a browser redirect.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if r.spotify == nil {
		return fmt.Errorf("%w: Spotify client not initialized", shared.ErrServiceUnavailable)
	}

	if _, err := r.doOAuth(ctx, defaultAuthTimeout); err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	logPath := filepath.Join("tmp", "mixcart-tui.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err == nil {
		if logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err == nil {
			defer logFile.Close()
			r.SetLogger(shared.NewLogger(logFile))
		}
	}

	model := ui.NewModel(ctx, r.proxy, r.committer, cart.New())
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
