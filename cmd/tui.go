package main

import (
	"context"
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/aerial/internal/shared"
	"github.com/desertthunder/aerial/internal/spotify"
	"github.com/desertthunder/aerial/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive playback remote.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	logPath := filepath.Join(filepath.Dir(shared.ExpandHome(r.config.Cache.Path)), "tui.log")
	fileLogger, logFile, err := shared.NewFileLogger(logPath)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	defer logFile.Close()
	fileLogger.SetLevel(r.logger.GetLevel())
	r.SetLogger(fileLogger)

	return r.withPlayer(ctx, func(ctx context.Context, p *spotify.Player) error {
		model := ui.NewModel(ctx, p)
		if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
			return fmt.Errorf("error running TUI: %w", err)
		}
		return nil
	})
}
