package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/convx/internal/models"
	"github.com/desertthunder/convx/internal/shared"
	"github.com/desertthunder/convx/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI for job tracking.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	status, err := models.ParseJobStatus(cmd.String("status"))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidFlag, err)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/convx-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	model := ui.NewModel(ctx, r.jobs, r.poller, ui.Options{
		Filter:    status,
		Interval:  r.config.PollInterval(),
		RateLimit: r.config.Polling.RateLimit,
	})
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
