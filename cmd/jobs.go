package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/desertthunder/convx/internal/formatter"
	"github.com/desertthunder/convx/internal/models"
	"github.com/desertthunder/convx/internal/shared"
	"github.com/desertthunder/convx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// JobsList lists jobs, optionally filtered by status and exported to a file.
func (r *Runner) JobsList(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	status, err := models.ParseJobStatus(cmd.String("status"))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidFlag, err)
	}

	jobs, err := r.jobs.List(ctx, status)
	if err != nil {
		return err
	}

	if path := cmd.String("export"); path != "" {
		written, err := formatter.WriteExport(jobs, path)
		if err != nil {
			return err
		}
		r.writePlain("✓ Exported %d jobs to %s\n", len(jobs), written)
		return nil
	}

	if cmd.Bool("json") {
		return r.writeJSON(jobs, true)
	}

	if len(jobs) == 0 {
		r.writePlain("No jobs found\n")
		return nil
	}

	r.printJobs(jobs)
	return nil
}

// JobsShow prints one job in full.
func (r *Runner) JobsShow(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: job id is required", shared.ErrMissingArgument)
	}

	job, err := r.jobs.Get(ctx, id)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(job, true)
	}

	r.writePlainHeader(fmt.Sprintf("Job %s", job.ID))
	r.writePlain("File: %s (%s → %s)\n", job.InputFilename, job.InputFormat, job.OutputFormat)
	r.writePlain("Status: %s (%d%%)\n", job.Status, job.Progress)
	r.writePlain("Created: %s\n", job.CreatedAt.Format("2006-01-02 15:04:05"))
	if job.StartedAt != nil {
		r.writePlain("Started: %s\n", job.StartedAt.Format("2006-01-02 15:04:05"))
	}
	if job.CompletedAt != nil {
		r.writePlain("Completed: %s\n", job.CompletedAt.Format("2006-01-02 15:04:05"))
	}
	if job.ToolUsed != "" {
		r.writePlain("Tool: %s\n", job.ToolUsed)
	}
	if job.ErrorMessage != "" {
		r.writePlain("Error: %s\n", job.ErrorMessage)
	}
	return nil
}

// JobsStats prints a per-status summary of the job collection.
func (r *Runner) JobsStats(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	jobs, err := r.jobs.List(ctx, models.StatusAll)
	if err != nil {
		return err
	}

	summary := tasks.Summarize(jobs)
	r.writePlainHeader("Jobs")
	r.writePlain("Total: %d\n", summary.Total)
	r.writePlain("Pending: %d  Processing: %d\n", summary.Pending, summary.Processing)
	r.writePlain("Completed: %d  Failed: %d  Cancelled: %d\n", summary.Completed, summary.Failed, summary.Cancelled)
	return nil
}

// JobsCancel requests cancellation of a job after an interactive confirmation.
// The cached listing is never patched locally; the next poll shows the result.
func (r *Runner) JobsCancel(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: job id is required", shared.ErrMissingArgument)
	}

	job, err := r.jobs.Get(ctx, id)
	if err != nil {
		return err
	}

	if job.Status.Terminal() {
		return fmt.Errorf("%w: job %s is already %s", shared.ErrJobTerminal, id, job.Status)
	}

	if !cmd.Bool("yes") {
		if !r.confirm(fmt.Sprintf("Cancel job %s (%s, %s)?", job.ID, job.InputFilename, job.Status)) {
			r.writePlain("Aborted\n")
			return nil
		}
	}

	cancelled, err := r.jobs.Cancel(ctx, id)
	if err != nil {
		return err
	}

	r.writePlain("✓ Cancellation requested, server reports status: %s\n", cancelled.Status)
	return nil
}

// JobsDownload fetches the result of a completed job and writes it to disk.
func (r *Runner) JobsDownload(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: job id is required", shared.ErrMissingArgument)
	}

	job, err := r.jobs.Get(ctx, id)
	if err != nil {
		return err
	}

	if job.Status != models.StatusCompleted {
		return fmt.Errorf("%w: job %s is %s", shared.ErrJobNotCompleted, id, job.Status)
	}

	r.logger.Info("downloading result", "job", id)

	data, err := r.jobs.Download(ctx, id)
	if err != nil {
		return err
	}

	outputPath := cmd.String("output")
	if outputPath == "" {
		outputPath = job.SuggestedFilename()
	}

	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}

	r.writePlain("✓ Saved %d bytes to %s\n", len(data), outputPath)
	return nil
}

// JobsWatch polls the job list and prints each snapshot until interrupted, or
// until every job is terminal with --until-settled.
func (r *Runner) JobsWatch(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	status, err := models.ParseJobStatus(cmd.String("status"))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidFlag, err)
	}

	interval := r.config.PollInterval()
	if secs := cmd.Int("interval"); secs > 0 {
		interval = time.Duration(secs) * time.Second
	}

	return r.watchJobs(ctx, status, interval, cmd.Bool("until-settled") || r.config.Polling.StopWhenSettled)
}

// watchJobs runs a headless polling cycle, printing each update.
func (r *Runner) watchJobs(ctx context.Context, filter models.JobStatus, interval time.Duration, untilSettled bool) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	progress := make(chan tasks.PollUpdate, 16)
	r.poller.Start(ctx, progress, tasks.PollOptions{
		Filter:          filter,
		Interval:        interval,
		RateLimit:       r.config.Polling.RateLimit,
		StopWhenSettled: untilSettled,
	})
	defer r.poller.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update := <-progress:
			switch update.Phase {
			case tasks.Warning:
				r.logger.Warn("poll failed, keeping last snapshot", "error", update.Err)
			case tasks.Snapshot:
				r.writePlain("\n%s\n", update.Message)
				r.printJobs(update.Jobs)
			case tasks.Settled:
				r.writePlain("\n%s\n", update.Message)
				return nil
			}
		}
	}
}

// printJobs writes a fixed-width job table.
func (r *Runner) printJobs(jobs []models.Job) {
	r.writePlain("%-36s  %-24s  %-10s  %-10s  %4s\n", "ID", "FILE", "CONVERT", "STATUS", "PROG")
	for _, job := range jobs {
		name := job.InputFilename
		if len(name) > 24 {
			name = name[:21] + "..."
		}
		r.writePlain("%-36s  %-24s  %-10s  %-10s  %3d%%\n",
			job.ID, name, job.InputFormat+"→"+job.OutputFormat, job.Status, job.Progress)
	}
}
