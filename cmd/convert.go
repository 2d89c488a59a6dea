package main

import (
	"context"
	"strings"

	"github.com/desertthunder/convx/internal/models"
	"github.com/urfave/cli/v3"
)

// Formats lists the conversion catalog grouped by category, in server order.
func (r *Runner) Formats(ctx context.Context, cmd *cli.Command) error {
	fetch := r.catalog.Fetch
	if cmd.Bool("refresh") {
		fetch = r.catalog.Refresh
	}

	catalog, err := fetch(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(catalog, true)
	}

	categories := catalog.Categories()
	if only := strings.ToLower(cmd.String("category")); only != "" {
		categories = []string{only}
	}

	for _, category := range categories {
		r.writePlainHeader(category)
		r.writePlain("in:  %s\n", strings.Join(catalog.InputFormats(category), ", "))
		r.writePlain("out: %s\n", strings.Join(catalog.OutputFormats(category), ", "))
	}

	return nil
}

// Convert uploads a file and creates a conversion job.
//
// Unknown formats produce a warning, not a failure: the catalog is advisory
// and the server is the validation authority. Only a missing file or a missing
// format aborts before the upload.
func (r *Runner) Convert(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	filePath := cmd.StringArg("file")
	inputFormat := strings.ToLower(strings.TrimSpace(cmd.String("from")))
	outputFormat := strings.ToLower(strings.TrimSpace(cmd.String("to")))

	r.warnUnknownFormats(ctx, cmd.String("category"), inputFormat, outputFormat)

	r.logger.Info("submitting conversion", "file", filePath, "from", inputFormat, "to", outputFormat)

	job, err := r.jobs.Submit(ctx, filePath, inputFormat, outputFormat)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		if err := r.writeJSON(job, true); err != nil {
			return err
		}
	} else {
		r.writePlain("✓ Job created: %s\n", job.ID)
		r.writePlain("Status: %s\n", job.Status)
	}

	if cmd.Bool("watch") {
		return r.watchJobs(ctx, models.StatusAll, r.config.PollInterval(), true)
	}
	return nil
}

// warnUnknownFormats checks the requested formats against the cached catalog.
// A catalog fetch failure skips the check silently; submission must not depend
// on the catalog being reachable.
func (r *Runner) warnUnknownFormats(ctx context.Context, category, inputFormat, outputFormat string) {
	catalog, err := r.catalog.Fetch(ctx)
	if err != nil || catalog.Empty() {
		r.logger.Debug("catalog unavailable, skipping format check", "error", err)
		return
	}

	categories := catalog.Categories()
	if category != "" {
		categories = []string{strings.ToLower(category)}
	}

	knownIn, knownOut := false, false
	for _, cat := range categories {
		knownIn = knownIn || catalog.KnownInput(cat, inputFormat)
		knownOut = knownOut || catalog.KnownOutput(cat, outputFormat)
	}

	if !knownIn {
		r.writePlain("⚠ input format %q is not in the catalog, the server may reject it\n", inputFormat)
	}
	if !knownOut {
		r.writePlain("⚠ output format %q is not in the catalog, the server may reject it\n", outputFormat)
	}
}
