package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/desertthunder/convx/internal/services"
	"github.com/desertthunder/convx/internal/shared"
	"github.com/urfave/cli/v3"
)

// APIGet makes a direct GET request to the conversion service.
func (r *Runner) APIGet(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path argument is required", shared.ErrMissingArgument)
	}

	r.logger.Info("GET request", "path", path)

	payload, err := r.client.Get(ctx, path)
	if err != nil {
		return err
	}

	return r.writePayload(payload, cmd.Bool("pretty"))
}

// APIPost makes a direct POST request with a JSON body.
func (r *Runner) APIPost(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path argument is required", shared.ErrMissingArgument)
	}
	data := cmd.String("data")

	var jsonTest any
	if err := json.Unmarshal([]byte(data), &jsonTest); err != nil {
		return fmt.Errorf("%w: data is not valid JSON: %v", shared.ErrValidation, err)
	}

	r.logger.Info("POST request", "path", path)

	payload, err := r.client.Post(ctx, path, []byte(data))
	if err != nil {
		return err
	}

	return r.writePayload(payload, true)
}

// writePayload prints a classified response body.
func (r *Runner) writePayload(payload *services.Payload, pretty bool) error {
	if payload.Kind == services.PayloadJSON {
		var body any
		if err := payload.Decode(&body); err != nil {
			return err
		}
		return r.writeJSON(body, pretty)
	}

	r.output.Write(payload.Body)
	r.output.Write([]byte("\n"))
	return nil
}
