package main

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/convx/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthLogin exchanges credentials for a session and persists it.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	email := cmd.String("email")
	password, err := r.password(cmd)
	if err != nil {
		return err
	}

	r.logger.Info("logging in", "email", email)

	sess, err := r.auth.Login(ctx, email, password)
	if err != nil {
		return err
	}

	r.writePlain("✓ Logged in as %s\n", sess.Identity.Email)
	if sess.Identity.IsAdmin() {
		r.writePlain("Role: admin\n")
	}
	return nil
}

// AuthRegister creates an account; a successful registration logs in directly.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	email := cmd.String("email")
	password, err := r.password(cmd)
	if err != nil {
		return err
	}

	r.logger.Info("registering account", "email", email)

	sess, err := r.auth.Register(ctx, email, password)
	if err != nil {
		return err
	}

	r.writePlain("✓ Account created, logged in as %s\n", sess.Identity.Email)
	return nil
}

// AuthLogout clears the stored session wholesale.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if !r.sessions.Authenticated() {
		r.writePlain("Not logged in\n")
		return nil
	}

	if err := r.auth.Logout(); err != nil {
		return err
	}

	r.writePlain("✓ Logged out\n")
	return nil
}

// AuthWhoami shows the current identity, from the stored session by default or
// from the server with --remote.
func (r *Runner) AuthWhoami(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	sess, _ := r.sessions.Current()
	id := sess.Identity
	if cmd.Bool("remote") {
		remote, err := r.auth.Me(ctx)
		if err != nil {
			return err
		}
		id = remote
	}

	if cmd.Bool("json") {
		return r.writeJSON(id, true)
	}

	r.writePlain("Email: %s\n", id.Email)
	if id.Username != "" {
		r.writePlain("Username: %s\n", id.Username)
	}
	r.writePlain("Role: %s\n", id.Role)
	return nil
}

// AuthStorage shows storage quota usage for the current user.
func (r *Runner) AuthStorage(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	info, err := r.auth.Storage(ctx)
	if err != nil {
		return err
	}

	r.writePlainHeader("Storage")
	r.writePlain("Used: %d / %d bytes (%.1f%%)\n", info.Used, info.Quota, info.Percentage)
	r.writePlain("Available: %d bytes\n", info.Available)
	return nil
}

// password returns the --password flag value or prompts for one.
func (r *Runner) password(cmd *cli.Command) (string, error) {
	if pw := cmd.String("password"); pw != "" {
		return pw, nil
	}

	r.writePlain("Password: ")
	scanner := bufio.NewScanner(r.input)
	if !scanner.Scan() {
		return "", fmt.Errorf("%w: password is required", shared.ErrMissingArgument)
	}

	pw := strings.TrimSpace(scanner.Text())
	if pw == "" {
		return "", fmt.Errorf("%w: password is required", shared.ErrMissingArgument)
	}
	return pw, nil
}
