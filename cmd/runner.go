package main

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/convx/internal/services"
	"github.com/desertthunder/convx/internal/session"
	"github.com/desertthunder/convx/internal/shared"
	"github.com/desertthunder/convx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config   *shared.Config
	client   *services.Client
	auth     *services.AuthService
	catalog  *services.CatalogService
	jobs     *services.JobsService
	sessions *session.Store
	poller   *tasks.Poller
	logger   *log.Logger
	output   io.Writer
	input    io.Reader
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	Client     *services.Client
	Auth       *services.AuthService
	Catalog    *services.CatalogService
	Jobs       *services.JobsService
	Sessions   *session.Store
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	Input      io.Reader
}

// NewRunner creates a new Runner with the provided configuration.
//
// Any dependency left nil is constructed from the config: the session store is
// memory-only, and the service clients share one transport.
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Config.Timeout()}
	}
	if opts.Sessions == nil {
		opts.Sessions = session.NewStore(nil)
	}
	if opts.Client == nil {
		opts.Client = services.NewClient(opts.Config.BaseURL(), opts.HTTPClient, opts.Sessions)
	}
	if opts.Auth == nil {
		opts.Auth = services.NewAuthService(opts.Client, opts.Sessions)
	}
	if opts.Catalog == nil {
		opts.Catalog = services.NewCatalogService(opts.Client)
	}
	if opts.Jobs == nil {
		opts.Jobs = services.NewJobsService(opts.Client)
	}

	return &Runner{
		config:   opts.Config,
		client:   opts.Client,
		auth:     opts.Auth,
		catalog:  opts.Catalog,
		jobs:     opts.Jobs,
		sessions: opts.Sessions,
		poller:   tasks.NewPoller(opts.Jobs),
		logger:   opts.Logger,
		output:   opts.Output,
		input:    opts.Input,
	}
}

// SetLogger swaps the runner's logger, e.g. to a file logger while the TUI owns the terminal.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, formatsCommand, convertCommand, jobsCommand, apiCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

// confirm prompts on output and reads a y/n answer from input.
// Anything other than y/yes counts as a refusal.
func (r *Runner) confirm(prompt string) bool {
	r.writePlain("%s [y/N]: ", prompt)

	scanner := bufio.NewScanner(r.input)
	if !scanner.Scan() {
		return false
	}

	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
}

// requireAuth fails fast with a hint instead of letting the server reject the call.
func (r *Runner) requireAuth() error {
	if !r.sessions.Authenticated() {
		return fmt.Errorf("%w: run 'convx auth login' first", shared.ErrNotAuthenticated)
	}
	return nil
}
