// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand handles setup operations for configuration and the local database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize configuration and the local database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}

// authCommand handles authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage authentication",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Log in with email and password",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "email",
						Aliases:  []string{"e"},
						Usage:    "Account email",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "password",
						Aliases: []string{"p"},
						Usage:   "Account password (prompted when omitted)",
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:  "register",
				Usage: "Create an account and log in",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "email",
						Aliases:  []string{"e"},
						Usage:    "Account email",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "password",
						Aliases: []string{"p"},
						Usage:   "Account password (prompted when omitted)",
					},
				},
				Action: r.AuthRegister,
			},
			{
				Name:   "logout",
				Usage:  "Clear the stored session",
				Action: r.AuthLogout,
			},
			{
				Name:  "whoami",
				Usage: "Show the current identity",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "remote",
						Usage: "Fetch the identity from the server instead of the stored session",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.AuthWhoami,
			},
			{
				Name:   "storage",
				Usage:  "Show storage quota usage",
				Action: r.AuthStorage,
			},
		},
	}
}

// formatsCommand lists the server's conversion format catalog.
func formatsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "formats",
		Usage: "List supported conversion formats by category",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "category",
				Usage: "Limit output to one category",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "refresh",
				Usage: "Refetch the catalog instead of using the cache",
			},
		},
		Action: r.Formats,
	}
}

// convertCommand submits a conversion job.
func convertCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "convert",
		Usage: "Upload a file and create a conversion job",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "file"},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "from",
				Aliases:  []string{"i"},
				Usage:    "Input format",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "to",
				Aliases:  []string{"o"},
				Usage:    "Output format",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "category",
				Usage: "Catalog category for the advisory format check",
			},
			&cli.BoolFlag{
				Name:  "watch",
				Usage: "Poll the job until it settles",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output the created job as JSON",
			},
		},
		Action: r.Convert,
	}
}

// jobsCommand handles job listing, inspection and actions.
func jobsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "jobs",
		Aliases: []string{"job"},
		Usage:   "Track and act on conversion jobs",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List jobs, optionally filtered by status",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "status",
						Aliases: []string{"s"},
						Usage:   "Filter: pending, processing, completed, failed, cancelled or all",
						Value:   "all",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.StringFlag{
						Name:  "export",
						Usage: "Write the listing to a file (csv, md or txt)",
					},
				},
				Action: r.JobsList,
			},
			{
				Name:  "show",
				Usage: "Show one job in full",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.JobsShow,
			},
			{
				Name:   "stats",
				Usage:  "Summarize jobs per status",
				Action: r.JobsStats,
			},
			{
				Name:  "cancel",
				Usage: "Request cancellation of a job",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "yes",
						Aliases: []string{"y"},
						Usage:   "Skip the confirmation prompt",
					},
				},
				Action: r.JobsCancel,
			},
			{
				Name:  "download",
				Usage: "Download the result of a completed job",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (defaults to the server-suggested name)",
					},
				},
				Action: r.JobsDownload,
			},
			{
				Name:  "watch",
				Usage: "Poll the job list and print each snapshot",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "status",
						Aliases: []string{"s"},
						Usage:   "Filter: pending, processing, completed, failed, cancelled or all",
						Value:   "all",
					},
					&cli.IntFlag{
						Name:  "interval",
						Usage: "Polling interval in seconds (defaults to the configured value)",
					},
					&cli.BoolFlag{
						Name:  "until-settled",
						Usage: "Stop once every job is terminal",
					},
				},
				Action: r.JobsWatch,
			},
		},
	}
}

// apiCommand handles direct API calls against the conversion service.
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct API calls to the conversion service",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET, prints raw JSON",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.APIGet,
			},
			{
				Name:  "post",
				Usage: "Direct POST with JSON body",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "JSON body to send",
						Required: true,
					},
				},
				Action: r.APIPost,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive job tracking.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for job tracking",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "status",
				Aliases: []string{"s"},
				Usage:   "Initial status filter",
				Value:   "all",
			},
		},
		Action: r.TUI,
	}
}
