package main

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/desertthunder/convx/internal/repositories"
	"github.com/desertthunder/convx/internal/services"
	"github.com/desertthunder/convx/internal/session"
	"github.com/desertthunder/convx/internal/shared"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
)

func main() {
	godotenv.Load()

	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config.toml, using defaults", "error", err)
		}
	}

	// Session persistence is best effort: without a database the client still
	// works, it just forgets the session when the process exits.
	store := session.NewStore(nil)
	if db, err := shared.NewDatabaseFromConfig(config.Database); err != nil {
		logger.Warn("session persistence unavailable", "error", err)
	} else {
		defer db.Close()
		if err := shared.RunMigrations(db); err != nil {
			logger.Warn("session persistence unavailable", "error", err)
		} else {
			store = session.NewStore(repositories.NewSessionRepository(db))
			if err := store.Hydrate(); err != nil {
				logger.Warn("failed to restore session", "error", err)
			}
		}
	}

	httpClient := &http.Client{Timeout: config.Timeout()}
	client := services.NewClient(config.BaseURL(), httpClient, store)

	runner := NewRunner(RunnerOpts{
		Config:     config,
		Client:     client,
		Sessions:   store,
		HTTPClient: httpClient,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "convx",
		Usage:    "Submit, track and download file conversion jobs",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
