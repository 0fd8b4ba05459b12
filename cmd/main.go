package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/pbx/internal/auth"
	"github.com/desertthunder/pbx/internal/cache"
	"github.com/desertthunder/pbx/internal/client"
	"github.com/desertthunder/pbx/internal/player"
	"github.com/desertthunder/pbx/internal/repositories"
	"github.com/desertthunder/pbx/internal/shared"
	"github.com/desertthunder/pbx/internal/tasks"
	"github.com/urfave/cli/v3"
)

const configPath = "config.toml"

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat(configPath); err == nil {
		if loaded, err := shared.LoadConfig(configPath); err == nil {
			config = loaded
		} else {
			logger.Warn("failed to load config, using defaults", "error", err)
		}
	}

	creds := auth.NewStore(auth.Credential{})

	var sessions *repositories.SessionRepository
	if db, err := shared.NewDatabase(config.Database.Path); err == nil {
		shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
		if err := repositories.Migrate(db); err != nil {
			logger.Warn("migrations failed, sessions unavailable", "error", err)
		} else {
			sessions = repositories.NewSessionRepository(db)
			if session, err := sessions.Latest(); err == nil {
				creds.Set(repositories.Credential(session))
			}
		}
	} else {
		logger.Debug("database unavailable", "error", err)
	}

	oauthConfig := auth.OAuthConfig(config.Credentials.Spotify)
	refresher := auth.NewTokenRefresher(oauthConfig, creds)

	api := client.New("", nil, creds, logger)
	svc := player.NewService(player.Opts{
		API:       api,
		Cache:     cache.New(),
		Creds:     creds,
		Refresher: refresher,
		Desktop:   player.NewExecDesktopPlayer(),
		Logger:    logger,
	})

	launcher := tasks.NewLauncher(svc, nil, tasks.LaunchConfigFrom(config.Player), logger)

	var sessionStore SessionStore
	if sessions != nil {
		sessionStore = sessions
	}

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Player:     svc,
		Launcher:   launcher,
		Creds:      creds,
		Sessions:   sessionStore,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "pbx",
		Usage:    "Control Spotify playback from the terminal",
		Version:  "0.1.0",
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
