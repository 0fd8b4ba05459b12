package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/pbx/internal/auth"
	"github.com/desertthunder/pbx/internal/models"
	"github.com/desertthunder/pbx/internal/shared"
	"github.com/desertthunder/pbx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// PlayerService is the slice of the playback layer the commands drive.
type PlayerService interface {
	Devices(ctx context.Context, bypassCache bool) []models.PlayerDevice
	CurrentTrack(ctx context.Context) models.Track
	Context(ctx context.Context, bypassCache bool) models.PlayerContext
	TrackByID(ctx context.Context, id string, includeArtists bool) models.Track
	AudioFeatures(ctx context.Context, ids []string) []models.AudioFeatures
	RecentlyPlayed(ctx context.Context, limit int) []models.Track
	Recommendations(ctx context.Context, seeds models.RecommendationSeeds) []models.Track
	SearchTrack(ctx context.Context, artist, title string) models.Track
	SetRepeat(ctx context.Context, on bool) error
	LaunchWebPlayer(opts models.PlaybackOptions) error
	Me(ctx context.Context) (string, error)
	DesktopRunning(ctx context.Context) bool
	TrackFromWindowTitle(ctx context.Context) models.Track
}

// SessionStore persists credentials across CLI invocations.
type SessionStore interface {
	SaveCredential(cred auth.Credential) error
	Latest() (*models.Session, error)
	Delete(userID string) error
}

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	player     PlayerService
	launcher   *tasks.Launcher
	creds      *auth.Store
	sessions   SessionStore
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Player     PlayerService
	Launcher   *tasks.Launcher
	Creds      *auth.Store
	Sessions   SessionStore
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
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
	if opts.Creds == nil {
		opts.Creds = auth.NewStore(auth.Credential{})
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		player:     opts.Player,
		launcher:   opts.Launcher,
		creds:      opts.Creds,
		sessions:   opts.Sessions,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

// SetLogger swaps the runner's logger, used when the TUI redirects logging to a file.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, devicesCommand, nowCommand, playCommand, trackCommand,
		recentCommand, recommendCommand, searchCommand, repeatCommand, webCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

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
