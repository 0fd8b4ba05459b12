package tasks

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/pbx/internal/models"
	"github.com/desertthunder/pbx/internal/shared"
)

// Player defines the playback operations the launcher orchestrates.
// This abstraction allows for easier testing and decoupling from the
// concrete player implementation.
type Player interface {
	// Devices lists playback devices; bypassCache forces a fresh fetch.
	Devices(ctx context.Context, bypassCache bool) []models.PlayerDevice

	// CurrentTrack returns the currently playing track.
	CurrentTrack(ctx context.Context) models.Track

	// Play issues a play command built from opts.
	Play(ctx context.Context, opts models.PlaybackOptions) error

	// LaunchWebPlayer opens the web player on the resource opts names.
	LaunchWebPlayer(opts models.PlaybackOptions) error
}

// Scheduler schedules a function to run after a delay. Tests substitute a
// synchronous implementation so the machine runs without wall-clock waits.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func())
}

// TimerScheduler implements [Scheduler] with [time.AfterFunc].
type TimerScheduler struct{}

func (TimerScheduler) AfterFunc(d time.Duration, fn func()) {
	time.AfterFunc(d, fn)
}

// LaunchConfig tunes the launch machine's retry budgets and delays.
type LaunchConfig struct {
	LaunchRetries int           // Confirmation attempts after a fresh web launch
	DeviceRetries int           // Confirmation attempts with a pre-existing device
	LaunchDelay   time.Duration // Registration window after opening the web player
	ConfirmDelay  time.Duration // Delay between confirmation polls
}

// DefaultLaunchConfig returns the standard budgets: five attempts after a
// web launch (device registration is slow), two otherwise.
func DefaultLaunchConfig() LaunchConfig {
	return LaunchConfig{
		LaunchRetries: 5,
		DeviceRetries: 2,
		LaunchDelay:   5 * time.Second,
		ConfirmDelay:  2 * time.Second,
	}
}

// LaunchConfigFrom maps the player section of the application config onto a
// LaunchConfig, substituting defaults for unset fields.
func LaunchConfigFrom(cfg shared.PlayerConfig) LaunchConfig {
	result := DefaultLaunchConfig()
	if cfg.LaunchRetries > 0 {
		result.LaunchRetries = cfg.LaunchRetries
	}
	if cfg.DeviceRetries > 0 {
		result.DeviceRetries = cfg.DeviceRetries
	}
	if cfg.LaunchDelay > 0 {
		result.LaunchDelay = time.Duration(cfg.LaunchDelay) * time.Second
	}
	if cfg.ConfirmDelay > 0 {
		result.ConfirmDelay = time.Duration(cfg.ConfirmDelay) * time.Second
	}
	return result
}

// Launcher drives the playback-launch state machine.
//
// Launches are idempotent: a second Launch while a confirmation loop is
// outstanding starts an independent loop, and re-issuing the same play
// command has no destructive effect. There is no cancellation API beyond the
// context; a cancelled context quietly stops future scheduled steps.
type Launcher struct {
	player Player
	sched  Scheduler
	config LaunchConfig
	logger *log.Logger
}

// NewLauncher creates a Launcher. Scheduler, config, and logger default when
// zero-valued.
func NewLauncher(player Player, sched Scheduler, config LaunchConfig, logger *log.Logger) *Launcher {
	if sched == nil {
		sched = TimerScheduler{}
	}
	if config == (LaunchConfig{}) {
		config = DefaultLaunchConfig()
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Launcher{player: player, sched: sched, config: config, logger: logger}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks the
// machine.
func (l *Launcher) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Launch starts the device-discovery and playback-confirmation machine for
// opts. It returns once the first play command has been issued or scheduled;
// terminal states arrive on the progress channel.
//
// A caller-supplied device id skips discovery entirely: the command goes to
// that device with the existing-device retry budget. Otherwise discovery
// always bypasses the cache: device state is exactly what a launch expects
// to have just changed.
func (l *Launcher) Launch(ctx context.Context, opts models.PlaybackOptions, progress chan<- ProgressUpdate) {
	if opts.DeviceID != "" {
		l.issuePlay(ctx, opts, opts.DeviceID, l.config.DeviceRetries, progress)
		return
	}

	devices := l.player.Devices(ctx, true)
	if len(devices) > 0 {
		l.issuePlay(ctx, opts, devices[0].ID, l.config.DeviceRetries, progress)
		return
	}

	l.sendProgress(progress, noDeviceUpdate())
	if err := l.player.LaunchWebPlayer(opts); err != nil {
		l.logger.Warn("web player launch failed", "error", err)
	}
	l.sendProgress(progress, launchingUpdate())

	l.sched.AfterFunc(l.config.LaunchDelay, func() {
		l.rediscover(ctx, opts, progress)
	})
}

// rediscover runs after the registration window following a web launch.
// A device that registered in the meantime scopes the play command; when
// none did, the command is issued unscoped and confirmation decides the
// outcome.
func (l *Launcher) rediscover(ctx context.Context, opts models.PlaybackOptions, progress chan<- ProgressUpdate) {
	if ctx.Err() != nil {
		return
	}

	l.sendProgress(progress, awaitingUpdate())

	deviceID := ""
	if devices := l.player.Devices(ctx, true); len(devices) > 0 {
		deviceID = devices[0].ID
	}
	l.issuePlay(ctx, opts, deviceID, l.config.LaunchRetries, progress)
}

// issuePlay sends the play command and schedules a confirmation poll.
// A failed command is abandoned silently; the scheduled poll either observes
// playback anyway or re-issues the command.
func (l *Launcher) issuePlay(ctx context.Context, opts models.PlaybackOptions, deviceID string, remaining int, progress chan<- ProgressUpdate) {
	if ctx.Err() != nil {
		return
	}

	opts.DeviceID = deviceID
	if err := l.player.Play(ctx, opts); err != nil {
		l.logger.Debug("play command failed", "device", deviceID, "error", err)
	}
	l.sendProgress(progress, playIssuedUpdate(remaining))

	l.sched.AfterFunc(l.config.ConfirmDelay, func() {
		l.confirm(ctx, opts, remaining, progress)
	})
}

// confirm polls the current track. Playing is terminal success; otherwise
// the command is re-issued with one fewer attempt remaining until the budget
// runs out, which is a terminal non-error: the track may legitimately start
// outside this observation window.
func (l *Launcher) confirm(ctx context.Context, opts models.PlaybackOptions, remaining int, progress chan<- ProgressUpdate) {
	if ctx.Err() != nil {
		return
	}

	track := l.player.CurrentTrack(ctx)
	if track.State == models.StatusPlaying {
		l.sendProgress(progress, playingUpdate())
		return
	}

	if remaining <= 0 {
		l.logger.Debug("confirmation budget exhausted", "track", opts.TrackID)
		l.sendProgress(progress, notConfirmedUpdate())
		return
	}

	l.issuePlay(ctx, opts, opts.DeviceID, remaining-1, progress)
}
