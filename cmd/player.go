package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/pbx/internal/formatter"
	"github.com/desertthunder/pbx/internal/models"
	"github.com/desertthunder/pbx/internal/shared"
	"github.com/desertthunder/pbx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Devices lists the registered playback devices.
func (r *Runner) Devices(ctx context.Context, cmd *cli.Command) error {
	if r.player == nil {
		return fmt.Errorf("%w: player not initialized", shared.ErrServiceUnavailable)
	}

	devices := r.player.Devices(ctx, cmd.Bool("fresh"))

	if cmd.Bool("csv") {
		data, err := formatter.DevicesToCSV(devices)
		if err != nil {
			return err
		}
		return r.writePlain("%s", string(data))
	}

	if cmd.Bool("json") {
		return r.writeJSON(devices, cmd.Bool("pretty"))
	}

	if len(devices) == 0 {
		return r.writePlain("No playback devices registered.\n")
	}

	r.writePlain("Found %d devices:\n\n", len(devices))
	for i, d := range devices {
		active := ""
		if d.IsActive {
			active = " (active)"
		}
		r.writePlain("%d. %s%s\n", i+1, d.Name, active)
		r.writePlain("   ID: %s\n", d.ID)
		r.writePlain("   Type: %s\n", d.Type)
		r.writePlain("   Volume: %d%%\n\n", d.VolumePercent)
	}

	return nil
}

// Now shows the currently playing track, optionally falling back to the
// desktop player's window title.
func (r *Runner) Now(ctx context.Context, cmd *cli.Command) error {
	if r.player == nil {
		return fmt.Errorf("%w: player not initialized", shared.ErrServiceUnavailable)
	}

	track := r.player.CurrentTrack(ctx)
	if track.State == models.StatusNotAssigned && cmd.Bool("desktop") && r.player.DesktopRunning(ctx) {
		r.logger.Debug("no API playback, probing desktop window title")
		track = r.player.TrackFromWindowTitle(ctx)
	}

	if cmd.Bool("json") {
		return r.writeJSON(track, cmd.Bool("pretty"))
	}

	switch track.State {
	case models.StatusAdvertisement:
		return r.writePlain("Advertisement playing\n")
	case models.StatusNotAssigned:
		return r.writePlain("Nothing playing\n")
	}

	r.writePlain("%s - %s [%s]\n", track.Artist(), track.Name, track.State)
	if track.Album.Name != "" {
		r.writePlain("Album: %s\n", track.Album.Name)
	}
	if track.DurationMS > 0 {
		r.writePlain("Progress: %s / %s\n",
			shared.FormatDuration(track.ProgressMS), shared.FormatDuration(track.DurationMS))
	}

	return nil
}

// Play launches playback through the device-discovery machine and streams
// progress updates until a terminal state or the wait deadline.
func (r *Runner) Play(ctx context.Context, cmd *cli.Command) error {
	if r.player == nil || r.launcher == nil {
		return fmt.Errorf("%w: player not initialized", shared.ErrServiceUnavailable)
	}

	opts := models.PlaybackOptions{
		DeviceID:       cmd.String("device"),
		TrackID:        cmd.String("track"),
		PlaylistID:     cmd.String("playlist"),
		AlbumID:        cmd.String("album"),
		OffsetPosition: cmd.Int("offset"),
		UserID:         r.creds.Get().UserID,
	}

	if opts.TrackID == "" && opts.PlaylistID == "" && opts.AlbumID == "" {
		return fmt.Errorf("%w: one of --track, --playlist, or --album is required", shared.ErrMissingArgument)
	}

	wait := cmd.Duration("wait")
	if wait <= 0 {
		wait = r.launchBudget()
	}

	progress := make(chan tasks.ProgressUpdate, 50)
	r.launcher.Launch(ctx, opts, progress)

	deadline := time.NewTimer(wait)
	defer deadline.Stop()

	for {
		select {
		case update := <-progress:
			r.writePlain("→ %s\n", update.Message)
			if update.State == tasks.Playing {
				return r.writePlain("✓ Playback confirmed\n")
			}
			if update.State.Terminal() {
				return r.writePlain("⚠ %s\n", update.State)
			}
		case <-deadline.C:
			return r.writePlain("⚠ Gave up waiting for confirmation after %s\n", wait)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// launchBudget bounds how long a play command waits on the progress channel:
// the registration window plus every confirmation poll, with slack for the
// API round trips.
func (r *Runner) launchBudget() time.Duration {
	cfg := tasks.LaunchConfigFrom(r.config.Player)
	polls := time.Duration(cfg.LaunchRetries+1) * cfg.ConfirmDelay
	return cfg.LaunchDelay + polls + 10*time.Second
}

// Track shows a single track, optionally with full artists and audio
// analysis attached.
func (r *Runner) Track(ctx context.Context, cmd *cli.Command) error {
	if r.player == nil {
		return fmt.Errorf("%w: player not initialized", shared.ErrServiceUnavailable)
	}

	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: track id argument is required", shared.ErrMissingArgument)
	}

	track := r.player.TrackByID(ctx, id, cmd.Bool("artists"))
	if track.ID == "" {
		return fmt.Errorf("%w: %s", shared.ErrTrackNotFound, id)
	}

	if cmd.Bool("features") {
		if features := r.player.AudioFeatures(ctx, []string{track.ID}); len(features) > 0 {
			track.Features = &features[0]
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(track, cmd.Bool("pretty"))
	}

	r.writePlain("%s - %s\n", track.Artist(), track.Name)
	if track.Album.Name != "" {
		r.writePlain("Album: %s\n", track.Album.Name)
	}
	r.writePlain("Duration: %s\n", shared.FormatDuration(track.DurationMS))
	if track.Genre != "" {
		r.writePlain("Genre: %s\n", track.Genre)
	}
	if track.Features != nil {
		r.writePlain("Tempo: %.0f  Energy: %.2f  Danceability: %.2f\n",
			track.Features.Tempo, track.Features.Energy, track.Features.Danceability)
	}

	return nil
}

// Recent lists recently played tracks with optional CSV and Markdown export.
func (r *Runner) Recent(ctx context.Context, cmd *cli.Command) error {
	if r.player == nil {
		return fmt.Errorf("%w: player not initialized", shared.ErrServiceUnavailable)
	}

	limit := cmd.Int("limit")
	tracks := r.player.RecentlyPlayed(ctx, limit)

	if base := cmd.String("csv"); base != "" {
		path, err := formatter.WriteTracksCSV(tracks, base)
		if err != nil {
			return err
		}
		r.writePlain("✓ Listing written to %s\n", path)
	}

	if dir := cmd.String("markdown"); dir != "" {
		path, err := formatter.WriteTracksMarkdown("Recently Played", tracks, dir)
		if err != nil {
			return err
		}
		r.writePlain("✓ Listing written to %s\n", path)
	}

	if cmd.Bool("json") {
		return r.writeJSON(tracks, cmd.Bool("pretty"))
	}

	return r.writePlain("%s", string(formatter.TracksToText("Recently Played", tracks)))
}

// Recommend fetches recommendations from seed tracks, artists, and genres.
func (r *Runner) Recommend(ctx context.Context, cmd *cli.Command) error {
	if r.player == nil {
		return fmt.Errorf("%w: player not initialized", shared.ErrServiceUnavailable)
	}

	seeds := models.RecommendationSeeds{
		Tracks:  cmd.StringSlice("track"),
		Artists: cmd.StringSlice("artist"),
		Genres:  cmd.StringSlice("genre"),
		Limit:   cmd.Int("limit"),
		Market:  cmd.String("market"),
	}

	if len(seeds.Tracks) == 0 && len(seeds.Artists) == 0 && len(seeds.Genres) == 0 {
		return fmt.Errorf("%w: at least one of --track, --artist, or --genre is required", shared.ErrMissingArgument)
	}

	tracks := r.player.Recommendations(ctx, seeds)

	if cmd.Bool("json") {
		return r.writeJSON(tracks, cmd.Bool("pretty"))
	}

	return r.writePlain("%s", string(formatter.TracksToText("Recommendations", tracks)))
}

// Search resolves a track from artist and title arguments.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	if r.player == nil {
		return fmt.Errorf("%w: player not initialized", shared.ErrServiceUnavailable)
	}

	artist := cmd.StringArg("artist")
	title := cmd.StringArg("title")
	if artist == "" || title == "" {
		return fmt.Errorf("%w: artist and title arguments are required", shared.ErrMissingArgument)
	}

	track := r.player.SearchTrack(ctx, artist, title)
	if track.ID == "" {
		return fmt.Errorf("%w: %s - %s", shared.ErrTrackNotFound, artist, title)
	}

	if cmd.Bool("json") {
		return r.writeJSON(track, cmd.Bool("pretty"))
	}

	r.writePlain("%s - %s\n", track.Artist(), track.Name)
	r.writePlain("ID: %s\n", track.ID)
	r.writePlain("URI: %s\n", track.URI)
	return nil
}

// Repeat sets repeat to on (track) or off.
func (r *Runner) Repeat(ctx context.Context, cmd *cli.Command) error {
	if r.player == nil {
		return fmt.Errorf("%w: player not initialized", shared.ErrServiceUnavailable)
	}

	state := strings.ToLower(cmd.StringArg("state"))
	var on bool
	switch state {
	case "on", "track":
		on = true
	case "off":
		on = false
	default:
		return fmt.Errorf("%w: state must be on or off, got %q", shared.ErrInvalidArgument, state)
	}

	if err := r.player.SetRepeat(ctx, on); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	return r.writePlain("✓ Repeat %s\n", state)
}

// Web opens the web player on the most specific resource the flags name.
func (r *Runner) Web(ctx context.Context, cmd *cli.Command) error {
	if r.player == nil {
		return fmt.Errorf("%w: player not initialized", shared.ErrServiceUnavailable)
	}

	opts := models.PlaybackOptions{
		TrackID:    cmd.String("track"),
		PlaylistID: cmd.String("playlist"),
		AlbumID:    cmd.String("album"),
	}

	if err := r.player.LaunchWebPlayer(opts); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}

	return r.writePlain("✓ Web player opened\n")
}
