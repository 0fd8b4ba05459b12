package player

import (
	"context"
	"os/exec"
	"strings"

	"github.com/desertthunder/pbx/internal/models"
	"github.com/desertthunder/pbx/internal/shared"
)

const windowTitleMarker = "Window Title:"

// DesktopPlayer observes the local desktop player process. Implementations
// are opaque string-in/string-out calls with no retry semantics of their own.
type DesktopPlayer interface {
	// Running reports whether the desktop player process is active.
	Running(ctx context.Context) bool

	// WindowTitle returns the player's current window title, typically
	// "Artist - Song" while something is playing.
	WindowTitle(ctx context.Context) (string, error)
}

// ExecDesktopPlayer implements [DesktopPlayer] by shelling out to the
// platform's process tooling.
type ExecDesktopPlayer struct {
	run func(ctx context.Context, name string, args ...string) (string, error)
}

// NewExecDesktopPlayer creates an ExecDesktopPlayer using os/exec.
func NewExecDesktopPlayer() *ExecDesktopPlayer {
	return &ExecDesktopPlayer{run: runCommand}
}

func runCommand(ctx context.Context, name string, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

func (p *ExecDesktopPlayer) probe(ctx context.Context) (string, error) {
	switch {
	case shared.IsWindows():
		return p.run(ctx, "tasklist", "/fi", "imagename eq Spotify.exe", "/fo", "list", "/v")
	case shared.IsMac():
		return p.run(ctx, "osascript", "-e",
			`tell application "Spotify" to (artist of current track) & " - " & (name of current track)`)
	default:
		return p.run(ctx, "playerctl", "-p", "spotify", "metadata", "--format", "{{artist}} - {{title}}")
	}
}

// Running reports whether the desktop player responds to a title probe.
func (p *ExecDesktopPlayer) Running(ctx context.Context) bool {
	out, err := p.probe(ctx)
	if err != nil {
		return false
	}
	if shared.IsWindows() {
		return strings.Contains(strings.ToLower(out), "title")
	}
	return out != ""
}

// WindowTitle returns the current window title. On Windows this is the
// "Window Title:" line of the tasklist output; elsewhere the probe already
// yields the bare title.
func (p *ExecDesktopPlayer) WindowTitle(ctx context.Context) (string, error) {
	out, err := p.probe(ctx)
	if err != nil {
		return "", err
	}

	if !shared.IsWindows() {
		return out, nil
	}

	for _, line := range strings.Split(out, "\n") {
		if idx := strings.Index(line, windowTitleMarker); idx >= 0 {
			return strings.TrimSpace(line[idx+len(windowTitleMarker):]), nil
		}
	}
	return "", shared.ErrTrackNotFound
}

// SplitWindowTitle splits an "Artist - Song" title into its parts.
func SplitWindowTitle(title string) (artist, song string, ok bool) {
	parts := strings.SplitN(title, "-", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	artist = strings.TrimSpace(parts[0])
	song = strings.TrimSpace(parts[1])
	return artist, song, artist != "" && song != ""
}

// DesktopRunning reports whether the configured desktop player is active.
func (s *Service) DesktopRunning(ctx context.Context) bool {
	if s.desktop == nil {
		return false
	}
	return s.desktop.Running(ctx)
}

// TrackFromWindowTitle identifies the playing track via the desktop player's
// window title and resolves it through the search endpoint. Returns a
// default track when the title is unavailable or unparseable; the player may
// be paused, closed, or showing an advertisement.
func (s *Service) TrackFromWindowTitle(ctx context.Context) models.Track {
	if s.desktop == nil {
		return models.Track{}
	}

	title, err := s.desktop.WindowTitle(ctx)
	if err != nil {
		return models.Track{}
	}

	artist, song, ok := SplitWindowTitle(title)
	if !ok {
		return models.Track{}
	}

	track := s.SearchTrack(ctx, artist, song)
	if track.ID != "" {
		track.State = models.StatusPlaying
	}
	return track
}
