package tasks

import "fmt"

// LaunchState is a step of the playback-launch machine.
type LaunchState int

const (
	NoDeviceFound LaunchState = iota
	WebPlayerLaunching
	AwaitingDeviceRegistration
	Playing              // terminal: playback confirmed
	PlaybackNotConfirmed // terminal: retry budget exhausted
)

func (s LaunchState) String() string {
	switch s {
	case NoDeviceFound:
		return "no_device_found"
	case WebPlayerLaunching:
		return "web_player_launching"
	case AwaitingDeviceRegistration:
		return "awaiting_device_registration"
	case Playing:
		return "playing"
	case PlaybackNotConfirmed:
		return "playback_not_confirmed"
	default:
		return ""
	}
}

// Terminal reports whether the machine stops in this state.
func (s LaunchState) Terminal() bool {
	return s == Playing || s == PlaybackNotConfirmed
}

// ProgressUpdate represents a state transition during a playback launch.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	State     LaunchState // Machine state after the transition
	Remaining int         // Confirmation attempts left
	Message   string      // Human-readable message for display
}

func noDeviceUpdate() ProgressUpdate {
	return ProgressUpdate{
		State:   NoDeviceFound,
		Message: "No playback device registered, launching web player...",
	}
}

func launchingUpdate() ProgressUpdate {
	return ProgressUpdate{
		State:   WebPlayerLaunching,
		Message: "Waiting for the web player to register as a device...",
	}
}

func awaitingUpdate() ProgressUpdate {
	return ProgressUpdate{
		State:   AwaitingDeviceRegistration,
		Message: "Re-checking for playback devices...",
	}
}

func playIssuedUpdate(remaining int) ProgressUpdate {
	return ProgressUpdate{
		State:     AwaitingDeviceRegistration,
		Remaining: remaining,
		Message:   fmt.Sprintf("Play command issued, %d confirmation attempts left", remaining),
	}
}

func playingUpdate() ProgressUpdate {
	return ProgressUpdate{State: Playing, Message: "Playback confirmed"}
}

func notConfirmedUpdate() ProgressUpdate {
	return ProgressUpdate{
		State:   PlaybackNotConfirmed,
		Message: "Playback not confirmed within the retry budget; it may still start shortly",
	}
}
