// Package tasks implements scheduled playback work, chiefly the
// device-discovery and playback-confirmation state machine.
//
// The core abstraction is [Launcher], which drives playback launches against
// a [Player]. Attempts are scheduled as independent delayed tasks on a
// [Scheduler], so the machine never blocks the caller; progress and terminal
// states are emitted via channels for non-blocking status reporting to the
// CLI/UI layers.
package tasks
