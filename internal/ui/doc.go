// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view playback workflow:
//  1. [TrackListView] : Browse recently played tracks
//  2. [ConfirmView] : Confirm the playback launch
//  3. [LaunchView] : Monitor the device-discovery and confirmation machine
//  4. [ResultView] : Display the terminal launch state
//
// The [Model] implements bubbletea's standard Init/Update/View pattern.
// Launch progress flows through a channel from the [tasks.Launcher],
// providing non-blocking status reporting while the machine runs.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with
// contextual help displayed via charmbracelet/bubbles/help.
package ui
