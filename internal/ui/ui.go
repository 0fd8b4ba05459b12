package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/pbx/internal/models"
	"github.com/desertthunder/pbx/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	TrackListView ViewState = iota
	ConfirmView
	LaunchView
	ResultView
)

// recentLimit caps the recently-played fetch for the browse list.
const recentLimit = 50

// Library is the subset of the player the TUI reads from.
type Library interface {
	RecentlyPlayed(ctx context.Context, limit int) []models.Track
}

// Model represents the TUI application state.
type Model struct {
	ctx           context.Context
	view          ViewState
	library       Library
	launcher      *tasks.Launcher
	width         int
	height        int
	trackList     list.Model
	selectedTrack models.Track
	progressChan  chan tasks.ProgressUpdate
	progress      tasks.ProgressUpdate
	result        tasks.ProgressUpdate
	err           error
	help          help.Model
	keys          keyMap
}

type tracksFetchedMsg struct {
	tracks []models.Track
	err    error
}

type progressUpdateMsg tasks.ProgressUpdate

type launchDoneMsg tasks.ProgressUpdate

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, library Library, launcher *tasks.Launcher) *Model {
	return &Model{
		ctx:      ctx,
		view:     TrackListView,
		library:  library,
		launcher: launcher,
		help:     help.New(),
		keys:     newKeyMap(),
	}
}

// Init initializes the TUI by fetching recently played tracks.
func (m *Model) Init() tea.Cmd {
	return m.fetchRecent()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.trackList.Width() == 0 {
			m.trackList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case TrackListView:
			return m.handleTrackListKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case tracksFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		items := make([]list.Item, len(msg.tracks))
		for i, track := range msg.tracks {
			items[i] = trackItem{track: track}
		}
		m.trackList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.trackList.Title = "Recently Played"
		m.trackList.SetSize(m.width-4, m.height-8)
		return m, nil

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case launchDoneMsg:
		m.result = tasks.ProgressUpdate(msg)
		m.view = ResultView
		m.progressChan = nil
		return m, nil
	}

	return m.updateList(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case TrackListView:
		return m.renderTrackList()
	case ConfirmView:
		return m.renderConfirm()
	case LaunchView:
		return m.renderLaunch()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleTrackListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter":
		if selected := m.trackList.SelectedItem(); selected != nil {
			if item, ok := selected.(trackItem); ok {
				m.selectedTrack = item.track
				m.view = ConfirmView
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.trackList, cmd = m.trackList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "n", "esc":
		m.view = TrackListView
		return m, nil
	case "y", "enter":
		m.view = LaunchView
		return m, m.startLaunch()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		m.view = TrackListView
		m.result = tasks.ProgressUpdate{}
		m.progress = tasks.ProgressUpdate{}
		m.err = nil
		return m, nil
	}
	return m, nil
}

func (m *Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.view == TrackListView {
		m.trackList, cmd = m.trackList.Update(msg)
	}
	return m, cmd
}

func (m *Model) fetchRecent() tea.Cmd {
	return func() tea.Msg {
		tracks := m.library.RecentlyPlayed(m.ctx, recentLimit)
		return tracksFetchedMsg{tracks: tracks}
	}
}

func (m *Model) startLaunch() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	opts := models.PlaybackOptions{TrackID: m.selectedTrack.ID}
	go m.launcher.Launch(m.ctx, opts, m.progressChan)
	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	progressChan := m.progressChan
	return func() tea.Msg {
		if progressChan == nil {
			return launchDoneMsg(m.progress)
		}

		update := <-progressChan
		if update.State.Terminal() {
			return launchDoneMsg(update)
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderTrackList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.trackList.View(), helpView)
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(fmt.Sprintf("Play '%s'?", m.selectedTrack.Name))
	info := fmt.Sprintf("\nTrack: %s\nArtist: %s\n", m.selectedTrack.Name, m.selectedTrack.Artist())

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderLaunch() string {
	title := styles.title.Render("Launching Playback")

	var phase string
	switch m.progress.State {
	case tasks.NoDeviceFound:
		phase = "No device registered, opening web player..."
	case tasks.WebPlayerLaunching:
		phase = "Waiting for the web player to register..."
	case tasks.AwaitingDeviceRegistration:
		if m.progress.Remaining > 0 {
			phase = fmt.Sprintf("Confirming playback (%d attempts left)", m.progress.Remaining)
		} else {
			phase = "Confirming playback..."
		}
	default:
		phase = "Issuing play command..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, m.progress.Message)
}

func (m *Model) renderResult() string {
	helpKeys := []key.Binding{m.keys.restart, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	if m.result.State == tasks.Playing {
		title := styles.ok.Render("✓ Playback confirmed")
		info := fmt.Sprintf("\nNow playing: %s - %s\n", m.selectedTrack.Artist(), m.selectedTrack.Name)
		return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
	}

	title := styles.warn.Render("Playback not confirmed")
	info := "\nThe play command was issued but playback was not observed.\nIt may still start shortly.\n"
	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}
