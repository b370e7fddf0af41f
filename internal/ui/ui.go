package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/spotstats/internal/models"
	"github.com/desertthunder/spotstats/internal/tasks"
)

const barWidth = 24

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LoadingView ViewState = iota
	StatsView
	PlaylistsView
)

// unitFeatures are the features reported on a 0..1 scale and drawn as bars.
var unitFeatures = map[string]bool{
	"danceability":     true,
	"energy":           true,
	"speechiness":      true,
	"acousticness":     true,
	"instrumentalness": true,
	"liveness":         true,
	"valence":          true,
}

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	engine       *tasks.StatsEngine
	width        int
	height       int
	spinner      spinner.Model
	progressChan chan tasks.ProgressUpdate
	doneChan     chan Msg
	progress     tasks.ProgressUpdate
	stats        *models.Stats
	playlistList list.Model
	hasPlaylists bool
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model over engine.
func NewModel(ctx context.Context, engine *tasks.StatsEngine) *Model {
	return &Model{
		ctx:     ctx,
		view:    LoadingView,
		engine:  engine,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.bar)),
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// Init starts the first statistics run.
func (m *Model) Init() tea.Cmd {
	return m.startStats()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.hasPlaylists {
			m.playlistList.SetSize(max(msg.Width-4, 40), max(msg.Height-8, 10))
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case spinner.TickMsg:
		if m.view != LoadingView {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateList(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgProgressUpdate:
		m.progress = msg.data.(tasks.ProgressUpdate)
		return m, m.waitForProgress()

	case MsgStatsComputed:
		result := msg.data.(statsResult)
		m.stats = result.stats
		m.err = result.err
		m.progressChan = nil
		m.doneChan = nil
		m.view = StatsView
		return m, nil

	case MsgPlaylistsFetched:
		result := msg.data.(playlistsResult)
		if result.err != nil {
			m.err = result.err
			return m, nil
		}

		items := make([]list.Item, len(result.playlists))
		for i, p := range result.playlists {
			items[i] = playlistItem{playlist: p}
		}
		m.playlistList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.playlistList.Title = "Playlists"
		m.playlistList.SetSize(max(m.width-4, 40), max(m.height-8, 10))
		m.hasPlaylists = true
		m.view = PlaylistsView
		return m, nil
	}
	return m, nil
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.quit) {
		if m.view == PlaylistsView && m.playlistList.FilterState() == list.Filtering {
			return m.updateList(msg)
		}
		return m, tea.Quit
	}

	switch m.view {
	case LoadingView:
		return m, nil

	case StatsView:
		switch {
		case key.Matches(msg, m.keys.refresh):
			return m, m.startStats()
		case key.Matches(msg, m.keys.playlists):
			return m, m.fetchPlaylists()
		}
		return m, nil

	case PlaylistsView:
		if key.Matches(msg, m.keys.back) && m.playlistList.FilterState() == list.Unfiltered {
			m.view = StatsView
			return m, nil
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m *Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.view != PlaylistsView || !m.hasPlaylists {
		return m, nil
	}
	var cmd tea.Cmd
	m.playlistList, cmd = m.playlistList.Update(msg)
	return m, cmd
}

// startStats launches a statistics run in the background and begins listening for its progress.
func (m *Model) startStats() tea.Cmd {
	m.view = LoadingView
	m.err = nil
	m.progress = tasks.ProgressUpdate{Message: "Starting..."}
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	m.doneChan = make(chan Msg, 1)

	progress, done := m.progressChan, m.doneChan
	go func() {
		stats, err := m.engine.Compute(m.ctx, progress)
		done <- statsComputedMsg(stats, err)
	}()

	return tea.Batch(m.spinner.Tick, m.waitForProgress())
}

func (m *Model) waitForProgress() tea.Cmd {
	progress, done := m.progressChan, m.doneChan
	return func() tea.Msg {
		if done == nil {
			return nil
		}
		select {
		case update := <-progress:
			return progressUpdateMsg(update)
		case msg := <-done:
			return msg
		}
	}
}

func (m *Model) fetchPlaylists() tea.Cmd {
	return func() tea.Msg {
		playlists, err := m.engine.Playlists(m.ctx)
		return playlistsFetchedMsg(playlists, err)
	}
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case LoadingView:
		return m.renderLoading()
	case StatsView:
		return m.renderStats()
	case PlaylistsView:
		return m.renderPlaylists()
	default:
		return ""
	}
}

func (m *Model) renderLoading() string {
	title := styles.title.Render("Listening Statistics")

	status := m.progress.Message
	if m.progress.Total > 1 {
		status = fmt.Sprintf("%s (%d/%d)", status, m.progress.Step, m.progress.Total)
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.quit})
	return fmt.Sprintf("%s\n%s %s\n\n%s", title, m.spinner.View(), status, helpView)
}

func (m *Model) renderStats() string {
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.refresh, m.keys.playlists, m.keys.quit})

	if m.err != nil {
		return fmt.Sprintf("%s\n\n%s", styles.err.Render(fmt.Sprintf("Error: %v", m.err)), helpView)
	}
	if m.stats == nil {
		return fmt.Sprintf("%s\n\n%s", styles.err.Render("No statistics available"), helpView)
	}

	var b strings.Builder
	b.WriteString(styles.title.Render("Listening Statistics"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s %d\n", styles.label.Render("Playlists"), m.stats.TotalPlaylists)
	fmt.Fprintf(&b, "%s %d\n\n", styles.label.Render("Tracks"), m.stats.TotalTracks)

	b.WriteString(styles.ok.Render("Top artists"))
	b.WriteString("\n")
	if len(m.stats.Artists) == 0 {
		b.WriteString(styles.help.Render("  none"))
		b.WriteString("\n")
	}
	for i, a := range m.stats.Artists {
		fmt.Fprintf(&b, "%2d. %s %s\n", i+1, a.Name, styles.help.Render(fmt.Sprintf("(%d)", a.Count)))
	}

	if len(m.stats.AudioFeatures) > 0 {
		b.WriteString("\n")
		b.WriteString(styles.ok.Render("Audio features"))
		b.WriteString("\n")
		for _, name := range models.FeatureNames {
			v, ok := m.stats.AudioFeatures[name]
			if !ok {
				continue
			}
			fmt.Fprintf(&b, "%s %s\n", styles.label.Render(name), renderFeature(name, v))
		}
	}

	b.WriteString("\n")
	b.WriteString(helpView)
	return b.String()
}

func renderFeature(name string, v float64) string {
	if !unitFeatures[name] {
		return fmt.Sprintf("%.1f", v)
	}

	filled := int(v*barWidth + 0.5)
	filled = max(0, min(barWidth, filled))
	bar := styles.bar.Render(strings.Repeat("█", filled)) + styles.help.Render(strings.Repeat("░", barWidth-filled))
	return fmt.Sprintf("%s %.2f", bar, v)
}

func (m *Model) renderPlaylists() string {
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.up, m.keys.down, m.keys.back, m.keys.quit})
	return fmt.Sprintf("%s\n\n%s", m.playlistList.View(), helpView)
}
