package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/spotstats/internal/models"
	"github.com/desertthunder/spotstats/internal/services"
	"github.com/desertthunder/spotstats/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgProgressUpdate MsgKind = iota
	MsgStatsComputed
	MsgPlaylistsFetched
)

type statsResult struct {
	stats *models.Stats
	err   error
}

type playlistsResult struct {
	playlists []services.SpotifySimplePlaylist
	err       error
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// statsComputedMsg is the constructor for [MsgStatsComputed]
func statsComputedMsg(stats *models.Stats, err error) Msg {
	return Msg{kind: MsgStatsComputed, data: statsResult{stats, err}}
}

// playlistsFetchedMsg is the constructor for [MsgPlaylistsFetched]
func playlistsFetchedMsg(playlists []services.SpotifySimplePlaylist, err error) Msg {
	return Msg{kind: MsgPlaylistsFetched, data: playlistsResult{playlists, err}}
}
