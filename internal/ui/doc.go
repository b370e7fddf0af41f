// Package ui implements an interactive terminal viewer for listening statistics using bubbletea's Elm architecture.
//
// Views:
//  1. [LoadingView] : Spinner with live progress while a statistics run is in flight
//  2. [StatsView] : Totals, ranked artists and audio feature averages
//  3. [PlaylistsView] : Filterable list of the user's playlists
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Progress updates flow through a channel from the StatsEngine; the run's result arrives on a separate channel.
//
// Keys: r refreshes, p lists playlists, esc goes back, q quits. Help is rendered via charmbracelet/bubbles/help.
package ui
