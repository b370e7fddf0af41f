package formatter

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/desertthunder/spotstats/internal/models"
	"github.com/desertthunder/spotstats/internal/services"
	"github.com/olekukonko/tablewriter"
)

func renderTable(w io.Writer, header []string, rows [][]string) error {
	table := tablewriter.NewWriter(w)
	table.Header(header)
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return fmt.Errorf("failed to append table row: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	return nil
}

// StatsTable writes the playlist and track totals, the top artists and the feature averages as tables.
func StatsTable(w io.Writer, stats *models.Stats) error {
	summary := [][]string{
		{"Playlists", strconv.Itoa(stats.TotalPlaylists)},
		{"Tracks", strconv.Itoa(stats.TotalTracks)},
	}
	if err := renderTable(w, []string{"Total", "Value"}, summary); err != nil {
		return err
	}

	artists := make([][]string, 0, len(stats.Artists))
	for i, a := range stats.Artists {
		artists = append(artists, []string{strconv.Itoa(i + 1), a.Name, strconv.Itoa(a.Count)})
	}
	if err := renderTable(w, []string{"#", "Artist", "Tracks"}, artists); err != nil {
		return err
	}

	if len(stats.AudioFeatures) == 0 {
		return nil
	}

	features := make([][]string, 0, len(stats.AudioFeatures))
	for _, name := range models.FeatureNames {
		if v, ok := stats.AudioFeatures[name]; ok {
			features = append(features, []string{name, formatFloat(v)})
		}
	}
	return renderTable(w, []string{"Feature", "Average"}, features)
}

// ProfileTable writes a catalog user profile.
func ProfileTable(w io.Writer, user *services.SpotifyUser) error {
	rows := [][]string{
		{"ID", user.ID},
		{"Name", user.DisplayName},
		{"Followers", strconv.Itoa(user.Followers.Total)},
		{"URL", user.ExternalURLs.Spotify},
	}
	return renderTable(w, []string{"Field", "Value"}, rows)
}

// PlaylistsTable writes one row per playlist.
func PlaylistsTable(w io.Writer, playlists []services.SpotifySimplePlaylist) error {
	rows := make([][]string, 0, len(playlists))
	for _, p := range playlists {
		rows = append(rows, []string{p.ID, p.Name, p.Owner.DisplayName, strconv.Itoa(p.Tracks.Total)})
	}
	return renderTable(w, []string{"ID", "Name", "Owner", "Tracks"}, rows)
}

// TracksTable writes catalog tracks in the order given.
func TracksTable(w io.Writer, tracks []services.SpotifyTrack) error {
	rows := make([][]string, 0, len(tracks))
	for i, t := range tracks {
		names := make([]string, 0, len(t.Artists))
		for _, a := range t.Artists {
			names = append(names, a.Name)
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1), t.Name, strings.Join(names, ", "), t.Album.Name, FormatDuration(t.DurationMS),
		})
	}
	return renderTable(w, []string{"#", "Track", "Artists", "Album", "Duration"}, rows)
}

// UserTable writes a mirror user row.
func UserTable(w io.Writer, user *models.UserRow) error {
	updated := ""
	if user.UpdatedAt != nil {
		updated = user.UpdatedAt.Format("2006-01-02 15:04")
	}

	rows := [][]string{
		{"Spotify ID", user.SpotifyID},
		{"Name", user.DisplayName},
		{"Followers", strconv.Itoa(user.Followers)},
		{"Country", user.Country},
		{"Profile", user.ProfileURL},
		{"Updated", updated},
	}
	return renderTable(w, []string{"Field", "Value"}, rows)
}

// MirrorArtistsTable writes ranked mirror artists with their genres.
func MirrorArtistsTable(w io.Writer, artists []models.ArtistRow) error {
	rows := make([][]string, 0, len(artists))
	for _, a := range artists {
		rows = append(rows, []string{
			strconv.Itoa(a.Rank), a.Name, strconv.Itoa(a.Popularity), strings.Join(a.Genres, ", "),
		})
	}
	return renderTable(w, []string{"Rank", "Artist", "Popularity", "Genres"}, rows)
}

// MirrorTracksTable writes ranked mirror tracks.
func MirrorTracksTable(w io.Writer, tracks []models.TrackRow) error {
	rows := make([][]string, 0, len(tracks))
	for _, t := range tracks {
		rows = append(rows, []string{
			strconv.Itoa(t.Rank), t.Name, t.ArtistName, t.AlbumName, FormatDuration(t.DurationMS),
		})
	}
	return renderTable(w, []string{"Rank", "Track", "Artist", "Album", "Duration"}, rows)
}

// MirrorGenresTable writes genres with their counts.
func MirrorGenresTable(w io.Writer, genres []models.GenreRow) error {
	rows := make([][]string, 0, len(genres))
	for _, g := range genres {
		rows = append(rows, []string{g.Name, strconv.Itoa(g.Count)})
	}
	return renderTable(w, []string{"Genre", "Count"}, rows)
}
