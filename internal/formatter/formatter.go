// package formatter renders listening statistics and mirror rows as tables, CSV, Markdown, plain text or JSON
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/desertthunder/spotstats/internal/models"
	"github.com/desertthunder/spotstats/internal/shared"
)

// Format names an output format.
type Format string

const (
	FormatTable    Format = "table"
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
)

// ParseFormat resolves a user-supplied format name. "md" and "txt" are accepted as aliases.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "table":
		return FormatTable, nil
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "text", "txt":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, name)
	}
}

// FormatDuration renders milliseconds as m:ss.
func FormatDuration(ms int) string {
	seconds := ms / 1000
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

// StatsToCSV writes the top artists as CSV with columns: Rank, ID, Name, Count
func StatsToCSV(stats *models.Stats) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"Rank", "ID", "Name", "Count"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, a := range stats.Artists {
		record := []string{strconv.Itoa(i + 1), a.ID, a.Name, strconv.Itoa(a.Count)}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

// StatsToMarkdown renders a statistics summary as Markdown
func StatsToMarkdown(stats *models.Stats) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Listening Statistics\n\n")
	fmt.Fprintf(&buf, "**Playlists**: %d\n", stats.TotalPlaylists)
	fmt.Fprintf(&buf, "**Tracks**: %d\n\n", stats.TotalTracks)

	buf.WriteString("## Top Artists\n\n")
	if len(stats.Artists) == 0 {
		buf.WriteString("_No artists_\n")
	}
	for i, a := range stats.Artists {
		fmt.Fprintf(&buf, "%d. %s (%d)\n", i+1, a.Name, a.Count)
	}

	buf.WriteString("\n## Audio Features\n\n")
	if len(stats.AudioFeatures) == 0 {
		buf.WriteString("_No audio features_\n")
		return buf.Bytes(), nil
	}

	buf.WriteString("| Feature | Average |\n|---|---|\n")
	for _, name := range models.FeatureNames {
		if v, ok := stats.AudioFeatures[name]; ok {
			fmt.Fprintf(&buf, "| %s | %s |\n", name, formatFloat(v))
		}
	}
	return buf.Bytes(), nil
}

// StatsToText renders a statistics summary as plain text
func StatsToText(stats *models.Stats) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Playlists: %d\n", stats.TotalPlaylists)
	fmt.Fprintf(&buf, "Tracks: %d\n\n", stats.TotalTracks)

	buf.WriteString("Top artists:\n")
	for i, a := range stats.Artists {
		fmt.Fprintf(&buf, "%d. %s (%d)\n", i+1, a.Name, a.Count)
	}

	if len(stats.AudioFeatures) > 0 {
		buf.WriteString("\nAudio features:\n")
		for _, name := range models.FeatureNames {
			if v, ok := stats.AudioFeatures[name]; ok {
				fmt.Fprintf(&buf, "%s: %s\n", name, formatFloat(v))
			}
		}
	}
	return buf.Bytes(), nil
}

// StatsToJSON encodes stats using the front-end's field names
func StatsToJSON(stats *models.Stats) ([]byte, error) {
	return shared.MarshalJSON(stats, true)
}

// WriteStats renders stats to w in the given format.
func WriteStats(w io.Writer, stats *models.Stats, format Format) error {
	var (
		data []byte
		err  error
	)

	switch format {
	case FormatTable:
		return StatsTable(w, stats)
	case FormatJSON:
		data, err = StatsToJSON(stats)
	case FormatCSV:
		data, err = StatsToCSV(stats)
	case FormatMarkdown:
		data, err = StatsToMarkdown(stats)
	case FormatText:
		data, err = StatsToText(stats)
	default:
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
	}
	if err != nil {
		return err
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if format == FormatJSON {
		_, err = io.WriteString(w, "\n")
	}
	return err
}

// WriteStatsExport writes stats to path in the given format. Table output is written as plain text.
func WriteStatsExport(stats *models.Stats, path string, format Format) error {
	if format == FormatTable {
		format = FormatText
	}

	var buf bytes.Buffer
	if err := WriteStats(&buf, stats, format); err != nil {
		return fmt.Errorf("failed to render stats: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write stats file: %w", err)
	}
	return nil
}
