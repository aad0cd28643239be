// package formatter renders normalized views as plain text and CSV
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/desertthunder/spotify-mcp/internal/search"
	"github.com/desertthunder/spotify-mcp/internal/services"
	"github.com/desertthunder/spotify-mcp/internal/shared"
	"github.com/desertthunder/spotify-mcp/internal/views"
)

var categoryTitles = map[string]string{
	"tracks":     "Tracks",
	"artists":    "Artists",
	"albums":     "Albums",
	"playlists":  "Playlists",
	"shows":      "Shows",
	"episodes":   "Episodes",
	"audiobooks": "Audiobooks",
}

// Credits joins the names in credits with commas.
func Credits(credits []views.Credit) string {
	names := make([]string, 0, len(credits))
	for _, c := range credits {
		names = append(names, c.String())
	}
	return strings.Join(names, ", ")
}

// TrackLine renders a track as "Artist - Name", with the duration appended when known.
func TrackLine(t *views.Track) string {
	line := t.Name
	if by := Credits(t.Credits()); by != "" {
		line = by + " - " + line
	}
	if t.DurationMS != nil {
		line += " [" + views.FormatDuration(*t.DurationMS) + "]"
	}
	return line
}

// ItemLine renders any normalized view on a single line.
func ItemLine(item any) string {
	switch v := item.(type) {
	case *views.Track:
		return TrackLine(v)
	case *views.Album:
		if by := Credits(v.Credits()); by != "" {
			return by + " - " + v.Name
		}
		return v.Name
	case *views.Artist:
		return v.Name
	case *views.Playlist:
		line := v.Name + " (by " + v.Owner + ")"
		if v.UserIsOwner {
			line += " *"
		}
		return line
	case *views.Show:
		return v.Name + " (" + v.Publisher + ")"
	case *views.Episode:
		line := v.Name
		if v.ShowName != nil {
			line = *v.ShowName + " - " + line
		}
		if v.Duration != "" {
			line += " [" + v.Duration + "]"
		}
		return line
	case *views.Audiobook:
		if by := people(v.Author, v.Authors); by != "" {
			return by + " - " + v.Name
		}
		return v.Name
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Tracks renders a numbered track list under title.
func Tracks(title string, tracks []*views.Track) []byte {
	var buf bytes.Buffer
	if title != "" {
		fmt.Fprintf(&buf, "%s\n", title)
	}
	for i, t := range tracks {
		fmt.Fprintf(&buf, "%d. %s\n", i+1, TrackLine(t))
	}
	return buf.Bytes()
}

// Results renders search results grouped by category in their response order.
func Results(r *search.Results) ([]byte, error) {
	if r == nil || r.Len() == 0 {
		return nil, shared.ErrNothingToDisplay
	}

	var buf bytes.Buffer
	for i, key := range r.Keys() {
		items, _ := r.Get(key)
		if i > 0 {
			buf.WriteByte('\n')
		}
		fmt.Fprintf(&buf, "%s (%d)\n", title(key), len(items))
		for j, item := range items {
			fmt.Fprintf(&buf, "%d. %s\n", j+1, ItemLine(item))
		}
	}
	return buf.Bytes(), nil
}

// Queue renders the now playing track followed by the upcoming queue.
func Queue(q *services.QueueView) []byte {
	var buf bytes.Buffer
	if q.CurrentlyPlaying != nil {
		fmt.Fprintf(&buf, "Now playing: %s\n", TrackLine(q.CurrentlyPlaying))
	} else {
		buf.WriteString("Now playing: nothing\n")
	}
	if len(q.Queue) == 0 {
		buf.WriteString("Queue is empty\n")
		return buf.Bytes()
	}
	buf.Write(Tracks(fmt.Sprintf("Up next (%d):", len(q.Queue)), q.Queue))
	return buf.Bytes()
}

// NowPlaying renders the current track, or a placeholder when idle.
func NowPlaying(t *views.Track) string {
	if t == nil {
		return "No track playing."
	}
	state := "paused"
	if t.IsPlaying != nil && *t.IsPlaying {
		state = "playing"
	}
	return fmt.Sprintf("%s (%s)", TrackLine(t), state)
}

// Info renders a detailed view as a header followed by its fields and listings.
func Info(item any) ([]byte, error) {
	var buf bytes.Buffer

	switch v := item.(type) {
	case *views.Track:
		fmt.Fprintf(&buf, "Track: %s\n", TrackLine(v))
		if v.Album != nil {
			fmt.Fprintf(&buf, "Album: %s\n", v.Album.Name)
		}
		if v.TrackNumber != nil {
			fmt.Fprintf(&buf, "Track number: %d\n", *v.TrackNumber)
		}
	case *views.Album:
		fmt.Fprintf(&buf, "Album: %s\n", ItemLine(v))
		if v.ReleaseDate != nil {
			fmt.Fprintf(&buf, "Released: %s\n", *v.ReleaseDate)
		}
		if len(v.Genres) > 0 {
			fmt.Fprintf(&buf, "Genres: %s\n", strings.Join(v.Genres, ", "))
		}
		buf.Write(Tracks("Tracks:", v.Tracks))
	case *services.ArtistInfo:
		fmt.Fprintf(&buf, "Artist: %s\n", v.Name)
		if len(v.Genres) > 0 {
			fmt.Fprintf(&buf, "Genres: %s\n", strings.Join(v.Genres, ", "))
		}
		buf.Write(Tracks("Top tracks:", v.TopTracks))
		buf.WriteString("Albums:\n")
		for i, a := range v.Albums {
			fmt.Fprintf(&buf, "%d. %s\n", i+1, a.Name)
		}
	case *views.Playlist:
		fmt.Fprintf(&buf, "Playlist: %s\n", ItemLine(v))
		if v.Description != nil && *v.Description != "" {
			fmt.Fprintf(&buf, "Description: %s\n", *v.Description)
		}
		buf.Write(Tracks("Tracks:", v.Tracks))
	case *views.Show:
		fmt.Fprintf(&buf, "Show: %s\n", ItemLine(v))
		fmt.Fprintf(&buf, "Episodes: %d\n", v.TotalEpisodes)
		for i, e := range v.Episodes {
			fmt.Fprintf(&buf, "%d. %s (%s) [%s]\n", i+1, e.Name, e.ReleaseDate, views.FormatDuration(e.DurationMS))
		}
	case *views.Episode:
		fmt.Fprintf(&buf, "Episode: %s\n", ItemLine(v))
		if v.ReleaseDate != nil {
			fmt.Fprintf(&buf, "Released: %s\n", *v.ReleaseDate)
		}
	case *views.Audiobook:
		fmt.Fprintf(&buf, "Audiobook: %s\n", ItemLine(v))
		if by := people(v.Narrator, v.Narrators); by != "" {
			fmt.Fprintf(&buf, "Narrated by: %s\n", by)
		}
		for _, c := range v.Chapters {
			fmt.Fprintf(&buf, "%d. %s [%s]\n", c.ChapterNumber, c.Name, c.Duration)
		}
	default:
		return nil, fmt.Errorf("%w: %T", shared.ErrNothingToDisplay, item)
	}

	return buf.Bytes(), nil
}

// TracksToCSV converts tracks to CSV with columns: ID, Name, Artists, Album, Duration
func TracksToCSV(tracks []*views.Track) ([]byte, error) {
	rows := make([][]string, 0, len(tracks))
	for _, t := range tracks {
		album, duration := "", ""
		if t.Album != nil {
			album = t.Album.Name
		}
		if t.DurationMS != nil {
			duration = views.FormatDuration(*t.DurationMS)
		}
		rows = append(rows, []string{t.ID, t.Name, Credits(t.Credits()), album, duration})
	}
	return writeCSV([]string{"ID", "Name", "Artists", "Album", "Duration"}, rows)
}

// ResultsToCSV flattens search results to CSV with columns: Category, ID, Name, Summary
func ResultsToCSV(r *search.Results) ([]byte, error) {
	var rows [][]string
	for _, key := range r.Keys() {
		items, _ := r.Get(key)
		for _, item := range items {
			id, name := identity(item)
			rows = append(rows, []string{key, id, name, ItemLine(item)})
		}
	}
	return writeCSV([]string{"Category", "ID", "Name", "Summary"}, rows)
}

// WriteFile writes rendered output to path.
func WriteFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func writeCSV(headers []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}
	for _, record := range rows {
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

func identity(item any) (string, string) {
	switch v := item.(type) {
	case *views.Track:
		return v.ID, v.Name
	case *views.Album:
		return v.ID, v.Name
	case *views.Artist:
		return v.ID, v.Name
	case *views.Playlist:
		return v.ID, v.Name
	case *views.Show:
		return v.ID, v.Name
	case *views.Episode:
		return v.ID, v.Name
	case *views.Audiobook:
		return v.ID, v.Name
	default:
		return "", ""
	}
}

func people(one *string, many []string) string {
	if one != nil {
		return *one
	}
	return strings.Join(many, ", ")
}

func title(key string) string {
	if t, ok := categoryTitles[key]; ok {
		return t
	}
	return key
}
