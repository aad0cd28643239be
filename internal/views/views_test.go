package views

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/desertthunder/spotify-mcp/internal/models"
	"github.com/desertthunder/spotify-mcp/internal/shared"
)

func decode[T any](t *testing.T, body string) *T {
	t.Helper()
	var v T
	if err := json.Unmarshal([]byte(body), &v); err != nil {
		t.Fatalf("failed to decode fixture: %v", err)
	}
	return &v
}

func asMap(t *testing.T, v any) map[string]any {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to marshal view: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("failed to unmarshal view: %v", err)
	}
	return m
}

func TestNilInput(t *testing.T) {
	if v, err := NewTrack(nil, true); v != nil || err != nil {
		t.Errorf("NewTrack(nil) = %v, %v", v, err)
	}
	if v, err := NewArtist(nil, true); v != nil || err != nil {
		t.Errorf("NewArtist(nil) = %v, %v", v, err)
	}
	if v, err := NewAlbum(nil, true); v != nil || err != nil {
		t.Errorf("NewAlbum(nil) = %v, %v", v, err)
	}
	if v, err := NewPlaylist(nil, "me", true); v != nil || err != nil {
		t.Errorf("NewPlaylist(nil) = %v, %v", v, err)
	}
	if v, err := NewShow(nil, true); v != nil || err != nil {
		t.Errorf("NewShow(nil) = %v, %v", v, err)
	}
	if v, err := NewEpisode(nil, true); v != nil || err != nil {
		t.Errorf("NewEpisode(nil) = %v, %v", v, err)
	}
	if v, err := NewAudiobook(nil, true); v != nil || err != nil {
		t.Errorf("NewAudiobook(nil) = %v, %v", v, err)
	}
}

func TestMalformed(t *testing.T) {
	tests := []struct {
		name string
		run  func() error
	}{
		{"track without id", func() error {
			_, err := NewTrack(&models.Track{Name: models.Ptr("x")}, false)
			return err
		}},
		{"track artist without name", func() error {
			_, err := NewTrack(&models.Track{Name: models.Ptr("x"), ID: models.NewID("1"), Artists: []*models.Artist{{ID: models.NewID("a")}}}, false)
			return err
		}},
		{"artist without name", func() error {
			_, err := NewArtist(&models.Artist{ID: models.NewID("1")}, false)
			return err
		}},
		{"album without id", func() error {
			_, err := NewAlbum(&models.Album{Name: models.Ptr("x")}, false)
			return err
		}},
		{"playlist without owner", func() error {
			_, err := NewPlaylist(&models.Playlist{Name: models.Ptr("x"), ID: models.NewID("1")}, "", false)
			return err
		}},
		{"show without name", func() error {
			_, err := NewShow(&models.Show{ID: models.NewID("1")}, false)
			return err
		}},
		{"episode without id", func() error {
			_, err := NewEpisode(&models.Episode{Name: models.Ptr("x")}, false)
			return err
		}},
		{"audiobook without name", func() error {
			_, err := NewAudiobook(&models.Audiobook{ID: models.NewID("1")}, false)
			return err
		}},
		{"chapter without id", func() error {
			_, err := NewAudiobook(&models.Audiobook{
				Name:     models.Ptr("x"),
				ID:       models.NewID("1"),
				Chapters: &models.Paging[models.Chapter]{Items: []*models.Chapter{{Name: models.Ptr("c")}}},
			}, true)
			return err
		}},
		{"show episode without name", func() error {
			_, err := NewShow(&models.Show{
				Name:     models.Ptr("x"),
				ID:       models.NewID("1"),
				Episodes: &models.Paging[models.Episode]{Items: []*models.Episode{{ID: models.NewID("e")}}},
			}, true)
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()
			if !errors.Is(err, shared.ErrMalformedEntity) {
				t.Errorf("expected ErrMalformedEntity, got %v", err)
			}
		})
	}
}

func TestNewTrack(t *testing.T) {
	t.Run("Single Artist Collapses", func(t *testing.T) {
		raw := decode[models.Track](t, `{"name": "Song", "id": "t1", "artists": [{"name": "Solo", "id": "a1"}]}`)
		view, err := NewTrack(raw, false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		m := asMap(t, view)
		if m["artist"] != "Solo" {
			t.Errorf("expected scalar artist Solo, got %v", m["artist"])
		}
		if _, ok := m["artists"]; ok {
			t.Error("artists key should be absent for a single artist")
		}
		if _, ok := m["album"]; ok {
			t.Error("compact track should not include album")
		}
	})

	t.Run("Many Artists Stay A List", func(t *testing.T) {
		raw := decode[models.Track](t, `{"name": "Song", "id": "t1", "artists": [{"name": "A", "id": "a1"}, {"name": "B", "id": "a2"}, {"name": "C", "id": "a3"}]}`)
		view, err := NewTrack(raw, false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		m := asMap(t, view)
		artists, ok := m["artists"].([]any)
		if !ok || len(artists) != 3 {
			t.Fatalf("expected 3 artists, got %v", m["artists"])
		}
		if _, ok := m["artist"]; ok {
			t.Error("artist key should be absent for several artists")
		}
		if len(view.Credits()) != 3 || view.Credits()[1].String() != "B" {
			t.Errorf("unexpected credits: %v", view.Credits())
		}
	})

	t.Run("No Artists Is An Empty List", func(t *testing.T) {
		view, err := NewTrack(&models.Track{Name: models.Ptr("x"), ID: models.NewID("1")}, false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		m := asMap(t, view)
		artists, ok := m["artists"].([]any)
		if !ok || len(artists) != 0 {
			t.Errorf("expected empty artists list, got %v", m["artists"])
		}
	})

	t.Run("Playing And Playable Flags", func(t *testing.T) {
		raw := decode[models.Track](t, `{"name": "Song", "id": "t1", "is_playing": false, "is_playable": true, "artists": []}`)
		m := asMap(t, must(NewTrack(raw, false)))
		if v, ok := m["is_playing"]; !ok || v != false {
			t.Errorf("is_playing should pass through when present, got %v", v)
		}
		if _, ok := m["is_playable"]; ok {
			t.Error("is_playable should only be surfaced when false")
		}

		raw = decode[models.Track](t, `{"name": "Song", "id": "t1", "is_playable": false, "artists": []}`)
		m = asMap(t, must(NewTrack(raw, false)))
		if v, ok := m["is_playable"]; !ok || v != false {
			t.Errorf("expected is_playable=false, got %v", v)
		}
		if _, ok := m["is_playing"]; ok {
			t.Error("is_playing should be absent when the payload lacks it")
		}
	})

	t.Run("Detailed", func(t *testing.T) {
		raw := decode[models.Track](t, `{
			"name": "Song", "id": "t1", "track_number": 3, "duration_ms": 215000,
			"album": {"name": "LP", "id": "al1", "artists": [{"name": "Solo", "id": "a1"}]},
			"artists": [{"name": "Solo", "id": "a1", "genres": ["rock"]}]
		}`)
		m := asMap(t, must(NewTrack(raw, true)))

		album, ok := m["album"].(map[string]any)
		if !ok || album["name"] != "LP" || album["artist"] != "Solo" {
			t.Errorf("unexpected album: %v", m["album"])
		}
		if m["track_number"] != float64(3) || m["duration_ms"] != float64(215000) {
			t.Errorf("unexpected track_number/duration_ms: %v %v", m["track_number"], m["duration_ms"])
		}
		artist, ok := m["artist"].(map[string]any)
		if !ok || artist["name"] != "Solo" || artist["id"] != "a1" {
			t.Errorf("detailed artist should be an artist view, got %v", m["artist"])
		}
		if _, ok := artist["genres"]; ok {
			t.Error("nested artist views are compact")
		}
	})
}

func TestNewArtist(t *testing.T) {
	raw := &models.Artist{Name: models.Ptr("A"), ID: models.NewID("a1")}

	m := asMap(t, must(NewArtist(raw, false)))
	if _, ok := m["genres"]; ok {
		t.Error("compact artist should not include genres")
	}

	m = asMap(t, must(NewArtist(raw, true)))
	genres, ok := m["genres"].([]any)
	if !ok || len(genres) != 0 {
		t.Errorf("detailed artist should default genres to an empty list, got %v", m["genres"])
	}
}

func TestNewAlbum(t *testing.T) {
	raw := decode[models.Album](t, `{
		"name": "LP", "id": "al1", "total_tracks": 2, "release_date": "1999-01-01",
		"artists": [{"name": "A", "id": "a1"}, {"name": "B", "id": "a2"}],
		"tracks": {"items": [
			{"name": "One", "id": "t1", "artists": [{"name": "A", "id": "a1"}]},
			null,
			{"name": "Two", "id": "t2", "artists": [{"name": "B", "id": "a2"}]}
		]}
	}`)

	t.Run("Compact", func(t *testing.T) {
		m := asMap(t, must(NewAlbum(raw, false)))
		for _, key := range []string{"tracks", "total_tracks", "release_date", "genres"} {
			if _, ok := m[key]; ok {
				t.Errorf("compact album should not include %s", key)
			}
		}
		if artists, ok := m["artists"].([]any); !ok || artists[0] != "A" {
			t.Errorf("expected artist names, got %v", m["artists"])
		}
	})

	t.Run("Detailed", func(t *testing.T) {
		view := must(NewAlbum(raw, true))
		if len(view.Tracks) != 2 || view.Tracks[1].Name != "Two" {
			t.Fatalf("expected two tracks in order, got %+v", view.Tracks)
		}
		if view.Tracks[0].Album != nil {
			t.Error("album tracks are compact")
		}
		if *view.TotalTracks != 2 || *view.ReleaseDate != "1999-01-01" {
			t.Errorf("unexpected album details: %+v", view)
		}
		if view.Artists[0].Artist == nil || view.Artists[0].Artist.ID != "a1" {
			t.Errorf("detailed album credits should hold artist views, got %+v", view.Artists)
		}
	})
}

func TestNewPlaylist(t *testing.T) {
	raw := decode[models.Playlist](t, `{
		"name": "Mix", "id": "p1", "description": "daily",
		"owner": {"id": "u1", "display_name": "me"},
		"tracks": {"items": [
			{"track": {"name": "One", "id": "t1", "artists": [{"name": "A", "id": "a1"}]}},
			{"track": null},
			null
		]}
	}`)

	t.Run("Owner Comparison", func(t *testing.T) {
		if v := must(NewPlaylist(raw, "me", false)); !v.UserIsOwner || v.Owner != "me" {
			t.Errorf("expected owned playlist, got %+v", v)
		}
		if v := must(NewPlaylist(raw, "someone", false)); v.UserIsOwner {
			t.Error("playlist should not be owned by someone else")
		}
		if v := must(NewPlaylist(raw, "", false)); v.UserIsOwner {
			t.Error("an unknown user never owns a playlist")
		}
	})

	t.Run("Compact", func(t *testing.T) {
		m := asMap(t, must(NewPlaylist(raw, "me", false)))
		if _, ok := m["tracks"]; ok {
			t.Error("compact playlist should not include tracks")
		}
		if _, ok := m["description"]; ok {
			t.Error("compact playlist should not include description")
		}
	})

	t.Run("Detailed", func(t *testing.T) {
		view := must(NewPlaylist(raw, "me", true))
		if view.Description == nil || *view.Description != "daily" {
			t.Errorf("unexpected description: %v", view.Description)
		}
		if len(view.Tracks) != 1 || view.Tracks[0].ID != "t1" {
			t.Errorf("null entries should be skipped, got %+v", view.Tracks)
		}
	})
}

func TestLocalTrack(t *testing.T) {
	local := `{
		"name": "My Local File", "id": null, "is_local": true, "uri": "spotify:local:Artist:Album:My+Local+File:180",
		"album": {"name": "Local Album", "id": null, "artists": []},
		"artists": [{"name": "Local Artist", "id": null}],
		"duration_ms": 180000
	}`

	t.Run("Bare Track", func(t *testing.T) {
		view := must(NewTrack(decode[models.Track](t, local), true))
		if view.Name != "My Local File" || view.ID != "" {
			t.Errorf("unexpected local track: %+v", view)
		}
		if view.Artist == nil || view.Artist.String() != "Local Artist" {
			t.Errorf("unexpected local artist: %+v", view.Artist)
		}
		if view.Album == nil || view.Album.Name != "Local Album" {
			t.Errorf("unexpected local album: %+v", view.Album)
		}
		if m := asMap(t, view); m["id"] != "" {
			t.Errorf("null id should serialize as an empty string, got %v", m["id"])
		}
	})

	t.Run("Playlist", func(t *testing.T) {
		raw := decode[models.Playlist](t, `{
			"name": "Mixed", "id": "p1",
			"owner": {"id": "u1", "display_name": "me"},
			"tracks": {"items": [
				{"track": {"name": "One", "id": "t1", "artists": [{"name": "A", "id": "a1"}]}},
				{"track": `+local+`}
			]}
		}`)
		view := must(NewPlaylist(raw, "me", true))
		if len(view.Tracks) != 2 {
			t.Fatalf("expected both tracks, got %+v", view.Tracks)
		}
		if view.Tracks[0].ID != "t1" || view.Tracks[1].Name != "My Local File" || view.Tracks[1].ID != "" {
			t.Errorf("unexpected tracks: %+v, %+v", view.Tracks[0], view.Tracks[1])
		}
	})

	t.Run("Missing Key", func(t *testing.T) {
		_, err := NewTrack(decode[models.Track](t, `{"name": "No Id", "artists": []}`), false)
		if !errors.Is(err, shared.ErrMalformedEntity) {
			t.Errorf("an absent id key should stay malformed, got %v", err)
		}
	})
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("a", 150)
	short := strings.Repeat("b", 80)
	exact := strings.Repeat("c", 100)

	if got := Truncate(long); got != strings.Repeat("a", 100)+"..." {
		t.Errorf("Truncate(150 chars) = %q", got)
	}
	if got := Truncate(short); got != short {
		t.Errorf("Truncate(80 chars) = %q", got)
	}
	if got := Truncate(exact); got != exact {
		t.Errorf("Truncate(100 chars) should be unchanged, got %q", got)
	}
	if got := Truncate(strings.Repeat("é", 101)); got != strings.Repeat("é", 100)+"..." {
		t.Errorf("Truncate should count characters, got %q", got)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		ms   int
		want string
	}{
		{0, "0:00"},
		{5000, "0:05"},
		{65000, "1:05"},
		{3599999, "59:59"},
		{3723000, "62:03"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.ms); got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.ms, got, tt.want)
		}
	}
}

func TestNewShow(t *testing.T) {
	desc := strings.Repeat("d", 150)
	raw := &models.Show{
		Name:          models.Ptr("Pod"),
		ID:            models.NewID("s1"),
		URI:           "spotify:show:s1",
		Publisher:     "Pub",
		TotalEpisodes: 42,
		Images:        []models.Image{{URL: "https://i/1"}, {URL: "https://i/2"}},
		Description:   &desc,
		Explicit:      models.Ptr(true),
		Languages:     []string{"en"},
		MediaType:     models.Ptr("audio"),
		Episodes: &models.Paging[models.Episode]{Items: []*models.Episode{
			{Name: models.Ptr("E1"), ID: models.NewID("e1"), DurationMS: models.Ptr(60000), Description: models.Ptr("about")},
		}},
	}

	t.Run("Compact", func(t *testing.T) {
		view := must(NewShow(raw, false))
		if view.Type != "show" || view.Image != "https://i/1" || view.TotalEpisodes != 42 {
			t.Errorf("unexpected show: %+v", view)
		}
		if *view.Description != strings.Repeat("d", 100)+"..." {
			t.Errorf("compact description should be truncated, got %q", *view.Description)
		}
		if view.Explicit != nil || view.Episodes != nil || view.MediaType != nil {
			t.Error("compact show should not include detailed fields")
		}
	})

	t.Run("Detailed", func(t *testing.T) {
		view := must(NewShow(raw, true))
		if *view.Description != desc {
			t.Error("detailed description should be complete")
		}
		if len(view.Episodes) != 1 || view.Episodes[0].DurationMS != 60000 || *view.Episodes[0].Description != "about" {
			t.Errorf("unexpected episodes: %+v", view.Episodes)
		}
		if *view.MediaType != "audio" || !*view.Explicit {
			t.Errorf("unexpected details: %+v", view)
		}
	})

	t.Run("Defaults", func(t *testing.T) {
		m := asMap(t, must(NewShow(&models.Show{Name: models.Ptr("P"), ID: models.NewID("s")}, false)))
		if m["uri"] != "" || m["publisher"] != "" || m["total_episodes"] != float64(0) {
			t.Errorf("missing optional fields should default, got %v", m)
		}
		if _, ok := m["image"]; ok {
			t.Error("image should be absent without images")
		}
		if _, ok := m["description"]; ok {
			t.Error("description should be absent when the payload lacks it")
		}
	})
}

func TestNewEpisode(t *testing.T) {
	raw := decode[models.Episode](t, `{
		"name": "E1", "id": "e1", "uri": "spotify:episode:e1", "duration_ms": 125000,
		"release_date": "2024-02-01", "description": "short", "audio_preview_url": "https://p",
		"show": {"name": "Pod", "publisher": "Pub"}
	}`)

	m := asMap(t, must(NewEpisode(raw, false)))
	if m["show_name"] != "Pod" || m["publisher"] != "Pub" {
		t.Errorf("expected show fields, got %v", m)
	}
	if m["duration"] != "2:05" || m["type"] != "episode" {
		t.Errorf("unexpected duration/type: %v %v", m["duration"], m["type"])
	}
	if _, ok := m["audio_preview_url"]; ok {
		t.Error("compact episode should not include audio_preview_url")
	}

	m = asMap(t, must(NewEpisode(raw, true)))
	if m["audio_preview_url"] != "https://p" || m["description"] != "short" {
		t.Errorf("unexpected detailed episode: %v", m)
	}

	m = asMap(t, must(NewEpisode(&models.Episode{Name: models.Ptr("E"), ID: models.NewID("e")}, false)))
	if _, ok := m["show_name"]; ok {
		t.Error("show_name should be absent without a nested show")
	}
}

func TestNewAudiobook(t *testing.T) {
	raw := decode[models.Audiobook](t, `{
		"name": "Book", "id": "b1", "uri": "spotify:audiobook:b1", "total_chapters": 2,
		"authors": [{"name": "Writer"}],
		"narrators": [{"name": "N1"}, {"name": "N2"}],
		"chapters": {"items": [
			{"name": "Ch1", "id": "c1", "chapter_number": 1, "duration_ms": 61000},
			{"name": "Ch2", "id": "c2", "chapter_number": 2}
		]}
	}`)

	t.Run("Compact", func(t *testing.T) {
		m := asMap(t, must(NewAudiobook(raw, false)))
		if m["author"] != "Writer" {
			t.Errorf("single author should collapse, got %v", m["author"])
		}
		if _, ok := m["authors"]; ok {
			t.Error("authors key should be absent for a single author")
		}
		narrators, ok := m["narrators"].([]any)
		if !ok || len(narrators) != 2 {
			t.Errorf("expected narrator list, got %v", m["narrators"])
		}
		if _, ok := m["chapters"]; ok {
			t.Error("chapters are only listed in the detailed view")
		}
	})

	t.Run("Detailed", func(t *testing.T) {
		view := must(NewAudiobook(raw, true))
		if len(view.Chapters) != 2 {
			t.Fatalf("expected 2 chapters, got %d", len(view.Chapters))
		}
		if view.Chapters[0].Duration != "1:01" || view.Chapters[1].Duration != "" {
			t.Errorf("unexpected chapter durations: %+v %+v", view.Chapters[0], view.Chapters[1])
		}
		if *view.TotalChapters != 2 {
			t.Errorf("unexpected total_chapters: %v", view.TotalChapters)
		}
	})

	t.Run("No Attribution", func(t *testing.T) {
		m := asMap(t, must(NewAudiobook(&models.Audiobook{Name: models.Ptr("B"), ID: models.NewID("b")}, false)))
		for _, key := range []string{"author", "authors", "narrator", "narrators"} {
			if _, ok := m[key]; ok {
				t.Errorf("%s should be absent when the payload lacks it", key)
			}
		}
	})
}

func must[T any](v *T, err error) *T {
	if err != nil {
		panic(err)
	}
	return v
}
