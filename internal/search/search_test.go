package search

import (
	"encoding/json"
	"errors"
	"net/url"
	"slices"
	"testing"

	"github.com/desertthunder/spotify-mcp/internal/models"
	"github.com/desertthunder/spotify-mcp/internal/shared"
	"github.com/desertthunder/spotify-mcp/internal/views"
)

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		name    string
		base    string
		filters Filters
		want    string
	}{
		{
			name: "Base Only",
			base: "abc",
			want: "abc",
		},
		{
			name:    "Artist And Year Range",
			base:    "abc",
			filters: Filters{Artist: "X", YearRange: &YearRange{Start: 2000, End: 2010}},
			want:    "abc artist:X year:2000-2010",
		},
		{
			name: "All Filters In Order",
			base: "q",
			filters: Filters{
				New: true, Hipster: true, Genre: "jazz", YearRange: &YearRange{1990, 1999},
				Year: "1995", Album: "Al", Track: "Tr", Artist: "Ar",
			},
			want: "q artist:Ar track:Tr album:Al year:1995 year:1990-1999 genre:jazz tag:hipster tag:new",
		},
		{
			name:    "Tags Only",
			base:    "mix",
			filters: Filters{New: true},
			want:    "mix tag:new",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildQuery(tt.base, tt.filters)
			decoded, err := url.PathUnescape(got)
			if err != nil {
				t.Fatalf("result is not percent-encoded: %v", err)
			}
			if decoded != tt.want {
				t.Errorf("BuildQuery() decodes to %q, want %q", decoded, tt.want)
			}
		})
	}

	t.Run("Encoding", func(t *testing.T) {
		got := BuildQuery("daft punk", Filters{Artist: "Daft Punk"})
		if got != "daft%20punk%20artist%3ADaft%20Punk" {
			t.Errorf("unexpected encoding %q", got)
		}
		if got := BuildQuery("a+b", Filters{}); got != "a%2Bb" {
			t.Errorf("plus signs must stay distinguishable from spaces, got %q", got)
		}
		if got := BuildQuery("ac/dc", Filters{Artist: "AC/DC"}); got != "ac/dc%20artist%3AAC/DC" {
			t.Errorf("slashes should stay literal, got %q", got)
		}
		if got := BuildQuery("50%~_.-", Filters{}); got != "50%25~_.-" {
			t.Errorf("unreserved characters should pass through, got %q", got)
		}
	})
}

func TestParseYearRange(t *testing.T) {
	r, err := ParseYearRange("2000-2010")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Start != 2000 || r.End != 2010 {
		t.Errorf("unexpected range %+v", r)
	}

	for _, bad := range []string{"2000", "x-2010", "2000-y", ""} {
		if _, err := ParseYearRange(bad); err == nil {
			t.Errorf("ParseYearRange(%q) should fail", bad)
		}
	}
}

const searchFixture = `{
	"tracks": {"items": [
		{"name": "T1", "id": "t1", "artists": [{"name": "A", "id": "a"}]},
		null,
		{"name": "T2", "id": "t2", "artists": [{"name": "A", "id": "a"}, {"name": "B", "id": "b"}]}
	]},
	"albums": {"items": [{"name": "Al", "id": "al", "artists": [{"name": "A", "id": "a"}]}]},
	"artists": {"items": [{"name": "A", "id": "a"}]},
	"playlists": {"items": [null, {"name": "P", "id": "p", "owner": {"display_name": "me"}}]},
	"shows": {"items": [{"name": "S", "id": "s"}]},
	"episodes": {"items": [{"name": "E", "id": "e", "duration_ms": 1000}]},
	"audiobooks": {"items": [{"name": "B", "id": "b", "authors": [{"name": "W"}]}]}
}`

func fixture(t *testing.T) *models.SearchResponse {
	t.Helper()
	var resp models.SearchResponse
	if err := json.Unmarshal([]byte(searchFixture), &resp); err != nil {
		t.Fatalf("failed to decode fixture: %v", err)
	}
	return &resp
}

func TestAggregate(t *testing.T) {
	t.Run("Keys Follow Request Order", func(t *testing.T) {
		results, err := Aggregate(fixture(t), "track,album", "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got := results.Keys(); !slices.Equal(got, []string{"tracks", "albums"}) {
			t.Errorf("Keys() = %v", got)
		}

		tracks, _ := results.Get("tracks")
		if len(tracks) != 2 {
			t.Fatalf("null items should be skipped, got %d tracks", len(tracks))
		}
		if tracks[0].(*views.Track).ID != "t1" || tracks[1].(*views.Track).ID != "t2" {
			t.Error("input order should be preserved")
		}

		data, err := json.Marshal(results)
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		want := `{"tracks":[{"name":"T1","id":"t1","artist":"A"},{"name":"T2","id":"t2","artists":["A","B"]}],"albums":[{"name":"Al","id":"al","artist":"A"}]}`
		if string(data) != want {
			t.Errorf("MarshalJSON() = %s\nwant %s", data, want)
		}
	})

	t.Run("Reverse Order", func(t *testing.T) {
		results, err := Aggregate(fixture(t), "album, track", "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := results.Keys(); !slices.Equal(got, []string{"albums", "tracks"}) {
			t.Errorf("Keys() = %v", got)
		}
	})

	t.Run("All Categories", func(t *testing.T) {
		results, err := Aggregate(fixture(t), "audiobook,episode,show,playlist,artist,album,track", "me")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if results.Len() != 7 {
			t.Fatalf("expected 7 categories, got %d", results.Len())
		}
		playlists, _ := results.Get("playlists")
		if len(playlists) != 1 || !playlists[0].(*views.Playlist).UserIsOwner {
			t.Errorf("unexpected playlists: %v", playlists)
		}
		books, _ := results.Get("audiobooks")
		if *books[0].(*views.Audiobook).Author != "W" {
			t.Error("audiobook author should collapse")
		}
	})

	t.Run("Unknown Category", func(t *testing.T) {
		results, err := Aggregate(fixture(t), "track,podcast", "")
		if !errors.Is(err, shared.ErrUnknownCategory) {
			t.Errorf("expected ErrUnknownCategory, got %v", err)
		}
		if results != nil {
			t.Error("no partial results on failure")
		}
	})

	t.Run("Missing Category", func(t *testing.T) {
		_, err := Aggregate(&models.SearchResponse{}, "track", "")
		if !errors.Is(err, shared.ErrMalformedEntity) {
			t.Errorf("expected ErrMalformedEntity, got %v", err)
		}
	})

	t.Run("Malformed Item", func(t *testing.T) {
		resp := &models.SearchResponse{Artists: &models.Paging[models.Artist]{Items: []*models.Artist{{Name: models.Ptr("x")}}}}
		_, err := Aggregate(resp, "artist", "")
		if !errors.Is(err, shared.ErrMalformedEntity) {
			t.Errorf("expected ErrMalformedEntity, got %v", err)
		}
	})
}

func TestResults(t *testing.T) {
	r := NewResults()
	r.Append("b", 1)
	r.Append("a")
	r.Append("b", 2)

	if got := r.Keys(); !slices.Equal(got, []string{"b", "a"}) {
		t.Errorf("Keys() = %v", got)
	}

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(data) != `{"b":[1,2],"a":[]}` {
		t.Errorf("MarshalJSON() = %s", data)
	}

	if _, ok := r.Get("c"); ok {
		t.Error("Get should report missing keys")
	}

	if data, _ := json.Marshal(NewResults()); string(data) != "{}" {
		t.Errorf("empty results should encode as {}, got %s", data)
	}
}
