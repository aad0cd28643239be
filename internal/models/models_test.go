package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestParseItemURI(t *testing.T) {
	tests := []struct {
		name    string
		uri     string
		want    ItemURI
		wantErr bool
	}{
		{name: "track", uri: "spotify:track:abc", want: ItemURI{Type: ItemTrack, ID: "abc"}},
		{name: "playlist with whitespace", uri: "  spotify:playlist:xyz ", want: ItemURI{Type: ItemPlaylist, ID: "xyz"}},
		{name: "wrong scheme", uri: "http:track:abc", wantErr: true},
		{name: "missing id", uri: "spotify:track:", wantErr: true},
		{name: "too many parts", uri: "spotify:user:me:playlist", wantErr: true},
		{name: "empty", uri: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseItemURI(tt.uri)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseItemURI(%q) error = %v, wantErr %v", tt.uri, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseItemURI(%q) = %+v, want %+v", tt.uri, got, tt.want)
			}
			if !tt.wantErr && got.String() != "spotify:"+tt.want.Type+":"+tt.want.ID {
				t.Errorf("String() = %q", got.String())
			}
		})
	}
}

func TestSearchResponseDecoding(t *testing.T) {
	body := `{
		"tracks": {"items": [{"name": "Song", "id": "t1", "artists": [{"name": "A", "id": "a1"}]}, null], "total": 2},
		"shows": {"items": [{"name": "Pod", "id": "s1", "description": ""}]}
	}`

	var resp SearchResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}

	if resp.Tracks == nil || len(resp.Tracks.Items) != 2 {
		t.Fatalf("expected 2 track items, got %+v", resp.Tracks)
	}
	if resp.Tracks.Items[1] != nil {
		t.Error("null item should decode to nil")
	}
	if *resp.Tracks.Items[0].Name != "Song" || resp.Tracks.Items[0].IsPlaying != nil {
		t.Errorf("unexpected track: %+v", resp.Tracks.Items[0])
	}
	if resp.Artists != nil {
		t.Error("absent category should stay nil")
	}
	if d := resp.Shows.Items[0].Description; d == nil || *d != "" {
		t.Error("present empty description should decode to a non-nil pointer")
	}
}

func TestID(t *testing.T) {
	tests := []struct {
		name string
		body string
		want ID
	}{
		{name: "value", body: `{"id": "t1"}`, want: NewID("t1")},
		{name: "null", body: `{"id": null}`, want: ID{Set: true}},
		{name: "absent", body: `{}`, want: ID{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var track Track
			if err := json.Unmarshal([]byte(tt.body), &track); err != nil {
				t.Fatalf("failed to decode: %v", err)
			}
			if track.ID != tt.want {
				t.Errorf("ID = %+v, want %+v", track.ID, tt.want)
			}
		})
	}

	t.Run("Encoding", func(t *testing.T) {
		for _, tt := range []struct {
			track Track
			want  string
		}{
			{Track{ID: NewID("t1")}, `"id":"t1"`},
			{Track{ID: ID{Set: true}}, `"id":null`},
		} {
			data, err := json.Marshal(tt.track)
			if err != nil {
				t.Fatalf("failed to encode: %v", err)
			}
			if !strings.Contains(string(data), tt.want) {
				t.Errorf("expected %s in %s", tt.want, data)
			}
		}

		data, _ := json.Marshal(Track{})
		if strings.Contains(string(data), `"id"`) {
			t.Errorf("an absent id should be omitted, got %s", data)
		}
	})
}

func TestToken(t *testing.T) {
	tok := NewToken("spotify")
	if err := tok.Validate(); err == nil {
		t.Error("expected validation error without access token")
	}

	tok.AccessToken = "access"
	if err := tok.Validate(); err != nil {
		t.Errorf("unexpected validation error: %v", err)
	}

	if tok.CreatedAt().IsZero() || tok.UpdatedAt().IsZero() {
		t.Error("timestamps should be set")
	}

	before := tok.UpdatedAt()
	tok.Touch()
	if tok.UpdatedAt().Before(before) {
		t.Error("Touch should not move the update timestamp backwards")
	}
}
