// Spotify Web API response payloads
//
// Shapes follow https://developer.spotify.com/documentation/web-api/reference/.
// Fields whose presence changes the normalized output are pointers, or [ID] for identifiers,
// so an absent key can be told apart from a zero value.
package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T { return &v }

// ID is an object identifier that remembers whether its key was present.
//
// Local files arrive with "id": null, which decodes to a set, empty ID.
// A missing key leaves Set false.
type ID struct {
	Value string
	Set   bool
}

// NewID returns a present identifier.
func NewID(v string) ID { return ID{Value: v, Set: true} }

func (id *ID) UnmarshalJSON(data []byte) error {
	id.Set = true
	if string(data) == "null" {
		id.Value = ""
		return nil
	}
	return json.Unmarshal(data, &id.Value)
}

func (id ID) MarshalJSON() ([]byte, error) {
	if id.Value == "" {
		return []byte("null"), nil
	}
	return json.Marshal(id.Value)
}

// Image is an artwork resource.
type Image struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// Paging is the envelope the API wraps every list in. Unavailable catalog entries arrive as null items.
type Paging[T any] struct {
	Items  []*T    `json:"items"`
	Total  int     `json:"total"`
	Limit  int     `json:"limit"`
	Offset int     `json:"offset"`
	Next   *string `json:"next"`
}

// Artist is a full or simplified artist object.
type Artist struct {
	ID     ID       `json:"id,omitzero"`
	Name   *string  `json:"name"`
	URI    string   `json:"uri"`
	Genres []string `json:"genres"`
	Images []Image  `json:"images"`
}

// Track is a full or simplified track object.
type Track struct {
	ID          ID        `json:"id,omitzero"`
	Name        *string   `json:"name"`
	URI         string    `json:"uri"`
	Type        string    `json:"type"`
	IsPlaying   *bool     `json:"is_playing"`
	IsPlayable  *bool     `json:"is_playable"`
	Album       *Album    `json:"album"`
	TrackNumber *int      `json:"track_number"`
	DurationMS  *int      `json:"duration_ms"`
	Artists     []*Artist `json:"artists"`
}

// Album is a full or simplified album object. Tracks is only present on full albums.
type Album struct {
	ID          ID             `json:"id,omitzero"`
	Name        *string        `json:"name"`
	URI         string         `json:"uri"`
	Artists     []*Artist      `json:"artists"`
	Tracks      *Paging[Track] `json:"tracks"`
	TotalTracks *int           `json:"total_tracks"`
	ReleaseDate *string        `json:"release_date"`
	Genres      []string       `json:"genres"`
	Images      []Image        `json:"images"`
}

// Owner is the public profile attached to a playlist.
type Owner struct {
	ID          string  `json:"id"`
	DisplayName *string `json:"display_name"`
}

// PlaylistItem wraps a playlist entry. Track is null for removed or local-only entries.
type PlaylistItem struct {
	AddedAt string `json:"added_at"`
	Track   *Track `json:"track"`
}

// Playlist is a full or simplified playlist object.
type Playlist struct {
	ID          ID                    `json:"id,omitzero"`
	Name        *string               `json:"name"`
	URI         string                `json:"uri"`
	Owner       *Owner                `json:"owner"`
	Description *string               `json:"description"`
	Public      bool                  `json:"public"`
	Tracks      *Paging[PlaylistItem] `json:"tracks"`
	Images      []Image               `json:"images"`
}

// Show is a podcast show object.
type Show struct {
	ID              ID               `json:"id,omitzero"`
	Name            *string          `json:"name"`
	URI             string           `json:"uri"`
	Publisher       string           `json:"publisher"`
	TotalEpisodes   int              `json:"total_episodes"`
	Images          []Image          `json:"images"`
	Description     *string          `json:"description"`
	HTMLDescription *string          `json:"html_description"`
	Explicit        *bool            `json:"explicit"`
	Languages       []string         `json:"languages"`
	MediaType       *string          `json:"media_type"`
	Episodes        *Paging[Episode] `json:"episodes"`
}

// Episode is a podcast episode object. Show is only present on full episodes.
type Episode struct {
	ID              ID       `json:"id,omitzero"`
	Name            *string  `json:"name"`
	URI             string   `json:"uri"`
	Show            *Show    `json:"show"`
	DurationMS      *int     `json:"duration_ms"`
	Images          []Image  `json:"images"`
	ReleaseDate     *string  `json:"release_date"`
	Description     *string  `json:"description"`
	HTMLDescription *string  `json:"html_description"`
	Explicit        *bool    `json:"explicit"`
	Languages       []string `json:"languages"`
	AudioPreviewURL *string  `json:"audio_preview_url"`
}

// Person is an audiobook author or narrator.
type Person struct {
	Name string `json:"name"`
}

// Audiobook is an audiobook object. Chapters is only present on full audiobooks.
type Audiobook struct {
	ID              ID               `json:"id,omitzero"`
	Name            *string          `json:"name"`
	URI             string           `json:"uri"`
	Authors         []Person         `json:"authors"`
	Narrators       []Person         `json:"narrators"`
	Publisher       *string          `json:"publisher"`
	Images          []Image          `json:"images"`
	Description     *string          `json:"description"`
	HTMLDescription *string          `json:"html_description"`
	Explicit        *bool            `json:"explicit"`
	Languages       []string         `json:"languages"`
	TotalChapters   *int             `json:"total_chapters"`
	Chapters        *Paging[Chapter] `json:"chapters"`
}

// Chapter is a simplified audiobook chapter object.
type Chapter struct {
	ID            ID      `json:"id,omitzero"`
	Name          *string `json:"name"`
	URI           string  `json:"uri"`
	ChapterNumber int     `json:"chapter_number"`
	DurationMS    *int    `json:"duration_ms"`
}

// SearchResponse is the multi-category body of GET /search. Categories that were not requested are nil.
type SearchResponse struct {
	Tracks     *Paging[Track]     `json:"tracks"`
	Artists    *Paging[Artist]    `json:"artists"`
	Albums     *Paging[Album]     `json:"albums"`
	Playlists  *Paging[Playlist]  `json:"playlists"`
	Shows      *Paging[Show]      `json:"shows"`
	Episodes   *Paging[Episode]   `json:"episodes"`
	Audiobooks *Paging[Audiobook] `json:"audiobooks"`
}

// CurrentlyPlaying is the body of GET /me/player/currently-playing.
type CurrentlyPlaying struct {
	IsPlaying            bool   `json:"is_playing"`
	ProgressMS           int    `json:"progress_ms"`
	CurrentlyPlayingType string `json:"currently_playing_type"`
	Item                 *Track `json:"item"`
}

// Queue is the body of GET /me/player/queue. Episodes decode into [Track] with no album or artists.
type Queue struct {
	CurrentlyPlaying *Track   `json:"currently_playing"`
	Queue            []*Track `json:"queue"`
}

// TopTracks is the body of GET /artists/{id}/top-tracks.
type TopTracks struct {
	Tracks []*Track `json:"tracks"`
}

// Item types addressable by a spotify URI.
const (
	ItemTrack     = "track"
	ItemAlbum     = "album"
	ItemArtist    = "artist"
	ItemPlaylist  = "playlist"
	ItemShow      = "show"
	ItemEpisode   = "episode"
	ItemAudiobook = "audiobook"
)

// ItemURI is a parsed `spotify:<type>:<id>` identifier.
type ItemURI struct {
	Type string
	ID   string
}

// ParseItemURI splits a spotify URI into its type and id.
func ParseItemURI(uri string) (ItemURI, error) {
	parts := strings.Split(strings.TrimSpace(uri), ":")
	if len(parts) != 3 || parts[0] != "spotify" || parts[1] == "" || parts[2] == "" {
		return ItemURI{}, fmt.Errorf("expected spotify:<type>:<id>, got %q", uri)
	}
	return ItemURI{Type: parts[1], ID: parts[2]}, nil
}

func (u ItemURI) String() string {
	return "spotify:" + u.Type + ":" + u.ID
}
