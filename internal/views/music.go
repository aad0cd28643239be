package views

import (
	"github.com/desertthunder/spotify-mcp/internal/models"
	"github.com/desertthunder/spotify-mcp/internal/shared"
)

// Track is the normalized view of a track.
type Track struct {
	Name        string   `json:"name"`
	ID          string   `json:"id"`
	IsPlaying   *bool    `json:"is_playing,omitempty"`
	Album       *Album   `json:"album,omitempty"`
	TrackNumber *int     `json:"track_number,omitempty"`
	DurationMS  *int     `json:"duration_ms,omitempty"`
	IsPlayable  *bool    `json:"is_playable,omitempty"`
	Artist      *Credit  `json:"artist,omitempty"`
	Artists     []Credit `json:"artists,omitzero"`
}

// Credits returns the track's attribution whether it collapsed to a single artist or not.
func (t *Track) Credits() []Credit {
	if t.Artist != nil {
		return []Credit{*t.Artist}
	}
	return t.Artists
}

// Artist is the normalized view of an artist.
type Artist struct {
	Name   string   `json:"name"`
	ID     string   `json:"id"`
	Genres []string `json:"genres,omitzero"`
}

// Album is the normalized view of an album.
type Album struct {
	Name        string   `json:"name"`
	ID          string   `json:"id"`
	Tracks      []*Track `json:"tracks,omitzero"`
	TotalTracks *int     `json:"total_tracks,omitempty"`
	ReleaseDate *string  `json:"release_date,omitempty"`
	Genres      []string `json:"genres,omitzero"`
	Artist      *Credit  `json:"artist,omitempty"`
	Artists     []Credit `json:"artists,omitzero"`
}

// Credits returns the album's attribution whether it collapsed to a single artist or not.
func (a *Album) Credits() []Credit {
	if a.Artist != nil {
		return []Credit{*a.Artist}
	}
	return a.Artists
}

// Playlist is the normalized view of a playlist.
type Playlist struct {
	Name        string   `json:"name"`
	ID          string   `json:"id"`
	Owner       string   `json:"owner"`
	UserIsOwner bool     `json:"user_is_owner"`
	Description *string  `json:"description,omitempty"`
	Tracks      []*Track `json:"tracks,omitzero"`
}

// NewTrack normalizes a raw track. A nil track yields a nil view.
//
// The detailed view adds the album, track number, duration and full artist views.
func NewTrack(raw *models.Track, detailed bool) (*Track, error) {
	if raw == nil {
		return nil, nil
	}
	name, id, err := required("track", raw.Name, raw.ID)
	if err != nil {
		return nil, err
	}

	t := &Track{Name: name, ID: id, IsPlaying: raw.IsPlaying}
	if detailed {
		if t.Album, err = NewAlbum(raw.Album, false); err != nil {
			return nil, err
		}
		t.TrackNumber = raw.TrackNumber
		t.DurationMS = raw.DurationMS
	}
	if raw.IsPlayable != nil && !*raw.IsPlayable {
		t.IsPlayable = raw.IsPlayable
	}

	credits, err := newCredits(raw.Artists, detailed)
	if err != nil {
		return nil, err
	}
	t.Artist, t.Artists = collapse(credits)
	return t, nil
}

// NewArtist normalizes a raw artist. The detailed view adds genres.
func NewArtist(raw *models.Artist, detailed bool) (*Artist, error) {
	if raw == nil {
		return nil, nil
	}
	name, id, err := required("artist", raw.Name, raw.ID)
	if err != nil {
		return nil, err
	}

	a := &Artist{Name: name, ID: id}
	if detailed {
		a.Genres = emptyIfNil(raw.Genres)
	}
	return a, nil
}

// NewAlbum normalizes a raw album.
//
// The detailed view adds compact track views, total tracks, release date, genres and full artist views.
func NewAlbum(raw *models.Album, detailed bool) (*Album, error) {
	if raw == nil {
		return nil, nil
	}
	name, id, err := required("album", raw.Name, raw.ID)
	if err != nil {
		return nil, err
	}

	a := &Album{Name: name, ID: id}
	if detailed {
		a.Tracks = []*Track{}
		if raw.Tracks != nil {
			for _, item := range raw.Tracks.Items {
				t, err := NewTrack(item, false)
				if err != nil {
					return nil, err
				}
				if t != nil {
					a.Tracks = append(a.Tracks, t)
				}
			}
		}
		a.TotalTracks = raw.TotalTracks
		a.ReleaseDate = raw.ReleaseDate
		a.Genres = emptyIfNil(raw.Genres)
	}

	credits, err := newCredits(raw.Artists, detailed)
	if err != nil {
		return nil, err
	}
	a.Artist, a.Artists = collapse(credits)
	return a, nil
}

// NewPlaylist normalizes a raw playlist. user_is_owner compares the owner's display name to username.
//
// The detailed view adds the description and compact track views; null entries are skipped.
func NewPlaylist(raw *models.Playlist, username string, detailed bool) (*Playlist, error) {
	if raw == nil {
		return nil, nil
	}
	name, id, err := required("playlist", raw.Name, raw.ID)
	if err != nil {
		return nil, err
	}
	if raw.Owner == nil {
		return nil, shared.Malformed("playlist", "owner")
	}

	var owner string
	if raw.Owner.DisplayName != nil {
		owner = *raw.Owner.DisplayName
	}

	p := &Playlist{
		Name:        name,
		ID:          id,
		Owner:       owner,
		UserIsOwner: username != "" && owner == username,
	}
	if detailed {
		p.Description = raw.Description
		p.Tracks = []*Track{}
		if raw.Tracks != nil {
			for _, item := range raw.Tracks.Items {
				if item == nil {
					continue
				}
				t, err := NewTrack(item.Track, false)
				if err != nil {
					return nil, err
				}
				if t != nil {
					p.Tracks = append(p.Tracks, t)
				}
			}
		}
	}
	return p, nil
}

func newCredits(artists []*models.Artist, detailed bool) ([]Credit, error) {
	credits := make([]Credit, 0, len(artists))
	for _, raw := range artists {
		if raw == nil {
			continue
		}
		if detailed {
			a, err := NewArtist(raw, false)
			if err != nil {
				return nil, err
			}
			credits = append(credits, Credit{Artist: a})
			continue
		}
		if raw.Name == nil {
			return nil, shared.Malformed("artist", "name")
		}
		credits = append(credits, Credit{Name: *raw.Name})
	}
	return credits, nil
}
