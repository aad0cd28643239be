package search

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/desertthunder/spotify-mcp/internal/models"
	"github.com/desertthunder/spotify-mcp/internal/shared"
	"github.com/desertthunder/spotify-mcp/internal/views"
)

// converter normalizes every non-null item of one category in resp.
type converter func(resp *models.SearchResponse, username string) ([]any, error)

type category struct {
	key     string
	convert converter
}

var categories = map[string]category{
	"track": {"tracks", func(r *models.SearchResponse, _ string) ([]any, error) {
		return convertAll(r.Tracks, "tracks", func(t *models.Track) (*views.Track, error) { return views.NewTrack(t, false) })
	}},
	"artist": {"artists", func(r *models.SearchResponse, _ string) ([]any, error) {
		return convertAll(r.Artists, "artists", func(a *models.Artist) (*views.Artist, error) { return views.NewArtist(a, false) })
	}},
	"album": {"albums", func(r *models.SearchResponse, _ string) ([]any, error) {
		return convertAll(r.Albums, "albums", func(a *models.Album) (*views.Album, error) { return views.NewAlbum(a, false) })
	}},
	"playlist": {"playlists", func(r *models.SearchResponse, username string) ([]any, error) {
		return convertAll(r.Playlists, "playlists", func(p *models.Playlist) (*views.Playlist, error) {
			return views.NewPlaylist(p, username, false)
		})
	}},
	"show": {"shows", func(r *models.SearchResponse, _ string) ([]any, error) {
		return convertAll(r.Shows, "shows", func(s *models.Show) (*views.Show, error) { return views.NewShow(s, false) })
	}},
	"episode": {"episodes", func(r *models.SearchResponse, _ string) ([]any, error) {
		return convertAll(r.Episodes, "episodes", func(e *models.Episode) (*views.Episode, error) { return views.NewEpisode(e, false) })
	}},
	"audiobook": {"audiobooks", func(r *models.SearchResponse, _ string) ([]any, error) {
		return convertAll(r.Audiobooks, "audiobooks", func(a *models.Audiobook) (*views.Audiobook, error) {
			return views.NewAudiobook(a, false)
		})
	}},
}

// Categories lists the recognized category selectors in sorted order.
func Categories() []string {
	keys := make([]string, 0, len(categories))
	for k := range categories {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// ValidateSelector checks every token of a comma-separated selector without converting anything.
func ValidateSelector(selector string) error {
	for _, token := range strings.Split(selector, ",") {
		if _, ok := categories[strings.TrimSpace(token)]; !ok {
			return fmt.Errorf("%w: %q (allowed: %s)", shared.ErrUnknownCategory, strings.TrimSpace(token), strings.Join(Categories(), ", "))
		}
	}
	return nil
}

func convertAll[R, V any](page *models.Paging[R], key string, fn func(*R) (*V, error)) ([]any, error) {
	if page == nil {
		return nil, fmt.Errorf("%w: search response has no %s", shared.ErrMalformedEntity, key)
	}

	out := make([]any, 0, len(page.Items))
	for _, item := range page.Items {
		if item == nil {
			continue
		}
		v, err := fn(item)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Aggregate normalizes the categories named by selector, keyed by their plural name in request order.
//
// An unknown selector token fails the whole call with [shared.ErrUnknownCategory]. Null items are skipped.
// A repeated selector appends its items again under the same key.
func Aggregate(resp *models.SearchResponse, selector, username string) (*Results, error) {
	if err := ValidateSelector(selector); err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, fmt.Errorf("%w: empty search response", shared.ErrMalformedEntity)
	}

	results := NewResults()
	for _, token := range strings.Split(selector, ",") {
		c := categories[strings.TrimSpace(token)]
		items, err := c.convert(resp, username)
		if err != nil {
			return nil, err
		}
		results.Append(c.key, items...)
	}
	return results, nil
}

// Results maps category names to normalized items, iterating in first-insertion order.
type Results struct {
	keys  []string
	items map[string][]any
}

// NewResults creates an empty [Results].
func NewResults() *Results {
	return &Results{items: make(map[string][]any)}
}

// Append adds items under key, registering key on first use.
func (r *Results) Append(key string, items ...any) {
	if _, ok := r.items[key]; !ok {
		r.keys = append(r.keys, key)
		r.items[key] = []any{}
	}
	r.items[key] = append(r.items[key], items...)
}

// Keys returns the category names in insertion order.
func (r *Results) Keys() []string {
	return slices.Clone(r.keys)
}

// Get returns the items stored under key.
func (r *Results) Get(key string) ([]any, bool) {
	items, ok := r.items[key]
	return items, ok
}

// Len returns the number of categories.
func (r *Results) Len() int {
	return len(r.keys)
}

// MarshalJSON encodes the results as an object whose keys follow insertion order.
func (r *Results) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(r.items[key])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
