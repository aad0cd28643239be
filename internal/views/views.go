package views

import (
	"encoding/json"
	"fmt"

	"github.com/desertthunder/spotify-mcp/internal/models"
	"github.com/desertthunder/spotify-mcp/internal/shared"
)

// DescriptionLimit is the number of characters kept from a description in compact views.
const DescriptionLimit = 100

// Credit is one attribution entry on a track or album.
//
// It serializes as the bare name in compact views and as a nested [Artist] in detailed views.
type Credit struct {
	Name   string
	Artist *Artist
}

func (c Credit) MarshalJSON() ([]byte, error) {
	if c.Artist != nil {
		return json.Marshal(c.Artist)
	}
	return json.Marshal(c.Name)
}

func (c Credit) String() string {
	if c.Artist != nil {
		return c.Artist.Name
	}
	return c.Name
}

// collapse returns the single element when there is exactly one, otherwise the whole list (never nil).
func collapse[T any](items []T) (*T, []T) {
	if len(items) == 1 {
		return &items[0], nil
	}
	if items == nil {
		items = []T{}
	}
	return nil, items
}

// Truncate shortens s to [DescriptionLimit] characters followed by "...".
func Truncate(s string) string {
	runes := []rune(s)
	if len(runes) <= DescriptionLimit {
		return s
	}
	return string(runes[:DescriptionLimit]) + "..."
}

// FormatDuration renders milliseconds as M:SS.
func FormatDuration(ms int) string {
	return fmt.Sprintf("%d:%02d", ms/60000, (ms%60000)/1000)
}

func description(raw *string, detailed bool) *string {
	if raw == nil {
		return nil
	}
	if detailed {
		return raw
	}
	s := Truncate(*raw)
	return &s
}

// required unwraps name and id. A null id (local files) becomes ""; a missing key is malformed.
func required(kind string, name *string, id models.ID) (string, string, error) {
	if name == nil {
		return "", "", shared.Malformed(kind, "name")
	}
	if !id.Set {
		return "", "", shared.Malformed(kind, "id")
	}
	return *name, id.Value, nil
}

func firstImage(images []models.Image) string {
	if len(images) == 0 {
		return ""
	}
	return images[0].URL
}

// people flattens authors or narrators to names. An absent list yields neither field.
func people(raw []models.Person) (*string, []string) {
	if raw == nil {
		return nil, nil
	}
	names := make([]string, 0, len(raw))
	for _, p := range raw {
		names = append(names, p.Name)
	}
	return collapse(names)
}

func emptyIfNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
