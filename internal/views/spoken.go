package views

import (
	"github.com/desertthunder/spotify-mcp/internal/models"
)

// Kind values reported in the type field of spoken-word views.
const (
	KindShow      = "show"
	KindEpisode   = "episode"
	KindAudiobook = "audiobook"
)

// Show is the normalized view of a podcast show.
type Show struct {
	Name            string            `json:"name"`
	ID              string            `json:"id"`
	URI             string            `json:"uri"`
	Publisher       string            `json:"publisher"`
	Type            string            `json:"type"`
	TotalEpisodes   int               `json:"total_episodes"`
	Image           string            `json:"image,omitempty"`
	Description     *string           `json:"description,omitempty"`
	Explicit        *bool             `json:"explicit,omitempty"`
	Languages       []string          `json:"languages,omitzero"`
	MediaType       *string           `json:"media_type,omitempty"`
	HTMLDescription *string           `json:"html_description,omitempty"`
	Episodes        []*EpisodeSummary `json:"episodes,omitzero"`
}

// EpisodeSummary is an episode listed inside a detailed [Show].
type EpisodeSummary struct {
	Name        string  `json:"name"`
	ID          string  `json:"id"`
	URI         string  `json:"uri"`
	ReleaseDate string  `json:"release_date"`
	DurationMS  int     `json:"duration_ms"`
	Description *string `json:"description,omitempty"`
}

// Episode is the normalized view of a podcast episode.
type Episode struct {
	Name            string   `json:"name"`
	ID              string   `json:"id"`
	URI             string   `json:"uri"`
	Type            string   `json:"type"`
	ShowName        *string  `json:"show_name,omitempty"`
	Publisher       *string  `json:"publisher,omitempty"`
	Duration        string   `json:"duration,omitempty"`
	Image           string   `json:"image,omitempty"`
	ReleaseDate     *string  `json:"release_date,omitempty"`
	Description     *string  `json:"description,omitempty"`
	Explicit        *bool    `json:"explicit,omitempty"`
	Languages       []string `json:"languages,omitzero"`
	HTMLDescription *string  `json:"html_description,omitempty"`
	AudioPreviewURL *string  `json:"audio_preview_url,omitempty"`
}

// Audiobook is the normalized view of an audiobook.
type Audiobook struct {
	Name            string     `json:"name"`
	ID              string     `json:"id"`
	URI             string     `json:"uri"`
	Type            string     `json:"type"`
	Author          *string    `json:"author,omitempty"`
	Authors         []string   `json:"authors,omitzero"`
	Narrator        *string    `json:"narrator,omitempty"`
	Narrators       []string   `json:"narrators,omitzero"`
	Publisher       *string    `json:"publisher,omitempty"`
	Image           string     `json:"image,omitempty"`
	Description     *string    `json:"description,omitempty"`
	Explicit        *bool      `json:"explicit,omitempty"`
	Languages       []string   `json:"languages,omitzero"`
	TotalChapters   *int       `json:"total_chapters,omitempty"`
	HTMLDescription *string    `json:"html_description,omitempty"`
	Chapters        []*Chapter `json:"chapters,omitzero"`
}

// Chapter is an audiobook chapter, only listed inside a detailed [Audiobook].
type Chapter struct {
	Name          string `json:"name"`
	ID            string `json:"id"`
	URI           string `json:"uri"`
	ChapterNumber int    `json:"chapter_number"`
	Duration      string `json:"duration,omitempty"`
}

// NewShow normalizes a raw show. Compact views truncate the description.
func NewShow(raw *models.Show, detailed bool) (*Show, error) {
	if raw == nil {
		return nil, nil
	}
	name, id, err := required("show", raw.Name, raw.ID)
	if err != nil {
		return nil, err
	}

	s := &Show{
		Name:          name,
		ID:            id,
		URI:           raw.URI,
		Publisher:     raw.Publisher,
		Type:          KindShow,
		TotalEpisodes: raw.TotalEpisodes,
		Image:         firstImage(raw.Images),
		Description:   description(raw.Description, detailed),
	}
	if !detailed {
		return s, nil
	}

	s.Explicit = raw.Explicit
	s.Languages = raw.Languages
	s.MediaType = raw.MediaType
	s.HTMLDescription = raw.HTMLDescription
	if raw.Episodes != nil {
		s.Episodes = make([]*EpisodeSummary, 0, len(raw.Episodes.Items))
		for _, item := range raw.Episodes.Items {
			e, err := newEpisodeSummary(item)
			if err != nil {
				return nil, err
			}
			if e != nil {
				s.Episodes = append(s.Episodes, e)
			}
		}
	}
	return s, nil
}

func newEpisodeSummary(raw *models.Episode) (*EpisodeSummary, error) {
	if raw == nil {
		return nil, nil
	}
	name, id, err := required("episode", raw.Name, raw.ID)
	if err != nil {
		return nil, err
	}

	e := &EpisodeSummary{Name: name, ID: id, URI: raw.URI, Description: raw.Description}
	if raw.ReleaseDate != nil {
		e.ReleaseDate = *raw.ReleaseDate
	}
	if raw.DurationMS != nil {
		e.DurationMS = *raw.DurationMS
	}
	return e, nil
}

// NewEpisode normalizes a raw episode, pulling show name and publisher from the nested show.
func NewEpisode(raw *models.Episode, detailed bool) (*Episode, error) {
	if raw == nil {
		return nil, nil
	}
	name, id, err := required("episode", raw.Name, raw.ID)
	if err != nil {
		return nil, err
	}

	e := &Episode{
		Name:        name,
		ID:          id,
		URI:         raw.URI,
		Type:        KindEpisode,
		Image:       firstImage(raw.Images),
		ReleaseDate: raw.ReleaseDate,
		Description: description(raw.Description, detailed),
	}
	if raw.Show != nil {
		showName := ""
		if raw.Show.Name != nil {
			showName = *raw.Show.Name
		}
		publisher := raw.Show.Publisher
		e.ShowName, e.Publisher = &showName, &publisher
	}
	if raw.DurationMS != nil {
		e.Duration = FormatDuration(*raw.DurationMS)
	}
	if detailed {
		e.Explicit = raw.Explicit
		e.Languages = raw.Languages
		e.HTMLDescription = raw.HTMLDescription
		e.AudioPreviewURL = raw.AudioPreviewURL
	}
	return e, nil
}

// NewAudiobook normalizes a raw audiobook. Authors and narrators collapse like artists do.
//
// Chapters are only listed in the detailed view.
func NewAudiobook(raw *models.Audiobook, detailed bool) (*Audiobook, error) {
	if raw == nil {
		return nil, nil
	}
	name, id, err := required("audiobook", raw.Name, raw.ID)
	if err != nil {
		return nil, err
	}

	a := &Audiobook{
		Name:        name,
		ID:          id,
		URI:         raw.URI,
		Type:        KindAudiobook,
		Publisher:   raw.Publisher,
		Image:       firstImage(raw.Images),
		Description: description(raw.Description, detailed),
	}
	a.Author, a.Authors = people(raw.Authors)
	a.Narrator, a.Narrators = people(raw.Narrators)
	if !detailed {
		return a, nil
	}

	a.Explicit = raw.Explicit
	a.Languages = raw.Languages
	a.TotalChapters = raw.TotalChapters
	a.HTMLDescription = raw.HTMLDescription
	if raw.Chapters != nil {
		a.Chapters = make([]*Chapter, 0, len(raw.Chapters.Items))
		for _, item := range raw.Chapters.Items {
			c, err := newChapter(item)
			if err != nil {
				return nil, err
			}
			if c != nil {
				a.Chapters = append(a.Chapters, c)
			}
		}
	}
	return a, nil
}

func newChapter(raw *models.Chapter) (*Chapter, error) {
	if raw == nil {
		return nil, nil
	}
	name, id, err := required("chapter", raw.Name, raw.ID)
	if err != nil {
		return nil, err
	}

	c := &Chapter{Name: name, ID: id, URI: raw.URI, ChapterNumber: raw.ChapterNumber}
	if raw.DurationMS != nil {
		c.Duration = FormatDuration(*raw.DurationMS)
	}
	return c, nil
}
