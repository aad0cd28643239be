package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/spotify-mcp/internal/models"
	"github.com/desertthunder/spotify-mcp/internal/search"
	"github.com/desertthunder/spotify-mcp/internal/shared"
	"github.com/desertthunder/spotify-mcp/internal/views"
)

// QueueView is the normalized playback queue.
type QueueView struct {
	CurrentlyPlaying *views.Track   `json:"currently_playing"`
	Queue            []*views.Track `json:"queue"`
}

// ArtistInfo is a detailed artist with their albums and top tracks.
type ArtistInfo struct {
	*views.Artist
	Albums    []*views.Album `json:"albums"`
	TopTracks []*views.Track `json:"top_tracks"`
}

// Player combines the Spotify client, the retry [Policy] and the normalization layer.
type Player struct {
	api    API
	policy *Policy
	logger *log.Logger
}

// NewPlayer creates a [Player] guarding device-dependent calls with a [Policy] over api.
func NewPlayer(api API, logger *log.Logger) *Player {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Player{api: api, policy: NewPolicy(api, logger), logger: logger}
}

// API returns the underlying client.
func (p *Player) API() API { return p.api }

// CurrentTrack returns the playing track with is_playing set, or nil when idle or playing a non-track item.
func (p *Player) CurrentTrack(ctx context.Context) (*views.Track, error) {
	cp, err := p.api.CurrentlyPlaying(ctx)
	if err != nil {
		return nil, err
	}
	if cp == nil || cp.CurrentlyPlayingType != models.ItemTrack {
		return nil, nil
	}

	track, err := views.NewTrack(cp.Item, false)
	if err != nil || track == nil {
		return nil, err
	}
	playing := cp.IsPlaying
	track.IsPlaying = &playing
	return track, nil
}

// Start plays uri, or resumes playback when uri is empty.
func (p *Player) Start(ctx context.Context, uri string) error {
	return p.policy.Run(ctx, PlayOptions{}, func(ctx context.Context, opts PlayOptions) error {
		return p.api.StartPlayback(ctx, uri, opts)
	})
}

// Pause pauses playback.
func (p *Player) Pause(ctx context.Context) error {
	return p.policy.Run(ctx, PlayOptions{}, func(ctx context.Context, opts PlayOptions) error {
		return p.api.PausePlayback(ctx, opts)
	})
}

// Skip advances n tracks.
func (p *Player) Skip(ctx context.Context, n int) error {
	return p.policy.Run(ctx, PlayOptions{}, func(ctx context.Context, opts PlayOptions) error {
		return p.api.SkipTrack(ctx, n, opts)
	})
}

// AddToQueue appends a track to the queue.
func (p *Player) AddToQueue(ctx context.Context, trackID string) error {
	if trackID == "" {
		return fmt.Errorf("%w: track_id", shared.ErrMissingArgument)
	}
	return p.policy.Run(ctx, PlayOptions{}, func(ctx context.Context, opts PlayOptions) error {
		return p.api.AddToQueue(ctx, trackID, opts)
	})
}

// Queue returns the normalized playback queue.
func (p *Player) Queue(ctx context.Context) (*QueueView, error) {
	raw, err := p.api.Queue(ctx)
	if err != nil {
		return nil, err
	}

	current, err := views.NewTrack(raw.CurrentlyPlaying, false)
	if err != nil {
		return nil, err
	}
	queue, err := tracks(raw.Queue, false)
	if err != nil {
		return nil, err
	}
	return &QueueView{CurrentlyPlaying: current, Queue: queue}, nil
}

// Search builds the query from base and filters, runs it and aggregates the categories named by selector.
func (p *Player) Search(ctx context.Context, base string, filters search.Filters, selector string, limit int) (*search.Results, error) {
	if err := search.ValidateSelector(selector); err != nil {
		return nil, err
	}

	resp, err := p.api.Search(ctx, search.BuildQuery(base, filters), selector, limit)
	if err != nil {
		return nil, err
	}

	return search.Aggregate(resp, selector, p.username(ctx, selector))
}

// username is only looked up when playlists are requested.
func (p *Player) username(ctx context.Context, selector string) string {
	if !containsPlaylist(selector) {
		return ""
	}
	name, err := p.api.Username(ctx)
	if err != nil {
		p.logger.Warn("could not resolve username, ownership unknown", "err", err)
		return ""
	}
	return name
}

// Info returns a detailed view of the item behind a spotify URI.
func (p *Player) Info(ctx context.Context, itemURI string) (any, error) {
	uri, err := models.ParseItemURI(itemURI)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidItemURI, err)
	}

	switch uri.Type {
	case models.ItemTrack:
		raw, err := p.api.Track(ctx, uri.ID)
		if err != nil {
			return nil, err
		}
		return views.NewTrack(raw, true)
	case models.ItemAlbum:
		raw, err := p.api.Album(ctx, uri.ID)
		if err != nil {
			return nil, err
		}
		return views.NewAlbum(raw, true)
	case models.ItemArtist:
		return p.artistInfo(ctx, uri.ID)
	case models.ItemPlaylist:
		raw, err := p.api.Playlist(ctx, uri.ID)
		if err != nil {
			return nil, err
		}
		username, err := p.api.Username(ctx)
		if err != nil {
			return nil, err
		}
		return views.NewPlaylist(raw, username, true)
	case models.ItemShow:
		raw, err := p.api.Show(ctx, uri.ID)
		if err != nil {
			return nil, err
		}
		return views.NewShow(raw, true)
	case models.ItemEpisode:
		raw, err := p.api.Episode(ctx, uri.ID)
		if err != nil {
			return nil, err
		}
		return views.NewEpisode(raw, true)
	case models.ItemAudiobook:
		raw, err := p.api.Audiobook(ctx, uri.ID)
		if err != nil {
			return nil, err
		}
		return views.NewAudiobook(raw, true)
	default:
		return nil, fmt.Errorf("%w: %s", shared.ErrUnknownItemType, uri.Type)
	}
}

func (p *Player) artistInfo(ctx context.Context, id string) (*ArtistInfo, error) {
	raw, err := p.api.Artist(ctx, id)
	if err != nil {
		return nil, err
	}
	artist, err := views.NewArtist(raw, true)
	if err != nil {
		return nil, err
	}

	albumsPage, err := p.api.ArtistAlbums(ctx, id)
	if err != nil {
		return nil, err
	}
	albums := make([]*views.Album, 0, len(albumsPage.Items))
	for _, item := range albumsPage.Items {
		a, err := views.NewAlbum(item, false)
		if err != nil {
			return nil, err
		}
		if a != nil {
			albums = append(albums, a)
		}
	}

	top, err := p.api.ArtistTopTracks(ctx, id)
	if err != nil {
		return nil, err
	}
	topTracks, err := tracks(top.Tracks, false)
	if err != nil {
		return nil, err
	}

	return &ArtistInfo{Artist: artist, Albums: albums, TopTracks: topTracks}, nil
}

func tracks(raw []*models.Track, detailed bool) ([]*views.Track, error) {
	out := make([]*views.Track, 0, len(raw))
	for _, item := range raw {
		t, err := views.NewTrack(item, detailed)
		if err != nil {
			return nil, err
		}
		if t != nil {
			out = append(out, t)
		}
	}
	return out, nil
}

func containsPlaylist(selector string) bool {
	for token := range strings.SplitSeq(selector, ",") {
		if strings.TrimSpace(token) == "playlist" {
			return true
		}
	}
	return false
}

// IsAuthError reports whether err means the user has to log in again.
func IsAuthError(err error) bool {
	return errors.Is(err, shared.ErrNotAuthenticated) ||
		errors.Is(err, shared.ErrNoRefreshToken) ||
		errors.Is(err, shared.ErrRefreshFailed) ||
		errors.Is(err, shared.ErrTokenExpired)
}
