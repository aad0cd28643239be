// Client surface consumed by the [Player] facade
package services

import (
	"context"

	"github.com/desertthunder/spotify-mcp/internal/models"
)

// API is the Spotify client surface the [Player] depends on. [SpotifyService] implements it.
type API interface {
	Gate

	// AuthURL returns the login URL for the given OAuth state.
	AuthURL(state string) string

	// HandleCallback exchanges an authorization code for a token.
	HandleCallback(ctx context.Context, code string) error

	// Authenticated reports whether any token is held.
	Authenticated() bool

	// Username returns the current user's display name.
	Username(ctx context.Context) (string, error)

	// CurrentlyPlaying returns the player's current item, or nil when idle.
	CurrentlyPlaying(ctx context.Context) (*models.CurrentlyPlaying, error)

	// StartPlayback plays uri, or resumes when uri is empty.
	StartPlayback(ctx context.Context, uri string, opts PlayOptions) error

	// PausePlayback pauses playback.
	PausePlayback(ctx context.Context, opts PlayOptions) error

	// SkipTrack advances n tracks.
	SkipTrack(ctx context.Context, n int, opts PlayOptions) error

	// AddToQueue appends a track to the queue.
	AddToQueue(ctx context.Context, trackID string, opts PlayOptions) error

	// Queue returns the playback queue.
	Queue(ctx context.Context) (*models.Queue, error)

	// Search runs an encoded catalog query against the categories in selector.
	Search(ctx context.Context, query, selector string, limit int) (*models.SearchResponse, error)

	Catalog
}

// Catalog retrieves single catalog items by ID.
type Catalog interface {
	Track(ctx context.Context, id string) (*models.Track, error)
	Album(ctx context.Context, id string) (*models.Album, error)
	Artist(ctx context.Context, id string) (*models.Artist, error)
	ArtistAlbums(ctx context.Context, id string) (*models.Paging[models.Album], error)
	ArtistTopTracks(ctx context.Context, id string) (*models.TopTracks, error)
	Playlist(ctx context.Context, id string) (*models.Playlist, error)
	Show(ctx context.Context, id string) (*models.Show, error)
	Episode(ctx context.Context, id string) (*models.Episode, error)
	Audiobook(ctx context.Context, id string) (*models.Audiobook, error)
}

var _ API = (*SpotifyService)(nil)
