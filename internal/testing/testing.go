// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"testing"

	"golang.org/x/oauth2"

	"github.com/desertthunder/spotify-mcp/internal/models"
	"github.com/desertthunder/spotify-mcp/internal/services"
	"github.com/desertthunder/spotify-mcp/internal/shared"
)

// MockAPI is a test double for [services.API].
//
// Catalog items are looked up in Items by "<type>:<id>". Artist albums and top tracks use the
// "artist_albums" and "top_tracks" prefixes. Every call is appended to Calls.
type MockAPI struct {
	mu sync.Mutex

	Valid      bool
	Active     bool
	Device     string
	RefreshErr error
	User       string
	UserErr    error
	Fail       error

	Playing       *models.CurrentlyPlaying
	QueueResult   *models.Queue
	SearchResult  *models.SearchResponse
	Items         map[string]any
	LastQuery     string
	LastSelector  string
	LastLimit     int
	Calls         []string
	Token         *oauth2.Token
	authenticated bool
}

var _ services.API = (*MockAPI)(nil)

// NewMockAPI returns a mock with a valid token and an active device.
func NewMockAPI() *MockAPI {
	return &MockAPI{Valid: true, Active: true, Device: "device-1", User: "tester", authenticated: true, Items: map[string]any{}}
}

func (m *MockAPI) record(format string, args ...any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, fmt.Sprintf(format, args...))
}

// Called returns a copy of the recorded calls.
func (m *MockAPI) Called() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.Calls...)
}

func (m *MockAPI) AuthOK(context.Context) bool {
	m.record("auth_ok")
	return m.Valid
}

func (m *MockAPI) AuthRefresh(context.Context) error {
	m.record("auth_refresh")
	if m.RefreshErr != nil {
		return m.RefreshErr
	}
	m.Valid = true
	return nil
}

func (m *MockAPI) IsActiveDevice(context.Context) (bool, error) {
	m.record("is_active_device")
	return m.Active, nil
}

func (m *MockAPI) CandidateDevice(context.Context) (string, error) {
	m.record("candidate_device")
	if m.Device == "" {
		return "", shared.ErrNoDevice
	}
	return m.Device, nil
}

func (m *MockAPI) AuthURL(state string) string {
	return "https://accounts.example/authorize?state=" + state
}

func (m *MockAPI) HandleCallback(_ context.Context, code string) error {
	m.record("handle_callback %s", code)
	if code == "" {
		return shared.ErrMissingArgument
	}
	m.authenticated = true
	return nil
}

func (m *MockAPI) Authenticated() bool { return m.authenticated }

// SetAuthenticated toggles whether the mock reports a held token.
func (m *MockAPI) SetAuthenticated(v bool) { m.authenticated = v }

// CurrentToken returns Token while authenticated.
func (m *MockAPI) CurrentToken() *oauth2.Token {
	if !m.authenticated {
		return nil
	}
	return m.Token
}

func (m *MockAPI) Logout(context.Context) error {
	m.record("logout")
	m.authenticated = false
	return m.Fail
}

func (m *MockAPI) Username(context.Context) (string, error) {
	m.record("username")
	return m.User, m.UserErr
}

func (m *MockAPI) CurrentlyPlaying(context.Context) (*models.CurrentlyPlaying, error) {
	m.record("currently_playing")
	return m.Playing, m.Fail
}

func (m *MockAPI) StartPlayback(_ context.Context, uri string, opts services.PlayOptions) error {
	m.record("start_playback %s device=%s", uri, opts.DeviceID)
	return m.Fail
}

func (m *MockAPI) PausePlayback(_ context.Context, opts services.PlayOptions) error {
	m.record("pause_playback device=%s", opts.DeviceID)
	return m.Fail
}

func (m *MockAPI) SkipTrack(_ context.Context, n int, opts services.PlayOptions) error {
	m.record("skip_track %d device=%s", n, opts.DeviceID)
	return m.Fail
}

func (m *MockAPI) AddToQueue(_ context.Context, trackID string, opts services.PlayOptions) error {
	m.record("add_to_queue %s device=%s", trackID, opts.DeviceID)
	return m.Fail
}

func (m *MockAPI) Queue(context.Context) (*models.Queue, error) {
	m.record("queue")
	if m.Fail != nil {
		return nil, m.Fail
	}
	if m.QueueResult == nil {
		return &models.Queue{}, nil
	}
	return m.QueueResult, nil
}

func (m *MockAPI) Search(_ context.Context, query, selector string, limit int) (*models.SearchResponse, error) {
	m.record("search %s", selector)
	m.LastQuery, m.LastSelector, m.LastLimit = query, selector, limit
	if m.Fail != nil {
		return nil, m.Fail
	}
	if m.SearchResult == nil {
		return &models.SearchResponse{}, nil
	}
	return m.SearchResult, nil
}

func (m *MockAPI) Track(_ context.Context, id string) (*models.Track, error) {
	return lookup[models.Track](m, models.ItemTrack, id)
}

func (m *MockAPI) Album(_ context.Context, id string) (*models.Album, error) {
	return lookup[models.Album](m, models.ItemAlbum, id)
}

func (m *MockAPI) Artist(_ context.Context, id string) (*models.Artist, error) {
	return lookup[models.Artist](m, models.ItemArtist, id)
}

func (m *MockAPI) ArtistAlbums(_ context.Context, id string) (*models.Paging[models.Album], error) {
	return lookup[models.Paging[models.Album]](m, "artist_albums", id)
}

func (m *MockAPI) ArtistTopTracks(_ context.Context, id string) (*models.TopTracks, error) {
	return lookup[models.TopTracks](m, "top_tracks", id)
}

func (m *MockAPI) Playlist(_ context.Context, id string) (*models.Playlist, error) {
	return lookup[models.Playlist](m, models.ItemPlaylist, id)
}

func (m *MockAPI) Show(_ context.Context, id string) (*models.Show, error) {
	return lookup[models.Show](m, models.ItemShow, id)
}

func (m *MockAPI) Episode(_ context.Context, id string) (*models.Episode, error) {
	return lookup[models.Episode](m, models.ItemEpisode, id)
}

func (m *MockAPI) Audiobook(_ context.Context, id string) (*models.Audiobook, error) {
	return lookup[models.Audiobook](m, models.ItemAudiobook, id)
}

func lookup[T any](m *MockAPI, kind, id string) (*T, error) {
	key := kind + ":" + id
	m.record("get %s", key)
	if m.Fail != nil {
		return nil, m.Fail
	}
	v, ok := m.Items[key].(*T)
	if !ok {
		return nil, fmt.Errorf("%w: %s: status 404: Non existing id", shared.ErrUpstream, key)
	}
	return v, nil
}

// Track builds a raw track with one artist per name.
func Track(id, name string, artists ...string) *models.Track {
	t := &models.Track{ID: models.NewID(id), Name: models.Ptr(name), URI: "spotify:track:" + id, Type: models.ItemTrack}
	for i, a := range artists {
		t.Artists = append(t.Artists, Artist(fmt.Sprintf("%s-artist-%d", id, i), a))
	}
	return t
}

// Artist builds a raw artist.
func Artist(id, name string) *models.Artist {
	return &models.Artist{ID: models.NewID(id), Name: models.Ptr(name), URI: "spotify:artist:" + id}
}

// Album builds a raw simplified album.
func Album(id, name string, artists ...string) *models.Album {
	a := &models.Album{ID: models.NewID(id), Name: models.Ptr(name), URI: "spotify:album:" + id}
	for i, n := range artists {
		a.Artists = append(a.Artists, Artist(fmt.Sprintf("%s-artist-%d", id, i), n))
	}
	return a
}

// Playlist builds a raw simplified playlist owned by owner.
func Playlist(id, name, owner string) *models.Playlist {
	return &models.Playlist{
		ID:    models.NewID(id),
		Name:  models.Ptr(name),
		URI:   "spotify:playlist:" + id,
		Owner: &models.Owner{ID: owner, DisplayName: models.Ptr(owner)},
	}
}

// Page wraps items in a [models.Paging].
func Page[T any](items ...*T) *models.Paging[T] {
	return &models.Paging[T]{Items: items, Total: len(items), Limit: len(items)}
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
