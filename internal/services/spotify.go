// Spotify Web API client
//
// Catalog, search and player-state reads go through a [req.Client] and decode into package models.
// Player control, devices and the user profile go through a [spotify.Client].
// Both authenticate with the service itself acting as an [oauth2.TokenSource].
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/imroc/req/v3"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/desertthunder/spotify-mcp/internal/models"
	"github.com/desertthunder/spotify-mcp/internal/shared"
)

const (
	spotifyBaseURL = "https://api.spotify.com/v1"

	// TokenProvider keys persisted Spotify tokens.
	TokenProvider = "spotify"
)

// Scopes requested during login.
var Scopes = []string{
	spotifyauth.ScopeUserReadPlaybackState,
	spotifyauth.ScopeUserModifyPlaybackState,
	spotifyauth.ScopeUserReadCurrentlyPlaying,
	spotifyauth.ScopeUserReadPrivate,
	spotifyauth.ScopePlaylistReadPrivate,
	spotifyauth.ScopePlaylistReadCollaborative,
}

// Authenticator runs the OAuth code flow. [*spotifyauth.Authenticator] satisfies it.
type Authenticator interface {
	AuthURL(state string, opts ...oauth2.AuthCodeOption) string
	Exchange(ctx context.Context, code string, opts ...oauth2.AuthCodeOption) (*oauth2.Token, error)
	RefreshToken(ctx context.Context, token *oauth2.Token) (*oauth2.Token, error)
}

// TokenStore persists the OAuth token between runs.
type TokenStore interface {
	Load(ctx context.Context) (*oauth2.Token, error)
	Save(ctx context.Context, token *oauth2.Token) error
	Clear(ctx context.Context) error
}

// SpotifyOption configures a [SpotifyService].
type SpotifyOption func(*SpotifyService)

// WithBaseURL points both HTTP clients at baseURL instead of the public Web API.
func WithBaseURL(baseURL string) SpotifyOption {
	return func(s *SpotifyService) { s.baseURL = strings.TrimSuffix(baseURL, "/") }
}

// WithAuthenticator replaces the OAuth authenticator built from the credentials.
func WithAuthenticator(a Authenticator) SpotifyOption {
	return func(s *SpotifyService) { s.auth = a }
}

// WithTokenStore persists tokens to store.
func WithTokenStore(store TokenStore) SpotifyOption {
	return func(s *SpotifyService) { s.store = store }
}

// WithMarket sets the market used for catalog lookups.
func WithMarket(market string) SpotifyOption {
	return func(s *SpotifyService) { s.market = market }
}

// WithServiceLogger sets the logger used for token and device events.
func WithServiceLogger(l *log.Logger) SpotifyOption {
	return func(s *SpotifyService) { s.logger = l }
}

// WithRateLimit paces Web API requests to rps per second. Non-positive values disable pacing.
func WithRateLimit(rps float64) SpotifyOption {
	return func(s *SpotifyService) {
		if rps <= 0 {
			s.limiter = nil
			return
		}
		s.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// SpotifyService is the Spotify Web API client. It implements [Gate] and [API].
type SpotifyService struct {
	auth    Authenticator
	store   TokenStore
	baseURL string
	market  string
	logger  *log.Logger
	limiter *rate.Limiter

	http *req.Client
	api  *spotify.Client

	mu       sync.Mutex
	token    *oauth2.Token
	username string
}

// NewSpotifyService creates a new Spotify service with the given OAuth2 credentials.
func NewSpotifyService(creds shared.SpotifyConfig, opts ...SpotifyOption) (*SpotifyService, error) {
	if creds.ClientID == "" {
		return nil, fmt.Errorf("%w: missing client_id", shared.ErrMissingCredentials)
	}
	if creds.ClientSecret == "" {
		return nil, fmt.Errorf("%w: missing client_secret", shared.ErrMissingCredentials)
	}

	s := &SpotifyService{baseURL: spotifyBaseURL}
	for _, opt := range opts {
		opt(s)
	}

	if s.auth == nil {
		s.auth = spotifyauth.New(
			spotifyauth.WithClientID(creds.ClientID),
			spotifyauth.WithClientSecret(creds.ClientSecret),
			spotifyauth.WithRedirectURL(creds.RedirectURI),
			spotifyauth.WithScopes(Scopes...),
		)
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}

	s.http = req.C().
		SetBaseURL(s.baseURL).
		SetCommonHeader("Accept", "application/json").
		OnBeforeRequest(func(_ *req.Client, r *req.Request) error {
			if err := s.pace(r.Context()); err != nil {
				return err
			}
			tok, err := s.Token()
			if err != nil {
				return err
			}
			r.SetBearerAuthToken(tok.AccessToken)
			return nil
		})

	s.api = spotify.New(&http.Client{Transport: &pacedTransport{s: s, next: &oauth2.Transport{Source: s}}},
		spotify.WithBaseURL(s.baseURL+"/"))
	return s, nil
}

// pace blocks until the limiter admits another request.
func (s *SpotifyService) pace(ctx context.Context) error {
	if s.limiter == nil {
		return nil
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}
	return nil
}

type pacedTransport struct {
	s    *SpotifyService
	next http.RoundTripper
}

func (t *pacedTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	if err := t.s.pace(r.Context()); err != nil {
		return nil, err
	}
	return t.next.RoundTrip(r)
}

// Restore loads a previously saved token. A missing token leaves the service unauthenticated.
func (s *SpotifyService) Restore(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	tok, err := s.store.Load(ctx)
	if errors.Is(err, shared.ErrTokenNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to restore token: %w", err)
	}

	s.mu.Lock()
	s.token = tok
	s.mu.Unlock()
	return nil
}

// Authenticated reports whether a token is held, valid or not.
func (s *SpotifyService) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token != nil
}

// CurrentToken returns a copy of the held token, or nil.
func (s *SpotifyService) CurrentToken() *oauth2.Token {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == nil {
		return nil
	}
	tok := *s.token
	return &tok
}

// AuthURL returns the authorization URL for user login.
func (s *SpotifyService) AuthURL(state string) string {
	return s.auth.AuthURL(state)
}

// HandleCallback exchanges an authorization code for a token and stores it.
func (s *SpotifyService) HandleCallback(ctx context.Context, code string) error {
	if code == "" {
		return fmt.Errorf("%w: authorization code", shared.ErrMissingArgument)
	}

	tok, err := s.auth.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	s.mu.Lock()
	s.username = ""
	s.mu.Unlock()
	return s.setToken(ctx, tok)
}

// Logout forgets the held token and removes the persisted one.
func (s *SpotifyService) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.token, s.username = nil, ""
	s.mu.Unlock()

	if s.store == nil {
		return nil
	}
	return s.store.Clear(ctx)
}

// AuthOK reports whether the held token is present and unexpired.
func (s *SpotifyService) AuthOK(context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token.Valid()
}

// AuthRefresh exchanges the refresh token for a new access token and persists it.
func (s *SpotifyService) AuthRefresh(ctx context.Context) error {
	s.mu.Lock()
	current := s.token
	s.mu.Unlock()

	if current == nil {
		return shared.ErrNotAuthenticated
	}
	if current.RefreshToken == "" {
		return shared.ErrNoRefreshToken
	}

	tok, err := s.auth.RefreshToken(ctx, current)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrRefreshFailed, err)
	}
	if tok.RefreshToken == "" {
		tok.RefreshToken = current.RefreshToken
	}
	s.logger.Info("refreshed access token", "expiry", tok.Expiry)
	return s.setToken(ctx, tok)
}

// Token implements [oauth2.TokenSource], refreshing an expired token on demand.
func (s *SpotifyService) Token() (*oauth2.Token, error) {
	s.mu.Lock()
	tok := s.token
	s.mu.Unlock()

	if tok == nil {
		return nil, shared.ErrNotAuthenticated
	}
	if tok.Valid() {
		return tok, nil
	}
	if err := s.AuthRefresh(context.Background()); err != nil {
		return nil, err
	}
	return s.CurrentToken(), nil
}

func (s *SpotifyService) setToken(ctx context.Context, tok *oauth2.Token) error {
	s.mu.Lock()
	s.token = tok
	s.mu.Unlock()

	if s.store == nil {
		return nil
	}
	if err := s.store.Save(ctx, tok); err != nil {
		return fmt.Errorf("failed to persist token: %w", err)
	}
	return nil
}

// Username returns the current user's display name, fetched once per login.
func (s *SpotifyService) Username(ctx context.Context) (string, error) {
	s.mu.Lock()
	name := s.username
	s.mu.Unlock()
	if name != "" {
		return name, nil
	}

	user, err := s.api.CurrentUser(ctx)
	if err != nil {
		return "", upstream("GET me", err)
	}

	s.mu.Lock()
	s.username = user.DisplayName
	s.mu.Unlock()
	return user.DisplayName, nil
}

// Devices lists the user's available playback devices.
func (s *SpotifyService) Devices(ctx context.Context) ([]spotify.PlayerDevice, error) {
	devices, err := s.api.PlayerDevices(ctx)
	if err != nil {
		return nil, upstream("GET me/player/devices", err)
	}
	return devices, nil
}

// IsActiveDevice reports whether any device is currently active.
func (s *SpotifyService) IsActiveDevice(ctx context.Context) (bool, error) {
	devices, err := s.Devices(ctx)
	if err != nil {
		return false, err
	}
	for _, d := range devices {
		if d.Active {
			return true, nil
		}
	}
	return false, nil
}

// CandidateDevice picks the active device, else the first listed one.
func (s *SpotifyService) CandidateDevice(ctx context.Context) (string, error) {
	devices, err := s.Devices(ctx)
	if err != nil {
		return "", err
	}
	if len(devices) == 0 {
		return "", shared.ErrNoDevice
	}
	for _, d := range devices {
		if d.Active {
			return string(d.ID), nil
		}
	}
	s.logger.Debug("no active device", "candidate", devices[0].Name)
	return string(devices[0].ID), nil
}

// CurrentlyPlaying returns the player's current item, or nil when nothing is playing.
func (s *SpotifyService) CurrentlyPlaying(ctx context.Context) (*models.CurrentlyPlaying, error) {
	if _, err := s.Token(); err != nil {
		return nil, err
	}

	var apiErr apiError
	resp, err := s.http.R().
		SetContext(ctx).
		SetErrorResult(&apiErr).
		Get("/me/player/currently-playing")
	if err != nil {
		return nil, transport("GET /me/player/currently-playing", err)
	}
	if resp.IsErrorState() {
		return nil, apiErr.wrap("GET /me/player/currently-playing", resp.StatusCode)
	}
	if resp.StatusCode == http.StatusNoContent || len(resp.Bytes()) == 0 {
		return nil, nil
	}

	var cp models.CurrentlyPlaying
	if err := json.Unmarshal(resp.Bytes(), &cp); err != nil {
		return nil, fmt.Errorf("failed to decode currently playing: %w", err)
	}
	return &cp, nil
}

// StartPlayback plays uri on the target device. Track URIs play as a one-item list, any other URI as a context.
// Without a URI it resumes playback, doing nothing when something is already playing.
func (s *SpotifyService) StartPlayback(ctx context.Context, uri string, opts PlayOptions) error {
	po := playOptions(opts)
	switch {
	case uri == "":
		cp, err := s.CurrentlyPlaying(ctx)
		if err != nil {
			return err
		}
		if cp != nil && cp.IsPlaying {
			s.logger.Debug("already playing, nothing to resume")
			return nil
		}
	case strings.HasPrefix(uri, "spotify:track:"):
		po.URIs = []spotify.URI{spotify.URI(uri)}
	default:
		ctxURI := spotify.URI(uri)
		po.PlaybackContext = &ctxURI
	}

	if err := s.api.PlayOpt(ctx, po); err != nil {
		return upstream("PUT me/player/play", err)
	}
	return nil
}

// PausePlayback pauses the target device if something is playing.
func (s *SpotifyService) PausePlayback(ctx context.Context, opts PlayOptions) error {
	cp, err := s.CurrentlyPlaying(ctx)
	if err != nil {
		return err
	}
	if cp == nil || !cp.IsPlaying {
		s.logger.Debug("nothing playing, pause skipped")
		return nil
	}

	if err := s.api.PauseOpt(ctx, playOptions(opts)); err != nil {
		return upstream("PUT me/player/pause", err)
	}
	return nil
}

// SkipTrack advances n tracks on the target device.
func (s *SpotifyService) SkipTrack(ctx context.Context, n int, opts PlayOptions) error {
	if n < 1 {
		n = 1
	}
	for range n {
		if err := s.api.NextOpt(ctx, playOptions(opts)); err != nil {
			return upstream("POST me/player/next", err)
		}
	}
	return nil
}

// AddToQueue appends a track to the target device's queue.
func (s *SpotifyService) AddToQueue(ctx context.Context, trackID string, opts PlayOptions) error {
	if trackID == "" {
		return fmt.Errorf("%w: track id", shared.ErrMissingArgument)
	}
	trackID = strings.TrimPrefix(trackID, "spotify:track:")

	if err := s.api.QueueSongOpt(ctx, spotify.ID(trackID), playOptions(opts)); err != nil {
		return upstream("POST me/player/queue", err)
	}
	return nil
}

// Queue returns the user's playback queue.
func (s *SpotifyService) Queue(ctx context.Context) (*models.Queue, error) {
	return fetch[models.Queue](ctx, s, "/me/player/queue", nil)
}

// Search runs a catalog search. query must already be percent-encoded; selector is a comma-separated category list.
func (s *SpotifyService) Search(ctx context.Context, query, selector string, limit int) (*models.SearchResponse, error) {
	types := strings.Split(selector, ",")
	for i := range types {
		types[i] = strings.TrimSpace(types[i])
	}

	params := map[string]string{
		"type":  strings.Join(types, ","),
		"limit": strconv.Itoa(limit),
	}
	if s.market != "" {
		params["market"] = s.market
	}

	return fetch[models.SearchResponse](ctx, s, "/search", func(r *req.Request) {
		r.SetQueryString("q=" + query).SetQueryParams(params)
	})
}

// Track retrieves a track by ID.
func (s *SpotifyService) Track(ctx context.Context, id string) (*models.Track, error) {
	return fetch[models.Track](ctx, s, "/tracks/"+id, s.withMarket)
}

// Album retrieves an album with its first page of tracks.
func (s *SpotifyService) Album(ctx context.Context, id string) (*models.Album, error) {
	return fetch[models.Album](ctx, s, "/albums/"+id, s.withMarket)
}

// Artist retrieves an artist by ID.
func (s *SpotifyService) Artist(ctx context.Context, id string) (*models.Artist, error) {
	return fetch[models.Artist](ctx, s, "/artists/"+id, nil)
}

// ArtistAlbums retrieves the first page of an artist's albums.
func (s *SpotifyService) ArtistAlbums(ctx context.Context, id string) (*models.Paging[models.Album], error) {
	return fetch[models.Paging[models.Album]](ctx, s, "/artists/"+id+"/albums", s.withMarket)
}

// ArtistTopTracks retrieves an artist's top tracks.
func (s *SpotifyService) ArtistTopTracks(ctx context.Context, id string) (*models.TopTracks, error) {
	return fetch[models.TopTracks](ctx, s, "/artists/"+id+"/top-tracks", s.withMarket)
}

// Playlist retrieves a playlist with its first page of tracks.
func (s *SpotifyService) Playlist(ctx context.Context, id string) (*models.Playlist, error) {
	return fetch[models.Playlist](ctx, s, "/playlists/"+id, s.withMarket)
}

// Show retrieves a show with its first page of episodes.
func (s *SpotifyService) Show(ctx context.Context, id string) (*models.Show, error) {
	return fetch[models.Show](ctx, s, "/shows/"+id, s.withMarket)
}

// Episode retrieves an episode by ID.
func (s *SpotifyService) Episode(ctx context.Context, id string) (*models.Episode, error) {
	return fetch[models.Episode](ctx, s, "/episodes/"+id, s.withMarket)
}

// Audiobook retrieves an audiobook with its first page of chapters.
func (s *SpotifyService) Audiobook(ctx context.Context, id string) (*models.Audiobook, error) {
	return fetch[models.Audiobook](ctx, s, "/audiobooks/"+id, s.withMarket)
}

func fetch[T any](ctx context.Context, s *SpotifyService, path string, build func(*req.Request)) (*T, error) {
	var v T
	if err := s.get(ctx, path, build, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *SpotifyService) withMarket(r *req.Request) {
	if s.market != "" {
		r.SetQueryParam("market", s.market)
	}
}

// get performs an authenticated GET and decodes a successful body into result.
func (s *SpotifyService) get(ctx context.Context, path string, build func(*req.Request), result any) error {
	if _, err := s.Token(); err != nil {
		return err
	}

	var apiErr apiError
	r := s.http.R().
		SetContext(ctx).
		SetSuccessResult(result).
		SetErrorResult(&apiErr)
	if build != nil {
		build(r)
	}

	resp, err := r.Get(path)
	if err != nil {
		return transport("GET "+path, err)
	}
	if resp.IsErrorState() {
		return apiErr.wrap("GET "+path, resp.StatusCode)
	}
	return nil
}

// apiError is the error body returned by the Web API.
type apiError struct {
	Error struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}

func (e *apiError) wrap(op string, status int) error {
	msg := e.Error.Message
	if msg == "" {
		msg = http.StatusText(status)
	}
	if status == http.StatusUnauthorized {
		return fmt.Errorf("%w: %s: %s (%w)", shared.ErrUpstream, op, msg, shared.ErrTokenExpired)
	}
	return fmt.Errorf("%w: %s: status %d: %s", shared.ErrUpstream, op, status, msg)
}

func transport(op string, err error) error {
	if errors.Is(err, shared.ErrNotAuthenticated) || errors.Is(err, shared.ErrNoRefreshToken) || errors.Is(err, shared.ErrRefreshFailed) {
		return err
	}
	return fmt.Errorf("%w: %s: %v", shared.ErrUpstream, op, err)
}

func upstream(op string, err error) error {
	var se spotify.Error
	if errors.As(err, &se) {
		return fmt.Errorf("%w: %s: status %d: %s", shared.ErrUpstream, op, se.Status, se.Message)
	}
	return transport(op, err)
}

func playOptions(opts PlayOptions) *spotify.PlayOptions {
	po := &spotify.PlayOptions{}
	if opts.DeviceID != "" {
		id := spotify.ID(opts.DeviceID)
		po.DeviceID = &id
	}
	return po
}
