// Package services talks to the Spotify Web API and exposes the operations used by the tools, CLI and TUI.
//
// # Spotify Client
//
// [SpotifyService] holds one OAuth2 token and acts as its own [oauth2.TokenSource].
// Catalog lookups, search and player-state reads go through an imroc/req client and decode into package models.
// Player control, the device list and the user profile go through zmb3/spotify.
// Tokens are loaded from and saved to an optional [TokenStore] so logins survive restarts.
// [WithRateLimit] spaces outgoing requests with a token bucket; rejected requests are not retried.
//
// # Retry Policy
//
// [Policy] wraps device-dependent calls (start, pause, skip, queue add).
// Before running the call it refreshes a stale token once and, when no device is active,
// picks a candidate device and targets it. The wrapped call runs exactly once and its
// error is returned unchanged.
//
// # Player
//
// [Player] is the facade the outer surfaces use. It runs guarded playback calls,
// builds and aggregates searches through package search, and normalizes every
// item through package views.
//
// # Error Handling
//
// Errors wrap the sentinels from package shared:
//   - [shared.ErrNotAuthenticated] : no token held, login required
//   - [shared.ErrNoRefreshToken] : token expired and cannot be renewed
//   - [shared.ErrRefreshFailed] : the token endpoint rejected the refresh
//   - [shared.ErrTokenExpired] : the Web API answered 401
//   - [shared.ErrNoDevice] : no playback device available
//   - [shared.ErrUpstream] : any other Web API or transport failure
//
// [IsAuthError] groups the ones that mean the user has to log in again.
package services
