// Package models defines raw Spotify Web API payloads and the persisted OAuth token.
//
// The package contains two categories of types:
//
// 1. Raw payloads: structs decoded straight from Web API responses
//   - [Track], [Artist], [Album], [Playlist] : music catalog objects
//   - [Show], [Episode], [Audiobook], [Chapter] : spoken-word catalog objects
//   - [SearchResponse] : the multi-category search body
//   - [CurrentlyPlaying], [Queue], [TopTracks] : player and artist endpoints
//   - [Paging] : the list envelope shared by all of the above
//
// Presence-sensitive fields are pointers, so the normalization layer in package views
// can tell a missing key from a zero value.
//
// 2. Persistent entities: database-backed models
//   - [Token] : OAuth token keyed by provider
//
// Persistent entities implement the [Model] interface. The [Repository] interface defines keyed access.
package models
