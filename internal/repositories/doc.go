// Package repositories implements SQLite persistence for OAuth tokens.
//
// [TokenRepository] implements [models.Repository] for [models.Token], keyed by provider.
// There is at most one row per provider; saving replaces the previous token but keeps its id
// and creation time.
//
// [TokenStore] narrows the repository to a single provider and speaks [oauth2.Token], which is
// what the Spotify client uses to restore a login across runs.
package repositories
