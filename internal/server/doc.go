// Package server runs the short-lived local HTTP server used by the browser login flow.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support. [BasicRouter] implements it
// on top of [http.ServeMux] with method filtering. [Middleware] is applied in the order it was
// added, so the first one added runs outermost. [Logging] and [Recover] write through charmbracelet/log.
//
// # OAuth Callback
//
// [OAuthHandler] receives Spotify's redirect, rejects a mismatched state parameter, and hands the
// authorization code to an [Exchanger], normally the Spotify client's HandleCallback. It processes
// only the first request and publishes exactly one [OAuthResult].
//
// [CallbackServer] listens on the configured host and port while `spotify-mcp auth login` waits,
// and shuts down once a result arrives or the context ends.
package server
