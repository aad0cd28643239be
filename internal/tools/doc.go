// Package tools exposes the Spotify player as a set of MCP tools.
//
// # Tools
//
// [Dispatcher] describes five tools in a fixed order: SpotifyPlayback, SpotifySearch, SpotifyQueue,
// SpotifyGetInfo and SpotifyAuth. Each takes a typed argument struct ([PlaybackArgs], [SearchArgs], ...)
// from which the SDK infers the input schema and validates calls.
// Handler failures come back as results with IsError set, and a missing login is reported as
// plain text pointing at the SpotifyAuth tool. Arguments that fail schema validation and unknown
// tool names are protocol errors.
//
// # Transports
//
// [Server] wraps an [mcp.Server] with every tool registered.
//
//   - stdio: [Server.ServeStdio] reads and writes newline-delimited JSON-RPC.
//     Stdout carries protocol traffic only, so loggers must write elsewhere.
//   - HTTP: [NewHTTPServer] mounts the streamable HTTP handler at /mcp and lists tools at GET /tools.
package tools
