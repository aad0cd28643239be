// Package views reduces raw Spotify payloads to compact, uniform views for tool callers.
//
// # Converters
//
// Each entity kind has one converter taking the raw payload and a detail flag:
// [NewTrack], [NewArtist], [NewAlbum], [NewPlaylist], [NewShow], [NewEpisode], [NewAudiobook].
// Chapters and episode summaries are only produced inside detailed audiobooks and shows.
//
// A nil payload yields a nil view and no error. A present payload without a name or an id key is
// rejected with [shared.ErrMalformedEntity]. An explicit null id, as sent for local files, becomes "".
// Every other missing field falls back to an empty value or is left out of the output.
//
// # Attribution
//
// Artists, authors and narrators collapse to a scalar field (artist, author, narrator) when there
// is exactly one, and to a list field otherwise.
//
// # Descriptions
//
// Compact show, episode and audiobook views cut descriptions to [DescriptionLimit] characters
// and append "...". Durations render as M:SS via [FormatDuration].
package views
