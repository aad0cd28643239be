// Package search builds catalog search queries and normalizes multi-category search responses.
//
// [BuildQuery] composes a free-text query with optional field filters (artist, track, album,
// year, year range, genre, tag:hipster, tag:new) and percent-encodes it as one unit.
//
// [Aggregate] resolves a comma-separated category selector such as "track,album" against a
// fixed table of the seven searchable kinds, converts each category through package views
// and returns [Results], an ordered mapping whose keys follow the selector order.
package search
