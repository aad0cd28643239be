package tools

// Argument structs double as the tools' input schemas. Fields without omitempty are required.
// Optional integers are pointers so an explicit 0 is told apart from an absent key.

// PlaybackArgs are the arguments of SpotifyPlayback.
type PlaybackArgs struct {
	Action     string `json:"action" jsonschema:"Action to perform: get, start, pause or skip."`
	SpotifyURI string `json:"spotify_uri,omitempty" jsonschema:"Spotify uri of item to play for the start action. If omitted, resumes current playback."`
	NumSkips   *int   `json:"num_skips,omitempty" jsonschema:"Number of tracks to skip for the skip action. Defaults to 1."`
}

// SearchArgs are the arguments of SpotifySearch.
type SearchArgs struct {
	Query     string `json:"query" jsonschema:"query term"`
	QType     string `json:"qtype,omitempty" jsonschema:"Type of items to search for, comma-separated combination allowed. Allowed values: track, artist, album, playlist, show, episode, audiobook. Defaults to track."`
	Limit     *int   `json:"limit,omitempty" jsonschema:"Maximum number of items to return per category"`
	Artist    string `json:"artist,omitempty" jsonschema:"Only items by this artist"`
	Track     string `json:"track,omitempty" jsonschema:"Only tracks with this name"`
	Album     string `json:"album,omitempty" jsonschema:"Only items from this album"`
	Year      string `json:"year,omitempty" jsonschema:"Release year, or a YEAR-YEAR range"`
	YearStart *int   `json:"year_start,omitempty" jsonschema:"Start of a release year range, used together with year_end"`
	YearEnd   *int   `json:"year_end,omitempty" jsonschema:"End of a release year range, used together with year_start"`
	Genre     string `json:"genre,omitempty" jsonschema:"Only artists and tracks in this genre"`
	Hipster   bool   `json:"hipster,omitempty" jsonschema:"Only albums in the lowest 10% of popularity"`
	New       bool   `json:"new,omitempty" jsonschema:"Only albums released in the past two weeks"`
}

// QueueArgs are the arguments of SpotifyQueue.
type QueueArgs struct {
	Action  string `json:"action" jsonschema:"Action to perform: add or get."`
	TrackID string `json:"track_id,omitempty" jsonschema:"Track ID to add to queue, required for the add action"`
}

// GetInfoArgs are the arguments of SpotifyGetInfo.
type GetInfoArgs struct {
	ItemURI string `json:"item_uri" jsonschema:"URI of the item to get information about. If playlist or album, returns its tracks. If artist, returns albums and top tracks."`
}

// AuthArgs are the arguments of SpotifyAuth.
type AuthArgs struct {
	Action string `json:"action" jsonschema:"Action to perform: get_url to generate a login URL, or handle_callback to process the authorization code after login."`
	Code   string `json:"code,omitempty" jsonschema:"The authorization code received from Spotify after successful login. Only required for handle_callback."`
}
