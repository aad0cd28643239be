package search

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// YearRange is an inclusive range of release years.
type YearRange struct {
	Start int
	End   int
}

// ParseYearRange parses "START-END".
func ParseYearRange(s string) (*YearRange, error) {
	start, end, ok := strings.Cut(strings.TrimSpace(s), "-")
	if !ok {
		return nil, fmt.Errorf("expected START-END, got %q", s)
	}

	from, err := strconv.Atoi(strings.TrimSpace(start))
	if err != nil {
		return nil, fmt.Errorf("invalid start year %q: %w", start, err)
	}
	to, err := strconv.Atoi(strings.TrimSpace(end))
	if err != nil {
		return nil, fmt.Errorf("invalid end year %q: %w", end, err)
	}
	return &YearRange{Start: from, End: to}, nil
}

// Filters narrows a catalog search. Zero values add no clause.
type Filters struct {
	Artist    string
	Track     string
	Album     string
	Year      string
	YearRange *YearRange
	Genre     string
	Hipster   bool // albums in the lowest 10% of popularity
	New       bool // albums released in the past two weeks
}

// Clauses renders the filters as field clauses in a fixed order.
func (f Filters) Clauses() []string {
	var clauses []string
	if f.Artist != "" {
		clauses = append(clauses, "artist:"+f.Artist)
	}
	if f.Track != "" {
		clauses = append(clauses, "track:"+f.Track)
	}
	if f.Album != "" {
		clauses = append(clauses, "album:"+f.Album)
	}
	if f.Year != "" {
		clauses = append(clauses, "year:"+f.Year)
	}
	if f.YearRange != nil {
		clauses = append(clauses, fmt.Sprintf("year:%d-%d", f.YearRange.Start, f.YearRange.End))
	}
	if f.Genre != "" {
		clauses = append(clauses, "genre:"+f.Genre)
	}
	if f.Hipster {
		clauses = append(clauses, "tag:hipster")
	}
	if f.New {
		clauses = append(clauses, "tag:new")
	}
	return clauses
}

// queryEscaper turns form encoding into path-style quoting: spaces are %20 and "/" stays literal,
// so "AC/DC" reads the same in logs as in the Spotify search box.
var queryEscaper = strings.NewReplacer("+", "%20", "%2F", "/")

// BuildQuery joins base and the filter clauses with single spaces and percent-encodes the result as one unit.
// Every byte outside the unreserved set and "/" is escaped.
//
// Year and YearRange are both emitted when set; callers decide whether that makes sense.
func BuildQuery(base string, f Filters) string {
	q := strings.Join(append([]string{base}, f.Clauses()...), " ")
	return queryEscaper.Replace(url.QueryEscape(q))
}
