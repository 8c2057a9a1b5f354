package enrich

import (
	"fmt"
	"time"
)

// SeriesRecord is the enriched meta object returned to the host.
type SeriesRecord struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Poster      string          `json:"poster,omitempty"`
	Background  string          `json:"background,omitempty"`
	ImdbRating  string          `json:"imdbRating,omitempty"`
	Videos      []EpisodeRecord `json:"videos"`
}

// EpisodeRecord is a single enriched episode within a series.
type EpisodeRecord struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Season    int        `json:"season"`
	Episode   int        `json:"episode"`
	Overview  string     `json:"overview,omitempty"`
	Thumbnail string     `json:"thumbnail,omitempty"`
	Released  *time.Time `json:"released,omitempty"`
	Rating    string     `json:"rating,omitempty"`
}

// EpisodeID builds the composite episode identifier.
func EpisodeID(seriesID string, season, episode int) string {
	return fmt.Sprintf("%s:%d:%d", seriesID, season, episode)
}

// Credentials carries the two provider access tokens for one request.
// They are threaded explicitly through every call and never cached.
type Credentials struct {
	TMDBKey string
	OMDBKey string
}

// Complete reports whether both required tokens are present.
func (c Credentials) Complete() bool {
	return c.TMDBKey != "" && c.OMDBKey != ""
}

// OrDefault fills empty tokens from process-wide defaults. Caller
// supplied values always win.
func (c Credentials) OrDefault(defaults Credentials) Credentials {
	if c.TMDBKey == "" {
		c.TMDBKey = defaults.TMDBKey
	}
	if c.OMDBKey == "" {
		c.OMDBKey = defaults.OMDBKey
	}
	return c
}
