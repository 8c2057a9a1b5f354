package enrich

import (
	"context"

	"github.com/episcope/episcope/internal/metadata/tmdb"
	"github.com/episcope/episcope/internal/ratings/omdb"
)

// MetadataClient defines the metadata provider operations the
// enrichment pipeline needs.
type MetadataClient interface {
	Name() string
	FindByExternalID(ctx context.Context, externalID, apiKey string) (string, error)
	GetSeries(ctx context.Context, seriesID, apiKey string) (*tmdb.NormalizedSeries, error)
	GetSeason(ctx context.Context, seriesID string, season int, apiKey string) ([]tmdb.NormalizedEpisode, error)
	GetEpisode(ctx context.Context, seriesID string, season, episode int, apiKey string) (*tmdb.NormalizedEpisode, error)
}

// RatingsClient defines the ratings provider operations the
// enrichment pipeline needs.
type RatingsClient interface {
	Name() string
	GetEpisodeRating(ctx context.Context, imdbID string, season, episode int, apiKey string) (*omdb.EpisodeRating, error)
}
