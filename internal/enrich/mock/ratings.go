package mock

import (
	"context"
	"sync/atomic"

	"github.com/episcope/episcope/internal/ratings/omdb"
)

// RatingsClient is a configurable mock of the ratings provider client.
type RatingsClient struct {
	GetEpisodeRatingFunc func(ctx context.Context, imdbID string, season, episode int, apiKey string) (*omdb.EpisodeRating, error)

	Calls atomic.Int64
}

func (m *RatingsClient) Name() string {
	return "omdb-mock"
}

func (m *RatingsClient) GetEpisodeRating(ctx context.Context, imdbID string, season, episode int, apiKey string) (*omdb.EpisodeRating, error) {
	m.Calls.Add(1)
	return m.GetEpisodeRatingFunc(ctx, imdbID, season, episode, apiKey)
}
