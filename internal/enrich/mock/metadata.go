package mock

import (
	"context"
	"sync/atomic"

	"github.com/episcope/episcope/internal/metadata/tmdb"
)

// MetadataClient is a configurable mock of the metadata provider
// client. Each hook has a call counter so tests can assert on network
// activity.
type MetadataClient struct {
	FindFunc       func(ctx context.Context, externalID, apiKey string) (string, error)
	GetSeriesFunc  func(ctx context.Context, seriesID, apiKey string) (*tmdb.NormalizedSeries, error)
	GetSeasonFunc  func(ctx context.Context, seriesID string, season int, apiKey string) ([]tmdb.NormalizedEpisode, error)
	GetEpisodeFunc func(ctx context.Context, seriesID string, season, episode int, apiKey string) (*tmdb.NormalizedEpisode, error)

	FindCalls       atomic.Int64
	GetSeriesCalls  atomic.Int64
	GetSeasonCalls  atomic.Int64
	GetEpisodeCalls atomic.Int64
}

func (m *MetadataClient) Name() string {
	return "tmdb-mock"
}

func (m *MetadataClient) FindByExternalID(ctx context.Context, externalID, apiKey string) (string, error) {
	m.FindCalls.Add(1)
	return m.FindFunc(ctx, externalID, apiKey)
}

func (m *MetadataClient) GetSeries(ctx context.Context, seriesID, apiKey string) (*tmdb.NormalizedSeries, error) {
	m.GetSeriesCalls.Add(1)
	return m.GetSeriesFunc(ctx, seriesID, apiKey)
}

func (m *MetadataClient) GetSeason(ctx context.Context, seriesID string, season int, apiKey string) ([]tmdb.NormalizedEpisode, error) {
	m.GetSeasonCalls.Add(1)
	return m.GetSeasonFunc(ctx, seriesID, season, apiKey)
}

func (m *MetadataClient) GetEpisode(ctx context.Context, seriesID string, season, episode int, apiKey string) (*tmdb.NormalizedEpisode, error) {
	m.GetEpisodeCalls.Add(1)
	return m.GetEpisodeFunc(ctx, seriesID, season, episode, apiKey)
}

// RemoteCalls sums every provider call made through the mock.
func (m *MetadataClient) RemoteCalls() int64 {
	return m.FindCalls.Load() + m.GetSeriesCalls.Load() + m.GetSeasonCalls.Load() + m.GetEpisodeCalls.Load()
}
