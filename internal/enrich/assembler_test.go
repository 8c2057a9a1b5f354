package enrich

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/episcope/episcope/internal/config"
	"github.com/episcope/episcope/internal/enrich/mock"
	"github.com/episcope/episcope/internal/metadata/tmdb"
	"github.com/episcope/episcope/internal/ratings/omdb"
)

// fakeProviders builds mocks for a two-season series with three
// episodes per season, addressed as tt3581920 → 63333.
func fakeProviders() (*mock.MetadataClient, *mock.RatingsClient) {
	metadata := &mock.MetadataClient{
		FindFunc: func(ctx context.Context, externalID, apiKey string) (string, error) {
			if externalID == "tt3581920" {
				return "63333", nil
			}
			return "", tmdb.ErrNotFound
		},
		GetSeriesFunc: func(ctx context.Context, seriesID, apiKey string) (*tmdb.NormalizedSeries, error) {
			return &tmdb.NormalizedSeries{
				ID:            seriesID,
				Name:          "The Last Kingdom",
				Overview:      "A story of Saxons and Danes.",
				PosterURL:     "https://image.tmdb.org/t/p/w500/poster.jpg",
				BackgroundURL: "https://image.tmdb.org/t/p/original/backdrop.jpg",
				VoteAverage:   8.3,
				Seasons:       []int{2, 1}, // provider order is not sorted
			}, nil
		},
		GetSeasonFunc: func(ctx context.Context, seriesID string, season int, apiKey string) ([]tmdb.NormalizedEpisode, error) {
			episodes := make([]tmdb.NormalizedEpisode, 3)
			for i := range episodes {
				episodes[i] = tmdb.NormalizedEpisode{
					SeasonNumber:  season,
					EpisodeNumber: i + 1,
					Name:          fmt.Sprintf("S%dE%d", season, i+1),
					AirDate:       "2015-10-10",
				}
			}
			return episodes, nil
		},
		GetEpisodeFunc: func(ctx context.Context, seriesID string, season, episode int, apiKey string) (*tmdb.NormalizedEpisode, error) {
			return &tmdb.NormalizedEpisode{
				SeasonNumber:  season,
				EpisodeNumber: episode,
				Name:          fmt.Sprintf("S%dE%d", season, episode),
				AirDate:       "2015-10-10",
			}, nil
		},
	}

	ratings := &mock.RatingsClient{
		GetEpisodeRatingFunc: func(ctx context.Context, imdbID string, season, episode int, apiKey string) (*omdb.EpisodeRating, error) {
			return &omdb.EpisodeRating{Rating: "8.0"}, nil
		},
	}

	return metadata, ratings
}

func newTestAssembler(metadata *mock.MetadataClient, ratings *mock.RatingsClient, cache *Cache, addressing string) *Assembler {
	resolver := NewResolver(metadata, ratings, cache, 12*time.Hour, zerolog.Nop())
	return NewAssembler(metadata, resolver, cache, AssemblerOptions{
		Addressing: addressing,
		SeriesTTL:  24 * time.Hour,
	}, zerolog.Nop())
}

func TestAssembler_Assemble(t *testing.T) {
	metadata, ratings := fakeProviders()
	assembler := newTestAssembler(metadata, ratings, NewCache(), config.AddressingResolve)

	record, err := assembler.Assemble(context.Background(), "tt3581920", testCreds)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	if record.ID != "tt3581920" {
		t.Errorf("ID = %q, want tt3581920", record.ID)
	}
	if record.Name != "The Last Kingdom" {
		t.Errorf("Name = %q", record.Name)
	}
	if record.ImdbRating != "8.3" {
		t.Errorf("ImdbRating = %q, want 8.3", record.ImdbRating)
	}
	if len(record.Videos) != 6 {
		t.Fatalf("expected 6 episodes, got %d", len(record.Videos))
	}

	// Sorted by (season, episode) ascending regardless of fetch order.
	want := []string{"S1E1", "S1E2", "S1E3", "S2E1", "S2E2", "S2E3"}
	for i, ep := range record.Videos {
		if ep.Title != want[i] {
			t.Errorf("Videos[%d].Title = %q, want %q", i, ep.Title, want[i])
		}
	}

	if got := metadata.FindCalls.Load(); got != 1 {
		t.Errorf("find calls = %d, want 1", got)
	}
	if got := metadata.GetSeriesCalls.Load(); got != 1 {
		t.Errorf("series calls = %d, want 1", got)
	}
	if got := metadata.GetSeasonCalls.Load(); got != 2 {
		t.Errorf("season calls = %d, want 2", got)
	}
	if got := metadata.GetEpisodeCalls.Load(); got != 6 {
		t.Errorf("episode calls = %d, want 6", got)
	}
	if got := ratings.Calls.Load(); got != 6 {
		t.Errorf("rating calls = %d, want 6", got)
	}
}

func TestAssembler_Assemble_IdempotentWithinTTL(t *testing.T) {
	metadata, ratings := fakeProviders()
	assembler := newTestAssembler(metadata, ratings, NewCache(), config.AddressingResolve)

	first, err := assembler.Assemble(context.Background(), "tt3581920", testCreds)
	if err != nil {
		t.Fatalf("first Assemble() error = %v", err)
	}

	callsBefore := metadata.RemoteCalls() + ratings.Calls.Load()

	second, err := assembler.Assemble(context.Background(), "tt3581920", testCreds)
	if err != nil {
		t.Fatalf("second Assemble() error = %v", err)
	}

	if second != first {
		t.Error("expected the cached record instance")
	}
	if got := metadata.RemoteCalls() + ratings.Calls.Load(); got != callsBefore {
		t.Errorf("second assembly made %d remote calls, want 0", got-callsBefore)
	}
}

func TestAssembler_Assemble_NotFound(t *testing.T) {
	metadata, ratings := fakeProviders()
	assembler := newTestAssembler(metadata, ratings, NewCache(), config.AddressingResolve)

	_, err := assembler.Assemble(context.Background(), "tt0000000", testCreds)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
	if errors.Is(err, ErrUpstream) {
		t.Error("not-found must not read as upstream failure")
	}
}

func TestAssembler_Assemble_SeriesSummaryFailure(t *testing.T) {
	metadata, ratings := fakeProviders()
	metadata.GetSeriesFunc = func(ctx context.Context, seriesID, apiKey string) (*tmdb.NormalizedSeries, error) {
		return nil, tmdb.ErrRateLimited
	}
	assembler := newTestAssembler(metadata, ratings, NewCache(), config.AddressingResolve)

	_, err := assembler.Assemble(context.Background(), "tt3581920", testCreds)
	if !errors.Is(err, ErrUpstream) {
		t.Errorf("error = %v, want ErrUpstream", err)
	}
}

func TestAssembler_Assemble_SeasonFailureDropsSeason(t *testing.T) {
	metadata, ratings := fakeProviders()
	metadata.GetSeasonFunc = func(ctx context.Context, seriesID string, season int, apiKey string) ([]tmdb.NormalizedEpisode, error) {
		if season == 2 {
			return nil, errors.New("timeout")
		}
		return []tmdb.NormalizedEpisode{
			{SeasonNumber: season, EpisodeNumber: 1, Name: "S1E1"},
		}, nil
	}
	assembler := newTestAssembler(metadata, ratings, NewCache(), config.AddressingResolve)

	record, err := assembler.Assemble(context.Background(), "tt3581920", testCreds)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	if len(record.Videos) != 1 {
		t.Fatalf("expected 1 episode after dropping season 2, got %d", len(record.Videos))
	}
	if record.Videos[0].Season != 1 {
		t.Errorf("surviving episode season = %d, want 1", record.Videos[0].Season)
	}
}

func TestAssembler_Assemble_PartialEpisodeFailure(t *testing.T) {
	metadata, ratings := fakeProviders()
	ratings.GetEpisodeRatingFunc = func(ctx context.Context, imdbID string, season, episode int, apiKey string) (*omdb.EpisodeRating, error) {
		if season == 1 && episode == 2 {
			return nil, omdb.ErrNotFound
		}
		return &omdb.EpisodeRating{Rating: "8.0"}, nil
	}
	assembler := newTestAssembler(metadata, ratings, NewCache(), config.AddressingResolve)

	record, err := assembler.Assemble(context.Background(), "tt3581920", testCreds)
	if err != nil {
		t.Fatalf("a single failed episode must not fail the request: %v", err)
	}

	if len(record.Videos) != 5 {
		t.Fatalf("expected 5 of 6 episodes, got %d", len(record.Videos))
	}
	for _, ep := range record.Videos {
		if ep.Season == 1 && ep.Episode == 2 {
			t.Error("the failed episode must be omitted")
		}
	}
}

func TestAssembler_Assemble_DirectAddressing(t *testing.T) {
	metadata, ratings := fakeProviders()
	assembler := newTestAssembler(metadata, ratings, NewCache(), config.AddressingDirect)

	record, err := assembler.Assemble(context.Background(), "tt3581920", testCreds)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	if got := metadata.FindCalls.Load(); got != 0 {
		t.Errorf("find calls = %d, want 0 in direct mode", got)
	}
	if len(record.Videos) != 6 {
		t.Errorf("expected 6 episodes, got %d", len(record.Videos))
	}
}

func TestAssembler_Assemble_CacheExpiryTriggersRefetch(t *testing.T) {
	metadata, ratings := fakeProviders()
	cache := NewCache()
	resolver := NewResolver(metadata, ratings, cache, time.Millisecond, zerolog.Nop())
	assembler := NewAssembler(metadata, resolver, cache, AssemblerOptions{
		Addressing: config.AddressingResolve,
		SeriesTTL:  time.Millisecond,
	}, zerolog.Nop())

	if _, err := assembler.Assemble(context.Background(), "tt3581920", testCreds); err != nil {
		t.Fatalf("first Assemble() error = %v", err)
	}

	seriesCallsBefore := metadata.GetSeriesCalls.Load()
	time.Sleep(10 * time.Millisecond)

	if _, err := assembler.Assemble(context.Background(), "tt3581920", testCreds); err != nil {
		t.Fatalf("second Assemble() error = %v", err)
	}

	if got := metadata.GetSeriesCalls.Load(); got != seriesCallsBefore+1 {
		t.Errorf("series calls after expiry = %d, want %d", got, seriesCallsBefore+1)
	}
}
