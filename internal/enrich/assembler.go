package enrich

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/episcope/episcope/internal/config"
	"github.com/episcope/episcope/internal/metadata/tmdb"
)

// Assembler resolves a series identifier, discovers its episodes and
// fans out rating resolution across all of them. It owns the in-flight
// aggregation of one request and keeps no state across requests.
type Assembler struct {
	metadata   MetadataClient
	resolver   *Resolver
	cache      *Cache
	logger     zerolog.Logger
	addressing string
	seriesTTL  time.Duration
	workers    int
}

// AssemblerOptions configures a series assembler.
type AssemblerOptions struct {
	// Addressing is config.AddressingResolve or config.AddressingDirect.
	Addressing string
	// SeriesTTL is the cache lifetime for assembled series records.
	SeriesTTL time.Duration
	// Workers bounds the episode fan-out; 0 means unbounded.
	Workers int
}

// NewAssembler creates a series assembler.
func NewAssembler(metadata MetadataClient, resolver *Resolver, cache *Cache, opts AssemblerOptions, logger zerolog.Logger) *Assembler {
	return &Assembler{
		metadata:   metadata,
		resolver:   resolver,
		cache:      cache,
		logger:     logger.With().Str("component", "assembler").Logger(),
		addressing: opts.Addressing,
		seriesTTL:  opts.SeriesTTL,
		workers:    opts.Workers,
	}
}

// seasonEpisode identifies one episode in the flattened season set.
type seasonEpisode struct {
	season  int
	episode int
}

// Assemble produces the enriched series record for one external id.
// It fails with ErrNotFound when the id cannot be resolved against the
// metadata provider and ErrUpstream when the series summary call fails
// for any other reason. Per-season and per-episode failures only
// reduce the output.
func (a *Assembler) Assemble(ctx context.Context, externalID string, creds Credentials) (*SeriesRecord, error) {
	if cached, ok := a.cache.GetSeries(externalID); ok {
		a.logger.Debug().Str("seriesId", externalID).Msg("Series cache hit")
		return cached, nil
	}

	providerID, err := a.resolveProviderID(ctx, externalID, creds)
	if err != nil {
		return nil, err
	}

	series, err := a.metadata.GetSeries(ctx, providerID, creds.TMDBKey)
	if err != nil {
		if errors.Is(err, tmdb.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, externalID)
		}
		return nil, fmt.Errorf("%w: series summary for %s: %v", ErrUpstream, externalID, err)
	}

	episodes := a.collectEpisodes(ctx, externalID, providerID, series.Seasons, creds)

	record := &SeriesRecord{
		ID:          externalID,
		Type:        "series",
		Name:        series.Name,
		Description: series.Overview,
		Poster:      series.PosterURL,
		Background:  series.BackgroundURL,
		Videos:      episodes,
	}
	if series.VoteAverage > 0 {
		record.ImdbRating = strconv.FormatFloat(series.VoteAverage, 'f', 1, 64)
	}

	a.cache.Set(externalID, record, a.seriesTTL)

	a.logger.Info().
		Str("seriesId", externalID).
		Str("name", record.Name).
		Int("episodes", len(record.Videos)).
		Msg("Assembled series")

	return record, nil
}

// resolveProviderID maps the external id to the metadata provider's
// addressing scheme. In direct mode the external id is used as-is.
func (a *Assembler) resolveProviderID(ctx context.Context, externalID string, creds Credentials) (string, error) {
	if a.addressing == config.AddressingDirect {
		return externalID, nil
	}

	providerID, err := a.metadata.FindByExternalID(ctx, externalID, creds.TMDBKey)
	if err != nil {
		if errors.Is(err, tmdb.ErrNotFound) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, externalID)
		}
		return "", fmt.Errorf("%w: resolving %s: %v", ErrUpstream, externalID, err)
	}
	return providerID, nil
}

// collectEpisodes fans out season fetches, flattens the episode set,
// fans out rating resolution and returns the surviving episodes in
// (season, episode) order.
func (a *Assembler) collectEpisodes(ctx context.Context, externalID, providerID string, seasons []int, creds Credentials) []EpisodeRecord {
	seasonResults := joinAll(ctx, len(seasons), a.workers, func(ctx context.Context, i int) ([]tmdb.NormalizedEpisode, error) {
		return a.metadata.GetSeason(ctx, providerID, seasons[i], creds.TMDBKey)
	})

	var flattened []seasonEpisode
	for i, res := range seasonResults {
		if res.err != nil {
			// A failed season drops its episodes, nothing more.
			a.logger.Warn().Err(res.err).
				Str("seriesId", externalID).
				Int("season", seasons[i]).
				Msg("Season fetch failed, dropping")
			continue
		}
		for _, ep := range res.value {
			flattened = append(flattened, seasonEpisode{season: ep.SeasonNumber, episode: ep.EpisodeNumber})
		}
	}

	resolved := joinAll(ctx, len(flattened), a.workers, func(ctx context.Context, i int) (*EpisodeRecord, error) {
		record, ok := a.resolver.Resolve(ctx, externalID, providerID, flattened[i].season, flattened[i].episode, creds)
		if !ok {
			return nil, errors.New("episode did not resolve")
		}
		return record, nil
	})

	episodes := make([]EpisodeRecord, 0, len(resolved))
	for _, res := range resolved {
		if res.err != nil || res.value == nil {
			continue
		}
		episodes = append(episodes, *res.value)
	}

	// Completion order must never leak into the output.
	sort.SliceStable(episodes, func(i, j int) bool {
		if episodes[i].Season != episodes[j].Season {
			return episodes[i].Season < episodes[j].Season
		}
		return episodes[i].Episode < episodes[j].Episode
	})

	return episodes
}
