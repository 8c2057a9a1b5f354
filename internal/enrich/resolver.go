package enrich

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/episcope/episcope/internal/metadata/tmdb"
	"github.com/episcope/episcope/internal/ratings/omdb"
)

// Resolver joins one episode's metadata with its rating. Failure of
// either source is never escalated: the episode simply resolves to
// absent.
type Resolver struct {
	metadata   MetadataClient
	ratings    RatingsClient
	cache      *Cache
	logger     zerolog.Logger
	episodeTTL time.Duration
}

// NewResolver creates a rating resolver backed by the given providers
// and cache.
func NewResolver(metadata MetadataClient, ratings RatingsClient, cache *Cache, episodeTTL time.Duration, logger zerolog.Logger) *Resolver {
	return &Resolver{
		metadata:   metadata,
		ratings:    ratings,
		cache:      cache,
		logger:     logger.With().Str("component", "resolver").Logger(),
		episodeTTL: episodeTTL,
	}
}

// Resolve builds the enriched record for one episode. externalID is
// the caller-visible series identifier (used for the ratings lookup
// and the cache key); providerID addresses the metadata provider.
// The second return value is false when the episode could not be
// resolved; the caller treats that as "no data", not as an error.
func (r *Resolver) Resolve(ctx context.Context, externalID, providerID string, season, episode int, creds Credentials) (*EpisodeRecord, bool) {
	cacheKey := EpisodeID(externalID, season, episode)
	if cached, ok := r.cache.GetEpisode(cacheKey); ok {
		return cached, true
	}

	// Both sources are fetched concurrently and both must succeed.
	var (
		meta    *tmdb.NormalizedEpisode
		metaErr error
		rating  *omdb.EpisodeRating
		rateErr error
	)

	done := make(chan struct{})
	go func() {
		defer close(done)
		rating, rateErr = r.ratings.GetEpisodeRating(ctx, externalID, season, episode, creds.OMDBKey)
	}()

	meta, metaErr = r.metadata.GetEpisode(ctx, providerID, season, episode, creds.TMDBKey)
	<-done

	if metaErr != nil {
		r.logger.Debug().Err(metaErr).
			Str("seriesId", externalID).
			Int("season", season).
			Int("episode", episode).
			Msg("Episode metadata fetch failed")
		return nil, false
	}
	if rateErr != nil {
		r.logger.Debug().Err(rateErr).
			Str("seriesId", externalID).
			Int("season", season).
			Int("episode", episode).
			Msg("Episode rating fetch failed")
		return nil, false
	}

	record := r.buildRecord(externalID, season, episode, meta, rating)
	r.cache.Set(cacheKey, record, r.episodeTTL)

	return record, true
}

// buildRecord derives the EpisodeRecord fields from the two provider
// payloads.
func (r *Resolver) buildRecord(externalID string, season, episode int, meta *tmdb.NormalizedEpisode, rating *omdb.EpisodeRating) *EpisodeRecord {
	title := meta.Name
	if title == "" {
		title = fmt.Sprintf("Episode %d", episode)
	}

	record := &EpisodeRecord{
		ID:        EpisodeID(externalID, season, episode),
		Title:     title,
		Season:    season,
		Episode:   episode,
		Overview:  meta.Overview,
		Thumbnail: meta.ThumbnailURL,
		Rating:    rating.Rating,
	}

	// An unparseable or missing air date never aborts the episode.
	if meta.AirDate != "" {
		if released, err := time.Parse("2006-01-02", meta.AirDate); err == nil {
			record.Released = &released
		}
	}

	return record
}
