package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/episcope/episcope/internal/config"
)

var (
	ErrAPIKeyMissing = errors.New("TMDB API key is not configured")
	ErrNotFound      = errors.New("series not found")
	ErrAPIError      = errors.New("TMDB API error")
	ErrRateLimited   = errors.New("TMDB API rate limited")
)

// Image sizes concatenated against the image base URL. Posters and
// episode thumbnails are served at fixed widths, backgrounds at the
// original resolution.
const (
	posterSize     = "w500"
	backgroundSize = "original"
	thumbnailSize  = "w300"
)

// Client is a TMDB API client. The access token is supplied per call;
// the client itself holds only endpoint configuration.
type Client struct {
	httpClient *http.Client
	config     config.TMDBConfig
	logger     zerolog.Logger
}

// NewClient creates a new TMDB client.
func NewClient(cfg config.TMDBConfig, logger zerolog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		config: cfg,
		logger: logger.With().Str("component", "tmdb").Logger(),
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return "tmdb"
}

// FindByExternalID resolves an external (IMDb-style) identifier to the
// provider-internal series identifier via the /find endpoint.
func (c *Client) FindByExternalID(ctx context.Context, externalID, apiKey string) (string, error) {
	if apiKey == "" {
		return "", ErrAPIKeyMissing
	}

	endpoint := fmt.Sprintf("%s/find/%s", c.config.BaseURL, url.PathEscape(externalID))
	params := url.Values{}
	params.Set("api_key", apiKey)
	params.Set("external_source", "imdb_id")

	var response FindResponse
	if err := c.doRequest(ctx, endpoint, params, &response); err != nil {
		return "", err
	}

	if len(response.TVResults) == 0 {
		return "", ErrNotFound
	}

	internalID := strconv.Itoa(response.TVResults[0].ID)

	c.logger.Debug().
		Str("externalId", externalID).
		Str("internalId", internalID).
		Msg("Resolved external id")

	return internalID, nil
}

// GetSeries fetches the series summary including the season list.
func (c *Client) GetSeries(ctx context.Context, seriesID, apiKey string) (*NormalizedSeries, error) {
	if apiKey == "" {
		return nil, ErrAPIKeyMissing
	}

	endpoint := fmt.Sprintf("%s/tv/%s", c.config.BaseURL, url.PathEscape(seriesID))
	params := url.Values{}
	params.Set("api_key", apiKey)

	var details TVDetails
	if err := c.doRequest(ctx, endpoint, params, &details); err != nil {
		return nil, err
	}

	result := c.tvDetailsToSeries(details)

	c.logger.Debug().
		Str("seriesId", seriesID).
		Str("name", result.Name).
		Int("seasons", len(result.Seasons)).
		Msg("Got series details")

	return &result, nil
}

// GetSeason fetches one season's episode list.
func (c *Client) GetSeason(ctx context.Context, seriesID string, season int, apiKey string) ([]NormalizedEpisode, error) {
	if apiKey == "" {
		return nil, ErrAPIKeyMissing
	}

	endpoint := fmt.Sprintf("%s/tv/%s/season/%d", c.config.BaseURL, url.PathEscape(seriesID), season)
	params := url.Values{}
	params.Set("api_key", apiKey)

	var details SeasonDetails
	if err := c.doRequest(ctx, endpoint, params, &details); err != nil {
		return nil, err
	}

	episodes := make([]NormalizedEpisode, len(details.Episodes))
	for i, ep := range details.Episodes {
		episodes[i] = c.toEpisode(ep)
	}

	c.logger.Debug().
		Str("seriesId", seriesID).
		Int("season", season).
		Int("episodes", len(episodes)).
		Msg("Got season details")

	return episodes, nil
}

// GetEpisode fetches one episode's details.
func (c *Client) GetEpisode(ctx context.Context, seriesID string, season, episode int, apiKey string) (*NormalizedEpisode, error) {
	if apiKey == "" {
		return nil, ErrAPIKeyMissing
	}

	endpoint := fmt.Sprintf("%s/tv/%s/season/%d/episode/%d",
		c.config.BaseURL, url.PathEscape(seriesID), season, episode)
	params := url.Values{}
	params.Set("api_key", apiKey)

	var details Episode
	if err := c.doRequest(ctx, endpoint, params, &details); err != nil {
		return nil, err
	}

	result := c.toEpisode(details)
	return &result, nil
}

// ImageURL returns a full image URL for a path fragment and size.
func (c *Client) ImageURL(path, size string) string {
	if path == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s%s", c.config.ImageBaseURL, size, path)
}

// doRequest performs an HTTP GET request and decodes the JSON response.
func (c *Client) doRequest(ctx context.Context, endpoint string, params url.Values, result interface{}) error {
	reqURL := endpoint
	if len(params) > 0 {
		reqURL = fmt.Sprintf("%s?%s", endpoint, params.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("url", endpoint).Msg("HTTP request failed")
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil {
			c.logger.Error().
				Int("status", resp.StatusCode).
				Str("message", errResp.StatusMessage).
				Msg("TMDB API error")
		}

		switch resp.StatusCode {
		case http.StatusNotFound:
			return ErrNotFound
		case http.StatusUnauthorized:
			return fmt.Errorf("%w: invalid API key", ErrAPIError)
		case http.StatusTooManyRequests:
			return ErrRateLimited
		default:
			return fmt.Errorf("%w: status %d", ErrAPIError, resp.StatusCode)
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// tvDetailsToSeries converts TMDB TV details to a NormalizedSeries.
func (c *Client) tvDetailsToSeries(details TVDetails) NormalizedSeries {
	seasons := make([]int, len(details.Seasons))
	for i, s := range details.Seasons {
		seasons[i] = s.SeasonNumber
	}

	result := NormalizedSeries{
		ID:          strconv.Itoa(details.ID),
		Name:        details.Name,
		Overview:    details.Overview,
		VoteAverage: details.VoteAverage,
		Seasons:     seasons,
	}

	if details.PosterPath != nil {
		result.PosterURL = c.ImageURL(*details.PosterPath, posterSize)
	}
	if details.BackdropPath != nil {
		result.BackgroundURL = c.ImageURL(*details.BackdropPath, backgroundSize)
	}

	return result
}

// toEpisode converts a TMDB episode to a NormalizedEpisode.
func (c *Client) toEpisode(ep Episode) NormalizedEpisode {
	result := NormalizedEpisode{
		SeasonNumber:  ep.SeasonNumber,
		EpisodeNumber: ep.EpisodeNumber,
		Name:          ep.Name,
		Overview:      ep.Overview,
		AirDate:       ep.AirDate,
	}

	if ep.StillPath != nil {
		result.ThumbnailURL = c.ImageURL(*ep.StillPath, thumbnailSize)
	}

	return result
}
