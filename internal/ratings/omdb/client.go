package omdb

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
	ErrAPIKeyMissing = errors.New("OMDb API key is not configured")
	ErrNotFound      = errors.New("not found on OMDb")
	ErrAPIError      = errors.New("OMDb API error")
)

// notAvailable is OMDb's in-band marker for missing field values.
const notAvailable = "N/A"

// Client is an OMDb API client. The access token is supplied per call.
type Client struct {
	httpClient *http.Client
	config     config.OMDBConfig
	logger     zerolog.Logger
}

// NewClient creates a new OMDb client.
func NewClient(cfg config.OMDBConfig, logger zerolog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		config: cfg,
		logger: logger.With().Str("component", "omdb").Logger(),
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return "omdb"
}

// GetEpisodeRating fetches the rating for one episode, addressed by
// the external series identifier plus season and episode numbers.
func (c *Client) GetEpisodeRating(ctx context.Context, imdbID string, season, episode int, apiKey string) (*EpisodeRating, error) {
	if apiKey == "" {
		return nil, ErrAPIKeyMissing
	}

	if imdbID == "" {
		return nil, ErrNotFound
	}

	params := url.Values{}
	params.Set("apikey", apiKey)
	params.Set("i", imdbID)
	params.Set("Season", strconv.Itoa(season))
	params.Set("Episode", strconv.Itoa(episode))

	reqURL := fmt.Sprintf("%s/?%s", c.config.BaseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("imdbId", imdbID).Int("season", season).Int("episode", episode).Msg("HTTP request failed")
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrAPIError, resp.StatusCode)
	}

	var omdbResp Response
	if err := json.NewDecoder(resp.Body).Decode(&omdbResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	// Response "False" is the provider's not-found flag, not a
	// transport failure.
	if omdbResp.Response == "False" {
		c.logger.Debug().
			Str("imdbId", imdbID).
			Int("season", season).
			Int("episode", episode).
			Str("error", omdbResp.Error).
			Msg("OMDb reported not found")
		return nil, ErrNotFound
	}

	result := &EpisodeRating{}
	if omdbResp.ImdbRating != "" && omdbResp.ImdbRating != notAvailable {
		result.Rating = omdbResp.ImdbRating
	}
	if omdbResp.Released != "" && omdbResp.Released != notAvailable {
		result.Released = omdbResp.Released
	}

	return result, nil
}
