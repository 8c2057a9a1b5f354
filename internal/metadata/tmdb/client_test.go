package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/episcope/episcope/internal/config"
)

func newTestClient(server *httptest.Server) *Client {
	cfg := config.TMDBConfig{
		BaseURL:      server.URL,
		ImageBaseURL: "https://image.tmdb.org/t/p",
		Timeout:      5,
	}
	return NewClient(cfg, zerolog.Nop())
}

func strptr(s string) *string { return &s }

func TestClient_FindByExternalID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/find/tt3581920" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if src := r.URL.Query().Get("external_source"); src != "imdb_id" {
			t.Errorf("external_source = %q, want imdb_id", src)
		}

		json.NewEncoder(w).Encode(FindResponse{
			TVResults: []TVResult{{ID: 63333, Name: "The Last Kingdom"}},
		})
	}))
	defer server.Close()

	client := newTestClient(server)

	id, err := client.FindByExternalID(context.Background(), "tt3581920", "test-key")
	if err != nil {
		t.Fatalf("FindByExternalID() error = %v", err)
	}
	if id != "63333" {
		t.Errorf("id = %q, want %q", id, "63333")
	}
}

func TestClient_FindByExternalID_NoMatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(FindResponse{})
	}))
	defer server.Close()

	client := newTestClient(server)

	_, err := client.FindByExternalID(context.Background(), "tt0000000", "test-key")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestClient_FindByExternalID_MissingKey(t *testing.T) {
	client := NewClient(config.TMDBConfig{}, zerolog.Nop())

	_, err := client.FindByExternalID(context.Background(), "tt3581920", "")
	if !errors.Is(err, ErrAPIKeyMissing) {
		t.Errorf("error = %v, want ErrAPIKeyMissing", err)
	}
}

func TestClient_GetSeries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tv/63333" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}

		json.NewEncoder(w).Encode(TVDetails{
			ID:           63333,
			Name:         "The Last Kingdom",
			Overview:     "A story of Saxons and Danes.",
			VoteAverage:  8.3,
			PosterPath:   strptr("/poster.jpg"),
			BackdropPath: strptr("/backdrop.jpg"),
			Seasons: []Season{
				{SeasonNumber: 1, EpisodeCount: 8},
				{SeasonNumber: 2, EpisodeCount: 8},
			},
		})
	}))
	defer server.Close()

	client := newTestClient(server)

	series, err := client.GetSeries(context.Background(), "63333", "test-key")
	if err != nil {
		t.Fatalf("GetSeries() error = %v", err)
	}

	if series.Name != "The Last Kingdom" {
		t.Errorf("Name = %q, want %q", series.Name, "The Last Kingdom")
	}
	if len(series.Seasons) != 2 {
		t.Errorf("Seasons = %v, want two entries", series.Seasons)
	}
	if series.PosterURL != "https://image.tmdb.org/t/p/w500/poster.jpg" {
		t.Errorf("PosterURL = %q", series.PosterURL)
	}
	if series.BackgroundURL != "https://image.tmdb.org/t/p/original/backdrop.jpg" {
		t.Errorf("BackgroundURL = %q", series.BackgroundURL)
	}
}

func TestClient_GetSeries_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(ErrorResponse{StatusCode: 34, StatusMessage: "The resource you requested could not be found."})
	}))
	defer server.Close()

	client := newTestClient(server)

	_, err := client.GetSeries(context.Background(), "999999999", "test-key")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestClient_GetSeason(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tv/63333/season/1" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}

		json.NewEncoder(w).Encode(SeasonDetails{
			SeasonNumber: 1,
			Episodes: []Episode{
				{SeasonNumber: 1, EpisodeNumber: 1, Name: "Episode 1", AirDate: "2015-10-10", StillPath: strptr("/still1.jpg")},
				{SeasonNumber: 1, EpisodeNumber: 2, Name: "Episode 2", AirDate: "2015-10-17"},
			},
		})
	}))
	defer server.Close()

	client := newTestClient(server)

	episodes, err := client.GetSeason(context.Background(), "63333", 1, "test-key")
	if err != nil {
		t.Fatalf("GetSeason() error = %v", err)
	}

	if len(episodes) != 2 {
		t.Fatalf("expected 2 episodes, got %d", len(episodes))
	}
	if episodes[0].ThumbnailURL != "https://image.tmdb.org/t/p/w300/still1.jpg" {
		t.Errorf("ThumbnailURL = %q", episodes[0].ThumbnailURL)
	}
	if episodes[1].ThumbnailURL != "" {
		t.Errorf("ThumbnailURL = %q, want empty for missing still", episodes[1].ThumbnailURL)
	}
}

func TestClient_GetEpisode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tv/63333/season/1/episode/3" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}

		json.NewEncoder(w).Encode(Episode{
			SeasonNumber:  1,
			EpisodeNumber: 3,
			Name:          "Episode 3",
			Overview:      "Uhtred makes a choice.",
			AirDate:       "2015-10-24",
		})
	}))
	defer server.Close()

	client := newTestClient(server)

	ep, err := client.GetEpisode(context.Background(), "63333", 1, 3, "test-key")
	if err != nil {
		t.Fatalf("GetEpisode() error = %v", err)
	}

	if ep.Name != "Episode 3" {
		t.Errorf("Name = %q, want %q", ep.Name, "Episode 3")
	}
	if ep.AirDate != "2015-10-24" {
		t.Errorf("AirDate = %q, want %q", ep.AirDate, "2015-10-24")
	}
}

func TestClient_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := newTestClient(server)

	_, err := client.GetSeries(context.Background(), "63333", "test-key")
	if !errors.Is(err, ErrRateLimited) {
		t.Errorf("error = %v, want ErrRateLimited", err)
	}
}

func TestClient_ImageURL(t *testing.T) {
	client := NewClient(config.TMDBConfig{ImageBaseURL: "https://image.tmdb.org/t/p"}, zerolog.Nop())

	if got := client.ImageURL("/poster.jpg", "w500"); got != "https://image.tmdb.org/t/p/w500/poster.jpg" {
		t.Errorf("ImageURL() = %q", got)
	}
	if got := client.ImageURL("", "w500"); got != "" {
		t.Errorf("ImageURL(empty) = %q, want empty", got)
	}
}
