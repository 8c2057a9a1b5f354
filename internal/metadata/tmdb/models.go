package tmdb

// FindResponse is the response from the TMDB /find endpoint.
type FindResponse struct {
	TVResults []TVResult `json:"tv_results"`
}

// TVResult is a TV series entry in find/search results.
type TVResult struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	Overview     string  `json:"overview"`
	FirstAirDate string  `json:"first_air_date"`
	PosterPath   *string `json:"poster_path"`
	BackdropPath *string `json:"backdrop_path"`
	VoteAverage  float64 `json:"vote_average"`
}

// TVDetails is the detailed TV series info from TMDB.
type TVDetails struct {
	ID           int      `json:"id"`
	Name         string   `json:"name"`
	Overview     string   `json:"overview"`
	FirstAirDate string   `json:"first_air_date"`
	PosterPath   *string  `json:"poster_path"`
	BackdropPath *string  `json:"backdrop_path"`
	VoteAverage  float64  `json:"vote_average"`
	Seasons      []Season `json:"seasons"`
}

// Season is a season summary within TV details.
type Season struct {
	SeasonNumber int `json:"season_number"`
	EpisodeCount int `json:"episode_count"`
}

// SeasonDetails is the detailed season info including episodes.
type SeasonDetails struct {
	SeasonNumber int       `json:"season_number"`
	Episodes     []Episode `json:"episodes"`
}

// Episode is a single episode from TMDB.
type Episode struct {
	SeasonNumber  int     `json:"season_number"`
	EpisodeNumber int     `json:"episode_number"`
	Name          string  `json:"name"`
	Overview      string  `json:"overview"`
	AirDate       string  `json:"air_date"`
	StillPath     *string `json:"still_path"`
}

// ErrorResponse is the TMDB API error envelope.
type ErrorResponse struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
}

// NormalizedSeries is the provider-neutral series summary.
type NormalizedSeries struct {
	ID            string
	Name          string
	Overview      string
	PosterURL     string
	BackgroundURL string
	VoteAverage   float64
	Seasons       []int
}

// NormalizedEpisode is the provider-neutral episode detail.
type NormalizedEpisode struct {
	SeasonNumber  int
	EpisodeNumber int
	Name          string
	Overview      string
	AirDate       string
	ThumbnailURL  string
}
