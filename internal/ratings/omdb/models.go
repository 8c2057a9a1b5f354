package omdb

// Response is the OMDb episode lookup response. Response/Error form
// the provider's in-band not-found signal, distinct from transport
// failures.
type Response struct {
	Title      string `json:"Title"`
	Released   string `json:"Released"`
	Season     string `json:"Season"`
	Episode    string `json:"Episode"`
	ImdbRating string `json:"imdbRating"`
	ImdbID     string `json:"imdbID"`
	Type       string `json:"Type"`
	Response   string `json:"Response"`
	Error      string `json:"Error,omitempty"`
}

// EpisodeRating is the normalized episode rating output. Rating is
// empty when the provider reports "N/A".
type EpisodeRating struct {
	Rating   string
	Released string
}
