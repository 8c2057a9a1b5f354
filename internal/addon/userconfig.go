package addon

import (
	"net/url"

	"github.com/episcope/episcope/internal/enrich"
)

// parseUserConfig extracts per-request credentials from the user-config path
// segment. The segment is a URL-encoded query string of the form
// "tmdb=<key>&omdb=<key>"; unknown keys are ignored. An empty or malformed
// segment yields empty credentials, which the service treats the same as an
// unconfigured request.
func parseUserConfig(segment string) enrich.Credentials {
	decoded, err := url.PathUnescape(segment)
	if err != nil {
		decoded = segment
	}

	values, err := url.ParseQuery(decoded)
	if err != nil {
		return enrich.Credentials{}
	}

	return enrich.Credentials{
		TMDBKey: values.Get("tmdb"),
		OMDBKey: values.Get("omdb"),
	}
}
