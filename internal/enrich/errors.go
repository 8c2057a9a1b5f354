package enrich

import "errors"

var (
	// ErrConfigurationRequired means the request cannot be served
	// because one or both provider tokens are missing.
	ErrConfigurationRequired = errors.New("provider credentials are not configured")

	// ErrNotFound means the external identifier has no corresponding
	// record at the metadata provider.
	ErrNotFound = errors.New("series not found")

	// ErrUpstream means the primary series lookup failed for a reason
	// other than not-found.
	ErrUpstream = errors.New("upstream provider error")
)
