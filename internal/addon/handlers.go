package addon

import (
	_ "embed"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/episcope/episcope/internal/enrich"
)

//go:embed configure.html
var configurePage []byte

// Handlers provides HTTP handlers for the addon surface.
type Handlers struct {
	service  *enrich.Service
	manifest Manifest
	logger   zerolog.Logger
}

// NewHandlers creates addon handlers backed by the enrichment service.
func NewHandlers(service *enrich.Service, manifest Manifest, logger zerolog.Logger) *Handlers {
	return &Handlers{
		service:  service,
		manifest: manifest,
		logger:   logger.With().Str("component", "addon").Logger(),
	}
}

// RegisterRoutes registers the addon routes on the Echo instance. Routes are
// registered at the root so installed clients can reach them without a prefix.
func (h *Handlers) RegisterRoutes(e *echo.Echo) {
	e.GET("/manifest.json", h.GetManifest)
	e.GET("/meta/:type/:id", h.GetMeta)
	e.GET("/configure", h.GetConfigure)

	// User-configured variants carry URL-encoded credentials in the first
	// path segment.
	e.GET("/:userConfig/manifest.json", h.GetUserManifest)
	e.GET("/:userConfig/meta/:type/:id", h.GetUserMeta)
	e.GET("/:userConfig/configure", h.GetConfigure)
}

// GetManifest serves the addon manifest.
// GET /manifest.json
func (h *Handlers) GetManifest(c echo.Context) error {
	return c.JSON(http.StatusOK, h.manifest)
}

// GetUserManifest serves the manifest for a user-configured install. A user
// config segment always satisfies the configuration requirement from the
// client's point of view.
// GET /:userConfig/manifest.json
func (h *Handlers) GetUserManifest(c echo.Context) error {
	m := h.manifest
	m.Behavior.ConfigurationRequired = false
	return c.JSON(http.StatusOK, m)
}

// GetMeta serves an enriched meta object using process-wide credentials.
// GET /meta/:type/:id.json
func (h *Handlers) GetMeta(c echo.Context) error {
	return h.handleMeta(c, enrich.Credentials{})
}

// GetUserMeta serves an enriched meta object using credentials from the
// user-config path segment.
// GET /:userConfig/meta/:type/:id.json
func (h *Handlers) GetUserMeta(c echo.Context) error {
	return h.handleMeta(c, parseUserConfig(c.Param("userConfig")))
}

func (h *Handlers) handleMeta(c echo.Context, creds enrich.Credentials) error {
	contentType := c.Param("type")
	externalID := strings.TrimSuffix(c.Param("id"), ".json")

	record, err := h.service.HandleMetaRequest(c.Request().Context(), contentType, externalID, creds)
	if err != nil {
		return h.mapError(c, externalID, err)
	}

	// Absent is a valid outcome: unsupported type, or a degraded failure.
	// Clients expect a meta envelope either way.
	if record == nil {
		return c.JSON(http.StatusOK, map[string]interface{}{"meta": nil})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"meta": record})
}

func (h *Handlers) mapError(c echo.Context, externalID string, err error) error {
	switch {
	case errors.Is(err, enrich.ErrConfigurationRequired):
		return echo.NewHTTPError(http.StatusBadRequest, "addon is not configured: TMDB and OMDb API keys are required")
	case errors.Is(err, enrich.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "series not found: "+externalID)
	case errors.Is(err, enrich.ErrUpstream):
		h.logger.Error().Err(err).Str("id", externalID).Msg("upstream failure")
		return echo.NewHTTPError(http.StatusBadGateway, "upstream provider failure")
	default:
		h.logger.Error().Err(err).Str("id", externalID).Msg("meta request failed")
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

// GetConfigure serves the install/configuration page.
// GET /configure
func (h *Handlers) GetConfigure(c echo.Context) error {
	return c.HTMLBlob(http.StatusOK, configurePage)
}
