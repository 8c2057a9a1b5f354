package enrich

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/episcope/episcope/internal/config"
)

// ContentTypeSeries is the only content type this service enriches.
const ContentTypeSeries = "series"

// Service is the enrichment entry point consumed by the addon layer.
type Service struct {
	assembler   *Assembler
	defaults    Credentials
	failureMode string
	logger      zerolog.Logger
}

// NewService creates the enrichment service. defaults are the
// process-wide credentials; per-request credentials take precedence.
func NewService(assembler *Assembler, defaults Credentials, failureMode string, logger zerolog.Logger) *Service {
	return &Service{
		assembler:   assembler,
		defaults:    defaults,
		failureMode: failureMode,
		logger:      logger.With().Str("component", "enrich").Logger(),
	}
}

// HandleMetaRequest serves one meta request from the host. A content
// type other than "series" returns (nil, nil) without any remote call.
// Missing credentials fail with ErrConfigurationRequired before any
// remote call. Assembly failures follow the configured failure mode:
// propagate surfaces them to the host, degrade logs and answers with
// an absent result.
func (s *Service) HandleMetaRequest(ctx context.Context, contentType, externalID string, supplied Credentials) (*SeriesRecord, error) {
	if contentType != ContentTypeSeries {
		return nil, nil
	}

	creds := supplied.OrDefault(s.defaults)
	if !creds.Complete() {
		return nil, ErrConfigurationRequired
	}

	record, err := s.assembler.Assemble(ctx, externalID, creds)
	if err != nil {
		if s.failureMode == config.FailureDegrade {
			s.logger.Warn().Err(err).Str("seriesId", externalID).Msg("Assembly failed, degrading to absent")
			return nil, nil
		}
		return nil, fmt.Errorf("enrich %s: %w", externalID, err)
	}

	return record, nil
}
