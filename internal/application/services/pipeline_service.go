package services

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/caresched/appointment-warehouse/internal/adapters/flatfile"
	"github.com/caresched/appointment-warehouse/internal/infrastructure/clients/insuranceapi"
	"github.com/caresched/appointment-warehouse/internal/infrastructure/observability"
	"github.com/caresched/appointment-warehouse/pkg/config"
)

// completionLayout is the human-readable stamp logged when a run finishes.
const completionLayout = "02 January 2006 - 15:04"

// PipelineService orchestrates one full extract-transform-load run.
type PipelineService struct {
	cfg       *config.Config
	apiClient insuranceapi.Client
	location  *time.Location
	logger    zerolog.Logger
}

// NewPipelineService creates a pipeline service. The completion stamp uses
// the configured timezone; an unknown zone falls back to UTC with a
// warning rather than failing the whole pipeline.
func NewPipelineService(cfg *config.Config, apiClient insuranceapi.Client, logger zerolog.Logger) *PipelineService {
	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Warn().Err(err).Str("timezone", cfg.Timezone).Msg("unknown timezone, using UTC")
		location = time.UTC
	}
	return &PipelineService{
		cfg:       cfg,
		apiClient: apiClient,
		location:  location,
		logger:    logger,
	}
}

// Run executes one complete pipeline run under a fresh run id. The
// warehouse is rebuilt from scratch on every run.
func (s *PipelineService) Run(ctx context.Context) error {
	runID := uuid.New().String()
	logger := observability.RunLogger(s.logger, runID)
	start := time.Now()
	logger.Info().Msg("pipeline run started")

	extractLogger := logger.With().Str("stage", "extract").Logger()
	extractor := NewExtractService(
		flatfile.NewReader(s.cfg.Sources.DataDir, extractLogger),
		s.cfg.Sources.SourceDBPath,
		s.apiClient,
		s.cfg.InsuranceAPI.FallbackPath,
		extractLogger,
	)

	phase := time.Now()
	extract, err := extractor.Run(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("extraction failed")
		return err
	}
	logger.Info().Dur("elapsed", time.Since(phase)).Msg("extraction finished")

	phase = time.Now()
	transformer := NewTransformService(
		rand.New(rand.NewSource(time.Now().UnixNano())),
		logger.With().Str("stage", "transform").Logger(),
	)
	tables, err := transformer.Run(extract)
	if err != nil {
		logger.Error().Err(err).Msg("transformation failed")
		return err
	}
	logger.Info().Dur("elapsed", time.Since(phase)).Msg("transformation finished")

	phase = time.Now()
	loader := NewLoadService(s.cfg.Warehouse.Path, true, logger.With().Str("stage", "load").Logger())
	if err := loader.Run(ctx, tables); err != nil {
		logger.Error().Err(err).Msg("load failed")
		return err
	}
	logger.Info().Dur("elapsed", time.Since(phase)).Msg("load finished")

	logger.Info().
		Dur("total", time.Since(start)).
		Str("completed_at", time.Now().In(s.location).Format(completionLayout)).
		Msg("pipeline run complete")
	return nil
}
