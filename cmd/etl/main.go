package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/caresched/appointment-warehouse/internal/application/services"
	"github.com/caresched/appointment-warehouse/internal/infrastructure/clients/insuranceapi"
	"github.com/caresched/appointment-warehouse/internal/infrastructure/observability"
	"github.com/caresched/appointment-warehouse/pkg/config"
)

func main() {
	var intervalFlag string
	flag.StringVar(&intervalFlag, "interval", "", "repeat interval for pipeline runs (e.g. 24h, 30m)")
	flag.Parse()

	intervalValue := strings.TrimSpace(intervalFlag)
	if intervalValue == "" {
		intervalValue = strings.TrimSpace(os.Getenv("ETL_INTERVAL"))
	}

	var interval time.Duration
	var err error
	if intervalValue != "" {
		interval, err = time.ParseDuration(intervalValue)
		if err != nil {
			log.Fatalf("Invalid interval %q: %v", intervalValue, err)
		}
		if interval <= 0 {
			log.Fatalf("Interval must be greater than zero")
		}
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := observability.NewLogger("etl", cfg.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	apiClient := insuranceapi.NewClient(cfg.InsuranceAPI.URL, cfg.InsuranceAPI.APIKey)
	pipeline := services.NewPipelineService(cfg, apiClient, logger)

	for {
		if err := pipeline.Run(ctx); err != nil {
			if interval <= 0 {
				logger.Fatal().Err(err).Msg("pipeline run failed")
			}
			logger.Error().Err(err).Msg("pipeline run failed")
		}

		if interval <= 0 {
			break
		}
		logger.Info().Dur("interval", interval).Msg("waiting for next scheduled run")

		select {
		case <-ctx.Done():
			logger.Info().Msg("etl shutting down")
			return
		case <-time.After(interval):
		}
	}
}
