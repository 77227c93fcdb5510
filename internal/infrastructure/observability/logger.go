package observability

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger builds the root logger for one process. Development gets a
// console writer, everything else structured JSON on stdout.
func NewLogger(serviceName, env string) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if env == "development" {
		return zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}).With().
			Timestamp().
			Str("service", serviceName).
			Logger()
	}

	return zerolog.New(os.Stdout).
		With().
		Timestamp().
		Caller().
		Str("service", serviceName).
		Logger()
}

// RunLogger scopes a logger to a single pipeline run. The run-scoped logger
// is injected into every stage; there is no package-global logger.
func RunLogger(base zerolog.Logger, runID string) zerolog.Logger {
	return base.With().Str("run_id", runID).Logger()
}
