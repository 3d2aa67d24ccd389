package telemetry

import (
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds configuration for database query tracing.
type DBTracingConfig struct {
	Enabled    bool
	LogFullSQL bool // include query variables in spans, dev only
	DBName     string
}

// RegisterDBTracing registers the otelgorm plugin on a GORM instance.
// Query variables are excluded from spans unless LogFullSQL is set.
func RegisterDBTracing(db *gorm.DB, cfg DBTracingConfig, logger *zap.Logger) error {
	if !cfg.Enabled {
		logger.Debug("database tracing disabled")
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(cfg.DBName)}
	if !cfg.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}

	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	logger.Info("database tracing enabled", zap.Bool("log_full_sql", cfg.LogFullSQL))
	return nil
}
