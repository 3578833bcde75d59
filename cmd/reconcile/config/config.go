// Package config builds the runtime configuration objects the CLI hands to
// the matching and logging layers, applying flag and environment overrides
// on top of library defaults.
package config

import (
	"bank-reconciliation-service/internal/matcher"
	"bank-reconciliation-service/pkg/logger"

	"github.com/spf13/viper"
)

// CreateMatchingOptions builds matcher options with CLI overrides applied.
func CreateMatchingOptions(dateTolerance int, amountTolerance, descriptionThreshold float64, useTime bool) *matcher.Options {
	opts := matcher.DefaultOptions()

	opts.DateToleranceDays = dateTolerance
	opts.AmountTolerance = amountTolerance
	opts.DescriptionThreshold = descriptionThreshold
	opts.UseTime = useTime

	return opts
}

// CreateLoggerConfig builds the logger configuration. Verbose mode enables
// debug logging; the level and format can also come from the environment
// (RECONCILE_LOG_LEVEL, RECONCILE_LOG_FORMAT).
func CreateLoggerConfig(verbose bool) *logger.Config {
	config := logger.DefaultConfig()

	if level := viper.GetString("log_level"); level != "" {
		config.Level = logger.Level(level)
	}
	if format := viper.GetString("log_format"); format != "" {
		config.Format = logger.Format(format)
	}
	if verbose {
		config.Level = logger.DebugLevel
	}

	return config
}
