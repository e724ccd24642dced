// Package config holds the CLI defaults read from the environment.
package config

import (
	"fmt"
	"os"
	"runtime"

	"github.com/cotten321/Excel-Grader/internal/config/env"
	"github.com/cotten321/Excel-Grader/pkg/grader"
	"github.com/mattn/go-isatty"
)

// Report formats.
const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
)

// Config holds the grader's settings.
type Config struct {
	// Grading
	Concurrency int
	Mode        string

	// Logging
	LogLevel  string
	LogPretty bool

	// Outputs; empty disables the history database or the metrics file.
	HistoryDB    string
	MetricsFile  string
	ReportFormat string
}

func Load() (*Config, error) {
	cfg := &Config{}

	cfg.Concurrency = env.GetEnvInt("GRADER_CONCURRENCY", runtime.NumCPU())
	cfg.Mode = env.GetEnv("GRADER_MODE", string(grader.ModeStandard))

	cfg.LogLevel = env.GetEnv("GRADER_LOG_LEVEL", "info")
	cfg.LogPretty = env.GetEnvBool("GRADER_LOG_PRETTY", stderrIsTerminal())

	cfg.HistoryDB = env.GetEnv("GRADER_HISTORY_DB", "")
	cfg.MetricsFile = env.GetEnv("GRADER_METRICS_FILE", "")
	cfg.ReportFormat = env.GetEnv("GRADER_REPORT_FORMAT", FormatXLSX)

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Concurrency < 1 {
		return fmt.Errorf("GRADER_CONCURRENCY must be greater than 0")
	}
	if _, err := grader.ParseMode(c.Mode); err != nil {
		return fmt.Errorf("GRADER_MODE: %w", err)
	}
	if c.ReportFormat != FormatXLSX && c.ReportFormat != FormatCSV {
		return fmt.Errorf("GRADER_REPORT_FORMAT must be %s or %s, got %q", FormatXLSX, FormatCSV, c.ReportFormat)
	}
	return nil
}

func stderrIsTerminal() bool {
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
