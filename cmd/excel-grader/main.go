// Package main provides the CLI entry point for excel-grader.
package main

import (
	"fmt"
	"os"

	"github.com/cotten321/Excel-Grader/internal/config"
	"github.com/cotten321/Excel-Grader/internal/config/env"
	"github.com/cotten321/Excel-Grader/internal/logger"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	logLevel  string
	logPretty bool
	mode      string
)

func main() {
	// A missing .env file is normal.
	_ = env.LoadEnv()

	cfg, err := config.Load()
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	rootCmd := &cobra.Command{
		Use:   "excel-grader",
		Short: "Grade Excel workbooks against assignment rules",
		Long: `excel-grader scores student xlsx submissions against an assignment's
checks (values, formulas, styles, structure) and writes a grade report.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Init(logLevel, logPretty)
		},
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", cfg.LogLevel, "Log level: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&logPretty, "log-pretty", cfg.LogPretty, "Human-readable log output")
	rootCmd.PersistentFlags().StringVar(&mode, "mode", cfg.Mode, "Loading mode: light, standard")

	rootCmd.AddCommand(newGradeCmd(cfg), newInspectCmd(), newAssignmentsCmd())

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}
