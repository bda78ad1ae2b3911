package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/allocator/pkg/config"
	"github.com/wonny/allocator/pkg/logger"
)

var (
	// Global flags
	logLevel  string
	logFormat string
	verbose   bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "allocator",
	Short: "Portfolio allocation solver",
	Long: `Allocator CLI

제약 조건(예산, 평균 위험도, 섹터 한도)을 지키면서
기대 수익을 최대화하는 0/1 종목 배분을 탐색합니다.

Usage:
  go run ./cmd/allocator [command]

Examples:
  go run ./cmd/allocator solve --input portfolio.json
  go run ./cmd/allocator validate --input portfolio.json
  go run ./cmd/allocator explain --input solved.json
  go run ./cmd/allocator profile show --profile config/solver/explore.yaml`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
// SIGINT/SIGTERM cancel the running solve; the best allocation so far is still returned.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override (trace|debug|info|warn|error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format override (json|console|pretty)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logs)")
}

// initDeps loads configuration and the logger, applying global flag overrides.
func initDeps() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if logFormat != "" {
		cfg.LogFormat = logFormat
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	return cfg, logger.New(cfg), nil
}
