// Package cmd implements the contentlens CLI using Cobra.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/seo-optimizer/contentlens/config"
	"github.com/seo-optimizer/contentlens/logging"
)

// app carries the configuration and logger shared by all subcommands.
type app struct {
	cfg      config.Config
	logger   zerolog.Logger
	logLevel string
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "contentlens",
		Short: "On-page SEO content analysis",
		Long: `contentlens extracts the readable content of a web page and reports
word frequency, keyword density, Flesch readability, meta tags and
technical SEO signals.

Usage:
  contentlens analyze <url|file> [flags]
  contentlens serve`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading configuration: %w", err)
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = a.logLevel
			}
			a.cfg = cfg
			a.logger = logging.New(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogPretty)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	root.AddCommand(newAnalyzeCmd(a), newServeCmd(a))
	return root
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
