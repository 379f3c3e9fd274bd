// Package main implements the s2dm command line tool.
// s2dm composes modular GraphQL SDL specifications into a single schema
// and derives concept URIs, variant IDs, spec history, and RDF artifacts
// from the composed result.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/mfkaptan-motius/s2dm/config"
)

// Build information constants
const (
	Version = "0.1.0"
	appName = "s2dm"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := newRootCmd().Execute(); err != nil {
		var ee exitError
		if errors.As(err, &ee) {
			os.Exit(ee.code)
		}
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

// exitError carries an exit code that is part of a command's pipeline
// contract rather than a failure to run. main exits with the code without
// logging anything further.
type exitError struct {
	code int
}

func (e exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// rootOptions holds state shared by every subcommand: the persistent log
// flags and the configuration resolved before the command body runs.
type rootOptions struct {
	logLevel  string
	logFormat string
	cfg       *config.Config
}

// conceptNamespace returns the flag value when set, the configured
// namespace otherwise, so S2DM_CONCEPT_NAMESPACE still applies to
// commands whose flag was left at its default.
func (o *rootOptions) conceptNamespace(cmd *cobra.Command, flag, value string) string {
	if cmd.Flags().Changed(flag) {
		return value
	}
	return o.cfg.ConceptNamespace
}

func (o *rootOptions) conceptPrefix(cmd *cobra.Command, flag, value string) string {
	if cmd.Flags().Changed(flag) {
		return value
	}
	return o.cfg.ConceptPrefix
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Compose GraphQL SDL specifications and manage concept identity",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.NewLoader().Load()
			if err != nil {
				return err
			}
			if opts.logLevel != "" {
				cfg.LogLevel = opts.logLevel
			}
			if opts.logFormat != "" {
				cfg.LogFormat = opts.logFormat
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			opts.cfg = cfg
			slog.SetDefault(setupLogger(cfg.LogLevel, cfg.LogFormat))
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.logLevel, "log-level", "l", "",
		"log level: debug, info, warn, error (default info)")
	cmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "",
		"log format: text or json (default text)")

	cmd.AddCommand(
		newComposeCmd(),
		newRegistryCmd(opts),
		newDiffCmd(opts),
		newCheckCmd(opts),
		newGenerateCmd(opts),
		newSearchCmd(),
		newStatsCmd(),
	)
	return cmd
}
