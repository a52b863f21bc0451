// Package main provides the groupsheets binary entry point.
// groupsheets cleans up Belfast Group sheet RDF: it identifies group sheets,
// merges duplicate descriptions under canonical identifiers and infers author
// affiliations.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/c360studio/groupsheets/config"
	"github.com/c360studio/groupsheets/processor/classifier"
	"github.com/c360studio/groupsheets/processor/inferrer"
	"github.com/c360studio/groupsheets/processor/smusher"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "groupsheets"
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

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		cancel()
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Clean up Belfast Group sheet RDF",
		Long: `groupsheets cleans up RDF descriptions of Belfast Group sheets in place.

It runs three stages over RDF/XML, Turtle and N-Triples files:
- identify: tag manuscripts associated with the group as group sheets
- smush: merge duplicate group sheets under content-derived identifiers
- infer: record group sheet authors as affiliated with the group

Paths may be files, directories or doublestar patterns such as data/**/*.rdf.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "Config file path (YAML)")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.StringVar(&opts.logFormat, "log-format", "", "Log format (text, json)")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "Process files without writing them")
	flags.StringVar(&opts.metricsFile, "metrics-file", "", "Write Prometheus metrics to this file after each run")
	flags.BoolVar(&opts.jsonSummary, "json", false, "Print the run summary as JSON")

	cmd.AddCommand(
		stageCmd(opts, classifier.StageName, "Tag group sheets among the manuscripts"),
		stageCmd(opts, smusher.StageName, "Merge duplicate group sheets under canonical identifiers"),
		stageCmd(opts, inferrer.StageName, "Add author affiliations for group sheets"),
		runCmd(opts),
		watchCmd(opts),
		configCmd(opts),
	)

	// Version command
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	return cmd
}

func stageCmd(opts *options, stage, short string) *cobra.Command {
	return &cobra.Command{
		Use:   stage + " <paths...>",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			return app.runOnce(cmd.Context(), args, stage)
		},
	}
}

func runCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "run <paths...>",
		Short: "Run identify, smush and infer in order",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			return app.runOnce(cmd.Context(), args)
		},
	}
}

func watchCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <dir>",
		Short: "Run all stages now and again whenever RDF files under dir change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			return app.watch(cmd.Context(), args[0])
		},
	}
}

func configCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			defer enc.Close()
			return enc.Encode(app.cfg)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create the user config file with defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			path, err := config.NewLoader(app.logger).EnsureUserConfig()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	})

	return cmd
}
