package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/c360studio/groupsheets/config"
	"github.com/c360studio/groupsheets/fileset"
	"github.com/c360studio/groupsheets/metrics"
	"github.com/c360studio/groupsheets/processor"
	"github.com/c360studio/groupsheets/processor/pipeline"
	"github.com/c360studio/groupsheets/rdfio"
	"github.com/c360studio/groupsheets/watch"
)

// options holds the persistent command-line flags.
type options struct {
	configPath  string
	logLevel    string
	logFormat   string
	dryRun      bool
	metricsFile string
	jsonSummary bool
}

// App wires configuration, storage, stages and metrics for one command.
type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   processor.GraphStore
	metrics *metrics.Metrics
	stages  []pipeline.Stage
	json    bool
	out     io.Writer
}

func newApp(cmd *cobra.Command, opts *options) (*App, error) {
	// Config loading logs at the flag level until the real logger exists.
	bootLevel, err := config.ParseLevel(opts.logLevel)
	if err != nil {
		return nil, fmt.Errorf("--log-level: %w", err)
	}
	boot := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: bootLevel}))

	cfg, err := config.NewLoader(boot).Load(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	applyFlags(cmd, opts, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := newLogger(cmd.ErrOrStderr(), cfg.Log)
	if err != nil {
		return nil, err
	}

	var store processor.GraphStore = rdfio.NewFileStore(logger)
	if cfg.Output.DryRun {
		store = rdfio.NewDryRunStore(logger)
	}

	return &App{
		cfg:     cfg,
		logger:  logger,
		store:   store,
		metrics: metrics.New(),
		stages:  pipeline.Default(store, cfg.Vocabulary, logger),
		json:    opts.jsonSummary,
		out:     cmd.OutOrStdout(),
	}, nil
}

// applyFlags overrides configuration with the flags set on the command line.
func applyFlags(cmd *cobra.Command, opts *options, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = opts.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = opts.logFormat
	}
	if flags.Changed("dry-run") {
		cfg.Output.DryRun = opts.dryRun
	}
	if flags.Changed("metrics-file") {
		cfg.Metrics.Textfile = opts.metricsFile
	}
}

func newLogger(w io.Writer, cfg config.LogConfig) (*slog.Logger, error) {
	level, err := config.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	handlerOpts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, handlerOpts)), nil
	}
	return slog.New(slog.NewTextHandler(w, handlerOpts)), nil
}

// pipeline builds a pipeline over the named stages, or all stages when none
// are named.
func (a *App) pipeline(names ...string) *pipeline.Pipeline {
	stages := a.stages
	if len(names) > 0 {
		stages = nil
		for _, s := range a.stages {
			for _, name := range names {
				if s.Name() == name {
					stages = append(stages, s)
				}
			}
		}
	}
	return pipeline.New(a.logger, stages...).Observe(a.metrics)
}

// runOnce resolves paths and runs the named stages over them.
func (a *App) runOnce(ctx context.Context, paths []string, stages ...string) error {
	files, err := fileset.Resolve(paths, a.cfg.Watch.FileOptions())
	if err != nil {
		return err
	}
	if len(files) == 0 {
		a.logger.Warn("No RDF files found", "paths", paths)
		return nil
	}
	_, err = a.execute(ctx, a.pipeline(stages...), files)
	return err
}

// execute runs p, prints the summary and exports metrics. The summary is
// printed for partial runs too.
func (a *App) execute(ctx context.Context, p *pipeline.Pipeline, files []string) (*pipeline.Summary, error) {
	summary, runErr := p.Run(ctx, files)
	if summary != nil {
		if err := a.printSummary(summary); err != nil {
			runErr = errors.Join(runErr, fmt.Errorf("print summary: %w", err))
		}
	}
	if a.cfg.Metrics.Textfile != "" {
		if err := a.metrics.WriteTextfile(a.cfg.Metrics.Textfile); err != nil {
			runErr = errors.Join(runErr, err)
		}
	}
	return summary, runErr
}

func (a *App) printSummary(s *pipeline.Summary) error {
	if a.json {
		return s.WriteJSON(a.out)
	}
	return s.WriteText(a.out)
}

// watch runs every stage over dir, then re-runs them over each batch of
// changed files until ctx is done. Failed runs are logged and the watcher
// keeps going.
func (a *App) watch(ctx context.Context, dir string) error {
	w, err := watch.New(a.cfg.Watch, dir, a.logger)
	if err != nil {
		return err
	}
	defer w.Stop()

	if err := w.Start(ctx); err != nil {
		return err
	}

	files, err := fileset.Resolve([]string{dir}, a.cfg.Watch.FileOptions())
	if err != nil {
		return err
	}
	p := a.pipeline()
	if len(files) > 0 {
		if _, err := a.execute(ctx, p, files); err != nil {
			a.logger.Error("Initial run failed", "error", err)
		}
		w.Remember(files...)
	}

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("Watcher stopping")
			return nil
		case batch, ok := <-w.Batches():
			if !ok {
				return nil
			}
			batch = w.Changed(batch)
			if len(batch) == 0 {
				continue
			}
			if _, err := a.execute(ctx, p, batch); err != nil {
				a.logger.Error("Run failed", "files", len(batch), "error", err)
			}
			w.Remember(batch...)
		}
	}
}
