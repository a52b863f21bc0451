// Package pipeline runs the cleanup stages over a batch of files.
//
// Stages run in a fixed order and each one finishes every file before the
// next stage starts, so the classifier's tags are on disk before the smusher
// reads them. The first error stops the batch.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/c360studio/groupsheets/processor"
	"github.com/c360studio/groupsheets/processor/classifier"
	"github.com/c360studio/groupsheets/processor/inferrer"
	"github.com/c360studio/groupsheets/processor/smusher"
	"github.com/c360studio/groupsheets/vocabulary/belfast"
)

// Stage processes one file at a time.
type Stage interface {
	Name() string
	ProcessFile(path string) (processor.Result, error)
}

// Observer receives every stage result and failure. metrics.Metrics
// implements it.
type Observer interface {
	Observe(res processor.Result)
	Failed(stage string)
}

// Default returns the classifier, smusher and inferrer, in that order.
func Default(store processor.GraphStore, v belfast.Vocabulary, logger *slog.Logger) []Stage {
	return []Stage{
		classifier.New(store, v, logger),
		smusher.New(store, v, logger),
		inferrer.New(store, v, logger),
	}
}

// Pipeline runs stages over files.
type Pipeline struct {
	stages    []Stage
	observers []Observer
	logger    *slog.Logger
}

// New creates a pipeline over the given stages.
func New(logger *slog.Logger, stages ...Stage) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{stages: stages, logger: logger}
}

// Observe registers an observer for stage results.
func (p *Pipeline) Observe(o Observer) *Pipeline {
	p.observers = append(p.observers, o)
	return p
}

// Stages returns the stage names in run order.
func (p *Pipeline) Stages() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name()
	}
	return names
}

// Run passes every file through the first stage, then every file through the
// second, and so on. Cancellation is checked between files. The summary
// covers the work done before any error.
func (p *Pipeline) Run(ctx context.Context, files []string) (*Summary, error) {
	summary := newSummary(uuid.NewString(), p.Stages())
	logger := p.logger.With("run_id", summary.RunID)
	start := time.Now()
	defer func() { summary.Duration = time.Since(start) }()

	logger.Info("Starting run", "files", len(files), "stages", len(p.stages))

	for _, stage := range p.stages {
		for _, path := range files {
			if err := ctx.Err(); err != nil {
				logger.Warn("Run cancelled", "stage", stage.Name(), "error", err)
				return summary, fmt.Errorf("run cancelled: %w", err)
			}

			res, err := stage.ProcessFile(path)
			if err != nil {
				for _, o := range p.observers {
					o.Failed(stage.Name())
				}
				logger.Error("Stage failed", "stage", stage.Name(), "path", path, "error", err)
				return summary, fmt.Errorf("%s %s: %w", stage.Name(), path, err)
			}

			summary.add(res)
			for _, o := range p.observers {
				o.Observe(res)
			}
			logger.Debug("Processed file", "stage", stage.Name(), "path", path,
				"matched", res.Matched, "written", res.Written)
		}
	}

	logger.Info("Run complete", "files", len(files), "duration", time.Since(start))
	return summary, nil
}
