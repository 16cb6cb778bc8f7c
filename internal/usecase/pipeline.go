package usecase

import (
	"context"
	"log/slog"

	"github.com/twokey/keybuilder/internal/domain"
)

// StageFunc is one pipeline step. It returns the updated context and never
// mutates the one it was given.
type StageFunc func(ctx context.Context, pc domain.PipelineContext) (domain.PipelineContext, error)

// Stage is a named pipeline step
type Stage struct {
	Name string
	Run  StageFunc
}

// RunStages executes stages in order and stops at the first error, which is
// returned wrapped in a StageError. The context returned on failure is the
// one produced by the last successful stage.
func RunStages(ctx context.Context, pc domain.PipelineContext, stages []Stage, progress ProgressSink, log *slog.Logger) (domain.PipelineContext, error) {
	if progress == nil {
		progress = NopProgress{}
	}
	for i, stage := range stages {
		progress.OnProgress(ctx, ProgressEvent{
			Stage:   stage.Name,
			Current: i + 1,
			Total:   len(stages),
			Message: stage.Name,
		})
		log.Debug("running stage", "stage", stage.Name)

		next, err := stage.Run(ctx, pc)
		if err != nil {
			progress.Error(stage.Name + " failed")
			return pc, &domain.StageError{Stage: stage.Name, Err: err}
		}
		pc = next.WithCompleted(stage.Name)
	}
	return pc, nil
}
