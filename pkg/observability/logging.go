package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/aria/pkg/domain"
)

// LoggingHooks logs every lifecycle event on logger. Steps are logged at debug level.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnCommand: func(ctx context.Context, e *domain.CommandEvent) {
			logger.InfoContext(ctx, "command",
				"console", e.Console,
				"token", e.Token,
				"kind", e.Kind,
				"found", e.Found,
			)
		},
		OnReject: func(ctx context.Context, e *domain.CommandEvent) {
			logger.InfoContext(ctx, "command_rejected", "console", e.Console, "input", e.Input)
		},
		OnClear: func(ctx context.Context, e *domain.CommandEvent) {
			logger.InfoContext(ctx, "history_cleared", "console", e.Console)
		},
		OnPipelineStart: func(ctx context.Context, e *domain.PipelineEvent) {
			logger.InfoContext(ctx, "pipeline_start", "console", e.Console, "pipeline", e.Pipeline)
		},
		OnStep: func(ctx context.Context, e *domain.PipelineEvent) {
			logger.DebugContext(ctx, "pipeline_step",
				"console", e.Console,
				"pipeline", e.Pipeline,
				"index", e.Index,
				"emitted", e.Emitted,
			)
		},
		OnPipelineDone: func(ctx context.Context, e *domain.PipelineEvent) {
			if e.Err != nil {
				logger.WarnContext(ctx, "pipeline_discarded",
					"console", e.Console,
					"pipeline", e.Pipeline,
					"emitted", e.Emitted,
					"error", e.Err,
				)
				return
			}
			logger.InfoContext(ctx, "pipeline_done",
				"console", e.Console,
				"pipeline", e.Pipeline,
				"emitted", e.Emitted,
				"elapsed", e.Elapsed,
			)
		},
	}
}
