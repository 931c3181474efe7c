package runtime

import (
	"log/slog"

	"github.com/aretw0/aria/pkg/domain"
	"github.com/aretw0/aria/pkg/history"
	"github.com/aretw0/aria/pkg/sequencer"
)

// EngineOption defines a functional option for configuring the Engine.
type EngineOption func(*Engine)

// WithName labels the console in logs and events.
func WithName(name string) EngineOption {
	return func(e *Engine) {
		e.name = name
	}
}

// WithPrompt sets the prefix used when echoing commands.
func WithPrompt(prompt string) EngineOption {
	return func(e *Engine) {
		e.prompt = prompt
	}
}

// WithBanner seeds the transcript at creation.
func WithBanner(lines ...domain.Line) EngineOption {
	return func(e *Engine) {
		e.banner = append([]domain.Line(nil), lines...)
	}
}

// WithSequencer replaces the default real-clock sequencer.
func WithSequencer(seq *sequencer.Sequencer) EngineOption {
	return func(e *Engine) {
		e.seq = seq
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithUnrecognized customizes the response for unknown tokens.
func WithUnrecognized(fn func(token string) string) EngineOption {
	return func(e *Engine) {
		if fn == nil {
			return
		}
		e.unrecognized = func(token string) []domain.Line {
			return []domain.Line{domain.Tagged(fn(token), domain.TagError)}
		}
	}
}

// WithHistoryOptions forwards options to the transcript log.
func WithHistoryOptions(opts ...history.Option) EngineOption {
	return func(e *Engine) {
		e.historyOpts = append(e.historyOpts, opts...)
	}
}
