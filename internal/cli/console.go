package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/aria"
	"github.com/aretw0/aria/internal/logging"
	"github.com/aretw0/aria/pkg/domain"
	"github.com/aretw0/aria/pkg/observability"
	"github.com/aretw0/aria/pkg/session"
)

// ConsoleOptions selects the script and instrumentation of a console.
type ConsoleOptions struct {
	Script string
	Pace   time.Duration
	Name   string
	Logger *slog.Logger
	// Metrics adds prometheus counters to the console hooks when set.
	Metrics *observability.Metrics
}

// NewConsole builds a console with logging hooks (and metrics hooks when configured).
func NewConsole(opts ConsoleOptions) (*aria.Console, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	hooks := []domain.LifecycleHooks{observability.LoggingHooks(logger)}
	if opts.Metrics != nil {
		hooks = append(hooks, opts.Metrics.Hooks())
	}

	consoleOpts := []aria.Option{
		aria.WithLogger(logger),
		aria.WithLifecycleHooks(domain.Merge(hooks...)),
	}
	if opts.Script != "" {
		consoleOpts = append(consoleOpts, aria.WithScript(opts.Script))
	}
	if opts.Name != "" {
		consoleOpts = append(consoleOpts, aria.WithName(opts.Name))
	}
	if opts.Pace > 0 {
		consoleOpts = append(consoleOpts, aria.WithPace(opts.Pace))
	}

	console, err := aria.New(consoleOpts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing console: %w", err)
	}
	return console, nil
}

// SessionFactory creates one console per session id.
func SessionFactory(opts ConsoleOptions) session.Factory {
	return func(ctx context.Context, sessionID string) (*aria.Console, error) {
		o := opts
		if o.Logger != nil {
			o.Logger = o.Logger.With("session_id", sessionID)
		}
		return NewConsole(o)
	}
}
