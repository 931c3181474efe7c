// Package sequencer drives a Pipeline to completion, emitting one line per elapsed delay.
//
// The sequencer knows nothing about busy flags or transcripts: it receives an emit
// callback and a Clock. Mutual exclusion between runs is the console engine's job.
package sequencer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/aria/internal/logging"
	"github.com/aretw0/aria/pkg/domain"
)

// EmitFunc receives lines as the pipeline produces them.
type EmitFunc func(lines ...domain.Line)

// Completion reports how a run ended.
type Completion struct {
	Pipeline string
	Emitted  int
	Elapsed  time.Duration
	// Err is nil unless the run was cut short by context cancellation (engine teardown).
	Err error
}

// Sequencer emits pipeline lines in declaration order.
type Sequencer struct {
	clock  Clock
	pace   time.Duration
	logger *slog.Logger
	onStep func(index int, line domain.Line)
}

// Option configures a Sequencer.
type Option func(*Sequencer)

// WithClock replaces the real clock (tests pass a ManualClock).
func WithClock(c Clock) Option {
	return func(s *Sequencer) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithPace forces every timed line to wait exactly d, ignoring per-step delays.
func WithPace(d time.Duration) Option {
	return func(s *Sequencer) {
		s.pace = d
	}
}

// WithLogger sets the debug logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Sequencer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithStepHook is called after each timed line is emitted (1-based index).
func WithStepHook(fn func(index int, line domain.Line)) Option {
	return func(s *Sequencer) {
		s.onStep = fn
	}
}

// New creates a sequencer on the real clock.
func New(opts ...Option) *Sequencer {
	s := &Sequencer{
		clock:  RealClock{},
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Clock returns the clock in use.
func (s *Sequencer) Clock() Clock {
	return s.clock
}

// Run emits the preamble synchronously, then suspends before each timed line for its delay.
// It blocks until the last line is emitted or ctx is cancelled.
func (s *Sequencer) Run(ctx context.Context, p domain.Pipeline, emit EmitFunc) Completion {
	if s.pace > 0 {
		p = p.WithPace(s.pace)
	}
	start := s.clock.Now()
	done := Completion{Pipeline: p.Name}

	if len(p.Preamble) > 0 {
		emit(p.Preamble...)
		done.Emitted += len(p.Preamble)
	}

	for i, step := range p.Timed() {
		if step.Delay > 0 {
			select {
			case <-ctx.Done():
				done.Err = fmt.Errorf("%w: pipeline %q stopped after %d lines", domain.ErrDiscarded, p.Name, done.Emitted)
				done.Elapsed = s.clock.Now().Sub(start)
				return done
			case <-s.clock.After(step.Delay):
			}
		} else if ctx.Err() != nil {
			done.Err = fmt.Errorf("%w: pipeline %q stopped after %d lines", domain.ErrDiscarded, p.Name, done.Emitted)
			done.Elapsed = s.clock.Now().Sub(start)
			return done
		}

		emit(step.Line)
		done.Emitted++
		s.logger.Debug("pipeline step", "pipeline", p.Name, "index", i+1, "delay", step.Delay)
		if s.onStep != nil {
			s.onStep(i+1, step.Line)
		}
	}

	done.Elapsed = s.clock.Now().Sub(start)
	return done
}

// Start runs p in its own goroutine. The returned channel yields exactly one Completion.
func (s *Sequencer) Start(ctx context.Context, p domain.Pipeline, emit EmitFunc) <-chan Completion {
	out := make(chan Completion, 1)
	go func() {
		out <- s.Run(ctx, p, emit)
	}()
	return out
}
