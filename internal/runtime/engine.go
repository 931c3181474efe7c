package runtime

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/aretw0/aria/internal/logging"
	"github.com/aretw0/aria/pkg/domain"
	"github.com/aretw0/aria/pkg/history"
	"github.com/aretw0/aria/pkg/registry"
	"github.com/aretw0/aria/pkg/sequencer"
)

// DefaultPrompt prefixes every echoed command.
const DefaultPrompt = "aria@prompt:"

// DefaultUnrecognized is the fallback response for tokens missing from the registry.
const DefaultUnrecognized = "unrecognized command"

// Engine is the console state machine (Idle <-> Running).
//
// A single mutex guards the busy flag; the flag itself is what keeps commands from
// overlapping a running pipeline. Submissions while busy are dropped, never queued.
type Engine struct {
	name         string
	prompt       string
	registry     *registry.Registry
	history      *history.Log
	seq          *sequencer.Sequencer
	hooks        domain.LifecycleHooks
	logger       *slog.Logger
	unrecognized func(token string) []domain.Line
	banner       []domain.Line
	historyOpts  []history.Option

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	busy    bool
	running string
	done    chan struct{}
	closed  bool
}

// NewEngine creates an idle engine with its banner already in the transcript.
// A nil registry yields a console that only knows "clear".
func NewEngine(reg *registry.Registry, opts ...EngineOption) *Engine {
	if reg == nil {
		reg = registry.New()
	}
	e := &Engine{
		prompt:   DefaultPrompt,
		registry: reg,
		logger:   logging.NewNop(),
		unrecognized: func(string) []domain.Line {
			return []domain.Line{domain.Tagged(DefaultUnrecognized, domain.TagError)}
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.seq == nil {
		e.seq = sequencer.New(sequencer.WithLogger(e.logger))
	}
	if e.name != "" {
		e.logger = e.logger.With("console", e.name)
	}
	e.history = history.New(e.banner, e.historyOpts...)
	e.ctx, e.cancel = context.WithCancel(context.Background())

	e.done = make(chan struct{})
	close(e.done)
	return e
}

// SubmitCommand is the single input boundary. It never returns an error: every
// outcome lands in the transcript, or nowhere at all for rejected and empty input.
func (e *Engine) SubmitCommand(raw string) {
	e.Submit(raw)
}

// Submit is SubmitCommand that also reports what this submission appended, so
// callers never have to diff the transcript against lines from a running pipeline.
func (e *Engine) Submit(raw string) domain.Outcome {
	out := domain.Outcome{Lines: []domain.Line{}}
	var after []func()
	defer func() {
		for _, fn := range after {
			fn()
		}
	}()

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return out
	}

	input := strings.TrimSpace(raw)
	if input == "" {
		return out
	}

	event := &domain.CommandEvent{
		EventBase: e.base(domain.EventCommand),
		Input:     input,
		Token:     registry.Normalize(input),
	}

	if e.busy {
		event.Type = domain.EventReject
		e.logger.Debug("command rejected while busy", "input", input, "running", e.running)
		if e.hooks.OnReject != nil {
			after = append(after, func() { e.hooks.OnReject(e.ctx, event) })
		}
		return out
	}

	entry, res := e.registry.Resolve(input)
	event.Found = res == registry.Found
	event.Kind = entry.Kind
	if e.hooks.OnCommand != nil {
		after = append(after, func() { e.hooks.OnCommand(e.ctx, event) })
	}

	echo := domain.Echo(e.prompt, input)
	out.Accepted = true

	if res == registry.NotFound {
		e.logger.Debug("unrecognized command", "token", event.Token)
		out.Lines = append([]domain.Line{echo}, e.unrecognized(event.Token)...)
		e.history.Append(out.Lines...)
		return out
	}

	switch entry.Kind {
	case domain.KindClear:
		out.Cleared = true
		e.history.Clear()
		if e.hooks.OnClear != nil {
			clearEvent := *event
			clearEvent.Type = domain.EventClear
			after = append(after, func() { e.hooks.OnClear(e.ctx, &clearEvent) })
		}
	case domain.KindPipeline:
		p := *entry.Pipeline
		out.Lines = append([]domain.Line{echo}, p.Preamble...)
		e.history.Append(out.Lines...)
		after = append(after, e.startPipeline(p))
	default:
		out.Lines = append([]domain.Line{echo}, entry.Lines...)
		e.history.Append(out.Lines...)
	}
	return out
}

// startPipeline flips the engine to Running and returns a func that launches the
// sequencer once the caller has released e.mu. The preamble has already been
// appended together with the echo, so only the timed lines are left to the sequencer.
func (e *Engine) startPipeline(p domain.Pipeline) func() {
	preamble := len(p.Preamble)
	timed := p
	timed.Preamble = nil

	e.busy = true
	e.running = p.Name
	done := make(chan struct{})
	e.done = done

	e.logger.Debug("pipeline started", "pipeline", p.Name, "lines", p.Len())

	return func() {
		if e.hooks.OnPipelineStart != nil {
			e.hooks.OnPipelineStart(e.ctx, &domain.PipelineEvent{
				EventBase: e.base(domain.EventPipelineStart),
				Pipeline:  p.Name,
			})
		}

		calls := 0
		emitted := 0
		emit := func(lines ...domain.Line) {
			e.history.Append(lines...)
			calls++
			emitted += len(lines)
			if e.hooks.OnStep != nil {
				e.hooks.OnStep(e.ctx, &domain.PipelineEvent{
					EventBase: e.base(domain.EventStep),
					Pipeline:  p.Name,
					Index:     calls,
					Emitted:   emitted,
				})
			}
		}

		go func() {
			c := e.seq.Run(e.ctx, timed, emit)
			c.Emitted += preamble
			e.finish(c, done)
		}()
	}
}

// finish reports the completion and only then returns the engine to Idle, so a
// Wait that returns has already seen OnPipelineDone.
func (e *Engine) finish(c sequencer.Completion, done chan struct{}) {
	if c.Err != nil {
		e.logger.Debug("pipeline interrupted", "pipeline", c.Pipeline, "err", c.Err)
	} else {
		e.logger.Debug("pipeline completed", "pipeline", c.Pipeline, "lines", c.Emitted, "elapsed", c.Elapsed)
	}

	if e.hooks.OnPipelineDone != nil {
		e.hooks.OnPipelineDone(context.WithoutCancel(e.ctx), &domain.PipelineEvent{
			EventBase: e.base(domain.EventPipelineDone),
			Pipeline:  c.Pipeline,
			Emitted:   c.Emitted,
			Elapsed:   c.Elapsed,
			Err:       c.Err,
		})
	}

	e.mu.Lock()
	e.busy = false
	e.running = ""
	close(done)
	e.mu.Unlock()
}

// CurrentState returns the busy flag and a copy of the transcript.
func (e *Engine) CurrentState() domain.State {
	e.mu.Lock()
	busy, running := e.busy, e.running
	e.mu.Unlock()

	return domain.State{
		Busy:    busy,
		Running: running,
		Lines:   e.history.Snapshot(),
	}
}

// Busy reports whether a pipeline is running.
func (e *Engine) Busy() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.busy
}

// Done returns a channel closed when the current pipeline completes.
// When idle, the returned channel is already closed.
func (e *Engine) Done() <-chan struct{} {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.done
}

// Wait blocks until the engine is idle or ctx is done.
func (e *Engine) Wait(ctx context.Context) error {
	select {
	case <-e.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Subscribe streams transcript changes. See history.Log.Subscribe.
func (e *Engine) Subscribe() (<-chan history.Change, func()) {
	return e.history.Subscribe()
}

// Follow copies the transcript and subscribes atomically. See history.Log.Follow.
func (e *Engine) Follow() history.Subscription {
	return e.history.Follow()
}

// Closed reports whether the transcript stream has shut down for good.
func (e *Engine) Closed() bool {
	return e.history.Closed()
}

// Registry exposes the command table (read-only use).
func (e *Engine) Registry() *registry.Registry {
	return e.registry
}

// Name returns the console name given with WithName.
func (e *Engine) Name() string {
	return e.name
}

// Prompt returns the echo prefix.
func (e *Engine) Prompt() string {
	return e.prompt
}

// Close discards the engine. An in-flight pipeline is stopped (the only way to stop
// one), subscribers are disconnected, and later submissions are ignored.
func (e *Engine) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	done := e.done
	e.mu.Unlock()

	e.cancel()
	<-done
	e.history.Close()
}

func (e *Engine) base(t domain.EventType) domain.EventBase {
	return domain.EventBase{
		Timestamp: e.seq.Clock().Now(),
		Type:      t,
		Console:   e.name,
	}
}
