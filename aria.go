package aria

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/aria/internal/logging"
	"github.com/aretw0/aria/internal/runtime"
	"github.com/aretw0/aria/pkg/domain"
	"github.com/aretw0/aria/pkg/history"
	"github.com/aretw0/aria/pkg/registry"
	"github.com/aretw0/aria/pkg/script"
	"github.com/aretw0/aria/pkg/sequencer"
)

// Console is the high-level entry point for the Aria library.
// It wraps the internal runtime and provides a simplified API for hosts.
type Console struct {
	engine *runtime.Engine
	script *script.Script
}

type config struct {
	scriptName   string
	script       *script.Script
	registry     *registry.Registry
	name         string
	prompt       *string
	banner       []domain.Line
	bannerSet    bool
	unrecognized func(token string) string
	hooks        []domain.LifecycleHooks
	logger       *slog.Logger
	clock        sequencer.Clock
	pace         time.Duration
	historyOpts  []history.Option
}

// Option defines a functional option for configuring the Console.
type Option func(*config)

// WithScript selects a builtin script by name, or a script file by path.
func WithScript(nameOrPath string) Option {
	return func(c *config) {
		c.scriptName = nameOrPath
	}
}

// WithScriptDefinition uses an already loaded script.
func WithScriptDefinition(s *script.Script) Option {
	return func(c *config) {
		c.script = s
	}
}

// WithRegistry bypasses scripts entirely and serves the given command table.
// Prompt and banner then come from WithPrompt and WithBanner only.
func WithRegistry(reg *registry.Registry) Option {
	return func(c *config) {
		c.registry = reg
	}
}

// WithName labels the console in logs and lifecycle events.
func WithName(name string) Option {
	return func(c *config) {
		c.name = name
	}
}

// WithPrompt overrides the echo prefix.
func WithPrompt(prompt string) Option {
	return func(c *config) {
		c.prompt = &prompt
	}
}

// WithBanner overrides the lines seeded into a fresh transcript.
func WithBanner(lines ...domain.Line) Option {
	return func(c *config) {
		c.banner = lines
		c.bannerSet = true
	}
}

// WithUnrecognized overrides the response for unknown tokens.
func WithUnrecognized(fn func(token string) string) Option {
	return func(c *config) {
		c.unrecognized = fn
	}
}

// WithLifecycleHooks registers observability hooks. It can be given several times.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *config) {
		c.hooks = append(c.hooks, hooks)
	}
}

// WithLogger sets a custom structured logger for the console.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithClock replaces the real clock the pipelines wait on.
func WithClock(clock sequencer.Clock) Option {
	return func(c *config) {
		c.clock = clock
	}
}

// WithPace forces every pipeline step to wait exactly d.
func WithPace(d time.Duration) Option {
	return func(c *config) {
		c.pace = d
	}
}

// WithHistoryOptions forwards options to the transcript log.
func WithHistoryOptions(opts ...history.Option) Option {
	return func(c *config) {
		c.historyOpts = append(c.historyOpts, opts...)
	}
}

// New builds a console. Without WithScript, WithScriptDefinition or WithRegistry the
// default builtin script is used.
func New(opts ...Option) (*Console, error) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.logger == nil {
		cfg.logger = logging.NewNop()
	}

	s := cfg.script
	if s == nil && cfg.registry == nil {
		var err error
		if cfg.scriptName != "" {
			s, err = script.Resolve(cfg.scriptName)
		} else {
			s, err = script.Builtin(script.DefaultBuiltin)
		}
		if err != nil {
			return nil, err
		}
	}

	reg := cfg.registry
	var runtimeOpts []runtime.EngineOption
	if s != nil {
		if reg == nil {
			reg = s.Registry
		}
		if s.Prompt != "" {
			runtimeOpts = append(runtimeOpts, runtime.WithPrompt(s.Prompt))
		}
		runtimeOpts = append(runtimeOpts, runtime.WithBanner(s.Banner...))
		if s.Unrecognized != "" {
			runtimeOpts = append(runtimeOpts, runtime.WithUnrecognized(s.UnrecognizedText))
		}
		if cfg.pace == 0 {
			cfg.pace = s.Pace
		}
		if cfg.name == "" {
			cfg.name = s.Name
		}
	}

	if cfg.name != "" {
		runtimeOpts = append(runtimeOpts, runtime.WithName(cfg.name))
	}
	if cfg.prompt != nil {
		runtimeOpts = append(runtimeOpts, runtime.WithPrompt(*cfg.prompt))
	}
	if cfg.bannerSet {
		runtimeOpts = append(runtimeOpts, runtime.WithBanner(cfg.banner...))
	}
	if cfg.unrecognized != nil {
		runtimeOpts = append(runtimeOpts, runtime.WithUnrecognized(cfg.unrecognized))
	}

	seqOpts := []sequencer.Option{sequencer.WithLogger(cfg.logger)}
	if cfg.clock != nil {
		seqOpts = append(seqOpts, sequencer.WithClock(cfg.clock))
	}
	if cfg.pace > 0 {
		seqOpts = append(seqOpts, sequencer.WithPace(cfg.pace))
	}

	runtimeOpts = append(runtimeOpts,
		runtime.WithLogger(cfg.logger),
		runtime.WithSequencer(sequencer.New(seqOpts...)),
		runtime.WithLifecycleHooks(domain.Merge(cfg.hooks...)),
		runtime.WithHistoryOptions(cfg.historyOpts...),
	)

	return &Console{
		engine: runtime.NewEngine(reg, runtimeOpts...),
		script: s,
	}, nil
}

// SubmitCommand hands one line of user input to the console. It never blocks on a
// pipeline and never fails: the outcome is visible in the transcript.
func (c *Console) SubmitCommand(input string) {
	c.engine.SubmitCommand(input)
}

// CurrentState returns the busy flag and a copy of the transcript.
func (c *Console) CurrentState() domain.State {
	return c.engine.CurrentState()
}

// Busy reports whether a pipeline is running.
func (c *Console) Busy() bool {
	return c.engine.Busy()
}

// Done returns a channel closed when the running pipeline completes.
// It is already closed when the console is idle.
func (c *Console) Done() <-chan struct{} {
	return c.engine.Done()
}

// Wait blocks until the console is idle or ctx is done.
func (c *Console) Wait(ctx context.Context) error {
	return c.engine.Wait(ctx)
}

// Submit is SubmitCommand for hosts that report results: it returns exactly what
// this submission appended, nothing from a pipeline that was already running.
func (c *Console) Submit(input string) domain.Outcome {
	return c.engine.Submit(input)
}

// Follow copies the transcript and subscribes in one step. Use history.NewFollower
// to keep reading across slow-consumer drops.
func (c *Console) Follow() history.Subscription {
	return c.engine.Follow()
}

// Closed reports whether Close was called and the transcript stream has ended.
func (c *Console) Closed() bool {
	return c.engine.Closed()
}

// Subscribe streams transcript changes until the returned cancel func is called or
// the console is closed.
func (c *Console) Subscribe() (<-chan history.Change, func()) {
	return c.engine.Subscribe()
}

// Commands lists the registered commands in declaration order.
func (c *Console) Commands() []domain.CommandEntry {
	return c.engine.Registry().Entries()
}

// Aliases maps alternate tokens to the command they run.
func (c *Console) Aliases() map[string]string {
	return c.engine.Registry().Aliases()
}

// Name is the console label (the script name unless WithName was given).
func (c *Console) Name() string {
	return c.engine.Name()
}

// Prompt is the echo prefix.
func (c *Console) Prompt() string {
	return c.engine.Prompt()
}

// Script returns the script the console was built from, or nil for WithRegistry consoles.
func (c *Console) Script() *script.Script {
	return c.script
}

// Close discards the console, stopping any running pipeline.
func (c *Console) Close() {
	c.engine.Close()
}
