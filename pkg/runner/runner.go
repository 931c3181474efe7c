package runner

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/aretw0/aria/internal/logging"
	"github.com/aretw0/aria/pkg/domain"
	"github.com/aretw0/aria/pkg/history"
)

// DefaultGreeting is the system message printed when an interactive session starts.
const DefaultGreeting = "Type **exit** or **quit** to leave."

// Runner handles the interaction loop of a console using provided IO.
type Runner struct {
	// Handler is the strategy for IO. Defaults to a TextHandler on Stdin/Stdout.
	Handler IOHandler

	// Interceptor filters input before submission. Defaults to ExitInterceptor().
	Interceptor Interceptor

	// Logger is used for internal debug logging.
	// If nil, a no-op logger is used.
	Logger *slog.Logger

	Headless  bool
	EchoInput bool
	Greeting  string
}

// NewRunner creates a Runner with default Stdin/Stdout.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		Logger:   logging.NewNop(),
		Greeting: DefaultGreeting,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run streams the console until the input ends, an exit word is typed, the console is
// closed, or ctx is cancelled. When input ends mid-pipeline the run lasts until the
// pipeline drains, so piped scripts see their full output.
func (r *Runner) Run(ctx context.Context, console Console) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if r.Logger == nil {
		r.Logger = logging.NewNop()
	}
	handler := r.resolveHandler()
	interceptor := r.resolveInterceptor()

	follower := history.NewFollower(console)
	defer follower.Close()

	state := console.CurrentState()
	if err := handler.Output(ctx, follower.Lines()); err != nil {
		return fmt.Errorf("output error: %w", err)
	}
	if !r.Headless && r.Greeting != "" {
		if err := handler.SystemOutput(ctx, r.Greeting); err != nil {
			return fmt.Errorf("output error: %w", err)
		}
	}

	var done <-chan struct{}
	if state.Busy {
		done = console.Done()
	} else if err := handler.Prompt(ctx, console.Prompt()); err != nil {
		return fmt.Errorf("output error: %w", err)
	}

	inputs := r.startInput(ctx, handler)
	inputClosed := false
	skipEcho := false

	prompt := func() error {
		if err := handler.Prompt(ctx, console.Prompt()); err != nil {
			return fmt.Errorf("output error: %w", err)
		}
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			r.Logger.Debug("runner interrupted", "err", ctx.Err())
			return nil

		case change, ok := <-follower.Changes():
			batch, alive := follower.Receive(change, ok)
			if !alive {
				r.Logger.Debug("console closed")
				return nil
			}
			if !ok {
				r.Logger.Debug("transcript resynced after falling behind", "missed", len(batch))
			}
			for _, c := range batch {
				if err := r.render(ctx, handler, c, &skipEcho); err != nil {
					return err
				}
			}
			if done == nil && len(follower.Changes()) == 0 && !inputClosed {
				if err := prompt(); err != nil {
					return err
				}
			}

		case <-done:
			done = nil
			if err := r.drain(ctx, handler, follower, &skipEcho); err != nil {
				return err
			}
			if inputClosed {
				return nil
			}
			if err := prompt(); err != nil {
				return err
			}

		case in, ok := <-inputs:
			if !ok || in.err == io.EOF {
				inputs = nil
				inputClosed = true
				if done == nil {
					return r.drain(ctx, handler, follower, &skipEcho)
				}
				continue
			}
			if in.err != nil {
				return fmt.Errorf("input error: %w", in.err)
			}
			if done != nil {
				r.Logger.Debug("input dropped while busy", "input", in.text)
				continue
			}

			handled, err := interceptor(ctx, in.text)
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return err
			}
			if handled || strings.TrimSpace(in.text) == "" {
				if err := prompt(); err != nil {
					return err
				}
				continue
			}

			skipEcho = !r.EchoInput
			console.SubmitCommand(in.text)
			d := console.Done()
			select {
			case <-d:
			default:
				done = d
			}
			// The echo and any immediate response are already queued.
			if err := r.drain(ctx, handler, follower, &skipEcho); err != nil {
				return err
			}
			if done == nil {
				if err := prompt(); err != nil {
					return err
				}
			}
		}
	}
}

func (r *Runner) render(ctx context.Context, h IOHandler, c history.Change, skipEcho *bool) error {
	if c.Kind == history.Cleared {
		*skipEcho = false
		return h.Clear(ctx)
	}
	lines := c.Lines
	if *skipEcho && len(lines) > 0 && lines[0].Tag == domain.TagPromptEcho {
		lines = lines[1:]
	}
	*skipEcho = false
	if err := h.Output(ctx, lines); err != nil {
		return fmt.Errorf("output error: %w", err)
	}
	return nil
}

// drain renders whatever changes are already queued, replaying missed ones when the
// subscription was dropped.
func (r *Runner) drain(ctx context.Context, h IOHandler, f *history.Follower, skipEcho *bool) error {
	for {
		select {
		case change, ok := <-f.Changes():
			batch, alive := f.Receive(change, ok)
			if !alive {
				return nil
			}
			for _, c := range batch {
				if err := r.render(ctx, h, c, skipEcho); err != nil {
					return err
				}
			}
		default:
			return nil
		}
	}
}

func (r *Runner) startInput(ctx context.Context, h IOHandler) <-chan inputResult {
	out := make(chan inputResult)
	go func() {
		defer close(out)
		for {
			text, err := h.Input(ctx)
			if err != nil && ctx.Err() != nil {
				return
			}
			select {
			case out <- inputResult{text: text, err: err}:
			case <-ctx.Done():
				return
			}
			if err != nil {
				return
			}
		}
	}()
	return out
}

// resolveHandler ensures a valid IOHandler is set.
func (r *Runner) resolveHandler() IOHandler {
	if r.Handler == nil {
		// Memoize to prevent creating new pumps on subsequent Run() calls
		r.Handler = NewTextHandler(os.Stdin, os.Stdout)
	}
	return r.Handler
}

func (r *Runner) resolveInterceptor() Interceptor {
	if r.Interceptor != nil {
		return r.Interceptor
	}
	return ExitInterceptor()
}
