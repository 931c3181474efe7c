package runner_test

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/aria"
	"github.com/aretw0/aria/pkg/domain"
	"github.com/aretw0/aria/pkg/history"
	"github.com/aretw0/aria/pkg/registry"
	"github.com/aretw0/aria/pkg/runner"
	"github.com/aretw0/aria/pkg/sequencer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConsole(t *testing.T, opts ...aria.Option) *aria.Console {
	t.Helper()
	reg, err := registry.NewBuilder().
		Immediate("help", "", domain.PlainLines("cmd1 - desc1")...).
		Pipeline(domain.Pipeline{
			Name:     "deploy",
			Preamble: domain.PlainLines("> deploying"),
			Steps: []domain.Step{
				{Line: domain.Plain("step1"), Delay: time.Millisecond},
				{Line: domain.Plain("step2"), Delay: time.Millisecond},
			},
		}, "").
		Build()
	require.NoError(t, err)

	base := []aria.Option{aria.WithRegistry(reg), aria.WithPrompt("$"), aria.WithBanner(domain.Plain("hi"))}
	console, err := aria.New(append(base, opts...)...)
	require.NoError(t, err)
	t.Cleanup(console.Close)
	return console
}

func TestRunner_ImmediateAndExit(t *testing.T) {
	tests := []struct {
		name string
		echo bool
		want string
	}{
		{"typed input is not echoed twice", false, "hi\n$ cmd1 - desc1\n$ "},
		{"piped input keeps the echo", true, "hi\n$ $ help\ncmd1 - desc1\n$ "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			console := testConsole(t)
			out := &bytes.Buffer{}
			handler := runner.NewTextHandler(strings.NewReader("help\nexit\nnever\n"), out)
			defer handler.Close()

			r := runner.NewRunner(
				runner.WithInputHandler(handler),
				runner.WithHeadless(true),
				runner.WithEchoInput(tt.echo),
			)
			require.NoError(t, r.Run(context.Background(), console))
			assert.Equal(t, tt.want, out.String())
		})
	}
}

func TestRunner_DrainsPipelineAfterInputEnds(t *testing.T) {
	console := testConsole(t)
	out := &bytes.Buffer{}
	r := runner.NewRunner(
		runner.WithInputHandler(runner.NewTextHandler(strings.NewReader("deploy\n"), out)),
		runner.WithHeadless(true),
		runner.WithEchoInput(true),
	)

	require.NoError(t, r.Run(context.Background(), console))
	assert.Equal(t, "hi\n$ $ deploy\n> deploying\nstep1\nstep2\n", out.String())
	assert.False(t, console.Busy())
}

func TestRunner_ClearAndEmptyInput(t *testing.T) {
	console := testConsole(t)
	out := &bytes.Buffer{}
	cleared := 0
	handler := runner.NewTextHandler(strings.NewReader("\nclear\nquit\n"), out,
		runner.WithClearScreen(func() { cleared++ }),
	)

	r := runner.NewRunner(runner.WithInputHandler(handler), runner.WithHeadless(true))
	require.NoError(t, r.Run(context.Background(), console))

	assert.Equal(t, 1, cleared)
	assert.Equal(t, "hi\n$ $ $ ", out.String())
	assert.Empty(t, console.CurrentState().Lines)
}

func TestRunner_Greeting(t *testing.T) {
	console := testConsole(t)
	out := &bytes.Buffer{}
	r := runner.NewRunner(
		runner.WithInputHandler(runner.NewTextHandler(strings.NewReader(""), out)),
		runner.WithGreeting("welcome"),
	)
	require.NoError(t, r.Run(context.Background(), console))
	assert.Equal(t, "hi\n[System] welcome\n$ ", out.String())
}

func TestRunner_StopsWhenContextIsCancelled(t *testing.T) {
	console := testConsole(t)
	h := newScriptedHandler()
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() { errCh <- runner.NewRunner(runner.WithInputHandler(h), runner.WithHeadless(true)).Run(ctx, console) }()

	<-h.prompts
	cancel()
	assert.NoError(t, <-errCh)
}

func TestRunner_StopsWhenConsoleCloses(t *testing.T) {
	console := testConsole(t)
	h := newScriptedHandler()

	errCh := make(chan error, 1)
	go func() { errCh <- runner.NewRunner(runner.WithInputHandler(h), runner.WithHeadless(true)).Run(context.Background(), console) }()

	<-h.prompts
	console.Close()
	assert.NoError(t, <-errCh)
}

func TestRunner_DropsInputWhileBusy(t *testing.T) {
	clock := sequencer.NewManualClock(time.Unix(0, 0))
	console := testConsole(t, aria.WithClock(clock))
	h := newScriptedHandler()

	errCh := make(chan error, 1)
	go func() {
		errCh <- runner.NewRunner(runner.WithInputHandler(h), runner.WithHeadless(true)).Run(context.Background(), console)
	}()

	<-h.prompts
	h.in <- "deploy"
	h.in <- "help"
	// The third hand-off completes only once "help" has reached the loop.
	h.in <- " "

	for console.Busy() {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		if clock.BlockUntil(ctx, 1) == nil {
			clock.Advance(time.Millisecond)
		}
		cancel()
	}
	<-h.prompts
	h.in <- "exit"
	require.NoError(t, <-errCh)

	texts := h.texts()
	assert.Contains(t, texts, "step2")
	assert.NotContains(t, texts, "cmd1")
}

func TestExitInterceptor(t *testing.T) {
	ic := runner.ExitInterceptor("bye")
	handled, err := ic(context.Background(), " BYE ")
	assert.True(t, handled)
	assert.Error(t, err)

	handled, err = ic(context.Background(), "exit")
	assert.False(t, handled)
	assert.NoError(t, err)
}

func TestPrefixInterceptor(t *testing.T) {
	var got []string
	ic := runner.MultiInterceptor(
		runner.ExitInterceptor(),
		runner.PrefixInterceptor("chat", func(_ context.Context, rest string) error {
			got = append(got, rest)
			return nil
		}),
	)

	for _, input := range []string{"chat hola aria", "CHAT", "chatter", "help"} {
		_, err := ic(context.Background(), input)
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"hola aria", ""}, got)
}

// scriptedHandler is an IOHandler fed from a channel, for tests that need to pace input.
type scriptedHandler struct {
	in      chan string
	prompts chan struct{}

	mu    sync.Mutex
	lines []domain.Line
}

func newScriptedHandler() *scriptedHandler {
	return &scriptedHandler{in: make(chan string), prompts: make(chan struct{}, 16)}
}

func (h *scriptedHandler) Output(_ context.Context, lines []domain.Line) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lines = append(h.lines, lines...)
	return nil
}

func (h *scriptedHandler) Clear(context.Context) error { return nil }

func (h *scriptedHandler) Prompt(context.Context, string) error {
	h.prompts <- struct{}{}
	return nil
}

func (h *scriptedHandler) Input(ctx context.Context) (string, error) {
	select {
	case s := <-h.in:
		return s, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (h *scriptedHandler) SystemOutput(context.Context, string) error { return nil }

func (h *scriptedHandler) texts() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return domain.Texts(h.lines)
}

// slowWriter makes the runner fall behind a pipeline with no delays.
type slowWriter struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (w *slowWriter) Write(p []byte) (int, error) {
	time.Sleep(100 * time.Microsecond)
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Write(p)
}

func (w *slowWriter) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.String()
}

func TestRunner_SlowOutputKeepsEveryLine(t *testing.T) {
	const n = 500
	steps := make([]domain.Step, n)
	for i := range steps {
		steps[i] = domain.Step{Line: domain.Plain(fmt.Sprintf("step-%d", i+1))}
	}
	reg, err := registry.NewBuilder().
		Pipeline(domain.Pipeline{Name: "flood", Steps: steps}, "").
		Build()
	require.NoError(t, err)

	console, err := aria.New(
		aria.WithRegistry(reg),
		aria.WithPrompt("$"),
		aria.WithHistoryOptions(history.WithSubscriberBuffer(4)),
	)
	require.NoError(t, err)
	defer console.Close()

	out := &slowWriter{}
	r := runner.NewRunner(
		runner.WithInputHandler(runner.NewTextHandler(strings.NewReader("flood\n"), out)),
		runner.WithHeadless(true),
		runner.WithEchoInput(true),
	)
	require.NoError(t, r.Run(context.Background(), console))

	text := out.String()
	assert.Equal(t, n, strings.Count(text, "step-"))
	assert.True(t, strings.HasSuffix(text, fmt.Sprintf("step-%d\n", n)), "output was cut short")
	assert.Len(t, console.CurrentState().Lines, n+1)
}
