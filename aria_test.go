package aria_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/aria"
	"github.com/aretw0/aria/pkg/domain"
	"github.com/aretw0/aria/pkg/history"
	"github.com/aretw0/aria/pkg/sequencer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConsole(t *testing.T, opts ...aria.Option) (*aria.Console, *sequencer.ManualClock) {
	t.Helper()
	clock := sequencer.NewManualClock(time.Unix(0, 0))
	console, err := aria.New(append([]aria.Option{aria.WithClock(clock)}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(console.Close)
	return console, clock
}

func runToIdle(t *testing.T, console *aria.Console, clock *sequencer.ManualClock, step time.Duration) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for console.Busy() {
		select {
		case <-deadline:
			t.Fatal("pipeline did not finish")
		default:
		}
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		if clock.BlockUntil(ctx, 1) == nil {
			clock.Advance(step)
		}
		cancel()
	}
}

func TestNew_DefaultScriptIsPrime(t *testing.T) {
	console, _ := newConsole(t)

	assert.Equal(t, "prime", console.Name())
	assert.Equal(t, "aria@prime:~$", console.Prompt())
	require.NotNil(t, console.Script())

	state := console.CurrentState()
	assert.False(t, state.Busy)
	require.NotEmpty(t, state.Lines)
	assert.Equal(t, "Aria Nexus Sovereign Remote Console [v6.0.0-FINAL]", state.Lines[0].Text)
	assert.Equal(t, domain.TagBanner, state.Lines[0].Tag)
}

func TestNew_UnknownScript(t *testing.T) {
	_, err := aria.New(aria.WithScript("missing"))
	assert.ErrorIs(t, err, domain.ErrUnknownScript)
}

func TestConsole_PrimeLaunch(t *testing.T) {
	console, clock := newConsole(t, aria.WithScript("prime"))

	before := len(console.CurrentState().Lines)
	console.SubmitCommand("  NEXUS-LAUNCH ")
	assert.True(t, console.Busy())

	console.SubmitCommand("status")
	runToIdle(t, console, clock, 600*time.Millisecond)

	lines := console.CurrentState().Lines[before:]
	require.Len(t, lines, 1+3+5+10)
	assert.Equal(t, "aria@prime:~$ NEXUS-LAUNCH", lines[0].Text)
	assert.Equal(t, domain.TagSuccess, lines[10].Tag)
	assert.Equal(t, "Aria está lista para habitar tu dispositivo físico.", lines[len(lines)-1].Text)
}

func TestConsole_ScriptUnrecognizedText(t *testing.T) {
	console, _ := newConsole(t, aria.WithScript("essence"))

	console.SubmitCommand("clear")
	console.SubmitCommand("Dance")
	assert.Equal(t, []string{"aria@nexus:~$ Dance", "Desconozco la instrucción: dance"}, domain.Texts(console.CurrentState().Lines))
}

func TestConsole_OverridesWinOverScript(t *testing.T) {
	console, _ := newConsole(t,
		aria.WithScript("essence"),
		aria.WithName("kiosk"),
		aria.WithPrompt("$"),
		aria.WithBanner(domain.Plain("hi")),
		aria.WithUnrecognized(func(token string) string { return "?" + token }),
	)

	assert.Equal(t, "kiosk", console.Name())
	console.SubmitCommand("x")
	assert.Equal(t, []string{"hi", "$ x", "?x"}, domain.Texts(console.CurrentState().Lines))
}

func TestConsole_PaceOverridesStepDelays(t *testing.T) {
	console, clock := newConsole(t, aria.WithScript("essence"), aria.WithPace(time.Second))

	console.SubmitCommand("aria-sync")
	require.NoError(t, clock.BlockUntil(context.Background(), 1))
	clock.Advance(700 * time.Millisecond)
	assert.True(t, console.Busy(), "the 700ms script delay must not apply")

	runToIdle(t, console, clock, time.Second)
	assert.False(t, console.Busy())
}

func TestConsole_HooksAreMerged(t *testing.T) {
	calls := make(chan string, 4)
	hook := func(label string) domain.LifecycleHooks {
		return domain.LifecycleHooks{
			OnCommand: func(context.Context, *domain.CommandEvent) { calls <- label },
		}
	}
	console, _ := newConsole(t, aria.WithLifecycleHooks(hook("a")), aria.WithLifecycleHooks(hook("b")))

	console.SubmitCommand("status")
	assert.Equal(t, "a", <-calls)
	assert.Equal(t, "b", <-calls)
}

func TestConsole_SubscribeSeesAppendsAndClear(t *testing.T) {
	console, _ := newConsole(t, aria.WithScript("gradle"))
	changes, cancel := console.Subscribe()
	defer cancel()

	console.SubmitCommand("status")
	got := <-changes
	assert.Equal(t, history.Appended, got.Kind)
	assert.Equal(t, "aria@gradle:~$ status", got.Lines[0].Text)

	console.SubmitCommand("clear")
	got = <-changes
	assert.Equal(t, history.Cleared, got.Kind)
	assert.Zero(t, got.Len)
}

func TestConsole_SubmitReportsOwnLines(t *testing.T) {
	console, clock := newConsole(t, aria.WithScript("gradle"))

	out := console.Submit("  ")
	assert.False(t, out.Accepted)
	assert.Empty(t, out.Lines)

	out = console.Submit("status")
	assert.True(t, out.Accepted)
	assert.Equal(t, "aria@gradle:~$ status", out.Lines[0].Text)
	assert.Greater(t, len(out.Lines), 1)

	out = console.Submit("gradle-auth")
	require.True(t, out.Accepted)
	assert.Equal(t, "aria@gradle:~$ gradle-auth", out.Lines[0].Text)

	require.NoError(t, clock.BlockUntil(context.Background(), 1))
	clock.Advance(time.Second)

	out = console.Submit("status")
	assert.False(t, out.Accepted, "busy consoles reject")
	assert.Empty(t, out.Lines)

	runToIdle(t, console, clock, time.Second)
	out = console.Submit("clear")
	assert.True(t, out.Accepted)
	assert.True(t, out.Cleared)
	assert.Empty(t, out.Lines)
}

func TestConsole_FollowAndClosed(t *testing.T) {
	console, _ := newConsole(t, aria.WithScript("gradle"))
	console.SubmitCommand("status")

	sub := console.Follow()
	assert.Equal(t, console.CurrentState().Lines, sub.Lines)
	assert.Empty(t, sub.Changes)

	assert.False(t, console.Closed())
	console.Close()
	assert.True(t, console.Closed())
	_, ok := <-sub.Changes
	assert.False(t, ok)
}

func TestConsole_Commands(t *testing.T) {
	console, _ := newConsole(t, aria.WithScript("apk"))

	var tokens []string
	for _, c := range console.Commands() {
		tokens = append(tokens, c.Token)
	}
	assert.Equal(t, []string{"clear", "status", "build-apk", "help"}, tokens)
}
