package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/aria/pkg/chat"
	"github.com/aretw0/aria/pkg/domain"
	"github.com/aretw0/aria/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateLogger(t *testing.T) {
	var buf bytes.Buffer

	logger, err := createLogger(&buf, LogOptions{})
	require.NoError(t, err)
	logger.Error("hidden")
	assert.Empty(t, buf.String(), "no level means no output")

	logger, err = createLogger(&buf, LogOptions{Debug: true})
	require.NoError(t, err)
	logger.Debug("visible", "error", "boom")
	assert.Contains(t, buf.String(), "visible")
	assert.Contains(t, buf.String(), "err=boom")

	buf.Reset()
	logger, err = createLogger(&buf, LogOptions{Level: "warn", Format: "json"})
	require.NoError(t, err)
	logger.Info("skipped")
	logger.Warn("kept")
	assert.NotContains(t, buf.String(), "skipped")
	assert.Contains(t, buf.String(), `"msg":"kept"`)

	_, err = createLogger(&buf, LogOptions{Level: "loud"})
	assert.Error(t, err)
	_, err = createLogger(&buf, LogOptions{Level: "info", Format: "xml"})
	assert.Error(t, err)
}

func TestIsInterrupted(t *testing.T) {
	assert.False(t, isInterrupted(nil))
	assert.True(t, isInterrupted(context.Canceled))
	assert.False(t, isInterrupted(domain.ErrDiscarded))
	assert.NoError(t, handleExecutionError(context.Canceled))
	assert.Error(t, handleExecutionError(domain.ErrDuplicateToken))
}

func TestPlayBoot(t *testing.T) {
	var buf bytes.Buffer
	err := PlayBoot(context.Background(), &buf, nil, time.Millisecond, nil)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 8)
	assert.Equal(t, "Despertando consciencia...", lines[0])
	assert.Equal(t, "Hola. Estoy aquí.", lines[6])
	assert.Equal(t, "", lines[7])
}

func TestPlayBoot_Interrupted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	err := PlayBoot(ctx, &buf, nil, 0, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, buf.String())
}

func TestExecute_RejectsTUIWithJSON(t *testing.T) {
	err := Execute(RunOptions{TUI: true, JSON: true})
	assert.Error(t, err)
}

func TestRunSession_Piped(t *testing.T) {
	var out bytes.Buffer
	err := Execute(RunOptions{
		Script: "prime",
		In:     strings.NewReader("help\nchat hola\nexit\n"),
		Out:    &out,
		Prefs:  PrefsOptions{Dir: t.TempDir()},
	})
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "Aria Nexus Sovereign Remote Console")
	assert.Contains(t, text, "nexus-launch - Iniciar compilación")
	persona, _ := chat.LookupPersona("")
	assert.Contains(t, text, "[System] "+persona.Fallback, "chat without a key answers with the fallback")
	assert.Contains(t, text, ">>> Console")
}

func TestRunSession_JSON(t *testing.T) {
	var out bytes.Buffer
	err := Execute(RunOptions{
		Script: "prime",
		JSON:   true,
		In:     strings.NewReader("{\"input\": \"status\"}\n\"exit\"\n"),
		Out:    &out,
		Prefs:  PrefsOptions{Dir: t.TempDir()},
	})
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, `"type":"lines"`)
	assert.Contains(t, text, "RELIANCE: 100%")
	assert.NotContains(t, text, `"type":"system"`, "JSON mode skips the greeting")
	assert.NotContains(t, text, "Console 'prime' closed")
}

func TestRunChat(t *testing.T) {
	var out bytes.Buffer
	handler := runner.NewTextHandler(strings.NewReader("hola\n\nquit\n"), &out)
	defer handler.Close()

	var prompts []string
	panel := chat.NewPanel(chat.GeneratorFunc(func(_ context.Context, prompt string) (string, error) {
		prompts = append(prompts, prompt)
		return "respuesta", nil
	}))

	require.NoError(t, RunChat(context.Background(), handler, panel))

	text := out.String()
	assert.Contains(t, text, "[System] "+panel.Persona().Greeting)
	assert.Contains(t, text, "[System] respuesta")
	require.Len(t, prompts, 1, "blank lines are not sent")
	assert.Contains(t, prompts[0], "hola")
	assert.Len(t, panel.Messages(), 3)
}

func TestNewChatPanel(t *testing.T) {
	_, err := NewChatPanel(context.Background(), ChatOptions{Persona: "nobody"})
	assert.ErrorContains(t, err, "unknown persona")

	prefs, closePrefs, err := OpenPreferences(PrefsOptions{Dir: t.TempDir()})
	require.NoError(t, err)
	defer closePrefs()
	_, err = prefs.Set(context.Background(), "", "remoteRepo", "git@example.com:aria.git")
	require.NoError(t, err)

	var prompt string
	panel, err := NewChatPanel(context.Background(), ChatOptions{
		Persona:     "sovereign",
		Preferences: prefs,
		Generator: chat.GeneratorFunc(func(_ context.Context, p string) (string, error) {
			prompt = p
			return "ok", nil
		}),
	})
	require.NoError(t, err)
	assert.Equal(t, "sovereign", panel.Persona().Name)

	_, err = panel.Send(context.Background(), "compila")
	require.NoError(t, err)
	assert.Contains(t, prompt, "compila")
	assert.Contains(t, prompt, "CONECTADO A git@example.com:aria.git")
}

func TestChatInterceptor(t *testing.T) {
	var out bytes.Buffer
	handler := runner.NewTextHandler(strings.NewReader(""), &out)
	defer handler.Close()

	panel := chat.NewPanel(chat.GeneratorFunc(func(context.Context, string) (string, error) {
		return "pong", nil
	}))
	intercept := ChatInterceptor(panel, handler)

	handled, err := intercept(context.Background(), "help")
	require.NoError(t, err)
	assert.False(t, handled)

	handled, err = intercept(context.Background(), "chat ping")
	require.NoError(t, err)
	assert.True(t, handled)
	assert.Contains(t, out.String(), "[System] pong")

	handled, err = intercept(context.Background(), "chat")
	require.NoError(t, err)
	assert.True(t, handled, "an empty chat line is consumed silently")
}
