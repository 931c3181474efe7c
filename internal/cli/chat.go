package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aretw0/aria/internal/logging"
	"github.com/aretw0/aria/pkg/chat"
	"github.com/aretw0/aria/pkg/domain"
	"github.com/aretw0/aria/pkg/preferences"
	"github.com/aretw0/aria/pkg/runner"
)

// errNoAPIKey makes the panel answer with its fallback text when no key is configured.
var errNoAPIKey = errors.New("no Gemini API key configured (set ARIA_GEMINI_API_KEY)")

// ChatOptions configures the chat panel of the CLI.
type ChatOptions struct {
	APIKey  string
	Model   string
	Persona string
	Profile string
	// Preferences feeds the persona prompt; nil means the defaults.
	Preferences *preferences.Manager
	// Generator overrides the GenAI client (tests).
	Generator chat.Generator
	Logger    *slog.Logger
}

// NewChatPanel builds a panel for the selected persona.
func NewChatPanel(ctx context.Context, opts ChatOptions) (*chat.Panel, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	persona, ok := chat.LookupPersona(opts.Persona)
	if !ok {
		return nil, fmt.Errorf("unknown persona %q (available: %s)", opts.Persona, strings.Join(chat.Personas(), ", "))
	}

	gen := opts.Generator
	if gen == nil {
		if opts.APIKey == "" {
			logger.Warn("chat running without a generator", "err", errNoAPIKey)
			gen = chat.GeneratorFunc(func(context.Context, string) (string, error) {
				return "", errNoAPIKey
			})
		} else {
			client, err := chat.NewGenAIGenerator(ctx, opts.APIKey, opts.Model)
			if err != nil {
				return nil, err
			}
			gen = client
		}
	}

	prefs := func(ctx context.Context) domain.Preferences {
		if opts.Preferences == nil {
			return preferences.Defaults()
		}
		p, err := opts.Preferences.LoadOrDefault(ctx, opts.Profile)
		if err != nil {
			logger.Warn("chat using default preferences", "profile", opts.Profile, "err", err)
			return preferences.Defaults()
		}
		return p
	}

	return chat.NewPanel(gen,
		chat.WithPersona(persona),
		chat.WithPreferences(prefs),
		chat.WithLogger(logger),
	), nil
}

// ChatInterceptor routes "chat <text>" lines to panel and prints the reply through handler.
func ChatInterceptor(panel *chat.Panel, handler runner.IOHandler) runner.Interceptor {
	return runner.PrefixInterceptor("chat", func(ctx context.Context, rest string) error {
		return sendChat(ctx, panel, handler, rest)
	})
}

func sendChat(ctx context.Context, panel *chat.Panel, handler runner.IOHandler, text string) error {
	msg, err := panel.Send(ctx, text)
	switch {
	case errors.Is(err, domain.ErrEmptyMessage), errors.Is(err, domain.ErrPanelBusy):
		return nil
	case err != nil:
		return err
	}
	return handler.SystemOutput(ctx, msg.Content)
}

// RunChat is a line-oriented conversation with panel until EOF or an exit word.
func RunChat(ctx context.Context, handler runner.IOHandler, panel *chat.Panel) error {
	exit := runner.ExitInterceptor()

	for _, m := range panel.Messages() {
		if err := handler.SystemOutput(ctx, m.Content); err != nil {
			return err
		}
	}

	for {
		if err := handler.Prompt(ctx, strings.ToLower(panel.Persona().Name)+">"); err != nil {
			return err
		}
		text, err := handler.Input(ctx)
		if err != nil {
			return handleExecutionError(err)
		}
		if _, err := exit(ctx, text); err == io.EOF {
			return nil
		}
		if err := sendChat(ctx, panel, handler, text); err != nil {
			return err
		}
	}
}
