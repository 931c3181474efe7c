package chat

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/aria/internal/logging"
	"github.com/aretw0/aria/pkg/domain"
)

// Role identifies the author of a message.
type Role string

const (
	RoleUser Role = "user"
	RoleAria Role = "aria"
)

// Message is one chat turn.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Panel is a chat log bound to one generator.
type Panel struct {
	generator Generator
	persona   Persona
	prefs     func(context.Context) domain.Preferences
	now       func() time.Time
	logger    *slog.Logger

	mu       sync.Mutex
	busy     bool
	messages []Message
}

// Option configures a Panel.
type Option func(*Panel)

// WithPersona replaces the default persona.
func WithPersona(p Persona) Option {
	return func(c *Panel) {
		c.persona = p
	}
}

// WithPreferences supplies the record rendered into every prompt.
func WithPreferences(fn func(context.Context) domain.Preferences) Option {
	return func(c *Panel) {
		c.prefs = fn
	}
}

// WithNow replaces time.Now for message timestamps.
func WithNow(now func() time.Time) Option {
	return func(c *Panel) {
		c.now = now
	}
}

// WithLogger configures a logger. Generator failures are logged here.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Panel) {
		c.logger = logger
	}
}

// NewPanel creates a panel whose log starts with the persona greeting.
func NewPanel(gen Generator, opts ...Option) *Panel {
	persona, _ := LookupPersona(DefaultPersona)
	c := &Panel{
		generator: gen,
		persona:   persona,
		prefs:     func(context.Context) domain.Preferences { return domain.Preferences{} },
		now:       time.Now,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.persona.Greeting != "" {
		c.messages = append(c.messages, Message{Role: RoleAria, Content: c.persona.Greeting, Timestamp: c.now()})
	}
	return c
}

// Send appends text as a user turn, waits for the generator and appends its reply.
// It returns domain.ErrEmptyMessage for blank text and domain.ErrPanelBusy while a
// previous Send is pending; in both cases the log is unchanged.
func (c *Panel) Send(ctx context.Context, text string) (Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Message{}, domain.ErrEmptyMessage
	}

	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return Message{}, domain.ErrPanelBusy
	}
	c.busy = true
	c.messages = append(c.messages, Message{Role: RoleUser, Content: text, Timestamp: c.now()})
	c.mu.Unlock()

	reply := c.reply(ctx, text)

	c.mu.Lock()
	defer c.mu.Unlock()
	msg := Message{Role: RoleAria, Content: reply, Timestamp: c.now()}
	c.messages = append(c.messages, msg)
	c.busy = false
	return msg, nil
}

func (c *Panel) reply(ctx context.Context, text string) string {
	prompt, err := c.persona.Prompt(c.prefs(ctx), text)
	if err != nil {
		c.logger.Warn("chat prompt failed", "persona", c.persona.Name, "err", err)
		return c.persona.Fallback
	}

	out, err := c.generator.Generate(ctx, prompt)
	if err != nil {
		c.logger.Warn("chat generation failed", "persona", c.persona.Name, "err", err)
		return c.persona.Fallback
	}
	if strings.TrimSpace(out) == "" {
		return c.persona.Empty
	}
	return out
}

// Messages returns a copy of the log.
func (c *Panel) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Message(nil), c.messages...)
}

// Busy reports whether a reply is pending.
func (c *Panel) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// Persona returns the active persona.
func (c *Panel) Persona() Persona {
	return c.persona
}
