package runner

import (
	"context"

	"github.com/aretw0/aria/pkg/domain"
	"github.com/aretw0/aria/pkg/history"
)

// Console is the part of a console the runner drives. *aria.Console satisfies it.
type Console interface {
	history.Source
	SubmitCommand(input string)
	CurrentState() domain.State
	Done() <-chan struct{}
	Prompt() string
}

// IOHandler defines the strategy for interacting with the user.
// This allows switching between Text (CLI) and JSON (Structured) modes.
type IOHandler interface {
	// Output presents lines newly appended to the transcript.
	Output(ctx context.Context, lines []domain.Line) error

	// Clear reacts to the transcript being wiped.
	Clear(ctx context.Context) error

	// Prompt signals that the console is idle and accepts input.
	Prompt(ctx context.Context, prompt string) error

	// Input reads the next line from the user. It returns io.EOF when the source is exhausted.
	Input(ctx context.Context) (string, error)

	// SystemOutput presents a meta-message that is not part of the transcript.
	SystemOutput(ctx context.Context, msg string) error
}

// ContentRenderer transforms a system message before it is written (markdown to ANSI).
type ContentRenderer func(string) (string, error)
