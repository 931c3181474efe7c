package runner

import (
	"log/slog"
)

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.Logger = logger
		}
	}
}

// WithInputHandler configures a custom IOHandler.
func WithInputHandler(handler IOHandler) Option {
	return func(r *Runner) {
		r.Handler = handler
	}
}

// WithInterceptor configures the input middleware. It replaces the default exit handling,
// so include ExitInterceptor in the chain to keep it.
func WithInterceptor(interceptor Interceptor) Option {
	return func(r *Runner) {
		r.Interceptor = interceptor
	}
}

// WithHeadless suppresses the greeting.
func WithHeadless(headless bool) Option {
	return func(r *Runner) {
		r.Headless = headless
	}
}

// WithEchoInput keeps the console's echo of commands typed into this runner.
// Interactive terminals already show what was typed, piped input does not.
func WithEchoInput(echo bool) Option {
	return func(r *Runner) {
		r.EchoInput = echo
	}
}

// WithGreeting sets the system message shown once the transcript is printed.
func WithGreeting(msg string) Option {
	return func(r *Runner) {
		r.Greeting = msg
	}
}
