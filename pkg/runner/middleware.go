package runner

import (
	"context"
	"io"
	"strings"
)

// Interceptor inspects a line before it reaches the console.
// It returns handled=true to consume the line, or io.EOF to end the session.
type Interceptor func(ctx context.Context, input string) (handled bool, err error)

// MultiInterceptor chains interceptors; the first one that handles the line or fails wins.
func MultiInterceptor(interceptors ...Interceptor) Interceptor {
	return func(ctx context.Context, input string) (bool, error) {
		for _, interceptor := range interceptors {
			if interceptor == nil {
				continue
			}
			handled, err := interceptor(ctx, input)
			if err != nil || handled {
				return handled, err
			}
		}
		return false, nil
	}
}

// ExitInterceptor ends the session on any of words (case-insensitive).
// With no words it uses "exit" and "quit".
func ExitInterceptor(words ...string) Interceptor {
	if len(words) == 0 {
		words = []string{"exit", "quit"}
	}
	return func(ctx context.Context, input string) (bool, error) {
		token := strings.ToLower(strings.TrimSpace(input))
		for _, w := range words {
			if token == w {
				return true, io.EOF
			}
		}
		return false, nil
	}
}

// PrefixInterceptor hands lines starting with prefix to fn instead of the console.
// The CLI uses it to route "chat ..." lines to the chat panel.
func PrefixInterceptor(prefix string, fn func(ctx context.Context, rest string) error) Interceptor {
	prefix = strings.ToLower(prefix)
	return func(ctx context.Context, input string) (bool, error) {
		trimmed := strings.TrimSpace(input)
		if len(trimmed) < len(prefix) || strings.ToLower(trimmed[:len(prefix)]) != prefix {
			return false, nil
		}
		rest := trimmed[len(prefix):]
		if rest != "" && rest[0] != ' ' {
			return false, nil
		}
		return true, fn(ctx, strings.TrimSpace(rest))
	}
}
