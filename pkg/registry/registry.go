package registry

import (
	"fmt"
	"strings"
	"sync"

	"github.com/aretw0/aria/pkg/domain"
)

// Resolution is the outcome of a lookup.
type Resolution int

const (
	// Empty means the input was blank after trimming; callers treat it as a no-op.
	Empty Resolution = iota
	// Found means exactly one entry matched.
	Found
	// NotFound is the implicit "unrecognized command" fallback.
	NotFound
)

func (r Resolution) String() string {
	switch r {
	case Empty:
		return "empty"
	case Found:
		return "found"
	default:
		return "not_found"
	}
}

// Registry maps normalized command tokens to entries.
// Safe for concurrent use; the reserved clear token is always present.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]domain.CommandEntry
	order   []string
}

// New creates a registry holding only the reserved clear entry.
func New() *Registry {
	r := &Registry{
		entries: make(map[string]domain.CommandEntry),
	}
	r.entries[domain.ClearToken] = domain.CommandEntry{
		Token:       domain.ClearToken,
		Kind:        domain.KindClear,
		Description: "Clear the console",
	}
	r.order = append(r.order, domain.ClearToken)
	return r
}

// Normalize trims and lower-cases a raw token.
func Normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Register adds an entry under its normalized token.
// It fails with domain.ErrDuplicateToken if the token is already present.
func (r *Registry) Register(entry domain.CommandEntry) error {
	token := Normalize(entry.Token)
	if token == "" {
		return domain.ErrEmptyToken
	}
	switch entry.Kind {
	case domain.KindPipeline:
		if entry.Pipeline == nil {
			return fmt.Errorf("%w: %q", domain.ErrMissingPipeline, token)
		}
		if err := entry.Pipeline.Validate(); err != nil {
			return err
		}
	case domain.KindClear:
		return fmt.Errorf("%w: %q", domain.ErrReservedToken, token)
	case "":
		entry.Kind = domain.KindImmediate
	}
	entry.Token = token

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[token]; exists {
		return fmt.Errorf("%w: %q", domain.ErrDuplicateToken, token)
	}
	r.entries[token] = entry
	r.order = append(r.order, token)
	return nil
}

// Alias makes alias resolve to the same entry as target.
func (r *Registry) Alias(alias, target string) error {
	alias, target = Normalize(alias), Normalize(target)
	if alias == "" {
		return domain.ErrEmptyToken
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[target]
	if !ok {
		return fmt.Errorf("%w: %q", domain.ErrUnknownToken, target)
	}
	if _, exists := r.entries[alias]; exists {
		return fmt.Errorf("%w: %q", domain.ErrDuplicateToken, alias)
	}
	r.entries[alias] = entry
	return nil
}

// Resolve looks up raw input. Only exact matches on the normalized token count.
func (r *Registry) Resolve(raw string) (domain.CommandEntry, Resolution) {
	token := Normalize(raw)
	if token == "" {
		return domain.CommandEntry{}, Empty
	}

	r.mu.RLock()
	entry, ok := r.entries[token]
	r.mu.RUnlock()

	if !ok {
		return domain.CommandEntry{Token: token}, NotFound
	}
	return entry, Found
}

// Entries returns the registered entries in registration order. Aliases are not repeated.
func (r *Registry) Entries() []domain.CommandEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.CommandEntry, 0, len(r.order))
	for _, token := range r.order {
		out = append(out, r.entries[token])
	}
	return out
}

// Aliases maps each alias to the token it resolves to.
func (r *Registry) Aliases() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]string)
	for key, entry := range r.entries {
		if key != entry.Token {
			out[key] = entry.Token
		}
	}
	return out
}

// Pipelines returns every pipeline entry in registration order.
func (r *Registry) Pipelines() []domain.Pipeline {
	var out []domain.Pipeline
	for _, e := range r.Entries() {
		if e.Kind == domain.KindPipeline {
			out = append(out, *e.Pipeline)
		}
	}
	return out
}

// Len counts tokens, aliases included.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
