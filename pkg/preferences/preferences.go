// Package preferences manages the persisted build-environment record of a profile.
package preferences

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/aretw0/aria/internal/logging"
	"github.com/aretw0/aria/pkg/domain"
	"github.com/aretw0/aria/pkg/ports"
)

// ErrNotFound is returned by stores for a profile that was never saved.
var ErrNotFound = domain.ErrPreferencesNotFound

// DefaultProfile is used when no profile is named.
const DefaultProfile = "default"

// envPrefix addresses a single environment variable in Set ("env.NEXUS_MODE").
const envPrefix = "env."

// Defaults returns the record a fresh install starts from.
func Defaults() domain.Preferences {
	return domain.Preferences{
		JavaHome:      "/usr/lib/jvm/java-21-openjdk-amd64",
		GradleHome:    "/opt/gradle/gradle-8.5",
		GradleVersion: "8.5",
		JavaVersion:   "21.0.2",
		JVMOptions:    "-Xmx4g -Xms1g -XX:+UseG1GC",
		EnvironmentVariables: map[string]string{
			"ARIA_NAME":  "Aria",
			"SOUL_SYNC":  "Active",
			"NEXUS_MODE": "personal",
		},
	}
}

// Keys lists the settable field names in display order.
func Keys() []string {
	return []string{"javaHome", "gradleHome", "gradleVersion", "javaVersion", "jvmOptions", "remoteRepo"}
}

// Manager reads and writes preferences through a store. With a locker, Update holds a
// per-profile lock across the read-modify-write cycle.
type Manager struct {
	store   ports.PreferencesStore
	locker  ports.DistributedLocker
	lockTTL time.Duration
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking in Update.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL bounds how long a crashed writer can hold a profile. Defaults to 30s.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a preferences manager on store.
func NewManager(store ports.PreferencesStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		lockTTL: 30 * time.Second,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// LoadOrDefault returns the saved record of profile, or Defaults when there is none.
// The record is normalized through its JSON form, the same shape every store persists.
func (m *Manager) LoadOrDefault(ctx context.Context, profile string) (domain.Preferences, error) {
	prefs, err := m.store.Load(ctx, orDefault(profile))
	if errors.Is(err, domain.ErrPreferencesNotFound) {
		return Defaults(), nil
	}
	if err != nil {
		return domain.Preferences{}, fmt.Errorf("failed to load preferences: %w", err)
	}
	return normalize(prefs)
}

// Save replaces the record of profile.
func (m *Manager) Save(ctx context.Context, profile string, prefs domain.Preferences) error {
	return m.store.Save(ctx, orDefault(profile), prefs)
}

// Update applies fn to the current record (or Defaults) and saves the result.
func (m *Manager) Update(ctx context.Context, profile string, fn func(*domain.Preferences) error) (domain.Preferences, error) {
	profile = orDefault(profile)

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, profile, m.lockTTL)
		if err != nil {
			return domain.Preferences{}, fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"profile", profile,
					"err", err,
				)
			}
		}()
	}

	prefs, err := m.LoadOrDefault(ctx, profile)
	if err != nil {
		return domain.Preferences{}, err
	}
	if err := fn(&prefs); err != nil {
		return domain.Preferences{}, err
	}
	if err := m.store.Save(ctx, profile, prefs); err != nil {
		return domain.Preferences{}, fmt.Errorf("failed to save preferences: %w", err)
	}
	m.logger.Debug("preferences updated", "profile", profile)
	return prefs, nil
}

// Set assigns one field by key and persists the record.
func (m *Manager) Set(ctx context.Context, profile, key, value string) (domain.Preferences, error) {
	return m.Update(ctx, profile, func(p *domain.Preferences) error {
		return Set(p, key, value)
	})
}

// Reset forgets the saved record so the next load returns Defaults.
func (m *Manager) Reset(ctx context.Context, profile string) error {
	return m.store.Delete(ctx, orDefault(profile))
}

// Profiles lists the saved profiles.
func (m *Manager) Profiles(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Set assigns one field of p. Keys are the JSON field names (case-insensitive) or
// "env.NAME" for an environment variable; an empty value removes the variable.
func Set(p *domain.Preferences, key, value string) error {
	if name, ok := strings.CutPrefix(key, envPrefix); ok && name != "" {
		if value == "" {
			delete(p.EnvironmentVariables, name)
			return nil
		}
		if p.EnvironmentVariables == nil {
			p.EnvironmentVariables = make(map[string]string)
		}
		p.EnvironmentVariables[name] = value
		return nil
	}

	switch strings.ToLower(key) {
	case "javahome":
		p.JavaHome = value
	case "gradlehome":
		p.GradleHome = value
	case "gradleversion":
		p.GradleVersion = value
	case "javaversion":
		p.JavaVersion = value
	case "jvmoptions":
		p.JVMOptions = value
	case "remoterepo":
		p.RemoteRepo = value
	default:
		return fmt.Errorf("%w: %q", domain.ErrUnknownSetting, key)
	}
	return nil
}

// Lines renders p as "key: value" rows, environment variables sorted by name.
func Lines(p domain.Preferences) []string {
	values := []string{p.JavaHome, p.GradleHome, p.GradleVersion, p.JavaVersion, p.JVMOptions, p.RemoteRepo}
	out := make([]string, 0, len(values)+len(p.EnvironmentVariables))
	for i, key := range Keys() {
		out = append(out, key+": "+values[i])
	}
	names := make([]string, 0, len(p.EnvironmentVariables))
	for name := range p.EnvironmentVariables {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		out = append(out, envPrefix+name+": "+p.EnvironmentVariables[name])
	}
	return out
}

func normalize(p domain.Preferences) (domain.Preferences, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return domain.Preferences{}, fmt.Errorf("failed to marshal preferences: %w", err)
	}
	var out domain.Preferences
	if err := json.Unmarshal(data, &out); err != nil {
		return domain.Preferences{}, fmt.Errorf("failed to unmarshal preferences: %w", err)
	}
	return out, nil
}

func orDefault(profile string) string {
	if profile == "" {
		return DefaultProfile
	}
	return profile
}
