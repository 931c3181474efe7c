package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/aretw0/aria/internal/adapters/file"
	"github.com/aretw0/aria/internal/adapters/redis"
	"github.com/aretw0/aria/pkg/persistence/middleware"
	"github.com/aretw0/aria/pkg/preferences"
)

// PrefsOptions selects the preferences backend.
// RedisAddr wins over Dir; an empty Dir means the default file location.
type PrefsOptions struct {
	Dir       string
	RedisAddr string
	RedisTTL  time.Duration
	// Key (base64, AES-256) encrypts records at rest. FallbackKeys still decrypt.
	Key          string
	FallbackKeys []string
	Logger       *slog.Logger
}

// OpenPreferences returns a manager over the configured store and a closer for it.
// The redis backend also serializes updates with a distributed lock.
func OpenPreferences(opts PrefsOptions) (*preferences.Manager, func() error, error) {
	var managerOpts []preferences.Option
	if opts.Logger != nil {
		managerOpts = append(managerOpts, preferences.WithLogger(opts.Logger))
	}

	mws, err := storeMiddleware(opts)
	if err != nil {
		return nil, nil, err
	}

	if opts.RedisAddr != "" {
		store := redis.New(opts.RedisAddr, "", 0, redis.WithTTL(opts.RedisTTL))
		locker := redis.NewLocker(store.Client(), redis.DefaultPrefix)
		managerOpts = append(managerOpts, preferences.WithLocker(locker))
		return preferences.NewManager(middleware.Chain(store, mws...), managerOpts...), store.Close, nil
	}

	store := file.New(opts.Dir)
	return preferences.NewManager(middleware.Chain(store, mws...), managerOpts...), func() error { return nil }, nil
}

func storeMiddleware(opts PrefsOptions) ([]middleware.Middleware, error) {
	if opts.Key == "" {
		return nil, nil
	}
	active, err := middleware.ParseKey(opts.Key)
	if err != nil {
		return nil, err
	}
	cfg := middleware.EncryptionConfig{ActiveKey: active}
	for _, k := range opts.FallbackKeys {
		key, err := middleware.ParseKey(k)
		if err != nil {
			return nil, fmt.Errorf("fallback key: %w", err)
		}
		cfg.FallbackKeys = append(cfg.FallbackKeys, key)
	}
	return []middleware.Middleware{middleware.NewEncryptionMiddleware(cfg)}, nil
}

// ShowPreferences prints the effective record of profile.
func ShowPreferences(ctx context.Context, w io.Writer, m *preferences.Manager, profile string) error {
	prefs, err := m.LoadOrDefault(ctx, profile)
	if err != nil {
		return err
	}
	for _, line := range preferences.Lines(prefs) {
		fmt.Fprintln(w, line)
	}
	return nil
}

// SetPreference assigns key=value in profile and prints the resulting record.
func SetPreference(ctx context.Context, w io.Writer, m *preferences.Manager, profile, key, value string) error {
	prefs, err := m.Set(ctx, profile, key, value)
	if err != nil {
		return err
	}
	for _, line := range preferences.Lines(prefs) {
		fmt.Fprintln(w, line)
	}
	return nil
}

// ResetPreferences drops the stored record so the defaults apply again.
func ResetPreferences(ctx context.Context, w io.Writer, m *preferences.Manager, profile string) error {
	if err := m.Reset(ctx, profile); err != nil {
		return err
	}
	printSystemMessage(w, "Profile '%s' reset to defaults.", profileName(profile))
	return nil
}

// ListProfiles prints the stored profile names.
func ListProfiles(ctx context.Context, w io.Writer, m *preferences.Manager) error {
	profiles, err := m.Profiles(ctx)
	if err != nil {
		return err
	}
	sort.Strings(profiles)
	for _, p := range profiles {
		fmt.Fprintln(w, p)
	}
	return nil
}

func profileName(profile string) string {
	if profile == "" {
		return preferences.DefaultProfile
	}
	return profile
}
