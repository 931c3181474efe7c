package ports

import (
	"context"

	"github.com/aretw0/aria/pkg/domain"
)

// PreferencesStore persists one domain.Preferences record per profile.
type PreferencesStore interface {
	// Save persists prefs for the given profile, replacing any previous record.
	Save(ctx context.Context, profile string, prefs domain.Preferences) error

	// Load retrieves the record of a profile.
	// Returns domain.ErrPreferencesNotFound if the profile has never been saved.
	Load(ctx context.Context, profile string) (domain.Preferences, error)

	// Delete removes the record of a profile. Deleting an unknown profile is not an error.
	Delete(ctx context.Context, profile string) error

	// List returns the saved profiles.
	List(ctx context.Context) ([]string, error)
}
