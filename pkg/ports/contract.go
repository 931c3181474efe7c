package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/aria/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunPreferencesStoreContract runs a suite of tests to verify that a PreferencesStore
// implementation adheres to the defined interface contract.
func RunPreferencesStoreContract(t *testing.T, store PreferencesStore) {
	ctx := context.Background()
	profile := "contract-" + time.Now().Format("20060102150405")

	sample := domain.Preferences{
		JavaHome:      "/usr/lib/jvm/java-21",
		GradleHome:    "/opt/gradle/gradle-8.5",
		GradleVersion: "8.5",
		JavaVersion:   "21.0.2",
		JVMOptions:    "-Xmx4g",
		RemoteRepo:    "https://github.com/aria/nexus",
		EnvironmentVariables: map[string]string{
			"ARIA_NAME": "Aria",
		},
	}

	t.Run("Save and Load", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, profile, sample), "Save should not return error")

		loaded, err := store.Load(ctx, profile)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, sample, loaded)
	})

	t.Run("Load is a copy", func(t *testing.T) {
		loaded, err := store.Load(ctx, profile)
		require.NoError(t, err)
		loaded.EnvironmentVariables["ARIA_NAME"] = "changed"

		again, err := store.Load(ctx, profile)
		require.NoError(t, err)
		assert.Equal(t, "Aria", again.EnvironmentVariables["ARIA_NAME"])
	})

	t.Run("Save overwrites", func(t *testing.T) {
		updated := sample.Clone()
		updated.GradleVersion = "8.7"
		require.NoError(t, store.Save(ctx, profile, updated))

		loaded, err := store.Load(ctx, profile)
		require.NoError(t, err)
		assert.Equal(t, "8.7", loaded.GradleVersion)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+profile)
		assert.ErrorIs(t, err, domain.ErrPreferencesNotFound)
	})

	t.Run("List", func(t *testing.T) {
		other := profile + "-2"
		require.NoError(t, store.Save(ctx, other, sample))
		defer func() { _ = store.Delete(ctx, other) }()

		profiles, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, profiles, profile)
		assert.Contains(t, profiles, other)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, profile), "Delete should not return error")

		_, err := store.Load(ctx, profile)
		assert.ErrorIs(t, err, domain.ErrPreferencesNotFound, "Load after Delete should return ErrPreferencesNotFound")

		assert.NoError(t, store.Delete(ctx, profile), "Delete is idempotent")
	})
}
