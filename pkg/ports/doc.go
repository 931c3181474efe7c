/*
Package ports defines the driven ports (interfaces) of the Aria console.

These interfaces decouple the core from storage backends.

# Key Interfaces

  - PreferencesStore: persists the per-profile domain.Preferences record.
*/
package ports
