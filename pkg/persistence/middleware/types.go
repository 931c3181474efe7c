// Package middleware wraps preference stores with cross-cutting behaviour.
package middleware

import "github.com/aretw0/aria/pkg/ports"

// Middleware allows wrapping a PreferencesStore to add behavior.
type Middleware func(ports.PreferencesStore) ports.PreferencesStore

// Chain applies mws so that the first one is the outermost wrapper.
func Chain(store ports.PreferencesStore, mws ...Middleware) ports.PreferencesStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
