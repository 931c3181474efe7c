package domain

import "errors"

// ErrDuplicateToken is returned when a command token is registered twice.
var ErrDuplicateToken = errors.New("duplicate command token")

// ErrEmptyToken is returned when registering a blank command token.
var ErrEmptyToken = errors.New("empty command token")

// ErrUnknownToken is returned when an alias targets a token that is not registered.
var ErrUnknownToken = errors.New("unknown command token")

// ErrReservedToken is returned when a non-clear entry tries to claim the reserved clear token.
var ErrReservedToken = errors.New("reserved command token")

// ErrNegativeDelay is returned by Pipeline.Validate for steps with a negative delay.
var ErrNegativeDelay = errors.New("negative step delay")

// ErrUnnamedPipeline is returned by Pipeline.Validate for pipelines without a name.
var ErrUnnamedPipeline = errors.New("pipeline has no name")

// ErrMissingPipeline is returned when a pipeline entry carries no script.
var ErrMissingPipeline = errors.New("pipeline entry without pipeline")

// ErrDiscarded is reported by a pipeline run interrupted by engine teardown.
var ErrDiscarded = errors.New("console discarded")

// ErrSessionNotFound is returned when a session ID is unknown to the session manager.
var ErrSessionNotFound = errors.New("session not found")

// ErrInvalidScript is returned when a console script cannot be turned into a registry.
var ErrInvalidScript = errors.New("invalid console script")

// ErrUnknownScript is returned when a builtin script name is not embedded.
var ErrUnknownScript = errors.New("unknown builtin script")

// ErrPreferencesNotFound is returned by a preferences store for an unknown profile.
var ErrPreferencesNotFound = errors.New("preferences not found")

// ErrUnknownSetting is returned when a preferences key does not name a field.
var ErrUnknownSetting = errors.New("unknown setting")

// ErrEmptyMessage is returned by a chat panel for blank input.
var ErrEmptyMessage = errors.New("empty message")

// ErrPanelBusy is returned by a chat panel while a reply is pending.
var ErrPanelBusy = errors.New("chat panel busy")
