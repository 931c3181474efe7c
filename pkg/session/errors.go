package session

import "errors"

// ErrClosed is returned by GetOrCreate after Close.
var ErrClosed = errors.New("session manager closed")

// ErrLimit is returned by GetOrCreate when the session cap is reached.
var ErrLimit = errors.New("too many sessions")
