// Package history implements the console transcript: an append-only, insertion-ordered
// list of lines that can only be cleared wholesale.
package history

import (
	"sync"

	"github.com/aretw0/aria/pkg/domain"
)

// ChangeKind tells subscribers what happened to the log.
type ChangeKind string

const (
	Appended ChangeKind = "appended"
	Cleared  ChangeKind = "cleared"
)

// Change is delivered to subscribers after every mutation.
type Change struct {
	Kind  ChangeKind    `json:"kind"`
	Lines []domain.Line `json:"lines,omitempty"` // only the appended lines
	Len   int           `json:"len"`           // log length after the change
	Epoch int           `json:"epoch"`         // number of clears so far
}

// DefaultSubscriberBuffer is the channel capacity handed to each subscriber.
const DefaultSubscriberBuffer = 256

// Log is safe for concurrent use.
// Subscribers that fall DefaultSubscriberBuffer changes behind are disconnected
// (their channel is closed) so a stuck reader never blocks the console. Closed
// tells such a drop apart from Close; a Follower resubscribes on its own.
type Log struct {
	mu       sync.RWMutex
	lines    []domain.Line
	epoch    int
	subs     map[int]chan Change
	nextSub  int
	onChange func(Change)
	buffer   int
	closed   bool
}

// Option configures a Log.
type Option func(*Log)

// WithOnChange registers a synchronous callback invoked after each mutation.
// It runs while the log is locked and must not call back into the log.
func WithOnChange(fn func(Change)) Option {
	return func(l *Log) {
		l.onChange = fn
	}
}

// WithSubscriberBuffer overrides the per-subscriber channel capacity.
func WithSubscriberBuffer(n int) Option {
	return func(l *Log) {
		if n > 0 {
			l.buffer = n
		}
	}
}

// New creates a log seeded with the given lines.
func New(seed []domain.Line, opts ...Option) *Log {
	l := &Log{
		lines:  append([]domain.Line(nil), seed...),
		subs:   make(map[int]chan Change),
		buffer: DefaultSubscriberBuffer,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Append adds lines to the end of the log. Appending nothing is a no-op.
func (l *Log) Append(lines ...domain.Line) {
	if len(lines) == 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	l.lines = append(l.lines, lines...)
	l.notify(Change{
		Kind:  Appended,
		Lines: append([]domain.Line(nil), lines...),
		Len:   len(l.lines),
		Epoch: l.epoch,
	})
}

// Clear empties the log.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.lines = nil
	l.epoch++
	l.notify(Change{Kind: Cleared, Epoch: l.epoch})
}

// Snapshot returns a copy of the log for rendering.
func (l *Log) Snapshot() []domain.Line {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]domain.Line, len(l.lines))
	copy(out, l.lines)
	return out
}

// Len returns the number of lines currently held.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.lines)
}

// Subscribe returns a channel of changes and a function that ends the subscription.
// The cancel function is idempotent. On a closed log the channel is already closed.
func (l *Log) Subscribe() (<-chan Change, func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.subscribeLocked()
}

// Follow copies the log and subscribes in one step: every change on the returned
// channel comes after Lines, none is already part of it.
func (l *Log) Follow() Subscription {
	l.mu.Lock()
	defer l.mu.Unlock()

	ch, cancel := l.subscribeLocked()
	return Subscription{
		Lines:   append([]domain.Line(nil), l.lines...),
		Epoch:   l.epoch,
		Changes: ch,
		Cancel:  cancel,
	}
}

// Closed reports whether Close was called.
func (l *Log) Closed() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.closed
}

func (l *Log) subscribeLocked() (<-chan Change, func()) {
	if l.closed {
		ch := make(chan Change)
		close(ch)
		return ch, func() {}
	}

	id := l.nextSub
	l.nextSub++
	ch := make(chan Change, l.buffer)
	l.subs[id] = ch

	return ch, func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		if c, ok := l.subs[id]; ok {
			delete(l.subs, id)
			close(c)
		}
	}
}

// Close disconnects every subscriber. The log stays readable.
func (l *Log) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	for id, ch := range l.subs {
		delete(l.subs, id)
		close(ch)
	}
}

// notify must be called with l.mu held.
func (l *Log) notify(c Change) {
	if l.onChange != nil {
		l.onChange(c)
	}
	for id, ch := range l.subs {
		select {
		case ch <- c:
		default:
			delete(l.subs, id)
			close(ch)
		}
	}
}
