package history

import "github.com/aretw0/aria/pkg/domain"

// Subscription is a copy of the log together with the changes that follow it.
type Subscription struct {
	Lines   []domain.Line
	Epoch   int
	Changes <-chan Change
	Cancel  func()
}

// Missed returns the changes that bring a reader who has seen the log up to
// (epoch, length) to the state captured in s: nothing, an Appended tail, or a
// Cleared followed by the whole log.
func (s Subscription) Missed(epoch, length int) []Change {
	if s.Epoch == epoch {
		if len(s.Lines) <= length {
			return nil
		}
		return []Change{{
			Kind:  Appended,
			Lines: append([]domain.Line(nil), s.Lines[length:]...),
			Len:   len(s.Lines),
			Epoch: s.Epoch,
		}}
	}

	out := []Change{{Kind: Cleared, Epoch: s.Epoch}}
	if len(s.Lines) > 0 {
		out = append(out, Change{
			Kind:  Appended,
			Lines: append([]domain.Line(nil), s.Lines...),
			Len:   len(s.Lines),
			Epoch: s.Epoch,
		})
	}
	return out
}

// Source is a followable transcript: a Log, or a console that owns one.
type Source interface {
	Follow() Subscription
	Closed() bool
}

// Follower reads a Source without losing changes. When the log drops it for
// falling behind, it resubscribes and replays what was missed.
type Follower struct {
	src    Source
	sub    Subscription
	epoch  int
	length int
}

// NewFollower subscribes to src. Lines holds the transcript up to that point.
func NewFollower(src Source) *Follower {
	sub := src.Follow()
	return &Follower{src: src, sub: sub, epoch: sub.Epoch, length: len(sub.Lines)}
}

// Lines is the transcript as it was when the follower subscribed.
func (f *Follower) Lines() []domain.Line {
	return f.sub.Lines
}

// Changes is the current subscription channel. It changes after a resubscribe,
// so read it again on every receive.
func (f *Follower) Changes() <-chan Change {
	return f.sub.Changes
}

// Receive takes the result of a receive from Changes and returns the changes to
// render. It reports false once the source itself is closed.
func (f *Follower) Receive(c Change, ok bool) ([]Change, bool) {
	if ok {
		f.track(c)
		return []Change{c}, true
	}
	if f.src.Closed() {
		return nil, false
	}

	f.sub.Cancel()
	f.sub = f.src.Follow()
	missed := f.sub.Missed(f.epoch, f.length)
	f.epoch, f.length = f.sub.Epoch, len(f.sub.Lines)
	return missed, true
}

// Close ends the current subscription.
func (f *Follower) Close() {
	f.sub.Cancel()
}

func (f *Follower) track(c Change) {
	f.epoch = c.Epoch
	f.length = c.Len
}
