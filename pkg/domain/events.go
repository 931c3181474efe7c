package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventCommand       EventType = "command"
	EventReject        EventType = "reject"
	EventPipelineStart EventType = "pipeline_start"
	EventStep          EventType = "step"
	EventPipelineDone  EventType = "pipeline_done"
	EventClear         EventType = "clear"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Console   string    `json:"console,omitempty"`
}

// CommandEvent describes a submission accepted or rejected at the engine boundary.
type CommandEvent struct {
	EventBase
	Input string      `json:"input"`
	Token string      `json:"token"`
	Kind  CommandKind `json:"kind,omitempty"`
	Found bool        `json:"found"`
}

// PipelineEvent describes pipeline progress.
type PipelineEvent struct {
	EventBase
	Pipeline string        `json:"pipeline"`
	Index    int           `json:"index,omitempty"`
	Emitted  int           `json:"emitted,omitempty"`
	Elapsed  time.Duration `json:"elapsed,omitempty"`
	Err      error         `json:"-"`
}

// LifecycleHooks defines callbacks for engine observability.
// Every field is optional.
type LifecycleHooks struct {
	OnCommand       func(context.Context, *CommandEvent)
	OnReject        func(context.Context, *CommandEvent)
	OnClear         func(context.Context, *CommandEvent)
	OnPipelineStart func(context.Context, *PipelineEvent)
	OnStep          func(context.Context, *PipelineEvent)
	OnPipelineDone  func(context.Context, *PipelineEvent)
}

// Merge combines several hook sets; each callback fans out in argument order.
func Merge(hooks ...LifecycleHooks) LifecycleHooks {
	var out LifecycleHooks
	for _, h := range hooks {
		out.OnCommand = chainCommand(out.OnCommand, h.OnCommand)
		out.OnReject = chainCommand(out.OnReject, h.OnReject)
		out.OnClear = chainCommand(out.OnClear, h.OnClear)
		out.OnPipelineStart = chainPipeline(out.OnPipelineStart, h.OnPipelineStart)
		out.OnStep = chainPipeline(out.OnStep, h.OnStep)
		out.OnPipelineDone = chainPipeline(out.OnPipelineDone, h.OnPipelineDone)
	}
	return out
}

func chainCommand(a, b func(context.Context, *CommandEvent)) func(context.Context, *CommandEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *CommandEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}

func chainPipeline(a, b func(context.Context, *PipelineEvent)) func(context.Context, *PipelineEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *PipelineEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}
