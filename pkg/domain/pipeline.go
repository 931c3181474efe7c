package domain

import (
	"fmt"
	"time"
)

// Step is one timed line of a Pipeline.
// The line is emitted only after Delay has elapsed since the previous emission.
type Step struct {
	Line  Line          `json:"line"`
	Delay time.Duration `json:"delay"`
}

// Pipeline is a named script of timed output lines narrating a multi-phase process.
// It is pure data: the sequencer owns the timing, the engine owns the transcript.
type Pipeline struct {
	Name string `json:"name"`

	// Preamble is appended synchronously when the pipeline starts.
	Preamble []Line `json:"preamble,omitempty"`

	// Steps are the numbered phases, emitted one per delay.
	Steps []Step `json:"steps"`

	// Summary follows the last step with the same timing rules.
	Summary []Step `json:"summary,omitempty"`
}

// Validate checks the pipeline invariants.
func (p Pipeline) Validate() error {
	if p.Name == "" {
		return ErrUnnamedPipeline
	}
	for i, s := range p.Steps {
		if s.Delay < 0 {
			return fmt.Errorf("%w: pipeline %q step %d", ErrNegativeDelay, p.Name, i+1)
		}
	}
	for i, s := range p.Summary {
		if s.Delay < 0 {
			return fmt.Errorf("%w: pipeline %q summary line %d", ErrNegativeDelay, p.Name, i+1)
		}
	}
	return nil
}

// Timed returns Steps followed by Summary, the part of the pipeline emitted after delays.
func (p Pipeline) Timed() []Step {
	out := make([]Step, 0, len(p.Steps)+len(p.Summary))
	out = append(out, p.Steps...)
	return append(out, p.Summary...)
}

// Lines flattens the pipeline into the exact order its lines reach the transcript.
func (p Pipeline) Lines() []Line {
	out := make([]Line, 0, p.Len())
	out = append(out, p.Preamble...)
	for _, s := range p.Timed() {
		out = append(out, s.Line)
	}
	return out
}

// Len is the number of lines the pipeline emits, excluding the command echo.
func (p Pipeline) Len() int {
	return len(p.Preamble) + len(p.Steps) + len(p.Summary)
}

// Duration is the sum of all step delays.
func (p Pipeline) Duration() time.Duration {
	var total time.Duration
	for _, s := range p.Timed() {
		total += s.Delay
	}
	return total
}

// WithPace returns a copy of p where every timed line waits exactly d.
// Used for consoles that narrate at a constant rhythm.
func (p Pipeline) WithPace(d time.Duration) Pipeline {
	out := Pipeline{Name: p.Name, Preamble: append([]Line(nil), p.Preamble...)}
	out.Steps = make([]Step, len(p.Steps))
	for i, s := range p.Steps {
		out.Steps[i] = Step{Line: s.Line, Delay: d}
	}
	if len(p.Summary) > 0 {
		out.Summary = make([]Step, len(p.Summary))
		for i, s := range p.Summary {
			out.Summary[i] = Step{Line: s.Line, Delay: d}
		}
	}
	return out
}
