package domain

// State is the externally observable snapshot of a console engine.
type State struct {
	// Busy is true for the whole span between a pipeline's start and its last line.
	Busy bool `json:"busy"`

	// Running names the active pipeline, empty when idle.
	Running string `json:"running,omitempty"`

	// Lines is a copy of the transcript in insertion order.
	Lines []Line `json:"lines"`
}

// Outcome is what a single submission did to the transcript.
type Outcome struct {
	// Accepted is false for empty input, input rejected while busy, and closed consoles.
	Accepted bool `json:"accepted"`

	// Cleared is set when the submission wiped the transcript.
	Cleared bool `json:"cleared,omitempty"`

	// Lines holds what the submission appended synchronously: the echo followed by the
	// response or the pipeline preamble. Timed pipeline lines arrive later.
	Lines []Line `json:"lines"`
}
