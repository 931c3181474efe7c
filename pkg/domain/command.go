package domain

// CommandKind defines what a resolved token does.
type CommandKind string

const (
	// KindImmediate appends a fixed list of lines after the echo.
	KindImmediate CommandKind = "immediate"
	// KindPipeline starts the step sequencer.
	KindPipeline CommandKind = "pipeline"
	// KindClear wipes the transcript without echoing. Reserved for the "clear" token.
	KindClear CommandKind = "clear"
)

// ClearToken is the registry-reserved token that empties the transcript.
const ClearToken = "clear"

// CommandEntry is a single registry row.
type CommandEntry struct {
	Token       string      `json:"token"`
	Kind        CommandKind `json:"kind"`
	Description string      `json:"description,omitempty"`

	// Lines is the response for KindImmediate.
	Lines []Line `json:"lines,omitempty"`

	// Pipeline is the script for KindPipeline.
	Pipeline *Pipeline `json:"pipeline,omitempty"`
}
