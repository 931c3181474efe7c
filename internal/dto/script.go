package dto

import "time"

// Script is the on-disk shape of a console script (YAML or JSON).
// It uses "mapstructure" tags so both formats decode through the same generic map.
type Script struct {
	Name         string `json:"name" mapstructure:"name"`
	Description  string `json:"description" mapstructure:"description"`
	Prompt       string `json:"prompt" mapstructure:"prompt"`
	Unrecognized string `json:"unrecognized" mapstructure:"unrecognized"`

	// Pace forces a constant delay on every pipeline step ("600ms" or 600).
	Pace *time.Duration `json:"pace" mapstructure:"pace"`

	Banner    []Line     `json:"banner" mapstructure:"banner"`
	Commands  []Command  `json:"commands" mapstructure:"commands"`
	Pipelines []Pipeline `json:"pipelines" mapstructure:"pipelines"`
	Help      *Help      `json:"help" mapstructure:"help"`
}

// Line accepts either a bare string or {text, tag}.
type Line struct {
	Text string `json:"text" mapstructure:"text"`
	Tag  string `json:"tag" mapstructure:"tag"`
}

// Step accepts either a bare string or {text, tag, delay}.
type Step struct {
	Text  string `json:"text" mapstructure:"text"`
	Tag   string `json:"tag" mapstructure:"tag"`
	Delay *time.Duration `json:"delay" mapstructure:"delay"`
}

type Command struct {
	Token       string   `json:"token" mapstructure:"token"`
	Description string   `json:"description" mapstructure:"description"`
	Lines       []Line   `json:"lines" mapstructure:"lines"`
	Aliases     []string `json:"aliases" mapstructure:"aliases"`
}

type Pipeline struct {
	Name        string   `json:"name" mapstructure:"name"`
	Description string   `json:"description" mapstructure:"description"`
	Aliases     []string `json:"aliases" mapstructure:"aliases"`

	// Delay applies to steps that do not set their own.
	Delay *time.Duration `json:"delay" mapstructure:"delay"`

	Preamble []Line `json:"preamble" mapstructure:"preamble"`
	Steps    []Step `json:"steps" mapstructure:"steps"`
	Summary  []Step `json:"summary" mapstructure:"summary"`
}

// Help generates a help command listing every other command.
type Help struct {
	Token       string `json:"token" mapstructure:"token"`
	Description string `json:"description" mapstructure:"description"`
	Header      []Line `json:"header" mapstructure:"header"`
}
