package domain

import "strings"

// Tag classifies a Line for presentation. Control logic never branches on it.
type Tag string

const (
	TagPlain      Tag = "plain"
	TagPromptEcho Tag = "prompt-echo"
	TagBanner     Tag = "banner"
	TagSuccess    Tag = "success"
	TagError      Tag = "error"
	TagNotice     Tag = "notice" // summary headings ("next steps" blocks)
	TagStatus     Tag = "status" // ">"-prefixed progress lines
)

// Valid reports whether t is one of the known tags.
func (t Tag) Valid() bool {
	switch t {
	case TagPlain, TagPromptEcho, TagBanner, TagSuccess, TagError, TagNotice, TagStatus:
		return true
	}
	return false
}

// Line is a single row of the console transcript.
type Line struct {
	Text string `json:"text"`
	Tag  Tag    `json:"tag,omitempty"`
}

// Plain returns an untagged line.
func Plain(text string) Line {
	return Line{Text: text, Tag: TagPlain}
}

// Tagged returns a line carrying the given tag. An empty tag is normalized to TagPlain.
func Tagged(text string, tag Tag) Line {
	if tag == "" {
		tag = TagPlain
	}
	return Line{Text: text, Tag: tag}
}

// Echo builds the prompt-echo line written before a command's response.
func Echo(prompt, input string) Line {
	prompt = strings.TrimRight(prompt, " ")
	if prompt == "" {
		return Line{Text: input, Tag: TagPromptEcho}
	}
	return Line{Text: prompt + " " + input, Tag: TagPromptEcho}
}

// PlainLines converts a list of strings into untagged lines.
func PlainLines(texts ...string) []Line {
	lines := make([]Line, len(texts))
	for i, t := range texts {
		lines[i] = Plain(t)
	}
	return lines
}

// Texts returns only the text of each line, in order.
func Texts(lines []Line) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Text
	}
	return out
}
