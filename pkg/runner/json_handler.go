package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/aretw0/aria/pkg/domain"
)

// JSONEvent is one JSON-Lines record written by JSONHandler.
type JSONEvent struct {
	Type    string        `json:"type"` // lines | cleared | prompt | system
	Lines   []domain.Line `json:"lines,omitempty"`
	Prompt  string        `json:"prompt,omitempty"`
	Message string        `json:"message,omitempty"`
}

// JSONHandler implements the IOHandler interface for structured JSON-Lines communication.
type JSONHandler struct {
	Reader  *bufio.Reader
	Writer  io.Writer
	Encoder *json.Encoder

	mu sync.Mutex
}

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{
		Reader:  bufio.NewReader(r),
		Writer:  w,
		Encoder: json.NewEncoder(w),
	}
}

func (h *JSONHandler) emit(e JSONEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.Encoder.Encode(e)
}

func (h *JSONHandler) Output(ctx context.Context, lines []domain.Line) error {
	if len(lines) == 0 {
		return nil
	}
	return h.emit(JSONEvent{Type: "lines", Lines: lines})
}

func (h *JSONHandler) Clear(ctx context.Context) error {
	return h.emit(JSONEvent{Type: "cleared"})
}

func (h *JSONHandler) Prompt(ctx context.Context, prompt string) error {
	return h.emit(JSONEvent{Type: "prompt", Prompt: prompt})
}

func (h *JSONHandler) SystemOutput(ctx context.Context, msg string) error {
	return h.emit(JSONEvent{Type: "system", Message: msg})
}

// Input accepts a JSON string ("help"), an object ({"input": "help"}) or a raw line.
// It blocks on the reader; the runner calls it from its own goroutine.
func (h *JSONHandler) Input(ctx context.Context) (string, error) {
	text, err := h.Reader.ReadString('\n')
	if err != nil && (err != io.EOF || text == "") {
		return "", err
	}
	text = strings.TrimSpace(text)

	var val string
	if err := json.Unmarshal([]byte(text), &val); err == nil {
		return SanitizeInput(val)
	}
	var obj struct {
		Input string `json:"input"`
	}
	if err := json.Unmarshal([]byte(text), &obj); err == nil {
		return SanitizeInput(obj.Input)
	}
	return SanitizeInput(text)
}
