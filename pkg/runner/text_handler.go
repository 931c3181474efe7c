package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/aria/pkg/domain"
)

// TextHandler implements the standard text-based interface.
type TextHandler struct {
	Reader   *bufio.Reader
	Writer   io.Writer
	Styler   Styler
	Renderer ContentRenderer

	// ClearScreen is called when the transcript is wiped. Nil leaves the screen as is.
	ClearScreen func()

	mu        sync.Mutex
	inputChan chan inputResult
	stop      chan struct{}
	startOnce sync.Once
	stopOnce  sync.Once
}

type inputResult struct {
	text string
	err  error
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithStyler configures how lines are coloured.
func WithStyler(s Styler) TextHandlerOption {
	return func(h *TextHandler) {
		if s != nil {
			h.Styler = s
		}
	}
}

// WithTextHandlerRenderer configures the system message renderer.
func WithTextHandlerRenderer(renderer ContentRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Renderer = renderer
	}
}

// WithClearScreen configures the screen wipe used by the clear command.
func WithClearScreen(fn func()) TextHandlerOption {
	return func(h *TextHandler) {
		h.ClearScreen = fn
	}
}

// NewTextHandler creates a handler for standard text IO.
func NewTextHandler(r io.Reader, w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		Reader: bufio.NewReader(r),
		Writer: w,
		Styler: PlainStyler,
		stop:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *TextHandler) initPump() {
	h.startOnce.Do(func() {
		h.inputChan = make(chan inputResult)
		go h.pump()
	})
}

// pump owns the reader. It outlives a cancelled Input call so no line is lost between reads.
func (h *TextHandler) pump() {
	for {
		text, err := h.Reader.ReadString('\n')
		if text != "" && !h.send(inputResult{text: text}) {
			return
		}
		if err != nil {
			if err == io.EOF {
				close(h.inputChan)
				return
			}
			if !h.send(inputResult{err: err}) {
				return
			}
			// Backoff for persistent read failures.
			time.Sleep(50 * time.Millisecond)
		}
	}
}

func (h *TextHandler) send(res inputResult) bool {
	select {
	case h.inputChan <- res:
		return true
	case <-h.stop:
		return false
	}
}

// Close releases the pump goroutine once its pending read returns.
func (h *TextHandler) Close() error {
	h.stopOnce.Do(func() { close(h.stop) })
	return nil
}

func (h *TextHandler) Output(ctx context.Context, lines []domain.Line) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, l := range lines {
		if _, err := fmt.Fprintln(h.Writer, h.Styler(l)); err != nil {
			return err
		}
	}
	return nil
}

func (h *TextHandler) Clear(ctx context.Context) error {
	if h.ClearScreen != nil {
		h.ClearScreen()
	}
	return nil
}

func (h *TextHandler) Prompt(ctx context.Context, prompt string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if prompt == "" {
		prompt = ">"
	}
	_, err := fmt.Fprint(h.Writer, h.Styler(domain.Tagged(prompt, domain.TagPromptEcho))+" ")
	return err
}

func (h *TextHandler) Input(ctx context.Context) (string, error) {
	h.initPump()

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case res, ok := <-h.inputChan:
			if !ok {
				return "", io.EOF
			}
			if res.err != nil {
				return "", res.err
			}
			clean, err := SanitizeInput(strings.TrimRight(res.text, "\r\n"))
			if err != nil {
				if sysErr := h.SystemOutput(ctx, fmt.Sprintf("Error: %v. Please try again.", err)); sysErr != nil {
					return "", sysErr
				}
				continue
			}
			return clean, nil
		}
	}
}

func (h *TextHandler) SystemOutput(ctx context.Context, msg string) error {
	output := msg
	if h.Renderer != nil {
		if rendered, err := h.Renderer(msg); err == nil {
			output = strings.TrimSpace(rendered)
		}
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := fmt.Fprintf(h.Writer, "[System] %s\n", output)
	return err
}
