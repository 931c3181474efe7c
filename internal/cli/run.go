package cli

import (
	"errors"
	"io"
	"os"
	"time"

	"golang.org/x/term"
)

// RunOptions contains all the configuration for the Run command.
type RunOptions struct {
	Script   string
	Pace     time.Duration
	TUI      bool
	JSON     bool
	Headless bool
	NoBoot   bool
	// BootPace overrides the boot sequence delays (zero keeps the script's).
	BootPace time.Duration

	Log LogOptions

	Persona string
	Profile string
	APIKey  string
	Model   string
	Prefs   PrefsOptions

	// In and Out default to Stdin and Stdout.
	In  io.Reader
	Out io.Writer
}

// Execute validates the flag combination and runs a console session.
func Execute(opts RunOptions) error {
	if opts.TUI && (opts.JSON || opts.Headless) {
		return errors.New("--tui cannot be combined with --json or --headless")
	}
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	return RunSession(opts)
}

// isTerminal reports whether both ends are attached to a terminal.
func isTerminal(r io.Reader, w io.Writer) bool {
	in, ok := r.(*os.File)
	if !ok || !term.IsTerminal(int(in.Fd())) {
		return false
	}
	out, ok := w.(*os.File)
	return ok && term.IsTerminal(int(out.Fd()))
}
