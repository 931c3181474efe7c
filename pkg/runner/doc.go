/*
Package runner drives a console from a line-oriented stream.

It is the bridge between a Console (the state machine) and the outside world: input lines
are read by a pump goroutine, sanitized and submitted; transcript changes are streamed back
through an IOHandler. While a pipeline runs the prompt is hidden and input is read but
dropped, the same way a form disappears from a busy terminal view.

# Key Components

  - Runner: the loop that multiplexes input, transcript changes and completion.
  - IOHandler: decouples presentation (text, JSON lines) from the loop.
  - TextHandler: interactive text mode with a per-tag Styler.
  - JSONHandler: structured JSON-Lines mode for scripts and other programs.

# Usage

	console, _ := aria.New(aria.WithScript("prime"))
	defer console.Close()

	r := runner.NewRunner(
		runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout,
			runner.WithStyler(runner.NewTermenvStyler(termenv.NewOutput(os.Stdout))),
		)),
	)
	if err := r.Run(ctx, console); err != nil {
		log.Fatal(err)
	}
*/
package runner
