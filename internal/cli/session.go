package cli

import (
	"context"
	"fmt"

	"github.com/aretw0/aria/internal/presentation/tui"
	"github.com/aretw0/aria/pkg/runner"
	"github.com/muesli/termenv"
)

// RunSession executes a single console session.
func RunSession(opts RunOptions) error {
	logger, err := CreateLogger(opts.Log)
	if err != nil {
		return err
	}

	console, err := NewConsole(ConsoleOptions{
		Script: opts.Script,
		Pace:   opts.Pace,
		Logger: logger,
	})
	if err != nil {
		return err
	}
	defer console.Close()

	sigCtx := NewSignalContext(context.Background())
	defer sigCtx.Cancel()

	if opts.TUI {
		return handleExecutionError(tui.Run(console))
	}

	interactive := !opts.JSON && !opts.Headless && isTerminal(opts.In, opts.Out)
	quiet := opts.JSON || opts.Headless

	var handler runner.IOHandler
	if opts.JSON {
		handler = runner.NewJSONHandler(opts.In, opts.Out)
	} else {
		textOpts := []runner.TextHandlerOption{}
		if interactive {
			out := termenv.NewOutput(opts.Out)
			styler := runner.NewTermenvStyler(out)
			textOpts = append(textOpts,
				runner.WithStyler(styler),
				runner.WithTextHandlerRenderer(tui.NewRenderer(0)),
				runner.WithClearScreen(out.ClearScreen),
			)

			if !opts.NoBoot {
				if err := PlayBoot(sigCtx, opts.Out, styler, opts.BootPace, nil); err != nil {
					return handleExecutionError(err)
				}
				out.ClearScreen()
			}
			tui.PrintBanner(opts.Out)
		}
		text := runner.NewTextHandler(opts.In, opts.Out, textOpts...)
		defer text.Close()
		handler = text
	}

	prefs, closePrefs, err := OpenPreferences(opts.Prefs)
	if err != nil {
		return err
	}
	defer func() {
		if err := closePrefs(); err != nil {
			logger.Warn("failed to close preferences store", "err", err)
		}
	}()

	panel, err := NewChatPanel(sigCtx, ChatOptions{
		APIKey:      opts.APIKey,
		Model:       opts.Model,
		Persona:     opts.Persona,
		Profile:     opts.Profile,
		Preferences: prefs,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("failed to init chat: %w", err)
	}

	r := runner.NewRunner(
		runner.WithLogger(logger),
		runner.WithInputHandler(handler),
		runner.WithHeadless(quiet),
		runner.WithInterceptor(runner.MultiInterceptor(
			runner.ExitInterceptor(),
			ChatInterceptor(panel, handler),
		)),
	)

	logger.Info("console started", "console", console.Name(), "interactive", interactive)
	runErr := r.Run(sigCtx, console)

	if sigCtx.Err() != nil && runErr == nil {
		runErr = sigCtx.Err()
	}
	logCompletion(opts.Out, console.Name(), runErr, quiet, sigCtx.Signal())

	return handleExecutionError(runErr)
}
