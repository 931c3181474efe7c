package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aretw0/aria/pkg/domain"
	"github.com/aretw0/aria/pkg/runner"
	"github.com/aretw0/aria/pkg/script"
	"github.com/aretw0/aria/pkg/sequencer"
)

// PlayBoot writes the boot sequence to w, one line per elapsed delay.
// A zero pace keeps the delays of the boot script. It returns ctx.Err() when interrupted.
func PlayBoot(ctx context.Context, w io.Writer, styler runner.Styler, pace time.Duration, clock sequencer.Clock) error {
	p, err := script.Boot()
	if err != nil {
		return err
	}
	if styler == nil {
		styler = runner.PlainStyler
	}

	seq := sequencer.New(sequencer.WithClock(clock), sequencer.WithPace(pace))
	var writeErr error
	done := seq.Run(ctx, p, func(lines ...domain.Line) {
		for _, l := range lines {
			if writeErr != nil {
				return
			}
			_, writeErr = fmt.Fprintln(w, styler(l))
		}
	})
	if writeErr != nil {
		return writeErr
	}
	if done.Err != nil {
		return ctx.Err()
	}
	return nil
}
