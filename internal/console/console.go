// internal/console/console.go
//
// Terminal rendering collaborator.
// Responsibilities:
//   - Read one command per input line: a guess, "new", or "quit".
//   - Render message, indicator, and attempt count after every transition.
//   - Ignore guesses once a round is won; "new" is always available.
//   - Return promptly when the context is cancelled, even with idle input.

package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/robalobadob/guessnumber/internal/game"
	"github.com/robalobadob/guessnumber/internal/view"
)

var glyphs = map[view.Indicator]string{
	view.IndicatorBlank:  "   ",
	view.IndicatorUp:     " ^ ",
	view.IndicatorDown:   " v ",
	view.IndicatorTrophy: "***",
}

// Run reads commands from in and renders to out until the input ends or ctx is done.
// Cancelling ctx returns promptly even while in is blocked; the reader
// goroutine then stays parked on in until it yields or is closed.
func Run(ctx context.Context, in io.Reader, out io.Writer, ev *game.Evaluator) error {
	st := ev.StartRound()
	if err := render(out, view.Render(st), nil); err != nil {
		return err
	}

	lines, scanErr := readLines(ctx, in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		var raw string
		select {
		case <-ctx.Done():
			return ctx.Err()
		case l, ok := <-lines:
			if !ok {
				return <-scanErr
			}
			raw = l
		}
		line := strings.TrimSpace(raw)

		switch strings.ToLower(line) {
		case "quit", "exit":
			return nil
		case "new":
			st = ev.StartRound()
			if err := render(out, view.Render(st), nil); err != nil {
				return err
			}
			continue
		}
		if st.Won() {
			continue
		}

		o := ev.Evaluate(st, line)
		st = o.State
		if err := render(out, view.Render(st), view.PulseFor(o)); err != nil {
			return err
		}
	}
}

// readLines scans in on its own goroutine. lines is closed at EOF or on a
// read error, after which scanErr yields the scanner error (nil at EOF).
func readLines(ctx context.Context, in io.Reader) (<-chan string, <-chan error) {
	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				scanErr <- ctx.Err()
				return
			}
		}
		scanErr <- sc.Err()
	}()
	return lines, scanErr
}

func render(out io.Writer, snap view.Snapshot, pulse *view.Pulse) error {
	prefix := ""
	if pulse != nil {
		prefix = "! "
	}
	_, err := fmt.Fprintf(out, "%s[%s] %s (attempts: %d)\n", prefix, glyphs[snap.Indicator], snap.Message, snap.Attempts)
	if err != nil {
		return err
	}
	if snap.Control == view.ControlNewRound {
		_, err = fmt.Fprintln(out, "Type \"new\" to play again or \"quit\" to exit.")
	}
	return err
}
