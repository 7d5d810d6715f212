package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophtodo/internal/deadline"
)

var errNoDeadline = errors.New("task has no deadline")

// Watch shows a live countdown to a task's deadline until the user presses
// Enter. Once the deadline is reached the countdown stops by itself and
// shows "Deadline passed!". If ctx is cancelled first, the pending Enter
// read is left behind; runREPL reads nothing more after that.
func (a *App) Watch(ctx context.Context, ref string) error {
	item, err := a.resolve(ctx, ref)
	if err != nil {
		return err
	}
	if item.Deadline == nil {
		return errNoDeadline
	}

	fmt.Fprintf(a.out, "%s (press Enter to stop)\n", item.Text)

	enter := make(chan struct{})
	go func() {
		_, _ = a.reader.ReadString('\n')
		close(enter)
	}()

	cd := deadline.StartCountdown(ctx, a.now, *item.Deadline, a.config.CountdownTick, func(r deadline.Duration) {
		if r.Passed() {
			fmt.Fprintln(a.out, "Deadline passed!")
			return
		}
		fmt.Fprintf(a.out, "Time left: %s\n", r)
	})

	select {
	case <-enter:
		cd.Stop()
	case <-cd.Done():
		select {
		case <-enter:
		case <-ctx.Done():
		}
	case <-ctx.Done():
		cd.Stop()
	}
	return nil
}
