package deadline

import (
	"context"
	"sync"
	"time"
)

// DefaultTick is the countdown refresh interval.
const DefaultTick = time.Second

// Countdown periodically recomputes the time left until one deadline and
// hands it to a callback. It owns a ticker that is released when the
// countdown stops, which happens on Stop, on context cancellation, or right
// after the zero value has been delivered.
type Countdown struct {
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// StartCountdown delivers Remaining(now(), d) to fn immediately and then
// every interval. now defaults to time.Now and a non-positive interval to
// DefaultTick. fn runs on the countdown goroutine and must not call Stop.
func StartCountdown(ctx context.Context, now func() time.Time, d time.Time, interval time.Duration, fn func(Duration)) *Countdown {
	if now == nil {
		now = time.Now
	}
	if interval <= 0 {
		interval = DefaultTick
	}

	c := &Countdown{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}

	go c.run(ctx, now, d, interval, fn)
	return c
}

func (c *Countdown) run(ctx context.Context, now func() time.Time, d time.Time, interval time.Duration, fn func(Duration)) {
	defer close(c.done)

	tick := func() bool {
		r := Remaining(now(), d)
		fn(r)
		return r.Passed()
	}

	if tick() {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.stop:
			return
		case <-ticker.C:
			if tick() {
				return
			}
		}
	}
}

// Stop ends the countdown and waits until its goroutine has released the
// ticker. It is safe to call more than once.
func (c *Countdown) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
	<-c.done
}

// Done is closed once the countdown has stopped for any reason.
func (c *Countdown) Done() <-chan struct{} {
	return c.done
}
