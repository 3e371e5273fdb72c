// Package throttle keeps outbound requests under a sliding-window rate.
package throttle

import (
	"context"
	"sync"
	"time"
)

const (
	// DefaultLimit is the number of requests github accepts per window
	DefaultLimit = 60
	// DefaultWindow is the length of the sliding window
	DefaultWindow = time.Minute
)

// Throttle delays callers so that no more than Limit requests are issued within any trailing Window.
// A nil *Throttle never waits.
type Throttle struct {
	limit  int
	window time.Duration
	now    func() time.Time
	sleep  func(ctx context.Context, d time.Duration) error

	mu     sync.Mutex
	stamps []time.Time
}

// Option configures a Throttle
type Option func(*Throttle)

// WithLimit overrides DefaultLimit and DefaultWindow
func WithLimit(limit int, window time.Duration) Option {
	return func(t *Throttle) {
		t.limit = limit
		t.window = window
	}
}

// WithClock replaces the wall clock and the sleeper, mostly for tests
func WithClock(now func() time.Time, sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(t *Throttle) {
		if now != nil {
			t.now = now
		}
		if sleep != nil {
			t.sleep = sleep
		}
	}
}

// New creates a throttle with 60 requests per minute unless told otherwise
func New(opts ...Option) *Throttle {
	t := &Throttle{
		limit:  DefaultLimit,
		window: DefaultWindow,
		now:    time.Now,
		sleep:  sleepContext,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.limit < 1 {
		t.limit = 1
	}
	return t
}

// Wait blocks until a request can be issued without exceeding the limit, then records it.
// The only error it returns is the context's.
func (t *Throttle) Wait(ctx context.Context) error {
	if t == nil {
		return nil
	}

	at, delay := t.reserve()
	if delay <= 0 {
		return nil
	}

	if err := t.sleep(ctx, delay); err != nil {
		t.release(at)
		return err
	}

	return nil
}

// Delay reports how long a request issued now would have to wait, without recording anything
func (t *Throttle) Delay() time.Duration {
	if t == nil {
		return 0
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	t.expire(now)

	return t.delayFor(now)
}

// Len is the number of requests currently inside the window
func (t *Throttle) Len() int {
	if t == nil {
		return 0
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.expire(t.now())

	return len(t.stamps)
}

// reserve records the moment the caller's request will go out.
// Reservations past now count against the window like issued requests do.
func (t *Throttle) reserve() (time.Time, time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	t.expire(now)

	delay := t.delayFor(now)
	at := now.Add(delay)
	t.stamps = append(t.stamps, at)

	return at, delay
}

// release drops a reservation whose caller gave up
func (t *Throttle) release(at time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i := len(t.stamps) - 1; i >= 0; i-- {
		if t.stamps[i].Equal(at) {
			t.stamps = append(t.stamps[:i], t.stamps[i+1:]...)
			return
		}
	}
}

// expire drops the stamps at or before now-window. Stamps are kept sorted.
func (t *Throttle) expire(now time.Time) {
	cutoff := now.Add(-t.window)

	i := 0
	for i < len(t.stamps) && !t.stamps[i].After(cutoff) {
		i++
	}
	if i > 0 {
		t.stamps = append(t.stamps[:0], t.stamps[i:]...)
	}
}

func (t *Throttle) delayFor(now time.Time) time.Duration {
	if len(t.stamps) < t.limit {
		return 0
	}

	// the request leaving the window that brings the count under the limit
	oldest := t.stamps[len(t.stamps)-t.limit]
	delay := oldest.Add(t.window).Sub(now)
	if delay < 0 {
		delay = 0
	}

	return delay
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
