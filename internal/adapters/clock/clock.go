package clock

import (
	"context"
	"time"
)

// Clock provides time.Now() access and frame pacing.
type Clock struct{}

// NowUnix returns current unix seconds.
func (Clock) NowUnix() int64 {
	return time.Now().Unix()
}

// Frames delivers a tick every interval until ctx is done.
func (Clock) Frames(ctx context.Context, interval time.Duration) <-chan time.Time {
	out := make(chan time.Time)
	go func() {
		defer close(out)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case t := <-ticker.C:
				select {
				case out <- t:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

// Manual is a frame source driven by tests.
type Manual struct {
	C chan time.Time
}

// NewManual returns a manual clock with an unbuffered frame channel.
func NewManual() *Manual {
	return &Manual{C: make(chan time.Time)}
}

// NowUnix returns current unix seconds.
func (m *Manual) NowUnix() int64 {
	return time.Now().Unix()
}

// Frames returns the manual frame channel.
func (m *Manual) Frames(context.Context, time.Duration) <-chan time.Time {
	return m.C
}

// Step delivers one frame.
func (m *Manual) Step() {
	m.C <- time.Now()
}
