package loop

import (
	"fmt"
	"time"
)

// Stats measures frame rate over one-second windows.
type Stats struct {
	windowStart time.Time
	frames      int
	last        time.Time

	fps       float64
	frameTime time.Duration
}

// NewStats starts measuring at now.
func NewStats(now time.Time) *Stats {
	return &Stats{windowStart: now, last: now}
}

// Tick records a finished frame and returns the time since the previous one.
// It reports whether a new fps value is available.
func (s *Stats) Tick(now time.Time) (dt time.Duration, updated bool) {
	dt = now.Sub(s.last)
	s.last = now
	s.frames++

	elapsed := now.Sub(s.windowStart)
	if elapsed < time.Second {
		return dt, false
	}
	s.fps = float64(s.frames) / elapsed.Seconds()
	s.frameTime = elapsed / time.Duration(s.frames)
	s.frames = 0
	s.windowStart = now
	return dt, true
}

// FPS returns the frame rate of the last full window.
func (s *Stats) FPS() float64 {
	return s.fps
}

// Text formats the stats for the debug overlay.
func (s *Stats) Text() string {
	return fmt.Sprintf("fps %.0f  frame %.2fms", s.fps, float64(s.frameTime.Microseconds())/1000)
}

// Limiter sleeps to hold a maximum frame rate.
type Limiter struct {
	period time.Duration
	next   time.Time
}

// NewLimiter limits to fps frames per second. Zero or less disables it.
func NewLimiter(fps int) *Limiter {
	l := &Limiter{}
	if fps > 0 {
		l.period = time.Second / time.Duration(fps)
	}
	return l
}

// Delay returns how long to wait at now before starting the next frame.
func (l *Limiter) Delay(now time.Time) time.Duration {
	if l.period == 0 {
		return 0
	}
	if l.next.IsZero() || now.Sub(l.next) > l.period {
		// First frame, or too far behind to catch up.
		l.next = now.Add(l.period)
		return 0
	}
	wait := l.next.Sub(now)
	l.next = l.next.Add(l.period)
	if wait < 0 {
		return 0
	}
	return wait
}

// Wait sleeps until the next frame is due or done is closed.
func (l *Limiter) Wait(done <-chan struct{}) {
	d := l.Delay(time.Now())
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-done:
	}
}
