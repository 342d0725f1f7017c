// Package entity provides the renderables the viewer populates its scene with.
//
// Every entity is an actor. It answers the renderer's SetupInScene and
// RenderToScene notifications with geometry messages and keeps its own state
// private to its mailbox.
package entity

import (
	"time"

	"github.com/chewxy/math32"
)

// Clock returns the time in seconds used to animate entities.
type Clock func() float32

// WallClock returns a Clock counting seconds since it was created.
func WallClock() Clock {
	start := time.Now()
	return func() float32 {
		return float32(time.Since(start).Seconds())
	}
}

// FixedClock always returns t.
func FixedClock(t float32) Clock {
	return func() float32 { return t }
}

// wave maps a phase to a color channel in [0.15, 0.95].
func wave(phase float32) float32 {
	return 0.55 + 0.4*math32.Sin(phase)
}
