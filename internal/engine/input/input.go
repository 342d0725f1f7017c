// Package input handles SDL2 input events.
package input

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/veandco/go-sdl2/sdl"
)

// Event types for game use
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Width  int
	Height int
	MouseX int
	MouseY int
	Button uint8
}

// Drag is the mouse travel with the left button held since the last Update,
// in window coordinates.
type Drag struct {
	From, To [2]int
}

// Input handles all input processing.
type Input struct {
	events []Event
	held   map[sdl.Scancode]bool

	dragging bool
	drag     Drag
	dragged  bool
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
		held:   make(map[sdl.Scancode]bool),
	}
}

// Update polls SDL events and converts them to game events.
// Returns true if the game should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0]
	i.dragged = false

	quit := false
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			i.events = append(i.events, Event{Type: EventQuit})
			quit = true

		case *sdl.WindowEvent:
			switch e.Event {
			case sdl.WINDOWEVENT_RESIZED:
				i.events = append(i.events, Event{
					Type:   EventWindowResize,
					Width:  int(e.Data1),
					Height: int(e.Data2),
				})
			case sdl.WINDOWEVENT_FOCUS_LOST:
				// Key-up events are not delivered while unfocused.
				clear(i.held)
				i.dragging = false
			}

		case *sdl.KeyboardEvent:
			if e.Type == sdl.KEYDOWN {
				if e.Repeat == 0 {
					i.events = append(i.events, Event{Type: EventKeyDown, Key: e.Keysym.Scancode})
				}
				i.held[e.Keysym.Scancode] = true
				if e.Keysym.Scancode == sdl.SCANCODE_ESCAPE {
					quit = true
				}
			} else if e.Type == sdl.KEYUP {
				i.events = append(i.events, Event{Type: EventKeyUp, Key: e.Keysym.Scancode})
				delete(i.held, e.Keysym.Scancode)
			}

		case *sdl.MouseMotionEvent:
			i.events = append(i.events, Event{
				Type:   EventMouseMove,
				MouseX: int(e.X),
				MouseY: int(e.Y),
			})
			if i.dragging {
				to := [2]int{int(e.X), int(e.Y)}
				if !i.dragged {
					i.drag.From = [2]int{int(e.X - e.XRel), int(e.Y - e.YRel)}
				}
				i.drag.To = to
				i.dragged = true
			}

		case *sdl.MouseButtonEvent:
			ev := Event{
				MouseX: int(e.X),
				MouseY: int(e.Y),
				Button: e.Button,
			}
			if e.Type == sdl.MOUSEBUTTONDOWN {
				ev.Type = EventMouseDown
				if e.Button == sdl.BUTTON_LEFT {
					i.dragging = true
				}
			} else {
				ev.Type = EventMouseUp
				if e.Button == sdl.BUTTON_LEFT {
					i.dragging = false
				}
			}
			i.events = append(i.events, ev)
		}
	}

	return quit
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// IsKeyPressed checks if a specific key was pressed this frame.
func (i *Input) IsKeyPressed(scancode sdl.Scancode) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == scancode {
			return true
		}
	}
	return false
}

// IsKeyHeld reports whether a key is currently down.
func (i *Input) IsKeyHeld(scancode sdl.Scancode) bool {
	return i.held[scancode]
}

// Movement returns the camera-relative direction requested by held keys:
// W/S along X (forward/back), A/D along Y (left/right), E/Q along Z.
// Components are -1, 0 or 1.
func (i *Input) Movement() mgl32.Vec3 {
	axis := func(pos, neg sdl.Scancode) float32 {
		var v float32
		if i.held[pos] {
			v++
		}
		if i.held[neg] {
			v--
		}
		return v
	}
	return mgl32.Vec3{
		axis(sdl.SCANCODE_W, sdl.SCANCODE_S),
		axis(sdl.SCANCODE_A, sdl.SCANCODE_D),
		axis(sdl.SCANCODE_E, sdl.SCANCODE_Q),
	}
}

// Drag returns the left-button drag since the last Update, if any.
func (i *Input) Drag() (Drag, bool) {
	return i.drag, i.dragged
}
