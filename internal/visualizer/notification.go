// Package visualizer defines the notification stream consumed by grid
// overlays: the daemon publishes one JSON notification per line to
// subscribed clients, and the bundled watch view renders them.
package visualizer

import "github.com/1broseidon/gridshift/internal/command"

// Kind discriminates notifications on the wire.
type Kind string

const (
	KindPositionChanged Kind = "position_changed"
	KindGesturePreview  Kind = "gesture_preview"
	KindGestureEnd      Kind = "gesture_end"
	KindToggled         Kind = "visualizer_toggled"
)

// Notification is a single overlay event. Only the fields relevant to
// Kind are populated.
type Notification struct {
	Kind Kind `json:"kind"`

	// position_changed
	Current *command.Coordinate  `json:"current,omitempty"`
	Visited []command.Coordinate `json:"visited,omitempty"`

	// gesture_preview: Progress is along the dominant axis, Direction
	// is the commit candidate; DX/DY carry both raw accumulated axes
	// for animation.
	Progress  float64           `json:"progress,omitempty"`
	Direction command.Direction `json:"direction,omitempty"`
	DX        float64           `json:"dx,omitempty"`
	DY        float64           `json:"dy,omitempty"`

	// gesture_end
	Committed bool `json:"committed,omitempty"`

	// visualizer_toggled
	Pinned bool `json:"pinned,omitempty"`
}

// PositionChanged reports the cursor landing on a cell.
func PositionChanged(current command.Coordinate, visited []command.Coordinate) Notification {
	return Notification{Kind: KindPositionChanged, Current: &current, Visited: visited}
}

// GesturePreview reports in-flight swipe progress.
func GesturePreview(progress float64, dir command.Direction, dx, dy float64) Notification {
	return Notification{Kind: KindGesturePreview, Progress: progress, Direction: dir, DX: dx, DY: dy}
}

// GestureEnd reports a gesture closing, committed or snapped back.
func GestureEnd(committed bool) Notification {
	return Notification{Kind: KindGestureEnd, Committed: committed}
}

// Toggled reports the overlay pin flag changing.
func Toggled(pinned bool) Notification {
	return Notification{Kind: KindToggled, Pinned: pinned}
}

// Sink receives notifications. Implementations must not block;
// publishing happens on the command-handling path.
type Sink interface {
	Notify(Notification)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(Notification)

func (f SinkFunc) Notify(n Notification) { f(n) }

// Discard drops all notifications.
var Discard Sink = SinkFunc(func(Notification) {})
