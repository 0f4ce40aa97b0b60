// Package command defines the vocabulary shared by every component:
// the Command union consumed by the switcher, the Direction and
// Coordinate value types, and the newline-JSON wire codec.
//
// The wire format is a compatibility contract with the compositor
// plugin that forwards raw swipe events, so the encoding is preserved
// byte-for-byte: direction commands encode as {"<Name>":"<Direction>"},
// coordinate commands as {"SwitchTo":{"x":2,"y":1}}, and commands
// without a payload as the bare tag string ("CancelMove").
package command

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Direction is a cardinal direction for grid navigation. The string
// value is the exact wire spelling.
type Direction string

const (
	DirLeft  Direction = "Left"
	DirRight Direction = "Right"
	DirUp    Direction = "Up"
	DirDown  Direction = "Down"
)

// Valid reports whether d is one of the four cardinal directions.
func (d Direction) Valid() bool {
	switch d {
	case DirLeft, DirRight, DirUp, DirDown:
		return true
	}
	return false
}

// Delta returns the unit grid vector for d.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case DirLeft:
		return -1, 0
	case DirRight:
		return 1, 0
	case DirUp:
		return 0, -1
	case DirDown:
		return 0, 1
	}
	return 0, 0
}

// Coordinate addresses a cell in the 2-D workspace grid.
type Coordinate struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Kind is the command tag. Values match the wire tag exactly.
type Kind string

const (
	KindGo                       Kind = "Go"
	KindSwitchTo                 Kind = "SwitchTo"
	KindMoveWindowAndGo          Kind = "MoveWindowAndGo"
	KindMoveWindowToMonitor      Kind = "MoveWindowToMonitor"
	KindMoveWindowToMonitorIndex Kind = "MoveWindowToMonitorIndex"
	KindPrepareMove              Kind = "PrepareMove"
	KindCancelMove               Kind = "CancelMove"
	KindCommitMove               Kind = "CommitMove"
	KindSwipeBegin               Kind = "SwipeBegin"
	KindSwipeUpdate              Kind = "SwipeUpdate"
	KindSwipeEnd                 Kind = "SwipeEnd"
	KindToggleVisualizer         Kind = "ToggleVisualizer"
)

// Command is a single parsed instruction for the switcher. Only the
// fields relevant to Kind are meaningful.
type Command struct {
	Kind Kind

	// Direction payload for Go, MoveWindowAndGo, MoveWindowToMonitor
	// and CommitMove.
	Direction Direction

	// Target payload for SwitchTo.
	Target Coordinate

	// MonitorIndex payload for MoveWindowToMonitorIndex.
	MonitorIndex int

	// Fingers payload for SwipeBegin and SwipeUpdate.
	Fingers int

	// DX/DY payload for PrepareMove (normalized-space deltas from a
	// discrete source) and SwipeUpdate (raw pixel deltas).
	DX float64
	DY float64
}

// Constructors for the common command shapes.

func Go(d Direction) Command              { return Command{Kind: KindGo, Direction: d} }
func SwitchTo(x, y int) Command           { return Command{Kind: KindSwitchTo, Target: Coordinate{X: x, Y: y}} }
func MoveWindowAndGo(d Direction) Command { return Command{Kind: KindMoveWindowAndGo, Direction: d} }
func MoveWindowToMonitor(d Direction) Command {
	return Command{Kind: KindMoveWindowToMonitor, Direction: d}
}
func MoveWindowToMonitorIndex(idx int) Command {
	return Command{Kind: KindMoveWindowToMonitorIndex, MonitorIndex: idx}
}
func PrepareMove(dx, dy float64) Command {
	return Command{Kind: KindPrepareMove, DX: dx, DY: dy}
}
func CancelMove() Command             { return Command{Kind: KindCancelMove} }
func CommitMove(d Direction) Command  { return Command{Kind: KindCommitMove, Direction: d} }
func SwipeBegin(fingers int) Command  { return Command{Kind: KindSwipeBegin, Fingers: fingers} }
func SwipeUpdate(fingers int, dx, dy float64) Command {
	return Command{Kind: KindSwipeUpdate, Fingers: fingers, DX: dx, DY: dy}
}
func SwipeEnd() Command         { return Command{Kind: KindSwipeEnd} }
func ToggleVisualizer() Command { return Command{Kind: KindToggleVisualizer} }

// swipeBeginPayload / swipeUpdatePayload / preparePayload mirror the
// wire field names exactly.
type swipeBeginPayload struct {
	Fingers int `json:"fingers"`
}

type swipeUpdatePayload struct {
	Fingers int     `json:"fingers"`
	DX      float64 `json:"dx"`
	DY      float64 `json:"dy"`
}

type preparePayload struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

// MarshalJSON encodes c in the externally-tagged wire shape.
func (c Command) MarshalJSON() ([]byte, error) {
	tagged := func(payload interface{}) ([]byte, error) {
		return json.Marshal(map[Kind]interface{}{c.Kind: payload})
	}
	switch c.Kind {
	case KindGo, KindMoveWindowAndGo, KindMoveWindowToMonitor, KindCommitMove:
		if !c.Direction.Valid() {
			return nil, fmt.Errorf("command %s: invalid direction %q", c.Kind, c.Direction)
		}
		return tagged(c.Direction)
	case KindSwitchTo:
		return tagged(c.Target)
	case KindMoveWindowToMonitorIndex:
		return tagged(c.MonitorIndex)
	case KindPrepareMove:
		return tagged(preparePayload{DX: c.DX, DY: c.DY})
	case KindSwipeBegin:
		return tagged(swipeBeginPayload{Fingers: c.Fingers})
	case KindSwipeUpdate:
		return tagged(swipeUpdatePayload{Fingers: c.Fingers, DX: c.DX, DY: c.DY})
	case KindCancelMove, KindSwipeEnd, KindToggleVisualizer:
		return json.Marshal(string(c.Kind))
	}
	return nil, fmt.Errorf("unknown command kind %q", c.Kind)
}

// UnmarshalJSON decodes the externally-tagged wire shape.
func (c *Command) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return fmt.Errorf("empty command")
	}

	// Unit variants arrive as a bare JSON string.
	if trimmed[0] == '"' {
		var tag string
		if err := json.Unmarshal(trimmed, &tag); err != nil {
			return err
		}
		switch Kind(tag) {
		case KindCancelMove, KindSwipeEnd, KindToggleVisualizer:
			*c = Command{Kind: Kind(tag)}
			return nil
		}
		return fmt.Errorf("unknown command %q", tag)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return fmt.Errorf("malformed command: %w", err)
	}
	if len(fields) != 1 {
		return fmt.Errorf("expected exactly one command tag, got %d", len(fields))
	}

	var tag string
	var payload json.RawMessage
	for k, v := range fields {
		tag, payload = k, v
	}

	switch Kind(tag) {
	case KindGo, KindMoveWindowAndGo, KindMoveWindowToMonitor, KindCommitMove:
		var dir Direction
		if err := json.Unmarshal(payload, &dir); err != nil {
			return fmt.Errorf("command %s: %w", tag, err)
		}
		if !dir.Valid() {
			return fmt.Errorf("command %s: invalid direction %q", tag, dir)
		}
		*c = Command{Kind: Kind(tag), Direction: dir}
	case KindSwitchTo:
		var target Coordinate
		if err := json.Unmarshal(payload, &target); err != nil {
			return fmt.Errorf("command SwitchTo: %w", err)
		}
		if target.X < 0 || target.Y < 0 {
			return fmt.Errorf("command SwitchTo: negative coordinate (%d, %d)", target.X, target.Y)
		}
		*c = Command{Kind: KindSwitchTo, Target: target}
	case KindMoveWindowToMonitorIndex:
		var idx int
		if err := json.Unmarshal(payload, &idx); err != nil {
			return fmt.Errorf("command MoveWindowToMonitorIndex: %w", err)
		}
		*c = Command{Kind: KindMoveWindowToMonitorIndex, MonitorIndex: idx}
	case KindPrepareMove:
		var p preparePayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return fmt.Errorf("command PrepareMove: %w", err)
		}
		*c = Command{Kind: KindPrepareMove, DX: p.DX, DY: p.DY}
	case KindSwipeBegin:
		var p swipeBeginPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return fmt.Errorf("command SwipeBegin: %w", err)
		}
		*c = Command{Kind: KindSwipeBegin, Fingers: p.Fingers}
	case KindSwipeUpdate:
		var p swipeUpdatePayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return fmt.Errorf("command SwipeUpdate: %w", err)
		}
		*c = Command{Kind: KindSwipeUpdate, Fingers: p.Fingers, DX: p.DX, DY: p.DY}
	default:
		return fmt.Errorf("unknown command %q", tag)
	}
	return nil
}

// Parse decodes a single wire line into a Command.
func Parse(line []byte) (Command, error) {
	var c Command
	if err := json.Unmarshal(line, &c); err != nil {
		return Command{}, err
	}
	return c, nil
}

// String renders the command for logs.
func (c Command) String() string {
	switch c.Kind {
	case KindGo, KindMoveWindowAndGo, KindMoveWindowToMonitor, KindCommitMove:
		return fmt.Sprintf("%s(%s)", c.Kind, c.Direction)
	case KindSwitchTo:
		return fmt.Sprintf("SwitchTo(%d, %d)", c.Target.X, c.Target.Y)
	case KindMoveWindowToMonitorIndex:
		return fmt.Sprintf("MoveWindowToMonitorIndex(%d)", c.MonitorIndex)
	case KindPrepareMove:
		return fmt.Sprintf("PrepareMove(%.2f, %.2f)", c.DX, c.DY)
	case KindSwipeBegin:
		return fmt.Sprintf("SwipeBegin(%d)", c.Fingers)
	case KindSwipeUpdate:
		return fmt.Sprintf("SwipeUpdate(%d, %.2f, %.2f)", c.Fingers, c.DX, c.DY)
	default:
		return string(c.Kind)
	}
}
