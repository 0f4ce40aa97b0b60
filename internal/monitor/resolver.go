// Package monitor resolves monitor selectors against a live layout.
//
// Resolution is a pure function of the layout snapshot passed in;
// nothing is cached, since outputs can be connected or disconnected
// between commands.
package monitor

import (
	"errors"
	"fmt"

	"github.com/1broseidon/gridshift/internal/command"
	"github.com/1broseidon/gridshift/internal/platform"
)

// ErrOutOfRange is returned when an explicit monitor index does not
// exist in the current layout.
var ErrOutOfRange = errors.New("monitor index out of range")

// ErrNoMonitorInDirection is returned when no monitor lies on the
// requested side of the reference monitor.
var ErrNoMonitorInDirection = errors.New("no monitor in direction")

// ByIndex returns the monitor at idx in the layout.
func ByIndex(layout []platform.Monitor, idx int) (platform.Monitor, error) {
	if idx < 0 || idx >= len(layout) {
		return platform.Monitor{}, fmt.Errorf("%w: %d of %d", ErrOutOfRange, idx, len(layout))
	}
	return layout[idx], nil
}

// InDirection returns the nearest monitor whose center lies strictly
// on the dir side of the reference monitor's center. Monitor layouts
// are user-configured and not necessarily a clean row or column, so
// this is a nearest-neighbor search in a half-plane: candidates are
// ranked by perpendicular-axis distance from the reference center,
// ties broken by along-axis distance.
func InDirection(layout []platform.Monitor, ref platform.Monitor, dir command.Direction) (platform.Monitor, error) {
	refX, refY := ref.Bounds.CenterX(), ref.Bounds.CenterY()

	var best platform.Monitor
	bestPerp, bestAlong := -1, -1
	for _, m := range layout {
		if m.Index == ref.Index {
			continue
		}
		cx, cy := m.Bounds.CenterX(), m.Bounds.CenterY()

		var along, perp int
		switch dir {
		case command.DirLeft:
			along, perp = refX-cx, abs(cy-refY)
		case command.DirRight:
			along, perp = cx-refX, abs(cy-refY)
		case command.DirUp:
			along, perp = refY-cy, abs(cx-refX)
		case command.DirDown:
			along, perp = cy-refY, abs(cx-refX)
		default:
			return platform.Monitor{}, fmt.Errorf("invalid direction %q", dir)
		}
		if along <= 0 {
			continue
		}
		if bestPerp < 0 || perp < bestPerp || (perp == bestPerp && along < bestAlong) {
			best, bestPerp, bestAlong = m, perp, along
		}
	}
	if bestPerp < 0 {
		return platform.Monitor{}, fmt.Errorf("%w: %s of %s", ErrNoMonitorInDirection, dir, ref.Name)
	}
	return best, nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
