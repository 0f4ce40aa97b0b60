// Package gesture turns raw pixel deltas into normalized swipe
// progress and commit decisions.
//
// The helpers here are pure; accumulated state lives with the caller.
// Both continuous swipes and discrete prepare/commit commands feed the
// same math, so thresholds and direction resolution behave identically
// for either source.
package gesture

import (
	"math"

	"github.com/1broseidon/gridshift/internal/command"
)

// Tuning holds the gesture parameters from configuration. Values are
// validated at load time; the helpers trust them.
type Tuning struct {
	// Sensitivity is the pixel distance corresponding to one unit of
	// progress.
	Sensitivity float64

	// CommitThreshold is the minimum dominant-axis progress for a
	// gesture to commit when it ends.
	CommitThreshold float64

	// CommitWhileDragging, when positive, commits the gesture
	// mid-drag as soon as progress reaches it. Zero disables the
	// early commit.
	CommitWhileDragging float64

	// NaturalSwiping inverts both axes, so content follows the
	// fingers instead of the viewport.
	NaturalSwiping bool
}

// Normalize scales a raw pixel delta into progress units, applying
// the natural-swiping inversion.
func (t Tuning) Normalize(dx, dy float64) (ndx, ndy float64) {
	ndx = dx / t.Sensitivity
	ndy = dy / t.Sensitivity
	if t.NaturalSwiping {
		ndx, ndy = -ndx, -ndy
	}
	return ndx, ndy
}

// Dominant picks the axis with the larger accumulated magnitude and
// reports its progress and candidate direction. ok is false when both
// axes are zero. On an exact tie the horizontal axis wins.
func Dominant(adx, ady float64) (progress float64, dir command.Direction, ok bool) {
	ax, ay := math.Abs(adx), math.Abs(ady)
	if ax == 0 && ay == 0 {
		return 0, "", false
	}
	if ax >= ay {
		if adx > 0 {
			return ax, command.DirRight, true
		}
		return ax, command.DirLeft, true
	}
	if ady > 0 {
		return ay, command.DirDown, true
	}
	return ay, command.DirUp, true
}

// CommitMidDrag reports whether accumulated progress has reached
// the mid-drag commit threshold, and in which direction.
func (t Tuning) CommitMidDrag(adx, ady float64) (command.Direction, bool) {
	if t.CommitWhileDragging <= 0 {
		return "", false
	}
	progress, dir, ok := Dominant(adx, ady)
	if !ok || progress < t.CommitWhileDragging {
		return "", false
	}
	return dir, true
}

// CommitOnEnd reports whether a gesture ending now should commit, and
// in which direction. A gesture with zero net movement never commits.
func (t Tuning) CommitOnEnd(adx, ady float64) (command.Direction, bool) {
	progress, dir, ok := Dominant(adx, ady)
	if !ok || progress < t.CommitThreshold {
		return "", false
	}
	return dir, true
}
