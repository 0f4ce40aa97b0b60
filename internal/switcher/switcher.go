// Package switcher holds the daemon's central state machine. It owns
// the grid cursor and the gesture state, applies one command at a
// time, calls the window-manager backend, and emits visualizer
// notifications.
package switcher

import (
	"fmt"
	"log/slog"

	"github.com/1broseidon/gridshift/internal/command"
	"github.com/1broseidon/gridshift/internal/config"
	"github.com/1broseidon/gridshift/internal/gesture"
	"github.com/1broseidon/gridshift/internal/grid"
	"github.com/1broseidon/gridshift/internal/monitor"
	"github.com/1broseidon/gridshift/internal/platform"
	"github.com/1broseidon/gridshift/internal/visualizer"
)

// BackendError reports a window-manager call failing for a command.
// Grid and gesture transitions applied before the call are not rolled
// back; the grid's cursor is allowed to diverge from the window
// manager's active workspace until the next successful command.
type BackendError struct {
	Command command.Command
	Err     error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend: %s: %v", e.Command, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// gestureState tracks an open gesture. Accumulated deltas are in
// normalized progress units.
type gestureState struct {
	active        bool
	adx, ady      float64
	fingers       int
	carriesWindow bool
}

// Switcher processes commands sequentially. It is not safe for
// concurrent use; callers serialize commands through a single queue.
type Switcher struct {
	grid    *grid.Grid
	backend platform.Backend
	sink    visualizer.Sink
	logger  *slog.Logger

	tuning        gesture.Tuning
	switchFingers int
	moveFingers   int

	state  gestureState
	pinned bool
}

// New builds a switcher with the cursor at the origin.
func New(backend platform.Backend, gestures config.Gestures, sink visualizer.Sink, logger *slog.Logger) *Switcher {
	if sink == nil {
		sink = visualizer.Discard
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Switcher{
		grid:          grid.New(),
		backend:       backend,
		sink:          sink,
		logger:        logger,
		tuning:        gestures.Tuning(),
		switchFingers: gestures.SwitchFingers,
		moveFingers:   gestures.MoveFingers,
	}
}

// Current returns the cursor position.
func (s *Switcher) Current() command.Coordinate { return s.grid.Current() }

// CurrentWorkspace returns the workspace under the cursor.
func (s *Switcher) CurrentWorkspace() int { return int(s.grid.CurrentWorkspace()) }

// Visited returns the visited cells for presentation.
func (s *Switcher) Visited() []command.Coordinate { return s.grid.Visited() }

// Dimensions returns the visited bounding box.
func (s *Switcher) Dimensions() (cols, rows int) { return s.grid.Dimensions() }

// GestureActive reports whether a gesture is open.
func (s *Switcher) GestureActive() bool { return s.state.active }

// Pinned reports whether the overlay is pinned open.
func (s *Switcher) Pinned() bool { return s.pinned }

// Handle applies one command. Backend failures are returned as
// *BackendError and leave already-applied state in place; resolution
// failures are returned before any backend call; stray gesture events
// are silently ignored.
func (s *Switcher) Handle(cmd command.Command) error {
	s.logger.Debug("handling command", "command", cmd.String())

	switch cmd.Kind {
	case command.KindGo:
		return s.navigate(cmd, false)
	case command.KindSwitchTo:
		return s.switchTo(cmd)
	case command.KindMoveWindowAndGo:
		return s.navigate(cmd, true)
	case command.KindMoveWindowToMonitor:
		return s.moveToMonitor(cmd)
	case command.KindMoveWindowToMonitorIndex:
		return s.moveToMonitorIndex(cmd)
	case command.KindPrepareMove:
		s.prepareMove(cmd.DX, cmd.DY)
		return nil
	case command.KindCancelMove:
		s.cancelGesture()
		return nil
	case command.KindCommitMove:
		return s.commitMove(cmd)
	case command.KindSwipeBegin:
		s.swipeBegin(cmd.Fingers)
		return nil
	case command.KindSwipeUpdate:
		return s.swipeUpdate(cmd)
	case command.KindSwipeEnd:
		return s.swipeEnd(cmd)
	case command.KindToggleVisualizer:
		s.pinned = !s.pinned
		s.sink.Notify(visualizer.Toggled(s.pinned))
		return nil
	}
	return fmt.Errorf("unknown command kind %q", cmd.Kind)
}

// navigate moves the cursor one cell and switches, optionally carrying the
// focused window along.
func (s *Switcher) navigate(cmd command.Command, carryWindow bool) error {
	dx, dy := cmd.Direction.Delta()
	coord, id := s.grid.MoveBy(dx, dy)
	s.logger.Info("workspace move",
		"direction", string(cmd.Direction),
		"x", coord.X, "y", coord.Y,
		"workspace", int(id),
		"carry_window", carryWindow)

	if carryWindow {
		if err := s.backend.MoveWindowToWorkspace(int(id)); err != nil {
			return &BackendError{Command: cmd, Err: err}
		}
	}
	if err := s.backend.SwitchWorkspace(int(id)); err != nil {
		return &BackendError{Command: cmd, Err: err}
	}
	s.sink.Notify(visualizer.PositionChanged(coord, s.grid.Visited()))
	return nil
}

func (s *Switcher) switchTo(cmd command.Command) error {
	id := s.grid.SetCurrent(cmd.Target)
	s.logger.Info("workspace jump", "x", cmd.Target.X, "y", cmd.Target.Y, "workspace", int(id))

	if err := s.backend.SwitchWorkspace(int(id)); err != nil {
		return &BackendError{Command: cmd, Err: err}
	}
	s.sink.Notify(visualizer.PositionChanged(cmd.Target, s.grid.Visited()))
	return nil
}

// moveToMonitor resolves a monitor by direction from the focused
// window's monitor. Resolution failures return before any backend
// mutation; the grid is never touched.
func (s *Switcher) moveToMonitor(cmd command.Command) error {
	layout, err := s.backend.Monitors()
	if err != nil {
		return &BackendError{Command: cmd, Err: err}
	}
	win, err := s.backend.FocusedWindow()
	if err != nil {
		return &BackendError{Command: cmd, Err: err}
	}
	ref, ok := monitorByName(layout, win.Monitor)
	if !ok {
		return &BackendError{Command: cmd, Err: fmt.Errorf("focused window on unknown monitor %q", win.Monitor)}
	}
	target, err := monitor.InDirection(layout, ref, cmd.Direction)
	if err != nil {
		return err
	}
	s.logger.Info("window to monitor", "direction", string(cmd.Direction), "monitor", target.Name)
	if err := s.backend.MoveWindowToMonitor(target.Name); err != nil {
		return &BackendError{Command: cmd, Err: err}
	}
	return nil
}

func (s *Switcher) moveToMonitorIndex(cmd command.Command) error {
	layout, err := s.backend.Monitors()
	if err != nil {
		return &BackendError{Command: cmd, Err: err}
	}
	target, err := monitor.ByIndex(layout, cmd.MonitorIndex)
	if err != nil {
		return err
	}
	s.logger.Info("window to monitor", "index", cmd.MonitorIndex, "monitor", target.Name)
	if err := s.backend.MoveWindowToMonitor(target.Name); err != nil {
		return &BackendError{Command: cmd, Err: err}
	}
	return nil
}

// prepareMove opens a preview gesture from a discrete source and
// accumulates its delta. The cursor does not move until commit.
func (s *Switcher) prepareMove(dx, dy float64) {
	if !s.state.active {
		s.state = gestureState{active: true}
	}
	s.feed(dx, dy)
	s.notifyPreview()
}

func (s *Switcher) swipeBegin(fingers int) {
	carries := false
	switch fingers {
	case s.switchFingers:
	case s.moveFingers:
		carries = true
	default:
		// Unrecognized finger count: not our gesture.
		return
	}
	if s.state.active {
		s.logger.Debug("swipe begin while previewing, restarting gesture")
	}
	s.state = gestureState{active: true, fingers: fingers, carriesWindow: carries}
}

func (s *Switcher) swipeUpdate(cmd command.Command) error {
	if !s.state.active {
		// Stray update after an end, e.g. across a reconnect.
		return nil
	}
	// Finger-count drift after begin has no bearing on routing.
	s.feed(cmd.DX, cmd.DY)

	if dir, ok := s.tuning.CommitMidDrag(s.state.adx, s.state.ady); ok {
		return s.commitGesture(cmd, dir)
	}
	s.notifyPreview()
	return nil
}

func (s *Switcher) swipeEnd(cmd command.Command) error {
	if !s.state.active {
		return nil
	}
	dir, ok := s.tuning.CommitOnEnd(s.state.adx, s.state.ady)
	if !ok {
		s.cancelGesture()
		return nil
	}
	return s.commitGesture(cmd, dir)
}

// commitMove ends a preview with an explicit direction. The threshold
// still gates whether the move happens; only the direction comes from
// the argument instead of sign inference. A commit with no open
// gesture is a no-op.
func (s *Switcher) commitMove(cmd command.Command) error {
	if !s.state.active {
		return nil
	}
	progress, _, _ := gesture.Dominant(s.state.adx, s.state.ady)
	if progress < s.tuning.CommitThreshold {
		s.cancelGesture()
		return nil
	}
	return s.commitGesture(cmd, cmd.Direction)
}

// feed normalizes a raw delta and accumulates it.
func (s *Switcher) feed(dx, dy float64) {
	ndx, ndy := s.tuning.Normalize(dx, dy)
	s.state.adx += ndx
	s.state.ady += ndy
}

func (s *Switcher) notifyPreview() {
	progress, dir, ok := gesture.Dominant(s.state.adx, s.state.ady)
	if !ok {
		dir = ""
	}
	if ok {
		// Mark the candidate cell so overlays can dim it even when the
		// gesture later snaps back. The cursor does not move.
		dx, dy := dir.Delta()
		cur := s.grid.Current()
		target := command.Coordinate{X: cur.X + dx, Y: cur.Y + dy}
		if target.X >= 0 && target.Y >= 0 {
			s.grid.MarkVisited(target)
		}
	}
	s.sink.Notify(visualizer.GesturePreview(progress, dir, s.state.adx, s.state.ady))
}

// cancelGesture snaps back to the current cell without moving it.
func (s *Switcher) cancelGesture() {
	if !s.state.active {
		return
	}
	s.state = gestureState{}
	s.sink.Notify(visualizer.GestureEnd(false))
}

// commitGesture performs the committed move and closes the gesture.
func (s *Switcher) commitGesture(cmd command.Command, dir command.Direction) error {
	carries := s.state.carriesWindow
	s.state = gestureState{}
	s.sink.Notify(visualizer.GestureEnd(true))

	move := cmd
	move.Direction = dir
	return s.navigate(move, carries)
}

func monitorByName(layout []platform.Monitor, name string) (platform.Monitor, bool) {
	for _, m := range layout {
		if m.Name == name {
			return m, true
		}
	}
	return platform.Monitor{}, false
}
