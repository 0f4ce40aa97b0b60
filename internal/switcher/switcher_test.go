package switcher

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/1broseidon/gridshift/internal/command"
	"github.com/1broseidon/gridshift/internal/config"
	"github.com/1broseidon/gridshift/internal/monitor"
	"github.com/1broseidon/gridshift/internal/platform"
	"github.com/1broseidon/gridshift/internal/visualizer"
)

// fakeBackend records calls and can be told to fail.
type fakeBackend struct {
	calls    []string
	monitors []platform.Monitor
	focused  platform.Window
	fail     error
}

func (b *fakeBackend) Name() string { return "fake" }

func (b *fakeBackend) Monitors() ([]platform.Monitor, error) {
	if b.fail != nil {
		return nil, b.fail
	}
	return b.monitors, nil
}

func (b *fakeBackend) FocusedWindow() (platform.Window, error) {
	if b.fail != nil {
		return platform.Window{}, b.fail
	}
	return b.focused, nil
}

func (b *fakeBackend) SwitchWorkspace(id int) error {
	if b.fail != nil {
		return b.fail
	}
	b.calls = append(b.calls, fmt.Sprintf("switch %d", id))
	return nil
}

func (b *fakeBackend) MoveWindowToWorkspace(id int) error {
	if b.fail != nil {
		return b.fail
	}
	b.calls = append(b.calls, fmt.Sprintf("movews %d", id))
	return nil
}

func (b *fakeBackend) MoveWindowToMonitor(name string) error {
	if b.fail != nil {
		return b.fail
	}
	b.calls = append(b.calls, "movemon "+name)
	return nil
}

func (b *fakeBackend) Close() error { return nil }

func testGestures() config.Gestures {
	natural := false
	return config.Gestures{
		Sensitivity:     200,
		CommitThreshold: 0.3,
		SwitchFingers:   3,
		MoveFingers:     4,
		NaturalSwiping:  &natural,
	}
}

func newTestSwitcher(b *fakeBackend) (*Switcher, *[]visualizer.Notification) {
	var notes []visualizer.Notification
	sink := visualizer.SinkFunc(func(n visualizer.Notification) {
		notes = append(notes, n)
	})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(b, testGestures(), sink, logger), &notes
}

func TestGoMovesAndSwitches(t *testing.T) {
	b := &fakeBackend{}
	s, notes := newTestSwitcher(b)

	if err := s.Handle(command.Go(command.DirRight)); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if s.Current() != (command.Coordinate{X: 1, Y: 0}) {
		t.Fatalf("current = %+v", s.Current())
	}
	if len(b.calls) != 1 || b.calls[0] != "switch 2" {
		t.Fatalf("backend calls = %v", b.calls)
	}
	if len(*notes) != 1 || (*notes)[0].Kind != visualizer.KindPositionChanged {
		t.Fatalf("notifications = %v", *notes)
	}
}

func TestGoSequenceAccumulates(t *testing.T) {
	b := &fakeBackend{}
	s, _ := newTestSwitcher(b)
	dirs := []command.Direction{
		command.DirRight, command.DirDown, command.DirRight, command.DirLeft,
	}
	for _, d := range dirs {
		if err := s.Handle(command.Go(d)); err != nil {
			t.Fatalf("Go(%s): %v", d, err)
		}
	}
	if s.Current() != (command.Coordinate{X: 1, Y: 1}) {
		t.Fatalf("current = %+v, want (1,1)", s.Current())
	}
}

func TestSwitchToIdempotent(t *testing.T) {
	b := &fakeBackend{}
	s, _ := newTestSwitcher(b)

	if err := s.Handle(command.SwitchTo(2, 1)); err != nil {
		t.Fatalf("SwitchTo: %v", err)
	}
	first := s.CurrentWorkspace()
	if err := s.Handle(command.SwitchTo(2, 1)); err != nil {
		t.Fatalf("SwitchTo again: %v", err)
	}
	if s.CurrentWorkspace() != first {
		t.Fatalf("workspace changed: %d then %d", first, s.CurrentWorkspace())
	}
}

func TestMoveWindowAndGoOrdersBackendCalls(t *testing.T) {
	b := &fakeBackend{}
	s, _ := newTestSwitcher(b)

	if err := s.Handle(command.MoveWindowAndGo(command.DirDown)); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if len(b.calls) != 2 || b.calls[0] != "movews 2" || b.calls[1] != "switch 2" {
		t.Fatalf("backend calls = %v, want move before switch", b.calls)
	}
}

func TestBackendErrorKeepsGridState(t *testing.T) {
	b := &fakeBackend{fail: errors.New("compositor gone")}
	s, _ := newTestSwitcher(b)

	err := s.Handle(command.Go(command.DirRight))
	var be *BackendError
	if !errors.As(err, &be) {
		t.Fatalf("error = %v, want *BackendError", err)
	}
	if be.Command.Kind != command.KindGo {
		t.Fatalf("failed command = %s", be.Command)
	}
	// The cursor moved anyway: grid state is not rolled back.
	if s.Current() != (command.Coordinate{X: 1, Y: 0}) {
		t.Fatalf("current = %+v", s.Current())
	}
}

func monitorRow() []platform.Monitor {
	return []platform.Monitor{
		{Index: 0, Name: "DP-1", Bounds: platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}},
		{Index: 1, Name: "DP-2", Bounds: platform.Rect{X: 1920, Y: 0, Width: 1920, Height: 1080}},
	}
}

func TestMoveWindowToMonitor(t *testing.T) {
	b := &fakeBackend{
		monitors: monitorRow(),
		focused:  platform.Window{ID: 7, Monitor: "DP-1"},
	}
	s, _ := newTestSwitcher(b)

	if err := s.Handle(command.MoveWindowToMonitor(command.DirRight)); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if len(b.calls) != 1 || b.calls[0] != "movemon DP-2" {
		t.Fatalf("backend calls = %v", b.calls)
	}
	// No grid mutation.
	if s.Current() != (command.Coordinate{}) {
		t.Fatalf("current = %+v", s.Current())
	}
}

func TestMoveWindowToMonitorNoCandidate(t *testing.T) {
	b := &fakeBackend{
		monitors: monitorRow(),
		focused:  platform.Window{ID: 7, Monitor: "DP-2"},
	}
	s, _ := newTestSwitcher(b)

	err := s.Handle(command.MoveWindowToMonitor(command.DirRight))
	if !errors.Is(err, monitor.ErrNoMonitorInDirection) {
		t.Fatalf("error = %v, want ErrNoMonitorInDirection", err)
	}
	if len(b.calls) != 0 {
		t.Fatalf("backend called despite resolution failure: %v", b.calls)
	}
}

func TestMoveWindowToMonitorIndexOutOfRange(t *testing.T) {
	b := &fakeBackend{monitors: monitorRow()}
	s, _ := newTestSwitcher(b)

	err := s.Handle(command.MoveWindowToMonitorIndex(2))
	if !errors.Is(err, monitor.ErrOutOfRange) {
		t.Fatalf("error = %v, want ErrOutOfRange", err)
	}
	if len(b.calls) != 0 {
		t.Fatalf("backend called despite out-of-range index: %v", b.calls)
	}
}

func TestSwipeBelowThresholdCancels(t *testing.T) {
	b := &fakeBackend{}
	s, notes := newTestSwitcher(b)
	before := s.Current()

	s.Handle(command.SwipeBegin(3))
	s.Handle(command.SwipeUpdate(3, 50, 0)) // 0.25 progress
	s.Handle(command.SwipeEnd())

	if s.Current() != before {
		t.Fatalf("cursor moved on cancelled gesture: %+v", s.Current())
	}
	if len(b.calls) != 0 {
		t.Fatalf("backend calls = %v", b.calls)
	}
	last := (*notes)[len(*notes)-1]
	if last.Kind != visualizer.KindGestureEnd || last.Committed {
		t.Fatalf("last notification = %+v, want uncommitted gesture end", last)
	}
}

func TestSwipeAboveThresholdCommits(t *testing.T) {
	b := &fakeBackend{}
	s, _ := newTestSwitcher(b)

	s.Handle(command.SwipeBegin(3))
	s.Handle(command.SwipeUpdate(3, 50, 0)) // 0.25
	s.Handle(command.SwipeUpdate(3, 20, 0)) // 0.35
	if err := s.Handle(command.SwipeEnd()); err != nil {
		t.Fatalf("SwipeEnd: %v", err)
	}

	if s.Current() != (command.Coordinate{X: 1, Y: 0}) {
		t.Fatalf("current = %+v, want (1,0)", s.Current())
	}
	if len(b.calls) != 1 || b.calls[0] != "switch 2" {
		t.Fatalf("backend calls = %v", b.calls)
	}
}

func TestMoveFingersSwipeCarriesWindow(t *testing.T) {
	b := &fakeBackend{}
	s, _ := newTestSwitcher(b)

	s.Handle(command.SwipeBegin(4))
	s.Handle(command.SwipeUpdate(4, 0, 80)) // 0.4 down
	if err := s.Handle(command.SwipeEnd()); err != nil {
		t.Fatalf("SwipeEnd: %v", err)
	}
	if len(b.calls) != 2 || b.calls[0] != "movews 2" || b.calls[1] != "switch 2" {
		t.Fatalf("backend calls = %v", b.calls)
	}
}

func TestUnrecognizedFingerCountIgnored(t *testing.T) {
	b := &fakeBackend{}
	s, _ := newTestSwitcher(b)

	s.Handle(command.SwipeBegin(2))
	if s.GestureActive() {
		t.Fatal("two-finger swipe opened a gesture")
	}
	s.Handle(command.SwipeUpdate(2, 500, 0))
	s.Handle(command.SwipeEnd())
	if len(b.calls) != 0 {
		t.Fatalf("backend calls = %v", b.calls)
	}
}

func TestStraySwipeEventsAreNoOps(t *testing.T) {
	b := &fakeBackend{}
	s, _ := newTestSwitcher(b)

	if err := s.Handle(command.SwipeUpdate(3, 500, 0)); err != nil {
		t.Fatalf("stray update: %v", err)
	}
	if err := s.Handle(command.SwipeEnd()); err != nil {
		t.Fatalf("stray end: %v", err)
	}
	if err := s.Handle(command.CancelMove()); err != nil {
		t.Fatalf("stray cancel: %v", err)
	}
	if len(b.calls) != 0 {
		t.Fatalf("backend calls = %v", b.calls)
	}
}

func TestCommitWhileDraggingFiresEarly(t *testing.T) {
	var notes []visualizer.Notification
	sink := visualizer.SinkFunc(func(n visualizer.Notification) { notes = append(notes, n) })
	b := &fakeBackend{}
	g := testGestures()
	g.Sensitivity = 100
	drag := 0.8
	g.CommitWhileDraggingThreshold = &drag
	s := New(b, g, sink, slog.New(slog.NewTextHandler(io.Discard, nil)))

	s.Handle(command.SwipeBegin(3))
	if err := s.Handle(command.SwipeUpdate(3, 85, 0)); err != nil {
		t.Fatalf("SwipeUpdate: %v", err)
	}
	if s.GestureActive() {
		t.Fatal("gesture still open after mid-drag commit")
	}
	if len(b.calls) != 1 || b.calls[0] != "switch 2" {
		t.Fatalf("backend calls = %v", b.calls)
	}
	// A late end is a no-op.
	if err := s.Handle(command.SwipeEnd()); err != nil {
		t.Fatalf("late SwipeEnd: %v", err)
	}
	if len(b.calls) != 1 {
		t.Fatalf("late end triggered backend calls: %v", b.calls)
	}
}

func TestNaturalSwipingInvertsCommitDirection(t *testing.T) {
	b := &fakeBackend{}
	g := testGestures()
	natural := true
	g.NaturalSwiping = &natural
	s := New(b, g, visualizer.Discard, slog.New(slog.NewTextHandler(io.Discard, nil)))

	s.Handle(command.SwitchTo(1, 0))
	b.calls = nil

	s.Handle(command.SwipeBegin(3))
	s.Handle(command.SwipeUpdate(3, 80, 0)) // inverted: Left
	s.Handle(command.SwipeEnd())

	if s.Current() != (command.Coordinate{X: 0, Y: 0}) {
		t.Fatalf("current = %+v, want (0,0)", s.Current())
	}
}

func TestPrepareCommitMoveFlow(t *testing.T) {
	b := &fakeBackend{}
	s, _ := newTestSwitcher(b)

	// PrepareMove deltas are raw pixels like any other source.
	s.Handle(command.PrepareMove(40, 0))
	s.Handle(command.PrepareMove(40, 0)) // accumulated 0.4
	if err := s.Handle(command.CommitMove(command.DirDown)); err != nil {
		t.Fatalf("CommitMove: %v", err)
	}
	// Direction comes from the argument, not from sign inference.
	if s.Current() != (command.Coordinate{X: 0, Y: 1}) {
		t.Fatalf("current = %+v, want (0,1)", s.Current())
	}
}

func TestCommitMoveBelowThresholdCancels(t *testing.T) {
	b := &fakeBackend{}
	s, _ := newTestSwitcher(b)

	s.Handle(command.PrepareMove(20, 0)) // 0.1 progress
	if err := s.Handle(command.CommitMove(command.DirRight)); err != nil {
		t.Fatalf("CommitMove: %v", err)
	}
	if s.Current() != (command.Coordinate{}) {
		t.Fatalf("current = %+v", s.Current())
	}
	if len(b.calls) != 0 {
		t.Fatalf("backend calls = %v", b.calls)
	}
}

func TestCancelMoveSnapsBack(t *testing.T) {
	b := &fakeBackend{}
	s, notes := newTestSwitcher(b)

	s.Handle(command.PrepareMove(100, 0))
	s.Handle(command.CancelMove())
	if s.GestureActive() {
		t.Fatal("gesture still open after cancel")
	}
	last := (*notes)[len(*notes)-1]
	if last.Kind != visualizer.KindGestureEnd || last.Committed {
		t.Fatalf("last notification = %+v", last)
	}
}

func TestToggleVisualizer(t *testing.T) {
	b := &fakeBackend{}
	s, notes := newTestSwitcher(b)

	s.Handle(command.ToggleVisualizer())
	if !s.Pinned() {
		t.Fatal("not pinned after toggle")
	}
	s.Handle(command.ToggleVisualizer())
	if s.Pinned() {
		t.Fatal("still pinned after second toggle")
	}
	if len(b.calls) != 0 {
		t.Fatalf("backend calls = %v", b.calls)
	}
	if len(*notes) != 2 || (*notes)[0].Kind != visualizer.KindToggled {
		t.Fatalf("notifications = %v", *notes)
	}
}

func TestSwipeBeginReplacesOpenGesture(t *testing.T) {
	b := &fakeBackend{}
	s, _ := newTestSwitcher(b)

	s.Handle(command.SwipeBegin(3))
	s.Handle(command.SwipeUpdate(3, 70, 0)) // 0.35
	s.Handle(command.SwipeBegin(4))         // restart, discard progress
	s.Handle(command.SwipeEnd())

	if s.Current() != (command.Coordinate{}) {
		t.Fatalf("current = %+v, want origin", s.Current())
	}
	if len(b.calls) != 0 {
		t.Fatalf("backend calls = %v", b.calls)
	}
}
