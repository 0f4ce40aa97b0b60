package command

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestParseDirectionCommands(t *testing.T) {
	cases := []struct {
		line string
		want Command
	}{
		{`{"Go":"Right"}`, Go(DirRight)},
		{`{"Go":"Left"}`, Go(DirLeft)},
		{`{"MoveWindowAndGo":"Up"}`, MoveWindowAndGo(DirUp)},
		{`{"MoveWindowToMonitor":"Down"}`, MoveWindowToMonitor(DirDown)},
		{`{"CommitMove":"Left"}`, CommitMove(DirLeft)},
	}
	for _, tc := range cases {
		got, err := Parse([]byte(tc.line))
		if err != nil {
			t.Fatalf("Parse(%s): %v", tc.line, err)
		}
		if got != tc.want {
			t.Fatalf("Parse(%s) = %+v, want %+v", tc.line, got, tc.want)
		}
	}
}

func TestParseUnitCommands(t *testing.T) {
	cases := []struct {
		line string
		kind Kind
	}{
		{`"CancelMove"`, KindCancelMove},
		{`"SwipeEnd"`, KindSwipeEnd},
		{`"ToggleVisualizer"`, KindToggleVisualizer},
	}
	for _, tc := range cases {
		got, err := Parse([]byte(tc.line))
		if err != nil {
			t.Fatalf("Parse(%s): %v", tc.line, err)
		}
		if got.Kind != tc.kind {
			t.Fatalf("Parse(%s) kind = %s, want %s", tc.line, got.Kind, tc.kind)
		}
	}
}

func TestParseSwitchTo(t *testing.T) {
	got, err := Parse([]byte(`{"SwitchTo":{"x":2,"y":1}}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.Kind != KindSwitchTo || got.Target.X != 2 || got.Target.Y != 1 {
		t.Fatalf("got %+v", got)
	}

	if _, err := Parse([]byte(`{"SwitchTo":{"x":-1,"y":0}}`)); err == nil {
		t.Fatal("expected error for negative coordinate")
	}
}

func TestParseSwipePayloads(t *testing.T) {
	got, err := Parse([]byte(`{"SwipeBegin":{"fingers":3}}`))
	if err != nil {
		t.Fatalf("Parse SwipeBegin: %v", err)
	}
	if got.Kind != KindSwipeBegin || got.Fingers != 3 {
		t.Fatalf("got %+v", got)
	}

	got, err = Parse([]byte(`{"SwipeUpdate":{"fingers":3,"dx":10.5,"dy":-2.3}}`))
	if err != nil {
		t.Fatalf("Parse SwipeUpdate: %v", err)
	}
	if got.Fingers != 3 || got.DX != 10.5 || got.DY != -2.3 {
		t.Fatalf("got %+v", got)
	}
}

func TestParsePrepareMoveAndMonitorIndex(t *testing.T) {
	got, err := Parse([]byte(`{"PrepareMove":{"dx":0.5,"dy":-0.3}}`))
	if err != nil {
		t.Fatalf("Parse PrepareMove: %v", err)
	}
	if got.DX != 0.5 || got.DY != -0.3 {
		t.Fatalf("got %+v", got)
	}

	got, err = Parse([]byte(`{"MoveWindowToMonitorIndex":1}`))
	if err != nil {
		t.Fatalf("Parse MoveWindowToMonitorIndex: %v", err)
	}
	if got.MonitorIndex != 1 {
		t.Fatalf("got %+v", got)
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	bad := []string{
		``,
		`{}`,
		`{"Go":"Diagonal"}`,
		`{"Go":"left"}`,
		`"Unknown"`,
		`{"Go":"Right","Extra":1}`,
		`not json`,
		`{"Teleport":{"x":1}}`,
	}
	for _, line := range bad {
		if _, err := Parse([]byte(line)); err == nil {
			t.Fatalf("Parse(%q): expected error", line)
		}
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	cmds := []Command{
		Go(DirRight),
		SwitchTo(4, 2),
		MoveWindowAndGo(DirDown),
		MoveWindowToMonitor(DirLeft),
		MoveWindowToMonitorIndex(2),
		PrepareMove(0.25, -0.75),
		CancelMove(),
		CommitMove(DirUp),
		SwipeBegin(4),
		SwipeUpdate(3, 12.0, -4.5),
		SwipeEnd(),
		ToggleVisualizer(),
	}
	for _, c := range cmds {
		data, err := json.Marshal(c)
		if err != nil {
			t.Fatalf("Marshal(%s): %v", c, err)
		}
		back, err := Parse(data)
		if err != nil {
			t.Fatalf("Parse(%s): %v", data, err)
		}
		if back != c {
			t.Fatalf("round trip %s: got %+v, want %+v", data, back, c)
		}
	}
}

func TestMarshalExactWireShape(t *testing.T) {
	cases := []struct {
		cmd  Command
		want string
	}{
		{Go(DirRight), `{"Go":"Right"}`},
		{SwitchTo(2, 1), `{"SwitchTo":{"x":2,"y":1}}`},
		{MoveWindowToMonitorIndex(1), `{"MoveWindowToMonitorIndex":1}`},
		{CancelMove(), `"CancelMove"`},
		{SwipeBegin(3), `{"SwipeBegin":{"fingers":3}}`},
	}
	for _, tc := range cases {
		data, err := json.Marshal(tc.cmd)
		if err != nil {
			t.Fatalf("Marshal(%s): %v", tc.cmd, err)
		}
		if string(data) != tc.want {
			t.Fatalf("Marshal(%s) = %s, want %s", tc.cmd, data, tc.want)
		}
	}
}

func TestDirectionDelta(t *testing.T) {
	cases := []struct {
		dir    Direction
		dx, dy int
	}{
		{DirLeft, -1, 0},
		{DirRight, 1, 0},
		{DirUp, 0, -1},
		{DirDown, 0, 1},
	}
	for _, tc := range cases {
		dx, dy := tc.dir.Delta()
		if dx != tc.dx || dy != tc.dy {
			t.Fatalf("%s.Delta() = (%d, %d), want (%d, %d)", tc.dir, dx, dy, tc.dx, tc.dy)
		}
	}
}

func TestCommandString(t *testing.T) {
	if s := Go(DirLeft).String(); !strings.Contains(s, "Left") {
		t.Fatalf("String() = %q", s)
	}
	if s := SwitchTo(1, 2).String(); !strings.Contains(s, "1") || !strings.Contains(s, "2") {
		t.Fatalf("String() = %q", s)
	}
}
