package grid

import (
	"testing"

	"github.com/1broseidon/gridshift/internal/command"
)

func TestNewStartsAtOrigin(t *testing.T) {
	g := New()
	if g.Current() != (command.Coordinate{}) {
		t.Fatalf("current = %+v, want origin", g.Current())
	}
	if id := g.CurrentWorkspace(); id != 1 {
		t.Fatalf("origin workspace = %d, want 1", id)
	}
}

func TestResolveIsStable(t *testing.T) {
	g := New()
	c := command.Coordinate{X: 3, Y: 2}
	first := g.Resolve(c)
	second := g.Resolve(c)
	if first != second {
		t.Fatalf("resolve twice: %d then %d", first, second)
	}
	// A different cell never reuses an identifier.
	other := g.Resolve(command.Coordinate{X: 3, Y: 3})
	if other == first {
		t.Fatalf("distinct cells share workspace %d", other)
	}
}

func TestMoveByAccumulates(t *testing.T) {
	g := New()
	moves := []command.Direction{
		command.DirRight, command.DirRight, command.DirDown, command.DirLeft,
	}
	wantX, wantY := 0, 0
	for _, d := range moves {
		dx, dy := d.Delta()
		wantX += dx
		wantY += dy
		coord, _ := g.MoveBy(dx, dy)
		if coord.X != wantX || coord.Y != wantY {
			t.Fatalf("after %s: at (%d,%d), want (%d,%d)", d, coord.X, coord.Y, wantX, wantY)
		}
	}
}

func TestMoveByClampsAtOrigin(t *testing.T) {
	g := New()
	coord, id := g.MoveBy(-1, 0)
	if coord != (command.Coordinate{}) {
		t.Fatalf("moved past origin to %+v", coord)
	}
	if id != 1 {
		t.Fatalf("workspace = %d, want origin workspace 1", id)
	}
	coord, _ = g.MoveBy(0, -1)
	if coord != (command.Coordinate{}) {
		t.Fatalf("moved past origin to %+v", coord)
	}
}

func TestRevisitReturnsSameWorkspace(t *testing.T) {
	g := New()
	_, away := g.MoveBy(1, 0)
	g.MoveBy(-1, 0)
	_, back := g.MoveBy(1, 0)
	if away != back {
		t.Fatalf("revisit gave %d, first visit gave %d", back, away)
	}
}

func TestSetCurrentIdempotent(t *testing.T) {
	g := New()
	c := command.Coordinate{X: 2, Y: 1}
	first := g.SetCurrent(c)
	second := g.SetCurrent(c)
	if first != second {
		t.Fatalf("SetCurrent twice: %d then %d", first, second)
	}
	if len(g.Visited()) != 2 { // origin + c
		t.Fatalf("visited = %v, want origin and %+v only", g.Visited(), c)
	}
}

func TestMarkVisitedDoesNotAllocate(t *testing.T) {
	g := New()
	c := command.Coordinate{X: 5, Y: 5}
	g.MarkVisited(c)
	if g.Current() != (command.Coordinate{}) {
		t.Fatalf("cursor moved to %+v", g.Current())
	}
	// Resolving afterwards must still allocate fresh, proving
	// MarkVisited touched only the visited set.
	if id := g.Resolve(c); id != 2 {
		t.Fatalf("resolve after mark = %d, want 2", id)
	}
}

func TestVisitedOrderAndDimensions(t *testing.T) {
	g := New()
	g.SetCurrent(command.Coordinate{X: 2, Y: 0})
	g.SetCurrent(command.Coordinate{X: 0, Y: 1})

	cells := g.Visited()
	want := []command.Coordinate{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 0, Y: 1}}
	if len(cells) != len(want) {
		t.Fatalf("visited = %v, want %v", cells, want)
	}
	for i := range want {
		if cells[i] != want[i] {
			t.Fatalf("visited[%d] = %+v, want %+v", i, cells[i], want[i])
		}
	}

	cols, rows := g.Dimensions()
	if cols != 3 || rows != 2 {
		t.Fatalf("dimensions = (%d,%d), want (3,2)", cols, rows)
	}
}
