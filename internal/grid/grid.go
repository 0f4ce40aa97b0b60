// Package grid maps 2-D desktop coordinates to workspace identifiers.
//
// The grid is sparse and grows lazily: a coordinate gets a workspace
// identifier the first time it is visited, drawn from a monotonically
// increasing counter, and keeps that identifier for the life of the
// process. Revisiting a cell therefore lands on the same
// window-manager workspace and preserves window placement.
package grid

import (
	"sort"

	"github.com/1broseidon/gridshift/internal/command"
)

// WorkspaceID identifies a window-manager workspace. IDs start at 1
// and are never reassigned or reclaimed once allocated.
type WorkspaceID int

// Grid holds the cursor and the coordinate→workspace mapping. It is
// not safe for concurrent use; the switcher is its only mutator.
type Grid struct {
	current   command.Coordinate
	allocated map[command.Coordinate]WorkspaceID
	visited   map[command.Coordinate]struct{}
	next      WorkspaceID
}

// New returns a grid with the cursor at the origin. The origin cell is
// allocated immediately so the cursor always has a workspace.
func New() *Grid {
	g := &Grid{
		allocated: make(map[command.Coordinate]WorkspaceID),
		visited:   make(map[command.Coordinate]struct{}),
		next:      1,
	}
	g.Resolve(command.Coordinate{})
	return g
}

// Current returns the cursor position.
func (g *Grid) Current() command.Coordinate {
	return g.current
}

// CurrentWorkspace returns the workspace identifier under the cursor.
func (g *Grid) CurrentWorkspace() WorkspaceID {
	return g.allocated[g.current]
}

// Resolve returns the workspace identifier for coord, allocating a
// fresh one if the cell has never been visited.
func (g *Grid) Resolve(coord command.Coordinate) WorkspaceID {
	if id, ok := g.allocated[coord]; ok {
		g.visited[coord] = struct{}{}
		return id
	}
	id := g.next
	g.next++
	g.allocated[coord] = id
	g.visited[coord] = struct{}{}
	return id
}

// MoveBy shifts the cursor by (dx, dy) and returns the new position
// and its workspace. Coordinates are clamped at zero: moving Left or
// Up past the origin stays on the boundary cell. Externally visible
// coordinates are non-negative (SwitchTo takes non-negative integers),
// so internal navigation keeps the same floor.
func (g *Grid) MoveBy(dx, dy int) (command.Coordinate, WorkspaceID) {
	next := command.Coordinate{X: g.current.X + dx, Y: g.current.Y + dy}
	if next.X < 0 {
		next.X = 0
	}
	if next.Y < 0 {
		next.Y = 0
	}
	return next, g.SetCurrent(next)
}

// SetCurrent jumps the cursor to coord, allocating the cell if needed.
func (g *Grid) SetCurrent(coord command.Coordinate) WorkspaceID {
	id := g.Resolve(coord)
	g.current = coord
	return id
}

// MarkVisited records coord as seen without moving the cursor or
// allocating a workspace. Preview paths use it so the visualizer can
// dim cells the user passed through.
func (g *Grid) MarkVisited(coord command.Coordinate) {
	g.visited[coord] = struct{}{}
}

// Visited returns the visited cells in deterministic row-major order.
func (g *Grid) Visited() []command.Coordinate {
	cells := make([]command.Coordinate, 0, len(g.visited))
	for c := range g.visited {
		cells = append(cells, c)
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Y != cells[j].Y {
			return cells[i].Y < cells[j].Y
		}
		return cells[i].X < cells[j].X
	})
	return cells
}

// Dimensions returns the bounding box of all visited cells as a
// (columns, rows) pair, for rendering.
func (g *Grid) Dimensions() (cols, rows int) {
	for c := range g.visited {
		if c.X+1 > cols {
			cols = c.X + 1
		}
		if c.Y+1 > rows {
			rows = c.Y + 1
		}
	}
	return cols, rows
}
