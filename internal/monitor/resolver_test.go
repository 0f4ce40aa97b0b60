package monitor

import (
	"errors"
	"testing"

	"github.com/1broseidon/gridshift/internal/command"
	"github.com/1broseidon/gridshift/internal/platform"
)

func mon(idx int, name string, x, y, w, h int) platform.Monitor {
	return platform.Monitor{
		Index:  idx,
		Name:   name,
		Bounds: platform.Rect{X: x, Y: y, Width: w, Height: h},
	}
}

func TestByIndex(t *testing.T) {
	layout := []platform.Monitor{
		mon(0, "DP-1", 0, 0, 1920, 1080),
		mon(1, "DP-2", 1920, 0, 1920, 1080),
	}
	m, err := ByIndex(layout, 1)
	if err != nil {
		t.Fatalf("ByIndex(1): %v", err)
	}
	if m.Name != "DP-2" {
		t.Fatalf("got %s, want DP-2", m.Name)
	}

	if _, err := ByIndex(layout, 2); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("ByIndex(len) error = %v, want ErrOutOfRange", err)
	}
	if _, err := ByIndex(layout, -1); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("ByIndex(-1) error = %v, want ErrOutOfRange", err)
	}
}

func TestInDirectionRow(t *testing.T) {
	// Three monitors in a row at x = 0, 100, 250 (unit-width so the
	// centers land near those positions), reference in the middle.
	layout := []platform.Monitor{
		mon(0, "left", 0, 0, 10, 10),
		mon(1, "mid", 100, 0, 10, 10),
		mon(2, "right", 250, 0, 10, 10),
	}
	ref := layout[1]

	m, err := InDirection(layout, ref, command.DirRight)
	if err != nil {
		t.Fatalf("Right: %v", err)
	}
	if m.Name != "right" {
		t.Fatalf("Right resolved %s", m.Name)
	}

	m, err = InDirection(layout, ref, command.DirLeft)
	if err != nil {
		t.Fatalf("Left: %v", err)
	}
	if m.Name != "left" {
		t.Fatalf("Left resolved %s", m.Name)
	}

	if _, err := InDirection(layout, ref, command.DirUp); !errors.Is(err, ErrNoMonitorInDirection) {
		t.Fatalf("Up error = %v, want ErrNoMonitorInDirection", err)
	}
}

func TestInDirectionPrefersSmallestPerpendicularOffset(t *testing.T) {
	// Two monitors to the right of the reference: one far away but
	// level with it, one nearby but offset vertically. The level one
	// wins despite the larger along-axis distance.
	ref := mon(0, "ref", 0, 0, 100, 100)
	layout := []platform.Monitor{
		ref,
		mon(1, "near-offset", 120, 300, 100, 100),
		mon(2, "far-level", 500, 0, 100, 100),
	}
	m, err := InDirection(layout, ref, command.DirRight)
	if err != nil {
		t.Fatalf("Right: %v", err)
	}
	if m.Name != "far-level" {
		t.Fatalf("resolved %s, want far-level", m.Name)
	}
}

func TestInDirectionTieBreaksByAlongAxis(t *testing.T) {
	ref := mon(0, "ref", 0, 0, 100, 100)
	layout := []platform.Monitor{
		ref,
		mon(1, "far", 600, 0, 100, 100),
		mon(2, "near", 200, 0, 100, 100),
	}
	m, err := InDirection(layout, ref, command.DirRight)
	if err != nil {
		t.Fatalf("Right: %v", err)
	}
	if m.Name != "near" {
		t.Fatalf("resolved %s, want near", m.Name)
	}
}

func TestInDirectionVerticalStack(t *testing.T) {
	top := mon(0, "top", 0, 0, 1920, 1080)
	bottom := mon(1, "bottom", 0, 1080, 1920, 1080)
	layout := []platform.Monitor{top, bottom}

	m, err := InDirection(layout, top, command.DirDown)
	if err != nil {
		t.Fatalf("Down: %v", err)
	}
	if m.Name != "bottom" {
		t.Fatalf("resolved %s", m.Name)
	}
	m, err = InDirection(layout, bottom, command.DirUp)
	if err != nil {
		t.Fatalf("Up: %v", err)
	}
	if m.Name != "top" {
		t.Fatalf("resolved %s", m.Name)
	}
}

func TestInDirectionSingleMonitor(t *testing.T) {
	ref := mon(0, "only", 0, 0, 1920, 1080)
	if _, err := InDirection([]platform.Monitor{ref}, ref, command.DirLeft); !errors.Is(err, ErrNoMonitorInDirection) {
		t.Fatalf("error = %v, want ErrNoMonitorInDirection", err)
	}
}
