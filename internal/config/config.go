// Package config loads and validates the daemon configuration from
// ~/.config/gridshift/config.yaml.
package config

import (
	"fmt"

	"github.com/1broseidon/gridshift/internal/gesture"
)

// Backend selection values.
const (
	BackendAuto     = "auto"
	BackendHyprland = "hyprland"
	BackendX11      = "x11"
)

const (
	DefaultSensitivity     = 200.0
	DefaultCommitThreshold = 0.3
	DefaultSwitchFingers   = 3
	DefaultMoveFingers     = 4
)

// Gestures configures swipe recognition.
type Gestures struct {
	// Sensitivity is the swipe distance in pixels that counts as one
	// unit of progress.
	Sensitivity float64 `yaml:"sensitivity"`

	// CommitThreshold is the minimum progress for a released gesture
	// to commit. Must be in (0, 1].
	CommitThreshold float64 `yaml:"commit_threshold"`

	// CommitWhileDraggingThreshold commits a gesture mid-drag once
	// progress reaches it. Unset disables early commit.
	CommitWhileDraggingThreshold *float64 `yaml:"commit_while_dragging_threshold,omitempty"`

	// SwitchFingers is the finger count for a workspace-switch swipe.
	SwitchFingers int `yaml:"switch_fingers"`

	// MoveFingers is the finger count for a swipe that carries the
	// focused window along. Must differ from SwitchFingers.
	MoveFingers int `yaml:"move_fingers"`

	// NaturalSwiping inverts swipe direction so content follows the
	// fingers. Defaults to true.
	NaturalSwiping *bool `yaml:"natural_swiping,omitempty"`
}

// Overlay configures the grid visualizer.
type Overlay struct {
	CellSize    int `yaml:"cell_size"`
	HideDelayMS int `yaml:"hide_delay_ms"`
	FadeMS      int `yaml:"fade_ms"`
}

// Config holds the application configuration.
type Config struct {
	// Backend picks the window-manager backend: auto, hyprland or x11.
	Backend  string   `yaml:"backend"`
	LogLevel string   `yaml:"log_level"`
	Gestures Gestures `yaml:"gestures"`
	Overlay  Overlay  `yaml:"overlay"`
}

// ValidationError reports an invalid configuration value with its
// YAML path.
type ValidationError struct {
	Path string
	Err  error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func DefaultConfig() *Config {
	return &Config{
		Backend:  BackendAuto,
		LogLevel: "info",
		Gestures: Gestures{
			Sensitivity:     DefaultSensitivity,
			CommitThreshold: DefaultCommitThreshold,
			SwitchFingers:   DefaultSwitchFingers,
			MoveFingers:     DefaultMoveFingers,
		},
		Overlay: Overlay{
			CellSize:    80,
			HideDelayMS: 300,
			FadeMS:      200,
		},
	}
}

// GetNaturalSwiping returns the effective value, defaulting to true.
func (g *Gestures) GetNaturalSwiping() bool {
	if g == nil || g.NaturalSwiping == nil {
		return true
	}
	return *g.NaturalSwiping
}

// Tuning converts the gesture settings into accumulator parameters.
func (g *Gestures) Tuning() gesture.Tuning {
	t := gesture.Tuning{
		Sensitivity:     g.Sensitivity,
		CommitThreshold: g.CommitThreshold,
		NaturalSwiping:  g.GetNaturalSwiping(),
	}
	if g.CommitWhileDraggingThreshold != nil {
		t.CommitWhileDragging = *g.CommitWhileDraggingThreshold
	}
	return t
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendAuto, BackendHyprland, BackendX11:
	default:
		return &ValidationError{Path: "backend", Err: fmt.Errorf("backend must be one of: auto, hyprland, x11")}
	}
	if c.LogLevel != "debug" && c.LogLevel != "info" && c.LogLevel != "warning" && c.LogLevel != "error" {
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}

	g := &c.Gestures
	if g.Sensitivity <= 0 {
		return &ValidationError{Path: "gestures.sensitivity", Err: fmt.Errorf("sensitivity must be > 0")}
	}
	if g.CommitThreshold <= 0 || g.CommitThreshold > 1 {
		return &ValidationError{Path: "gestures.commit_threshold", Err: fmt.Errorf("commit_threshold must be in (0, 1]")}
	}
	if g.CommitWhileDraggingThreshold != nil {
		v := *g.CommitWhileDraggingThreshold
		if v <= 0 || v > 1 {
			return &ValidationError{Path: "gestures.commit_while_dragging_threshold", Err: fmt.Errorf("commit_while_dragging_threshold must be in (0, 1]")}
		}
	}
	if g.SwitchFingers <= 0 {
		return &ValidationError{Path: "gestures.switch_fingers", Err: fmt.Errorf("switch_fingers must be > 0")}
	}
	if g.MoveFingers <= 0 {
		return &ValidationError{Path: "gestures.move_fingers", Err: fmt.Errorf("move_fingers must be > 0")}
	}
	if g.SwitchFingers == g.MoveFingers {
		return &ValidationError{Path: "gestures.move_fingers", Err: fmt.Errorf("move_fingers must differ from switch_fingers")}
	}

	if c.Overlay.CellSize <= 0 {
		return &ValidationError{Path: "overlay.cell_size", Err: fmt.Errorf("cell_size must be > 0")}
	}
	if c.Overlay.HideDelayMS < 0 {
		return &ValidationError{Path: "overlay.hide_delay_ms", Err: fmt.Errorf("hide_delay_ms must be >= 0")}
	}
	if c.Overlay.FadeMS < 0 {
		return &ValidationError{Path: "overlay.fade_ms", Err: fmt.Errorf("fade_ms must be >= 0")}
	}
	return nil
}
