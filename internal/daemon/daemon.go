// Package daemon owns the long-running process: it funnels commands
// from every source (IPC clients, the gesture event source) into a
// single queue, drains them through the switcher one at a time, and
// fans overlay notifications out to socket subscribers.
package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/1broseidon/gridshift/internal/command"
	"github.com/1broseidon/gridshift/internal/config"
	"github.com/1broseidon/gridshift/internal/events"
	"github.com/1broseidon/gridshift/internal/ipc"
	"github.com/1broseidon/gridshift/internal/platform"
	"github.com/1broseidon/gridshift/internal/runtimepath"
	"github.com/1broseidon/gridshift/internal/switcher"
	"github.com/1broseidon/gridshift/internal/visualizer"
	"github.com/1broseidon/gridshift/internal/x11"
)

const queueDepth = 256

// Daemon wires the backend, switcher, IPC server and gesture source
// together. The switcher is single-writer: only the queue consumer
// calls Handle, and mu serializes status snapshots against it.
type Daemon struct {
	cfg      *config.Config
	version  string
	logger   *slog.Logger
	backend  platform.Backend
	switcher *switcher.Switcher
	server   *ipc.Server
	queue    chan command.Command

	socketPath string

	instanceID string
	started    time.Time

	// On-screen overlay, X11 only. overlayCurrent/overlayVisited
	// mirror the last position notification; both are touched only
	// from the sink, which runs on the consumer goroutine.
	overlay        *x11.GridOverlay
	overlayCurrent command.Coordinate
	overlayVisited []command.Coordinate

	mu sync.RWMutex
}

// New builds a daemon from the given configuration. The backend is
// chosen per cfg.Backend (auto-detection by default).
func New(cfg *config.Config, version string, logger *slog.Logger) (*Daemon, error) {
	if logger == nil {
		logger = slog.Default()
	}

	backend, err := platform.New(cfg.Backend)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize backend: %w", err)
	}

	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		backend.Close()
		return nil, err
	}

	d := &Daemon{
		cfg:        cfg,
		version:    version,
		logger:     logger,
		backend:    backend,
		socketPath: socketPath,
		queue:      make(chan command.Command, queueDepth),
		instanceID: uuid.NewString(),
		started:    time.Now(),
	}

	if xb, ok := backend.(*platform.X11Backend); ok {
		d.overlay = x11.NewGridOverlay(
			xb.Connection(),
			cfg.Overlay.CellSize,
			time.Duration(cfg.Overlay.HideDelayMS)*time.Millisecond,
		)
	}

	sink := visualizer.SinkFunc(func(n visualizer.Notification) {
		if d.server != nil {
			d.server.Broadcast(n)
		}
		d.updateOverlay(n)
	})
	d.switcher = switcher.New(backend, cfg.Gestures, sink, logger)

	d.server = ipc.NewServer(socketPath, d)
	return d, nil
}

// Run serves until ctx is cancelled.
func (d *Daemon) Run(ctx context.Context) error {
	if err := d.server.Start(); err != nil {
		return fmt.Errorf("failed to start IPC server: %w", err)
	}
	defer d.server.Stop()
	defer d.backend.Close()
	if d.overlay != nil {
		defer d.overlay.Destroy()
	}

	d.logger.Info("daemon started",
		"instance_id", d.instanceID,
		"backend", d.backend.Name(),
		"socket", d.socketPath)

	// The gesture source only exists under Hyprland; elsewhere swipe
	// commands still arrive over IPC.
	if src, err := events.NewSource(d.Submit, d.logger); err == nil {
		go func() {
			if err := src.Run(ctx); err != nil && ctx.Err() == nil {
				d.logger.Error("gesture event source stopped", "error", err)
			}
		}()
	} else {
		d.logger.Info("gesture event source disabled", "reason", err)
	}

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("daemon shutting down")
			return nil
		case cmd := <-d.queue:
			d.dispatch(cmd)
		}
	}
}

func (d *Daemon) dispatch(cmd command.Command) {
	d.mu.Lock()
	err := d.switcher.Handle(cmd)
	d.mu.Unlock()

	if err != nil {
		d.logger.Warn("command failed", "command", cmd.String(), "error", err)
	}
}

// updateOverlay mirrors notifications onto the on-screen overlay.
func (d *Daemon) updateOverlay(n visualizer.Notification) {
	if d.overlay == nil {
		return
	}

	switch n.Kind {
	case visualizer.KindPositionChanged:
		if n.Current != nil {
			d.overlayCurrent = *n.Current
		}
		d.overlayVisited = n.Visited
		cols, rows := overlayBounds(d.overlayCurrent, d.overlayVisited)
		if err := d.overlay.ShowPosition(cols, rows,
			x11.GridCell{X: d.overlayCurrent.X, Y: d.overlayCurrent.Y},
			overlayCells(d.overlayVisited)); err != nil {
			d.logger.Warn("overlay render failed", "error", err)
		}

	case visualizer.KindGesturePreview:
		dx, dy := n.Direction.Delta()
		target := x11.GridCell{X: d.overlayCurrent.X + dx, Y: d.overlayCurrent.Y + dy}
		if target.X < 0 {
			target.X = 0
		}
		if target.Y < 0 {
			target.Y = 0
		}
		cur := d.overlayCurrent
		cols, rows := overlayBounds(cur, d.overlayVisited)
		if target.X+1 > cols {
			cols = target.X + 1
		}
		if target.Y+1 > rows {
			rows = target.Y + 1
		}
		if err := d.overlay.ShowPreview(cols, rows,
			x11.GridCell{X: cur.X, Y: cur.Y},
			overlayCells(d.overlayVisited), target, n.Progress); err != nil {
			d.logger.Warn("overlay render failed", "error", err)
		}

	case visualizer.KindToggled:
		d.overlay.SetPinned(n.Pinned)
	}
}

func overlayBounds(current command.Coordinate, visited []command.Coordinate) (cols, rows int) {
	cols, rows = current.X+1, current.Y+1
	for _, c := range visited {
		if c.X+1 > cols {
			cols = c.X + 1
		}
		if c.Y+1 > rows {
			rows = c.Y + 1
		}
	}
	return cols, rows
}

func overlayCells(coords []command.Coordinate) []x11.GridCell {
	cells := make([]x11.GridCell, len(coords))
	for i, c := range coords {
		cells[i] = x11.GridCell{X: c.X, Y: c.Y}
	}
	return cells
}

// Submit queues a command for the consumer loop. Implements
// ipc.Handler. The queue is bounded; when it is full the send blocks
// the submitting connection until the consumer catches up, so commands
// are never dropped or reordered.
func (d *Daemon) Submit(cmd command.Command) {
	d.queue <- cmd
}

// Status snapshots daemon and grid state. Implements ipc.Handler.
func (d *Daemon) Status() ipc.StatusData {
	d.mu.RLock()
	defer d.mu.RUnlock()

	cols, rows := d.switcher.Dimensions()
	return ipc.StatusData{
		InstanceID:    d.instanceID,
		Version:       d.version,
		Backend:       d.backend.Name(),
		UptimeSeconds: int64(time.Since(d.started).Seconds()),
		Current:       d.switcher.Current(),
		Workspace:     d.switcher.CurrentWorkspace(),
		Cols:          cols,
		Rows:          rows,
		Visited:       d.switcher.Visited(),
		GestureActive: d.switcher.GestureActive(),
		Pinned:        d.switcher.Pinned(),
	}
}
