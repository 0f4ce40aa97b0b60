// Package events reads Hyprland's event socket and forwards touchpad
// swipe events as gesture commands.
//
// Hyprland publishes events in "EVENT>>DATA" line format on socket2 at
// $XDG_RUNTIME_DIR/hypr/$HYPRLAND_INSTANCE_SIGNATURE/.socket2.sock.
// Swipe events carry:
//
//	swipebegin>>F        a multi-finger swipe started
//	swipeupdate>>F,DX,DY incremental finger movement in pixels
//	swipeend>>F          fingers lifted
//
// The source does no gesture interpretation of its own. Each event is
// translated 1:1 into SwipeBegin/SwipeUpdate/SwipeEnd and handed to
// the submit callback; accumulation and thresholds happen downstream.
package events

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/1broseidon/gridshift/internal/command"
	"github.com/cenkalti/backoff"
)

// Source streams swipe events from Hyprland's socket2.
type Source struct {
	socketPath string
	submit     func(command.Command)
	logger     *slog.Logger
}

// NewSource resolves the event socket path from the environment. It
// fails when no Hyprland instance is running.
func NewSource(submit func(command.Command), logger *slog.Logger) (*Source, error) {
	sig := os.Getenv("HYPRLAND_INSTANCE_SIGNATURE")
	if sig == "" {
		return nil, fmt.Errorf("HYPRLAND_INSTANCE_SIGNATURE is not set")
	}
	runtimeDir := os.Getenv("XDG_RUNTIME_DIR")
	if runtimeDir == "" {
		return nil, fmt.Errorf("XDG_RUNTIME_DIR is not set")
	}
	return NewSourceForPath(filepath.Join(runtimeDir, "hypr", sig, ".socket2.sock"), submit, logger), nil
}

// NewSourceForPath creates a source reading from an explicit socket.
func NewSourceForPath(socketPath string, submit func(command.Command), logger *slog.Logger) *Source {
	if logger == nil {
		logger = slog.Default()
	}
	return &Source{socketPath: socketPath, submit: submit, logger: logger}
}

// Run listens for events until ctx is cancelled. Lost connections are
// re-established with exponential backoff; a successful connection
// resets the backoff.
func (s *Source) Run(ctx context.Context) error {
	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = 0

	for {
		err := s.listen(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		wait := policy.NextBackOff()
		s.logger.Warn("event socket lost, reconnecting", "error", err, "wait", wait)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

// listen consumes a single connection until it drops or ctx ends.
func (s *Source) listen(ctx context.Context) error {
	conn, err := net.Dial("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to connect to event socket: %w", err)
	}
	defer conn.Close()

	s.logger.Info("gesture event source connected", "socket", s.socketPath)

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		if cmd, ok := parseLine(line); ok {
			s.submit(cmd)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("event socket read: %w", err)
	}
	return fmt.Errorf("event socket closed")
}

// parseLine translates one "EVENT>>DATA" line into a gesture command.
// Non-swipe events and malformed payloads are dropped.
func parseLine(line string) (command.Command, bool) {
	event, data, found := strings.Cut(line, ">>")
	if !found {
		return command.Command{}, false
	}
	// Newer Hyprland versions prefix events with a namespace, e.g.
	// "touchpad:swipebegin".
	if i := strings.LastIndex(event, ":"); i >= 0 {
		event = event[i+1:]
	}

	switch event {
	case "swipebegin":
		fingers, err := strconv.Atoi(strings.TrimSpace(data))
		if err != nil {
			return command.Command{}, false
		}
		return command.SwipeBegin(fingers), true
	case "swipeupdate":
		parts := strings.Split(strings.TrimSpace(data), ",")
		if len(parts) != 3 {
			return command.Command{}, false
		}
		fingers, err := strconv.Atoi(parts[0])
		if err != nil {
			return command.Command{}, false
		}
		dx, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return command.Command{}, false
		}
		dy, err := strconv.ParseFloat(parts[2], 64)
		if err != nil {
			return command.Command{}, false
		}
		return command.SwipeUpdate(fingers, dx, dy), true
	case "swipeend":
		return command.SwipeEnd(), true
	}
	return command.Command{}, false
}
