package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/gridshift/internal/command"
	"github.com/1broseidon/gridshift/internal/runtimepath"
	"github.com/1broseidon/gridshift/internal/visualizer"
)

// Client talks to the daemon socket.
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a client for the default socket path.
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; dial surfaces connection errors.
		socketPath = ""
	}
	return NewClientForPath(socketPath)
}

// NewClientForPath creates a client for an explicit socket path.
func NewClientForPath(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

func (c *Client) dial() (net.Conn, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	return conn, nil
}

// Send delivers one command. Commands have no reply; delivery is
// confirmed by the write succeeding.
func (c *Client) Send(cmd command.Command) error {
	conn, err := c.dial()
	if err != nil {
		return err
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(c.timeout))

	data, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("failed to marshal command: %w", err)
	}
	data = append(data, '\n')
	if _, err := conn.Write(data); err != nil {
		return fmt.Errorf("failed to send command: %w", err)
	}
	return nil
}

// Status retrieves the daemon snapshot.
func (c *Client) Status() (*StatusData, error) {
	conn, err := c.dial()
	if err != nil {
		return nil, err
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(c.timeout))

	if _, err := fmt.Fprintf(conn, "%q\n", VerbStatus); err != nil {
		return nil, fmt.Errorf("failed to send status request: %w", err)
	}

	reader := bufio.NewReader(conn)
	line, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read status: %w", err)
	}
	return ParseStatus(line)
}

// Ping checks whether the daemon is responding.
func (c *Client) Ping() error {
	_, err := c.Status()
	return err
}

// Subscribe opens a notification stream. Notifications arrive on the
// returned channel until ctx is cancelled or the daemon goes away,
// after which the channel closes.
func (c *Client) Subscribe(ctx context.Context) (<-chan visualizer.Notification, error) {
	conn, err := c.dial()
	if err != nil {
		return nil, err
	}

	if _, err := fmt.Fprintf(conn, "%q\n", VerbSubscribe); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}

	ch := make(chan visualizer.Notification, 16)
	go func() {
		<-ctx.Done()
		conn.Close()
	}()
	go func() {
		defer close(ch)
		defer conn.Close()
		scanner := bufio.NewScanner(conn)
		for scanner.Scan() {
			var n visualizer.Notification
			if err := json.Unmarshal(scanner.Bytes(), &n); err != nil {
				continue
			}
			select {
			case ch <- n:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch, nil
}
