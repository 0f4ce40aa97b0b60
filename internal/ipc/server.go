package ipc

import (
	"bufio"
	"bytes"
	"encoding/json"
	"log"
	"net"
	"os"
	"sync"

	"github.com/1broseidon/gridshift/internal/command"
	"github.com/1broseidon/gridshift/internal/visualizer"
)

// Handler is the daemon side of the socket: commands are enqueued for
// the single consumer, status is answered from a snapshot.
type Handler interface {
	Submit(cmd command.Command)
	Status() StatusData
}

// Server accepts Unix-socket connections carrying newline-delimited
// commands. Connections are long-lived; the compositor plugin keeps
// one open and streams swipe events over it.
type Server struct {
	socketPath string
	listener   net.Listener
	handler    Handler

	subsMu sync.Mutex
	subs   map[chan visualizer.Notification]struct{}

	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a server for the given socket path. Any stale
// socket file is removed.
func NewServer(socketPath string, handler Handler) *Server {
	os.Remove(socketPath)
	return &Server{
		socketPath: socketPath,
		handler:    handler,
		subs:       make(map[chan visualizer.Notification]struct{}),
	}
}

// Start begins listening for connections.
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return err
	}
	s.listener = listener

	// Socket carries control of the user's desktop; owner only.
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return err
	}

	log.Printf("IPC server listening on %s", s.socketPath)
	go s.acceptLoop()
	return nil
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			log.Printf("IPC accept error: %v", err)
			continue
		}
		go s.handleConnection(conn)
	}
}

// handleConnection drains one connection line by line. A malformed
// line is logged and skipped; the connection stays open.
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		if verb, ok := parseVerb(line); ok {
			switch verb {
			case VerbStatus:
				s.sendStatus(conn)
			case VerbSubscribe:
				// The connection becomes a one-way notification
				// stream; stop reading commands from it.
				s.streamNotifications(conn)
				return
			}
			continue
		}

		cmd, err := command.Parse(line)
		if err != nil {
			log.Printf("IPC: ignoring malformed command: %v", err)
			continue
		}
		s.handler.Submit(cmd)
	}
	if err := scanner.Err(); err != nil {
		log.Printf("IPC read error: %v", err)
	}
}

// parseVerb recognizes transport verbs, which arrive as bare JSON
// strings just like unit commands. Unit command names are not verbs,
// so anything else falls through to command parsing.
func parseVerb(line []byte) (string, bool) {
	if len(line) == 0 || line[0] != '"' {
		return "", false
	}
	var tag string
	if err := json.Unmarshal(line, &tag); err != nil {
		return "", false
	}
	if tag == VerbStatus || tag == VerbSubscribe {
		return tag, true
	}
	return "", false
}

func (s *Server) sendStatus(conn net.Conn) {
	data, err := s.handler.Status().Marshal()
	if err != nil {
		log.Printf("IPC: %v", err)
		return
	}
	if _, err := conn.Write(data); err != nil {
		log.Printf("IPC: failed to send status: %v", err)
	}
}

// streamNotifications writes broadcast notifications to the
// connection until the client goes away.
func (s *Server) streamNotifications(conn net.Conn) {
	ch := make(chan visualizer.Notification, 64)
	s.subsMu.Lock()
	s.subs[ch] = struct{}{}
	s.subsMu.Unlock()
	defer func() {
		s.subsMu.Lock()
		delete(s.subs, ch)
		s.subsMu.Unlock()
	}()

	for n := range ch {
		data, err := json.Marshal(n)
		if err != nil {
			log.Printf("IPC: failed to marshal notification: %v", err)
			continue
		}
		data = append(data, '\n')
		if _, err := conn.Write(data); err != nil {
			return
		}
	}
}

// Broadcast fans a notification out to all subscribers. It never
// blocks; a subscriber that cannot keep up loses notifications rather
// than stalling the command path.
func (s *Server) Broadcast(n visualizer.Notification) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	for ch := range s.subs {
		select {
		case ch <- n:
		default:
		}
	}
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}

	s.subsMu.Lock()
	for ch := range s.subs {
		close(ch)
		delete(s.subs, ch)
	}
	s.subsMu.Unlock()

	os.Remove(s.socketPath)
}
