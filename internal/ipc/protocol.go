package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/gridshift/internal/command"
)

// Transport-level verbs. A wire line that is not a verb is parsed as a
// switcher command; verbs are answered by the transport and never
// reach the core.
const (
	// VerbStatus requests a single StatusData reply on the same
	// connection.
	VerbStatus = "Status"

	// VerbSubscribe turns the connection into a notification stream:
	// the server writes one visualizer notification per line until
	// the client disconnects.
	VerbSubscribe = "Subscribe"
)

// StatusData is the daemon snapshot returned for VerbStatus.
type StatusData struct {
	InstanceID    string               `json:"instance_id"`
	Version       string               `json:"version"`
	Backend       string               `json:"backend"`
	UptimeSeconds int64                `json:"uptime_seconds"`
	Current       command.Coordinate   `json:"current"`
	Workspace     int                  `json:"workspace"`
	Cols          int                  `json:"cols"`
	Rows          int                  `json:"rows"`
	Visited       []command.Coordinate `json:"visited"`
	GestureActive bool                 `json:"gesture_active"`
	Pinned        bool                 `json:"pinned"`
}

// Marshal encodes the status as a single wire line.
func (s StatusData) Marshal() ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal status: %w", err)
	}
	return append(data, '\n'), nil
}

// ParseStatus decodes a status reply line.
func ParseStatus(data []byte) (*StatusData, error) {
	var status StatusData
	if err := json.Unmarshal(data, &status); err != nil {
		return nil, fmt.Errorf("failed to parse status: %w", err)
	}
	return &status, nil
}
