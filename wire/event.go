// Package wire is the message format between the explorer server and its
// browser client. The client sends JSON events in text messages; the server
// answers with binary frame and export messages and JSON status messages.
package wire

import (
	"encoding/json"
	"fmt"
)

// EventType names a client event.
type EventType string

const (
	EventResize EventType = "resize" // width, height: surface size in pixels
	EventWheel  EventType = "wheel"  // dy: positive zooms out
	EventPan    EventType = "pan"    // dx, dy: pointer movement in pixels
	EventPinch  EventType = "pinch"  // ratio: new / old finger distance
	EventTap    EventType = "tap"    // x, y: pixel; secondary for the alternate button
	EventJump   EventType = "jump"   // x, y: plane point to center on
	EventSet    EventType = "set"    // query: state fields, landmark or action
	EventExport EventType = "export" // width: export width, 0 for the default
)

// Event is a client input event. Which fields are meaningful depends on
// Type.
type Event struct {
	Type EventType `json:"type"`

	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`

	X  float64 `json:"x,omitempty"`
	Y  float64 `json:"y,omitempty"`
	DX float64 `json:"dx,omitempty"`
	DY float64 `json:"dy,omitempty"`

	Ratio     float64 `json:"ratio,omitempty"`
	Secondary bool    `json:"secondary,omitempty"`

	Query string `json:"query,omitempty"`
}

// ParseEvent decodes a text message from the client.
func ParseEvent(data []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return Event{}, fmt.Errorf("wire: event: %w", err)
	}
	switch e.Type {
	case EventResize, EventWheel, EventPan, EventPinch, EventTap, EventJump, EventSet, EventExport:
		return e, nil
	}
	return Event{}, fmt.Errorf("wire: unknown event type %q", e.Type)
}

// Marshal encodes e as a text message.
func (e Event) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

// Status is the server's report after a presented frame. State is the state
// query of the view, which the client mirrors into its location.
type Status struct {
	Type   string `json:"type"`
	State  string `json:"state"`
	Info   string `json:"info"`
	Budget int    `json:"budget"`
	FPS    int    `json:"fps"`
	Error  string `json:"error,omitempty"`
}

// StatusType is the type of every status message.
const StatusType = "status"

// Marshal encodes s as a text message.
func (s Status) Marshal() ([]byte, error) {
	s.Type = StatusType
	return json.Marshal(s)
}

// ParseStatus decodes a status message.
func ParseStatus(data []byte) (Status, error) {
	var s Status
	if err := json.Unmarshal(data, &s); err != nil {
		return Status{}, fmt.Errorf("wire: status: %w", err)
	}
	if s.Type != StatusType {
		return Status{}, fmt.Errorf("wire: not a status message: %q", s.Type)
	}
	return s, nil
}
