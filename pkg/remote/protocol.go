// Package remote broadcasts touch transitions to WebSocket clients.
package remote

import "github.com/itohio/goxpt/pkg/sample"

// Message is a touch websocket payload.
type Message struct {
	T    string `json:"t"`  // down, move or up
	X    int    `json:"x"`  // mapped screen X
	Y    int    `json:"y"`  // mapped screen Y
	RawX int    `json:"rx"` // filtered raw X
	RawY int    `json:"ry"` // filtered raw Y
	TS   int64  `json:"ts"` // unix milliseconds
}

// NewMessage converts a touch transition.
func NewMessage(e sample.Event) Message {
	return Message{
		T:    e.Kind.String(),
		X:    e.Touch.X,
		Y:    e.Touch.Y,
		RawX: e.Touch.Raw.X,
		RawY: e.Touch.Raw.Y,
		TS:   e.Touch.Timestamp.UnixMilli(),
	}
}
