package web

import (
	"encoding/json"
	"time"
)

// Websocket event types.
const (
	EventRenderDone   = "render.done"
	EventRenderFailed = "render.failed"
)

// WSEvent is a structured websocket message.
type WSEvent struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// RenderPayload describes a finished or failed render.
type RenderPayload struct {
	Source     string    `json:"source"`
	RequestID  string    `json:"request_id,omitempty"`
	DocumentID string    `json:"document_id,omitempty"`
	Template   int       `json:"template"`
	Bytes      int       `json:"bytes,omitempty"`
	Fallbacks  int       `json:"fallbacks"`
	Error      string    `json:"error,omitempty"`
	At         time.Time `json:"at"`
}

// RenderEvent encodes p as a render.done event, or render.failed when it
// carries an error.
func RenderEvent(p RenderPayload) []byte {
	typ := EventRenderDone
	if p.Error != "" {
		typ = EventRenderFailed
	}
	data, _ := json.Marshal(WSEvent{Type: typ, Payload: p})
	return data
}
