package messages

import "encoding/json"

// TypeControl marks client-side control commands; responses reuse the
// server-side type constants.
const TypeControl = "control"

// ClientMessage represents a message from a chat client.
type ClientMessage struct {
	Type    string          `json:"type"` // "text", "control"
	Payload json.RawMessage `json:"payload"`
}

// TextPayload carries one user utterance.
type TextPayload struct {
	Text string `json:"text"`
}

// ControlPayload contains control commands.
type ControlPayload struct {
	Action string `json:"action"` // "ping", "reset"
}
