package messages

import "github.com/tabletalk-ai/tabletalk/booking"

// Error codes
const (
	ErrCodeInvalidMessage     = "INVALID_MESSAGE"
	ErrCodeTurnFailed         = "TURN_FAILED"
	ErrCodeConversationFailed = "CONVERSATION_FAILED"
	ErrCodeConnectionClosed   = "CONNECTION_CLOSED"
)

// Message types
const (
	TypeText    = "text"
	TypeStatus  = "status"
	TypeError   = "error"
	TypeBooking = "booking"
)

// ServerMessage represents a message sent to the chat client.
type ServerMessage struct {
	Type           string      `json:"type"` // "text", "status", "error", "booking"
	ConversationID string      `json:"conversationId,omitempty"`
	Payload        interface{} `json:"payload"`
}

// TextResponsePayload contains the assistant's reply for one turn.
type TextResponsePayload struct {
	Text    string          `json:"text"`
	Step    booking.Step    `json:"step"`
	Context booking.Context `json:"context"`
}

// StatusPayload contains status updates.
type StatusPayload struct {
	Status  string `json:"status"` // "connected", "pong", "reset", "disconnected"
	Message string `json:"message,omitempty"`
}

// ErrorPayload contains error information.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// BookingPayload carries the confirmed reservation.
type BookingPayload struct {
	Booking booking.Booking `json:"booking"`
}

// NewTextMessage creates a turn-response message.
func NewTextMessage(conversationID, text string, ctx booking.Context) *ServerMessage {
	return &ServerMessage{
		Type:           TypeText,
		ConversationID: conversationID,
		Payload: TextResponsePayload{
			Text:    text,
			Step:    ctx.Step,
			Context: ctx,
		},
	}
}

// NewStatusMessage creates a status message.
func NewStatusMessage(conversationID, status, message string) *ServerMessage {
	return &ServerMessage{
		Type:           TypeStatus,
		ConversationID: conversationID,
		Payload: StatusPayload{
			Status:  status,
			Message: message,
		},
	}
}

// NewErrorMessage creates an error message.
func NewErrorMessage(conversationID, code, message string) *ServerMessage {
	return &ServerMessage{
		Type:           TypeError,
		ConversationID: conversationID,
		Payload: ErrorPayload{
			Code:    code,
			Message: message,
		},
	}
}

// NewBookingMessage announces a confirmed booking.
func NewBookingMessage(conversationID string, b booking.Booking) *ServerMessage {
	return &ServerMessage{
		Type:           TypeBooking,
		ConversationID: conversationID,
		Payload:        BookingPayload{Booking: b},
	}
}
