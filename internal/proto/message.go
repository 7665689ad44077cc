package proto

import "encoding/json"

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	ProtocolVersion = 1

	InboundTypeRegister = "register"
	InboundTypeMsg      = "msg"
	InboundTypeLogout   = "logout"

	OutboundTypeEvent = "event"
	OutboundTypeError = "error"
)

// RegisterData binds the connection to a user identity.
type RegisterData struct {
	UserID string `json:"user_id"`
}

// MsgData is a direct message from the client.
type MsgData struct {
	To   string `json:"to"`
	Text string `json:"text"`
}

// LogoutData requests an explicit logout before closing.
type LogoutData struct {
	UserID string `json:"user_id"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// EventMessage delivers a direct message to its recipient.
type EventMessage struct {
	ID   string `json:"id"`
	From string `json:"from"`
	Text string `json:"text"`
	TS   int64  `json:"ts"`
}

// EventUserStatus notifies that a user's presence changed.
type EventUserStatus struct {
	UserID string `json:"user_id"`
	Online bool   `json:"online"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
