package websocket

import (
	"encoding/json"
	"time"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	// Sent to the client
	MessageTypeAuthSuccess MessageType = "auth_success"
	MessageTypeAuthFailed  MessageType = "auth_failed"
	MessageTypeReport      MessageType = "mdib_report"
	MessageTypeSystemState MessageType = "system_state"
	MessageTypeError       MessageType = "error"

	// Sent by the client
	MessageTypeAuth      MessageType = "auth"
	MessageTypeSubscribe MessageType = "subscribe"
)

// Message represents a WebSocket message
type Message struct {
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      any         `json:"data,omitempty"`
}

// ReportData carries one episodic report. Report is the protojson form of
// the EpisodicReportMsg.
type ReportData struct {
	ReportType  string          `json:"report_type"`
	MdibVersion uint64          `json:"mdib_version"`
	SequenceID  string          `json:"sequence_id"`
	Handles     []string        `json:"handles"`
	Report      json.RawMessage `json:"report"`
}

type SystemStateData struct {
	State    string `json:"state"`
	Previous string `json:"previous_state"`
}

type AuthData struct {
	Principal   string   `json:"principal"`
	Permissions []string `json:"permissions,omitempty"`
	Reason      string   `json:"reason,omitempty"`
}

// ClientMessage is what a client sends: first an auth message with a token,
// then optional subscribe messages naming report types.
type ClientMessage struct {
	Type    MessageType `json:"type"`
	Token   string      `json:"token,omitempty"`
	Actions []string    `json:"actions,omitempty"`
}

// NewMessage creates a new message with current timestamp
func NewMessage(msgType MessageType, data any) Message {
	return Message{
		Type:      msgType,
		Timestamp: time.Now(),
		Data:      data,
	}
}

func NewSystemStateMessage(newState, previousState string) Message {
	return NewMessage(MessageTypeSystemState, SystemStateData{
		State:    newState,
		Previous: previousState,
	})
}
