// Package protocol defines the JSON payloads exchanged over the control
// websocket.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// MessageType identifies websocket payload variants.
type MessageType string

const (
	TypeCommand    MessageType = "command"
	TypeStdout     MessageType = "stdout"
	TypeStderr     MessageType = "stderr"
	TypeExitEvent  MessageType = "exit_event"
	TypeErrorEvent MessageType = "error_event"
)

var ErrUnsupportedType = errors.New("unsupported message type")

type Envelope struct {
	Type MessageType `json:"type"`
}

// CommandRequest carries one line of command text from a control client.
type CommandRequest struct {
	Type MessageType `json:"type"`
	Line string      `json:"line"`
}

// StdoutData carries queued command output back to the client. Guard
// lines are embedded in the data stream exactly as the queue emitted
// them.
type StdoutData struct {
	Type MessageType `json:"type"`
	Data string      `json:"data"`
}

type StderrData struct {
	Type MessageType `json:"type"`
	Data string      `json:"data"`
}

// ExitEvent tells the client the server is done with it, with the
// return value of the last failing command (zero when all succeeded).
type ExitEvent struct {
	Type   MessageType `json:"type"`
	Retval int         `json:"retval"`
}

type ErrorEvent struct {
	Type   MessageType `json:"type"`
	Detail string      `json:"detail"`
}

// ParseClientMessage decodes one inbound websocket frame. Control
// clients only ever send command requests.
func ParseClientMessage(raw []byte) (any, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("invalid envelope: %w", err)
	}

	switch env.Type {
	case TypeCommand:
		var msg CommandRequest
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, err
		}
		if msg.Line == "" {
			return nil, errors.New("invalid command: empty line")
		}
		return msg, nil
	default:
		return nil, ErrUnsupportedType
	}
}
