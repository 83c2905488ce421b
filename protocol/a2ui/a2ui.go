// Package a2ui adapts the native surface dialect: newline-delimited JSON,
// one surface message or component update per line. This is the richest
// dialect; the canonical message model is its in-memory form, so parsing
// is a pass-through of the line parser.
package a2ui

import (
	"encoding/json"
	"fmt"

	"github.com/c360/surfacekit/errors"
	"github.com/c360/surfacekit/message"
	"github.com/c360/surfacekit/protocol"
)

// Adapter speaks the native JSONL dialect.
type Adapter struct{}

// New creates the a2ui adapter.
func New() *Adapter {
	return &Adapter{}
}

// Protocol names the dialect.
func (a *Adapter) Protocol() protocol.Protocol {
	return protocol.ProtocolA2UI
}

// Detect accepts bare text payloads and envelopes carrying a jsonl field.
func (a *Adapter) Detect(payload any) bool {
	switch p := payload.(type) {
	case string, []byte:
		return true
	case map[string]any:
		if declared, ok := p["protocol"].(string); ok {
			name, known := protocol.Normalize(declared)
			return known && name == protocol.ProtocolA2UI
		}
		_, hasJSONL := p["jsonl"]
		return hasJSONL
	}
	return false
}

// Parse splits the payload's text into lines and translates each one.
// Malformed lines surface as warnings, never as an error; the dialect is
// append-only and later lines can still apply.
func (a *Adapter) Parse(payload any) (*protocol.ParseResult, error) {
	text, err := payloadText(payload)
	if err != nil {
		return nil, err
	}

	lines, warnings := message.ParseJSONL(text)
	result := &protocol.ParseResult{Warnings: warnings}
	for _, line := range lines {
		switch {
		case line.Message != nil && line.Message.Type == message.TypeActionEvent:
			result.Events = append(result.Events, line.Message.Event)
		case line.Message != nil:
			result.Messages = append(result.Messages, line.Message)
		case line.Update != nil:
			result.Updates = append(result.Updates, line.Update)
		}
	}
	return result, nil
}

// BuildOutboundEvent renders the interaction as one action_event line
// inside the a2ui envelope.
func (a *Adapter) BuildOutboundEvent(event *message.ActionEvent) (map[string]any, error) {
	if event == nil {
		return nil, errors.WrapInvalid(errors.ErrInvalidData, "a2ui", "BuildOutboundEvent", "event validation")
	}
	if err := event.Validate(); err != nil {
		return nil, err
	}
	line, err := json.Marshal(message.NewActionEvent(event))
	if err != nil {
		return nil, errors.WrapInvalid(err, "a2ui", "BuildOutboundEvent", "encode event line")
	}
	return map[string]any{
		"protocol": string(protocol.ProtocolA2UI),
		"jsonl":    string(line),
	}, nil
}

// payloadText pulls the JSONL text out of whichever carrier shape arrived.
func payloadText(payload any) (string, error) {
	switch p := payload.(type) {
	case string:
		return p, nil
	case []byte:
		return string(p), nil
	case map[string]any:
		text, ok := p["jsonl"].(string)
		if !ok {
			return "", errors.WrapInvalid(
				fmt.Errorf("a2ui envelope carries no jsonl text: %w", errors.ErrUnrecognizedPayload),
				"a2ui", "Parse", "envelope decode")
		}
		return text, nil
	}
	return "", errors.WrapInvalid(
		fmt.Errorf("payload type %T: %w", payload, errors.ErrUnrecognizedPayload),
		"a2ui", "Parse", "payload type check")
}

// Register adds the a2ui adapter to a registry.
func Register(registry *protocol.Registry) error {
	return registry.Register(New())
}
