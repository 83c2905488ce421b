// Package adkui adapts the legacy single-shot dialect: one payload
// carrying a components array, an optional theme and an optional data
// model, with no surface addressing and no streaming. Everything lands on
// the fixed default surface.
package adkui

import (
	"encoding/json"
	"fmt"

	"github.com/c360/surfacekit/component"
	"github.com/c360/surfacekit/errors"
	"github.com/c360/surfacekit/message"
	"github.com/c360/surfacekit/protocol"
)

// ThemePath is where the payload's theme lands in the data model.
const ThemePath = "/theme"

// Adapter speaks the legacy single-shot dialect.
type Adapter struct{}

// New creates the adk_ui adapter.
func New() *Adapter {
	return &Adapter{}
}

// Protocol names the dialect.
func (a *Adapter) Protocol() protocol.Protocol {
	return protocol.ProtocolADKUI
}

// Detect accepts payloads carrying a legacy components field and event
// envelopes whose event carries an action. Payloads declaring any
// protocol other than adk_ui are refused; the legacy dialect predates the
// protocol field.
func (a *Adapter) Detect(payload any) bool {
	obj, ok := payload.(map[string]any)
	if !ok {
		return false
	}
	if declared, ok := obj["protocol"].(string); ok {
		name, known := protocol.Normalize(declared)
		return known && name == protocol.ProtocolADKUI
	}
	if _, ok := obj["components"]; ok {
		return true
	}
	if event, ok := obj["event"].(map[string]any); ok {
		_, hasAction := event["action"].(string)
		return hasAction
	}
	return false
}

// Parse translates a single-shot payload into a create plus component
// update pair on the default surface, with the theme patched into the
// data model. Event envelopes translate to canonical events.
func (a *Adapter) Parse(payload any) (*protocol.ParseResult, error) {
	obj, ok := payload.(map[string]any)
	if !ok {
		return nil, errors.WrapInvalid(
			fmt.Errorf("payload type %T: %w", payload, errors.ErrUnrecognizedPayload),
			"adkui", "Parse", "payload type check")
	}

	if components, ok := obj["components"]; ok {
		return a.parseSingleShot(obj, components)
	}
	if event, ok := obj["event"].(map[string]any); ok {
		return a.parseEvent(event)
	}
	return nil, errors.WrapInvalid(
		fmt.Errorf("adk_ui payload carries neither components nor event: %w", errors.ErrUnrecognizedPayload),
		"adkui", "Parse", "envelope decode")
}

// BuildOutboundEvent wraps the interaction in the legacy tool envelope:
// the event itself plus the plain-text turn echoed to the agent.
func (a *Adapter) BuildOutboundEvent(event *message.ActionEvent) (map[string]any, error) {
	if event == nil {
		return nil, errors.WrapInvalid(errors.ErrInvalidData, "adkui", "BuildOutboundEvent", "event validation")
	}
	if err := event.Validate(); err != nil {
		return nil, err
	}

	raw, err := json.Marshal(event)
	if err != nil {
		return nil, errors.WrapInvalid(err, "adkui", "BuildOutboundEvent", "encode event")
	}
	var wire map[string]any
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, errors.WrapInvalid(err, "adkui", "BuildOutboundEvent", "decode event envelope")
	}

	return map[string]any{
		"version":     protocol.ToolEnvelopeVersion,
		"event":       wire,
		"userMessage": event.UserMessage(),
	}, nil
}

func (a *Adapter) parseSingleShot(obj map[string]any, components any) (*protocol.ParseResult, error) {
	surfaceID := protocol.DefaultSurfaceID
	dataModel, _ := obj["dataModel"].(map[string]any)

	result := &protocol.ParseResult{}
	result.Messages = append(result.Messages, message.NewCreateSurface(surfaceID, nil, dataModel))
	result.Messages = append(result.Messages, message.NewUpdateComponents(surfaceID, rooted(components)))

	if theme, ok := obj["theme"].(map[string]any); ok {
		result.Messages = append(result.Messages, message.NewUpdateDataModel(surfaceID, []message.Patch{
			{Path: ThemePath, Value: theme},
		}))
	}
	return result, nil
}

func (a *Adapter) parseEvent(event map[string]any) (*protocol.ParseResult, error) {
	raw, err := json.Marshal(event)
	if err != nil {
		return nil, errors.WrapInvalid(err, "adkui", "Parse", "encode event")
	}
	var action message.ActionEvent
	if err := json.Unmarshal(raw, &action); err != nil {
		return nil, errors.WrapInvalid(err, "adkui", "Parse", "decode event")
	}
	if err := action.Validate(); err != nil {
		return nil, err
	}
	return &protocol.ParseResult{Events: []*message.ActionEvent{&action}}, nil
}

// rooted gives a legacy components list a single root. A one-element
// array and a bare component object pass through; anything else is
// wrapped in the same synthesized container a snapshot decode would use.
func rooted(components any) any {
	switch v := components.(type) {
	case []any:
		if len(v) == 1 {
			if obj, ok := v[0].(map[string]any); ok {
				return obj
			}
		}
		return map[string]any{
			"type":     string(component.KindContainer),
			"id":       component.ImplicitRootID,
			"children": v,
		}
	default:
		return components
	}
}

// Register adds the adk_ui adapter to a registry.
func Register(registry *protocol.Registry) error {
	return registry.Register(New())
}
