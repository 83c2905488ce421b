// Package agui adapts the AG-UI dialect. Surfaces and interactions travel
// as CUSTOM events inside a run event stream; everything else on the
// stream (lifecycle brackets, text deltas, tool traffic) belongs to other
// consumers and is filtered out here.
package agui

import (
	"encoding/json"
	"fmt"

	"github.com/c360/surfacekit/errors"
	"github.com/c360/surfacekit/message"
	"github.com/c360/surfacekit/protocol"
)

// AG-UI event type tags, SCREAMING_SNAKE_CASE on the wire.
const (
	EventTypeRunStarted  = "RUN_STARTED"
	EventTypeRunFinished = "RUN_FINISHED"
	EventTypeCustom      = "CUSTOM"
)

// Custom event names in the adk.ui namespace.
const (
	// SurfaceEventName carries a full surface snapshot.
	SurfaceEventName = "adk.ui.surface"
	// UpdateEventName carries an incremental component or data update.
	UpdateEventName = "adk.ui.update"
	// ActionEventName carries a user interaction.
	ActionEventName = "adk.ui.event"
)

// SurfaceFormat is the format tag a surface event's value must declare.
const SurfaceFormat = "adk-ui-surface-v1"

// Adapter speaks the AG-UI custom event dialect.
type Adapter struct{}

// New creates the ag_ui adapter.
func New() *Adapter {
	return &Adapter{}
}

// Protocol names the dialect.
func (a *Adapter) Protocol() protocol.Protocol {
	return protocol.ProtocolAGUI
}

// Detect accepts envelopes carrying an event stream or a single event.
// AG-UI events always carry a type tag; the legacy dialect's event field
// carries an action instead, so the tag alone disambiguates the two.
func (a *Adapter) Detect(payload any) bool {
	obj, ok := payload.(map[string]any)
	if !ok {
		return false
	}
	if declared, ok := obj["protocol"].(string); ok {
		name, known := protocol.Normalize(declared)
		return known && name == protocol.ProtocolAGUI
	}
	if _, ok := obj["events"].([]any); ok {
		return true
	}
	if event, ok := obj["event"].(map[string]any); ok {
		_, hasType := event["type"].(string)
		return hasType
	}
	return false
}

// Parse filters the event stream down to adk.ui custom events and
// translates each into canonical messages. Lifecycle events and foreign
// custom events are skipped without a warning; a malformed adk.ui event
// is skipped with one.
func (a *Adapter) Parse(payload any) (*protocol.ParseResult, error) {
	obj, ok := payload.(map[string]any)
	if !ok {
		return nil, errors.WrapInvalid(
			fmt.Errorf("payload type %T: %w", payload, errors.ErrUnrecognizedPayload),
			"agui", "Parse", "payload type check")
	}

	events, err := eventList(obj)
	if err != nil {
		return nil, err
	}

	result := &protocol.ParseResult{}
	for i, raw := range events {
		n := i + 1
		event, ok := raw.(map[string]any)
		if !ok {
			warn(result, n, "event", fmt.Errorf("event is not an object: %w", errors.ErrInvalidData))
			continue
		}
		a.translateEvent(result, n, event)
	}
	return result, nil
}

// BuildOutboundEvent wraps the interaction as a CUSTOM adk.ui.event.
func (a *Adapter) BuildOutboundEvent(event *message.ActionEvent) (map[string]any, error) {
	if event == nil {
		return nil, errors.WrapInvalid(errors.ErrInvalidData, "agui", "BuildOutboundEvent", "event validation")
	}
	if err := event.Validate(); err != nil {
		return nil, err
	}

	value, err := eventValue(event)
	if err != nil {
		return nil, err
	}
	custom := map[string]any{
		"type":  EventTypeCustom,
		"name":  ActionEventName,
		"value": value,
	}
	if event.Timestamp != 0 {
		custom["timestamp"] = event.Timestamp
	}
	return map[string]any{
		"protocol": string(protocol.ProtocolAGUI),
		"event":    custom,
	}, nil
}

// eventList accepts either a full stream or a single event envelope.
func eventList(obj map[string]any) ([]any, error) {
	if events, ok := obj["events"].([]any); ok {
		return events, nil
	}
	if event, ok := obj["event"].(map[string]any); ok {
		return []any{event}, nil
	}
	return nil, errors.WrapInvalid(
		fmt.Errorf("ag_ui envelope carries no events: %w", errors.ErrUnrecognizedPayload),
		"agui", "Parse", "envelope decode")
}

func (a *Adapter) translateEvent(result *protocol.ParseResult, n int, event map[string]any) {
	typ, _ := event["type"].(string)
	switch typ {
	case EventTypeRunStarted, EventTypeRunFinished:
		// Lifecycle brackets carry no surface content.
		return
	case EventTypeCustom:
		a.translateCustom(result, n, event)
	case "":
		warn(result, n, "event", fmt.Errorf("event has no type tag: %w", errors.ErrUnknownMessageType))
	default:
		// Other AG-UI event kinds share the stream with UI traffic.
		return
	}
}

func (a *Adapter) translateCustom(result *protocol.ParseResult, n int, event map[string]any) {
	name, _ := event["name"].(string)
	switch name {
	case SurfaceEventName:
		translateSurface(result, n, event)
	case UpdateEventName:
		translateUpdate(result, n, event)
	case ActionEventName:
		translateAction(result, n, event)
	default:
		// Custom events outside the adk.ui namespace belong to the host.
	}
}

// translateSurface turns a snapshot event into a create plus a component
// update, so the surface exists even when the snapshot carries no
// components yet.
func translateSurface(result *protocol.ParseResult, n int, event map[string]any) {
	value, ok := event["value"].(map[string]any)
	if !ok {
		warn(result, n, SurfaceEventName, fmt.Errorf("surface event has no value object: %w", errors.ErrInvalidData))
		return
	}
	format, _ := value["format"].(string)
	if format != SurfaceFormat {
		warn(result, n, SurfaceEventName, fmt.Errorf("surface format %q is not %q: %w", format, SurfaceFormat, errors.ErrInvalidData))
		return
	}
	doc, ok := value["surface"].(map[string]any)
	if !ok {
		warn(result, n, SurfaceEventName, fmt.Errorf("surface event has no surface document: %w", errors.ErrInvalidData))
		return
	}

	surfaceID := surfaceIDOf(doc)
	if surfaceID == "" {
		warn(result, n, SurfaceEventName, fmt.Errorf("surface document has no id: %w", errors.ErrInvalidData))
		return
	}
	dataModel, _ := doc["dataModel"].(map[string]any)
	result.Messages = append(result.Messages, message.NewCreateSurface(surfaceID, nil, dataModel))
	if components, exists := doc["components"]; exists && components != nil {
		result.Messages = append(result.Messages, message.NewUpdateComponents(surfaceID, components))
	}
}

// translateUpdate handles both shapes an update event can carry: a
// component-level operation, or surface-level components/patches.
func translateUpdate(result *protocol.ParseResult, n int, event map[string]any) {
	value, ok := event["value"].(map[string]any)
	if !ok {
		warn(result, n, UpdateEventName, fmt.Errorf("update event has no value object: %w", errors.ErrInvalidData))
		return
	}

	if _, isOperation := value["operation"]; isOperation {
		raw, err := json.Marshal(value)
		if err == nil {
			var upd *message.UIUpdate
			if upd, err = message.DecodeUIUpdate(raw); err == nil {
				result.Updates = append(result.Updates, upd)
				return
			}
		}
		warn(result, n, UpdateEventName, err)
		return
	}

	surfaceID, _ := value["surfaceId"].(string)
	if surfaceID == "" {
		warn(result, n, UpdateEventName, fmt.Errorf("update event has no surfaceId: %w", errors.ErrInvalidData))
		return
	}

	translated := false
	if components, exists := value["components"]; exists && components != nil {
		result.Messages = append(result.Messages, message.NewUpdateComponents(surfaceID, components))
		translated = true
	}
	if rawPatches, exists := value["patches"].([]any); exists {
		patches := make([]message.Patch, 0, len(rawPatches))
		for _, rawPatch := range rawPatches {
			patch, ok := rawPatch.(map[string]any)
			if !ok {
				warn(result, n, UpdateEventName, fmt.Errorf("patch is not an object: %w", errors.ErrInvalidData))
				continue
			}
			path, _ := patch["path"].(string)
			if path == "" {
				warn(result, n, UpdateEventName, fmt.Errorf("patch has no path: %w", errors.ErrInvalidPath))
				continue
			}
			patches = append(patches, message.Patch{Path: path, Value: patch["value"]})
		}
		if len(patches) > 0 {
			result.Messages = append(result.Messages, message.NewUpdateDataModel(surfaceID, patches))
			translated = true
		}
	}
	if !translated {
		warn(result, n, UpdateEventName, fmt.Errorf("update event carries neither components nor patches: %w", errors.ErrInvalidData))
	}
}

func translateAction(result *protocol.ParseResult, n int, event map[string]any) {
	raw, err := json.Marshal(event["value"])
	if err != nil {
		warn(result, n, ActionEventName, errors.WrapInvalid(err, "agui", "Parse", "encode event value"))
		return
	}
	var action message.ActionEvent
	if err := json.Unmarshal(raw, &action); err != nil {
		warn(result, n, ActionEventName, err)
		return
	}
	if err := action.Validate(); err != nil {
		warn(result, n, ActionEventName, err)
		return
	}
	result.Events = append(result.Events, &action)
}

// surfaceIDOf reads the id off a surface document, tolerating both key
// spellings the dialect has used.
func surfaceIDOf(doc map[string]any) string {
	if id, ok := doc["surfaceId"].(string); ok && id != "" {
		return id
	}
	if id, ok := doc["id"].(string); ok && id != "" {
		return id
	}
	return ""
}

// eventValue renders the canonical event as the JSON object carried in
// the custom event's value field.
func eventValue(event *message.ActionEvent) (map[string]any, error) {
	raw, err := json.Marshal(event)
	if err != nil {
		return nil, errors.WrapInvalid(err, "agui", "BuildOutboundEvent", "encode event")
	}
	var value map[string]any
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, errors.WrapInvalid(err, "agui", "BuildOutboundEvent", "decode event envelope")
	}
	return value, nil
}

func warn(result *protocol.ParseResult, n int, unit string, err error) {
	result.Warnings = append(result.Warnings, message.ParseWarning{
		Line: n,
		Text: unit,
		Err:  err,
	})
}

// Register adds the ag_ui adapter to a registry.
func Register(registry *protocol.Registry) error {
	return registry.Register(New())
}
