// Package mcpapps adapts the MCP Apps dialect. Surface snapshots arrive
// embedded in resource read responses as typed JSON contents; user
// interactions leave as calls to a ui_action tool. Contents with foreign
// MIME types (the host-facing HTML resource among them) pass through
// untouched.
package mcpapps

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/c360/surfacekit/errors"
	"github.com/c360/surfacekit/message"
	"github.com/c360/surfacekit/protocol"
)

// MIME types marking surface content inside resource reads.
const (
	// MIMETypeSurface tags a full surface document.
	MIMETypeSurface = "application/vnd.adk.ui+json"
	// MIMETypeSurfaceUpdate tags JSONL update lines.
	MIMETypeSurfaceUpdate = "application/vnd.adk.ui.update+json"
)

// UIActionTool is the tool name interactions are reported through.
const UIActionTool = "ui_action"

// Adapter speaks the MCP Apps dialect.
type Adapter struct{}

// New creates the mcp_apps adapter.
func New() *Adapter {
	return &Adapter{}
}

// Protocol names the dialect.
func (a *Adapter) Protocol() protocol.Protocol {
	return protocol.ProtocolMCPApps
}

// Detect accepts envelopes carrying a resource read response or a tool
// call, with or without the payload wrapper.
func (a *Adapter) Detect(payload any) bool {
	obj, ok := payload.(map[string]any)
	if !ok {
		return false
	}
	if declared, ok := obj["protocol"].(string); ok {
		name, known := protocol.Normalize(declared)
		return known && name == protocol.ProtocolMCPApps
	}
	body := body(obj)
	if _, ok := body["resourceReadResponse"]; ok {
		return true
	}
	_, ok = body["toolCall"]
	return ok
}

// Parse translates resource contents and tool calls. Surface contents
// become create plus update message pairs; update contents are JSONL
// streams; ui_action tool calls become canonical events.
func (a *Adapter) Parse(payload any) (*protocol.ParseResult, error) {
	obj, ok := payload.(map[string]any)
	if !ok {
		return nil, errors.WrapInvalid(
			fmt.Errorf("payload type %T: %w", payload, errors.ErrUnrecognizedPayload),
			"mcpapps", "Parse", "payload type check")
	}
	body := body(obj)

	if read, ok := body["resourceReadResponse"].(map[string]any); ok {
		return a.parseResourceRead(read)
	}
	if call, ok := body["toolCall"].(map[string]any); ok {
		return a.parseToolCall(call)
	}
	return nil, errors.WrapInvalid(
		fmt.Errorf("mcp_apps envelope carries neither resource read nor tool call: %w", errors.ErrUnrecognizedPayload),
		"mcpapps", "Parse", "envelope decode")
}

// BuildOutboundEvent wraps the interaction as a ui_action tool call.
func (a *Adapter) BuildOutboundEvent(event *message.ActionEvent) (map[string]any, error) {
	if event == nil {
		return nil, errors.WrapInvalid(errors.ErrInvalidData, "mcpapps", "BuildOutboundEvent", "event validation")
	}
	if err := event.Validate(); err != nil {
		return nil, err
	}

	raw, err := json.Marshal(event)
	if err != nil {
		return nil, errors.WrapInvalid(err, "mcpapps", "BuildOutboundEvent", "encode event")
	}
	var arguments map[string]any
	if err := json.Unmarshal(raw, &arguments); err != nil {
		return nil, errors.WrapInvalid(err, "mcpapps", "BuildOutboundEvent", "decode event envelope")
	}

	return map[string]any{
		"protocol": string(protocol.ProtocolMCPApps),
		"payload": map[string]any{
			"toolCall": map[string]any{
				"name":      UIActionTool,
				"arguments": arguments,
			},
		},
	}, nil
}

func (a *Adapter) parseResourceRead(read map[string]any) (*protocol.ParseResult, error) {
	contents, ok := read["contents"].([]any)
	if !ok {
		return nil, errors.WrapInvalid(
			fmt.Errorf("resource read has no contents array: %w", errors.ErrInvalidData),
			"mcpapps", "Parse", "contents decode")
	}

	result := &protocol.ParseResult{}
	for i, raw := range contents {
		n := i + 1
		content, ok := raw.(map[string]any)
		if !ok {
			warn(result, n, "content", fmt.Errorf("content is not an object: %w", errors.ErrInvalidData))
			continue
		}
		translateContent(result, n, content)
	}
	return result, nil
}

func (a *Adapter) parseToolCall(call map[string]any) (*protocol.ParseResult, error) {
	result := &protocol.ParseResult{}
	name, _ := call["name"].(string)
	if name != UIActionTool {
		warn(result, 1, "toolCall", fmt.Errorf("tool %q is not %q: %w", name, UIActionTool, errors.ErrInvalidData))
		return result, nil
	}

	raw, err := json.Marshal(call["arguments"])
	if err != nil {
		warn(result, 1, "toolCall", errors.WrapInvalid(err, "mcpapps", "Parse", "encode tool arguments"))
		return result, nil
	}
	var event message.ActionEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		warn(result, 1, "toolCall", err)
		return result, nil
	}
	if err := event.Validate(); err != nil {
		warn(result, 1, "toolCall", err)
		return result, nil
	}
	result.Events = append(result.Events, &event)
	return result, nil
}

// translateContent routes one content item by MIME type. Foreign types
// are the host's business and skip silently.
func translateContent(result *protocol.ParseResult, n int, content map[string]any) {
	mime, _ := content["mimeType"].(string)
	switch mime {
	case MIMETypeSurface:
		translateSurfaceContent(result, n, content)
	case MIMETypeSurfaceUpdate:
		translateUpdateContent(result, n, content)
	}
}

func translateSurfaceContent(result *protocol.ParseResult, n int, content map[string]any) {
	text, ok := content["text"].(string)
	if !ok {
		warn(result, n, MIMETypeSurface, fmt.Errorf("surface content has no text: %w", errors.ErrInvalidData))
		return
	}
	var doc map[string]any
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		warn(result, n, MIMETypeSurface, errors.WrapInvalid(err, "mcpapps", "Parse", "decode surface document"))
		return
	}

	surfaceID := surfaceIDOf(doc)
	if surfaceID == "" {
		uri, _ := content["uri"].(string)
		surfaceID = uriTail(uri)
	}
	if surfaceID == "" {
		warn(result, n, MIMETypeSurface, fmt.Errorf("surface document has no id and uri names none: %w", errors.ErrInvalidData))
		return
	}

	dataModel, _ := doc["dataModel"].(map[string]any)
	result.Messages = append(result.Messages, message.NewCreateSurface(surfaceID, nil, dataModel))
	if components, exists := doc["components"]; exists && components != nil {
		result.Messages = append(result.Messages, message.NewUpdateComponents(surfaceID, components))
	}
}

func translateUpdateContent(result *protocol.ParseResult, n int, content map[string]any) {
	text, ok := content["text"].(string)
	if !ok {
		warn(result, n, MIMETypeSurfaceUpdate, fmt.Errorf("update content has no text: %w", errors.ErrInvalidData))
		return
	}

	lines, warnings := message.ParseJSONL(text)
	result.Warnings = append(result.Warnings, warnings...)
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

// uriTail extracts the last path segment of a ui:// resource uri.
func uriTail(uri string) string {
	trimmed := strings.Trim(uri, "/")
	if trimmed == "" {
		return ""
	}
	segments := strings.Split(trimmed, "/")
	return segments[len(segments)-1]
}

// body unwraps the optional payload envelope.
func body(obj map[string]any) map[string]any {
	if inner, ok := obj["payload"].(map[string]any); ok {
		return inner
	}
	return obj
}

func warn(result *protocol.ParseResult, n int, unit string, err error) {
	result.Warnings = append(result.Warnings, message.ParseWarning{
		Line: n,
		Text: unit,
		Err:  err,
	})
}

// Register adds the mcp_apps adapter to a registry.
func Register(registry *protocol.Registry) error {
	return registry.Register(New())
}
