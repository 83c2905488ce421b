package message

import (
	"encoding/json"
	"fmt"

	"github.com/c360/surfacekit/errors"
)

// Type discriminates the surface-level message kinds carried on the
// native protocol, one JSON object per stream line.
type Type string

const (
	// TypeCreateSurface declares a surface snapshot: components plus an
	// initial data model. Re-creating an existing surface replaces it.
	TypeCreateSurface Type = "create_surface"
	// TypeDeleteSurface removes a surface.
	TypeDeleteSurface Type = "delete_surface"
	// TypeUpdateComponents installs one or more subtrees by id into an
	// existing surface.
	TypeUpdateComponents Type = "update_components"
	// TypeUpdateDataModel applies path patches to a surface's data model.
	TypeUpdateDataModel Type = "update_data_model"
	// TypeActionEvent carries a user interaction inline on the stream,
	// used when a backend echoes events back to the client.
	TypeActionEvent Type = "action_event"
)

// String returns the wire name of the type.
func (t Type) String() string {
	return string(t)
}

// IsValid reports whether the type is one of the known message kinds.
func (t Type) IsValid() bool {
	switch t {
	case TypeCreateSurface, TypeDeleteSurface, TypeUpdateComponents, TypeUpdateDataModel, TypeActionEvent:
		return true
	}
	return false
}

// Patch is one data model write: a slash path and the value to store.
type Patch struct {
	Path  string `json:"path"`
	Value any    `json:"value"`
}

// Message is one surface-level operation. Exactly the fields implied by
// Type are set; the rest stay zero. Components is kept in raw decoded form
// because its shape varies by protocol and is interpreted by the mutation
// engine.
type Message struct {
	Type      Type
	SurfaceID string
	// Components holds the raw components field of create_surface and
	// update_components messages: a component object, an array, or a map
	// of id to component.
	Components any
	// DataModel holds the initial data tree of a create_surface message.
	DataModel map[string]any
	// Patches holds the writes of an update_data_model message, applied
	// in order.
	Patches []Patch
	// Event holds the interaction of an action_event message.
	Event *ActionEvent
}

// NewCreateSurface builds a create_surface message.
func NewCreateSurface(surfaceID string, components any, dataModel map[string]any) *Message {
	return &Message{
		Type:       TypeCreateSurface,
		SurfaceID:  surfaceID,
		Components: components,
		DataModel:  dataModel,
	}
}

// NewDeleteSurface builds a delete_surface message.
func NewDeleteSurface(surfaceID string) *Message {
	return &Message{Type: TypeDeleteSurface, SurfaceID: surfaceID}
}

// NewUpdateComponents builds an update_components message.
func NewUpdateComponents(surfaceID string, components any) *Message {
	return &Message{
		Type:       TypeUpdateComponents,
		SurfaceID:  surfaceID,
		Components: components,
	}
}

// NewUpdateDataModel builds an update_data_model message.
func NewUpdateDataModel(surfaceID string, patches []Patch) *Message {
	return &Message{
		Type:      TypeUpdateDataModel,
		SurfaceID: surfaceID,
		Patches:   patches,
	}
}

// NewActionEvent wraps a user interaction as a stream message.
func NewActionEvent(event *ActionEvent) *Message {
	return &Message{Type: TypeActionEvent, Event: event}
}

// Validate checks that the message carries the fields its type requires.
func (m *Message) Validate() error {
	switch m.Type {
	case TypeCreateSurface, TypeDeleteSurface, TypeUpdateComponents, TypeUpdateDataModel:
		if m.SurfaceID == "" {
			return errors.WrapInvalid(
				fmt.Errorf("%s message has no surfaceId: %w", m.Type, errors.ErrInvalidData),
				"Message", "Validate", "surface id")
		}
	case TypeActionEvent:
		if m.Event == nil {
			return errors.WrapInvalid(
				fmt.Errorf("action_event message has no event: %w", errors.ErrInvalidData),
				"Message", "Validate", "event payload")
		}
		return m.Event.Validate()
	default:
		return errors.WrapInvalid(
			fmt.Errorf("type %q: %w", string(m.Type), errors.ErrUnknownMessageType),
			"Message", "Validate", "type discriminant")
	}

	switch m.Type {
	case TypeUpdateComponents:
		if m.Components == nil {
			return errors.WrapInvalid(
				fmt.Errorf("update_components message has no components: %w", errors.ErrInvalidData),
				"Message", "Validate", "components field")
		}
	case TypeUpdateDataModel:
		if m.Patches == nil {
			return errors.WrapInvalid(
				fmt.Errorf("update_data_model message has no patches: %w", errors.ErrInvalidData),
				"Message", "Validate", "patches field")
		}
	}
	return nil
}

// wireMessage is the JSON wire shape shared by all message types.
type wireMessage struct {
	Type       string         `json:"type"`
	SurfaceID  string         `json:"surfaceId,omitempty"`
	Components any            `json:"components,omitempty"`
	DataModel  map[string]any `json:"dataModel,omitempty"`
	Patches    []Patch        `json:"patches,omitempty"`
	Event      *ActionEvent   `json:"event,omitempty"`
}

// MarshalJSON emits the wire shape, omitting fields the type does not use.
func (m *Message) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireMessage{
		Type:       string(m.Type),
		SurfaceID:  m.SurfaceID,
		Components: m.Components,
		DataModel:  m.DataModel,
		Patches:    m.Patches,
		Event:      m.Event,
	})
}

// UnmarshalJSON reads the wire shape. Validation is separate so callers
// can report a malformed message without losing what did decode.
func (m *Message) UnmarshalJSON(data []byte) error {
	var wire wireMessage
	if err := json.Unmarshal(data, &wire); err != nil {
		return errors.WrapInvalid(err, "Message", "UnmarshalJSON", "decode wire format")
	}
	m.Type = Type(wire.Type)
	m.SurfaceID = wire.SurfaceID
	m.Components = wire.Components
	m.DataModel = wire.DataModel
	m.Patches = wire.Patches
	m.Event = wire.Event
	return nil
}
