package message

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/c360/surfacekit/errors"
	"github.com/c360/surfacekit/pkg/timestamp"
)

// Canonical action names. The Action field may also carry a custom name
// for host-defined interactions; adapters pass those through untouched.
const (
	// ActionFormSubmit carries collected form field values keyed by
	// input name.
	ActionFormSubmit = "form_submit"
	// ActionButtonClick reports a non-form button press.
	ActionButtonClick = "button_click"
	// ActionInputChange reports a single field's new value.
	ActionInputChange = "input_change"
	// ActionTabChange reports tab navigation by index.
	ActionTabChange = "tab_change"
)

// ActionEvent is the canonical, protocol-agnostic record of one user
// interaction. Adapters translate it into their dialect's envelope on the
// way out and back into this form on the way in.
type ActionEvent struct {
	Action    string
	ActionID  string         // form_submit, button_click: the control's action id
	Name      string         // input_change: field name
	Value     any            // input_change: new value
	Index     *int           // tab_change: selected tab
	Data      map[string]any // form_submit: field values
	EventID   string
	SurfaceID string
	Timestamp int64 // unix milliseconds
}

// stamp fills the envelope fields every constructor shares.
func stamp(e *ActionEvent) *ActionEvent {
	e.EventID = uuid.New().String()
	e.Timestamp = timestamp.Now()
	return e
}

// NewFormSubmit builds a form submission event. A nil data map becomes an
// empty one so the agent-facing rendering stays stable.
func NewFormSubmit(actionID string, data map[string]any) *ActionEvent {
	if data == nil {
		data = map[string]any{}
	}
	return stamp(&ActionEvent{Action: ActionFormSubmit, ActionID: actionID, Data: data})
}

// NewButtonClick builds a button press event.
func NewButtonClick(actionID string) *ActionEvent {
	return stamp(&ActionEvent{Action: ActionButtonClick, ActionID: actionID})
}

// NewInputChange builds a field change event.
func NewInputChange(name string, value any) *ActionEvent {
	return stamp(&ActionEvent{Action: ActionInputChange, Name: name, Value: value})
}

// NewTabChange builds a tab navigation event.
func NewTabChange(index int) *ActionEvent {
	return stamp(&ActionEvent{Action: ActionTabChange, Index: &index})
}

// Validate checks that the event carries the fields its action requires.
// Custom action names only need the name itself.
func (e *ActionEvent) Validate() error {
	if e.Action == "" {
		return errors.WrapInvalid(
			fmt.Errorf("event has no action: %w", errors.ErrInvalidData),
			"ActionEvent", "Validate", "action discriminant")
	}
	switch e.Action {
	case ActionFormSubmit, ActionButtonClick:
		if e.ActionID == "" {
			return errors.WrapInvalid(
				fmt.Errorf("%s event has no action_id: %w", e.Action, errors.ErrInvalidData),
				"ActionEvent", "Validate", "action id")
		}
	case ActionInputChange:
		if e.Name == "" {
			return errors.WrapInvalid(
				fmt.Errorf("input_change event has no field name: %w", errors.ErrInvalidData),
				"ActionEvent", "Validate", "field name")
		}
	case ActionTabChange:
		if e.Index == nil {
			return errors.WrapInvalid(
				fmt.Errorf("tab_change event has no index: %w", errors.ErrInvalidData),
				"ActionEvent", "Validate", "tab index")
		}
	}
	return nil
}

// UserMessage renders the event as the plain-text turn sent back to the
// agent in chat transcripts.
func (e *ActionEvent) UserMessage() string {
	switch e.Action {
	case ActionFormSubmit:
		pretty, err := json.MarshalIndent(e.Data, "", "  ")
		if err != nil {
			pretty = []byte("{}")
		}
		return fmt.Sprintf("[UI Event: Form submitted]\nAction: %s\nData:\n%s", e.ActionID, pretty)
	case ActionButtonClick:
		return fmt.Sprintf("[UI Event: Button clicked]\nAction: %s", e.ActionID)
	case ActionInputChange:
		value, err := json.Marshal(e.Value)
		if err != nil {
			value = []byte("null")
		}
		return fmt.Sprintf("[UI Event: Input changed]\nField: %s\nValue: %s", e.Name, value)
	case ActionTabChange:
		index := 0
		if e.Index != nil {
			index = *e.Index
		}
		return fmt.Sprintf("[UI Event: Tab changed]\nIndex: %d", index)
	default:
		return fmt.Sprintf("[UI Event: %s]", e.Action)
	}
}

// wireEvent is the JSON wire shape. Value is kept as a raw message so an
// explicit null or false survives the round trip.
type wireEvent struct {
	Action    string          `json:"action"`
	ActionID  string          `json:"action_id,omitempty"`
	Name      string          `json:"name,omitempty"`
	Value     json.RawMessage `json:"value,omitempty"`
	Index     *int            `json:"index,omitempty"`
	Data      map[string]any  `json:"data,omitempty"`
	EventID   string          `json:"eventId,omitempty"`
	SurfaceID string          `json:"surfaceId,omitempty"`
	Timestamp int64           `json:"timestamp,omitempty"`
}

// MarshalJSON emits the wire shape. The value field is written whenever
// the action is input_change, even for false, zero or null.
func (e *ActionEvent) MarshalJSON() ([]byte, error) {
	wire := wireEvent{
		Action:    e.Action,
		ActionID:  e.ActionID,
		Name:      e.Name,
		Index:     e.Index,
		Data:      e.Data,
		EventID:   e.EventID,
		SurfaceID: e.SurfaceID,
		Timestamp: e.Timestamp,
	}
	if e.Action == ActionInputChange {
		raw, err := json.Marshal(e.Value)
		if err != nil {
			return nil, errors.WrapInvalid(err, "ActionEvent", "MarshalJSON", "encode value")
		}
		wire.Value = raw
	}
	return json.Marshal(wire)
}

// UnmarshalJSON reads the wire shape.
func (e *ActionEvent) UnmarshalJSON(data []byte) error {
	var wire wireEvent
	if err := json.Unmarshal(data, &wire); err != nil {
		return errors.WrapInvalid(err, "ActionEvent", "UnmarshalJSON", "decode wire format")
	}
	e.Action = wire.Action
	e.ActionID = wire.ActionID
	e.Name = wire.Name
	e.Index = wire.Index
	e.Data = wire.Data
	e.EventID = wire.EventID
	e.SurfaceID = wire.SurfaceID
	e.Timestamp = wire.Timestamp
	e.Value = nil
	if len(wire.Value) > 0 {
		if err := json.Unmarshal(wire.Value, &e.Value); err != nil {
			return errors.WrapInvalid(err, "ActionEvent", "UnmarshalJSON", "decode value")
		}
	}
	return nil
}
