package message

import (
	"encoding/json"
	"fmt"

	"github.com/c360/surfacekit/errors"
)

// Operation is the component-level update kind for the single-surface
// streaming path.
type Operation string

const (
	// OpReplace substitutes the target node's entire subtree.
	OpReplace Operation = "replace"
	// OpPatch shallow-merges payload properties into the target node.
	OpPatch Operation = "patch"
	// OpAppend adds the payload as a trailing child of the target
	// container. Append is the one non-idempotent operation: every
	// application adds another child.
	OpAppend Operation = "append"
	// OpRemove deletes the target node and detaches it from its parent.
	OpRemove Operation = "remove"
)

// IsValid reports whether the operation is one of the known kinds.
func (o Operation) IsValid() bool {
	switch o {
	case OpReplace, OpPatch, OpAppend, OpRemove:
		return true
	}
	return false
}

// UIUpdate targets one component by id, without surface indirection.
// Payload carries a component object for replace and append, a bare
// property bag for patch, and nothing for remove.
type UIUpdate struct {
	Operation Operation      `json:"operation"`
	TargetID  string         `json:"target_id"`
	Payload   map[string]any `json:"payload,omitempty"`
}

// NewReplace builds a replace update.
func NewReplace(targetID string, payload map[string]any) *UIUpdate {
	return &UIUpdate{Operation: OpReplace, TargetID: targetID, Payload: payload}
}

// NewPatch builds a patch update.
func NewPatch(targetID string, payload map[string]any) *UIUpdate {
	return &UIUpdate{Operation: OpPatch, TargetID: targetID, Payload: payload}
}

// NewAppend builds an append update.
func NewAppend(targetID string, payload map[string]any) *UIUpdate {
	return &UIUpdate{Operation: OpAppend, TargetID: targetID, Payload: payload}
}

// NewRemove builds a remove update.
func NewRemove(targetID string) *UIUpdate {
	return &UIUpdate{Operation: OpRemove, TargetID: targetID}
}

// Validate checks the update's structure.
func (u *UIUpdate) Validate() error {
	if !u.Operation.IsValid() {
		return errors.WrapInvalid(
			fmt.Errorf("operation %q: %w", string(u.Operation), errors.ErrUnknownMessageType),
			"UIUpdate", "Validate", "operation discriminant")
	}
	if u.TargetID == "" {
		return errors.WrapInvalid(
			fmt.Errorf("%s update has no target_id: %w", u.Operation, errors.ErrInvalidData),
			"UIUpdate", "Validate", "target id")
	}
	if u.Payload == nil && u.Operation != OpRemove {
		return errors.WrapInvalid(
			fmt.Errorf("%s update has no payload: %w", u.Operation, errors.ErrInvalidData),
			"UIUpdate", "Validate", "payload field")
	}
	return nil
}

// DecodeUIUpdate parses one JSON update object.
func DecodeUIUpdate(data []byte) (*UIUpdate, error) {
	var upd UIUpdate
	if err := json.Unmarshal(data, &upd); err != nil {
		return nil, errors.WrapInvalid(
			fmt.Errorf("%w: %v", errors.ErrMalformedLine, err),
			"UIUpdate", "DecodeUIUpdate", "decode wire format")
	}
	if err := upd.Validate(); err != nil {
		return nil, err
	}
	return &upd, nil
}
