package engine

import (
	"github.com/c360/surfacekit/component"
	"github.com/c360/surfacekit/errors"
	"github.com/c360/surfacekit/message"
)

// ValidationResult collects everything a dry-run validation found.
// Valid reports whether applying the message would be attempted at all;
// warnings list the component problems a lenient apply would log.
type ValidationResult struct {
	Valid    bool
	Warnings []component.ValidationError
}

// ValidateMessage checks a message and its component content without
// touching any surface. Hosts use it to vet agent output before
// feeding a stream to the store.
func (e *Engine) ValidateMessage(msg *message.Message) (*ValidationResult, error) {
	if msg == nil {
		return nil, errors.WrapInvalid(errors.ErrInvalidData, "engine", "ValidateMessage", "input check")
	}
	if err := msg.Validate(); err != nil {
		return &ValidationResult{Valid: false}, err
	}

	result := &ValidationResult{Valid: true}
	switch msg.Type {
	case message.TypeCreateSurface:
		if msg.Components == nil {
			return result, nil
		}
		_, warns, err := e.decoder.DecodeComponents(msg.Components)
		result.Warnings = warns
		if err != nil {
			result.Valid = false
			return result, err
		}
	case message.TypeUpdateComponents:
		_, warns, err := e.decoder.DecodeSubtrees(msg.Components)
		result.Warnings = warns
		if err != nil {
			result.Valid = false
			return result, err
		}
	}
	return result, nil
}

// ValidateUpdate checks a component-level update and its payload
// without touching any tree.
func (e *Engine) ValidateUpdate(upd *message.UIUpdate) (*ValidationResult, error) {
	if upd == nil {
		return nil, errors.WrapInvalid(errors.ErrInvalidData, "engine", "ValidateUpdate", "input check")
	}
	if err := upd.Validate(); err != nil {
		return &ValidationResult{Valid: false}, err
	}

	result := &ValidationResult{Valid: true}
	switch upd.Operation {
	case message.OpReplace, message.OpAppend:
		_, warns, err := e.decoder.DecodeComponent(upd.Payload)
		result.Warnings = warns
		if err != nil {
			result.Valid = false
			return result, err
		}
	}
	return result, nil
}
