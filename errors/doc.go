// Package errors provides standardized error handling patterns for SurfaceKit components.
//
// # Overview
//
// The errors package implements a three-class error classification system for
// a client that consumes untrusted agent output: Transient (temporary, the host
// may retry), Invalid (bad input, non-retryable), and Fatal (unrecoverable,
// stop processing).
//
// Classification lets callers decide between skip-and-warn and abort without
// hardcoded error string matching. A protocol adapter that hits one malformed
// line records a warning and keeps parsing; a client handed an unusable
// configuration stops immediately.
//
// # Error Classification
//
// Errors are classified based on their type or identity:
//
//   - Transient: temporary conditions where retrying the same payload could succeed
//   - Invalid: malformed lines, unknown kinds, bad paths, unrecognized payloads (do not retry)
//   - Fatal: broken configuration, unrecoverable states (stop processing)
//
// The classification system integrates with Go's standard error handling,
// supporting errors.Is(), errors.As(), and error wrapping chains.
//
// # Quick Start
//
// Use standard error variables for common conditions:
//
//	// Return a standard error for a known condition
//	if _, ok := set.surfaces[id]; !ok {
//	    return errors.ErrSurfaceNotFound
//	}
//
// Wrap errors with context for debugging:
//
//	if err := json.Unmarshal(raw, &env); err != nil {
//	    return errors.WrapInvalid(err, "a2ui", "Parse", "envelope decode")
//	}
//
// Check classification to pick a handling strategy:
//
//	if err := adapter.Parse(payload); err != nil {
//	    if errors.IsInvalid(err) {
//	        // Record a warning, keep the surface as it was.
//	    } else if errors.IsFatal(err) {
//	        // Configuration is broken, surface the error to the host.
//	    }
//	}
//
// # Error Wrapping Pattern
//
// All error wrapping follows the standardized format:
//
//	"component.method: action failed: %w"
//
// This format keeps logs parseable and makes the failing layer visible in a
// wrapped chain. Three wrapper functions set the classification while wrapping:
//
//	errors.WrapTransient(err, "Component", "Method", "action")
//	errors.WrapInvalid(err, "Component", "Method", "action")
//	errors.WrapFatal(err, "Component", "Method", "action")
//
// The plain Wrap() adds context without attaching a class:
//
//	errors.Wrap(err, "Component", "Method", "action")
//
// # Standard Error Variables
//
// Pre-defined error variables cover the common conditions, organized by layer:
//
//   - Stream parsing: ErrMalformedLine, ErrUnknownMessageType, ErrInvalidData, ErrParsingFailed
//   - Surfaces and trees: ErrSurfaceNotFound, ErrTargetNotFound, ErrNotContainer,
//     ErrRootRemoval, ErrDuplicateID, ErrUnknownKind, ErrInvalidComponent
//   - Data model: ErrInvalidPath
//   - Bindings: ErrUnknownFunction
//   - Protocol routing: ErrUnrecognizedPayload, ErrUnknownProtocol, ErrNoProtocol
//   - Configuration: ErrInvalidConfig, ErrMissingConfig
//
// Use these variables instead of ad hoc messages so callers can branch with
// errors.Is:
//
//	// Good - callers can test for it
//	return errors.ErrTargetNotFound
//
//	// Avoid - only the message carries the meaning
//	return errors.New("no such component")
//
// # Integration with errors.As/Is
//
// All error types support standard library inspection:
//
//	var ce *errors.ClassifiedError
//	if errors.As(err, &ce) {
//	    log.Printf("component: %s, class: %s", ce.Component, ce.Class)
//	}
//
//	if errors.Is(err, errors.ErrUnrecognizedPayload) {
//	    // No adapter claimed the payload.
//	}
//
//	// Classification survives wrapping
//	wrapped := errors.WrapInvalid(errors.ErrMalformedLine, "parser", "ParseLine", "decode")
//	errors.IsInvalid(wrapped) // true
//
// Sentinels also classify without an explicit wrap: IsInvalid recognizes the
// parsing and protocol sentinels directly, and IsFatal recognizes the
// configuration sentinels, so a bare ErrMalformedLine still reads as invalid.
//
// # Thread Safety
//
// Classification and wrapping are pure functions. Error variables are
// immutable and safe for concurrent access, and a ClassifiedError is safe to
// share across goroutines after creation.
//
// # Architecture Integration
//
// The errors package anchors error handling across SurfaceKit:
//
//   - message: the line parser tags malformed input with ErrMalformedLine and keeps going
//   - engine: mutations report ErrSurfaceNotFound, ErrTargetNotFound and kin as dropped results
//   - protocol: adapters distinguish ErrUnrecognizedPayload (not mine) from invalid envelopes (mine, but broken)
//   - client: fatal configuration errors abort construction, invalid payload units become warnings
//
// # Design Philosophy
//
//   - Classification over string matching: errors are classified by type, not content
//   - Wrapping over replacement: preserve original errors, add context via wrapping
//   - Standards over invention: use Go's error idioms (Is/As/Unwrap)
//   - Tolerance at the edges: invalid input degrades to warnings wherever a
//     surface can keep its last good state
package errors
