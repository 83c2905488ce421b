package protocol

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/c360/surfacekit/errors"
	"github.com/c360/surfacekit/message"
	"github.com/c360/surfacekit/metric"
)

// ParseResult is the canonical form of one inbound payload: everything the
// adapter translated, in the order it must be applied. Messages and
// Updates mutate surfaces; Events are user interactions the payload echoed
// or carried. Warnings report units the adapter skipped.
type ParseResult struct {
	Protocol Protocol
	Messages []*message.Message
	Updates  []*message.UIUpdate
	Events   []*message.ActionEvent
	Warnings []message.ParseWarning
}

// Empty reports whether the payload translated to nothing at all.
func (r *ParseResult) Empty() bool {
	return len(r.Messages) == 0 && len(r.Updates) == 0 && len(r.Events) == 0
}

// Adapter translates between one wire dialect and the canonical message
// model. Implementations are stateless; the same payload always yields the
// same result.
type Adapter interface {
	// Protocol names the dialect this adapter speaks.
	Protocol() Protocol

	// Detect reports whether the payload structurally matches this
	// dialect. Detection looks at shape only and must not mutate or
	// deeply validate the payload.
	Detect(payload any) bool

	// Parse translates one inbound payload. Unit-level problems (a bad
	// line, a foreign event) become warnings; an error means the whole
	// payload was unusable for this dialect.
	Parse(payload any) (*ParseResult, error)

	// BuildOutboundEvent wraps a canonical user interaction in this
	// dialect's outbound envelope.
	BuildOutboundEvent(event *message.ActionEvent) (map[string]any, error)
}

// Registry holds the adapters for every supported dialect and routes
// payloads to them. Registration order is detection priority: when a
// payload declares no protocol, the first adapter whose Detect accepts it
// wins.
type Registry struct {
	mu       sync.RWMutex
	adapters []Adapter
	byName   map[Protocol]Adapter
	logger   *slog.Logger
	metrics  *metric.Metrics
}

// NewRegistry creates an empty adapter registry.
func NewRegistry(logger *slog.Logger, metrics *metric.Metrics) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		byName:  make(map[Protocol]Adapter),
		logger:  logger,
		metrics: metrics,
	}
}

// Register adds an adapter. Each dialect can be registered once; the call
// order across dialects fixes detection priority.
func (r *Registry) Register(adapter Adapter) error {
	if adapter == nil {
		return errors.WrapFatal(errors.ErrInvalidConfig, "Registry", "Register", "adapter validation")
	}
	name := adapter.Protocol()
	if !name.IsSupported() {
		return errors.WrapInvalid(
			fmt.Errorf("protocol %q: %w", string(name), errors.ErrUnknownProtocol),
			"Registry", "Register", "protocol validation")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[name]; exists {
		return errors.WrapInvalid(
			fmt.Errorf("adapter for %q is already registered: %w", string(name), errors.ErrInvalidConfig),
			"Registry", "Register", "duplicate adapter check")
	}
	r.adapters = append(r.adapters, adapter)
	r.byName[name] = adapter
	return nil
}

// Adapter returns the registered adapter for one dialect.
func (r *Registry) Adapter(p Protocol) (Adapter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byName[p]
	return a, ok
}

// Protocols returns the registered dialects in detection priority order.
func (r *Registry) Protocols() []Protocol {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Protocol, len(r.adapters))
	for i, a := range r.adapters {
		out[i] = a.Protocol()
	}
	return out
}

// Detect picks the adapter for a payload. A payload that names its
// protocol is routed by name alone: a declared-but-unknown protocol is an
// error even when the shape would match another adapter, since it signals
// a client/server version mismatch rather than a stray payload. Undeclared
// payloads fall back to shape detection in registration order.
func (r *Registry) Detect(payload any) (Adapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if obj, ok := payload.(map[string]any); ok {
		if declared, ok := obj["protocol"].(string); ok && declared != "" {
			name, known := Normalize(declared)
			if !known {
				return nil, errors.WrapInvalid(
					fmt.Errorf("payload declares protocol %q: %w", declared, errors.ErrUnknownProtocol),
					"Registry", "Detect", "protocol lookup")
			}
			adapter, registered := r.byName[name]
			if !registered {
				return nil, errors.WrapInvalid(
					fmt.Errorf("no adapter registered for %q: %w", string(name), errors.ErrUnknownProtocol),
					"Registry", "Detect", "adapter lookup")
			}
			return adapter, nil
		}
	}

	for _, adapter := range r.adapters {
		if adapter.Detect(payload) {
			return adapter, nil
		}
	}
	return nil, errors.WrapInvalid(
		fmt.Errorf("payload matches no supported dialect: %w", errors.ErrUnrecognizedPayload),
		"Registry", "Detect", "shape detection")
}

// Parse routes a payload to its adapter and translates it. The returned
// result always names the protocol that handled the payload.
func (r *Registry) Parse(payload any) (*ParseResult, error) {
	adapter, err := r.Detect(payload)
	if err != nil {
		r.metrics.RecordPayloadParsed("unknown", "rejected")
		return nil, err
	}

	name := string(adapter.Protocol())
	result, err := adapter.Parse(payload)
	if err != nil {
		r.metrics.RecordPayloadParsed(name, "error")
		return nil, err
	}
	result.Protocol = adapter.Protocol()

	r.metrics.RecordPayloadParsed(name, "ok")
	for range result.Warnings {
		r.metrics.RecordParseWarning(name)
	}
	if len(result.Warnings) > 0 {
		r.logger.Debug("payload parsed with warnings",
			"protocol", name,
			"warnings", len(result.Warnings))
	}
	return result, nil
}

// BuildOutboundEvent wraps a canonical interaction in the named dialect's
// envelope.
func (r *Registry) BuildOutboundEvent(p Protocol, event *message.ActionEvent) (map[string]any, error) {
	adapter, ok := r.Adapter(p)
	if !ok {
		return nil, errors.WrapInvalid(
			fmt.Errorf("no adapter registered for %q: %w", string(p), errors.ErrUnknownProtocol),
			"Registry", "BuildOutboundEvent", "adapter lookup")
	}
	payload, err := adapter.BuildOutboundEvent(event)
	if err != nil {
		return nil, err
	}
	r.metrics.RecordEventBuilt(string(p))
	return payload, nil
}
