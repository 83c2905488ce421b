// Package protocolregistry wires every supported dialect adapter into one
// protocol registry.
package protocolregistry

import (
	"errors"
	"log/slog"

	pkgerrors "github.com/c360/surfacekit/errors"
	"github.com/c360/surfacekit/metric"
	"github.com/c360/surfacekit/protocol"
	"github.com/c360/surfacekit/protocol/a2ui"
	"github.com/c360/surfacekit/protocol/adkui"
	"github.com/c360/surfacekit/protocol/agui"
	"github.com/c360/surfacekit/protocol/mcpapps"
)

// Register adds every supported dialect adapter to the provided registry,
// in detection priority order:
//
//  1. a2ui - bare text payloads and jsonl envelopes
//  2. ag_ui - event streams
//  3. mcp_apps - resource reads and tool calls
//  4. adk_ui - legacy single-shot payloads, the catch-all for undeclared
//     component arrays
//
// Shape detection only applies to payloads that declare no protocol;
// declared payloads are routed by name regardless of this order.
func Register(registry *protocol.Registry) error {
	// Nil registry is a programming error (fatal), not invalid input
	if registry == nil {
		return pkgerrors.WrapFatal(
			errors.New("registry cannot be nil"),
			"ProtocolRegistry", "Register", "registry validation")
	}

	if err := a2ui.Register(registry); err != nil {
		return pkgerrors.WrapInvalid(err, "ProtocolRegistry", "Register", "a2ui adapter registration")
	}

	if err := agui.Register(registry); err != nil {
		return pkgerrors.WrapInvalid(err, "ProtocolRegistry", "Register", "ag_ui adapter registration")
	}

	if err := mcpapps.Register(registry); err != nil {
		return pkgerrors.WrapInvalid(err, "ProtocolRegistry", "Register", "mcp_apps adapter registration")
	}

	if err := adkui.Register(registry); err != nil {
		return pkgerrors.WrapInvalid(err, "ProtocolRegistry", "Register", "adk_ui adapter registration")
	}

	return nil
}

// Default builds a registry with every supported adapter registered.
func Default(logger *slog.Logger, metrics *metric.Metrics) (*protocol.Registry, error) {
	registry := protocol.NewRegistry(logger, metrics)
	if err := Register(registry); err != nil {
		return nil, err
	}
	return registry, nil
}
