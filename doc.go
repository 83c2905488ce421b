// Package surfacekit is the synchronization core behind a generative-UI
// client: a backend agent streams a declarative description of a user
// interface, and this module reconstructs and continuously mutates that
// interface in place, resolves dynamic values against an evolving data
// model, and translates local user interactions back into
// protocol-correct outbound events.
//
// SurfaceKit renders nothing and talks to no network. It sits between a
// transport (owned by the host) and a renderer (owned by the host) and
// owns everything in between: wire dialect translation, surface state,
// mutation semantics and binding resolution.
//
// # Architecture
//
// Inbound payloads flow through three layers:
//
//	┌─────────────────────────────────────┐
//	│        Protocol Adapters            │  a2ui, ag_ui,
//	│  (detect dialect, translate wire)   │  mcp_apps, adk_ui
//	└─────────────────────────────────────┘
//	           ↓ canonical messages
//	┌─────────────────────────────────────┐
//	│        Mutation Engine              │  create/delete surface,
//	│  (apply messages in arrival order)  │  update components/data
//	└─────────────────────────────────────┘
//	           ↓ mutates
//	┌─────────────────────────────────────┐
//	│        Surface Store                │  id → component tree
//	│   (live surfaces, resolved reads)   │     + data model
//	└─────────────────────────────────────┘
//
// Renderers read through the store: Resolved lookups evaluate data
// bindings, ${...} templates and function calls against the surface's
// current data model at read time, so a data model patch re-renders
// without any component traffic.
//
// User interactions travel the other way. The host reports a canonical
// message.ActionEvent; the adapter for the active dialect wraps it in
// that dialect's outbound envelope.
//
// # Module Packages
//
// Wire model:
//   - message: JSONL parser, surface messages, component updates,
//     action events
//   - protocol: adapter contract, dialect detection, capability table
//   - protocol/a2ui: native JSONL dialect
//   - protocol/agui: AG-UI custom event streams
//   - protocol/mcpapps: MCP Apps resource reads and tool calls
//   - protocol/adkui: legacy single-shot payloads
//   - protocolregistry: registration of all dialect adapters
//
// Surface state:
//   - component: typed component kinds, catalog, id-indexed tree arena
//   - datamodel: path-addressed JSON data model
//   - surface: one component tree bound to one data model
//   - binding: data bindings, templates, function call evaluation
//   - engine: mutation semantics for messages and component updates
//   - surfacestore: live surface set with synchronized reads
//
// Facade:
//   - client: payload in, resolved components out, events back
//
// Infrastructure:
//   - errors: classified error handling
//   - metric: Prometheus instrumentation
//   - pkg/timestamp: Unix millisecond helpers
//
// # Usage Patterns
//
// Feeding payloads and reading resolved state:
//
//	c, _ := client.New(client.Config{})
//
//	// Any supported dialect; the client detects which one.
//	result, err := c.HandlePayload(inboundPayload)
//	if err != nil {
//	    // The whole payload was unusable. Partial problems arrive as
//	    // result.Warnings and dropped results instead.
//	}
//
//	// Read-through resolution: bindings evaluate against the current
//	// data model on every call.
//	resolved, ok := c.ResolvedComponent("main", "greeting")
//
//	// Wrap an interaction for the dialect the agent is speaking.
//	payload, err := c.BuildOutboundEvent(message.NewButtonClick("approve"))
//
// Host-defined binding functions:
//
//	funcs := binding.NewRegistry()
//	funcs.Register("upper", func(args []any) (any, error) {
//	    return strings.ToUpper(binding.Stringify(args[0])), nil
//	})
//	c, _ := client.New(client.Config{Functions: funcs})
//
// # Design Principles
//
// Arrival order is truth:
//   - Messages apply strictly in the order they arrive
//   - Nothing is reordered, buffered or retried
//   - An update for a surface that does not exist yet is dropped,
//     not held back
//
// Last writer wins:
//   - Recreating a surface replaces it outright
//   - Replacing a component replaces its whole subtree
//   - There is no merge beyond the documented patch semantics
//
// Tolerant reader:
//   - A malformed line or foreign event is skipped with a warning
//   - Later units still apply; streams survive partial garbage
//   - Only a payload no dialect can claim is an error
//
// Pure resolution:
//   - Resolving never mutates the data model or the tree
//   - Stored property bags keep their raw binding expressions
//   - Equal state resolves equally, every time
//
// # Schema Export
//
// The cmd/schema-exporter binary writes the component catalog as
// versioned JSON Schema files plus the protocol capability document,
// for hosts that validate or document surface payloads out of band.
package surfacekit
