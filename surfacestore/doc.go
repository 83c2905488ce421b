// Package surfacestore holds the live surfaces of one client session.
//
// # Overview
//
// A Store maps surface ids to surface state (component tree plus data
// model) and is the only place surfaces are created, mutated or removed.
// Every mutation goes through the engine under the store's write lock, so
// a message stream applied through one store is strictly ordered: the
// state after a stream is the state after applying its messages one at a
// time, in arrival order.
//
// # Mutation vs Reads
//
// Mutations:
//   - Apply: surface-level messages (create, delete, component and data
//     model updates)
//   - ApplyUpdate: component-level operations against one surface's tree
//
// Reads:
//   - Surface: the live state, shared with the store
//   - Resolved / ResolvedRoot: render-ready components with bindings,
//     templates and function calls evaluated
//
// Reads take the shared lock and never mutate; resolution against a
// half-applied message is impossible.
//
// # Error Classification
//
// Following the errors package patterns:
//   - WrapInvalid: malformed messages, surfaced from the engine
//   - Dropped/noop results: stale or unknown targets, reported in the
//     engine.Result rather than as errors
//
// Surfaces are session state. Nothing here persists; a new store starts
// empty.
package surfacestore
