// Package protocol defines the wire dialects a client can speak and the
// adapter contract that normalizes them.
//
// Four dialects are supported: the native a2ui JSONL stream, AG-UI custom
// event streams, MCP Apps resource reads, and the legacy adk_ui
// single-shot payload. Every adapter translates its dialect into the same
// canonical form (surface messages, component updates, action events) and
// wraps canonical interactions back into dialect envelopes, so nothing
// downstream of the adapter layer knows which dialect is in play.
//
// Payload routing is two-stage: a payload that declares its protocol is
// routed by name, everything else by shape in registration order. A
// payload that matches nothing is an error, not a skip; whole-payload
// mismatches mean the host and client disagree about the protocol.
package protocol
