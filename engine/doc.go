// Package engine applies surface messages and component-level updates
// to in-memory surface state, one at a time, strictly in arrival order.
//
// The engine is the only mutation path: the parser produces messages,
// the store owns the surfaces and delegates every change here, and the
// binding resolver reads the results. Nothing in this package performs
// I/O or blocks, so each Apply call is atomic and complete on return.
//
// Failure handling is deliberately lopsided. Structurally invalid input
// returns an error; everything else degrades to a noop or dropped
// result, because under streaming a late update or an unknown target is
// ordinary traffic, not a fault. The worst outcome of any message is a
// stale surface a later message can fix.
package engine
