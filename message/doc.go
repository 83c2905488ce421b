// Package message defines the canonical message model for surface
// synchronization and the line parser that produces it.
//
// Three wire shapes meet here. Surface-level messages (create_surface,
// delete_surface, update_components, update_data_model) address a named
// surface and arrive one JSON object per line on the native protocol.
// Component-level updates (replace, patch, append, remove) address one
// component by id on the simpler single-surface streaming path. Action
// events travel the other way: they record a user interaction in a
// protocol-agnostic form that each adapter serializes into its own
// envelope.
//
// ParseJSONL turns raw stream text into an ordered sequence of these,
// dropping malformed lines with warnings instead of failing, because a
// streaming client has to outlive a bad line.
package message
