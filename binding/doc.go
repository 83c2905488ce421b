// Package binding evaluates dynamic component property values against a
// surface's data model: {path} data bindings, {function, args} calls,
// and ${...} template strings.
//
// Resolution is read-only and deterministic within one frame. Failures
// degrade instead of erroring: a missing path resolves to an empty
// value, an unknown function leaves the call text visible in output.
// Function registries are passed in explicitly; the built-in set (now,
// concat, add, format) is a fixed fallback that caller registrations
// shadow by name.
package binding
