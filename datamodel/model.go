// Package datamodel holds the surface-scoped state tree that component
// bindings read from. Values are JSON-compatible (objects, arrays,
// scalars) and addressed by slash-delimited paths like /users/0/name.
//
// Reads through a missing intermediate report absence instead of failing;
// writes create missing intermediates, choosing an array when the next
// segment is numeric and an object otherwise. The model is mutated only by
// explicit patches, never by resolution.
package datamodel

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/c360/surfacekit/errors"
)

// maxIndexGrowth bounds how far a single write may extend an array past
// its current length. Paths are untrusted input; one crafted index must
// not allocate unbounded memory.
const maxIndexGrowth = 1 << 16

// Model is one surface's data tree. The root is always an object.
// Model is not safe for concurrent use; the surface store serializes
// access.
type Model struct {
	root map[string]any
}

// New creates an empty model.
func New() *Model {
	return &Model{root: make(map[string]any)}
}

// FromMap creates a model owning the given root object. A nil map yields
// an empty model.
func FromMap(root map[string]any) *Model {
	if root == nil {
		root = make(map[string]any)
	}
	return &Model{root: root}
}

// GetPath resolves a path against the tree. The second return is false
// when any segment is missing or traverses a scalar. The returned value is
// shared with the model; callers must not mutate it.
//
// An empty path (or "/") returns the whole root.
func (m *Model) GetPath(path string) (any, bool) {
	segments := splitPath(path)
	var current any = m.root
	for _, seg := range segments {
		switch c := current.(type) {
		case map[string]any:
			next, exists := c[seg]
			if !exists {
				return nil, false
			}
			current = next
		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(c) {
				return nil, false
			}
			current = c[idx]
		default:
			return nil, false
		}
	}
	return current, true
}

// SetPath writes a value at a path, creating intermediate containers as
// needed. A numeric next segment creates an array, anything else an
// object; a scalar standing where the path needs a container is replaced.
// Array writes may at most extend the array by maxIndexGrowth entries,
// padding skipped slots with nulls.
//
// An empty path replaces the whole root, which must be an object.
func (m *Model) SetPath(path string, value any) error {
	segments := splitPath(path)
	if len(segments) == 0 {
		obj, ok := value.(map[string]any)
		if !ok {
			return errors.WrapInvalid(
				fmt.Errorf("root value must be an object, got %T: %w", value, errors.ErrInvalidPath),
				"Model", "SetPath", "root replacement")
		}
		m.root = obj
		return nil
	}

	updated, err := setValue(m.root, path, segments, value)
	if err != nil {
		return err
	}
	m.root = updated.(map[string]any)
	return nil
}

// Snapshot returns a deep copy of the whole tree.
func (m *Model) Snapshot() map[string]any {
	return copyMap(m.root)
}

// setValue writes value at the remaining segments under container,
// returning the (possibly reallocated) container.
func setValue(container any, path string, segments []string, value any) (any, error) {
	seg := segments[0]
	last := len(segments) == 1

	switch c := container.(type) {
	case map[string]any:
		if last {
			c[seg] = value
			return c, nil
		}
		child, exists := c[seg]
		if !exists || child == nil {
			child = emptyContainerFor(segments[1])
		}
		updated, err := setValue(child, path, segments[1:], value)
		if err != nil {
			return nil, err
		}
		c[seg] = updated
		return c, nil

	case []any:
		idx, err := strconv.Atoi(seg)
		if err != nil || idx < 0 {
			return nil, errors.WrapInvalid(
				fmt.Errorf("path %q: segment %q is not a valid array index: %w", path, seg, errors.ErrInvalidPath),
				"Model", "SetPath", "array index")
		}
		if idx >= len(c)+maxIndexGrowth {
			return nil, errors.WrapInvalid(
				fmt.Errorf("path %q: index %d grows the array too far: %w", path, idx, errors.ErrInvalidPath),
				"Model", "SetPath", "array growth")
		}
		for len(c) <= idx {
			c = append(c, nil)
		}
		if last {
			c[idx] = value
			return c, nil
		}
		child := c[idx]
		if child == nil {
			child = emptyContainerFor(segments[1])
		}
		updated, err := setValue(child, path, segments[1:], value)
		if err != nil {
			return nil, err
		}
		c[idx] = updated
		return c, nil

	default:
		return setValue(emptyContainerFor(seg), path, segments, value)
	}
}

// emptyContainerFor picks the container type the segment implies.
func emptyContainerFor(segment string) any {
	if _, err := strconv.Atoi(segment); err == nil {
		return []any{}
	}
	return map[string]any{}
}

// splitPath breaks a slash-delimited path into segments, dropping empty
// ones so "/a//b" and "a/b/" address the same value.
func splitPath(path string) []string {
	if path == "" || path == "/" {
		return nil
	}
	parts := strings.Split(path, "/")
	segments := parts[:0]
	for _, p := range parts {
		if p != "" {
			segments = append(segments, p)
		}
	}
	return segments
}

func copyMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch tv := v.(type) {
	case map[string]any:
		return copyMap(tv)
	case []any:
		out := make([]any, len(tv))
		for i, item := range tv {
			out[i] = copyValue(item)
		}
		return out
	default:
		return v
	}
}
