package component

import (
	"encoding/json"
	"fmt"

	"github.com/c360/surfacekit/errors"
)

// Node is one component instance in arena form. Props holds the variant's
// flat property bag; child components live in the owning Tree and are
// referenced by id through Children. Slot props (card content/footer, tab
// content) are rewritten to id arrays at decode time so every nested
// component stays individually addressable.
type Node struct {
	ID       string
	Kind     Kind
	Props    map[string]any
	Children []string
}

// wireNode is the flat wire shape: type and id are sibling keys of the
// property bag, children may be inline objects or id references.
type wireNode map[string]any

// Validate checks the node for structural problems.
func (n *Node) Validate() error {
	if n.ID == "" {
		return errors.WrapInvalid(fmt.Errorf("component ID cannot be empty"),
			"Node", "Validate", "validation")
	}
	if n.Kind == "" {
		return errors.WrapInvalid(fmt.Errorf("component %q has no type", n.ID),
			"Node", "Validate", "validation")
	}
	return nil
}

// Clone returns a deep copy of the node.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := &Node{
		ID:   n.ID,
		Kind: n.Kind,
	}
	if n.Props != nil {
		out.Props = deepCopyMap(n.Props)
	}
	if n.Children != nil {
		out.Children = make([]string, len(n.Children))
		copy(out.Children, n.Children)
	}
	return out
}

// MarshalJSON emits the flat wire shape with children as id references.
func (n *Node) MarshalJSON() ([]byte, error) {
	wire := make(wireNode, len(n.Props)+3)
	for k, v := range n.Props {
		wire[k] = v
	}
	wire["id"] = n.ID
	wire["type"] = string(n.Kind)
	if len(n.Children) > 0 {
		refs := make([]any, len(n.Children))
		for i, id := range n.Children {
			refs[i] = id
		}
		wire["children"] = refs
	}
	return json.Marshal(wire)
}

// UnmarshalJSON reads the flat wire shape. Children handling (inline
// objects, slot hoisting, id generation) is the decoder's job; here
// inline values stay in Props untouched.
func (n *Node) UnmarshalJSON(data []byte) error {
	var wire wireNode
	if err := json.Unmarshal(data, &wire); err != nil {
		return errors.WrapInvalid(err, "Node", "UnmarshalJSON", "decode component")
	}

	if id, ok := wire["id"].(string); ok {
		n.ID = id
	}
	if kind, ok := wire["type"].(string); ok {
		n.Kind = Kind(kind)
	}
	delete(wire, "id")
	delete(wire, "type")

	n.Props = map[string]any(wire)
	n.Children = nil
	return nil
}

// Resolved is the render-ready view of a node: every binding and template
// in Props evaluated, children materialized in order.
type Resolved struct {
	ID       string
	Kind     Kind
	Props    map[string]any
	Children []*Resolved
}

// MarshalJSON emits the nested wire shape with children inline.
func (r *Resolved) MarshalJSON() ([]byte, error) {
	wire := make(map[string]any, len(r.Props)+3)
	for k, v := range r.Props {
		wire[k] = v
	}
	wire["id"] = r.ID
	wire["type"] = string(r.Kind)
	if len(r.Children) > 0 {
		wire["children"] = r.Children
	}
	return json.Marshal(wire)
}

func deepCopyMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = deepCopyValue(v)
	}
	return out
}

func deepCopyValue(v any) any {
	switch tv := v.(type) {
	case map[string]any:
		return deepCopyMap(tv)
	case []any:
		out := make([]any, len(tv))
		for i, item := range tv {
			out[i] = deepCopyValue(item)
		}
		return out
	case []string:
		out := make([]string, len(tv))
		copy(out, tv)
		return out
	default:
		return v
	}
}
