package component

import (
	"sort"

	"github.com/c360/surfacekit/errors"
)

// Subtree is a decoded component fragment: the root node's id plus every
// node hoisted out of the nested wire form, keyed by id.
type Subtree struct {
	RootID string
	Nodes  map[string]*Node
}

// Renamed returns the subtree with its root node carrying the given id.
// Child nodes are unaffected.
func (s Subtree) Renamed(id string) Subtree {
	if id == "" || id == s.RootID {
		return s
	}
	root, ok := s.Nodes[s.RootID]
	if !ok {
		return s
	}
	delete(s.Nodes, s.RootID)
	root.ID = id
	s.Nodes[id] = root
	s.RootID = id
	return s
}

// Tree is the id-indexed arena for one surface's components. Nodes live in
// a flat map; structure is carried by child id lists, so lookup, replace
// and removal are index operations rather than graph surgery.
//
// Nodes may be installed before anything references them. A child id with
// no matching node resolves to nothing at materialization time, which is
// how streamed trees arrive piecewise.
//
// Tree is not safe for concurrent use; the surface store serializes access.
type Tree struct {
	nodes  map[string]*Node
	parent map[string]string
	rootID string
}

// NewTree creates an empty tree.
func NewTree() *Tree {
	return &Tree{
		nodes:  make(map[string]*Node),
		parent: make(map[string]string),
	}
}

// NewTreeFrom creates a tree holding the given subtree as its root.
// The tree takes ownership of the subtree's nodes.
func NewTreeFrom(sub Subtree) *Tree {
	t := NewTree()
	t.installAsRoot(sub)
	return t
}

// RootID returns the id of the root node, or "" for an empty tree.
func (t *Tree) RootID() string {
	return t.rootID
}

// Node returns the node with the given id.
func (t *Tree) Node(id string) (*Node, bool) {
	n, ok := t.nodes[id]
	return n, ok
}

// Parent returns the id of the node whose child list references id.
func (t *Tree) Parent(id string) (string, bool) {
	p, ok := t.parent[id]
	return p, ok
}

// Len returns the number of nodes in the arena, attached or not.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// IDs returns all node ids in sorted order.
func (t *Tree) IDs() []string {
	ids := make([]string, 0, len(t.nodes))
	for id := range t.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// SetSubtree installs or overwrites the subtree rooted at sub.RootID.
// If the tree is empty or sub.RootID is the current root, the whole tree
// is replaced. Otherwise the nodes are installed in place, whether or not
// anything references the new root yet, and descendants of the previous
// node at that id that are no longer referenced are dropped.
func (t *Tree) SetSubtree(sub Subtree) {
	if sub.RootID == "" || len(sub.Nodes) == 0 {
		return
	}
	if t.rootID == "" || sub.RootID == t.rootID {
		t.installAsRoot(sub)
		return
	}

	var stale map[string]bool
	if _, exists := t.nodes[sub.RootID]; exists {
		stale = t.descendants(sub.RootID)
	}
	t.install(sub.Nodes)
	t.collectOrphans(stale, sub.Nodes)
}

// Replace substitutes the entire subtree at targetID with sub. The
// installed root takes the target's id so the node keeps its place in its
// parent's child list. Reports false when targetID is not in the tree.
func (t *Tree) Replace(targetID string, sub Subtree) bool {
	if _, exists := t.nodes[targetID]; !exists {
		return false
	}
	sub = sub.Renamed(targetID)
	if targetID == t.rootID {
		t.installAsRoot(sub)
		return true
	}

	stale := t.descendants(targetID)
	t.install(sub.Nodes)
	t.collectOrphans(stale, sub.Nodes)
	return true
}

// PatchProps shallow-merges props into the node at targetID, leaving
// unmentioned properties and all children untouched. Reports false when
// targetID is not in the tree.
func (t *Tree) PatchProps(targetID string, props map[string]any) bool {
	node, exists := t.nodes[targetID]
	if !exists {
		return false
	}
	if node.Props == nil {
		node.Props = make(map[string]any, len(props))
	}
	for k, v := range props {
		node.Props[k] = deepCopyValue(v)
	}
	return true
}

// AppendChild installs sub and appends its root id as the trailing child
// of the node at parentID. Appending is never idempotent: each call adds
// another child entry, even for an id already present. Reports false when
// parentID is not in the tree.
func (t *Tree) AppendChild(parentID string, sub Subtree) bool {
	parent, exists := t.nodes[parentID]
	if !exists || sub.RootID == "" || len(sub.Nodes) == 0 {
		return false
	}

	var stale map[string]bool
	if _, replaced := t.nodes[sub.RootID]; replaced {
		stale = t.descendants(sub.RootID)
	}
	t.install(sub.Nodes)
	t.collectOrphans(stale, sub.Nodes)

	parent.Children = append(parent.Children, sub.RootID)
	t.parent[sub.RootID] = parentID
	return true
}

// Remove deletes the node at targetID, detaches every reference to it from
// its parent, and drops its now-unreferenced descendants. Removing the root
// returns errors.ErrRootRemoval and changes nothing. A missing target
// reports false with no error.
func (t *Tree) Remove(targetID string) (bool, error) {
	if targetID != "" && targetID == t.rootID {
		return false, errors.ErrRootRemoval
	}
	if _, exists := t.nodes[targetID]; !exists {
		return false, nil
	}

	if parentID, ok := t.parent[targetID]; ok {
		if parent, exists := t.nodes[parentID]; exists {
			t.detachChild(parent, targetID)
		}
	}

	stale := t.descendants(targetID)
	t.deleteNode(targetID)
	t.collectOrphans(stale, nil)
	return true, nil
}

// Materialize converts the subtree at id back into the nested wire form,
// resolving child ids through the arena. Slot properties rewritten to id
// lists at decode time become nested objects again; remaining children
// land in a trailing "children" array. Dangling child ids are skipped.
func (t *Tree) Materialize(id string) (map[string]any, bool) {
	return t.materialize(id, make(map[string]bool))
}

func (t *Tree) materialize(id string, onPath map[string]bool) (map[string]any, bool) {
	node, exists := t.nodes[id]
	if !exists || onPath[id] {
		return nil, false
	}
	onPath[id] = true
	defer delete(onPath, id)

	out := map[string]any{
		"type": string(node.Kind),
		"id":   node.ID,
	}

	// Slot properties carry child id lists as []string; everything decoded
	// straight from JSON is []any, so the element type alone marks a slot.
	// Grouped slots (tab items) nest their id lists one level down, hence
	// the recursive walk.
	claimed := make(map[string]bool)
	for key, value := range node.Props {
		out[key] = t.materializeValue(value, onPath, claimed)
	}

	var rest []any
	for _, childID := range node.Children {
		if claimed[childID] {
			continue
		}
		if child, ok := t.materialize(childID, onPath); ok {
			rest = append(rest, child)
		}
	}
	if rest != nil {
		out["children"] = rest
	}
	return out, true
}

// materializeValue rebuilds one property value, expanding any []string id
// list it finds into nested component objects and recording the claimed ids.
func (t *Tree) materializeValue(value any, onPath, claimed map[string]bool) any {
	switch v := value.(type) {
	case []string:
		nested := make([]any, 0, len(v))
		for _, childID := range v {
			claimed[childID] = true
			if child, ok := t.materialize(childID, onPath); ok {
				nested = append(nested, child)
			}
		}
		return nested
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = t.materializeValue(item, onPath, claimed)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = t.materializeValue(item, onPath, claimed)
		}
		return out
	default:
		return deepCopyValue(v)
	}
}

// installAsRoot replaces the whole tree with sub.
func (t *Tree) installAsRoot(sub Subtree) {
	t.nodes = make(map[string]*Node, len(sub.Nodes))
	t.parent = make(map[string]string)
	t.rootID = sub.RootID
	t.install(sub.Nodes)
}

// install adds nodes to the arena, overwriting existing entries, and
// refreshes the parent index for their children.
func (t *Tree) install(nodes map[string]*Node) {
	for id, node := range nodes {
		if old, exists := t.nodes[id]; exists {
			for _, childID := range old.Children {
				if t.parent[childID] == id {
					delete(t.parent, childID)
				}
			}
		}
		t.nodes[id] = node
		for _, childID := range node.Children {
			t.parent[childID] = id
		}
	}
}

// descendants returns the ids reachable from rootID through child lists,
// including rootID itself. Cycles terminate at the first revisit.
func (t *Tree) descendants(rootID string) map[string]bool {
	seen := make(map[string]bool)
	stack := []string{rootID}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[id] {
			continue
		}
		seen[id] = true
		if node, exists := t.nodes[id]; exists {
			stack = append(stack, node.Children...)
		}
	}
	return seen
}

// collectOrphans drops nodes from the stale set that neither survive in the
// freshly installed set nor are referenced by any remaining node. Dropping
// a node can orphan its own children, so the sweep repeats until stable.
// Nodes outside the stale set are never touched; installed-but-unattached
// nodes stay in the arena awaiting a reference.
func (t *Tree) collectOrphans(stale map[string]bool, installed map[string]*Node) {
	if len(stale) == 0 {
		return
	}
	candidates := make(map[string]bool, len(stale))
	for id := range stale {
		if _, kept := installed[id]; !kept {
			candidates[id] = true
		}
	}

	for {
		referenced := make(map[string]bool)
		for _, node := range t.nodes {
			for _, childID := range node.Children {
				referenced[childID] = true
			}
		}

		removed := false
		for id := range candidates {
			if id == t.rootID || referenced[id] {
				continue
			}
			if _, exists := t.nodes[id]; !exists {
				delete(candidates, id)
				continue
			}
			t.deleteNode(id)
			delete(candidates, id)
			removed = true
		}
		if !removed {
			return
		}
	}
}

// detachChild removes every occurrence of childID from the parent's child
// list and from its slot properties, including grouped slots.
func (t *Tree) detachChild(parent *Node, childID string) {
	kept := parent.Children[:0]
	for _, id := range parent.Children {
		if id != childID {
			kept = append(kept, id)
		}
	}
	parent.Children = kept

	for key, value := range parent.Props {
		parent.Props[key] = detachFromValue(value, childID)
	}
}

// detachFromValue filters childID out of any []string id list nested in a
// property value. Mutates slices and maps in place.
func detachFromValue(value any, childID string) any {
	switch v := value.(type) {
	case []string:
		filtered := v[:0]
		for _, id := range v {
			if id != childID {
				filtered = append(filtered, id)
			}
		}
		return filtered
	case map[string]any:
		for k, item := range v {
			v[k] = detachFromValue(item, childID)
		}
		return v
	case []any:
		for i, item := range v {
			v[i] = detachFromValue(item, childID)
		}
		return v
	default:
		return v
	}
}

// deleteNode removes the node and its index entries.
func (t *Tree) deleteNode(id string) {
	if node, exists := t.nodes[id]; exists {
		for _, childID := range node.Children {
			if t.parent[childID] == id {
				delete(t.parent, childID)
			}
		}
	}
	delete(t.nodes, id)
	delete(t.parent, id)
}
