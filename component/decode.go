package component

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/c360/surfacekit/errors"
)

// ImplicitRootID is the id given to the container synthesized when a
// payload provides children without a single root component.
const ImplicitRootID = "root"

// groupContentKey is the field inside grouped-slot items (tab entries)
// holding that group's component list.
const groupContentKey = "content"

// Decoder turns raw wire objects into arena subtrees. Nested child
// components are hoisted into the flat node set and their slot properties
// rewritten to id lists; components arriving without an id get a generated
// one.
//
// With Strict set, any structural or schema problem aborts the decode.
// Otherwise problems are reported as warnings and the offending piece is
// skipped, matching the tolerance expected of a streaming client.
type Decoder struct {
	Catalog *Catalog // nil selects DefaultCatalog
	Strict  bool
}

func (d *Decoder) effectiveCatalog() *Catalog {
	if d.Catalog != nil {
		return d.Catalog
	}
	return DefaultCatalog()
}

// DecodeComponent decodes one nested component object into a subtree.
// The object must carry a "type" discriminant.
func (d *Decoder) DecodeComponent(raw map[string]any) (Subtree, []ValidationError, error) {
	run := &decodeRun{catalog: d.effectiveCatalog(), strict: d.Strict, nodes: make(map[string]*Node)}
	rootID, err := run.component(raw)
	if err != nil {
		return Subtree{}, run.warnings, err
	}
	return Subtree{RootID: rootID, Nodes: run.nodes}, run.warnings, nil
}

// DecodeComponents decodes the components field of a surface snapshot. It
// accepts the three wire forms: a single component object, an array of
// components, and a map of id to component. Arrays and id maps without a
// distinguished root are wrapped in a synthesized container so the tree
// always has one root.
func (d *Decoder) DecodeComponents(raw any) (Subtree, []ValidationError, error) {
	run := &decodeRun{catalog: d.effectiveCatalog(), strict: d.Strict, nodes: make(map[string]*Node)}

	var rootID string
	var err error
	switch v := raw.(type) {
	case nil:
		rootID = run.implicitRoot(nil)
	case map[string]any:
		if _, hasType := v["type"].(string); hasType {
			rootID, err = run.component(v)
		} else {
			rootID, err = run.entryMap(v)
		}
	case []any:
		rootID, err = run.componentArray(v)
	default:
		err = errors.WrapInvalid(
			fmt.Errorf("components must be an object, array or id map, got %T: %w", raw, errors.ErrInvalidComponent),
			"Decoder", "DecodeComponents", "payload shape")
	}
	if err != nil {
		return Subtree{}, run.warnings, err
	}
	return Subtree{RootID: rootID, Nodes: run.nodes}, run.warnings, nil
}

// DecodeSubtrees decodes the components field of an update message into
// independently installable subtrees, one per top-level entry. Unlike
// DecodeComponents nothing is wrapped under a synthesized root: an id
// map yields one subtree per key with the key overriding any embedded
// id, an array yields one subtree per element. Subtrees come out in
// sorted key order for maps, element order for arrays.
func (d *Decoder) DecodeSubtrees(raw any) ([]Subtree, []ValidationError, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil, nil
	case map[string]any:
		if _, hasType := v["type"].(string); hasType {
			sub, warns, err := d.DecodeComponent(v)
			if err != nil {
				return nil, warns, err
			}
			return []Subtree{sub}, warns, nil
		}
		return d.subtreeEntries(v)
	case []any:
		return d.subtreeArray(v)
	default:
		return nil, nil, errors.WrapInvalid(
			fmt.Errorf("components must be an object, array or id map, got %T: %w", raw, errors.ErrInvalidComponent),
			"Decoder", "DecodeSubtrees", "payload shape")
	}
}

func (d *Decoder) subtreeEntries(entries map[string]any) ([]Subtree, []ValidationError, error) {
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var subs []Subtree
	var warns []ValidationError
	for _, key := range keys {
		obj, ok := entries[key].(map[string]any)
		if !ok {
			warns = append(warns, ValidationError{
				Field: key, Code: "invalid_component", Message: "id map entries must be component objects",
			})
			if d.Strict {
				return nil, warns, errors.WrapInvalid(
					fmt.Errorf("%s: id map entries must be component objects: %w", key, errors.ErrInvalidComponent),
					"Decoder", "DecodeSubtrees", "strict validation")
			}
			continue
		}
		forced := make(map[string]any, len(obj)+1)
		for k, v := range obj {
			forced[k] = v
		}
		forced["id"] = key
		sub, w, err := d.DecodeComponent(forced)
		warns = append(warns, w...)
		if err != nil {
			if d.Strict {
				return nil, warns, err
			}
			warns = append(warns, ValidationError{Field: key, Code: "invalid_component", Message: err.Error()})
			continue
		}
		subs = append(subs, sub)
	}
	return subs, warns, nil
}

func (d *Decoder) subtreeArray(items []any) ([]Subtree, []ValidationError, error) {
	var subs []Subtree
	var warns []ValidationError
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			warns = append(warns, ValidationError{
				Field: fmt.Sprintf("[%d]", i), Code: "invalid_component", Message: "array entries must be component objects",
			})
			if d.Strict {
				return nil, warns, errors.WrapInvalid(
					fmt.Errorf("[%d]: array entries must be component objects: %w", i, errors.ErrInvalidComponent),
					"Decoder", "DecodeSubtrees", "strict validation")
			}
			continue
		}
		sub, w, err := d.DecodeComponent(obj)
		warns = append(warns, w...)
		if err != nil {
			if d.Strict {
				return nil, warns, err
			}
			warns = append(warns, ValidationError{Field: fmt.Sprintf("[%d]", i), Code: "invalid_component", Message: err.Error()})
			continue
		}
		subs = append(subs, sub)
	}
	return subs, warns, nil
}

// decodeRun accumulates the nodes and warnings of one decode call.
type decodeRun struct {
	catalog  *Catalog
	strict   bool
	nodes    map[string]*Node
	warnings []ValidationError
}

// warn records a problem. In strict mode the problem is also returned as
// an error, aborting the decode.
func (r *decodeRun) warn(field, code, message string) error {
	r.warnings = append(r.warnings, ValidationError{Field: field, Message: message, Code: code})
	if r.strict {
		return errors.WrapInvalid(
			fmt.Errorf("%s: %s: %w", field, message, errors.ErrInvalidComponent),
			"Decoder", "Decode", "strict validation")
	}
	return nil
}

// component decodes one component object, registers it and its hoisted
// descendants, and returns its id. A missing type discriminant is an error
// in any mode; the caller decides whether to skip or abort.
func (r *decodeRun) component(raw map[string]any) (string, error) {
	kindName, _ := raw["type"].(string)
	if kindName == "" {
		return "", errors.WrapInvalid(
			fmt.Errorf("component object has no type: %w", errors.ErrInvalidComponent),
			"Decoder", "Decode", "type discriminant")
	}
	kind := Kind(kindName)

	id, _ := raw["id"].(string)
	if id == "" {
		id = uuid.NewString()
	}

	reg, known := r.catalog.Get(kind)
	if !known {
		if err := r.warn(id, "unknown_kind", fmt.Sprintf("unregistered component type %q", kindName)); err != nil {
			return "", err
		}
	} else {
		verrs, verr := r.catalog.ValidateProps(kind, raw)
		if verr != nil {
			if err := r.warn(id, "schema_error", verr.Error()); err != nil {
				return "", err
			}
		}
		for _, ve := range verrs {
			if err := r.warn(id+"."+ve.Field, ve.Code, ve.Message); err != nil {
				return "", err
			}
		}
	}

	if _, dup := r.nodes[id]; dup {
		if err := r.warn(id, "duplicate_id", "id appears more than once in one payload"); err != nil {
			return "", err
		}
	}

	node := &Node{ID: id, Kind: kind, Props: make(map[string]any)}
	r.nodes[id] = node

	// Child-bearing fields are processed in a fixed order so the child
	// list comes out deterministic regardless of map iteration.
	if rawChildren, ok := raw["children"]; ok {
		ids, err := r.childList(id, rawChildren)
		if err != nil {
			return "", err
		}
		node.Children = append(node.Children, ids...)
	}

	for _, slot := range reg.ChildProps {
		rawSlot, ok := raw[slot]
		if !ok {
			continue
		}
		ids, err := r.childList(id, rawSlot)
		if err != nil {
			return "", err
		}
		node.Props[slot] = ids
		node.Children = append(node.Children, ids...)
	}

	if reg.GroupProp != "" {
		if rawGroups, ok := raw[reg.GroupProp]; ok {
			groups, ids, err := r.groupList(id, rawGroups)
			if err != nil {
				return "", err
			}
			node.Props[reg.GroupProp] = groups
			node.Children = append(node.Children, ids...)
		}
	}

	for key, value := range raw {
		if key == "type" || key == "id" || key == "children" {
			continue
		}
		if _, taken := node.Props[key]; taken {
			continue
		}
		node.Props[key] = deepCopyValue(value)
	}
	return id, nil
}

// childList decodes a child slot value into a list of node ids. Entries
// may be nested component objects, which are hoisted, or bare id strings,
// which pass through for late binding against the arena.
func (r *decodeRun) childList(parentID string, value any) ([]string, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string:
		return []string{v}, nil
	case map[string]any:
		childID, err := r.component(v)
		if err != nil {
			if r.strict {
				return nil, err
			}
			r.warn(parentID, "invalid_child", err.Error())
			return nil, nil
		}
		return []string{childID}, nil
	case []any:
		ids := make([]string, 0, len(v))
		for _, item := range v {
			switch child := item.(type) {
			case string:
				ids = append(ids, child)
			case map[string]any:
				childID, err := r.component(child)
				if err != nil {
					if r.strict {
						return nil, err
					}
					r.warn(parentID, "invalid_child", err.Error())
					continue
				}
				ids = append(ids, childID)
			default:
				if err := r.warn(parentID, "invalid_child",
					fmt.Sprintf("child entries must be objects or id strings, got %T", item)); err != nil {
					return nil, err
				}
			}
		}
		return ids, nil
	default:
		if err := r.warn(parentID, "invalid_children",
			fmt.Sprintf("child slot must be an array, object or id string, got %T", value)); err != nil {
			return nil, err
		}
		return nil, nil
	}
}

// groupList rewrites a grouped slot (tab items): each group keeps its own
// fields but its component list under groupContentKey is hoisted to ids.
// Returns the rewritten prop value and the hoisted ids in group order.
func (r *decodeRun) groupList(parentID string, value any) (any, []string, error) {
	items, ok := value.([]any)
	if !ok {
		return deepCopyValue(value), nil, nil
	}

	var childIDs []string
	groups := make([]any, 0, len(items))
	for _, item := range items {
		group, ok := item.(map[string]any)
		if !ok {
			groups = append(groups, deepCopyValue(item))
			continue
		}
		rewritten := make(map[string]any, len(group))
		for k, v := range group {
			if k == groupContentKey {
				continue
			}
			rewritten[k] = deepCopyValue(v)
		}
		if content, exists := group[groupContentKey]; exists {
			ids, err := r.childList(parentID, content)
			if err != nil {
				return nil, nil, err
			}
			rewritten[groupContentKey] = ids
			childIDs = append(childIDs, ids...)
		}
		groups = append(groups, rewritten)
	}
	return groups, childIDs, nil
}

// componentArray wraps a bare component array in a synthesized container.
func (r *decodeRun) componentArray(items []any) (string, error) {
	ids, err := r.childList(ImplicitRootID, items)
	if err != nil {
		return "", err
	}
	return r.implicitRoot(ids), nil
}

// entryMap decodes the id-to-component map form. The map key names each
// component, overriding any embedded id.
func (r *decodeRun) entryMap(entries map[string]any) (string, error) {
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	entryIDs := make([]string, 0, len(keys))
	for _, key := range keys {
		obj, ok := entries[key].(map[string]any)
		if !ok {
			if err := r.warn(key, "invalid_component", "id map entries must be component objects"); err != nil {
				return "", err
			}
			continue
		}
		forced := make(map[string]any, len(obj)+1)
		for k, v := range obj {
			forced[k] = v
		}
		forced["id"] = key
		if _, err := r.component(forced); err != nil {
			if r.strict {
				return "", err
			}
			r.warn(key, "invalid_component", err.Error())
			continue
		}
		entryIDs = append(entryIDs, key)
	}

	if len(entryIDs) == 0 {
		return r.implicitRoot(nil), nil
	}

	// An entry literally named "root" wins. Otherwise a single entry that
	// no other entry references is the root, and anything else is wrapped
	// so the tree stays single-rooted.
	for _, id := range entryIDs {
		if id == ImplicitRootID {
			return id, nil
		}
	}

	referenced := make(map[string]bool)
	for _, node := range r.nodes {
		for _, childID := range node.Children {
			referenced[childID] = true
		}
	}
	loose := make([]string, 0, len(entryIDs))
	for _, id := range entryIDs {
		if !referenced[id] {
			loose = append(loose, id)
		}
	}
	if len(loose) == 1 {
		return loose[0], nil
	}
	if len(loose) == 0 {
		loose = entryIDs
	}
	return r.implicitRoot(loose), nil
}

// implicitRoot registers a synthesized container holding the given
// children and returns its id.
func (r *decodeRun) implicitRoot(children []string) string {
	id := ImplicitRootID
	if _, taken := r.nodes[id]; taken {
		id = uuid.NewString()
	}
	r.nodes[id] = &Node{ID: id, Kind: KindContainer, Props: make(map[string]any), Children: children}
	return id
}
