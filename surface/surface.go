package surface

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/gowebpki/jcs"

	"github.com/c360/surfacekit/binding"
	"github.com/c360/surfacekit/component"
	"github.com/c360/surfacekit/datamodel"
	"github.com/c360/surfacekit/errors"
)

// Surface binds one component tree to one data model under a stable id.
// Surfaces are independent; nothing reachable from one surface can touch
// another. All mutation goes through the engine, readers go through
// Resolved so bindings are never cached stale.
type Surface struct {
	ID   string
	Tree *component.Tree
	Data *datamodel.Model
}

// New creates an empty surface.
func New(id string) *Surface {
	return &Surface{
		ID:   id,
		Tree: component.NewTree(),
		Data: datamodel.New(),
	}
}

// Resolved returns the component at id with every binding, call, and
// template evaluated against the surface's current data model.
func (s *Surface) Resolved(id string, funcs *binding.Registry) (*component.Resolved, bool) {
	return binding.ResolveComponent(s.Tree, id, binding.Context{Data: s.Data, Functions: funcs})
}

// ResolvedRoot resolves the tree root.
func (s *Surface) ResolvedRoot(funcs *binding.Registry) (*component.Resolved, bool) {
	return s.Resolved(s.Tree.RootID(), funcs)
}

// Document returns the snapshot wire form of the surface: the
// materialized component tree plus a deep copy of the data model,
// keyed the way create-surface messages are. Adapters embed this shape
// when a protocol carries whole-surface snapshots.
func (s *Surface) Document() map[string]any {
	doc := map[string]any{
		"surfaceId": s.ID,
		"dataModel": s.Data.Snapshot(),
	}
	if root, ok := s.Tree.Materialize(s.Tree.RootID()); ok {
		doc["components"] = root
	}
	return doc
}

// Fingerprint hashes the canonical JSON form of the surface document.
// Surfaces holding equal trees and data models fingerprint identically
// regardless of map iteration order, which makes the value usable for
// change detection across processing frames.
func (s *Surface) Fingerprint() (string, error) {
	raw, err := json.Marshal(s.Document())
	if err != nil {
		return "", errors.Wrap(err, "surface", "Fingerprint", "document encoding")
	}
	canonical, err := jcs.Transform(raw)
	if err != nil {
		return "", errors.Wrap(err, "surface", "Fingerprint", "canonicalization")
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}
