package surfacestore

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/c360/surfacekit/binding"
	"github.com/c360/surfacekit/component"
	"github.com/c360/surfacekit/engine"
	"github.com/c360/surfacekit/message"
	"github.com/c360/surfacekit/metric"
	"github.com/c360/surfacekit/surface"
)

// Store holds every live surface and serializes all mutation through the
// engine. Reads take a shared lock; messages and updates take an exclusive
// one, so a stream applied through a single store lands in arrival order.
type Store struct {
	mu        sync.RWMutex
	engine    *engine.Engine
	surfaces  map[string]*surface.Surface
	functions *binding.Registry
	logger    *slog.Logger
	metrics   *metric.Metrics
}

// New creates an empty store. A nil engine gets a default one sharing the
// store's logger and metrics. The functions registry is consulted by
// Resolved; nil leaves resolution on the builtins alone.
func New(eng *engine.Engine, functions *binding.Registry, logger *slog.Logger, metrics *metric.Metrics) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	if eng == nil {
		eng = engine.New(nil, logger, metrics)
	}
	return &Store{
		engine:    eng,
		surfaces:  make(map[string]*surface.Surface),
		functions: functions,
		logger:    logger,
		metrics:   metrics,
	}
}

// lockedSet exposes the surface map to the engine. It is only constructed
// while the store's write lock is held.
type lockedSet struct {
	store *Store
}

func (l lockedSet) Surface(id string) (*surface.Surface, bool) {
	s, ok := l.store.surfaces[id]
	return s, ok
}

func (l lockedSet) Put(s *surface.Surface) {
	l.store.surfaces[s.ID] = s
}

func (l lockedSet) Delete(id string) bool {
	if _, ok := l.store.surfaces[id]; !ok {
		return false
	}
	delete(l.store.surfaces, id)
	return true
}

// Apply routes one surface message through the engine under the write
// lock. The result reports whether the message mutated anything; an error
// means the message itself was unusable.
func (s *Store) Apply(msg *message.Message) (engine.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.engine.Apply(lockedSet{store: s}, msg)
	s.metrics.RecordSurfacesActive(len(s.surfaces))
	return res, err
}

// ApplyUpdate routes one component-level update to the named surface's
// tree. Updates never create surfaces: a missing surface drops the update.
func (s *Store) ApplyUpdate(surfaceID string, upd *message.UIUpdate) (engine.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	surf, ok := s.surfaces[surfaceID]
	if !ok {
		s.logger.Debug("ui update dropped",
			"surfaceId", surfaceID,
			"reason", "unknown surface")
		return engine.Result{Status: engine.StatusDropped, Reason: "unknown surface"}, nil
	}
	return s.engine.ApplyUIUpdate(surf.Tree, upd)
}

// Surface returns the live surface with the given id. The returned value
// is shared with the store: read it freely, but route changes through
// Apply and ApplyUpdate.
func (s *Store) Surface(id string) (*surface.Surface, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	surf, ok := s.surfaces[id]
	return surf, ok
}

// Resolved materializes the component at componentID on the named surface
// with every binding, template and function call evaluated against the
// surface's data model and the store's function registry. The second
// return is false when the surface or the component is missing.
func (s *Store) Resolved(surfaceID, componentID string) (*component.Resolved, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	surf, ok := s.surfaces[surfaceID]
	if !ok {
		return nil, false
	}
	return surf.Resolved(componentID, s.functions)
}

// ResolvedRoot resolves from the named surface's root component.
func (s *Store) ResolvedRoot(surfaceID string) (*component.Resolved, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	surf, ok := s.surfaces[surfaceID]
	if !ok {
		return nil, false
	}
	return surf.ResolvedRoot(s.functions)
}

// IDs returns the ids of all live surfaces in sorted order.
func (s *Store) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.surfaces))
	for id := range s.surfaces {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of live surfaces.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.surfaces)
}

// Functions returns the registry Resolved consults for function calls.
func (s *Store) Functions() *binding.Registry {
	return s.functions
}
