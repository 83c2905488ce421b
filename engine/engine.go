package engine

import (
	"log/slog"
	"time"

	"github.com/c360/surfacekit/component"
	"github.com/c360/surfacekit/datamodel"
	"github.com/c360/surfacekit/errors"
	"github.com/c360/surfacekit/message"
	"github.com/c360/surfacekit/metric"
	"github.com/c360/surfacekit/surface"
)

// Status describes the effect of applying one message or update.
type Status string

const (
	// StatusApplied means the surface set was mutated.
	StatusApplied Status = "applied"
	// StatusNoop means the message was understood but changed nothing,
	// expected under streaming for late or duplicate targets.
	StatusNoop Status = "noop"
	// StatusDropped means the message could not be applied at all.
	StatusDropped Status = "dropped"
)

// Result reports what one apply call did. Dropped and noop outcomes are
// not errors; subsequent messages may still correct the surface.
type Result struct {
	Status Status
	Reason string
}

func applied() Result              { return Result{Status: StatusApplied} }
func noop(reason string) Result    { return Result{Status: StatusNoop, Reason: reason} }
func dropped(reason string) Result { return Result{Status: StatusDropped, Reason: reason} }

// SurfaceSet is the mutable surface collection the engine applies
// messages to. The surface store implements it under its own lock;
// tests may use a plain map-backed set.
type SurfaceSet interface {
	Surface(id string) (*surface.Surface, bool)
	Put(s *surface.Surface)
	Delete(id string) bool
}

// Engine applies parsed messages and component-level updates. It holds
// no surface state of its own and performs no I/O, so every call is
// atomic and complete on return, and callers control ordering entirely.
type Engine struct {
	catalog *component.Catalog
	decoder *component.Decoder
	logger  *slog.Logger
	metrics *metric.Metrics
}

// New creates an engine. A nil catalog selects the default component
// catalog; a nil metrics handle disables recording.
func New(catalog *component.Catalog, logger *slog.Logger, metrics *metric.Metrics) *Engine {
	if catalog == nil {
		catalog = component.DefaultCatalog()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		catalog: catalog,
		decoder: &component.Decoder{Catalog: catalog},
		logger:  logger,
		metrics: metrics,
	}
}

// Catalog returns the component catalog the engine decodes against.
func (e *Engine) Catalog() *component.Catalog {
	return e.catalog
}

// Apply applies one surface-level message to the set. Messages must be
// handed over in arrival order; the engine never reorders or buffers.
// The engine takes ownership of the message's payload maps.
//
// The returned error is set only for nil arguments and structurally
// invalid messages. Dropped targets and absent surfaces come back as
// noop or dropped results with a nil error, since late and duplicate
// messages are expected under streaming.
func (e *Engine) Apply(set SurfaceSet, msg *message.Message) (Result, error) {
	if set == nil || msg == nil {
		return dropped("nil input"), errors.WrapInvalid(errors.ErrInvalidData, "engine", "Apply", "input check")
	}
	start := time.Now()

	res, err := e.apply(set, msg)

	e.metrics.RecordMessageApplied(msg.Type.String(), string(res.Status))
	e.metrics.RecordApplyDuration(msg.Type.String(), time.Since(start))
	if res.Status != StatusApplied {
		e.logger.Debug("message not applied",
			"type", msg.Type.String(),
			"surface", msg.SurfaceID,
			"status", string(res.Status),
			"reason", res.Reason,
		)
	}
	return res, err
}

func (e *Engine) apply(set SurfaceSet, msg *message.Message) (Result, error) {
	if err := msg.Validate(); err != nil {
		return dropped("invalid message"), err
	}

	switch msg.Type {
	case message.TypeCreateSurface:
		return e.createSurface(set, msg)
	case message.TypeDeleteSurface:
		if set.Delete(msg.SurfaceID) {
			return applied(), nil
		}
		return noop("absent surface"), nil
	case message.TypeUpdateComponents:
		return e.updateComponents(set, msg)
	case message.TypeUpdateDataModel:
		return e.updateDataModel(set, msg)
	case message.TypeActionEvent:
		// Events describe user interactions; they carry no mutation.
		return noop("action event"), nil
	default:
		return dropped("unknown type"), errors.WrapInvalid(errors.ErrUnknownMessageType, "engine", "Apply", "type dispatch")
	}
}

// createSurface replaces any existing surface under the same id. Last
// writer wins; there is no merge.
func (e *Engine) createSurface(set SurfaceSet, msg *message.Message) (Result, error) {
	s := surface.New(msg.SurfaceID)
	if msg.Components != nil {
		sub, warns, err := e.decoder.DecodeComponents(msg.Components)
		if err != nil {
			return dropped("invalid components"), err
		}
		e.logWarnings(msg.SurfaceID, warns)
		s.Tree.SetSubtree(sub)
	}
	if msg.DataModel != nil {
		s.Data = datamodel.FromMap(msg.DataModel)
	}
	set.Put(s)
	return applied(), nil
}

// updateComponents installs subtrees by id into an existing surface.
// A missing surface drops the message; the set never materializes a
// surface implicitly.
func (e *Engine) updateComponents(set SurfaceSet, msg *message.Message) (Result, error) {
	s, ok := set.Surface(msg.SurfaceID)
	if !ok {
		return dropped("unknown surface"), nil
	}
	subs, warns, err := e.decoder.DecodeSubtrees(msg.Components)
	if err != nil {
		return dropped("invalid components"), err
	}
	e.logWarnings(msg.SurfaceID, warns)
	if len(subs) == 0 {
		return noop("no components"), nil
	}
	for _, sub := range subs {
		s.Tree.SetSubtree(sub)
	}
	return applied(), nil
}

// updateDataModel applies the message's patches in order. A patch with
// an unusable path is skipped and logged; the rest still apply.
func (e *Engine) updateDataModel(set SurfaceSet, msg *message.Message) (Result, error) {
	s, ok := set.Surface(msg.SurfaceID)
	if !ok {
		return dropped("unknown surface"), nil
	}
	if len(msg.Patches) == 0 {
		return noop("no patches"), nil
	}
	appliedCount := 0
	for _, patch := range msg.Patches {
		if err := s.Data.SetPath(patch.Path, patch.Value); err != nil {
			e.logger.Warn("data model patch skipped",
				"surface", msg.SurfaceID,
				"path", patch.Path,
				"error", err,
			)
			continue
		}
		appliedCount++
	}
	if appliedCount == 0 {
		return noop("no applicable patches"), nil
	}
	return applied(), nil
}

// ApplyUIUpdate applies one component-level update to a standalone
// tree. Replace, Patch and Remove are idempotent after first success;
// Append is not, each call adds another trailing child.
func (e *Engine) ApplyUIUpdate(tree *component.Tree, upd *message.UIUpdate) (Result, error) {
	if tree == nil || upd == nil {
		return dropped("nil input"), errors.WrapInvalid(errors.ErrInvalidData, "engine", "ApplyUIUpdate", "input check")
	}
	res, err := e.applyUpdate(tree, upd)

	e.metrics.RecordUpdateApplied(string(upd.Operation), string(res.Status))
	if res.Status != StatusApplied {
		e.logger.Debug("update not applied",
			"operation", string(upd.Operation),
			"target", upd.TargetID,
			"status", string(res.Status),
			"reason", res.Reason,
		)
	}
	return res, err
}

func (e *Engine) applyUpdate(tree *component.Tree, upd *message.UIUpdate) (Result, error) {
	if err := upd.Validate(); err != nil {
		return dropped("invalid update"), err
	}

	switch upd.Operation {
	case message.OpReplace:
		sub, warns, err := e.decoder.DecodeComponent(upd.Payload)
		if err != nil {
			return dropped("invalid payload"), err
		}
		e.logUpdateWarnings(upd.TargetID, warns)
		if !tree.Replace(upd.TargetID, sub) {
			return noop("unknown target"), nil
		}
		return applied(), nil

	case message.OpPatch:
		props := patchProps(upd.Payload)
		if len(props) == 0 {
			return noop("empty patch"), nil
		}
		if !tree.PatchProps(upd.TargetID, props) {
			return noop("unknown target"), nil
		}
		return applied(), nil

	case message.OpAppend:
		node, ok := tree.Node(upd.TargetID)
		if !ok {
			return noop("unknown target"), nil
		}
		if !e.catalog.IsContainer(node.Kind) {
			return noop("target not a container"), nil
		}
		sub, warns, err := e.decoder.DecodeComponent(upd.Payload)
		if err != nil {
			return dropped("invalid payload"), err
		}
		e.logUpdateWarnings(upd.TargetID, warns)
		if !tree.AppendChild(upd.TargetID, sub) {
			return noop("unknown target"), nil
		}
		return applied(), nil

	case message.OpRemove:
		removed, err := tree.Remove(upd.TargetID)
		if err != nil {
			return noop("root removal rejected"), nil
		}
		if !removed {
			return noop("unknown target"), nil
		}
		return applied(), nil

	default:
		return dropped("unknown operation"), errors.WrapInvalid(errors.ErrUnknownMessageType, "engine", "ApplyUIUpdate", "operation dispatch")
	}
}

// patchProps filters a patch payload down to plain properties. A patch
// merges properties only; identity fields and the child list never
// change through it.
func patchProps(payload map[string]any) map[string]any {
	props := make(map[string]any, len(payload))
	for k, v := range payload {
		if k == "id" || k == "type" || k == "children" {
			continue
		}
		props[k] = v
	}
	return props
}

func (e *Engine) logWarnings(surfaceID string, warns []component.ValidationError) {
	for _, w := range warns {
		e.logger.Warn("component validation",
			"surface", surfaceID,
			"field", w.Field,
			"code", w.Code,
			"message", w.Message,
		)
	}
}

func (e *Engine) logUpdateWarnings(targetID string, warns []component.ValidationError) {
	for _, w := range warns {
		e.logger.Warn("component validation",
			"target", targetID,
			"field", w.Field,
			"code", w.Code,
			"message", w.Message,
		)
	}
}
