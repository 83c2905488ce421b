package client

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/c360/surfacekit/binding"
	"github.com/c360/surfacekit/component"
	"github.com/c360/surfacekit/engine"
	"github.com/c360/surfacekit/errors"
	"github.com/c360/surfacekit/message"
	"github.com/c360/surfacekit/metric"
	"github.com/c360/surfacekit/protocol"
	"github.com/c360/surfacekit/protocolregistry"
	"github.com/c360/surfacekit/surface"
	"github.com/c360/surfacekit/surfacestore"
)

// Config carries everything a client can be tuned with. The zero value is
// usable: default catalog, default adapter set, builtin functions only.
type Config struct {
	// DefaultSurfaceID is where component-level updates without surface
	// addressing land. Empty selects the protocol-level default.
	DefaultSurfaceID string

	// Functions adds host functions to binding resolution, on top of the
	// builtins.
	Functions *binding.Registry

	// Catalog overrides the component catalog decodes validate against.
	Catalog *component.Catalog

	// Protocols overrides the adapter set. Nil wires every supported
	// dialect.
	Protocols *protocol.Registry

	Logger  *slog.Logger
	Metrics *metric.Metrics
}

// Validate rejects configurations the client could not operate under.
func (c Config) Validate() error {
	if c.Protocols != nil && len(c.Protocols.Protocols()) == 0 {
		return errors.WrapInvalid(
			fmt.Errorf("protocol registry has no adapters: %w", errors.ErrInvalidConfig),
			"client", "Validate", "protocol registry check")
	}
	return nil
}

// Client is the façade over the adapter layer, the engine and the surface
// store: feed it inbound payloads from any supported dialect, read
// resolved components out, and hand it interactions to wrap for the way
// back.
type Client struct {
	defaultSurfaceID string
	store            *surfacestore.Store
	protocols        *protocol.Registry
	logger           *slog.Logger
	metrics          *metric.Metrics

	mu   sync.Mutex
	last protocol.Protocol
}

// New creates a client.
func New(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	surfaceID := cfg.DefaultSurfaceID
	if surfaceID == "" {
		surfaceID = protocol.DefaultSurfaceID
	}

	protocols := cfg.Protocols
	if protocols == nil {
		var err error
		protocols, err = protocolregistry.Default(logger, cfg.Metrics)
		if err != nil {
			return nil, err
		}
	}

	eng := engine.New(cfg.Catalog, logger, cfg.Metrics)
	store := surfacestore.New(eng, cfg.Functions, logger, cfg.Metrics)

	return &Client{
		defaultSurfaceID: surfaceID,
		store:            store,
		protocols:        protocols,
		logger:           logger,
		metrics:          cfg.Metrics,
	}, nil
}

// PayloadResult reports what one inbound payload did: one engine result
// per translated message and update, in application order, plus the
// interactions and warnings the payload carried.
type PayloadResult struct {
	Protocol protocol.Protocol
	Results  []engine.Result
	Events   []*message.ActionEvent
	Warnings []message.ParseWarning
}

// Applied counts the results that mutated a surface.
func (r *PayloadResult) Applied() int { return r.count(engine.StatusApplied) }

// Noops counts the results that were understood but changed nothing.
func (r *PayloadResult) Noops() int { return r.count(engine.StatusNoop) }

// Dropped counts the results that could not be applied.
func (r *PayloadResult) Dropped() int { return r.count(engine.StatusDropped) }

func (r *PayloadResult) count(status engine.Status) int {
	n := 0
	for _, res := range r.Results {
		if res.Status == status {
			n++
		}
	}
	return n
}

// HandlePayload routes one inbound payload to its dialect adapter and
// applies everything it translates to, in order. The adapter that handled
// the payload becomes the active protocol for outbound events.
//
// The error is set only when the whole payload is unusable: no dialect
// claims it, or the claiming adapter cannot read it at all. Unit-level
// problems surface as warnings and dropped results while the rest of the
// payload still applies.
func (c *Client) HandlePayload(payload any) (*PayloadResult, error) {
	parsed, err := c.protocols.Parse(payload)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.last = parsed.Protocol
	c.mu.Unlock()

	out := &PayloadResult{
		Protocol: parsed.Protocol,
		Events:   parsed.Events,
		Warnings: parsed.Warnings,
	}
	for _, msg := range parsed.Messages {
		res, err := c.store.Apply(msg)
		if err != nil {
			c.logger.Warn("message dropped",
				"type", msg.Type.String(),
				"surface", msg.SurfaceID,
				"error", err)
		}
		out.Results = append(out.Results, res)
	}
	for _, upd := range parsed.Updates {
		res, err := c.store.ApplyUpdate(c.defaultSurfaceID, upd)
		if err != nil {
			c.logger.Warn("update dropped",
				"operation", string(upd.Operation),
				"target", upd.TargetID,
				"error", err)
		}
		out.Results = append(out.Results, res)
	}
	return out, nil
}

// BuildOutboundEvent wraps an interaction in the envelope of the protocol
// that produced the most recent inbound payload. Before any payload has
// arrived there is nothing to infer, and the call fails with
// errors.ErrNoProtocol.
func (c *Client) BuildOutboundEvent(event *message.ActionEvent) (map[string]any, error) {
	c.mu.Lock()
	last := c.last
	c.mu.Unlock()

	if last == "" {
		return nil, errors.WrapInvalid(
			fmt.Errorf("no inbound payload has fixed a protocol yet: %w", errors.ErrNoProtocol),
			"client", "BuildOutboundEvent", "protocol selection")
	}
	return c.protocols.BuildOutboundEvent(last, event)
}

// BuildOutboundEventFor wraps an interaction for an explicit protocol,
// overriding whatever the last inbound payload was.
func (c *Client) BuildOutboundEventFor(p protocol.Protocol, event *message.ActionEvent) (map[string]any, error) {
	return c.protocols.BuildOutboundEvent(p, event)
}

// LastProtocol reports the dialect of the most recent inbound payload.
// The second return is false before the first payload.
func (c *Client) LastProtocol() (protocol.Protocol, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.last, c.last != ""
}

// ResolvedComponent returns the named component with all bindings,
// templates and function calls evaluated against the surface's current
// data model.
func (c *Client) ResolvedComponent(surfaceID, componentID string) (*component.Resolved, bool) {
	return c.store.Resolved(surfaceID, componentID)
}

// Surface returns the live surface with the given id.
func (c *Client) Surface(id string) (*surface.Surface, bool) {
	return c.store.Surface(id)
}

// Store exposes the underlying surface store for hosts that drive it
// directly.
func (c *Client) Store() *surfacestore.Store {
	return c.store
}

// Capabilities returns the protocol negotiation document hosts fetch
// before streaming.
func (c *Client) Capabilities() map[string]any {
	return protocol.CapabilityDocument()
}
