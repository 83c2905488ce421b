// Package client is the single entry point for hosts embedding the
// synchronization core.
//
// # Overview
//
// A Client combines the three layers below it:
//
//   - protocol adapters, which normalize any supported wire dialect into
//     canonical messages
//   - the mutation engine, which applies those messages to surfaces
//   - the surface store, which owns the live surfaces and resolves
//     bindings for rendering
//
// Hosts feed whole inbound payloads to HandlePayload without knowing the
// dialect; the client detects it, applies everything the payload carries,
// and remembers the dialect so the next outbound event speaks the same
// protocol.
//
// # Example
//
//	c, err := client.New(client.Config{})
//	if err != nil {
//		return err
//	}
//
//	// One native JSONL payload: create a surface, patch its data.
//	_, err = c.HandlePayload(strings.Join([]string{
//		`{"type":"create_surface","surfaceId":"main",` +
//			`"components":{"type":"text","id":"root","content":"${/name}"},` +
//			`"dataModel":{"name":"Ann"}}`,
//		`{"type":"update_data_model","surfaceId":"main",` +
//			`"patches":[{"path":"/name","value":"Bo"}]}`,
//	}, "\n"))
//	if err != nil {
//		return err
//	}
//
//	resolved, _ := c.ResolvedComponent("main", "root")
//	// resolved.Props["content"] == "Bo"
//
//	// The user clicked; wrap the event for the active protocol.
//	payload, err := c.BuildOutboundEvent(message.NewButtonClick("approve"))
//
// # Rendering Contract
//
// ResolvedComponent is the single source of truth for renderers. Resolved
// values must be fetched again after every applied payload, never cached
// across updates; resolution is cheap and reads consistent state under
// the store's lock.
package client
