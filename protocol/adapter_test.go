package protocol

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/surfacekit/errors"
	"github.com/c360/surfacekit/message"
)

// stubAdapter lets registry tests control detection without pulling in
// the real dialect packages.
type stubAdapter struct {
	name    Protocol
	detects func(any) bool
	result  *ParseResult
}

func (s *stubAdapter) Protocol() Protocol { return s.name }

func (s *stubAdapter) Detect(payload any) bool {
	if s.detects == nil {
		return false
	}
	return s.detects(payload)
}

func (s *stubAdapter) Parse(any) (*ParseResult, error) {
	if s.result != nil {
		return s.result, nil
	}
	return &ParseResult{}, nil
}

func (s *stubAdapter) BuildOutboundEvent(*message.ActionEvent) (map[string]any, error) {
	return map[string]any{"protocol": string(s.name)}, nil
}

func testRegistry() *Registry {
	return NewRegistry(slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
}

func hasKey(key string) func(any) bool {
	return func(payload any) bool {
		obj, ok := payload.(map[string]any)
		if !ok {
			return false
		}
		_, ok = obj[key]
		return ok
	}
}

func TestRegistry_Register(t *testing.T) {
	t.Run("keeps registration order", func(t *testing.T) {
		r := testRegistry()
		require.NoError(t, r.Register(&stubAdapter{name: ProtocolA2UI}))
		require.NoError(t, r.Register(&stubAdapter{name: ProtocolAGUI}))
		assert.Equal(t, []Protocol{ProtocolA2UI, ProtocolAGUI}, r.Protocols())
	})

	t.Run("rejects duplicates", func(t *testing.T) {
		r := testRegistry()
		require.NoError(t, r.Register(&stubAdapter{name: ProtocolA2UI}))
		err := r.Register(&stubAdapter{name: ProtocolA2UI})
		require.Error(t, err)
		assert.True(t, errors.IsInvalid(err))
	})

	t.Run("rejects nil adapters", func(t *testing.T) {
		r := testRegistry()
		err := r.Register(nil)
		require.Error(t, err)
		assert.True(t, errors.IsFatal(err))
	})

	t.Run("rejects unknown protocol names", func(t *testing.T) {
		r := testRegistry()
		err := r.Register(&stubAdapter{name: Protocol("smoke-signal")})
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrUnknownProtocol)
	})
}

func TestRegistry_Detect(t *testing.T) {
	newRegistry := func(t *testing.T) *Registry {
		r := testRegistry()
		require.NoError(t, r.Register(&stubAdapter{name: ProtocolA2UI, detects: hasKey("jsonl")}))
		require.NoError(t, r.Register(&stubAdapter{name: ProtocolAGUI, detects: hasKey("events")}))
		return r
	}

	t.Run("declared protocol wins over shape", func(t *testing.T) {
		r := newRegistry(t)
		// Shaped like the first adapter but declared as the second.
		payload := map[string]any{"protocol": "ag_ui", "jsonl": "x"}
		adapter, err := r.Detect(payload)
		require.NoError(t, err)
		assert.Equal(t, ProtocolAGUI, adapter.Protocol())
	})

	t.Run("declared unknown protocol is an error even when a shape matches", func(t *testing.T) {
		r := newRegistry(t)
		payload := map[string]any{"protocol": "grpc", "jsonl": "x"}
		_, err := r.Detect(payload)
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrUnknownProtocol)
	})

	t.Run("declared but unregistered protocol is an error", func(t *testing.T) {
		r := newRegistry(t)
		_, err := r.Detect(map[string]any{"protocol": "mcp_apps"})
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrUnknownProtocol)
	})

	t.Run("undeclared payloads route by shape in registration order", func(t *testing.T) {
		r := newRegistry(t)
		adapter, err := r.Detect(map[string]any{"events": []any{}})
		require.NoError(t, err)
		assert.Equal(t, ProtocolAGUI, adapter.Protocol())

		// A payload matching both goes to the earlier registration.
		adapter, err = r.Detect(map[string]any{"jsonl": "x", "events": []any{}})
		require.NoError(t, err)
		assert.Equal(t, ProtocolA2UI, adapter.Protocol())
	})

	t.Run("unmatched payloads are rejected", func(t *testing.T) {
		r := newRegistry(t)
		_, err := r.Detect(map[string]any{})
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrUnrecognizedPayload)
	})
}

func TestRegistry_Parse(t *testing.T) {
	r := testRegistry()
	stub := &stubAdapter{
		name:    ProtocolA2UI,
		detects: hasKey("jsonl"),
		result: &ParseResult{
			Messages: []*message.Message{message.NewDeleteSurface("main")},
			Warnings: []message.ParseWarning{{Line: 2, Text: "bad"}},
		},
	}
	require.NoError(t, r.Register(stub))

	result, err := r.Parse(map[string]any{"jsonl": "x"})
	require.NoError(t, err)
	assert.Equal(t, ProtocolA2UI, result.Protocol)
	assert.Len(t, result.Messages, 1)
	assert.Len(t, result.Warnings, 1)
	assert.False(t, result.Empty())

	_, err = r.Parse(map[string]any{})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrUnrecognizedPayload)
}

func TestRegistry_BuildOutboundEvent(t *testing.T) {
	r := testRegistry()
	require.NoError(t, r.Register(&stubAdapter{name: ProtocolA2UI}))

	payload, err := r.BuildOutboundEvent(ProtocolA2UI, message.NewButtonClick("go"))
	require.NoError(t, err)
	assert.Equal(t, "a2ui", payload["protocol"])

	_, err = r.BuildOutboundEvent(ProtocolMCPApps, message.NewButtonClick("go"))
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrUnknownProtocol)
}
