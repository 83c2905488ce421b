package engine

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/surfacekit/component"
	"github.com/c360/surfacekit/errors"
	"github.com/c360/surfacekit/message"
	"github.com/c360/surfacekit/surface"
)

type mapSet map[string]*surface.Surface

func (m mapSet) Surface(id string) (*surface.Surface, bool) {
	s, ok := m[id]
	return s, ok
}

func (m mapSet) Put(s *surface.Surface) { m[s.ID] = s }

func (m mapSet) Delete(id string) bool {
	_, ok := m[id]
	delete(m, id)
	return ok
}

func testEngine() *Engine {
	return New(nil, slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
}

func decodeTree(t *testing.T, raw map[string]any) *component.Tree {
	t.Helper()
	dec := &component.Decoder{}
	sub, warns, err := dec.DecodeComponent(raw)
	require.NoError(t, err)
	require.Empty(t, warns)
	return component.NewTreeFrom(sub)
}

func TestEngine_Apply_CreateSurface(t *testing.T) {
	e := testEngine()
	set := mapSet{}

	t.Run("creates a surface with components and data", func(t *testing.T) {
		msg := message.NewCreateSurface("main",
			map[string]any{"type": "text", "id": "root", "content": "${/name}"},
			map[string]any{"name": "Ann"},
		)
		res, err := e.Apply(set, msg)
		require.NoError(t, err)
		assert.Equal(t, StatusApplied, res.Status)

		s, ok := set.Surface("main")
		require.True(t, ok)
		resolved, ok := s.Resolved("root", nil)
		require.True(t, ok)
		assert.Equal(t, "Ann", resolved.Props["content"])
	})

	t.Run("same id is fully replaced, not merged", func(t *testing.T) {
		first := message.NewCreateSurface("again",
			map[string]any{"type": "text", "id": "old", "content": "one"},
			map[string]any{"keep": "me"},
		)
		_, err := e.Apply(set, first)
		require.NoError(t, err)

		second := message.NewCreateSurface("again",
			map[string]any{"type": "text", "id": "new", "content": "two"}, nil)
		res, err := e.Apply(set, second)
		require.NoError(t, err)
		assert.Equal(t, StatusApplied, res.Status)

		s, _ := set.Surface("again")
		_, oldExists := s.Tree.Node("old")
		assert.False(t, oldExists)
		_, newExists := s.Tree.Node("new")
		assert.True(t, newExists)

		_, found := s.Data.GetPath("/keep")
		assert.False(t, found)
	})

	t.Run("components are optional", func(t *testing.T) {
		res, err := e.Apply(set, message.NewCreateSurface("bare", nil, nil))
		require.NoError(t, err)
		assert.Equal(t, StatusApplied, res.Status)

		s, ok := set.Surface("bare")
		require.True(t, ok)
		assert.Equal(t, "", s.Tree.RootID())
	})
}

func TestEngine_Apply_DeleteSurface(t *testing.T) {
	e := testEngine()
	set := mapSet{}
	_, err := e.Apply(set, message.NewCreateSurface("main", nil, nil))
	require.NoError(t, err)

	res, err := e.Apply(set, message.NewDeleteSurface("main"))
	require.NoError(t, err)
	assert.Equal(t, StatusApplied, res.Status)
	_, ok := set.Surface("main")
	assert.False(t, ok)

	res, err = e.Apply(set, message.NewDeleteSurface("main"))
	require.NoError(t, err)
	assert.Equal(t, StatusNoop, res.Status)
}

func TestEngine_Apply_UpdateComponents(t *testing.T) {
	e := testEngine()

	newSet := func(t *testing.T) mapSet {
		set := mapSet{}
		msg := message.NewCreateSurface("main", map[string]any{
			"type": "stack", "id": "root", "direction": "vertical",
			"children": []any{
				map[string]any{"type": "text", "id": "t1", "content": "one"},
			},
		}, nil)
		_, err := e.Apply(set, msg)
		require.NoError(t, err)
		return set
	}

	t.Run("updates nodes in place by id", func(t *testing.T) {
		set := newSet(t)
		msg := message.NewUpdateComponents("main", map[string]any{
			"t1": map[string]any{"type": "text", "content": "two"},
		})
		res, err := e.Apply(set, msg)
		require.NoError(t, err)
		assert.Equal(t, StatusApplied, res.Status)

		s, _ := set.Surface("main")
		node, ok := s.Tree.Node("t1")
		require.True(t, ok)
		assert.Equal(t, "two", node.Props["content"])
		assert.Equal(t, "root", s.Tree.RootID())
	})

	t.Run("missing surface drops the message", func(t *testing.T) {
		set := newSet(t)
		msg := message.NewUpdateComponents("ghost", map[string]any{
			"t1": map[string]any{"type": "text", "content": "two"},
		})
		res, err := e.Apply(set, msg)
		require.NoError(t, err)
		assert.Equal(t, StatusDropped, res.Status)
		assert.Equal(t, "unknown surface", res.Reason)
	})

	t.Run("unattached ids install for later reference", func(t *testing.T) {
		set := newSet(t)
		msg := message.NewUpdateComponents("main", map[string]any{
			"pending": map[string]any{"type": "text", "content": "later"},
		})
		res, err := e.Apply(set, msg)
		require.NoError(t, err)
		assert.Equal(t, StatusApplied, res.Status)

		s, _ := set.Surface("main")
		_, ok := s.Tree.Node("pending")
		assert.True(t, ok)
	})
}

func TestEngine_Apply_UpdateDataModel(t *testing.T) {
	e := testEngine()

	newSet := func(t *testing.T) mapSet {
		set := mapSet{}
		_, err := e.Apply(set, message.NewCreateSurface("main", nil, map[string]any{"name": "Ann"}))
		require.NoError(t, err)
		return set
	}

	t.Run("patches apply in message order", func(t *testing.T) {
		set := newSet(t)
		msg := message.NewUpdateDataModel("main", []message.Patch{
			{Path: "/count", Value: float64(1)},
			{Path: "/count", Value: float64(2)},
		})
		res, err := e.Apply(set, msg)
		require.NoError(t, err)
		assert.Equal(t, StatusApplied, res.Status)

		s, _ := set.Surface("main")
		v, ok := s.Data.GetPath("/count")
		require.True(t, ok)
		assert.Equal(t, float64(2), v)
	})

	t.Run("missing surface drops the message", func(t *testing.T) {
		set := newSet(t)
		msg := message.NewUpdateDataModel("ghost", []message.Patch{{Path: "/x", Value: 1}})
		res, err := e.Apply(set, msg)
		require.NoError(t, err)
		assert.Equal(t, StatusDropped, res.Status)
	})

	t.Run("empty patch list is a noop", func(t *testing.T) {
		set := newSet(t)
		res, err := e.Apply(set, message.NewUpdateDataModel("main", []message.Patch{}))
		require.NoError(t, err)
		assert.Equal(t, StatusNoop, res.Status)
	})

	t.Run("unusable paths are skipped, the rest apply", func(t *testing.T) {
		set := newSet(t)
		msg := message.NewUpdateDataModel("main", []message.Patch{
			{Path: "", Value: "not a map"},
			{Path: "/ok", Value: true},
		})
		res, err := e.Apply(set, msg)
		require.NoError(t, err)
		assert.Equal(t, StatusApplied, res.Status)

		s, _ := set.Surface("main")
		v, ok := s.Data.GetPath("/ok")
		require.True(t, ok)
		assert.Equal(t, true, v)
	})
}

func TestEngine_Apply_Errors(t *testing.T) {
	e := testEngine()
	set := mapSet{}

	t.Run("nil message", func(t *testing.T) {
		res, err := e.Apply(set, nil)
		require.Error(t, err)
		assert.Equal(t, StatusDropped, res.Status)
	})

	t.Run("invalid message is dropped with its error", func(t *testing.T) {
		res, err := e.Apply(set, &message.Message{Type: message.TypeCreateSurface})
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrInvalidData)
		assert.Equal(t, StatusDropped, res.Status)
	})

	t.Run("action events carry no mutation", func(t *testing.T) {
		ev := message.NewButtonClick("approve")
		res, err := e.Apply(set, message.NewActionEvent(ev))
		require.NoError(t, err)
		assert.Equal(t, StatusNoop, res.Status)
	})
}

func TestEngine_ApplyUIUpdate_Replace(t *testing.T) {
	e := testEngine()

	t.Run("substitutes the subtree under the target id", func(t *testing.T) {
		tree := decodeTree(t, map[string]any{
			"type": "stack", "id": "root", "direction": "vertical",
			"children": []any{map[string]any{"type": "text", "id": "b", "content": "old"}},
		})
		upd := message.NewReplace("b", map[string]any{"type": "badge", "id": "b2", "label": "new"})
		res, err := e.ApplyUIUpdate(tree, upd)
		require.NoError(t, err)
		assert.Equal(t, StatusApplied, res.Status)

		node, ok := tree.Node("b")
		require.True(t, ok)
		assert.Equal(t, component.KindBadge, node.Kind)
		_, renamed := tree.Node("b2")
		assert.False(t, renamed)
	})

	t.Run("missing target is a noop", func(t *testing.T) {
		tree := decodeTree(t, map[string]any{"type": "text", "id": "root", "content": "x"})
		res, err := e.ApplyUIUpdate(tree, message.NewReplace("ghost", map[string]any{"type": "text", "content": "y"}))
		require.NoError(t, err)
		assert.Equal(t, StatusNoop, res.Status)
		assert.Equal(t, "unknown target", res.Reason)
	})

	t.Run("reapplying the same replace is idempotent", func(t *testing.T) {
		tree := decodeTree(t, map[string]any{
			"type": "stack", "id": "root", "direction": "vertical",
			"children": []any{map[string]any{"type": "text", "id": "b", "content": "old"}},
		})
		upd := message.NewReplace("b", map[string]any{"type": "text", "id": "b", "content": "new"})
		_, err := e.ApplyUIUpdate(tree, upd)
		require.NoError(t, err)
		first, ok := tree.Materialize("root")
		require.True(t, ok)

		_, err = e.ApplyUIUpdate(tree, upd)
		require.NoError(t, err)
		second, ok := tree.Materialize("root")
		require.True(t, ok)
		assert.Equal(t, first, second)
	})
}

func TestEngine_ApplyUIUpdate_Patch(t *testing.T) {
	e := testEngine()

	t.Run("shallow merge leaves other props and children alone", func(t *testing.T) {
		tree := decodeTree(t, map[string]any{
			"type": "button", "id": "btn1", "label": "Go", "action_id": "go",
		})
		upd := message.NewPatch("btn1", map[string]any{"disabled": true})
		res, err := e.ApplyUIUpdate(tree, upd)
		require.NoError(t, err)
		assert.Equal(t, StatusApplied, res.Status)

		node, _ := tree.Node("btn1")
		assert.Equal(t, true, node.Props["disabled"])
		assert.Equal(t, "Go", node.Props["label"])
	})

	t.Run("identity and structure fields are ignored", func(t *testing.T) {
		tree := decodeTree(t, map[string]any{
			"type": "stack", "id": "s", "direction": "vertical",
			"children": []any{map[string]any{"type": "text", "id": "t1", "content": "x"}},
		})
		upd := message.NewPatch("s", map[string]any{
			"id": "hijack", "type": "text", "children": []any{}, "gap": float64(2),
		})
		res, err := e.ApplyUIUpdate(tree, upd)
		require.NoError(t, err)
		assert.Equal(t, StatusApplied, res.Status)

		node, _ := tree.Node("s")
		assert.Equal(t, component.KindStack, node.Kind)
		assert.Equal(t, []string{"t1"}, node.Children)
		assert.Equal(t, float64(2), node.Props["gap"])
		_, hasID := node.Props["id"]
		assert.False(t, hasID)
	})

	t.Run("missing target is a noop", func(t *testing.T) {
		tree := decodeTree(t, map[string]any{"type": "text", "id": "root", "content": "x"})
		res, err := e.ApplyUIUpdate(tree, message.NewPatch("ghost", map[string]any{"a": 1}))
		require.NoError(t, err)
		assert.Equal(t, StatusNoop, res.Status)
	})
}

func TestEngine_ApplyUIUpdate_Append(t *testing.T) {
	e := testEngine()

	t.Run("append is not idempotent", func(t *testing.T) {
		tree := decodeTree(t, map[string]any{"type": "stack", "id": "list1", "direction": "vertical"})
		upd := message.NewAppend("list1", map[string]any{"type": "text", "id": "t9", "content": "x"})

		for i := 0; i < 2; i++ {
			res, err := e.ApplyUIUpdate(tree, upd)
			require.NoError(t, err)
			assert.Equal(t, StatusApplied, res.Status)
		}

		node, _ := tree.Node("list1")
		assert.Equal(t, []string{"t9", "t9"}, node.Children)

		out, ok := tree.Materialize("list1")
		require.True(t, ok)
		kids, _ := out["children"].([]any)
		require.Len(t, kids, 2)
		for _, kid := range kids {
			assert.Equal(t, "x", kid.(map[string]any)["content"])
		}
	})

	t.Run("non-container target is a noop", func(t *testing.T) {
		tree := decodeTree(t, map[string]any{"type": "text", "id": "t1", "content": "x"})
		res, err := e.ApplyUIUpdate(tree, message.NewAppend("t1", map[string]any{"type": "text", "content": "y"}))
		require.NoError(t, err)
		assert.Equal(t, StatusNoop, res.Status)
		assert.Equal(t, "target not a container", res.Reason)
	})

	t.Run("missing target is a noop", func(t *testing.T) {
		tree := decodeTree(t, map[string]any{"type": "stack", "id": "s", "direction": "vertical"})
		res, err := e.ApplyUIUpdate(tree, message.NewAppend("ghost", map[string]any{"type": "text", "content": "y"}))
		require.NoError(t, err)
		assert.Equal(t, StatusNoop, res.Status)
	})
}

func TestEngine_ApplyUIUpdate_Remove(t *testing.T) {
	e := testEngine()

	newTree := func(t *testing.T) *component.Tree {
		return decodeTree(t, map[string]any{
			"type": "stack", "id": "root", "direction": "vertical",
			"children": []any{
				map[string]any{"type": "text", "id": "t1", "content": "one"},
				map[string]any{"type": "text", "id": "t2", "content": "two"},
			},
		})
	}

	t.Run("detaches and deletes the target", func(t *testing.T) {
		tree := newTree(t)
		res, err := e.ApplyUIUpdate(tree, message.NewRemove("t1"))
		require.NoError(t, err)
		assert.Equal(t, StatusApplied, res.Status)

		_, exists := tree.Node("t1")
		assert.False(t, exists)
		node, _ := tree.Node("root")
		assert.Equal(t, []string{"t2"}, node.Children)
	})

	t.Run("removing the root is rejected as a noop", func(t *testing.T) {
		tree := newTree(t)
		res, err := e.ApplyUIUpdate(tree, message.NewRemove("root"))
		require.NoError(t, err)
		assert.Equal(t, StatusNoop, res.Status)
		assert.Equal(t, "root removal rejected", res.Reason)
		_, exists := tree.Node("root")
		assert.True(t, exists)
	})

	t.Run("missing target is a noop, and reapply stays a noop", func(t *testing.T) {
		tree := newTree(t)
		_, err := e.ApplyUIUpdate(tree, message.NewRemove("t2"))
		require.NoError(t, err)

		res, err := e.ApplyUIUpdate(tree, message.NewRemove("t2"))
		require.NoError(t, err)
		assert.Equal(t, StatusNoop, res.Status)
	})
}

func TestEngine_ValidateMessage(t *testing.T) {
	e := testEngine()

	t.Run("valid create with warnings", func(t *testing.T) {
		msg := message.NewCreateSurface("main", map[string]any{
			"type": "button", "id": "b",
		}, nil)
		result, err := e.ValidateMessage(msg)
		require.NoError(t, err)
		assert.True(t, result.Valid)
		assert.NotEmpty(t, result.Warnings)
	})

	t.Run("structurally invalid message", func(t *testing.T) {
		result, err := e.ValidateMessage(&message.Message{Type: message.TypeCreateSurface})
		require.Error(t, err)
		assert.False(t, result.Valid)
	})

	t.Run("nothing is applied", func(t *testing.T) {
		set := mapSet{}
		msg := message.NewCreateSurface("main", nil, nil)
		_, err := e.ValidateMessage(msg)
		require.NoError(t, err)
		_, ok := set.Surface("main")
		assert.False(t, ok)
	})
}

func TestEngine_ValidateUpdate(t *testing.T) {
	e := testEngine()

	result, err := e.ValidateUpdate(message.NewAppend("list1", map[string]any{"type": "slider", "id": "s"}))
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.NotEmpty(t, result.Warnings)

	result, err = e.ValidateUpdate(&message.UIUpdate{Operation: message.OpReplace})
	require.Error(t, err)
	assert.False(t, result.Valid)
}
