package component

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/surfacekit/errors"
)

func TestCatalog_Register(t *testing.T) {
	t.Run("registers a custom kind", func(t *testing.T) {
		cat := NewCatalog()
		err := cat.Register(Registration{
			Kind:        "gauge",
			Category:    CategoryVisualization,
			Description: "radial gauge",
			Schema:      `{"type":"object","required":["value"]}`,
		})
		require.NoError(t, err)
		assert.True(t, cat.Has("gauge"))
	})

	t.Run("rejects duplicates", func(t *testing.T) {
		cat := NewCatalog()
		require.NoError(t, cat.Register(Registration{Kind: "gauge", Category: CategoryVisualization}))
		err := cat.Register(Registration{Kind: "gauge", Category: CategoryVisualization})
		require.Error(t, err)
		assert.True(t, errors.IsInvalid(err))
	})

	t.Run("rejects an empty kind", func(t *testing.T) {
		cat := NewCatalog()
		err := cat.Register(Registration{Category: CategoryAtom})
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrInvalidConfig)
	})

	t.Run("rejects a schema that does not compile", func(t *testing.T) {
		cat := NewCatalog()
		err := cat.Register(Registration{Kind: "broken", Schema: `{"type":`})
		require.Error(t, err)
		assert.True(t, errors.IsInvalid(err))
	})
}

func TestCatalog_Lookups(t *testing.T) {
	cat := DefaultCatalog()

	t.Run("container flags", func(t *testing.T) {
		assert.True(t, cat.IsContainer(KindStack))
		assert.True(t, cat.IsContainer(KindCard))
		assert.True(t, cat.IsContainer(KindModal))
		assert.False(t, cat.IsContainer(KindText))
		assert.False(t, cat.IsContainer(KindList), "list holds strings, not components")
		assert.False(t, cat.IsContainer("unknown"))
	})

	t.Run("child slots", func(t *testing.T) {
		props, group := cat.ChildSlots(KindCard)
		assert.Equal(t, []string{"content", "footer"}, props)
		assert.Empty(t, group)

		props, group = cat.ChildSlots(KindTabs)
		assert.Empty(t, props)
		assert.Equal(t, "tabs", group)

		props, group = cat.ChildSlots("unknown")
		assert.Nil(t, props)
		assert.Empty(t, group)
	})

	t.Run("get returns a copy", func(t *testing.T) {
		reg, exists := cat.Get(KindCard)
		require.True(t, exists)
		reg.ChildProps[0] = "mutated"

		fresh, _ := cat.Get(KindCard)
		assert.Equal(t, "content", fresh.ChildProps[0])
	})
}

func TestCatalog_ValidateProps(t *testing.T) {
	cat := DefaultCatalog()

	t.Run("flags missing required props", func(t *testing.T) {
		verrs, err := cat.ValidateProps(KindButton, map[string]any{"label": "OK"})
		require.NoError(t, err)
		require.Len(t, verrs, 1)
		assert.Equal(t, "required", verrs[0].Code)
	})

	t.Run("accepts a complete property bag", func(t *testing.T) {
		verrs, err := cat.ValidateProps(KindSlider, map[string]any{
			"name": "vol", "label": "Volume", "min": 0, "max": 100,
		})
		require.NoError(t, err)
		assert.Empty(t, verrs)
	})

	t.Run("binding expressions pass as scalar values", func(t *testing.T) {
		verrs, err := cat.ValidateProps(KindText, map[string]any{"content": "${/name}"})
		require.NoError(t, err)
		assert.Empty(t, verrs)
	})

	t.Run("unknown kind is an error", func(t *testing.T) {
		_, err := cat.ValidateProps("blink", nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrUnknownKind)
	})
}

func TestDefaultCatalog_Coverage(t *testing.T) {
	cat := DefaultCatalog()
	kinds := cat.Kinds()
	assert.Len(t, kinds, 30)

	for _, kind := range []Kind{
		KindText, KindButton, KindIcon, KindImage, KindBadge,
		KindTextInput, KindNumberInput, KindSelect, KindMultiSelect,
		KindSwitch, KindDateInput, KindSlider, KindTextarea,
		KindStack, KindGrid, KindCard, KindContainer, KindDivider, KindTabs,
		KindTable, KindList, KindKeyValue, KindCodeBlock, KindChart,
		KindAlert, KindProgress, KindToast, KindModal, KindSpinner, KindSkeleton,
	} {
		assert.True(t, cat.Has(kind), "missing builtin kind %q", kind)
	}
}
