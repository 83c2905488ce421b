package binding

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/surfacekit/errors"
)

func TestRegistry_Register(t *testing.T) {
	t.Run("registered function is returned by lookup", func(t *testing.T) {
		reg := NewRegistry()
		err := reg.Register("upper", func(args []any) (any, error) {
			return "UP", nil
		})
		require.NoError(t, err)

		fn, ok := reg.Lookup("upper")
		require.True(t, ok)
		out, err := fn(nil)
		require.NoError(t, err)
		assert.Equal(t, "UP", out)
	})

	t.Run("later registration wins", func(t *testing.T) {
		reg := NewRegistry()
		require.NoError(t, reg.Register("f", func([]any) (any, error) { return 1, nil }))
		require.NoError(t, reg.Register("f", func([]any) (any, error) { return 2, nil }))

		fn, ok := reg.Lookup("f")
		require.True(t, ok)
		out, _ := fn(nil)
		assert.Equal(t, 2, out)
	})

	t.Run("empty name is rejected", func(t *testing.T) {
		reg := NewRegistry()
		err := reg.Register("", func([]any) (any, error) { return nil, nil })
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrInvalidConfig)
		assert.True(t, errors.IsInvalid(err))
	})

	t.Run("nil function is rejected", func(t *testing.T) {
		reg := NewRegistry()
		err := reg.Register("f", nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrInvalidConfig)
	})

	t.Run("nil registry has no entries", func(t *testing.T) {
		var reg *Registry
		_, ok := reg.Lookup("now")
		assert.False(t, ok)
		assert.Nil(t, reg.Names())
	})
}

func TestRegistry_Names(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register("zeta", func([]any) (any, error) { return nil, nil }))
	require.NoError(t, reg.Register("alpha", func([]any) (any, error) { return nil, nil }))

	assert.Equal(t, []string{"alpha", "zeta"}, reg.Names())
	assert.Equal(t, []string{"add", "concat", "format", "now"}, BuiltinNames())
}

func TestBuiltin_Now(t *testing.T) {
	before := time.Now().UnixMilli()
	out, err := builtinNow(nil)
	require.NoError(t, err)

	ms, ok := out.(int64)
	require.True(t, ok)
	assert.GreaterOrEqual(t, ms, before)

	_, err = builtinNow([]any{"extra"})
	assert.Error(t, err)
}

func TestBuiltin_Concat(t *testing.T) {
	out, err := builtinConcat([]any{"a", float64(1), true, nil})
	require.NoError(t, err)
	assert.Equal(t, "a1true", out)

	out, err = builtinConcat(nil)
	require.NoError(t, err)
	assert.Equal(t, "", out)
}

func TestBuiltin_Add(t *testing.T) {
	out, err := builtinAdd([]any{float64(1), float64(2), 0.5})
	require.NoError(t, err)
	assert.Equal(t, 3.5, out)

	out, err = builtinAdd(nil)
	require.NoError(t, err)
	assert.Equal(t, float64(0), out)

	_, err = builtinAdd([]any{float64(1), "two"})
	assert.Error(t, err)
}

func TestBuiltin_Format(t *testing.T) {
	t.Run("substitutes placeholders in order", func(t *testing.T) {
		out, err := builtinFormat([]any{"{} scored {} pts", "Ann", float64(12)})
		require.NoError(t, err)
		assert.Equal(t, "Ann scored 12 pts", out)
	})

	t.Run("surplus placeholders stay verbatim", func(t *testing.T) {
		out, err := builtinFormat([]any{"{} and {}", "one"})
		require.NoError(t, err)
		assert.Equal(t, "one and {}", out)
	})

	t.Run("surplus arguments are ignored", func(t *testing.T) {
		out, err := builtinFormat([]any{"{}", "a", "b"})
		require.NoError(t, err)
		assert.Equal(t, "a", out)
	})

	t.Run("pattern is required", func(t *testing.T) {
		_, err := builtinFormat(nil)
		assert.Error(t, err)

		_, err = builtinFormat([]any{float64(1)})
		assert.Error(t, err)
	})
}

func TestStringify(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil is empty", nil, ""},
		{"string passes through", "x", "x"},
		{"bool", true, "true"},
		{"whole float has no decimal point", float64(3), "3"},
		{"fraction keeps digits", 0.5, "0.5"},
		{"large float has no exponent", float64(1200000), "1200000"},
		{"int64", int64(-7), "-7"},
		{"map renders compact json", map[string]any{"a": float64(1)}, `{"a":1}`},
		{"array renders compact json", []any{float64(1), "b"}, `[1,"b"]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Stringify(tt.in))
		})
	}
}
