package binding

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/c360/surfacekit/errors"
	"github.com/c360/surfacekit/pkg/timestamp"
)

// Func is a named callable available to templates and function-call values.
// Arguments arrive fully resolved. Implementations must be pure: no
// mutation of arguments and no writes to any data model.
type Func func(args []any) (any, error)

// Registry holds caller-supplied functions. Resolution consults the
// registry first and falls back to the built-in set, so registering a
// built-in name shadows it for that registry only.
type Registry struct {
	mu    sync.RWMutex
	funcs map[string]Func
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{funcs: make(map[string]Func)}
}

// Register adds or replaces a named function. Later registrations win.
func (r *Registry) Register(name string, fn Func) error {
	if name == "" {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "binding", "Register", "function name check")
	}
	if fn == nil {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "binding", "Register", "function body check")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.funcs[name] = fn
	return nil
}

// Lookup returns the function registered under name. A nil registry
// has no entries.
func (r *Registry) Lookup(name string) (Func, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.funcs[name]
	return fn, ok
}

// Names lists registered function names in sorted order. Built-ins are
// not included; see BuiltinNames.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BuiltinNames lists the default function set in sorted order.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// builtins is a constant default set merged under caller registrations
// at lookup time. It is never handed out, so callers cannot mutate it.
var builtins = map[string]Func{
	"now":    builtinNow,
	"concat": builtinConcat,
	"add":    builtinAdd,
	"format": builtinFormat,
}

func builtinNow(args []any) (any, error) {
	if len(args) != 0 {
		return nil, fmt.Errorf("now: expected no arguments, got %d", len(args))
	}
	return timestamp.Now(), nil
}

func builtinConcat(args []any) (any, error) {
	var b strings.Builder
	for _, arg := range args {
		b.WriteString(Stringify(arg))
	}
	return b.String(), nil
}

func builtinAdd(args []any) (any, error) {
	var sum float64
	for i, arg := range args {
		n, ok := asNumber(arg)
		if !ok {
			return nil, fmt.Errorf("add: argument %d is not numeric", i)
		}
		sum += n
	}
	return sum, nil
}

// builtinFormat substitutes each {} placeholder in the pattern with the
// next argument. Placeholders beyond the argument list stay verbatim,
// surplus arguments are ignored.
func builtinFormat(args []any) (any, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("format: pattern argument required")
	}
	pattern, ok := args[0].(string)
	if !ok {
		return nil, fmt.Errorf("format: pattern must be a string")
	}
	rest := args[1:]
	var b strings.Builder
	for {
		idx := strings.Index(pattern, "{}")
		if idx < 0 || len(rest) == 0 {
			b.WriteString(pattern)
			return b.String(), nil
		}
		b.WriteString(pattern[:idx])
		b.WriteString(Stringify(rest[0]))
		rest = rest[1:]
		pattern = pattern[idx+2:]
	}
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// Stringify renders a resolved value for embedding in template output.
// Nil renders empty, numbers render without an exponent, and composite
// values render as compact JSON.
func Stringify(v any) string {
	switch tv := v.(type) {
	case nil:
		return ""
	case string:
		return tv
	case bool:
		return strconv.FormatBool(tv)
	case float64:
		return strconv.FormatFloat(tv, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(tv), 'f', -1, 32)
	case int:
		return strconv.Itoa(tv)
	case int64:
		return strconv.FormatInt(tv, 10)
	default:
		raw, err := json.Marshal(tv)
		if err != nil {
			return fmt.Sprintf("%v", tv)
		}
		return string(raw)
	}
}
