package binding

import (
	"strconv"
	"strings"

	"github.com/c360/surfacekit/component"
	"github.com/c360/surfacekit/datamodel"
)

// Context bundles what one resolution pass may consult: the owning
// surface's data model and the effective function registry. Resolution
// only reads the model; a Func that writes back would break the
// single-frame determinism the store relies on.
type Context struct {
	Data      *datamodel.Model
	Functions *Registry
}

func (c Context) lookupFunc(name string) (Func, bool) {
	if fn, ok := c.Functions.Lookup(name); ok {
		return fn, true
	}
	fn, ok := builtins[name]
	return fn, ok
}

// path reads one data model path. Missing paths resolve to nil rather
// than an error so a half-populated model still renders.
func (c Context) path(path string) any {
	if c.Data == nil {
		return nil
	}
	v, ok := c.Data.GetPath(path)
	if !ok {
		return nil
	}
	return v
}

// ResolveValue resolves one property value against ctx. Data bindings
// collapse to the value at their path, function calls to their result,
// strings go through template substitution, and containers resolve
// element-wise. A template that is exactly one ${...} span keeps the
// resolved value's type instead of stringifying it.
func ResolveValue(value any, ctx Context) any {
	switch v := value.(type) {
	case map[string]any:
		if path, ok := bindingPath(v); ok {
			return ctx.path(path)
		}
		if name, args, ok := functionCall(v); ok {
			return applyCall(name, resolveArgs(args, ctx), ctx)
		}
		out := make(map[string]any, len(v))
		for key, elem := range v {
			out[key] = ResolveValue(elem, ctx)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, elem := range v {
			out[i] = ResolveValue(elem, ctx)
		}
		return out
	case string:
		return resolveTemplate(v, ctx)
	default:
		return value
	}
}

// ResolveString substitutes every ${...} span in template and returns
// the result as a string regardless of the span values' types.
func ResolveString(template string, ctx Context) string {
	return substitute(template, ctx)
}

// bindingPath reports whether v is a data binding, an object whose
// only key is "path".
func bindingPath(v map[string]any) (string, bool) {
	if len(v) != 1 {
		return "", false
	}
	path, ok := v["path"].(string)
	return path, ok
}

// functionCall reports whether v is a function call object: a
// "function" name plus an optional "args" array and nothing else.
func functionCall(v map[string]any) (string, []any, bool) {
	name, ok := v["function"].(string)
	if !ok || name == "" {
		return "", nil, false
	}
	for key := range v {
		if key != "function" && key != "args" {
			return "", nil, false
		}
	}
	args, _ := v["args"].([]any)
	return name, args, true
}

func resolveArgs(raw []any, ctx Context) []any {
	args := make([]any, len(raw))
	for i, arg := range raw {
		args[i] = ResolveValue(arg, ctx)
	}
	return args
}

// applyCall invokes a named function over already-resolved arguments.
// An unknown name or a failed invocation degrades to the reconstructed
// call text so the problem is visible in output instead of fatal.
func applyCall(name string, args []any, ctx Context) any {
	fn, ok := ctx.lookupFunc(name)
	if !ok {
		return callText(name, args)
	}
	out, err := fn(args)
	if err != nil {
		return callText(name, args)
	}
	return out
}

func callText(name string, args []any) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		if s, ok := arg.(string); ok {
			parts[i] = strconv.Quote(s)
			continue
		}
		parts[i] = Stringify(arg)
	}
	return name + "(" + strings.Join(parts, ", ") + ")"
}

// resolveTemplate evaluates a string property. A template that is a
// single span returns the typed span value; anything else returns the
// substituted string.
func resolveTemplate(template string, ctx Context) any {
	if strings.HasPrefix(template, "${") {
		if end := spanEnd(template, 2); end == len(template)-1 {
			if v, ok := evalSpan(template[2:end], ctx); ok {
				return v
			}
			return template
		}
	}
	return substitute(template, ctx)
}

func substitute(template string, ctx Context) string {
	var b strings.Builder
	rest := template
	for {
		idx := strings.Index(rest, "${")
		if idx < 0 {
			b.WriteString(rest)
			return b.String()
		}
		b.WriteString(rest[:idx])
		end := spanEnd(rest, idx+2)
		if end < 0 {
			// unterminated span passes through untouched
			b.WriteString(rest[idx:])
			return b.String()
		}
		if v, ok := evalSpan(rest[idx+2:end], ctx); ok {
			b.WriteString(Stringify(v))
		} else {
			b.WriteString(rest[idx : end+1])
		}
		rest = rest[end+1:]
	}
}

// spanEnd finds the closing brace of a span opened at start, skipping
// braces inside double-quoted argument strings.
func spanEnd(s string, start int) int {
	inString := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch c {
			case '\\':
				i++
			case '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '}':
			return i
		}
	}
	return -1
}

// evalSpan evaluates one ${...} span body. Call syntax routes through
// the registry; everything else is a data model path. The second
// return is false when the span must stay verbatim in the output,
// which happens for unknown functions and failed invocations.
func evalSpan(content string, ctx Context) (any, bool) {
	expr := strings.TrimSpace(content)
	if expr == "" {
		return nil, true
	}
	if call, ok := parseCall(expr); ok {
		args := evalArgs(call.args, ctx)
		fn, known := ctx.lookupFunc(call.name)
		if !known {
			return nil, false
		}
		out, err := fn(args)
		if err != nil {
			return nil, false
		}
		return out, true
	}
	return ctx.path(expr), true
}

// Parsed span arguments. A literal stays as its Go value; paths and
// nested calls evaluate lazily against the context.
type pathExpr struct{ path string }

type callExpr struct {
	name string
	args []any
}

func evalArgs(args []any, ctx Context) []any {
	out := make([]any, len(args))
	for i, arg := range args {
		out[i] = evalArg(arg, ctx)
	}
	return out
}

func evalArg(arg any, ctx Context) any {
	switch a := arg.(type) {
	case pathExpr:
		return ctx.path(a.path)
	case callExpr:
		return applyCall(a.name, evalArgs(a.args, ctx), ctx)
	default:
		return a
	}
}

// parseCall accepts ident(arg, ...) with the whole expression consumed.
func parseCall(expr string) (callExpr, bool) {
	p := &spanParser{src: expr}
	call, ok := p.call()
	if !ok {
		return callExpr{}, false
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return callExpr{}, false
	}
	return call, true
}

// spanParser is a minimal recursive-descent parser for span call
// syntax: double-quoted strings, JSON numbers, true/false/null,
// /slash/paths, and nested calls.
type spanParser struct {
	src string
	pos int
}

func (p *spanParser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *spanParser) call() (callExpr, bool) {
	p.skipSpace()
	name := p.ident()
	if name == "" {
		return callExpr{}, false
	}
	p.skipSpace()
	if p.pos >= len(p.src) || p.src[p.pos] != '(' {
		return callExpr{}, false
	}
	p.pos++
	call := callExpr{name: name}
	p.skipSpace()
	if p.pos < len(p.src) && p.src[p.pos] == ')' {
		p.pos++
		return call, true
	}
	for {
		arg, ok := p.arg()
		if !ok {
			return callExpr{}, false
		}
		call.args = append(call.args, arg)
		p.skipSpace()
		if p.pos >= len(p.src) {
			return callExpr{}, false
		}
		switch p.src[p.pos] {
		case ',':
			p.pos++
		case ')':
			p.pos++
			return call, true
		default:
			return callExpr{}, false
		}
	}
}

func (p *spanParser) ident() string {
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || p.pos > start && c >= '0' && c <= '9' {
			p.pos++
			continue
		}
		break
	}
	return p.src[start:p.pos]
}

func (p *spanParser) arg() (any, bool) {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return nil, false
	}
	switch c := p.src[p.pos]; {
	case c == '"':
		return p.quoted()
	case c == '/':
		return pathExpr{path: p.path()}, true
	case c == '-' || c >= '0' && c <= '9':
		return p.number()
	default:
		mark := p.pos
		word := p.ident()
		if word == "" {
			return nil, false
		}
		p.skipSpace()
		if p.pos < len(p.src) && p.src[p.pos] == '(' {
			p.pos = mark
			return p.call()
		}
		switch word {
		case "true":
			return true, true
		case "false":
			return false, true
		case "null":
			return nil, true
		default:
			return nil, false
		}
	}
}

func (p *spanParser) quoted() (any, bool) {
	start := p.pos
	p.pos++
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case '\\':
			p.pos += 2
			continue
		case '"':
			p.pos++
			s, err := strconv.Unquote(p.src[start:p.pos])
			if err != nil {
				return nil, false
			}
			return s, true
		}
		p.pos++
	}
	return nil, false
}

// path consumes a /slash/path argument up to the next delimiter.
func (p *spanParser) path() string {
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == ',' || c == ')' || c == ' ' || c == '\t' {
			break
		}
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *spanParser) number() (any, bool) {
	start := p.pos
	if p.src[p.pos] == '-' {
		p.pos++
	}
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c >= '0' && c <= '9' || c == '.' || c == 'e' || c == 'E' || c == '+' || c == '-' {
			p.pos++
			continue
		}
		break
	}
	n, err := strconv.ParseFloat(p.src[start:p.pos], 64)
	if err != nil {
		return nil, false
	}
	return n, true
}

// ResolveComponent materializes the node at id with every binding,
// call, and template in its subtree resolved against ctx. Slot id
// lists become resolved child components in place; unclaimed arena
// children land in the Children field. Dangling child ids are skipped
// and a missing id returns false.
func ResolveComponent(tree *component.Tree, id string, ctx Context) (*component.Resolved, bool) {
	if tree == nil {
		return nil, false
	}
	cr := &componentResolver{tree: tree, ctx: ctx, onPath: make(map[string]bool)}
	return cr.node(id)
}

type componentResolver struct {
	tree   *component.Tree
	ctx    Context
	onPath map[string]bool
}

func (cr *componentResolver) node(id string) (*component.Resolved, bool) {
	node, ok := cr.tree.Node(id)
	if !ok || cr.onPath[id] {
		return nil, false
	}
	cr.onPath[id] = true
	defer delete(cr.onPath, id)

	out := &component.Resolved{
		ID:    node.ID,
		Kind:  node.Kind,
		Props: make(map[string]any, len(node.Props)),
	}
	claimed := make(map[string]bool)
	for key, value := range node.Props {
		out.Props[key] = cr.value(value, claimed)
	}
	for _, childID := range node.Children {
		if claimed[childID] {
			continue
		}
		if child, ok := cr.node(childID); ok {
			out.Children = append(out.Children, child)
		}
	}
	return out, true
}

// value mirrors the tree's materialize walk: []string is a slot id
// list and expands to resolved children, everything else resolves as a
// plain property value.
func (cr *componentResolver) value(value any, claimed map[string]bool) any {
	switch v := value.(type) {
	case []string:
		kids := make([]any, 0, len(v))
		for _, childID := range v {
			claimed[childID] = true
			if child, ok := cr.node(childID); ok {
				kids = append(kids, child)
			}
		}
		return kids
	case map[string]any:
		if path, ok := bindingPath(v); ok {
			return cr.ctx.path(path)
		}
		if name, args, ok := functionCall(v); ok {
			return applyCall(name, resolveArgs(args, cr.ctx), cr.ctx)
		}
		out := make(map[string]any, len(v))
		for key, elem := range v {
			out[key] = cr.value(elem, claimed)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, elem := range v {
			out[i] = cr.value(elem, claimed)
		}
		return out
	case string:
		return resolveTemplate(v, cr.ctx)
	default:
		return value
	}
}
