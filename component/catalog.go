package component

import (
	"fmt"
	"sort"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/c360/surfacekit/errors"
)

// ValidationError represents a validation error for a specific component
// property. It provides structured error information that can be displayed
// to users and mapped to specific fields in a property editor.
type ValidationError struct {
	Field   string `json:"field"`   // Name of the property that failed validation
	Message string `json:"message"` // Human-readable error message
	Code    string `json:"code"`    // Machine-readable error code (required, invalid_type, ...)
}

// Registration holds metadata for a component kind.
type Registration struct {
	Kind        Kind     `json:"kind"`
	Category    Category `json:"category"`
	Container   bool     `json:"container"`             // kind accepts child components
	ChildProps  []string `json:"childProps,omitempty"`  // props holding component arrays besides "children"
	GroupProp   string   `json:"groupProp,omitempty"`   // prop holding grouped children, each group with a "content" array
	Description string   `json:"description"`
	Schema      string   `json:"schema,omitempty"` // JSON schema for the flat property bag

	compiled *gojsonschema.Schema
}

// Catalog manages the known component kinds. It is safe for concurrent use.
// Hosts may register additional kinds beyond the default set.
type Catalog struct {
	mu      sync.RWMutex
	entries map[Kind]*Registration
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{entries: make(map[Kind]*Registration)}
}

// Register adds a component kind to the catalog.
// Returns an error if the kind is empty, already registered, or its schema
// does not compile.
func (c *Catalog) Register(reg Registration) error {
	if reg.Kind == "" {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Catalog", "Register", "kind validation")
	}

	if reg.Schema != "" {
		compiled, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(reg.Schema))
		if err != nil {
			return errors.WrapInvalid(err, "Catalog", "Register",
				fmt.Sprintf("compile schema for kind %q", reg.Kind))
		}
		reg.compiled = compiled
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[reg.Kind]; exists {
		return errors.WrapInvalid(
			fmt.Errorf("kind %q is already registered", reg.Kind),
			"Catalog", "Register", "duplicate kind check")
	}

	c.entries[reg.Kind] = &reg
	return nil
}

// Get returns the registration for a kind.
func (c *Catalog) Get(kind Kind) (Registration, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	reg, exists := c.entries[kind]
	if !exists {
		return Registration{}, false
	}
	out := *reg
	out.ChildProps = append([]string(nil), reg.ChildProps...)
	return out, true
}

// Has reports whether the kind is registered.
func (c *Catalog) Has(kind Kind) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, exists := c.entries[kind]
	return exists
}

// IsContainer reports whether the kind accepts child components.
// Unknown kinds are not containers.
func (c *Catalog) IsContainer(kind Kind) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	reg, exists := c.entries[kind]
	return exists && reg.Container
}

// ChildSlots returns the named child-bearing props for a kind besides the
// canonical "children" slot, and the group prop if the kind nests children
// inside grouped items.
func (c *Catalog) ChildSlots(kind Kind) (props []string, group string) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	reg, exists := c.entries[kind]
	if !exists {
		return nil, ""
	}
	return append([]string(nil), reg.ChildProps...), reg.GroupProp
}

// Kinds returns all registered kinds in sorted order.
func (c *Catalog) Kinds() []Kind {
	c.mu.RLock()
	defer c.mu.RUnlock()

	kinds := make([]Kind, 0, len(c.entries))
	for kind := range c.entries {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// ValidateProps validates a flat component property bag against the kind's
// schema. Validation is lenient: unknown props are allowed, and prop values
// are left largely unconstrained because any scalar may arrive as a binding
// or template expression. Returns errors.ErrUnknownKind for unregistered
// kinds.
func (c *Catalog) ValidateProps(kind Kind, props map[string]any) ([]ValidationError, error) {
	c.mu.RLock()
	reg, exists := c.entries[kind]
	c.mu.RUnlock()

	if !exists {
		return nil, errors.WrapInvalid(
			fmt.Errorf("kind %q: %w", kind, errors.ErrUnknownKind),
			"Catalog", "ValidateProps", "kind lookup")
	}
	if reg.compiled == nil {
		return nil, nil
	}

	if props == nil {
		props = map[string]any{}
	}
	result, err := reg.compiled.Validate(gojsonschema.NewGoLoader(props))
	if err != nil {
		return nil, errors.WrapInvalid(err, "Catalog", "ValidateProps", "schema validation")
	}

	if result.Valid() {
		return nil, nil
	}

	verrs := make([]ValidationError, 0, len(result.Errors()))
	for _, re := range result.Errors() {
		verrs = append(verrs, ValidationError{
			Field:   re.Field(),
			Message: re.Description(),
			Code:    re.Type(),
		})
	}
	return verrs, nil
}

var (
	defaultCatalogOnce sync.Once
	defaultCatalog     *Catalog
)

// DefaultCatalog returns the shared catalog holding the full built-in kind
// set. The catalog is built once; registration errors in the built-in set
// are programming errors and panic.
func DefaultCatalog() *Catalog {
	defaultCatalogOnce.Do(func() {
		defaultCatalog = NewCatalog()
		for _, reg := range builtinRegistrations() {
			if err := defaultCatalog.Register(reg); err != nil {
				panic(fmt.Sprintf("component: register builtin kind %q: %v", reg.Kind, err))
			}
		}
	})
	return defaultCatalog
}

// builtinRegistrations returns the full built-in kind set. Schemas constrain
// required props and structural arrays only; scalar values stay open because
// bindings and templates may stand in for any literal.
func builtinRegistrations() []Registration {
	return []Registration{
		// Atoms
		{
			Kind: KindText, Category: CategoryAtom,
			Description: "Styled text span with heading, body, caption and code variants",
			Schema:      `{"type":"object","required":["content"]}`,
		},
		{
			Kind: KindButton, Category: CategoryAtom,
			Description: "Clickable button that emits a button_click event with its action id",
			Schema:      `{"type":"object","required":["label","action_id"]}`,
		},
		{
			Kind: KindIcon, Category: CategoryAtom,
			Description: "Named icon glyph",
			Schema:      `{"type":"object","required":["name"]}`,
		},
		{
			Kind: KindImage, Category: CategoryAtom,
			Description: "Image with source URL and alt text",
			Schema:      `{"type":"object","required":["src"]}`,
		},
		{
			Kind: KindBadge, Category: CategoryAtom,
			Description: "Small status label",
			Schema:      `{"type":"object","required":["label"]}`,
		},

		// Inputs
		{
			Kind: KindTextInput, Category: CategoryInput,
			Description: "Single-line text field, emits input_change events",
			Schema:      `{"type":"object","required":["name","label"]}`,
		},
		{
			Kind: KindNumberInput, Category: CategoryInput,
			Description: "Numeric field with optional min/max/step",
			Schema:      `{"type":"object","required":["name","label"]}`,
		},
		{
			Kind: KindSelect, Category: CategoryInput,
			Description: "Single-choice dropdown",
			Schema:      `{"type":"object","required":["name","label","options"],"properties":{"options":{"type":"array"}}}`,
		},
		{
			Kind: KindMultiSelect, Category: CategoryInput,
			Description: "Multi-choice dropdown",
			Schema:      `{"type":"object","required":["name","label","options"],"properties":{"options":{"type":"array"}}}`,
		},
		{
			Kind: KindSwitch, Category: CategoryInput,
			Description: "Boolean toggle",
			Schema:      `{"type":"object","required":["name","label"]}`,
		},
		{
			Kind: KindDateInput, Category: CategoryInput,
			Description: "Date picker field",
			Schema:      `{"type":"object","required":["name","label"]}`,
		},
		{
			Kind: KindSlider, Category: CategoryInput,
			Description: "Bounded numeric slider",
			Schema:      `{"type":"object","required":["name","label","min","max"]}`,
		},
		{
			Kind: KindTextarea, Category: CategoryInput,
			Description: "Multi-line text field",
			Schema:      `{"type":"object","required":["name","label"]}`,
		},

		// Layouts
		{
			Kind: KindStack, Category: CategoryLayout, Container: true,
			Description: "Horizontal or vertical sequence of children",
			Schema:      `{"type":"object","required":["direction"]}`,
		},
		{
			Kind: KindGrid, Category: CategoryLayout, Container: true,
			Description: "Column grid of children",
			Schema:      `{"type":"object","required":["columns"]}`,
		},
		{
			Kind: KindCard, Category: CategoryLayout, Container: true,
			ChildProps:  []string{"content", "footer"},
			Description: "Titled panel with content and footer slots",
			Schema:      `{"type":"object"}`,
		},
		{
			Kind: KindContainer, Category: CategoryLayout, Container: true,
			Description: "Plain padded wrapper around children",
			Schema:      `{"type":"object"}`,
		},
		{
			Kind: KindDivider, Category: CategoryLayout,
			Description: "Horizontal rule",
			Schema:      `{"type":"object"}`,
		},
		{
			Kind: KindTabs, Category: CategoryLayout, Container: true,
			GroupProp:   "tabs",
			Description: "Tab strip; each tab groups its own content components",
			Schema:      `{"type":"object","required":["tabs"],"properties":{"tabs":{"type":"array"}}}`,
		},

		// Data display
		{
			Kind: KindTable, Category: CategoryData,
			Description: "Column-defined data table",
			Schema:      `{"type":"object","required":["columns","data"],"properties":{"columns":{"type":"array"},"data":{"type":"array"}}}`,
		},
		{
			Kind: KindList, Category: CategoryData,
			Description: "Ordered or unordered list of string items",
			Schema:      `{"type":"object","required":["items"]}`,
		},
		{
			Kind: KindKeyValue, Category: CategoryData,
			Description: "Key/value pair listing",
			Schema:      `{"type":"object","required":["pairs"]}`,
		},
		{
			Kind: KindCodeBlock, Category: CategoryData,
			Description: "Preformatted code with optional language",
			Schema:      `{"type":"object","required":["code"]}`,
		},

		// Visualizations
		{
			Kind: KindChart, Category: CategoryVisualization,
			Description: "Bar, line, area or pie chart over row data",
			Schema:      `{"type":"object","required":["kind","data","x_key","y_keys"],"properties":{"data":{"type":"array"},"y_keys":{"type":"array"}}}`,
		},

		// Feedback
		{
			Kind: KindAlert, Category: CategoryFeedback,
			Description: "Inline callout with severity variant",
			Schema:      `{"type":"object","required":["title"]}`,
		},
		{
			Kind: KindProgress, Category: CategoryFeedback,
			Description: "Progress bar, value 0-100",
			Schema:      `{"type":"object","required":["value"]}`,
		},
		{
			Kind: KindToast, Category: CategoryFeedback,
			Description: "Transient notification",
			Schema:      `{"type":"object","required":["message"]}`,
		},
		{
			Kind: KindModal, Category: CategoryFeedback, Container: true,
			ChildProps:  []string{"content", "footer"},
			Description: "Dialog with content and footer slots",
			Schema:      `{"type":"object","required":["title"]}`,
		},
		{
			Kind: KindSpinner, Category: CategoryFeedback,
			Description: "Loading indicator",
			Schema:      `{"type":"object"}`,
		},
		{
			Kind: KindSkeleton, Category: CategoryFeedback,
			Description: "Loading placeholder block",
			Schema:      `{"type":"object"}`,
		},
	}
}
