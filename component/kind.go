package component

// Kind identifies a component variant by its wire type tag.
type Kind string

// Atom kinds render a single piece of content.
const (
	KindText   Kind = "text"
	KindButton Kind = "button"
	KindIcon   Kind = "icon"
	KindImage  Kind = "image"
	KindBadge  Kind = "badge"
)

// Input kinds collect values from the user.
const (
	KindTextInput   Kind = "text_input"
	KindNumberInput Kind = "number_input"
	KindSelect      Kind = "select"
	KindMultiSelect Kind = "multi_select"
	KindSwitch      Kind = "switch"
	KindDateInput   Kind = "date_input"
	KindSlider      Kind = "slider"
	KindTextarea    Kind = "textarea"
)

// Layout kinds arrange child components.
const (
	KindStack     Kind = "stack"
	KindGrid      Kind = "grid"
	KindCard      Kind = "card"
	KindContainer Kind = "container"
	KindDivider   Kind = "divider"
	KindTabs      Kind = "tabs"
)

// Data display kinds present structured values.
const (
	KindTable     Kind = "table"
	KindList      Kind = "list"
	KindKeyValue  Kind = "key_value"
	KindCodeBlock Kind = "code_block"
)

// Visualization kinds.
const (
	KindChart Kind = "chart"
)

// Feedback kinds communicate state to the user.
const (
	KindAlert    Kind = "alert"
	KindProgress Kind = "progress"
	KindToast    Kind = "toast"
	KindModal    Kind = "modal"
	KindSpinner  Kind = "spinner"
	KindSkeleton Kind = "skeleton"
)

func (k Kind) String() string {
	return string(k)
}

// Category groups kinds for discovery and documentation.
type Category string

const (
	CategoryAtom          Category = "atom"
	CategoryInput         Category = "input"
	CategoryLayout        Category = "layout"
	CategoryData          Category = "data"
	CategoryVisualization Category = "visualization"
	CategoryFeedback      Category = "feedback"
)
