package protocol

import "strings"

// Protocol names one supported wire dialect. The values are the wire-level
// identifiers inbound payloads declare in their "protocol" field.
type Protocol string

const (
	// ProtocolADKUI is the legacy single-shot payload: one components
	// array, optional theme, no streaming.
	ProtocolADKUI Protocol = "adk_ui"
	// ProtocolA2UI is the native JSONL stream of surface messages.
	ProtocolA2UI Protocol = "a2ui"
	// ProtocolAGUI carries surfaces and interactions as custom events
	// inside an AG-UI run event stream.
	ProtocolAGUI Protocol = "ag_ui"
	// ProtocolMCPApps embeds surface snapshots in MCP resource reads and
	// interactions in MCP tool calls.
	ProtocolMCPApps Protocol = "mcp_apps"
)

// DefaultProtocol is assumed when a host never declares one.
const DefaultProtocol = ProtocolADKUI

// DefaultSurfaceID is the surface legacy single-shot payloads render
// into. Dialects without surface addressing all target this id.
const DefaultSurfaceID = "main"

// String returns the wire name of the protocol.
func (p Protocol) String() string {
	return string(p)
}

// IsSupported reports whether the protocol is one of the known dialects.
func (p Protocol) IsSupported() bool {
	switch p {
	case ProtocolADKUI, ProtocolA2UI, ProtocolAGUI, ProtocolMCPApps:
		return true
	}
	return false
}

// Supported returns all known dialects in capability-advertisement order.
func Supported() []Protocol {
	return []Protocol{ProtocolADKUI, ProtocolA2UI, ProtocolAGUI, ProtocolMCPApps}
}

// aliases maps tolerated spellings to canonical names. Hosts have shipped
// both hyphen and underscore forms.
var aliases = map[string]Protocol{
	"ag-ui":    ProtocolAGUI,
	"mcp-apps": ProtocolMCPApps,
}

// Normalize maps a wire-level protocol name to its canonical form. Names
// are trimmed and lowercased; a handful of historical aliases are accepted.
// The second return is false for names that match no known dialect.
func Normalize(name string) (Protocol, bool) {
	cleaned := strings.ToLower(strings.TrimSpace(name))
	if cleaned == "" {
		return "", false
	}
	if p, ok := aliases[cleaned]; ok {
		return p, true
	}
	p := Protocol(cleaned)
	if p.IsSupported() {
		return p, true
	}
	return "", false
}
