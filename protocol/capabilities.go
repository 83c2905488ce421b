package protocol

// ToolEnvelopeVersion marks protocol-aware legacy tool responses.
const ToolEnvelopeVersion = "1.0"

// CapabilitySpec is the static capability contract for one dialect,
// advertised to hosts so they can pick a protocol before streaming.
type CapabilitySpec struct {
	Protocol Protocol `json:"protocol"`
	Versions []string `json:"versions"`
	Features []string `json:"features"`
}

// capabilities holds one spec per supported dialect, in Supported() order.
var capabilities = []CapabilitySpec{
	{
		Protocol: ProtocolADKUI,
		Versions: []string{"1.0"},
		Features: []string{"legacy_components", "theme", "events"},
	},
	{
		Protocol: ProtocolA2UI,
		Versions: []string{"0.9"},
		Features: []string{"jsonl", "createSurface", "updateComponents", "updateDataModel"},
	},
	{
		Protocol: ProtocolAGUI,
		Versions: []string{"0.1"},
		Features: []string{"run_lifecycle", "custom_events", "event_stream"},
	},
	{
		Protocol: ProtocolMCPApps,
		Versions: []string{"sep-1865"},
		Features: []string{"ui_resource_uri", "tool_meta", "html_resource"},
	},
}

// Capabilities returns the capability contract for every supported
// dialect. Callers get a copy; the contract itself is fixed at build time.
func Capabilities() []CapabilitySpec {
	out := make([]CapabilitySpec, len(capabilities))
	copy(out, capabilities)
	return out
}

// CapabilityFor returns the contract for one dialect.
func CapabilityFor(p Protocol) (CapabilitySpec, bool) {
	for _, spec := range capabilities {
		if spec.Protocol == p {
			return spec, true
		}
	}
	return CapabilitySpec{}, false
}

// CapabilityDocument is the JSON document hosts fetch to negotiate a
// protocol: the default, the tool envelope version, and every contract.
func CapabilityDocument() map[string]any {
	return map[string]any{
		"defaultProtocol":     string(DefaultProtocol),
		"toolEnvelopeVersion": ToolEnvelopeVersion,
		"protocols":           Capabilities(),
	}
}
