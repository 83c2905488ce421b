package message

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/c360/surfacekit/errors"
)

// Line is one successfully parsed stream line. Exactly one of Message or
// Update is set: surface-level messages are discriminated by "type",
// component-level updates by "operation".
type Line struct {
	N       int // 1-based position in the input text
	Message *Message
	Update  *UIUpdate
}

// ParseWarning reports a line the parser dropped. The stream continues
// past it; a warning never aborts the remaining lines.
type ParseWarning struct {
	Line int    // 1-based position of the offending line
	Text string // the line itself, truncated for logging
	Err  error
}

// warningTextLimit bounds how much of an offending line a warning keeps.
// Lines are untrusted input and can be arbitrarily long.
const warningTextLimit = 120

func truncateForWarning(s string) string {
	if len(s) <= warningTextLimit {
		return s
	}
	return s[:warningTextLimit] + "..."
}

// ParseJSONL splits text into lines and parses each non-empty line as one
// message or component update. Malformed lines and lines without a known
// discriminant are reported as warnings and skipped. Output preserves
// input order exactly; that order is the authoritative application order
// downstream. Parsing holds no state, so the same text always yields the
// same result.
func ParseJSONL(text string) ([]Line, []ParseWarning) {
	var lines []Line
	var warnings []ParseWarning
	for i, raw := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			continue
		}
		n := i + 1
		line, err := ParseLine([]byte(trimmed))
		if err != nil {
			warnings = append(warnings, ParseWarning{Line: n, Text: truncateForWarning(trimmed), Err: err})
			continue
		}
		line.N = n
		lines = append(lines, line)
	}
	return lines, warnings
}

// ParseLine parses one line. It probes the discriminant first so a decode
// failure can name what the line was trying to be.
func ParseLine(data []byte) (Line, error) {
	var probe struct {
		Type      string `json:"type"`
		Operation string `json:"operation"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return Line{}, errors.WrapInvalid(
			fmt.Errorf("%w: %v", errors.ErrMalformedLine, err),
			"Parser", "ParseLine", "line decode")
	}

	switch {
	case probe.Type != "":
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			return Line{}, errors.WrapInvalid(
				fmt.Errorf("%w: %v", errors.ErrMalformedLine, err),
				"Parser", "ParseLine", "message decode")
		}
		if err := msg.Validate(); err != nil {
			return Line{}, err
		}
		return Line{Message: &msg}, nil

	case probe.Operation != "":
		upd, err := DecodeUIUpdate(data)
		if err != nil {
			return Line{}, err
		}
		return Line{Update: upd}, nil

	default:
		return Line{}, errors.WrapInvalid(
			fmt.Errorf("line has neither type nor operation: %w", errors.ErrUnknownMessageType),
			"Parser", "ParseLine", "discriminant probe")
	}
}
