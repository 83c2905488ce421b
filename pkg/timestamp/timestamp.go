// Package timestamp provides standardized Unix timestamp handling utilities.
//
// This package uses int64 milliseconds as the canonical timestamp format for
// user interaction events and protocol envelopes. All timestamps are stored
// as milliseconds since Unix epoch (UTC).
//
// Zero Value Semantics:
//   - A timestamp value of 0 means "not set" or "unknown"
//   - Functions handle zero values gracefully, returning appropriate defaults
//
// Usage Examples:
//
//	// Current time
//	now := timestamp.Now()
//
//	// Normalize whatever a wire payload carried
//	ts := timestamp.Parse(raw["timestamp"])
//
//	// Format for display
//	display := timestamp.Format(ts)
package timestamp

import (
	"strconv"
	"time"
)

// Now returns the current time as Unix milliseconds.
func Now() int64 {
	return time.Now().UnixMilli()
}

// ToUnixMs converts a time.Time to Unix milliseconds.
func ToUnixMs(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

// FromUnixMs converts Unix milliseconds to time.Time.
// Returns zero time if timestamp is 0.
func FromUnixMs(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}

// Format converts Unix milliseconds to RFC3339 string for display.
// Returns empty string if timestamp is 0.
func Format(ms int64) string {
	if ms == 0 {
		return ""
	}
	return time.UnixMilli(ms).UTC().Format(time.RFC3339)
}

// Parse converts various timestamp formats to Unix milliseconds.
// Inbound payloads carry timestamps as JSON numbers (decoded float64),
// integers, or RFC3339 strings depending on the dialect.
// Supports:
//   - int64 (assumed to be milliseconds if > 1e12, otherwise seconds)
//   - float64 (converted to int64, same logic as int64)
//   - string (RFC3339 or Unix timestamp string)
//   - time.Time
//   - nil/zero values (returns 0)
//
// Returns 0 for invalid input or parsing errors.
func Parse(input any) int64 {
	if input == nil {
		return 0
	}

	switch v := input.(type) {
	case int64:
		if v == 0 {
			return 0
		}
		// If value is greater than 1e12 (year 2001 in seconds), assume milliseconds
		// Otherwise assume seconds and convert
		if v > 1e12 {
			return v
		}
		return v * 1000

	case float64:
		if v == 0 {
			return 0
		}
		// Same logic as int64
		if v > 1e12 {
			return int64(v)
		}
		return int64(v * 1000)

	case int:
		return Parse(int64(v))

	case int32:
		return Parse(int64(v))

	case string:
		if v == "" {
			return 0
		}

		// Try parsing as RFC3339 first
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return ToUnixMs(t)
		}

		// Try parsing as Unix timestamp string
		if ts, err := strconv.ParseInt(v, 10, 64); err == nil {
			return Parse(ts)
		}

		// Try parsing as float string
		if ts, err := strconv.ParseFloat(v, 64); err == nil {
			return Parse(ts)
		}

		return 0

	case time.Time:
		return ToUnixMs(v)

	case *time.Time:
		if v == nil {
			return 0
		}
		return ToUnixMs(*v)

	default:
		return 0
	}
}

// IsZero checks if a timestamp is unset (zero).
func IsZero(ms int64) bool {
	return ms == 0
}
