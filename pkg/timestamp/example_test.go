package timestamp_test

import (
	"fmt"
	"time"

	"github.com/c360/surfacekit/pkg/timestamp"
)

// ExampleParse demonstrates normalizing the timestamp shapes that
// arrive on inbound event payloads
func ExampleParse() {
	// RFC3339 string
	ts1 := timestamp.Parse("2023-01-15T12:30:45Z")
	fmt.Printf("RFC3339 parsed: %d\n", ts1)

	// Unix seconds
	ts2 := timestamp.Parse(int64(1673784645))
	fmt.Printf("Unix seconds parsed: %d\n", ts2)

	// Unix milliseconds (JSON numbers decode as float64)
	ts3 := timestamp.Parse(float64(1673784645123))
	fmt.Printf("Unix milliseconds parsed: %d\n", ts3)

	// Output:
	// RFC3339 parsed: 1673785845000
	// Unix seconds parsed: 1673784645000
	// Unix milliseconds parsed: 1673784645123
}

// ExampleFormat demonstrates formatting timestamps for display
func ExampleFormat() {
	ts := int64(1673785845123)
	formatted := timestamp.Format(ts)
	fmt.Printf("Formatted: %s\n", formatted)

	// Zero timestamp returns empty string
	empty := timestamp.Format(0)
	fmt.Printf("Zero formatted: '%s'\n", empty)

	// Output:
	// Formatted: 2023-01-15T12:30:45Z
	// Zero formatted: ''
}

// ExampleToUnixMs demonstrates converting time.Time to milliseconds
func ExampleToUnixMs() {
	t := time.Date(2023, 1, 15, 12, 30, 45, 123000000, time.UTC)
	ts := timestamp.ToUnixMs(t)
	fmt.Printf("time.Time to milliseconds: %d\n", ts)

	// Output:
	// time.Time to milliseconds: 1673785845123
}

// ExampleFromUnixMs demonstrates converting milliseconds to time.Time
func ExampleFromUnixMs() {
	ts := int64(1673785845123)
	t := timestamp.FromUnixMs(ts)
	fmt.Printf("Milliseconds to time.Time: %s\n", t.UTC().Format(time.RFC3339))

	// Zero timestamp returns zero time
	zeroTime := timestamp.FromUnixMs(0)
	fmt.Printf("Zero timestamp: %v\n", zeroTime.IsZero())

	// Output:
	// Milliseconds to time.Time: 2023-01-15T12:30:45Z
	// Zero timestamp: true
}
