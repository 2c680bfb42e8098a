package utils

import "time"

// timestampLayout is RFC3339 with fixed-width nanoseconds. The fixed width
// matters: record ordering compares timestamps as strings, and trimmed
// trailing zeros would break lexicographic order.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// NowRFC3339 returns the current UTC time as an RFC3339 string with
// nanosecond precision.
func NowRFC3339() string {
	return time.Now().UTC().Format(timestampLayout)
}

// ParseRFC3339 parses a time string in RFC3339 format, with or without
// fractional seconds.
func ParseRFC3339(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
