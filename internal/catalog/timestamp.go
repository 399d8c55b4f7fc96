package catalog

import (
	"fmt"
	"strings"
	"time"
)

// TimestampLayout is the wire layout of lastCheckedOut ("yyyy-MM-dd HH:mm:ss zzz").
const TimestampLayout = "2006-01-02 15:04:05 MST"

var fallbackLayouts = []string{
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05 Z07:00",
	time.RFC3339Nano,
	time.RFC3339,
}

// Go parses an unknown zone abbreviation with a zero offset unless it happens
// to match the local zone; these are pinned so the instant stays correct.
var zoneOffsets = map[string]int{
	"EST": -5 * 3600,
	"EDT": -4 * 3600,
	"CST": -6 * 3600,
	"CDT": -5 * 3600,
	"MST": -7 * 3600,
	"MDT": -6 * 3600,
	"PST": -8 * 3600,
	"PDT": -7 * 3600,
}

// ParseTimestamp parses a lastCheckedOut value.
func ParseTimestamp(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("parse timestamp: empty value")
	}
	if t, err := time.Parse(TimestampLayout, trimmed); err == nil {
		return pinZone(t), nil
	}
	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse timestamp %q: unrecognized layout", value)
}

// FormatTimestamp renders t in TimestampLayout. Output is always UTC so that
// parsing it back yields the same instant.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

func pinZone(t time.Time) time.Time {
	name, offset := t.Zone()
	if offset != 0 {
		return t
	}
	pinned, ok := zoneOffsets[name]
	if !ok {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.FixedZone(name, pinned))
}
