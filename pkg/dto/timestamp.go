package dto

import (
	"encoding/json"
	"fmt"
	"time"
)

// TimestampLayout is ISO local date-time; values are always UTC.
const TimestampLayout = "2006-01-02T15:04:05"

// Timestamp is a time that marshals as TimestampLayout.
type Timestamp time.Time

func (t Timestamp) Time() time.Time { return time.Time(t) }

// MarshalJSON implements json.Marshaler for Timestamp.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(t).UTC().Format(TimestampLayout))
}

// UnmarshalJSON implements json.Unmarshaler for Timestamp.
func (t *Timestamp) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = Timestamp(parsed)
	return nil
}

// ParseTimestamp accepts TimestampLayout (read as UTC) or RFC 3339 and
// drops sub-second precision.
func ParseTimestamp(s string) (time.Time, error) {
	if parsed, err := time.ParseInLocation(TimestampLayout, s, time.UTC); err == nil {
		return parsed.Truncate(time.Second), nil
	}
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q, expected %s", s, TimestampLayout)
	}
	return parsed.UTC().Truncate(time.Second), nil
}
