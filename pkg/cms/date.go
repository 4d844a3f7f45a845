package cms

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

const dateValueLayout = "2006-01-02T15:04:05.000Z07:00"

// plain layouts accepted for bare string dates, tried in order.
var bareDateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
}

// Date is the API's date container. The server represents dates three
// ways: an object {value, timezone}, a bare ISO8601 string (with or
// without fractional seconds), or epoch milliseconds. Decoding attempts
// all three in that order; encoding always emits the object form.
type Date struct {
	Time     time.Time
	Timezone string
}

type dateContainer struct {
	Value    string `json:"value"`
	Timezone string `json:"timezone"`
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	container := dateContainer{
		Value:    d.Time.Format(dateValueLayout),
		Timezone: d.Timezone,
	}

	data, err := json.Marshal(container)
	if err != nil {
		return nil, fmt.Errorf("encoding date: %w", err)
	}

	return data, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = Date{}

		return nil
	}

	var container dateContainer
	if err := json.Unmarshal(data, &container); err == nil && container.Value != "" {
		parsed, err := parseBareDate(container.Value)
		if err != nil {
			return err
		}

		d.Time = parsed
		d.Timezone = container.Timezone

		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err == nil {
		parsed, err := parseBareDate(raw)
		if err != nil {
			return err
		}

		d.Time = parsed
		d.Timezone = ""

		return nil
	}

	var millis int64
	if err := json.Unmarshal(data, &millis); err == nil {
		d.Time = time.UnixMilli(millis).UTC()
		d.Timezone = ""

		return nil
	}

	return fmt.Errorf("%w: unsupported date representation %s", ErrDataConversionFailed, string(data))
}

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool {
	return d.Time.IsZero()
}

func parseBareDate(value string) (time.Time, error) {
	for _, layout := range bareDateLayouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			return parsed, nil
		}
	}

	// Some payloads carry bare epoch milliseconds as a string.
	millis, err := strconv.ParseInt(value, 10, 64)
	if err == nil {
		return time.UnixMilli(millis).UTC(), nil
	}

	return time.Time{}, fmt.Errorf("%w: unparseable date %q", ErrDataConversionFailed, value)
}
