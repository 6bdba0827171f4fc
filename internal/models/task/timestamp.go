package task

import (
	"fmt"
	"strings"
	"time"
)

// WireLayout is the backend timestamp format.
const WireLayout = "2006-01-02 15:04:05"

// FormLayout is the minute-precision datetime-local input format.
const FormLayout = "2006-01-02T15:04"

const DateLayout = "2006-01-02"

var parseLayouts = []string{
	WireLayout,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	FormLayout,
	DateLayout,
}

// Timestamp is a naive wall-clock time. The backend stores no zone, so the
// value is kept in UTC and only its fields are meaningful.
type Timestamp struct {
	time.Time
}

// FromTime keeps the wall-clock fields of t and drops its zone.
func FromTime(t time.Time) Timestamp {
	return Timestamp{time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)}
}

func ParseTimestamp(raw string) (Timestamp, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range parseLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return Timestamp{t}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("invalid timestamp %q, expected %s", raw, WireLayout)
}

// ParseDueInput reads a due time typed by the user in any accepted layout
// and drops the seconds, so client-built values always end in ":00".
func ParseDueInput(raw string) (Timestamp, error) {
	ts, err := ParseTimestamp(raw)
	if err != nil {
		return Timestamp{}, err
	}
	ts.Time = ts.Truncate(time.Minute)
	return ts, nil
}

// ParseFormInput reads a datetime-local value; seconds are always zero.
func ParseFormInput(raw string) (Timestamp, error) {
	t, err := time.ParseInLocation(FormLayout, strings.TrimSpace(raw), time.UTC)
	if err != nil {
		return Timestamp{}, fmt.Errorf("invalid due time %q, expected YYYY-MM-DDTHH:MM", raw)
	}
	return Timestamp{t}, nil
}

func (ts Timestamp) String() string {
	return ts.Format(WireLayout)
}

// FormValue is the inverse of ParseFormInput, used to prefill the edit form.
func (ts Timestamp) FormValue() string {
	return ts.Format(FormLayout)
}

// Day truncates to the civil date.
func (ts Timestamp) Day() time.Time {
	return DayOf(ts.Time)
}

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + ts.String() + `"`), nil
}

func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "" || raw == "null" {
		*ts = Timestamp{}
		return nil
	}
	parsed, err := ParseTimestamp(raw)
	if err != nil {
		return err
	}
	*ts = parsed
	return nil
}

// DayOf returns midnight UTC of t's wall-clock date.
func DayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Today is the civil date of now in loc.
func Today(now time.Time, loc *time.Location) time.Time {
	if loc != nil {
		now = now.In(loc)
	}
	return DayOf(now)
}

func DateKey(day time.Time) string {
	return day.Format(DateLayout)
}

// MinDue is the earliest due value the create form accepts.
func MinDue(now time.Time, loc *time.Location) string {
	if loc != nil {
		now = now.In(loc)
	}
	return FromTime(now).FormValue()
}
