package task

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar-date form produced by date inputs.
const DateLayout = "2006-01-02"

// ErrInvalidDate is returned by ParseDate for unparseable values.
var ErrInvalidDate = errors.New("invalid date")

// Date is a due date. Calendar dates are held as UTC midnight and
// serialize back as YYYY-MM-DD; full timestamps serialize as RFC 3339.
type Date struct {
	time.Time
}

// NewDate returns a Date for the given instant.
func NewDate(t time.Time) *Date {
	return &Date{Time: t}
}

// ParseDate parses YYYY-MM-DD or an RFC 3339 timestamp.
func ParseDate(s string) (*Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return &Date{Time: t}, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return &Date{Time: t}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrInvalidDate, s)
}

// DateOnly reports whether d is a calendar date (UTC midnight).
func (d Date) DateOnly() bool {
	if d.Location() != time.UTC {
		return false
	}
	h, m, s := d.Clock()
	return h == 0 && m == 0 && s == 0 && d.Nanosecond() == 0
}

// String formats d the way it is persisted.
func (d Date) String() string {
	if d.DateOnly() {
		return d.Format(DateLayout)
	}
	return d.Format(time.RFC3339Nano)
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = *parsed
	return nil
}
