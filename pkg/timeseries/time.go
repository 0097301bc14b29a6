package timeseries

import (
	"strings"
	"time"

	"github.com/aperiosoftware/aas-timeseries/pkg/errors"
)

// TimeLayout is the layout used to write time values: ISO-8601 with
// millisecond precision and no zone, always in UTC.
const TimeLayout = "2006-01-02T15:04:05.000"

var parseLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTime parses an ISO-8601 instant. Values without a zone are UTC.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range parseLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errors.New(errors.ErrCodeInvalidInput, "cannot parse %q as a time", s)
}

// FormatTime formats t with TimeLayout in UTC.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}
