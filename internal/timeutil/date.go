package timeutil

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// ParseDate parses "YYYY-MM-DD" into a midnight time.Time in the business
// location.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(dateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
	return d, nil
}

// FormatDate renders a date as "YYYY-MM-DD".
func FormatDate(d time.Time) string {
	return d.Format(dateLayout)
}

// AtTime combines a date (midnight) with a time of day into an instant.
func AtTime(date time.Time, t TimeOfDay) time.Time {
	return date.Add(time.Duration(t) * time.Minute)
}
