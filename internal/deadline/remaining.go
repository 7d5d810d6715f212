package deadline

import (
	"fmt"
	"strings"
	"time"
)

const day = 24 * time.Hour

// Duration is the time left until a deadline, split into display units.
type Duration struct {
	Days    int
	Hours   int
	Minutes int
	Seconds int
}

// Remaining splits the time between now and d into whole days, hours,
// minutes and seconds. Every field is zero once d is not in the future.
func Remaining(now, d time.Time) Duration {
	diff := d.Sub(now)
	if diff <= 0 {
		return Duration{}
	}
	return Duration{
		Days:    int(diff / day),
		Hours:   int(diff/time.Hour) % 24,
		Minutes: int(diff/time.Minute) % 60,
		Seconds: int(diff/time.Second) % 60,
	}
}

// Passed reports whether nothing is left, i.e. the deadline has been reached.
func (r Duration) Passed() bool {
	return r == Duration{}
}

// String lists the non-zero units in descending order and always ends with
// seconds, e.g. "2 days 5 seconds" or "3 hours 10 minutes 0 seconds".
func (r Duration) String() string {
	parts := make([]string, 0, 4)
	if r.Days > 0 {
		parts = append(parts, fmt.Sprintf("%d days", r.Days))
	}
	if r.Hours > 0 {
		parts = append(parts, fmt.Sprintf("%d hours", r.Hours))
	}
	if r.Minutes > 0 {
		parts = append(parts, fmt.Sprintf("%d minutes", r.Minutes))
	}
	parts = append(parts, fmt.Sprintf("%d seconds", r.Seconds))
	return strings.Join(parts, " ")
}
