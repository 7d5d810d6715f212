// Package deadline models optional task deadlines: turning a wall-clock date
// and 12-hour time into an absolute instant, ordering optional instants and
// deriving display state (classification, time remaining, countdown).
//
// A deadline is a *time.Time; nil means the task has none. Instants are kept
// in UTC; calendar questions are answered in the location of the supplied
// "now".
package deadline

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophtodo/internal/common"
)

// DateLayout is the accepted date component format.
const DateLayout = "2006-01-02"

var (
	ErrInvalidDate     = fmt.Errorf("%w: date must be YYYY-MM-DD", common.ErrorValidation)
	ErrInvalidHour     = fmt.Errorf("%w: hour must be between 1 and 12", common.ErrorValidation)
	ErrInvalidMinute   = fmt.Errorf("%w: minute must be between 0 and 59", common.ErrorValidation)
	ErrInvalidMeridiem = fmt.Errorf("%w: meridiem must be AM or PM", common.ErrorValidation)
)

// Meridiem is the AM/PM half of a 12-hour clock reading.
type Meridiem string

const (
	AM Meridiem = "AM"
	PM Meridiem = "PM"
)

// ParseMeridiem accepts "am"/"pm" in any case.
func ParseMeridiem(s string) (Meridiem, error) {
	switch m := Meridiem(strings.ToUpper(strings.TrimSpace(s))); m {
	case AM, PM:
		return m, nil
	default:
		return "", ErrInvalidMeridiem
	}
}

// Hour24 converts a 12-hour clock hour to the 24-hour clock.
// 12 AM is 0, 12 PM stays 12, any other PM hour gains 12.
func Hour24(hour int, m Meridiem) int {
	switch {
	case hour == 12 && m == AM:
		return 0
	case hour < 12 && m == PM:
		return hour + 12
	default:
		return hour
	}
}

// Normalize turns a date ("2024-01-01") and a 12-hour time ("05", "15", "PM")
// read on the wall clock of loc into an absolute instant in UTC.
//
// An empty date yields a nil deadline and no error. When hour, minute and
// meridiem are all empty the deadline is the start of that day. An empty
// minute on its own means :00.
func Normalize(date, hour, minute, meridiem string, loc *time.Location) (*time.Time, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return nil, nil
	}
	if loc == nil {
		loc = time.Local
	}

	day, err := time.ParseInLocation(DateLayout, date, loc)
	if err != nil {
		return nil, ErrInvalidDate
	}

	hour, minute, meridiem = strings.TrimSpace(hour), strings.TrimSpace(minute), strings.TrimSpace(meridiem)
	if hour == "" && minute == "" && meridiem == "" {
		t := day.UTC()
		return &t, nil
	}

	h, err := strconv.Atoi(hour)
	if err != nil || h < 1 || h > 12 {
		return nil, ErrInvalidHour
	}

	mins := 0
	if minute != "" {
		mins, err = strconv.Atoi(minute)
		if err != nil || mins < 0 || mins > 59 {
			return nil, ErrInvalidMinute
		}
	}

	m, err := ParseMeridiem(meridiem)
	if err != nil {
		return nil, err
	}

	t := time.Date(day.Year(), day.Month(), day.Day(), Hour24(h, m), mins, 0, 0, loc).UTC()
	return &t, nil
}

// Compare orders optional deadlines: present ones by instant ascending, absent
// ones after every present one, two absent ones equal. It returns -1, 0 or +1
// and can be passed to slices.SortStableFunc through a key accessor.
func Compare(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	default:
		return a.Compare(*b)
	}
}

// Equal reports whether Compare considers a and b the same deadline.
func Equal(a, b *time.Time) bool {
	return Compare(a, b) == 0
}

// Format renders d as RFC 3339 in UTC, the wire form of a deadline.
// A nil deadline renders as "".
func Format(d *time.Time) string {
	if d == nil {
		return ""
	}
	return d.UTC().Format(time.RFC3339)
}

// Parse reads the wire form written by Format. "" is a nil deadline.
// Any explicit offset is accepted and converted to UTC. Fractional seconds
// are truncated so Format of the result parses back to the same instant.
func Parse(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, fmt.Errorf("%w: deadline must be an RFC 3339 timestamp", common.ErrorValidation)
	}
	t = t.UTC().Truncate(time.Second)
	return &t, nil
}
