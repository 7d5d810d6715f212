package deadline

import "time"

// Class is the display state of a deadline at a given moment.
type Class int

const (
	None Class = iota
	Overdue
	DueToday
	DueTomorrow
	Upcoming
)

func (c Class) String() string {
	switch c {
	case Overdue:
		return "overdue"
	case DueToday:
		return "due-today"
	case DueTomorrow:
		return "due-tomorrow"
	case Upcoming:
		return "upcoming"
	default:
		return "none"
	}
}

// Classify reports the state of d relative to now. Overdue wins over the
// calendar checks; today and tomorrow compare year, month and day in now's
// location rather than elapsed hours.
func Classify(now time.Time, d *time.Time) Class {
	if d == nil {
		return None
	}
	if d.Before(now) {
		return Overdue
	}

	local := d.In(now.Location())
	if sameDay(local, now) {
		return DueToday
	}
	if sameDay(local, now.AddDate(0, 0, 1)) {
		return DueTomorrow
	}
	return Upcoming
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
