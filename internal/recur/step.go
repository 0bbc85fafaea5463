package recur

import (
	"time"

	"github.com/Gregos2215/gestapp-sub000/internal/model"
)

// Advance returns the next occurrence day after cur for the given class.
// Month and year steps use calendar-aware addition with Go's AddDate
// normalization: stepping a month from Jan 31 lands on Mar 2/3 rather
// than clamping to Feb 28/29.
//
// Unknown classes return ok=false, which terminates any walk without
// advancing. RecurSpecificDays is day-by-day and handled by the caller.
func Advance(cur time.Time, class model.RecurrenceClass) (next time.Time, ok bool) {
	switch class {
	case model.RecurDaily:
		return cur.AddDate(0, 0, 1), true
	case model.RecurEvery2Days:
		return cur.AddDate(0, 0, 2), true
	case model.RecurEvery3Days:
		return cur.AddDate(0, 0, 3), true
	case model.RecurEvery4Days:
		return cur.AddDate(0, 0, 4), true
	case model.RecurEvery5Days:
		return cur.AddDate(0, 0, 5), true
	case model.RecurEvery6Days:
		return cur.AddDate(0, 0, 6), true
	case model.RecurWeekly:
		return cur.AddDate(0, 0, 7), true
	case model.RecurEvery2Weeks:
		return cur.AddDate(0, 0, 14), true
	case model.RecurEvery3Weeks:
		return cur.AddDate(0, 0, 21), true
	case model.RecurMonthly:
		return cur.AddDate(0, 1, 0), true
	case model.RecurYearly:
		return cur.AddDate(1, 0, 0), true
	case model.RecurSpecificDays:
		return cur.AddDate(0, 0, 1), true
	default:
		return cur, false
	}
}

// NextOccurrenceDay returns the first occurrence day strictly after the
// anchor day, or ok=false when the class never advances. For weekday-set
// tasks it scans forward to the next listed weekday.
func NextOccurrenceDay(t model.Task) (time.Time, bool) {
	anchor := t.DueDay()
	if t.Recurrence == model.RecurSpecificDays {
		if len(t.Weekdays) == 0 {
			return time.Time{}, false
		}
		cur := anchor
		for i := 0; i < 7; i++ {
			cur = cur.AddDate(0, 0, 1)
			if t.HasWeekday(cur.Weekday()) {
				return cur, true
			}
		}
		return time.Time{}, false
	}
	return Advance(anchor, t.Recurrence)
}
