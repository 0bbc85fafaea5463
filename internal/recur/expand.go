// Package recur projects recurring task series onto calendar days.
//
// A recurring series is stored as a single task row anchored at its due
// date. ExpandForDay answers "which occurrences land on this day" by
// combining the real rows due that day with synthesized virtual
// occurrences of series anchored earlier. Virtual occurrences are
// read-only projections and are never written back.
package recur

import (
	"time"

	"github.com/Gregos2215/gestapp-sub000/internal/model"
)

// ExpandForDay returns the tasks occurring on the target calendar day:
// real rows whose due day equals the day, plus one virtual occurrence per
// recurring series whose forward walk from its anchor lands exactly on
// the day. A series with a real row on the day never also gets a virtual
// one. Skipped days produce nothing. Input slices are never mutated.
func ExpandForDay(tasks []model.Task, target time.Time) []model.Task {
	day := model.DayOf(target)

	real := make(map[model.TaskID]bool)
	out := make([]model.Task, 0, len(tasks))

	for _, t := range tasks {
		if t.Deleted || t.Virtual {
			continue
		}
		if !t.DueDay().Equal(day) {
			continue
		}
		real[t.ID] = true
		if !t.IsSkipped(day) {
			out = append(out, t)
		}
	}

	for _, t := range tasks {
		if t.Deleted || t.Virtual || !t.Recurring() {
			continue
		}
		if t.Status == model.StatusCompleted {
			continue
		}
		if real[t.ID] || t.IsSkipped(day) {
			continue
		}
		if !occursOn(t, day) {
			continue
		}
		out = append(out, virtualOccurrence(t, day))
	}

	return out
}

// occursOn walks the series forward from its anchor day and reports
// whether it lands exactly on day. The anchor itself never counts here;
// that case is a real row. Days before the anchor never match.
func occursOn(t model.Task, day time.Time) bool {
	anchor := t.DueDay()
	if !anchor.Before(day) {
		return false
	}

	if t.Recurrence == model.RecurSpecificDays {
		return len(t.Weekdays) > 0 && t.HasWeekday(day.Weekday())
	}

	cur := anchor
	for {
		next, ok := Advance(cur, t.Recurrence)
		if !ok || !next.After(cur) {
			return false
		}
		cur = next
		if cur.After(day) {
			return false
		}
		if cur.Equal(day) {
			return true
		}
	}
}

// virtualOccurrence synthesizes the transient projection of a series on
// the given day, carrying the anchor's time-of-day onto the day's date.
func virtualOccurrence(t model.Task, day time.Time) model.Task {
	due := t.DueDate.In(time.Local)
	v := t
	v.Virtual = true
	v.ParentID = t.ID
	v.OccurrenceDay = day
	v.DueDate = time.Date(day.Year(), day.Month(), day.Day(),
		due.Hour(), due.Minute(), due.Second(), due.Nanosecond(), time.Local)

	// A projection starts clean: skip markers and completion stamps
	// belong to the parent row.
	v.SkippedDates = nil
	v.CompletedBy = nil
	return v
}
