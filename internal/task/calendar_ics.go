package task

import (
	"fmt"
	"strings"
	"time"

	"github.com/Gregos2215/gestapp-sub000/internal/model"
)

const icsDateLayout = "20060102"

// BuildTaskCalendarICS renders a task as a single iCalendar event so
// staff can pull it into an external calendar. Recurring series emit a
// matching RRULE.
func BuildTaskCalendarICS(t model.Task, now time.Time) (string, error) {
	if t.DueDate.IsZero() {
		return "", fmt.Errorf("task due date required for calendar export")
	}

	due := model.DayOf(t.DueDate)
	end := due.AddDate(0, 0, 1)

	title := strings.TrimSpace(t.Name)
	if title == "" {
		title = "Care Task"
	}
	desc := strings.TrimSpace(t.Description)

	uid := fmt.Sprintf("task-%s@gestapp", strings.TrimSpace(string(t.ID)))
	if strings.TrimSpace(string(t.ID)) == "" {
		uid = fmt.Sprintf("task-export-%d@gestapp", now.UnixNano())
	}

	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//Gestapp//Task Export//EN",
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
		"BEGIN:VEVENT",
		"UID:" + escapeICSText(uid),
		"DTSTAMP:" + now.UTC().Format("20060102T150405Z"),
		"SUMMARY:" + escapeICSText(title),
		"DTSTART;VALUE=DATE:" + due.Format(icsDateLayout),
		"DTEND;VALUE=DATE:" + end.Format(icsDateLayout),
	}
	if desc != "" {
		lines = append(lines, "DESCRIPTION:"+escapeICSText(desc))
	}
	if rrule := recurrenceToICSRRULE(t); rrule != "" {
		lines = append(lines, "RRULE:"+rrule)
	}
	lines = append(lines, "END:VEVENT", "END:VCALENDAR", "")

	return strings.Join(lines, "\r\n"), nil
}

func recurrenceToICSRRULE(t model.Task) string {
	switch t.Recurrence {
	case model.RecurNone:
		return ""
	case model.RecurDaily:
		return "FREQ=DAILY"
	case model.RecurEvery2Days:
		return "FREQ=DAILY;INTERVAL=2"
	case model.RecurEvery3Days:
		return "FREQ=DAILY;INTERVAL=3"
	case model.RecurEvery4Days:
		return "FREQ=DAILY;INTERVAL=4"
	case model.RecurEvery5Days:
		return "FREQ=DAILY;INTERVAL=5"
	case model.RecurEvery6Days:
		return "FREQ=DAILY;INTERVAL=6"
	case model.RecurWeekly:
		return "FREQ=WEEKLY"
	case model.RecurEvery2Weeks:
		return "FREQ=WEEKLY;INTERVAL=2"
	case model.RecurEvery3Weeks:
		return "FREQ=WEEKLY;INTERVAL=3"
	case model.RecurMonthly:
		return "FREQ=MONTHLY"
	case model.RecurYearly:
		return "FREQ=YEARLY"
	case model.RecurSpecificDays:
		if len(t.Weekdays) == 0 {
			return ""
		}
		days := make([]string, 0, len(t.Weekdays))
		for _, wd := range t.Weekdays {
			days = append(days, icsWeekday(wd))
		}
		return "FREQ=WEEKLY;BYDAY=" + strings.Join(days, ",")
	default:
		return ""
	}
}

func icsWeekday(wd time.Weekday) string {
	switch wd {
	case time.Monday:
		return "MO"
	case time.Tuesday:
		return "TU"
	case time.Wednesday:
		return "WE"
	case time.Thursday:
		return "TH"
	case time.Friday:
		return "FR"
	case time.Saturday:
		return "SA"
	default:
		return "SU"
	}
}

func escapeICSText(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, ";", `\;`)
	s = strings.ReplaceAll(s, ",", `\,`)
	s = strings.ReplaceAll(s, "\r\n", `\n`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return s
}
