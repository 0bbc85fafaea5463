// Package taskview turns a task snapshot into the ordered projection a
// console view renders. Project and Paginate are pure; the caller owns
// the active filter, picked date, search text and page index, and
// re-invokes on every change.
package taskview

import (
	"sort"
	"strings"
	"time"

	"github.com/Gregos2215/gestapp-sub000/internal/model"
)

type FilterKind string

const (
	// FilterAll shows pending tasks due today.
	FilterAll FilterKind = "all"
	// FilterResident restricts FilterAll to resident-linked tasks.
	FilterResident FilterKind = "resident"
	// FilterGeneral restricts FilterAll to general tasks.
	FilterGeneral FilterKind = "general"
	// FilterCompleted shows completed tasks.
	FilterCompleted FilterKind = "completed"
	// FilterYesterday shows yesterday's unfinished tasks.
	FilterYesterday FilterKind = "yesterday"
	// FilterUpcoming shows tomorrow, or the picked date when one is set.
	FilterUpcoming FilterKind = "upcoming"
	// FilterPast shows days before today, or the picked date when set.
	FilterPast FilterKind = "past"
)

// Project filters and sorts a task snapshot. refDate is the optional
// picked date for the upcoming/past filters; now anchors "today". For
// the all/resident/general filters and dateless upcoming the caller is
// expected to have run recur.ExpandForDay for the relevant day first so
// virtual occurrences take part like real rows. The input slice is not
// mutated.
func Project(tasks []model.Task, filter FilterKind, refDate *time.Time, search string, now time.Time) []model.Task {
	today := model.DayOf(now)
	search = strings.ToLower(strings.TrimSpace(search))

	// Day the skip check and the day-equality predicate run against.
	// nil means the filter has no single reference day.
	var refDay *time.Time
	switch filter {
	case FilterAll, FilterResident, FilterGeneral:
		refDay = &today
	case FilterYesterday:
		d := today.AddDate(0, 0, -1)
		refDay = &d
	case FilterUpcoming:
		if refDate != nil {
			d := model.DayOf(*refDate)
			refDay = &d
		} else {
			d := today.AddDate(0, 0, 1)
			refDay = &d
		}
	case FilterPast:
		if refDate != nil {
			d := model.DayOf(*refDate)
			refDay = &d
		}
	}

	matches := func(t model.Task) bool {
		if t.Deleted {
			return false
		}
		if refDay != nil && t.IsSkipped(*refDay) {
			return false
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(t.Name), search) &&
			!strings.Contains(strings.ToLower(t.Description), search) {
			return false
		}

		switch filter {
		case FilterAll:
			return t.DueDay().Equal(today) && t.Status != model.StatusCompleted
		case FilterResident:
			return t.DueDay().Equal(today) && t.Status != model.StatusCompleted &&
				t.Kind == model.KindResident
		case FilterGeneral:
			return t.DueDay().Equal(today) && t.Status != model.StatusCompleted &&
				t.Kind == model.KindGeneral
		case FilterCompleted:
			return t.Status == model.StatusCompleted
		case FilterYesterday:
			return t.DueDay().Equal(*refDay) && t.Status != model.StatusCompleted
		case FilterUpcoming:
			return t.DueDay().Equal(*refDay)
		case FilterPast:
			if refDay != nil {
				return t.DueDay().Equal(*refDay)
			}
			return t.DueDay().Before(today)
		default:
			return false
		}
	}

	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if matches(t) {
			out = append(out, t)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].DueDate.Equal(out[j].DueDate) {
			return out[i].DueDate.Before(out[j].DueDate)
		}
		return out[i].ID < out[j].ID
	})

	return out
}

// Paginate slices a projection into the 1-based page of the given size.
// Out-of-range pages yield an empty slice; size <= 0 returns everything.
func Paginate(tasks []model.Task, page, size int) []model.Task {
	if size <= 0 {
		return append([]model.Task(nil), tasks...)
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * size
	if start >= len(tasks) {
		return []model.Task{}
	}
	end := start + size
	if end > len(tasks) {
		end = len(tasks)
	}
	return append([]model.Task(nil), tasks[start:end]...)
}

// PageCount returns how many pages a projection spans.
func PageCount(total, size int) int {
	if size <= 0 || total <= 0 {
		return 1
	}
	return (total + size - 1) / size
}
