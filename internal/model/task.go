package model

import (
	"time"
)

type TaskID string

type TaskKind string

const (
	KindResident TaskKind = "resident"
	KindGeneral  TaskKind = "general"
)

type TaskStatus string

const (
	StatusPending   TaskStatus = "pending"
	StatusCompleted TaskStatus = "completed"
)

// RecurrenceClass is the fixed repeat interval of a task series.
type RecurrenceClass string

const (
	RecurNone         RecurrenceClass = ""
	RecurDaily        RecurrenceClass = "daily"
	RecurEvery2Days   RecurrenceClass = "every2days"
	RecurEvery3Days   RecurrenceClass = "every3days"
	RecurEvery4Days   RecurrenceClass = "every4days"
	RecurEvery5Days   RecurrenceClass = "every5days"
	RecurEvery6Days   RecurrenceClass = "every6days"
	RecurWeekly       RecurrenceClass = "weekly"
	RecurEvery2Weeks  RecurrenceClass = "every2weeks"
	RecurEvery3Weeks  RecurrenceClass = "every3weeks"
	RecurMonthly      RecurrenceClass = "monthly"
	RecurYearly       RecurrenceClass = "yearly"
	RecurSpecificDays RecurrenceClass = "specificDays"
)

// ActorStamp records who performed a mutation and when.
type ActorStamp struct {
	ActorID string    `json:"actorId"`
	Name    string    `json:"name"`
	At      time.Time `json:"at"`
}

// Task is a persisted care task. A recurring series is represented by a
// single row; occurrences projected onto other days are synthesized at
// read time and carry Virtual=true plus an explicit parent reference.
type Task struct {
	ID          TaskID          `json:"id"`
	Kind        TaskKind        `json:"kind"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	DueDate     time.Time       `json:"dueDate"`
	Status      TaskStatus      `json:"status"`
	Recurrence  RecurrenceClass `json:"recurrence,omitempty"`

	// Weekdays applies only when Recurrence == RecurSpecificDays.
	Weekdays []time.Weekday `json:"weekdays,omitempty"`

	// SkippedDates holds local-midnight day keys for which this series
	// is already resolved (single occurrence completed or removed).
	SkippedDates []time.Time `json:"skippedDates,omitempty"`

	Deleted bool `json:"deleted,omitempty"`

	ResidentID   string `json:"residentId,omitempty"`
	ResidentName string `json:"residentName,omitempty"`

	// Virtual occurrence fields. Never persisted.
	Virtual       bool      `json:"virtual,omitempty"`
	ParentID      TaskID    `json:"parentId,omitempty"`
	OccurrenceDay time.Time `json:"occurrenceDay,omitempty"`

	CreatedBy   *ActorStamp `json:"createdBy,omitempty"`
	ModifiedBy  *ActorStamp `json:"modifiedBy,omitempty"`
	CompletedBy *ActorStamp `json:"completedBy,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DayOf normalizes an instant to its local calendar day (local midnight).
func DayOf(t time.Time) time.Time {
	t = t.In(time.Local)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}

// DueDay returns the calendar day the task's due instant falls on.
func (t Task) DueDay() time.Time {
	return DayOf(t.DueDate)
}

// Recurring reports whether the task describes a repeating series.
func (t Task) Recurring() bool {
	return t.Recurrence != RecurNone
}

// IsSkipped reports whether the series is resolved for the given day.
// Days compare by exact local-midnight match.
func (t Task) IsSkipped(day time.Time) bool {
	key := DayOf(day)
	for _, d := range t.SkippedDates {
		if DayOf(d).Equal(key) {
			return true
		}
	}
	return false
}

// HasWeekday reports whether wd is part of the task's weekday set.
func (t Task) HasWeekday(wd time.Weekday) bool {
	for _, d := range t.Weekdays {
		if d == wd {
			return true
		}
	}
	return false
}
