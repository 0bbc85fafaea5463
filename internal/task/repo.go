package task

import (
	"errors"
	"time"

	"github.com/Gregos2215/gestapp-sub000/internal/model"
)

var (
	ErrNotFound = errors.New("task not found")

	// ErrOccurrenceNotCompleted is returned when a single occurrence of a
	// recurring series is deleted before being marked complete.
	ErrOccurrenceNotCompleted = errors.New("complete the occurrence before removing it")
)

// Patch represents a partial update. nil pointer => "no change".
type Patch struct {
	Name        *string                `json:"name,omitempty"`
	Description *string                `json:"description,omitempty"`
	Kind        *model.TaskKind        `json:"kind,omitempty"`
	DueDate     *time.Time             `json:"dueDate,omitempty"`
	Status      *model.TaskStatus      `json:"status,omitempty"`
	Recurrence  *model.RecurrenceClass `json:"recurrence,omitempty"`
	Weekdays    *[]time.Weekday        `json:"weekdays,omitempty"`

	// ResidentID with an empty string clears the link.
	ResidentID   *string `json:"residentId,omitempty"`
	ResidentName *string `json:"residentName,omitempty"`

	// AddSkippedDate appends one resolved day to the skip set.
	AddSkippedDate *time.Time `json:"addSkippedDate,omitempty"`

	Deleted *bool `json:"deleted,omitempty"`

	ModifiedBy  *model.ActorStamp `json:"modifiedBy,omitempty"`
	CompletedBy *model.ActorStamp `json:"completedBy,omitempty"`
}

// Repo is the persistence boundary for tasks. List returns every row,
// tombstoned ones included; the feed filters those at source.
type Repo interface {
	Create(t model.Task) (model.Task, error)
	Get(id model.TaskID) (model.Task, error)
	Update(id model.TaskID, patch Patch) (model.Task, error)
	List() ([]model.Task, error)
}

func applyPatch(t *model.Task, p Patch) {
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Kind != nil {
		t.Kind = *p.Kind
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Recurrence != nil {
		t.Recurrence = *p.Recurrence
	}
	if p.Weekdays != nil {
		if *p.Weekdays == nil {
			t.Weekdays = nil
		} else {
			t.Weekdays = append([]time.Weekday(nil), (*p.Weekdays)...)
		}
	}
	if p.ResidentID != nil {
		if *p.ResidentID == "" {
			t.ResidentID = ""
			t.ResidentName = ""
			t.Kind = model.KindGeneral
		} else {
			t.ResidentID = *p.ResidentID
		}
	}
	if p.ResidentName != nil {
		t.ResidentName = *p.ResidentName
	}
	if p.AddSkippedDate != nil {
		day := model.DayOf(*p.AddSkippedDate)
		if !t.IsSkipped(day) {
			t.SkippedDates = append(append([]time.Time(nil), t.SkippedDates...), day)
		}
	}
	if p.Deleted != nil {
		t.Deleted = *p.Deleted
	}
	if p.ModifiedBy != nil {
		stamp := *p.ModifiedBy
		t.ModifiedBy = &stamp
	}
	if p.CompletedBy != nil {
		stamp := *p.CompletedBy
		t.CompletedBy = &stamp
	}
}
