package model

import "time"

type AlertKind string

const (
	AlertTaskCreated AlertKind = "task_created"
	AlertTaskOverdue AlertKind = "task_overdue"
	AlertMessage     AlertKind = "message"
)

// Alert is a notification shown on the console dashboard.
type Alert struct {
	ID      string    `json:"id"`
	Kind    AlertKind `json:"kind"`
	TaskID  TaskID    `json:"taskId,omitempty"`
	Message string    `json:"message"`

	CreatedAt time.Time  `json:"createdAt"`
	ReadAt    *time.Time `json:"readAt,omitempty"`
}
