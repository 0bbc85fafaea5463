package telemetry

import "time"

type EventType string

const (
	EventTaskCreated       EventType = "task_created"
	EventTaskCompleted     EventType = "task_completed"
	EventTaskDeleted       EventType = "task_deleted"
	EventOccurrenceSkipped EventType = "occurrence_skipped"
	EventOccurrenceSpawned EventType = "occurrence_spawned"
	EventReportPosted      EventType = "report_posted"
	EventMessageSent       EventType = "message_sent"
	EventAlertRaised       EventType = "alert_raised"
	EventUserSignedIn      EventType = "user_signed_in"
)

type Event struct {
	ID        int       `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Metadata  string    `json:"metadata"`
}

type EventMetadata map[string]interface{}
