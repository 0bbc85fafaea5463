package telemetry

import (
	"encoding/json"
	"time"
)

type Stats struct {
	Period          string            `json:"period"`
	EventCounts     map[EventType]int `json:"event_counts"`
	TaskCreations   int               `json:"task_creations"`
	TaskCompletions int               `json:"task_completions"`
	SkippedDays     int               `json:"skipped_days"`
	ReportsPosted   int               `json:"reports_posted"`
	MessagesSent    int               `json:"messages_sent"`
	AlertsRaised    int               `json:"alerts_raised"`
	TasksByResident map[string]int    `json:"tasks_by_resident"`
}

// CalculateStats summarizes activity since the given date, for the
// admin activity page.
func CalculateStats(events []Event, since time.Time) (Stats, error) {
	stats := Stats{
		Period:          since.Format("2006-01-02"),
		EventCounts:     make(map[EventType]int),
		TasksByResident: make(map[string]int),
	}

	for _, event := range events {
		stats.EventCounts[event.Type]++

		var metadata EventMetadata
		if err := json.Unmarshal([]byte(event.Metadata), &metadata); err != nil {
			continue
		}

		switch event.Type {
		case EventTaskCreated:
			stats.TaskCreations++
			if residentID, ok := metadata["resident_id"].(string); ok && residentID != "" {
				stats.TasksByResident[residentID]++
			}
		case EventTaskCompleted:
			stats.TaskCompletions++
		case EventOccurrenceSkipped:
			stats.SkippedDays++
		case EventReportPosted:
			stats.ReportsPosted++
		case EventMessageSent:
			stats.MessagesSent++
		case EventAlertRaised:
			stats.AlertsRaised++
		}
	}

	return stats, nil
}
