package telemetry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAndFilterEvents(t *testing.T) {
	repo := NewMemoryRepository()
	repo.Record("task_created", map[string]any{"task_id": "task_1"})
	repo.Record("task_completed", map[string]any{"task_id": "task_1"})
	repo.Record("message_sent", nil)

	all, err := repo.GetEvents(time.Time{}, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	onlyTasks, err := repo.GetEvents(time.Time{}, []EventType{EventTaskCreated, EventTaskCompleted})
	require.NoError(t, err)
	assert.Len(t, onlyTasks, 2)
}

func TestCalculateStats(t *testing.T) {
	repo := NewMemoryRepository()
	repo.Record("task_created", map[string]any{"resident_id": "res1"})
	repo.Record("task_created", map[string]any{"resident_id": "res1"})
	repo.Record("task_created", nil)
	repo.Record("task_completed", nil)
	repo.Record("occurrence_skipped", nil)
	repo.Record("report_posted", nil)

	events, err := repo.GetEvents(time.Time{}, nil)
	require.NoError(t, err)

	since := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	stats, err := CalculateStats(events, since)
	require.NoError(t, err)

	assert.Equal(t, "2024-05-01", stats.Period)
	assert.Equal(t, 3, stats.TaskCreations)
	assert.Equal(t, 1, stats.TaskCompletions)
	assert.Equal(t, 1, stats.SkippedDays)
	assert.Equal(t, 1, stats.ReportsPosted)
	assert.Equal(t, 2, stats.TasksByResident["res1"])
}

func TestClear(t *testing.T) {
	repo := NewMemoryRepository()
	repo.Record("task_created", nil)
	require.NoError(t, repo.Clear())

	events, err := repo.GetEvents(time.Time{}, nil)
	require.NoError(t, err)
	assert.Empty(t, events)
}
