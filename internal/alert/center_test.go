package alert

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gregos2215/gestapp-sub000/internal/model"
)

func TestTaskCreatedRaisesAlert(t *testing.T) {
	c := NewCenter()
	c.TaskCreated(model.Task{ID: "task_1", Name: "Blood pressure check"})

	out := c.List(false)
	require.Len(t, out, 1)
	assert.Equal(t, model.AlertTaskCreated, out[0].Kind)
	assert.Equal(t, model.TaskID("task_1"), out[0].TaskID)
	assert.Contains(t, out[0].Message, "Blood pressure check")
	assert.Equal(t, 1, c.Unread())
}

func TestTaskResolvedClearsUnread(t *testing.T) {
	c := NewCenter()
	c.TaskCreated(model.Task{ID: "task_1", Name: "Laundry"})
	c.TaskOverdue(model.Task{ID: "task_1", Name: "Laundry"})
	c.TaskCreated(model.Task{ID: "task_2", Name: "Meds"})

	c.TaskResolved("task_1")

	unread := c.List(false)
	require.Len(t, unread, 1)
	assert.Equal(t, model.TaskID("task_2"), unread[0].TaskID)
	assert.Len(t, c.List(true), 3)
}

func TestTaskOverdueDedupes(t *testing.T) {
	c := NewCenter()
	task := model.Task{ID: "task_1", Name: "Shower"}

	assert.True(t, c.TaskOverdue(task))
	assert.False(t, c.TaskOverdue(task))
	require.Len(t, c.List(false), 1)

	// Once read, a still-overdue task may alert again.
	id := c.List(false)[0].ID
	_, err := c.MarkRead(id)
	require.NoError(t, err)
	assert.True(t, c.TaskOverdue(task))
}

func TestMarkReadUnknown(t *testing.T) {
	c := NewCenter()
	_, err := c.MarkRead("alert_missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

type staticLister struct {
	tasks []model.Task
}

func (l staticLister) List() ([]model.Task, error) { return l.tasks, nil }

func TestScanRaisesOnlyOverduePendingRealTasks(t *testing.T) {
	now := time.Date(2024, time.May, 15, 10, 0, 0, 0, time.Local)

	tasks := []model.Task{
		{ID: "old", Name: "old", Status: model.StatusPending, DueDate: now.Add(-time.Hour)},
		{ID: "fresh", Name: "fresh", Status: model.StatusPending, DueDate: now.Add(-5 * time.Minute)},
		{ID: "done", Name: "done", Status: model.StatusCompleted, DueDate: now.Add(-time.Hour)},
		{ID: "gone", Name: "gone", Status: model.StatusPending, DueDate: now.Add(-time.Hour), Deleted: true},
		{ID: "virt", Name: "virt", Status: model.StatusPending, DueDate: now.Add(-time.Hour), Virtual: true},
	}

	c := NewCenter()
	s := NewScanner(staticLister{tasks}, c, 20*time.Minute, slog.Default())
	s.now = func() time.Time { return now }

	s.Scan()

	out := c.List(false)
	require.Len(t, out, 1)
	assert.Equal(t, model.TaskID("old"), out[0].TaskID)

	// Re-running does not duplicate.
	s.Scan()
	assert.Len(t, c.List(false), 1)
}
