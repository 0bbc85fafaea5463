package alert

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Gregos2215/gestapp-sub000/internal/model"
)

var ErrNotFound = errors.New("alert not found")

// Center holds the in-memory alert inbox shown in the console header.
// Alerts are transient by design: a restart starts with a clean slate
// and the overdue scan repopulates anything still relevant.
type Center struct {
	mu     sync.RWMutex
	alerts map[string]model.Alert
	now    func() time.Time
}

func NewCenter() *Center {
	return &Center{
		alerts: map[string]model.Alert{},
		now:    time.Now,
	}
}

func (c *Center) raise(kind model.AlertKind, taskID model.TaskID, msg string) model.Alert {
	c.mu.Lock()
	defer c.mu.Unlock()

	a := model.Alert{
		ID:        "alert_" + uuid.NewString(),
		Kind:      kind,
		TaskID:    taskID,
		Message:   msg,
		CreatedAt: c.now(),
	}
	c.alerts[a.ID] = a
	return a
}

// TaskCreated satisfies the task service's alert sink.
func (c *Center) TaskCreated(t model.Task) {
	c.raise(model.AlertTaskCreated, t.ID, "New task: "+t.Name)
}

// TaskResolved clears any outstanding alerts for a completed or
// removed task.
func (c *Center) TaskResolved(id model.TaskID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, a := range c.alerts {
		if a.TaskID == id && a.ReadAt == nil {
			a.ReadAt = &now
			c.alerts[key] = a
		}
	}
}

// MessagePosted raises a message alert so staff who were not looking
// at the board still see it.
func (c *Center) MessagePosted(body string) {
	if len(body) > 80 {
		body = body[:80] + "…"
	}
	c.raise(model.AlertMessage, "", body)
}

// TaskOverdue raises an overdue alert unless an unread one already
// exists for the same task.
func (c *Center) TaskOverdue(t model.Task) bool {
	c.mu.Lock()
	already := false
	for _, a := range c.alerts {
		if a.Kind == model.AlertTaskOverdue && a.TaskID == t.ID && a.ReadAt == nil {
			already = true
			break
		}
	}
	c.mu.Unlock()
	if already {
		return false
	}
	c.raise(model.AlertTaskOverdue, t.ID, "Overdue: "+t.Name)
	return true
}

func (c *Center) MarkRead(id string) (model.Alert, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	a, ok := c.alerts[id]
	if !ok {
		return model.Alert{}, ErrNotFound
	}
	if a.ReadAt == nil {
		now := c.now()
		a.ReadAt = &now
		c.alerts[id] = a
	}
	return a, nil
}

// List returns alerts newest first. With includeRead false only the
// unread inbox is returned.
func (c *Center) List(includeRead bool) []model.Alert {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]model.Alert, 0, len(c.alerts))
	for _, a := range c.alerts {
		if !includeRead && a.ReadAt != nil {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (c *Center) Unread() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n := 0
	for _, a := range c.alerts {
		if a.ReadAt == nil {
			n++
		}
	}
	return n
}
