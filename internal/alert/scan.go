package alert

import (
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Gregos2215/gestapp-sub000/internal/model"
)

// TaskLister is the slice of the task store the overdue scan needs.
type TaskLister interface {
	List() ([]model.Task, error)
}

// Scanner periodically walks the task store and raises alerts for
// pending tasks past their due time by more than the grace window.
// EventRecorder receives activity events for the admin stats page.
type EventRecorder interface {
	Record(kind string, meta map[string]any)
}

type Scanner struct {
	tasks  TaskLister
	center *Center
	grace  time.Duration
	log    *slog.Logger
	now    func() time.Time
	cron   *cron.Cron

	// Events is optional.
	Events EventRecorder
}

func NewScanner(tasks TaskLister, center *Center, grace time.Duration, log *slog.Logger) *Scanner {
	if log == nil {
		log = slog.Default()
	}
	return &Scanner{
		tasks:  tasks,
		center: center,
		grace:  grace,
		log:    log,
		now:    time.Now,
	}
}

// Start schedules the scan with the given cron spec (for example
// "@every 5m") and runs one scan immediately.
func (s *Scanner) Start(spec string) error {
	c := cron.New()
	if _, err := c.AddFunc(spec, s.Scan); err != nil {
		return err
	}
	c.Start()
	s.cron = c
	s.Scan()
	return nil
}

func (s *Scanner) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// Scan raises overdue alerts. Errors are logged and the next tick
// tries again.
func (s *Scanner) Scan() {
	tasks, err := s.tasks.List()
	if err != nil {
		s.log.Error("overdue scan failed", "err", err)
		return
	}

	cutoff := s.now().Add(-s.grace)
	raised := 0
	for _, t := range tasks {
		if t.Deleted || t.Virtual || t.Status != model.StatusPending {
			continue
		}
		if !t.DueDate.Before(cutoff) {
			continue
		}
		if s.center.TaskOverdue(t) {
			raised++
			if s.Events != nil {
				s.Events.Record("alert_raised", map[string]any{"task_id": string(t.ID), "kind": "task_overdue"})
			}
		}
	}
	if raised > 0 {
		s.log.Info("overdue scan raised alerts", "count", raised)
	}
}
