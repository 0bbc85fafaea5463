package task

import (
	"errors"
	"log"
	"time"

	"github.com/Gregos2215/gestapp-sub000/internal/model"
	"github.com/Gregos2215/gestapp-sub000/internal/recur"
)

// AlertSink receives fire-and-forget notifications about task lifecycle
// changes. Implementations must not block.
type AlertSink interface {
	TaskCreated(t model.Task)
	TaskResolved(id model.TaskID)
}

// EventRecorder is the telemetry hook.
type EventRecorder interface {
	Record(kind string, meta map[string]any)
}

// CompleteResult describes what completing an occurrence did.
type CompleteResult struct {
	Task model.Task

	// Spawned is the fresh row created for the next anchor occurrence
	// when the completed occurrence was the anchor of a live series.
	Spawned *model.Task

	// SkippedDay is set when a non-anchor occurrence was resolved by
	// adding its day to the parent's skip set.
	SkippedDay bool

	// StaleParent is set when the parent row no longer existed; the
	// action is reported as success.
	StaleParent bool
}

// Service owns the task lifecycle invariant: one row per series, anchor
// completion spawns the next row, non-anchor completion marks the day
// resolved on the parent. Every mutation republishes the full snapshot.
type Service struct {
	repo   Repo
	feed   *Feed
	alerts AlertSink
	events EventRecorder
	logger *log.Logger
	now    func() time.Time
}

type ServiceOptions struct {
	Repo   Repo
	Feed   *Feed
	Alerts AlertSink
	Events EventRecorder
	Logger *log.Logger
	Now    func() time.Time
}

func NewService(opts ServiceOptions) *Service {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		repo:   opts.Repo,
		feed:   opts.Feed,
		alerts: opts.Alerts,
		events: opts.Events,
		logger: opts.Logger,
		now:    opts.Now,
	}
}

// Snapshot returns the current non-deleted task set, the view the feed
// delivers to clients.
func (s *Service) Snapshot() ([]model.Task, error) {
	all, err := s.repo.List()
	if err != nil {
		return nil, err
	}
	out := make([]model.Task, 0, len(all))
	for _, t := range all {
		if !t.Deleted {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *Service) publish() {
	if s.feed == nil {
		return
	}
	snapshot, err := s.Snapshot()
	if err != nil {
		s.logger.Printf("task feed snapshot failed: %v", err)
		return
	}
	s.feed.Publish(snapshot)
}

func (s *Service) record(kind string, meta map[string]any) {
	if s.events != nil {
		s.events.Record(kind, meta)
	}
}

// Create persists a new task stamped with its author and announces it.
func (s *Service) Create(t model.Task, actor model.ActorStamp) (model.Task, error) {
	actor.At = s.now()
	t.CreatedBy = &actor
	t.Status = model.StatusPending
	if t.ResidentID != "" {
		t.Kind = model.KindResident
	} else if t.Kind == "" {
		t.Kind = model.KindGeneral
	}

	created, err := s.repo.Create(t)
	if err != nil {
		return model.Task{}, err
	}

	if s.alerts != nil {
		s.alerts.TaskCreated(created)
	}
	s.record("task_created", map[string]any{
		"task_id":     string(created.ID),
		"resident_id": created.ResidentID,
	})
	s.publish()
	return created, nil
}

// Update applies a partial edit stamped with its author.
func (s *Service) Update(id model.TaskID, p Patch, actor model.ActorStamp) (model.Task, error) {
	actor.At = s.now()
	p.ModifiedBy = &actor

	updated, err := s.repo.Update(id, p)
	if err != nil {
		return model.Task{}, err
	}
	s.publish()
	return updated, nil
}

// Get returns a single row.
func (s *Service) Get(id model.TaskID) (model.Task, error) {
	return s.repo.Get(id)
}

// CompleteOccurrence resolves one occurrence of a task for the given
// calendar day. On the anchor day the row itself is completed and, if
// the series recurs, the next anchor row is created with a fresh id and
// an empty skip set. On any other day the day is added to the parent's
// skip set and the row stays pending. A vanished parent counts as
// already resolved.
func (s *Service) CompleteOccurrence(id model.TaskID, day time.Time, actor model.ActorStamp) (CompleteResult, error) {
	t, err := s.repo.Get(id)
	if errors.Is(err, ErrNotFound) {
		return CompleteResult{StaleParent: true}, nil
	}
	if err != nil {
		return CompleteResult{}, err
	}

	dayKey := model.DayOf(day)
	actor.At = s.now()

	if !t.DueDay().Equal(dayKey) {
		updated, err := s.repo.Update(id, Patch{
			AddSkippedDate: &dayKey,
			ModifiedBy:     &actor,
		})
		if err != nil {
			return CompleteResult{}, err
		}
		s.record("occurrence_skipped", map[string]any{
			"task_id": string(id),
			"day":     dayKey.Format("2006-01-02"),
		})
		s.publish()
		return CompleteResult{Task: updated, SkippedDay: true}, nil
	}

	completed := model.StatusCompleted
	updated, err := s.repo.Update(id, Patch{
		Status:      &completed,
		CompletedBy: &actor,
	})
	if err != nil {
		return CompleteResult{}, err
	}

	res := CompleteResult{Task: updated}
	if t.Recurring() {
		if next, ok := recur.NextOccurrenceDay(t); ok {
			due := t.DueDate.In(time.Local)
			spawn := model.Task{
				Kind:         t.Kind,
				Name:         t.Name,
				Description:  t.Description,
				Recurrence:   t.Recurrence,
				Weekdays:     append([]time.Weekday(nil), t.Weekdays...),
				ResidentID:   t.ResidentID,
				ResidentName: t.ResidentName,
				Status:       model.StatusPending,
				CreatedBy:    &actor,
				DueDate: time.Date(next.Year(), next.Month(), next.Day(),
					due.Hour(), due.Minute(), due.Second(), due.Nanosecond(), time.Local),
			}
			created, err := s.repo.Create(spawn)
			if err != nil {
				return CompleteResult{}, err
			}
			res.Spawned = &created
			s.record("occurrence_spawned", map[string]any{
				"task_id":   string(id),
				"spawn_id":  string(created.ID),
				"spawn_day": next.Format("2006-01-02"),
			})
		}
	}

	if s.alerts != nil {
		s.alerts.TaskResolved(id)
	}
	s.record("task_completed", map[string]any{"task_id": string(id)})
	s.publish()
	return res, nil
}

// RemoveOccurrence removes one occurrence of a recurring series for the
// given day. Non-anchor days are resolved through the skip set. The
// anchor day requires the row to be completed first; removing it then
// tombstones the row. A vanished parent counts as already resolved.
func (s *Service) RemoveOccurrence(id model.TaskID, day time.Time, actor model.ActorStamp) error {
	t, err := s.repo.Get(id)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	dayKey := model.DayOf(day)
	actor.At = s.now()

	if !t.DueDay().Equal(dayKey) {
		_, err := s.repo.Update(id, Patch{
			AddSkippedDate: &dayKey,
			ModifiedBy:     &actor,
		})
		if err != nil {
			return err
		}
		s.record("occurrence_skipped", map[string]any{
			"task_id": string(id),
			"day":     dayKey.Format("2006-01-02"),
		})
		s.publish()
		return nil
	}

	if t.Status != model.StatusCompleted {
		return ErrOccurrenceNotCompleted
	}
	return s.SoftDelete(id, actor)
}

// SoftDelete tombstones a whole series. Every projection excludes the
// row from then on.
func (s *Service) SoftDelete(id model.TaskID, actor model.ActorStamp) error {
	actor.At = s.now()
	deleted := true
	_, err := s.repo.Update(id, Patch{
		Deleted:    &deleted,
		ModifiedBy: &actor,
	})
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if s.alerts != nil {
		s.alerts.TaskResolved(id)
	}
	s.record("task_deleted", map[string]any{"task_id": string(id)})
	s.publish()
	return nil
}
