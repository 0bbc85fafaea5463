package task

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Gregos2215/gestapp-sub000/internal/auth"
	"github.com/Gregos2215/gestapp-sub000/internal/model"
	"github.com/Gregos2215/gestapp-sub000/internal/recur"
	"github.com/Gregos2215/gestapp-sub000/internal/taskview"
)

const dayLayout = "2006-01-02"

type Handler struct {
	svc      *Service
	feed     *Feed
	pageSize int
	now      func() time.Time
}

func NewHandler(svc *Service, feed *Feed, pageSize int) *Handler {
	if pageSize <= 0 {
		pageSize = 20
	}
	return &Handler{svc: svc, feed: feed, pageSize: pageSize, now: time.Now}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

func decodeJSON(r *http.Request, out any) error {
	return json.NewDecoder(r.Body).Decode(out)
}

func actorFromRequest(r *http.Request) model.ActorStamp {
	u, ok := auth.UserFromContext(r.Context())
	if !ok {
		return model.ActorStamp{ActorID: "system", Name: "System"}
	}
	name := u.DisplayName
	if name == "" {
		name = u.Email
	}
	return model.ActorStamp{ActorID: u.ID, Name: name}
}

func parseDayParam(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := time.ParseInLocation(dayLayout, s, time.Local)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

type createRequest struct {
	Name         string                `json:"name"`
	Description  string                `json:"description"`
	Kind         model.TaskKind        `json:"kind"`
	DueDate      time.Time             `json:"dueDate"`
	Recurrence   model.RecurrenceClass `json:"recurrence"`
	Weekdays     []time.Weekday        `json:"weekdays"`
	ResidentID   string                `json:"residentId"`
	ResidentName string                `json:"residentName"`
}

type viewResponse struct {
	Tasks     []model.Task `json:"tasks"`
	Total     int          `json:"total"`
	Page      int          `json:"page"`
	PageCount int          `json:"pageCount"`
	PageSize  int          `json:"pageSize"`
}

// View handles GET /api/tasks: filter + optional date + search + page.
func (h *Handler) View(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := taskview.FilterKind(strings.TrimSpace(q.Get("filter")))
	if filter == "" {
		filter = taskview.FilterAll
	}
	switch filter {
	case taskview.FilterAll, taskview.FilterResident, taskview.FilterGeneral,
		taskview.FilterCompleted, taskview.FilterYesterday,
		taskview.FilterUpcoming, taskview.FilterPast:
	default:
		writeErr(w, 400, "unknown filter: "+string(filter))
		return
	}

	refDate, err := parseDayParam(q.Get("date"))
	if err != nil {
		writeErr(w, 400, "date must be YYYY-MM-DD")
		return
	}

	snapshot, err := h.svc.Snapshot()
	if err != nil {
		writeErr(w, 500, err.Error())
		return
	}

	now := h.now()
	input := snapshot
	switch filter {
	case taskview.FilterAll, taskview.FilterResident, taskview.FilterGeneral:
		input = recur.ExpandForDay(snapshot, model.DayOf(now))
	case taskview.FilterUpcoming:
		if refDate == nil {
			input = recur.ExpandForDay(snapshot, model.DayOf(now).AddDate(0, 0, 1))
		}
	}

	projected := taskview.Project(input, filter, refDate, q.Get("q"), now)

	page := atoiDefault(q.Get("page"), 1)
	size := atoiDefault(q.Get("pageSize"), h.pageSize)

	writeJSON(w, 200, viewResponse{
		Tasks:     taskview.Paginate(projected, page, size),
		Total:     len(projected),
		Page:      page,
		PageCount: taskview.PageCount(len(projected), size),
		PageSize:  size,
	})
}

// Create handles POST /api/tasks.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in createRequest
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, 400, "bad json")
		return
	}
	if strings.TrimSpace(in.Name) == "" {
		writeErr(w, 400, "name is required")
		return
	}
	if in.DueDate.IsZero() {
		writeErr(w, 400, "dueDate is required")
		return
	}
	if in.Recurrence == model.RecurSpecificDays && len(in.Weekdays) == 0 {
		writeErr(w, 400, "weekday recurrence needs at least one weekday")
		return
	}

	created, err := h.svc.Create(model.Task{
		Name:         in.Name,
		Description:  in.Description,
		Kind:         in.Kind,
		DueDate:      in.DueDate,
		Recurrence:   in.Recurrence,
		Weekdays:     in.Weekdays,
		ResidentID:   in.ResidentID,
		ResidentName: in.ResidentName,
	}, actorFromRequest(r))
	if err != nil {
		writeErr(w, 500, err.Error())
		return
	}
	writeJSON(w, 201, created)
}

// Get handles GET /api/tasks/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	t, err := h.svc.Get(model.TaskID(r.PathValue("id")))
	if errors.Is(err, ErrNotFound) {
		writeErr(w, 404, "not found")
		return
	}
	if err != nil {
		writeErr(w, 500, err.Error())
		return
	}
	writeJSON(w, 200, t)
}

// Update handles PATCH /api/tasks/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var p Patch
	if err := decodeJSON(r, &p); err != nil {
		writeErr(w, 400, "bad json")
		return
	}

	t, err := h.svc.Update(model.TaskID(r.PathValue("id")), p, actorFromRequest(r))
	if errors.Is(err, ErrNotFound) {
		writeErr(w, 404, "not found")
		return
	}
	if err != nil {
		writeErr(w, 500, err.Error())
		return
	}
	writeJSON(w, 200, t)
}

type occurrenceRequest struct {
	// Day selects the occurrence, YYYY-MM-DD. Empty targets the row's
	// own anchor day.
	Day string `json:"day"`
}

// Complete handles POST /api/tasks/{id}/complete.
func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	id := model.TaskID(r.PathValue("id"))

	var in occurrenceRequest
	if err := decodeJSON(r, &in); err != nil && !errors.Is(err, io.EOF) {
		writeErr(w, 400, "bad json")
		return
	}

	day, err := h.resolveDay(id, in.Day)
	if err != nil {
		writeErr(w, 400, "day must be YYYY-MM-DD")
		return
	}

	res, err := h.svc.CompleteOccurrence(id, day, actorFromRequest(r))
	if err != nil {
		writeErr(w, 500, err.Error())
		return
	}
	writeJSON(w, 200, map[string]any{
		"task":        res.Task,
		"spawned":     res.Spawned,
		"skippedDay":  res.SkippedDay,
		"staleParent": res.StaleParent,
	})
}

// RemoveOccurrence handles POST /api/tasks/{id}/occurrences/remove.
func (h *Handler) RemoveOccurrence(w http.ResponseWriter, r *http.Request) {
	id := model.TaskID(r.PathValue("id"))

	var in occurrenceRequest
	if err := decodeJSON(r, &in); err != nil && !errors.Is(err, io.EOF) {
		writeErr(w, 400, "bad json")
		return
	}

	day, err := h.resolveDay(id, in.Day)
	if err != nil {
		writeErr(w, 400, "day must be YYYY-MM-DD")
		return
	}

	err = h.svc.RemoveOccurrence(id, day, actorFromRequest(r))
	if errors.Is(err, ErrOccurrenceNotCompleted) {
		writeErr(w, 409, err.Error())
		return
	}
	if err != nil {
		writeErr(w, 500, err.Error())
		return
	}
	writeJSON(w, 200, map[string]any{"ok": true})
}

// Delete handles DELETE /api/tasks/{id}: tombstones the whole series.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.SoftDelete(model.TaskID(r.PathValue("id")), actorFromRequest(r)); err != nil {
		writeErr(w, 500, err.Error())
		return
	}
	writeJSON(w, 200, map[string]any{"ok": true})
}

// Calendar handles GET /api/tasks/{id}/calendar.ics.
func (h *Handler) Calendar(w http.ResponseWriter, r *http.Request) {
	t, err := h.svc.Get(model.TaskID(r.PathValue("id")))
	if errors.Is(err, ErrNotFound) {
		writeErr(w, 404, "not found")
		return
	}
	if err != nil {
		writeErr(w, 500, err.Error())
		return
	}

	ics, err := BuildTaskCalendarICS(t, h.now())
	if err != nil {
		writeErr(w, 400, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="task.ics"`)
	w.WriteHeader(200)
	_, _ = w.Write([]byte(ics))
}

// Stream handles GET /api/tasks/live: the live snapshot feed.
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	h.feed.ServeHTTP(w, r)
}

func (h *Handler) resolveDay(id model.TaskID, raw string) (time.Time, error) {
	if strings.TrimSpace(raw) != "" {
		d, err := parseDayParam(raw)
		if err != nil {
			return time.Time{}, err
		}
		return *d, nil
	}
	t, err := h.svc.Get(id)
	if err != nil {
		// Let the service handle the stale-parent case; any day works.
		return model.DayOf(h.now()), nil
	}
	return t.DueDay(), nil
}
