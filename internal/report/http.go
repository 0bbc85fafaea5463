package report

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Gregos2215/gestapp-sub000/internal/auth"
	"github.com/Gregos2215/gestapp-sub000/internal/model"
)

// EventRecorder receives activity events for the admin stats page.
type EventRecorder interface {
	Record(kind string, meta map[string]any)
}

type Handler struct {
	repo *FileRepo

	// Events is optional.
	Events EventRecorder
}

func NewHandler(repo *FileRepo) *Handler {
	return &Handler{repo: repo}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

func authorFromRequest(r *http.Request) *model.ActorStamp {
	u, ok := auth.UserFromContext(r.Context())
	if !ok {
		return nil
	}
	name := u.DisplayName
	if name == "" {
		name = u.Email
	}
	return &model.ActorStamp{ActorID: u.ID, Name: name, At: time.Now()}
}

// List handles GET /api/reports, optionally ?resident={id}.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	out, err := h.repo.List(r.URL.Query().Get("resident"))
	if err != nil {
		writeErr(w, 500, err.Error())
		return
	}
	writeJSON(w, 200, out)
}

// Create handles POST /api/reports.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Title      string `json:"title"`
		Body       string `json:"body"`
		ResidentID string `json:"residentId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeErr(w, 400, "bad json")
		return
	}
	if strings.TrimSpace(in.Title) == "" {
		writeErr(w, 400, "title is required")
		return
	}

	created, err := h.repo.Create(model.Report{
		Title:      strings.TrimSpace(in.Title),
		Body:       in.Body,
		ResidentID: in.ResidentID,
		Author:     authorFromRequest(r),
	})
	if err != nil {
		writeErr(w, 500, err.Error())
		return
	}
	if h.Events != nil {
		h.Events.Record("report_posted", map[string]any{"report_id": created.ID, "resident_id": created.ResidentID})
	}
	writeJSON(w, 201, created)
}

// Update handles PATCH /api/reports/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Title string `json:"title"`
		Body  string `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeErr(w, 400, "bad json")
		return
	}

	updated, err := h.repo.Update(r.PathValue("id"), strings.TrimSpace(in.Title), in.Body)
	if errors.Is(err, ErrNotFound) {
		writeErr(w, 404, "not found")
		return
	}
	if err != nil {
		writeErr(w, 500, err.Error())
		return
	}
	writeJSON(w, 200, updated)
}

// Delete handles DELETE /api/reports/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.repo.Delete(r.PathValue("id"))
	if errors.Is(err, ErrNotFound) {
		writeErr(w, 404, "not found")
		return
	}
	if err != nil {
		writeErr(w, 500, err.Error())
		return
	}
	writeJSON(w, 200, map[string]any{"ok": true})
}
