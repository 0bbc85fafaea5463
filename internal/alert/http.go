package alert

import (
	"encoding/json"
	"errors"
	"net/http"
)

type Handler struct {
	center *Center
}

func NewHandler(center *Center) *Handler {
	return &Handler{center: center}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// List handles GET /api/alerts. Unread only by default, ?all=true for
// history.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	includeRead := r.URL.Query().Get("all") == "true"
	writeJSON(w, 200, map[string]any{
		"alerts": h.center.List(includeRead),
		"unread": h.center.Unread(),
	})
}

// MarkRead handles POST /api/alerts/{id}/read.
func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	a, err := h.center.MarkRead(r.PathValue("id"))
	if errors.Is(err, ErrNotFound) {
		writeJSON(w, 404, map[string]any{"error": "not found"})
		return
	}
	writeJSON(w, 200, a)
}
