package resident

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Gregos2215/gestapp-sub000/internal/model"
)

type Handler struct {
	repo *FileRepo
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

type upsertRequest struct {
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Room      string     `json:"room"`
	BirthDate *time.Time `json:"birthDate"`
	Notes     string     `json:"notes"`
}

// List handles GET /api/residents.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	includeArchived := r.URL.Query().Get("archived") == "true"
	out, err := h.repo.List(includeArchived)
	if err != nil {
		writeErr(w, 500, err.Error())
		return
	}
	writeJSON(w, 200, out)
}

// Create handles POST /api/residents.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in upsertRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeErr(w, 400, "bad json")
		return
	}
	if strings.TrimSpace(in.FirstName) == "" && strings.TrimSpace(in.LastName) == "" {
		writeErr(w, 400, "a name is required")
		return
	}

	created, err := h.repo.Create(model.Resident{
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Room:      strings.TrimSpace(in.Room),
		BirthDate: in.BirthDate,
		Notes:     in.Notes,
	})
	if err != nil {
		writeErr(w, 500, err.Error())
		return
	}
	writeJSON(w, 201, created)
}

// Get handles GET /api/residents/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	res, err := h.repo.Get(r.PathValue("id"))
	if errors.Is(err, ErrNotFound) {
		writeErr(w, 404, "not found")
		return
	}
	if err != nil {
		writeErr(w, 500, err.Error())
		return
	}
	writeJSON(w, 200, res)
}

// Update handles PATCH /api/residents/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var in struct {
		FirstName *string    `json:"firstName"`
		LastName  *string    `json:"lastName"`
		Room      *string    `json:"room"`
		BirthDate *time.Time `json:"birthDate"`
		Notes     *string    `json:"notes"`
		Archived  *bool      `json:"archived"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeErr(w, 400, "bad json")
		return
	}

	updated, err := h.repo.Update(r.PathValue("id"), func(res *model.Resident) {
		if in.FirstName != nil {
			res.FirstName = strings.TrimSpace(*in.FirstName)
		}
		if in.LastName != nil {
			res.LastName = strings.TrimSpace(*in.LastName)
		}
		if in.Room != nil {
			res.Room = strings.TrimSpace(*in.Room)
		}
		if in.BirthDate != nil {
			res.BirthDate = in.BirthDate
		}
		if in.Notes != nil {
			res.Notes = *in.Notes
		}
		if in.Archived != nil {
			res.Archived = *in.Archived
		}
	})
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
