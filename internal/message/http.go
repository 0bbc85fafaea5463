package message

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Gregos2215/gestapp-sub000/internal/auth"
	"github.com/Gregos2215/gestapp-sub000/internal/model"
)

// Notifier receives a ping whenever a message is posted, so the rest
// of the console can surface it.
type Notifier interface {
	MessagePosted(body string)
}

// EventRecorder receives activity events for the admin stats page.
type EventRecorder interface {
	Record(kind string, meta map[string]any)
}

type Handler struct {
	repo     *FileRepo
	notifier Notifier

	// Events is optional.
	Events EventRecorder
}

func NewHandler(repo *FileRepo, notifier Notifier) *Handler {
	return &Handler{repo: repo, notifier: notifier}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

func senderFromRequest(r *http.Request) *model.ActorStamp {
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

type messageView struct {
	model.Message
	Read bool `json:"read"`
}

// List handles GET /api/messages. Each row carries a per-viewer read
// flag so the client can badge unread messages.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.repo.List()
	if err != nil {
		writeErr(w, 500, err.Error())
		return
	}

	var viewerID string
	if u, ok := auth.UserFromContext(r.Context()); ok {
		viewerID = u.ID
	}
	out := make([]messageView, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, messageView{Message: m, Read: m.HasRead(viewerID)})
	}
	writeJSON(w, 200, out)
}

// Create handles POST /api/messages.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Body string `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeErr(w, 400, "bad json")
		return
	}
	if strings.TrimSpace(in.Body) == "" {
		writeErr(w, 400, "body is required")
		return
	}

	created, err := h.repo.Create(model.Message{
		Body:   strings.TrimSpace(in.Body),
		Sender: senderFromRequest(r),
	})
	if err != nil {
		writeErr(w, 500, err.Error())
		return
	}
	if h.notifier != nil {
		h.notifier.MessagePosted(created.Body)
	}
	if h.Events != nil {
		h.Events.Record("message_sent", map[string]any{"message_id": created.ID})
	}
	writeJSON(w, 201, created)
}

// MarkRead handles POST /api/messages/{id}/read for the signed-in
// user.
func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeErr(w, 401, "sign in required")
		return
	}

	m, err := h.repo.MarkRead(r.PathValue("id"), u.ID)
	if errors.Is(err, ErrNotFound) {
		writeErr(w, 404, "not found")
		return
	}
	if err != nil {
		writeErr(w, 500, err.Error())
		return
	}
	writeJSON(w, 200, messageView{Message: m, Read: true})
}

// Delete handles DELETE /api/messages/{id}.
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
